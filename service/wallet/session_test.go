package wallet

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donatejar/donatejar/service/fault"
	"github.com/donatejar/donatejar/service/provider"
)

func TestConnect_HappyPath(t *testing.T) {
	mock := provider.NewMockProvider()
	mock.HandleResult("wallet_switchEthereumChain", nil)
	mock.HandleResult("eth_requestAccounts", []string{"0x8def9a62a963e466efb47edaa77e21d21bfb5495"})

	sess := NewSession(mock, NewChainGuard(mock, testTarget(), nil, testLogger()), testLogger())

	require.NoError(t, sess.Connect(context.Background()))
	assert.True(t, sess.Connected())
	assert.Equal(t, StateConnected, sess.State())
	// Address is checksummed regardless of the casing the provider returned.
	assert.Equal(t, "0x8def9A62A963e466EFB47EDaA77e21D21Bfb5495", sess.Address().Hex())
}

func TestConnect_NoProvider(t *testing.T) {
	sess := NewSession(nil, NewChainGuard(nil, testTarget(), nil, testLogger()), testLogger())

	err := sess.Connect(context.Background())
	require.Error(t, err)
	assert.True(t, fault.Is(err, fault.WalletUnavailable))
	assert.False(t, sess.Connected())
}

func TestConnect_NetworkFailureAbortsBeforeAccountPrompt(t *testing.T) {
	mock := provider.NewMockProvider()
	mock.HandleError("wallet_switchEthereumChain", &provider.RPCError{
		Code:    provider.CodeUserRejected,
		Message: "User rejected the request",
	})

	sess := NewSession(mock, NewChainGuard(mock, testTarget(), nil, testLogger()), testLogger())

	err := sess.Connect(context.Background())
	require.Error(t, err)
	assert.True(t, fault.Is(err, fault.UserRejected))
	assert.Equal(t, StateDisconnected, sess.State())
	assert.Equal(t, 0, mock.CallCount("eth_requestAccounts"))
}

func TestConnect_ZeroAccounts(t *testing.T) {
	mock := provider.NewMockProvider()
	mock.HandleResult("wallet_switchEthereumChain", nil)
	mock.HandleResult("eth_requestAccounts", []string{})

	sess := NewSession(mock, NewChainGuard(mock, testTarget(), nil, testLogger()), testLogger())

	err := sess.Connect(context.Background())
	require.Error(t, err)
	assert.True(t, fault.Is(err, fault.NoAccounts))
	assert.Equal(t, StateDisconnected, sess.State())
	assert.False(t, sess.Connected())
}

func TestConnect_UserRejectsAccountRequest(t *testing.T) {
	mock := provider.NewMockProvider()
	mock.HandleResult("wallet_switchEthereumChain", nil)
	mock.HandleError("eth_requestAccounts", &provider.RPCError{
		Code:    provider.CodeUserRejected,
		Message: "User rejected the request",
	})

	sess := NewSession(mock, NewChainGuard(mock, testTarget(), nil, testLogger()), testLogger())

	err := sess.Connect(context.Background())
	require.Error(t, err)
	assert.True(t, fault.Is(err, fault.UserRejected))
	assert.Equal(t, StateDisconnected, sess.State())
}

func TestConnect_AlreadyConnected_RevalidatesOnly(t *testing.T) {
	mock := provider.NewMockProvider()
	mock.HandleResult("wallet_switchEthereumChain", nil)
	mock.HandleResult("eth_requestAccounts", []string{"0x8def9a62a963e466efb47edaa77e21d21bfb5495"})

	sess := NewSession(mock, NewChainGuard(mock, testTarget(), nil, testLogger()), testLogger())

	require.NoError(t, sess.Connect(context.Background()))
	require.NoError(t, sess.Connect(context.Background()))

	// Second connect re-checks the network but never re-prompts for accounts.
	assert.Equal(t, 2, mock.CallCount("wallet_switchEthereumChain"))
	assert.Equal(t, 1, mock.CallCount("eth_requestAccounts"))
}

func TestDisconnect(t *testing.T) {
	mock := provider.NewMockProvider()
	mock.HandleResult("wallet_switchEthereumChain", nil)
	mock.HandleResult("eth_requestAccounts", []string{"0x8def9a62a963e466efb47edaa77e21d21bfb5495"})

	sess := NewSession(mock, NewChainGuard(mock, testTarget(), nil, testLogger()), testLogger())
	require.NoError(t, sess.Connect(context.Background()))

	sess.Disconnect()
	assert.False(t, sess.Connected())
	assert.Equal(t, StateDisconnected, sess.State())
	assert.True(t, sess.Address() == (common.Address{}))

	// Disconnect is passive; no provider call is issued.
	assert.Equal(t, 1, mock.CallCount("eth_requestAccounts"))
}
