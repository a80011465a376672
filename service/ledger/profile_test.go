package ledger

import (
	"context"
	"encoding/json"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donatejar/donatejar/service/fault"
)

// staticNames resolves every address to the same name, or fails.
type staticNames struct {
	name string
	err  error
}

func (s staticNames) Lookup(context.Context, common.Address) (string, error) {
	return s.name, s.err
}

func TestProfileResolve(t *testing.T) {
	h := newHarness(t)
	total := big.NewInt(10000000000000000)
	h.handleContractReads(t, map[string][]byte{
		"totalDonated": encodeBigInt(t, "totalDonated", total),
		"getRank":      encodeUint8(t, "getRank", uint8(RankPatron)),
	})

	resolver := NewProfileResolver(h.gateway, staticNames{name: "vitalik.eth"}, nil, testLogger())

	profile, err := resolver.Resolve(context.Background(), h.session.Address())
	require.NoError(t, err)
	assert.Equal(t, h.session.Address(), profile.Address)
	assert.Equal(t, "vitalik.eth", profile.Nickname)
	assert.Zero(t, total.Cmp(profile.TotalDonated))
	assert.Equal(t, RankPatron, profile.Rank)
	assert.Equal(t, "Patron", profile.Rank.String())
}

func TestProfileResolve_NameLookupFailureTolerated(t *testing.T) {
	h := newHarness(t)
	h.handleContractReads(t, map[string][]byte{
		"totalDonated": encodeBigInt(t, "totalDonated", big.NewInt(0)),
		"getRank":      encodeUint8(t, "getRank", uint8(RankNone)),
	})

	resolver := NewProfileResolver(h.gateway, staticNames{err: assert.AnError}, nil, testLogger())

	profile, err := resolver.Resolve(context.Background(), h.session.Address())
	require.NoError(t, err)
	assert.Empty(t, profile.Nickname)
	assert.Equal(t, RankNone, profile.Rank)
}

func TestProfileResolve_NilNameResolver(t *testing.T) {
	h := newHarness(t)
	h.handleContractReads(t, map[string][]byte{
		"totalDonated": encodeBigInt(t, "totalDonated", big.NewInt(0)),
		"getRank":      encodeUint8(t, "getRank", uint8(RankNone)),
	})

	resolver := NewProfileResolver(h.gateway, nil, nil, testLogger())

	profile, err := resolver.Resolve(context.Background(), h.session.Address())
	require.NoError(t, err)
	assert.Empty(t, profile.Nickname)
}

func TestProfileResolve_UnknownRankOrdinal(t *testing.T) {
	h := newHarness(t)
	h.handleContractReads(t, map[string][]byte{
		"totalDonated": encodeBigInt(t, "totalDonated", big.NewInt(1)),
		"getRank":      encodeUint8(t, "getRank", 9),
	})

	resolver := NewProfileResolver(h.gateway, nil, nil, testLogger())

	_, err := resolver.Resolve(context.Background(), h.session.Address())
	require.Error(t, err)
	assert.True(t, fault.Is(err, fault.ProfileUnavailable))
}

func TestProfileResolve_RequiredReadFailure(t *testing.T) {
	h := newHarness(t)
	h.mock.Handle("eth_call", func(json.RawMessage) (any, error) {
		return nil, assert.AnError
	})

	resolver := NewProfileResolver(h.gateway, nil, nil, testLogger())

	_, err := resolver.Resolve(context.Background(), h.session.Address())
	require.Error(t, err)
	assert.True(t, fault.Is(err, fault.ProfileUnavailable))
}
