package ens

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donatejar/donatejar/service/provider"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNamehash(t *testing.T) {
	// EIP-137 reference vectors.
	assert.Equal(t,
		"0x0000000000000000000000000000000000000000000000000000000000000000",
		Namehash("").Hex(),
	)
	assert.Equal(t,
		"0x93cdeb708b7545dc668eb9280176169d1c33cfd8ed6f04690a0bcc88a93fc4ae",
		Namehash("eth").Hex(),
	)
	assert.Equal(t,
		"0xde9b09fd7c5f901e23a3f19fecc54828e9c848539801e86591bd9801b019f84f",
		Namehash("foo.eth").Hex(),
	)
}

func TestReverseNode(t *testing.T) {
	addr := common.HexToAddress("0x1111111111111111111111111111111111111111")
	// The reverse node is a namehash of the lowercase hex address without
	// its 0x prefix under addr.reverse.
	assert.Equal(t,
		Namehash("1111111111111111111111111111111111111111.addr.reverse"),
		ReverseNode(addr),
	)
	// Casing of the input address never changes the node.
	assert.Equal(t, ReverseNode(addr), ReverseNode(common.HexToAddress("0x1111111111111111111111111111111111111111")))
}

// scriptLookup wires a mock provider that answers the two-step reverse
// lookup: registry resolver(node), then name(node) on the resolver.
func scriptLookup(t *testing.T, registry, resolverAddr common.Address, name string) *provider.MockProvider {
	t.Helper()
	mock := provider.NewMockProvider()
	mock.Handle("eth_call", func(params json.RawMessage) (any, error) {
		var elems []json.RawMessage
		require.NoError(t, json.Unmarshal(params, &elems))
		var req struct {
			To   string `json:"to"`
			Data string `json:"data"`
		}
		require.NoError(t, json.Unmarshal(elems[0], &req))

		switch common.HexToAddress(req.To) {
		case registry:
			out, err := registryABI.Methods["resolver"].Outputs.Pack(resolverAddr)
			require.NoError(t, err)
			return hexutil.Encode(out), nil
		case resolverAddr:
			out, err := resolverABI.Methods["name"].Outputs.Pack(name)
			require.NoError(t, err)
			return hexutil.Encode(out), nil
		default:
			t.Fatalf("eth_call against unexpected contract %s", req.To)
			return nil, nil
		}
	})
	return mock
}

func TestLookup(t *testing.T) {
	registry := common.HexToAddress(DefaultRegistryAddress)
	resolverAddr := common.HexToAddress("0x3333333333333333333333333333333333333333")
	addr := common.HexToAddress("0x1111111111111111111111111111111111111111")

	mock := scriptLookup(t, registry, resolverAddr, "vitalik.eth")
	r := NewResolver(mock, registry, testLogger())

	name, err := r.Lookup(context.Background(), addr)
	require.NoError(t, err)
	assert.Equal(t, "vitalik.eth", name)
	// One registry read plus one resolver read.
	assert.Equal(t, 2, mock.CallCount("eth_call"))
}

func TestLookup_NoResolverMeansNoName(t *testing.T) {
	registry := common.HexToAddress(DefaultRegistryAddress)
	addr := common.HexToAddress("0x1111111111111111111111111111111111111111")

	// The registry reports the zero address: nothing registered.
	mock := provider.NewMockProvider()
	mock.Handle("eth_call", func(json.RawMessage) (any, error) {
		out, err := registryABI.Methods["resolver"].Outputs.Pack(common.Address{})
		require.NoError(t, err)
		return hexutil.Encode(out), nil
	})

	r := NewResolver(mock, registry, testLogger())

	name, err := r.Lookup(context.Background(), addr)
	require.NoError(t, err)
	assert.Empty(t, name)
	assert.Equal(t, 1, mock.CallCount("eth_call"))
}

func TestLookup_RegistryFailure(t *testing.T) {
	registry := common.HexToAddress(DefaultRegistryAddress)
	addr := common.HexToAddress("0x1111111111111111111111111111111111111111")

	mock := provider.NewMockProvider()
	mock.HandleError("eth_call", assert.AnError)

	r := NewResolver(mock, registry, testLogger())

	_, err := r.Lookup(context.Background(), addr)
	require.Error(t, err)
}
