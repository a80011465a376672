// Package ens resolves human-readable nicknames for addresses through the
// ENS reverse registrar. Lookups are best-effort by design: callers treat
// any failure, including "no name registered", as an absent nickname.
package ens

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/donatejar/donatejar/service/provider"
)

// DefaultRegistryAddress is the canonical ENS registry deployment.
const DefaultRegistryAddress = "0x00000000000C2E074eC69A0dFb2997BA6C7d2e1e"

const (
	registryABIJSON = `[{"type":"function","name":"resolver","stateMutability":"view","inputs":[{"name":"node","type":"bytes32"}],"outputs":[{"name":"","type":"address"}]}]`
	resolverABIJSON = `[{"type":"function","name":"name","stateMutability":"view","inputs":[{"name":"node","type":"bytes32"}],"outputs":[{"name":"","type":"string"}]}]`
)

var (
	registryABI = mustParseABI(registryABIJSON)
	resolverABI = mustParseABI(resolverABIJSON)
)

func mustParseABI(src string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(src))
	if err != nil {
		panic(err)
	}
	return parsed
}

// Namehash computes the ENS node for a dot-separated name (EIP-137).
func Namehash(name string) common.Hash {
	node := make([]byte, 32)
	if name == "" {
		return common.BytesToHash(node)
	}
	labels := strings.Split(name, ".")
	for i := len(labels) - 1; i >= 0; i-- {
		labelHash := crypto.Keccak256([]byte(labels[i]))
		node = crypto.Keccak256(node, labelHash)
	}
	return common.BytesToHash(node)
}

// ReverseNode returns the node for an address's reverse record
// ({hex-address-sans-0x}.addr.reverse).
func ReverseNode(addr common.Address) common.Hash {
	hexAddr := strings.ToLower(strings.TrimPrefix(addr.Hex(), "0x"))
	return Namehash(hexAddr + ".addr.reverse")
}

// Resolver looks up reverse names through the ENS registry over the same
// wallet provider the rest of the client uses.
type Resolver struct {
	provider provider.Provider
	registry common.Address
	logger   *slog.Logger
}

// NewResolver creates a resolver against the given registry deployment.
func NewResolver(p provider.Provider, registry common.Address, logger *slog.Logger) *Resolver {
	return &Resolver{
		provider: p,
		registry: registry,
		logger:   logger,
	}
}

// Lookup resolves the reverse name for an address. An empty string with a
// nil error means no name is registered.
func (r *Resolver) Lookup(ctx context.Context, addr common.Address) (string, error) {
	node := ReverseNode(addr)

	resolverData, err := registryABI.Pack("resolver", node)
	if err != nil {
		return "", errors.Wrap(err, "pack resolver call")
	}
	out, err := r.ethCall(ctx, r.registry, resolverData)
	if err != nil {
		return "", errors.Wrap(err, "registry resolver lookup")
	}
	unpacked, err := registryABI.Unpack("resolver", out)
	if err != nil {
		return "", errors.Wrap(err, "unpack resolver address")
	}
	resolverAddr := *abi.ConvertType(unpacked[0], new(common.Address)).(*common.Address)
	if resolverAddr == (common.Address{}) {
		// No resolver set: no name registered.
		return "", nil
	}

	nameData, err := resolverABI.Pack("name", node)
	if err != nil {
		return "", errors.Wrap(err, "pack name call")
	}
	out, err = r.ethCall(ctx, resolverAddr, nameData)
	if err != nil {
		return "", errors.Wrap(err, "resolver name lookup")
	}
	unpacked, err = resolverABI.Unpack("name", out)
	if err != nil {
		return "", errors.Wrap(err, "unpack name")
	}
	name := *abi.ConvertType(unpacked[0], new(string)).(*string)

	r.logger.DebugContext(ctx, "reverse name resolved",
		"address", addr.Hex(),
		"name", name,
	)
	return name, nil
}

func (r *Resolver) ethCall(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	params := []any{
		map[string]string{
			"to":   to.Hex(),
			"data": hexutil.Encode(data),
		},
		"latest",
	}

	raw, err := r.provider.Request(ctx, "eth_call", params)
	if err != nil {
		return nil, err
	}

	var outHex string
	if err := json.Unmarshal(raw, &outHex); err != nil {
		return nil, errors.Wrap(err, "decode eth_call result")
	}
	return hexutil.Decode(outHex)
}
