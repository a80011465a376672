package wallet

import (
	"context"
	"log/slog"
	"time"

	"github.com/donatejar/donatejar/service/fault"
	"github.com/donatejar/donatejar/service/metrics"
	"github.com/donatejar/donatejar/service/provider"
)

// ChainGuard verifies and enforces that the connected provider is pointed at
// the target network, adding the network definition when the provider does
// not recognize it.
type ChainGuard struct {
	provider provider.Provider
	target   NetworkTarget
	logger   *slog.Logger
	metrics  *metrics.Metrics
	endpoint string
}

// NewChainGuard creates a guard for the given target network.
// If m is nil, no metrics are recorded.
func NewChainGuard(p provider.Provider, target NetworkTarget, m *metrics.Metrics, logger *slog.Logger) *ChainGuard {
	return &ChainGuard{
		provider: p,
		target:   target,
		logger:   logger,
		metrics:  m,
		endpoint: target.Name,
	}
}

// Target returns the network this guard enforces.
func (g *ChainGuard) Target() NetworkTarget { return g.target }

// EnsureNetwork requests a switch to the target chain. If the provider does
// not recognize the chain it issues exactly one add-network request carrying
// the full descriptor. Idempotent: already being on the target network is a
// no-op success. May prompt the user through the provider's own UI, so the
// call can suspend for an arbitrarily long time.
func (g *ChainGuard) EnsureNetwork(ctx context.Context) error {
	if g.provider == nil {
		return fault.New(fault.WalletUnavailable, "no wallet provider present")
	}

	switchParams := []any{map[string]string{"chainId": g.target.ChainIDHex()}}

	err := g.request(ctx, "wallet_switchEthereumChain", switchParams)
	if err == nil {
		g.logger.DebugContext(ctx, "on target network",
			"chain_id", g.target.ChainIDHex(),
			"network", g.target.Name,
		)
		return nil
	}

	code, coded := provider.ErrorCode(err)
	if coded && code == provider.CodeUnrecognizedChain {
		g.logger.InfoContext(ctx, "provider does not know target chain, adding it",
			"chain_id", g.target.ChainIDHex(),
			"network", g.target.Name,
		)

		addErr := g.request(ctx, "wallet_addEthereumChain", []any{g.target.addChainDescriptor()})
		if addErr != nil {
			if addCode, ok := provider.ErrorCode(addErr); ok && addCode == provider.CodeUserRejected {
				return fault.Wrap(addErr, fault.UserRejected, "user declined to add network %s", g.target.Name)
			}
			return fault.Wrap(addErr, fault.UnsupportedChainAdd, "provider could not add network %s", g.target.Name)
		}
		return nil
	}

	if coded && code == provider.CodeUserRejected {
		return fault.Wrap(err, fault.UserRejected, "user declined to switch to %s", g.target.Name)
	}
	return fault.Wrap(err, fault.NetworkMismatch, "could not switch provider to %s", g.target.Name)
}

func (g *ChainGuard) request(ctx context.Context, method string, params any) error {
	start := time.Now()
	_, err := g.provider.Request(ctx, method, params)
	duration := time.Since(start).Seconds()

	status := "success"
	if err != nil {
		status = "error"
	}
	if g.metrics != nil {
		g.metrics.RecordRPCCall(method, status, g.endpoint, duration)
	}
	return err
}
