package wallet

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"

	"github.com/donatejar/donatejar/service/fault"
	"github.com/donatejar/donatejar/service/provider"
)

// State is the session lifecycle.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "unknown"
	}
}

// Session owns wallet connection state: the active address and the
// connect/disconnect lifecycle. The address is read-only to every other
// component.
type Session struct {
	provider provider.Provider
	guard    *ChainGuard
	logger   *slog.Logger

	mu      sync.Mutex
	state   State
	address common.Address
}

// NewSession creates a disconnected session.
func NewSession(p provider.Provider, guard *ChainGuard, logger *slog.Logger) *Session {
	return &Session{
		provider: p,
		guard:    guard,
		logger:   logger,
	}
}

// Connect validates the target network, then requests the provider's account
// list and takes the first account as the active address. Safe to call
// repeatedly: concurrent calls serialize, and a call on an already-connected
// session only re-validates the network rather than re-prompting for
// accounts.
func (s *Session) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.provider == nil {
		return fault.New(fault.WalletUnavailable, "no wallet provider present")
	}

	if s.state == StateConnected {
		// Re-validate only; no duplicate account prompt.
		return s.guard.EnsureNetwork(ctx)
	}

	s.state = StateConnecting

	// Network first: no partial session if the user refuses the switch.
	if err := s.guard.EnsureNetwork(ctx); err != nil {
		s.state = StateDisconnected
		return err
	}

	raw, err := s.provider.Request(ctx, "eth_requestAccounts", []any{})
	if err != nil {
		s.state = StateDisconnected
		if code, ok := provider.ErrorCode(err); ok && code == provider.CodeUserRejected {
			return fault.Wrap(err, fault.UserRejected, "user declined the account request")
		}
		return fault.Wrap(err, fault.WalletUnavailable, "account request failed")
	}

	var accounts []string
	if err := json.Unmarshal(raw, &accounts); err != nil {
		s.state = StateDisconnected
		return fault.Wrap(errors.Wrap(err, "decode accounts"), fault.WalletUnavailable, "malformed account list from provider")
	}
	if len(accounts) == 0 {
		s.state = StateDisconnected
		return fault.New(fault.NoAccounts, "provider exposes no accounts")
	}
	if !common.IsHexAddress(accounts[0]) {
		s.state = StateDisconnected
		return fault.New(fault.WalletUnavailable, "provider returned malformed account %q", accounts[0])
	}

	s.address = common.HexToAddress(accounts[0])
	s.state = StateConnected

	s.logger.InfoContext(ctx, "wallet connected",
		"address", s.address.Hex(),
		"network", s.guard.Target().Name,
	)
	return nil
}

// Disconnect clears the session. Passive: no provider call is made, the
// wallet itself keeps whatever permissions it granted. Dependent components
// must treat subsequent reads/writes as disallowed until reconnected.
func (s *Session) Disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateDisconnected
	s.address = common.Address{}
	s.logger.Info("wallet disconnected")
}

// Connected reports whether a session is established.
func (s *Session) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateConnected
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Address returns the active account. The zero address means no session.
func (s *Session) Address() common.Address {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.address
}
