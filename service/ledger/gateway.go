package ledger

import (
	"context"
	"encoding/json"
	"log/slog"
	"math/big"
	"strings"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/donatejar/donatejar/service/events"
	"github.com/donatejar/donatejar/service/fault"
	"github.com/donatejar/donatejar/service/metrics"
	"github.com/donatejar/donatejar/service/provider"
	"github.com/donatejar/donatejar/service/wallet"
)

// DefaultConfirmInterval is how often the gateway polls for a receipt while
// a submitted transaction awaits inclusion.
const DefaultConfirmInterval = 2 * time.Second

// GatewayConfig wires a Gateway's collaborators.
type GatewayConfig struct {
	Provider provider.Provider
	Session  *wallet.Session
	Guard    *wallet.ChainGuard
	Contract common.Address

	// Optional. Nil disables the respective concern.
	Metrics   *metrics.Metrics
	Publisher events.Publisher
	Logger    *slog.Logger

	// ConfirmInterval defaults to DefaultConfirmInterval when zero.
	ConfirmInterval time.Duration
}

// Gateway provides typed read and write operations against the DonationJar
// contract, built on the active wallet session.
type Gateway struct {
	provider provider.Provider
	session  *wallet.Session
	guard    *wallet.ChainGuard
	contract common.Address

	logger    *slog.Logger
	metrics   *metrics.Metrics
	publisher events.Publisher
	endpoint  string

	confirmInterval time.Duration

	// Only one donation may be in flight per session. The provider has no
	// mutual exclusion of its own, so a second submit is rejected locally
	// before any provider call.
	inFlight atomic.Bool
}

// NewGateway creates a gateway against the configured contract.
func NewGateway(cfg GatewayConfig) *Gateway {
	interval := cfg.ConfirmInterval
	if interval <= 0 {
		interval = DefaultConfirmInterval
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	endpoint := ""
	if cfg.Guard != nil {
		endpoint = cfg.Guard.Target().Name
	}
	return &Gateway{
		provider:        cfg.Provider,
		session:         cfg.Session,
		guard:           cfg.Guard,
		contract:        cfg.Contract,
		logger:          logger,
		metrics:         cfg.Metrics,
		publisher:       cfg.Publisher,
		endpoint:        endpoint,
		confirmInterval: interval,
	}
}

// ListSent returns the donations the given address has sent. Reads are
// idempotent and reflect the provider's current view of chain state, which
// may lag the true head.
func (g *Gateway) ListSent(ctx context.Context, addr common.Address) ([]Donation, error) {
	data, err := packCall("getMyDonates")
	if err != nil {
		return nil, err
	}
	out, err := g.ethCall(ctx, addr, data)
	if err != nil {
		return nil, err
	}
	return unpackDonations("getMyDonates", out)
}

// ListReceived returns the donations the given address has received.
func (g *Gateway) ListReceived(ctx context.Context, addr common.Address) ([]Donation, error) {
	data, err := packCall("getReceivedDonations")
	if err != nil {
		return nil, err
	}
	out, err := g.ethCall(ctx, addr, data)
	if err != nil {
		return nil, err
	}
	return unpackDonations("getReceivedDonations", out)
}

// TotalDonated returns the cumulative amount the address has donated, in wei.
func (g *Gateway) TotalDonated(ctx context.Context, addr common.Address) (*big.Int, error) {
	data, err := packCall("totalDonated", addr)
	if err != nil {
		return nil, err
	}
	out, err := g.ethCall(ctx, addr, data)
	if err != nil {
		return nil, err
	}
	return unpackBigInt("totalDonated", out)
}

// RankOrdinal returns the contract's reputation ordinal for the address.
// The ordinal is opaque here; mapping to labels happens in the profile
// resolver, which also guards the valid range.
func (g *Gateway) RankOrdinal(ctx context.Context, addr common.Address) (uint8, error) {
	data, err := packCall("getRank", addr)
	if err != nil {
		return 0, err
	}
	out, err := g.ethCall(ctx, addr, data)
	if err != nil {
		return 0, err
	}
	return unpackUint8("getRank", out)
}

// SubmitOptions tunes a single donation submission.
type SubmitOptions struct {
	// ConfirmTimeout bounds the local wait for a receipt. Zero means wait
	// until the context is done. Expiry abandons the wait, not the
	// transaction: the tx may still confirm out-of-band.
	ConfirmTimeout time.Duration
}

// SubmitDonation moves money: it submits a transaction carrying amount (wei)
// as the attached value, then awaits inclusion. Two independently timed
// suspension points: provider acknowledgement of submission, then the
// receipt. It is never retried automatically: a failed or rejected
// submission surfaces to the caller, who decides whether to resubmit.
//
// On AwaitTimedOut the returned result still carries the transaction hash so
// the caller can keep watching out-of-band.
func (g *Gateway) SubmitDonation(ctx context.Context, recipient, message string, amount *big.Int, opts SubmitOptions) (*TxResult, error) {
	// Local validation first. No RPC is issued on violation.
	if g.session == nil || !g.session.Connected() {
		return nil, fault.New(fault.Validation, "wallet is not connected")
	}
	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		return nil, fault.New(fault.Validation, "recipient is required")
	}
	if !common.IsHexAddress(recipient) {
		return nil, fault.New(fault.Validation, "recipient %q is not a valid address", recipient)
	}
	if strings.TrimSpace(message) == "" {
		return nil, fault.New(fault.Validation, "message is required")
	}
	if amount == nil || amount.Sign() <= 0 {
		return nil, fault.New(fault.Validation, "amount must be strictly positive")
	}

	if !g.inFlight.CompareAndSwap(false, true) {
		return nil, fault.New(fault.OperationInProgress, "a donation is already awaiting confirmation")
	}
	defer g.inFlight.Store(false)

	// Defensive re-check: the user may have switched networks in the
	// provider since connecting. The guard's own faults (user rejection,
	// failed add) pass through; anything else is a network mismatch.
	if err := g.guard.EnsureNetwork(ctx); err != nil {
		if _, classified := fault.KindOf(err); classified {
			return nil, err
		}
		return nil, fault.Wrap(err, fault.NetworkMismatch, "target network is not active")
	}

	from := g.session.Address()
	to := common.HexToAddress(recipient)

	data, err := packCall("addDonate", to, message)
	if err != nil {
		return nil, fault.Wrap(err, fault.SubmissionFailed, "could not encode donation call")
	}

	pending, err := g.sendTransaction(ctx, from, data, amount)
	if err != nil {
		return nil, err
	}

	g.logger.InfoContext(ctx, "donation submitted",
		"tx_hash", pending.hash.Hex(),
		"from", from.Hex(),
		"recipient", to.Hex(),
		"amount_wei", amount.String(),
	)

	result, err := g.awaitReceipt(ctx, pending, opts.ConfirmTimeout)
	if err != nil {
		return result, err
	}

	g.logger.InfoContext(ctx, "donation confirmed", "tx_hash", result.Hash.Hex())
	g.publishConfirmed(ctx, result.Hash, from, to, amount, message)
	return result, nil
}

// pendingTx is the in-flight transaction state machine. Created at
// submission, destroyed once a terminal state is observed.
type pendingTx struct {
	hash      common.Hash
	state     TxState
	submitted time.Time
}

// sendTransaction is the first suspension point: the provider prompts the
// user and, on approval, broadcasts the transaction.
func (g *Gateway) sendTransaction(ctx context.Context, from common.Address, data []byte, amount *big.Int) (*pendingTx, error) {
	params := []any{map[string]string{
		"from":  from.Hex(),
		"to":    g.contract.Hex(),
		"value": hexutil.EncodeBig(amount),
		"data":  hexutil.Encode(data),
	}}

	raw, err := g.request(ctx, "eth_sendTransaction", params)
	if err != nil {
		if code, ok := provider.ErrorCode(err); ok && code == provider.CodeUserRejected {
			g.recordOutcome("rejected")
			return nil, fault.Wrap(err, fault.UserRejected, "user declined the signing prompt")
		}
		g.recordOutcome("error")
		return nil, fault.Wrap(err, fault.SubmissionFailed, "provider refused the transaction")
	}

	var hashHex string
	if err := json.Unmarshal(raw, &hashHex); err != nil {
		g.recordOutcome("error")
		return nil, fault.Wrap(errors.Wrap(err, "decode tx hash"), fault.SubmissionFailed, "malformed submission acknowledgement")
	}

	return &pendingTx{
		hash:      common.HexToHash(hashHex),
		state:     TxSubmitted,
		submitted: time.Now(),
	}, nil
}

// receipt is the subset of eth_getTransactionReceipt this gateway consumes.
type receipt struct {
	Status      string `json:"status"`
	BlockNumber string `json:"blockNumber"`
}

// awaitReceipt is the second suspension point: poll until the transaction
// reaches a terminal on-chain state or the local wait is abandoned. There is
// no cancellation of a broadcast transaction, only the waiting stops.
func (g *Gateway) awaitReceipt(ctx context.Context, pending *pendingTx, timeout time.Duration) (*TxResult, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	ticker := time.NewTicker(g.confirmInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			g.recordOutcome("timeout")
			g.recordWait("timeout", pending)
			return &TxResult{Hash: pending.hash, State: TxSubmitted},
				fault.Wrap(ctx.Err(), fault.AwaitTimedOut,
					"stopped waiting for tx %s; it may still confirm", pending.hash.Hex())

		case <-ticker.C:
			raw, err := g.request(ctx, "eth_getTransactionReceipt", []any{pending.hash.Hex()})
			if err != nil {
				// A flaky read does not decide the transaction's fate.
				g.logger.WarnContext(ctx, "receipt poll failed, will retry",
					"tx_hash", pending.hash.Hex(),
					"error", err,
				)
				continue
			}

			var rec *receipt
			if err := json.Unmarshal(raw, &rec); err != nil {
				g.logger.WarnContext(ctx, "malformed receipt, will retry",
					"tx_hash", pending.hash.Hex(),
					"error", err,
				)
				continue
			}
			if rec == nil {
				// Not yet included.
				continue
			}

			if rec.Status == "0x1" {
				pending.state = TxConfirmed
				g.recordOutcome("confirmed")
				g.recordWait("confirmed", pending)
				return &TxResult{Hash: pending.hash, State: TxConfirmed}, nil
			}

			pending.state = TxReverted
			g.recordOutcome("reverted")
			g.recordWait("reverted", pending)
			return &TxResult{Hash: pending.hash, State: TxReverted},
				fault.New(fault.Reverted, "tx %s reverted on-chain (block %s)", pending.hash.Hex(), rec.BlockNumber)
		}
	}
}

// publishConfirmed emits the confirmed donation to NATS. Best-effort: a
// publish failure is logged, never surfaced to the donor.
func (g *Gateway) publishConfirmed(ctx context.Context, hash common.Hash, from, to common.Address, amount *big.Int, message string) {
	if g.publisher == nil {
		return
	}

	event := &events.DonationEvent{
		TxHash:      hash.Hex(),
		Donator:     from.Hex(),
		Recipient:   to.Hex(),
		AmountWei:   amount.String(),
		Message:     message,
		ConfirmedAt: time.Now().UTC(),
		PublishedAt: time.Now().UTC(),
	}

	start := time.Now()
	err := g.publisher.PublishDonation(ctx, event)
	status := "success"
	if err != nil {
		status = "error"
		g.logger.WarnContext(ctx, "failed to publish donation event",
			"tx_hash", hash.Hex(),
			"error", err,
		)
	}
	if g.metrics != nil {
		g.metrics.RecordEventPublish(events.Subject(from.Hex()), status, time.Since(start).Seconds())
	}
}

// ethCall performs a read against the contract. The from address matters:
// the contract's list views resolve against msg.sender.
func (g *Gateway) ethCall(ctx context.Context, from common.Address, data []byte) ([]byte, error) {
	params := []any{
		map[string]string{
			"from": from.Hex(),
			"to":   g.contract.Hex(),
			"data": hexutil.Encode(data),
		},
		"latest",
	}

	raw, err := g.request(ctx, "eth_call", params)
	if err != nil {
		return nil, errors.Wrap(err, "contract read failed")
	}

	var outHex string
	if err := json.Unmarshal(raw, &outHex); err != nil {
		return nil, errors.Wrap(err, "decode eth_call result")
	}
	out, err := hexutil.Decode(outHex)
	if err != nil {
		return nil, errors.Wrap(err, "decode eth_call result bytes")
	}
	return out, nil
}

func (g *Gateway) request(ctx context.Context, method string, params any) (json.RawMessage, error) {
	start := time.Now()
	raw, err := g.provider.Request(ctx, method, params)
	duration := time.Since(start).Seconds()

	status := "success"
	if err != nil {
		status = "error"
	}
	if g.metrics != nil {
		g.metrics.RecordRPCCall(method, status, g.endpoint, duration)
	}
	return raw, err
}

func (g *Gateway) recordOutcome(outcome string) {
	if g.metrics != nil {
		g.metrics.RecordDonationSubmitted(outcome)
	}
}

func (g *Gateway) recordWait(outcome string, pending *pendingTx) {
	if g.metrics != nil {
		g.metrics.RecordConfirmWait(outcome, time.Since(pending.submitted).Seconds())
	}
}
