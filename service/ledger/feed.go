package ledger

import (
	"context"
	"log/slog"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/donatejar/donatejar/service/metrics"
)

// Feed is the client-side cache of sent and received donation lists. A
// refresh replaces both lists wholesale with no incremental merge, which keeps
// the model simple and avoids stale-entry bugs from reordering. While a
// refresh is in flight the previous lists stay readable, so callers can show
// stale-but-available data behind a loading indicator instead of a blank
// view.
type Feed struct {
	gateway *Gateway
	logger  *slog.Logger
	metrics *metrics.Metrics

	mu         sync.RWMutex
	sent       []Donation
	received   []Donation
	refreshing bool
}

// NewFeed creates an empty feed. If m is nil, no metrics are recorded.
func NewFeed(gateway *Gateway, m *metrics.Metrics, logger *slog.Logger) *Feed {
	return &Feed{
		gateway: gateway,
		logger:  logger,
		metrics: m,
	}
}

// Refresh fetches both lists for the address and replaces the caches.
// Expected once after a successful connect and once after every confirmed
// donation. On failure the previous caches are left untouched.
func (f *Feed) Refresh(ctx context.Context, addr common.Address) (sent, received []Donation, err error) {
	f.mu.Lock()
	f.refreshing = true
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.refreshing = false
		f.mu.Unlock()
		if f.metrics != nil {
			f.metrics.RecordFeedRefresh(err)
		}
	}()

	sent, err = f.gateway.ListSent(ctx, addr)
	if err != nil {
		return nil, nil, err
	}
	received, err = f.gateway.ListReceived(ctx, addr)
	if err != nil {
		return nil, nil, err
	}

	f.mu.Lock()
	f.sent = sent
	f.received = received
	f.mu.Unlock()

	f.logger.DebugContext(ctx, "donation feed refreshed",
		"address", addr.Hex(),
		"sent", len(sent),
		"received", len(received),
	)
	return sent, received, nil
}

// Sent returns a copy of the cached sent list.
func (f *Feed) Sent() []Donation {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]Donation, len(f.sent))
	copy(out, f.sent)
	return out
}

// Received returns a copy of the cached received list.
func (f *Feed) Received() []Donation {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]Donation, len(f.received))
	copy(out, f.received)
	return out
}

// Refreshing reports whether a refresh is currently in flight.
func (f *Feed) Refreshing() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.refreshing
}
