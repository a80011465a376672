package ledger

import (
	"context"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"

	"github.com/donatejar/donatejar/service/fault"
	"github.com/donatejar/donatejar/service/metrics"
)

// NameResolver performs a best-effort reverse name lookup for an address.
// Failure, including "no name registered", must never abort profile
// resolution.
type NameResolver interface {
	Lookup(ctx context.Context, addr common.Address) (string, error)
}

// NoopNameResolver never resolves a name.
type NoopNameResolver struct{}

func (NoopNameResolver) Lookup(context.Context, common.Address) (string, error) { return "", nil }

// ProfileResolver derives a user-facing account profile from contract reads
// plus the optional name lookup.
type ProfileResolver struct {
	gateway *Gateway
	names   NameResolver
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewProfileResolver creates a resolver. A nil names resolver degrades to
// always-absent nicknames.
func NewProfileResolver(gateway *Gateway, names NameResolver, m *metrics.Metrics, logger *slog.Logger) *ProfileResolver {
	if names == nil {
		names = NoopNameResolver{}
	}
	return &ProfileResolver{
		gateway: gateway,
		names:   names,
		logger:  logger,
		metrics: m,
	}
}

// Resolve builds the profile for an address. The nickname lookup is
// best-effort; the totalDonated and rank reads are required, and either
// failing fails the whole resolution.
func (r *ProfileResolver) Resolve(ctx context.Context, addr common.Address) (profile *AccountProfile, err error) {
	defer func() {
		if r.metrics != nil {
			r.metrics.RecordProfileRead(err)
		}
	}()

	nickname, nameErr := r.names.Lookup(ctx, addr)
	if nameErr != nil {
		r.logger.DebugContext(ctx, "name lookup failed, continuing without nickname",
			"address", addr.Hex(),
			"error", nameErr,
		)
		nickname = ""
	}

	total, err := r.gateway.TotalDonated(ctx, addr)
	if err != nil {
		return nil, fault.Wrap(err, fault.ProfileUnavailable, "could not read total donated for %s", addr.Hex())
	}

	ordinal, err := r.gateway.RankOrdinal(ctx, addr)
	if err != nil {
		return nil, fault.Wrap(err, fault.ProfileUnavailable, "could not read rank for %s", addr.Hex())
	}

	rank := Rank(ordinal)
	if !rank.Valid() {
		// A contract returning an ordinal outside the label table is a
		// defect to surface, never an undefined label.
		return nil, fault.New(fault.ProfileUnavailable, "contract returned unknown rank ordinal %d", ordinal)
	}

	return &AccountProfile{
		Address:      addr,
		Nickname:     nickname,
		TotalDonated: total,
		Rank:         rank,
	}, nil
}
