package ledger

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Donation is one entry in the contract's ledger. Immutable once read.
// Ordering is whatever the contract returns (insertion order in practice,
// but not guaranteed sorted).
type Donation struct {
	Donator   common.Address `json:"donator"`
	Recipient common.Address `json:"recipient"`
	Amount    *big.Int       `json:"amount"` // wei
	Message   string         `json:"message"`
	Timestamp time.Time      `json:"timestamp"` // assigned by the contract at inclusion
}

// Rank is the reputation tier the contract computes from cumulative
// donations. The client treats the ordinal as opaque output of a contract
// read and never infers thresholds itself.
type Rank uint8

const (
	RankNone Rank = iota
	RankSupporter
	RankDonator
	RankPatron
	RankWhale

	rankCount = 5
)

// rankLabels is the fixed, explicitly ordered label table.
var rankLabels = [rankCount]string{"None", "Supporter", "Donator", "Patron", "Whale"}

// Valid reports whether the ordinal falls inside the known table.
func (r Rank) Valid() bool { return r < rankCount }

func (r Rank) String() string {
	if !r.Valid() {
		return "Unknown"
	}
	return rankLabels[r]
}

// AccountProfile is the user-facing view of an account derived from contract
// reads plus a best-effort name lookup.
type AccountProfile struct {
	Address      common.Address `json:"address"`
	Nickname     string         `json:"nickname,omitempty"` // out-of-band, not authoritative
	TotalDonated *big.Int       `json:"total_donated"`      // wei
	Rank         Rank           `json:"rank"`
}

// TxState is the lifecycle of a submitted transaction. Once broadcast, the
// only terminal on-chain states are Confirmed and Reverted; Rejected means
// the user declined the signing prompt and nothing was broadcast.
type TxState int

const (
	TxSubmitted TxState = iota
	TxConfirmed
	TxReverted
	TxRejected
)

func (s TxState) String() string {
	switch s {
	case TxSubmitted:
		return "submitted"
	case TxConfirmed:
		return "confirmed"
	case TxReverted:
		return "reverted"
	case TxRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// TxResult identifies a terminal-state transaction. A Confirmed result
// signals callers to refresh derived views (feed, profile).
type TxResult struct {
	Hash  common.Hash `json:"hash"`
	State TxState     `json:"state"`
}
