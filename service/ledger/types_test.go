package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRankString(t *testing.T) {
	assert.Equal(t, "None", RankNone.String())
	assert.Equal(t, "Supporter", RankSupporter.String())
	assert.Equal(t, "Donator", RankDonator.String())
	assert.Equal(t, "Patron", RankPatron.String())
	assert.Equal(t, "Whale", RankWhale.String())
}

func TestRankValid(t *testing.T) {
	for ordinal := uint8(0); ordinal < rankCount; ordinal++ {
		assert.True(t, Rank(ordinal).Valid(), "ordinal %d", ordinal)
	}
	assert.False(t, Rank(5).Valid())
	assert.False(t, Rank(255).Valid())
	assert.Equal(t, "Unknown", Rank(5).String())
}

func TestTxStateString(t *testing.T) {
	assert.Equal(t, "submitted", TxSubmitted.String())
	assert.Equal(t, "confirmed", TxConfirmed.String())
	assert.Equal(t, "reverted", TxReverted.String())
	assert.Equal(t, "rejected", TxRejected.String())
	assert.Equal(t, "unknown", TxState(42).String())
}
