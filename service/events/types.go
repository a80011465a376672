package events

import "time"

// DonationEvent is a confirmed donation published to NATS.
// Published to the subject "donations.{donator_address}".
type DonationEvent struct {
	// Transaction identity
	TxHash string `json:"tx_hash"`

	// Parties
	Donator   string `json:"donator"`
	Recipient string `json:"recipient"`

	// Donation details. Amount is a decimal string in wei; donation amounts
	// can exceed int64 so they never travel as JSON numbers.
	AmountWei string `json:"amount_wei"`
	Message   string `json:"message,omitempty"`

	// Timing
	ConfirmedAt time.Time `json:"confirmed_at"`
	PublishedAt time.Time `json:"published_at"`
}
