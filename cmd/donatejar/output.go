package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/donatejar/donatejar/service/ledger"
)

// donationView is the CLI rendering of a ledger entry. Amounts appear both
// as exact wei strings and as human decimals; timestamps as RFC 3339.
type donationView struct {
	Donator   string `json:"donator"`
	Recipient string `json:"recipient"`
	AmountWei string `json:"amount_wei"`
	Amount    string `json:"amount"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

func newDonationView(d ledger.Donation, decimals int) donationView {
	return donationView{
		Donator:   d.Donator.Hex(),
		Recipient: d.Recipient.Hex(),
		AmountWei: d.Amount.String(),
		Amount:    ledger.FormatAmount(d.Amount, decimals),
		Message:   d.Message,
		Timestamp: d.Timestamp.Format(time.RFC3339),
	}
}

type profileView struct {
	Address      string `json:"address"`
	Nickname     string `json:"nickname,omitempty"`
	TotalWei     string `json:"total_donated_wei"`
	TotalDonated string `json:"total_donated"`
	Rank         string `json:"rank"`
}

func newProfileView(p *ledger.AccountProfile, decimals int) profileView {
	return profileView{
		Address:      p.Address.Hex(),
		Nickname:     p.Nickname,
		TotalWei:     p.TotalDonated.String(),
		TotalDonated: ledger.FormatAmount(p.TotalDonated, decimals),
		Rank:         p.Rank.String(),
	}
}

// toPlain converts a view into plain JSON types for jq evaluation.
func toPlain(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func printJSON(v any) {
	data, _ := json.Marshal(v)
	fmt.Println(string(data))
}

func printDonation(d donationView, symbol string) {
	fmt.Printf("  %s -> %s\n", d.Donator, d.Recipient)
	fmt.Printf("    Amount:  %s %s\n", d.Amount, symbol)
	if d.Message != "" {
		fmt.Printf("    Message: %s\n", d.Message)
	}
	fmt.Printf("    Time:    %s\n", d.Timestamp)
}
