package main

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/itchyny/gojq"
	"github.com/urfave/cli/v2"
)

func feedCommand() *cli.Command {
	return &cli.Command{
		Name:      "feed",
		Usage:     "Show sent and received donations for the connected wallet",
		ArgsUsage: "[ADDRESS]",
		Description: `Refreshes the donation feed from the ledger contract and prints both
lists. With no address argument the wallet is connected first and its
active account is used.

Example:
  donatejar feed --jq '.amount_wei | tonumber > 1000000000000000'`,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "must-jq",
				Aliases: []string{"jq"},
				Usage:   "jq filter expression entries must satisfy (can be repeated, all must match)",
			},
		},
		Action: func(c *cli.Context) error {
			jsonOutput := c.Bool("json")

			o, err := newOrchestrator(c, false)
			if err != nil {
				return err
			}
			defer o.close()

			filters, err := compileJQ(c.StringSlice("must-jq"))
			if err != nil {
				return err
			}

			ctx := context.Background()

			var addr common.Address
			if c.NArg() > 0 {
				arg := c.Args().Get(0)
				if !common.IsHexAddress(arg) {
					return fmt.Errorf("%q is not a valid address", arg)
				}
				addr = common.HexToAddress(arg)
			} else {
				if err := o.session.Connect(ctx); err != nil {
					return fmt.Errorf("failed to connect wallet: %w", err)
				}
				addr = o.session.Address()
			}

			sent, received, err := o.feed.Refresh(ctx, addr)
			if err != nil {
				return fmt.Errorf("failed to refresh feed: %w", err)
			}

			sentViews := make([]donationView, 0, len(sent))
			for _, d := range sent {
				v := newDonationView(d, o.cfg.CurrencyDecimals)
				if keep, err := filterView(filters, v); err != nil {
					return err
				} else if keep {
					sentViews = append(sentViews, v)
				}
			}
			receivedViews := make([]donationView, 0, len(received))
			for _, d := range received {
				v := newDonationView(d, o.cfg.CurrencyDecimals)
				if keep, err := filterView(filters, v); err != nil {
					return err
				} else if keep {
					receivedViews = append(receivedViews, v)
				}
			}

			if jsonOutput {
				printJSON(map[string]any{
					"address":  addr.Hex(),
					"sent":     sentViews,
					"received": receivedViews,
				})
				return nil
			}

			fmt.Printf("Donations for %s\n\n", addr.Hex())
			fmt.Printf("Sent (%d):\n", len(sentViews))
			if len(sentViews) == 0 {
				fmt.Println("  No donations yet.")
			}
			for _, v := range sentViews {
				printDonation(v, o.cfg.CurrencySymbol)
			}
			fmt.Printf("\nReceived (%d):\n", len(receivedViews))
			if len(receivedViews) == 0 {
				fmt.Println("  No donations yet.")
			}
			for _, v := range receivedViews {
				printDonation(v, o.cfg.CurrencySymbol)
			}
			return nil
		},
	}
}

func filterView(filters []*gojq.Code, v donationView) (bool, error) {
	if len(filters) == 0 {
		return true, nil
	}
	plain, err := toPlain(v)
	if err != nil {
		return false, err
	}
	return jqMatches(filters, plain), nil
}
