package main

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/urfave/cli/v2"
)

func profileCommand() *cli.Command {
	return &cli.Command{
		Name:      "profile",
		Usage:     "Show the account profile for an address",
		ArgsUsage: "[ADDRESS]",
		Description: `Resolves the account profile: total donated, reputation rank, and a
best-effort reverse-name nickname. With no address argument the wallet
is connected first and its active account is used.`,
		Action: func(c *cli.Context) error {
			jsonOutput := c.Bool("json")

			o, err := newOrchestrator(c, false)
			if err != nil {
				return err
			}
			defer o.close()

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

			profile, err := o.profiles.Resolve(ctx, addr)
			if err != nil {
				return fmt.Errorf("failed to resolve profile: %w", err)
			}

			view := newProfileView(profile, o.cfg.CurrencyDecimals)
			if jsonOutput {
				printJSON(view)
				return nil
			}

			fmt.Printf("Account %s\n", view.Address)
			if view.Nickname != "" {
				fmt.Printf("  Nickname:      %s\n", view.Nickname)
			}
			fmt.Printf("  Total Donated: %s %s\n", view.TotalDonated, o.cfg.CurrencySymbol)
			fmt.Printf("  Rank:          %s\n", view.Rank)
			return nil
		},
	}
}
