package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/donatejar/donatejar/service/fault"
	"github.com/donatejar/donatejar/service/ledger"
)

func donateCommand() *cli.Command {
	return &cli.Command{
		Name:      "donate",
		Usage:     "Send a donation to a recipient address",
		ArgsUsage: "RECIPIENT_ADDRESS",
		Description: `Connects the wallet, validates the target network, submits a donation
carrying the amount as the transaction value, and waits for confirmation.

A failed or rejected donation is never retried automatically: rerun the
command to resubmit.

Example:
  donatejar donate 0x70997970C51812dc3A010C7d01b50e0d17dc79C8 --amount 0.01 --message thanks`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "amount",
				Aliases: []string{"a"},
				Value:   "0.01",
				Usage:   "Donation amount in native currency (decimal)",
			},
			&cli.StringFlag{
				Name:    "message",
				Aliases: []string{"m"},
				Usage:   "Message to attach to the donation (required)",
			},
			&cli.DurationFlag{
				Name:    "timeout",
				Aliases: []string{"t"},
				Value:   5 * time.Minute,
				Usage:   "How long to wait for confirmation before giving up locally",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return fmt.Errorf("recipient address is required")
			}

			recipient := c.Args().Get(0)
			message := c.String("message")
			jsonOutput := c.Bool("json")

			o, err := newOrchestrator(c, true)
			if err != nil {
				return err
			}
			defer o.close()

			amount, err := ledger.ParseAmount(c.String("amount"), o.cfg.CurrencyDecimals)
			if err != nil {
				return fmt.Errorf("invalid amount: %w", err)
			}

			ctx := context.Background()
			if err := o.session.Connect(ctx); err != nil {
				return fmt.Errorf("failed to connect wallet: %w", err)
			}

			result, err := o.gateway.SubmitDonation(ctx, recipient, message, amount, ledger.SubmitOptions{
				ConfirmTimeout: c.Duration("timeout"),
			})
			if err != nil {
				if fault.Is(err, fault.AwaitTimedOut) && result != nil {
					// The transaction is out of our hands but not dead.
					if !jsonOutput {
						fmt.Printf("⚠ Gave up waiting locally; the transaction may still confirm\n")
						fmt.Printf("  Tx: %s/tx/%s\n", o.cfg.ExplorerURL, result.Hash.Hex())
					}
				}
				return fmt.Errorf("donation failed: %w", err)
			}

			// A confirmed write invalidates the derived views.
			sent, _, refreshErr := o.feed.Refresh(ctx, o.session.Address())
			if refreshErr != nil {
				o.logger.Warn("feed refresh after confirmation failed", "error", refreshErr)
			}

			if jsonOutput {
				printJSON(map[string]any{
					"tx_hash":    result.Hash.Hex(),
					"state":      result.State.String(),
					"recipient":  recipient,
					"amount_wei": amount.String(),
					"message":    message,
					"sent_count": len(sent),
				})
				return nil
			}

			fmt.Printf("✓ Donation confirmed\n")
			fmt.Printf("  Recipient: %s\n", recipient)
			fmt.Printf("  Amount:    %s %s\n", ledger.FormatAmount(amount, o.cfg.CurrencyDecimals), o.cfg.CurrencySymbol)
			fmt.Printf("  Tx:        %s/tx/%s\n", o.cfg.ExplorerURL, result.Hash.Hex())
			return nil
		},
	}
}
