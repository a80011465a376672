package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v2"
)

func connectCommand() *cli.Command {
	return &cli.Command{
		Name:  "connect",
		Usage: "Connect the wallet and show session state",
		Description: `Validates the target network (switching or adding it in the wallet if
needed), requests account access, and prints the resulting session.

Example:
  donatejar connect --rpc-url http://localhost:8545`,
		Action: func(c *cli.Context) error {
			o, err := newOrchestrator(c, false)
			if err != nil {
				return err
			}
			defer o.close()

			ctx := context.Background()
			if err := o.session.Connect(ctx); err != nil {
				return fmt.Errorf("failed to connect wallet: %w", err)
			}

			// Active chain is display-only; the guard already enforced it.
			activeChain := ""
			if raw, err := o.provider.Request(ctx, "eth_chainId", []any{}); err == nil {
				_ = json.Unmarshal(raw, &activeChain)
			}

			if c.Bool("json") {
				printJSON(map[string]string{
					"address":  o.session.Address().Hex(),
					"state":    o.session.State().String(),
					"network":  o.cfg.ChainName,
					"chain_id": activeChain,
				})
				return nil
			}

			fmt.Printf("✓ Wallet connected\n")
			fmt.Printf("  Address: %s\n", o.session.Address().Hex())
			fmt.Printf("  Network: %s (%s)\n", o.cfg.ChainName, activeChain)
			return nil
		},
	}
}
