package main

import (
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/donatejar/donatejar/service/config"
)

var (
	// Version information (set via ldflags during build)
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	app := &cli.App{
		Name:  "donatejar",
		Usage: "DonationJar wallet client CLI",
		Description: `A command-line client for the DonationJar ledger contract.

Connect a wallet through a JSON-RPC wallet bridge, send donations on the
target network, and inspect your donation feed and account profile.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		Commands: []*cli.Command{
			connectCommand(),
			donateCommand(),
			feedCommand(),
			profileCommand(),
			watchCommand(),
		},
		// Global flags available to all commands
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "rpc-url",
				Usage:   "Wallet provider JSON-RPC endpoint",
				EnvVars: []string{"DONATEJAR_RPC_URL"},
			},
			&cli.StringFlag{
				Name:    "contract",
				Usage:   "DonationJar contract address",
				EnvVars: []string{"DONATEJAR_CONTRACT_ADDRESS"},
				Value:   config.DefaultContractAddress,
			},
			&cli.StringFlag{
				Name:    "nats-url",
				Usage:   "NATS server URL for donation events (empty disables publishing)",
				EnvVars: []string{"NATS_URL"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
				Value:   "info",
			},
			&cli.BoolFlag{
				Name:    "json",
				Aliases: []string{"j"},
				Usage:   "Output in JSON format",
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
