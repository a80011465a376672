package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"

	"github.com/donatejar/donatejar/service/events"
)

func watchCommand() *cli.Command {
	return &cli.Command{
		Name:      "watch",
		Usage:     "Stream confirmed donation events from NATS",
		ArgsUsage: "[DONATOR_ADDRESS]",
		Description: `Subscribes to the donation event stream and prints events as they are
published. With no address argument all donators are watched.

Events are published to the subject: donations.{donator_address}

Example:
  donatejar watch 0x70997970C51812dc3A010C7d01b50e0d17dc79C8 --json`,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "must-jq",
				Aliases: []string{"jq"},
				Usage:   "jq filter expression events must satisfy (can be repeated, all must match)",
			},
			&cli.StringFlag{
				Name:  "metrics-addr",
				Usage: "Serve prometheus metrics on this address (e.g. :9090); empty disables",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Stop watching after this duration (0 = run until interrupted)",
			},
		},
		Action: func(c *cli.Context) error {
			natsURL := c.String("nats-url")
			if natsURL == "" {
				natsURL = nats.DefaultURL
			}
			jsonOutput := c.Bool("json")

			subject := events.StreamSubjects
			if c.NArg() > 0 {
				subject = events.Subject(c.Args().Get(0))
			}

			filters, err := compileJQ(c.StringSlice("must-jq"))
			if err != nil {
				return err
			}

			if addr := c.String("metrics-addr"); addr != "" {
				go func() {
					mux := http.NewServeMux()
					mux.Handle("/metrics", promhttp.Handler())
					if err := http.ListenAndServe(addr, mux); err != nil {
						fmt.Fprintf(os.Stderr, "metrics server error: %v\n", err)
					}
				}()
			}

			nc, err := nats.Connect(natsURL)
			if err != nil {
				return fmt.Errorf("failed to connect to NATS: %w", err)
			}
			defer nc.Close()

			js, err := jetstream.New(nc)
			if err != nil {
				return fmt.Errorf("failed to create JetStream context: %w", err)
			}

			ctx := context.Background()
			var cancel context.CancelFunc
			if timeout := c.Duration("timeout"); timeout > 0 {
				ctx, cancel = context.WithTimeout(ctx, timeout)
			} else {
				ctx, cancel = context.WithCancel(ctx)
			}
			defer cancel()

			cons, err := js.CreateOrUpdateConsumer(ctx, events.StreamName, jetstream.ConsumerConfig{
				FilterSubject: subject,
				AckPolicy:     jetstream.AckExplicitPolicy,
			})
			if err != nil {
				return fmt.Errorf("failed to create consumer: %w", err)
			}

			if !jsonOutput {
				fmt.Printf("📡 Watching %s (ctrl-c to stop)\n\n", subject)
			}

			msgChan := make(chan jetstream.Msg, 10)
			consumeCtx, err := cons.Consume(func(msg jetstream.Msg) {
				msgChan <- msg
			})
			if err != nil {
				return fmt.Errorf("failed to start consumer: %w", err)
			}
			defer consumeCtx.Stop()

			shutdown := make(chan os.Signal, 1)
			signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

			received := 0
			for {
				select {
				case msg := <-msgChan:
					var event events.DonationEvent
					if err := json.Unmarshal(msg.Data(), &event); err != nil {
						fmt.Fprintf(os.Stderr, "Error parsing event: %v\n", err)
						msg.Ack()
						continue
					}

					if len(filters) > 0 {
						plain, err := toPlain(event)
						if err != nil || !jqMatches(filters, plain) {
							msg.Ack()
							continue
						}
					}

					received++
					if jsonOutput {
						data, _ := json.Marshal(event)
						fmt.Println(string(data))
					} else {
						fmt.Printf("✅ Donation confirmed (#%d)\n", received)
						fmt.Printf("   Tx:        %s\n", event.TxHash)
						fmt.Printf("   Donator:   %s\n", event.Donator)
						fmt.Printf("   Recipient: %s\n", event.Recipient)
						fmt.Printf("   Amount:    %s wei\n", event.AmountWei)
						if event.Message != "" {
							fmt.Printf("   Message:   %s\n", event.Message)
						}
						fmt.Printf("   Published: %s\n\n", event.PublishedAt.Format(time.RFC3339))
					}
					msg.Ack()

				case <-shutdown:
					if !jsonOutput {
						fmt.Printf("Stopped after %d event(s)\n", received)
					}
					return nil

				case <-ctx.Done():
					if !jsonOutput {
						fmt.Printf("Stopped after %d event(s)\n", received)
					}
					return nil
				}
			}
		},
	}
}
