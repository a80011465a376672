package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/itchyny/gojq"
	"github.com/urfave/cli/v2"

	"github.com/donatejar/donatejar/service/config"
	"github.com/donatejar/donatejar/service/ens"
	"github.com/donatejar/donatejar/service/events"
	"github.com/donatejar/donatejar/service/ledger"
	"github.com/donatejar/donatejar/service/metrics"
	"github.com/donatejar/donatejar/service/provider"
	"github.com/donatejar/donatejar/service/wallet"
)

// orchestrator bundles the wired components a command needs. Built per
// invocation; there is no cross-run state.
type orchestrator struct {
	cfg      *config.Config
	logger   *slog.Logger
	provider provider.Provider
	session  *wallet.Session
	guard    *wallet.ChainGuard
	gateway  *ledger.Gateway
	feed     *ledger.Feed
	profiles *ledger.ProfileResolver

	publisher events.Publisher
	metrics   *metrics.Metrics
}

// resolveConfig builds a validated Config from CLI flags and environment.
func resolveConfig(c *cli.Context) (*config.Config, error) {
	cfg := &config.Config{
		LogLevel:            c.String("log-level"),
		RPCURL:              c.String("rpc-url"),
		ChainID:             config.DefaultChainID,
		ChainName:           config.DefaultChainName,
		CurrencyName:        config.DefaultCurrencyName,
		CurrencySymbol:      config.DefaultCurrencySymbol,
		CurrencyDecimals:    config.DefaultCurrencyDecimals,
		ExplorerURL:         config.DefaultExplorerURL,
		ContractAddress:     c.String("contract"),
		ENSRegistryAddress:  ens.DefaultRegistryAddress,
		NATSURL:             c.String("nats-url"),
		ConfirmPollInterval: 2 * time.Second,
		ConfirmTimeout:      5 * time.Minute,
	}
	if cfg.RPCURL == "" {
		return nil, fmt.Errorf("--rpc-url (or DONATEJAR_RPC_URL) is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newOrchestrator wires the full stack for a command. withPublisher enables
// the NATS donation-event publisher when a NATS URL is configured.
func newOrchestrator(c *cli.Context, withPublisher bool) (*orchestrator, error) {
	cfg, err := resolveConfig(c)
	if err != nil {
		return nil, err
	}

	logger := setupLogger(cfg.LogLevel)
	m := metrics.NewMetrics(nil)

	p := provider.NewHTTPProvider(cfg.RPCURL, nil, logger)
	guard := wallet.NewChainGuard(p, cfg.Network(), m, logger)
	session := wallet.NewSession(p, guard, logger)

	var publisher events.Publisher
	if withPublisher && cfg.NATSURL != "" {
		publisher, err = events.NewPublisher(cfg.NATSURL, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize NATS publisher: %w", err)
		}
	}

	gateway := ledger.NewGateway(ledger.GatewayConfig{
		Provider:        p,
		Session:         session,
		Guard:           guard,
		Contract:        cfg.Contract(),
		Metrics:         m,
		Publisher:       publisher,
		Logger:          logger,
		ConfirmInterval: cfg.ConfirmPollInterval,
	})

	names := ens.NewResolver(p, cfg.ENSRegistry(), logger)

	return &orchestrator{
		cfg:       cfg,
		logger:    logger,
		provider:  p,
		session:   session,
		guard:     guard,
		gateway:   gateway,
		feed:      ledger.NewFeed(gateway, m, logger),
		profiles:  ledger.NewProfileResolver(gateway, names, m, logger),
		publisher: publisher,
		metrics:   m,
	}, nil
}

func (o *orchestrator) close() {
	if o.publisher != nil {
		_ = o.publisher.Close()
	}
}

func setupLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// compileJQ compiles --jq filter expressions.
func compileJQ(filters []string) ([]*gojq.Code, error) {
	codes := make([]*gojq.Code, len(filters))
	for i, filter := range filters {
		query, err := gojq.Parse(filter)
		if err != nil {
			return nil, fmt.Errorf("failed to parse jq filter %q: %w", filter, err)
		}
		codes[i], err = gojq.Compile(query)
		if err != nil {
			return nil, fmt.Errorf("failed to compile jq filter %q: %w", filter, err)
		}
	}
	return codes, nil
}

// jqMatches reports whether all compiled filters evaluate to true for v.
// v must be plain JSON types (map[string]any etc.).
func jqMatches(codes []*gojq.Code, v any) bool {
	for _, code := range codes {
		iter := code.Run(v)
		matched := false
		for {
			out, ok := iter.Next()
			if !ok {
				break
			}
			if b, ok := out.(bool); ok && b {
				matched = true
			}
		}
		if !matched {
			return false
		}
	}
	return true
}
