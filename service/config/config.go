package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/donatejar/donatejar/service/ens"
	"github.com/donatejar/donatejar/service/wallet"
)

// Defaults reproduce the Sepolia deployment of the DonationJar contract.
const (
	DefaultChainID          = 11155111 // 0xaa36a7
	DefaultChainName        = "Sepolia Testnet"
	DefaultCurrencyName     = "SepoliaETH"
	DefaultCurrencySymbol   = "SepETH"
	DefaultCurrencyDecimals = 18
	DefaultExplorerURL      = "https://sepolia.etherscan.io"
	DefaultContractAddress  = "0x8def9A62A963e466EFB47EDaA77e21D21Bfb5495"
)

// Config holds all application configuration loaded from environment variables.
// All required fields are validated at load time to ensure fail-fast behavior.
type Config struct {
	LogLevel string

	// Wallet provider endpoint (JSON-RPC bridge)
	RPCURL string

	// Target network. Fixed for the process lifetime.
	ChainID          uint64
	ChainName        string
	CurrencyName     string
	CurrencySymbol   string
	CurrencyDecimals int
	ExplorerURL      string

	// Ledger contract
	ContractAddress string

	// ENS registry for best-effort reverse name lookups
	ENSRegistryAddress string

	// NATS event publishing (optional; empty disables it)
	NATSURL string

	// Confirmation wait tuning
	ConfirmPollInterval time.Duration
	ConfirmTimeout      time.Duration
}

// Load reads configuration from environment variables and validates all
// required fields. Returns an error if any required configuration is missing
// or invalid.
func Load() (*Config, error) {
	cfg := &Config{}
	var errs []error

	cfg.LogLevel = getEnvOrDefault("LOG_LEVEL", "info")

	cfg.RPCURL = os.Getenv("DONATEJAR_RPC_URL")
	if cfg.RPCURL == "" {
		errs = append(errs, fmt.Errorf("DONATEJAR_RPC_URL is required"))
	}

	chainID, err := parseUint("CHAIN_ID", DefaultChainID)
	if err != nil {
		errs = append(errs, err)
	} else {
		cfg.ChainID = chainID
	}

	cfg.ChainName = getEnvOrDefault("CHAIN_NAME", DefaultChainName)
	cfg.CurrencyName = getEnvOrDefault("CURRENCY_NAME", DefaultCurrencyName)
	cfg.CurrencySymbol = getEnvOrDefault("CURRENCY_SYMBOL", DefaultCurrencySymbol)

	decimals, err := parseInt("CURRENCY_DECIMALS", DefaultCurrencyDecimals)
	if err != nil {
		errs = append(errs, err)
	} else {
		cfg.CurrencyDecimals = decimals
	}

	cfg.ExplorerURL = getEnvOrDefault("EXPLORER_URL", DefaultExplorerURL)
	cfg.ContractAddress = getEnvOrDefault("DONATEJAR_CONTRACT_ADDRESS", DefaultContractAddress)
	cfg.ENSRegistryAddress = getEnvOrDefault("ENS_REGISTRY_ADDRESS", ens.DefaultRegistryAddress)
	cfg.NATSURL = os.Getenv("NATS_URL")

	pollInterval, err := parseDuration("CONFIRM_POLL_INTERVAL", "2s")
	if err != nil {
		errs = append(errs, err)
	} else {
		cfg.ConfirmPollInterval = pollInterval
	}

	confirmTimeout, err := parseDuration("CONFIRM_TIMEOUT", "5m")
	if err != nil {
		errs = append(errs, err)
	} else {
		cfg.ConfirmTimeout = confirmTimeout
	}

	if err := cfg.Validate(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %v", errs)
	}

	return cfg, nil
}

// MustLoad is like Load but panics if configuration is invalid.
// Useful for startup paths where misconfiguration should halt the process.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}

// Validate checks if the configuration is valid.
// This is useful for testing configuration without loading from env.
func (c *Config) Validate() error {
	var errs []error

	if c.ChainID == 0 {
		errs = append(errs, fmt.Errorf("ChainID is required"))
	}
	if c.ChainName == "" {
		errs = append(errs, fmt.Errorf("ChainName is required"))
	}
	if c.CurrencyDecimals <= 0 {
		errs = append(errs, fmt.Errorf("CurrencyDecimals must be positive"))
	}
	if c.ContractAddress == "" || !common.IsHexAddress(c.ContractAddress) {
		errs = append(errs, fmt.Errorf("ContractAddress %q is not a valid address", c.ContractAddress))
	}
	if c.ENSRegistryAddress != "" && !common.IsHexAddress(c.ENSRegistryAddress) {
		errs = append(errs, fmt.Errorf("ENSRegistryAddress %q is not a valid address", c.ENSRegistryAddress))
	}
	if c.ConfirmPollInterval < 100*time.Millisecond {
		errs = append(errs, fmt.Errorf("ConfirmPollInterval must be at least 100ms"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%v", errs)
	}
	return nil
}

// Network builds the immutable target network definition.
func (c *Config) Network() wallet.NetworkTarget {
	return wallet.NetworkTarget{
		ChainID: c.ChainID,
		Name:    c.ChainName,
		Currency: wallet.Currency{
			Name:     c.CurrencyName,
			Symbol:   c.CurrencySymbol,
			Decimals: c.CurrencyDecimals,
		},
		RPCURLs:     []string{c.RPCURL},
		ExplorerURL: c.ExplorerURL,
	}
}

// Contract returns the ledger contract address.
func (c *Config) Contract() common.Address {
	return common.HexToAddress(c.ContractAddress)
}

// ENSRegistry returns the configured ENS registry address.
func (c *Config) ENSRegistry() common.Address {
	return common.HexToAddress(c.ENSRegistryAddress)
}

// getEnvOrDefault returns the environment variable value or a default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseDuration parses a duration from an environment variable or uses a default.
func parseDuration(key, defaultValue string) (time.Duration, error) {
	value := getEnvOrDefault(key, defaultValue)
	duration, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", key, value, err)
	}
	return duration, nil
}

// parseInt parses an integer from an environment variable or uses a default.
func parseInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	result, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q: %w", key, value, err)
	}
	return result, nil
}

// parseUint parses an unsigned integer from an environment variable or uses a default.
func parseUint(key string, defaultValue uint64) (uint64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	result, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q: %w", key, value, err)
	}
	return result, nil
}
