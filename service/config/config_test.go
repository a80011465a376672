package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		RPCURL:              "http://localhost:8545",
		ChainID:             DefaultChainID,
		ChainName:           DefaultChainName,
		CurrencyName:        DefaultCurrencyName,
		CurrencySymbol:      DefaultCurrencySymbol,
		CurrencyDecimals:    DefaultCurrencyDecimals,
		ExplorerURL:         DefaultExplorerURL,
		ContractAddress:     DefaultContractAddress,
		ConfirmPollInterval: 2 * time.Second,
		ConfirmTimeout:      5 * time.Minute,
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DONATEJAR_RPC_URL", "http://localhost:8545")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, uint64(11155111), cfg.ChainID)
	assert.Equal(t, "Sepolia Testnet", cfg.ChainName)
	assert.Equal(t, "SepETH", cfg.CurrencySymbol)
	assert.Equal(t, 18, cfg.CurrencyDecimals)
	assert.Equal(t, DefaultContractAddress, cfg.ContractAddress)
	assert.Equal(t, 2*time.Second, cfg.ConfirmPollInterval)
	assert.Equal(t, 5*time.Minute, cfg.ConfirmTimeout)
	assert.Empty(t, cfg.NATSURL)
}

func TestLoad_MissingRPCURL(t *testing.T) {
	t.Setenv("DONATEJAR_RPC_URL", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DONATEJAR_RPC_URL")
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DONATEJAR_RPC_URL", "http://localhost:8545")
	t.Setenv("CHAIN_ID", "1")
	t.Setenv("CHAIN_NAME", "Ethereum Mainnet")
	t.Setenv("CONFIRM_POLL_INTERVAL", "500ms")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), cfg.ChainID)
	assert.Equal(t, "Ethereum Mainnet", cfg.ChainName)
	assert.Equal(t, 500*time.Millisecond, cfg.ConfirmPollInterval)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("DONATEJAR_RPC_URL", "http://localhost:8545")
	t.Setenv("CHAIN_ID", "not-a-number")
	t.Setenv("CONFIRM_POLL_INTERVAL", "soon")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CHAIN_ID")
	assert.Contains(t, err.Error(), "CONFIRM_POLL_INTERVAL")
}

func TestValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{
			name:   "zero chain id",
			mutate: func(c *Config) { c.ChainID = 0 },
			want:   "ChainID",
		},
		{
			name:   "empty chain name",
			mutate: func(c *Config) { c.ChainName = "" },
			want:   "ChainName",
		},
		{
			name:   "non-positive decimals",
			mutate: func(c *Config) { c.CurrencyDecimals = 0 },
			want:   "CurrencyDecimals",
		},
		{
			name:   "malformed contract address",
			mutate: func(c *Config) { c.ContractAddress = "0xnope" },
			want:   "ContractAddress",
		},
		{
			name:   "malformed ens registry",
			mutate: func(c *Config) { c.ENSRegistryAddress = "zz" },
			want:   "ENSRegistryAddress",
		},
		{
			name:   "poll interval too small",
			mutate: func(c *Config) { c.ConfirmPollInterval = time.Millisecond },
			want:   "ConfirmPollInterval",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestNetwork(t *testing.T) {
	cfg := validConfig()
	target := cfg.Network()

	assert.Equal(t, uint64(11155111), target.ChainID)
	assert.Equal(t, "0xaa36a7", target.ChainIDHex())
	assert.Equal(t, "Sepolia Testnet", target.Name)
	assert.Equal(t, "SepETH", target.Currency.Symbol)
	assert.Equal(t, []string{cfg.RPCURL}, target.RPCURLs)
	assert.Equal(t, DefaultExplorerURL, target.ExplorerURL)
}

func TestContract(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, DefaultContractAddress, cfg.Contract().Hex())
}
