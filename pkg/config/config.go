package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/linagelabs/txos/pkg/cointype"
	"github.com/linagelabs/txos/pkg/logger"
)

const (
	defaultMintInputAmount = 100_000_000
	defaultTxGasBudget     = 100_000_000
	defaultSwapSlippage    = 0.01
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Security   SecurityConfig   `yaml:"security"`
	Sui        SuiConfig        `yaml:"sui"`
	Aggregator AggregatorConfig `yaml:"aggregator"`
	Logger     logger.Config    `yaml:"logger"`
}

type ServerConfig struct {
	Host        string `yaml:"host"`
	Port        string `yaml:"port"`
	Environment string `yaml:"environment"`
}

type DatabaseConfig struct {
	Host            string `yaml:"host"`
	Port            string `yaml:"port"`
	User            string `yaml:"user"`
	DBName          string `yaml:"name"`
	Password        string `yaml:"password"`
	SSLMode         string `yaml:"ssl_mode"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	MaxIdleConns    int    `yaml:"max_idle_conns"`
	ConnMaxLifetime string `yaml:"conn_max_lifetime"`
}

type SecurityConfig struct {
	APIKey string `yaml:"api_key"`
}

// SuiConfig holds everything the transaction orchestration needs to address
// the ledger: network selection, the marketplace object ids, the configured
// settlement coin fallback, and the defaults applied when a build request
// omits optional parameters.
type SuiConfig struct {
	Network                string            `yaml:"network"`
	RPCURLs                map[string]string `yaml:"rpc_urls"` // network -> fullnode url
	PackageID              string            `yaml:"package_id"`
	PlatformConfigID       string            `yaml:"platform_config_id"`
	CollectibleRegistryID  string            `yaml:"collectible_registry_id"`
	MarketplaceID          string            `yaml:"marketplace_id"`
	USDCCoinType           string            `yaml:"usdc_coin_type"`
	DefaultInputCoinType   string            `yaml:"default_input_coin_type"`
	DefaultMintInputAmount uint64            `yaml:"default_mint_input_amount"`
	DefaultSwapSlippage    float64           `yaml:"default_swap_slippage"`
	DefaultTxGasBudget     uint64            `yaml:"default_tx_gas_budget"`
	Timeout                time.Duration     `yaml:"timeout"`
}

type AggregatorConfig struct {
	BaseURL          string        `yaml:"base_url"`
	Timeout          time.Duration `yaml:"timeout"`
	MaxRetries       int           `yaml:"max_retries"`
	RetryBackoffBase time.Duration `yaml:"retry_backoff_base"`
	APIKey           string        `yaml:"api_key"`
}

// RPCURL returns the fullnode url for the configured network.
func (c *SuiConfig) RPCURL() (string, error) {
	url, exists := c.RPCURLs[c.Network]
	if !exists {
		return "", fmt.Errorf("no RPC URL configured for network: %s", c.Network)
	}
	return url, nil
}

func Load() (*Config, error) {
	return LoadFromFile("./config.yaml")
}

func LoadFromFile(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	configData, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(configData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()
	if err := config.validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Sui.Network == "" {
		c.Sui.Network = "testnet"
	}
	if c.Sui.DefaultInputCoinType == "" {
		c.Sui.DefaultInputCoinType = cointype.SuiCoinType
	}
	if c.Sui.DefaultMintInputAmount == 0 {
		c.Sui.DefaultMintInputAmount = defaultMintInputAmount
	}
	if c.Sui.DefaultTxGasBudget == 0 {
		c.Sui.DefaultTxGasBudget = defaultTxGasBudget
	}
	if c.Sui.DefaultSwapSlippage <= 0 || c.Sui.DefaultSwapSlippage >= 1 {
		c.Sui.DefaultSwapSlippage = defaultSwapSlippage
	}
	if c.Sui.Timeout == 0 {
		c.Sui.Timeout = 30 * time.Second
	}
	if c.Aggregator.Timeout == 0 {
		c.Aggregator.Timeout = 15 * time.Second
	}
	if c.Aggregator.RetryBackoffBase == 0 {
		c.Aggregator.RetryBackoffBase = 500 * time.Millisecond
	}
}

// validate rejects configurations missing a required on-chain identifier.
// These are startup-fatal: the service cannot build a single transaction
// without them.
func (c *Config) validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"sui.package_id", c.Sui.PackageID},
		{"sui.platform_config_id", c.Sui.PlatformConfigID},
		{"sui.collectible_registry_id", c.Sui.CollectibleRegistryID},
		{"sui.marketplace_id", c.Sui.MarketplaceID},
		{"sui.usdc_coin_type", c.Sui.USDCCoinType},
	}
	for _, field := range required {
		if field.value == "" {
			return fmt.Errorf("missing required configuration value: %s", field.name)
		}
	}
	if _, err := c.Sui.RPCURL(); err != nil {
		return err
	}
	return nil
}
