// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package config defines the walletsync configuration.
package config

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ChainSafe/walletsync/internal/log"
	"github.com/ChainSafe/walletsync/lib/chain"
	"github.com/ChainSafe/walletsync/lib/common"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"
	// DefaultDatabasePath is the default badger database directory.
	DefaultDatabasePath = "./walletsync-data"
	// DefaultMetricsAddress is the default metrics server address.
	DefaultMetricsAddress = "localhost:9876"
	// DefaultSubscriptionTimeout is the default timeout to open a subscription.
	DefaultSubscriptionTimeout = 30 * time.Second
	// DefaultMetadataCacheSize is the default number of cached runtime metadata.
	DefaultMetadataCacheSize = 16
)

var (
	ErrDuplicateChain   = errors.New("duplicate chain id")
	ErrDuplicateAsset   = errors.New("duplicate asset id")
	ErrMultipleUtility  = errors.New("multiple utility assets")
	ErrCurrencyNumber   = errors.New("currency number is not a decimal integer")
	ErrInvalidLogLevel  = errors.New("invalid log level")
	ErrNoAccountAddress = errors.New("no account address configured")
)

// Config is the walletsync configuration.
type Config struct {
	Log          *LogConfig          `mapstructure:"log"`
	Database     *DatabaseConfig     `mapstructure:"database"`
	Metrics      *MetricsConfig      `mapstructure:"metrics"`
	Subscription *SubscriptionConfig `mapstructure:"subscription"`
	Account      *AccountConfig      `mapstructure:"account"`
	Chains       []ChainConfig       `mapstructure:"chains" validate:"dive"`
}

// LogConfig is the logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// DatabaseConfig is the local database configuration.
type DatabaseConfig struct {
	Path     string `mapstructure:"path"`
	InMemory bool   `mapstructure:"in_memory"`
}

// MetricsConfig is the prometheus metrics server configuration.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address" validate:"required_if=Enabled true,omitempty,hostname_port"`
}

// SubscriptionConfig is the storage subscription configuration.
type SubscriptionConfig struct {
	Timeout           time.Duration `mapstructure:"timeout" validate:"gt=0"`
	MetadataCacheSize int           `mapstructure:"metadata_cache_size" validate:"gt=0"`
}

// AccountConfig holds the addresses of the watched wallet.
type AccountConfig struct {
	// Address is a SS58 address or a 0x prefixed 32 bytes public key.
	Address string `mapstructure:"address"`
	// EthereumAddress is the 0x prefixed 20 bytes address used on
	// ethereum compatible chains.
	EthereumAddress string `mapstructure:"ethereum_address" validate:"omitempty,eth_addr"`
}

// ChainConfig is the configuration of a chain.
type ChainConfig struct {
	ID            string        `mapstructure:"id" validate:"required,startswith=0x,hexadecimal"`
	Name          string        `mapstructure:"name" validate:"required"`
	URL           string        `mapstructure:"url" validate:"required,url"`
	AddressPrefix uint16        `mapstructure:"address_prefix"`
	Ethereum      bool          `mapstructure:"ethereum"`
	Equilibrium   bool          `mapstructure:"equilibrium"`
	HexAccountID  bool          `mapstructure:"hex_account_id"`
	Staking       string        `mapstructure:"staking" validate:"omitempty,oneof=relaychain parachain"`
	Assets        []AssetConfig `mapstructure:"assets" validate:"dive"`
}

// AssetConfig is the configuration of an asset of a chain.
type AssetConfig struct {
	ID        uint32 `mapstructure:"id"`
	Symbol    string `mapstructure:"symbol" validate:"required"`
	Precision uint8  `mapstructure:"precision"`
	Utility   bool   `mapstructure:"utility"`
	// Currency is the currency kind: none, native, orml, assets or equilibrium.
	Currency string `mapstructure:"currency" validate:"omitempty,oneof=none native orml assets equilibrium"`
	// CurrencyScale is the 0x prefixed SCALE encoded runtime currency id.
	CurrencyScale string `mapstructure:"currency_scale" validate:"omitempty,startswith=0x"`
	// CurrencyNumber is the decimal asset id.
	CurrencyNumber string `mapstructure:"currency_number" validate:"omitempty,number"`
}

// DefaultConfig returns the default configuration, without account nor chains.
func DefaultConfig() *Config {
	return &Config{
		Log: &LogConfig{
			Level: DefaultLogLevel,
		},
		Database: &DatabaseConfig{
			Path: DefaultDatabasePath,
		},
		Metrics: &MetricsConfig{
			Address: DefaultMetricsAddress,
		},
		Subscription: &SubscriptionConfig{
			Timeout:           DefaultSubscriptionTimeout,
			MetadataCacheSize: DefaultMetadataCacheSize,
		},
		Account: &AccountConfig{},
	}
}

// Load reads the TOML configuration file at the path given on top of
// the default configuration, and validates it.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	v.SetEnvPrefix("WALLETSYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	err := v.ReadInConfig()
	if err != nil {
		return nil, fmt.Errorf("reading configuration file: %w", err)
	}

	cfg := DefaultConfig()
	err = v.Unmarshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("decoding configuration: %w", err)
	}

	err = cfg.ValidateBasic()
	if err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return cfg, nil
}

// ValidateBasic validates the configuration without network access.
func (cfg *Config) ValidateBasic() error {
	err := validator.New().Struct(cfg)
	if err != nil {
		return err
	}

	_, err = log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidLogLevel, err)
	}

	if cfg.Account.Address == "" && cfg.Account.EthereumAddress == "" {
		return ErrNoAccountAddress
	}

	_, err = cfg.Account.Wallet()
	if err != nil {
		return err
	}

	chainIDs := make(map[string]struct{}, len(cfg.Chains))
	for _, chainConfig := range cfg.Chains {
		if _, ok := chainIDs[chainConfig.ID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateChain, chainConfig.ID)
		}
		chainIDs[chainConfig.ID] = struct{}{}

		_, err = chainConfig.Chain()
		if err != nil {
			return fmt.Errorf("chain %s: %w", chainConfig.Name, err)
		}
	}

	return nil
}

// Wallet returns the wallet of the configured addresses.
func (a AccountConfig) Wallet() (wallet chain.Wallet, err error) {
	if a.Address != "" {
		wallet.Substrate, err = common.DecodeAddress(a.Address)
		if err != nil {
			return wallet, fmt.Errorf("decoding account address: %w", err)
		}
	}

	if a.EthereumAddress != "" {
		wallet.Ethereum, err = common.DecodeAddress(a.EthereumAddress)
		if err != nil {
			return wallet, fmt.Errorf("decoding ethereum address: %w", err)
		}
	}

	return wallet, nil
}

// ChainList returns the configured chains.
func (cfg *Config) ChainList() (chains []chain.Chain, err error) {
	chains = make([]chain.Chain, len(cfg.Chains))
	for i, chainConfig := range cfg.Chains {
		chains[i], err = chainConfig.Chain()
		if err != nil {
			return nil, fmt.Errorf("chain %s: %w", chainConfig.Name, err)
		}
	}
	return chains, nil
}

// Chain converts the chain configuration.
func (c ChainConfig) Chain() (result chain.Chain, err error) {
	result = chain.Chain{
		ID:            chain.ChainID(strings.ToLower(c.ID)),
		Name:          c.Name,
		URL:           c.URL,
		AddressPrefix: c.AddressPrefix,
		Ethereum:      c.Ethereum,
		Equilibrium:   c.Equilibrium,
		HexAccountID:  c.HexAccountID,
		Assets:        make([]chain.ChainAsset, len(c.Assets)),
	}

	switch c.Staking {
	case "relaychain":
		result.Staking = chain.StakingRelaychain
	case "parachain":
		result.Staking = chain.StakingParachain
	}

	assetIDs := make(map[uint32]struct{}, len(c.Assets))
	utility := false
	for i, assetConfig := range c.Assets {
		if _, ok := assetIDs[assetConfig.ID]; ok {
			return result, fmt.Errorf("%w: %d", ErrDuplicateAsset, assetConfig.ID)
		}
		assetIDs[assetConfig.ID] = struct{}{}

		if assetConfig.Utility {
			if utility {
				return result, fmt.Errorf("%w: %s", ErrMultipleUtility, assetConfig.Symbol)
			}
			utility = true
		}

		result.Assets[i], err = assetConfig.Asset()
		if err != nil {
			return result, fmt.Errorf("asset %s: %w", assetConfig.Symbol, err)
		}
	}

	return result, nil
}

// Asset converts the asset configuration.
func (a AssetConfig) Asset() (asset chain.ChainAsset, err error) {
	asset = chain.ChainAsset{
		ID:        chain.AssetID(a.ID),
		Symbol:    a.Symbol,
		Precision: a.Precision,
		Utility:   a.Utility,
	}

	asset.Currency.Kind, err = chain.ParseCurrencyKind(a.Currency)
	if err != nil {
		return asset, err
	}

	if a.CurrencyScale != "" {
		asset.Currency.Scale, err = common.HexToBytes(a.CurrencyScale)
		if err != nil {
			return asset, fmt.Errorf("decoding currency scale: %w", err)
		}
	}

	if a.CurrencyNumber != "" {
		number, ok := new(big.Int).SetString(a.CurrencyNumber, 10)
		if !ok || number.Sign() < 0 {
			return asset, fmt.Errorf("%w: %s", ErrCurrencyNumber, a.CurrencyNumber)
		}
		asset.Currency.Number = number
	}

	return asset, nil
}
