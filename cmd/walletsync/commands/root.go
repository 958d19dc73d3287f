// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package commands

import (
	"fmt"

	"github.com/ChainSafe/walletsync/config"
	"github.com/ChainSafe/walletsync/internal/log"
	"github.com/spf13/cobra"
)

var logger = log.NewFromGlobal(log.AddContext("pkg", "cmd"))

// Flags shared by all commands
const (
	configFlag = "config"
	logFlag    = "log"
)

// NewRootCommand creates the root command with all its sub commands.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "walletsync",
		Short: "Substrate wallet storage synchronisation",
		Long: `walletsync keeps the balances and the staking storage of a wallet
subscribed on the Substrate chains configured.
Usage:
	walletsync watch --config ./config.toml
	walletsync keys --chain 0x91b1... --asset 0
	walletsync keys --chain 0x91b1... --path Staking.Ledger --local-only
	walletsync version`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String(configFlag,
		"./config.toml",
		"Path to the TOML configuration file")
	cmd.PersistentFlags().String(logFlag,
		"",
		"Global log level overriding the configuration file: trace, debug, info, warn, error or critical")

	cmd.AddCommand(
		newWatchCommand(),
		newKeysCommand(),
		newVersionCommand(),
	)

	return cmd
}

// loadConfig loads the configuration file given by the config flag
// and patches the global log level.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString(configFlag)
	if err != nil {
		return nil, fmt.Errorf("failed to get --%s: %w", configFlag, err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	levelString, err := cmd.Flags().GetString(logFlag)
	if err != nil {
		return nil, fmt.Errorf("failed to get --%s: %w", logFlag, err)
	}
	if levelString != "" {
		cfg.Log.Level = levelString
	}

	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level: %w", err)
	}
	log.PatchLevel(level)

	return cfg, nil
}
