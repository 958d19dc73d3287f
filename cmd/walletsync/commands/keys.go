// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ChainSafe/walletsync/config"
	"github.com/ChainSafe/walletsync/dot/rpc/client"
	"github.com/ChainSafe/walletsync/lib/accountinfo"
	"github.com/ChainSafe/walletsync/lib/chain"
	"github.com/ChainSafe/walletsync/lib/common"
	"github.com/ChainSafe/walletsync/lib/runtime/metadata"
	"github.com/ChainSafe/walletsync/lib/storage"
	"github.com/spf13/cobra"
)

var (
	errChainNotConfigured = errors.New("chain is not configured")
	errAssetNotConfigured = errors.New("asset is not configured")
	errNoAccount          = errors.New("no account for chain")
	errPathFormat         = errors.New("storage path must be formatted as Module.Item")
)

func newKeysCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Print the local and remote storage keys of an account",
		Long: `Print the local key and the hex encoded remote storage key of an account.
With --asset, the storage item is the balance item of the asset. Otherwise,
it is the item given by --path keyed by the account id.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return execKeys(cmd)
		},
	}

	cmd.Flags().String("chain", "", "Chain id, the genesis hash of the chain")
	cmd.Flags().Int64("asset", -1, "Asset id, to print the balance keys of that asset")
	cmd.Flags().String("path", storage.SystemAccount.String(), "Storage item as Module.Item")
	cmd.Flags().String("account", "", "SS58 or hex address, defaults to the configured account")
	cmd.Flags().Bool("local-only", false, "Only print the local key, without connecting to the chain")
	_ = cmd.MarkFlagRequired("chain")

	return cmd
}

type keysRequest struct {
	chain     chain.Chain
	path      storage.CodingPath
	params    []storage.KeyParam
	localKey  storage.LocalKey
	localOnly bool
}

func execKeys(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	request, err := parseKeysRequest(cmd, cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "local key: %s\n", request.localKey)
	if request.localOnly {
		return nil
	}

	return printRemoteKey(cmd, cfg, request, out)
}

func parseKeysRequest(cmd *cobra.Command, cfg *config.Config) (request keysRequest, err error) {
	flags := cmd.Flags()
	chainID, err := flags.GetString("chain")
	if err != nil {
		return request, fmt.Errorf("failed to get --chain: %w", err)
	}
	assetID, err := flags.GetInt64("asset")
	if err != nil {
		return request, fmt.Errorf("failed to get --asset: %w", err)
	}
	pathString, err := flags.GetString("path")
	if err != nil {
		return request, fmt.Errorf("failed to get --path: %w", err)
	}
	address, err := flags.GetString("account")
	if err != nil {
		return request, fmt.Errorf("failed to get --account: %w", err)
	}
	request.localOnly, err = flags.GetBool("local-only")
	if err != nil {
		return request, fmt.Errorf("failed to get --local-only: %w", err)
	}

	chains, err := cfg.ChainList()
	if err != nil {
		return request, err
	}
	request.chain, err = findChain(chains, chain.ChainID(strings.ToLower(chainID)))
	if err != nil {
		return request, err
	}

	accountID, err := accountFor(cfg.Account, address, request.chain)
	if err != nil {
		return request, err
	}

	if assetID >= 0 {
		asset, ok := request.chain.Asset(chain.AssetID(assetID))
		if !ok {
			return request, fmt.Errorf("%w: %d on chain %s", errAssetNotConfigured, assetID, request.chain.Name)
		}
		built, err := accountinfo.NewBuilder(chains).Build(request.chain.ID, asset, accountID)
		if err != nil {
			return request, err
		}
		request.path = built.Path
		request.params = built.Params
		request.localKey = built.LocalKey()
		return request, nil
	}

	request.path, err = parseCodingPath(pathString)
	if err != nil {
		return request, err
	}
	request.params = []storage.KeyParam{storage.AccountIDParam(accountID)}
	request.localKey = storage.ResolveLocalKey(request.path,
		storage.ChainAccountKey(request.chain.ID, accountID))
	return request, nil
}

func printRemoteKey(cmd *cobra.Command, cfg *config.Config, request keysRequest, out io.Writer) error {
	pool := client.NewPool([]chain.Chain{request.chain})
	defer pool.Close()

	provider, err := metadata.NewProvider(pool, cfg.Subscription.MetadataCacheSize)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	factory, err := provider.FetchCoderFactory(ctx, request.chain.ID)
	if err != nil {
		return err
	}

	remoteKey, err := storage.ResolveRemoteKey(request.path, request.params, factory)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "remote key: %s\n", remoteKey.Hex())
	return nil
}

func findChain(chains []chain.Chain, chainID chain.ChainID) (c chain.Chain, err error) {
	for _, c := range chains {
		if c.ID == chainID {
			return c, nil
		}
	}
	return c, fmt.Errorf("%w: %s", errChainNotConfigured, chainID)
}

func accountFor(accountConfig *config.AccountConfig, address string,
	c chain.Chain) (accountID chain.AccountID, err error) {
	if address != "" {
		return common.DecodeAddress(address)
	}

	wallet, err := accountConfig.Wallet()
	if err != nil {
		return nil, err
	}

	accountID, ok := wallet.AccountID(c)
	if !ok {
		return nil, fmt.Errorf("%w: %s", errNoAccount, c.Name)
	}
	return accountID, nil
}

func parseCodingPath(s string) (path storage.CodingPath, err error) {
	module, item, ok := strings.Cut(s, ".")
	if !ok || module == "" || item == "" || strings.Contains(item, ".") {
		return path, fmt.Errorf("%w: %q", errPathFormat, s)
	}
	return storage.CodingPath{Module: module, Item: item}, nil
}
