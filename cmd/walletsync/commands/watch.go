// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/ChainSafe/walletsync/config"
	"github.com/ChainSafe/walletsync/dot/rpc/client"
	"github.com/ChainSafe/walletsync/internal/database"
	"github.com/ChainSafe/walletsync/internal/database/badger"
	"github.com/ChainSafe/walletsync/internal/database/memory"
	"github.com/ChainSafe/walletsync/internal/metrics"
	"github.com/ChainSafe/walletsync/lib/accountinfo"
	"github.com/ChainSafe/walletsync/lib/chain"
	"github.com/ChainSafe/walletsync/lib/runtime/metadata"
	"github.com/ChainSafe/walletsync/lib/staking"
	"github.com/ChainSafe/walletsync/lib/storage"
	"github.com/ChainSafe/walletsync/lib/subscription"
	"github.com/spf13/cobra"
)

// Database table prefixes
const (
	storageTablePrefix = "storage/"
	stakingTablePrefix = "stash/"
)

func newWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Keep the wallet balances and staking storage subscribed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return watch(ctx, cfg, cmd.OutOrStdout())
		},
	}
}

func openDatabase(databaseConfig *config.DatabaseConfig) (database.Database, error) {
	if databaseConfig.InMemory {
		return memory.New(), nil
	}

	inMemory := false
	return badger.New(badger.Settings{
		Path:     databaseConfig.Path,
		InMemory: &inMemory,
	})
}

// watch runs until the context is canceled.
func watch(ctx context.Context, cfg *config.Config, out io.Writer) (err error) {
	chains, err := cfg.ChainList()
	if err != nil {
		return err
	}

	wallet, err := cfg.Account.Wallet()
	if err != nil {
		return err
	}

	if cfg.Metrics.Enabled {
		server := metrics.NewServer(cfg.Metrics.Address)
		err = server.Start()
		if err != nil {
			return fmt.Errorf("starting metrics server: %w", err)
		}
		defer func() {
			stopErr := server.Stop()
			if stopErr != nil {
				logger.Warnf("stopping metrics server: %s", stopErr)
			}
		}()
	}

	db, err := openDatabase(cfg.Database)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		closeErr := db.Close()
		if closeErr != nil {
			logger.Warnf("closing database: %s", closeErr)
		}
	}()

	pool := client.NewPool(chains)
	defer pool.Close()

	provider, err := metadata.NewProvider(pool, cfg.Subscription.MetadataCacheSize)
	if err != nil {
		return err
	}
	go pool.WatchRuntimeVersions(ctx, provider.NotifyRuntimeVersion)

	store := storage.NewLocalStore(db.NewTable(storageTablePrefix))
	builder := accountinfo.NewBuilder(chains)

	printer := &balancePrinter{out: out}
	printLastKnown(builder, store, wallet, chains, printer)

	remote := accountinfo.NewRemoteService(builder, provider, pool, store)
	results, err := remote.Fetch(ctx, wallet, chains)
	if err != nil {
		return fmt.Errorf("fetching account info: %w", err)
	}
	for _, chainResults := range results {
		for _, result := range chainResults {
			if result.Err != nil {
				logger.Warnf("fetching account info of %s: %s", result.ID, result.Err)
				continue
			}
			printer.print(result.ID, result.AccountInfo, "fetched")
		}
	}

	service := accountinfo.NewService(accountinfo.ServiceConfig{
		Builder:     builder,
		Factories:   provider,
		Connections: pool,
		Store:       store,
		Timeout:     cfg.Subscription.Timeout,
	})
	onUpdate := func(update accountinfo.Update) {
		printer.print(update.ID, update.AccountInfo, "at block "+update.Block.Short())
	}
	onError := func(id chain.ChainAssetID, err error) {
		logger.Errorf("account info subscription of %s: %s", id, err)
	}
	service.Subscribe(wallet, chains, onUpdate, onError)
	defer service.Unsubscribe()

	repository := staking.NewRepository(db.NewTable(stakingTablePrefix))
	var wg sync.WaitGroup
	for _, c := range chains {
		self, ok := wallet.AccountID(c)
		if !ok || c.Staking == chain.StakingNone {
			continue
		}

		wg.Add(1)
		go func(c chain.Chain, self chain.AccountID) {
			defer wg.Done()
			runStaking(ctx, c, self, cfg.Subscription.Timeout, provider, pool, repository, store)
		}(c, self)
	}

	<-ctx.Done()
	logger.Info("stopping")
	wg.Wait()
	return nil
}

type stakingConnections interface {
	subscription.ConnectionProvider
	storage.QuerierProvider
}

// runStaking keeps the staking storage of the self account subscribed
// on the chain given until the context is canceled.
func runStaking(ctx context.Context, c chain.Chain, self chain.AccountID, timeout time.Duration,
	factories subscription.FactoryProvider, connections stakingConnections,
	repository *staking.Repository, store *storage.LocalStore) {
	manager := subscription.NewManager(subscription.Config{
		ChainID:     c.ID,
		Factories:   factories,
		Connections: connections,
		OnError: func(err error) {
			logger.Errorf("staking subscription of chain %s: %s", c.Name, err)
		},
		Timeout: timeout,
	})

	controller := staking.NewController(staking.ControllerConfig{
		ChainID:    c.ID,
		Self:       self,
		Subscriber: manager,
		Store:      store,
		OnValue: func(value staking.Value) {
			logger.Debugf("staking %s of %s on chain %s updated at block %s",
				value.Target.Path, value.Target.AccountID, c.Name, value.Block.Short())
		},
	})

	if c.Staking == chain.StakingParachain {
		controller.RunDelegator(ctx)
		return
	}

	changes, unsubscribe := repository.Subscribe(c.ID)
	defer unsubscribe()

	done := make(chan struct{})
	go func() {
		defer close(done)
		controller.Run(ctx, changes)
	}()

	err := reconcileStash(ctx, c.ID, self, factories, connections, repository)
	if err != nil {
		logger.Warnf("reconciling stash of chain %s: %s", c.Name, err)
	}

	<-done
}

func reconcileStash(ctx context.Context, chainID chain.ChainID, self chain.AccountID,
	factories subscription.FactoryProvider, queriers storage.QuerierProvider,
	repository *staking.Repository) error {
	factory, err := factories.FetchCoderFactory(ctx, chainID)
	if err != nil {
		return err
	}

	querier, err := queriers.Querier(ctx, chainID)
	if err != nil {
		return err
	}

	return staking.Reconcile(ctx, repository, chainID, self, factory, querier)
}

func printLastKnown(builder *accountinfo.Builder, store *storage.LocalStore,
	wallet chain.Wallet, chains []chain.Chain, printer *balancePrinter) {
	service := accountinfo.NewService(accountinfo.ServiceConfig{Builder: builder, Store: store})
	for _, c := range chains {
		accountID, ok := wallet.AccountID(c)
		if !ok {
			continue
		}
		for _, asset := range c.Assets {
			info, block, err := service.LastKnown(c.ID, asset, accountID)
			if err != nil {
				logger.Debugf("no last known account info for %s on chain %s: %s", asset.Symbol, c.Name, err)
				continue
			}
			id := chain.ChainAssetID{ChainID: c.ID, AssetID: asset.ID}
			printer.print(id, info, "last known at block "+block.Short())
		}
	}
}

type balancePrinter struct {
	mutex sync.Mutex
	out   io.Writer
}

func (p *balancePrinter) print(id chain.ChainAssetID, info accountinfo.AccountInfo, source string) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	_, err := fmt.Fprintf(p.out, "%s: %s (%s)\n", id, info, source)
	if err != nil {
		logger.Warnf("printing account info: %s", err)
	}
}
