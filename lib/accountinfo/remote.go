// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package accountinfo

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ChainSafe/walletsync/lib/chain"
	"github.com/ChainSafe/walletsync/lib/common"
	"github.com/ChainSafe/walletsync/lib/storage"
	"github.com/ChainSafe/walletsync/lib/subscription"
	"golang.org/x/sync/errgroup"
)

// RemoteService reads the account info of a wallet once,
// without subscribing.
type RemoteService struct {
	builder   *Builder
	factories subscription.FactoryProvider
	queriers  storage.QuerierProvider
	store     *storage.LocalStore
}

// NewRemoteService creates a remote service. The store may be nil,
// in which case values read are not persisted.
func NewRemoteService(builder *Builder, factories subscription.FactoryProvider,
	queriers storage.QuerierProvider, store *storage.LocalStore) *RemoteService {
	return &RemoteService{
		builder:   builder,
		factories: factories,
		queriers:  queriers,
		store:     store,
	}
}

// Fetch reads the account info of every asset of the chains given for
// the wallet. Chains are read concurrently and a failure only fails the
// results of its own chain, or of its own request if the storage key of
// that request cannot be resolved. Chains the wallet has no account for
// have an empty result set. The error returned is only set if the context
// is done.
func (s *RemoteService) Fetch(ctx context.Context, wallet chain.Wallet,
	chains []chain.Chain) (results map[chain.ChainID][]Result, err error) {
	results = make(map[chain.ChainID][]Result, len(chains))
	var mutex sync.Mutex

	group, groupCtx := errgroup.WithContext(ctx)
	for _, c := range chains {
		c := c

		accountID, ok := wallet.AccountID(c)
		if !ok {
			mutex.Lock()
			results[c.ID] = []Result{}
			mutex.Unlock()
			continue
		}

		group.Go(func() error {
			chainResults := s.fetchChain(groupCtx, c, accountID)

			mutex.Lock()
			defer mutex.Unlock()
			results[c.ID] = chainResults
			return nil
		})
	}

	_ = group.Wait()

	err = ctx.Err()
	if err != nil {
		return nil, err
	}
	return results, nil
}

func failRequests(results []Result, requests []Request, err error) []Result {
	for _, request := range requests {
		results = append(results, Result{ID: request.ID, AccountInfo: NewAccountInfo(), Err: err})
	}
	return results
}

func (s *RemoteService) fetchChain(ctx context.Context, c chain.Chain,
	accountID chain.AccountID) (results []Result) {
	var requests []Request
	for _, asset := range c.Assets {
		request, err := s.builder.Build(c.ID, asset, accountID)
		if err != nil {
			results = append(results, Result{ID: request.ID, AccountInfo: NewAccountInfo(), Err: err})
			continue
		}
		requests = append(requests, request)
	}

	if len(requests) == 0 {
		return results
	}

	factory, err := s.factories.FetchCoderFactory(ctx, c.ID)
	if err != nil {
		logger.Warnf("fetching account info on chain %s: %s", c.Name, err)
		return failRequests(results, requests, err)
	}

	layout := NativeLayoutOf(factory)
	resolved := make([]Request, 0, len(requests))
	keys := make([]string, 0, len(requests))
	for _, request := range requests {
		request.NativeLayout = layout
		key, err := storage.ResolveRemoteKey(request.Path, request.Params, factory)
		if err != nil {
			err = fmt.Errorf("resolving key of %s: %w", request.ID, err)
			results = append(results, Result{ID: request.ID, AccountInfo: NewAccountInfo(), Err: err})
			continue
		}
		resolved = append(resolved, request)
		keys = append(keys, key.Hex())
	}

	if len(resolved) == 0 {
		return results
	}

	responses, err := s.query(ctx, c.ID, resolved, keys)
	if err != nil {
		logger.Warnf("fetching account info on chain %s: %s", c.Name, err)
		return failRequests(results, resolved, err)
	}

	return append(results, NormalizeBatch(responses)...)
}

// query reads the storage keys given, one per request, in a single call.
func (s *RemoteService) query(ctx context.Context, chainID chain.ChainID,
	requests []Request, keys []string) (responses []Response, err error) {
	querier, err := s.queriers.Querier(ctx, chainID)
	if err != nil {
		if !errors.Is(err, subscription.ErrConnectionUnavailable) {
			err = fmt.Errorf("%w: %w", subscription.ErrConnectionUnavailable, err)
		}
		return nil, err
	}

	changeSets, err := querier.QueryStorageAt(ctx, keys, nil)
	if err != nil {
		return nil, fmt.Errorf("querying %d storage keys: %w", len(keys), err)
	}

	values := make(map[string]storage.Change, len(keys))
	for _, changeSet := range changeSets {
		for _, change := range changeSet.Changes {
			values[change.Key.Hex()] = change
		}
	}

	var block common.Hash
	if len(changeSets) > 0 {
		block = changeSets[len(changeSets)-1].Block
	}

	responses = make([]Response, len(requests))
	localValues := make(map[storage.LocalKey]storage.LocalValue, len(requests))
	for i, request := range requests {
		value := values[keys[i]].Value
		responses[i] = Response{Request: request, Value: value}
		localValues[request.LocalKey()] = storage.LocalValue{Value: value, Block: block}
	}

	if s.store != nil {
		err = s.store.PutBatch(localValues)
		if err != nil {
			logger.Warnf("persisting account info on chain %s: %s", chainID, err)
		}
	}

	return responses, nil
}
