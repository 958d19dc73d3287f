// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package accountinfo

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ChainSafe/walletsync/lib/chain"
	"github.com/ChainSafe/walletsync/lib/common"
	"github.com/ChainSafe/walletsync/lib/runtime/metadata"
	"github.com/ChainSafe/walletsync/lib/storage"
	"github.com/ChainSafe/walletsync/lib/subscription"
)

// Update is a normalized account info received for a chain asset.
type Update struct {
	ID          chain.ChainAssetID
	AccountID   chain.AccountID
	AccountInfo AccountInfo
	Block       common.Hash
}

// ServiceConfig is the configuration of a Service.
type ServiceConfig struct {
	Builder     *Builder
	Factories   subscription.FactoryProvider
	Connections subscription.ConnectionProvider
	Store       *storage.LocalStore
	Timeout     time.Duration
}

// Service keeps the account info of a wallet subscribed,
// with one subscription per chain.
type Service struct {
	builder     *Builder
	factories   subscription.FactoryProvider
	connections subscription.ConnectionProvider
	store       *storage.LocalStore
	timeout     time.Duration

	mutex    sync.Mutex
	managers map[chain.ChainID]*subscription.Manager
}

// NewService creates an account info service.
func NewService(config ServiceConfig) *Service {
	return &Service{
		builder:     config.Builder,
		factories:   config.Factories,
		connections: config.Connections,
		store:       config.Store,
		timeout:     config.Timeout,
		managers:    make(map[chain.ChainID]*subscription.Manager),
	}
}

// Subscribe subscribes to the account info of every asset of the chains
// given for the wallet, replacing any previous subscription. Normalized
// values are given to onUpdate, and failures to onError with the chain
// asset they concern. An asset whose storage key cannot be resolved is
// reported alone and the other assets of its chain stay subscribed.
// Chains the wallet has no account for are skipped.
func (s *Service) Subscribe(wallet chain.Wallet, chains []chain.Chain,
	onUpdate func(update Update), onError func(id chain.ChainAssetID, err error)) {
	s.Unsubscribe()

	type failure struct {
		id  chain.ChainAssetID
		err error
	}
	var buildFailures []failure
	defer func() {
		for _, f := range buildFailures {
			onError(f.id, f.err)
		}
	}()

	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, c := range chains {
		accountID, ok := wallet.AccountID(c)
		if !ok {
			logger.Debugf("wallet has no account on chain %s", c.Name)
			continue
		}

		var ids []chain.ChainAssetID
		var requests []subscription.Request
		for _, asset := range c.Assets {
			request, err := s.builder.Build(c.ID, asset, accountID)
			if err != nil {
				buildFailures = append(buildFailures, failure{id: request.ID, err: err})
				continue
			}

			ids = append(ids, request.ID)
			requests = append(requests, subscription.Request{
				Path:     request.Path,
				Params:   request.Params,
				LocalKey: request.LocalKey(),
				Handler: func(value []byte, block common.Hash, factory metadata.CoderFactory) {
					request := request
					request.NativeLayout = NativeLayoutOf(factory)
					s.handle(request, value, block, onUpdate, onError)
				},
				OnError: func(err error) {
					onError(request.ID, err)
				},
			})
		}

		if len(requests) == 0 {
			continue
		}

		failAll := func(err error) {
			for _, id := range ids {
				onError(id, err)
			}
		}

		manager := subscription.NewManager(subscription.Config{
			ChainID:     c.ID,
			Factories:   s.factories,
			Connections: s.connections,
			OnError:     failAll,
			Timeout:     s.timeout,
		})
		s.managers[c.ID] = manager

		result := manager.Subscribe(requests)
		go func() {
			err, ok := <-result
			// Requests left unresolved were already reported one by one.
			if ok && err != nil && !errors.Is(err, subscription.ErrNoStorageKeys) {
				failAll(err)
			}
		}()
	}
}

func (s *Service) handle(request Request, value []byte, block common.Hash,
	onUpdate func(update Update), onError func(id chain.ChainAssetID, err error)) {
	if s.store != nil {
		err := s.store.Put(request.LocalKey(), storage.LocalValue{Value: value, Block: block})
		if err != nil {
			logger.Warnf("persisting account info of %s: %s", request.ID, err)
		}
	}

	info, err := Normalize(request, value)
	if err != nil {
		onError(request.ID, err)
		return
	}

	onUpdate(Update{
		ID:          request.ID,
		AccountID:   request.AccountID,
		AccountInfo: info,
		Block:       block,
	})
}

// Unsubscribe cancels every subscription of the service.
func (s *Service) Unsubscribe() {
	s.mutex.Lock()
	managers := s.managers
	s.managers = make(map[chain.ChainID]*subscription.Manager)
	s.mutex.Unlock()

	for _, manager := range managers {
		manager.Unsubscribe()
	}
}

// LastKnown returns the last account info persisted for the account and
// the asset on the chain given, with the block it was read at.
func (s *Service) LastKnown(chainID chain.ChainID, asset chain.ChainAsset,
	accountID chain.AccountID) (info AccountInfo, block common.Hash, err error) {
	if s.store == nil {
		return info, block, fmt.Errorf("no local store configured")
	}

	request, err := s.builder.Build(chainID, asset, accountID)
	if err != nil {
		return info, block, err
	}

	value, err := s.store.Get(request.LocalKey())
	if err != nil {
		return info, block, err
	}

	info, err = Normalize(request, value.Value)
	if err != nil {
		return info, block, err
	}
	return info, value.Block, nil
}
