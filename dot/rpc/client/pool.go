// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/ChainSafe/walletsync/lib/chain"
	"github.com/ChainSafe/walletsync/lib/runtime/metadata"
	"github.com/ChainSafe/walletsync/lib/storage"
	libsubscription "github.com/ChainSafe/walletsync/lib/subscription"
)

// Pool holds one client per chain, dialed on first use and
// dialed again once its connection is closed.
type Pool struct {
	urls map[chain.ChainID]string

	mutex   sync.Mutex
	clients map[chain.ChainID]*Client
}

var (
	_ libsubscription.ConnectionProvider = (*Pool)(nil)
	_ metadata.FetcherProvider           = (*Pool)(nil)
	_ storage.QuerierProvider            = (*Pool)(nil)
)

// NewPool creates a pool for the chains given.
func NewPool(chains []chain.Chain) *Pool {
	urls := make(map[chain.ChainID]string, len(chains))
	for _, c := range chains {
		urls[c.ID] = c.URL
	}

	return &Pool{
		urls:    urls,
		clients: make(map[chain.ChainID]*Client, len(chains)),
	}
}

// Client returns the client of the chain given.
// Errors returned wrap subscription.ErrConnectionUnavailable.
func (p *Pool) Client(ctx context.Context, chainID chain.ChainID) (*Client, error) {
	url, ok := p.urls[chainID]
	if !ok {
		return nil, fmt.Errorf("%w: chain %s is not configured",
			libsubscription.ErrConnectionUnavailable, chainID)
	}

	client, ok := p.live(chainID)
	if ok {
		return client, nil
	}
	if client != nil {
		logger.Infof("reconnecting to chain %s at %s", chainID, url)
	}

	// Dial without the lock so a slow chain does not stall the others.
	client, err := Dial(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%w: chain %s: %w", libsubscription.ErrConnectionUnavailable, chainID, err)
	}

	p.mutex.Lock()
	existing, ok := p.clients[chainID]
	if ok && !isDone(existing) {
		p.mutex.Unlock()
		closeClient(chainID, client)
		return existing, nil
	}
	p.clients[chainID] = client
	p.mutex.Unlock()

	return client, nil
}

// live returns the client of the chain and true if its connection is
// open. The closed client, if any, is returned with false.
func (p *Pool) live(chainID chain.ChainID) (client *Client, ok bool) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	client, ok = p.clients[chainID]
	if !ok {
		return nil, false
	}
	return client, !isDone(client)
}

func isDone(client *Client) bool {
	select {
	case <-client.Done():
		return true
	default:
		return false
	}
}

func closeClient(chainID chain.ChainID, client *Client) {
	err := client.Close()
	if err != nil {
		logger.Debugf("closing client of chain %s: %s", chainID, err)
	}
}

// Connection returns the storage subscription connection of a chain.
func (p *Pool) Connection(ctx context.Context, chainID chain.ChainID) (libsubscription.Connection, error) {
	return p.Client(ctx, chainID)
}

// Fetcher returns the runtime metadata fetcher of a chain.
func (p *Pool) Fetcher(ctx context.Context, chainID chain.ChainID) (metadata.Fetcher, error) {
	return p.Client(ctx, chainID)
}

// Querier returns the storage querier of a chain.
func (p *Pool) Querier(ctx context.Context, chainID chain.ChainID) (storage.Querier, error) {
	return p.Client(ctx, chainID)
}

// WatchRuntimeVersions subscribes to the runtime version of every chain
// of the pool and calls notify on each version received. Chains which
// cannot be subscribed to are logged and skipped.
func (p *Pool) WatchRuntimeVersions(ctx context.Context,
	notify func(chainID chain.ChainID, specVersion uint32)) {
	for chainID := range p.urls {
		chainID := chainID

		client, err := p.Client(ctx, chainID)
		if err != nil {
			logger.Warnf("watching runtime version: %s", err)
			continue
		}

		onVersion := func(version RuntimeVersion) {
			notify(chainID, version.SpecVersion)
		}
		onError := func(err error) {
			logger.Warnf("runtime version subscription of chain %s failed: %s", chainID, err)
		}

		_, err = client.SubscribeRuntimeVersion(ctx, onVersion, onError)
		if err != nil {
			logger.Warnf("subscribing to runtime version of chain %s: %s", chainID, err)
		}
	}
}

// Close closes every client of the pool.
func (p *Pool) Close() {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	for chainID, client := range p.clients {
		closeClient(chainID, client)
		delete(p.clients, chainID)
	}
}
