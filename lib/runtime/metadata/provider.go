// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package metadata

import (
	"context"
	"fmt"
	"sync"

	"github.com/ChainSafe/walletsync/internal/log"
	"github.com/ChainSafe/walletsync/internal/metrics"
	"github.com/ChainSafe/walletsync/lib/chain"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

var logger = log.NewFromGlobal(log.AddContext("pkg", "metadata"))

// Fetcher fetches the runtime version and metadata of a single chain.
type Fetcher interface {
	SpecVersion(ctx context.Context) (uint32, error)
	MetadataHex(ctx context.Context) (string, error)
}

// FetcherProvider returns the metadata fetcher of a chain.
type FetcherProvider interface {
	Fetcher(ctx context.Context, chainID chain.ChainID) (Fetcher, error)
}

// Provider caches a coder factory per chain, fetching it on demand.
// Concurrent requests for the same chain share a single fetch.
type Provider struct {
	fetchers FetcherProvider
	cache    *lru.Cache[chain.ChainID, CoderFactory]
	group    singleflight.Group
	logger   log.LeveledLogger

	// latest holds the most recent spec version announced per chain,
	// so a fetch racing with a runtime upgrade is not cached.
	latestMutex sync.Mutex
	latest      map[chain.ChainID]uint32
}

// NewProvider creates a provider caching at most cacheSize coder factories.
func NewProvider(fetchers FetcherProvider, cacheSize int) (*Provider, error) {
	cache, err := lru.New[chain.ChainID, CoderFactory](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating coder factory cache: %w", err)
	}

	return &Provider{
		fetchers: fetchers,
		cache:    cache,
		logger:   logger,
		latest:   make(map[chain.ChainID]uint32),
	}, nil
}

// FetchCoderFactory returns the coder factory of the chain given, using the
// cached snapshot if any. Errors returned wrap ErrMetadataUnavailable.
func (p *Provider) FetchCoderFactory(ctx context.Context, chainID chain.ChainID) (
	factory CoderFactory, err error) {
	factory, ok := p.cache.Get(chainID)
	if ok {
		return factory, nil
	}

	resultCh := p.group.DoChan(string(chainID), func() (interface{}, error) {
		// The fetch is shared between callers and must outlive
		// the context of the caller which started it.
		return p.fetch(context.WithoutCancel(ctx), chainID)
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %s: %w", ErrMetadataUnavailable, chainID, ctx.Err())
	case result := <-resultCh:
		if result.Err != nil {
			return nil, result.Err
		}
		return result.Val.(CoderFactory), nil
	}
}

func (p *Provider) fetch(ctx context.Context, chainID chain.ChainID) (factory CoderFactory, err error) {
	fetcher, err := p.fetchers.Fetcher(ctx, chainID)
	if err != nil {
		metrics.MetadataFetches.WithLabelValues(string(chainID), "error").Inc()
		return nil, fmt.Errorf("%w: %s: %w", ErrMetadataUnavailable, chainID, err)
	}

	specVersion, err := fetcher.SpecVersion(ctx)
	if err != nil {
		metrics.MetadataFetches.WithLabelValues(string(chainID), "error").Inc()
		return nil, fmt.Errorf("%w: %s: fetching runtime version: %w",
			ErrMetadataUnavailable, chainID, err)
	}

	metadataHex, err := fetcher.MetadataHex(ctx)
	if err != nil {
		metrics.MetadataFetches.WithLabelValues(string(chainID), "error").Inc()
		return nil, fmt.Errorf("%w: %s: fetching metadata: %w",
			ErrMetadataUnavailable, chainID, err)
	}

	snapshot, err := Decode(specVersion, metadataHex)
	if err != nil {
		metrics.MetadataFetches.WithLabelValues(string(chainID), "error").Inc()
		return nil, fmt.Errorf("%w: %s: %w", ErrMetadataUnavailable, chainID, err)
	}

	metrics.MetadataFetches.WithLabelValues(string(chainID), "success").Inc()
	p.logger.Debugf("fetched metadata for chain %s at spec version %d with %d storage entries",
		chainID, specVersion, snapshot.Len())

	p.store(chainID, snapshot)
	return snapshot, nil
}

func (p *Provider) store(chainID chain.ChainID, factory CoderFactory) {
	p.latestMutex.Lock()
	defer p.latestMutex.Unlock()

	if latest, ok := p.latest[chainID]; ok && factory.SpecVersion() < latest {
		return
	}
	p.latest[chainID] = factory.SpecVersion()
	p.cache.Add(chainID, factory)
}

// NotifyRuntimeVersion records the runtime spec version announced by a chain
// and evicts its cached coder factory if it was built for another version.
func (p *Provider) NotifyRuntimeVersion(chainID chain.ChainID, specVersion uint32) {
	p.latestMutex.Lock()
	defer p.latestMutex.Unlock()

	if specVersion > p.latest[chainID] {
		p.latest[chainID] = specVersion
	}

	factory, ok := p.cache.Peek(chainID)
	if !ok || factory.SpecVersion() == specVersion {
		return
	}

	p.logger.Infof("runtime of chain %s upgraded from spec version %d to %d",
		chainID, factory.SpecVersion(), specVersion)
	p.cache.Remove(chainID)
}

// Invalidate evicts the cached coder factory of the chain given.
func (p *Provider) Invalidate(chainID chain.ChainID) {
	p.cache.Remove(chainID)
}
