// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package subscription keeps one multiplexed storage subscription per
// target open and dispatches storage changes to per key handlers.
package subscription

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ChainSafe/walletsync/internal/log"
	"github.com/ChainSafe/walletsync/internal/metrics"
	"github.com/ChainSafe/walletsync/lib/chain"
	"github.com/ChainSafe/walletsync/lib/common"
	"github.com/ChainSafe/walletsync/lib/runtime/metadata"
	"github.com/ChainSafe/walletsync/lib/storage"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var logger = log.NewFromGlobal(log.AddContext("pkg", "subscription"))

// DefaultTimeout is the default timeout to resolve keys and open,
// or cancel, a subscription.
const DefaultTimeout = 30 * time.Second

// Handler is called with the raw storage value, nil if absent, the hash
// of the block it was read at and the coder factory its key was resolved
// with, which the value must be decoded with.
type Handler func(value []byte, block common.Hash, factory metadata.CoderFactory)

// Request is a storage item to subscribe to.
type Request struct {
	Path     storage.CodingPath
	Params   []storage.KeyParam
	LocalKey storage.LocalKey
	Handler  Handler
	// OnError, if set, is called when the storage key of the request
	// cannot be resolved. The request is then left out of the
	// subscription instead of failing the whole attempt.
	OnError func(err error)
}

// Config is the configuration of a Manager.
type Config struct {
	ChainID     chain.ChainID
	Factories   FactoryProvider
	Connections ConnectionProvider
	// OnError is called when an open subscription fails.
	OnError func(err error)
	// Logger defaults to a logger tagged with the chain id
	// and a unique manager id.
	Logger  log.LeveledLogger
	Timeout time.Duration
}

type binding struct {
	localKey storage.LocalKey
	handler  Handler
}

// Manager keeps at most one storage subscription open on the
// connection of a chain for a single target.
type Manager struct {
	chainID     chain.ChainID
	factories   FactoryProvider
	connections ConnectionProvider
	onError     func(err error)
	logger      log.LeveledLogger
	timeout     time.Duration

	mutex          sync.Mutex
	state          State
	generation     uint64
	cancelResolve  context.CancelFunc
	subscriptionID string
	connection     Connection
	keys           []string
	bindings       map[string][]binding
	factory        metadata.CoderFactory
}

// NewManager creates a subscription manager in the idle state.
func NewManager(config Config) *Manager {
	managerLogger := config.Logger
	if managerLogger == nil {
		managerLogger = logger.New(
			log.AddContext("chain", string(config.ChainID)),
			log.AddContext("manager", uuid.NewString()),
		)
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	return &Manager{
		chainID:     config.ChainID,
		factories:   config.Factories,
		connections: config.Connections,
		onError:     config.OnError,
		logger:      managerLogger,
		timeout:     timeout,
	}
}

// State returns the current state of the manager.
func (m *Manager) State() State {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.state
}

// Keys returns the hex remote keys currently bound, in request order.
func (m *Manager) Keys() []string {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	keys := make([]string, len(m.keys))
	copy(keys, m.keys)
	return keys
}

// Subscribe replaces the current subscription, if any, with a subscription
// to the storage items requested. It returns immediately; the returned
// channel receives the outcome once, or is closed without a value if the
// attempt is superseded by another Subscribe or Unsubscribe call.
func (m *Manager) Subscribe(requests []Request) <-chan error {
	result := make(chan error, 1)

	m.mutex.Lock()
	m.generation++
	generation := m.generation
	if m.cancelResolve != nil {
		m.cancelResolve()
	}
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	m.cancelResolve = cancel
	previousID, previousConnection := m.detach()
	m.state = Resolving
	m.mutex.Unlock()

	go func() {
		defer cancel()
		m.cancel(previousID, previousConnection)
		err := m.resolve(ctx, generation, requests)
		m.finish(generation, err, result)
	}()

	return result
}

// Unsubscribe cancels the current subscription and discards any subscribe
// attempt in flight. It is a no-op if the manager is idle.
func (m *Manager) Unsubscribe() {
	m.mutex.Lock()
	m.generation++
	if m.cancelResolve != nil {
		m.cancelResolve()
		m.cancelResolve = nil
	}
	id, connection := m.detach()
	m.state = Idle
	m.mutex.Unlock()

	m.cancel(id, connection)
}

// detach clears the subscription state and returns the subscription
// to cancel, if any. It must be called with the mutex held.
func (m *Manager) detach() (id string, connection Connection) {
	id, connection = m.subscriptionID, m.connection
	if id != "" {
		metrics.ActiveSubscriptions.WithLabelValues(string(m.chainID)).Dec()
	}
	m.subscriptionID = ""
	m.connection = nil
	m.keys = nil
	m.bindings = nil
	m.factory = nil
	return id, connection
}

// cancel cancels a subscription, with its own timeout so it
// is not aborted by a superseding attempt.
func (m *Manager) cancel(id string, connection Connection) {
	if id == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	err := connection.UnsubscribeStorage(ctx, id)
	if err != nil {
		m.logger.Debugf("cancelling subscription %s: %s", id, err)
		return
	}
	m.logger.Debugf("cancelled subscription %s", id)
}

func (m *Manager) resolve(ctx context.Context, generation uint64, requests []Request) error {
	factory, err := m.factories.FetchCoderFactory(ctx, m.chainID)
	if err != nil {
		return err
	}

	connection, err := m.connections.Connection(ctx, m.chainID)
	if err != nil {
		if !errors.Is(err, ErrConnectionUnavailable) {
			err = fmt.Errorf("%w: %w", ErrConnectionUnavailable, err)
		}
		return err
	}

	// All keys are resolved with the same factory snapshot,
	// and merged in request order.
	keys := make([]storage.RemoteKey, len(requests))
	keyErrs := make([]error, len(requests))
	group := new(errgroup.Group)
	for i, request := range requests {
		i, request := i, request
		group.Go(func() (err error) {
			keys[i], err = storage.ResolveRemoteKey(request.Path, request.Params, factory)
			if err != nil && request.OnError != nil {
				keyErrs[i] = err
				return nil
			}
			return err
		})
	}

	err = group.Wait()
	if err != nil {
		return err
	}

	hexKeys := make([]string, 0, len(keys))
	bindings := make(map[string][]binding, len(keys))
	unresolved := 0
	for i, key := range keys {
		if keyErrs[i] != nil {
			unresolved++
			continue
		}
		hexKey := key.Hex()
		hexKeys = append(hexKeys, hexKey)
		bindings[hexKey] = append(bindings[hexKey], binding{
			localKey: requests[i].LocalKey,
			handler:  requests[i].Handler,
		})
	}

	if unresolved > 0 {
		m.reportKeyErrors(generation, requests, keyErrs)
		if len(hexKeys) == 0 {
			return fmt.Errorf("%w: %d requests could not be resolved", ErrNoStorageKeys, unresolved)
		}
	}

	// Bindings are installed before subscribing, since the
	// initial values may be delivered before the subscription
	// call returns.
	if !m.bind(generation, hexKeys, bindings, factory) {
		return nil
	}

	onChange := func(changeSet storage.ChangeSet) {
		m.HandleUpdate(generation, changeSet)
	}
	onError := func(err error) {
		m.handleConnectionError(generation, err)
	}

	id, err := connection.SubscribeStorage(ctx, hexKeys, onChange, onError)
	if err != nil {
		return fmt.Errorf("%w: subscribing to %d storage keys: %w",
			ErrConnectionUnavailable, len(hexKeys), err)
	}

	if !m.activate(generation, id, connection) {
		m.logger.Debugf("discarding stale subscription %s", id)
		m.cancel(id, connection)
		return nil
	}

	m.logger.Debugf("subscription %s open for %d storage keys", id, len(hexKeys))
	return nil
}

// reportKeyErrors calls the error callback of each request whose key
// could not be resolved, unless the attempt was superseded.
func (m *Manager) reportKeyErrors(generation uint64, requests []Request, keyErrs []error) {
	m.mutex.Lock()
	current := generation == m.generation
	m.mutex.Unlock()
	if !current {
		return
	}

	for i, err := range keyErrs {
		if err == nil {
			continue
		}
		metrics.SubscriptionErrors.WithLabelValues(string(m.chainID), "resolve").Inc()
		m.logger.Warnf("leaving out storage item %s: %s", requests[i].Path, err)
		requests[i].OnError(err)
	}
}

func (m *Manager) bind(generation uint64, keys []string, bindings map[string][]binding,
	factory metadata.CoderFactory) (current bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if generation != m.generation {
		return false
	}

	m.keys = keys
	m.bindings = bindings
	m.factory = factory
	return true
}

func (m *Manager) activate(generation uint64, id string, connection Connection) (current bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if generation != m.generation {
		return false
	}

	m.subscriptionID = id
	m.connection = connection
	m.state = Active
	metrics.ActiveSubscriptions.WithLabelValues(string(m.chainID)).Inc()
	return true
}

func (m *Manager) finish(generation uint64, err error, result chan<- error) {
	m.mutex.Lock()
	current := generation == m.generation
	if current {
		m.cancelResolve = nil
		if err != nil {
			m.state = Failed
			m.keys = nil
			m.bindings = nil
		}
	}
	m.mutex.Unlock()

	if !current {
		close(result)
		return
	}

	if err != nil {
		metrics.SubscriptionErrors.WithLabelValues(string(m.chainID), "subscribe").Inc()
		m.logger.Warnf("subscribing: %s", err)
	}

	result <- err
	close(result)
}

// HandleUpdate dispatches the storage changes of the subscription attempt
// with the generation given to the handlers bound to their keys.
// Changes for stale generations or unbound keys are ignored.
func (m *Manager) HandleUpdate(generation uint64, changeSet storage.ChangeSet) {
	type call struct {
		handler Handler
		value   []byte
	}

	m.mutex.Lock()
	if generation != m.generation {
		m.mutex.Unlock()
		m.logger.Tracef("ignoring %d changes of stale subscription", len(changeSet.Changes))
		return
	}

	factory := m.factory
	var calls []call
	for _, change := range changeSet.Changes {
		bindings, ok := m.bindings[change.Key.Hex()]
		if !ok {
			m.logger.Tracef("ignoring change of unbound key %s", change.Key)
			continue
		}

		for _, binding := range bindings {
			calls = append(calls, call{handler: binding.handler, value: change.Value})
		}
	}
	m.mutex.Unlock()

	metrics.StorageUpdates.WithLabelValues(string(m.chainID)).Add(float64(len(calls)))

	for _, call := range calls {
		call.handler(call.value, changeSet.Block, factory)
	}
}

func (m *Manager) handleConnectionError(generation uint64, err error) {
	m.mutex.Lock()
	if generation != m.generation {
		m.mutex.Unlock()
		return
	}
	if m.subscriptionID != "" {
		metrics.ActiveSubscriptions.WithLabelValues(string(m.chainID)).Dec()
	}
	m.subscriptionID = ""
	m.connection = nil
	m.keys = nil
	m.bindings = nil
	m.factory = nil
	m.state = Failed
	m.mutex.Unlock()

	metrics.SubscriptionErrors.WithLabelValues(string(m.chainID), "connection").Inc()
	m.logger.Warnf("subscription failed: %s", err)

	if m.onError != nil {
		m.onError(err)
	}
}
