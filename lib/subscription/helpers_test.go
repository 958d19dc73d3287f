// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package subscription

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ChainSafe/walletsync/lib/chain"
	"github.com/ChainSafe/walletsync/lib/common"
	"github.com/ChainSafe/walletsync/lib/runtime/metadata"
	"github.com/ChainSafe/walletsync/lib/storage"
	"github.com/stretchr/testify/require"
)

const testChainID chain.ChainID = "0xtest"

var (
	alice = chain.AccountID(common.MustHexToBytes(
		"0xd43593c715fdd31c61141abd04a99fd6822c8558854ccde39a5684e7a56da27d"))
	bob = chain.AccountID(common.MustHexToBytes(
		"0x8eaf04151687736326c9fea17e25fc5287613693c912909cb226aa4794f26a48"))
)

func testFactory() *metadata.Snapshot {
	accountID := metadata.KeyType{Name: "AccountId32", Kind: metadata.KindAccountID, Width: 32}
	return metadata.NewSnapshot(1,
		metadata.StorageEntry{
			Module:  "System",
			Prefix:  "System",
			Name:    "Account",
			Hashers: []metadata.Hasher{metadata.Blake2_128Concat},
			Keys:    []metadata.KeyType{accountID},
		},
		metadata.StorageEntry{
			Module:  "Staking",
			Prefix:  "Staking",
			Name:    "Ledger",
			Hashers: []metadata.Hasher{metadata.Blake2_128Concat},
			Keys:    []metadata.KeyType{accountID},
		},
	)
}

func remoteKey(t *testing.T, path storage.CodingPath, accountID chain.AccountID) string {
	t.Helper()
	key, err := storage.ResolveRemoteKey(path,
		[]storage.KeyParam{storage.AccountIDParam(accountID)}, testFactory())
	require.NoError(t, err)
	return key.Hex()
}

// recorder records handler calls.
type recorder struct {
	mutex sync.Mutex
	calls []string
}

func (r *recorder) handler(name string) Handler {
	return func(value []byte, block common.Hash, _ metadata.CoderFactory) {
		r.mutex.Lock()
		defer r.mutex.Unlock()
		r.calls = append(r.calls, fmt.Sprintf("%s:%x@%s", name, value, block.Short()))
	}
}

func (r *recorder) recorded() []string {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return append([]string(nil), r.calls...)
}

func accountRequest(path storage.CodingPath, accountID chain.AccountID, handler Handler) Request {
	return Request{
		Path:     path,
		Params:   []storage.KeyParam{storage.AccountIDParam(accountID)},
		LocalKey: storage.ResolveLocalKey(path, storage.ChainAccountKey(testChainID, accountID)),
		Handler:  handler,
	}
}

// fakeConnection is a connection tracking its live subscriptions.
type fakeConnection struct {
	mutex    sync.Mutex
	nextID   int
	live     map[string][]string
	maxLive  int
	onChange map[string]func(storage.ChangeSet)
	onError  map[string]func(error)
}

func newFakeConnection() *fakeConnection {
	return &fakeConnection{
		live:     make(map[string][]string),
		onChange: make(map[string]func(storage.ChangeSet)),
		onError:  make(map[string]func(error)),
	}
}

func (f *fakeConnection) SubscribeStorage(_ context.Context, keys []string,
	onChange func(storage.ChangeSet), onError func(error)) (id string, err error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.nextID++
	id = fmt.Sprint(f.nextID)
	f.live[id] = keys
	f.onChange[id] = onChange
	f.onError[id] = onError
	if len(f.live) > f.maxLive {
		f.maxLive = len(f.live)
	}
	return id, nil
}

func (f *fakeConnection) UnsubscribeStorage(_ context.Context, id string) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	delete(f.live, id)
	delete(f.onChange, id)
	delete(f.onError, id)
	return nil
}

func (f *fakeConnection) liveSubscriptions() map[string][]string {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	live := make(map[string][]string, len(f.live))
	for id, keys := range f.live {
		live[id] = keys
	}
	return live
}

func (f *fakeConnection) maxLiveSubscriptions() int {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.maxLive
}

func (f *fakeConnection) notify(id string, changeSet storage.ChangeSet) {
	f.mutex.Lock()
	onChange := f.onChange[id]
	f.mutex.Unlock()
	onChange(changeSet)
}

func (f *fakeConnection) fail(id string, err error) {
	f.mutex.Lock()
	onError := f.onError[id]
	f.mutex.Unlock()
	onError(err)
}

type staticConnections struct {
	connection Connection
}

func (s staticConnections) Connection(context.Context, chain.ChainID) (Connection, error) {
	return s.connection, nil
}

// gatedFactories blocks the first fetch until released,
// ignoring the context given.
type gatedFactories struct {
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func newGatedFactories() *gatedFactories {
	return &gatedFactories{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (g *gatedFactories) FetchCoderFactory(context.Context, chain.ChainID) (metadata.CoderFactory, error) {
	first := false
	g.once.Do(func() { first = true })
	if first {
		close(g.entered)
		<-g.release
	}
	return testFactory(), nil
}

type staticFactories struct{}

func (staticFactories) FetchCoderFactory(context.Context, chain.ChainID) (metadata.CoderFactory, error) {
	return testFactory(), nil
}

func waitResult(t *testing.T, result <-chan error) (received bool, err error) {
	t.Helper()
	select {
	case err, received = <-result:
		return received, err
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for subscribe result")
		return false, nil
	}
}
