// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package staking

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ChainSafe/walletsync/internal/database"
	"github.com/ChainSafe/walletsync/lib/chain"
)

// Change is a change of a stash item.
type Change struct {
	Item    StashItem
	Deleted bool
}

// Repository persists stash items and notifies observers of their changes.
type Repository struct {
	table database.Table

	mutex     sync.RWMutex
	observers map[*observer]struct{}
}

// NewRepository creates a repository using the database table given.
func NewRepository(table database.Table) *Repository {
	return &Repository{
		table:     table,
		observers: make(map[*observer]struct{}),
	}
}

func itemKey(chainID chain.ChainID, stash chain.AccountID) []byte {
	return []byte(string(chainID) + "/" + stash.Hex())
}

// Save stores the item, replacing the item with the same chain and stash.
func (r *Repository) Save(item StashItem) error {
	encoded, err := item.Encode()
	if err != nil {
		return err
	}

	err = r.table.Set(itemKey(item.ChainID, item.Stash), encoded)
	if err != nil {
		return fmt.Errorf("saving %s: %w", item, err)
	}

	r.notify(Change{Item: item})
	return nil
}

// Delete deletes the item of the stash on the chain given.
// It is a no-op if there is no such item.
func (r *Repository) Delete(chainID chain.ChainID, stash chain.AccountID) error {
	item, err := r.Get(chainID, stash)
	if errors.Is(err, ErrStashItemNotFound) {
		return nil
	} else if err != nil {
		return err
	}

	err = r.table.Delete(itemKey(chainID, stash))
	if err != nil {
		return fmt.Errorf("deleting %s: %w", item, err)
	}

	r.notify(Change{Item: item, Deleted: true})
	return nil
}

// Get returns the item of the stash on the chain given.
func (r *Repository) Get(chainID chain.ChainID, stash chain.AccountID) (item StashItem, err error) {
	encoded, err := r.table.Get(itemKey(chainID, stash))
	if errors.Is(err, database.ErrKeyNotFound) {
		return item, fmt.Errorf("%w: stash %s on chain %s", ErrStashItemNotFound, stash, chainID)
	} else if err != nil {
		return item, err
	}

	return DecodeStashItem(encoded)
}

// List returns the items of the chain given.
func (r *Repository) List(ctx context.Context, chainID chain.ChainID) (items []StashItem, err error) {
	err = r.table.Stream(ctx, []byte(string(chainID)+"/"),
		func([]byte) bool { return true },
		func(_, value []byte) error {
			item, err := DecodeStashItem(value)
			if err != nil {
				return err
			}
			items = append(items, item)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("listing stash items of chain %s: %w", chainID, err)
	}
	return items, nil
}

// Subscribe returns a channel receiving the changes of the items of the
// chain given, in order, and a function to stop the subscription which
// closes the channel.
func (r *Repository) Subscribe(chainID chain.ChainID) (changes <-chan Change, unsubscribe func()) {
	o := newObserver(chainID)

	r.mutex.Lock()
	r.observers[o] = struct{}{}
	r.mutex.Unlock()

	go o.run()

	var once sync.Once
	unsubscribe = func() {
		once.Do(func() {
			r.mutex.Lock()
			delete(r.observers, o)
			r.mutex.Unlock()
			close(o.stop)
			<-o.done
		})
	}

	return o.out, unsubscribe
}

func (r *Repository) notify(change Change) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	for o := range r.observers {
		if o.chainID == change.Item.ChainID {
			o.enqueue(change)
		}
	}
}

// observer queues changes so notifying never blocks on a slow reader.
type observer struct {
	chainID chain.ChainID
	out     chan Change
	stop    chan struct{}
	done    chan struct{}
	wake    chan struct{}

	mutex   sync.Mutex
	pending []Change
}

func newObserver(chainID chain.ChainID) *observer {
	return &observer{
		chainID: chainID,
		out:     make(chan Change),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
		wake:    make(chan struct{}, 1),
	}
}

func (o *observer) enqueue(change Change) {
	o.mutex.Lock()
	o.pending = append(o.pending, change)
	o.mutex.Unlock()

	select {
	case o.wake <- struct{}{}:
	default:
	}
}

func (o *observer) run() {
	defer close(o.done)
	defer close(o.out)

	for {
		o.mutex.Lock()
		pending := o.pending
		o.pending = nil
		o.mutex.Unlock()

		for _, change := range pending {
			select {
			case o.out <- change:
			case <-o.stop:
				return
			}
		}

		select {
		case <-o.wake:
		case <-o.stop:
			return
		}
	}
}
