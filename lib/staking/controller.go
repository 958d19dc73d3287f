// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package staking

import (
	"context"

	"github.com/ChainSafe/walletsync/lib/chain"
	"github.com/ChainSafe/walletsync/lib/common"
	"github.com/ChainSafe/walletsync/lib/runtime/metadata"
	"github.com/ChainSafe/walletsync/lib/storage"
	"github.com/ChainSafe/walletsync/lib/subscription"
)

// Subscriber keeps one storage subscription open.
type Subscriber interface {
	Subscribe(requests []subscription.Request) <-chan error
	Unsubscribe()
}

// Value is a raw staking storage value received.
type Value struct {
	Target Target
	Value  []byte
	Block  common.Hash
}

// ControllerConfig is the configuration of a Controller.
type ControllerConfig struct {
	ChainID    chain.ChainID
	Self       chain.AccountID
	Subscriber Subscriber
	// Store, if set, persists the raw values received.
	Store *storage.LocalStore
	// OnValue, if set, is called with each value received.
	OnValue func(value Value)
}

// Controller keeps the staking storage of the self account subscribed,
// resubscribing when its stash and controller pair changes.
type Controller struct {
	chainID    chain.ChainID
	self       chain.AccountID
	subscriber Subscriber
	store      *storage.LocalStore
	onValue    func(value Value)
}

// NewController creates a staking subscription controller.
func NewController(config ControllerConfig) *Controller {
	return &Controller{
		chainID:    config.ChainID,
		self:       config.Self,
		subscriber: config.Subscriber,
		store:      config.Store,
		onValue:    config.OnValue,
	}
}

// Run applies each stash item change involving the self account until
// the context is canceled or the changes channel is closed, and then
// cancels the subscription.
func (c *Controller) Run(ctx context.Context, changes <-chan Change) {
	defer c.subscriber.Unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case change, ok := <-changes:
			if !ok {
				return
			}
			c.apply(change)
		}
	}
}

// RunDelegator keeps the delegator state of the self account subscribed
// until the context is canceled.
func (c *Controller) RunDelegator(ctx context.Context) {
	defer c.subscriber.Unsubscribe()
	c.subscribe(DelegatorTargets(c.self))
	<-ctx.Done()
}

func (c *Controller) apply(change Change) {
	if change.Item.ChainID != c.chainID || !change.Item.Involves(c.self) {
		return
	}

	c.subscriber.Unsubscribe()

	if change.Deleted {
		logger.Debugf("stash item deleted: %s", change.Item)
		return
	}

	targets := StakingTargets(c.self, change.Item.Stash, change.Item.Controller)
	if len(targets) == 0 {
		logger.Debugf("no staking storage to subscribe to for %s", change.Item)
		return
	}

	c.subscribe(targets)
}

func (c *Controller) subscribe(targets []Target) {
	requests := make([]subscription.Request, len(targets))
	for i, target := range targets {
		target := target
		localKey := storage.ResolveLocalKey(target.Path,
			storage.ChainAccountKey(c.chainID, target.AccountID))
		requests[i] = subscription.Request{
			Path:     target.Path,
			Params:   []storage.KeyParam{storage.AccountIDParam(target.AccountID)},
			LocalKey: localKey,
			Handler: func(value []byte, block common.Hash, _ metadata.CoderFactory) {
				c.handle(target, localKey, value, block)
			},
		}
	}

	result := c.subscriber.Subscribe(requests)
	go func() {
		err, ok := <-result
		if ok && err != nil {
			logger.Warnf("subscribing to %d staking storage items on chain %s: %s",
				len(requests), c.chainID, err)
		}
	}()
}

func (c *Controller) handle(target Target, localKey storage.LocalKey, value []byte, block common.Hash) {
	if c.store != nil {
		err := c.store.Put(localKey, storage.LocalValue{Value: value, Block: block})
		if err != nil {
			logger.Warnf("persisting %s: %s", localKey, err)
		}
	}

	if c.onValue != nil {
		c.onValue(Value{Target: target, Value: value, Block: block})
	}
}
