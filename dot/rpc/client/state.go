// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ChainSafe/walletsync/lib/common"
	"github.com/ChainSafe/walletsync/lib/storage"
)

// RPC methods
const (
	stateSubscribeStorage          = "state_subscribeStorage"
	stateUnsubscribeStorage        = "state_unsubscribeStorage"
	stateQueryStorageAt            = "state_queryStorageAt"
	stateGetMetadata               = "state_getMetadata"
	stateGetRuntimeVersion         = "state_getRuntimeVersion"
	stateSubscribeRuntimeVersion   = "state_subscribeRuntimeVersion"
	stateUnsubscribeRuntimeVersion = "state_unsubscribeRuntimeVersion"
)

// RuntimeVersion is the runtime version of a chain.
type RuntimeVersion struct {
	SpecName           string `json:"specName"`
	ImplName           string `json:"implName"`
	AuthoringVersion   uint32 `json:"authoringVersion"`
	SpecVersion        uint32 `json:"specVersion"`
	ImplVersion        uint32 `json:"implVersion"`
	TransactionVersion uint32 `json:"transactionVersion"`
}

// SubscribeStorage subscribes to changes of the storage keys given, in their
// 0x prefixed hex form. The initial values are sent as the first change set.
func (c *Client) SubscribeStorage(ctx context.Context, keys []string,
	onChange func(changeSet storage.ChangeSet), onError func(err error)) (id string, err error) {
	onNotify := func(result json.RawMessage) {
		var changeSet storage.ChangeSet
		err := json.Unmarshal(result, &changeSet)
		if err != nil {
			c.logger.Warnf("decoding storage change set: %s", err)
			return
		}
		onChange(changeSet)
	}

	return c.Subscribe(ctx, stateSubscribeStorage, stateUnsubscribeStorage,
		onNotify, onError, keys)
}

// UnsubscribeStorage cancels a storage subscription.
func (c *Client) UnsubscribeStorage(ctx context.Context, id string) error {
	return c.Unsubscribe(ctx, stateUnsubscribeStorage, id)
}

// QueryStorageAt queries the values of the storage keys given at the block
// given, or at the best block if block is nil.
func (c *Client) QueryStorageAt(ctx context.Context, keys []string, block *common.Hash) (
	changeSets []storage.ChangeSet, err error) {
	params := []interface{}{keys}
	if block != nil {
		params = append(params, block.String())
	}

	err = c.Call(ctx, stateQueryStorageAt, &changeSets, params...)
	if err != nil {
		return nil, err
	}
	return changeSets, nil
}

// GetMetadata returns the hex encoded runtime metadata at the best block.
func (c *Client) GetMetadata(ctx context.Context) (metadataHex string, err error) {
	err = c.Call(ctx, stateGetMetadata, &metadataHex)
	if err != nil {
		return "", err
	}
	return metadataHex, nil
}

// GetRuntimeVersion returns the runtime version at the best block.
func (c *Client) GetRuntimeVersion(ctx context.Context) (version RuntimeVersion, err error) {
	err = c.Call(ctx, stateGetRuntimeVersion, &version)
	if err != nil {
		return RuntimeVersion{}, err
	}
	return version, nil
}

// SubscribeRuntimeVersion subscribes to runtime version changes.
func (c *Client) SubscribeRuntimeVersion(ctx context.Context,
	onVersion func(version RuntimeVersion), onError func(err error)) (id string, err error) {
	onNotify := func(result json.RawMessage) {
		var version RuntimeVersion
		err := json.Unmarshal(result, &version)
		if err != nil {
			c.logger.Warnf("decoding runtime version: %s", err)
			return
		}
		onVersion(version)
	}

	return c.Subscribe(ctx, stateSubscribeRuntimeVersion, stateUnsubscribeRuntimeVersion,
		onNotify, onError)
}

// SpecVersion returns the runtime spec version at the best block.
func (c *Client) SpecVersion(ctx context.Context) (specVersion uint32, err error) {
	version, err := c.GetRuntimeVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("getting runtime version: %w", err)
	}
	return version.SpecVersion, nil
}

// MetadataHex returns the hex encoded runtime metadata at the best block.
func (c *Client) MetadataHex(ctx context.Context) (metadataHex string, err error) {
	return c.GetMetadata(ctx)
}
