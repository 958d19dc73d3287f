// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package staking keeps the staking storage of an account subscribed,
// following the stash and controller pair of the account.
package staking

import (
	"fmt"

	"github.com/ChainSafe/gossamer/pkg/scale"
	"github.com/ChainSafe/walletsync/internal/log"
	"github.com/ChainSafe/walletsync/lib/chain"
)

var logger = log.NewFromGlobal(log.AddContext("pkg", "staking"))

// StashItem is the stash and controller pair of a staking account.
type StashItem struct {
	ChainID    chain.ChainID
	Stash      chain.AccountID
	Controller chain.AccountID
}

// Involves returns true if the account given is the stash
// or the controller of the item.
func (s StashItem) Involves(accountID chain.AccountID) bool {
	return s.Stash.Equal(accountID) || s.Controller.Equal(accountID)
}

func (s StashItem) String() string {
	return fmt.Sprintf("stash %s controller %s on chain %s", s.Stash, s.Controller, s.ChainID)
}

type stashItemSCALE struct {
	ChainID    string
	Stash      []byte
	Controller []byte
}

// Encode returns the SCALE encoding of the item.
func (s StashItem) Encode() ([]byte, error) {
	return scale.Marshal(stashItemSCALE{
		ChainID:    string(s.ChainID),
		Stash:      s.Stash,
		Controller: s.Controller,
	})
}

// DecodeStashItem decodes a SCALE encoded stash item.
func DecodeStashItem(encoded []byte) (item StashItem, err error) {
	var decoded stashItemSCALE
	err = scale.Unmarshal(encoded, &decoded)
	if err != nil {
		return item, fmt.Errorf("decoding stash item: %w", err)
	}

	return StashItem{
		ChainID:    chain.ChainID(decoded.ChainID),
		Stash:      decoded.Stash,
		Controller: decoded.Controller,
	}, nil
}
