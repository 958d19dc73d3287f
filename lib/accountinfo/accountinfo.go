// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package accountinfo builds account info storage requests for chain
// assets, normalizes their raw values and keeps them subscribed.
package accountinfo

import (
	"fmt"
	"math/big"

	"github.com/ChainSafe/walletsync/internal/log"
)

var logger = log.NewFromGlobal(log.AddContext("pkg", "accountinfo"))

// AccountInfo is the balance of an account for an asset, whatever
// the on-chain encoding it was decoded from. Its balances are never nil.
type AccountInfo struct {
	Nonce      uint32
	Free       *big.Int
	Reserved   *big.Int
	Frozen     *big.Int
	MiscFrozen *big.Int
	FeeFrozen  *big.Int
}

// NewAccountInfo returns an account info with zero balances.
func NewAccountInfo() AccountInfo {
	return AccountInfo{
		Free:       new(big.Int),
		Reserved:   new(big.Int),
		Frozen:     new(big.Int),
		MiscFrozen: new(big.Int),
		FeeFrozen:  new(big.Int),
	}
}

// Total returns the free and reserved balances summed.
func (a AccountInfo) Total() *big.Int {
	return new(big.Int).Add(a.Free, a.Reserved)
}

// Transferable returns the free balance not frozen.
func (a AccountInfo) Transferable() *big.Int {
	frozen := maxInt(a.Frozen, maxInt(a.MiscFrozen, a.FeeFrozen))
	transferable := new(big.Int).Sub(a.Free, frozen)
	if transferable.Sign() < 0 {
		return new(big.Int)
	}
	return transferable
}

func (a AccountInfo) String() string {
	return fmt.Sprintf("free %s reserved %s frozen %s", a.Free, a.Reserved, a.Frozen)
}

func maxInt(a, b *big.Int) *big.Int {
	if a.Cmp(b) >= 0 {
		return a
	}
	return b
}
