// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package staking

import (
	"context"
	"fmt"

	"github.com/ChainSafe/walletsync/lib/chain"
	"github.com/ChainSafe/walletsync/lib/runtime/metadata"
	"github.com/ChainSafe/walletsync/lib/storage"
)

// Discover reads the stash and controller pair of the self account from
// the chain, as a stash through Staking.Bonded and as a controller through
// Staking.Ledger. It returns false if the account is not bonded.
func Discover(ctx context.Context, chainID chain.ChainID, self chain.AccountID,
	factory metadata.CoderFactory, querier storage.Querier) (item StashItem, found bool, err error) {
	bondedKey, err := storage.ResolveRemoteKey(storage.StakingBonded,
		[]storage.KeyParam{storage.AccountIDParam(self)}, factory)
	if err != nil {
		return item, false, err
	}

	ledgerKey, err := storage.ResolveRemoteKey(storage.StakingLedger,
		[]storage.KeyParam{storage.AccountIDParam(self)}, factory)
	if err != nil {
		return item, false, err
	}

	changeSets, err := querier.QueryStorageAt(ctx, []string{bondedKey.Hex(), ledgerKey.Hex()}, nil)
	if err != nil {
		return item, false, fmt.Errorf("querying staking storage: %w", err)
	}

	var controller, ledger []byte
	for _, changeSet := range changeSets {
		for _, change := range changeSet.Changes {
			switch change.Key.Hex() {
			case bondedKey.Hex():
				controller = change.Value
			case ledgerKey.Hex():
				ledger = change.Value
			}
		}
	}

	accountLength := len(self)
	switch {
	case controller != nil:
		if len(controller) != accountLength {
			return item, false, fmt.Errorf("bonded controller has %d bytes, expected %d",
				len(controller), accountLength)
		}
		return StashItem{ChainID: chainID, Stash: self, Controller: controller}, true, nil
	case ledger != nil:
		// The ledger starts with the stash account id.
		if len(ledger) < accountLength {
			return item, false, fmt.Errorf("%w: %d bytes", ErrLedgerTooShort, len(ledger))
		}
		stash := make(chain.AccountID, accountLength)
		copy(stash, ledger[:accountLength])
		return StashItem{ChainID: chainID, Stash: stash, Controller: self}, true, nil
	default:
		return item, false, nil
	}
}
