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

// Reconcile brings the stored stash items of the self account on the
// chain in line with the chain state. The discovered item is saved and
// stored items involving the self account for another stash are deleted.
// If the discovery fails, the stored items involving the self account
// are saved again so subscribers of the repository apply them.
func Reconcile(ctx context.Context, repository *Repository, chainID chain.ChainID,
	self chain.AccountID, factory metadata.CoderFactory, querier storage.Querier) error {
	stored, err := repository.List(ctx, chainID)
	if err != nil {
		return err
	}

	var involved []StashItem
	for _, item := range stored {
		if item.Involves(self) {
			involved = append(involved, item)
		}
	}

	discovered, found, err := Discover(ctx, chainID, self, factory, querier)
	if err != nil {
		for _, item := range involved {
			saveErr := repository.Save(item)
			if saveErr != nil {
				logger.Warnf("replaying %s: %s", item, saveErr)
			}
		}
		return fmt.Errorf("discovering stash of %s on chain %s: %w", self, chainID, err)
	}

	for _, item := range involved {
		if found && item.Stash.Equal(discovered.Stash) {
			continue
		}
		err = repository.Delete(chainID, item.Stash)
		if err != nil {
			return err
		}
	}

	if !found {
		logger.Debugf("account %s is not bonded on chain %s", self, chainID)
		return nil
	}

	return repository.Save(discovered)
}
