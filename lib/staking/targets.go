// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package staking

import (
	"github.com/ChainSafe/walletsync/lib/chain"
	"github.com/ChainSafe/walletsync/lib/storage"
)

// Target is a storage item of an account to subscribe to.
type Target struct {
	Path      storage.CodingPath
	AccountID chain.AccountID
}

// StakingTargets returns the storage items to subscribe to for the stash
// and controller pair of the self account. Stash side items are only
// included if the stash is not the self account, and controller side
// items only if the controller is not the self account.
func StakingTargets(self, stash, controller chain.AccountID) (targets []Target) {
	if !stash.Equal(self) {
		for _, path := range []storage.CodingPath{
			storage.StakingNominators,
			storage.StakingValidators,
			storage.StakingPayee,
			storage.SystemAccount,
		} {
			targets = append(targets, Target{Path: path, AccountID: stash})
		}
	}

	if !controller.Equal(self) {
		targets = append(targets,
			Target{Path: storage.StakingLedger, AccountID: controller},
			Target{Path: storage.SystemAccount, AccountID: controller},
		)
	}

	return targets
}

// DelegatorTargets returns the storage items to subscribe to for
// a delegator of a parachain staking chain.
func DelegatorTargets(account chain.AccountID) []Target {
	return []Target{{Path: storage.ParachainStakingDelegatorState, AccountID: account}}
}
