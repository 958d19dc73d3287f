// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package storage

// CodingPath identifies a storage item of a pallet.
type CodingPath struct {
	Module string
	Item   string
}

func (p CodingPath) String() string {
	return p.Module + "." + p.Item
}

// Storage paths used by the wallet.
var (
	SystemAccount                  = CodingPath{Module: "System", Item: "Account"}
	TokensAccounts                 = CodingPath{Module: "Tokens", Item: "Accounts"}
	AssetsAccount                  = CodingPath{Module: "Assets", Item: "Account"}
	EquilibriumAccount             = CodingPath{Module: "System", Item: "Account"}
	StakingLedger                  = CodingPath{Module: "Staking", Item: "Ledger"}
	StakingBonded                  = CodingPath{Module: "Staking", Item: "Bonded"}
	StakingNominators              = CodingPath{Module: "Staking", Item: "Nominators"}
	StakingValidators              = CodingPath{Module: "Staking", Item: "Validators"}
	StakingPayee                   = CodingPath{Module: "Staking", Item: "Payee"}
	ParachainStakingDelegatorState = CodingPath{Module: "ParachainStaking", Item: "DelegatorState"}
)
