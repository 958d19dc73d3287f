// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package chain

// Wallet holds the account ids of a wallet. A wallet has one substrate
// account id and optionally one ethereum account id, and may override
// them for specific chains.
type Wallet struct {
	Substrate AccountID
	Ethereum  AccountID
	Overrides map[ChainID]AccountID
}

// AccountID returns the account id of the wallet for the chain given.
// It returns false if the wallet has no account for that chain.
func (w Wallet) AccountID(c Chain) (accountID AccountID, ok bool) {
	if accountID, ok = w.Overrides[c.ID]; ok {
		return accountID, true
	}

	if c.Ethereum {
		accountID = w.Ethereum
	} else {
		accountID = w.Substrate
	}
	return accountID, len(accountID) > 0
}
