// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package staking

import "errors"

var (
	ErrStashItemNotFound = errors.New("stash item not found")
	ErrLedgerTooShort    = errors.New("staking ledger too short")
)
