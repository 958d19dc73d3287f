// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package storage

import (
	"context"

	"github.com/ChainSafe/walletsync/lib/chain"
	"github.com/ChainSafe/walletsync/lib/common"
)

// Querier reads storage values at a block, or at the best
// block if block is nil.
type Querier interface {
	QueryStorageAt(ctx context.Context, keys []string, block *common.Hash) (
		changeSets []ChangeSet, err error)
}

// QuerierProvider returns the storage querier of a chain.
type QuerierProvider interface {
	Querier(ctx context.Context, chainID chain.ChainID) (Querier, error)
}
