// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package staking

import (
	"testing"
	"time"

	"github.com/ChainSafe/walletsync/lib/chain"
	"github.com/ChainSafe/walletsync/lib/common"
	"github.com/ChainSafe/walletsync/lib/runtime/metadata"
)

const testChainID chain.ChainID = "0xb0a8d493285c2df73290dfb7e61f870f17b41801197a149ca93654499ea3dafe"

var (
	alice = chain.AccountID(common.MustHexToBytes(
		"0xd43593c715fdd31c61141abd04a99fd6822c8558854ccde39a5684e7a56da27d"))
	bob = chain.AccountID(common.MustHexToBytes(
		"0x8eaf04151687736326c9fea17e25fc5287613693c912909cb226aa4794f26a48"))
	charlie = chain.AccountID(common.MustHexToBytes(
		"0x90b5ab205c6974c9ea841be688864633dc9ca8a357843eeacf2314649965fe22"))
)

func testFactory() *metadata.Snapshot {
	accountID := metadata.KeyType{Name: "AccountId32", Kind: metadata.KindAccountID, Width: 32}
	entry := func(module, item string) metadata.StorageEntry {
		return metadata.StorageEntry{
			Module:  module,
			Prefix:  module,
			Name:    item,
			Hashers: []metadata.Hasher{metadata.Twox64Concat},
			Keys:    []metadata.KeyType{accountID},
		}
	}
	return metadata.NewSnapshot(1,
		entry("Staking", "Bonded"),
		entry("Staking", "Ledger"),
	)
}

func receive[T any](t *testing.T, ch <-chan T) (value T) {
	t.Helper()
	select {
	case value = <-ch:
		return value
	case <-time.After(time.Second):
		t.Fatal("timed out")
		return value
	}
}
