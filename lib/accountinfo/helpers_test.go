// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package accountinfo

import (
	"encoding/binary"
	"math/big"

	"github.com/ChainSafe/walletsync/lib/chain"
	"github.com/ChainSafe/walletsync/lib/common"
	"github.com/ChainSafe/walletsync/lib/runtime/metadata"
)

const (
	testChainID        chain.ChainID = "0x91b171bb158e2d3848fa23a9f1c25182fb8e20313b2c1eb49219da7a70ce90c3"
	equilibriumChainID chain.ChainID = "0x6f1a800de3daff7f5e037ddf66ab22ce03ab91874debeddb1086f5f7dbd48925"
	hexChainID         chain.ChainID = "0xfe58ea77779b7abda7da4ec526d14db9b1e9cd40a217c34892af80a9b332b76d"
)

var (
	alice = chain.AccountID(common.MustHexToBytes(
		"0xd43593c715fdd31c61141abd04a99fd6822c8558854ccde39a5684e7a56da27d"))

	accountID32 = metadata.KeyType{Name: "AccountId32", Kind: metadata.KindAccountID, Width: 32}
)

func testFactory() *metadata.Snapshot {
	return metadata.NewSnapshot(9430,
		metadata.StorageEntry{
			Module:  "System",
			Prefix:  "System",
			Name:    "Account",
			Hashers: []metadata.Hasher{metadata.Blake2_128Concat},
			Keys:    []metadata.KeyType{accountID32},
		},
		metadata.StorageEntry{
			Module:  "Tokens",
			Prefix:  "Tokens",
			Name:    "Accounts",
			Hashers: []metadata.Hasher{metadata.Blake2_128Concat, metadata.Twox64Concat},
			Keys:    []metadata.KeyType{accountID32, {Name: "CurrencyId", Kind: metadata.KindOpaque}},
		},
		metadata.StorageEntry{
			Module:  "Assets",
			Prefix:  "Assets",
			Name:    "Account",
			Hashers: []metadata.Hasher{metadata.Blake2_128Concat, metadata.Blake2_128Concat},
			Keys: []metadata.KeyType{
				{Name: "u32", Kind: metadata.KindUint, Width: 4},
				accountID32,
			},
		},
	)
}

// frozenFactory is a snapshot of a runtime whose balances pallet
// account data is {free, reserved, frozen, flags}. Only System.Account
// is declared.
func frozenFactory() *metadata.Snapshot {
	return metadata.NewSnapshot(1000000,
		metadata.StorageEntry{
			Module:  "System",
			Prefix:  "System",
			Name:    "Account",
			Hashers: []metadata.Hasher{metadata.Blake2_128Concat},
			Keys:    []metadata.KeyType{accountID32},
			ValueFields: []string{"nonce", "consumers", "providers", "sufficients", "data",
				"data.free", "data.reserved", "data.frozen", "data.flags"},
		},
	)
}

func testChains() []chain.Chain {
	return []chain.Chain{
		{
			ID:   testChainID,
			Name: "Polkadot",
			Assets: []chain.ChainAsset{
				{ID: 0, Symbol: "DOT", Utility: true, Currency: chain.CurrencyID{Kind: chain.CurrencyNative}},
				{ID: 1, Symbol: "USDT", Currency: chain.CurrencyID{Kind: chain.CurrencyAssets, Number: big.NewInt(1984)}},
				{ID: 2, Symbol: "KSM", Currency: chain.CurrencyID{Kind: chain.CurrencyOrml, Scale: []byte{0, 0x82}}},
			},
		},
		{ID: equilibriumChainID, Name: "Equilibrium", Equilibrium: true},
		{ID: hexChainID, Name: "Hex", HexAccountID: true},
	}
}

func u32LE(value uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, value)
	return b
}

func u64LE(value uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, value)
	return b
}

func u128LE(value uint64) []byte {
	return append(u64LE(value), make([]byte, 8)...)
}

func concat(slices ...[]byte) (b []byte) {
	for _, slice := range slices {
		b = append(b, slice...)
	}
	return b
}

func nativeValue(nonce uint32, free, reserved, miscFrozen, feeFrozen uint64) []byte {
	return concat(u32LE(nonce), u32LE(0), u32LE(1), u32LE(0),
		u128LE(free), u128LE(reserved), u128LE(miscFrozen), u128LE(feeFrozen))
}

// newLogicFlags are account flags with only the new logic bit set.
func newLogicFlags() []byte {
	flags := make([]byte, 16)
	flags[15] = 0x80
	return flags
}

func frozenValue(nonce uint32, free, reserved, frozen uint64, flags []byte) []byte {
	return concat(u32LE(nonce), u32LE(0), u32LE(1), u32LE(0),
		u128LE(free), u128LE(reserved), u128LE(frozen), flags)
}

func ormlValue(free, reserved, frozen uint64) []byte {
	return concat(u128LE(free), u128LE(reserved), u128LE(frozen))
}

func assetsValue(balance uint64, status uint8) []byte {
	// balance, status, reason (consumer), extra
	return concat(u128LE(balance), []byte{status, 0})
}

type equilibriumEntry struct {
	asset    uint64
	negative bool
	amount   uint64
}

func equilibriumValue(nonce uint32, lock uint64, entries ...equilibriumEntry) []byte {
	value := concat(u32LE(nonce), u32LE(0), u32LE(1), u32LE(0), []byte{0}, u128LE(lock),
		[]byte{byte(len(entries) << 2)})
	for _, entry := range entries {
		sign := byte(0)
		if entry.negative {
			sign = 1
		}
		value = concat(value, u64LE(entry.asset), []byte{sign}, u128LE(entry.amount))
	}
	return value
}

func accountInfo(nonce uint32, free, reserved, frozen, miscFrozen, feeFrozen int64) AccountInfo {
	return AccountInfo{
		Nonce:      nonce,
		Free:       big.NewInt(free),
		Reserved:   big.NewInt(reserved),
		Frozen:     big.NewInt(frozen),
		MiscFrozen: big.NewInt(miscFrozen),
		FeeFrozen:  big.NewInt(feeFrozen),
	}
}
