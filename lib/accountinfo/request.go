// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package accountinfo

import (
	"fmt"
	"math/big"

	"github.com/ChainSafe/walletsync/lib/chain"
	"github.com/ChainSafe/walletsync/lib/runtime/metadata"
	"github.com/ChainSafe/walletsync/lib/storage"
)

// Schema is the on-chain encoding of an account info value.
type Schema uint8

const (
	SchemaNative Schema = iota
	SchemaOrml
	SchemaEquilibrium
	SchemaAssets
)

func (s Schema) String() string {
	switch s {
	case SchemaNative:
		return "native"
	case SchemaOrml:
		return "orml"
	case SchemaEquilibrium:
		return "equilibrium"
	case SchemaAssets:
		return "assets"
	default:
		return fmt.Sprintf("Schema(%d)", uint8(s))
	}
}

// NativeLayout is the layout of the balances pallet account data.
type NativeLayout uint8

const (
	// NativeLayoutUnknown picks the layout from the value itself: the
	// last balance is taken as flags if its new logic bit is set.
	NativeLayoutUnknown NativeLayout = iota
	// NativeLayoutLegacy is {free, reserved, misc_frozen, fee_frozen}.
	NativeLayoutLegacy
	// NativeLayoutFrozenFlags is {free, reserved, frozen, flags}.
	NativeLayoutFrozenFlags
)

// NativeLayoutOf returns the native account data layout declared by
// the System.Account value type of the runtime metadata given.
func NativeLayoutOf(factory metadata.CoderFactory) NativeLayout {
	if factory == nil {
		return NativeLayoutUnknown
	}

	entry, ok := factory.StorageEntry(storage.SystemAccount.Module, storage.SystemAccount.Item)
	if !ok || len(entry.ValueFields) == 0 {
		return NativeLayoutUnknown
	}

	switch {
	case entry.HasValueField("data.frozen") || entry.HasValueField("data.flags"):
		return NativeLayoutFrozenFlags
	case entry.HasValueField("data.misc_frozen"):
		return NativeLayoutLegacy
	default:
		return NativeLayoutUnknown
	}
}

// Branch is the request shape selected for a chain asset.
type Branch uint8

const (
	// BranchEquilibriumChain is used for every asset of equilibrium chains.
	BranchEquilibriumChain Branch = iota + 1
	// BranchNativeUtility is the utility asset of the chain.
	BranchNativeUtility
	// BranchNativeTokens is a native currency held in the tokens pallet.
	BranchNativeTokens
	// BranchEquilibriumCurrency is an equilibrium currency.
	BranchEquilibriumCurrency
	// BranchAssets is a pallet-assets asset.
	BranchAssets
	// BranchNoCurrency is an asset without currency id.
	BranchNoCurrency
	// BranchOrml is any other currency, held in the tokens pallet.
	BranchOrml
)

func (b Branch) String() string {
	switch b {
	case BranchEquilibriumChain:
		return "equilibrium chain"
	case BranchNativeUtility:
		return "native utility"
	case BranchNativeTokens:
		return "native tokens"
	case BranchEquilibriumCurrency:
		return "equilibrium currency"
	case BranchAssets:
		return "assets"
	case BranchNoCurrency:
		return "no currency"
	case BranchOrml:
		return "orml"
	default:
		return fmt.Sprintf("Branch(%d)", uint8(b))
	}
}

// Request is an account info storage request for a chain asset.
type Request struct {
	ID        chain.ChainAssetID
	AccountID chain.AccountID
	Branch    Branch
	Schema    Schema
	Path      storage.CodingPath
	Params    []storage.KeyParam
	// CurrencyNumber is the asset id looked up in equilibrium
	// account data, nil for other schemas.
	CurrencyNumber *big.Int
	// NativeLayout is set from the runtime metadata the value
	// is read with, for the native schema only.
	NativeLayout NativeLayout
}

// LocalKey returns the local key under which the raw value
// of the request is stored.
func (r Request) LocalKey() storage.LocalKey {
	return storage.ResolveLocalKey(r.Path, storage.ChainAssetAccountKey(r.ID, r.AccountID))
}
