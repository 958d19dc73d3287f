// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package chain holds the chain, asset and account identifiers shared by
// the storage subscription packages.
package chain

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/ChainSafe/walletsync/lib/common"
)

// ChainID is the genesis hash of a chain as a 0x prefixed hex string.
type ChainID string

// AssetID identifies an asset within a chain configuration.
type AssetID uint32

// ChainAssetID identifies an asset on a given chain.
type ChainAssetID struct {
	ChainID ChainID
	AssetID AssetID
}

// String returns the chain asset id in the form chainID:assetID.
func (c ChainAssetID) String() string {
	return fmt.Sprintf("%s:%d", c.ChainID, c.AssetID)
}

// AccountID is a chain format agnostic account identifier.
// It is 32 bytes long for substrate chains and 20 bytes long
// for ethereum compatible chains.
type AccountID []byte

// Equal returns true if both account ids hold the same bytes.
func (a AccountID) Equal(other AccountID) bool {
	return bytes.Equal(a, other)
}

// Hex returns the 0x prefixed hex form of the account id.
func (a AccountID) Hex() string {
	return common.BytesToHex(a)
}

func (a AccountID) String() string {
	return a.Hex()
}

// CurrencyKind is the variant of a CurrencyID.
type CurrencyKind uint8

const (
	// CurrencyNone is used by assets which do not carry a currency id.
	CurrencyNone CurrencyKind = iota
	// CurrencyNative is the native token of the chain, possibly
	// also addressable through an orml tokens currency id.
	CurrencyNative
	// CurrencyOrml is an orml tokens pallet currency.
	CurrencyOrml
	// CurrencyAssets is a pallet-assets asset id.
	CurrencyAssets
	// CurrencyEquilibrium is an equilibrium chain asset id.
	CurrencyEquilibrium
)

func (k CurrencyKind) String() string {
	switch k {
	case CurrencyNone:
		return "none"
	case CurrencyNative:
		return "native"
	case CurrencyOrml:
		return "orml"
	case CurrencyAssets:
		return "assets"
	case CurrencyEquilibrium:
		return "equilibrium"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// ParseCurrencyKind parses the string form of a currency kind.
func ParseCurrencyKind(s string) (CurrencyKind, error) {
	for _, kind := range []CurrencyKind{CurrencyNone, CurrencyNative,
		CurrencyOrml, CurrencyAssets, CurrencyEquilibrium} {
		if kind.String() == s {
			return kind, nil
		}
	}
	if s == "" {
		return CurrencyNone, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrCurrencyKindUnknown, s)
}

// CurrencyID identifies a fungible asset within a multi-asset chain.
type CurrencyID struct {
	Kind CurrencyKind
	// Scale is the SCALE encoded runtime currency id, set for
	// orml currencies and for native currencies addressable
	// through the orml tokens pallet.
	Scale []byte
	// Number is the numeric asset id of pallet-assets and
	// equilibrium currencies.
	Number *big.Int
}

// ChainAsset is an asset configured for a chain.
type ChainAsset struct {
	ID        AssetID
	Symbol    string
	Precision uint8
	// Utility is true for the asset paying the chain fees.
	Utility  bool
	Currency CurrencyID
}

// StakingKind is the staking flavour of a chain.
type StakingKind uint8

const (
	// StakingNone is used for chains without staking support.
	StakingNone StakingKind = iota
	// StakingRelaychain is the stash and controller staking pallet.
	StakingRelaychain
	// StakingParachain is the delegator based parachain staking pallet.
	StakingParachain
)

// Chain is a configured chain.
type Chain struct {
	ID   ChainID
	Name string
	URL  string
	// AddressPrefix is the SS58 network prefix.
	AddressPrefix uint16
	// Ethereum is true for chains using 20 bytes account ids.
	Ethereum bool
	// Equilibrium is true for chains storing balances
	// in the equilibrium account data layout.
	Equilibrium bool
	// HexAccountID is true for chains keying account storage
	// by the hex string form of the account id.
	HexAccountID bool
	Staking      StakingKind
	Assets       []ChainAsset
}

// Asset returns the asset with the given id.
func (c Chain) Asset(id AssetID) (asset ChainAsset, ok bool) {
	for _, asset := range c.Assets {
		if asset.ID == id {
			return asset, true
		}
	}
	return asset, false
}

// UtilityAsset returns the utility asset of the chain.
func (c Chain) UtilityAsset() (asset ChainAsset, ok bool) {
	for _, asset := range c.Assets {
		if asset.Utility {
			return asset, true
		}
	}
	return asset, false
}
