// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package accountinfo

import (
	"fmt"

	"github.com/ChainSafe/walletsync/lib/chain"
	"github.com/ChainSafe/walletsync/lib/storage"
)

// Builder selects the request shape of chain assets and builds
// their account info requests.
type Builder struct {
	equilibrium  map[chain.ChainID]struct{}
	hexAccountID map[chain.ChainID]struct{}
}

// NewBuilder creates a builder using the chain flags of the chains given.
func NewBuilder(chains []chain.Chain) *Builder {
	builder := &Builder{
		equilibrium:  make(map[chain.ChainID]struct{}),
		hexAccountID: make(map[chain.ChainID]struct{}),
	}

	for _, c := range chains {
		if c.Equilibrium {
			builder.equilibrium[c.ID] = struct{}{}
		}
		if c.HexAccountID {
			builder.hexAccountID[c.ID] = struct{}{}
		}
	}

	return builder
}

// Shape returns the request shape of the asset on the chain given.
// The first matching branch wins.
func (b *Builder) Shape(chainID chain.ChainID, asset chain.ChainAsset) Branch {
	if _, ok := b.equilibrium[chainID]; ok {
		return BranchEquilibriumChain
	}

	switch asset.Currency.Kind {
	case chain.CurrencyNative:
		if asset.Utility {
			return BranchNativeUtility
		}
		return BranchNativeTokens
	case chain.CurrencyEquilibrium:
		return BranchEquilibriumCurrency
	case chain.CurrencyAssets:
		return BranchAssets
	case chain.CurrencyNone:
		return BranchNoCurrency
	default:
		return BranchOrml
	}
}

// Build builds the account info request of the account for the asset
// on the chain given. It fails with ErrMissingCurrencyID if the currency
// data needed by the selected shape is not set.
func (b *Builder) Build(chainID chain.ChainID, asset chain.ChainAsset,
	accountID chain.AccountID) (request Request, err error) {
	request = Request{
		ID:        chain.ChainAssetID{ChainID: chainID, AssetID: asset.ID},
		AccountID: accountID,
		Branch:    b.Shape(chainID, asset),
	}

	currency := asset.Currency
	switch request.Branch {
	case BranchEquilibriumChain, BranchEquilibriumCurrency:
		if currency.Number == nil {
			return request, fmt.Errorf("%w: %s asset %s has no equilibrium asset id",
				ErrMissingCurrencyID, request.ID, asset.Symbol)
		}
		request.Schema = SchemaEquilibrium
		request.Path = storage.EquilibriumAccount
		request.Params = []storage.KeyParam{storage.AccountIDParam(accountID)}
		request.CurrencyNumber = currency.Number
	case BranchNativeUtility:
		request.Schema = SchemaNative
		request.Path = storage.SystemAccount
		request.Params = []storage.KeyParam{storage.AccountIDParam(accountID)}
	case BranchNativeTokens, BranchOrml:
		if len(currency.Scale) == 0 {
			return request, fmt.Errorf("%w: %s asset %s has no encoded currency id",
				ErrMissingCurrencyID, request.ID, asset.Symbol)
		}
		request.Schema = SchemaOrml
		request.Path = storage.TokensAccounts
		request.Params = []storage.KeyParam{
			storage.AccountIDParam(accountID),
			storage.ScaleParam(currency.Scale),
		}
	case BranchAssets:
		if currency.Number == nil {
			return request, fmt.Errorf("%w: %s asset %s has no asset id",
				ErrMissingCurrencyID, request.ID, asset.Symbol)
		}
		request.Schema = SchemaAssets
		request.Path = storage.AssetsAccount
		request.Params = []storage.KeyParam{
			storage.UintParam{Value: currency.Number},
			storage.AccountIDParam(accountID),
		}
	case BranchNoCurrency:
		request.Schema = SchemaNative
		request.Path = storage.SystemAccount
		if _, ok := b.hexAccountID[chainID]; ok {
			request.Params = []storage.KeyParam{storage.HexAccountParam(accountID)}
		} else {
			request.Params = []storage.KeyParam{storage.AccountIDParam(accountID)}
		}
	}

	return request, nil
}
