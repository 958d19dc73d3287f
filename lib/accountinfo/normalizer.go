// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package accountinfo

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/ChainSafe/gossamer/pkg/scale"
	"github.com/ChainSafe/walletsync/lib/chain"
	gsrpcscale "github.com/centrifuge/go-substrate-rpc-client/v4/scale"
)

// Normalize decodes the raw storage value of the request with its schema.
// A nil raw value means the account does not exist and gives zero balances.
// Balances absent from the schema are zero.
func Normalize(request Request, raw []byte) (info AccountInfo, err error) {
	info = NewAccountInfo()

	decode, ok := decoders[request.Schema]
	if !ok {
		logger.Criticalf("no decoder for schema %s of request %s", request.Schema, request.ID)
		return info, fmt.Errorf("%w: %s", ErrResponseTypeNotRegistered, request.Schema)
	}

	if raw == nil {
		return info, nil
	}

	err = decode(request, raw, &info)
	if err != nil {
		return NewAccountInfo(), fmt.Errorf("%w: %s value of %s: %w",
			ErrDecodingFailed, request.Schema, request.ID, err)
	}
	return info, nil
}

type decoder func(request Request, raw []byte, info *AccountInfo) error

var decoders = map[Schema]decoder{
	SchemaNative:      decodeNative,
	SchemaOrml:        decodeOrml,
	SchemaEquilibrium: decodeEquilibrium,
	SchemaAssets:      decodeAssets,
}

func decodeNative(request Request, raw []byte, info *AccountInfo) error {
	layout := request.NativeLayout
	if layout == NativeLayoutUnknown {
		layout = detectNativeLayout(raw)
	}

	if layout == NativeLayoutFrozenFlags {
		var native FrozenAccountInfo
		err := scale.Unmarshal(raw, &native)
		if err != nil {
			return err
		}

		info.Nonce = native.Nonce
		info.Free = uint128ToBig(native.Data.Free)
		info.Reserved = uint128ToBig(native.Data.Reserved)
		info.Frozen = uint128ToBig(native.Data.Frozen)
		return nil
	}

	var native NativeAccountInfo
	err := scale.Unmarshal(raw, &native)
	if err != nil {
		return err
	}

	info.Nonce = native.Nonce
	info.Free = uint128ToBig(native.Data.Free)
	info.Reserved = uint128ToBig(native.Data.Reserved)
	info.MiscFrozen = uint128ToBig(native.Data.MiscFrozen)
	info.FeeFrozen = uint128ToBig(native.Data.FeeFrozen)
	info.Frozen = new(big.Int).Set(maxInt(info.MiscFrozen, info.FeeFrozen))
	return nil
}

func decodeOrml(_ Request, raw []byte, info *AccountInfo) error {
	var orml OrmlAccountInfo
	err := scale.Unmarshal(raw, &orml)
	if err != nil {
		return err
	}

	info.Free = uint128ToBig(orml.Free)
	info.Reserved = uint128ToBig(orml.Reserved)
	info.Frozen = uint128ToBig(orml.Frozen)
	return nil
}

func decodeAssets(_ Request, raw []byte, info *AccountInfo) error {
	var account AssetsAccount
	err := scale.Unmarshal(raw, &account)
	if err != nil {
		return err
	}

	info.Free = uint128ToBig(account.Balance)
	if account.Status != AssetLiquid {
		info.Frozen = new(big.Int).Set(info.Free)
	}
	return nil
}

func decodeEquilibrium(request Request, raw []byte, info *AccountInfo) error {
	var equilibrium EquilibriumAccountInfo
	err := gsrpcscale.NewDecoder(bytes.NewReader(raw)).Decode(&equilibrium)
	if err != nil {
		return err
	}

	info.Nonce = equilibrium.Nonce
	balance, ok := equilibrium.Balance(request.CurrencyNumber)
	if ok && !balance.Negative {
		info.Free = new(big.Int).Set(balance.Amount)
	}
	return nil
}

// Response is a raw storage value for a request.
type Response struct {
	Request Request
	Value   []byte
}

// Result is the normalized account info of a request,
// or the error normalizing it.
type Result struct {
	ID          chain.ChainAssetID
	AccountInfo AccountInfo
	Err         error
}

// NormalizeBatch normalizes each response independently, so a
// malformed value only fails its own result.
func NormalizeBatch(responses []Response) (results []Result) {
	results = make([]Result, len(responses))
	for i, response := range responses {
		info, err := Normalize(response.Request, response.Value)
		results[i] = Result{
			ID:          response.Request.ID,
			AccountInfo: info,
			Err:         err,
		}
	}
	return results
}
