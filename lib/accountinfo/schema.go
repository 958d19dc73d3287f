// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package accountinfo

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/ChainSafe/gossamer/pkg/scale"
	gsrpcscale "github.com/centrifuge/go-substrate-rpc-client/v4/scale"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
)

// NativeAccountInfo is the System.Account value of the balances pallet.
type NativeAccountInfo struct {
	Nonce       uint32
	Consumers   uint32
	Providers   uint32
	Sufficients uint32
	Data        NativeAccountData
}

// NativeAccountData is the legacy account data of the balances pallet.
type NativeAccountData struct {
	Free       *scale.Uint128
	Reserved   *scale.Uint128
	MiscFrozen *scale.Uint128
	FeeFrozen  *scale.Uint128
}

// FrozenAccountInfo is the System.Account value of runtimes whose balances
// pallet holds a single frozen balance and account flags.
type FrozenAccountInfo struct {
	Nonce       uint32
	Consumers   uint32
	Providers   uint32
	Sufficients uint32
	Data        FrozenAccountData
}

// FrozenAccountData is the account data of the balances pallet
// with a single frozen balance.
type FrozenAccountData struct {
	Free     *scale.Uint128
	Reserved *scale.Uint128
	Frozen   *scale.Uint128
	Flags    *scale.Uint128
}

// nativeAccountInfoSize is the encoded size of both native layouts.
const nativeAccountInfoSize = 4*4 + 4*16

// detectNativeLayout returns the frozen and flags layout if the new logic
// bit, the most significant bit of the flags, is set. Accounts of such
// runtimes all carry it.
func detectNativeLayout(raw []byte) NativeLayout {
	if len(raw) == nativeAccountInfoSize && raw[len(raw)-1]&0x80 != 0 {
		return NativeLayoutFrozenFlags
	}
	return NativeLayoutLegacy
}

// OrmlAccountInfo is the Tokens.Accounts value of the orml tokens pallet.
type OrmlAccountInfo struct {
	Free     *scale.Uint128
	Reserved *scale.Uint128
	Frozen   *scale.Uint128
}

// Status values of a pallet-assets account.
const (
	AssetLiquid uint8 = iota
	AssetFrozen
	AssetBlocked
)

// AssetsAccount is the Assets.Account value of pallet-assets.
// The trailing existence reason and extra fields are not decoded.
type AssetsAccount struct {
	Balance *scale.Uint128
	Status  uint8
}

// EquilibriumAccountInfo is the System.Account value of equilibrium chains.
type EquilibriumAccountInfo struct {
	Nonce       uint32
	Consumers   uint32
	Providers   uint32
	Sufficients uint32
	Lock        *big.Int
	Balances    []EquilibriumBalance
}

// EquilibriumBalance is the signed balance of an equilibrium asset.
type EquilibriumBalance struct {
	Asset    uint64
	Negative bool
	Amount   *big.Int
}

// Decode decodes the account info with its data enum, of which
// only the V0 variant {lock, balance: Vec<(u64, SignedBalance)>} exists.
func (e *EquilibriumAccountInfo) Decode(decoder gsrpcscale.Decoder) (err error) {
	for _, counter := range []*uint32{&e.Nonce, &e.Consumers, &e.Providers, &e.Sufficients} {
		err = decoder.Decode(counter)
		if err != nil {
			return fmt.Errorf("decoding account counters: %w", err)
		}
	}

	version, err := decoder.ReadOneByte()
	if err != nil {
		return fmt.Errorf("decoding data version: %w", err)
	}
	if version != 0 {
		return fmt.Errorf("%w: V%d", ErrEquilibriumVersion, version)
	}

	var lock types.U128
	err = decoder.Decode(&lock)
	if err != nil {
		return fmt.Errorf("decoding lock: %w", err)
	}
	e.Lock = lock.Int

	length, err := decoder.DecodeUintCompact()
	if err != nil {
		return fmt.Errorf("decoding balances length: %w", err)
	}
	if !length.IsUint64() {
		return fmt.Errorf("balances length %s is too large", length)
	}

	e.Balances = []EquilibriumBalance{}
	for i := uint64(0); i < length.Uint64(); i++ {
		var balance EquilibriumBalance
		err = decoder.Decode(&balance.Asset)
		if err != nil {
			return fmt.Errorf("decoding balance %d asset: %w", i, err)
		}

		sign, err := decoder.ReadOneByte()
		if err != nil {
			return fmt.Errorf("decoding balance %d sign: %w", i, err)
		}
		switch sign {
		case 0:
		case 1:
			balance.Negative = true
		default:
			return fmt.Errorf("balance %d has invalid sign variant %d", i, sign)
		}

		var amount types.U128
		err = decoder.Decode(&amount)
		if err != nil {
			return fmt.Errorf("decoding balance %d amount: %w", i, err)
		}
		balance.Amount = amount.Int

		e.Balances = append(e.Balances, balance)
	}

	return nil
}

// Balance returns the balance of the asset given, false if the
// account holds no balance for it.
func (e EquilibriumAccountInfo) Balance(asset *big.Int) (balance EquilibriumBalance, ok bool) {
	if asset == nil || !asset.IsUint64() {
		return balance, false
	}

	for _, balance := range e.Balances {
		if balance.Asset == asset.Uint64() {
			return balance, true
		}
	}
	return balance, false
}

func uint128ToBig(u *scale.Uint128) *big.Int {
	if u == nil {
		return new(big.Int)
	}
	return new(big.Int).SetBytes(u.Bytes(binary.BigEndian))
}
