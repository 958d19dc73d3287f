// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package storage

import (
	"fmt"
	"math/big"

	"github.com/ChainSafe/gossamer/pkg/scale"
	"github.com/ChainSafe/walletsync/lib/chain"
	"github.com/ChainSafe/walletsync/lib/common"
	"github.com/ChainSafe/walletsync/lib/runtime/metadata"
)

// KeyParam is a typed storage key parameter. It is encoded against the
// key type declared by the runtime metadata at its position, so parameters
// given in the wrong order fail instead of producing a wrong key.
type KeyParam interface {
	Encode(keyType metadata.KeyType) (encoded []byte, err error)
	String() string
}

// AccountIDParam is an account id key parameter.
type AccountIDParam chain.AccountID

// Encode encodes the account id as its raw bytes.
func (p AccountIDParam) Encode(keyType metadata.KeyType) (encoded []byte, err error) {
	if keyType.Kind != metadata.KindAccountID {
		return nil, fmt.Errorf("%w: account id given for %s key %q",
			ErrParameterEncodingFailed, keyType.Kind, keyType.Name)
	}

	if len(p) != keyType.Width {
		return nil, fmt.Errorf("%w: account id has %d bytes, expected %d",
			ErrParameterEncodingFailed, len(p), keyType.Width)
	}

	encoded = make([]byte, len(p))
	copy(encoded, p)
	return encoded, nil
}

func (p AccountIDParam) String() string {
	return "account " + common.BytesToHex(p)
}

// UintParam is an unsigned integer key parameter such as an asset id.
type UintParam struct {
	Value *big.Int
}

// NewUintParam returns an unsigned integer key parameter.
func NewUintParam(value uint64) UintParam {
	return UintParam{Value: new(big.Int).SetUint64(value)}
}

// Encode encodes the integer in little endian over the width declared
// by the metadata.
func (p UintParam) Encode(keyType metadata.KeyType) (encoded []byte, err error) {
	if keyType.Kind != metadata.KindUint {
		return nil, fmt.Errorf("%w: integer given for %s key %q",
			ErrParameterEncodingFailed, keyType.Kind, keyType.Name)
	}

	if p.Value == nil || p.Value.Sign() < 0 {
		return nil, fmt.Errorf("%w: integer %v is not unsigned", ErrParameterEncodingFailed, p.Value)
	}

	bigEndian := p.Value.Bytes()
	if len(bigEndian) > keyType.Width {
		return nil, fmt.Errorf("%w: integer %s overflows %d bytes",
			ErrParameterEncodingFailed, p.Value, keyType.Width)
	}

	encoded = make([]byte, keyType.Width)
	for i, b := range bigEndian {
		encoded[len(bigEndian)-1-i] = b
	}
	return encoded, nil
}

func (p UintParam) String() string {
	return "uint " + p.Value.String()
}

// ScaleParam is a key parameter given already SCALE encoded,
// such as an ORML currency id enum from the chain configuration.
type ScaleParam []byte

// Encode returns the SCALE bytes as they are. Account id keys are refused
// since they must be given as AccountIDParam.
func (p ScaleParam) Encode(keyType metadata.KeyType) (encoded []byte, err error) {
	switch keyType.Kind {
	case metadata.KindAccountID:
		return nil, fmt.Errorf("%w: encoded value given for account id key %q",
			ErrParameterEncodingFailed, keyType.Name)
	case metadata.KindUint:
		if len(p) != keyType.Width {
			return nil, fmt.Errorf("%w: encoded value has %d bytes, expected %d",
				ErrParameterEncodingFailed, len(p), keyType.Width)
		}
	}

	if len(p) == 0 {
		return nil, fmt.Errorf("%w: empty encoded value", ErrParameterEncodingFailed)
	}

	encoded = make([]byte, len(p))
	copy(encoded, p)
	return encoded, nil
}

func (p ScaleParam) String() string {
	return "scale " + common.BytesToHex(p)
}

// HexAccountParam is an account id key parameter for chains which
// key accounts by the 0x prefixed hex string of the account id.
type HexAccountParam chain.AccountID

// Encode encodes the hex string of the account id as a SCALE string.
func (p HexAccountParam) Encode(keyType metadata.KeyType) (encoded []byte, err error) {
	if keyType.Kind != metadata.KindBytes && keyType.Kind != metadata.KindOpaque {
		return nil, fmt.Errorf("%w: hex account given for %s key %q",
			ErrParameterEncodingFailed, keyType.Kind, keyType.Name)
	}

	encoded, err = scale.Marshal(common.BytesToHex(p))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParameterEncodingFailed, err)
	}
	return encoded, nil
}

func (p HexAccountParam) String() string {
	return "hex account " + common.BytesToHex(p)
}
