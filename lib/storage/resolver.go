// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package storage

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ChainSafe/gossamer/pkg/scale"
	"github.com/ChainSafe/walletsync/lib/chain"
	"github.com/ChainSafe/walletsync/lib/common"
	"github.com/ChainSafe/walletsync/lib/runtime/metadata"
)

// RemoteKey is a storage key as understood by the chain.
type RemoteKey []byte

// Hex returns the 0x prefixed hex form of the key used on the wire.
func (k RemoteKey) Hex() string {
	return common.BytesToHex(k)
}

func (k RemoteKey) String() string {
	return k.Hex()
}

// LocalKey is a storage key used for local caching, independent
// of the runtime key encoding of the chain.
type LocalKey string

// ResolveRemoteKey resolves the storage key of the path for the ordered
// parameters given, using the hashers and key types declared by the
// metadata snapshot of the factory.
func ResolveRemoteKey(path CodingPath, params []KeyParam, factory metadata.CoderFactory) (
	key RemoteKey, err error) {
	entry, ok := factory.StorageEntry(path.Module, path.Item)
	if !ok {
		return nil, fmt.Errorf("%w: %s at spec version %d",
			ErrMetadataEntryNotFound, path, factory.SpecVersion())
	}

	if len(params) != len(entry.Keys) {
		return nil, fmt.Errorf("%w: %w: %s takes %d, got %d",
			ErrParameterEncodingFailed, ErrParameterCount, path, len(entry.Keys), len(params))
	}

	key, err = prefix(entry)
	if err != nil {
		return nil, err
	}

	for i, param := range params {
		encoded, err := param.Encode(entry.Keys[i])
		if err != nil {
			return nil, fmt.Errorf("%s parameter %d (%s): %w", path, i, param, err)
		}

		hashed, err := entry.Hashers[i].Hash(encoded)
		if err != nil {
			return nil, fmt.Errorf("%w: %s parameter %d: %w", ErrParameterEncodingFailed, path, i, err)
		}

		key = append(key, hashed...)
	}

	return key, nil
}

func prefix(entry metadata.StorageEntry) (key RemoteKey, err error) {
	palletHash, err := common.Twox128Hash([]byte(entry.Prefix))
	if err != nil {
		return nil, fmt.Errorf("hashing pallet prefix: %w", err)
	}

	itemHash, err := common.Twox128Hash([]byte(entry.Name))
	if err != nil {
		return nil, fmt.Errorf("hashing storage item: %w", err)
	}

	key = make(RemoteKey, 0, len(palletHash)+len(itemHash))
	key = append(key, palletHash...)
	key = append(key, itemHash...)
	return key, nil
}

// SplitRemoteKey recovers the encoded key components of a storage key.
// Every component must be hashed with a hasher keeping the encoded value,
// and only the last component may have an opaque key type.
func SplitRemoteKey(key RemoteKey, path CodingPath, factory metadata.CoderFactory) (
	components [][]byte, err error) {
	entry, ok := factory.StorageEntry(path.Module, path.Item)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMetadataEntryNotFound, path)
	}

	expectedPrefix, err := prefix(entry)
	if err != nil {
		return nil, err
	}

	if !bytes.HasPrefix(key, expectedPrefix) {
		return nil, fmt.Errorf("%w: %s", ErrKeyPrefix, path)
	}

	rest := key[len(expectedPrefix):]
	components = make([][]byte, len(entry.Keys))
	for i, keyType := range entry.Keys {
		hashLength, ok := entry.Hashers[i].Transparent()
		if !ok {
			return nil, fmt.Errorf("%w: %s at position %d", ErrOpaqueHasher, entry.Hashers[i], i)
		}

		if len(rest) < hashLength {
			return nil, fmt.Errorf("%w: at position %d", ErrKeyTooShort, i)
		}
		rest = rest[hashLength:]

		length := len(rest)
		if i < len(entry.Keys)-1 {
			length, err = encodedLength(keyType, rest)
			if err != nil {
				return nil, fmt.Errorf("position %d: %w", i, err)
			}
		}

		if len(rest) < length {
			return nil, fmt.Errorf("%w: at position %d", ErrKeyTooShort, i)
		}

		components[i] = rest[:length]
		rest = rest[length:]
	}

	return components, nil
}

func encodedLength(keyType metadata.KeyType, encoded []byte) (length int, err error) {
	switch keyType.Kind {
	case metadata.KindAccountID, metadata.KindUint:
		return keyType.Width, nil
	case metadata.KindBytes:
		var value []byte
		err = scale.Unmarshal(encoded, &value)
		if err != nil {
			return 0, fmt.Errorf("decoding byte string: %w", err)
		}
		marshalled, err := scale.Marshal(value)
		if err != nil {
			return 0, fmt.Errorf("encoding byte string: %w", err)
		}
		return len(marshalled), nil
	default:
		return 0, fmt.Errorf("%w: opaque key %q is not last", ErrKeyTooShort, keyType.Name)
	}
}

// ResolveLocalKey returns the local key of the path for the chain asset
// key given. It only depends on its arguments.
func ResolveLocalKey(path CodingPath, chainAssetKey string) LocalKey {
	return LocalKey(path.String() + "/" + chainAssetKey)
}

// ChainAccountKey returns the chain asset key of an account on a chain.
func ChainAccountKey(chainID chain.ChainID, accountID chain.AccountID) string {
	return strings.Join([]string{string(chainID), accountID.Hex()}, ":")
}

// ChainAssetAccountKey returns the chain asset key of an account
// for an asset of a chain.
func ChainAssetAccountKey(chainAssetID chain.ChainAssetID, accountID chain.AccountID) string {
	return strings.Join([]string{chainAssetID.String(), accountID.Hex()}, ":")
}
