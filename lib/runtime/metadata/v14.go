// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package metadata

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/ChainSafe/walletsync/lib/common"
	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
)

// Decode decodes the hex encoded runtime metadata returned by
// the state_getMetadata RPC method into a snapshot.
func Decode(specVersion uint32, metadataHex string) (snapshot *Snapshot, err error) {
	raw, err := common.HexToBytes(metadataHex)
	if err != nil {
		return nil, fmt.Errorf("decoding metadata hex: %w", err)
	}

	var meta types.Metadata
	err = scale.NewDecoder(bytes.NewReader(raw)).Decode(&meta)
	if err != nil {
		return nil, fmt.Errorf("decoding metadata: %w", err)
	}

	return FromMetadata(specVersion, &meta)
}

// FromMetadata builds a snapshot from decoded runtime metadata.
// Only metadata V14 and above carry a type registry, so older
// versions are rejected.
func FromMetadata(specVersion uint32, meta *types.Metadata) (snapshot *Snapshot, err error) {
	if !meta.IsMetadataV14 {
		return nil, fmt.Errorf("%w: %d", ErrMetadataVersion, meta.Version)
	}

	v14 := meta.AsMetadataV14
	registry := make(map[int64]types.Si1Type, len(v14.Lookup.Types))
	for _, portable := range v14.Lookup.Types {
		registry[typeID(portable.ID)] = portable.Type
	}

	var entries []StorageEntry
	for _, pallet := range v14.Pallets {
		if !pallet.HasStorage {
			continue
		}

		for _, item := range pallet.Storage.Items {
			entry := StorageEntry{
				Module: string(pallet.Name),
				Prefix: string(pallet.Storage.Prefix),
				Name:   string(item.Name),
			}

			valueID := item.Type.AsPlainType
			if item.Type.IsMap {
				entry.Hashers, entry.Keys, err = mapKeys(registry, item.Type.AsMap)
				if err != nil {
					return nil, fmt.Errorf("storage entry %s.%s: %w",
						entry.Module, entry.Name, err)
				}
				valueID = item.Type.AsMap.Value
			}
			entry.ValueFields = valueFields(registry, typeID(valueID), "", maxValueDepth)

			entries = append(entries, entry)
		}
	}

	return NewSnapshot(specVersion, entries...), nil
}

func typeID(id types.Si1LookupTypeID) int64 {
	return (*big.Int)(&id.UCompact).Int64()
}

func mapKeys(registry map[int64]types.Si1Type, mapType types.MapTypeV14) (
	hashers []Hasher, keys []KeyType, err error) {
	hashers = make([]Hasher, len(mapType.Hashers))
	for i, hasherV10 := range mapType.Hashers {
		hashers[i], err = hasherFromV10(hasherV10)
		if err != nil {
			return nil, nil, err
		}
	}

	keyID := typeID(mapType.Key)
	keyType, ok := registry[keyID]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %d", ErrKeyTypeNotFound, keyID)
	}

	if len(hashers) == 1 {
		return hashers, []KeyType{classify(registry, keyType)}, nil
	}

	// n-map keys are a tuple with one element per hasher.
	if !keyType.Def.IsTuple || len(keyType.Def.Tuple) != len(hashers) {
		return nil, nil, fmt.Errorf("%w: %d hashers for key type %d",
			ErrKeyTypeMismatch, len(hashers), keyID)
	}

	keys = make([]KeyType, len(hashers))
	for i, elementID := range keyType.Def.Tuple {
		element, ok := registry[typeID(elementID)]
		if !ok {
			return nil, nil, fmt.Errorf("%w: %d", ErrKeyTypeNotFound, typeID(elementID))
		}
		keys[i] = classify(registry, element)
	}

	return hashers, keys, nil
}

// maxValueDepth is the nesting depth up to which value fields are listed.
const maxValueDepth = 2

func valueFields(registry map[int64]types.Si1Type, id int64, parent string, depth int) (fields []string) {
	siType, ok := registry[id]
	if !ok || depth == 0 || !siType.Def.IsComposite {
		return nil
	}

	for _, field := range siType.Def.Composite.Fields {
		if !field.HasName {
			continue
		}
		name := string(field.Name)
		if parent != "" {
			name = parent + "." + name
		}
		fields = append(fields, name)
		fields = append(fields, valueFields(registry, typeID(field.Type), name, depth-1)...)
	}
	return fields
}

func hasherFromV10(hasher types.StorageHasherV10) (Hasher, error) {
	switch {
	case hasher.IsBlake2_128:
		return Blake2_128, nil
	case hasher.IsBlake2_256:
		return Blake2_256, nil
	case hasher.IsBlake2_128Concat:
		return Blake2_128Concat, nil
	case hasher.IsTwox128:
		return Twox128, nil
	case hasher.IsTwox256:
		return Twox256, nil
	case hasher.IsTwox64Concat:
		return Twox64Concat, nil
	case hasher.IsIdentity:
		return Identity, nil
	default:
		return 0, ErrHasherUnknown
	}
}

func classify(registry map[int64]types.Si1Type, siType types.Si1Type) KeyType {
	name := pathName(siType.Path)
	def := siType.Def

	switch {
	case name == "AccountId32":
		return KeyType{Name: name, Kind: KindAccountID, Width: 32}
	case name == "AccountId20":
		return KeyType{Name: name, Kind: KindAccountID, Width: 20}
	case def.IsPrimitive:
		width := uintWidth(def.Primitive.Si0TypeDefPrimitive)
		if width == 0 {
			return KeyType{Name: name, Kind: KindOpaque}
		}
		if name == "" {
			name = fmt.Sprintf("u%d", width*8)
		}
		return KeyType{Name: name, Kind: KindUint, Width: width}
	case def.IsSequence:
		element, ok := registry[typeID(def.Sequence.Type)]
		if ok && element.Def.IsPrimitive &&
			element.Def.Primitive.Si0TypeDefPrimitive == types.IsU8 {
			return KeyType{Name: name, Kind: KindBytes}
		}
	case def.IsComposite && len(def.Composite.Fields) == 1:
		// Newtype wrappers such as an asset id struct around an integer.
		inner, ok := registry[typeID(def.Composite.Fields[0].Type)]
		if ok {
			keyType := classify(registry, inner)
			if keyType.Kind != KindOpaque {
				keyType.Name = name
				return keyType
			}
		}
	}

	return KeyType{Name: name, Kind: KindOpaque}
}

func pathName(path types.Si1Path) string {
	if len(path) == 0 {
		return ""
	}
	return string(path[len(path)-1])
}

func uintWidth(primitive types.Si0TypeDefPrimitive) int {
	switch primitive {
	case types.IsU8:
		return 1
	case types.IsU16:
		return 2
	case types.IsU32:
		return 4
	case types.IsU64:
		return 8
	case types.IsU128:
		return 16
	case types.IsU256:
		return 32
	default:
		return 0
	}
}
