// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package metadata provides per chain runtime metadata snapshots describing
// storage entries, their key hashers and their key types.
package metadata

import (
	"fmt"

	"github.com/ChainSafe/walletsync/lib/common"
)

// Hasher is a storage key hasher declared by the runtime metadata.
type Hasher uint8

//nolint:revive,stylecheck
const (
	Blake2_128 Hasher = iota
	Blake2_256
	Blake2_128Concat
	Twox128
	Twox256
	Twox64Concat
	Identity
)

func (h Hasher) String() string {
	switch h {
	case Blake2_128:
		return "Blake2_128"
	case Blake2_256:
		return "Blake2_256"
	case Blake2_128Concat:
		return "Blake2_128Concat"
	case Twox128:
		return "Twox128"
	case Twox256:
		return "Twox256"
	case Twox64Concat:
		return "Twox64Concat"
	case Identity:
		return "Identity"
	default:
		return fmt.Sprintf("Hasher(%d)", uint8(h))
	}
}

// Hash hashes the encoded key component given.
func (h Hasher) Hash(encoded []byte) ([]byte, error) {
	switch h {
	case Blake2_128:
		return common.Blake2b128(encoded)
	case Blake2_256:
		hash, err := common.Blake2bHash(encoded)
		if err != nil {
			return nil, err
		}
		return hash.Bytes(), nil
	case Blake2_128Concat:
		hash, err := common.Blake2b128(encoded)
		if err != nil {
			return nil, err
		}
		return append(hash, encoded...), nil
	case Twox128:
		return common.Twox128Hash(encoded)
	case Twox256:
		hash, err := common.Twox256(encoded)
		if err != nil {
			return nil, err
		}
		return hash.Bytes(), nil
	case Twox64Concat:
		hash, err := common.Twox64(encoded)
		if err != nil {
			return nil, err
		}
		return append(hash, encoded...), nil
	case Identity:
		out := make([]byte, len(encoded))
		copy(out, encoded)
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrHasherUnknown, h)
	}
}

// Transparent returns true if the hasher output ends with the
// encoded key, which can then be recovered from the hashed key.
// The number of prefix bytes to skip is returned as well.
func (h Hasher) Transparent() (prefixLength int, ok bool) {
	switch h {
	case Blake2_128Concat:
		return 16, true
	case Twox64Concat:
		return 8, true
	case Identity:
		return 0, true
	default:
		return 0, false
	}
}

// KeyKind classifies the runtime type of a storage key component.
type KeyKind uint8

const (
	// KindOpaque is any type which must be given already SCALE encoded,
	// such as enums and composites.
	KindOpaque KeyKind = iota
	// KindAccountID is a fixed width account id.
	KindAccountID
	// KindUint is an unsigned integer of Width bytes.
	KindUint
	// KindBytes is a compact length prefixed byte string.
	KindBytes
)

func (k KeyKind) String() string {
	switch k {
	case KindOpaque:
		return "opaque"
	case KindAccountID:
		return "account id"
	case KindUint:
		return "unsigned integer"
	case KindBytes:
		return "bytes"
	default:
		return fmt.Sprintf("KeyKind(%d)", uint8(k))
	}
}

// KeyType is the runtime type of a storage key component.
type KeyType struct {
	Name  string
	Kind  KeyKind
	Width int
}

// StorageEntry describes a storage entry of a pallet.
type StorageEntry struct {
	Module string
	// Prefix is the storage prefix of the pallet, which is
	// usually but not necessarily equal to the module name.
	Prefix  string
	Name    string
	Hashers []Hasher
	Keys    []KeyType
	// ValueFields are the named fields of the value type, with the
	// fields of nested composites given as parent.child.
	ValueFields []string
}

// HasValueField returns true if the value type has the field given,
// such as data.frozen.
func (e StorageEntry) HasValueField(field string) bool {
	for _, name := range e.ValueFields {
		if name == field {
			return true
		}
	}
	return false
}

// IsPlain returns true for storage values, which take no key.
func (e StorageEntry) IsPlain() bool {
	return len(e.Hashers) == 0
}

// CoderFactory is a runtime metadata snapshot of a chain.
// All encode and decode operations done for a chain at a given
// time must use the same CoderFactory.
type CoderFactory interface {
	SpecVersion() uint32
	StorageEntry(module, item string) (entry StorageEntry, ok bool)
}

// Snapshot is an immutable CoderFactory.
type Snapshot struct {
	specVersion uint32
	entries     map[string]StorageEntry
}

var _ CoderFactory = (*Snapshot)(nil)

// NewSnapshot creates a snapshot for the runtime spec version
// and storage entries given.
func NewSnapshot(specVersion uint32, entries ...StorageEntry) *Snapshot {
	snapshot := &Snapshot{
		specVersion: specVersion,
		entries:     make(map[string]StorageEntry, len(entries)),
	}
	for _, entry := range entries {
		snapshot.entries[entryKey(entry.Module, entry.Name)] = entry
	}
	return snapshot
}

func entryKey(module, item string) string {
	return module + "." + item
}

// SpecVersion returns the runtime spec version of the snapshot.
func (s *Snapshot) SpecVersion() uint32 {
	return s.specVersion
}

// StorageEntry returns the storage entry for the module and item given.
func (s *Snapshot) StorageEntry(module, item string) (entry StorageEntry, ok bool) {
	entry, ok = s.entries[entryKey(module, item)]
	return entry, ok
}

// Len returns the number of storage entries in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.entries)
}
