// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package storage

import "errors"

var (
	// ErrMetadataEntryNotFound is returned when a storage path is absent
	// from the runtime metadata snapshot of a chain.
	ErrMetadataEntryNotFound = errors.New("storage entry not found in metadata")
	// ErrParameterEncodingFailed is returned when a key parameter cannot be
	// encoded with the type declared by the metadata at its position.
	ErrParameterEncodingFailed = errors.New("storage key parameter encoding failed")

	ErrParameterCount = errors.New("wrong number of storage key parameters")
	ErrKeyTooShort    = errors.New("storage key too short")
	ErrKeyPrefix      = errors.New("storage key prefix mismatch")
	ErrOpaqueHasher   = errors.New("storage key component hashed with an opaque hasher")
)
