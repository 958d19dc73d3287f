// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package metadata

import "errors"

var (
	// ErrMetadataUnavailable is returned when the runtime coder factory
	// of a chain cannot be obtained.
	ErrMetadataUnavailable = errors.New("runtime metadata unavailable")

	ErrHasherUnknown      = errors.New("storage hasher is unknown")
	ErrMetadataVersion    = errors.New("runtime metadata version is not supported")
	ErrKeyTypeNotFound    = errors.New("storage key type not found in registry")
	ErrKeyTypeMismatch    = errors.New("storage key type does not match hashers")
	ErrFetcherUnavailable = errors.New("no metadata fetcher for chain")
)
