// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package accountinfo

import "errors"

var (
	// ErrMissingCurrencyID is returned when the currency data needed
	// by the request shape of an asset is not configured.
	ErrMissingCurrencyID = errors.New("currency id missing")
	// ErrResponseTypeNotRegistered is returned when no decoder is
	// registered for the schema of a request.
	ErrResponseTypeNotRegistered = errors.New("response type not registered")
	// ErrDecodingFailed is returned when a raw storage value cannot be
	// decoded with the schema of its request.
	ErrDecodingFailed = errors.New("decoding failed")

	ErrEquilibriumVersion = errors.New("equilibrium account data version not supported")
)
