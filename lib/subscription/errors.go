// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package subscription

import "errors"

// ErrConnectionUnavailable is returned when no live connection
// exists for a chain, or when it fails to open a subscription.
var ErrConnectionUnavailable = errors.New("connection unavailable")

// ErrNoStorageKeys is returned when no storage key of a subscribe
// attempt could be resolved.
var ErrNoStorageKeys = errors.New("no storage key resolved")
