// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package chain

import "errors"

var ErrCurrencyKindUnknown = errors.New("currency kind is unknown")
