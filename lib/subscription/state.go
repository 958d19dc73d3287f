// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package subscription

import "fmt"

// State is the state of a subscription manager.
type State uint8

const (
	// Idle means no subscription is open nor being opened.
	Idle State = iota
	// Resolving means storage keys are being resolved and
	// the subscription is being opened.
	Resolving
	// Active means the subscription is open.
	Active
	// Failed means the last subscribe attempt or the open
	// subscription failed.
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Resolving:
		return "resolving"
	case Active:
		return "active"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}
