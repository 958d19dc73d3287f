// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package client

import (
	"errors"
	"fmt"
)

var (
	// ErrConnectionClosed is returned to pending calls and subscriptions
	// when the websocket connection is closed.
	ErrConnectionClosed = errors.New("connection closed")

	ErrResponseError       = errors.New("response error received")
	ErrSubscriptionID      = errors.New("malformed subscription id")
	ErrUnsubscribeRejected = errors.New("unsubscribe rejected")
)

// Error is a JSON RPC error object.
type Error struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (error code %d)", e.Message, e.Code)
}
