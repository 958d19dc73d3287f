// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package client

import (
	"encoding/json"
	"fmt"
	"strings"
)

const jsonRPCVersion = "2.0"

type request struct {
	Version string        `json:"jsonrpc"`
	ID      uint64        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

// message is either a response to a request, when ID is set,
// or a subscription notification, when Method is set.
type message struct {
	Version string              `json:"jsonrpc"`
	ID      *uint64             `json:"id"`
	Result  json.RawMessage     `json:"result"`
	Error   *Error              `json:"error"`
	Method  string              `json:"method"`
	Params  *notificationParams `json:"params"`
}

type notificationParams struct {
	Subscription json.RawMessage `json:"subscription"`
	Result       json.RawMessage `json:"result"`
}

// parseSubscriptionID returns the subscription id given either
// as a JSON string or as a JSON number.
func parseSubscriptionID(raw json.RawMessage) (id string, err error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return "", fmt.Errorf("%w: %q", ErrSubscriptionID, trimmed)
	}

	if strings.HasPrefix(trimmed, `"`) {
		err = json.Unmarshal(raw, &id)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrSubscriptionID, err)
		}
		return id, nil
	}

	var number json.Number
	err = json.Unmarshal(raw, &number)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSubscriptionID, err)
	}
	return number.String(), nil
}
