// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package storage

import (
	"encoding/json"
	"fmt"

	"github.com/ChainSafe/walletsync/lib/common"
)

// Change is a storage value change. A nil value means the
// storage entry does not exist.
type Change struct {
	Key   RemoteKey
	Value []byte
}

// ChangeSet is the set of storage changes at a block, as sent by
// storage subscriptions and returned by storage queries.
type ChangeSet struct {
	Block   common.Hash
	Changes []Change
}

type changeSetJSON struct {
	Block   common.Hash  `json:"block"`
	Changes [][2]*string `json:"changes"`
}

// UnmarshalJSON decodes the change set from its JSON RPC form
// {"block": "0x..", "changes": [["0xkey", "0xvalue" | null], ...]}.
func (c *ChangeSet) UnmarshalJSON(data []byte) error {
	var raw changeSetJSON
	err := json.Unmarshal(data, &raw)
	if err != nil {
		return err
	}

	c.Block = raw.Block
	c.Changes = make([]Change, len(raw.Changes))
	for i, pair := range raw.Changes {
		if pair[0] == nil {
			return fmt.Errorf("change %d has no key", i)
		}

		key, err := common.HexToBytes(*pair[0])
		if err != nil {
			return fmt.Errorf("change %d key: %w", i, err)
		}
		c.Changes[i].Key = key

		if pair[1] == nil {
			continue
		}

		value, err := common.HexToBytes(*pair[1])
		if err != nil {
			return fmt.Errorf("change %d value: %w", i, err)
		}
		c.Changes[i].Value = value
	}

	return nil
}

// MarshalJSON encodes the change set to its JSON RPC form.
func (c ChangeSet) MarshalJSON() ([]byte, error) {
	raw := changeSetJSON{
		Block:   c.Block,
		Changes: make([][2]*string, len(c.Changes)),
	}

	for i, change := range c.Changes {
		key := change.Key.Hex()
		raw.Changes[i][0] = &key
		if change.Value != nil {
			value := common.BytesToHex(change.Value)
			raw.Changes[i][1] = &value
		}
	}

	return json.Marshal(raw)
}
