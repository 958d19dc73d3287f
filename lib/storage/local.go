// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package storage

import (
	"context"
	"fmt"

	"github.com/ChainSafe/gossamer/pkg/scale"
	"github.com/ChainSafe/walletsync/internal/database"
	"github.com/ChainSafe/walletsync/lib/common"
)

// LocalValue is the last known raw value of a storage item.
// A nil Value means the item did not exist at Block.
type LocalValue struct {
	Value []byte
	Block common.Hash
}

type localValueSCALE struct {
	Block   []byte
	Present bool
	Value   []byte
}

// LocalStore keeps the last known raw storage values by local key.
type LocalStore struct {
	table database.Table
}

// NewLocalStore creates a local store using the database table given.
func NewLocalStore(table database.Table) *LocalStore {
	return &LocalStore{table: table}
}

// Put stores the value at the local key given.
func (s *LocalStore) Put(key LocalKey, value LocalValue) error {
	encoded, err := encodeLocalValue(value)
	if err != nil {
		return err
	}

	err = s.table.Set([]byte(key), encoded)
	if err != nil {
		return fmt.Errorf("storing %s: %w", key, err)
	}
	return nil
}

// PutBatch stores all the values given atomically.
func (s *LocalStore) PutBatch(values map[LocalKey]LocalValue) (err error) {
	batch := s.table.NewWriteBatch()
	for key, value := range values {
		encoded, err := encodeLocalValue(value)
		if err != nil {
			batch.Cancel()
			return err
		}

		err = batch.Set([]byte(key), encoded)
		if err != nil {
			batch.Cancel()
			return fmt.Errorf("storing %s: %w", key, err)
		}
	}

	err = batch.Flush()
	if err != nil {
		return fmt.Errorf("flushing %d values: %w", len(values), err)
	}
	return nil
}

// Get returns the value stored at the local key given. It returns an
// error wrapping database.ErrKeyNotFound if no value was ever stored.
func (s *LocalStore) Get(key LocalKey) (value LocalValue, err error) {
	encoded, err := s.table.Get([]byte(key))
	if err != nil {
		return value, fmt.Errorf("getting %s: %w", key, err)
	}

	var decoded localValueSCALE
	err = scale.Unmarshal(encoded, &decoded)
	if err != nil {
		return value, fmt.Errorf("decoding %s: %w", key, err)
	}

	value.Block = common.NewHash(decoded.Block)
	if decoded.Present {
		value.Value = decoded.Value
		if value.Value == nil {
			value.Value = []byte{}
		}
	}
	return value, nil
}

// Keys returns the local keys stored with the prefix given.
func (s *LocalStore) Keys(ctx context.Context, prefix string) (keys []LocalKey, err error) {
	err = s.table.Stream(ctx, []byte(prefix),
		func([]byte) bool { return true },
		func(key, _ []byte) error {
			keys = append(keys, LocalKey(key))
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("streaming local keys: %w", err)
	}
	return keys, nil
}

func encodeLocalValue(value LocalValue) (encoded []byte, err error) {
	encoded, err = scale.Marshal(localValueSCALE{
		Block:   value.Block.Bytes(),
		Present: value.Value != nil,
		Value:   value.Value,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding local value: %w", err)
	}
	return encoded, nil
}
