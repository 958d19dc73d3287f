// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package memory

import (
	"context"

	"github.com/ChainSafe/walletsync/internal/database"
)

type table struct {
	prefix   string
	database *Database
}

func (t *table) prefixed(key []byte) []byte {
	return []byte(t.prefix + string(key))
}

func (t *table) Get(key []byte) (value []byte, err error) {
	return t.database.Get(t.prefixed(key))
}

func (t *table) Set(key, value []byte) (err error) {
	return t.database.Set(t.prefixed(key), value)
}

func (t *table) Delete(key []byte) (err error) {
	return t.database.Delete(t.prefixed(key))
}

func (t *table) NewWriteBatch() (writeBatch database.WriteBatch) {
	return newWriteBatch(t.prefix, t.database)
}

func (t *table) Stream(ctx context.Context, prefix []byte,
	chooseKey func(key []byte) bool,
	handle func(key, value []byte) error) error {
	prefixLength := len(t.prefix)
	return t.database.Stream(ctx, t.prefixed(prefix),
		func(key []byte) bool { return chooseKey(key[prefixLength:]) },
		func(key, value []byte) error { return handle(key[prefixLength:], value) })
}
