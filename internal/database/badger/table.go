// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package badger

import (
	"context"

	"github.com/ChainSafe/walletsync/internal/database"
)

type table struct {
	prefix   []byte
	database *Database
}

// Get retrieves a value from the database using the given key
// prefixed with the table prefix.
func (t *table) Get(key []byte) (value []byte, err error) {
	return t.database.Get(makePrefixedKey(t.prefix, key))
}

// Set sets a value at the given key prefixed with the table prefix.
func (t *table) Set(key, value []byte) (err error) {
	return t.database.Set(makePrefixedKey(t.prefix, key), value)
}

// Delete deletes the given key prefixed with the table prefix.
func (t *table) Delete(key []byte) (err error) {
	return t.database.Delete(makePrefixedKey(t.prefix, key))
}

// NewWriteBatch returns a new write batch using the table prefix.
func (t *table) NewWriteBatch() (writeBatch database.WriteBatch) {
	return newWriteBatch(t.prefix, t.database.badgerDatabase.NewWriteBatch())
}

// Stream streams the key values of the table with the prefix given.
// Keys given to chooseKey and handle do not have the table prefix.
func (t *table) Stream(ctx context.Context, prefix []byte,
	chooseKey func(key []byte) bool,
	handle func(key, value []byte) error) error {
	prefixLength := len(t.prefix)
	return t.database.Stream(ctx, makePrefixedKey(t.prefix, prefix),
		func(key []byte) bool { return chooseKey(key[prefixLength:]) },
		func(key, value []byte) error { return handle(key[prefixLength:], value) })
}
