// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package memory provides an in-memory database implementation.
package memory

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/ChainSafe/walletsync/internal/database"
)

// Database is an in-memory database implementation.
type Database struct {
	closed    bool
	keyValues map[string][]byte
	mutex     sync.RWMutex
}

var _ database.Database = (*Database)(nil)

// New returns a new in-memory database.
func New() *Database {
	return &Database{
		keyValues: make(map[string][]byte),
	}
}

// Get retrieves a value from the database using the given key.
// It returns `ErrKeyNotFound` if the key is not found.
func (db *Database) Get(key []byte) (value []byte, err error) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()
	if db.closed {
		return nil, database.ErrClosed
	}

	value, ok := db.keyValues[string(key)]
	if !ok {
		return nil, fmt.Errorf("%w: 0x%x", database.ErrKeyNotFound, key)
	}

	return copyBytes(value), nil
}

// Set sets a value at the given key in the database.
// The value byte slice is deep copied to avoid any mutation surprises.
func (db *Database) Set(key, value []byte) (err error) {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	if db.closed {
		return database.ErrClosed
	}

	db.keyValues[string(key)] = copyBytes(value)
	return nil
}

// Delete deletes a the given key in the database.
// If the key is not found, no error is returned.
func (db *Database) Delete(key []byte) (err error) {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	if db.closed {
		return database.ErrClosed
	}

	delete(db.keyValues, string(key))
	return nil
}

// NewWriteBatch returns a new write batch for the database.
// It is not thread-safe to write to the batch, but flushing it is
// thread-safe for the database.
func (db *Database) NewWriteBatch() (writeBatch database.WriteBatch) {
	return newWriteBatch("", db)
}

// NewTable returns a new table using the database.
// All keys on the table will be prefixed with the given prefix.
func (db *Database) NewTable(prefix string) (dbTable database.Table) {
	return &table{
		prefix:   prefix,
		database: db,
	}
}

// Stream calls handle for the key values with the given prefix in
// ascending key order, for which chooseKey returns true. The database
// is not locked while handle runs.
func (db *Database) Stream(ctx context.Context, prefix []byte,
	chooseKey func(key []byte) bool,
	handle func(key, value []byte) error) error {
	type keyValue struct {
		key   []byte
		value []byte
	}

	db.mutex.RLock()
	if db.closed {
		db.mutex.RUnlock()
		return database.ErrClosed
	}
	keyValues := make([]keyValue, 0, len(db.keyValues))
	for key, value := range db.keyValues {
		if !bytes.HasPrefix([]byte(key), prefix) || !chooseKey([]byte(key)) {
			continue
		}
		keyValues = append(keyValues, keyValue{key: []byte(key), value: copyBytes(value)})
	}
	db.mutex.RUnlock()

	sort.Slice(keyValues, func(i, j int) bool {
		return bytes.Compare(keyValues[i].key, keyValues[j].key) < 0
	})

	for _, kv := range keyValues {
		err := ctx.Err()
		if err != nil {
			return err
		}

		err = handle(kv.key, kv.value)
		if err != nil {
			return fmt.Errorf("handling key value: %w", err)
		}
	}

	return nil
}

// Close closes the database.
func (db *Database) Close() (err error) {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	db.closed = true
	db.keyValues = nil
	return nil
}
