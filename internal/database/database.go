// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package database defines the local key value store interfaces.
package database

import (
	"context"
	"errors"
)

var (
	// ErrKeyNotFound is returned when a key is not found in the database.
	ErrKeyNotFound = errors.New("key not found")
	// ErrClosed is returned when operating on a closed database.
	ErrClosed = errors.New("database is closed")
)

// Reader reads values by key.
type Reader interface {
	Get(key []byte) (value []byte, err error)
}

// Writer sets and deletes values by key.
type Writer interface {
	Set(key, value []byte) error
	Delete(key []byte) error
}

// WriteBatch buffers writes until flushed.
type WriteBatch interface {
	Writer
	Flush() error
	Cancel()
}

// Streamer streams the key values of the database.
type Streamer interface {
	// Stream calls handle for each key value with the prefix given
	// for which chooseKey returns true.
	Stream(ctx context.Context, prefix []byte,
		chooseKey func(key []byte) bool,
		handle func(key, value []byte) error) error
}

// Table is a view of the database where all keys are prefixed.
type Table interface {
	Reader
	Writer
	Streamer
	NewWriteBatch() WriteBatch
}

// Database is the local key value store. All methods are safe for concurrent use.
type Database interface {
	Reader
	Writer
	Streamer
	NewWriteBatch() WriteBatch
	NewTable(prefix string) Table
	Close() error
}
