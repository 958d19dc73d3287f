// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package memory

import "github.com/ChainSafe/walletsync/internal/database"

type operation struct {
	key    string
	value  []byte
	delete bool
}

// writeBatch records operations in order and applies them
// to the database on Flush.
type writeBatch struct {
	prefix     string
	database   *Database
	operations []operation
}

func newWriteBatch(prefix string, database *Database) *writeBatch {
	return &writeBatch{
		prefix:   prefix,
		database: database,
	}
}

func (wb *writeBatch) Set(key, value []byte) (err error) {
	wb.operations = append(wb.operations, operation{
		key:   wb.prefix + string(key),
		value: copyBytes(value),
	})
	return nil
}

func (wb *writeBatch) Delete(key []byte) (err error) {
	wb.operations = append(wb.operations, operation{
		key:    wb.prefix + string(key),
		delete: true,
	})
	return nil
}

// Flush applies the operations to the database atomically.
func (wb *writeBatch) Flush() (err error) {
	wb.database.mutex.Lock()
	defer wb.database.mutex.Unlock()

	if wb.database.closed {
		return database.ErrClosed
	}

	for _, op := range wb.operations {
		if op.delete {
			delete(wb.database.keyValues, op.key)
			continue
		}
		wb.database.keyValues[op.key] = op.value
	}
	wb.operations = nil
	return nil
}

// Cancel drops the operations recorded.
func (wb *writeBatch) Cancel() {
	wb.operations = nil
}
