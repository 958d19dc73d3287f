// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package badger

import badger "github.com/dgraph-io/badger/v4"

// writeBatch uses the badger write batch and prefixes
// all keys with a certain given prefix.
type writeBatch struct {
	prefix           []byte
	badgerWriteBatch *badger.WriteBatch
}

func newWriteBatch(prefix []byte, badgerWriteBatch *badger.WriteBatch) *writeBatch {
	return &writeBatch{
		prefix:           prefix,
		badgerWriteBatch: badgerWriteBatch,
	}
}

func (wb *writeBatch) Set(key, value []byte) (err error) {
	return wb.badgerWriteBatch.Set(makePrefixedKey(wb.prefix, key), value)
}

func (wb *writeBatch) Delete(key []byte) (err error) {
	return wb.badgerWriteBatch.Delete(makePrefixedKey(wb.prefix, key))
}

// Flush flushes the write batch to the database.
func (wb *writeBatch) Flush() (err error) {
	return transformError(wb.badgerWriteBatch.Flush())
}

// Cancel cancels the write batch.
func (wb *writeBatch) Cancel() {
	wb.badgerWriteBatch.Cancel()
}
