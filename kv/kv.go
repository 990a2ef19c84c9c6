// Copyright (c) 2025 The Rockpool developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

// Getter wraps methods for getting kvs.
type Getter interface {
	// Get value for given key.
	// An error returned if key not found. It can be checked via IsNotFound.
	Get(key []byte) (value []byte, err error)
	Has(key []byte) (bool, error)
	IsNotFound(err error) bool
}

// Putter wraps methods for putting kvs.
type Putter interface {
	Put(key, value []byte) error
	Delete(key []byte) error
}

// GetPutter wraps methods for getting/putting kvs.
type GetPutter interface {
	Getter
	Putter
}

// Range is a key range. From is included, To is excluded.
type Range struct {
	From []byte
	To   []byte
}

// Iterator iterates over kv pairs within a range, in key order.
type Iterator interface {
	First() bool
	Last() bool
	Next() bool
	Prev() bool

	Key() []byte
	Value() []byte
	Release()
	Error() error
}

// Iterable wraps the range iteration method.
type Iterable interface {
	NewIterator(r Range) Iterator
}

// Batch defines batch of putting ops. Writes are atomic.
type Batch interface {
	Putter

	Len() int
	Write() error
}

// Store defines the full functional kv store.
type Store interface {
	GetPutter
	Iterable

	NewBatch() Batch
}

// StoreCloser is a store with close method.
type StoreCloser interface {
	Store
	Close() error
}
