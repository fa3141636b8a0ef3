// Package kv provides the synchronous key-value persistence layer: a small
// Store interface with an in-memory and a SQLite-backed implementation, and
// a namespacing JSON Adapter on top.
package kv

import "errors"

// ErrQuotaExceeded is returned by Set when a write would push the store past
// its byte quota. It is reported, not retried; callers surface it as a
// failed persistence attempt.
var ErrQuotaExceeded = errors.New("kv: store quota exceeded")

// DefaultQuotaBytes is the default byte budget for a store (5 MiB, the
// classic budget of the browser store this layer stands in for).
const DefaultQuotaBytes int64 = 5 << 20

// Store is a synchronous, size-limited, string-keyed persistent store.
type Store interface {
	// Get returns the value for key and whether it exists.
	Get(key string) (string, bool, error)

	// Set writes value under key. Returns ErrQuotaExceeded when the write
	// would exceed the store's byte quota.
	Set(key, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error

	// Keys returns all keys with the given prefix, in unspecified order.
	Keys(prefix string) ([]string, error)

	// Close releases underlying resources.
	Close() error
}

// entrySize is the byte cost of one key/value pair for quota accounting.
func entrySize(key, value string) int64 {
	return int64(len(key) + len(value))
}
