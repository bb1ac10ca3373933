// Package storage provides the named-blob persistence adapter the state
// layer writes through. Keys are opaque strings, values are JSON blobs; the
// semantics are last-write-wins on a single key.
package storage

import "errors"

var ErrClosed = errors.New("storage: closed")

// KV is a minimal named-blob store.
type KV interface {
	// Get returns the blob for key and whether it exists.
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Delete(key string) error
	// Keys returns all keys with the given prefix, sorted.
	Keys(prefix string) ([]string, error)
	Close() error
}
