// Package cache persists built registries between invocations.
//
// Records are addressed by a key string (normally a tree root) that is
// prefixed with StructureVersion before being encoded, so bumping the version
// makes every previously written record unreachable without migration code.
// Orphaned records are only removed by Clear.
package cache

import (
	"context"
	"encoding/base64"
	"errors"
	"strconv"
)

// StructureVersion must be bumped whenever the shape or meaning of a cached
// registry changes.
const StructureVersion = 2

// Store defines the interface for all cache backends
type Store interface {
	// Get retrieves a value from the cache. A missing record is reported as
	// ErrCacheMiss; any other error means the backend could not be read.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in the cache, replacing any previous record
	Set(ctx context.Context, key string, value []byte) error

	// Clear removes all records and returns how many were removed
	Clear(ctx context.Context) (int, error)

	// Close releases backend resources
	Close() error
}

// ErrCacheMiss is returned when a key is not found in the cache
type ErrCacheMiss struct {
	Key string
}

func (e ErrCacheMiss) Error() string {
	return "cache miss: " + e.Key
}

// IsCacheMiss checks if an error is a cache miss
func IsCacheMiss(err error) bool {
	var miss ErrCacheMiss
	return errors.As(err, &miss)
}

// Key derives the filename-safe record name for key.
func Key(key string) string {
	return KeyForVersion(StructureVersion, key)
}

// KeyForVersion derives the record name for key under an explicit version.
func KeyForVersion(version int, key string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.Itoa(version) + key))
}

// isRecordName reports whether name could have been produced by KeyForVersion
func isRecordName(name string) bool {
	decoded, err := base64.RawURLEncoding.DecodeString(name)
	if err != nil || len(decoded) == 0 {
		return false
	}
	return decoded[0] >= '0' && decoded[0] <= '9'
}

func checkContext(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
