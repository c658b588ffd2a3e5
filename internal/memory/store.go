// Package memory provides the persistent question/answer store shared across
// all sites and sessions. Keys are normalized question text; values are the
// answers a human gave (or, for file roles, the registered filename).
package memory

import (
	"context"

	"github.com/prathamesh/auto-apply/internal/types"
)

// Store is the question/answer memory contract. All keys are normalized
// (lower-cased, trimmed) before storage and lookup, so callers may pass raw
// question text. Writes are last-write-wins with single-key atomicity; the
// engine runs its flows strictly sequentially, so no further locking is
// required of implementations.
type Store interface {
	// Get returns the answer for a question key, if present.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set records an answer. Setting the same key twice keeps the last value.
	Set(ctx context.Context, key, value string) error

	// SetMany writes the same value under every key in one batch. Used for
	// file-role fan-out when a new asset is registered.
	SetMany(ctx context.Context, keys []string, value string) error

	// Export returns a copy of the whole mapping.
	Export(ctx context.Context) (map[string]string, error)

	// Import shallow-merges entries into the store; imported keys overwrite
	// existing keys with the same name.
	Import(ctx context.Context, entries map[string]string) error

	// Len returns the number of stored entries.
	Len(ctx context.Context) (int, error)

	// Close releases any underlying resources.
	Close() error
}

// normalizeEntries returns a copy of entries with every key normalized.
func normalizeEntries(entries map[string]string) map[string]string {
	out := make(map[string]string, len(entries))
	for k, v := range entries {
		if nk := types.NormalizeKey(k); nk != "" {
			out[nk] = v
		}
	}
	return out
}
