// Package cache stores rendered export artifacts so repeated exports of an
// unchanged drawing skip the Graphviz run.
//
// Keys are derived from a hash of the exported snapshot plus the export
// options (see ArtifactKey). Two implementations are provided: FileCache for
// the CLI and NullCache to disable caching.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}

// ArtifactOpts are the export options that change an artifact's bytes.
type ArtifactOpts struct {
	Format    string  `json:"format"`
	Detailed  bool    `json:"detailed,omitempty"`
	Free      bool    `json:"free,omitempty"`
	Scale     float64 `json:"scale,omitempty"`
	FillColor string  `json:"fill_color,omitempty"`
	EdgeColor string  `json:"edge_color,omitempty"`
}

// ArtifactKey returns the key of an export of the graph with the given
// content hash.
func ArtifactKey(graphHash string, opts ArtifactOpts) string {
	return hashKey("artifact", graphHash, opts)
}
