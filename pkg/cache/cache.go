// Package cache provides pluggable byte caches for pipeline stages.
//
// Three backends are available: a file cache for CLI usage, a Redis cache
// for shared deployments, and a null cache that disables caching entirely.
// Keys are generated by a [Keyer] so that every caller hashing the same
// stage inputs lands on the same entry.
package cache

import (
	"context"
	"time"
)

// TTLs per pipeline stage. Built maps expire quickly since upstream concept
// payloads change often; layouts and exports are pure functions of the map
// and can live longer.
const (
	TTLMap    = 24 * time.Hour
	TTLLayout = 7 * 24 * time.Hour
	TTLExport = 7 * 24 * time.Hour
)

// Cache stores opaque byte slices under string keys with per-entry TTLs.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the cached data and whether the key was present.
	// An expired or unreadable entry is a miss, not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// MapKeyOpts are the build options that affect the cached map.
type MapKeyOpts struct {
	MaxNodes           int  `json:"max_nodes"`
	MaxDepth           int  `json:"max_depth"`
	IncludeExamples    bool `json:"include_examples"`
	IncludeDefinitions bool `json:"include_definitions"`
}

// LayoutKeyOpts are the layout options that affect node positions.
type LayoutKeyOpts struct {
	Strategy string  `json:"strategy"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
}

// ExportKeyOpts are the export options that affect rendered notation.
type ExportKeyOpts struct {
	Format string `json:"format"`
}

// Keyer generates cache keys for pipeline stages.
// Implementations must be deterministic: identical inputs yield identical keys.
type Keyer interface {
	// MapKey generates a key for built-map caching.
	// payloadHash is the hash of the raw concept payload.
	MapKey(payloadHash string, opts MapKeyOpts) string

	// LayoutKey generates a key for layout caching.
	// mapHash is the hash of the serialized map.
	LayoutKey(mapHash string, opts LayoutKeyOpts) string

	// ExportKey generates a key for exported-notation caching.
	// layoutHash is the hash of the serialized positioned map.
	ExportKey(layoutHash string, opts ExportKeyOpts) string
}

// DefaultKeyer generates hash-based cache keys with stage prefixes.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// MapKey generates a key for built-map caching.
func (k *DefaultKeyer) MapKey(payloadHash string, opts MapKeyOpts) string {
	return hashKey("map", payloadHash, opts)
}

// LayoutKey generates a key for layout caching.
func (k *DefaultKeyer) LayoutKey(mapHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", mapHash, opts)
}

// ExportKey generates a key for exported-notation caching.
func (k *DefaultKeyer) ExportKey(layoutHash string, opts ExportKeyOpts) string {
	return hashKey("export", layoutHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
