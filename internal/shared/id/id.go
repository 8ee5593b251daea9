// Package id provides centralized ID generation for the backend.
//
// This package offers type-safe ULID generation with:
//   - Lexicographic sortability: Enables efficient time-based queries
//   - Prefixed types: Type-specific prefixes for debugging (tab_*, pool_*, conn_*)
//   - Type safety: Separate types prevent ID misuse
//   - Performance: ~2μs per ULID
//
// Design Principles:
//   - ULIDs only: Single ID format across the backend
//   - K-sortable: Timeline queries without timestamps
//   - Debuggable: Prefixes make logs readable
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// SurfaceID identifies a tab surface
type SurfaceID string

// PoolID identifies a pre-provisioned idle surface
type PoolID string

// ConnID identifies a WebSocket connection
type ConnID string

// ID prefixes (for debugging and type identification)
const (
	SurfacePrefix = "tab"
	PoolPrefix    = "pool"
	ConnPrefix    = "conn"
)

// Generator generates ULIDs with optional prefixes
type Generator struct {
	entropy   io.Reader
	entropyMu sync.Mutex // Protects entropy reader
}

var (
	// Default generator with cryptographically secure entropy
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the singleton generator instance
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a new ULID generator
func NewGenerator() *Generator {
	return &Generator{
		entropy: rand.Reader,
	}
}

// NewGeneratorWithEntropy creates a generator with custom entropy source
// Useful for testing with deterministic entropy
func NewGeneratorWithEntropy(entropy io.Reader) *Generator {
	return &Generator{
		entropy: entropy,
	}
}

// Generate creates a new ULID
func (g *Generator) Generate() ulid.ULID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// GenerateString creates a new ULID as a string
func (g *Generator) GenerateString() string {
	return g.Generate().String()
}

// GenerateWithPrefix creates a prefixed ULID string
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.GenerateString())
}

// NewSurfaceID generates a new tab surface ID
func NewSurfaceID() SurfaceID {
	return SurfaceID(Default().GenerateWithPrefix(SurfacePrefix))
}

// NewPoolID generates a new pooled surface ID
func NewPoolID() PoolID {
	return PoolID(Default().GenerateWithPrefix(PoolPrefix))
}

// NewConnID generates a new WebSocket connection ID
func NewConnID() ConnID {
	return ConnID(Default().GenerateWithPrefix(ConnPrefix))
}

// String methods for ID types
func (id SurfaceID) String() string { return string(id) }
func (id PoolID) String() string    { return string(id) }
func (id ConnID) String() string    { return string(id) }

// Parse extracts the ULID from an ID string, with or without a type prefix
func Parse(id string) (ulid.ULID, error) {
	if i := strings.LastIndexByte(id, '_'); i >= 0 {
		id = id[i+1:]
	}
	return ulid.Parse(id)
}

// IsValid reports whether an ID string carries a well-formed ULID
func IsValid(id string) bool {
	_, err := Parse(id)
	return err == nil
}
