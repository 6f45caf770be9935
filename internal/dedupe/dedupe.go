// Package dedupe computes deterministic message fingerprints and tracks
// which fingerprints have been seen within a processing run. The registry
// mirrors the storage layer's uniqueness constraint on raw text, but holds
// before persistence is attempted so duplicate detection never needs a
// database round-trip.
package dedupe

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
	"sync"
)

var spaceRun = regexp.MustCompile(`\s+`)

// Fingerprint computes a stable identifier for a raw message. The text is
// lightly normalized (lowercased, whitespace collapsed) before hashing so
// that formatting drift in the export does not defeat deduplication, then
// hashed with SHA-256. No randomness: identical text always produces the
// identical fingerprint.
func Fingerprint(rawText string) string {
	canonical := spaceRun.ReplaceAllString(strings.TrimSpace(strings.ToLower(rawText)), " ")
	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])
}

// Registry tracks fingerprints seen in one run. Register is atomic: when
// two identical messages race, exactly one caller observes first-seen.
type Registry struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewRegistry returns an empty Registry for a fresh run.
func NewRegistry() *Registry {
	return &Registry{seen: make(map[string]struct{})}
}

// Register records the fingerprint and reports whether this was its first
// occurrence in the run. Check and insert happen under one lock, so the
// first-seen guarantee holds under concurrent workers.
func (r *Registry) Register(fingerprint string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.seen[fingerprint]; dup {
		return false
	}
	r.seen[fingerprint] = struct{}{}
	return true
}

// Len returns the number of distinct fingerprints registered.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.seen)
}
