// Package cache holds the value object stored by the content-addressed
// recipe cache (§4.3), independent of whatever backs it (Redis, memory).
package cache

import "time"

// Entry is one cached verdict for a source-URL fingerprint: either a
// serialized valid recipe, or a memoized "not a recipe" outcome.
type Entry struct {
	Fingerprint   string // 64 lowercase hex chars, sha256(canonical_url)
	SourceURL     string
	RecipeYAML    string // present iff Valid
	Valid         bool
	CreatedAt     time.Time
	LastUpdatedAt time.Time
	Version       int64 // monotonic per fingerprint
}

// NextVersion returns the Entry that should replace e on a new write,
// preserving CreatedAt and incrementing Version (§3 Lifecycle & Ownership).
func (e Entry) NextVersion(recipeYAML string, valid bool, now time.Time) Entry {
	created := e.CreatedAt
	if created.IsZero() {
		created = now
	}
	return Entry{
		Fingerprint:   e.Fingerprint,
		SourceURL:     e.SourceURL,
		RecipeYAML:    recipeYAML,
		Valid:         valid,
		CreatedAt:     created,
		LastUpdatedAt: now,
		Version:       e.Version + 1,
	}
}
