// Package outbound defines the interfaces for outbound ports (secondary/
// driven adapters) — the external collaborators spec.md §1 treats as
// abstract: the cache store, the generative model, the file store, the
// token verifier, and the at-rest cipher.
package outbound

import (
	"context"
	"time"

	domaincache "github.com/alchemorsel/cookbook/internal/domain/cache"
)

// CacheStore maps a request fingerprint to a previously produced
// CachedEntry (§4.3). Implementations must be safe for concurrent use;
// SPEC_FULL's Redis-backed implementation is stateless aside from the
// connection pool.
type CacheStore interface {
	Lookup(ctx context.Context, fingerprint string) (*domaincache.Entry, error)
	StoreValid(ctx context.Context, fingerprint, sourceURL, recipeYAML string) error
	StoreInvalid(ctx context.Context, fingerprint, sourceURL string) error
	Exists(ctx context.Context, fingerprint string) (bool, error)
	Delete(ctx context.Context, fingerprint string) error
	Count(ctx context.Context) (int64, error)
}

// GenerativeModel is the abstract LLM client (§6.3): a single
// structured-generation call, constrained by a JSON schema.
type GenerativeModel interface {
	Generate(ctx context.Context, req GenerateRequest) (GenerateResult, error)
}

// GenerateRequest carries the assembled prompt and generation parameters.
type GenerateRequest struct {
	PromptParts      []string
	Temperature      float64
	TopP             float64
	MaxOutputTokens  int
	ResponseSchema   string // JSON schema text, passed through to providers that support it
}

// GenerateResult is the provider's raw reply, before JSON parsing.
type GenerateResult struct {
	Text        string
	RawBytes    []byte
	PromptTokens     int
	CompletionTokens int
}

// FileStore is the abstract per-identity hierarchical blob store (§6.4).
type FileStore interface {
	GetOrCreateFolder(ctx context.Context, identity, name string) (FolderRef, error)
	Put(ctx context.Context, identity string, folder FolderRef, filename string, data []byte, mimeType string) (FileRef, error)
	List(ctx context.Context, identity string, folder FolderRef, pageSize int, pageToken string) (FileList, error)
	GetBytes(ctx context.Context, identity string, file FileRef) ([]byte, error)
	GetText(ctx context.Context, identity string, file FileRef) (string, error)
}

// FolderRef opaquely identifies a user-scoped folder.
type FolderRef struct {
	ID string
}

// FileRef opaquely identifies a stored object.
type FileRef struct {
	ID       string
	Filename string
}

// FileList is one page of FileStore.List results.
type FileList struct {
	Entries       []FileRef
	NextPageToken string
}

// TokenVerifier resolves caller identity from a bearer token (§1: "identity
// comes from an external token verifier").
type TokenVerifier interface {
	Verify(ctx context.Context, bearerToken string) (Identity, error)
}

// Identity is the resolved caller identity.
type Identity struct {
	Subject string
}

// Cipher is the opaque at-rest encryption primitive (§1).
type Cipher interface {
	Encrypt(plaintext []byte) ([]byte, error)
	Decrypt(ciphertext []byte) ([]byte, error)
}

// HTMLFetcher performs the outbound HTML acquisition of §4.5 step 1.
type HTMLFetcher interface {
	Fetch(ctx context.Context, url string) (FetchResult, error)
}

// FetchResult is a successful (2xx) page fetch.
type FetchResult struct {
	HTML       string
	StatusCode int
}

// timeoutDefaults documents the connection-pool posture mandated by §5;
// kept here as named constants rather than scattered magic numbers.
const (
	DefaultConnectTimeout  = 2 * time.Second
	DefaultResponseTimeout = 30 * time.Second
	DefaultQueueTimeout    = 2 * time.Second
	MaxConnsTotal          = 200
	MaxConnsPerHost        = 20
)
