// Package inbound defines the interfaces for inbound ports (primary/driving
// adapters) — what the HTTP surface calls into, not what it is called by.
package inbound

import "context"

// RecipeExtractionService is the primary port driving the end-to-end
// recipe-extraction flow (§4.5 Request Coordinator).
type RecipeExtractionService interface {
	ExtractRecipe(ctx context.Context, req ExtractRequest) (ExtractResponse, error)
}

// Compression selects how ExtractRequest.HTML should be interpreted (§6.2).
type Compression string

const (
	CompressionAuto Compression = "" // Base64(gzip(utf8)) — the default
	CompressionNone Compression = "none"
)

// ExtractRequest mirrors the POST /recipe body + query + identity (§6.1).
type ExtractRequest struct {
	UserIdentity string
	URL          string
	HTML         string
	Compression  Compression
	Title        string
}

// StorageRef identifies the persisted artifact, present only when the
// coordinator successfully wrote to the FileStore (§4.5 step 8).
type StorageRef struct {
	FolderRef string
	FileRef   string
	Filename  string
}

// ExtractResponse is the coordinator's result shape (§4.5 step 8, §6.1).
type ExtractResponse struct {
	URL            string
	Title          string
	IsRecipe       bool
	StorageRef     *StorageRef
	StorageWarning string // non-empty iff FileStore failed after a successful transform (§4.5 edge cases)
}
