package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/alchemorsel/cookbook/internal/infrastructure/ai"
	"github.com/alchemorsel/cookbook/internal/infrastructure/config"
	"github.com/alchemorsel/cookbook/internal/ports/inbound"
	"github.com/alchemorsel/cookbook/internal/ports/outbound"
	apperrors "github.com/alchemorsel/cookbook/pkg/errors"
)

type fakeExtractor struct {
	resp inbound.ExtractResponse
	err  error
}

func (f *fakeExtractor) ExtractRecipe(_ context.Context, _ inbound.ExtractRequest) (inbound.ExtractResponse, error) {
	return f.resp, f.err
}

type fakeVerifier struct {
	identity outbound.Identity
	err      error
}

func (f *fakeVerifier) Verify(_ context.Context, _ string) (outbound.Identity, error) {
	return f.identity, f.err
}

func newTestServer(extractor inbound.RecipeExtractionService, verifier outbound.TokenVerifier) *Server {
	cfg := &config.Config{}
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0
	return NewServer(cfg, zap.NewNop(), extractor, verifier, ai.NewHealthChecker("http://localhost:0", zap.NewNop()))
}

func TestHandleRootReturnsOK(t *testing.T) {
	srv := newTestServer(&fakeExtractor{}, &fakeVerifier{})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	srv.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestHandleHelloGreetsByName(t *testing.T) {
	srv := newTestServer(&fakeExtractor{}, &fakeVerifier{})
	req := httptest.NewRequest(http.MethodGet, "/hello/Ada", nil)
	w := httptest.NewRecorder()

	srv.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Hello, Cookbook user Ada!", w.Body.String())
}

func TestExtractRecipeRejectsMissingBearerToken(t *testing.T) {
	srv := newTestServer(&fakeExtractor{}, &fakeVerifier{err: apperrors.NewUnauthorizedError("missing bearer token")})
	body, _ := json.Marshal(map[string]string{"url": "https://example.com", "title": "Soup"})
	req := httptest.NewRequest(http.MethodPost, "/recipe", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	srv.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestExtractRecipeRejectsMissingTitle(t *testing.T) {
	srv := newTestServer(&fakeExtractor{}, &fakeVerifier{identity: outbound.Identity{Subject: "user-1"}})
	body, _ := json.Marshal(map[string]string{"url": "https://example.com"})
	req := httptest.NewRequest(http.MethodPost, "/recipe", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer valid-token")
	w := httptest.NewRecorder()

	srv.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExtractRecipeReturnsCoordinatorResponse(t *testing.T) {
	extractor := &fakeExtractor{resp: inbound.ExtractResponse{
		URL:      "https://example.com/soup",
		Title:    "Tomato Soup",
		IsRecipe: true,
		StorageRef: &inbound.StorageRef{
			FolderRef: "user-1/cookbook",
			FileRef:   "user-1/cookbook/tomato-soup.yaml",
			Filename:  "tomato-soup.yaml",
		},
	}}
	srv := newTestServer(extractor, &fakeVerifier{identity: outbound.Identity{Subject: "user-1"}})
	body, _ := json.Marshal(map[string]string{"url": "https://example.com/soup", "title": "Tomato Soup"})
	req := httptest.NewRequest(http.MethodPost, "/recipe", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer valid-token")
	w := httptest.NewRecorder()

	srv.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var out extractRecipeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.True(t, out.IsRecipe)
	assert.Equal(t, "tomato-soup.yaml", out.StorageRef.Filename)
}

func TestExtractRecipePropagatesFetchFailedAsBadGateway(t *testing.T) {
	extractor := &fakeExtractor{err: apperrors.NewFetchFailedError("https://example.com", 503)}
	srv := newTestServer(extractor, &fakeVerifier{identity: outbound.Identity{Subject: "user-1"}})
	body, _ := json.Marshal(map[string]string{"url": "https://example.com", "title": "Soup"})
	req := httptest.NewRequest(http.MethodPost, "/recipe", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer valid-token")
	w := httptest.NewRecorder()

	srv.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func init() {
	gin.SetMode(gin.TestMode)
}
