package extraction

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/alchemorsel/cookbook/internal/application/cleanup"
	"github.com/alchemorsel/cookbook/internal/application/llm"
	domaincache "github.com/alchemorsel/cookbook/internal/domain/cache"
	"github.com/alchemorsel/cookbook/internal/infrastructure/cache"
	"github.com/alchemorsel/cookbook/internal/ports/inbound"
	"github.com/alchemorsel/cookbook/internal/ports/outbound"
)

const recipeHTML = `<html><body><h1>Ingredients</h1><p>2 cups flour</p><h2>Instructions</h2><p>Mix and bake.</p></body></html>`

// fakeFetcher implements outbound.HTMLFetcher.
type fakeFetcher struct {
	html       string
	statusCode int
	err        error
}

func (f *fakeFetcher) Fetch(_ context.Context, _ string) (outbound.FetchResult, error) {
	if f.err != nil {
		return outbound.FetchResult{}, f.err
	}
	return outbound.FetchResult{HTML: f.html, StatusCode: f.statusCode}, nil
}

// fakeCache implements outbound.CacheStore in memory.
type fakeCache struct {
	entries map[string]*domaincache.Entry
	failing bool
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]*domaincache.Entry)}
}

func (c *fakeCache) Lookup(_ context.Context, fp string) (*domaincache.Entry, error) {
	if c.failing {
		return nil, errors.New("cache down")
	}
	return c.entries[fp], nil
}

func (c *fakeCache) StoreValid(_ context.Context, fp, url, yaml string) error {
	e := domaincache.Entry{Fingerprint: fp, SourceURL: url, RecipeYAML: yaml, Valid: true, Version: 1}
	c.entries[fp] = &e
	return nil
}

func (c *fakeCache) StoreInvalid(_ context.Context, fp, url string) error {
	e := domaincache.Entry{Fingerprint: fp, SourceURL: url, Valid: false, Version: 1}
	c.entries[fp] = &e
	return nil
}

func (c *fakeCache) Exists(_ context.Context, fp string) (bool, error) {
	_, ok := c.entries[fp]
	return ok, nil
}

func (c *fakeCache) Delete(_ context.Context, fp string) error {
	delete(c.entries, fp)
	return nil
}

func (c *fakeCache) Count(_ context.Context) (int64, error) {
	return int64(len(c.entries)), nil
}

// fakeModel implements outbound.GenerativeModel, returning one canned reply.
type fakeModel struct {
	reply string
}

func (m *fakeModel) Generate(_ context.Context, _ outbound.GenerateRequest) (outbound.GenerateResult, error) {
	return outbound.GenerateResult{Text: m.reply}, nil
}

// fakeFileStore implements outbound.FileStore in memory.
type fakeFileStore struct {
	fail  bool
	files map[string][]byte
}

func newFakeFileStore() *fakeFileStore {
	return &fakeFileStore{files: make(map[string][]byte)}
}

func (fs *fakeFileStore) GetOrCreateFolder(_ context.Context, _, name string) (outbound.FolderRef, error) {
	if fs.fail {
		return outbound.FolderRef{}, errors.New("storage down")
	}
	return outbound.FolderRef{ID: name}, nil
}

func (fs *fakeFileStore) Put(_ context.Context, _ string, _ outbound.FolderRef, filename string, data []byte, _ string) (outbound.FileRef, error) {
	if fs.fail {
		return outbound.FileRef{}, errors.New("storage down")
	}
	fs.files[filename] = data
	return outbound.FileRef{ID: filename, Filename: filename}, nil
}

func (fs *fakeFileStore) List(_ context.Context, _ string, _ outbound.FolderRef, _ int, _ string) (outbound.FileList, error) {
	return outbound.FileList{}, nil
}

func (fs *fakeFileStore) GetBytes(_ context.Context, _ string, _ outbound.FileRef) ([]byte, error) {
	return nil, nil
}

func (fs *fakeFileStore) GetText(_ context.Context, _ string, _ outbound.FileRef) (string, error) {
	return "", nil
}

const validRecipeJSON = `{
  "is_recipe": true,
  "schema_version": "1.0.0",
  "metadata": {"title": "Baked Flour", "language": "en", "difficulty": "easy"},
  "ingredients": [{"component": "main", "item": "flour", "amount": "2", "unit": "cups"}],
  "instructions": [{"step": 1, "description": "Mix and bake."}]
}`

const notRecipeJSON = `{"is_recipe": false}`

type CoordinatorTestSuite struct {
	suite.Suite
}

func TestCoordinatorTestSuite(t *testing.T) {
	suite.Run(t, new(CoordinatorTestSuite))
}

func (s *CoordinatorTestSuite) build(fetcher outbound.HTMLFetcher, cacheStore outbound.CacheStore, model outbound.GenerativeModel, files outbound.FileStore) *Coordinator {
	return NewCoordinator(
		fetcher,
		cacheStore,
		cache.NewCoordinator(),
		cleanup.NewEngine(nil, nil),
		cleanup.DefaultConfig(),
		llm.NewOrchestrator(model, llm.DefaultConfig(), nil),
		files,
		DefaultConfig(),
		nil,
	)
}

func (s *CoordinatorTestSuite) TestSuccessfulExtractionPersistsAndCaches() {
	// Arrange
	fetcher := &fakeFetcher{html: recipeHTML, statusCode: 200}
	cacheStore := newFakeCache()
	files := newFakeFileStore()
	coord := s.build(fetcher, cacheStore, &fakeModel{reply: validRecipeJSON}, files)

	// Act
	resp, err := coord.ExtractRecipe(context.Background(), inbound.ExtractRequest{
		UserIdentity: "user-1",
		URL:          "https://example.com/recipe",
		Title:        "Baked Flour",
	})

	// Assert
	require.NoError(s.T(), err)
	assert.True(s.T(), resp.IsRecipe)
	require.NotNil(s.T(), resp.StorageRef)
	assert.Equal(s.T(), "baked-flour.yaml", resp.StorageRef.Filename)
	assert.Empty(s.T(), resp.StorageWarning)

	fp := Fingerprint("https://example.com/recipe")
	entry, _ := cacheStore.Lookup(context.Background(), fp)
	require.NotNil(s.T(), entry)
	assert.True(s.T(), entry.Valid)
}

func (s *CoordinatorTestSuite) TestNotRecipeIsA2xxResultWithoutStorage() {
	fetcher := &fakeFetcher{html: recipeHTML, statusCode: 200}
	cacheStore := newFakeCache()
	files := newFakeFileStore()
	coord := s.build(fetcher, cacheStore, &fakeModel{reply: notRecipeJSON}, files)

	resp, err := coord.ExtractRecipe(context.Background(), inbound.ExtractRequest{
		UserIdentity: "user-1",
		URL:          "https://example.com/not-a-recipe",
		Title:        "Not A Recipe",
	})

	require.NoError(s.T(), err)
	assert.False(s.T(), resp.IsRecipe)
	assert.Nil(s.T(), resp.StorageRef)
}

func (s *CoordinatorTestSuite) TestCacheHitShortCircuitsWithoutCallingModelOrFetcher() {
	fp := Fingerprint("https://example.com/cached")
	cacheStore := newFakeCache()
	_ = cacheStore.StoreValid(context.Background(), fp, "https://example.com/cached", validRecipeJSON2YAML())

	fetcher := &fakeFetcher{err: errors.New("should never be called")}
	files := newFakeFileStore()
	coord := s.build(fetcher, cacheStore, &fakeModel{reply: notRecipeJSON}, files)

	resp, err := coord.ExtractRecipe(context.Background(), inbound.ExtractRequest{
		UserIdentity: "user-1",
		URL:          "https://example.com/cached",
		Title:        "Baked Flour",
	})

	require.NoError(s.T(), err)
	assert.True(s.T(), resp.IsRecipe)
	require.NotNil(s.T(), resp.StorageRef)
}

func (s *CoordinatorTestSuite) TestCacheHitInvalidReturnsNotRecipeWithoutStorage() {
	fp := Fingerprint("https://example.com/cached-invalid")
	cacheStore := newFakeCache()
	_ = cacheStore.StoreInvalid(context.Background(), fp, "https://example.com/cached-invalid")

	fetcher := &fakeFetcher{err: errors.New("should never be called")}
	files := newFakeFileStore()
	coord := s.build(fetcher, cacheStore, &fakeModel{reply: validRecipeJSON}, files)

	resp, err := coord.ExtractRecipe(context.Background(), inbound.ExtractRequest{
		UserIdentity: "user-1",
		URL:          "https://example.com/cached-invalid",
		Title:        "whatever",
	})

	require.NoError(s.T(), err)
	assert.False(s.T(), resp.IsRecipe)
	assert.Nil(s.T(), resp.StorageRef)
}

func (s *CoordinatorTestSuite) TestBlankHTMLAndUnreachableURLIsFetchFailed() {
	fetcher := &fakeFetcher{err: errors.New("dial tcp: connection refused")}
	cacheStore := newFakeCache()
	files := newFakeFileStore()
	coord := s.build(fetcher, cacheStore, &fakeModel{reply: validRecipeJSON}, files)

	_, err := coord.ExtractRecipe(context.Background(), inbound.ExtractRequest{
		UserIdentity: "user-1",
		URL:          "https://unreachable.example.com",
		Title:        "x",
	})

	require.Error(s.T(), err)
}

func (s *CoordinatorTestSuite) TestDecompressionFailureWithNoURLIsBadRequest() {
	fetcher := &fakeFetcher{}
	cacheStore := newFakeCache()
	files := newFakeFileStore()
	coord := s.build(fetcher, cacheStore, &fakeModel{reply: validRecipeJSON}, files)

	_, err := coord.ExtractRecipe(context.Background(), inbound.ExtractRequest{
		UserIdentity: "user-1",
		HTML:         "not-valid-base64!!!",
		Title:        "x",
	})

	require.Error(s.T(), err)
}

func (s *CoordinatorTestSuite) TestDecompressionFailureWithURLFallsBackToFetch() {
	fetcher := &fakeFetcher{html: recipeHTML, statusCode: 200}
	cacheStore := newFakeCache()
	files := newFakeFileStore()
	coord := s.build(fetcher, cacheStore, &fakeModel{reply: validRecipeJSON}, files)

	resp, err := coord.ExtractRecipe(context.Background(), inbound.ExtractRequest{
		UserIdentity: "user-1",
		URL:          "https://example.com/recipe",
		HTML:         "not-valid-base64!!!",
		Title:        "Baked Flour",
	})

	require.NoError(s.T(), err)
	assert.True(s.T(), resp.IsRecipe)
}

func (s *CoordinatorTestSuite) TestCompressedHTMLIsDecodedBeforeCleanup() {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, _ = gz.Write([]byte(recipeHTML))
	_ = gz.Close()
	encoded := base64.StdEncoding.EncodeToString(buf.Bytes())

	fetcher := &fakeFetcher{err: errors.New("should not need to fetch")}
	cacheStore := newFakeCache()
	files := newFakeFileStore()
	coord := s.build(fetcher, cacheStore, &fakeModel{reply: validRecipeJSON}, files)

	resp, err := coord.ExtractRecipe(context.Background(), inbound.ExtractRequest{
		UserIdentity: "user-1",
		URL:          "https://example.com/recipe",
		HTML:         encoded,
		Title:        "Baked Flour",
	})

	require.NoError(s.T(), err)
	assert.True(s.T(), resp.IsRecipe)
}

func (s *CoordinatorTestSuite) TestFileStoreFailureAfterSuccessIsNonFatalWarning() {
	fetcher := &fakeFetcher{html: recipeHTML, statusCode: 200}
	cacheStore := newFakeCache()
	files := newFakeFileStore()
	files.fail = true
	coord := s.build(fetcher, cacheStore, &fakeModel{reply: validRecipeJSON}, files)

	resp, err := coord.ExtractRecipe(context.Background(), inbound.ExtractRequest{
		UserIdentity: "user-1",
		URL:          "https://example.com/recipe-storage-fail",
		Title:        "Baked Flour",
	})

	require.NoError(s.T(), err)
	assert.True(s.T(), resp.IsRecipe)
	assert.Nil(s.T(), resp.StorageRef)
	assert.NotEmpty(s.T(), resp.StorageWarning)

	fp := Fingerprint("https://example.com/recipe-storage-fail")
	entry, _ := cacheStore.Lookup(context.Background(), fp)
	require.NotNil(s.T(), entry)
	assert.True(s.T(), entry.Valid, "cache must not be invalidated by a storage failure")
}

// validRecipeJSON2YAML produces a minimal YAML document equivalent to
// validRecipeJSON, for seeding a pre-populated cache entry directly.
func validRecipeJSON2YAML() string {
	return "is_recipe: true\n" +
		"schema_version: 1.0.0\n" +
		"metadata:\n" +
		"  title: Baked Flour\n" +
		"  language: en\n" +
		"  difficulty: easy\n" +
		"ingredients:\n" +
		"  - component: main\n" +
		"    item: flour\n" +
		"    amount: \"2\"\n" +
		"    unit: cups\n" +
		"instructions:\n" +
		"  - step: 1\n" +
		"    description: Mix and bake.\n"
}
