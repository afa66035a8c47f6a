// Package extraction implements the Request Coordinator (§4.5): the
// single entry point that turns a {url, html?, title} request into a
// persisted, cached Recipe.
package extraction

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/alchemorsel/cookbook/internal/application/cleanup"
	"github.com/alchemorsel/cookbook/internal/application/codec"
	"github.com/alchemorsel/cookbook/internal/application/llm"
	domainrecipe "github.com/alchemorsel/cookbook/internal/domain/recipe"
	"github.com/alchemorsel/cookbook/internal/infrastructure/cache"
	"github.com/alchemorsel/cookbook/internal/ports/inbound"
	"github.com/alchemorsel/cookbook/internal/ports/outbound"
	apperrors "github.com/alchemorsel/cookbook/pkg/errors"
)

// Coordinator implements inbound.RecipeExtractionService, sequencing
// fingerprint → cache lookup → fetch → clean → transform → cache store →
// persist → respond. A cache hit returns before any HTML is acquired.
type Coordinator struct {
	fetcher      outbound.HTMLFetcher
	cacheStore   outbound.CacheStore
	inFlight     *cache.Coordinator
	cleanupEng   *cleanup.Engine
	cleanupCfg   cleanup.Config
	orchestrator *llm.Orchestrator
	files        outbound.FileStore
	cfg          Config
	logger       *zap.Logger
}

func NewCoordinator(
	fetcher outbound.HTMLFetcher,
	cacheStore outbound.CacheStore,
	inFlight *cache.Coordinator,
	cleanupEng *cleanup.Engine,
	cleanupCfg cleanup.Config,
	orchestrator *llm.Orchestrator,
	files outbound.FileStore,
	cfg Config,
	logger *zap.Logger,
) *Coordinator {
	return &Coordinator{
		fetcher:      fetcher,
		cacheStore:   cacheStore,
		inFlight:     inFlight,
		cleanupEng:   cleanupEng,
		cleanupCfg:   cleanupCfg,
		orchestrator: orchestrator,
		files:        files,
		cfg:          cfg,
		logger:       logger,
	}
}

// ExtractRecipe implements inbound.RecipeExtractionService.
func (c *Coordinator) ExtractRecipe(ctx context.Context, req inbound.ExtractRequest) (inbound.ExtractResponse, error) {
	fp := Fingerprint(req.URL)

	if c.cfg.CacheEnabled {
		if resp, handled, err := c.tryCacheShortCircuit(ctx, req, fp); handled {
			return resp, err
		}
	}

	html, fetchErr := c.acquireHTML(ctx, req)
	if fetchErr != nil {
		return inbound.ExtractResponse{}, fetchErr
	}

	// The single-flight region covers clean+transform+store: followers
	// for the same fingerprint wait on the leader rather than re-running
	// the LLM call (§5 "at most one LLM call outstanding per fingerprint").
	v, err, _ := c.inFlight.Do(fp, func() (interface{}, error) {
		return c.cleanTransformAndStore(ctx, req, fp, html)
	})
	if err != nil {
		return inbound.ExtractResponse{}, err
	}
	outcome := v.(transformOutcome)

	return c.persistAndRespond(ctx, req, outcome)
}

// transformOutcome is the value shared across single-flight followers.
// recipes holds one entry for a single-recipe result, or several for a
// multi-recipe page (§9: one file per recipe on persistence).
type transformOutcome struct {
	isRecipe bool
	recipes  []*domainrecipe.Recipe
}

func (c *Coordinator) acquireHTML(ctx context.Context, req inbound.ExtractRequest) (string, error) {
	if req.HTML != "" {
		html, err := decodeHTML(req.HTML, req.Compression == inbound.CompressionNone)
		if err == nil {
			return html, nil
		}
		if req.URL == "" {
			return "", apperrors.NewBadRequestError("html could not be decompressed and no url was provided to fall back on")
		}
		if c.logger != nil {
			c.logger.Info("html decompression failed, falling back to fetch", zap.String("url", req.URL), zap.Error(err))
		}
	}

	if req.URL == "" {
		return "", apperrors.NewBadRequestError("url is required when html is absent")
	}

	result, err := c.fetcher.Fetch(ctx, req.URL)
	if err != nil {
		return "", apperrors.NewFetchFailedError(req.URL, 0).WithCause(err)
	}
	if result.StatusCode < 200 || result.StatusCode >= 300 {
		return "", apperrors.NewFetchFailedError(req.URL, result.StatusCode)
	}
	return result.HTML, nil
}

// tryCacheShortCircuit implements §4.5 step 3. handled=false means the
// caller must continue the pipeline (miss, or cache unavailable).
func (c *Coordinator) tryCacheShortCircuit(ctx context.Context, req inbound.ExtractRequest, fp string) (inbound.ExtractResponse, bool, error) {
	lookupCtx, cancel := context.WithTimeout(ctx, c.cfg.LookupTimeout)
	defer cancel()

	entry, err := c.cacheStore.Lookup(lookupCtx, fp)
	if err != nil {
		// CacheUnavailable is non-fatal (§7): proceed as on a miss.
		if c.logger != nil {
			c.logger.Warn("cache lookup unavailable, proceeding without cache", zap.Error(err))
		}
		return inbound.ExtractResponse{}, false, nil
	}
	if entry == nil {
		return inbound.ExtractResponse{}, false, nil
	}

	if !entry.Valid {
		return inbound.ExtractResponse{URL: req.URL, Title: req.Title, IsRecipe: false}, true, nil
	}

	r, verr := codec.ParseBytes([]byte(entry.RecipeYAML))
	if verr != nil {
		// A corrupted cache entry is treated like a miss rather than
		// failing the request.
		if c.logger != nil {
			c.logger.Warn("cached recipe failed to parse, treating as miss", zap.Error(verr))
		}
		return inbound.ExtractResponse{}, false, nil
	}

	resp, err := c.persistAndRespond(ctx, req, transformOutcome{isRecipe: true, recipes: []*domainrecipe.Recipe{r}})
	return resp, true, err
}

// cleanTransformAndStore runs steps 4-6 of §4.5 and is the function
// wrapped by the single-flight coordinator.
func (c *Coordinator) cleanTransformAndStore(ctx context.Context, req inbound.ExtractRequest, fp, html string) (transformOutcome, error) {
	cleaned := c.cleanupEng.Clean(html, c.cleanupCfg)

	resp, verr := c.orchestrator.Transform(ctx, cleaned.CleanedHTML, req.URL)
	if verr != nil {
		return transformOutcome{}, verr
	}

	if c.cfg.CacheEnabled {
		c.storeOutcome(ctx, fp, req.URL, resp)
	}

	switch resp.Outcome {
	case llm.OutcomeNotRecipe:
		return transformOutcome{isRecipe: false}, nil
	case llm.OutcomeRecipes:
		if len(resp.Recipes) == 0 {
			return transformOutcome{isRecipe: false}, nil
		}
		return transformOutcome{isRecipe: true, recipes: resp.Recipes}, nil
	default:
		return transformOutcome{isRecipe: true, recipes: []*domainrecipe.Recipe{resp.Recipe}}, nil
	}
}

func (c *Coordinator) storeOutcome(ctx context.Context, fp, sourceURL string, resp llm.Response) {
	saveCtx, cancel := context.WithTimeout(ctx, c.cfg.SaveTimeout)
	defer cancel()

	var err error
	switch resp.Outcome {
	case llm.OutcomeNotRecipe:
		err = c.cacheStore.StoreInvalid(saveCtx, fp, sourceURL)
	case llm.OutcomeRecipe:
		yaml, serr := codec.Serialize(resp.Recipe)
		if serr != nil {
			return
		}
		err = c.cacheStore.StoreValid(saveCtx, fp, sourceURL, yaml)
	case llm.OutcomeRecipes:
		if len(resp.Recipes) == 0 {
			return
		}
		yaml, serr := codec.Serialize(resp.Recipes[0])
		if serr != nil {
			return
		}
		err = c.cacheStore.StoreValid(saveCtx, fp, sourceURL, yaml)
	}
	if err != nil && c.logger != nil {
		c.logger.Warn("cache store failed, proceeding without cache update", zap.Error(err))
	}
}

// persistAndRespond implements §4.5 steps 7-8. A multi-recipe outcome
// persists one file per recipe (§9); the response's single StorageRef
// points at the first.
func (c *Coordinator) persistAndRespond(ctx context.Context, req inbound.ExtractRequest, outcome transformOutcome) (inbound.ExtractResponse, error) {
	resp := inbound.ExtractResponse{
		URL:      req.URL,
		Title:    req.Title,
		IsRecipe: outcome.isRecipe,
	}
	if !outcome.isRecipe || len(outcome.recipes) == 0 {
		return resp, nil
	}
	if title := outcome.recipes[0].Metadata().Title; title != "" {
		resp.Title = title
	}

	identity := req.UserIdentity
	folder, err := c.files.GetOrCreateFolder(ctx, identity, c.cfg.DefaultFolderName)
	if err != nil {
		resp.StorageWarning = "file store unavailable: " + err.Error()
		return resp, nil
	}

	used := make(map[string]bool)
	for i, r := range outcome.recipes {
		yaml, verr := codec.Serialize(r)
		if verr != nil {
			resp.StorageWarning = "failed to serialize recipe for storage: " + verr.Error()
			continue
		}

		title := r.Metadata().Title
		if title == "" {
			title = req.Title
		}
		filename := uniqueFilename(Slugify(title), used)

		file, err := c.files.Put(ctx, identity, folder, filename, []byte(yaml), "application/yaml")
		if err != nil {
			resp.StorageWarning = "file store unavailable: " + err.Error()
			continue
		}

		if i == 0 {
			resp.StorageRef = &inbound.StorageRef{
				FolderRef: folder.ID,
				FileRef:   file.ID,
				Filename:  file.Filename,
			}
		}
	}
	return resp, nil
}

// uniqueFilename appends a "-2", "-3", ... suffix on collision within a
// single persist call (§9's stated default for multi-recipe pages).
func uniqueFilename(slug string, used map[string]bool) string {
	name := slug + ".yaml"
	for n := 2; used[name]; n++ {
		name = fmt.Sprintf("%s-%d.yaml", slug, n)
	}
	used[name] = true
	return name
}

var _ inbound.RecipeExtractionService = (*Coordinator)(nil)
