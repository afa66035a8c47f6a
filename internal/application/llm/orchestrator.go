package llm

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/alchemorsel/cookbook/internal/application/codec"
	"github.com/alchemorsel/cookbook/internal/ports/outbound"
	apperrors "github.com/alchemorsel/cookbook/pkg/errors"
	"github.com/alchemorsel/cookbook/prompts"
)

// state names the per-call state machine positions of §4.4, used only
// for logging — the control flow itself is the loop in Transform.
type state string

const (
	stateBuildingPrompt state = "BUILDING_PROMPT"
	stateCallingModel   state = "CALLING_MODEL"
	stateParsing        state = "PARSING"
	stateValidating     state = "VALIDATING"
)

// peek is the minimal shape needed to route a model reply before
// committing to the full wire-to-domain mapping: is it a recipe, and
// is it one recipe or several.
type peek struct {
	IsRecipe bool              `json:"is_recipe"`
	Recipes  []json.RawMessage `json:"recipes"`
}

// Orchestrator implements the LLM Orchestrator (§4.4).
type Orchestrator struct {
	model  outbound.GenerativeModel
	cfg    Config
	logger *zap.Logger
}

func NewOrchestrator(model outbound.GenerativeModel, cfg Config, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{model: model, cfg: cfg, logger: logger}
}

// Transform implements transform(cleaned_html, source_url) → Response.
func (o *Orchestrator) Transform(ctx context.Context, cleanedHTML, sourceURL string) (Response, *apperrors.AppError) {
	var violations []string

	for attempt := 0; attempt <= o.cfg.RetryBudget; attempt++ {
		o.logState(stateBuildingPrompt, attempt)
		parts := buildPromptParts(cleanedHTML, sourceURL, violations)

		o.logState(stateCallingModel, attempt)
		result, err := o.model.Generate(ctx, outbound.GenerateRequest{
			PromptParts:     parts,
			Temperature:     o.cfg.Temperature,
			TopP:            o.cfg.TopP,
			MaxOutputTokens: o.cfg.MaxOutputTokens,
			ResponseSchema:  recipeSchemaText(),
		})
		if err != nil {
			return Response{}, apperrors.NewModelError("generation call failed", err)
		}

		o.logState(stateParsing, attempt)
		resp, verr := o.parse(result.Text)
		if verr == nil {
			resp.Usage = o.usage(result)
			if o.logger != nil {
				o.logger.Debug("llm orchestrator token usage",
					zap.Int("prompt_tokens", resp.Usage.PromptTokens),
					zap.Int("completion_tokens", resp.Usage.CompletionTokens),
					zap.Float64("cost_cents", resp.Usage.CostCents))
			}
			return resp, nil
		}
		if verr.Code != apperrors.CodeSchemaViolation {
			return Response{}, verr
		}

		o.logState(stateValidating, attempt)
		violations = append(violations, verr.Error())
		if o.logger != nil {
			o.logger.Warn("model response failed validation, retrying",
				zap.Int("attempt", attempt), zap.String("reason", verr.Error()))
		}
	}

	var last *apperrors.AppError
	if len(violations) > 0 {
		last = apperrors.NewSchemaViolationError("", violations[len(violations)-1])
	}
	return Response{}, apperrors.NewTransformationFailedError(last)
}

// parse implements the PARSING→VALIDATING transition: peek at
// is_recipe/recipes, short-circuit not-a-recipe classifications without
// further validation, and otherwise map+validate via the codec.
func (o *Orchestrator) parse(raw string) (Response, *apperrors.AppError) {
	text := extractJSONObject(raw)

	var p peek
	if err := json.Unmarshal([]byte(text), &p); err != nil {
		return Response{}, apperrors.NewModelError("response was not valid JSON", err)
	}

	if !p.IsRecipe {
		return Response{Outcome: OutcomeNotRecipe, RawText: raw}, nil
	}

	if len(p.Recipes) > 0 {
		out := Response{Outcome: OutcomeRecipes, RawText: raw}
		for _, entry := range p.Recipes {
			r, verr := codec.ParseBytes(entry)
			if verr != nil {
				return Response{}, verr
			}
			out.Recipes = append(out.Recipes, r)
		}
		return out, nil
	}

	r, verr := codec.ParseBytes([]byte(text))
	if verr != nil {
		return Response{}, verr
	}
	return Response{Outcome: OutcomeRecipe, Recipe: r, RawText: raw}, nil
}

// usage prices a GenerateResult against the configured per-token rates,
// the debug-only cost annotation SPEC_FULL's Orchestrator section
// commits to attaching to every successful transform.
func (o *Orchestrator) usage(result outbound.GenerateResult) TokenUsage {
	return TokenUsage{
		PromptTokens:     result.PromptTokens,
		CompletionTokens: result.CompletionTokens,
		CostCents: float64(result.PromptTokens)*o.cfg.InputTokenRateCents +
			float64(result.CompletionTokens)*o.cfg.OutputTokenRateCents,
	}
}

func (o *Orchestrator) logState(s state, attempt int) {
	if o.logger == nil {
		return
	}
	o.logger.Debug("llm orchestrator state", zap.String("state", string(s)), zap.Int("attempt", attempt))
}

// extractJSONObject trims any stray prose/markdown fencing a model adds
// despite instructions, keeping only the outermost JSON object.
func extractJSONObject(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end <= start {
		return s
	}
	return s[start : end+1]
}

func recipeSchemaText() string {
	return prompts.RecipeSchema
}
