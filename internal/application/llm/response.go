// Package llm implements the LLM Orchestrator (§4.4): prompt assembly,
// model invocation, and validation-driven retry that turns a cleaned
// HTML fragment into a validated Recipe or a not-a-recipe verdict.
package llm

import "github.com/alchemorsel/cookbook/internal/domain/recipe"

// Outcome discriminates the three shapes a Response can take (§4.4).
type Outcome string

const (
	OutcomeRecipe    Outcome = "RECIPE"
	OutcomeRecipes   Outcome = "RECIPES"
	OutcomeNotRecipe Outcome = "NOT_RECIPE"
)

// TokenUsage is a debug-only per-request annotation, narrowed from the
// teacher's cost_tracker.go/usage_analytics.go down to the two counts
// the provider actually reports plus a rough cost estimate. Nothing
// here is billed; it exists to be logged and metriced.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	CostCents        float64
}

// Response is the tagged-variant result of a transform call. Recipe is
// populated for OutcomeRecipe, Recipes for OutcomeRecipes, and neither
// for OutcomeNotRecipe; RawText is always carried for debugging
// regardless of outcome.
type Response struct {
	Outcome Outcome
	Recipe  *recipe.Recipe
	Recipes []*recipe.Recipe
	RawText string
	Usage   TokenUsage
}
