package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/alchemorsel/cookbook/internal/ports/outbound"
	apperrors "github.com/alchemorsel/cookbook/pkg/errors"
)

// sequenceModel returns one canned GenerateResult per call, in order,
// and records how many times it was invoked.
type sequenceModel struct {
	replies []string
	calls   int
}

func (m *sequenceModel) Generate(_ context.Context, _ outbound.GenerateRequest) (outbound.GenerateResult, error) {
	idx := m.calls
	m.calls++
	if idx >= len(m.replies) {
		idx = len(m.replies) - 1
	}
	return outbound.GenerateResult{
		Text:             m.replies[idx],
		PromptTokens:     100,
		CompletionTokens: 50,
	}, nil
}

type OrchestratorTestSuite struct {
	suite.Suite
}

func TestOrchestratorTestSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorTestSuite))
}

const validRecipeJSON = `{
  "is_recipe": true,
  "schema_version": "1.0.0",
  "metadata": {"title": "Skillet Pasta", "servings": 4},
  "ingredients": [{"item": "pasta", "amount": "1", "unit": "lb"}],
  "instructions": [{"step": 1, "description": "Boil pasta."}]
}`

func (s *OrchestratorTestSuite) TestSuccessfulSingleRecipe() {
	// Arrange
	model := &sequenceModel{replies: []string{validRecipeJSON}}
	o := NewOrchestrator(model, DefaultConfig(), nil)

	// Act
	resp, err := o.Transform(context.Background(), "<html>...</html>", "https://example.com/pasta")

	// Assert
	require.Nil(s.T(), err)
	assert.Equal(s.T(), OutcomeRecipe, resp.Outcome)
	assert.Equal(s.T(), "Skillet Pasta", resp.Recipe.Metadata().Title)
	assert.Equal(s.T(), 1, model.calls)
	assert.Equal(s.T(), 100, resp.Usage.PromptTokens)
	assert.Equal(s.T(), 50, resp.Usage.CompletionTokens)
	assert.Greater(s.T(), resp.Usage.CostCents, 0.0)
}

func (s *OrchestratorTestSuite) TestNotARecipeShortCircuits() {
	// Arrange
	model := &sequenceModel{replies: []string{`{"is_recipe": false}`}}
	o := NewOrchestrator(model, DefaultConfig(), nil)

	// Act
	resp, err := o.Transform(context.Background(), "<html>blog post</html>", "https://example.com/blog")

	// Assert
	require.Nil(s.T(), err)
	assert.Equal(s.T(), OutcomeNotRecipe, resp.Outcome)
	assert.Equal(s.T(), 1, model.calls)
}

func (s *OrchestratorTestSuite) TestRetriesOnSchemaViolationThenSucceeds() {
	// Arrange: first reply is missing required ingredients, second is valid.
	invalid := `{"is_recipe": true, "metadata": {"title": "Bad"}, "instructions": [{"step":1,"description":"x"}]}`
	model := &sequenceModel{replies: []string{invalid, validRecipeJSON}}
	cfg := DefaultConfig()
	cfg.RetryBudget = 1
	o := NewOrchestrator(model, cfg, nil)

	// Act
	resp, err := o.Transform(context.Background(), "<html>...</html>", "https://example.com/pasta")

	// Assert
	require.Nil(s.T(), err)
	assert.Equal(s.T(), OutcomeRecipe, resp.Outcome)
	assert.Equal(s.T(), 2, model.calls)
}

func (s *OrchestratorTestSuite) TestBudgetExhaustedReturnsTransformationFailed() {
	// Arrange: always invalid, budget of 1 allows exactly 2 calls total.
	invalid := `{"is_recipe": true, "metadata": {"title": "Bad"}, "instructions": [{"step":1,"description":"x"}]}`
	model := &sequenceModel{replies: []string{invalid, invalid, invalid}}
	cfg := DefaultConfig()
	cfg.RetryBudget = 1
	o := NewOrchestrator(model, cfg, nil)

	// Act
	_, err := o.Transform(context.Background(), "<html>...</html>", "https://example.com/pasta")

	// Assert
	require.NotNil(s.T(), err)
	assert.Equal(s.T(), apperrors.CodeTransformationFailed, err.Code)
	assert.Equal(s.T(), 2, model.calls)
}

func (s *OrchestratorTestSuite) TestMultipleRecipesOnOnePage() {
	// Arrange
	multi := `{"is_recipe": true, "recipes": [` + validRecipeJSON + `, ` + validRecipeJSON + `]}`
	model := &sequenceModel{replies: []string{multi}}
	o := NewOrchestrator(model, DefaultConfig(), nil)

	// Act
	resp, err := o.Transform(context.Background(), "<html>...</html>", "https://example.com/roundup")

	// Assert
	require.Nil(s.T(), err)
	assert.Equal(s.T(), OutcomeRecipes, resp.Outcome)
	assert.Len(s.T(), resp.Recipes, 2)
}

func (s *OrchestratorTestSuite) TestModelErrorIsNotRetried() {
	// Arrange: unparseable JSON is a ModelError, not a SchemaViolation —
	// §4.4 only retries on validation failure.
	model := &sequenceModel{replies: []string{"not json at all", validRecipeJSON}}
	o := NewOrchestrator(model, DefaultConfig(), nil)

	// Act
	_, err := o.Transform(context.Background(), "<html>...</html>", "https://example.com/pasta")

	// Assert
	require.NotNil(s.T(), err)
	assert.Equal(s.T(), apperrors.CodeModelError, err.Code)
	assert.Equal(s.T(), 1, model.calls)
}
