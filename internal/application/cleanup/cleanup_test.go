package cleanup

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/net/html"
)

type CleanupTestSuite struct {
	suite.Suite
	engine *Engine
	cfg    Config
}

func TestCleanupTestSuite(t *testing.T) {
	suite.Run(t, new(CleanupTestSuite))
}

func (s *CleanupTestSuite) SetupTest() {
	s.engine = NewEngine(nil, nil)
	s.cfg = DefaultConfig()
}

const structuredPage = `<html><head>
<script type="application/ld+json">
{
  "@context": "https://schema.org",
  "@type": "Recipe",
  "name": "Weeknight Cookies",
  "recipeIngredient": ["flour", "sugar"],
  "recipeInstructions": ["Mix.", "Bake."],
  "totalTime": "PT30M",
  "recipeYield": "24 cookies",
  "description": "Soft and chewy.",
  "image": "https://example.com/cookies.jpg"
}
</script>
</head><body><p>noise</p></body></html>`

func (s *CleanupTestSuite) TestStructuredDataWins() {
	// Arrange / Act
	result := s.engine.Clean(structuredPage, s.cfg)

	// Assert
	assert.Equal(s.T(), StrategyStructured, result.StrategyUsed)
	assert.True(s.T(), json.Valid([]byte(result.CleanedHTML)))
	assert.LessOrEqual(s.T(), result.CleanedSize, result.OriginalSize)
}

func (s *CleanupTestSuite) TestSectionBasedFallsBackFromStructured() {
	// Arrange: no JSON-LD, but a recipe-labelled article with enough
	// keyword density to clear the section threshold.
	page := `<html><body><nav>site nav</nav><article class="recipe-detail">
<h1>Ingredients</h1>
<ul><li>2 cups flour</li><li>1 cup sugar</li></ul>
<h2>Instructions</h2>
<ol><li>Mix dry ingredients.</li><li>Bake for 12 minutes at 350F, check servings and yield.</li></ol>
<p>prep time 10 minutes, cook time 12 minutes, direction: stir well, method: bake</p>
</article></body></html>`

	// Act
	result := s.engine.Clean(page, s.cfg)

	// Assert
	assert.Equal(s.T(), StrategySection, result.StrategyUsed)
	_, err := html.Parse(strings.NewReader(result.CleanedHTML))
	assert.NoError(s.T(), err)
	assert.LessOrEqual(s.T(), result.CleanedSize, result.OriginalSize)
	assert.NotContains(s.T(), result.CleanedHTML, "site nav")
}

func (s *CleanupTestSuite) TestContentFilterStripsNoise() {
	// Arrange: enough bulk to survive ContentFilter.MinOutputSize but no
	// single container scores well enough for SectionBased.
	body := strings.Repeat("<p>filler content about cooking and recipes and flavor.</p>", 10)
	page := "<html><body><script>track();</script><nav>nav</nav>" + body + "</body></html>"

	// Act
	result := s.engine.Clean(page, s.cfg)

	// Assert
	require.Contains(s.T(), []StrategyName{StrategyContentFilter, StrategySection}, result.StrategyUsed)
	assert.NotContains(s.T(), result.CleanedHTML, "track()")
	assert.LessOrEqual(s.T(), result.CleanedSize, result.OriginalSize)
}

func (s *CleanupTestSuite) TestFallbackWhenEverythingFails() {
	// Arrange: too small for any strategy to accept.
	page := "<p>hi</p>"

	// Act
	result := s.engine.Clean(page, s.cfg)

	// Assert
	assert.Equal(s.T(), StrategyFallback, result.StrategyUsed)
	assert.Equal(s.T(), page, result.CleanedHTML)
	assert.NotEmpty(s.T(), result.Message)
}

func (s *CleanupTestSuite) TestDisabledPassesThrough() {
	// Arrange
	s.cfg.Enabled = false
	page := structuredPage

	// Act
	result := s.engine.Clean(page, s.cfg)

	// Assert
	assert.Equal(s.T(), StrategyDisabled, result.StrategyUsed)
	assert.Equal(s.T(), page, result.CleanedHTML)
}

func (s *CleanupTestSuite) TestMalformedStructuredDataFallsThrough() {
	// Arrange: JSON-LD block is truncated/invalid; structured strategy
	// must not panic the engine and must fall through to the next one.
	page := `<html><body><article class="recipe">
<script type="application/ld+json">{not valid json</script>
<h1>ingredients</h1><p>instructions direction method recipe steps servings yield prep time cook time</p>
</article></body></html>`

	// Act
	result := s.engine.Clean(page, s.cfg)

	// Assert
	assert.NotEqual(s.T(), StrategyStructured, result.StrategyUsed)
}

func TestScoreCompletenessPointScheme(t *testing.T) {
	// Arrange
	full := map[string]interface{}{
		"name":               "x",
		"recipeIngredient":   []interface{}{"a"},
		"recipeInstructions": []interface{}{"b"},
		"totalTime":          "PT10M",
		"recipeYield":        "4",
		"description":        "d",
		"image":              "i",
	}
	partial := map[string]interface{}{"name": "x"}

	// Act / Assert
	assert.Equal(t, 100, scoreCompleteness(full))
	assert.Equal(t, 20, scoreCompleteness(partial))
}

func TestSectionConfidenceAppliesAdditiveBonuses(t *testing.T) {
	// Arrange: two keyword matches (+20), two lists (+20), two headings
	// (+10), short text (no length bonus) — expect exactly 50.
	page := `<html><body><article>
<h2>Ingredients</h2><ul><li>flour</li></ul>
<h3>Instructions</h3><ol><li>bake</li></ol>
</article></body></html>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)

	cfg := SectionConfig{
		Keywords:             []string{"ingredient", "instruction"},
		ListBonusMinCount:    2,
		HeadingBonusMinCount: 2,
		LengthBonusThreshold: 1000,
	}
	score := sectionConfidence(doc.Find("article"), cfg)
	assert.Equal(t, 50, score)
}

func TestStripNoiseRemovesClassIDAndDataAttributes(t *testing.T) {
	// Arrange
	page := `<html><body><article class="recipe" id="main" data-tracking="x" onclick="x()" style="color:red">
<p class="body-text">content</p>
</article></body></html>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)
	article := doc.Find("article")

	// Act
	stripNoise(article)
	out, err := goquery.OuterHtml(article)
	require.NoError(t, err)

	// Assert
	assert.NotContains(t, out, "class=")
	assert.NotContains(t, out, "id=")
	assert.NotContains(t, out, "data-tracking")
	assert.NotContains(t, out, "onclick")
	assert.NotContains(t, out, "style=")
}

func TestIsRecipeType(t *testing.T) {
	assert.True(t, isRecipeType("Recipe"))
	assert.True(t, isRecipeType([]interface{}{"Thing", "Recipe"}))
	assert.False(t, isRecipeType("Article"))
	assert.False(t, isRecipeType(nil))
}
