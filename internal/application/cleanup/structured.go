package cleanup

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// StructuredDataStrategy implements §4.2 strategy 1: locate JSON-LD
// blocks, walk @graph arrays, score any Recipe-typed entry, and emit
// its serialized JSON when the score clears the configured threshold.
//
// Grounded on the schema.org JSON-LD walk used by recipe scrapers that
// prefer structured data over HTML heuristics whenever it's present.
func StructuredDataStrategy(html string, cfg Config) (string, bool) {
	if !cfg.Structured.Enabled {
		return "", false
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", false
	}

	var best map[string]interface{}
	bestScore := -1

	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, sel *goquery.Selection) {
		for _, candidate := range extractRecipeCandidates(sel.Text()) {
			score := scoreCompleteness(candidate)
			if score > bestScore {
				bestScore = score
				best = candidate
			}
		}
	})

	if best == nil || bestScore < cfg.Structured.MinCompleteness {
		return "", false
	}

	out, err := json.Marshal(best)
	if err != nil {
		return "", false
	}
	return string(out), true
}

// extractRecipeCandidates parses one <script> block's text, which may be
// a single object, an array of objects, or an object with a @graph
// array, and returns every entry whose @type is or contains "Recipe".
func extractRecipeCandidates(raw string) []map[string]interface{} {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var asObject map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &asObject); err == nil {
		return filterRecipes(flattenGraph(asObject))
	}

	var asArray []interface{}
	if err := json.Unmarshal([]byte(raw), &asArray); err == nil {
		var out []map[string]interface{}
		for _, item := range asArray {
			if obj, ok := item.(map[string]interface{}); ok {
				out = append(out, filterRecipes(flattenGraph(obj))...)
			}
		}
		return out
	}

	return nil
}

// flattenGraph expands a JSON-LD @graph array into its member objects,
// or returns the object itself when it carries no @graph.
func flattenGraph(obj map[string]interface{}) []map[string]interface{} {
	graph, ok := obj["@graph"].([]interface{})
	if !ok {
		return []map[string]interface{}{obj}
	}
	var out []map[string]interface{}
	for _, item := range graph {
		if m, ok := item.(map[string]interface{}); ok {
			out = append(out, m)
		}
	}
	return out
}

func filterRecipes(candidates []map[string]interface{}) []map[string]interface{} {
	var out []map[string]interface{}
	for _, c := range candidates {
		if isRecipeType(c["@type"]) {
			out = append(out, c)
		}
	}
	return out
}

func isRecipeType(t interface{}) bool {
	switch v := t.(type) {
	case string:
		return strings.Contains(v, "Recipe")
	case []interface{}:
		for _, e := range v {
			if s, ok := e.(string); ok && strings.Contains(s, "Recipe") {
				return true
			}
		}
	}
	return false
}

// scoreCompleteness applies the §4.2 point scheme: 20 points each for
// name/recipeIngredient/recipeInstructions, 10 each for totalTime/
// recipeYield/description/image.
func scoreCompleteness(m map[string]interface{}) int {
	score := 0
	for _, key := range []string{"name", "recipeIngredient", "recipeInstructions"} {
		if hasNonEmpty(m, key) {
			score += 20
		}
	}
	for _, key := range []string{"totalTime", "recipeYield", "description", "image"} {
		if hasNonEmpty(m, key) {
			score += 10
		}
	}
	return score
}

func hasNonEmpty(m map[string]interface{}, key string) bool {
	v, ok := m[key]
	if !ok || v == nil {
		return false
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t) != ""
	case []interface{}:
		return len(t) > 0
	default:
		return true
	}
}
