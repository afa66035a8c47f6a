package llm

import (
	"fmt"

	"github.com/alchemorsel/cookbook/prompts"
)

// buildPromptParts assembles the ordered concatenation described by
// §4.4: system instruction, exemplar, schema, cleaned fragment, and —
// on retry — the prior violation messages.
func buildPromptParts(cleanedHTML, sourceURL string, violations []string) []string {
	parts := []string{
		prompts.SystemInstruction,
		"Exemplar of a valid response:\n" + prompts.ExemplarRecipe,
		"JSON schema the response must conform to:\n" + prompts.RecipeSchema,
		fmt.Sprintf("Source URL: %s\n\nPage content:\n%s", sourceURL, cleanedHTML),
	}
	if len(violations) > 0 {
		feedback := "The previous response failed validation with these errors:\n"
		for _, v := range violations {
			feedback += "- " + v + "\n"
		}
		feedback += "Correct the response and reply again with ONLY the JSON object."
		parts = append(parts, feedback)
	}
	return parts
}
