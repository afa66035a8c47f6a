// Package prompts embeds the fixed assets used to assemble the LLM
// orchestrator's prompt (§4.4): the system instruction, an exemplar
// serialized recipe, and the JSON schema the model must conform to.
package prompts

import _ "embed"

//go:embed system_instruction.txt
var SystemInstruction string

//go:embed exemplar_recipe.yaml
var ExemplarRecipe string

//go:embed recipe_schema.json
var RecipeSchema string
