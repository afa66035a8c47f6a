package recipe

import "errors"

// Domain errors for recipe construction. SchemaViolations raised by the
// codec (internal/application/codec) carry field path + reason and are
// reported separately via pkg/errors; these are the plain sentinel
// errors NewRecipe itself can return.

var (
	ErrNoMetadata        = errors.New("recipe metadata is required")
	ErrBlankTitle        = errors.New("recipe metadata title must not be blank")
	ErrNoIngredients     = errors.New("recipe must have at least one ingredient when is_recipe=true")
	ErrNoInstructions    = errors.New("recipe must have at least one instruction when is_recipe=true")
	ErrStepGap           = errors.New("instruction steps must form 1..N without gaps")
	ErrBadSchemaVersion  = errors.New("schema_version must match MAJOR.MINOR.PATCH")
	ErrBadRecipeVersion  = errors.New("recipe_version must match MAJOR.MINOR.PATCH")
)
