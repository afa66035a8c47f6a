// Package recipe contains the core domain logic for the canonical
// recipe record: an immutable aggregate produced once by the
// extraction pipeline and never mutated afterward.
package recipe

import "regexp"

// CurrentSchemaVersion is the schema_version stamped onto every Recipe
// this build produces.
const CurrentSchemaVersion = "1.0.0"

var semverPattern = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

// ValidSemver reports whether s matches MAJOR.MINOR.PATCH (§3 Invariants).
func ValidSemver(s string) bool {
	return semverPattern.MatchString(s)
}

// Recipe is the aggregate root of the domain: a canonical, validated
// representation of an extracted recipe page. It has no mutation API —
// every field is fixed at construction (§3 Lifecycle & Ownership:
// "Recipe records are immutable once produced by the orchestrator").
type Recipe struct {
	isRecipe      bool
	schemaVersion string
	recipeVersion string
	metadata      RecipeMetadata
	description   string
	ingredients   []Ingredient
	equipment     []string
	instructions  []Instruction
	nutrition     *Nutrition
	notes         string
	storage       *Storage
}

// Fields groups the constructor arguments for NewRecipe; it mirrors the
// wire/YAML shape one-for-one so the codec can build it directly.
type Fields struct {
	IsRecipe      bool
	SchemaVersion string
	RecipeVersion string
	Metadata      RecipeMetadata
	Description   string
	Ingredients   []Ingredient
	Equipment     []string
	Instructions  []Instruction
	Nutrition     *Nutrition
	Notes         string
	Storage       *Storage
}

// NewRecipe validates f against the invariants of §3 and constructs an
// immutable Recipe. Used both by the codec (parsing persisted YAML) and
// the LLM orchestrator (mapping a model response).
func NewRecipe(f Fields) (*Recipe, error) {
	if f.SchemaVersion == "" {
		f.SchemaVersion = CurrentSchemaVersion
	}
	if !ValidSemver(f.SchemaVersion) {
		return nil, ErrBadSchemaVersion
	}
	if f.RecipeVersion != "" && !ValidSemver(f.RecipeVersion) {
		return nil, ErrBadRecipeVersion
	}
	if f.Metadata.Title == "" {
		return nil, ErrBlankTitle
	}
	if f.Metadata.Language == "" {
		f.Metadata.Language = "en"
	}
	if f.Metadata.Difficulty == "" {
		f.Metadata.Difficulty = string(DifficultyMedium)
	}
	if err := f.Metadata.Validate(); err != nil {
		return nil, err
	}

	if f.IsRecipe {
		if len(f.Ingredients) == 0 {
			return nil, ErrNoIngredients
		}
		if len(f.Instructions) == 0 {
			return nil, ErrNoInstructions
		}
	}
	for i := range f.Ingredients {
		if f.Ingredients[i].Component == "" {
			f.Ingredients[i].Component = "main"
		}
		if err := f.Ingredients[i].Validate(); err != nil {
			return nil, err
		}
	}
	for i, step := range f.Instructions {
		if step.Step != i+1 {
			return nil, ErrStepGap
		}
		if err := step.Validate(); err != nil {
			return nil, err
		}
	}
	if f.Nutrition != nil {
		if err := f.Nutrition.Validate(); err != nil {
			return nil, err
		}
	}

	return &Recipe{
		isRecipe:      f.IsRecipe,
		schemaVersion: f.SchemaVersion,
		recipeVersion: f.RecipeVersion,
		metadata:      f.Metadata,
		description:   f.Description,
		ingredients:   f.Ingredients,
		equipment:     f.Equipment,
		instructions:  f.Instructions,
		nutrition:     f.Nutrition,
		notes:         f.Notes,
		storage:       f.Storage,
	}, nil
}

func (r *Recipe) IsRecipe() bool              { return r.isRecipe }
func (r *Recipe) SchemaVersion() string       { return r.schemaVersion }
func (r *Recipe) RecipeVersion() string       { return r.recipeVersion }
func (r *Recipe) Metadata() RecipeMetadata    { return r.metadata }
func (r *Recipe) Description() string         { return r.description }
func (r *Recipe) Ingredients() []Ingredient   { return r.ingredients }
func (r *Recipe) Equipment() []string         { return r.equipment }
func (r *Recipe) Instructions() []Instruction { return r.instructions }
func (r *Recipe) Nutrition() *Nutrition       { return r.nutrition }
func (r *Recipe) Notes() string               { return r.notes }
func (r *Recipe) Storage() *Storage           { return r.storage }

// ToFields returns the constructor-shaped view of r, used by the codec
// when re-serializing (keeps the mapping to/from YAML symmetric).
func (r *Recipe) ToFields() Fields {
	return Fields{
		IsRecipe:      r.isRecipe,
		SchemaVersion: r.schemaVersion,
		RecipeVersion: r.recipeVersion,
		Metadata:      r.metadata,
		Description:   r.description,
		Ingredients:   r.ingredients,
		Equipment:     r.equipment,
		Instructions:  r.instructions,
		Nutrition:     r.nutrition,
		Notes:         r.notes,
		Storage:       r.storage,
	}
}
