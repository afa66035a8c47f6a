package codec

import (
	"fmt"

	"github.com/alchemorsel/cookbook/internal/domain/recipe"
	apperrors "github.com/alchemorsel/cookbook/pkg/errors"
)

func toWire(r *recipe.Recipe) wireRecipe {
	f := r.ToFields()
	w := wireRecipe{
		IsRecipe:      f.IsRecipe,
		SchemaVersion: f.SchemaVersion,
		RecipeVersion: f.RecipeVersion,
		Metadata:      metadataToWire(f.Metadata),
		Description:   f.Description,
		Equipment:     f.Equipment,
		Notes:         f.Notes,
	}
	for _, ing := range f.Ingredients {
		w.Ingredients = append(w.Ingredients, ingredientToWire(ing))
	}
	for _, step := range f.Instructions {
		w.Instructions = append(w.Instructions, instructionToWire(step))
	}
	if f.Nutrition != nil {
		n := nutritionToWire(*f.Nutrition)
		w.Nutrition = &n
	}
	if f.Storage != nil {
		s := wireStorage(*f.Storage)
		w.Storage = &s
	}
	return w
}

func metadataToWire(m recipe.RecipeMetadata) wireMetadata {
	w := wireMetadata{
		Title:      m.Title,
		Source:     m.Source,
		Author:     m.Author,
		Language:   m.Language,
		Category:   m.Category,
		Tags:       m.Tags,
		Servings:   m.Servings,
		PrepTime:   m.PrepTime,
		CookTime:   m.CookTime,
		TotalTime:  m.TotalTime,
		Difficulty: m.Difficulty,
	}
	if m.DateCreated != nil {
		w.DateCreated = m.DateCreated.String()
	}
	if m.CoverImage != nil {
		w.CoverImage = &wireCoverImage{Path: m.CoverImage.Path, Alt: m.CoverImage.Alt}
	}
	return w
}

func ingredientToWire(i recipe.Ingredient) wireIngredient {
	w := wireIngredient{
		Item:      i.Item,
		Amount:    i.Amount,
		Unit:      i.Unit,
		Notes:     i.Notes,
		Optional:  i.Optional,
		Component: i.Component,
	}
	for _, s := range i.Substitutions {
		w.Substitutions = append(w.Substitutions, wireSubstitution(s))
	}
	return w
}

func instructionToWire(i recipe.Instruction) wireInstruction {
	w := wireInstruction{
		Step:        i.Step,
		Description: i.Description,
		Time:        i.Time,
		Temperature: i.Temperature,
	}
	for _, m := range i.Media {
		w.Media = append(w.Media, mediaToWire(m))
	}
	return w
}

func mediaToWire(m recipe.Media) wireMedia {
	w := wireMedia{Type: string(m.Type), Path: m.Path}
	switch m.Type {
	case recipe.MediaTypeImage:
		w.Alt = m.Alt
	case recipe.MediaTypeVideo:
		w.Thumbnail = m.Thumbnail
		w.Duration = m.Duration
	}
	return w
}

func nutritionToWire(n recipe.Nutrition) wireNutrition {
	return wireNutrition{
		ServingSize:   n.ServingSize,
		Calories:      n.Calories,
		Protein:       n.Protein,
		Carbohydrates: n.Carbohydrates,
		Fat:           n.Fat,
		Fiber:         n.Fiber,
		Sugar:         n.Sugar,
		Sodium:        n.Sodium,
		Notes:         n.Notes,
	}
}

// fromWire maps the parsed wire shape onto domain Fields and constructs
// a Recipe via NewRecipe, which re-runs the §3 invariants.
func fromWire(w wireRecipe) (*recipe.Recipe, *apperrors.AppError) {
	meta, err := metadataFromWire(w.Metadata)
	if err != nil {
		return nil, err
	}

	fields := recipe.Fields{
		IsRecipe:      w.IsRecipe,
		SchemaVersion: w.SchemaVersion,
		RecipeVersion: w.RecipeVersion,
		Metadata:      meta,
		Description:   w.Description,
		Equipment:     w.Equipment,
		Notes:         w.Notes,
	}
	for _, wi := range w.Ingredients {
		fields.Ingredients = append(fields.Ingredients, ingredientFromWire(wi))
	}
	for idx, wi := range w.Instructions {
		inst, err := instructionFromWire(wi, idx)
		if err != nil {
			return nil, err
		}
		fields.Instructions = append(fields.Instructions, inst)
	}
	if w.Nutrition != nil {
		n := nutritionFromWire(*w.Nutrition)
		fields.Nutrition = &n
	}
	if w.Storage != nil {
		s := recipe.Storage(*w.Storage)
		fields.Storage = &s
	}

	r, cerr := recipe.NewRecipe(fields)
	if cerr != nil {
		return nil, apperrors.NewSchemaViolationError("", cerr.Error())
	}
	return r, nil
}

func metadataFromWire(w wireMetadata) (recipe.RecipeMetadata, *apperrors.AppError) {
	meta := recipe.RecipeMetadata{
		Title:      w.Title,
		Source:     w.Source,
		Author:     w.Author,
		Language:   w.Language,
		Category:   w.Category,
		Tags:       w.Tags,
		Servings:   w.Servings,
		PrepTime:   w.PrepTime,
		CookTime:   w.CookTime,
		TotalTime:  w.TotalTime,
		Difficulty: w.Difficulty,
	}
	if w.DateCreated != "" {
		d, perr := recipe.ParseDate(w.DateCreated)
		if perr != nil {
			return meta, apperrors.NewSchemaViolationError("metadata.date_created", "must match YYYY-MM-DD")
		}
		meta.DateCreated = &d
	}
	if w.CoverImage != nil {
		meta.CoverImage = &recipe.CoverImage{Path: w.CoverImage.Path, Alt: w.CoverImage.Alt}
	}
	return meta, nil
}

func ingredientFromWire(w wireIngredient) recipe.Ingredient {
	ing := recipe.Ingredient{
		Item:      w.Item,
		Amount:    w.Amount,
		Unit:      w.Unit,
		Notes:     w.Notes,
		Optional:  w.Optional,
		Component: w.Component,
	}
	for _, s := range w.Substitutions {
		ing.Substitutions = append(ing.Substitutions, recipe.Substitution(s))
	}
	return ing
}

func instructionFromWire(w wireInstruction, idx int) (recipe.Instruction, *apperrors.AppError) {
	inst := recipe.Instruction{
		Step:        w.Step,
		Description: w.Description,
		Time:        w.Time,
		Temperature: w.Temperature,
	}
	for _, wm := range w.Media {
		m, err := mediaFromWire(wm, idx)
		if err != nil {
			return inst, err
		}
		inst.Media = append(inst.Media, m)
	}
	return inst, nil
}

// mediaFromWire enforces §4.1's parsing contract: "read the type property
// first; reject if absent or unknown."
func mediaFromWire(w wireMedia, stepIdx int) (recipe.Media, *apperrors.AppError) {
	path := fmt.Sprintf("instructions[%d].media", stepIdx)
	switch recipe.MediaType(w.Type) {
	case recipe.MediaTypeImage:
		return recipe.NewImageMedia(w.Path, w.Alt), nil
	case recipe.MediaTypeVideo:
		return recipe.NewVideoMedia(w.Path, w.Thumbnail, w.Duration), nil
	case "":
		return recipe.Media{}, apperrors.NewSchemaViolationError(path+".type", "missing media type discriminator")
	default:
		return recipe.Media{}, apperrors.NewSchemaViolationError(path+".type", "unknown media type: "+w.Type)
	}
}

func nutritionFromWire(w wireNutrition) recipe.Nutrition {
	return recipe.Nutrition{
		ServingSize:   w.ServingSize,
		Calories:      w.Calories,
		Protein:       w.Protein,
		Carbohydrates: w.Carbohydrates,
		Fat:           w.Fat,
		Fiber:         w.Fiber,
		Sugar:         w.Sugar,
		Sodium:        w.Sodium,
		Notes:         w.Notes,
	}
}
