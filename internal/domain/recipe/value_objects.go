package recipe

import (
	"errors"
	"regexp"
)

// Value objects — plain, publicly-fielded structs per the component's
// record shape. Unlike the aggregate root, these carry no invariants
// beyond what Validate() checks; they are never mutated after a Recipe
// is constructed.

var durationPattern = regexp.MustCompile(`^(\d+d\s*)?(\d+h\s*)?(\d+m)?$`)

// ValidDuration reports whether s matches the duration-string grammar,
// case-insensitively, with optional whitespace between unit groups.
func ValidDuration(s string) bool {
	if s == "" {
		return true
	}
	return durationPattern.MatchString(toLowerASCII(s))
}

func toLowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// Substitution is an alternative for an Ingredient.
type Substitution struct {
	Item   string
	Amount string
	Unit   string
	Notes  string
	Ratio  string
}

func (s Substitution) Validate() error {
	if s.Item == "" {
		return errors.New("substitution item is required")
	}
	return nil
}

// Ingredient is one entry in a Recipe's ingredient list.
type Ingredient struct {
	Item          string
	Amount        string
	Unit          string
	Notes         string
	Optional      bool
	Substitutions []Substitution
	Component     string // default "main"
}

func (i Ingredient) Validate() error {
	if i.Item == "" {
		return errors.New("ingredient item is required")
	}
	for _, s := range i.Substitutions {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Instruction is one step of the recipe method. Step must equal its
// 1-based position within the owning Recipe's Instructions slice.
type Instruction struct {
	Step        int
	Description string
	Time        string
	Temperature string
	Media       []Media
}

func (i Instruction) Validate() error {
	if i.Step < 1 {
		return errors.New("instruction step must be >= 1")
	}
	if i.Description == "" {
		return errors.New("instruction description is required")
	}
	if !ValidDuration(i.Time) {
		return errors.New("instruction time does not match duration grammar")
	}
	for _, m := range i.Media {
		if err := m.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// MediaType discriminates the Media tagged variant on the wire.
type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
)

var durationMMSSPattern = regexp.MustCompile(`^\d{1,2}:\d{2}$`)

// Media is the polymorphic {Image, Video} variant of §3/§9: a tagged
// union discriminated by Type, not an open class hierarchy.
type Media struct {
	Type MediaType

	// Image fields
	Path string
	Alt  string

	// Video fields (Path is shared with Image)
	Thumbnail string
	Duration  string
}

func NewImageMedia(path, alt string) Media {
	return Media{Type: MediaTypeImage, Path: path, Alt: alt}
}

func NewVideoMedia(path, thumbnail, duration string) Media {
	return Media{Type: MediaTypeVideo, Path: path, Thumbnail: thumbnail, Duration: duration}
}

func (m Media) Validate() error {
	switch m.Type {
	case MediaTypeImage:
		if m.Path == "" {
			return errors.New("image media requires a path")
		}
	case MediaTypeVideo:
		if m.Path == "" {
			return errors.New("video media requires a path")
		}
		if m.Duration != "" && !durationMMSSPattern.MatchString(m.Duration) {
			return errors.New("video duration must match MM:SS")
		}
	case "":
		return errors.New("media type discriminator is required")
	default:
		return errors.New("unknown media type: " + string(m.Type))
	}
	return nil
}

// CoverImage is the metadata's single cover image (not part of the
// Media tagged variant — it carries no duration/thumbnail).
type CoverImage struct {
	Path string
	Alt  string
}

func (c CoverImage) Validate() error {
	if c.Path == "" {
		return errors.New("cover image requires a path")
	}
	return nil
}

// Difficulty enumerates RecipeMetadata.Difficulty.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func ValidDifficulty(d string) bool {
	switch Difficulty(d) {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	default:
		return false
	}
}

// RecipeMetadata carries the descriptive, non-content fields of a Recipe.
type RecipeMetadata struct {
	Title       string
	Source      string
	Author      string
	Language    string // default "en"
	DateCreated *Date
	Category    []string
	Tags        []string
	Servings    *int
	PrepTime    string
	CookTime    string
	TotalTime   string
	Difficulty  string // default "medium"
	CoverImage  *CoverImage
}

func (m RecipeMetadata) Validate() error {
	if m.Title == "" {
		return errors.New("metadata title is required")
	}
	if m.Servings != nil && *m.Servings < 1 {
		return errors.New("metadata servings must be >= 1 when present")
	}
	if !ValidDuration(m.PrepTime) || !ValidDuration(m.CookTime) || !ValidDuration(m.TotalTime) {
		return errors.New("metadata duration fields must match duration grammar")
	}
	if m.Difficulty != "" && !ValidDifficulty(m.Difficulty) {
		return errors.New("metadata difficulty must be one of easy, medium, hard")
	}
	if m.CoverImage != nil {
		if err := m.CoverImage.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Nutrition is the optional nutrition facts block.
type Nutrition struct {
	ServingSize   string
	Calories      *int
	Protein       *float64
	Carbohydrates *float64
	Fat           *float64
	Fiber         *float64
	Sugar         *float64
	Sodium        *float64
	Notes         string
}

func (n Nutrition) Validate() error {
	if n.Calories != nil && *n.Calories < 0 {
		return errors.New("nutrition calories must be >= 0")
	}
	for _, v := range []*float64{n.Protein, n.Carbohydrates, n.Fat, n.Fiber, n.Sugar, n.Sodium} {
		if v != nil && *v < 0 {
			return errors.New("nutrition values must be >= 0")
		}
	}
	return nil
}

// Storage carries freeform keep/store guidance.
type Storage struct {
	Refrigerator    string
	Freezer         string
	RoomTemperature string
}
