package codec

// Wire types mirror the YAML shape of §3 one-for-one, with explicit
// `yaml` tags controlling key names and ordering (declaration order,
// per §4.1 "stable key ordering per record type").

type wireRecipe struct {
	IsRecipe      bool               `yaml:"is_recipe"`
	SchemaVersion string             `yaml:"schema_version"`
	RecipeVersion string             `yaml:"recipe_version"`
	Metadata      wireMetadata       `yaml:"metadata"`
	Description   string             `yaml:"description"`
	Ingredients   []wireIngredient   `yaml:"ingredients" validate:"dive"`
	Equipment     []string           `yaml:"equipment"`
	Instructions  []wireInstruction  `yaml:"instructions" validate:"dive"`
	Nutrition     *wireNutrition     `yaml:"nutrition"`
	Notes         string             `yaml:"notes"`
	Storage       *wireStorage       `yaml:"storage"`
}

type wireCoverImage struct {
	Path string `yaml:"path"`
	Alt  string `yaml:"alt"`
}

type wireMetadata struct {
	Title       string          `yaml:"title" validate:"required"`
	Source      string          `yaml:"source"`
	Author      string          `yaml:"author"`
	Language    string          `yaml:"language"`
	DateCreated string          `yaml:"date_created"`
	Category    []string        `yaml:"category"`
	Tags        []string        `yaml:"tags"`
	Servings    *int            `yaml:"servings" validate:"omitempty,gte=1"`
	PrepTime    string          `yaml:"prep_time"`
	CookTime    string          `yaml:"cook_time"`
	TotalTime   string          `yaml:"total_time"`
	Difficulty  string          `yaml:"difficulty"`
	CoverImage  *wireCoverImage `yaml:"cover_image"`
}

type wireSubstitution struct {
	Item   string `yaml:"item" validate:"required"`
	Amount string `yaml:"amount"`
	Unit   string `yaml:"unit"`
	Notes  string `yaml:"notes"`
	Ratio  string `yaml:"ratio"`
}

type wireIngredient struct {
	Item          string             `yaml:"item" validate:"required"`
	Amount        string             `yaml:"amount"`
	Unit          string             `yaml:"unit"`
	Notes         string             `yaml:"notes"`
	Optional      bool               `yaml:"optional"`
	Substitutions []wireSubstitution `yaml:"substitutions" validate:"dive"`
	Component     string             `yaml:"component"`
}

type wireMedia struct {
	Type      string `yaml:"type"`
	Path      string `yaml:"path"`
	Alt       string `yaml:"alt,omitempty"`
	Thumbnail string `yaml:"thumbnail,omitempty"`
	Duration  string `yaml:"duration,omitempty"`
}

type wireInstruction struct {
	Step        int         `yaml:"step" validate:"gte=1"`
	Description string      `yaml:"description" validate:"required"`
	Time        string      `yaml:"time"`
	Temperature string      `yaml:"temperature"`
	Media       []wireMedia `yaml:"media"`
}

type wireNutrition struct {
	ServingSize   string   `yaml:"serving_size"`
	Calories      *int     `yaml:"calories" validate:"omitempty,gte=0"`
	Protein       *float64 `yaml:"protein" validate:"omitempty,gte=0"`
	Carbohydrates *float64 `yaml:"carbohydrates" validate:"omitempty,gte=0"`
	Fat           *float64 `yaml:"fat" validate:"omitempty,gte=0"`
	Fiber         *float64 `yaml:"fiber" validate:"omitempty,gte=0"`
	Sugar         *float64 `yaml:"sugar" validate:"omitempty,gte=0"`
	Sodium        *float64 `yaml:"sodium" validate:"omitempty,gte=0"`
	Notes         string   `yaml:"notes"`
}

type wireStorage struct {
	Refrigerator    string `yaml:"refrigerator"`
	Freezer         string `yaml:"freezer"`
	RoomTemperature string `yaml:"room_temperature"`
}
