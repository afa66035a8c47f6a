// Package cleanup implements the HTML Cleanup Engine (§4.2): an ordered
// cascade of pure strategies that shrink arbitrary recipe-page HTML down
// to the smallest fragment that still carries the recipe signal.
package cleanup

// StructuredConfig configures the structured-data (JSON-LD) strategy.
type StructuredConfig struct {
	Enabled         bool
	MinCompleteness int // 0-100, §4.2 scoring
}

// SectionConfig configures the section-based extraction strategy. The
// thresholds mirror §4.2's additive scoring scheme: +10 per keyword
// match, +20 for ≥2 list descendants, +10 for ≥2 heading descendants,
// +10 for text length over the configured length bonus threshold.
type SectionConfig struct {
	Enabled              bool
	MinConfidence        int
	Keywords             []string
	ListBonusMinCount    int // descendant ul|ol count needed for the +20 bonus
	HeadingBonusMinCount int // descendant h2|h3 count needed for the +10 bonus
	LengthBonusThreshold int // text length, in runes, needed for the +10 bonus
}

// ContentFilterConfig configures the whole-document pruning strategy.
type ContentFilterConfig struct {
	MinOutputSize int
}

// FallbackConfig configures the final pass-through strategy.
type FallbackConfig struct {
	MinSafeSize int // used only to flag under-sized input in Result.Message
}

// Config is the enumerated configuration surface of §4.2/§6.5.
type Config struct {
	Enabled       bool
	Structured    StructuredConfig
	Section       SectionConfig
	ContentFilter ContentFilterConfig
	Fallback      FallbackConfig
}

// DefaultConfig mirrors the thresholds implied by §4.2's worked example
// (keyword set drawn from common recipe-page vocabulary).
func DefaultConfig() Config {
	return Config{
		Enabled: true,
		Structured: StructuredConfig{
			Enabled:         true,
			MinCompleteness: 50,
		},
		Section: SectionConfig{
			Enabled:       true,
			MinConfidence: 30,
			Keywords: []string{
				"ingredient", "ingredients", "instruction", "instructions",
				"direction", "directions", "recipe", "method", "steps",
				"prep time", "cook time", "servings", "yield",
			},
			ListBonusMinCount:    2,
			HeadingBonusMinCount: 2,
			LengthBonusThreshold: 1000,
		},
		ContentFilter: ContentFilterConfig{
			MinOutputSize: 200,
		},
		Fallback: FallbackConfig{
			MinSafeSize: 500,
		},
	}
}
