package llm

// Config is the enumerated generation surface of §6.5's llm.* options.
type Config struct {
	Temperature     float64
	TopP            float64
	MaxOutputTokens int
	RetryBudget     int // max validation-driven retries per request; default 1

	// InputTokenRateCents/OutputTokenRateCents price a debug-only cost
	// estimate, narrowed from the teacher's ProviderRates
	// (internal/application/ai/cost_tracker.go) down to the two numbers
	// this build actually needs — nothing here is billed.
	InputTokenRateCents  float64
	OutputTokenRateCents float64
}

// DefaultConfig mirrors §4.4/§6.5's stated defaults.
func DefaultConfig() Config {
	return Config{
		Temperature:           0.2,
		TopP:                  1.0,
		MaxOutputTokens:       2048,
		RetryBudget:           1,
		InputTokenRateCents:   0.000015,
		OutputTokenRateCents:  0.00006,
	}
}
