package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaultsWithNoConfigFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "cookbook-extractor", cfg.App.Name)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, 1, cfg.LLM.RetryBudget)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, "cookbook", cfg.FileStore.DefaultFolderName)
}

func TestValidateRejectsUnknownLLMProvider(t *testing.T) {
	cfg := Config{App: AppConfig{Name: "x"}, LLM: LLMConfig{Provider: "anthropic"}}
	err := cfg.Validate()
	assert.Error(t, err)
}

func TestValidateRequiresS3BucketWhenBackendIsS3(t *testing.T) {
	cfg := Config{
		App:       AppConfig{Name: "x"},
		LLM:       LLMConfig{Provider: "local"},
		FileStore: FileStoreConfig{Backend: "s3"},
	}
	err := cfg.Validate()
	assert.Error(t, err)
}

func TestValidateRequiresAPIKeyInProduction(t *testing.T) {
	cfg := Config{
		App: AppConfig{Name: "x", Environment: "production"},
		LLM: LLMConfig{Provider: "openai"},
	}
	err := cfg.Validate()
	assert.Error(t, err)
}

func TestValidateRejectsSamplingRatioOutOfRange(t *testing.T) {
	cfg := Config{
		App:     AppConfig{Name: "x"},
		LLM:     LLMConfig{Provider: "openai", APIKey: "key"},
		Tracing: TracingConfig{SamplingRatio: 1.5},
	}
	err := cfg.Validate()
	assert.Error(t, err)
}
