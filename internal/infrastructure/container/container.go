// Package container provides dependency injection using Uber FX,
// narrowed from the teacher's database/repository/event-bus wiring down
// to the extraction pipeline's own collaborators: cleanup engine, LLM
// orchestrator, cache store, single-flight coordinator, file store, and
// the HTTP surface that drives them.
package container

import (
	"context"
	"encoding/hex"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/alchemorsel/cookbook/internal/application/cleanup"
	"github.com/alchemorsel/cookbook/internal/application/extraction"
	"github.com/alchemorsel/cookbook/internal/application/llm"
	"github.com/alchemorsel/cookbook/internal/infrastructure/ai"
	"github.com/alchemorsel/cookbook/internal/infrastructure/ai/local"
	"github.com/alchemorsel/cookbook/internal/infrastructure/ai/openai"
	"github.com/alchemorsel/cookbook/internal/infrastructure/cache"
	"github.com/alchemorsel/cookbook/internal/infrastructure/config"
	"github.com/alchemorsel/cookbook/internal/infrastructure/fetch"
	"github.com/alchemorsel/cookbook/internal/infrastructure/filestore"
	cookbookhttp "github.com/alchemorsel/cookbook/internal/infrastructure/http"
	"github.com/alchemorsel/cookbook/internal/infrastructure/monitoring"
	"github.com/alchemorsel/cookbook/internal/infrastructure/security"
	"github.com/alchemorsel/cookbook/internal/infrastructure/tracing"
	"github.com/alchemorsel/cookbook/internal/ports/inbound"
	"github.com/alchemorsel/cookbook/internal/ports/outbound"
	"github.com/alchemorsel/cookbook/pkg/logger"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Module aggregates every provider this service needs, same grouping
// idiom as the teacher's fx.Options(ConfigModule, LoggerModule, ...).
var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	TracingModule,
	CleanupModule,
	LLMModule,
	CacheModule,
	FileStoreModule,
	SecurityModule,
	FetchModule,
	CoordinatorModule,
	HTTPModule,
	LifecycleModule,
)

var ConfigModule = fx.Provide(
	func() (*config.Config, error) {
		return config.Load("")
	},
)

var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, error) {
		return logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Environment != "production",
		})
	},
)

// TracingModule installs the process-wide OpenTelemetry TracerProvider
// consumed by the HTTP surface's tracing() middleware, stopping it
// cleanly on shutdown the same way LifecycleModule stops the server.
var TracingModule = fx.Provide(tracing.NewProvider)

var CleanupModule = fx.Provide(
	func(cfg *config.Config) cleanup.Config {
		return cleanup.Config{
			Enabled: cfg.Cleanup.Enabled,
			Structured: cleanup.StructuredConfig{
				Enabled:         cfg.Cleanup.Structured.Enabled,
				MinCompleteness: cfg.Cleanup.Structured.MinCompleteness,
			},
			Section: cleanup.SectionConfig{
				Enabled:              cfg.Cleanup.Section.Enabled,
				MinConfidence:        cfg.Cleanup.Section.MinConfidence,
				Keywords:             cfg.Cleanup.Section.Keywords,
				ListBonusMinCount:    cfg.Cleanup.Section.ListBonusMinCount,
				HeadingBonusMinCount: cfg.Cleanup.Section.HeadingBonusMinCount,
				LengthBonusThreshold: cfg.Cleanup.Section.LengthBonusThreshold,
			},
			ContentFilter: cleanup.ContentFilterConfig{
				MinOutputSize: cfg.Cleanup.ContentFilter.MinOutputSize,
			},
			Fallback: cleanup.FallbackConfig{
				MinSafeSize: cfg.Cleanup.Fallback.MinSafeSize,
			},
		}
	},
	func() cleanup.Counters {
		return monitoring.NewCleanupMetrics()
	},
	func(log *zap.Logger, counters cleanup.Counters) *cleanup.Engine {
		return cleanup.NewEngine(log, counters)
	},
)

// LLMModule wires the one outbound.GenerativeModel selected by
// llm.provider (§6.5) behind the Orchestrator (§4.4).
var LLMModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger, cipher outbound.Cipher) (outbound.GenerativeModel, error) {
		apiKey, err := resolveAPIKey(cfg, cipher)
		if err != nil {
			return nil, err
		}
		switch cfg.LLM.Provider {
		case "local":
			return local.NewClient(local.Config{
				BaseURL: cfg.LLM.BaseURL,
				Model:   cfg.LLM.Model,
			}, log), nil
		default:
			return openai.NewClient(openai.Config{
				BaseURL: cfg.LLM.BaseURL,
				APIKey:  apiKey,
				Model:   cfg.LLM.Model,
			}, log), nil
		}
	},
	func(cfg *config.Config) llm.Config {
		return llm.Config{
			Temperature:          cfg.LLM.Temperature,
			TopP:                 cfg.LLM.TopP,
			MaxOutputTokens:      cfg.LLM.MaxOutputTokens,
			RetryBudget:          cfg.LLM.RetryBudget,
			InputTokenRateCents:  cfg.LLM.InputTokenRateCents,
			OutputTokenRateCents: cfg.LLM.OutputTokenRateCents,
		}
	},
	llm.NewOrchestrator,
	func(cfg *config.Config, log *zap.Logger) *ai.HealthChecker {
		return ai.NewHealthChecker(cfg.LLM.BaseURL, log)
	},
)

// resolveAPIKey prefers the plaintext llm.api_key for local development
// and falls back to decrypting llm.api_key_encrypted_hex through the
// at-rest Cipher (§1) — the credential-at-rest case SPEC_FULL's Cipher
// module exists to serve.
func resolveAPIKey(cfg *config.Config, cipher outbound.Cipher) (string, error) {
	if cfg.LLM.APIKey != "" {
		return cfg.LLM.APIKey, nil
	}
	if cfg.LLM.APIKeyEncryptedHex == "" {
		return "", nil
	}
	sealed, err := hex.DecodeString(cfg.LLM.APIKeyEncryptedHex)
	if err != nil {
		return "", fmt.Errorf("container: invalid llm.api_key_encrypted_hex: %w", err)
	}
	plain, err := cipher.Decrypt(sealed)
	if err != nil {
		return "", fmt.Errorf("container: failed to decrypt llm.api_key_encrypted_hex: %w", err)
	}
	return string(plain), nil
}

// CacheModule wires the Redis-backed outbound.CacheStore plus the
// process-wide single-flight coordinator that serializes duplicate
// in-flight fingerprints (§4.3, §5).
var CacheModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) *cache.RedisClient {
		return cache.NewRedisClient(cache.Config{
			Addr:          cfg.Redis.Addr,
			Password:      cfg.Redis.Password,
			Database:      cfg.Redis.Database,
			PoolSize:      cfg.Redis.PoolSize,
			LookupTimeout: cfg.Cache.LookupTimeout,
			SaveTimeout:   cfg.Cache.SaveTimeout,
			EntryTTL:      cfg.Cache.EntryTTL,
		}, log)
	},
	func(redis *cache.RedisClient, cfg *config.Config) outbound.CacheStore {
		return cache.NewStore(redis, cfg.Cache.EntryTTL)
	},
	func() *cache.Coordinator {
		return cache.NewCoordinator()
	},
)

// FileStoreModule wires outbound.FileStore to either the S3 or
// in-memory backend per §6.5's filestore.backend option.
var FileStoreModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) (outbound.FileStore, error) {
		if cfg.FileStore.Backend == "s3" {
			return filestore.NewS3Store(filestore.Config{
				Bucket: cfg.FileStore.S3Bucket,
				Region: cfg.FileStore.S3Region,
			}, log)
		}
		return filestore.NewMemoryStore(), nil
	},
)

// SecurityModule wires the external-identity token verifier and the
// at-rest cipher (§1, §6.5 auth.*).
var SecurityModule = fx.Provide(
	func(cfg *config.Config) (outbound.TokenVerifier, error) {
		return security.NewTokenVerifier([]byte(cfg.Auth.JWTPublicKeyPEM))
	},
	func(cfg *config.Config) (outbound.Cipher, error) {
		keyMaterial, err := hex.DecodeString(cfg.Auth.CipherKeyHex)
		if err != nil {
			return nil, fmt.Errorf("container: invalid auth.cipher_key_hex: %w", err)
		}
		return security.NewAESGCMCipher(keyMaterial)
	},
)

var FetchModule = fx.Provide(
	func() outbound.HTMLFetcher {
		return fetch.NewClient()
	},
)

var CoordinatorModule = fx.Provide(
	func(cfg *config.Config) extraction.Config {
		ec := extraction.DefaultConfig()
		ec.CacheEnabled = cfg.Cache.Enabled
		ec.LookupTimeout = cfg.Cache.LookupTimeout
		ec.SaveTimeout = cfg.Cache.SaveTimeout
		ec.DefaultFolderName = cfg.FileStore.DefaultFolderName
		return ec
	},
	fx.Annotate(
		extraction.NewCoordinator,
		fx.As(new(inbound.RecipeExtractionService)),
	),
)

var HTTPModule = fx.Provide(cookbookhttp.NewServer)

var LifecycleModule = fx.Invoke(RegisterLifecycleHooks)

// RegisterLifecycleHooks starts and stops the HTTP server on the fx
// lifecycle, same OnStart/OnStop shape as the teacher's
// RegisterLifecycleHooks.
func RegisterLifecycleHooks(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger, server *cookbookhttp.Server, tracerProvider *sdktrace.TracerProvider) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			log.Info("starting cookbook extractor", zap.String("environment", cfg.App.Environment))
			go func() {
				if err := server.Start(); err != nil {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down cookbook extractor")
			if err := server.Shutdown(ctx); err != nil {
				log.Error("http server shutdown failed", zap.Error(err))
			}
			if err := tracing.Shutdown(ctx, tracerProvider); err != nil {
				log.Error("tracer provider shutdown failed", zap.Error(err))
			}
			_ = log.Sync()
			return nil
		},
	})
}
