// Package tracing installs the process-wide OpenTelemetry tracer
// provider, narrowed from the teacher's OpenTelemetryProvider
// (internal/infrastructure/monitoring/opentelemetry.go) down to the
// one thing this build needs: a sampled, in-process TracerProvider for
// the HTTP surface's per-request spans. The teacher's Jaeger/OTLP
// exporter registration is dropped since this deployment has no
// collector endpoint configured; wiring one in is a one-line
// sdktrace.WithBatcher(exporter) away once it does.
package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.20.0"

	"github.com/alchemorsel/cookbook/internal/infrastructure/config"
)

// NewProvider builds a TracerProvider sampling at cfg.Tracing.SamplingRatio
// and installs it as the global provider, mirroring the teacher's
// "initialize once at startup, fetch via otel.Tracer(name) everywhere
// else" idiom.
func NewProvider(cfg *config.Config) (*sdktrace.TracerProvider, error) {
	if !cfg.Tracing.Enabled {
		provider := sdktrace.NewTracerProvider(sdktrace.WithSampler(sdktrace.NeverSample()))
		otel.SetTracerProvider(provider)
		return provider, nil
	}

	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(cfg.App.Name),
			semconv.DeploymentEnvironment(cfg.App.Environment),
		),
		resource.WithProcess(),
		resource.WithHost(),
	)
	if err != nil {
		return nil, err
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.Tracing.SamplingRatio))),
	)
	otel.SetTracerProvider(provider)
	return provider, nil
}

// Shutdown flushes and stops the provider, same OnStop role as the
// teacher's OpenTelemetryProvider.Shutdown.
func Shutdown(ctx context.Context, provider *sdktrace.TracerProvider) error {
	return provider.Shutdown(ctx)
}
