package http

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/alchemorsel/cookbook/internal/ports/outbound"
	apperrors "github.com/alchemorsel/cookbook/pkg/errors"
)

// middlewares holds the shared collaborators for the handler chain,
// grounded on the teacher's Middleware struct
// (internal/infrastructure/http/middleware/middleware.go) but narrowed
// to the concerns this surface actually needs: request IDs, tracing,
// access logging, panic recovery, and taxonomy-to-status error mapping.
type middlewares struct {
	logger   *zap.Logger
	verifier outbound.TokenVerifier
	tracer   trace.Tracer
}

func newMiddleware(logger *zap.Logger, verifier outbound.TokenVerifier) *middlewares {
	return &middlewares{logger: logger, verifier: verifier, tracer: otel.Tracer("cookbook")}
}

func (m *middlewares) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// tracing starts a span per request, same shape as the teacher's
// Middleware.Tracing (internal/infrastructure/http/middleware/middleware.go)
// minus the jaeger/OTLP exporter wiring this build has no use for.
func (m *middlewares) tracing() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := m.tracer.Start(
			c.Request.Context(),
			fmt.Sprintf("%s %s", c.Request.Method, c.FullPath()),
			trace.WithAttributes(
				attribute.String("http.method", c.Request.Method),
				attribute.String("http.url", c.Request.URL.String()),
				attribute.String("request.id", c.GetString("request_id")),
			),
		)
		defer span.End()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		span.SetAttributes(
			attribute.Int("http.status_code", c.Writer.Status()),
			attribute.Int("http.response_size", c.Writer.Size()),
		)
	}
}

func (m *middlewares) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		fields := []zap.Field{
			zap.String("request_id", c.GetString("request_id")),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		switch {
		case c.Writer.Status() >= 500:
			m.logger.Error("request failed", fields...)
		case c.Writer.Status() >= 400:
			m.logger.Warn("request rejected", fields...)
		default:
			m.logger.Info("request handled", fields...)
		}
	}
}

func (m *middlewares) recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				m.logger.Error("panic recovered",
					zap.String("request_id", c.GetString("request_id")),
					zap.Any("panic", r),
				)
				c.Error(apperrors.NewInternalError("an unexpected error occurred"))
				c.Abort()
			}
		}()
		c.Next()
	}
}

// errorHandler converts the last gin.Error on the context into a JSON
// body shaped by apperrors.AppError.StatusCode, same idiom as the
// teacher's ErrorHandler.
func (m *middlewares) errorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		appErr := apperrors.Wrap(err, "request failed")

		c.JSON(appErr.StatusCode(), gin.H{
			"error": gin.H{
				"code":       appErr.Code,
				"message":    appErr.Message,
				"request_id": c.GetString("request_id"),
			},
		})
	}
}

// requireBearerToken implements §6.1's "all non-public endpoints expect
// a bearer token; identity is resolved externally."
func (m *middlewares) requireBearerToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if token == header {
			token = "" // no "Bearer " prefix present
		}

		identity, err := m.verifier.Verify(c.Request.Context(), token)
		if err != nil {
			c.Error(err)
			c.Abort()
			return
		}

		c.Set("identity", identity.Subject)
		c.Next()
	}
}
