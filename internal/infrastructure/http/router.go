// Package http wires the §6.1 HTTP surface: three routes over a single
// inbound.RecipeExtractionService, grounded on the teacher's gin-based
// middleware chain (internal/infrastructure/http/middleware/middleware.go)
// adapted down from its chi-routed, multi-service frontend server.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/alchemorsel/cookbook/internal/infrastructure/ai"
	"github.com/alchemorsel/cookbook/internal/infrastructure/config"
	"github.com/alchemorsel/cookbook/internal/ports/inbound"
	"github.com/alchemorsel/cookbook/internal/ports/outbound"
)

// Server wraps a gin engine bound to the extraction service and token
// verifier, same shape as the teacher's Server (config/logger/router/
// *http.Server fields) narrowed to one route group.
type Server struct {
	cfg    *config.Config
	logger *zap.Logger
	router *gin.Engine
	server *http.Server
}

func NewServer(cfg *config.Config, logger *zap.Logger, extractor inbound.RecipeExtractionService, verifier outbound.TokenVerifier, modelHealth *ai.HealthChecker) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	mw := newMiddleware(logger, verifier)
	router.Use(mw.requestID(), mw.tracing(), mw.accessLog(), mw.recovery(), mw.errorHandler())

	h := &handlers{extractor: extractor, logger: logger, modelHealth: modelHealth}
	router.GET("/", h.handleRoot)
	router.GET("/hello/:name", h.handleHello)
	router.GET("/health", h.handleHealth)
	router.POST("/recipe", mw.requireBearerToken(), h.handleExtractRecipe)

	return &Server{
		cfg:    cfg,
		logger: logger,
		router: router,
		server: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler:           otelhttp.NewHandler(router, cfg.App.Name),
			ReadTimeout:       cfg.Server.ReadTimeout,
			WriteTimeout:      cfg.Server.WriteTimeout,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

func (s *Server) Start() error {
	s.logger.Info("starting http server", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, s.cfg.Server.ShutdownTimeout)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}
