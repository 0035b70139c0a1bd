// Package api serves the catalog's REST surface with gin.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jonesrussell/toolscout/internal/config"
	"github.com/jonesrussell/toolscout/internal/database"
	"github.com/jonesrussell/toolscout/internal/logger"
	"github.com/jonesrussell/toolscout/internal/scheduler"
	"github.com/jonesrussell/toolscout/internal/telemetry"
)

// Runners maps run types (discovery, metrics, refresh) to their runner, for
// the cron trigger endpoint.
type Runners map[string]scheduler.Runner

// Server is the HTTP API over the catalog store.
type Server struct {
	cfg      *config.Config
	store    *database.Store
	runners  Runners
	metrics  *telemetry.Metrics
	logger   logger.Logger
	degraded bool

	engine *gin.Engine
	http   *http.Server
}

// New builds the server and registers all routes. metrics may be nil.
func New(cfg *config.Config, store *database.Store, runners Runners, metrics *telemetry.Metrics, degraded bool, log logger.Logger) *Server {
	if !cfg.Service.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		cfg:      cfg,
		store:    store,
		runners:  runners,
		metrics:  metrics,
		logger:   log,
		degraded: degraded,
		engine:   gin.New(),
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.engine.Use(gin.Recovery())
	s.engine.Use(s.requestLogger())
	s.engine.Use(corsMiddleware())
	if s.metrics != nil {
		s.engine.Use(s.requestMetrics())
		if s.degraded {
			s.metrics.DegradedModeGauge.Set(1)
		}
	}

	s.engine.GET("/health", s.handleHealth)
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiGroup := s.engine.Group("/api")
	{
		apiGroup.GET("/tools", s.handleListTools)
		apiGroup.POST("/tools", s.handleCreateTool)
		apiGroup.GET("/tools/slug/:slug", s.handleGetToolBySlug)
		apiGroup.GET("/tools/:id", s.handleGetTool)
		apiGroup.PUT("/tools/:id", s.handleUpdateTool)
		apiGroup.DELETE("/tools/:id", s.handleDeleteTool)
		apiGroup.GET("/tools/:id/metrics", s.handleToolMetrics)

		apiGroup.GET("/categories", s.handleListCategories)
		apiGroup.POST("/categories", s.handleCreateCategory)
		apiGroup.DELETE("/categories/:id", s.handleDeleteCategory)

		apiGroup.GET("/submissions", s.handleListSubmissions)
		apiGroup.POST("/submissions", s.handleCreateSubmission)
		apiGroup.POST("/submissions/:id/approve", s.handleApproveSubmission)
		apiGroup.POST("/submissions/:id/reject", s.handleRejectSubmission)

		apiGroup.POST("/upvotes", s.handleUpvote)
		apiGroup.POST("/analytics/view", s.handleAnalyticsEvent("view"))
		apiGroup.POST("/analytics/click", s.handleAnalyticsEvent("click"))

		apiGroup.GET("/search", s.handleSearch)
		apiGroup.GET("/badge/:slug", s.handleBadge)

		apiGroup.POST("/cron/:type", s.requireCronSecret(), s.handleCronTrigger)
		apiGroup.GET("/automation-logs", s.handleAutomationLogs)
		apiGroup.GET("/discovered-tools", s.handleDiscoveredTools)
	}
}

// Handler exposes the router, used by tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start serves until the context is canceled, then drains connections.
func (s *Server) Start(ctx context.Context) error {
	s.http = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Service.Port),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening",
			logger.String("addr", s.http.Addr),
			logger.Bool("degraded", s.degraded),
		)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"service":  s.cfg.Service.Name,
		"version":  s.cfg.Service.Version,
		"degraded": s.degraded,
	})
}

// respondStoreError maps repository errors onto HTTP statuses.
func (s *Server) respondStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, database.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": "already exists"})
	default:
		s.logger.Error("store operation failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
