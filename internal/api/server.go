// Package api exposes the journal and its analytics over HTTP.
//
// Identity is supplied by the fronting proxy: X-User-ID carries the opaque
// user id and X-User-Admin marks administrators. Every response body is JSON;
// successes wrap their payload in {"data": ...} and failures return
// {"error": {"category": ..., "message": ...}}.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/manav03panchal/daymark/internal/analytics"
	"github.com/manav03panchal/daymark/internal/journal"
	"github.com/manav03panchal/daymark/internal/logging"
	"github.com/manav03panchal/daymark/internal/storage"
)

// shutdownTimeout bounds how long in-flight requests may finish after Run's
// context is cancelled.
const shutdownTimeout = 10 * time.Second

// Config wraps the knobs that impact runtime behavior.
type Config struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server exposes the gin engine.
type Server struct {
	engine    *gin.Engine
	cfg       Config
	journal   *journal.Service
	analytics *analytics.Engine
	db        *storage.DB
}

// NewServer wires handlers and middleware.
func NewServer(cfg Config, svc *journal.Service, stats *analytics.Engine, db *storage.DB) *Server {
	engine := gin.New()
	engine.Use(gin.Recovery(), requestID(), accessLog())

	srv := &Server{engine: engine, cfg: cfg, journal: svc, analytics: stats, db: db}
	srv.registerRoutes()
	return srv
}

// Handler returns the HTTP handler, for embedding and tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run starts listening for HTTP traffic until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.engine,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logging.Warn("server shutdown", logging.KeyError, err)
		}
	}()

	logging.Info("daymark listening", "addr", s.cfg.Addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", s.handleHealth)

	v1 := s.engine.Group("/api/v1", identity())
	{
		v1.GET("/day", s.handleGetDay)
		v1.GET("/day/:date", s.handleGetDay)
		v1.PUT("/day/:date/sleep", s.handleSetSleep)
		v1.PUT("/day/:date/fields/:key", s.handleSetFieldValue)
		v1.PUT("/day/:date/daily-fields/:key", s.handleSetDailyField)
		v1.DELETE("/day/:date/daily-fields/:key", s.handleDeleteDailyField)

		v1.GET("/settings", s.handleGetSettings)
		v1.PATCH("/settings", s.handleUpdateSettings)

		v1.GET("/templates", s.handleListTemplates)
		v1.POST("/templates", s.handleCreateTemplate)
		v1.PATCH("/templates/:id", s.handleUpdateTemplate)
		v1.DELETE("/templates/:id", s.handleDeleteTemplate)

		v1.POST("/tasks", s.handleAddTask)
		v1.PATCH("/tasks/:id", s.handleUpdateTask)
		v1.PUT("/tasks/:id/done", s.handleSetTaskDone)
		v1.POST("/tasks/:id/toggle", s.handleToggleTask)
		v1.DELETE("/tasks/:id", s.handleDeleteTask)

		v1.POST("/entries", s.handleAddEntry)
		v1.PATCH("/entries/:id", s.handleUpdateEntry)
		v1.DELETE("/entries/:id", s.handleDeleteEntry)

		v1.GET("/counters", s.handleListCounters)
		v1.POST("/counters", s.handleCreateCounter)
		v1.POST("/counters/:id/increment", s.handleIncrementCounter)
		v1.PUT("/counters/:id/value", s.handleSetCounterValue)
		v1.DELETE("/counters/:id", s.handleDeleteCounter)

		v1.GET("/trackers/duration", s.handleListDurationTrackers)
		v1.POST("/trackers/duration", s.handleCreateDurationTracker)
		v1.POST("/trackers/duration/:id/start", s.handleStartTracker)
		v1.POST("/trackers/duration/:id/stop", s.handleStopTracker)
		v1.POST("/trackers/duration/:id/reset", s.handleResetTracker)
		v1.PUT("/trackers/duration/:id/lock", s.handleLockTracker)
		v1.DELETE("/trackers/duration/:id", s.handleDeleteDurationTracker)

		v1.GET("/trackers/since", s.handleListTimeSince)
		v1.POST("/trackers/since", s.handleCreateTimeSince)
		v1.POST("/trackers/since/:id/reset", s.handleResetTimeSince)
		v1.DELETE("/trackers/since/:id", s.handleDeleteTimeSince)

		v1.POST("/reorder", s.handleReorder)

		v1.GET("/snapshots", s.handleListSnapshots)
		v1.POST("/snapshots/:date", s.handleSaveSnapshot)
		v1.GET("/snapshots/:date", s.handleGetSnapshot)
		v1.DELETE("/snapshots/:date", s.handleDeleteSnapshot)
		v1.GET("/retention", s.handleGetRetention)
		v1.PUT("/retention", s.handleSetRetention)

		v1.POST("/analytics/query", s.handleAnalyticsQuery)
		v1.POST("/analytics/tasks", s.handleAnalyticsTasks)

		admin := v1.Group("/admin", requireAdmin())
		admin.GET("/cache", s.handleCacheStats)
		admin.DELETE("/cache", s.handleClearCache)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	status := storage.CheckDatabaseIntegrity(s.db)
	code := http.StatusOK
	if !status.Healthy {
		code = http.StatusServiceUnavailable
		logging.Error("health check failed",
			logging.KeyCount, status.ErrorCount,
			logging.KeyError, status.Errors)
	}
	c.JSON(code, gin.H{"status": healthLabel(status.Healthy), "keysProbed": status.KeysProbed})
}

func healthLabel(healthy bool) string {
	if healthy {
		return "ok"
	}
	return "degraded"
}
