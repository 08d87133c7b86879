package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"todolist/internal/models"
	"todolist/internal/service"
	"todolist/internal/stats"
)

// Pinger reports whether the backing database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options bundles the collaborators of the HTTP server.
type Options struct {
	Tasks      *service.TaskService
	Categories *service.CategoryService
	Health     Pinger
	Counter    *stats.Counter
	Logger     *slog.Logger
	Name       string
	Version    string
}

// Server provides HTTP handlers for the to-do API.
type Server struct {
	engine     *gin.Engine
	tasks      *service.TaskService
	categories *service.CategoryService
	health     Pinger
	counter    *stats.Counter
	logger     *slog.Logger
	name       string
	version    string
}

// New constructs the HTTP server with routes and middleware configured.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	counter := opts.Counter
	if counter == nil {
		counter = &stats.Counter{}
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	srv := &Server{
		engine:     router,
		tasks:      opts.Tasks,
		categories: opts.Categories,
		health:     opts.Health,
		counter:    counter,
		logger:     logger,
		name:       opts.Name,
		version:    opts.Version,
	}

	// Recovery sits innermost so recovered panics are still counted and logged.
	router.Use(requestID(), srv.countRequests(), srv.logRequests(), gin.CustomRecoveryWithWriter(io.Discard, srv.recoverPanic))
	srv.registerRoutes()
	return srv
}

// Engine exposes the underlying Gin engine.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Counter exposes the request counter fed by the middleware.
func (s *Server) Counter() *stats.Counter {
	return s.counter
}

// registerRoutes wires all API and documentation handlers together. The
// API routes come from apiRoutes, which also feeds the OpenAPI document.
func (s *Server) registerRoutes() {
	s.engine.GET("/", s.handleInfo)

	api := s.engine.Group("/api")
	api.GET("/healthz", s.handleHealth)
	for _, r := range s.apiRoutes() {
		api.Handle(r.method, r.path, r.handler)
	}

	s.mountDocs()
}

// handleInfo returns service name and version metadata.
func (s *Server) handleInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"name": s.name, "version": s.version})
}

// handleHealth provides a basic readiness endpoint.
func (s *Server) handleHealth(c *gin.Context) {
	if s.health != nil {
		if err := s.health.Ping(c.Request.Context()); err != nil {
			s.respondError(c, http.StatusServiceUnavailable, err)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// parseID converts a path parameter to int64 with error handling.
func (s *Server) parseID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		s.respondError(c, http.StatusBadRequest, errors.New("invalid identifier"))
		return 0, false
	}
	return id, true
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrInvalidReference):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// recoverPanic answers 500 for a handler panic.
func (s *Server) recoverPanic(c *gin.Context, recovered any) {
	s.respondError(c, http.StatusInternalServerError, fmt.Errorf("panic: %v", recovered))
}

// fail responds with the status matching err.
func (s *Server) fail(c *gin.Context, err error) {
	s.respondError(c, statusFor(err), err)
}

// respondError logs the error and returns a JSON payload.
func (s *Server) respondError(c *gin.Context, status int, err error) {
	attrs := []any{
		slog.String("path", c.FullPath()),
		slog.Int("status", status),
		slog.String("error", err.Error()),
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", attrs...)
	} else {
		s.logger.Warn("request rejected", attrs...)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

// bindJSON decodes the request body and answers 400 on malformed input.
func (s *Server) bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return false
	}
	return true
}
