package server

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"devdesk/internal/ai"
	"devdesk/internal/board"
	"devdesk/internal/models"
	"devdesk/internal/storage/sqlite"
)

// Options configures the optional parts of the server.
type Options struct {
	// StaticDir holds the built frontend; empty runs the API only.
	StaticDir string
	// AI may be nil or unconfigured, in which case AI routes report so.
	AI *ai.Client
	// Dismiss is applied when the hours prompt is closed unanswered.
	Dismiss board.DismissPolicy
}

// Server provides HTTP handlers for the tracker backend.
type Server struct {
	engine    *gin.Engine
	store     *sqlite.Store
	ai        *ai.Client
	logger    *slog.Logger
	staticDir string
	dismiss   board.DismissPolicy
	now       func() time.Time
}

// New constructs the HTTP server with routes and middleware configured.
func New(store *sqlite.Store, logger *slog.Logger, opts Options) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Dismiss == "" {
		opts.Dismiss = board.DismissSkip
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.LoggerWithWriter(gin.DefaultWriter, "/api/healthz"))

	srv := &Server{
		engine:    router,
		store:     store,
		ai:        opts.AI,
		logger:    logger,
		staticDir: opts.StaticDir,
		dismiss:   opts.Dismiss,
		now:       time.Now,
	}

	srv.registerRoutes()
	return srv
}

// Engine exposes the underlying Gin engine.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// registerRoutes wires all API and static handlers together.
func (s *Server) registerRoutes() {
	api := s.engine.Group("/api")
	{
		api.GET("/healthz", s.handleHealth)

		items := api.Group("/items")
		{
			items.GET("", s.handleListItems)
			items.POST("", s.handleCreateItem)
			items.GET("/export", s.handleExportItems)
			items.GET("/:id", s.handleGetItem)
			items.PATCH("/:id", s.handleUpdateItem)
			items.DELETE("/:id", s.handleDeleteItem)
		}

		projects := api.Group("/projects")
		{
			projects.GET("", s.handleListProjects)
			projects.POST("", s.handleCreateProject)
			projects.GET("/:id", s.handleGetProject)
			projects.PATCH("/:id", s.handleUpdateProject)
			projects.DELETE("/:id", s.handleDeleteProject)
		}

		boardGroup := api.Group("/board")
		{
			boardGroup.GET("", s.handleBoard)
			boardGroup.POST("/drop", s.handleDrop)
			boardGroup.POST("/complete", s.handleComplete)
		}

		aiGroup := api.Group("/ai")
		{
			aiGroup.POST("/generate-steps", s.handleGenerateSteps)
			aiGroup.POST("/suggest-subtasks", s.handleSuggestSubtasks)
			aiGroup.GET("/insights", s.handleInsights)
		}
	}

	s.mountStatic()
}

// handleHealth reports readiness, including database reachability.
func (s *Server) handleHealth(c *gin.Context) {
	if err := s.store.Ping(c.Request.Context()); err != nil {
		s.respondError(c, http.StatusServiceUnavailable, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "ai": s.ai.Configured()})
}

// fail maps an error onto the API error taxonomy.
func (s *Server) fail(c *gin.Context, err error) {
	var ve *models.ValidationError
	switch {
	case errors.As(err, &ve):
		body := gin.H{"error": ve.Error(), "field": ve.Field}
		if len(ve.Allowed) > 0 {
			body["value"] = ve.Value
			body["allowed"] = ve.Allowed
		}
		c.JSON(http.StatusBadRequest, body)
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": capitalize(err.Error())})
	default:
		s.logger.Error("request failed",
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// respondError logs the error and returns a JSON payload with an explicit status.
func (s *Server) respondError(c *gin.Context, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", slog.String("path", c.FullPath()), slog.String("error", err.Error()))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if c := s[0]; c >= 'a' && c <= 'z' {
		return string(c-'a'+'A') + s[1:]
	}
	return s
}
