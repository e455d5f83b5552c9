package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"devdesk/internal/ai"
	"devdesk/internal/models"
)

type aiRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type generator func(ctx context.Context, title, description string) (string, error)

func (s *Server) handleGenerateSteps(c *gin.Context) {
	s.generate(c, "steps", s.ai.ReproductionSteps)
}

func (s *Server) handleSuggestSubtasks(c *gin.Context) {
	s.generate(c, "subtasks", s.ai.Subtasks)
}

// generate runs a single-item AI prompt and returns its text under key.
func (s *Server) generate(c *gin.Context, key string, fn generator) {
	var req aiRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, models.Invalid("body", "request body must be a JSON object"))
		return
	}
	if req.Title == "" {
		s.fail(c, models.Invalid("title", "Title is required"))
		return
	}

	text, err := fn(c.Request.Context(), req.Title, req.Description)
	if err != nil {
		s.failAI(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{key: text})
}

// handleInsights returns workload statistics with an optional AI suggestion.
// The suggestion is best effort; stats are always returned.
func (s *Server) handleInsights(c *gin.Context) {
	stats, err := s.store.ItemStats(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}

	body := gin.H{"stats": stats, "suggestion": nil}
	if s.ai.Configured() {
		suggestion, err := s.ai.Suggestion(c.Request.Context(), stats)
		if err != nil {
			s.logger.Warn("insight suggestion failed", slog.String("error", err.Error()))
		} else {
			body["suggestion"] = suggestion
		}
	}
	c.JSON(http.StatusOK, body)
}

func (s *Server) failAI(c *gin.Context, err error) {
	var upstream *ai.UpstreamError
	switch {
	case errors.Is(err, ai.ErrNotConfigured):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error(), "code": "ai_not_configured"})
	case errors.As(err, &upstream):
		s.logger.Error("ai request failed", slog.String("path", c.FullPath()), slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, gin.H{"error": "AI provider request failed", "code": "ai_upstream_failed"})
	default:
		s.fail(c, err)
	}
}
