package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"devdesk/internal/board"
	"devdesk/internal/models"
)

type dropRequest struct {
	ItemID string            `json:"itemId"`
	Target *board.DropTarget `json:"target"`
	// Collisions are used when the client leaves target selection to us.
	Collisions []board.Collision `json:"collisions"`
}

type completeRequest struct {
	ItemID string          `json:"itemId"`
	Action string          `json:"action"`
	Hours  json.RawMessage `json:"hours"`
}

// handleBoard returns the filtered items grouped into status columns.
func (s *Server) handleBoard(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	items, err := s.store.ListItems(c.Request.Context(), filter)
	if err != nil {
		s.fail(c, err)
		return
	}
	b := board.New(items)
	c.JSON(http.StatusOK, gin.H{"columns": b.Columns(), "total": b.Len()})
}

// handleDrop resolves a finished drag gesture and commits the move, or asks
// for actual hours when the move completes the item.
func (s *Server) handleDrop(c *gin.Context) {
	var req dropRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, models.Invalid("body", "request body must be a JSON object"))
		return
	}
	if req.ItemID == "" {
		s.fail(c, models.Invalid("itemId", "itemId is required"))
		return
	}
	target := req.Target
	if target == nil && len(req.Collisions) > 0 {
		if picked, ok := board.PickTarget(req.Collisions); ok {
			target = &picked
		}
	}

	items, err := s.store.ListItems(c.Request.Context(), models.ItemFilter{})
	if err != nil {
		s.fail(c, err)
		return
	}
	b := s.newBoard(items)

	state, _ := board.Reduce(b, board.State{}, board.DragStarted{ItemID: req.ItemID})
	_, effect := board.Reduce(b, state, board.DragEnded{Target: target})
	s.applyEffect(c, effect)
}

// handleComplete answers the hours prompt for an item being moved to DONE.
func (s *Server) handleComplete(c *gin.Context) {
	var req completeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, models.Invalid("body", "request body must be a JSON object"))
		return
	}
	if req.ItemID == "" {
		s.fail(c, models.Invalid("itemId", "itemId is required"))
		return
	}

	var event board.Event
	switch req.Action {
	case "confirm":
		hours, err := parseGateHours(req.Hours)
		if err != nil {
			s.fail(c, models.Invalid("hours", "%s", err.Error()))
			return
		}
		event = board.HoursConfirmed{Hours: hours}
	case "skip":
		event = board.HoursSkipped{}
	case "dismiss":
		event = board.GateDismissed{}
	default:
		s.fail(c, &models.ValidationError{Field: "action", Value: req.Action, Allowed: []string{"confirm", "skip", "dismiss"}})
		return
	}

	item, err := s.store.GetItem(c.Request.Context(), req.ItemID)
	if err != nil {
		s.fail(c, err)
		return
	}
	b := s.newBoard([]models.Item{item})
	state, _, err := board.Resume(b, item.ID)
	if errors.Is(err, board.ErrAlreadyDone) {
		s.respondError(c, http.StatusConflict, err)
		return
	}
	if err != nil {
		s.fail(c, err)
		return
	}

	_, effect := board.Reduce(b, state, event)
	if effect.Err != nil {
		s.fail(c, models.Invalid("hours", "%s", effect.Err.Error()))
		return
	}
	s.applyEffect(c, effect)
}

func (s *Server) newBoard(items []models.Item) *board.Board {
	b := board.New(items)
	b.Dismiss = s.dismiss
	return b
}

// applyEffect performs the mutation a reducer step asked for.
func (s *Server) applyEffect(c *gin.Context, effect board.Effect) {
	switch effect.Kind {
	case board.EffectCommit:
		item, err := s.store.UpdateItem(c.Request.Context(), effect.ItemID, effect.Patch())
		if err != nil {
			s.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"outcome": "committed", "item": item})
	case board.EffectPromptHours:
		c.JSON(http.StatusOK, gin.H{"outcome": "awaiting_hours", "status": effect.Status, "prompt": effect.Prompt})
	default:
		c.JSON(http.StatusOK, gin.H{"outcome": "noop"})
	}
}

// parseGateHours accepts the prompt value as a JSON number or text.
func parseGateHours(raw json.RawMessage) (float64, error) {
	if len(raw) == 0 || isNull(raw) {
		return 0, board.ErrInvalidHours
	}
	var num float64
	if err := json.Unmarshal(raw, &num); err == nil {
		return num, nil
	}
	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return 0, board.ErrInvalidHours
	}
	return board.ParseHours(text)
}
