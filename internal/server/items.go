package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"devdesk/internal/models"
)

// parseFilter reads the list filters from the query string. Unknown enum
// values are rejected rather than ignored.
func parseFilter(c *gin.Context) (models.ItemFilter, error) {
	var f models.ItemFilter
	if raw := c.Query("type"); raw != "" {
		t, err := models.ParseItemType(raw)
		if err != nil {
			return f, err
		}
		f.Type = t
	}
	if raw := c.Query("status"); raw != "" {
		st, err := models.ParseStatus(raw)
		if err != nil {
			return f, err
		}
		f.Status = st
	}
	if raw := c.Query("priority"); raw != "" {
		p, err := models.ParsePriority(raw)
		if err != nil {
			return f, err
		}
		f.Priority = p
	}
	f.ProjectID = c.Query("projectId")
	f.Search = c.Query("search")
	return f, nil
}

// handleListItems returns the filtered, sorted item list.
func (s *Server) handleListItems(c *gin.Context) {
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
	c.JSON(http.StatusOK, items)
}

// handleGetItem returns one item with its project.
func (s *Server) handleGetItem(c *gin.Context) {
	item, err := s.store.GetItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// handleCreateItem inserts a new task or bug.
func (s *Server) handleCreateItem(c *gin.Context) {
	body, err := bindFields(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	in, err := parseNewItem(body)
	if err != nil {
		s.fail(c, err)
		return
	}

	item, err := s.store.CreateItem(c.Request.Context(), in)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func parseNewItem(body fields) (models.NewItem, error) {
	var in models.NewItem

	rawType, _, err := body.str("type")
	if err != nil {
		return in, err
	}
	title, _, err := body.str("title")
	if err != nil {
		return in, err
	}
	if rawType == "" {
		return in, models.Invalid("type", "Type and title are required")
	}
	if title == "" {
		return in, models.Invalid("title", "Type and title are required")
	}
	if in.Type, err = models.ParseItemType(rawType); err != nil {
		return in, err
	}
	in.Title = title

	if raw, _, err := body.str("status"); err != nil {
		return in, err
	} else if raw != "" {
		if in.Status, err = models.ParseStatus(raw); err != nil {
			return in, err
		}
	}
	if raw, _, err := body.str("priority"); err != nil {
		return in, err
	} else if raw != "" {
		if in.Priority, err = models.ParsePriority(raw); err != nil {
			return in, err
		}
	}

	if desc, ok, err := body.str("description"); err != nil {
		return in, err
	} else if ok {
		in.Description = &desc
	}
	if pid, ok, err := body.str("projectId"); err != nil {
		return in, err
	} else if ok && pid != "" {
		in.ProjectID = &pid
	}

	est, err := body.hours("estimatedHours")
	if err != nil {
		return in, err
	}
	in.EstimatedHours = est.Ptr()
	actual, err := body.hours("actualHours")
	if err != nil {
		return in, err
	}
	in.ActualHours = actual.Ptr()
	return in, nil
}

// handleUpdateItem applies a partial update.
func (s *Server) handleUpdateItem(c *gin.Context) {
	body, err := bindFields(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	patch, err := parseItemPatch(body)
	if err != nil {
		s.fail(c, err)
		return
	}

	item, err := s.store.UpdateItem(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func parseItemPatch(body fields) (models.ItemPatch, error) {
	var (
		p   models.ItemPatch
		err error
	)

	if _, present := body["title"]; present {
		title, _, err := body.str("title")
		if err != nil {
			return p, err
		}
		p.Title = &title
	}
	if p.Description, err = body.nullableStr("description"); err != nil {
		return p, err
	}
	if p.Status, err = enum(body, "status", models.ParseStatus); err != nil {
		return p, err
	}
	if p.Priority, err = enum(body, "priority", models.ParsePriority); err != nil {
		return p, err
	}
	if p.ProjectID, err = body.nullableStr("projectId"); err != nil {
		return p, err
	}
	if p.ProjectID.Valid && p.ProjectID.V == "" {
		p.ProjectID = models.Null[string]()
	}
	if p.EstimatedHours, err = body.hours("estimatedHours"); err != nil {
		return p, err
	}
	if p.ActualHours, err = body.hours("actualHours"); err != nil {
		return p, err
	}
	return p, nil
}

// handleDeleteItem removes an item; unknown ids are a 404.
func (s *Server) handleDeleteItem(c *gin.Context) {
	if err := s.store.DeleteItem(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// handleExportItems downloads every item as a dated JSON backup.
func (s *Server) handleExportItems(c *gin.Context) {
	items, err := s.store.ListItems(c.Request.Context(), models.ItemFilter{})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, ExportFilename(s.now())))
	c.JSON(http.StatusOK, items)
}

// ExportFilename names a backup file after the UTC date it was taken.
func ExportFilename(t time.Time) string {
	return fmt.Sprintf("devdesk-backup-%s.json", t.UTC().Format("2006-01-02"))
}
