package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"devdesk/internal/models"
)

func parseProjectInput(body fields) (models.ProjectInput, error) {
	var (
		in  models.ProjectInput
		err error
	)
	if _, present := body["name"]; present {
		name, _, err := body.str("name")
		if err != nil {
			return in, err
		}
		in.Name = &name
	}
	if in.Description, err = body.nullableStr("description"); err != nil {
		return in, err
	}
	if in.Color, err = body.nullableStr("color"); err != nil {
		return in, err
	}
	if in.RepositoryURL, err = body.nullableStr("repositoryUrl"); err != nil {
		return in, err
	}
	return in, nil
}

// handleListProjects returns all projects ordered by name.
func (s *Server) handleListProjects(c *gin.Context) {
	projects, err := s.store.ListProjects(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

// handleCreateProject creates a new project entity.
func (s *Server) handleCreateProject(c *gin.Context) {
	body, err := bindFields(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	in, err := parseProjectInput(body)
	if err != nil {
		s.fail(c, err)
		return
	}

	project, err := s.store.CreateProject(c.Request.Context(), in)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

// handleGetProject returns a single project.
func (s *Server) handleGetProject(c *gin.Context) {
	project, err := s.store.GetProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// handleUpdateProject renames or edits an existing project.
func (s *Server) handleUpdateProject(c *gin.Context) {
	body, err := bindFields(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	in, err := parseProjectInput(body)
	if err != nil {
		s.fail(c, err)
		return
	}

	project, err := s.store.UpdateProject(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// handleDeleteProject removes a project; its items are kept but unassigned.
func (s *Server) handleDeleteProject(c *gin.Context) {
	if err := s.store.DeleteProject(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
