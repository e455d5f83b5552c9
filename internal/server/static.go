package server

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// mountStatic serves the built board UI and falls back to index.html for
// client-side routes. Unknown API paths always get a JSON 404.
func (s *Server) mountStatic() {
	index := s.indexFile()

	s.engine.NoRoute(func(c *gin.Context) {
		if index == "" || strings.HasPrefix(c.Request.URL.Path, "/api/") || c.Request.Method != http.MethodGet {
			c.JSON(http.StatusNotFound, gin.H{"error": "Endpoint not found"})
			return
		}
		c.File(index)
	})
	if index == "" {
		return
	}

	s.engine.GET("/", func(c *gin.Context) { c.File(index) })
	for _, dir := range []string{"assets", "static"} {
		path := filepath.Join(s.staticDir, dir)
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			s.engine.StaticFS("/"+dir, gin.Dir(path, false))
		}
	}
	if favicon := filepath.Join(s.staticDir, "favicon.ico"); fileExists(favicon) {
		s.engine.StaticFile("/favicon.ico", favicon)
	}
}

// indexFile returns the frontend entry point, or "" when the server runs
// without a UI.
func (s *Server) indexFile() string {
	if s.staticDir == "" {
		s.logger.Info("no static directory configured, serving API only")
		return ""
	}
	index := filepath.Join(s.staticDir, "index.html")
	if !fileExists(index) {
		s.logger.Warn("frontend not found, serving API only", "path", index)
		return ""
	}
	return index
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
