package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"imgpress/internal/junk"
)

// handleDeleteAllJunk sweeps both working directories. It always answers
// 200: individual failures are logged by the sweep and reported as counts,
// never as an HTTP error.
func (s *Server) handleDeleteAllJunk(c *gin.Context) {
	report := junk.Sweep(c.Request.Context(), s.cfg.ProcessedDir, s.cfg.UploadDir)

	c.JSON(http.StatusOK, gin.H{
		"message": "Delete All Junk",
		"deleted": len(report.Deleted),
		"failed":  len(report.Failed),
	})
}
