package server

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"imgpress/internal/logger"
	"imgpress/internal/models"
)

func (s *Server) handleDownload(c *gin.Context) {
	const op = "server.handleDownload"
	log := logger.FromContext(c.Request.Context())

	requested := c.Query("file")
	if requested == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file parameter is required"})
		return
	}

	path, err := s.resolveSandboxed(requested)
	switch {
	case errors.Is(err, models.ErrForbiddenPath):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	case errors.Is(err, fs.ErrNotExist):
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	case err != nil:
		log.Error("resolve download path failed", "op", op, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error downloading file"})
		return
	}

	c.FileAttachment(path, filepath.Base(path))

	// Post-serve deletion is a policy knob, best-effort and detached from
	// the response lifecycle.
	if s.cfg.DeleteAfterDownload {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Warn("delete after download failed", "path", path, "error", err)
		}
	}
}

// resolveSandboxed canonicalizes the requested path and enforces that it
// stays inside the processed-output root. The prefix check runs on absolute
// canonical paths, before and after symlink resolution, so neither ".."
// segments nor symlinks can escape the sandbox.
func (s *Server) resolveSandboxed(requested string) (string, error) {
	abs, err := filepath.Abs(requested)
	if err != nil {
		return "", models.ErrForbiddenPath
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if os.IsNotExist(err) {
			// Missing files cannot be canonicalized further. Abs already
			// cleaned ".." segments, so the lexical check still decides
			// forbidden before not-found.
			if !within(s.sandboxRoot, abs) {
				return "", models.ErrForbiddenPath
			}
			return "", fs.ErrNotExist
		}
		return "", err
	}
	if !within(s.sandboxRoot, resolved) {
		return "", models.ErrForbiddenPath
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", fs.ErrNotExist
	}
	return resolved, nil
}

func within(root, path string) bool {
	return path == root || strings.HasPrefix(path, root+string(os.PathSeparator))
}
