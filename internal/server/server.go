package server

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"imgpress/internal/events"
	"imgpress/internal/logger"
	"imgpress/internal/models"
	"imgpress/internal/worker"
)

type Server struct {
	cfg    *models.Config
	router *gin.Engine
	pool   *worker.Pool
	events *events.Publisher

	// Canonical absolute processed dir; downloads must resolve inside it.
	sandboxRoot string
}

func New(cfg *models.Config, pool *worker.Pool, pub *events.Publisher) (*Server, error) {
	root, err := canonicalRoot(cfg.ProcessedDir)
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Recovery(), logger.Gin(slog.Default()))

	s := &Server{
		cfg:         cfg,
		router:      r,
		pool:        pool,
		events:      pub,
		sandboxRoot: root,
	}

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Server is running"})
	})
	r.POST("/api/upload", s.handleUpload)
	r.GET("/download", s.handleDownload)
	r.GET("/deleteAllJunk", s.handleDeleteAllJunk)

	return s, nil
}

func (s *Server) Start() error {
	return s.router.Run(s.cfg.ServerAddr)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// canonicalRoot resolves dir to its canonical absolute form so the
// download sandbox check compares like with like.
func canonicalRoot(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", err
	}
	return resolved, nil
}
