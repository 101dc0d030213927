package server

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"imgpress/internal/logger"
	"imgpress/internal/models"
)

func (s *Server) handleUpload(c *gin.Context) {
	const op = "server.handleUpload"
	log := logger.FromContext(c.Request.Context())

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form"})
		return
	}

	descriptors, err := s.buildDescriptors(c, form.File["image"], form.Value)
	switch {
	case errors.Is(err, models.ErrEmptyBatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": "No files uploaded"})
		return
	case err != nil:
		log.Error("staging uploads failed", "op", op, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Image processing failed"})
		return
	}

	resultCh, err := s.pool.Dispatch(c.Request.Context(), descriptors)
	switch {
	case errors.Is(err, models.ErrQueueFull):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Server busy, try again later"})
		return
	case err != nil:
		log.Error("dispatch failed", "op", op, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Image processing failed"})
		return
	}

	batch := <-resultCh
	if batch.Err != nil {
		log.Error("batch processing failed", "op", op, "error", batch.Err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Image processing failed"})
		return
	}

	s.events.BatchProcessed(c.Request.Context(), batch.Results)

	c.JSON(http.StatusOK, gin.H{"processedFiles": batch.Results})
}

// buildDescriptors stages every uploaded file under a fresh uuid name and
// normalizes the per-file metadata. The whole batch shares one custom
// extension; the declared type of file i comes from the type_{i} form field
// and falls back to the part's own Content-Type.
func (s *Server) buildDescriptors(c *gin.Context, files []*multipart.FileHeader, values map[string][]string) ([]models.FileDescriptor, error) {
	const op = "server.buildDescriptors"

	if len(files) == 0 {
		return nil, models.ErrEmptyBatch
	}

	customExt := normalizeCustomExt(values["cusExt"])

	descriptors := make([]models.FileDescriptor, 0, len(files))
	for i, fh := range files {
		declared := firstValue(values[fmt.Sprintf("type_%d", i)])
		if declared == "" {
			declared = fh.Header.Get("Content-Type")
		}

		name := uuid.New().String()
		src := filepath.Join(s.cfg.UploadDir, name)
		if err := c.SaveUploadedFile(fh, src); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		descriptors = append(descriptors, models.FileDescriptor{
			SourcePath:       src,
			GeneratedName:    name,
			OriginalName:     fh.Filename,
			DeclaredMimeType: declared,
			OriginalExt:      extFromMime(declared),
			CustomExt:        customExt,
		})
	}
	return descriptors, nil
}

// normalizeCustomExt collapses the cusExt form field, which clients send as
// a single value, a repeated field or not at all, into one lowercase
// extension. Empty string means no custom format was requested.
func normalizeCustomExt(values []string) string {
	if len(values) == 0 {
		return ""
	}
	v := strings.ToLower(strings.TrimSpace(values[0]))
	if v == "null" {
		return ""
	}
	return v
}

// extFromMime takes the subtype of a MIME type: "image/png" -> "png".
func extFromMime(mimeType string) string {
	if i := strings.IndexByte(mimeType, '/'); i >= 0 {
		return strings.ToLower(mimeType[i+1:])
	}
	return strings.ToLower(mimeType)
}

func firstValue(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
