// Package engine turns one file descriptor into its derived artifacts.
package engine

import (
	"context"
	"fmt"
	"image"
	"io"
	"math"
	"net/url"
	"os"
	"path/filepath"

	"imgpress/internal/encoder"
	"imgpress/internal/models"
)

// Engine writes up to three artifacts per descriptor into outDir:
// a byte-faithful copy of the source, a recompressed copy in the original
// format, and optionally a recompressed copy in the requested custom format.
type Engine struct {
	outDir  string
	quality int
}

func New(outDir string, quality int) *Engine {
	if quality <= 0 {
		quality = encoder.DefaultQuality
	}
	return &Engine{outDir: outDir, quality: quality}
}

// Process runs the three artifact stages strictly in order. Any write
// failure abandons the descriptor; artifacts already written are left on
// disk for the junk sweep to reclaim. The context is checked between
// stages so a cancelled request stops encoding early.
func (e *Engine) Process(ctx context.Context, d models.FileDescriptor) (models.ProcessingResult, error) {
	const op = "engine.Process"

	var res models.ProcessingResult

	// Stage 1: byte-faithful copy of the uploaded file.
	originalPath := e.artifactPath(d.GeneratedName, "original", d.OriginalExt)
	if err := copyFile(d.SourcePath, originalPath); err != nil {
		return res, fmt.Errorf("%s: %w", op, err)
	}
	original, err := e.probe(originalPath, d.OriginalExt)
	if err != nil {
		return res, fmt.Errorf("%s: %w", op, err)
	}
	original.OriginalName = d.OriginalName
	res.OriginalFile = original

	if err := ctx.Err(); err != nil {
		return res, fmt.Errorf("%s: %w", op, err)
	}

	// Stages 2 and 3 re-encode, so decode the source once.
	img, err := encoder.Open(d.SourcePath)
	if err != nil {
		return res, fmt.Errorf("%s: %w", op, err)
	}

	// Stage 2: recompress in the original format.
	compressPath := e.artifactPath(d.GeneratedName, "compressOnOriginal", d.OriginalExt)
	if err := e.encodeFile(compressPath, img, d.OriginalExt); err != nil {
		return res, fmt.Errorf("%s: %w", op, err)
	}
	res.OriginalExtCompress, err = e.probe(compressPath, d.OriginalExt)
	if err != nil {
		return res, fmt.Errorf("%s: %w", op, err)
	}

	// Stage 3: recompress in the custom format, if one was requested.
	if d.CustomExt != "" {
		if err := ctx.Err(); err != nil {
			return res, fmt.Errorf("%s: %w", op, err)
		}

		customPath := e.artifactPath(d.GeneratedName, "custom", d.CustomExt)
		if err := e.encodeFile(customPath, img, d.CustomExt); err != nil {
			return res, fmt.Errorf("%s: %w", op, err)
		}
		custom, err := e.probe(customPath, d.CustomExt)
		if err != nil {
			return res, fmt.Errorf("%s: %w", op, err)
		}
		res.CustomExtCompressFile = &custom
	}

	res.Message = "processing complete"
	return res, nil
}

func (e *Engine) artifactPath(stem, variant, ext string) string {
	return filepath.Join(e.outDir, fmt.Sprintf("%s_%s.%s", stem, variant, ext))
}

func (e *Engine) encodeFile(path string, img image.Image, ext string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := encoder.Encode(f, img, ext, e.quality); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// probe stats the written artifact and fills in its size and download URL.
func (e *Engine) probe(path, ext string) (models.Artifact, error) {
	info, err := os.Stat(path)
	if err != nil {
		return models.Artifact{}, err
	}
	return models.Artifact{
		Path:   path,
		SizeKB: int(math.Round(float64(info.Size()) / 1024)),
		Ext:    ext,
		URL:    "/download?file=" + url.QueryEscape(path),
	}, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
