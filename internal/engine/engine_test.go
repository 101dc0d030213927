package engine

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"imgpress/internal/encoder"
	"imgpress/internal/models"
)

// writeSource stages a jpeg-encoded file under a bare name, the way the
// upload handler stages files (no extension on disk).
func writeSource(t *testing.T, dir string) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 48, 48))
	for y := 0; y < 48; y++ {
		for x := 0; x < 48; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 5), G: uint8(y * 5), B: 128, A: 255})
		}
	}

	path := filepath.Join(dir, "staged-upload")
	f, err := os.Create(path)
	be.Err(t, err, nil)
	be.Err(t, encoder.Encode(f, img, "jpeg", 90), nil)
	be.Err(t, f.Close(), nil)
	return path
}

func TestProcessAllArtifacts(t *testing.T) {
	outDir := t.TempDir()
	src := writeSource(t, t.TempDir())
	eng := New(outDir, 60)

	res, err := eng.Process(context.Background(), models.FileDescriptor{
		SourcePath:       src,
		GeneratedName:    "abc123",
		OriginalName:     "photo.jpg",
		DeclaredMimeType: "image/jpeg",
		OriginalExt:      "jpeg",
		CustomExt:        "webp",
	})
	be.Err(t, err, nil)
	be.Equal(t, res.Message, "processing complete")

	be.Equal(t, res.OriginalFile.OriginalName, "photo.jpg")
	be.Equal(t, res.OriginalFile.Ext, "jpeg")
	be.Equal(t, res.OriginalExtCompress.Ext, "jpeg")
	be.True(t, res.CustomExtCompressFile != nil)
	be.Equal(t, res.CustomExtCompressFile.Ext, "webp")

	wantFiles := []string{
		"abc123_original.jpeg",
		"abc123_compressOnOriginal.jpeg",
		"abc123_custom.webp",
	}
	for _, name := range wantFiles {
		_, err := os.Stat(filepath.Join(outDir, name))
		be.Err(t, err, nil)
	}

	for _, a := range []models.Artifact{res.OriginalFile, res.OriginalExtCompress, *res.CustomExtCompressFile} {
		be.True(t, a.SizeKB >= 0)
		be.True(t, strings.HasPrefix(a.URL, "/download?file="))
	}

	// The three artifact paths never collide.
	be.True(t, res.OriginalFile.Path != res.OriginalExtCompress.Path)
	be.True(t, res.OriginalFile.Path != res.CustomExtCompressFile.Path)
}

func TestProcessOriginalIsByteFaithful(t *testing.T) {
	outDir := t.TempDir()
	src := writeSource(t, t.TempDir())
	eng := New(outDir, 60)

	res, err := eng.Process(context.Background(), models.FileDescriptor{
		SourcePath:    src,
		GeneratedName: "faithful",
		OriginalName:  "photo.jpg",
		OriginalExt:   "jpeg",
	})
	be.Err(t, err, nil)

	want, err := os.ReadFile(src)
	be.Err(t, err, nil)
	got, err := os.ReadFile(res.OriginalFile.Path)
	be.Err(t, err, nil)
	be.True(t, bytes.Equal(got, want))
}

func TestProcessNoCustomExt(t *testing.T) {
	outDir := t.TempDir()
	src := writeSource(t, t.TempDir())
	eng := New(outDir, 60)

	res, err := eng.Process(context.Background(), models.FileDescriptor{
		SourcePath:    src,
		GeneratedName: "nocustom",
		OriginalName:  "photo.jpg",
		OriginalExt:   "jpeg",
	})
	be.Err(t, err, nil)
	be.True(t, res.CustomExtCompressFile == nil)

	entries, err := os.ReadDir(outDir)
	be.Err(t, err, nil)
	be.Equal(t, len(entries), 2)
}

func TestProcessMissingSource(t *testing.T) {
	eng := New(t.TempDir(), 60)

	_, err := eng.Process(context.Background(), models.FileDescriptor{
		SourcePath:    filepath.Join(t.TempDir(), "nope"),
		GeneratedName: "missing",
		OriginalExt:   "jpeg",
	})
	be.True(t, err != nil)
}

func TestProcessCancelledContext(t *testing.T) {
	outDir := t.TempDir()
	src := writeSource(t, t.TempDir())
	eng := New(outDir, 60)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := eng.Process(ctx, models.FileDescriptor{
		SourcePath:    src,
		GeneratedName: "cancelled",
		OriginalExt:   "jpeg",
	})
	be.True(t, err != nil)
}
