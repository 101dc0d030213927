package junk

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/nalgeon/be"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		err := os.WriteFile(filepath.Join(dir, name), []byte("junk"), 0644)
		be.Err(t, err, nil)
	}
}

func TestSweepDeletesEverything(t *testing.T) {
	uploads := t.TempDir()
	processed := t.TempDir()
	writeFiles(t, uploads, "a", "b")
	writeFiles(t, processed, "x_original.jpeg")

	report := Sweep(context.Background(), processed, uploads)
	be.Equal(t, len(report.Deleted), 3)
	be.Equal(t, len(report.Failed), 0)

	for _, dir := range []string{uploads, processed} {
		entries, err := os.ReadDir(dir)
		be.Err(t, err, nil)
		be.Equal(t, len(entries), 0)
	}
}

func TestSweepEmptyDirsIsIdempotent(t *testing.T) {
	dirs := []string{t.TempDir(), t.TempDir()}

	for i := 0; i < 2; i++ {
		report := Sweep(context.Background(), dirs...)
		be.Equal(t, len(report.Deleted), 0)
		be.Equal(t, len(report.Failed), 0)
	}
}

func TestSweepUnlistableDirIsSkipped(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "never-created")
	existing := t.TempDir()
	writeFiles(t, existing, "leftover")

	report := Sweep(context.Background(), missing, existing)
	be.Equal(t, len(report.Deleted), 1)
	be.Equal(t, len(report.Failed), 0)
}

func TestSweepNonEmptySubdirIsCollected(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "nested")
	be.Err(t, os.MkdirAll(sub, 0755), nil)
	writeFiles(t, sub, "inner")

	report := Sweep(context.Background(), dir)
	be.Equal(t, len(report.Deleted), 0)
	be.Equal(t, len(report.Failed), 1)
	be.Equal(t, report.Failed[0], sub)
}
