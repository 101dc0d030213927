// Package junk reclaims temporary upload and processed-output storage.
package junk

import (
	"context"
	"os"
	"path/filepath"

	"imgpress/internal/logger"
)

// Report lists what one sweep actually did.
type Report struct {
	Deleted []string `json:"deleted"`
	Failed  []string `json:"failed"`
}

// Sweep deletes every entry directly under the given directories,
// best-effort. A directory that cannot be listed contributes nothing and
// is logged. A file already gone at delete time counts as success.
// Individual delete failures are collected and never abort the sweep.
func Sweep(ctx context.Context, dirs ...string) Report {
	log := logger.FromContext(ctx)

	var report Report
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			log.Warn("cannot list directory", "dir", dir, "error", err)
			continue
		}

		for _, entry := range entries {
			path := filepath.Join(dir, entry.Name())
			switch err := os.Remove(path); {
			case err == nil:
				report.Deleted = append(report.Deleted, path)
			case os.IsNotExist(err):
				// Already gone, nothing to do.
			default:
				log.Warn("delete failed", "path", path, "error", err)
				report.Failed = append(report.Failed, path)
			}
		}
	}
	return report
}
