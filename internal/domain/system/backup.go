package system

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"hris/internal/platform/jobs"
)

type BackupResult struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	File      string    `json:"file"`
	SizeBytes int       `json:"sizeBytes"`
}

// BackupJob writes the current persisted document to a timestamped file in
// dir.
func BackupJob(snapshot func() []byte, dir string, now func() time.Time) jobs.Func {
	return func(ctx context.Context) (any, error) {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create backup dir: %w", err)
		}
		at := now()
		data := snapshot()
		path := filepath.Join(dir, fmt.Sprintf("hris-%s.json", at.Format("20060102T150405Z")))
		if err := os.WriteFile(path, data, 0o640); err != nil {
			return nil, fmt.Errorf("write backup: %w", err)
		}
		return BackupResult{
			Message:   "Backup completed successfully",
			Timestamp: at,
			File:      filepath.Base(path),
			SizeBytes: len(data),
		}, nil
	}
}
