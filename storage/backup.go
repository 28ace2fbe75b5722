package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Backup writes a compacted copy of the database into dir. Each call
// produces a new timestamped file so a bad copy never clobbers a good one.
func (s *Store) Backup(ctx context.Context, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}
	dest := filepath.Join(dir, fmt.Sprintf("db-%s.sqlite", time.Now().Format("20060102T150405")))
	if _, err := s.db.ExecContext(ctx, `VACUUM INTO ?`, dest); err != nil {
		return "", fmt.Errorf("backup database: %w", err)
	}
	return dest, nil
}
