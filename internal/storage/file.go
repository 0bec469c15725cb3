package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	logx "github.com/reine-ishyanami/gemini-bot/pkg/logger"
)

// FileStore keeps one JSON file per key under a data directory.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

func (s *FileStore) Read(_ context.Context, key string) ([]byte, error) {
	b, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		logx.Error().Err(err).Str("key", key).Msg("failed to read document")
		return nil, fmt.Errorf("read document %s: %w", key, err)
	}
	// An empty file counts as absent so a truncated write does not poison loads.
	if len(b) == 0 {
		return nil, ErrNotFound
	}
	return b, nil
}

func (s *FileStore) Write(_ context.Context, key string, doc []byte) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	if err := os.WriteFile(s.path(key), doc, 0o644); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to write document")
		return fmt.Errorf("write document %s: %w", key, err)
	}
	return nil
}

var _ Store = (*FileStore)(nil)
