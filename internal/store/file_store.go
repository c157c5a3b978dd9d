package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/vytor/flashpulse/internal/logger"
	"github.com/vytor/flashpulse/internal/models"
)

// FileStore keeps the collection in a single JSON file.
type FileStore struct {
	path string
}

// NewFileStore returns a store backed by the file at path. Nothing is
// touched on disk until the first Read or Write.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file location.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Read(ctx context.Context) ([]models.Deck, error) {
	log := logger.FromContext(ctx).WithPrefix("file_store")
	if err := s.ensure(ctx); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(s.path)
	if err != nil {
		log.Error("failed to read %s: %v", s.path, err)
		return nil, fmt.Errorf("read deck file: %w", err)
	}
	decks := decode(ctx, raw)
	log.Debug("read %d decks from %s", len(decks), s.path)
	return decks, nil
}

func (s *FileStore) Write(ctx context.Context, decks []models.Deck) error {
	log := logger.FromContext(ctx).WithPrefix("file_store")
	if err := s.ensure(ctx); err != nil {
		return err
	}
	data, err := encode(decks)
	if err != nil {
		return fmt.Errorf("encode decks: %w", err)
	}
	if err := writeAtomic(s.path, data); err != nil {
		log.Error("failed to write %s: %v", s.path, err)
		return fmt.Errorf("write deck file: %w", err)
	}
	log.Debug("wrote %d decks to %s", len(decks), s.path)
	return nil
}

// ensure creates the parent directory and an empty document if needed.
func (s *FileStore) ensure(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	_, err := os.Stat(s.path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat deck file: %w", err)
	}
	logger.FromContext(ctx).WithPrefix("file_store").Info("creating empty deck file at %s", s.path)
	if err := writeAtomic(s.path, emptyDocument); err != nil {
		return fmt.Errorf("create deck file: %w", err)
	}
	return nil
}

// writeAtomic writes data to a temp file next to path and renames it into
// place, so readers see either the old or the new document.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
