package contentstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/avolkovx/listsync/internal/common"
	"github.com/avolkovx/listsync/internal/server/models"
)

// FSStore keeps one JSON file per list under <dataDir>/users/<ownerID>/.
// Writes go through a temp file and an atomic rename so a crash never leaves
// a half-written blob behind.
type FSStore struct {
	dataDir string
}

func NewFSStore(dataDir string) (*FSStore, error) {
	root := filepath.Join(dataDir, "users")
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("content dir error: %w", err)
	}
	return &FSStore{dataDir: dataDir}, nil
}

func (s *FSStore) ownerDir(ownerID string) string {
	return filepath.Join(s.dataDir, "users", ownerID)
}

func (s *FSStore) path(ownerID, listID string) string {
	return filepath.Join(s.ownerDir(ownerID), listID+".json")
}

func (s *FSStore) Load(ctx context.Context, ownerID, listID string) (*models.ListContent, error) {
	data, err := os.ReadFile(s.path(ownerID, listID))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("content read error: %w", err)
	}

	content := &models.ListContent{}
	if err := json.Unmarshal(data, content); err != nil {
		return nil, fmt.Errorf("content decode error: %w", err)
	}

	return content, nil
}

func (s *FSStore) write(path string, content *models.ListContent) error {
	data, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("content encode error: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o640); err != nil {
		return fmt.Errorf("content write error: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("content rename error: %w", err)
	}

	return nil
}

func (s *FSStore) Store(ctx context.Context, ownerID, listID string, content *models.ListContent) error {
	if err := os.MkdirAll(s.ownerDir(ownerID), 0o750); err != nil {
		return fmt.Errorf("content dir error: %w", err)
	}
	return s.write(s.path(ownerID, listID), content)
}

func (s *FSStore) Update(ctx context.Context, ownerID, listID string, content *models.ListContent) error {
	path := s.path(ownerID, listID)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return common.ErrNotFound
		}
		return fmt.Errorf("content stat error: %w", err)
	}
	return s.write(path, content)
}

func (s *FSStore) Move(ctx context.Context, oldOwnerID, newOwnerID, listID string) error {
	src := s.path(oldOwnerID, listID)
	if _, err := os.Stat(src); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return common.ErrNotFound
		}
		return fmt.Errorf("content stat error: %w", err)
	}
	if err := os.MkdirAll(s.ownerDir(newOwnerID), 0o750); err != nil {
		return fmt.Errorf("content dir error: %w", err)
	}
	if err := os.Rename(src, s.path(newOwnerID, listID)); err != nil {
		return fmt.Errorf("content rename error: %w", err)
	}
	return nil
}

func (s *FSStore) Delete(ctx context.Context, ownerID, listID string) error {
	err := os.Remove(s.path(ownerID, listID))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return common.ErrNotFound
		}
		return fmt.Errorf("content delete error: %w", err)
	}
	return nil
}
