package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/abzali/cue/internal/domain"
	cueerrors "github.com/abzali/cue/internal/errors"
)

const (
	workspacesDir  = "workspaces"
	filePermission = 0644
	dirPermission  = 0755
)

// FileStore is the durable tier: one JSON file per storage key under
// basePath/workspaces, written atomically.
type FileStore struct {
	basePath string
	logger   *slog.Logger
}

// NewFileStore creates a file-backed snapshot store rooted at basePath.
func NewFileStore(basePath string, logger *slog.Logger) *FileStore {
	return &FileStore{basePath: basePath, logger: logger}
}

// Save writes the snapshot for the given key.
func (s *FileStore) Save(key string, snap domain.Snapshot) error {
	if err := validateKey(key); err != nil {
		return fmt.Errorf("invalid storage key: %w", err)
	}
	if err := os.MkdirAll(filepath.Join(s.basePath, workspacesDir), dirPermission); err != nil {
		return fmt.Errorf("create workspaces directory: %w", err)
	}

	path := s.snapshotPath(key)
	if err := s.verifyPathInWorkspacesDir(path); err != nil {
		return err
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := atomicWriteFile(path, data, filePermission); err != nil {
		return fmt.Errorf("write snapshot file: %w", err)
	}

	s.logger.Debug("saved snapshot",
		slog.String("key", key),
		slog.String("path", path))
	return nil
}

// Load reads and parses the snapshot for the given key. A missing file
// yields ErrSnapshotNotFound; corrupt JSON yields a parse error. The
// adapter treats both as "no data".
func (s *FileStore) Load(key string) (*domain.Snapshot, error) {
	if err := validateKey(key); err != nil {
		return nil, fmt.Errorf("invalid storage key: %w", err)
	}
	path := s.snapshotPath(key)
	if err := s.verifyPathInWorkspacesDir(path); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("key %q: %w", key, cueerrors.ErrSnapshotNotFound)
		}
		return nil, fmt.Errorf("read snapshot file: %w", err)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}

	s.logger.Debug("loaded snapshot",
		slog.String("key", key),
		slog.String("path", path))
	return &snap, nil
}

// Delete removes the snapshot for the given key. Deleting an absent
// snapshot is not an error.
func (s *FileStore) Delete(key string) error {
	if err := validateKey(key); err != nil {
		return fmt.Errorf("invalid storage key: %w", err)
	}
	path := s.snapshotPath(key)
	if err := s.verifyPathInWorkspacesDir(path); err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("delete snapshot file: %w", err)
	}

	s.logger.Debug("deleted snapshot", slog.String("key", key))
	return nil
}

func (s *FileStore) snapshotPath(key string) string {
	return filepath.Join(s.basePath, workspacesDir, key+".json")
}

// verifyPathInWorkspacesDir checks that the resolved path stays within
// the workspaces directory, complementing validateKey.
func (s *FileStore) verifyPathInWorkspacesDir(path string) error {
	base := filepath.Join(s.basePath, workspacesDir)
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return fmt.Errorf("path outside workspaces directory: %w", err)
	}
	if strings.HasPrefix(rel, "..") {
		return fmt.Errorf("path %q escapes workspaces directory", path)
	}
	return nil
}

// validateKey checks that a storage key is safe for use as a filename.
// Keys come from user ids or the fixed guest key.
func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("storage key must not be empty")
	}
	if strings.Contains(key, "..") {
		return fmt.Errorf("storage key must not contain %q", "..")
	}
	if strings.ContainsAny(key, "/\\") {
		return fmt.Errorf("storage key must not contain path separators")
	}
	if strings.ContainsRune(key, 0) {
		return fmt.Errorf("storage key must not contain null bytes")
	}
	return nil
}

// atomicWriteFile writes data to a file atomically by writing to a temp
// file in the same directory, syncing, then renaming over the target.
func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := f.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}

	success = true
	return nil
}
