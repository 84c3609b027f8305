package storage

import (
	"os"
	"path/filepath"
)

const appDir = ".cue"

// DefaultStoragePath returns the default durable storage location:
//   - macOS/Linux: ~/.cue
//   - Windows: %USERPROFILE%\.cue
func DefaultStoragePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, appDir), nil
}
