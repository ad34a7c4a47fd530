package files

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"focbcli/internal/config"
)

// Manager resolves file operations against the configured path layout.
type Manager struct {
	paths *config.Paths
}

// NewManager creates a file manager over the pipeline path layout.
func NewManager(paths *config.Paths) *Manager {
	return &Manager{paths: paths}
}

// FileExists checks whether a file exists at the given path.
func (m *Manager) FileExists(path string) bool {
	fullPath := m.resolvePath(path)
	_, err := os.Stat(fullPath)
	exists := err == nil

	slog.Debug("FileExists check",
		slog.String("path", path),
		slog.String("full_path", fullPath),
		slog.Bool("exists", exists))

	return exists
}

// GetFileSize returns the size of a file in bytes.
func (m *Manager) GetFileSize(path string) (int64, error) {
	info, err := os.Stat(m.resolvePath(path))
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// resolvePath resolves a path relative to the pipeline directory layout.
// Absolute paths, and paths already rooted in the layout (the result of
// a Paths accessor), pass through untouched.
func (m *Manager) resolvePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, m.paths.DataDir+string(filepath.Separator)) ||
		strings.HasPrefix(path, m.paths.LogsDir+string(filepath.Separator)) {
		return path
	}

	switch {
	case strings.HasPrefix(path, "raw/"):
		return m.paths.GetRawPath(strings.TrimPrefix(path, "raw/"))
	case strings.HasPrefix(path, "clean/"):
		return filepath.Join(m.paths.CleanDir, strings.TrimPrefix(path, "clean/"))
	case strings.HasPrefix(path, "stats/"):
		return m.paths.GetStatsPath(strings.TrimPrefix(path, "stats/"))
	case strings.HasPrefix(path, "trend/"):
		return m.paths.GetTrendPath(strings.TrimPrefix(path, "trend/"))
	case strings.HasPrefix(path, "logs/"):
		return m.paths.GetLogPath(strings.TrimPrefix(path, "logs/"))
	default:
		return filepath.Join(m.paths.DataDir, path)
	}
}
