package files

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"auxreport/internal/config"
)

// Manager reads input files and resolves output locations
type Manager struct {
	paths        *config.Paths
	maxFileBytes int64
	logger       *slog.Logger
}

// NewManager creates a new file manager instance. maxFileBytes <= 0 means
// no size limit.
func NewManager(paths *config.Paths, maxFileBytes int64, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{paths: paths, maxFileBytes: maxFileBytes, logger: logger}
}

// ErrFileTooLarge is returned when an input exceeds the size limit
type ErrFileTooLarge struct {
	Path  string
	Size  int64
	Limit int64
}

func (e *ErrFileTooLarge) Error() string {
	return fmt.Sprintf("%s is %d bytes, above the %d byte limit", e.Path, e.Size, e.Limit)
}

// ReadFile reads the entire content of path, enforcing the size limit
func (m *Manager) ReadFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if m.maxFileBytes > 0 && info.Size() > m.maxFileBytes {
		return nil, &ErrFileTooLarge{Path: path, Size: info.Size(), Limit: m.maxFileBytes}
	}

	m.logger.Debug("Reading file",
		slog.String("path", path),
		slog.Int64("size_bytes", info.Size()))

	return io.ReadAll(f)
}

// OutputPath resolves where a report named name is written. Relative names
// land in the reports directory; an empty override uses the default name.
func (m *Manager) OutputPath(override, defaultName string) string {
	name := override
	if name == "" {
		name = defaultName
	}
	if filepath.IsAbs(name) || m.paths == nil {
		return name
	}
	if filepath.Dir(name) != "." {
		return name
	}
	return m.paths.GetReportPath(name)
}
