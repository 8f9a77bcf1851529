package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPaths(t *testing.T) {
	base := filepath.Join(string(filepath.Separator), "opt", "auxreport")
	abs := filepath.Join(string(filepath.Separator), "var", "log", "auxreport")

	paths := NewPaths(base, PathsConfig{ReportsDir: "out", LogsDir: abs})

	assert.Equal(t, base, paths.ExecutableDir)
	assert.Equal(t, filepath.Join(base, "data"), paths.DataDir, "empty entries use defaults")
	assert.Equal(t, filepath.Join(base, "out"), paths.ReportsDir)
	assert.Equal(t, abs, paths.LogsDir, "absolute entries are kept")

	assert.Equal(t, filepath.Join(base, "out", "r.xlsx"), paths.GetReportPath("r.xlsx"))
	assert.Equal(t, filepath.Join(abs, "app.log"), paths.GetLogPath("app.log"))
	assert.Equal(t, abs, paths.GetReportPath(abs))
}

func TestPaths_EnsureDirectories(t *testing.T) {
	base := t.TempDir()
	paths := NewPaths(base, PathsConfig{})

	require.NoError(t, paths.EnsureDirectories())
	for _, dir := range []string{paths.DataDir, paths.ReportsDir, paths.LogsDir} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
	assert.True(t, FileExists(paths.ReportsDir))
	assert.False(t, FileExists(filepath.Join(base, "missing")))

	paths.LogPathResolution(nil)
}

func TestResolvePaths_UsesExecutableDir(t *testing.T) {
	paths, err := GetPaths()
	require.NoError(t, err)

	exe, err := os.Executable()
	require.NoError(t, err)
	exe, err = filepath.EvalSymlinks(exe)
	require.NoError(t, err)

	assert.Equal(t, filepath.Dir(exe), paths.ExecutableDir)
	assert.Equal(t, filepath.Join(filepath.Dir(exe), "data", "reports"), paths.ReportsDir)
}
