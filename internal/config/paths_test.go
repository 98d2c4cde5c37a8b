package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPaths(t *testing.T) {
	paths, err := GetPaths()
	require.NoError(t, err)

	assert.NotEmpty(t, paths.ExecutableDir)
	assert.True(t, filepath.IsAbs(paths.ExecutableDir))

	// Everything hangs off the executable directory.
	assert.Equal(t, filepath.Join(paths.ExecutableDir, "output"), paths.OutputDir)
	assert.Equal(t, filepath.Join(paths.ExecutableDir, "logs"), paths.LogsDir)
	assert.Equal(t, filepath.Join(paths.OutputDir, "verification_log.csv"), paths.AttemptLogCSV)
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	paths := &Paths{
		ExecutableDir: dir,
		OutputDir:     filepath.Join(dir, "output"),
		LogsDir:       filepath.Join(dir, "logs"),
	}

	require.NoError(t, paths.EnsureDirectories())

	assert.DirExists(t, paths.OutputDir)
	assert.DirExists(t, paths.LogsDir)

	// Idempotent.
	assert.NoError(t, paths.EnsureDirectories())
}

func TestPathHelpers(t *testing.T) {
	paths := &Paths{
		OutputDir: "/tmp/app/output",
		LogsDir:   "/tmp/app/logs",
	}

	assert.Equal(t, filepath.Join("/tmp/app/logs", "verifier.log"), paths.GetLogPath("verifier.log"))
	assert.Equal(t, filepath.Join("/tmp/app/output", "out.csv"), paths.GetOutputPath("out.csv"))
}

func TestFileExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.txt")
	assert.False(t, FileExists(path))

	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	assert.True(t, FileExists(path))
}
