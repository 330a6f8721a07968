package paths_test

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/sysdot/pkg/paths"
	"github.com/stretchr/testify/assert"
)

func TestBackupRootHonorsEnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(paths.EnvBackupRoot, dir)

	p := paths.New()
	assert.Equal(t, dir, p.BackupRoot())
}

func TestBackupDirForRunIsKeyedByRunID(t *testing.T) {
	root := t.TempDir()
	t.Setenv(paths.EnvBackupRoot, root)

	p := paths.New()
	a := p.BackupDirForRun("20260826-093000")
	b := p.BackupDirForRun("20260826-101500")

	assert.NotEqual(t, a, b)
	assert.Equal(t, filepath.Join(root, "20260826-093000"), a)
}

func TestStatePathsUnderXDGStateHome(t *testing.T) {
	stateHome := t.TempDir()
	t.Setenv("XDG_STATE_HOME", stateHome)
	t.Setenv(paths.EnvBackupRoot, "")
	t.Setenv(paths.EnvRunLogDir, "")

	p := paths.New()
	assert.Equal(t, filepath.Join(stateHome, "sysdot", "backups"), p.BackupRoot())
	assert.Equal(t, filepath.Join(stateHome, "sysdot", "runs"), p.RunLogDir())
	assert.Equal(t, filepath.Join(stateHome, "sysdot", "runs", "x.log"), p.RunLogFile("x"))
}

func TestConfigPathsHonorOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(paths.EnvConfigDir, dir)

	p := paths.New()
	assert.Equal(t, dir, p.ConfigDir())
	assert.Equal(t, filepath.Join(dir, "sysdot.toml"), p.ConfigFilePath())
	assert.Equal(t, filepath.Join(dir, "catalog.toml"), p.CatalogOverridePath())
}
