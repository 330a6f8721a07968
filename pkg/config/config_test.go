package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/sysdot/pkg/config"
	"github.com/arthur-debert/sysdot/pkg/paths"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPaths(t *testing.T) *paths.Paths {
	t.Helper()
	t.Setenv(paths.EnvConfigDir, t.TempDir())
	return paths.New()
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load(newPaths(t))
	require.NoError(t, err)

	assert.True(t, cfg.Run.Confirm)
	assert.True(t, cfg.Run.StrictUnknown)
	assert.Equal(t, "pacman", cfg.Commands.Pacman)
	assert.Equal(t, "sdboot-manage", cfg.Commands.SdbootManage)
	assert.Empty(t, cfg.Backup.Root)
	assert.Empty(t, cfg.Catalog.Path)
}

func TestLoadSystemFileOverridesDefaults(t *testing.T) {
	p := newPaths(t)
	require.NoError(t, os.MkdirAll(p.ConfigDir(), 0755))

	content := "[run]\nconfirm = false\n\n[backup]\nroot = \"/var/lib/sysdot/backups\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(p.ConfigDir(), "sysdot.toml"), []byte(content), 0644))

	cfg, err := config.Load(p)
	require.NoError(t, err)

	assert.False(t, cfg.Run.Confirm)
	assert.Equal(t, "/var/lib/sysdot/backups", cfg.Backup.Root)
	// Untouched keys keep their defaults
	assert.Equal(t, "systemctl", cfg.Commands.Systemctl)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	p := newPaths(t)
	require.NoError(t, os.MkdirAll(p.ConfigDir(), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(p.ConfigDir(), "sysdot.toml"), []byte("[run]\nconfirm = true\n"), 0644))

	t.Setenv("SYSDOT_RUN_CONFIRM", "false")

	cfg, err := config.Load(p)
	require.NoError(t, err)
	assert.False(t, cfg.Run.Confirm)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	p := newPaths(t)
	require.NoError(t, os.MkdirAll(p.ConfigDir(), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(p.ConfigDir(), "sysdot.toml"), []byte("not [valid toml"), 0644))

	_, err := config.Load(p)
	assert.Error(t, err)
}
