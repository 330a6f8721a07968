package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/sysdot/pkg/catalog"
	"github.com/arthur-debert/sysdot/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogLoads(t *testing.T) {
	c, err := catalog.Default()
	require.NoError(t, err)
	assert.NotEmpty(t, c.Resources())
}

func TestDefaultCatalogIDsAreUnique(t *testing.T) {
	c, err := catalog.Default()
	require.NoError(t, err)

	seen := make(map[string]bool)
	for _, r := range c.Resources() {
		assert.False(t, seen[r.ID], "duplicate id %q", r.ID)
		seen[r.ID] = true
	}
}

func TestDefaultCatalogKnownResources(t *testing.T) {
	c, err := catalog.Default()
	require.NoError(t, err)

	loader, ok := c.Get("loader-conf")
	require.True(t, ok)
	assert.Equal(t, types.KindFileCopy, loader.Kind)
	assert.Equal(t, "/boot/loader/loader.conf", loader.Target)
	assert.Contains(t, loader.Content, "default @saved")

	hooks, ok := c.Get("mkinitcpio-hooks")
	require.True(t, ok)
	assert.True(t, hooks.Unsafe)
	assert.True(t, hooks.RequiresReboot)

	aspm, ok := c.Get("mt7921e-aspm-cmdline")
	require.True(t, ok)
	assert.Equal(t, "mt7921e.disable_aspm=1", aspm.Token)
	assert.Equal(t, "LINUX_OPTIONS", aspm.ConfigKey)
	require.NotNil(t, aspm.RuntimeCheck)
	assert.Equal(t, "mt7921e.disable_aspm=1", aspm.RuntimeCheck.CmdlineToken)
}

func TestResourcesForFiltersByKind(t *testing.T) {
	c, err := catalog.Default()
	require.NoError(t, err)

	for _, r := range c.ResourcesFor(types.KindServiceMask) {
		assert.Equal(t, types.KindServiceMask, r.Kind)
	}
	assert.NotEmpty(t, c.ResourcesFor(types.KindKernelParam))
	assert.Empty(t, c.ResourcesFor(types.Kind("no-such-kind")))
}

func TestLoadOverrideReplacesByID(t *testing.T) {
	dir := t.TempDir()
	override := filepath.Join(dir, "catalog.toml")
	content := `
[[resource]]
id = "loader-conf"
kind = "file-copy"
target = "/boot/loader/loader.conf"
content = "default @saved\ntimeout 0\n"

[[resource]]
id = "extra-sysctl"
kind = "file-copy"
target = "/etc/sysctl.d/98-local.conf"
content = "vm.max_map_count = 1048576\n"
`
	require.NoError(t, os.WriteFile(override, []byte(content), 0644))

	base, err := catalog.Default()
	require.NoError(t, err)
	c, err := catalog.Load(override)
	require.NoError(t, err)

	// Replaced, not appended
	assert.Len(t, c.Resources(), len(base.Resources())+1)

	loader, ok := c.Get("loader-conf")
	require.True(t, ok)
	assert.Contains(t, loader.Content, "timeout 0")

	_, ok = c.Get("extra-sysctl")
	assert.True(t, ok)
}

func TestLoadOverrideAcceptsYAML(t *testing.T) {
	dir := t.TempDir()
	override := filepath.Join(dir, "catalog.yaml")
	content := `
resource:
  - id: extra-env
    kind: env-var
    target: /etc/environment
    key: EDITOR
    content: vim
`
	require.NoError(t, os.WriteFile(override, []byte(content), 0644))

	c, err := catalog.Load(override)
	require.NoError(t, err)

	r, ok := c.Get("extra-env")
	require.True(t, ok)
	assert.Equal(t, types.KindEnvVar, r.Kind)
	assert.Equal(t, "EDITOR=vim", r.DesiredLine())
}

func TestLoadRejectsInvalidResources(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{
			name: "file_copy_without_content",
			content: `
[[resource]]
id = "bad"
kind = "file-copy"
target = "/etc/foo"
`,
		},
		{
			name: "kernel_param_without_token",
			content: `
[[resource]]
id = "bad"
kind = "kernel-param"
target = "/etc/sdboot-manage.conf"
config_key = "LINUX_OPTIONS"
`,
		},
		{
			name: "unknown_kind",
			content: `
[[resource]]
id = "bad"
kind = "mystery"
target = "/etc/foo"
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))
			_, err := catalog.Load(path)
			assert.Error(t, err)
		})
	}
}

func TestExportRoundTrips(t *testing.T) {
	c, err := catalog.Default()
	require.NoError(t, err)

	data, err := c.Export()
	require.NoError(t, err)
	assert.Contains(t, string(data), "id = 'loader-conf'")

	// exported form must load back identically
	path := filepath.Join(t.TempDir(), "exported.toml")
	require.NoError(t, os.WriteFile(path, data, 0644))
	reloaded, err := catalog.Load(path)
	require.NoError(t, err)
	assert.Equal(t, len(c.Resources()), len(reloaded.Resources()))
}
