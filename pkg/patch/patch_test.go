package patch_test

import (
	"testing"

	"github.com/arthur-debert/sysdot/pkg/errors"
	"github.com/arthur-debert/sysdot/pkg/patch"
	"github.com/arthur-debert/sysdot/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyLine(t *testing.T) {
	content := "# comment\nHOOKS=(base udev)\nMODULES=()\n"

	line, ok := patch.KeyLine(content, "HOOKS")
	assert.True(t, ok)
	assert.Equal(t, "HOOKS=(base udev)", line)

	_, ok = patch.KeyLine(content, "BINARIES")
	assert.False(t, ok)

	// prefix of a key must not match
	_, ok = patch.KeyLine("HOOKS_EXTRA=x\n", "HOOKS")
	assert.False(t, ok)
}

func TestKeyValueStripsQuotes(t *testing.T) {
	value, ok := patch.KeyValue("LINUX_OPTIONS=\"quiet rw\"\n", "LINUX_OPTIONS")
	require.True(t, ok)
	assert.Equal(t, "quiet rw", value)

	value, ok = patch.KeyValue("LINUX_OPTIONS='quiet'\n", "LINUX_OPTIONS")
	require.True(t, ok)
	assert.Equal(t, "quiet", value)

	value, ok = patch.KeyValue("LINUX_OPTIONS=quiet\n", "LINUX_OPTIONS")
	require.True(t, ok)
	assert.Equal(t, "quiet", value)
}

func TestHasToken(t *testing.T) {
	assert.True(t, patch.HasToken("quiet nowatchdog rw", "nowatchdog"))
	assert.False(t, patch.HasToken("quiet nowatchdog rw", "watchdog"))
	assert.False(t, patch.HasToken("nmi_watchdog=0", "nmi_watchdog"))
	assert.True(t, patch.HasToken("nmi_watchdog=0", "nmi_watchdog=0"))
}

func TestRenderFileCopy(t *testing.T) {
	r := types.Resource{Kind: types.KindFileCopy, Content: "default @saved\n"}
	out, err := patch.Render(r, "whatever", true)
	require.NoError(t, err)
	assert.Equal(t, "default @saved\n", out)
}

func TestRenderTextPatchReplacesLineKeepingRest(t *testing.T) {
	r := types.Resource{
		Kind:    types.KindTextPatch,
		Key:     "HOOKS",
		Content: "(base systemd block filesystems fsck)",
	}
	current := "# vim:set ft=sh\nMODULES=()\nHOOKS=(base udev block filesystems fsck)\nCOMPRESSION=\"zstd\"\n"

	out, err := patch.Render(r, current, true)
	require.NoError(t, err)
	assert.Contains(t, out, "HOOKS=(base systemd block filesystems fsck)")
	assert.Contains(t, out, "MODULES=()")
	assert.Contains(t, out, "COMPRESSION=\"zstd\"")
	assert.NotContains(t, out, "base udev")
}

func TestRenderTextPatchAppendsMissingLine(t *testing.T) {
	r := types.Resource{Kind: types.KindEnvVar, Key: "THREADED_IRQS", Content: "1"}

	out, err := patch.Render(r, "LANG=en_US.UTF-8\n", true)
	require.NoError(t, err)
	assert.Equal(t, "LANG=en_US.UTF-8\nTHREADED_IRQS=1\n", out)

	out, err = patch.Render(r, "", false)
	require.NoError(t, err)
	assert.Equal(t, "THREADED_IRQS=1\n", out)
}

func TestRenderKernelParam(t *testing.T) {
	r := types.Resource{
		Kind:      types.KindKernelParam,
		ConfigKey: "LINUX_OPTIONS",
		Token:     "nowatchdog",
	}

	tests := []struct {
		name    string
		current string
		exists  bool
		want    string
	}{
		{
			name:   "new_file",
			exists: false,
			want:   "LINUX_OPTIONS=\"nowatchdog\"\n",
		},
		{
			name:    "append_token_to_existing_options",
			current: "LINUX_OPTIONS=\"quiet rw\"\n",
			exists:  true,
			want:    "LINUX_OPTIONS=\"quiet rw nowatchdog\"\n",
		},
		{
			name:    "token_already_there_is_noop",
			current: "LINUX_OPTIONS=\"quiet nowatchdog\"\n",
			exists:  true,
			want:    "LINUX_OPTIONS=\"quiet nowatchdog\"\n",
		},
		{
			name:    "missing_line_appended",
			current: "# sdboot-manage config\nREMOVE_OBSOLETE=\"yes\"\n",
			exists:  true,
			want:    "# sdboot-manage config\nREMOVE_OBSOLETE=\"yes\"\nLINUX_OPTIONS=\"nowatchdog\"\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := patch.Render(r, tt.current, tt.exists)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestMountOptionSatisfied(t *testing.T) {
	satisfied := "UUID=1 / ext4 rw,noatime 0 1\nUUID=2 none swap defaults 0 0\n"
	ok, err := patch.MountOptionSatisfied(satisfied, "noatime")
	require.NoError(t, err)
	assert.True(t, ok)

	missing := "UUID=1 / ext4 rw,relatime 0 1\n"
	ok, err = patch.MountOptionSatisfied(missing, "noatime")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMountOptionAmbiguousEntryIsUnsafe(t *testing.T) {
	_, err := patch.MountOptionSatisfied("UUID=1 /\n", "noatime")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrUnsafeSystemState))
}

func TestRenderMountOption(t *testing.T) {
	r := types.Resource{Kind: types.KindMountOption, Content: "noatime"}
	current := "# static fs info\nUUID=1 / ext4 rw,relatime 0 1\nUUID=2 none swap defaults 0 0\nUUID=3 /home ext4 rw,noatime 0 2\n"

	out, err := patch.Render(r, current, true)
	require.NoError(t, err)

	assert.Contains(t, out, "UUID=1 / ext4 rw,relatime,noatime 0 1")
	// swap untouched
	assert.Contains(t, out, "UUID=2 none swap defaults 0 0")
	// already satisfied line not doubled
	assert.Contains(t, out, "UUID=3 /home ext4 rw,noatime 0 2")
	assert.Contains(t, out, "# static fs info")
}
