package verifier_test

import (
	"context"
	"testing"

	"github.com/arthur-debert/sysdot/pkg/inspector"
	"github.com/arthur-debert/sysdot/pkg/system"
	"github.com/arthur-debert/sysdot/pkg/testutil"
	"github.com/arthur-debert/sysdot/pkg/types"
	"github.com/arthur-debert/sysdot/pkg/verifier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newVerifier(t *testing.T, files map[string]string, runner *testutil.FakeRunner) *verifier.Verifier {
	t.Helper()
	fs := testutil.NewMemoryFS(t, files)
	sm := system.NewSystemd(runner, "")
	ins := inspector.New(fs, system.NewPacman(runner, ""), sm)
	v := verifier.New(fs, ins, sm)
	v.CmdlinePath = "/proc/cmdline"
	return v
}

func TestStaticPassAndFail(t *testing.T) {
	resources := []types.Resource{
		{ID: "loader-conf", Kind: types.KindFileCopy, Target: "/boot/loader/loader.conf", Content: "timeout 0\n"},
		{ID: "sysctl-tuning", Kind: types.KindFileCopy, Target: "/etc/sysctl.d/tuning.conf", Content: "vm.swappiness=10\n"},
	}

	v := newVerifier(t, map[string]string{
		"/boot/loader/loader.conf":  "timeout 0\n",
		"/etc/sysctl.d/tuning.conf": "vm.swappiness=60\n",
	}, testutil.NewFakeRunner())

	results := v.Static(context.Background(), resources, types.Facts{})
	require.Len(t, results, 2)

	assert.Equal(t, types.VerifyPass, results[0].Status)
	assert.Equal(t, types.VerifyFail, results[1].Status)
	assert.Equal(t, "vm.swappiness=60", results[1].Actual)
	assert.True(t, types.AnyFailed(results))
}

func TestStaticSkipsOutOfScope(t *testing.T) {
	r := types.Resource{
		ID:     "iwd-main-conf",
		Kind:   types.KindFileCopy,
		Target: "/etc/iwd/main.conf",
		Preconditions: []types.Precondition{
			{Type: types.PredPackageInstalled, Arg: "iwd"},
		},
	}
	facts := types.Facts{InstalledPackages: map[string]bool{
		"iwd": false,
	}}

	v := newVerifier(t, nil, testutil.NewFakeRunner())
	results := v.Static(context.Background(), []types.Resource{r}, facts)
	require.Len(t, results, 1)

	assert.Equal(t, types.VerifySkipped, results[0].Status)
	assert.Contains(t, results[0].Message, "iwd not installed")
	assert.False(t, types.AnyFailed(results))
}

func TestStaticUnknownIsSkippedNotFailed(t *testing.T) {
	r := types.Resource{ID: "pkg-iwd", Kind: types.KindPackagePresent, Target: "iwd"}

	runner := testutil.NewFakeRunner().MarkMissing("pacman")
	v := newVerifier(t, nil, runner)
	results := v.Static(context.Background(), []types.Resource{r}, types.Facts{})

	assert.Equal(t, types.VerifySkipped, results[0].Status)
	assert.False(t, types.AnyFailed(results))
}

func TestRuntimeCmdlineToken(t *testing.T) {
	r := types.Resource{
		ID:           "cmdline-nowatchdog",
		Kind:         types.KindKernelParam,
		Target:       "/etc/sdboot-manage.conf",
		ConfigKey:    "LINUX_OPTIONS",
		Token:        "nowatchdog",
		RuntimeCheck: &types.RuntimeCheck{CmdlineToken: "nowatchdog"},
	}

	v := newVerifier(t, map[string]string{
		"/proc/cmdline": "BOOT_IMAGE=/vmlinuz-linux root=UUID=x rw quiet nowatchdog\n",
	}, testutil.NewFakeRunner())

	results := v.Runtime(context.Background(), []types.Resource{r}, types.Facts{})
	require.Len(t, results, 1)
	assert.Equal(t, "cmdline-nowatchdog/runtime", results[0].CheckID)
	assert.Equal(t, types.VerifyPass, results[0].Status)
}

func TestRuntimePendingRebootIsInfo(t *testing.T) {
	r := types.Resource{
		ID:             "cmdline-nowatchdog",
		Kind:           types.KindKernelParam,
		Target:         "/etc/sdboot-manage.conf",
		ConfigKey:      "LINUX_OPTIONS",
		Token:          "nowatchdog",
		RequiresReboot: true,
		RuntimeCheck:   &types.RuntimeCheck{CmdlineToken: "nowatchdog"},
	}

	// configured but the running kernel predates the change
	v := newVerifier(t, map[string]string{
		"/proc/cmdline":           "BOOT_IMAGE=/vmlinuz-linux root=UUID=x rw quiet\n",
		"/etc/sdboot-manage.conf": `LINUX_OPTIONS="quiet nowatchdog"` + "\n",
	}, testutil.NewFakeRunner())

	results := v.Runtime(context.Background(), []types.Resource{r}, types.Facts{})
	require.Len(t, results, 1)
	assert.Equal(t, types.VerifyInfo, results[0].Status)
	assert.Equal(t, "pending reboot", results[0].Message)
	assert.False(t, types.AnyFailed(results))
}

func TestRuntimeFailWhenNotConfiguredEither(t *testing.T) {
	r := types.Resource{
		ID:             "cmdline-nowatchdog",
		Kind:           types.KindKernelParam,
		Target:         "/etc/sdboot-manage.conf",
		ConfigKey:      "LINUX_OPTIONS",
		Token:          "nowatchdog",
		RequiresReboot: true,
		RuntimeCheck:   &types.RuntimeCheck{CmdlineToken: "nowatchdog"},
	}

	v := newVerifier(t, map[string]string{
		"/proc/cmdline":           "BOOT_IMAGE=/vmlinuz-linux root=UUID=x rw quiet\n",
		"/etc/sdboot-manage.conf": `LINUX_OPTIONS="quiet"` + "\n",
	}, testutil.NewFakeRunner())

	results := v.Runtime(context.Background(), []types.Resource{r}, types.Facts{})
	assert.Equal(t, types.VerifyFail, results[0].Status)
	assert.True(t, types.AnyFailed(results))
}

func TestRuntimeSysfsValue(t *testing.T) {
	r := types.Resource{
		ID:     "udev-io-schedulers",
		Kind:   types.KindFileCopy,
		Target: "/etc/udev/rules.d/60-ioschedulers.rules",
		RuntimeCheck: &types.RuntimeCheck{
			SysfsPath: "/sys/block/nvme0n1/queue/scheduler",
			Want:      "[none]",
		},
	}

	v := newVerifier(t, map[string]string{
		"/sys/block/nvme0n1/queue/scheduler": "[none] mq-deadline kyber\n",
	}, testutil.NewFakeRunner())

	results := v.Runtime(context.Background(), []types.Resource{r}, types.Facts{})
	assert.Equal(t, types.VerifyPass, results[0].Status)
}

func TestRuntimeUnitActive(t *testing.T) {
	r := types.Resource{
		ID:           "enable-iwd",
		Kind:         types.KindServiceEnable,
		Target:       "iwd.service",
		RuntimeCheck: &types.RuntimeCheck{UnitActive: "iwd.service"},
	}

	runner := testutil.NewFakeRunner().
		Script("systemctl is-active iwd.service", 3, "inactive\n")
	v := newVerifier(t, nil, runner)

	results := v.Runtime(context.Background(), []types.Resource{r}, types.Facts{})
	assert.Equal(t, types.VerifyFail, results[0].Status)
}

func TestRuntimeSkipsResourcesWithoutChecks(t *testing.T) {
	r := types.Resource{ID: "loader-conf", Kind: types.KindFileCopy, Target: "/boot/loader/loader.conf"}

	v := newVerifier(t, nil, testutil.NewFakeRunner())
	results := v.Runtime(context.Background(), []types.Resource{r}, types.Facts{})
	assert.Empty(t, results)
}

func TestRuntimeUnreadableSysfsIsSkipped(t *testing.T) {
	r := types.Resource{
		ID:           "udev-io-schedulers",
		Kind:         types.KindFileCopy,
		Target:       "/etc/udev/rules.d/60-ioschedulers.rules",
		RuntimeCheck: &types.RuntimeCheck{SysfsPath: "/sys/block/nvme0n1/queue/scheduler", Want: "[none]"},
	}

	v := newVerifier(t, nil, testutil.NewFakeRunner())
	results := v.Runtime(context.Background(), []types.Resource{r}, types.Facts{})
	assert.Equal(t, types.VerifySkipped, results[0].Status)
}

func TestDualRepresentationDriftVerifiesIndependently(t *testing.T) {
	modprobe := types.Resource{
		ID:      "mt7921e-aspm-modprobe",
		Kind:    types.KindFileCopy,
		Target:  "/etc/modprobe.d/mt7921e.conf",
		Content: "options mt7921e disable_aspm=1\n",
	}
	cmdline := types.Resource{
		ID:             "mt7921e-aspm-cmdline",
		Kind:           types.KindKernelParam,
		Target:         "/etc/sdboot-manage.conf",
		ConfigKey:      "LINUX_OPTIONS",
		Token:          "mt7921e.disable_aspm=1",
		RequiresReboot: true,
		RuntimeCheck:   &types.RuntimeCheck{CmdlineToken: "mt7921e.disable_aspm=1"},
	}

	// the kernel token is configured and active while the module-option
	// file is missing: each representation answers for itself
	v := newVerifier(t, map[string]string{
		"/etc/sdboot-manage.conf": "LINUX_OPTIONS=\"quiet mt7921e.disable_aspm=1\"\n",
		"/proc/cmdline":           "BOOT_IMAGE=/vmlinuz-linux quiet mt7921e.disable_aspm=1\n",
	}, testutil.NewFakeRunner())

	resources := []types.Resource{modprobe, cmdline}
	results := append(
		v.Static(context.Background(), resources, types.Facts{}),
		v.Runtime(context.Background(), resources, types.Facts{})...)
	require.Len(t, results, 3)

	byID := map[string]types.VerificationResult{}
	for _, res := range results {
		byID[res.CheckID] = res
	}
	assert.Equal(t, types.VerifyFail, byID["mt7921e-aspm-modprobe"].Status)
	assert.Equal(t, types.VerifyPass, byID["mt7921e-aspm-cmdline"].Status)
	assert.Equal(t, types.VerifyPass, byID["mt7921e-aspm-cmdline/runtime"].Status)

	var fails int
	for _, res := range results {
		if res.Status == types.VerifyFail {
			fails++
		}
	}
	assert.Equal(t, 1, fails)
}
