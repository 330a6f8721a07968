// Package facts collects the host-level observations preconditions are
// evaluated against: installed packages, LVM/LUKS/btrfs layout, active
// kernel command line, visible hardware. Collection is read-only and
// happens once per run.
package facts

import (
	"context"
	"strings"

	"github.com/arthur-debert/sysdot/pkg/logging"
	"github.com/arthur-debert/sysdot/pkg/system"
	"github.com/arthur-debert/sysdot/pkg/types"
	"github.com/rs/zerolog"
)

// Well-known source paths.
const (
	CrypttabPath = "/etc/crypttab"
	FstabPath    = "/etc/fstab"
	CmdlinePath  = "/proc/cmdline"
)

// modaliasGlobs covers the buses the catalog's hardware predicates target.
var modaliasGlobs = []string{
	"/sys/bus/pci/devices/*/modalias",
	"/sys/bus/usb/devices/*/modalias",
}

// Collector gathers Facts for one run.
type Collector struct {
	fs         types.FS
	pm         system.PackageManager
	runner     types.Runner
	lvsBin     string
	detectVirt string
	logger     zerolog.Logger
}

// NewCollector creates a Collector. Empty bin names take the defaults.
func NewCollector(fs types.FS, pm system.PackageManager, runner types.Runner, lvsBin, detectVirt string) *Collector {
	if lvsBin == "" {
		lvsBin = "lvs"
	}
	if detectVirt == "" {
		detectVirt = "systemd-detect-virt"
	}
	return &Collector{
		fs:         fs,
		pm:         pm,
		runner:     runner,
		lvsBin:     lvsBin,
		detectVirt: detectVirt,
		logger:     logging.GetLogger("facts"),
	}
}

// Collect gathers every fact the given resources' preconditions reference,
// plus the always-collected host layout facts.
func (c *Collector) Collect(ctx context.Context, resources []types.Resource) types.Facts {
	facts := types.Facts{
		InstalledPackages: make(map[string]bool),
		PathExists:        make(map[string]bool),
	}

	for _, name := range referencedPackages(resources) {
		presence, _ := c.pm.IsInstalled(ctx, name)
		if presence == types.PresenceUnknown {
			// Leave the package out of the map entirely; scope
			// evaluation treats that as unanswerable.
			c.logger.Warn().Str("package", name).Msg("Package state unknown")
			continue
		}
		facts.InstalledPackages[name] = presence == types.PresencePresent
	}

	for _, path := range referencedPaths(resources) {
		_, err := c.fs.Stat(path)
		facts.PathExists[path] = err == nil
	}

	facts.LVMPresent = c.lvmPresent(ctx)
	facts.LUKSRoot = c.luksRoot()
	facts.BtrfsSubvolRoot = c.btrfsSubvolRoot()
	facts.Cmdline = c.cmdline()
	facts.Modaliases = c.modaliases()
	facts.Virtualized = c.virtualized(ctx)

	c.logger.Debug().
		Bool("lvm", facts.LVMPresent).
		Bool("luks", facts.LUKSRoot).
		Bool("btrfsSubvol", facts.BtrfsSubvolRoot).
		Bool("virtualized", facts.Virtualized).
		Int("modaliases", len(facts.Modaliases)).
		Msg("Facts collected")

	return facts
}

func referencedPackages(resources []types.Resource) []string {
	seen := make(map[string]bool)
	var names []string
	for _, r := range resources {
		for _, p := range r.Preconditions {
			if p.Type == types.PredPackageInstalled || p.Type == types.PredPackageMissing {
				if !seen[p.Arg] {
					seen[p.Arg] = true
					names = append(names, p.Arg)
				}
			}
		}
	}
	return names
}

func referencedPaths(resources []types.Resource) []string {
	seen := make(map[string]bool)
	var paths []string
	for _, r := range resources {
		for _, p := range r.Preconditions {
			if p.Type == types.PredFileExists && !seen[p.Arg] {
				seen[p.Arg] = true
				paths = append(paths, p.Arg)
			}
		}
	}
	return paths
}

// lvmPresent is true when lvs reports at least one logical volume. A host
// without LVM tooling has no volumes either way.
func (c *Collector) lvmPresent(ctx context.Context) bool {
	result, err := c.runner.Run(ctx, c.lvsBin, "--noheadings")
	if err != nil {
		c.logger.Debug().Msg("lvs not available, assuming no LVM")
		return false
	}
	return result.ExitCode == 0 && strings.TrimSpace(result.Output) != ""
}

// luksRoot is true when crypttab carries at least one active entry.
func (c *Collector) luksRoot() bool {
	data, err := c.fs.ReadFile(CrypttabPath)
	if err != nil {
		return false
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "#") {
			return true
		}
	}
	return false
}

// btrfsSubvolRoot is true when any fstab entry mounts a btrfs subvolume.
func (c *Collector) btrfsSubvolRoot() bool {
	data, err := c.fs.ReadFile(FstabPath)
	if err != nil {
		return false
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.Contains(line, "subvol=") {
			return true
		}
	}
	return false
}

func (c *Collector) cmdline() []string {
	data, err := c.fs.ReadFile(CmdlinePath)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Cannot read kernel cmdline")
		return nil
	}
	return strings.Fields(string(data))
}

func (c *Collector) modaliases() []string {
	var aliases []string
	for _, glob := range modaliasGlobs {
		matches, err := c.fs.Glob(glob)
		if err != nil {
			continue
		}
		for _, path := range matches {
			data, err := c.fs.ReadFile(path)
			if err != nil {
				continue
			}
			if alias := strings.TrimSpace(string(data)); alias != "" {
				aliases = append(aliases, alias)
			}
		}
	}
	return aliases
}

func (c *Collector) virtualized(ctx context.Context) bool {
	result, err := c.runner.Run(ctx, c.detectVirt)
	if err != nil {
		return false
	}
	return result.ExitCode == 0 && strings.TrimSpace(result.Output) != "none"
}
