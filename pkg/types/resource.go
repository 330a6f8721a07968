package types

import "io/fs"

// Kind identifies the class of system state a Resource describes.
type Kind string

const (
	// KindFileCopy deploys a whole file with exact desired bytes
	KindFileCopy Kind = "file-copy"

	// KindTextPatch manages a single KEY=value line inside a multi-key file
	KindTextPatch Kind = "text-patch"

	// KindEnvVar manages a KEY=value line in /etc/environment
	KindEnvVar Kind = "env-var"

	// KindKernelParam manages a literal token in the kernel command line
	KindKernelParam Kind = "kernel-param"

	// KindServiceMask requires a systemd unit to be masked
	KindServiceMask Kind = "service-mask"

	// KindServiceEnable requires a systemd unit to be enabled
	KindServiceEnable Kind = "service-enable"

	// KindPackagePresent requires a package to be installed
	KindPackagePresent Kind = "package-present"

	// KindPackageAbsent requires a package to not be installed
	KindPackageAbsent Kind = "package-absent"

	// KindMountOption requires a mount option in the options column of
	// every eligible (non-swap, non-comment) fstab entry
	KindMountOption Kind = "mount-option"
)

// PredicateType identifies a precondition check evaluated against Facts.
type PredicateType string

const (
	// PredPackageInstalled holds when the named package is installed
	PredPackageInstalled PredicateType = "package-installed"

	// PredPackageMissing holds when the named package is not installed
	PredPackageMissing PredicateType = "package-missing"

	// PredHardwarePresent holds when a PCI/USB modalias matches the glob
	PredHardwarePresent PredicateType = "hardware-present"

	// PredNoLVM holds when no LVM logical volumes exist
	PredNoLVM PredicateType = "no-lvm"

	// PredLUKSRoot holds when /etc/crypttab has an active entry
	PredLUKSRoot PredicateType = "luks-root"

	// PredNoLUKSRoot holds when /etc/crypttab has no active entry
	PredNoLUKSRoot PredicateType = "no-luks-root"

	// PredNoBtrfsSubvol holds when no fstab entry mounts a btrfs subvolume
	PredNoBtrfsSubvol PredicateType = "no-btrfs-subvol"

	// PredFileExists holds when the named path exists
	PredFileExists PredicateType = "file-exists"

	// PredNotVirtualized holds when not running inside a VM
	PredNotVirtualized PredicateType = "not-virtualized"
)

// Precondition gates whether a Resource is in scope for a run. A Resource
// whose preconditions do not all hold resolves to Skip, never to a mutation.
type Precondition struct {
	Type PredicateType `koanf:"type" toml:"type" yaml:"type"`

	// Arg is the predicate argument: a package name, a path, or a
	// modalias glob. Unused for the nullary predicates.
	Arg string `koanf:"arg" toml:"arg" yaml:"arg"`
}

// RuntimeCheck describes a live-system expectation that only holds after the
// Resource has been applied (and, for RequiresReboot resources, after a
// reboot). Exactly one of the source fields is set.
type RuntimeCheck struct {
	// CmdlineToken must appear verbatim in /proc/cmdline.
	CmdlineToken string `koanf:"cmdline_token" toml:"cmdline_token" yaml:"cmdline_token"`

	// SysfsPath is read and its trimmed content compared against Want.
	SysfsPath string `koanf:"sysfs_path" toml:"sysfs_path" yaml:"sysfs_path"`

	// UnitActive names a systemd unit that must report active.
	UnitActive string `koanf:"unit_active" toml:"unit_active" yaml:"unit_active"`

	// Want is the expected value (or contained substring) for SysfsPath.
	Want string `koanf:"want" toml:"want" yaml:"want"`
}

// Resource is the unit of reconciliation: one declaratively desired piece of
// system configuration.
type Resource struct {
	// ID is a stable key, unique within a Catalog.
	ID string `koanf:"id" toml:"id" yaml:"id"`

	Kind Kind `koanf:"kind" toml:"kind" yaml:"kind"`

	// Target is a filesystem path, a unit name, or a package name,
	// depending on Kind.
	Target string `koanf:"target" toml:"target" yaml:"target"`

	// Content carries the desired state: full file bytes for FileCopy,
	// the value half of KEY=value for TextPatch/EnvVar. Empty for the
	// service and package kinds, where presence is the whole story.
	Content string `koanf:"content" toml:"content" yaml:"content"`

	// Key is the KEY half for TextPatch/EnvVar resources.
	Key string `koanf:"key" toml:"key" yaml:"key"`

	// Token is the literal cmdline token for KernelParam resources.
	Token string `koanf:"token" toml:"token" yaml:"token"`

	// ConfigKey is the option-string key inside Target that carries the
	// configured kernel command line (e.g. LINUX_OPTIONS). KernelParam only.
	ConfigKey string `koanf:"config_key" toml:"config_key" yaml:"config_key"`

	// Mode is the file mode for FileCopy targets; zero means 0644.
	Mode fs.FileMode `koanf:"mode" toml:"mode" yaml:"mode"`

	Preconditions []Precondition `koanf:"preconditions" toml:"preconditions" yaml:"preconditions"`

	RequiresSudo   bool `koanf:"requires_sudo" toml:"requires_sudo" yaml:"requires_sudo"`
	RequiresReboot bool `koanf:"requires_reboot" toml:"requires_reboot" yaml:"requires_reboot"`

	// Unsafe marks resources whose mutation can render the system
	// unbootable when skipped half-way (the LUKS boot hook). The executor
	// demands explicit confirmation before touching them.
	Unsafe bool `koanf:"unsafe" toml:"unsafe" yaml:"unsafe"`

	RuntimeCheck *RuntimeCheck `koanf:"runtime_check" toml:"runtime_check" yaml:"runtime_check"`
}

// FileMode returns the effective mode for FileCopy targets.
func (r Resource) FileMode() fs.FileMode {
	if r.Mode == 0 {
		return 0o644
	}
	return r.Mode
}

// DesiredLine returns the full KEY=value line for TextPatch/EnvVar resources.
func (r Resource) DesiredLine() string {
	return r.Key + "=" + r.Content
}
