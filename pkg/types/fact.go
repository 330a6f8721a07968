package types

// Presence is a tri-state existence answer. Unknown means the underlying
// query was unavailable or failed; callers must treat it distinctly from
// Absent so a broken query can never trigger a destructive action.
type Presence string

const (
	PresencePresent Presence = "present"
	PresenceAbsent  Presence = "absent"
	PresenceUnknown Presence = "unknown"
)

// SystemFact is the Inspector's answer for one Resource: does the target
// exist, and does it match the desired state.
type SystemFact struct {
	ResourceID string
	Presence   Presence

	// Matches is only meaningful when Presence is PresencePresent.
	Matches bool

	// RawValue is the observed value, for diffing and operator display:
	// file content, the current KEY=value line, the enablement state, or
	// the installed package version.
	RawValue string

	// Detail says why Presence is Unknown when the inspector can tell,
	// e.g. an unreadable target or ambiguous mount syntax. It reaches the
	// operator as the skip reason.
	Detail string
}

// Facts are the host-level observations preconditions are evaluated against.
// Collected once per run, read-only afterwards.
type Facts struct {
	// InstalledPackages maps package name to installed, for every package
	// any catalog entry names. Packages whose query failed are absent
	// from the map entirely.
	InstalledPackages map[string]bool `yaml:"installed_packages"`

	// LVMPresent is true when at least one logical volume exists.
	LVMPresent bool `yaml:"lvm_present"`

	// LUKSRoot is true when /etc/crypttab carries an active entry.
	LUKSRoot bool `yaml:"luks_root"`

	// BtrfsSubvolRoot is true when any fstab entry mounts with subvol=.
	BtrfsSubvolRoot bool `yaml:"btrfs_subvol_root"`

	// Cmdline holds the active kernel command line tokens.
	Cmdline []string `yaml:"cmdline"`

	// Modaliases holds the modalias strings of all visible devices.
	Modaliases []string `yaml:"modaliases"`

	// PathExists answers PredFileExists for every path any catalog
	// precondition names.
	PathExists map[string]bool `yaml:"path_exists"`

	// Virtualized is true when systemd-detect-virt reports a VM.
	Virtualized bool `yaml:"virtualized"`
}

// HasCmdlineToken reports whether the active kernel command line carries the
// literal token.
func (f Facts) HasCmdlineToken(token string) bool {
	for _, t := range f.Cmdline {
		if t == token {
			return true
		}
	}
	return false
}
