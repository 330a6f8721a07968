package system

import (
	"context"

	"github.com/arthur-debert/sysdot/pkg/types"
)

// PackageManager is the narrow contract sysdot needs from pacman.
type PackageManager interface {
	// IsInstalled returns tri-state presence plus the installed version
	// string when present. Unknown means the query itself failed.
	IsInstalled(ctx context.Context, name string) (types.Presence, string)

	Install(ctx context.Context, names ...string) (types.CommandResult, error)
	Remove(ctx context.Context, names ...string) (types.CommandResult, error)
}

// ServiceManager is the narrow contract sysdot needs from systemctl.
type ServiceManager interface {
	// EnablementState maps systemctl is-enabled output onto the
	// Enablement enum; query failure yields EnablementUnknown.
	EnablementState(ctx context.Context, unit string) types.Enablement

	Mask(ctx context.Context, units ...string) (types.CommandResult, error)
	Enable(ctx context.Context, units ...string) (types.CommandResult, error)

	// IsActive reports whether the unit is currently running.
	IsActive(ctx context.Context, unit string) (bool, error)
}

// InitramfsBuilder regenerates the initramfs and bootloader entries.
// Opaque by design; invoked only after all file and hook changes are staged.
type InitramfsBuilder interface {
	Rebuild(ctx context.Context) (types.CommandResult, error)
}

// UdevControl reloads and replays device rules.
type UdevControl interface {
	ReloadRules(ctx context.Context) (types.CommandResult, error)
	Trigger(ctx context.Context) (types.CommandResult, error)
}
