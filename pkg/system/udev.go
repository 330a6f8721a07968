package system

import (
	"context"

	"github.com/arthur-debert/sysdot/pkg/types"
)

// Udev reloads and replays device rules via udevadm.
type Udev struct {
	runner types.Runner
	bin    string
}

// NewUdev creates the udev collaborator. bin defaults to "udevadm".
func NewUdev(runner types.Runner, bin string) *Udev {
	if bin == "" {
		bin = "udevadm"
	}
	return &Udev{runner: runner, bin: bin}
}

// ReloadRules makes udev re-read rules files.
func (u *Udev) ReloadRules(ctx context.Context) (types.CommandResult, error) {
	return u.runner.Run(ctx, u.bin, "control", "--reload-rules")
}

// Trigger replays device events so reloaded rules take effect now.
func (u *Udev) Trigger(ctx context.Context) (types.CommandResult, error) {
	return u.runner.Run(ctx, u.bin, "trigger")
}
