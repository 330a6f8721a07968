package system

import (
	"context"
	"strings"

	"github.com/arthur-debert/sysdot/pkg/logging"
	"github.com/arthur-debert/sysdot/pkg/types"
	"github.com/rs/zerolog"
)

// Pacman drives the Arch package manager through the Runner boundary.
type Pacman struct {
	runner types.Runner
	bin    string
	logger zerolog.Logger
}

// NewPacman creates a Pacman collaborator. bin defaults to "pacman".
func NewPacman(runner types.Runner, bin string) *Pacman {
	if bin == "" {
		bin = "pacman"
	}
	return &Pacman{
		runner: runner,
		bin:    bin,
		logger: logging.GetLogger("system.pacman"),
	}
}

// IsInstalled queries install status with pacman -Q. Exit 0 means installed
// (output "name version"), exit 1 means absent; a runner error means the
// answer is Unknown.
func (p *Pacman) IsInstalled(ctx context.Context, name string) (types.Presence, string) {
	result, err := p.runner.Run(ctx, p.bin, "-Q", name)
	if err != nil {
		p.logger.Warn().Err(err).Str("package", name).Msg("Package query unavailable")
		return types.PresenceUnknown, ""
	}
	if result.ExitCode != 0 {
		return types.PresenceAbsent, ""
	}
	return types.PresencePresent, strings.TrimSpace(result.Output)
}

// Install installs packages non-interactively, skipping up-to-date ones.
func (p *Pacman) Install(ctx context.Context, names ...string) (types.CommandResult, error) {
	args := append([]string{"-S", "--noconfirm", "--needed"}, names...)
	return p.runner.Run(ctx, p.bin, args...)
}

// Remove removes packages and their now-unneeded dependencies.
func (p *Pacman) Remove(ctx context.Context, names ...string) (types.CommandResult, error) {
	args := append([]string{"-Rns", "--noconfirm"}, names...)
	return p.runner.Run(ctx, p.bin, args...)
}
