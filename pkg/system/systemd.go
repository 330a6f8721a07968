package system

import (
	"context"
	"strings"

	"github.com/arthur-debert/sysdot/pkg/logging"
	"github.com/arthur-debert/sysdot/pkg/types"
	"github.com/rs/zerolog"
)

// Systemd drives systemctl through the Runner boundary.
type Systemd struct {
	runner types.Runner
	bin    string
	logger zerolog.Logger
}

// NewSystemd creates a Systemd collaborator. bin defaults to "systemctl".
func NewSystemd(runner types.Runner, bin string) *Systemd {
	if bin == "" {
		bin = "systemctl"
	}
	return &Systemd{
		runner: runner,
		bin:    bin,
		logger: logging.GetLogger("system.systemd"),
	}
}

// EnablementState maps `systemctl is-enabled` output to the Enablement enum.
// is-enabled exits non-zero for disabled and masked units, so the output
// text, not the exit code, is authoritative here.
func (s *Systemd) EnablementState(ctx context.Context, unit string) types.Enablement {
	result, err := s.runner.Run(ctx, s.bin, "is-enabled", unit)
	if err != nil {
		s.logger.Warn().Err(err).Str("unit", unit).Msg("Enablement query unavailable")
		return types.EnablementUnknown
	}

	switch strings.TrimSpace(result.Output) {
	case "enabled", "enabled-runtime":
		return types.EnablementEnabled
	case "disabled":
		return types.EnablementDisabled
	case "masked", "masked-runtime":
		return types.EnablementMasked
	case "indirect":
		return types.EnablementIndirect
	case "static":
		return types.EnablementStatic
	default:
		return types.EnablementUnknown
	}
}

// Mask masks units.
func (s *Systemd) Mask(ctx context.Context, units ...string) (types.CommandResult, error) {
	args := append([]string{"mask"}, units...)
	return s.runner.Run(ctx, s.bin, args...)
}

// Enable enables units for the next boot.
func (s *Systemd) Enable(ctx context.Context, units ...string) (types.CommandResult, error) {
	args := append([]string{"enable"}, units...)
	return s.runner.Run(ctx, s.bin, args...)
}

// IsActive reports whether the unit is currently running. A query failure
// surfaces as an error so callers can distinguish "inactive" from "unknown".
func (s *Systemd) IsActive(ctx context.Context, unit string) (bool, error) {
	result, err := s.runner.Run(ctx, s.bin, "is-active", unit)
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(result.Output) == "active", nil
}
