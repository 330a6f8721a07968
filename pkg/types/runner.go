package types

import "context"

// CommandResult is the routed outcome of one external command. Non-zero exit
// is not an error at this boundary; the caller decides pass/fail semantics
// per resource.
type CommandResult struct {
	Command  string
	Args     []string
	ExitCode int

	// Output is combined stdout+stderr.
	Output string
}

// Runner is the single boundary through which all external commands go.
// An error return means the command could not be run at all (binary missing,
// fork failure); callers must map that to an Unknown presence, never to
// "absent".
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (CommandResult, error)
}

// Enablement is a systemd unit enablement state as sysdot understands it.
type Enablement string

const (
	EnablementEnabled  Enablement = "enabled"
	EnablementDisabled Enablement = "disabled"
	EnablementMasked   Enablement = "masked"
	EnablementIndirect Enablement = "indirect"
	EnablementStatic   Enablement = "static"
	EnablementUnknown  Enablement = "unknown"
)
