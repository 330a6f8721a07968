// Package inspector reads the current system state for catalog resources.
// It never mutates anything: every method is a pure read of the filesystem,
// the package manager or the service manager. When an underlying query is
// unavailable the answer is Unknown, never "absent": callers must not let
// a broken query look like missing state.
package inspector

import (
	"context"
	"os"

	"github.com/arthur-debert/sysdot/pkg/logging"
	"github.com/arthur-debert/sysdot/pkg/patch"
	"github.com/arthur-debert/sysdot/pkg/system"
	"github.com/arthur-debert/sysdot/pkg/types"
	"github.com/rs/zerolog"
)

// Inspector answers "what is the current state of this resource's target".
type Inspector struct {
	fs     types.FS
	pm     system.PackageManager
	sm     system.ServiceManager
	logger zerolog.Logger
}

// New creates an Inspector.
func New(fs types.FS, pm system.PackageManager, sm system.ServiceManager) *Inspector {
	return &Inspector{
		fs:     fs,
		pm:     pm,
		sm:     sm,
		logger: logging.GetLogger("inspector"),
	}
}

// Inspect returns the SystemFact for one resource.
func (i *Inspector) Inspect(ctx context.Context, r types.Resource) types.SystemFact {
	fact := types.SystemFact{ResourceID: r.ID}

	switch r.Kind {
	case types.KindFileCopy:
		i.inspectFileCopy(r, &fact)
	case types.KindTextPatch, types.KindEnvVar:
		i.inspectKeyLine(r, &fact)
	case types.KindKernelParam:
		i.inspectKernelParam(r, &fact)
	case types.KindMountOption:
		i.inspectMountOption(r, &fact)
	case types.KindServiceMask:
		i.inspectService(ctx, r, &fact, types.EnablementMasked)
	case types.KindServiceEnable:
		i.inspectService(ctx, r, &fact, types.EnablementEnabled)
	case types.KindPackagePresent, types.KindPackageAbsent:
		i.inspectPackage(ctx, r, &fact)
	default:
		fact.Presence = types.PresenceUnknown
	}

	i.logger.Trace().
		Str("resource", r.ID).
		Str("presence", string(fact.Presence)).
		Bool("matches", fact.Matches).
		Msg("Inspected")

	return fact
}

// readTarget classifies a target read into presence and content.
func (i *Inspector) readTarget(path string, fact *types.SystemFact) (string, bool) {
	data, err := i.fs.ReadFile(path)
	switch {
	case err == nil:
		fact.Presence = types.PresencePresent
		return string(data), true
	case os.IsNotExist(err):
		fact.Presence = types.PresenceAbsent
		return "", false
	default:
		i.logger.Warn().Err(err).Str("path", path).Msg("Target unreadable")
		fact.Presence = types.PresenceUnknown
		fact.Detail = path + " unreadable"
		return "", false
	}
}

func (i *Inspector) inspectFileCopy(r types.Resource, fact *types.SystemFact) {
	current, ok := i.readTarget(r.Target, fact)
	if !ok {
		return
	}
	fact.RawValue = current
	fact.Matches = current == r.Content
}

func (i *Inspector) inspectKeyLine(r types.Resource, fact *types.SystemFact) {
	current, ok := i.readTarget(r.Target, fact)
	if !ok {
		return
	}
	fact.RawValue = current
	line, found := patch.KeyLine(current, r.Key)
	fact.Matches = found && line == r.DesiredLine()
}

// inspectKernelParam checks the configured option string (the static half of
// the predicate; the active-cmdline half belongs to the runtime verifier,
// with the same token-match shape).
func (i *Inspector) inspectKernelParam(r types.Resource, fact *types.SystemFact) {
	current, ok := i.readTarget(r.Target, fact)
	if !ok {
		return
	}
	fact.RawValue = current
	value, found := patch.KeyValue(current, r.ConfigKey)
	fact.Matches = found && patch.HasToken(value, r.Token)
}

func (i *Inspector) inspectMountOption(r types.Resource, fact *types.SystemFact) {
	current, ok := i.readTarget(r.Target, fact)
	if !ok {
		return
	}
	fact.RawValue = current
	satisfied, err := patch.MountOptionSatisfied(current, r.Content)
	if err != nil {
		// Ambiguous mount syntax: refuse to claim anything
		fact.Presence = types.PresenceUnknown
		fact.Detail = err.Error()
		return
	}
	fact.Matches = satisfied
}

func (i *Inspector) inspectService(ctx context.Context, r types.Resource, fact *types.SystemFact, want types.Enablement) {
	state := i.sm.EnablementState(ctx, r.Target)
	fact.RawValue = string(state)
	if state == types.EnablementUnknown {
		fact.Presence = types.PresenceUnknown
		return
	}
	fact.Presence = types.PresencePresent
	fact.Matches = state == want
}

func (i *Inspector) inspectPackage(ctx context.Context, r types.Resource, fact *types.SystemFact) {
	presence, version := i.pm.IsInstalled(ctx, r.Target)
	fact.Presence = presence
	fact.RawValue = version
	switch r.Kind {
	case types.KindPackagePresent:
		fact.Matches = presence == types.PresencePresent
	case types.KindPackageAbsent:
		fact.Matches = presence == types.PresenceAbsent
	}
}
