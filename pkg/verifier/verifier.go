// Package verifier re-checks the system against the catalog after (or
// instead of) a run. The static pass re-reads the same on-disk state the
// planner compares against; the runtime pass checks the live system, which
// for reboot-gated resources may legitimately still show the old state.
package verifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/arthur-debert/sysdot/pkg/catalog"
	"github.com/arthur-debert/sysdot/pkg/inspector"
	"github.com/arthur-debert/sysdot/pkg/logging"
	"github.com/arthur-debert/sysdot/pkg/system"
	"github.com/arthur-debert/sysdot/pkg/types"
	"github.com/rs/zerolog"
)

// Verifier runs static and runtime verification passes.
type Verifier struct {
	fs        types.FS
	inspector *inspector.Inspector
	sm        system.ServiceManager
	logger    zerolog.Logger

	// CmdlinePath is the active kernel command line, overridable in tests.
	CmdlinePath string
}

// New creates a Verifier.
func New(fs types.FS, ins *inspector.Inspector, sm system.ServiceManager) *Verifier {
	return &Verifier{
		fs:          fs,
		inspector:   ins,
		sm:          sm,
		logger:      logging.GetLogger("verifier"),
		CmdlinePath: "/proc/cmdline",
	}
}

// Static re-inspects every in-scope resource against its desired state.
func (v *Verifier) Static(ctx context.Context, resources []types.Resource, facts types.Facts) []types.VerificationResult {
	var results []types.VerificationResult

	for _, r := range resources {
		if in, reason := catalog.InScope(r, facts); !in {
			results = append(results, types.VerificationResult{
				CheckID: r.ID,
				Status:  types.VerifySkipped,
				Message: reason,
			})
			continue
		}

		fact := v.inspector.Inspect(ctx, r)
		result := types.VerificationResult{
			CheckID:  r.ID,
			Expected: expected(r),
			Actual:   actual(fact),
		}
		switch {
		case fact.Presence == types.PresenceUnknown:
			result.Status = types.VerifySkipped
			result.Message = "state could not be determined"
		case fact.Matches:
			result.Status = types.VerifyPass
		default:
			result.Status = types.VerifyFail
		}
		results = append(results, result)
	}

	return results
}

// Runtime checks every resource's live-system expectation: kernel command
// line tokens, sysfs values and unit activity. A failing check on a
// requires-reboot resource whose static state is already correct reports
// Info, not Fail.
func (v *Verifier) Runtime(ctx context.Context, resources []types.Resource, facts types.Facts) []types.VerificationResult {
	var results []types.VerificationResult

	for _, r := range resources {
		c := r.RuntimeCheck
		if c == nil || (c.CmdlineToken == "" && c.SysfsPath == "" && c.UnitActive == "") {
			continue
		}
		if in, reason := catalog.InScope(r, facts); !in {
			results = append(results, types.VerificationResult{
				CheckID: r.ID + "/runtime",
				Status:  types.VerifySkipped,
				Message: reason,
			})
			continue
		}
		results = append(results, v.runtimeCheck(ctx, r, *c))
	}

	return results
}

func (v *Verifier) runtimeCheck(ctx context.Context, r types.Resource, c types.RuntimeCheck) types.VerificationResult {
	result := types.VerificationResult{CheckID: r.ID + "/runtime"}

	var ok bool
	switch {
	case c.CmdlineToken != "":
		result.Expected = c.CmdlineToken
		data, err := v.fs.ReadFile(v.CmdlinePath)
		if err != nil {
			result.Status = types.VerifySkipped
			result.Message = "cannot read " + v.CmdlinePath
			return result
		}
		line := strings.TrimSpace(string(data))
		result.Actual = line
		ok = hasToken(line, c.CmdlineToken)

	case c.SysfsPath != "":
		result.Expected = c.Want
		data, err := v.fs.ReadFile(c.SysfsPath)
		if err != nil {
			result.Status = types.VerifySkipped
			result.Message = "cannot read " + c.SysfsPath
			return result
		}
		result.Actual = strings.TrimSpace(string(data))
		ok = strings.Contains(result.Actual, c.Want)

	case c.UnitActive != "":
		result.Expected = c.UnitActive + " active"
		active, err := v.sm.IsActive(ctx, c.UnitActive)
		if err != nil {
			result.Status = types.VerifySkipped
			result.Message = "cannot query " + c.UnitActive
			return result
		}
		result.Actual = fmt.Sprintf("%s active=%v", c.UnitActive, active)
		ok = active
	}

	switch {
	case ok:
		result.Status = types.VerifyPass
	case r.RequiresReboot && v.staticSatisfied(ctx, r):
		result.Status = types.VerifyInfo
		result.Message = "pending reboot"
	default:
		result.Status = types.VerifyFail
	}
	return result
}

// staticSatisfied answers "is the configured state already the desired one",
// which turns a runtime mismatch into a pending-reboot note.
func (v *Verifier) staticSatisfied(ctx context.Context, r types.Resource) bool {
	return v.inspector.Inspect(ctx, r).Matches
}

func hasToken(line, token string) bool {
	for _, t := range strings.Fields(line) {
		if t == token {
			return true
		}
	}
	return false
}

func expected(r types.Resource) string {
	switch r.Kind {
	case types.KindPackagePresent:
		return r.Target + " installed"
	case types.KindPackageAbsent:
		return r.Target + " absent"
	case types.KindServiceMask:
		return r.Target + " masked"
	case types.KindServiceEnable:
		return r.Target + " enabled"
	case types.KindKernelParam:
		return r.Token + " in " + r.ConfigKey
	case types.KindTextPatch, types.KindEnvVar:
		return r.DesiredLine()
	case types.KindMountOption:
		return r.Content + " on eligible mounts"
	default:
		return "content of " + r.Target
	}
}

func actual(fact types.SystemFact) string {
	if fact.Presence == types.PresenceAbsent {
		return "missing"
	}
	value := strings.TrimSpace(fact.RawValue)
	if len(value) > 120 {
		value = value[:117] + "..."
	}
	return value
}
