// Package planner turns catalog resources plus observed system state into a
// list of Actions. Planning is read-only: the plan carries the fully rendered
// target content, so the executor never recomputes any text.
//
// The cardinal rule is that Unknown state never plans a mutation. A resource
// whose target we could not read, or whose package state we could not query,
// is skipped with a reason rather than guessed at.
package planner

import (
	"context"
	"sort"

	"github.com/arthur-debert/sysdot/pkg/catalog"
	"github.com/arthur-debert/sysdot/pkg/errors"
	"github.com/arthur-debert/sysdot/pkg/inspector"
	"github.com/arthur-debert/sysdot/pkg/logging"
	"github.com/arthur-debert/sysdot/pkg/patch"
	"github.com/arthur-debert/sysdot/pkg/types"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/rs/zerolog"
)

// Planner builds an execution plan from a resource set and collected facts.
type Planner struct {
	inspector *inspector.Inspector
	logger    zerolog.Logger

	// StrictUnknown promotes unknown-state skips to a planning error.
	StrictUnknown bool
}

// New creates a Planner around an Inspector.
func New(ins *inspector.Inspector) *Planner {
	return &Planner{
		inspector: ins,
		logger:    logging.GetLogger("planner"),
	}
}

// Plan produces one Action per resource, ordered for execution:
// package installs, then file changes, then service toggles, then
// package removals. Skips keep their slot so the operator sees the
// whole catalog in one listing.
func (p *Planner) Plan(ctx context.Context, resources []types.Resource, facts types.Facts) ([]types.Action, error) {
	actions := make([]types.Action, 0, len(resources))

	for _, r := range resources {
		action, err := p.planOne(ctx, r, facts)
		if err != nil {
			return nil, err
		}
		actions = append(actions, action)
	}

	sort.SliceStable(actions, func(a, b int) bool {
		return phase(actions[a].Resource.Kind) < phase(actions[b].Resource.Kind)
	})

	summary := types.Summarize(actions)
	p.logger.Info().
		Int("create", summary.Create).
		Int("update", summary.Update).
		Int("remove", summary.Remove).
		Int("skip", summary.Skip).
		Msg("Plan ready")

	return actions, nil
}

func (p *Planner) planOne(ctx context.Context, r types.Resource, facts types.Facts) (types.Action, error) {
	if in, reason := catalog.InScope(r, facts); !in {
		return skip(r, reason), nil
	}

	fact := p.inspector.Inspect(ctx, r)

	if fact.Presence == types.PresenceUnknown {
		reason := "current state unknown"
		if fact.Detail != "" {
			reason = fact.Detail
		}
		if p.StrictUnknown {
			return types.Action{}, errors.Newf(errors.ErrUnsafeSystemState,
				"state of %s could not be determined: %s", r.ID, reason)
		}
		return skip(r, reason), nil
	}
	if fact.Matches {
		return skip(r, "already satisfied"), nil
	}

	switch r.Kind {
	case types.KindPackagePresent:
		return types.Action{Resource: r, Type: types.ActionCreate, Reason: "package not installed"}, nil

	case types.KindPackageAbsent:
		return types.Action{Resource: r, Type: types.ActionRemove, Reason: "package installed"}, nil

	case types.KindServiceMask, types.KindServiceEnable:
		return types.Action{Resource: r, Type: types.ActionUpdate, Reason: "unit state " + fact.RawValue}, nil

	default:
		return p.planFileChange(r, fact)
	}
}

// planFileChange renders the desired file content and attaches a diff.
func (p *Planner) planFileChange(r types.Resource, fact types.SystemFact) (types.Action, error) {
	exists := fact.Presence == types.PresencePresent
	desired, err := patch.Render(r, fact.RawValue, exists)
	if err != nil {
		return types.Action{}, err
	}

	action := types.Action{Resource: r, NewContent: desired}
	if exists {
		action.Type = types.ActionUpdate
		action.Reason = "content differs"
		action.Diff, err = unifiedDiff(r.Target, fact.RawValue, desired)
		if err != nil {
			return types.Action{}, errors.Wrapf(err, errors.ErrInternal, "diff for %s", r.ID)
		}
	} else {
		action.Type = types.ActionCreate
		action.Reason = "target missing"
	}
	return action, nil
}

func unifiedDiff(path, current, desired string) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(current),
		B:        difflib.SplitLines(desired),
		FromFile: path,
		ToFile:   path + " (desired)",
		Context:  3,
	})
}

func skip(r types.Resource, reason string) types.Action {
	return types.Action{Resource: r, Type: types.ActionSkip, Reason: reason}
}

// phase fixes execution order: new packages land before the files that
// configure them, services toggle after their config exists, and removals
// run last so nothing depends on a package already gone.
func phase(k types.Kind) int {
	switch k {
	case types.KindPackagePresent:
		return 0
	case types.KindServiceMask, types.KindServiceEnable:
		return 2
	case types.KindPackageAbsent:
		return 3
	default:
		return 1
	}
}
