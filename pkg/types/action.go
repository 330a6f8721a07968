package types

// ActionType is the Planner's decision for one Resource.
type ActionType string

const (
	// ActionCreate means the target does not exist and will be created
	ActionCreate ActionType = "create"

	// ActionUpdate means the target exists but does not match desired state
	ActionUpdate ActionType = "update"

	// ActionRemove means the target exists and must go (PackageAbsent)
	ActionRemove ActionType = "remove"

	// ActionSkip means nothing to do: already correct, out of scope, or
	// preconditions unmet. The reason string says which.
	ActionSkip ActionType = "skip"
)

// Action is the planned operation for one Resource. Created fresh per run,
// consumed once by the Executor.
type Action struct {
	Resource Resource
	Type     ActionType

	// Reason is a human-readable explanation, always set for Skip.
	Reason string

	// Diff is a unified diff of the change, set for Update on file-backed
	// resources.
	Diff string

	// NewContent is the fully rendered target file content for Create and
	// Update on file-backed resources. The Executor writes these bytes as-is.
	NewContent string
}

// Mutates reports whether executing this action changes the system.
func (a Action) Mutates() bool {
	return a.Type != ActionSkip
}

// PlanSummary counts actions by type for operator display.
type PlanSummary struct {
	Create int
	Update int
	Remove int
	Skip   int
}

// Summarize tallies a plan.
func Summarize(actions []Action) PlanSummary {
	var s PlanSummary
	for _, a := range actions {
		switch a.Type {
		case ActionCreate:
			s.Create++
		case ActionUpdate:
			s.Update++
		case ActionRemove:
			s.Remove++
		case ActionSkip:
			s.Skip++
		}
	}
	return s
}

// Mutations returns the number of non-Skip actions.
func (s PlanSummary) Mutations() int {
	return s.Create + s.Update + s.Remove
}
