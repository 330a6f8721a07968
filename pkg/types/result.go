package types

import "time"

// ApplyOutcome classifies the result of executing one Action.
type ApplyOutcome string

const (
	ApplyOK      ApplyOutcome = "ok"
	ApplyFailed  ApplyOutcome = "failed"
	ApplySkipped ApplyOutcome = "skipped"

	// ApplyWouldRun is the dry-run outcome for mutating actions.
	ApplyWouldRun ApplyOutcome = "would-run"
)

// ApplyResult records the execution of one Action.
type ApplyResult struct {
	Action   Action
	Outcome  ApplyOutcome
	Err      error
	Backup   *BackupRecord
	Output   string
	Duration time.Duration
}

// RunSummary aggregates one install run for the final report.
type RunSummary struct {
	RunID   string
	DryRun  bool
	Results []ApplyResult
}

// Failed returns the results that ended in ApplyFailed.
func (s RunSummary) Failed() []ApplyResult {
	var out []ApplyResult
	for _, r := range s.Results {
		if r.Outcome == ApplyFailed {
			out = append(out, r)
		}
	}
	return out
}

// RebootRequired reports whether any successfully applied action belongs to
// a requires-reboot resource.
func (s RunSummary) RebootRequired() bool {
	for _, r := range s.Results {
		if r.Outcome == ApplyOK && r.Action.Resource.RequiresReboot {
			return true
		}
	}
	return false
}
