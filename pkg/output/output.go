// Package output renders plans, run summaries and verification reports for
// the terminal. All functions write plain strings to an io.Writer; color is
// a process-wide switch so piped output stays clean.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/arthur-debert/sysdot/pkg/style"
	"github.com/arthur-debert/sysdot/pkg/types"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/pterm/pterm"
)

// ConfigureColors enables or disables color output process-wide.
func ConfigureColors(enabled bool) {
	if enabled {
		pterm.EnableColor()
		return
	}
	pterm.DisableColor()
	lipgloss.SetColorProfile(termenv.Ascii)
}

// IsTerminal reports whether f is an interactive terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Renderer writes human-readable reports.
type Renderer struct {
	w io.Writer

	// ShowDiffs includes unified diffs under update actions.
	ShowDiffs bool
}

// NewRenderer creates a Renderer writing to w.
func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{w: w}
}

// Plan prints every planned action, one line each, then a tally.
func (r *Renderer) Plan(actions []types.Action, dryRun bool) {
	title := "Plan"
	if dryRun {
		title = "Plan (dry run)"
	}
	fmt.Fprintln(r.w, style.TitleStyle.Render(title))

	for _, a := range actions {
		fmt.Fprintf(r.w, "%s %-28s %s\n",
			style.ActionTag(a.Type), a.Resource.ID, style.MutedStyle.Render(a.Reason))
		if r.ShowDiffs && a.Diff != "" {
			fmt.Fprintln(r.w, style.Indent(style.Diff(strings.TrimRight(a.Diff, "\n")), 2))
		}
	}

	s := types.Summarize(actions)
	fmt.Fprintf(r.w, "\n%d to create, %d to update, %d to remove, %d skipped\n",
		s.Create, s.Update, s.Remove, s.Skip)
}

// Run prints the outcome of every executed action and the closing notes.
func (r *Renderer) Run(summary types.RunSummary) {
	fmt.Fprintln(r.w, style.TitleStyle.Render("Run "+summary.RunID))

	for _, res := range summary.Results {
		detail := res.Action.Reason
		if res.Err != nil {
			detail = res.Err.Error()
		}
		fmt.Fprintf(r.w, "%s %-28s %s\n",
			style.OutcomeTag(res.Outcome), res.Action.Resource.ID, style.MutedStyle.Render(detail))
		if res.Backup != nil {
			fmt.Fprintln(r.w, style.Indent(
				style.PathStyle.Render("backup: "+res.Backup.BackupPath), 2))
		}
	}

	if failed := summary.Failed(); len(failed) > 0 {
		fmt.Fprintf(r.w, "\n%s %d action(s) failed\n",
			style.ErrorStyle.Render("!"), len(failed))
	}
	if summary.RebootRequired() {
		fmt.Fprintf(r.w, "\n%s\n",
			style.WarningStyle.Render("Reboot required for some changes to take effect"))
	}
}

// Verification prints one line per check, expected/actual under failures.
func (r *Renderer) Verification(results []types.VerificationResult) {
	fmt.Fprintln(r.w, style.TitleStyle.Render("Verification"))

	var pass, fail, info, skip int
	for _, res := range results {
		fmt.Fprintf(r.w, "%s %-32s %s\n",
			style.VerifyTag(res.Status), res.CheckID, style.MutedStyle.Render(res.Message))
		switch res.Status {
		case types.VerifyPass:
			pass++
		case types.VerifyFail:
			fail++
			fmt.Fprintln(r.w, style.Indent("expected: "+res.Expected, 2))
			fmt.Fprintln(r.w, style.Indent("actual:   "+res.Actual, 2))
		case types.VerifyInfo:
			info++
		default:
			skip++
		}
	}

	fmt.Fprintf(r.w, "\n%d passed, %d failed, %d informational, %d skipped\n",
		pass, fail, info, skip)
}

// Error prints one error in the standard error style.
func (r *Renderer) Error(err error) {
	fmt.Fprintf(r.w, "%s %s\n", style.ErrorStyle.Render("Error:"), err)
}
