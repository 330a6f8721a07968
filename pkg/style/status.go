package style

import (
	"fmt"

	"github.com/arthur-debert/sysdot/pkg/types"
	"github.com/pterm/pterm"
)

// ActionStyle returns the pterm style for an action type.
func ActionStyle(t types.ActionType) *pterm.Style {
	switch t {
	case types.ActionCreate:
		return pterm.NewStyle(pterm.FgGreen, pterm.Bold)
	case types.ActionUpdate:
		return pterm.NewStyle(pterm.FgYellow, pterm.Bold)
	case types.ActionRemove:
		return pterm.NewStyle(pterm.FgRed, pterm.Bold)
	default:
		return pterm.NewStyle(pterm.FgGray)
	}
}

// ActionTag renders a fixed-width colored tag for an action type.
func ActionTag(t types.ActionType) string {
	return ActionStyle(t).Sprint(fmt.Sprintf("%-6s", t))
}

// OutcomeStyle returns the pterm style for an apply outcome.
func OutcomeStyle(o types.ApplyOutcome) *pterm.Style {
	switch o {
	case types.ApplyOK:
		return pterm.NewStyle(pterm.BgGreen, pterm.FgBlack)
	case types.ApplyFailed:
		return pterm.NewStyle(pterm.BgRed, pterm.FgWhite, pterm.Bold)
	case types.ApplyWouldRun:
		return pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	default:
		return pterm.NewStyle(pterm.FgGray)
	}
}

// OutcomeTag renders a fixed-width colored tag for an apply outcome.
func OutcomeTag(o types.ApplyOutcome) string {
	label := map[types.ApplyOutcome]string{
		types.ApplyOK:       " OK ",
		types.ApplyFailed:   "FAIL",
		types.ApplySkipped:  "SKIP",
		types.ApplyWouldRun: "PLAN",
	}[o]
	if label == "" {
		label = " ?? "
	}
	return OutcomeStyle(o).Sprint(label)
}

// VerifyTag renders a fixed-width colored tag for a verification status.
func VerifyTag(s types.VerifyStatus) string {
	switch s {
	case types.VerifyPass:
		return pterm.NewStyle(pterm.BgGreen, pterm.FgBlack).Sprint("PASS")
	case types.VerifyFail:
		return pterm.NewStyle(pterm.BgRed, pterm.FgWhite, pterm.Bold).Sprint("FAIL")
	case types.VerifyInfo:
		return pterm.NewStyle(pterm.BgCyan, pterm.FgBlack).Sprint("INFO")
	default:
		return pterm.NewStyle(pterm.FgGray).Sprint("SKIP")
	}
}
