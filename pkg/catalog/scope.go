package catalog

import (
	"path/filepath"

	"github.com/arthur-debert/sysdot/pkg/types"
)

// InScope evaluates a resource's preconditions against collected facts.
// When out of scope the second return value carries the reason, which the
// planner records on the resulting Skip, so preconditions never go unmet
// silently. An unanswerable predicate (e.g. package state unknown) counts
// as out of scope so it can never gate a destructive action open.
func InScope(r types.Resource, facts types.Facts) (bool, string) {
	for _, p := range r.Preconditions {
		if ok, reason := holds(p, facts); !ok {
			return false, reason
		}
	}
	return true, ""
}

func holds(p types.Precondition, facts types.Facts) (bool, string) {
	switch p.Type {
	case types.PredPackageInstalled:
		installed, known := facts.InstalledPackages[p.Arg]
		if !known {
			return false, "package state for " + p.Arg + " unknown"
		}
		if !installed {
			return false, "package " + p.Arg + " not installed"
		}
		return true, ""

	case types.PredPackageMissing:
		installed, known := facts.InstalledPackages[p.Arg]
		if !known {
			return false, "package state for " + p.Arg + " unknown"
		}
		if installed {
			return false, "package " + p.Arg + " installed"
		}
		return true, ""

	case types.PredHardwarePresent:
		for _, alias := range facts.Modaliases {
			if ok, _ := filepath.Match(p.Arg, alias); ok {
				return true, ""
			}
		}
		return false, "no hardware matching " + p.Arg

	case types.PredNoLVM:
		if facts.LVMPresent {
			return false, "LVM volumes present"
		}
		return true, ""

	case types.PredLUKSRoot:
		if !facts.LUKSRoot {
			return false, "no LUKS root"
		}
		return true, ""

	case types.PredNoLUKSRoot:
		if facts.LUKSRoot {
			return false, "LUKS root present"
		}
		return true, ""

	case types.PredNoBtrfsSubvol:
		if facts.BtrfsSubvolRoot {
			return false, "btrfs detected"
		}
		return true, ""

	case types.PredFileExists:
		if !facts.PathExists[p.Arg] {
			return false, p.Arg + " does not exist"
		}
		return true, ""

	case types.PredNotVirtualized:
		if facts.Virtualized {
			return false, "virtual machine detected"
		}
		return true, ""

	default:
		return false, "unknown precondition " + string(p.Type)
	}
}
