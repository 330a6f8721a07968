package catalog_test

import (
	"testing"

	"github.com/arthur-debert/sysdot/pkg/catalog"
	"github.com/arthur-debert/sysdot/pkg/types"
	"github.com/stretchr/testify/assert"
)

func resourceWith(preconditions ...types.Precondition) types.Resource {
	return types.Resource{
		ID:            "test",
		Kind:          types.KindFileCopy,
		Target:        "/etc/test",
		Content:       "x",
		Preconditions: preconditions,
	}
}

func TestInScopeNoPreconditions(t *testing.T) {
	ok, reason := catalog.InScope(resourceWith(), types.Facts{})
	assert.True(t, ok)
	assert.Empty(t, reason)
}

func TestInScopePackageInstalled(t *testing.T) {
	r := resourceWith(types.Precondition{Type: types.PredPackageInstalled, Arg: "iwd"})

	ok, _ := catalog.InScope(r, types.Facts{InstalledPackages: map[string]bool{"iwd": true}})
	assert.True(t, ok)

	ok, reason := catalog.InScope(r, types.Facts{InstalledPackages: map[string]bool{"iwd": false}})
	assert.False(t, ok)
	assert.Equal(t, "package iwd not installed", reason)
}

func TestInScopeUnknownPackageStateIsOutOfScope(t *testing.T) {
	// A failed pacman query must never gate a mutation open
	r := resourceWith(types.Precondition{Type: types.PredPackageInstalled, Arg: "iwd"})

	ok, reason := catalog.InScope(r, types.Facts{InstalledPackages: map[string]bool{}})
	assert.False(t, ok)
	assert.Contains(t, reason, "unknown")
}

func TestInScopeBtrfsSubvolReason(t *testing.T) {
	r := resourceWith(types.Precondition{Type: types.PredNoBtrfsSubvol})

	ok, reason := catalog.InScope(r, types.Facts{BtrfsSubvolRoot: true})
	assert.False(t, ok)
	assert.Equal(t, "btrfs detected", reason)

	ok, _ = catalog.InScope(r, types.Facts{BtrfsSubvolRoot: false})
	assert.True(t, ok)
}

func TestInScopeLUKS(t *testing.T) {
	luks := resourceWith(types.Precondition{Type: types.PredLUKSRoot})
	noLuks := resourceWith(types.Precondition{Type: types.PredNoLUKSRoot})

	ok, _ := catalog.InScope(luks, types.Facts{LUKSRoot: true})
	assert.True(t, ok)
	ok, _ = catalog.InScope(luks, types.Facts{LUKSRoot: false})
	assert.False(t, ok)

	ok, _ = catalog.InScope(noLuks, types.Facts{LUKSRoot: false})
	assert.True(t, ok)
	ok, reason := catalog.InScope(noLuks, types.Facts{LUKSRoot: true})
	assert.False(t, ok)
	assert.Equal(t, "LUKS root present", reason)
}

func TestInScopeHardwareGlob(t *testing.T) {
	r := resourceWith(types.Precondition{Type: types.PredHardwarePresent, Arg: "pci:*v000014C3*"})

	facts := types.Facts{Modaliases: []string{
		"pci:v00008086d000015F3sv000017AAsd000022F0bc02sc00i00",
		"pci:v000014C3d00007961sv000017AAsd0000E0BEbc02sc80i00",
	}}
	ok, _ := catalog.InScope(r, facts)
	assert.True(t, ok)

	ok, reason := catalog.InScope(r, types.Facts{Modaliases: []string{"pci:v00008086d00001234"}})
	assert.False(t, ok)
	assert.Contains(t, reason, "no hardware matching")
}

func TestInScopeAllPreconditionsMustHold(t *testing.T) {
	r := resourceWith(
		types.Precondition{Type: types.PredNoLUKSRoot},
		types.Precondition{Type: types.PredNoLVM},
	)

	ok, _ := catalog.InScope(r, types.Facts{LUKSRoot: false, LVMPresent: false})
	assert.True(t, ok)

	ok, reason := catalog.InScope(r, types.Facts{LUKSRoot: false, LVMPresent: true})
	assert.False(t, ok)
	assert.Equal(t, "LVM volumes present", reason)
}
