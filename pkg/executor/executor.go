// Package executor applies a plan. It is the only package that mutates the
// system: file writes go through the FS abstraction, everything else through
// the system collaborators.
//
// Failures do not abort the run; each action's result records its own error
// and later actions still execute. Only two conditions stop a run outright:
// the backup directory cannot be created, or the operator declines an unsafe
// resource. Destructive actions (package removals, service masking) are held
// back entirely once any file write in the run has failed.
package executor

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/arthur-debert/sysdot/pkg/errors"
	"github.com/arthur-debert/sysdot/pkg/logging"
	"github.com/arthur-debert/sysdot/pkg/system"
	"github.com/arthur-debert/sysdot/pkg/types"
	"github.com/arthur-debert/sysdot/pkg/utils"
	"github.com/rs/zerolog"
)

// Confirmer decides whether an unsafe resource may be applied. It is called
// once per unsafe mutating action, before any part of it runs.
type Confirmer func(r types.Resource, reason string) bool

// Executor applies planned actions in order.
type Executor struct {
	fs        types.FS
	pm        system.PackageManager
	sm        system.ServiceManager
	initramfs system.InitramfsBuilder
	udev      system.UdevControl
	logger    zerolog.Logger

	// DryRun reports every mutation as would-run without performing it.
	DryRun bool

	// AcceptAll applies unsafe resources without asking the Confirmer.
	AcceptAll bool

	// Confirm gates unsafe resources. Nil means decline everything.
	Confirm Confirmer

	// RebuildPaths are file targets whose change requires an initramfs
	// rebuild after the run. Kernel parameter changes always do.
	RebuildPaths []string

	// UdevRulesDir is the directory whose files trigger a udev reload.
	UdevRulesDir string
}

// New creates an Executor with default trigger paths.
func New(fs types.FS, pm system.PackageManager, sm system.ServiceManager, ib system.InitramfsBuilder, uc system.UdevControl) *Executor {
	return &Executor{
		fs:           fs,
		pm:           pm,
		sm:           sm,
		initramfs:    ib,
		udev:         uc,
		logger:       logging.GetLogger("executor"),
		RebuildPaths: []string{"/etc/mkinitcpio.conf"},
		UdevRulesDir: "/etc/udev/rules.d",
	}
}

// Run executes the plan. backupDir must be unique to this run; it is created
// here and pre-change copies of every touched file land under it, mirroring
// the original paths.
func (e *Executor) Run(ctx context.Context, runID, backupDir string, actions []types.Action) (types.RunSummary, error) {
	summary := types.RunSummary{RunID: runID, DryRun: e.DryRun}

	if !e.DryRun && types.Summarize(actions).Mutations() > 0 {
		if err := e.fs.MkdirAll(backupDir, 0700); err != nil {
			return summary, errors.Wrapf(err, errors.ErrBackupFailed,
				"cannot create backup directory %s", backupDir)
		}
	}

	filesFailed := false
	for _, action := range actions {
		if action.Type == types.ActionSkip {
			summary.Results = append(summary.Results, types.ApplyResult{
				Action:  action,
				Outcome: types.ApplySkipped,
			})
			continue
		}

		if e.DryRun {
			summary.Results = append(summary.Results, types.ApplyResult{
				Action:  action,
				Outcome: types.ApplyWouldRun,
			})
			continue
		}

		if filesFailed && destructive(action.Resource.Kind) {
			summary.Results = append(summary.Results, types.ApplyResult{
				Action:  action,
				Outcome: types.ApplySkipped,
				Err: errors.Newf(errors.ErrPreconditionUnmet,
					"%s held back, earlier file changes failed", action.Resource.ID),
			})
			continue
		}

		if action.Resource.Unsafe && !e.AcceptAll {
			if e.Confirm == nil || !e.Confirm(action.Resource, action.Reason) {
				summary.Results = append(summary.Results, types.ApplyResult{
					Action:  action,
					Outcome: types.ApplyFailed,
					Err:     errors.Newf(errors.ErrUserDeclined, "declined: %s", action.Resource.ID),
				})
				return summary, errors.Newf(errors.ErrUserDeclined,
					"unsafe resource %s declined, stopping", action.Resource.ID)
			}
		}

		result := e.apply(ctx, runID, backupDir, action)
		summary.Results = append(summary.Results, result)
		if result.Outcome == types.ApplyFailed && fileBacked(action.Resource.Kind) {
			filesFailed = true
		}
	}

	if !e.DryRun {
		e.runTriggers(ctx, &summary)
	}

	return summary, nil
}

// destructive marks the kinds that take something away from the system.
// They only run while every file write so far has succeeded; a package
// removed or a unit masked on top of a half-written config is much harder
// to recover from than a stale file.
func destructive(k types.Kind) bool {
	return k == types.KindPackageAbsent || k == types.KindServiceMask
}

func fileBacked(k types.Kind) bool {
	switch k {
	case types.KindPackagePresent, types.KindPackageAbsent,
		types.KindServiceMask, types.KindServiceEnable:
		return false
	}
	return true
}

// apply executes one mutating action; every error lands in the result.
func (e *Executor) apply(ctx context.Context, runID, backupDir string, action types.Action) types.ApplyResult {
	start := time.Now()
	result := types.ApplyResult{Action: action, Outcome: types.ApplyOK}

	r := action.Resource
	e.logger.Info().Str("resource", r.ID).Str("action", string(action.Type)).Msg("Applying")

	var (
		cmd types.CommandResult
		err error
	)

	switch r.Kind {
	case types.KindPackagePresent:
		cmd, err = e.pm.Install(ctx, r.Target)
	case types.KindPackageAbsent:
		cmd, err = e.pm.Remove(ctx, r.Target)
	case types.KindServiceMask:
		cmd, err = e.sm.Mask(ctx, r.Target)
	case types.KindServiceEnable:
		cmd, err = e.sm.Enable(ctx, r.Target)
	default:
		result.Backup, err = e.writeFile(runID, backupDir, action)
	}

	result.Output = cmd.Output
	if err == nil && cmd.Command != "" && cmd.ExitCode != 0 {
		err = errors.Newf(errors.ErrCommandFailed, "%s exited %d", cmd.Command, cmd.ExitCode)
	}
	if err != nil {
		result.Outcome = types.ApplyFailed
		result.Err = err
		e.logger.Error().Err(err).Str("resource", r.ID).Msg("Action failed")
	}

	result.Duration = time.Since(start)
	return result
}

// writeFile backs up the existing target, then writes the rendered content.
func (e *Executor) writeFile(runID, backupDir string, action types.Action) (*types.BackupRecord, error) {
	r := action.Resource

	var record *types.BackupRecord
	current, err := e.fs.ReadFile(r.Target)
	switch {
	case err == nil:
		backupPath := filepath.Join(backupDir, strings.TrimPrefix(r.Target, "/"))
		if err := e.fs.MkdirAll(filepath.Dir(backupPath), 0700); err != nil {
			return nil, errors.Wrapf(err, errors.ErrBackupFailed, "backup of %s", r.Target)
		}
		if err := e.fs.WriteFile(backupPath, current, 0600); err != nil {
			return nil, errors.Wrapf(err, errors.ErrBackupFailed, "backup of %s", r.Target)
		}
		record = &types.BackupRecord{
			OriginalPath: r.Target,
			BackupPath:   backupPath,
			Checksum:     utils.Checksum(current),
			RunID:        runID,
		}
	case os.IsNotExist(err):
		// nothing to back up
	default:
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "reading %s", r.Target)
	}

	if err := e.fs.MkdirAll(filepath.Dir(r.Target), 0755); err != nil {
		return record, errors.Wrapf(err, errors.ErrDirCreate, "parent of %s", r.Target)
	}
	if err := e.fs.WriteFile(r.Target, []byte(action.NewContent), r.FileMode()); err != nil {
		return record, errors.Wrapf(err, errors.ErrFileWrite, "writing %s", r.Target)
	}
	return record, nil
}

// runTriggers fires the post-run side effects implied by what actually
// changed: udev rule reloads and the initramfs rebuild.
func (e *Executor) runTriggers(ctx context.Context, summary *types.RunSummary) {
	var udevChanged, rebuildNeeded bool
	for _, res := range summary.Results {
		if res.Outcome != types.ApplyOK {
			continue
		}
		r := res.Action.Resource
		if strings.HasPrefix(r.Target, e.UdevRulesDir+"/") {
			udevChanged = true
		}
		if r.Kind == types.KindKernelParam || e.isRebuildPath(r.Target) {
			rebuildNeeded = true
		}
	}

	if udevChanged {
		e.logger.Info().Msg("Reloading udev rules")
		if _, err := e.udev.ReloadRules(ctx); err != nil {
			e.logger.Error().Err(err).Msg("udev reload failed")
		} else if _, err := e.udev.Trigger(ctx); err != nil {
			e.logger.Error().Err(err).Msg("udev trigger failed")
		}
	}

	if rebuildNeeded {
		e.logger.Info().Msg("Rebuilding initramfs and boot entries")
		cmd, err := e.initramfs.Rebuild(ctx)
		if err != nil {
			e.logger.Error().Err(err).Msg("initramfs rebuild failed")
		} else if cmd.ExitCode != 0 {
			e.logger.Error().Int("exit", cmd.ExitCode).Str("output", cmd.Output).
				Msg("initramfs rebuild failed")
		}
	}
}

func (e *Executor) isRebuildPath(target string) bool {
	for _, p := range e.RebuildPaths {
		if target == p {
			return true
		}
	}
	return false
}
