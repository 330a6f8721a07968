package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/arthur-debert/sysdot/pkg/catalog"
	"github.com/arthur-debert/sysdot/pkg/config"
	"github.com/arthur-debert/sysdot/pkg/executor"
	"github.com/arthur-debert/sysdot/pkg/facts"
	"github.com/arthur-debert/sysdot/pkg/filesystem"
	"github.com/arthur-debert/sysdot/pkg/inspector"
	"github.com/arthur-debert/sysdot/pkg/paths"
	"github.com/arthur-debert/sysdot/pkg/planner"
	"github.com/arthur-debert/sysdot/pkg/system"
	"github.com/arthur-debert/sysdot/pkg/types"
	"github.com/arthur-debert/sysdot/pkg/verifier"
)

// app wires the object graph for one command invocation. Everything hangs
// off the config and the shared command runner, so a run log mirror passed
// here sees every external command of the run.
type app struct {
	paths   *paths.Paths
	cfg     *config.Config
	catalog *catalog.Catalog

	fs        types.FS
	pm        *system.Pacman
	sm        *system.Systemd
	initramfs *system.Initramfs
	udev      *system.Udev

	facts     *facts.Collector
	inspector *inspector.Inspector
	planner   *planner.Planner
	verifier  *verifier.Verifier
}

// newApp loads config and catalog and builds every component. catalogFlag,
// when set, wins over the configured and conventional override locations.
func newApp(catalogFlag string, mirror io.Writer) (*app, error) {
	p := paths.New()
	cfg, err := config.Load(p)
	if err != nil {
		return nil, err
	}

	cat, err := catalog.Load(resolveCatalogPath(catalogFlag, cfg, p))
	if err != nil {
		return nil, err
	}

	fs := filesystem.NewOS()
	runner := system.NewRunner(mirror)

	a := &app{
		paths:     p,
		cfg:       cfg,
		catalog:   cat,
		fs:        fs,
		pm:        system.NewPacman(runner, cfg.Commands.Pacman),
		sm:        system.NewSystemd(runner, cfg.Commands.Systemctl),
		initramfs: system.NewInitramfs(runner, cfg.Commands.Mkinitcpio, cfg.Commands.SdbootManage),
		udev:      system.NewUdev(runner, cfg.Commands.Udevadm),
	}
	a.facts = facts.NewCollector(fs, a.pm, runner, cfg.Commands.Lvs, cfg.Commands.DetectVirt)
	a.inspector = inspector.New(fs, a.pm, a.sm)
	a.planner = planner.New(a.inspector)
	a.planner.StrictUnknown = cfg.Run.StrictUnknown
	a.verifier = verifier.New(fs, a.inspector, a.sm)

	return a, nil
}

// newExecutor builds the executor for one run.
func (a *app) newExecutor(dryRun, acceptAll bool) *executor.Executor {
	e := executor.New(a.fs, a.pm, a.sm, a.initramfs, a.udev)
	e.DryRun = dryRun
	e.AcceptAll = acceptAll
	e.Confirm = confirmUnsafe
	return e
}

// backupDirForRun honors a configured backup root over the default
// state-directory location.
func (a *app) backupDirForRun(runID string) string {
	if a.cfg.Backup.Root != "" {
		return filepath.Join(a.cfg.Backup.Root, runID)
	}
	return a.paths.BackupDirForRun(runID)
}

func resolveCatalogPath(flag string, cfg *config.Config, p *paths.Paths) string {
	if flag != "" {
		return flag
	}
	if cfg.Catalog.Path != "" {
		if _, err := os.Stat(cfg.Catalog.Path); err == nil {
			return cfg.Catalog.Path
		}
	}
	if _, err := os.Stat(p.CatalogOverridePath()); err == nil {
		return p.CatalogOverridePath()
	}
	return ""
}
