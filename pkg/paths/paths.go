// Package paths provides centralized path handling for sysdot.
// It implements XDG Base Directory specification compliance and
// provides a consistent API for all path operations in the codebase.
package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

// Environment variable names
const (
	// EnvBackupRoot overrides the backup tree location
	EnvBackupRoot = "SYSDOT_BACKUP_ROOT"

	// EnvRunLogDir overrides the run-log directory
	EnvRunLogDir = "SYSDOT_RUNLOG_DIR"

	// EnvConfigDir overrides the XDG config directory for sysdot
	EnvConfigDir = "SYSDOT_CONFIG_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Directory and file names. These define sysdot's on-disk layout and are not
// user-configurable beyond the environment overrides above.
const (
	// SysdotDirName is the directory name for sysdot-specific files
	SysdotDirName = "sysdot"

	// BackupsDir is the subdirectory holding per-run backup trees
	BackupsDir = "backups"

	// RunLogsDir is the subdirectory holding per-run logs
	RunLogsDir = "runs"

	// ConfigFile is the name of the app configuration file
	ConfigFile = "sysdot.toml"

	// CatalogFile is the name of a user catalog override file
	CatalogFile = "catalog.toml"
)

// Paths resolves every location sysdot reads or writes.
type Paths struct {
	configDir string
	stateDir  string
}

// New creates a Paths instance from the environment.
func New() *Paths {
	p := &Paths{}

	if configDir := os.Getenv(EnvConfigDir); configDir != "" {
		p.configDir = expandHome(configDir)
	} else {
		p.configDir = filepath.Join(xdg.ConfigHome, SysdotDirName)
	}

	if stateDir := os.Getenv("XDG_STATE_HOME"); stateDir != "" {
		p.stateDir = filepath.Join(stateDir, SysdotDirName)
	} else {
		p.stateDir = filepath.Join(xdg.StateHome, SysdotDirName)
	}

	return p
}

// ConfigDir returns the sysdot configuration directory.
func (p *Paths) ConfigDir() string {
	return p.configDir
}

// ConfigFilePath returns the app configuration file location.
func (p *Paths) ConfigFilePath() string {
	return filepath.Join(p.configDir, ConfigFile)
}

// CatalogOverridePath returns the user catalog override location.
func (p *Paths) CatalogOverridePath() string {
	return filepath.Join(p.configDir, CatalogFile)
}

// BackupRoot returns the root under which each run creates its backup
// directory. Honors SYSDOT_BACKUP_ROOT.
func (p *Paths) BackupRoot() string {
	if root := os.Getenv(EnvBackupRoot); root != "" {
		return expandHome(root)
	}
	return filepath.Join(p.stateDir, BackupsDir)
}

// BackupDirForRun returns the backup directory for one run, keyed by the
// run's timestamp ID so runs never share (or clobber) backup trees.
func (p *Paths) BackupDirForRun(runID string) string {
	return filepath.Join(p.BackupRoot(), runID)
}

// RunLogDir returns the directory holding per-run logs.
// Honors SYSDOT_RUNLOG_DIR.
func (p *Paths) RunLogDir() string {
	if dir := os.Getenv(EnvRunLogDir); dir != "" {
		return expandHome(dir)
	}
	return filepath.Join(p.stateDir, RunLogsDir)
}

// RunLogFile returns the log file path for one run.
func (p *Paths) RunLogFile(runID string) string {
	return filepath.Join(p.RunLogDir(), runID+".log")
}

// expandHome expands a leading ~ to the user's home directory
func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
