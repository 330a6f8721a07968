package types

// BackupRecord notes a pre-mutation copy of a target. Created only when the
// target existed before the run; backups of different runs never share a
// directory, so a later run can never clobber an earlier run's copies.
// Restoring is an explicit operator action, never automatic.
type BackupRecord struct {
	OriginalPath string
	BackupPath   string

	// Checksum is the sha256 of the saved bytes, for restore sanity checks.
	Checksum string

	// RunID is the timestamp key of the run that took the backup.
	RunID string
}
