package runner

import (
	"github.com/thoreinstein/prerelease/internal/backup"
	"github.com/thoreinstein/prerelease/internal/fslock"
)

// fixEnv backs validator.FixEnv with per-path locks and the run's backup
// session.
type fixEnv struct {
	locks   *fslock.Locker
	session *backup.Session
}

func (e *fixEnv) Lock(path string) func() {
	return e.locks.Lock(path)
}

func (e *fixEnv) Preserve(path string) error {
	if e.session == nil {
		return nil
	}
	return e.session.Preserve(path)
}

// BackupID returns the ID of the run's backup, or "" when backups are off.
func (e *fixEnv) BackupID() string {
	if e == nil || e.session == nil || e.session.Manifest() == nil {
		return ""
	}
	return e.session.ID()
}
