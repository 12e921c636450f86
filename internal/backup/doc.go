// Package backup preserves files before fix mode modifies them and restores
// them on request.
//
// Each run in fix mode opens one [Session] keyed by the run ID. The first time
// a fixer touches a file, the session copies it into the backup and rewrites
// the manifest, so an interrupted run still leaves a restorable backup.
//
// Backups are grouped per target repository (see paths.TargetKey):
//
//	$XDG_DATA_HOME/pre-release-check/backups/
//	└── {target-key}/
//	    └── {backup-id}/
//	        ├── manifest.json
//	        └── files/{path relative to the target}
//
// # Restoring Backups
//
//	mgr := backup.NewManager()
//	err := mgr.Restore(key, "5c1e0f7a-...")
//
// File integrity is verified with the SHA256 checksums stored in the
// manifest; a mismatch returns [ErrBackupCorrupted].
//
// # Retention Management
//
// [Manager.Prune] keeps the newest backups of a target and removes the rest.
// The default retention count is 5.
package backup
