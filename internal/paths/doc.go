// Package paths resolves the per-user directories pre-release-check reads and
// writes outside the target repository.
//
// The package wraps github.com/adrg/xdg for cross-platform XDG Base Directory
// Specification compliance. On Linux paths follow XDG conventions
// (~/.config, ~/.local/share, ~/.cache).
//
//	paths.ConfigDir()   // ~/.config/pre-release-check
//	paths.BackupDir()   // ~/.local/share/pre-release-check/backups
package paths
