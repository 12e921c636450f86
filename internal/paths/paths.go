package paths

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
)

// AppName names the per-user directories.
const AppName = "pre-release-check"

// ConfigFileName is the project-level config file looked up in the target root.
const ConfigFileName = ".pre-release-check.yaml"

// DefaultDirPerm is the default permission for newly created directories (private).
const DefaultDirPerm = 0o700

// ErrInvalidPath indicates the provided path is malformed or invalid.
var ErrInvalidPath = errors.New("invalid path")

// EnsureDir creates the directory and any necessary parents with specified permissions.
// If perm is 0, DefaultDirPerm (0700) is used.
// This function is idempotent; it returns nil if the directory already exists.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return os.MkdirAll(path, perm)
}

// ConfigHome returns the XDG config home directory.
// On Linux: ~/.config
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func ConfigHome() string {
	return xdg.ConfigHome
}

// DataHome returns the XDG data home directory.
// On Linux: ~/.local/share
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func DataHome() string {
	return xdg.DataHome
}

// Environment overrides for the per-user directories.
const (
	EnvConfigDir = "PRC_CONFIG_DIR"
	EnvBackupDir = "PRC_BACKUP_DIR"
)

// ConfigDir returns the per-user config directory for pre-release-check.
// PRC_CONFIG_DIR overrides the XDG location.
func ConfigDir() string {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return dir
	}
	return filepath.Join(ConfigHome(), AppName)
}

// BackupDir returns the root directory for fix-mode backups.
// PRC_BACKUP_DIR overrides the XDG location.
func BackupDir() string {
	if dir := os.Getenv(EnvBackupDir); dir != "" {
		return dir
	}
	return filepath.Join(DataHome(), AppName, "backups")
}

// ResolveTarget returns the absolute, symlink-free form of a target directory
// and verifies it is a directory.
func ResolveTarget(path string) (string, error) {
	if path == "" {
		path = "."
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrapf(ErrInvalidPath, "%s: %v", path, err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", errors.Wrapf(ErrInvalidPath, "%s: %v", path, err)
	}
	if !info.IsDir() {
		return "", errors.Wrapf(ErrInvalidPath, "%s is not a directory", path)
	}
	return abs, nil
}

// TargetKey returns a stable directory-safe key for an absolute target path.
// Backups of different repositories never share a directory.
func TargetKey(absTarget string) string {
	sum := sha256.Sum256([]byte(filepath.Clean(absTarget)))
	return filepath.Base(absTarget) + "-" + hex.EncodeToString(sum[:])[:12]
}
