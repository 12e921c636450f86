package paths

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
)

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	if err := EnsureDir(dir, 0); err != nil {
		t.Fatalf("EnsureDir() error = %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if got := info.Mode().Perm(); got != DefaultDirPerm {
		t.Errorf("perm = %o, want %o", got, DefaultDirPerm)
	}

	// Idempotent
	if err := EnsureDir(dir, 0); err != nil {
		t.Errorf("second EnsureDir() error = %v", err)
	}
}

func TestResolveTarget(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := ResolveTarget(dir)
	if err != nil {
		t.Fatalf("ResolveTarget(dir) error = %v", err)
	}
	if !filepath.IsAbs(got) {
		t.Errorf("ResolveTarget(dir) = %q, want absolute path", got)
	}

	tests := []struct {
		name string
		path string
	}{
		{"missing", filepath.Join(dir, "nope")},
		{"file", file},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveTarget(tt.path)
			if !errors.Is(err, ErrInvalidPath) {
				t.Errorf("ResolveTarget(%q) error = %v, want ErrInvalidPath", tt.path, err)
			}
		})
	}
}

func TestTargetKey(t *testing.T) {
	a := TargetKey("/srv/ahab")
	b := TargetKey("/home/me/ahab")

	if a == b {
		t.Error("different targets must produce different keys")
	}
	if !strings.HasPrefix(a, "ahab-") {
		t.Errorf("TargetKey() = %q, want ahab- prefix", a)
	}
	if TargetKey("/srv/ahab/") != a {
		t.Error("TargetKey should ignore trailing separators")
	}
}

func TestBackupDir(t *testing.T) {
	t.Setenv(EnvBackupDir, "")
	if !strings.HasSuffix(BackupDir(), filepath.Join(AppName, "backups")) {
		t.Errorf("BackupDir() = %q", BackupDir())
	}
}

func TestDirOverrides(t *testing.T) {
	t.Setenv(EnvConfigDir, "/tmp/prc-config")
	t.Setenv(EnvBackupDir, "/tmp/prc-backups")

	if got := ConfigDir(); got != "/tmp/prc-config" {
		t.Errorf("ConfigDir() = %q", got)
	}
	if got := BackupDir(); got != "/tmp/prc-backups" {
		t.Errorf("BackupDir() = %q", got)
	}
}
