package backup

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/thoreinstein/prerelease/internal/errors"
	"github.com/thoreinstein/prerelease/internal/paths"
	"github.com/thoreinstein/prerelease/pkg/fileutil"
)

// Version is recorded in every manifest. The CLI sets it from the build.
var Version = "dev"

// Manager stores backups below a root directory, one subdirectory per
// namespace and one per backup inside it.
type Manager struct {
	rootDir        string
	retentionCount int
}

// Option configures a Manager.
type Option func(*Manager)

// WithBackupDir overrides the root directory.
func WithBackupDir(dir string) Option {
	return func(m *Manager) {
		m.rootDir = dir
	}
}

// WithRetentionCount sets the number of backups to retain per target.
func WithRetentionCount(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.retentionCount = n
		}
	}
}

// NewManager returns a Manager rooted at paths.BackupDir unless
// WithBackupDir says otherwise.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		rootDir:        paths.BackupDir(),
		retentionCount: DefaultRetentionCount,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// RetentionCount returns the configured number of backups kept per target.
func (m *Manager) RetentionCount() int {
	return m.retentionCount
}

// copyInto stores a copy of src in the backup directory and describes it.
func (m *Manager) copyInto(backupPath, target, src string) (*File, error) {
	rel := storagePath(target, src)
	dst := filepath.Join(backupPath, rel)

	if err := paths.EnsureDir(filepath.Dir(dst), paths.DefaultDirPerm); err != nil {
		return nil, errors.Wrap(err, "creating backup subdirectory")
	}

	digest, mode, err := copyFile(src, dst)
	if err != nil {
		return nil, errors.Wrapf(err, "backing up %s", src)
	}
	return &File{OriginalPath: src, RelPath: rel, SHA256Hash: digest, Mode: mode}, nil
}

// Restore puts every file of a backup back at its original path. Each file
// is checked against its recorded digest first; a mismatch fails with
// ErrBackupCorrupted before that file is touched.
func (m *Manager) Restore(namespace, backupID string) error {
	manifest, err := m.Get(namespace, backupID)
	if err != nil {
		return err
	}

	dir := m.backupPath(namespace, backupID)
	for _, f := range manifest.Files {
		if err := restoreFile(dir, f); err != nil {
			return err
		}
	}
	return nil
}

func restoreFile(backupPath string, f File) error {
	data, err := os.ReadFile(filepath.Join(backupPath, f.RelPath))
	if err != nil {
		return errors.Wrapf(err, "reading backup copy of %s", f.RelPath)
	}
	if sum := sha256.Sum256(data); hex.EncodeToString(sum[:]) != f.SHA256Hash {
		return errors.Wrapf(ErrBackupCorrupted, "%s does not match its recorded digest", f.RelPath)
	}

	if err := os.MkdirAll(filepath.Dir(f.OriginalPath), 0o755); err != nil {
		return errors.Wrapf(err, "recreating parent of %s", f.OriginalPath)
	}
	mode := f.Mode
	if mode == 0 {
		mode = 0o644
	}
	return errors.Wrapf(fileutil.AtomicWriteFile(f.OriginalPath, data, mode), "restoring %s", f.OriginalPath)
}

// List returns all backups of a target, newest first.
func (m *Manager) List(namespace string) ([]Manifest, error) {
	if namespace == "" {
		return nil, errors.New("namespace is required")
	}

	entries, err := os.ReadDir(m.namespaceDir(namespace))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoBackupsFound
		}
		return nil, errors.Wrap(err, "reading backup directory")
	}

	manifests := make([]Manifest, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		// Directories without a readable manifest are not backups.
		if manifest, err := m.Get(namespace, entry.Name()); err == nil {
			manifests = append(manifests, *manifest)
		}
	}

	if len(manifests) == 0 {
		return nil, ErrNoBackupsFound
	}

	slices.SortFunc(manifests, func(a, b Manifest) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(b.ID, a.ID)
	})

	return manifests, nil
}

// Prune keeps the newest keep backups of a target and removes the rest.
func (m *Manager) Prune(namespace string, keep int) (int, error) {
	if keep < 0 {
		return 0, errors.New("keep must be non-negative")
	}

	manifests, err := m.List(namespace)
	if err != nil {
		if errors.Is(err, ErrNoBackupsFound) {
			return 0, nil
		}
		return 0, err
	}

	removed := 0
	for i := keep; i < len(manifests); i++ {
		if err := os.RemoveAll(m.backupPath(namespace, manifests[i].ID)); err != nil {
			return removed, errors.Wrapf(err, "removing backup %s", manifests[i].ID)
		}
		removed++
	}

	return removed, nil
}

// Get loads the manifest of one backup. IDs that could escape the namespace
// directory are rejected.
func (m *Manager) Get(namespace, backupID string) (*Manifest, error) {
	if namespace == "" {
		return nil, errors.New("namespace is required")
	}
	if backupID == "" {
		return nil, errors.New("backup ID is required")
	}
	if strings.ContainsAny(backupID, `/\`) || backupID == "." || backupID == ".." {
		return nil, errors.Newf("invalid backup ID %q", backupID)
	}

	data, err := os.ReadFile(filepath.Join(m.backupPath(namespace, backupID), manifestName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrNoBackupsFound, "backup %s not found", backupID)
		}
		return nil, errors.Wrap(err, "reading manifest")
	}

	manifest := &Manifest{}
	if err := json.Unmarshal(data, manifest); err != nil {
		return nil, errors.Wrapf(err, "parsing manifest of backup %s", backupID)
	}
	manifest.ID = backupID
	return manifest, nil
}

func (m *Manager) backupPath(namespace, backupID string) string {
	return filepath.Join(m.namespaceDir(namespace), backupID)
}

func (m *Manager) namespaceDir(namespace string) string {
	return filepath.Join(m.rootDir, namespace)
}

func writeManifest(backupPath string, manifest *Manifest) error {
	return errors.Wrap(
		fileutil.AtomicWriteJSON(filepath.Join(backupPath, manifestName), manifest, 0o600),
		"writing manifest",
	)
}

// copyFile copies src to dst and returns the hex SHA-256 digest and the
// permission bits of src. dst is created 0600 and then given those bits.
func copyFile(src, dst string) (string, fs.FileMode, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", 0, err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return "", 0, err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return "", 0, err
	}

	h := sha256.New()
	_, err = io.Copy(out, io.TeeReader(in, h))
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", 0, err
	}

	mode := info.Mode().Perm()
	if err := os.Chmod(dst, mode); err != nil {
		return "", 0, err
	}
	return hex.EncodeToString(h.Sum(nil)), mode, nil
}

// storagePath returns where a file is kept inside a backup directory. Files
// inside target keep their relative path under "files/"; anything else is
// stored under "abs/" by its cleaned absolute path.
func storagePath(target, absPath string) string {
	clean := filepath.Clean(absPath)
	if target != "" {
		if rel, err := filepath.Rel(target, clean); err == nil && rel != "." && !strings.HasPrefix(rel, "..") {
			return filepath.Join("files", rel)
		}
	}
	return filepath.Join("abs", generateRelPath(clean))
}

// generateRelPath converts an absolute path into a relative one that is safe
// to create on any platform: the leading separator and any colons (drive
// letters) are removed.
func generateRelPath(absPath string) string {
	clean := strings.ReplaceAll(filepath.Clean(absPath), ":", "")
	return strings.TrimLeft(clean, `/\`)
}
