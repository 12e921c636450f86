package backup

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/thoreinstein/prerelease/internal/errors"
	"github.com/thoreinstein/prerelease/internal/paths"
)

// Session collects the files modified by one run into a single backup.
// It is safe for concurrent use.
type Session struct {
	mgr       *Manager
	namespace string
	target    string
	id        string

	mu       sync.Mutex
	manifest *Manifest
	saved    map[string]bool
}

// NewSession opens a backup session for target under namespace. The backup
// directory is created lazily by the first Preserve call.
func (m *Manager) NewSession(namespace, target, id string) *Session {
	return &Session{
		mgr:       m,
		namespace: namespace,
		target:    target,
		id:        id,
		saved:     make(map[string]bool),
	}
}

// ID returns the backup ID of the session.
func (s *Session) ID() string {
	return s.id
}

// Preserve copies path into the session backup unless it was already
// preserved. Missing files are ignored. The manifest is rewritten after
// every new file.
func (s *Session) Preserve(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrapf(err, "resolving %s", path)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.saved[abs] {
		return nil
	}

	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "stat %s", path)
	}
	if info.IsDir() {
		return errors.Newf("%s is a directory", path)
	}

	backupPath := s.mgr.backupPath(s.namespace, s.id)
	if err := paths.EnsureDir(backupPath, paths.DefaultDirPerm); err != nil {
		return errors.Wrap(err, "creating backup directory")
	}

	bf, err := s.mgr.copyInto(backupPath, s.target, abs)
	if err != nil {
		return errors.Wrapf(err, "backing up %s", path)
	}

	if s.manifest == nil {
		s.manifest = &Manifest{
			Version:     ManifestVersion,
			CreatedAt:   time.Now().UTC(),
			Namespace:   s.namespace,
			Target:      s.target,
			RunID:       s.id,
			ToolVersion: Version,
			ID:          s.id,
		}
	}
	s.manifest.Files = append(s.manifest.Files, *bf)

	if err := writeManifest(backupPath, s.manifest); err != nil {
		s.manifest.Files = s.manifest.Files[:len(s.manifest.Files)-1]
		return err
	}

	s.saved[abs] = true
	return nil
}

// Manifest returns a copy of the session manifest, or nil when nothing has
// been preserved.
func (s *Session) Manifest() *Manifest {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.manifest == nil {
		return nil
	}
	c := *s.manifest
	c.Files = append([]File(nil), s.manifest.Files...)
	return &c
}
