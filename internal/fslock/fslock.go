// Package fslock provides in-process exclusive locks keyed by file path.
//
// Fixers running concurrently in parallel mode take the lock of a file for
// the whole read-modify-write cycle so that two fixers never interleave
// writes to the same file.
package fslock

import (
	"path/filepath"
	"sync"
)

type entry struct {
	mu   sync.Mutex
	refs int
}

// Locker hands out one mutex per cleaned path. Entries are dropped once no
// goroutine holds or waits for them.
type Locker struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// New creates an empty Locker.
func New() *Locker {
	return &Locker{entries: make(map[string]*entry)}
}

// Lock blocks until the lock for path is held and returns its release
// function. Calling the release function more than once is a no-op.
func (l *Locker) Lock(path string) (unlock func()) {
	key := filepath.Clean(path)

	l.mu.Lock()
	e, ok := l.entries[key]
	if !ok {
		e = &entry{}
		l.entries[key] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Unlock()

			l.mu.Lock()
			e.refs--
			if e.refs == 0 {
				delete(l.entries, key)
			}
			l.mu.Unlock()
		})
	}
}

// Len returns the number of paths currently held or awaited.
func (l *Locker) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
