package validator

import (
	"sync"
	"time"

	"github.com/thoreinstein/prerelease/internal/errors"
)

var (
	// ErrDuplicateResult is returned when a validator name is recorded twice.
	ErrDuplicateResult = errors.New("result already recorded")

	// ErrCollectorFinalized is returned when recording after Finalize.
	ErrCollectorFinalized = errors.New("collector already finalized")
)

// Meta describes the run a report belongs to.
type Meta struct {
	RunID     string
	Target    string
	StartedAt time.Time
	Strict    bool
	Fix       bool
	Parallel  bool
	BackupID  string
}

// Collector gathers results of one run. It is safe for concurrent use and
// accepts at most one result per validator name.
type Collector struct {
	mu        sync.Mutex
	results   []Result
	seen      map[string]struct{}
	finalized bool
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{seen: make(map[string]struct{})}
}

// Record stores a copy of r.
func (c *Collector) Record(r *Result) error {
	if r == nil {
		return errors.New("nil result")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.finalized {
		return errors.Wrapf(ErrCollectorFinalized, "recording %s", r.Name)
	}
	if _, ok := c.seen[r.Name]; ok {
		return errors.Wrapf(ErrDuplicateResult, "%s", r.Name)
	}
	c.seen[r.Name] = struct{}{}
	c.results = append(c.results, r.Clone())
	return nil
}

// Finalize closes the collector and builds the report. Results appear in
// recording order. Calling Finalize again returns a report over the same
// results.
func (c *Collector) Finalize(meta Meta) *Report {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.finalized = true

	results := make([]Result, len(c.results))
	for i := range c.results {
		results[i] = c.results[i].Clone()
	}

	report := &Report{
		RunID:     meta.RunID,
		Target:    meta.Target,
		StartedAt: meta.StartedAt,
		Strict:    meta.Strict,
		Fix:       meta.Fix,
		Parallel:  meta.Parallel,
		BackupID:  meta.BackupID,
		Results:   results,
	}
	if !meta.StartedAt.IsZero() {
		report.Duration = time.Since(meta.StartedAt)
	}
	report.Tally()
	return report
}
