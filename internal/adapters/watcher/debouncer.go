// Package watcher implements file system watching for manifest changes.
package watcher

import (
	"path/filepath"
	"slices"
	"sync"
	"time"
)

// DefaultDebounceWindow is the default time window for debouncing file events.
const DefaultDebounceWindow = 100 * time.Millisecond

// Debouncer collects changed paths and reports them as one sorted batch
// once no new path has arrived for a full window.
type Debouncer struct {
	window time.Duration
	notify func(paths []string)
	keep   func(path string) bool

	mu      sync.Mutex
	changed map[string]struct{}
	timer   *time.Timer
}

// NewDebouncer creates a debouncer that calls notify after each quiet window.
func NewDebouncer(window time.Duration, notify func(paths []string)) *Debouncer {
	return &Debouncer{
		window:  window,
		notify:  notify,
		changed: make(map[string]struct{}),
	}
}

// Match restricts the debouncer to paths for which keep returns true.
// Other paths neither join a batch nor extend the window.
func (d *Debouncer) Match(keep func(path string) bool) *Debouncer {
	d.keep = keep
	return d
}

// Add records a changed path and restarts the window.
func (d *Debouncer) Add(path string) {
	path = filepath.Clean(path)
	if d.keep != nil && !d.keep(path) {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.changed[path] = struct{}{}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.expire)
}

// take empties the batch. d.mu must be held.
func (d *Debouncer) take() []string {
	if len(d.changed) == 0 {
		return nil
	}
	batch := make([]string, 0, len(d.changed))
	for p := range d.changed {
		batch = append(batch, p)
	}
	slices.Sort(batch)
	clear(d.changed)
	return batch
}

func (d *Debouncer) expire() {
	d.mu.Lock()
	d.timer = nil
	batch := d.take()
	d.mu.Unlock()

	if batch != nil && d.notify != nil {
		go d.notify(batch)
	}
}

// Flush reports the pending batch right away and waits for notify to return.
// It does nothing when the window already expired.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		if !d.timer.Stop() {
			d.mu.Unlock()
			return
		}
		d.timer = nil
	}
	batch := d.take()
	d.mu.Unlock()

	if batch != nil && d.notify != nil {
		d.notify(batch)
	}
}
