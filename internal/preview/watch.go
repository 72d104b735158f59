package preview

import (
	"os"
	"time"
)

// watcher polls file modification times. A polling watcher keeps the
// preview tool dependency-free of platform notification APIs and is plenty
// for hand-edited data files.
type watcher struct {
	paths    []string
	interval time.Duration
	mtimes   map[string]time.Time
	stop     chan struct{}
}

func newWatcher(paths []string, interval time.Duration) *watcher {
	w := &watcher{
		paths:    paths,
		interval: interval,
		mtimes:   make(map[string]time.Time),
		stop:     make(chan struct{}),
	}
	w.snapshot()
	return w
}

// snapshot records current mtimes. Missing files record a zero time so
// their later appearance counts as a change.
func (w *watcher) snapshot() {
	for _, path := range w.paths {
		info, err := os.Stat(path)
		if err != nil {
			w.mtimes[path] = time.Time{}
			continue
		}
		w.mtimes[path] = info.ModTime()
	}
}

// changed reports whether any watched file's mtime moved since the last
// snapshot, and refreshes the snapshot.
func (w *watcher) changed() bool {
	dirty := false
	for _, path := range w.paths {
		info, err := os.Stat(path)
		var mtime time.Time
		if err == nil {
			mtime = info.ModTime()
		}
		if !mtime.Equal(w.mtimes[path]) {
			w.mtimes[path] = mtime
			dirty = true
		}
	}
	return dirty
}

// run invokes onChange whenever a watched file changes, until Close.
func (w *watcher) run(onChange func()) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stop:
			return
		case <-ticker.C:
			if w.changed() {
				onChange()
			}
		}
	}
}

func (w *watcher) close() {
	close(w.stop)
}
