package reload

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultInterval is the snapshot polling interval used when none is
// configured.
const DefaultInterval = time.Second

// fileStamp identifies one observed file state.
type fileStamp struct {
	modTimeNS int64
	size      int64
}

// snapshot maps every regular file under the watch roots to its stamp.
type snapshot map[string]fileStamp

// Watcher periodically snapshots the watched directory trees and bumps the
// State whenever the snapshot changes. The snapshot diff is the source of
// truth; fsnotify events only advance the next scan so changes propagate
// faster than the polling interval. On platforms or paths where fsnotify is
// unavailable the watcher degrades to pure polling.
type Watcher struct {
	state    *State
	roots    []string
	interval time.Duration

	cancel context.CancelFunc
	done   chan struct{}
}

// NewWatcher creates a watcher over the given roots. Roots that do not
// exist are skipped silently; they may appear later.
func NewWatcher(state *State, interval time.Duration, roots ...string) *Watcher {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Watcher{state: state, roots: roots, interval: interval}
}

// Start launches the watch loop on its own goroutine. It is a no-op when
// the watcher is already running.
func (w *Watcher) Start(ctx context.Context) {
	if w.done != nil {
		return
	}
	ctx, w.cancel = context.WithCancel(ctx)
	w.done = make(chan struct{})
	go w.run(ctx)
}

// Stop signals the watch loop to exit and waits for it, bounded by timeout.
func (w *Watcher) Stop(timeout time.Duration) error {
	if w.done == nil {
		return nil
	}
	w.cancel()
	select {
	case <-w.done:
		w.done = nil
		return nil
	case <-time.After(timeout):
		return errors.New("file watcher did not stop in time")
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)

	// Nil channels when fsnotify is unavailable; the selects below then
	// only ever fire on the ticker.
	var kicks chan fsnotify.Event
	var kickErrs chan error
	watched := map[string]bool{}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		slog.Debug("fsnotify unavailable, polling only", "err", err)
	} else {
		defer func() { _ = fsw.Close() }()
		kicks = fsw.Events
		kickErrs = fsw.Errors
	}

	current := w.scan(fsw, watched)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-kicks:
		case err, ok := <-kickErrs:
			if !ok {
				kickErrs = nil
				continue
			}
			slog.Debug("fsnotify error", "err", err)
			continue
		}
		next := w.scan(fsw, watched)
		if !maps.Equal(next, current) {
			current = next
			w.state.Bump()
		}
	}
}

// scan walks the watch roots and records every regular file. Stat races and
// unreadable entries are skipped rather than aborting the walk. Newly seen
// directories are registered with fsnotify as a side effect.
func (w *Watcher) scan(fsw *fsnotify.Watcher, watched map[string]bool) snapshot {
	snap := snapshot{}
	for _, root := range w.roots {
		info, err := os.Stat(root)
		if err != nil || !info.IsDir() {
			continue
		}
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if d.IsDir() {
				if fsw != nil && !watched[path] {
					if err := fsw.Add(path); err == nil {
						watched[path] = true
					}
				}
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}
			fi, err := d.Info()
			if err != nil {
				return nil
			}
			snap[path] = fileStamp{modTimeNS: fi.ModTime().UnixNano(), size: fi.Size()}
			return nil
		})
	}
	return snap
}
