// Package watcher wakes the poll loop as soon as the telemetry file is
// written, so the dashboard sees new readings without waiting out the rest
// of the poll interval. Purely an accelerator: the poller's ticker remains
// the cadence of record and the only freshness authority.
package watcher

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// Watcher monitors the directory holding the telemetry file and emits a
// coalesced wake signal when that file is written or created.
type Watcher struct {
	fsw  *fsnotify.Watcher
	path string
	wake chan struct{}
}

// New creates a Watcher for the given telemetry file path. The parent
// directory must exist; the file itself may not (it is often created later
// by the simulator).
func New(path string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		fsw.Close()
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, err
	}

	return &Watcher{
		fsw:  fsw,
		path: abs,
		wake: make(chan struct{}, 1),
	}, nil
}

// Wake returns the channel that receives a signal when the telemetry file
// changes. Signals are coalesced: a burst of writes yields one wake-up.
func (w *Watcher) Wake() <-chan struct{} {
	return w.wake
}

// Start forwards relevant file events until the context is cancelled.
func (w *Watcher) Start(ctx context.Context) {
	defer w.fsw.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			select {
			case w.wake <- struct{}{}:
			default:
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("telemetry file watcher error")
		}
	}
}
