package monitor

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Watcher calls OnChange once writes to the watched paths settle.
type Watcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	onChange func()
	paths    []string
}

// NewWatcher watches paths, skipping those that do not exist. Directories
// are watched for files created or written inside them.
func NewWatcher(paths []string, debounce time.Duration, onChange func()) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create file watcher")
	}

	var watched []string

	for _, p := range paths {
		if p == "" {
			continue
		}

		if _, err := os.Stat(p); err != nil {
			klog.Warningf("Not watching %s: %v", p, err)
			continue
		}

		if err := w.Add(filepath.Clean(p)); err != nil {
			_ = w.Close()
			return nil, errors.Wrapf(err, "failed to watch %s", p)
		}

		watched = append(watched, p)
	}

	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}

	return &Watcher{watcher: w, debounce: debounce, onChange: onChange, paths: watched}, nil
}

// Paths returns the paths actually being watched.
func (w *Watcher) Paths() []string {
	return w.paths
}

// Run blocks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	var (
		mu       sync.Mutex
		debounce *time.Timer
	)

	stop := func() {
		mu.Lock()
		defer mu.Unlock()

		if debounce != nil {
			debounce.Stop()
		}
	}

	for {
		select {
		case <-ctx.Done():
			stop()
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}

			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			klog.V(4).Infof("Detected change of %s", event.Name)

			mu.Lock()
			if debounce != nil {
				debounce.Stop()
			}

			debounce = time.AfterFunc(w.debounce, w.onChange)
			mu.Unlock()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}

			klog.Errorf("File watcher error: %v", err)
		}
	}
}
