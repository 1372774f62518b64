package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const DefaultDebounce = 200 * time.Millisecond

// Watcher reruns a callback whenever source programs in a directory change.
// Bursts of events are collapsed into a single call.
type Watcher struct {
	logger     *zap.Logger
	dir        string
	extensions []string
	recursive  bool
	debounce   time.Duration
	onChange   func() error
}

func New(logger *zap.Logger, dir string, extensions []string, debounce time.Duration, onChange func() error) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		logger:     logger,
		dir:        dir,
		extensions: extensions,
		debounce:   debounce,
		onChange:   onChange,
	}
}

// Recursive also watches every subdirectory, including ones created while
// the watcher runs.
func (w *Watcher) Recursive(on bool) *Watcher {
	w.recursive = on
	return w
}

// Run blocks until ctx is done. Callback errors are logged and do not stop
// the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fw.Close()

	if err := w.addTree(fw, w.dir); err != nil {
		return fmt.Errorf("error adding directory to watcher: %w", err)
	}
	w.logger.Info("Watching for changes", zap.String("dir", w.dir))

	// nil until a relevant event arrives; a nil channel never fires
	var rebuild <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if w.newSubdir(event) {
				if err := w.addTree(fw, event.Name); err != nil {
					w.logger.Error("Failed to watch directory", zap.String("dir", event.Name), zap.Error(err))
				}
				// sources may have landed before the watch was registered
				rebuild = time.After(w.debounce)
				continue
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("Source changed", zap.String("file", event.Name), zap.String("op", event.Op.String()))
			rebuild = time.After(w.debounce)
		case <-rebuild:
			rebuild = nil
			if err := w.onChange(); err != nil {
				w.logger.Error("Rebuild failed", zap.Error(err))
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("Watcher error", zap.Error(err))
		}
	}
}

// addTree registers dir, and every directory below it when recursive.
func (w *Watcher) addTree(fw *fsnotify.Watcher, dir string) error {
	if !w.recursive {
		return fw.Add(dir)
	}
	root, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return err
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			w.logger.Debug("Watching directory", zap.String("dir", path))
			return fw.Add(path)
		}
		return nil
	})
}

func (w *Watcher) newSubdir(event fsnotify.Event) bool {
	if !w.recursive || !event.Has(fsnotify.Create) {
		return false
	}
	info, err := os.Stat(event.Name)
	return err == nil && info.IsDir()
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	if len(w.extensions) == 0 {
		return true
	}
	ext := filepath.Ext(event.Name)
	for _, e := range w.extensions {
		if ext == e {
			return true
		}
	}
	return false
}
