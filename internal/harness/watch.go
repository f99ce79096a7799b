package harness

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gosuri/uilive"
)

// DefaultDebounce is how long Watch waits after the last change before
// re-running.
const DefaultDebounce = 300 * time.Millisecond

// Watcher re-runs scenarios when files under a directory change.
// The report is redrawn in place on each run.
type Watcher struct {
	dir      string
	debounce time.Duration
	filter   func(path string) bool
	run      func(w io.Writer)
	out      *uilive.Writer
}

// NewWatcher creates a watcher for dir. run writes one report to w.
func NewWatcher(dir string, out io.Writer, run func(w io.Writer)) *Watcher {
	live := uilive.New()
	live.Out = out

	return &Watcher{
		dir:      dir,
		debounce: DefaultDebounce,
		filter:   isScenarioFile,
		run:      run,
		out:      live,
	}
}

// SetDebounce sets the quiet period before a re-run.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Watch runs once, then again after each burst of changes, until ctx is
// done. Hidden directories are not watched.
func (w *Watcher) Watch(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to initialize watcher: %w", err)
	}
	defer fsw.Close()

	if err := filepath.Walk(w.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if path != w.dir && strings.HasPrefix(info.Name(), ".") {
			return filepath.SkipDir
		}
		return fsw.Add(path)
	}); err != nil {
		return fmt.Errorf("error setting up directory watch: %w", err)
	}

	w.render()

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = fsw.Add(event.Name)
				}
			}
			if !w.filter(event.Name) {
				continue
			}
			timer.Reset(w.debounce)

		case <-timer.C:
			w.render()

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(w.out.Bypass(), "Watch error: %v\n", err)
		}
	}
}

func (w *Watcher) render() {
	w.run(w.out)
	_ = w.out.Flush()
}

func isScenarioFile(path string) bool {
	switch filepath.Ext(path) {
	case ".yaml", ".yml", ".golden":
		return true
	}
	return false
}
