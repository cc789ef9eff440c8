package core

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultWatchDebounce coalesces bursts of writes to one re-run.
const DefaultWatchDebounce = 1 * time.Second

// WatchService re-runs a callback when any of a set of files changes.
type WatchService struct {
	paths    []string
	debounce time.Duration
	ui       UICallback
	logger   *slog.Logger
}

// NewWatchService creates a watcher for paths. Empty paths are ignored.
func NewWatchService(paths []string, ui UICallback, logger *slog.Logger) *WatchService {
	if logger == nil {
		logger = slog.Default()
	}
	if ui == nil {
		ui = &SilentUICallback{}
	}
	clean := make([]string, 0, len(paths))
	for _, p := range paths {
		if p != "" {
			clean = append(clean, filepath.Clean(p))
		}
	}
	return &WatchService{paths: clean, debounce: DefaultWatchDebounce, ui: ui, logger: logger}
}

// SetDebounce changes the quiet period before a re-run.
func (w *WatchService) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Watch blocks until ctx is cancelled, calling onChange once per burst of
// write/create events on the watched files. Parent directories are watched
// so editors that replace files by rename are still seen. onChange never
// runs concurrently with itself.
//
// A burst only triggers a run when some watched file's content differs from
// what it was after the previous run (or at startup). Writes made by
// onChange itself are therefore not seen as changes.
func (w *WatchService) Watch(ctx context.Context, onChange func(context.Context) error) error {
	if len(w.paths) == 0 {
		return fmt.Errorf("nothing to watch")
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	watched := make(map[string]bool, len(w.paths))
	dirs := make(map[string]bool)
	for _, p := range w.paths {
		watched[p] = true
		dir := filepath.Dir(p)
		if dirs[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
		dirs[dir] = true
	}

	w.logger.Info("watching for changes", slog.Any("paths", w.paths))
	seen := w.digests()

	trigger := make(chan string, 1)
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			name := filepath.Clean(event.Name)
			if !watched[name] {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(w.debounce, func() {
				select {
				case trigger <- name:
				default:
				}
			})

		case name := <-trigger:
			if _, err := os.Stat(name); err != nil {
				w.ui.ShowWarning("File Not Found", fmt.Sprintf("%s was deleted or is inaccessible", name))
				continue
			}
			current := w.digests()
			if sameDigests(seen, current) {
				w.logger.Debug("watched files unchanged, not re-running", slog.String("path", name))
				continue
			}
			w.logger.Info("change detected", slog.String("path", name))
			if err := onChange(ctx); err != nil {
				w.ui.ShowError("Run Failed", err.Error())
			} else {
				w.ui.ShowSuccess(fmt.Sprintf("Re-ran workflow after change to %s", filepath.Base(name)))
			}
			seen = w.digests()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", slog.String("error", err.Error()))
		}
	}
}

// digests hashes every watched file. Unreadable files map to "".
func (w *WatchService) digests() map[string]string {
	out := make(map[string]string, len(w.paths))
	for _, p := range w.paths {
		data, err := os.ReadFile(p)
		if err != nil {
			out[p] = ""
			continue
		}
		sum := sha256.Sum256(data)
		out[p] = hex.EncodeToString(sum[:])
	}
	return out
}

func sameDigests(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}
