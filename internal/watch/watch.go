// Package watch reruns a function whenever schema files change.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/syssam/gqlcodegen/internal/logging"
)

// DefaultDelay is how long the watcher waits for a burst of events to
// settle before calling the function.
const DefaultDelay = 200 * time.Millisecond

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.log = l
		}
	}
}

// WithDelay sets the settle delay.
func WithDelay(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.delay = d
		}
	}
}

// WithIgnore excludes directories, and everything below them, from the
// watch. The output directory belongs here when it lives inside a schema
// directory.
func WithIgnore(dirs ...string) Option {
	return func(w *Watcher) {
		for _, d := range dirs {
			if abs, err := filepath.Abs(d); err == nil {
				w.ignore = append(w.ignore, abs)
			}
		}
	}
}

// Watcher watches the directories holding a set of schema paths.
type Watcher struct {
	fs     *fsnotify.Watcher
	log    *slog.Logger
	delay  time.Duration
	ignore []string
}

// New starts watching the directories of paths. Paths take the same forms
// as schema paths: files, directories or glob patterns.
func New(paths []string, opts ...Option) (*Watcher, error) {
	w := &Watcher{log: logging.Nop(), delay: DefaultDelay}
	for _, opt := range opts {
		opt(w)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w.fs = fw
	for _, dir := range Dirs(paths...) {
		if err := w.addTree(dir); err != nil {
			fw.Close()
			return nil, err
		}
	}
	return w, nil
}

// Watched returns the watched directories.
func (w *Watcher) Watched() []string {
	list := w.fs.WatchList()
	slices.Sort(list)
	return list
}

// Close stops the watch.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

// Run calls fn after every settled burst of changes until ctx is done.
// Errors returned by fn are logged and do not stop the watch.
func (w *Watcher) Run(ctx context.Context, fn func(context.Context) error) error {
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", slog.Any("error", err))
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := w.addTree(ev.Name); err != nil {
						w.log.Warn("watch directory", slog.String("path", ev.Name), slog.Any("error", err))
					}
				}
			}
			w.log.Debug("schema changed", slog.String("path", ev.Name), slog.String("op", ev.Op.String()))
			if timer == nil {
				timer = time.NewTimer(w.delay)
			} else {
				timer.Reset(w.delay)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			if err := fn(ctx); err != nil && ctx.Err() == nil {
				w.log.Error("regenerate", slog.Any("error", err))
			}
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	return !w.ignored(ev.Name)
}

func (w *Watcher) ignored(name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	for _, dir := range w.ignore {
		if abs == dir || strings.HasPrefix(abs, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// addTree watches dir and every directory below it.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir && os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if w.ignored(path) {
			return filepath.SkipDir
		}
		return w.fs.Add(path)
	})
}

// Dirs returns the root directories to watch for paths: a directory is its
// own root, a file or a missing path contributes its parent, and a glob
// pattern contributes the directory before its first meta character.
func Dirs(paths ...string) []string {
	seen := make(map[string]struct{})
	for _, p := range paths {
		if strings.TrimSpace(p) == "" {
			continue
		}
		seen[root(p)] = struct{}{}
	}
	dirs := make([]string, 0, len(seen))
	for d := range seen {
		dirs = append(dirs, d)
	}
	slices.Sort(dirs)
	return dirs
}

func root(p string) string {
	if strings.ContainsAny(p, "*?[") {
		base, _ := doublestar.SplitPattern(filepath.ToSlash(p))
		return filepath.Clean(filepath.FromSlash(base))
	}
	if info, err := os.Stat(p); err == nil && info.IsDir() {
		return filepath.Clean(p)
	}
	return filepath.Dir(p)
}
