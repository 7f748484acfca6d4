package gen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/imports"

	"github.com/syssam/gqlcodegen"
	"github.com/syssam/gqlcodegen/internal/logging"
)

// Writer renders units and writes them below an output directory.
type Writer struct {
	dir     string
	workers int
	log     *slog.Logger

	mu      sync.Mutex
	written []string
}

// NewWriter returns a Writer for the output directory dir.
func NewWriter(dir string, opts ...Option) *Writer {
	w := &Writer{
		dir:     dir,
		workers: runtime.GOMAXPROCS(0),
		log:     logging.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write renders and writes all units in parallel. Every file is replaced
// atomically. It returns the relative paths written so far, sorted, also on
// failure: files written before an error stay on disk.
func (w *Writer) Write(ctx context.Context, units []*Unit) ([]string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return nil, &gqlcodegen.OutputWriteError{Path: w.dir, Cause: err}
	}
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(w.workers)
	for _, u := range units {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				return w.writeUnit(u)
			}
		})
	}
	err := eg.Wait()

	w.mu.Lock()
	defer w.mu.Unlock()
	written := slices.Clone(w.written)
	slices.Sort(written)
	return written, err
}

func (w *Writer) writeUnit(u *Unit) error {
	fullPath := filepath.Join(w.dir, filepath.FromSlash(u.Path))
	src, err := u.Render()
	if err != nil {
		w.debugDump(fullPath, []byte(err.Error()))
		return fmt.Errorf("render %s: %w", u.Path, err)
	}
	formatted, err := format(fullPath, src)
	if err != nil {
		w.debugDump(fullPath, src)
		return fmt.Errorf("format %s: %w (unformatted written to %s.error)", u.Path, err, fullPath)
	}
	if err := writeAtomic(fullPath, formatted); err != nil {
		return &gqlcodegen.OutputWriteError{Path: fullPath, Cause: err}
	}
	// A successful write supersedes the dump of an earlier failed run.
	_ = os.Remove(fullPath + ".error")

	w.mu.Lock()
	w.written = append(w.written, u.Path)
	w.mu.Unlock()
	w.log.Debug("wrote file", slog.String("path", u.Path), slog.String("kind", u.Kind.String()), slog.Int("bytes", len(formatted)))
	return nil
}

// format runs the goimports formatting pass over rendered source. Jennifer
// output is gofmt'ed already; this groups standard library imports apart
// from the others.
func format(filename string, src []byte) ([]byte, error) {
	return imports.Process(filename, src, &imports.Options{
		FormatOnly: true,
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
	})
}

// debugDump writes unformatted output next to its target for debugging.
// Errors are ignored as the caller is already failing.
func (w *Writer) debugDump(fullPath string, b []byte) {
	_ = os.MkdirAll(filepath.Dir(fullPath), 0o755)
	_ = os.WriteFile(fullPath+".error", b, 0o644)
}

// writeAtomic writes b to a temporary file in the target directory and
// renames it over path, so readers never observe a partial file.
func writeAtomic(path string, b []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()
	if _, err := tmp.Write(b); err != nil {
		return errors.Join(err, tmp.Close())
	}
	if err := tmp.Chmod(0o644); err != nil {
		return errors.Join(err, tmp.Close())
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
