// Package load resolves the configured schema paths to an ordered set of
// schema sources.
package load

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/syssam/gqlcodegen"
)

// Source is one schema fragment.
type Source struct {
	// Name is the absolute path of the file the fragment was read from.
	Name  string
	Input string
}

// Bundle is the set of fragments making up one logical schema, ordered by path.
type Bundle struct {
	Sources []*Source
}

// Names returns the source names in order.
func (b *Bundle) Names() []string {
	names := make([]string, len(b.Sources))
	for i, s := range b.Sources {
		names[i] = s.Name
	}
	return names
}

// Merged returns the concatenation of all fragments, each terminated by a newline.
func (b *Bundle) Merged() string {
	var sb strings.Builder
	for _, s := range b.Sources {
		sb.WriteString(s.Input)
		if !strings.HasSuffix(s.Input, "\n") {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// Option configures a Loader.
type Option func(*Loader)

// Exclude skips directories, and everything below them, when they lie
// inside a directory or glob root being expanded. Directories that contain
// a configured path, and explicitly named files, are not affected.
func Exclude(dirs ...string) Option {
	return func(l *Loader) {
		for _, d := range dirs {
			if d == "" {
				continue
			}
			if abs, err := filepath.Abs(d); err == nil {
				l.exclude = append(l.exclude, abs)
			}
		}
	}
}

// Loader expands schema paths into files.
type Loader struct {
	exclude []string
}

// New returns a Loader.
func New(opts ...Option) *Loader {
	l := &Loader{}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load expands paths with a default Loader.
func Load(paths ...string) (*Bundle, error) {
	return New().Load(paths...)
}

// Files expands paths with a default Loader.
func Files(paths ...string) ([]string, error) {
	return New().Files(paths...)
}

// Load expands paths into schema files and reads them. A path may name a
// file, a directory (walked recursively, every regular file is taken) or a
// glob pattern; "**" matches across directories. The resulting files are
// deduplicated and sorted by path.
func (l *Loader) Load(paths ...string) (*Bundle, error) {
	files, err := l.Files(paths...)
	if err != nil {
		return nil, err
	}
	b := &Bundle{Sources: make([]*Source, 0, len(files))}
	for _, name := range files {
		data, err := os.ReadFile(name) //nolint:gosec // path is provided by configuration
		if err != nil {
			return nil, fmt.Errorf("read schema %s: %w", name, err)
		}
		b.Sources = append(b.Sources, &Source{Name: name, Input: string(data)})
	}
	return b, nil
}

// Files returns the deduplicated, sorted absolute paths of the schema files
// for paths. A file reached through several spellings is listed once.
func (l *Loader) Files(paths ...string) ([]string, error) {
	seen := make(map[string]struct{})
	for _, p := range paths {
		if p == "" {
			continue
		}
		matches, err := l.expand(p)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			abs, err := filepath.Abs(m)
			if err != nil {
				return nil, fmt.Errorf("resolve schema path %s: %w", m, err)
			}
			seen[abs] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return nil, &gqlcodegen.SchemaNotFoundError{Paths: paths}
	}
	files := make([]string, 0, len(seen))
	for f := range seen {
		files = append(files, f)
	}
	sort.Strings(files)
	return files, nil
}

// expand resolves a single configured path.
func (l *Loader) expand(p string) ([]string, error) {
	if isPattern(p) {
		base, _ := doublestar.SplitPattern(filepath.ToSlash(p))
		excluded := l.below(filepath.FromSlash(base))
		matches, err := doublestar.FilepathGlob(p, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("expanding glob pattern %q: %w", p, err)
		}
		return slices.DeleteFunc(matches, excluded), nil
	}
	info, err := os.Stat(p)
	if err != nil {
		return nil, &gqlcodegen.SchemaNotFoundError{Paths: []string{p}, Cause: err}
	}
	if !info.IsDir() {
		return []string{p}, nil
	}
	excluded := l.below(p)
	var files []string
	err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && path != p && excluded(path) {
			return filepath.SkipDir
		}
		if d.Type().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk schema directory %s: %w", p, err)
	}
	return files, nil
}

// below returns a predicate reporting whether a path lies in an excluded
// directory strictly inside root.
func (l *Loader) below(root string) func(string) bool {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return func(string) bool { return false }
	}
	var dirs []string
	for _, d := range l.exclude {
		if d != absRoot && within(d, absRoot) {
			dirs = append(dirs, d)
		}
	}
	return func(p string) bool {
		if len(dirs) == 0 {
			return false
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return false
		}
		for _, d := range dirs {
			if within(abs, d) {
				return true
			}
		}
		return false
	}
}

// within reports whether p is dir or below it. Both are absolute and clean.
func within(p, dir string) bool {
	return p == dir || strings.HasPrefix(p, strings.TrimSuffix(dir, string(filepath.Separator))+string(filepath.Separator))
}

func isPattern(p string) bool {
	return strings.ContainsAny(p, "*?[")
}
