package symbol

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// ErrDuplicateClass is returned when a library file defines a class twice.
var ErrDuplicateClass = errors.New("duplicate symbol class")

// FileLoader parses one library file into definitions.
type FileLoader func(path string) ([]Definition, error)

// DefaultLoaders maps file extensions to the built-in YAML loader.
func DefaultLoaders() map[string]FileLoader {
	return map[string]FileLoader{
		".yaml": LoadFile,
		".yml":  LoadFile,
	}
}

// Library is a Resolver backed by a map of definitions. It may be reloaded
// from another goroutine while the engine reads it.
type Library struct {
	mu   sync.RWMutex
	defs map[string]Definition
}

// NewLibrary creates a library holding defs. Later duplicates win.
func NewLibrary(defs ...Definition) *Library {
	l := &Library{defs: make(map[string]Definition, len(defs))}
	for _, d := range defs {
		l.defs[d.Class()] = d
	}
	return l
}

// FindSymbol implements Resolver.
func (l *Library) FindSymbol(class string) (Geometry, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	d, ok := l.defs[class]
	if !ok {
		return nil, false
	}
	return d, true
}

// Register adds or replaces a definition.
func (l *Library) Register(d Definition) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if old, ok := l.defs[d.Class()]; ok && old != d {
		closeDef(old)
	}
	l.defs[d.Class()] = d
}

// Unregister removes a class.
func (l *Library) Unregister(class string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	d, ok := l.defs[class]
	if ok {
		closeDef(d)
		delete(l.defs, class)
	}
	return ok
}

// Classes returns the known class names in sorted order.
func (l *Library) Classes() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	names := make([]string, 0, len(l.defs))
	for name := range l.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of classes.
func (l *Library) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.defs)
}

// Replace swaps the whole content of the library. Definitions that are no
// longer referenced are closed if they hold resources.
func (l *Library) Replace(defs []Definition) {
	next := make(map[string]Definition, len(defs))
	for _, d := range defs {
		next[d.Class()] = d
	}

	l.mu.Lock()
	old := l.defs
	l.defs = next
	l.mu.Unlock()

	for class, d := range old {
		if n, ok := next[class]; !ok || n != d {
			closeDef(d)
		}
	}
}

// LoadDir reads every file in dir whose extension has a loader and replaces
// the library content with the result. Files are read in name order; a
// class defined in two files is an error. On error the library is left
// unchanged.
func (l *Library) LoadDir(dir string, loaders map[string]FileLoader) (int, error) {
	defs, err := ReadDir(dir, loaders)
	if err != nil {
		return 0, err
	}
	l.Replace(defs)
	return len(defs), nil
}

// ReadDir loads the definitions of every recognised file in dir.
func ReadDir(dir string, loaders map[string]FileLoader) ([]Definition, error) {
	if loaders == nil {
		loaders = DefaultLoaders()
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read symbol directory: %w", err)
	}

	var defs []Definition
	seen := make(map[string]string)
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		load, ok := loaders[strings.ToLower(filepath.Ext(e.Name()))]
		if !ok {
			continue
		}
		path := filepath.Join(dir, e.Name())
		fileDefs, err := load(path)
		if err != nil {
			closeAll(defs)
			return nil, err
		}
		for _, d := range fileDefs {
			if prev, dup := seen[d.Class()]; dup {
				closeAll(defs)
				closeAll(fileDefs)
				return nil, fmt.Errorf("%w %q in %s (first defined in %s)", ErrDuplicateClass, d.Class(), path, prev)
			}
			seen[d.Class()] = path
		}
		defs = append(defs, fileDefs...)
	}
	return defs, nil
}

// libraryFile is the top-level YAML document.
type libraryFile struct {
	Symbols []*Shape `yaml:"symbols"`
}

// LoadYAML decodes a YAML library document.
func LoadYAML(r io.Reader) ([]*Shape, error) {
	var doc libraryFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode symbol library: %w", err)
	}

	seen := make(map[string]bool, len(doc.Symbols))
	for _, s := range doc.Symbols {
		if s == nil {
			return nil, fmt.Errorf("decode symbol library: empty entry")
		}
		if err := s.Validate(); err != nil {
			return nil, err
		}
		if seen[s.Name] {
			return nil, fmt.Errorf("%w %q", ErrDuplicateClass, s.Name)
		}
		seen[s.Name] = true
	}
	return doc.Symbols, nil
}

// LoadFile reads a YAML library file.
func LoadFile(path string) ([]Definition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	shapes, err := LoadYAML(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	defs := make([]Definition, len(shapes))
	for i, s := range shapes {
		defs[i] = s
	}
	return defs, nil
}

func closeDef(d Definition) {
	if c, ok := d.(io.Closer); ok {
		_ = c.Close()
	}
}

func closeAll(defs []Definition) {
	for _, d := range defs {
		closeDef(d)
	}
}
