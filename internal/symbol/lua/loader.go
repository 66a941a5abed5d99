package lua

import (
	"fmt"

	"github.com/dshills/wirecanvas/internal/symbol"
)

// LoadFile runs a script in a fresh state and returns the symbols it
// registered. A script that registers nothing is not an error.
func LoadFile(path string, opts ...StateOption) ([]symbol.Definition, error) {
	s := NewState(opts...)
	if err := s.DoFile(path); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	defs := s.Definitions()
	if len(defs) == 0 {
		_ = s.Close()
	}
	return defs, nil
}

// Loader returns a symbol.FileLoader for ".lua" files using opts.
func Loader(opts ...StateOption) symbol.FileLoader {
	return func(path string) ([]symbol.Definition, error) {
		return LoadFile(path, opts...)
	}
}

// Register adds the Lua loader to a loader table.
func Register(loaders map[string]symbol.FileLoader, opts ...StateOption) map[string]symbol.FileLoader {
	if loaders == nil {
		loaders = symbol.DefaultLoaders()
	}
	loaders[".lua"] = Loader(opts...)
	return loaders
}
