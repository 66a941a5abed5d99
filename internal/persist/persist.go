// Package persist reads and writes diagram objects as YAML documents.
// Each object is stored as its ID, kind and attribute map, so anything an
// object keeps in its attribute store round-trips.
package persist

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/dshills/wirecanvas/internal/attr"
	"github.com/dshills/wirecanvas/internal/diagram"
)

// ErrUnsupportedVersion is returned for documents newer than this reader.
var ErrUnsupportedVersion = errors.New("unsupported document version")

const currentVersion = 1

// persistedObject is the YAML form of a diagram object.
type persistedObject struct {
	ID    string         `yaml:"id"`
	Kind  string         `yaml:"kind"`
	Attrs map[string]any `yaml:"attrs,omitempty"`
}

// persistedData is the root of a document.
type persistedData struct {
	Version int               `yaml:"version"`
	SavedAt time.Time         `yaml:"saved_at,omitempty"`
	Objects []persistedObject `yaml:"objects"`
}

func toPersisted(o *diagram.Object) persistedObject {
	return persistedObject{
		ID:    o.ID().String(),
		Kind:  o.Kind().String(),
		Attrs: o.Attrs().Map(),
	}
}

// toObject rebuilds a standalone object. A missing or malformed ID gets a
// fresh one.
func toObject(p persistedObject) (*diagram.Object, error) {
	id, err := uuid.Parse(p.ID)
	if err != nil {
		id = uuid.Nil
	}
	store, err := attr.FromMap(p.Attrs)
	if err != nil {
		return nil, fmt.Errorf("object %s: %w", p.ID, err)
	}
	return diagram.Restore(id, diagram.ParseKind(p.Kind), store), nil
}

// Encode writes objs, in order, as a YAML document.
func Encode(w io.Writer, objs []*diagram.Object) error {
	data := persistedData{
		Version: currentVersion,
		SavedAt: time.Now().UTC().Truncate(time.Second),
		Objects: make([]persistedObject, 0, len(objs)),
	}
	for _, o := range objs {
		if o == nil {
			continue
		}
		data.Objects = append(data.Objects, toPersisted(o))
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&data); err != nil {
		return fmt.Errorf("failed to encode objects: %w", err)
	}
	return enc.Close()
}

// Decode reads a document written by Encode. The returned objects are
// standalone and in document order. An empty document yields no objects.
func Decode(r io.Reader) ([]*diagram.Object, error) {
	var data persistedData
	if err := yaml.NewDecoder(r).Decode(&data); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to decode objects: %w", err)
	}
	if data.Version > currentVersion {
		return nil, fmt.Errorf("%w: %d (max supported: %d)", ErrUnsupportedVersion, data.Version, currentVersion)
	}

	objs := make([]*diagram.Object, 0, len(data.Objects))
	seen := make(map[uuid.UUID]struct{}, len(data.Objects))
	for _, p := range data.Objects {
		o, err := toObject(p)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[o.ID()]; dup {
			o = o.Clone()
		}
		seen[o.ID()] = struct{}{}
		objs = append(objs, o)
	}
	return objs, nil
}

// Marshal encodes objs into a byte slice.
func Marshal(objs []*diagram.Object) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, objs); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a byte slice produced by Marshal.
func Unmarshal(data []byte) ([]*diagram.Object, error) {
	return Decode(bytes.NewReader(data))
}

// Save writes every object of d to path and clears its modified flag.
// The file is written atomically using a temporary file and rename.
func Save(d *diagram.Diagram, path string) error {
	data, err := Marshal(d.Objects())
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	d.SetModified(false)
	return nil
}

// Load replaces the contents of d with the document at path. Selection
// and history are cleared. On error d is left unchanged.
func Load(d *diagram.Diagram, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open diagram: %w", err)
	}
	defer f.Close()

	objs, err := Decode(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return d.Reset(objs)
}
