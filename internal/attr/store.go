package attr

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

const emptyDoc = "{}"

// Change is the before/after pair produced by a write.
type Change struct {
	Path string
	Old  Value
	New  Value
}

// IsNoop reports whether the write left the value unchanged.
func (c Change) IsNoop() bool {
	return c.Old.Equal(c.New)
}

// Inverse returns the change that reverts this one.
func (c Change) Inverse() Change {
	return Change{Path: c.Path, Old: c.New, New: c.Old}
}

// Store maps dotted key paths to values. It is not safe for concurrent use.
type Store struct {
	doc string
}

// New creates an empty store.
func New() *Store {
	return &Store{doc: emptyDoc}
}

// FromJSON creates a store from a JSON object.
func FromJSON(doc string) (*Store, error) {
	if strings.TrimSpace(doc) == "" {
		return New(), nil
	}
	if !gjson.Valid(doc) {
		return nil, fmt.Errorf("attr: invalid JSON document")
	}
	if !gjson.Parse(doc).IsObject() {
		return nil, &ShapeError{Path: "", Got: kindOf(gjson.Parse(doc)), Want: KindMap}
	}
	return &Store{doc: string(pretty.Ugly([]byte(doc)))}, nil
}

// FromMap creates a store holding the given map.
func FromMap(m map[string]any) (*Store, error) {
	if len(m) == 0 {
		return New(), nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("attr: encode map: %w", err)
	}
	return &Store{doc: string(data)}, nil
}

// JSON returns the compact JSON document.
func (s *Store) JSON() string {
	return s.doc
}

// Map returns the document decoded into plain Go values.
func (s *Store) Map() map[string]any {
	m, ok := gjson.Parse(s.doc).Value().(map[string]any)
	if !ok || m == nil {
		return map[string]any{}
	}
	return m
}

// Clone returns an independent copy.
func (s *Store) Clone() *Store {
	return &Store{doc: s.doc}
}

// Keys returns the top-level keys in sorted order.
func (s *Store) Keys() []string {
	var keys []string
	gjson.Parse(s.doc).ForEach(func(k, _ gjson.Result) bool {
		keys = append(keys, k.String())
		return true
	})
	sort.Strings(keys)
	return keys
}

// Lookup returns the value at path. The second result is false when the
// leaf is missing.
func (s *Store) Lookup(path string) (Value, bool) {
	if validatePath(path) != nil {
		return Value{}, false
	}
	r := gjson.Get(s.doc, path)
	return Value{r: r}, r.Exists()
}

// Has reports whether path holds a value.
func (s *Store) Has(path string) bool {
	_, ok := s.Lookup(path)
	return ok
}

// Float reads a number.
func (s *Store) Float(path string) (float64, error) {
	v, ok := s.Lookup(path)
	if !ok {
		return 0, ErrNotFound
	}
	f, ok := v.Float()
	if !ok {
		return 0, &ShapeError{Path: path, Got: v.Kind(), Want: KindNumber}
	}
	return f, nil
}

// String reads a string.
func (s *Store) String(path string) (string, error) {
	v, ok := s.Lookup(path)
	if !ok {
		return "", ErrNotFound
	}
	str, ok := v.Str()
	if !ok {
		return "", &ShapeError{Path: path, Got: v.Kind(), Want: KindString}
	}
	return str, nil
}

// Bool reads a boolean.
func (s *Store) Bool(path string) (bool, error) {
	v, ok := s.Lookup(path)
	if !ok {
		return false, ErrNotFound
	}
	b, ok := v.Bool()
	if !ok {
		return false, &ShapeError{Path: path, Got: v.Kind(), Want: KindBool}
	}
	return b, nil
}

// Set writes value at path and returns the change. A nil value deletes the
// leaf. Missing intermediate maps are created.
func (s *Store) Set(path string, value any) (Change, error) {
	if value == nil {
		return s.Delete(path)
	}
	nv, err := ValueOf(value)
	if err != nil {
		return Change{Path: path}, err
	}
	return s.write(path, nv)
}

// Restore writes a previously captured value back, deleting the leaf when
// the value is absent. Undo records use it to replay a Change exactly.
func (s *Store) Restore(path string, value Value) (Change, error) {
	if !value.Exists() {
		return s.Delete(path)
	}
	return s.write(path, value)
}

// Delete removes the leaf at path. Deleting a missing leaf is a no-op.
func (s *Store) Delete(path string) (Change, error) {
	if err := validatePath(path); err != nil {
		return Change{Path: path}, err
	}
	old := gjson.Get(s.doc, path)
	ch := Change{Path: path, Old: Value{r: old}}
	if !old.Exists() {
		return ch, nil
	}
	doc, err := sjson.Delete(s.doc, path)
	if err != nil {
		return Change{Path: path}, fmt.Errorf("attr %s: delete: %w", path, err)
	}
	s.doc = doc
	return ch, nil
}

func (s *Store) write(path string, nv Value) (Change, error) {
	if err := validatePath(path); err != nil {
		return Change{Path: path}, err
	}
	if err := s.checkSegments(path); err != nil {
		return Change{Path: path}, err
	}
	path = s.resolveAppend(path)

	old := gjson.Get(s.doc, path)
	ch := Change{Path: path, Old: Value{r: old}}
	if old.Exists() && old.Raw == nv.Raw() {
		ch.New = ch.Old
		return ch, nil
	}

	doc, err := sjson.SetRaw(s.doc, path, nv.Raw())
	if err != nil {
		return Change{Path: path}, fmt.Errorf("attr %s: set: %w", path, err)
	}
	s.doc = doc
	ch.New = Value{r: gjson.Get(s.doc, path)}
	return ch, nil
}

// checkSegments fails when an existing prefix of path cannot hold children.
func (s *Store) checkSegments(path string) error {
	parts := strings.Split(path, ".")
	for i := 0; i < len(parts)-1; i++ {
		prefix := strings.Join(parts[:i+1], ".")
		r := gjson.Get(s.doc, prefix)
		if !r.Exists() {
			return nil
		}
		switch {
		case r.IsObject():
			continue
		case r.IsArray():
			if !isIndex(parts[i+1]) {
				return &ShapeError{Path: path, Segment: prefix, Got: KindArray, Want: KindMap}
			}
		default:
			return &ShapeError{Path: path, Segment: prefix, Got: kindOf(r), Want: KindMap}
		}
	}
	return nil
}

// resolveAppend rewrites a trailing "-1" segment to the concrete index it
// will occupy so the change can be read back and replayed.
func (s *Store) resolveAppend(path string) string {
	if path == "-1" || !strings.HasSuffix(path, ".-1") {
		return path
	}
	prefix := strings.TrimSuffix(path, ".-1")
	r := gjson.Get(s.doc, prefix)
	if !r.IsArray() {
		return prefix + ".0"
	}
	return prefix + "." + strconv.Itoa(len(r.Array()))
}

func validatePath(path string) error {
	if path == "" || strings.HasPrefix(path, ".") || strings.HasSuffix(path, ".") ||
		strings.Contains(path, "..") || strings.ContainsAny(path, "*?#|@\\") {
		return fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	return nil
}

func isIndex(seg string) bool {
	if seg == "-1" {
		return true
	}
	n, err := strconv.Atoi(seg)
	return err == nil && n >= 0
}

func kindOf(r gjson.Result) Kind {
	return Value{r: r}.Kind()
}
