// Package attr provides the late-bound attribute storage used by every
// diagram object.
//
// A Store is a single JSON document addressed by dotted key paths:
//
//	s := attr.New()
//	s.Set("x", 12.0)
//	s.Set("label.text", "R1")   // creates the "label" map
//	s.Set("points.0", []float64{0, 0})
//	x, _ := s.Float("x")
//
// Reads go through gjson and writes through sjson, so paths follow their
// syntax (`a.b`, `list.0`, `list.-1` to append). Keys must not contain dots
// or gjson wildcard characters.
//
// # Contract
//
//   - Reading a missing leaf reports ErrNotFound, never a panic.
//   - Writing nil removes the leaf.
//   - Writing through a segment that holds a scalar fails with a *ShapeError
//     and leaves the document untouched.
//   - Every write returns a Change holding the old and new values so callers
//     can build undo records. The store itself emits no notifications.
package attr
