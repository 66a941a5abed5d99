package history

// GroupScope provides a convenient way to group actions using defer.
// Usage:
//
//	func rotateAll(h *History) {
//	    defer h.GroupScope("Rotate").End()
//	    // ... multiple edits ...
//	}
type GroupScope struct {
	history *History
	active  bool
}

// GroupScope starts a new group scope.
// Call End() or use with defer to properly close the group.
func (h *History) GroupScope(name string) *GroupScope {
	h.BeginGroup(name)
	return &GroupScope{
		history: h,
		active:  true,
	}
}

// End ends the group scope.
// Safe to call multiple times; only the first call has effect.
func (g *GroupScope) End() {
	if g.active {
		g.history.EndGroup()
		g.active = false
	}
}

// Transaction runs fn inside a group. If fn fails, the actions it recorded
// are undone and the group is dropped.
func (h *History) Transaction(name string, fn func() error) error {
	outer := h.depth == 0
	h.BeginGroup(name)

	if err := fn(); err != nil {
		if outer {
			_ = h.group.Undo()
			h.CancelGroup()
		} else {
			h.EndGroup()
		}
		return err
	}

	h.EndGroup()
	return nil
}
