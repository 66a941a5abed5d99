package history

import "fmt"

// Action is a reversible edit held by a History.
type Action interface {
	// Undo reverts the edit.
	Undo() error

	// Redo re-applies the edit after an Undo.
	Redo() error

	// Description returns a human-readable description of the action.
	Description() string
}

// Discarder is implemented by actions that hold resources to release once
// the action can no longer be undone or redone.
type Discarder interface {
	Discard()
}

// Func is an Action built from a pair of opposing closures.
type Func struct {
	Name     string
	UndoFn   func() error
	RedoFn   func() error
	Teardown func()
}

// NewFunc creates a closure action.
func NewFunc(name string, undo, redo func() error) *Func {
	return &Func{Name: name, UndoFn: undo, RedoFn: redo}
}

// Undo runs the undo closure.
func (f *Func) Undo() error {
	if f.UndoFn == nil {
		return nil
	}
	return f.UndoFn()
}

// Redo runs the redo closure.
func (f *Func) Redo() error {
	if f.RedoFn == nil {
		return nil
	}
	return f.RedoFn()
}

// Description returns the action name.
func (f *Func) Description() string {
	return f.Name
}

// Discard runs the teardown closure, if any.
func (f *Func) Discard() {
	if f.Teardown != nil {
		f.Teardown()
	}
}

// Compound groups multiple actions as one undo unit.
type Compound struct {
	Name    string
	Actions []Action
}

// NewCompound creates a new compound action.
func NewCompound(name string, actions ...Action) *Compound {
	return &Compound{
		Name:    name,
		Actions: actions,
	}
}

// Redo re-applies all actions in order.
func (c *Compound) Redo() error {
	for i, a := range c.Actions {
		if err := a.Redo(); err != nil {
			// On error, roll back what was re-applied
			for j := i - 1; j >= 0; j-- {
				_ = c.Actions[j].Undo()
			}
			return fmt.Errorf("redo compound action '%s' step %d: %w", c.Name, i, err)
		}
	}
	return nil
}

// Undo reverts all actions in reverse order.
func (c *Compound) Undo() error {
	for i := len(c.Actions) - 1; i >= 0; i-- {
		if err := c.Actions[i].Undo(); err != nil {
			return fmt.Errorf("undo compound action '%s' step %d: %w", c.Name, i, err)
		}
	}
	return nil
}

// Description returns the compound action's name.
func (c *Compound) Description() string {
	if c.Name != "" {
		return c.Name
	}
	if len(c.Actions) == 1 {
		return c.Actions[0].Description()
	}
	return fmt.Sprintf("%d operations", len(c.Actions))
}

// Discard forwards to every child that holds resources.
func (c *Compound) Discard() {
	for _, a := range c.Actions {
		discard(a)
	}
}

// Add appends an action to the compound.
func (c *Compound) Add(a Action) {
	c.Actions = append(c.Actions, a)
}

// IsEmpty returns true if the compound has no actions.
func (c *Compound) IsEmpty() bool {
	return len(c.Actions) == 0
}

func discard(a Action) {
	if d, ok := a.(Discarder); ok {
		d.Discard()
	}
}
