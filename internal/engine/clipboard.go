package engine

import (
	"github.com/dshills/wirecanvas/internal/diagram"
	"github.com/dshills/wirecanvas/internal/persist"
)

// CopySelection encodes the selected objects as a clipboard payload.
func (e *Engine) CopySelection() ([]byte, error) {
	sel := e.diagram.Selection()
	if len(sel) == 0 {
		return nil, ErrEmptySelection
	}
	return persist.Marshal(sel)
}

// Paste inserts the objects of a clipboard payload, offset from where
// they were copied, and selects them. The paste is one undo entry.
func (e *Engine) Paste(data []byte) ([]*diagram.Object, error) {
	objs, err := persist.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	if len(objs) == 0 {
		return nil, nil
	}
	e.Cancel()
	return e.diagram.Duplicate(objs, e.pasteOffset), nil
}
