// Package dirty tracks which areas of the canvas widget need repainting.
// Marked rectangles are clipped to the widget, coalesced when they touch,
// and collapse into a full redraw once they cover too much of the screen.
package dirty

import (
	"sync"

	"github.com/dshills/wirecanvas/internal/geom"
)

// Reason records why an area was marked.
type Reason uint8

const (
	// ReasonObject is an object's old or new area.
	ReasonObject Reason = iota

	// ReasonPreview is transient operation feedback: a rubber band,
	// pending wire or hovered terminal.
	ReasonPreview

	// ReasonSelection is a selection highlight change.
	ReasonSelection

	// ReasonView is a zoom, pan or resize. Always a full redraw.
	ReasonView
)

// String returns the reason name.
func (r Reason) String() string {
	switch r {
	case ReasonObject:
		return "object"
	case ReasonPreview:
		return "preview"
	case ReasonSelection:
		return "selection"
	case ReasonView:
		return "view"
	default:
		return "unknown"
	}
}

// Tracker accumulates dirty screen rectangles between frames.
type Tracker struct {
	mu sync.Mutex

	regions    []geom.Rect
	fullRedraw bool

	// screen is the widget area; regions are clipped to it.
	screen geom.Rect

	// maxRegions is the region count above which everything is merged.
	maxRegions int

	// threshold is the dirty fraction of the screen that triggers a full redraw.
	threshold float64
}

// NewTracker creates a tracker for a widget of the given pixel size.
// Negative dimensions are treated as zero.
func NewTracker(width, height float64) *Tracker {
	return &Tracker{
		regions:    make([]geom.Rect, 0, 16),
		screen:     geom.R(0, 0, max(width, 0), max(height, 0)),
		maxRegions: 32,
		threshold:  0.5,
	}
}

// SetScreenSize updates the widget size and forces a full redraw.
func (t *Tracker) SetScreenSize(width, height float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen = geom.R(0, 0, max(width, 0), max(height, 0))
	t.fullRedraw = true
	t.regions = t.regions[:0]
}

// MarkFullRedraw marks the whole widget.
func (t *Tracker) MarkFullRedraw() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.fullRedraw = true
	t.regions = t.regions[:0]
}

// Mark marks a screen rectangle.
func (t *Tracker) Mark(r geom.Rect, why Reason) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.fullRedraw {
		return
	}
	if why == ReasonView {
		t.fullRedraw = true
		t.regions = t.regions[:0]
		return
	}
	t.add(r)
}

// MarkMove marks both the area an object left and the one it now covers.
func (t *Tracker) MarkMove(old, cur geom.Rect) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.fullRedraw {
		return
	}
	t.add(old)
	t.add(cur)
}

func (t *Tracker) add(r geom.Rect) {
	if r.IsEmpty() || t.screen.IsEmpty() {
		return
	}
	r, ok := clip(r, t.screen)
	if !ok {
		return
	}

	for i := range t.regions {
		if t.regions[i].Intersects(r) {
			t.regions[i] = t.regions[i].Union(r)
			t.coalesce()
			t.checkThreshold()
			return
		}
	}

	t.regions = append(t.regions, r)
	if len(t.regions) > t.maxRegions {
		t.collapse()
	}
	t.checkThreshold()
}

// coalesce merges touching regions until none touch.
func (t *Tracker) coalesce() {
	changed := true
	for changed {
		changed = false
		for i := 0; i < len(t.regions) && !changed; i++ {
			for j := i + 1; j < len(t.regions); j++ {
				if t.regions[i].Intersects(t.regions[j]) {
					t.regions[i] = t.regions[i].Union(t.regions[j])
					t.regions = append(t.regions[:j], t.regions[j+1:]...)
					changed = true
					break
				}
			}
		}
	}
}

// collapse replaces every region with their bounding box.
func (t *Tracker) collapse() {
	bounds := t.regions[0]
	for _, r := range t.regions[1:] {
		bounds = bounds.Union(r)
	}
	t.regions = append(t.regions[:0], bounds)
}

func (t *Tracker) checkThreshold() {
	if t.ratio() > t.threshold {
		t.fullRedraw = true
		t.regions = t.regions[:0]
	}
}

func (t *Tracker) ratio() float64 {
	total := t.screen.W * t.screen.H
	if total <= 0 {
		return 0
	}
	var area float64
	for _, r := range t.regions {
		area += r.W * r.H
	}
	return area / total
}

func clip(r, bounds geom.Rect) (geom.Rect, bool) {
	x0 := max(r.X, bounds.X)
	y0 := max(r.Y, bounds.Y)
	x1 := min(r.Right(), bounds.Right())
	y1 := min(r.Bottom(), bounds.Bottom())
	if x1 <= x0 || y1 <= y0 {
		return geom.Rect{}, false
	}
	return geom.R(x0, y0, x1-x0, y1-y0), true
}

// IsDirty reports whether anything needs repainting.
func (t *Tracker) IsDirty() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.fullRedraw || len(t.regions) > 0
}

// NeedsFullRedraw reports whether the whole widget must be repainted.
func (t *Tracker) NeedsFullRedraw() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.fullRedraw
}

// Take returns the pending regions and clears the tracker.
func (t *Tracker) Take() []geom.Rect {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := t.snapshot()
	t.regions = t.regions[:0]
	t.fullRedraw = false
	return out
}

func (t *Tracker) snapshot() []geom.Rect {
	if t.fullRedraw {
		if t.screen.IsEmpty() {
			return nil
		}
		return []geom.Rect{t.screen}
	}
	out := make([]geom.Rect, len(t.regions))
	copy(out, t.regions)
	return out
}

// SetMaxRegions sets the region count above which regions are merged.
// Values less than 1 are clamped to 1.
func (t *Tracker) SetMaxRegions(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.maxRegions = max(n, 1)
}

// SetThreshold sets the dirty fraction that triggers a full redraw.
func (t *Tracker) SetThreshold(f float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.threshold = min(max(f, 0), 1)
}

// Stats describes the tracker state.
type Stats struct {
	RegionCount int
	FullRedraw  bool
	DirtyRatio  float64
}

// Stats returns the current tracker state.
func (t *Tracker) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()

	return Stats{
		RegionCount: len(t.regions),
		FullRedraw:  t.fullRedraw,
		DirtyRatio:  t.ratio(),
	}
}
