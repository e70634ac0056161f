package pager

import "log"

// HandleState tracks the lifecycle of one item's materialized resource.
type HandleState int

const (
	HandleUninitialized HandleState = iota
	HandleReady
	HandleDisposed
)

// String returns a human-readable state name
func (s HandleState) String() string {
	switch s {
	case HandleUninitialized:
		return "Uninitialized"
	case HandleReady:
		return "Ready"
	case HandleDisposed:
		return "Disposed"
	default:
		return "Unknown"
	}
}

// ControllerWindow owns the materialize/dispose bookkeeping for per-item
// resources inside a keep-radius around the current index. It never touches
// the resources themselves; the coordinator forwards its decisions to the
// ControllerHost and reports outcomes back via MarkReady / MarkDisposed.
type ControllerWindow struct {
	radius int
	ready  map[string]bool // item id -> materialized and usable
}

// NewControllerWindow creates a window with the given keep-radius.
func NewControllerWindow(radius int) *ControllerWindow {
	if radius <= 0 {
		radius = DefaultConfig().KeepRadius
	}
	return &ControllerWindow{
		radius: radius,
		ready:  make(map[string]bool),
	}
}

// SetRadius retunes the keep-radius. Takes effect on the next recompute.
func (w *ControllerWindow) SetRadius(radius int) {
	if radius <= 0 {
		return
	}
	w.radius = radius
}

// Radius returns the current keep-radius.
func (w *ControllerWindow) Radius() int {
	return w.radius
}

// PreInitialize returns the item ids at currentIndex-K..currentIndex+K
// (clamped to bounds) that are not already Ready. Call it after each settle,
// not on every scroll frame. Items that previously failed to materialize are
// returned again here, which is the lazy retry path.
func (w *ControllerWindow) PreInitialize(currentIndex int, items []Item) []string {
	if len(items) == 0 {
		return nil
	}
	lo, hi := w.bounds(currentIndex, len(items))

	var wanted []string
	for i := lo; i <= hi; i++ {
		if !w.ready[items[i].ID] {
			wanted = append(wanted, items[i].ID)
		}
	}
	return wanted
}

// DisposeOutsideRange returns the Ready item ids whose index now falls
// outside the window, plus any Ready ids that no longer exist in items at
// all (the list shrank or was replaced). The caller must tear the resource
// down and then confirm with MarkDisposed. The item at currentIndex is never
// returned: disposing the visible item's resource must not race playback.
func (w *ControllerWindow) DisposeOutsideRange(currentIndex int, items []Item) []string {
	if len(w.ready) == 0 {
		return nil
	}

	indexOf := make(map[string]int, len(items))
	for i, it := range items {
		indexOf[it.ID] = i
	}

	var lo, hi int
	if len(items) > 0 {
		lo, hi = w.bounds(currentIndex, len(items))
	}

	var stale []string
	for id := range w.ready {
		idx, exists := indexOf[id]
		if exists && idx == clamp(currentIndex, len(items)) {
			continue // active item, always safe
		}
		if !exists || idx < lo || idx > hi {
			stale = append(stale, id)
		}
	}
	return stale
}

// MarkReady records a successful materialization. Ids the window no longer
// tracks should not be marked; the coordinator filters those out.
func (w *ControllerWindow) MarkReady(itemID string) {
	w.ready[itemID] = true
}

// MarkDisposed records that the caller tore the resource down.
func (w *ControllerWindow) MarkDisposed(itemID string) {
	delete(w.ready, itemID)
}

// IsReady reports whether the item's resource is materialized.
func (w *ControllerWindow) IsReady(itemID string) bool {
	return w.ready[itemID]
}

// ReadyIDs returns the currently materialized item ids. Used on teardown to
// dispose everything synchronously.
func (w *ControllerWindow) ReadyIDs() []string {
	ids := make([]string, 0, len(w.ready))
	for id := range w.ready {
		ids = append(ids, id)
	}
	return ids
}

// bounds returns the clamped inclusive window [lo, hi] around currentIndex.
func (w *ControllerWindow) bounds(currentIndex, total int) (int, int) {
	center := currentIndex
	if center < 0 || center > total-1 {
		log.Printf("ControllerWindow: clamping out-of-range center %d (total=%d)", center, total)
		center = clamp(center, total)
	}
	lo := center - w.radius
	if lo < 0 {
		lo = 0
	}
	hi := center + w.radius
	if hi > total-1 {
		hi = total - 1
	}
	return lo, hi
}
