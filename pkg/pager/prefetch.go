package pager

import "time"

// PrefetchScheduler decides when to ask the upstream source for more items
// and which adjacent items' metadata to warm. Both checks are synchronous,
// idempotent set computations; the expensive work happens in collaborators.
type PrefetchScheduler struct {
	threshold int
	debounce  time.Duration
	radius    int

	lastFire time.Time
	now      func() time.Time // injectable for tests
}

// NewPrefetchScheduler creates a scheduler with the given pagination
// threshold, debounce interval and prefetch radius.
func NewPrefetchScheduler(threshold int, debounce time.Duration, radius int) *PrefetchScheduler {
	def := DefaultConfig()
	if threshold <= 0 {
		threshold = def.PaginationThreshold
	}
	if debounce <= 0 {
		debounce = def.PaginationDebounce
	}
	if radius <= 0 {
		radius = def.PrefetchRadius
	}
	return &PrefetchScheduler{
		threshold: threshold,
		debounce:  debounce,
		radius:    radius,
		now:       time.Now,
	}
}

// SetRadius retunes the prefetch radius. Takes effect on the next check.
func (s *PrefetchScheduler) SetRadius(radius int) {
	if radius <= 0 {
		return
	}
	s.radius = radius
}

// Radius returns the current prefetch radius.
func (s *PrefetchScheduler) Radius() int {
	return s.radius
}

// CheckForPagination reports whether a load-more request should fire now.
// It fires when currentIndex >= totalItems-threshold, at most once per
// debounce interval; calling again inside the interval is a no-op, not an
// error. Out-of-range currentIndex values are clamped, never rejected.
func (s *PrefetchScheduler) CheckForPagination(currentIndex, totalItems int) bool {
	if totalItems <= 0 {
		return false
	}
	idx := clamp(currentIndex, totalItems)
	if idx < totalItems-s.threshold {
		return false
	}

	now := s.now()
	if !s.lastFire.IsZero() && now.Sub(s.lastFire) < s.debounce {
		return false
	}
	s.lastFire = now
	return true
}

// CheckForPrefetch returns the item ids in the symmetric radius window
// around currentIndex, clamped to bounds. The window is typically wider than
// the controller keep-radius because warming metadata is much cheaper than
// opening a full media resource.
func (s *PrefetchScheduler) CheckForPrefetch(currentIndex int, items []Item) []string {
	if len(items) == 0 {
		return nil
	}
	center := clamp(currentIndex, len(items))

	lo := center - s.radius
	if lo < 0 {
		lo = 0
	}
	hi := center + s.radius
	if hi > len(items)-1 {
		hi = len(items) - 1
	}

	ids := make([]string, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		ids = append(ids, items[i].ID)
	}
	return ids
}
