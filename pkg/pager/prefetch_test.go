package pager

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock lets tests step the scheduler's notion of time without sleeping.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time {
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func newTestScheduler(threshold int, debounce time.Duration, radius int) (*PrefetchScheduler, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1700000000, 0)}
	s := NewPrefetchScheduler(threshold, debounce, radius)
	s.now = clock.now
	return s, clock
}

func TestPaginationFiresNearEnd(t *testing.T) {
	s, _ := newTestScheduler(3, 5*time.Second, 3)

	// 7 >= 10-3 fires; 6 does not.
	assert.False(t, s.CheckForPagination(6, 10))
	assert.True(t, s.CheckForPagination(7, 10))
}

func TestPaginationDebounce(t *testing.T) {
	s, clock := newTestScheduler(3, 5*time.Second, 3)

	require.True(t, s.CheckForPagination(7, 10))

	// Second qualifying call inside the window is a no-op, not an error.
	clock.advance(2 * time.Second)
	assert.False(t, s.CheckForPagination(8, 10))

	// After the debounce interval it may fire again.
	clock.advance(4 * time.Second)
	assert.True(t, s.CheckForPagination(8, 10))
}

func TestPaginationBoundsClamping(t *testing.T) {
	s, clock := newTestScheduler(3, 5*time.Second, 3)

	// Out-of-range positions are clamped, never panics, never false fires
	// on an empty list.
	assert.False(t, s.CheckForPagination(5, 0))
	assert.True(t, s.CheckForPagination(500, 10))
	clock.advance(10 * time.Second)
	assert.False(t, s.CheckForPagination(-7, 10))
}

func TestPrefetchWindow(t *testing.T) {
	s, _ := newTestScheduler(3, 5*time.Second, 3)
	items := makeItems(10)

	tests := []struct {
		name    string
		current int
		want    []string
	}{
		{"middle", 5, []string{"c", "d", "e", "f", "g", "h", "i"}},
		{"clamped at start", 0, []string{"a", "b", "c", "d"}},
		{"clamped at end", 9, []string{"g", "h", "i", "j"}},
		{"negative current treated as start", -4, []string{"a", "b", "c", "d"}},
		{"overflow current treated as end", 99, []string{"g", "h", "i", "j"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.CheckForPrefetch(tt.current, items))
		})
	}
}

func TestPrefetchEmptyItems(t *testing.T) {
	s, _ := newTestScheduler(3, 5*time.Second, 3)
	assert.Empty(t, s.CheckForPrefetch(0, nil))
}

func TestPrefetchRadiusRetune(t *testing.T) {
	s, _ := newTestScheduler(3, 5*time.Second, 3)
	items := makeItems(10)

	s.SetRadius(1)
	assert.Equal(t, []string{"e", "f", "g"}, s.CheckForPrefetch(5, items))

	// Non-positive radii are ignored.
	s.SetRadius(0)
	assert.Equal(t, 1, s.Radius())
}
