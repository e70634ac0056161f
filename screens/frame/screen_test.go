package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"feed-frame/pkg/pager"
	"feed-frame/pkg/settings"
)

type stubView struct {
	page int
}

func (v *stubView) HasClients() bool { return true }
func (v *stubView) CurrentPage() int { return v.page }
func (v *stubView) JumpTo(index int) { v.page = index }

type stubHost struct {
	materialized []string
	disposed     []string
}

func (h *stubHost) Materialize(itemID string) { h.materialized = append(h.materialized, itemID) }
func (h *stubHost) Dispose(itemID string)     { h.disposed = append(h.disposed, itemID) }

// newBareScreen builds a screen with just the pieces the load pipeline
// touches, so the renderer and S3 stay out of the way.
func newBareScreen() *FeedScreen {
	s := &FeedScreen{
		cfg: settings.Settings{
			KeepRadius:          2,
			PrefetchRadius:      3,
			PaginationThreshold: 3,
			DebounceSeconds:     5,
			AutoAdvanceSeconds:  15,
		},
		loadResultCh:   make(chan loadResult, 1),
		switchResultCh: make(chan switchResult, 1),
	}
	collab := pager.Collaborators{View: &stubView{}, Controllers: &stubHost{}}
	s.coordinator = pager.NewPageCoordinator(s.pagerConfig(), collab, nil, 0)
	s.attached = true
	s.coordinator.OnViewAttached()
	return s
}

func TestDrainLoadResultsAdoptsCurrentGeneration(t *testing.T) {
	s := newBareScreen()
	s.loadPending = true

	s.loadResultCh <- loadResult{
		items: []pager.Item{{ID: "daily-mix/a.mp4"}, {ID: "daily-mix/b.mp4"}},
		gen:   s.loadGen,
	}
	s.drainLoadResults()

	assert.Len(t, s.items, 2)
	assert.False(t, s.loadPending)
	assert.Len(t, s.coordinator.Items(), 2)
}

// A load result from a source replaced by a collection switch must not leak
// the old collection's keys into the new feed.
func TestDrainLoadResultsDropsStaleGeneration(t *testing.T) {
	s := newBareScreen()

	// Switch happened while the old load was in flight: generation moved on
	// and a fresh load is already pending.
	staleGen := s.loadGen
	s.loadGen++
	s.loadPending = true

	s.loadResultCh <- loadResult{
		items: []pager.Item{{ID: "nature-loops/z.mp4"}},
		gen:   staleGen,
	}
	s.drainLoadResults()

	assert.Empty(t, s.items)
	// The in-flight load for the new collection is still owed a result.
	assert.True(t, s.loadPending)

	s.loadResultCh <- loadResult{
		items: []pager.Item{{ID: "daily-mix/a.mp4"}},
		gen:   s.loadGen,
	}
	s.drainLoadResults()

	assert.Len(t, s.items, 1)
	assert.Equal(t, "daily-mix/a.mp4", s.items[0].ID)
	assert.False(t, s.loadPending)
}

func TestRequestLoadMoreStopsAtEndOfCollection(t *testing.T) {
	s := newBareScreen()
	s.loadPending = true

	s.loadResultCh <- loadResult{
		items:    []pager.Item{{ID: "daily-mix/a.mp4"}},
		complete: true,
		gen:      s.loadGen,
	}
	s.drainLoadResults()
	assert.True(t, s.feedComplete)

	// Exhausted collection: nothing further to ask the source for.
	s.RequestLoadMore()
	assert.False(t, s.loadPending)
}
