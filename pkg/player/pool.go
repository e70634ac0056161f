package player

import (
	"errors"
	"log"
	"sync"
	"time"

	"feed-frame/pkg/performance"
)

// MediaFetcher is what the pool needs from the feed source: move media onto
// and off the local disk.
type MediaFetcher interface {
	FetchMedia(itemID string) (string, error)
	RemoveMedia(itemID string) error
}

// MaterializeResult reports the outcome of one materialization. The screen
// drains these each frame and feeds them back into the coordinator.
type MaterializeResult struct {
	ItemID  string
	Elapsed time.Duration
	Err     error
}

// ErrMemoryPressure is returned when materialization is refused because the
// device has no headroom for another cached clip.
var ErrMemoryPressure = errors.New("player: refusing to materialize under critical memory pressure")

// Pool implements the coordinator's ControllerHost over downloaded clips.
// Materialize downloads in a goroutine and reports on the results channel;
// Dispose tears down synchronously, matching the coordinator's requirement
// that teardown completes before its own disposal returns.
type Pool struct {
	fetcher MediaFetcher
	results chan MaterializeResult

	// pressure is swapped for a stub in tests.
	pressure func() performance.PressureLevel

	mu    sync.Mutex
	clips map[string]*Clip
}

// NewPool creates a clip pool over the fetcher.
func NewPool(fetcher MediaFetcher) *Pool {
	return &Pool{
		fetcher:  fetcher,
		results:  make(chan MaterializeResult, 16),
		pressure: performance.Pressure,
		clips:    make(map[string]*Clip),
	}
}

// Results delivers materialization outcomes. Drain it from the same loop
// that owns the coordinator.
func (p *Pool) Results() <-chan MaterializeResult {
	return p.results
}

// Materialize downloads and opens the item's media in the background. The
// request is refused outright under critical memory pressure; the
// coordinator retries on a later settle, by which time clips outside the
// window have been disposed and pressure usually eased.
func (p *Pool) Materialize(itemID string) {
	p.mu.Lock()
	if _, exists := p.clips[itemID]; exists {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	if level := p.pressure(); level >= performance.PressureCritical {
		log.Printf("Pool: skipping materialize of %s | pressure=%s", itemID, level.String())
		p.results <- MaterializeResult{ItemID: itemID, Err: ErrMemoryPressure}
		return
	}

	go func() {
		start := time.Now()
		path, err := p.fetcher.FetchMedia(itemID)
		if err != nil {
			p.results <- MaterializeResult{ItemID: itemID, Elapsed: time.Since(start), Err: err}
			return
		}

		clip, err := openClip(itemID, path)
		if err != nil {
			p.results <- MaterializeResult{ItemID: itemID, Elapsed: time.Since(start), Err: err}
			return
		}

		p.mu.Lock()
		p.clips[itemID] = clip
		p.mu.Unlock()

		p.results <- MaterializeResult{ItemID: itemID, Elapsed: time.Since(start)}
	}()
}

// Dispose closes the clip's handle and deletes its cached media. Unknown ids
// are fine: the coordinator forwards late or superseded materializations
// here and the media may never have arrived.
func (p *Pool) Dispose(itemID string) {
	p.mu.Lock()
	clip, exists := p.clips[itemID]
	delete(p.clips, itemID)
	p.mu.Unlock()

	if exists {
		if err := clip.close(); err != nil {
			log.Printf("Pool: failed to close clip %s: %v", itemID, err)
		}
	}
	if err := p.fetcher.RemoveMedia(itemID); err != nil {
		log.Printf("Pool: failed to remove media for %s: %v", itemID, err)
	}
}

// Get returns the clip for an item if it is materialized.
func (p *Pool) Get(itemID string) (*Clip, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	clip, ok := p.clips[itemID]
	return clip, ok
}

// Count returns how many clips are currently materialized.
func (p *Pool) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.clips)
}

// CloseAll closes every clip handle without touching cached files. Used on
// shutdown after the coordinator has already disposed what it tracked.
func (p *Pool) CloseAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for id, clip := range p.clips {
		if err := clip.close(); err != nil {
			log.Printf("Pool: failed to close clip %s: %v", id, err)
		}
	}
	p.clips = make(map[string]*Clip)
}
