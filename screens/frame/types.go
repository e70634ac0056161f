package frame

import (
	"sync"
	"time"

	"github.com/veandco/go-sdl2/sdl"

	"feed-frame/pkg/feed"
	"feed-frame/pkg/input"
	"feed-frame/pkg/pager"
	"feed-frame/pkg/pairportal"
	"feed-frame/pkg/performance"
	"feed-frame/pkg/player"
	"feed-frame/pkg/settings"
	"feed-frame/ui"
)

// FeedScreen owns the on-device feed: it is the page view the coordinator
// drives, the frame loop that drains async results, and the renderer of
// whatever the current item looks like right now.
type FeedScreen struct {
	renderer *sdl.Renderer
	fonts    *ui.Fonts
	width    int32
	height   int32

	cfg         settings.Settings
	coordinator *pager.PageCoordinator
	source      *feed.Source
	meta        *feed.MetaCache
	pool        *player.Pool
	monitor     *performance.Monitor
	governor    *player.WindowGovernor
	portal      *pairportal.Portal

	items []pager.Item

	// View state. The coordinator sees it through the PageView methods;
	// transitions emulate the swipe animation of a touch pager.
	currentPage     int
	transitionTo    int
	transitionLeft  int // frames remaining in the current slide
	transitionStart time.Time
	attached        bool

	paused      bool
	lastAdvance time.Time

	// Background collection listing, drained in Update. loadGen is bumped
	// on every collection switch so results from a replaced source can be
	// recognized and dropped.
	loadResultCh chan loadResult
	loadPending  bool
	loadGen      int
	feedComplete bool

	// Collection switch in progress, drained in Update.
	switchResultCh chan switchResult
	switchPending  bool

	keys   input.KeyPressTracker
	repeat input.RepeatTracker

	qrBitmap [][]bool

	// Snapshot served to the portal's HTTP goroutines.
	statusMu sync.RWMutex
	status   pairportal.Status

	framesSinceEval int
	err             error
}

// loadResult carries the outcome of a background LoadMore call. gen records
// which collection generation requested it.
type loadResult struct {
	items    []pager.Item
	complete bool
	err      error
	gen      int
}

// switchResult carries the outcome of a background collection switch.
type switchResult struct {
	source *feed.Source
	meta   *feed.MetaCache
	coll   feed.Collection
	err    error
}
