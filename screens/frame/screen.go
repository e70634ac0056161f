// Package frame hosts the device's single screen: a vertically paged feed of
// short videos, driven by a page coordinator and remote-controlled through
// the pair portal.
package frame

import (
	"fmt"
	"log"
	"time"

	"github.com/skip2/go-qrcode"
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

const (
	transitionFrames  = 12 // slide animation length at 60fps
	loadPageSize      = 10 // items exposed per pagination round
	governorEvalEvery = 120
	mediaCacheDir     = "assets/videos"
)

// NewFeedScreen builds the screen and everything behind it: S3 source, clip
// pool, coordinator, governor and pair portal.
func NewFeedScreen(renderer *sdl.Renderer, width, height int32, cfg settings.Settings) (*FeedScreen, error) {
	coll, ok := feed.FindCollection(cfg.CollectionID)
	if !ok {
		return nil, fmt.Errorf("unknown collection id %q", cfg.CollectionID)
	}

	source, err := feed.NewSource(coll, mediaCacheDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create feed source: %w", err)
	}
	source.ClearCache()

	fonts, err := ui.LoadFonts()
	if err != nil {
		return nil, fmt.Errorf("failed to load fonts: %w", err)
	}

	s := &FeedScreen{
		renderer:       renderer,
		fonts:          fonts,
		width:          width,
		height:         height,
		cfg:            cfg,
		source:         source,
		meta:           source.NewMetaCache(),
		pool:           player.NewPool(source),
		monitor:        performance.NewMonitor(32),
		governor:       player.NewWindowGovernor(),
		loadResultCh:   make(chan loadResult, 1),
		switchResultCh: make(chan switchResult, 1),
		keys:           input.NewKeyPressTracker(),
		repeat:         input.NewRepeatTracker(),
		lastAdvance:    time.Now(),
	}

	s.portal = pairportal.NewPortal(cfg.PortalPort, s.portalStatus)
	if err := s.portal.Start(); err != nil {
		// The frame still works standalone; the QR area stays empty.
		log.Printf("NewFeedScreen: portal unavailable: %v", err)
	} else if qr, err := qrcode.New(s.portal.GetURL(), qrcode.Medium); err == nil {
		s.qrBitmap = qr.Bitmap()
	}

	s.coordinator = pager.NewPageCoordinator(s.pagerConfig(), s.collaborators(), nil, 0)
	s.attached = true
	s.coordinator.OnViewAttached()
	s.RequestLoadMore()

	return s, nil
}

func (s *FeedScreen) pagerConfig() pager.Config {
	return pager.Config{
		KeepRadius:          s.cfg.KeepRadius,
		PrefetchRadius:      s.cfg.PrefetchRadius,
		PaginationThreshold: s.cfg.PaginationThreshold,
		PaginationDebounce:  s.cfg.PaginationDebounce(),
	}
}

func (s *FeedScreen) collaborators() pager.Collaborators {
	return pager.Collaborators{
		View:        s,
		Controllers: s.pool,
		Feed:        s,
		Warmer:      s,
	}
}

// HasClients reports whether the view is on screen. Part of the coordinator's
// page view contract.
func (s *FeedScreen) HasClients() bool {
	return s.attached
}

// CurrentPage returns the index the view is showing (or sliding away from).
func (s *FeedScreen) CurrentPage() int {
	return s.currentPage
}

// JumpTo starts a slide toward the index. The coordinator is told about
// completion through OnPageSettled when the slide finishes.
func (s *FeedScreen) JumpTo(index int) {
	s.startTransition(index)
}

// RequestLoadMore asks the source for the next page in the background. Part
// of the coordinator's feed contract. Once the source reports the end of the
// collection there is nothing left to ask for.
func (s *FeedScreen) RequestLoadMore() {
	if s.loadPending || s.feedComplete {
		return
	}
	s.loadPending = true

	source := s.source
	gen := s.loadGen
	go func() {
		items, complete, err := source.LoadMore(loadPageSize)
		s.loadResultCh <- loadResult{items: items, complete: complete, err: err, gen: gen}
	}()
}

// RequestPrefetch warms object metadata for the ids around the current page.
// Part of the coordinator's warmer contract.
func (s *FeedScreen) RequestPrefetch(itemIDs []string) {
	meta := s.meta
	go meta.Warm(itemIDs)
}

// Update advances one frame: input, the slide animation, async results,
// portal commands, auto-advance and the window governor.
func (s *FeedScreen) Update() error {
	s.handleInput(sdl.GetKeyboardState())
	s.advanceTransition()
	s.drainPoolResults()
	s.drainLoadResults()
	s.drainSwitchResults()
	s.drainPortalCommands()
	s.handleAutoAdvance()

	s.framesSinceEval++
	if s.framesSinceEval >= governorEvalEvery {
		s.framesSinceEval = 0
		rec := s.governor.Evaluate(s.monitor.GetReport())
		s.coordinator.SetRadii(rec.KeepRadius, rec.PrefetchRadius)
	}

	s.publishStatus()
	return s.err
}

// handleInput processes SDL2 keyboard input
func (s *FeedScreen) handleInput(keyState []uint8) {
	if keyState == nil {
		return
	}

	if s.repeat.Fires(keyState, sdl.SCANCODE_RIGHT) || s.repeat.Fires(keyState, sdl.SCANCODE_DOWN) {
		s.swipe(1)
	}
	if s.repeat.Fires(keyState, sdl.SCANCODE_LEFT) || s.repeat.Fires(keyState, sdl.SCANCODE_UP) {
		s.swipe(-1)
	}
	if s.keys.IsPressed(keyState, sdl.SCANCODE_SPACE) {
		s.setPaused(!s.paused)
	}
}

// swipe is a view-origin move: the view slides itself and the coordinator
// only hears about it when the slide settles.
func (s *FeedScreen) swipe(delta int) {
	if len(s.items) == 0 {
		return
	}

	target := s.currentPage + delta
	if target >= len(s.items) {
		if !s.source.Collection().Loop {
			return
		}
		target = 0
	}
	if target < 0 {
		target = 0
	}
	if target == s.currentPage {
		return
	}
	s.startTransition(target)
}

func (s *FeedScreen) startTransition(index int) {
	s.transitionTo = index
	s.transitionLeft = transitionFrames
	s.transitionStart = time.Now()
}

func (s *FeedScreen) advanceTransition() {
	if s.transitionLeft == 0 {
		return
	}
	s.transitionLeft--
	if s.transitionLeft > 0 {
		return
	}

	s.currentPage = s.transitionTo
	s.lastAdvance = time.Now()
	s.monitor.RecordSettle(time.Since(s.transitionStart))
	s.coordinator.OnPageSettled(s.currentPage)
}

// drainPoolResults forwards finished materializations to the coordinator.
func (s *FeedScreen) drainPoolResults() {
	for {
		select {
		case res := <-s.pool.Results():
			if res.Err != nil {
				s.monitor.RecordMaterializeFailure()
				s.coordinator.OnControllerFailed(res.ItemID, res.Err)
			} else {
				s.monitor.RecordMaterialize(res.Elapsed)
				s.coordinator.OnControllerReady(res.ItemID)
			}
		default:
			return
		}
	}
}

func (s *FeedScreen) drainLoadResults() {
	select {
	case res := <-s.loadResultCh:
		if res.gen != s.loadGen {
			// The collection was switched while this load was in flight;
			// the items belong to the old source.
			log.Printf("FeedScreen: dropping stale load result | gen=%d | want=%d", res.gen, s.loadGen)
			return
		}
		s.loadPending = false
		if res.err != nil {
			log.Printf("FeedScreen: load more failed: %v", res.err)
			return
		}
		s.feedComplete = res.complete
		s.items = res.items
		s.coordinator.SetItems(res.items)
	default:
	}
}

func (s *FeedScreen) drainPortalCommands() {
	if s.portal == nil {
		return
	}
	for {
		select {
		case cmd := <-s.portal.Commands():
			s.applyCommand(cmd)
		default:
			return
		}
	}
}

func (s *FeedScreen) applyCommand(cmd pairportal.Command) {
	switch cmd.Kind {
	case pairportal.CommandJump:
		if err := s.coordinator.OnIndexRequested(cmd.Index); err != nil {
			log.Printf("FeedScreen: jump to %d rejected: %v", cmd.Index, err)
		}
	case pairportal.CommandSelectCollection:
		s.beginCollectionSwitch(cmd.CollectionID)
	case pairportal.CommandPause:
		s.setPaused(true)
	case pairportal.CommandResume:
		s.setPaused(false)
	}
}

func (s *FeedScreen) setPaused(paused bool) {
	if s.paused == paused {
		return
	}
	s.paused = paused
	s.lastAdvance = time.Now()
	log.Printf("FeedScreen: paused=%v", paused)
}

// handleAutoAdvance moves to the next item after the configured dwell time.
func (s *FeedScreen) handleAutoAdvance() {
	if s.paused || s.transitionLeft > 0 || len(s.items) == 0 {
		return
	}
	if time.Since(s.lastAdvance) < s.cfg.AutoAdvanceInterval() {
		return
	}
	s.swipe(1)
}

// beginCollectionSwitch builds the replacement source off the main loop; the
// swap happens in drainSwitchResults once the source is ready.
func (s *FeedScreen) beginCollectionSwitch(collectionID string) {
	if s.switchPending {
		log.Printf("FeedScreen: collection switch already in progress, ignoring %s", collectionID)
		return
	}
	coll, ok := feed.FindCollection(collectionID)
	if !ok {
		log.Printf("FeedScreen: unknown collection %s", collectionID)
		return
	}
	if coll.ID == s.source.Collection().ID {
		return
	}
	s.switchPending = true

	go func() {
		source, err := feed.NewSource(coll, mediaCacheDir)
		if err != nil {
			s.switchResultCh <- switchResult{err: err}
			return
		}
		s.switchResultCh <- switchResult{source: source, meta: source.NewMetaCache(), coll: coll}
	}()
}

func (s *FeedScreen) drainSwitchResults() {
	select {
	case res := <-s.switchResultCh:
		s.switchPending = false
		if res.err != nil {
			log.Printf("FeedScreen: collection switch failed: %v", res.err)
			return
		}
		s.adoptCollection(res)
	default:
	}
}

// adoptCollection tears the old feed down and starts over on the new one.
func (s *FeedScreen) adoptCollection(res switchResult) {
	log.Printf("FeedScreen: switching collection | from=%s | to=%s",
		s.source.Collection().Title, res.coll.Title)

	s.coordinator.Dispose()
	s.pool.CloseAll()
	s.source.ClearCache()

	s.source = res.source
	s.meta = res.meta
	s.pool = player.NewPool(res.source)
	s.items = nil
	s.currentPage = 0
	s.transitionLeft = 0
	s.loadPending = false
	s.loadGen++
	s.feedComplete = false
	s.monitor.Reset()
	s.governor.Reset()

	s.coordinator = pager.NewPageCoordinator(s.pagerConfig(), s.collaborators(), nil, 0)
	s.coordinator.OnViewAttached()
	s.RequestLoadMore()
	s.lastAdvance = time.Now()

	s.cfg.CollectionID = res.coll.ID
	if err := settings.Save(s.cfg); err != nil {
		log.Printf("FeedScreen: failed to persist settings: %v", err)
	}
}

// portalStatus is called from the portal's HTTP goroutines.
func (s *FeedScreen) portalStatus() pairportal.Status {
	s.statusMu.RLock()
	defer s.statusMu.RUnlock()
	return s.status
}

func (s *FeedScreen) publishStatus() {
	s.statusMu.Lock()
	s.status = pairportal.Status{
		Collection:   s.source.Collection().Title,
		CurrentIndex: s.currentPage,
		TotalItems:   len(s.items),
		Paused:       s.paused,
		WindowMode:   s.governor.Mode().String(),
	}
	s.statusMu.Unlock()
}

// Close shuts everything down in dependency order.
func (s *FeedScreen) Close() {
	log.Println("FeedScreen: shutting down")
	if s.portal != nil {
		if err := s.portal.Stop(); err != nil {
			log.Printf("FeedScreen: portal stop failed: %v", err)
		}
	}
	s.coordinator.Dispose()
	s.pool.CloseAll()
	s.source.ClearCache()
	s.fonts.Close()
}
