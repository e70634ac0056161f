package pager

import "log"

// State is the lifecycle state of a PageCoordinator.
type State int

const (
	StateUninitialized State = iota // view not attached yet
	StateSettled                    // visible page is stable at currentIndex
	StateSettling                   // a jump command is outstanding
	StateDisposed                   // terminal; owning screen was torn down
)

// String returns a human-readable state name
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "Uninitialized"
	case StateSettled:
		return "Settled"
	case StateSettling:
		return "Settling"
	case StateDisposed:
		return "Disposed"
	default:
		return "Unknown"
	}
}

// PageCoordinator ties IndexClock, ControllerWindow and PrefetchScheduler
// together against a single linear page view. It runs entirely on the event
// thread it is attached to and never blocks; collaborator calls are
// fire-and-forget and their results re-enter as fresh events.
type PageCoordinator struct {
	cfg    Config
	clock  IndexClock
	window *ControllerWindow
	sched  *PrefetchScheduler
	collab Collaborators

	state        State
	items        []Item
	currentIndex int

	// External signal bookkeeping. lastRequested only changes on
	// OnIndexRequested, never on swipes, so repeated identical URL signals
	// stay no-ops.
	lastRequested    int
	hasLastRequested bool

	// Outstanding jump command. Superseded targets are not re-commanded;
	// only one jump is ever in flight.
	pendingTarget int

	// Materialize requests issued but not yet confirmed, to avoid
	// re-requesting the same id on every settle while a download runs.
	pendingMaterialize map[string]bool
}

// NewPageCoordinator creates a coordinator over items with the given initial
// index. The initial page is applied when the view attaches; it is never
// driven through a sync call.
func NewPageCoordinator(cfg Config, collab Collaborators, items []Item, initialIndex int) *PageCoordinator {
	cfg = cfg.normalized()
	start := 0
	if len(items) > 0 {
		start = clamp(initialIndex, len(items))
	}
	return &PageCoordinator{
		cfg:                cfg,
		clock:              NewIndexClock(cfg.Strict),
		window:             NewControllerWindow(cfg.KeepRadius),
		sched:              NewPrefetchScheduler(cfg.PaginationThreshold, cfg.PaginationDebounce, cfg.PrefetchRadius),
		collab:             collab,
		state:              StateUninitialized,
		items:              items,
		currentIndex:       start,
		pendingMaterialize: make(map[string]bool),
	}
}

// State returns the current lifecycle state.
func (pc *PageCoordinator) State() State {
	return pc.state
}

// CurrentIndex returns the coordinator's belief of the active index. It only
// moves on confirmed settles, not on every external signal.
func (pc *PageCoordinator) CurrentIndex() int {
	return pc.currentIndex
}

// Items returns the current item snapshot.
func (pc *PageCoordinator) Items() []Item {
	return pc.items
}

// SetRadii retunes the keep and prefetch radii at runtime, e.g. from a
// memory-pressure governor. Takes effect on the next settle.
func (pc *PageCoordinator) SetRadii(keepRadius, prefetchRadius int) {
	pc.window.SetRadius(keepRadius)
	pc.sched.SetRadius(prefetchRadius)
}

// OnViewAttached marks the page view as attached at its construction-time
// initial page and performs the first window recompute.
func (pc *PageCoordinator) OnViewAttached() {
	if pc.state != StateUninitialized {
		return
	}
	pc.state = StateSettled
	log.Printf("PageCoordinator: view attached | index=%d | items=%d", pc.currentIndex, len(pc.items))
	pc.recompute()
}

// OnIndexRequested handles an external index signal (deep link, pairing
// portal jump, programmatic change). Out-of-range input is clamped and
// logged; in strict mode it is returned as ErrOutOfRange instead.
func (pc *PageCoordinator) OnIndexRequested(raw int) error {
	if pc.state == StateDisposed {
		return nil
	}

	target, err := pc.clock.ClampIndex(raw, len(pc.items))
	if err != nil {
		return err
	}
	if target != raw {
		log.Printf("PageCoordinator: clamped requested index %d -> %d", raw, target)
	}

	hasClients := pc.state != StateUninitialized && pc.collab.View != nil && pc.collab.View.HasClients()
	currentPage := pc.currentIndex
	if hasClients {
		currentPage = pc.collab.View.CurrentPage()
	}

	lastKnown := pc.lastRequested
	if !pc.hasLastRequested {
		// First signal always counts as a change.
		lastKnown = raw - 1
	}
	sync := pc.clock.ShouldSync(raw, lastKnown, hasClients, currentPage, target)
	pc.lastRequested = raw
	pc.hasLastRequested = true

	if !sync {
		return nil
	}

	if pc.state == StateSettling {
		// Supersede the in-flight jump; the new target is commanded once the
		// stale settle for the old one arrives.
		log.Printf("PageCoordinator: superseding pending jump %d -> %d", pc.pendingTarget, target)
		pc.pendingTarget = target
		return nil
	}

	pc.state = StateSettling
	pc.pendingTarget = target
	pc.collab.View.JumpTo(target)
	return nil
}

// OnPageSettled handles the page view's settle callback. Internal-origin
// moves (user swipes) arrive here without a preceding jump command and move
// the coordinator directly between Settled states.
func (pc *PageCoordinator) OnPageSettled(index int) {
	switch pc.state {
	case StateDisposed:
		return
	case StateUninitialized:
		log.Printf("PageCoordinator: settle before attach ignored | index=%d", index)
		return
	case StateSettling:
		if index != pc.pendingTarget {
			// Superseded by a newer request: drop the stale signal and
			// (re-)command the jump that is actually wanted.
			log.Printf("PageCoordinator: stale settle %d ignored | want=%d", index, pc.pendingTarget)
			pc.collab.View.JumpTo(pc.pendingTarget)
			return
		}
		pc.state = StateSettled
	}

	if len(pc.items) == 0 {
		pc.currentIndex = 0
		return
	}
	pc.currentIndex = clamp(index, len(pc.items))
	pc.recompute()
}

// SetItems replaces the item snapshot. The feed collaborator only appends or
// replaces wholesale (refresh); either way the coordinator re-validates its
// position. Shrinking below the current index is a resynchronization, not an
// error: the index clamps to the last valid position.
func (pc *PageCoordinator) SetItems(items []Item) {
	if pc.state == StateDisposed {
		return
	}
	pc.items = items

	if len(items) == 0 {
		log.Printf("PageCoordinator: items emptied, disposing window")
		pc.currentIndex = 0
		pc.disposeAll()
		return
	}

	if pc.currentIndex > len(items)-1 {
		clamped := len(items) - 1
		log.Printf("PageCoordinator: resync after shrink | index %d -> %d", pc.currentIndex, clamped)
		pc.currentIndex = clamped
	}
	if pc.state == StateSettling && pc.pendingTarget > len(items)-1 {
		pc.pendingTarget = len(items) - 1
	}

	if pc.state == StateSettled {
		pc.recompute()
	}
}

// OnControllerReady confirms a materialization the host finished. Results
// for ids that left the window while the work ran are disposed immediately
// rather than tracked; late arrivals after Dispose are forwarded so the host
// can release them.
func (pc *PageCoordinator) OnControllerReady(itemID string) {
	delete(pc.pendingMaterialize, itemID)

	if pc.state == StateDisposed {
		pc.collab.Controllers.Dispose(itemID)
		return
	}
	if !pc.inKeepWindow(itemID) {
		log.Printf("PageCoordinator: controller %s ready outside window, disposing", itemID)
		pc.collab.Controllers.Dispose(itemID)
		return
	}
	pc.window.MarkReady(itemID)
}

// OnControllerFailed records a failed materialization. The handle stays
// Uninitialized and is retried on the next window recompute; there is no
// tight retry loop.
func (pc *PageCoordinator) OnControllerFailed(itemID string, err error) {
	delete(pc.pendingMaterialize, itemID)
	log.Printf("PageCoordinator: materialize failed for %s: %v (will retry on next settle)", itemID, err)
}

// Dispose tears the coordinator down synchronously. Every Ready handle is
// disposed before it returns; no async leak window. Requests already
// delivered to collaborators are not retracted.
func (pc *PageCoordinator) Dispose() {
	if pc.state == StateDisposed {
		return
	}
	pc.disposeAll()
	pc.pendingMaterialize = make(map[string]bool)
	pc.state = StateDisposed
	log.Printf("PageCoordinator: disposed")
}

// recompute runs the post-settle cycle: materialize the keep-window, dispose
// what fell out of it, then evaluate pagination and prefetch.
func (pc *PageCoordinator) recompute() {
	for _, id := range pc.window.PreInitialize(pc.currentIndex, pc.items) {
		if pc.pendingMaterialize[id] {
			continue // already requested, result not in yet
		}
		pc.pendingMaterialize[id] = true
		pc.collab.Controllers.Materialize(id)
	}

	for _, id := range pc.window.DisposeOutsideRange(pc.currentIndex, pc.items) {
		pc.collab.Controllers.Dispose(id)
		pc.window.MarkDisposed(id)
	}

	if pc.collab.Feed != nil && pc.sched.CheckForPagination(pc.currentIndex, len(pc.items)) {
		log.Printf("PageCoordinator: requesting load-more | index=%d | total=%d", pc.currentIndex, len(pc.items))
		pc.collab.Feed.RequestLoadMore()
	}

	if pc.collab.Warmer != nil {
		if ids := pc.sched.CheckForPrefetch(pc.currentIndex, pc.items); len(ids) > 0 {
			pc.collab.Warmer.RequestPrefetch(ids)
		}
	}
}

// disposeAll tears down every Ready handle synchronously.
func (pc *PageCoordinator) disposeAll() {
	for _, id := range pc.window.ReadyIDs() {
		pc.collab.Controllers.Dispose(id)
		pc.window.MarkDisposed(id)
	}
}

// inKeepWindow reports whether the item currently sits inside the clamped
// keep-window.
func (pc *PageCoordinator) inKeepWindow(itemID string) bool {
	if len(pc.items) == 0 {
		return false
	}
	lo, hi := pc.window.bounds(pc.currentIndex, len(pc.items))
	for i := lo; i <= hi; i++ {
		if pc.items[i].ID == itemID {
			return true
		}
	}
	return false
}
