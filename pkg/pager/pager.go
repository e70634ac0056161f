// Package pager keeps a paged video viewer consistent with externally
// requested indices while holding a bounded window of materialized per-item
// resources. It is pure coordination logic: all side effects (downloading
// media, opening handles, fetching metadata) are issued as fire-and-forget
// requests to collaborator interfaces and observed later as fresh events.
package pager

import (
	"errors"
	"time"
)

// Item is one unit in the paged sequence, identified by a stable id.
// The payload is opaque to the coordinator.
type Item struct {
	ID      string
	Payload interface{}
}

// ErrOutOfRange reports a raw requested index outside [0, len(items)-1].
// Only surfaced in strict mode; normal operation clamps and logs instead.
var ErrOutOfRange = errors.New("pager: requested index out of range")

// Config carries the tunable constants of the coordinator. The source
// material uses slightly different radii per screen, so everything is a
// constructor parameter rather than a package constant.
type Config struct {
	KeepRadius          int           // materialized-controller radius around the current index
	PrefetchRadius      int           // metadata warm radius, usually wider than KeepRadius
	PaginationThreshold int           // fire load-more when currentIndex >= total-threshold
	PaginationDebounce  time.Duration // minimum interval between load-more requests
	Strict              bool          // return ErrOutOfRange instead of clamping silently
}

// DefaultConfig returns the tuning used by the feed screen.
func DefaultConfig() Config {
	return Config{
		KeepRadius:          2,
		PrefetchRadius:      3,
		PaginationThreshold: 3,
		PaginationDebounce:  5 * time.Second,
	}
}

// normalized fills zero fields with defaults so a partially specified Config
// behaves sensibly.
func (c Config) normalized() Config {
	def := DefaultConfig()
	if c.KeepRadius <= 0 {
		c.KeepRadius = def.KeepRadius
	}
	if c.PrefetchRadius <= 0 {
		c.PrefetchRadius = def.PrefetchRadius
	}
	if c.PaginationThreshold <= 0 {
		c.PaginationThreshold = def.PaginationThreshold
	}
	if c.PaginationDebounce <= 0 {
		c.PaginationDebounce = def.PaginationDebounce
	}
	return c
}

// PageView is the underlying page widget the coordinator drives. JumpTo is an
// imperative instruction to animate/snap to an index; the view reports
// completion later through PageCoordinator.OnPageSettled.
type PageView interface {
	HasClients() bool
	CurrentPage() int
	JumpTo(index int)
}

// ControllerHost owns the heavy per-item resources (media handles). Both
// calls are fire-and-forget: Materialize results come back through
// PageCoordinator.OnControllerReady / OnControllerFailed, and hosts must
// tolerate Dispose for ids they never finished materializing.
type ControllerHost interface {
	Materialize(itemID string)
	Dispose(itemID string)
}

// FeedRequester is the upstream item source. RequestLoadMore asks for the
// next page; new items arrive later via PageCoordinator.SetItems.
type FeedRequester interface {
	RequestLoadMore()
}

// PrefetchWarmer warms lightweight metadata ahead of need, distinct from full
// materialization.
type PrefetchWarmer interface {
	RequestPrefetch(itemIDs []string)
}

// Collaborators bundles the external dependencies of a PageCoordinator.
// Feed and Warmer may be nil when pagination/prefetch is not wanted.
type Collaborators struct {
	View        PageView
	Controllers ControllerHost
	Feed        FeedRequester
	Warmer      PrefetchWarmer
}

// clamp returns index forced into [0, total-1]. total must be > 0.
func clamp(index, total int) int {
	if index < 0 {
		return 0
	}
	if index > total-1 {
		return total - 1
	}
	return index
}
