package player

import (
	"log"
	"sync"

	"feed-frame/pkg/performance"
)

// WindowMode represents how aggressively the clip window is sized.
type WindowMode int

const (
	WindowFull    WindowMode = iota // plenty of headroom, widest radii
	WindowLean                      // downloads lagging or memory tightening
	WindowMinimal                   // survival mode, current clip plus one
)

// String returns a human-readable mode name
func (m WindowMode) String() string {
	switch m {
	case WindowFull:
		return "Full"
	case WindowLean:
		return "Lean"
	case WindowMinimal:
		return "Minimal"
	default:
		return "Unknown"
	}
}

// Recommendation is the governor's current sizing for the coordinator.
type Recommendation struct {
	KeepRadius     int
	PrefetchRadius int
	Mode           WindowMode
}

// WindowGovernor adapts the keep/prefetch radii to download performance and
// memory pressure. Hysteresis counters keep it from flapping between modes
// on a single slow download.
type WindowGovernor struct {
	mu sync.Mutex

	mode                WindowMode
	consecutiveDegraded int
	consecutiveGood     int

	// Hysteresis settings prevent rapid mode switching.
	enterLeanAfter    int // degraded evaluations before Full -> Lean
	enterMinimalAfter int // degraded evaluations in Lean before Minimal
	exitToFullAfter   int // good evaluations in Lean before Full
	exitToLeanAfter   int // good evaluations in Minimal before Lean

	// pressure is swapped for a stub in tests.
	pressure func() performance.PressureLevel
}

// NewWindowGovernor creates a governor with sensible defaults.
func NewWindowGovernor() *WindowGovernor {
	return &WindowGovernor{
		mode:              WindowFull,
		enterLeanAfter:    2,
		enterMinimalAfter: 3,
		exitToFullAfter:   6,
		exitToLeanAfter:   4,
		pressure:          performance.Pressure,
	}
}

// Evaluate classifies the current conditions, advances the mode machine and
// returns the radii the coordinator should run with. Call it once per settle
// or on a slow timer, not per frame.
func (g *WindowGovernor) Evaluate(report performance.Report) Recommendation {
	g.mu.Lock()
	defer g.mu.Unlock()

	level := g.pressure()

	// Critical pressure overrides hysteresis: shed clips now.
	if level >= performance.PressureCritical {
		if g.mode != WindowMinimal {
			log.Printf("WindowGovernor: critical memory pressure, dropping to Minimal")
		}
		g.mode = WindowMinimal
		g.consecutiveDegraded = 0
		g.consecutiveGood = 0
		return g.recommendationLocked()
	}

	degraded := level >= performance.PressureHigh ||
		report.FailureRate > 10.0 ||
		report.AvgMaterializeMs > 8000.0

	if degraded {
		g.consecutiveDegraded++
		g.consecutiveGood = 0
	} else {
		g.consecutiveGood++
		g.consecutiveDegraded = 0
	}

	switch g.mode {
	case WindowFull:
		if g.consecutiveDegraded >= g.enterLeanAfter {
			g.mode = WindowLean
			g.consecutiveDegraded = 0
			log.Printf("WindowGovernor: conditions degrading, entering Lean mode | pressure=%s | avgMaterialize=%.0fms",
				level.String(), report.AvgMaterializeMs)
		}

	case WindowLean:
		if g.consecutiveDegraded >= g.enterMinimalAfter {
			g.mode = WindowMinimal
			g.consecutiveDegraded = 0
			log.Printf("WindowGovernor: still degrading, entering Minimal mode")
		} else if g.consecutiveGood >= g.exitToFullAfter {
			g.mode = WindowFull
			g.consecutiveGood = 0
			log.Printf("WindowGovernor: conditions recovered, returning to Full mode")
		}

	case WindowMinimal:
		if g.consecutiveGood >= g.exitToLeanAfter {
			g.mode = WindowLean
			g.consecutiveGood = 0
			log.Printf("WindowGovernor: conditions improving, upgrading to Lean mode")
		}
	}

	return g.recommendationLocked()
}

// Mode returns the current window mode.
func (g *WindowGovernor) Mode() WindowMode {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.mode
}

// Reset returns the governor to Full mode. Call on collection switches so a
// new feed starts with a fresh profile.
func (g *WindowGovernor) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.mode != WindowFull {
		log.Printf("WindowGovernor: reset to Full mode")
	}
	g.mode = WindowFull
	g.consecutiveDegraded = 0
	g.consecutiveGood = 0
}

// recommendationLocked maps the mode to radii. Must be called with g.mu held.
func (g *WindowGovernor) recommendationLocked() Recommendation {
	switch g.mode {
	case WindowLean:
		return Recommendation{KeepRadius: 1, PrefetchRadius: 2, Mode: WindowLean}
	case WindowMinimal:
		return Recommendation{KeepRadius: 1, PrefetchRadius: 1, Mode: WindowMinimal}
	default:
		return Recommendation{KeepRadius: 2, PrefetchRadius: 3, Mode: WindowFull}
	}
}
