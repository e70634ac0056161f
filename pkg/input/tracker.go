// Package input turns SDL's per-frame key state into discrete events for the
// feed screen: single presses for pause/quit, press-plus-repeat for scrubbing
// through the feed with a held arrow key.
package input

import (
	"time"

	"github.com/veandco/go-sdl2/sdl"
)

const (
	repeatDelay    = 400 * time.Millisecond // hold time before repeating starts
	repeatInterval = 150 * time.Millisecond
)

// KeyPressTracker manages key press state to prevent duplicate key presses
type KeyPressTracker struct {
	pressed map[sdl.Scancode]bool
}

// NewKeyPressTracker creates a new KeyPressTracker
func NewKeyPressTracker() KeyPressTracker {
	return KeyPressTracker{
		pressed: make(map[sdl.Scancode]bool),
	}
}

// IsPressed checks if a key was just pressed (not held)
func (kpt *KeyPressTracker) IsPressed(keyState []uint8, scancode sdl.Scancode) bool {
	isCurrentlyPressed := keyState[scancode] != 0
	wasPressed := kpt.pressed[scancode]

	kpt.pressed[scancode] = isCurrentlyPressed

	// Only the press edge counts, not the held frames after it.
	return isCurrentlyPressed && !wasPressed
}

// RepeatTracker fires on the press edge and then again at a fixed interval
// while the key stays held. Used for the prev/next keys so a held arrow
// scrubs through the feed.
type RepeatTracker struct {
	pressedAt  map[sdl.Scancode]time.Time
	lastRepeat map[sdl.Scancode]time.Time
	now        func() time.Time
}

// NewRepeatTracker creates a new RepeatTracker
func NewRepeatTracker() RepeatTracker {
	return RepeatTracker{
		pressedAt:  make(map[sdl.Scancode]time.Time),
		lastRepeat: make(map[sdl.Scancode]time.Time),
		now:        time.Now,
	}
}

// Fires reports whether the key should trigger this frame.
func (rt *RepeatTracker) Fires(keyState []uint8, scancode sdl.Scancode) bool {
	if keyState[scancode] == 0 {
		delete(rt.pressedAt, scancode)
		delete(rt.lastRepeat, scancode)
		return false
	}

	now := rt.now()
	pressedAt, held := rt.pressedAt[scancode]
	if !held {
		rt.pressedAt[scancode] = now
		rt.lastRepeat[scancode] = now
		return true
	}

	if now.Sub(pressedAt) < repeatDelay {
		return false
	}
	if now.Sub(rt.lastRepeat[scancode]) < repeatInterval {
		return false
	}
	rt.lastRepeat[scancode] = now
	return true
}
