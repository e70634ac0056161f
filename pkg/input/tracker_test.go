package input

import (
	"testing"
	"time"

	"github.com/veandco/go-sdl2/sdl"
)

func keyState(down ...sdl.Scancode) []uint8 {
	state := make([]uint8, sdl.NUM_SCANCODES)
	for _, sc := range down {
		state[sc] = 1
	}
	return state
}

func TestKeyPressTrackerEdgeOnly(t *testing.T) {
	tracker := NewKeyPressTracker()

	if !tracker.IsPressed(keyState(sdl.SCANCODE_SPACE), sdl.SCANCODE_SPACE) {
		t.Error("expected press edge to fire")
	}
	if tracker.IsPressed(keyState(sdl.SCANCODE_SPACE), sdl.SCANCODE_SPACE) {
		t.Error("held key should not fire again")
	}

	// Release, then press again.
	if tracker.IsPressed(keyState(), sdl.SCANCODE_SPACE) {
		t.Error("released key should not fire")
	}
	if !tracker.IsPressed(keyState(sdl.SCANCODE_SPACE), sdl.SCANCODE_SPACE) {
		t.Error("expected second press edge to fire")
	}
}

func TestRepeatTrackerInitialPress(t *testing.T) {
	tracker := NewRepeatTracker()
	clock := time.Now()
	tracker.now = func() time.Time { return clock }

	if !tracker.Fires(keyState(sdl.SCANCODE_RIGHT), sdl.SCANCODE_RIGHT) {
		t.Error("expected press edge to fire")
	}
	if tracker.Fires(keyState(sdl.SCANCODE_RIGHT), sdl.SCANCODE_RIGHT) {
		t.Error("should not fire before repeat delay")
	}
}

func TestRepeatTrackerRepeatsAfterDelay(t *testing.T) {
	tracker := NewRepeatTracker()
	clock := time.Now()
	tracker.now = func() time.Time { return clock }

	tracker.Fires(keyState(sdl.SCANCODE_RIGHT), sdl.SCANCODE_RIGHT)

	clock = clock.Add(repeatDelay)
	if !tracker.Fires(keyState(sdl.SCANCODE_RIGHT), sdl.SCANCODE_RIGHT) {
		t.Error("expected repeat after delay")
	}
	if tracker.Fires(keyState(sdl.SCANCODE_RIGHT), sdl.SCANCODE_RIGHT) {
		t.Error("should not repeat again inside the interval")
	}

	clock = clock.Add(repeatInterval)
	if !tracker.Fires(keyState(sdl.SCANCODE_RIGHT), sdl.SCANCODE_RIGHT) {
		t.Error("expected another repeat after interval")
	}
}

func TestRepeatTrackerResetsOnRelease(t *testing.T) {
	tracker := NewRepeatTracker()
	clock := time.Now()
	tracker.now = func() time.Time { return clock }

	tracker.Fires(keyState(sdl.SCANCODE_RIGHT), sdl.SCANCODE_RIGHT)
	clock = clock.Add(repeatDelay)

	// Release clears the hold timers; the next press is a fresh edge.
	if tracker.Fires(keyState(), sdl.SCANCODE_RIGHT) {
		t.Error("released key should not fire")
	}
	if !tracker.Fires(keyState(sdl.SCANCODE_RIGHT), sdl.SCANCODE_RIGHT) {
		t.Error("expected fresh press edge after release")
	}
	if tracker.Fires(keyState(sdl.SCANCODE_RIGHT), sdl.SCANCODE_RIGHT) {
		t.Error("should wait out the delay again after re-press")
	}
}
