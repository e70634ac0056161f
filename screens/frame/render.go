package frame

import (
	"fmt"
	"path/filepath"

	"github.com/veandco/go-sdl2/sdl"

	"feed-frame/ui"
)

var (
	colorText = sdl.Color{R: 240, G: 240, B: 240, A: 255}
	colorDim  = sdl.Color{R: 150, G: 150, B: 150, A: 255}
)

// Draw renders the current frame.
func (s *FeedScreen) Draw() error {
	s.renderer.SetDrawColor(8, 8, 12, 255)
	s.renderer.Clear()

	if len(s.items) == 0 {
		s.drawEmptyState()
	} else {
		s.drawFeed()
	}
	s.drawOverlay()

	s.renderer.Present()
	return nil
}

// drawEmptyState covers startup and emptied feeds: show the pairing QR large
// so the remote can pick a collection.
func (s *FeedScreen) drawEmptyState() {
	ui.RenderTextCentered(s.renderer, "Waiting for feed...", s.width/2, s.height/2-120, colorText, s.fonts.Title)

	if s.qrBitmap != nil {
		size := int32(6)
		side := int32(len(s.qrBitmap)) * size
		ui.DrawQRCode(s.renderer, s.qrBitmap, s.width/2-side/2, s.height/2-40, size)
		ui.RenderTextCentered(s.renderer, s.portal.GetURL(), s.width/2, s.height/2+side+20, colorDim, s.fonts.Hint)
	}
}

// drawFeed renders the current item, sliding between pages while a
// transition is in flight.
func (s *FeedScreen) drawFeed() {
	if s.transitionLeft == 0 {
		s.drawItemPage(s.currentPage, 0)
		return
	}

	// Slide progress goes 0 -> 1 as frames tick down.
	t := float64(transitionFrames-s.transitionLeft) / float64(transitionFrames)
	shift := int32(t * float64(s.height))

	if s.transitionTo > s.currentPage {
		// Next page slides in from below.
		s.drawItemPage(s.currentPage, -shift)
		s.drawItemPage(s.transitionTo, s.height-shift)
	} else {
		// Previous page slides in from above.
		s.drawItemPage(s.currentPage, shift)
		s.drawItemPage(s.transitionTo, shift-s.height)
	}
}

// drawItemPage renders one feed item at a vertical offset.
func (s *FeedScreen) drawItemPage(index int, yOffset int32) {
	if index < 0 || index >= len(s.items) {
		return
	}
	item := s.items[index]

	ui.DrawPlaceholderArt(s.renderer, item.ID, 0, yOffset, s.width, s.height)

	title := filepath.Base(item.ID)
	ui.RenderText(s.renderer, title, 40, yOffset+s.height-140, colorText, s.fonts.Label)

	if clip, ok := s.pool.Get(item.ID); ok {
		detail := fmt.Sprintf("%.1f MB cached", float64(clip.SizeBytes)/(1024*1024))
		ui.RenderText(s.renderer, detail, 40, yOffset+s.height-105, colorDim, s.fonts.Hint)
	} else if meta, ok := s.meta.Get(item.ID); ok {
		detail := fmt.Sprintf("loading %.1f MB...", float64(meta.SizeBytes)/(1024*1024))
		ui.RenderText(s.renderer, detail, 40, yOffset+s.height-105, colorDim, s.fonts.Hint)
	} else {
		ui.RenderText(s.renderer, "loading...", 40, yOffset+s.height-105, colorDim, s.fonts.Hint)
	}
}

// drawOverlay renders the chrome shared by all states: position dots, pause
// badge and the pairing QR in the corner.
func (s *FeedScreen) drawOverlay() {
	if len(s.items) > 0 {
		ui.DrawProgressDots(s.renderer, s.currentPage, len(s.items), s.width/2, s.height-40)
	}

	if s.paused {
		ui.RenderText(s.renderer, "Paused", s.width-140, 30, colorText, s.fonts.Label)
	}

	if s.qrBitmap != nil && len(s.items) > 0 {
		size := int32(2)
		side := int32(len(s.qrBitmap)) * size
		ui.DrawQRCode(s.renderer, s.qrBitmap, s.width-side-30, s.height-side-30, size)
	}
}
