package ui

import (
	"hash/fnv"

	"github.com/veandco/go-sdl2/sdl"
)

// DrawGradientRect draws a vertical gradient rectangle
func DrawGradientRect(renderer *sdl.Renderer, x, y, width, height int32, startColor, endColor [3]uint8) {
	// Draw gradient by drawing horizontal lines with interpolated colors
	for i := int32(0); i < height; i++ {
		t := float64(i) / float64(height-1)

		r := uint8(float64(startColor[0])*(1-t) + float64(endColor[0])*t)
		g := uint8(float64(startColor[1])*(1-t) + float64(endColor[1])*t)
		b := uint8(float64(startColor[2])*(1-t) + float64(endColor[2])*t)

		renderer.SetDrawColor(r, g, b, 255)
		renderer.DrawLine(x, y+i, x+width-1, y+i)
	}
}

// DrawPlaceholderArt fills the rect with a gradient derived from the item id,
// so each item has a stable look while its media is still downloading.
func DrawPlaceholderArt(renderer *sdl.Renderer, itemID string, x, y, width, height int32) {
	h := fnv.New32a()
	h.Write([]byte(itemID))
	seed := h.Sum32()

	start := [3]uint8{uint8(seed >> 24), uint8(seed>>16) / 2, uint8(seed >> 8)}
	end := [3]uint8{start[0] / 3, start[1] / 3, uint8(seed) / 2}
	DrawGradientRect(renderer, x, y, width, height, start, end)
}

// DrawProgressDots renders the feed position as a row of dots, the current
// one enlarged. Long feeds collapse to a window of dots around the current
// index so the row fits on screen.
func DrawProgressDots(renderer *sdl.Renderer, current, total int, centerX, y int32) {
	const maxDots = 15
	const spacing = 18

	if total <= 0 {
		return
	}

	first := 0
	count := total
	if total > maxDots {
		first = current - maxDots/2
		if first < 0 {
			first = 0
		}
		if first > total-maxDots {
			first = total - maxDots
		}
		count = maxDots
	}

	startX := centerX - int32(count*spacing)/2
	for i := 0; i < count; i++ {
		idx := first + i
		cx := startX + int32(i*spacing)

		size := int32(6)
		if idx == current {
			size = 10
			renderer.SetDrawColor(255, 255, 255, 255)
		} else {
			renderer.SetDrawColor(140, 140, 140, 200)
		}
		renderer.FillRect(&sdl.Rect{X: cx - size/2, Y: y - size/2, W: size, H: size})
	}
}

// DrawQRCode renders a QR bitmap as filled modules with a quiet zone.
func DrawQRCode(renderer *sdl.Renderer, bitmap [][]bool, x, y, moduleSize int32) {
	if len(bitmap) == 0 {
		return
	}

	side := int32(len(bitmap))*moduleSize + 2*moduleSize
	renderer.SetDrawColor(255, 255, 255, 255)
	renderer.FillRect(&sdl.Rect{X: x - moduleSize, Y: y - moduleSize, W: side, H: side})

	renderer.SetDrawColor(0, 0, 0, 255)
	for row := range bitmap {
		for col, dark := range bitmap[row] {
			if !dark {
				continue
			}
			renderer.FillRect(&sdl.Rect{
				X: x + int32(col)*moduleSize,
				Y: y + int32(row)*moduleSize,
				W: moduleSize,
				H: moduleSize,
			})
		}
	}
}
