package ui

import (
	"fmt"

	"github.com/veandco/go-sdl2/ttf"
)

// Fonts manages the TrueType fonts used by the feed overlay
type Fonts struct {
	Title *ttf.Font // 36px for the pairing headline
	Label *ttf.Font // 22px for item titles and status
	Hint  *ttf.Font // 16px for key hints and the portal URL
}

// LoadFonts loads system fonts with fallbacks for different platforms
func LoadFonts() (*Fonts, error) {
	// Initialize TTF
	if err := ttf.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize TTF: %v", err)
	}

	fonts := &Fonts{}

	// Try to load system fonts with fallbacks
	fontPaths := []string{
		"/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf",
		"/usr/share/fonts/TTF/DejaVuSans-Bold.ttf",
		"/System/Library/Fonts/Helvetica.ttc",
		"/usr/share/fonts/truetype/liberation/LiberationSans-Bold.ttf",
	}

	var err error
	for _, path := range fontPaths {
		fonts.Title, err = ttf.OpenFont(path, 36)
		if err == nil {
			break
		}
	}

	for _, path := range fontPaths {
		fonts.Label, err = ttf.OpenFont(path, 22)
		if err == nil {
			break
		}
	}

	for _, path := range fontPaths {
		fonts.Hint, err = ttf.OpenFont(path, 16)
		if err == nil {
			break
		}
	}

	return fonts, nil
}

// Close cleans up font resources
func (f *Fonts) Close() {
	if f.Title != nil {
		f.Title.Close()
	}
	if f.Label != nil {
		f.Label.Close()
	}
	if f.Hint != nil {
		f.Hint.Close()
	}
}
