package settings

import (
	"encoding/json"
	"os"
	"time"
)

// Settings represents user-tunable configuration that should persist across
// application restarts. Add additional fields here as new settings are
// introduced.
type Settings struct {
	CollectionID        string  `json:"collectionId"`
	KeepRadius          int     `json:"keepRadius"`
	PrefetchRadius      int     `json:"prefetchRadius"`
	PaginationThreshold int     `json:"paginationThreshold"`
	DebounceSeconds     float64 `json:"debounceSeconds"`
	AutoAdvanceSeconds  float64 `json:"autoAdvanceSeconds"`
	PortalPort          int     `json:"portalPort"`
}

var defaultSettings = Settings{
	CollectionID:        "1",
	KeepRadius:          2,
	PrefetchRadius:      3,
	PaginationThreshold: 3,
	DebounceSeconds:     5,
	AutoAdvanceSeconds:  15,
	PortalPort:          8080,
}

const filename = "settings.json"

// Load reads the settings file from disk. When the file is missing or cannot
// be parsed, sane defaults are returned instead so the application can
// continue running.
func Load() Settings {
	return loadFrom(filename)
}

func loadFrom(path string) Settings {
	f, err := os.Open(path)
	if err != nil {
		// No existing file – return defaults.
		return defaultSettings
	}
	defer f.Close()

	var s Settings
	if err := json.NewDecoder(f).Decode(&s); err != nil {
		// Malformed file – fall back to defaults.
		return defaultSettings
	}

	// Ensure zero-values are replaced by defaults so that partially written
	// configuration files do not break behaviour when new fields are added.
	if s.CollectionID == "" {
		s.CollectionID = defaultSettings.CollectionID
	}
	if s.KeepRadius <= 0 {
		s.KeepRadius = defaultSettings.KeepRadius
	}
	if s.PrefetchRadius <= 0 {
		s.PrefetchRadius = defaultSettings.PrefetchRadius
	}
	if s.PaginationThreshold <= 0 {
		s.PaginationThreshold = defaultSettings.PaginationThreshold
	}
	if s.DebounceSeconds <= 0 {
		s.DebounceSeconds = defaultSettings.DebounceSeconds
	}
	if s.AutoAdvanceSeconds <= 0 {
		s.AutoAdvanceSeconds = defaultSettings.AutoAdvanceSeconds
	}
	if s.PortalPort <= 0 {
		s.PortalPort = defaultSettings.PortalPort
	}

	return s
}

// Save writes the provided settings to disk, creating the file when
// necessary. Any error is returned to the caller so it can be logged.
func Save(s Settings) error {
	return saveTo(filename, s)
}

func saveTo(path string, s Settings) error {
	// Create will truncate an existing file or create a new one.
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// PaginationDebounce returns the debounce as a duration.
func (s Settings) PaginationDebounce() time.Duration {
	return time.Duration(s.DebounceSeconds * float64(time.Second))
}

// AutoAdvanceInterval returns the auto-advance pause as a duration.
func (s Settings) AutoAdvanceInterval() time.Duration {
	return time.Duration(s.AutoAdvanceSeconds * float64(time.Second))
}
