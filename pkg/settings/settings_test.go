package settings

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	s := loadFrom(filepath.Join(t.TempDir(), "nope.json"))
	assert.Equal(t, defaultSettings, s)
}

func TestLoadMalformedFileReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s := loadFrom(path)
	assert.Equal(t, defaultSettings, s)
}

func TestLoadPartialFileFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"keepRadius": 1, "autoAdvanceSeconds": 30}`), 0o644))

	s := loadFrom(path)
	assert.Equal(t, 1, s.KeepRadius)
	assert.Equal(t, 30.0, s.AutoAdvanceSeconds)
	// Everything absent from the file keeps its default.
	assert.Equal(t, defaultSettings.CollectionID, s.CollectionID)
	assert.Equal(t, defaultSettings.PrefetchRadius, s.PrefetchRadius)
	assert.Equal(t, defaultSettings.PaginationThreshold, s.PaginationThreshold)
	assert.Equal(t, defaultSettings.PortalPort, s.PortalPort)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")

	want := Settings{
		CollectionID:        "2",
		KeepRadius:          3,
		PrefetchRadius:      4,
		PaginationThreshold: 2,
		DebounceSeconds:     2.5,
		AutoAdvanceSeconds:  10,
		PortalPort:          9090,
	}
	require.NoError(t, saveTo(path, want))

	got := loadFrom(path)
	assert.Equal(t, want, got)
}

func TestDurationHelpers(t *testing.T) {
	s := Settings{DebounceSeconds: 2.5, AutoAdvanceSeconds: 10}
	assert.Equal(t, 2500*time.Millisecond, s.PaginationDebounce())
	assert.Equal(t, 10*time.Second, s.AutoAdvanceInterval())
}
