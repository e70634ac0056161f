// Package player owns the heavy per-item resources of the feed: cached media
// files and their open handles, pooled behind the coordinator's controller
// host contract, plus the governor that sizes the clip window to the device.
package player

import (
	"fmt"
	"os"

	"feed-frame/pkg/pager"
)

// Clip is one materialized media resource: the downloaded file and an open
// handle on it, ready for a decoder to consume.
type Clip struct {
	ID        string
	Path      string
	SizeBytes int64

	file  *os.File
	state pager.HandleState
}

// openClip materializes a clip from an already-downloaded file.
func openClip(itemID, path string) (*Clip, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	if info.Size() == 0 {
		file.Close()
		return nil, fmt.Errorf("empty media file %s", path)
	}

	return &Clip{
		ID:        itemID,
		Path:      path,
		SizeBytes: info.Size(),
		file:      file,
		state:     pager.HandleReady,
	}, nil
}

// State returns the clip's lifecycle state.
func (c *Clip) State() pager.HandleState {
	return c.state
}

// Reader exposes the open media handle. Returns nil once disposed.
func (c *Clip) Reader() *os.File {
	if c.state != pager.HandleReady {
		return nil
	}
	return c.file
}

// close releases the file handle. Idempotent.
func (c *Clip) close() error {
	if c.state == pager.HandleDisposed {
		return nil
	}
	c.state = pager.HandleDisposed
	if c.file == nil {
		return nil
	}
	err := c.file.Close()
	c.file = nil
	return err
}
