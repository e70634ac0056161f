package pairportal

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/skip2/go-qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, status StatusFunc) (*httptest.Server, chan Command) {
	t.Helper()
	commands := make(chan Command, 8)
	qrPNG := func() ([]byte, error) {
		return qrcode.Encode("http://10.0.0.2:8080", qrcode.Medium, 200)
	}
	ws := NewWebServer(DefaultPort, status, func(cmd Command) {
		commands <- cmd
	}, qrPNG)
	srv := httptest.NewServer(ws.routes())
	t.Cleanup(srv.Close)
	return srv, commands
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestStatusEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, func() Status {
		return Status{
			Collection:   "Daily Mix",
			CurrentIndex: 4,
			TotalItems:   20,
			WindowMode:   "Full",
		}
	})

	resp, err := http.Get(srv.URL + "/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var status Status
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	assert.Equal(t, "Daily Mix", status.Collection)
	assert.Equal(t, 4, status.CurrentIndex)
	assert.Equal(t, 20, status.TotalItems)
}

func TestJumpQueuesCommand(t *testing.T) {
	srv, commands := newTestServer(t, nil)

	resp := postJSON(t, srv.URL+"/jump", JumpRequest{Index: 7})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cmd := <-commands
	assert.Equal(t, CommandJump, cmd.Kind)
	assert.Equal(t, 7, cmd.Index)
}

func TestJumpRejectsNegativeIndex(t *testing.T) {
	srv, commands := newTestServer(t, nil)

	resp := postJSON(t, srv.URL+"/jump", JumpRequest{Index: -1})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, commands)
}

func TestJumpRejectsGet(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	resp, err := http.Get(srv.URL + "/jump")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestCollectionListing(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	resp, err := http.Get(srv.URL + "/collection")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var infos []CollectionInfo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&infos))
	require.NotEmpty(t, infos)
	assert.NotEmpty(t, infos[0].ID)
	assert.NotEmpty(t, infos[0].Title)
}

func TestCollectionSwitch(t *testing.T) {
	srv, commands := newTestServer(t, nil)

	resp := postJSON(t, srv.URL+"/collection", CollectionRequest{ID: "2"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cmd := <-commands
	assert.Equal(t, CommandSelectCollection, cmd.Kind)
	assert.Equal(t, "2", cmd.CollectionID)
}

func TestCollectionSwitchUnknownID(t *testing.T) {
	srv, commands := newTestServer(t, nil)

	resp := postJSON(t, srv.URL+"/collection", CollectionRequest{ID: "no-such"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Empty(t, commands)
}

func TestPlaybackPauseResume(t *testing.T) {
	srv, commands := newTestServer(t, nil)

	resp := postJSON(t, srv.URL+"/playback", PlaybackRequest{Action: "pause"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, CommandPause, (<-commands).Kind)

	resp = postJSON(t, srv.URL+"/playback", PlaybackRequest{Action: "resume"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, CommandResume, (<-commands).Kind)

	resp = postJSON(t, srv.URL+"/playback", PlaybackRequest{Action: "rewind"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRootServesPortalPage(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html"))
}

func TestQRCodeEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	resp, err := http.Get(srv.URL + "/qr.png")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	// PNG magic bytes.
	require.True(t, len(body) > 8)
	assert.Equal(t, []byte("\x89PNG"), body[:4])
}

func TestQRCodeEndpointUnavailable(t *testing.T) {
	ws := NewWebServer(DefaultPort, nil, func(Command) {}, func() ([]byte, error) {
		return nil, errors.New("portal is not running")
	})
	srv := httptest.NewServer(ws.routes())
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/qr.png")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestPortalEnqueueDropsWhenFull(t *testing.T) {
	portal := NewPortal(0, nil)
	for i := 0; i < 20; i++ {
		portal.enqueue(Command{Kind: CommandJump, Index: i})
	}
	// Queue holds the first 8; the rest were dropped, not blocked on.
	assert.Len(t, portal.Commands(), 8)
}

func TestCommandKindString(t *testing.T) {
	assert.Equal(t, "Jump", CommandJump.String())
	assert.Equal(t, "SelectCollection", CommandSelectCollection.String())
	assert.Equal(t, "Pause", CommandPause.String())
	assert.Equal(t, "Resume", CommandResume.String())
	assert.Equal(t, "Unknown", CommandKind(9).String())
}
