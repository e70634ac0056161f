package pairportal

import (
	_ "embed"
	"encoding/json"
	"log"
	"net/http"

	"feed-frame/pkg/feed"
)

//go:embed portal_page.html
var portalPageHTML string

// handleRoot serves the remote control page
func (ws *WebServer) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(portalPageHTML))
}

// handleStatus returns the frame's current playback status
func (ws *WebServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var status Status
	if ws.status != nil {
		status = ws.status()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(status)
}

// handleQRCode serves the pairing QR as PNG, so the portal page can be
// passed along to a second phone by showing the code
func (ws *WebServer) handleQRCode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if ws.qrPNG == nil {
		http.Error(w, "QR code not available", http.StatusServiceUnavailable)
		return
	}
	png, err := ws.qrPNG()
	if err != nil {
		log.Printf("Portal: QR code unavailable: %v", err)
		http.Error(w, "QR code not available", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

// JumpRequest asks the frame to show a specific item.
type JumpRequest struct {
	Index int `json:"index"`
}

// handleJump queues a jump to the requested feed position. Out-of-range
// indices are accepted as-is; the frame clamps them against whatever the
// feed holds by the time the command is drained.
func (ws *WebServer) handleJump(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req JumpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Index < 0 {
		http.Error(w, "Index must be non-negative", http.StatusBadRequest)
		return
	}

	log.Printf("Portal: jump requested | index=%d", req.Index)
	ws.enqueue(Command{Kind: CommandJump, Index: req.Index})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "queued"})
}

// CollectionRequest switches the frame to another collection.
type CollectionRequest struct {
	ID string `json:"id"`
}

// CollectionInfo is one entry in the collection listing.
type CollectionInfo struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// handleCollection lists the available collections on GET and queues a
// switch on POST.
func (ws *WebServer) handleCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		colls := feed.BuiltinCollections()
		infos := make([]CollectionInfo, 0, len(colls))
		for _, c := range colls {
			infos = append(infos, CollectionInfo{ID: c.ID, Title: c.Title, Description: c.Description})
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(infos)

	case http.MethodPost:
		var req CollectionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if req.ID == "" {
			http.Error(w, "Collection id is required", http.StatusBadRequest)
			return
		}
		if _, ok := feed.FindCollection(req.ID); !ok {
			http.Error(w, "Unknown collection", http.StatusNotFound)
			return
		}

		log.Printf("Portal: collection switch requested | id=%s", req.ID)
		ws.enqueue(Command{Kind: CommandSelectCollection, CollectionID: req.ID})

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "queued"})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// PlaybackRequest pauses or resumes auto-advance.
type PlaybackRequest struct {
	Action string `json:"action"` // "pause" or "resume"
}

// handlePlayback queues a pause or resume of auto-advance
func (ws *WebServer) handlePlayback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req PlaybackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	switch req.Action {
	case "pause":
		ws.enqueue(Command{Kind: CommandPause})
	case "resume":
		ws.enqueue(Command{Kind: CommandResume})
	default:
		http.Error(w, "Action must be pause or resume", http.StatusBadRequest)
		return
	}

	log.Printf("Portal: playback %s requested", req.Action)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "queued"})
}
