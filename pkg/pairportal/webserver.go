package pairportal

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"
)

// WebServer manages the HTTP server behind the pair portal
type WebServer struct {
	server    *http.Server
	isRunning bool
	mu        sync.RWMutex
	port      int
	status    StatusFunc
	enqueue   func(Command)
	qrPNG     func() ([]byte, error)
}

// NewWebServer creates a new web server instance
func NewWebServer(port int, status StatusFunc, enqueue func(Command), qrPNG func() ([]byte, error)) *WebServer {
	return &WebServer{
		port:    port,
		status:  status,
		enqueue: enqueue,
		qrPNG:   qrPNG,
	}
}

// Start starts the HTTP server
func (ws *WebServer) Start() error {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	if ws.isRunning {
		return fmt.Errorf("web server already running")
	}

	addr := fmt.Sprintf(":%d", ws.port)
	ws.server = &http.Server{
		Addr:         addr,
		Handler:      ws.routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ws.isRunning = true

	go func() {
		log.Printf("Starting pair portal web server on %s", addr)
		if err := ws.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("Web server error: %v", err)
			ws.mu.Lock()
			ws.isRunning = false
			ws.mu.Unlock()
		}
	}()

	return nil
}

// routes builds the handler mux. Split out so tests can hit the handlers
// through httptest without binding a port.
func (ws *WebServer) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", ws.handleRoot)
	mux.HandleFunc("/status", ws.handleStatus)
	mux.HandleFunc("/jump", ws.handleJump)
	mux.HandleFunc("/collection", ws.handleCollection)
	mux.HandleFunc("/playback", ws.handlePlayback)
	mux.HandleFunc("/qr.png", ws.handleQRCode)
	return mux
}

// Stop gracefully shuts down the HTTP server
func (ws *WebServer) Stop() error {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	if !ws.isRunning {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := ws.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown web server: %w", err)
	}

	ws.isRunning = false
	log.Println("Pair portal web server stopped")
	return nil
}

// IsRunning returns whether the server is currently running
func (ws *WebServer) IsRunning() bool {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	return ws.isRunning
}
