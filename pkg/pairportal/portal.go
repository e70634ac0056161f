// Package pairportal serves a phone-friendly remote control page for the
// frame over the local network. A QR code rendered on screen points at the
// page; taps on the page become commands the feed screen drains each frame.
package pairportal

import (
	"fmt"
	"log"
	"net"
	"sync"

	"github.com/skip2/go-qrcode"
)

const DefaultPort = 8080

// CommandKind identifies what the remote asked for.
type CommandKind int

const (
	CommandJump CommandKind = iota
	CommandSelectCollection
	CommandPause
	CommandResume
)

// String returns a human-readable command name
func (k CommandKind) String() string {
	switch k {
	case CommandJump:
		return "Jump"
	case CommandSelectCollection:
		return "SelectCollection"
	case CommandPause:
		return "Pause"
	case CommandResume:
		return "Resume"
	default:
		return "Unknown"
	}
}

// Command is one remote request. Index is set for CommandJump,
// CollectionID for CommandSelectCollection.
type Command struct {
	Kind         CommandKind
	Index        int
	CollectionID string
}

// Status is a snapshot of what the frame is doing, provided by the feed
// screen and served to the remote page.
type Status struct {
	Collection   string `json:"collection"`
	CurrentIndex int    `json:"current_index"`
	TotalItems   int    `json:"total_items"`
	Paused       bool   `json:"paused"`
	WindowMode   string `json:"window_mode"`
}

// StatusFunc supplies the current playback status to the portal handlers.
type StatusFunc func() Status

// Portal manages the remote control system: QR code, web server, command queue.
type Portal struct {
	server     *WebServer
	isRunning  bool
	mu         sync.RWMutex
	ip         string
	port       int
	qrCodeData []byte
	commands   chan Command
	status     StatusFunc
}

// NewPortal creates a portal that reports playback state via status.
func NewPortal(port int, status StatusFunc) *Portal {
	if port <= 0 {
		port = DefaultPort
	}
	return &Portal{
		port:     port,
		commands: make(chan Command, 8),
		status:   status,
	}
}

// Start detects the frame's LAN address, generates the pairing QR code and
// starts the web server.
func (p *Portal) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.isRunning {
		log.Println("Pair portal is already running")
		return nil
	}

	log.Println("Starting pair portal...")

	ip, err := detectLANAddress()
	if err != nil {
		return fmt.Errorf("failed to detect LAN address: %w", err)
	}
	p.ip = ip
	log.Printf("Detected LAN address: %s", ip)

	url := fmt.Sprintf("http://%s:%d", p.ip, p.port)
	qrCode, err := qrcode.Encode(url, qrcode.Medium, 200)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}
	p.qrCodeData = qrCode
	log.Printf("QR code generated for: %s", url)

	p.server = NewWebServer(p.port, p.status, p.enqueue, p.GetQRCodePNG)
	if err := p.server.Start(); err != nil {
		return fmt.Errorf("failed to start web server: %w", err)
	}
	log.Printf("Web server started on %s", url)

	p.isRunning = true
	log.Println("Pair portal started successfully")
	return nil
}

// Stop shuts down the web server.
func (p *Portal) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.isRunning {
		return nil
	}

	log.Println("Stopping pair portal...")

	if p.server != nil {
		if err := p.server.Stop(); err != nil {
			log.Printf("Error stopping web server: %v", err)
		}
	}

	p.isRunning = false
	log.Println("Pair portal stopped")
	return nil
}

// IsRunning returns whether the portal is currently running
func (p *Portal) IsRunning() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.isRunning
}

// Commands delivers remote requests. Drain it from the feed screen's frame loop.
func (p *Portal) Commands() <-chan Command {
	return p.commands
}

// GetQRCodePNG returns the pairing QR code as PNG bytes.
func (p *Portal) GetQRCodePNG() ([]byte, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.isRunning {
		return nil, fmt.Errorf("portal is not running")
	}
	if p.qrCodeData == nil {
		return nil, fmt.Errorf("QR code not generated")
	}
	return p.qrCodeData, nil
}

// GetURL returns the portal page URL.
func (p *Portal) GetURL() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return fmt.Sprintf("http://%s:%d", p.ip, p.port)
}

// enqueue is called by the web server for each accepted command. A full
// queue means the frame loop has stalled; dropping is better than blocking
// an HTTP handler.
func (p *Portal) enqueue(cmd Command) {
	select {
	case p.commands <- cmd:
	default:
		log.Printf("Portal: command queue full, dropping %s", cmd.Kind.String())
	}
}

// detectLANAddress finds the local address the frame is reachable on. The
// UDP dial never sends a packet; it just asks the kernel which interface
// routes outward.
func detectLANAddress() (string, error) {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "", err
	}
	defer conn.Close()

	addr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok {
		return "", fmt.Errorf("unexpected local address type %T", conn.LocalAddr())
	}
	return addr.IP.String(), nil
}
