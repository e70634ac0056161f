package main

import (
	"fmt"
	"log"
	"os"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/joho/godotenv"
	"github.com/veandco/go-sdl2/sdl"

	"feed-frame/pkg/performance"
	"feed-frame/pkg/settings"
	"feed-frame/screens/frame"
)

const (
	targetFPS      = 60
	fallbackWidth  = 1920
	fallbackHeight = 1080
)

func main() {
	// CRITICAL: Lock OS thread immediately before any other operations
	runtime.LockOSThread()

	// Configure ARM64-specific memory management
	setupARMMemoryManagement()

	// Configure logging
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Load environment configuration (AWS credentials, SDL driver override)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	windowTitle := os.Getenv("FRAME_TITLE")
	if windowTitle == "" {
		windowTitle = "Feed Frame"
	}

	cfg := settings.Load()
	log.Printf("Settings loaded | collection=%s | keepRadius=%d | prefetchRadius=%d",
		cfg.CollectionID, cfg.KeepRadius, cfg.PrefetchRadius)

	// Initialize SDL2 with fallback options
	if err := initializeSDL2(); err != nil {
		log.Fatalf("Failed to initialize SDL2: %v", err)
	}
	defer func() {
		log.Println("Shutting down SDL2...")
		sdl.Quit()
		runtime.GC()
	}()

	screenWidth, screenHeight := getDisplayDimensions()
	log.Printf("Starting %s | Resolution: %dx%d", windowTitle, screenWidth, screenHeight)

	window, err := createWindow(windowTitle, screenWidth, screenHeight)
	if err != nil {
		log.Fatalf("Failed to create window: %v", err)
	}
	defer window.Destroy()

	renderer, err := createRenderer(window)
	if err != nil {
		log.Fatalf("Failed to create renderer: %v", err)
	}
	defer renderer.Destroy()

	screen, err := frame.NewFeedScreen(renderer, screenWidth, screenHeight, cfg)
	if err != nil {
		log.Fatalf("Failed to create feed screen: %v", err)
	}
	defer screen.Close()

	runFrameLoop(screen)

	log.Println("Feed Frame shutting down...")
}

// setupARMMemoryManagement configures memory settings for the Pi
func setupARMMemoryManagement() {
	os.Setenv("GODEBUG", "madvdontneed=1")
	os.Setenv("GOGC", "25")
	os.Setenv("GOMEMLIMIT", "256MiB")

	debug.SetGCPercent(25)
	debug.SetMemoryLimit(256 << 20) // 256MB limit - reasonable for Pi 5

	runtime.GC()
	log.Printf("Memory management configured: GOGC=25, GOMEMLIMIT=256MiB")
}

// initializeSDL2 initializes SDL2 with fallback video drivers
func initializeSDL2() error {
	// Respect environment variable first, then fallback
	envDriver := os.Getenv("SDL_VIDEODRIVER")
	var videoDrivers []string

	if envDriver != "" {
		log.Printf("Using environment SDL_VIDEODRIVER: %s", envDriver)
		videoDrivers = []string{envDriver, "fbcon", "software", "dummy"}
	} else if runtime.GOOS == "darwin" {
		videoDrivers = []string{"cocoa", "software", "dummy"}
	} else {
		// Linux/Raspberry Pi drivers, best first
		videoDrivers = []string{"kmsdrm", "drm", "fbcon", "wayland", "x11", "software", "dummy"}
	}

	for _, driver := range videoDrivers {
		log.Printf("Attempting SDL2 initialization with %s driver", driver)
		os.Setenv("SDL_VIDEODRIVER", driver)

		if err := trySDLInitialization(driver); err != nil {
			log.Printf("SDL2 initialization failed with %s driver: %v", driver, err)
			continue
		}

		log.Printf("SDL2 successfully initialized with %s driver", driver)
		return nil
	}

	return fmt.Errorf("all SDL2 video drivers failed")
}

// trySDLInitialization attempts to initialize SDL2 with one driver
func trySDLInitialization(driver string) error {
	// Clean up any previous SDL2 state
	sdl.Quit()

	switch driver {
	case "cocoa":
		sdl.SetHint(sdl.HINT_VIDEODRIVER, "cocoa")
		sdl.SetHint("SDL_RENDER_DRIVER", "opengl")
	case "kmsdrm":
		sdl.SetHint(sdl.HINT_VIDEODRIVER, "kmsdrm")
		sdl.SetHint("SDL_KMSDRM_REQUIRE_DRM_MASTER", "1")
		// Prevent async flips that cause VC4 errors
		sdl.SetHint("SDL_RENDER_VSYNC", "1")
		sdl.SetHint("SDL_VIDEO_ALLOW_SCREENSAVER", "0")
	case "fbcon":
		sdl.SetHint(sdl.HINT_VIDEODRIVER, "fbcon")
		sdl.SetHint("SDL_FBDEV", "/dev/fb0")
	case "wayland":
		sdl.SetHint(sdl.HINT_VIDEODRIVER, "wayland")
		sdl.SetHint("SDL_VIDEO_WAYLAND_WMCLASS", "feed-frame")
	case "x11":
		sdl.SetHint(sdl.HINT_VIDEODRIVER, "x11")
	case "software":
		sdl.SetHint(sdl.HINT_VIDEODRIVER, "software")
		sdl.SetHint("SDL_FRAMEBUFFER_ACCELERATION", "0")
	case "dummy":
		sdl.SetHint(sdl.HINT_VIDEODRIVER, "dummy")
	}

	if driver == "kmsdrm" || driver == "drm" {
		sdl.SetHint(sdl.HINT_RENDER_DRIVER, "opengles2")
	} else if driver == "cocoa" {
		sdl.SetHint(sdl.HINT_RENDER_DRIVER, "opengl")
	} else {
		sdl.SetHint(sdl.HINT_RENDER_DRIVER, "software")
	}
	sdl.SetHint(sdl.HINT_VIDEO_MINIMIZE_ON_FOCUS_LOSS, "0")

	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return fmt.Errorf("SDL_INIT_VIDEO failed: %v", err)
	}

	driverName, err := sdl.GetCurrentVideoDriver()
	if err != nil {
		return fmt.Errorf("failed to get video driver: %v", err)
	}
	log.Printf("Video driver initialized: %s", driverName)
	return nil
}

// getDisplayDimensions returns the screen dimensions or fallback values
func getDisplayDimensions() (int32, int32) {
	displayMode, err := sdl.GetCurrentDisplayMode(0)
	if err != nil {
		log.Printf("Warning: Failed to get display mode, using fallback: %v", err)
		return fallbackWidth, fallbackHeight
	}
	return displayMode.W, displayMode.H
}

// createWindow creates a fullscreen SDL2 window
func createWindow(title string, width, height int32) (*sdl.Window, error) {
	return sdl.CreateWindow(
		title,
		0,
		0,
		width,
		height,
		sdl.WINDOW_SHOWN|sdl.WINDOW_FULLSCREEN,
	)
}

// createRenderer creates an SDL2 renderer, hardware accelerated when the
// driver supports it
func createRenderer(window *sdl.Window) (*sdl.Renderer, error) {
	currentDriver, err := sdl.GetCurrentVideoDriver()
	if err != nil {
		currentDriver = "unknown"
	}

	var renderer *sdl.Renderer

	if currentDriver == "kmsdrm" || currentDriver == "drm" || currentDriver == "cocoa" {
		log.Printf("Attempting hardware acceleration for %s driver", currentDriver)

		// For kmsdrm on Raspberry Pi, avoid VSync to prevent async flip errors
		var rendererFlags uint32 = sdl.RENDERER_ACCELERATED
		if currentDriver != "kmsdrm" {
			rendererFlags |= sdl.RENDERER_PRESENTVSYNC
		}

		renderer, err = sdl.CreateRenderer(window, -1, rendererFlags)
		if err != nil {
			log.Printf("Hardware acceleration failed, trying software: %v", err)
		}
	}

	if renderer == nil {
		log.Printf("Using software renderer for %s driver", currentDriver)
		renderer, err = sdl.CreateRenderer(window, -1, sdl.RENDERER_SOFTWARE)
		if err != nil {
			return nil, err
		}
	}

	renderer.SetDrawBlendMode(sdl.BLENDMODE_BLEND)
	return renderer, nil
}

// runFrameLoop executes the main SDL2 loop
func runFrameLoop(screen *frame.FeedScreen) {
	running := true
	frameTime := time.Second / targetFPS
	lastTime := time.Now()
	frameCount := 0

	for running {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch e := event.(type) {
			case *sdl.QuitEvent:
				running = false
			case *sdl.KeyboardEvent:
				if e.Type == sdl.KEYDOWN && e.Keysym.Scancode == sdl.SCANCODE_ESCAPE {
					running = false
				}
			}
		}

		if err := screen.Update(); err != nil {
			log.Printf("Screen update error: %v", err)
			running = false
			break
		}

		if err := screen.Draw(); err != nil {
			log.Printf("Screen draw error: %v", err)
			running = false
			break
		}

		// Periodic garbage collection (every 60 frames)
		frameCount++
		if frameCount%60 == 0 {
			runtime.GC()
		}

		// Memory report every ~30 seconds
		if frameCount%(targetFPS*30) == 0 {
			performance.LogMemory()
		}

		// Frame rate limiting
		elapsed := time.Since(lastTime)
		if elapsed < frameTime {
			time.Sleep(frameTime - elapsed)
		}
		lastTime = time.Now()
	}
}
