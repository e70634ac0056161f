package performance

import (
	"log"
	"runtime"
	"time"
)

// Snapshot represents system memory state at a point in time.
type Snapshot struct {
	Timestamp   time.Time
	TotalMB     uint64 // total system memory
	AvailableMB uint64 // memory usable without swapping
	UsedMB      uint64 // currently used memory
	FreeMB      uint64 // free memory, excluding reclaimable buffers
}

// AvailableMemoryMB returns just the available figure.
func AvailableMemoryMB() uint64 {
	return ReadMemory().AvailableMB
}

// RuntimeStats holds Go heap statistics, logged alongside system memory so
// leaks in the clip pool show up next to system pressure.
type RuntimeStats struct {
	AllocMB uint64 // currently allocated heap memory
	SysMB   uint64 // memory obtained from the OS
	NumGC   uint32 // completed GC cycles
}

// ReadRuntime reads Go runtime memory statistics.
func ReadRuntime() RuntimeStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return RuntimeStats{
		AllocMB: m.Alloc / (1024 * 1024),
		SysMB:   m.Sys / (1024 * 1024),
		NumGC:   m.NumGC,
	}
}

// PressureLevel grades how much memory pressure the device is under. Each
// cached clip costs tens to hundreds of MB, so the clip window is sized off
// this grading.
type PressureLevel int

const (
	PressureNone     PressureLevel = iota // >800MB available
	PressureLow                           // 400-800MB available
	PressureMedium                        // 200-400MB available
	PressureHigh                          // 100-200MB available
	PressureCritical                      // <100MB available
)

// Pressure returns the current memory pressure level.
func Pressure() PressureLevel {
	available := AvailableMemoryMB()

	switch {
	case available < 100:
		return PressureCritical
	case available < 200:
		return PressureHigh
	case available < 400:
		return PressureMedium
	case available < 800:
		return PressureLow
	default:
		return PressureNone
	}
}

// String returns a human-readable pressure name
func (p PressureLevel) String() string {
	switch p {
	case PressureNone:
		return "None"
	case PressureLow:
		return "Low"
	case PressureMedium:
		return "Medium"
	case PressureHigh:
		return "High"
	case PressureCritical:
		return "Critical"
	default:
		return "Unknown"
	}
}

// LogMemory logs a combined system/runtime memory line.
func LogMemory() {
	sys := ReadMemory()
	rt := ReadRuntime()
	log.Printf("Memory: System[Total=%dMB, Avail=%dMB, Used=%dMB] Go[Alloc=%dMB, Sys=%dMB, GC=%d] Pressure=%s",
		sys.TotalMB, sys.AvailableMB, sys.UsedMB,
		rt.AllocMB, rt.SysMB, rt.NumGC,
		Pressure().String())
}
