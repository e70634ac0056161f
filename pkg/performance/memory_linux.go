//go:build linux
// +build linux

package performance

import (
	"log"
	"syscall"
	"time"
)

// ReadMemory retrieves current system memory information on Linux via
// syscall.Sysinfo for accurate system-wide stats.
func ReadMemory() Snapshot {
	var info syscall.Sysinfo_t
	if err := syscall.Sysinfo(&info); err != nil {
		log.Printf("ReadMemory: sysinfo failed: %v", err)
		return Snapshot{Timestamp: time.Now()}
	}

	// Sysinfo reports in units of info.Unit (usually bytes).
	unit := uint64(info.Unit)
	totalMB := (info.Totalram * unit) / (1024 * 1024)
	freeMB := (info.Freeram * unit) / (1024 * 1024)
	bufferMB := (info.Bufferram * unit) / (1024 * 1024)

	// Buffers are reclaimable on Linux, so they count as available.
	availableMB := freeMB + bufferMB

	return Snapshot{
		Timestamp:   time.Now(),
		TotalMB:     totalMB,
		AvailableMB: availableMB,
		UsedMB:      totalMB - availableMB,
		FreeMB:      freeMB,
	}
}
