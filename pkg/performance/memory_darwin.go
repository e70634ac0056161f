//go:build darwin
// +build darwin

package performance

import (
	"runtime"
	"time"
)

// ReadMemory approximates system memory on macOS from Go runtime stats,
// since syscall.Sysinfo is not available on Darwin. Development machines
// only; the deployed frame runs Linux.
func ReadMemory() Snapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	sysMB := m.Sys / (1024 * 1024)

	// Assume a 2GB device so pressure grading behaves like the target
	// hardware during development.
	totalMB := uint64(2048)
	usedMB := sysMB
	if usedMB > totalMB {
		usedMB = totalMB
	}
	freeMB := totalMB - usedMB

	return Snapshot{
		Timestamp:   time.Now(),
		TotalMB:     totalMB,
		AvailableMB: freeMB,
		UsedMB:      usedMB,
		FreeMB:      freeMB,
	}
}
