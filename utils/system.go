package utils

import (
	"fmt"
	"runtime"

	"github.com/dustin/go-humanize"
)

// GetMemUsage summarizes the heap for the end of run report
func GetMemUsage() string {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return fmt.Sprintf("heap %s, allocated %s in total, %s from the system, %d GC cycles",
		humanize.IBytes(m.HeapAlloc), humanize.IBytes(m.TotalAlloc), humanize.IBytes(m.Sys), m.NumGC)
}
