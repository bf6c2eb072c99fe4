// Package config centralizes the sizing and GC tunables shared by the
// compiler and VM.
package config

// VM sizing.
const (
	InitialStackSize = 256
	FramesMax        = 64
)

// GC tunables.
const (
	// GCHeapGrowFactor is the multiplier applied to bytesAllocated to pick
	// the next collection threshold after a sweep.
	GCHeapGrowFactor = 2
	// GCInitialThreshold is next_gc before the first collection ever runs.
	GCInitialThreshold = 1024 * 1024
)
