//go:build windows

// Package clock wraps the OS high-resolution performance counter behind a
// small, concurrency-safe API used throughout the core for timestamps and
// interval arithmetic.
package clock

import "github.com/VishaL6i9/xinput-dinput-proxy/internal/winapi"

// Clock converts between performance-counter ticks, microseconds, and
// wall-clock intervals. It holds no mutable state beyond the counter
// frequency read once at construction, so it is safe to call from any
// goroutine without further synchronization.
type Clock struct {
	freq int64
}

// New initializes a Clock from the OS performance-counter frequency.
// Constructing additional Clocks is safe and idempotent: each just re-reads
// the (constant, per-machine) frequency.
func New() *Clock {
	return &Clock{freq: winapi.QueryPerformanceFrequency()}
}

// Now returns the current value of the performance counter, in ticks.
func (c *Clock) Now() int64 {
	return winapi.QueryPerformanceCounter()
}

// Frequency returns the counter's tick frequency, in ticks per second.
func (c *Clock) Frequency() int64 {
	return c.freq
}

// TicksToMicros converts a tick delta to microseconds.
func (c *Clock) TicksToMicros(delta int64) float64 {
	return float64(delta) * 1e6 / float64(c.freq)
}

// MicrosToTicks converts a microsecond duration to ticks.
func (c *Clock) MicrosToTicks(us float64) int64 {
	return int64(us * float64(c.freq) / 1e6)
}
