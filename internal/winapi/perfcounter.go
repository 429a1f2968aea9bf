//go:build windows

// Package winapi collects the thin golang.org/x/sys/windows bindings the
// core needs: the performance counter, the HID subsystem, XInput, and ViGEm
// (the HidHide control device has its own client in internal/hidhide).
// None of these wrap any domain logic; they are
// plumbing, kept in one package so every proc table is declared the same way
// the teacher repo declares its ViGEm proc table.
package winapi

import "golang.org/x/sys/windows"

var (
	modkernel32 = windows.NewLazySystemDLL("kernel32.dll")

	procQueryPerformanceCounter   = modkernel32.NewProc("QueryPerformanceCounter")
	procQueryPerformanceFrequency = modkernel32.NewProc("QueryPerformanceFrequency")
)

// QueryPerformanceCounter returns the current value of the high-resolution
// performance counter.
func QueryPerformanceCounter() int64 {
	var v int64
	procQueryPerformanceCounter.Call(uintptrPtr(&v))
	return v
}

// QueryPerformanceFrequency returns the counter's tick frequency, in ticks
// per second.
func QueryPerformanceFrequency() int64 {
	var v int64
	procQueryPerformanceFrequency.Call(uintptrPtr(&v))
	if v == 0 {
		v = 1
	}
	return v
}
