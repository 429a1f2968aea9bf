//go:build windows

package winapi

import "unsafe"

// uintptrPtr returns the uintptr of the pointer to v, for passing output
// parameters to syscall.Proc.Call.
func uintptrPtr[T any](v *T) uintptr {
	return uintptr(unsafe.Pointer(v))
}
