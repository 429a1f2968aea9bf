//go:build windows

// ViGEm client bindings. Grounded on the teacher repo's vigem.go, extended
// with the DualShock4 target (vigem_target_ds4_*) that stands in for the
// specification's DirectInput-shaped synthetic — ViGEmBus has no literal
// "DirectInput" target, and DS4 is its closest analog-stick-plus-POV
// equivalent (see SPEC_FULL.md §9).
package winapi

import (
	"errors"
	"unsafe"

	"golang.org/x/sys/windows"
)

const (
	VigemErrorNone                     = 0x20000000
	VigemErrorBusNotFound              = 0xE0000001
	VigemErrorNoFreeSlot               = 0xE0000002
	VigemErrorInvalidTarget            = 0xE0000003
	VigemErrorRemovalFailed            = 0xE0000004
	VigemErrorAlreadyConnected         = 0xE0000005
	VigemErrorTargetUninitialized      = 0xE0000006
	VigemErrorTargetNotPluggedIn       = 0xE0000007
	VigemErrorBusVersionMismatch       = 0xE0000008
	VigemErrorBusAccessFailed          = 0xE0000009
	VigemErrorCallbackAlreadyRegistered = 0xE0000010
	VigemErrorCallbackNotFound         = 0xE0000011
	VigemErrorBusAlreadyConnected      = 0xE0000012
	VigemErrorBusInvalidHandle         = 0xE0000013
	VigemErrorXUsbUserIndexOutOfRange  = 0xE0000014
)

var (
	vigemClient = windows.NewLazyDLL("ViGEmClient.dll")

	procVigemAlloc      = vigemClient.NewProc("vigem_alloc")
	procVigemFree       = vigemClient.NewProc("vigem_free")
	procVigemConnect    = vigemClient.NewProc("vigem_connect")
	procVigemDisconnect = vigemClient.NewProc("vigem_disconnect")

	procVigemTargetAdd    = vigemClient.NewProc("vigem_target_add")
	procVigemTargetRemove = vigemClient.NewProc("vigem_target_remove")
	procVigemTargetFree   = vigemClient.NewProc("vigem_target_free")

	procVigemTargetX360Alloc                  = vigemClient.NewProc("vigem_target_x360_alloc")
	procVigemTargetX360RegisterNotification   = vigemClient.NewProc("vigem_target_x360_register_notification")
	procVigemTargetX360UnregisterNotification = vigemClient.NewProc("vigem_target_x360_unregister_notification")
	procVigemTargetX360Update                 = vigemClient.NewProc("vigem_target_x360_update")

	procVigemTargetDS4Alloc                  = vigemClient.NewProc("vigem_target_ds4_alloc")
	procVigemTargetDS4RegisterNotification   = vigemClient.NewProc("vigem_target_ds4_register_notification")
	procVigemTargetDS4UnregisterNotification = vigemClient.NewProc("vigem_target_ds4_unregister_notification")
	procVigemTargetDS4Update                 = vigemClient.NewProc("vigem_target_ds4_update")
)

// VigemError wraps a non-zero VIGEM_ERROR code returned by the client.
type VigemError struct{ Code uintptr }

func newVigemError(code uintptr) error {
	if code == VigemErrorNone {
		return nil
	}
	return &VigemError{Code: code}
}

func (e *VigemError) Error() string {
	switch e.Code {
	case VigemErrorBusNotFound:
		return "vigem: bus not found"
	case VigemErrorNoFreeSlot:
		return "vigem: no free slot"
	case VigemErrorInvalidTarget:
		return "vigem: invalid target"
	case VigemErrorRemovalFailed:
		return "vigem: removal failed"
	case VigemErrorAlreadyConnected:
		return "vigem: already connected"
	case VigemErrorTargetUninitialized:
		return "vigem: target uninitialized"
	case VigemErrorTargetNotPluggedIn:
		return "vigem: target not plugged in"
	case VigemErrorBusVersionMismatch:
		return "vigem: bus version mismatch"
	case VigemErrorBusAccessFailed:
		return "vigem: bus access failed"
	case VigemErrorCallbackAlreadyRegistered:
		return "vigem: callback already registered"
	case VigemErrorCallbackNotFound:
		return "vigem: callback not found"
	case VigemErrorBusAlreadyConnected:
		return "vigem: bus already connected"
	case VigemErrorBusInvalidHandle:
		return "vigem: bus invalid handle"
	case VigemErrorXUsbUserIndexOutOfRange:
		return "vigem: xusb user index out of range"
	default:
		return "vigem: unrecognized error code"
	}
}

// VigemAlloc allocates a driver bus client handle.
func VigemAlloc() (uintptr, error) {
	h, _, err := procVigemAlloc.Call()
	if !errors.Is(err, windows.ERROR_SUCCESS) {
		return 0, err
	}
	return h, nil
}

// VigemFree releases a bus client handle.
func VigemFree(client uintptr) {
	procVigemFree.Call(client)
}

// VigemConnect connects a bus client handle to the running ViGEmBus driver.
func VigemConnect(client uintptr) error {
	code, _, err := procVigemConnect.Call(client)
	if !errors.Is(err, windows.ERROR_SUCCESS) {
		return err
	}
	return newVigemError(code)
}

// VigemDisconnect disconnects a bus client handle.
func VigemDisconnect(client uintptr) {
	procVigemDisconnect.Call(client)
}

// VigemTargetX360Alloc allocates an Xbox 360 (XInput-shaped) target.
func VigemTargetX360Alloc() uintptr {
	h, _, _ := procVigemTargetX360Alloc.Call()
	return h
}

// VigemTargetDS4Alloc allocates a DualShock4 (DInput-shaped) target.
func VigemTargetDS4Alloc() uintptr {
	h, _, _ := procVigemTargetDS4Alloc.Call()
	return h
}

// VigemTargetAdd registers a target with the bus, making it visible to the
// OS as a physical controller.
func VigemTargetAdd(client, target uintptr) error {
	code, _, err := procVigemTargetAdd.Call(client, target)
	if !errors.Is(err, windows.ERROR_SUCCESS) {
		return err
	}
	return newVigemError(code)
}

// VigemTargetRemove unregisters a target from the bus.
func VigemTargetRemove(client, target uintptr) error {
	code, _, err := procVigemTargetRemove.Call(client, target)
	if !errors.Is(err, windows.ERROR_SUCCESS) {
		return err
	}
	return newVigemError(code)
}

// VigemTargetFree releases a target handle.
func VigemTargetFree(target uintptr) {
	procVigemTargetFree.Call(target)
}

// RumbleCallback receives large/small motor bytes and the LED number (X360)
// on a registered notification.
type RumbleCallback func(largeMotor, smallMotor, led byte)

// VigemTargetX360RegisterNotification installs a rumble callback on an
// Xbox 360 target and returns the callback handle, which must stay
// reachable (held by the caller) for the lifetime of the registration.
func VigemTargetX360RegisterNotification(client, target uintptr, cb RumbleCallback) (uintptr, error) {
	callback := windows.NewCallback(func(clientH, targetH uintptr, large, small, led byte, userData uintptr) uintptr {
		cb(large, small, led)
		return 0
	})
	code, _, err := procVigemTargetX360RegisterNotification.Call(client, target, callback)
	if !errors.Is(err, windows.ERROR_SUCCESS) {
		return 0, err
	}
	return callback, newVigemError(code)
}

// VigemTargetX360UnregisterNotification removes a previously registered
// rumble callback.
func VigemTargetX360UnregisterNotification(target uintptr) error {
	code, _, err := procVigemTargetX360UnregisterNotification.Call(target)
	if !errors.Is(err, windows.ERROR_SUCCESS) {
		return err
	}
	return newVigemError(code)
}

// VigemTargetDS4RegisterNotification installs a rumble callback on a DS4
// target.
func VigemTargetDS4RegisterNotification(client, target uintptr, cb RumbleCallback) (uintptr, error) {
	callback := windows.NewCallback(func(clientH, targetH uintptr, large, small, led byte, userData uintptr) uintptr {
		cb(large, small, led)
		return 0
	})
	code, _, err := procVigemTargetDS4RegisterNotification.Call(client, target, callback)
	if !errors.Is(err, windows.ERROR_SUCCESS) {
		return 0, err
	}
	return callback, newVigemError(code)
}

// VigemTargetDS4UnregisterNotification removes a previously registered DS4
// rumble callback.
func VigemTargetDS4UnregisterNotification(target uintptr) error {
	code, _, err := procVigemTargetDS4UnregisterNotification.Call(target)
	if !errors.Is(err, windows.ERROR_SUCCESS) {
		return err
	}
	return newVigemError(code)
}

// X360Report mirrors the native xusb_report layout.
type X360Report struct {
	Buttons      uint16
	LeftTrigger  uint8
	RightTrigger uint8
	ThumbLX      int16
	ThumbLY      int16
	ThumbRX      int16
	ThumbRY      int16
}

// VigemTargetX360Update submits a report to an Xbox 360 target.
func VigemTargetX360Update(client, target uintptr, report X360Report) error {
	code, _, err := procVigemTargetX360Update.Call(client, target, uintptr(unsafe.Pointer(&report)))
	if !errors.Is(err, windows.ERROR_SUCCESS) {
		return err
	}
	return newVigemError(code)
}

// DS4DPad enumerates the DualShock4 native 8-direction DPad encoding.
type DS4DPad byte

const (
	DS4DPadNorth DS4DPad = iota
	DS4DPadNorthEast
	DS4DPadEast
	DS4DPadSouthEast
	DS4DPadSouth
	DS4DPadSouthWest
	DS4DPadWest
	DS4DPadNorthWest
	DS4DPadNone
)

// DS4Report mirrors the native DS4_REPORT layout (the fields ViGEm's DS4
// target actually transmits), populated by internal/virtualdevice from the
// specification's DInputWire intermediate value.
type DS4Report struct {
	ThumbLX, ThumbLY, ThumbRX, ThumbRY uint8
	TriggerL, TriggerR                 uint8
	Buttons                            uint32 // low 16 bits match the canonical bitfield; high bits carry PS/touchpad-click
	DPad                               DS4DPad
}

// VigemTargetDS4Update submits a report to a DS4 target.
func VigemTargetDS4Update(client, target uintptr, report DS4Report) error {
	code, _, err := procVigemTargetDS4Update.Call(client, target, uintptr(unsafe.Pointer(&report)))
	if !errors.Is(err, windows.ERROR_SUCCESS) {
		return err
	}
	return newVigemError(code)
}
