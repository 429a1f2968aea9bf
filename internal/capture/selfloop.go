//go:build windows

package capture

import "strings"

// ViGEm's two native targets advertise these fixed VID/PID pairs; any HID
// interface carrying one in its instance ID is this process's own
// synthetic output, not a physical device, and must never be captured or
// it would feed back into the translation pipeline it came from.
const (
	vigemX360InstanceIDFragment = "VID_044F&PID_B326"
	vigemDS4InstanceIDFragment  = "VID_054C&PID_05C4"
)

func isSelfDevice(instanceID string) bool {
	upper := strings.ToUpper(instanceID)
	return strings.Contains(upper, vigemX360InstanceIDFragment) || strings.Contains(upper, vigemDS4InstanceIDFragment)
}

// isXInputPath reports whether a device path belongs to one of a composite
// XInput device's IG_nn interfaces (case-insensitive: some OEM stacks emit
// lower-case "&ig_").
func isXInputPath(path string) bool {
	return strings.Contains(strings.ToUpper(path), "&IG_")
}
