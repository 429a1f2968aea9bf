// Package hidreport decodes a raw HID input report into a set of active
// button usages and an axis-usage-keyed mapping of logical values, using a
// device-declared capability table obtained at device open. For the
// Generic-Desktop usage page it additionally populates the canonical
// model.Gamepad axis fields, following the standardized axis map and the
// per-product profile overrides described alongside it.
package hidreport

import (
	"math"

	"github.com/VishaL6i9/xinput-dinput-proxy/internal/model"
)

// Generic-Desktop usage page and the axis usages within it.
const (
	UsagePageGenericDesktop uint16 = 0x01

	UsageX  uint16 = 0x30
	UsageY  uint16 = 0x31
	UsageZ  uint16 = 0x32
	UsageRx uint16 = 0x33
	UsageRy uint16 = 0x34
	UsageRz uint16 = 0x35

	UsageJoystick uint16 = 0x04
	UsageGamepad  uint16 = 0x05
)

// DecodeResult is the output of Decode: the active button usages, the raw
// signed axis values keyed by usage, and (when the capability table's top
// level usage page is Generic Desktop, or a device profile overrides it) a
// populated canonical Gamepad.
type DecodeResult struct {
	ActiveButtons map[model.HIDUsage]struct{}
	Values        map[model.HIDUsage]int32
	Gamepad       model.Gamepad
}

// RawUsages carries the result of the per-report active-usage/value
// extraction the host HID stack performs (HidP_GetUsages / HidP_GetUsageValue on Windows).
// Decode takes the already-extracted usage lists rather than a raw byte
// buffer plus a live OS preparsed-data handle, so the pure translation logic
// here is host-independent and unit-testable without a real device.
type RawUsages struct {
	// ActiveButtonUsages lists the button usages asserted in this report.
	ActiveButtonUsages []uint16
	// AxisValues maps axis usage to its raw logical value as read from the
	// report via the capability table's logical range.
	AxisValues map[uint16]int32
}

// Decode builds a DecodeResult from already-extracted raw usages and the
// device's capability table. Button usages outside the capability table are
// still recorded in ActiveButtons (the decoder trusts what the HID stack
// reports); only the canonical Gamepad population is capability-driven.
func Decode(raw RawUsages, caps *model.CapabilityTable, productName string) DecodeResult {
	result := DecodeResult{
		ActiveButtons: make(map[model.HIDUsage]struct{}, len(raw.ActiveButtonUsages)),
		Values:        make(map[model.HIDUsage]int32, len(raw.AxisValues)),
	}

	usagePage := UsagePageGenericDesktop
	if caps != nil {
		usagePage = caps.UsagePage
	}

	for _, u := range raw.ActiveButtonUsages {
		result.ActiveButtons[model.MakeHIDUsage(usagePage, u)] = struct{}{}
	}
	for u, v := range raw.AxisValues {
		result.Values[model.MakeHIDUsage(usagePage, u)] = v
	}

	if profile, ok := profileFor(productName); ok {
		result.Gamepad = profile.decode(raw)
		return result
	}

	if usagePage != UsagePageGenericDesktop {
		return result
	}

	result.Gamepad = decodeGenericDesktop(raw, caps)
	return result
}

func decodeGenericDesktop(raw RawUsages, caps *model.CapabilityTable) model.Gamepad {
	var gp model.Gamepad

	stick := func(usage uint16, invert bool) int16 {
		v, ok := raw.AxisValues[usage]
		if !ok {
			return 0
		}
		vc, ok := caps.ValueCapFor(usage)
		if !ok {
			return 0
		}
		return normalizeStick(v, vc.LogicalMin, vc.LogicalMax, invert)
	}
	trigger := func(usage uint16) uint8 {
		v, ok := raw.AxisValues[usage]
		if !ok {
			return 0
		}
		vc, ok := caps.ValueCapFor(usage)
		if !ok {
			return 0
		}
		return normalizeTrigger(v, vc.LogicalMin, vc.LogicalMax)
	}

	gp.ThumbLX = stick(UsageX, false)
	gp.ThumbLY = stick(UsageY, true)
	gp.ThumbRX = stick(UsageZ, false)
	gp.ThumbRY = stick(UsageRz, true)
	gp.LeftTrigger = trigger(UsageRx)
	gp.RightTrigger = trigger(UsageRy)

	return gp
}

// normalizeStick maps a raw value in [lo, hi] to [-32768, 32767], clamped.
// A degenerate range (hi <= lo) yields 0. When invert is true (HID Y-axis,
// which is down-positive) the sign of the centered value is flipped to match
// the canonical Y-up convention.
func normalizeStick(v, lo, hi int32, invert bool) int16 {
	rng := hi - lo
	if rng <= 0 {
		return 0
	}
	center := float64(lo) + float64(rng)/2
	offset := float64(v) - center
	// The negative half spans 32768 steps and the positive half 32767, so lo
	// lands on -32768 and hi on 32767.
	var scaled float64
	if offset < 0 {
		scaled = offset / (float64(rng) / 2) * 32768
	} else {
		scaled = offset / (float64(rng) / 2) * 32767
	}
	if invert {
		scaled = -scaled
	}
	return int16(clamp(scaled, -32768, 32767))
}

// normalizeTrigger maps a raw value in [lo, hi] to [0, 255], clamped. A
// degenerate range yields 0.
func normalizeTrigger(v, lo, hi int32) uint8 {
	rng := hi - lo
	if rng <= 0 {
		return 0
	}
	scaled := (float64(v) - float64(lo)) / float64(rng) * 255
	return uint8(clamp(scaled, 0, 255))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
