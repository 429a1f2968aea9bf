package hidreport_test

import (
	"testing"

	"github.com/VishaL6i9/xinput-dinput-proxy/internal/hidreport"
	"github.com/VishaL6i9/xinput-dinput-proxy/internal/model"
	"github.com/stretchr/testify/require"
)

func gamepadCaps(lo, hi int32) *model.CapabilityTable {
	return &model.CapabilityTable{
		UsagePage: hidreport.UsagePageGenericDesktop,
		Usage:     hidreport.UsageGamepad,
		ValueCaps: []model.ValueCap{
			{UsagePage: hidreport.UsagePageGenericDesktop, Usage: hidreport.UsageX, LogicalMin: lo, LogicalMax: hi},
			{UsagePage: hidreport.UsagePageGenericDesktop, Usage: hidreport.UsageY, LogicalMin: lo, LogicalMax: hi},
			{UsagePage: hidreport.UsagePageGenericDesktop, Usage: hidreport.UsageZ, LogicalMin: lo, LogicalMax: hi},
			{UsagePage: hidreport.UsagePageGenericDesktop, Usage: hidreport.UsageRz, LogicalMin: lo, LogicalMax: hi},
			{UsagePage: hidreport.UsagePageGenericDesktop, Usage: hidreport.UsageRx, LogicalMin: 0, LogicalMax: 255},
			{UsagePage: hidreport.UsagePageGenericDesktop, Usage: hidreport.UsageRy, LogicalMin: 0, LogicalMax: 255},
		},
	}
}

// S2: 8-bit X axis, cap [0,255], value 128 -> thumb_lx within one step of 0.
func TestDecode_S2_8BitCenter(t *testing.T) {
	caps := gamepadCaps(0, 255)
	raw := hidreport.RawUsages{AxisValues: map[uint16]int32{hidreport.UsageX: 128}}

	res := hidreport.Decode(raw, caps, "")

	require.InDelta(t, 0, res.Gamepad.ThumbLX, 260) // one 8-bit quantization step, scaled
}

// S3: 10-bit X axis, cap [0,1023], value 0 -> thumb_lx = -32768.
func TestDecode_S3_10BitMin(t *testing.T) {
	caps := gamepadCaps(0, 1023)
	raw := hidreport.RawUsages{AxisValues: map[uint16]int32{hidreport.UsageX: 0}}

	res := hidreport.Decode(raw, caps, "")

	require.EqualValues(t, -32768, res.Gamepad.ThumbLX)
}

// S4: 16-bit X axis, cap [0,65535], value 65535 -> thumb_lx = +32767.
func TestDecode_S4_16BitMax(t *testing.T) {
	caps := gamepadCaps(0, 65535)
	raw := hidreport.RawUsages{AxisValues: map[uint16]int32{hidreport.UsageX: 65535}}

	res := hidreport.Decode(raw, caps, "")

	require.EqualValues(t, 32767, res.Gamepad.ThumbLX)
}

func TestDecode_AxisBoundaries(t *testing.T) {
	caps := gamepadCaps(0, 1000)

	lo := hidreport.Decode(hidreport.RawUsages{AxisValues: map[uint16]int32{hidreport.UsageX: 0}}, caps, "")
	require.EqualValues(t, -32768, lo.Gamepad.ThumbLX)

	hi := hidreport.Decode(hidreport.RawUsages{AxisValues: map[uint16]int32{hidreport.UsageX: 1000}}, caps, "")
	require.EqualValues(t, 32767, hi.Gamepad.ThumbLX)

	mid := hidreport.Decode(hidreport.RawUsages{AxisValues: map[uint16]int32{hidreport.UsageX: 500}}, caps, "")
	require.InDelta(t, 0, mid.Gamepad.ThumbLX, 64)
}

func TestDecode_YAxisInverted(t *testing.T) {
	caps := gamepadCaps(0, 255)
	raw := hidreport.RawUsages{AxisValues: map[uint16]int32{hidreport.UsageY: 255}}

	res := hidreport.Decode(raw, caps, "")

	require.Less(t, res.Gamepad.ThumbLY, int16(0), "HID Y-down must invert to canonical Y-up")
}

func TestDecode_DegenerateRangeIsZero(t *testing.T) {
	caps := &model.CapabilityTable{
		UsagePage: hidreport.UsagePageGenericDesktop,
		ValueCaps: []model.ValueCap{
			{Usage: hidreport.UsageX, LogicalMin: 5, LogicalMax: 5},
			{Usage: hidreport.UsageRx, LogicalMin: 5, LogicalMax: 5},
		},
	}

	res := hidreport.Decode(hidreport.RawUsages{
		AxisValues: map[uint16]int32{hidreport.UsageX: 5, hidreport.UsageRx: 5},
	}, caps, "")

	require.EqualValues(t, 0, res.Gamepad.ThumbLX)
	require.EqualValues(t, 0, res.Gamepad.LeftTrigger)
}

func TestDecode_TriggerRange(t *testing.T) {
	caps := gamepadCaps(0, 255)

	lo := hidreport.Decode(hidreport.RawUsages{AxisValues: map[uint16]int32{hidreport.UsageRx: 0}}, caps, "")
	require.EqualValues(t, 0, lo.Gamepad.LeftTrigger)

	hi := hidreport.Decode(hidreport.RawUsages{AxisValues: map[uint16]int32{hidreport.UsageRx: 255}}, caps, "")
	require.EqualValues(t, 255, hi.Gamepad.LeftTrigger)
}

func TestDecode_ActiveButtonsAndValuesAreUsageKeyed(t *testing.T) {
	caps := gamepadCaps(0, 255)
	raw := hidreport.RawUsages{
		ActiveButtonUsages: []uint16{0x01, 0x02},
		AxisValues:         map[uint16]int32{hidreport.UsageX: 128},
	}

	res := hidreport.Decode(raw, caps, "")

	_, ok := res.ActiveButtons[model.MakeHIDUsage(hidreport.UsagePageGenericDesktop, 0x01)]
	require.True(t, ok)
	require.Contains(t, res.Values, model.MakeHIDUsage(hidreport.UsagePageGenericDesktop, hidreport.UsageX))
}

func TestDecode_DeviceProfileOverridesGeneric(t *testing.T) {
	raw := hidreport.RawUsages{
		ActiveButtonUsages: []uint16{1, 9}, // Square, Share
		AxisValues: map[uint16]int32{
			hidreport.UsageX: 255, // fully right, centered formula
		},
	}

	res := hidreport.Decode(raw, nil, "Wireless Controller")

	require.True(t, res.Gamepad.HasButton(model.ButtonX))
	require.True(t, res.Gamepad.HasButton(model.ButtonBack))
	require.Greater(t, res.Gamepad.ThumbLX, int16(0))
}

func TestDecode_NonGenericDesktopPageSkipsGamepad(t *testing.T) {
	caps := &model.CapabilityTable{UsagePage: 0x0C} // Consumer page
	res := hidreport.Decode(hidreport.RawUsages{}, caps, "")

	require.Equal(t, model.Gamepad{}, res.Gamepad)
}
