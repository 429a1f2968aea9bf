package hidreport

import "github.com/VishaL6i9/xinput-dinput-proxy/internal/model"

// deviceProfile fully replaces the generic Generic-Desktop mapping for both
// buttons and axes when its product name matches. Profiles exist for
// controllers whose HID report does not follow the page-0x01 standardized
// axis map closely enough for the generic decoder to produce a sane
// canonical Gamepad (e.g. devices that report sticks as signed-centered
// 8-bit values rather than using their declared logical range verbatim).
type deviceProfile struct {
	// buttonUsages maps a HID button usage number to the canonical button
	// bit it asserts.
	buttonUsages map[uint16]uint16
}

// knownProfiles is keyed by the exact product_name string returned by the
// host HID stack (HidD_GetProductString).
var knownProfiles = map[string]deviceProfile{
	// Sony DualShock 4, as enumerated by Windows when connected without a
	// vendor driver; the generic variant of the pad reports itself under
	// this generic product string regardless of the DS4 hardware revision.
	"Wireless Controller": {
		buttonUsages: map[uint16]uint16{
			1:  model.ButtonX,        // Square
			2:  model.ButtonA,        // Cross
			3:  model.ButtonB,        // Circle
			4:  model.ButtonY,        // Triangle
			5:  model.ButtonLShoulder, // L1
			6:  model.ButtonRShoulder, // R1
			9:  model.ButtonBack,     // Share
			10: model.ButtonStart,    // Options
			11: model.ButtonLThumb,   // L3
			12: model.ButtonRThumb,   // R3
		},
	},
}

func profileFor(productName string) (deviceProfile, bool) {
	p, ok := knownProfiles[productName]
	return p, ok
}

// decode builds a canonical Gamepad from raw usages using this profile's
// button map and the centered 8-bit stick convention; triggers pass through
// their raw 0..255 value unchanged.
func (p deviceProfile) decode(raw RawUsages) model.Gamepad {
	var gp model.Gamepad

	for _, u := range raw.ActiveButtonUsages {
		if bit, ok := p.buttonUsages[u]; ok {
			gp.SetButton(bit, true)
		}
	}

	centered := func(usage uint16) int16 {
		v, ok := raw.AxisValues[usage]
		if !ok {
			return 0
		}
		scaled := (v - 128) * 256
		return int16(clamp(float64(scaled), -32768, 32767))
	}
	rawByte := func(usage uint16) uint8 {
		v, ok := raw.AxisValues[usage]
		if !ok {
			return 0
		}
		return uint8(clamp(float64(v), 0, 255))
	}

	gp.ThumbLX = centered(UsageX)
	gp.ThumbLY = -centered(UsageY)
	gp.ThumbRX = centered(UsageZ)
	gp.ThumbRY = -centered(UsageRz)
	gp.LeftTrigger = rawByte(UsageRx)
	gp.RightTrigger = rawByte(UsageRy)

	return gp
}
