//go:build windows

package translate

import "github.com/VishaL6i9/xinput-dinput-proxy/internal/model"

// XInputWire is a lossless, field-for-field copy of the canonical Gamepad
// plus an outgoing packet number.
type XInputWire struct {
	PacketNumber uint32
	Gamepad      model.Gamepad
}

// POV hat compass values, in hundredths of a degree, centered = -1.
const (
	povN      int32 = 0
	povNE     int32 = 4500
	povE      int32 = 9000
	povSE     int32 = 13500
	povS      int32 = 18000
	povSW     int32 = 22500
	povW      int32 = 27000
	povNW     int32 = 31500
	povCenter int32 = -1
)

// DInputWire mirrors the classic DIJOYSTATE2 layout the spec targets: four
// signed 32-bit axes, a trigger-derived lZ/lRz pair, a 128-byte button
// array with the high bit set when pressed, a POV hat in hundredths of a
// degree, and the legacy XInput-shaped fields mirrored for convenience.
type DInputWire struct {
	LX, LY, LZ   int32
	LRx, LRy, LRz int32
	Buttons      [128]byte
	POV          [4]int32

	WButtons      uint16
	BLeftTrigger  uint8
	BRightTrigger uint8
}

// canonicalButtonOrder lists which canonical bit maps to which of the
// first 10 rgbButtons slots, matching the order the original DirectInput
// layout exposes face/shoulder/stick/menu buttons in.
var canonicalButtonOrder = [10]uint16{
	model.ButtonA,
	model.ButtonB,
	model.ButtonX,
	model.ButtonY,
	model.ButtonLShoulder,
	model.ButtonRShoulder,
	model.ButtonLThumb,
	model.ButtonRThumb,
	model.ButtonBack,
	model.ButtonStart,
}

// ToXInput converts a TranslatedState to its XInput wire representation.
// Lossless: the gamepad field is copied verbatim.
func (p *Pipeline) ToXInput(ts model.TranslatedState) XInputWire {
	return XInputWire{
		PacketNumber: uint32(ts.Timestamp),
		Gamepad:      ts.Gamepad,
	}
}

// ToDInput converts a TranslatedState to its DirectInput wire
// representation: sticks become four signed axes, triggers are remapped to
// lZ/lRz, the D-pad becomes a POV hat, and canonical buttons populate a
// 128-byte array.
func (p *Pipeline) ToDInput(ts model.TranslatedState) DInputWire {
	gp := ts.Gamepad
	var w DInputWire

	w.LX = int32(gp.ThumbLX)
	w.LY = int32(gp.ThumbLY)
	w.LRx = int32(gp.ThumbRX)
	w.LRy = int32(gp.ThumbRY)
	w.LZ = int32(gp.LeftTrigger)*257 - 32768
	w.LRz = int32(gp.RightTrigger)*257 - 32768

	for i, bit := range canonicalButtonOrder {
		if gp.HasButton(bit) {
			w.Buttons[i] = 0x80
		}
	}

	w.POV[0] = dpadToPOV(gp.Buttons)

	w.WButtons = gp.Buttons
	w.BLeftTrigger = gp.LeftTrigger
	w.BRightTrigger = gp.RightTrigger

	return w
}

// dpadToPOV maps the DPAD bitfield to an 8-direction compass POV value, or
// povCenter when no direction or an unresolved opposing pair is asserted.
// An opposing pair that is still asserted cancels out on its own axis.
func dpadToPOV(buttons uint16) int32 {
	up := buttons&model.ButtonDPadUp != 0
	down := buttons&model.ButtonDPadDown != 0
	left := buttons&model.ButtonDPadLeft != 0
	right := buttons&model.ButtonDPadRight != 0

	if up && down {
		up, down = false, false
	}
	if left && right {
		left, right = false, false
	}

	switch {
	case up && right:
		return povNE
	case down && right:
		return povSE
	case down && left:
		return povSW
	case up && left:
		return povNW
	case up:
		return povN
	case right:
		return povE
	case down:
		return povS
	case left:
		return povW
	default:
		return povCenter
	}
}
