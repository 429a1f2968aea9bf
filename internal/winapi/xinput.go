//go:build windows

package winapi

import "golang.org/x/sys/windows"

// XInput status codes.
const (
	XInputErrorSuccess      = 0
	XInputErrorNotConnected = 1167 // ERROR_DEVICE_NOT_CONNECTED
)

// xinputGamepad mirrors the native XINPUT_GAMEPAD layout verbatim.
type xinputGamepad struct {
	wButtons      uint16
	bLeftTrigger  byte
	bRightTrigger byte
	sThumbLX      int16
	sThumbLY      int16
	sThumbRX      int16
	sThumbRY      int16
}

type xinputState struct {
	dwPacketNumber uint32
	gamepad        xinputGamepad
}

type xinputVibration struct {
	wLeftMotorSpeed  uint16
	wRightMotorSpeed uint16
}

// xinputDLL is the first of xinput1_4.dll, xinput1_3.dll and
// xinput9_1_0.dll that loads, probed once at package initialization.
var (
	xinputDLL          = loadXInput()
	procXInputGetState = xinputDLL.NewProc("XInputGetState")
	procXInputSetState = xinputDLL.NewProc("XInputSetState")
)

func loadXInput() *windows.LazyDLL {
	for _, name := range []string{"xinput1_4.dll", "xinput1_3.dll", "xinput9_1_0.dll"} {
		dll := windows.NewLazySystemDLL(name)
		if dll.Load() == nil {
			return dll
		}
	}
	return windows.NewLazySystemDLL("xinput1_4.dll")
}

// XInputGetState queries one vendor-API slot (0..3). Returns ok=false for
// any status other than success, ERROR_DEVICE_NOT_CONNECTED included.
func XInputGetState(userID int) (packetNumber uint32, gp XInputGamepad, ok bool) {
	var st xinputState
	ret, _, _ := procXInputGetState.Call(uintptr(userID), uintptrPtr(&st))
	if ret != XInputErrorSuccess {
		return 0, XInputGamepad{}, false
	}
	return st.dwPacketNumber, XInputGamepad{
		Buttons:      st.gamepad.wButtons,
		LeftTrigger:  st.gamepad.bLeftTrigger,
		RightTrigger: st.gamepad.bRightTrigger,
		ThumbLX:      st.gamepad.sThumbLX,
		ThumbLY:      st.gamepad.sThumbLY,
		ThumbRX:      st.gamepad.sThumbRX,
		ThumbRY:      st.gamepad.sThumbRY,
	}, true
}

// XInputGamepad is the vendor-API gamepad layout, matching the canonical
// model field-for-field.
type XInputGamepad struct {
	Buttons      uint16
	LeftTrigger  uint8
	RightTrigger uint8
	ThumbLX      int16
	ThumbLY      int16
	ThumbRX      int16
	ThumbRY      int16
}

// XInputSetState writes motor speeds to a vendor-API slot.
func XInputSetState(userID int, leftMotor, rightMotor uint16) error {
	vib := xinputVibration{wLeftMotorSpeed: leftMotor, wRightMotorSpeed: rightMotor}
	ret, _, _ := procXInputSetState.Call(uintptr(userID), uintptrPtr(&vib))
	if ret != XInputErrorSuccess {
		return windows.Errno(ret)
	}
	return nil
}
