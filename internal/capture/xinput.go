//go:build windows

package capture

import (
	"github.com/VishaL6i9/xinput-dinput-proxy/internal/model"
	"github.com/VishaL6i9/xinput-dinput-proxy/internal/winapi"
)

// pollXInput reads every vendor slot. A slot only reports connected when
// it has already been matched to a physical HID interface by
// RefreshDevices — this prevents an unmatched slot (whose XInputGetState
// call can still succeed against an unrelated controller sharing the bus)
// from duplicating a device that's really being read through its HID
// interface, or through a different slot.
func (e *Engine) pollXInput() {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := 0; i < xuserMaxCount && i < len(e.states); i++ {
		st := &e.states[i]
		if st.DeviceInstanceID == "" {
			st.IsConnected = false
			st.Timestamp = e.clk.Now()
			continue
		}

		packet, gp, ok := winapi.XInputGetState(i)
		if !ok {
			st.IsConnected = false
			st.DeviceInstanceID = "" // free the slot so it can be re-matched
			st.Timestamp = e.clk.Now()
			continue
		}

		st.RawXInput = model.RawXInputState{PacketNumber: packet, Gamepad: model.Gamepad(gp)}
		st.Canonical = model.Gamepad(gp)
		st.IsConnected = true
		st.Timestamp = e.clk.Now()
	}
}
