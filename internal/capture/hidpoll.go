//go:build windows

package capture

import (
	"github.com/VishaL6i9/xinput-dinput-proxy/internal/hidreport"
	"github.com/VishaL6i9/xinput-dinput-proxy/internal/model"
	"github.com/VishaL6i9/xinput-dinput-proxy/internal/winapi"
	"golang.org/x/sys/windows"
)

// pollHID drives one overlapped-read step for every open pure-HID session:
// starting a new read if none is pending, or checking a pending one for
// completion. Neither path blocks.
func (e *Engine) pollHID() {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.states {
		st := &e.states[i]
		if st.UserID >= 0 {
			continue
		}
		sess, ok := e.sessions[st.DeviceInstanceID]
		if !ok {
			continue
		}

		if !sess.readPending {
			windows.ResetEvent(sess.event)
			var bytesRead uint32
			err := windows.ReadFile(sess.handle, sess.inputBuffer, &bytesRead, sess.overlapped)
			switch {
			case err == nil:
				st.IsConnected = true
				st.Timestamp = e.clk.Now()
				e.decodeReport(st, sess, sess.inputBuffer[:bytesRead])
			case err == windows.ERROR_IO_PENDING:
				sess.readPending = true
				st.ReadInFlight = true
			case err == windows.ERROR_DEVICE_NOT_CONNECTED:
				st.IsConnected = false
				st.LastError = err
			default:
				st.LastError = err
			}
			continue
		}

		var transferred uint32
		err := windows.GetOverlappedResult(sess.handle, sess.overlapped, &transferred, false)
		switch {
		case err == nil:
			sess.readPending = false
			st.ReadInFlight = false
			st.IsConnected = true
			st.Timestamp = e.clk.Now()
			if transferred > 0 {
				e.decodeReport(st, sess, sess.inputBuffer[:transferred])
			}
		case err == windows.ERROR_IO_INCOMPLETE:
			// still pending, nothing to do
		case err == windows.ERROR_DEVICE_NOT_CONNECTED || err == windows.Errno(0x16): // ERROR_BAD_COMMAND
			sess.readPending = false
			st.ReadInFlight = false
			st.IsConnected = false
			st.LastError = err
		default:
			sess.readPending = false
			st.ReadInFlight = false
			st.LastError = err
		}
	}
}

func (e *Engine) decodeReport(st *model.ControllerState, sess *hidSession, report []byte) {
	if st.CapabilityTable == nil {
		return
	}

	buttonUsages := winapi.GetUsages(sess.preparsed, st.CapabilityTable.UsagePage, report)

	axisValues := make(map[uint16]int32, len(st.CapabilityTable.ValueCaps))
	for _, vc := range st.CapabilityTable.ValueCaps {
		if v, ok := winapi.GetUsageValue(sess.preparsed, vc.UsagePage, vc.Usage, report); ok {
			axisValues[vc.Usage] = int32(v)
		}
	}

	raw := hidreport.RawUsages{ActiveButtonUsages: buttonUsages, AxisValues: axisValues}
	result := hidreport.Decode(raw, st.CapabilityTable, st.ProductName)

	st.ActiveButtons = result.ActiveButtons
	st.HIDValues = result.Values
	st.Canonical = result.Gamepad
}
