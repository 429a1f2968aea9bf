//go:build windows

package translate

import "github.com/VishaL6i9/xinput-dinput-proxy/internal/model"

const (
	socdHoriz = model.ButtonDPadLeft | model.ButtonDPadRight
	socdVert  = model.ButtonDPadUp | model.ButtonDPadDown
)

// cleanSOCDGamepad resolves simultaneous-opposing-cardinal-direction presses on
// the DPAD per the configured method, using the stick values already
// present on gp as the Last-Win tie-break signal. First-Win degrades to
// Neutral: the pipeline carries no per-direction press timestamps, so it
// cannot tell which direction was pressed first (see design notes) and
// clears both members of the opposing pair, same as Neutral.
func cleanSOCDGamepad(gp model.Gamepad, method SOCDMethod) uint16 {
	buttons := gp.Buttons

	if buttons&socdHoriz == socdHoriz {
		switch method {
		case SOCDLastWin:
			if gp.ThumbLX < 0 {
				buttons &^= model.ButtonDPadRight
			} else {
				buttons &^= model.ButtonDPadLeft
			}
		default: // SOCDFirstWin, SOCDNeutral
			buttons &^= socdHoriz
		}
	}

	if buttons&socdVert == socdVert {
		switch method {
		case SOCDLastWin:
			if gp.ThumbLY > 0 {
				buttons &^= model.ButtonDPadDown
			} else {
				buttons &^= model.ButtonDPadUp
			}
		default:
			buttons &^= socdVert
		}
	}

	return buttons
}
