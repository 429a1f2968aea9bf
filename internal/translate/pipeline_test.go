//go:build windows

package translate_test

import (
	"testing"

	"github.com/VishaL6i9/xinput-dinput-proxy/internal/clock"
	"github.com/VishaL6i9/xinput-dinput-proxy/internal/model"
	"github.com/VishaL6i9/xinput-dinput-proxy/internal/translate"
	"github.com/stretchr/testify/require"
)

func disabledConfig() translate.Config {
	return translate.Config{
		SOCDEnabled:     false,
		DebounceEnabled: false,
		DeadzoneEnabled: false,
	}
}

// S1: DPAD_LEFT|DPAD_RIGHT with SOCD method Neutral collapses to 0.
func TestTranslate_S1_SOCDNeutral(t *testing.T) {
	cfg := disabledConfig()
	cfg.SOCDEnabled = true
	cfg.SOCDMethod = translate.SOCDNeutral
	p := translate.New(clock.New(), cfg)

	states := []model.ControllerState{{
		UserID: 0,
		Canonical: model.Gamepad{
			Buttons: model.ButtonDPadLeft | model.ButtonDPadRight,
		},
	}}

	out := p.Translate(states)
	require.Len(t, out, 1)
	require.EqualValues(t, 0, out[0].Gamepad.Buttons)
}

func TestTranslate_SOCDDisabledIsIdentity(t *testing.T) {
	p := translate.New(clock.New(), disabledConfig())

	buttons := model.ButtonDPadLeft | model.ButtonDPadRight
	states := []model.ControllerState{{UserID: 0, Canonical: model.Gamepad{Buttons: buttons}}}

	out := p.Translate(states)
	require.EqualValues(t, buttons, out[0].Gamepad.Buttons)
}

func TestTranslate_DebounceZeroIntervalIsIdentity(t *testing.T) {
	cfg := disabledConfig()
	cfg.DebounceEnabled = true
	cfg.DebounceMs = 0
	p := translate.New(clock.New(), cfg)

	first := p.Translate([]model.ControllerState{{UserID: 0, Canonical: model.Gamepad{Buttons: model.ButtonA}}})
	second := p.Translate([]model.ControllerState{{UserID: 0, Canonical: model.Gamepad{Buttons: model.ButtonB}}})

	require.EqualValues(t, model.ButtonA, first[0].Gamepad.Buttons)
	require.EqualValues(t, model.ButtonB, second[0].Gamepad.Buttons)
}

func TestTranslate_DebounceOutOfRangeUserIDBypasses(t *testing.T) {
	cfg := disabledConfig()
	cfg.DebounceEnabled = true
	cfg.DebounceMs = 10_000
	p := translate.New(clock.New(), cfg)

	first := p.Translate([]model.ControllerState{{UserID: 99, Canonical: model.Gamepad{Buttons: model.ButtonA}}})
	second := p.Translate([]model.ControllerState{{UserID: 99, Canonical: model.Gamepad{Buttons: model.ButtonB}}})

	require.EqualValues(t, model.ButtonA, first[0].Gamepad.Buttons)
	require.EqualValues(t, model.ButtonB, second[0].Gamepad.Buttons, "out-of-range user id must bypass debounce")
}

func TestTranslate_DeadzoneIdentityWhenZero(t *testing.T) {
	cfg := disabledConfig()
	cfg.DeadzoneEnabled = true
	cfg.LeftStick = translate.StickDeadzone{Cutoff: 0, AntiDeadzone: 0}
	cfg.RightStick = translate.StickDeadzone{Cutoff: 0, AntiDeadzone: 0}
	p := translate.New(clock.New(), cfg)

	states := []model.ControllerState{{
		UserID: 0,
		Canonical: model.Gamepad{
			ThumbLX: 12345, ThumbLY: -6789, ThumbRX: 1000, ThumbRY: -1000,
		},
	}}

	out := p.Translate(states)
	require.InDelta(t, 12345, out[0].Gamepad.ThumbLX, 2)
	require.InDelta(t, -6789, out[0].Gamepad.ThumbLY, 2)
}

func TestTranslate_DeadzoneBelowCutoffIsZero(t *testing.T) {
	cfg := disabledConfig()
	cfg.DeadzoneEnabled = true
	cfg.LeftStick = translate.StickDeadzone{Cutoff: 0.5}
	p := translate.New(clock.New(), cfg)

	states := []model.ControllerState{{UserID: 0, Canonical: model.Gamepad{ThumbLX: 1000, ThumbLY: 0}}}

	out := p.Translate(states)
	require.EqualValues(t, 0, out[0].Gamepad.ThumbLX)
	require.EqualValues(t, 0, out[0].Gamepad.ThumbLY)
}

func TestTranslate_ClassificationSkipsEmptyState(t *testing.T) {
	p := translate.New(clock.New(), disabledConfig())

	states := []model.ControllerState{{UserID: -1, DevicePath: ""}}
	out := p.Translate(states)
	require.Empty(t, out)
}

// S5 + invariant 6: ToXInput is a lossless field copy.
func TestToXInput_Lossless(t *testing.T) {
	p := translate.New(clock.New(), disabledConfig())
	gp := model.Gamepad{Buttons: model.ButtonA, LeftTrigger: 200, RightTrigger: 100, ThumbLX: 10000, ThumbLY: -10000}
	ts := model.TranslatedState{Gamepad: gp, Timestamp: 42}

	wire := p.ToXInput(ts)
	require.Equal(t, gp, wire.Gamepad)
}

// S5: DInput wire emission.
func TestToDInput_S5(t *testing.T) {
	p := translate.New(clock.New(), disabledConfig())
	ts := model.TranslatedState{Gamepad: model.Gamepad{
		Buttons:      model.ButtonA,
		LeftTrigger:  200,
		RightTrigger: 100,
		ThumbLX:      10000,
		ThumbLY:      -10000,
	}}

	w := p.ToDInput(ts)
	require.EqualValues(t, 0x80, w.Buttons[0])
	require.EqualValues(t, 18632, w.LZ)
	require.EqualValues(t, -7068, w.LRz)
	require.EqualValues(t, 10000, w.LX)
	require.EqualValues(t, -10000, w.LY)
	require.EqualValues(t, -1, w.POV[0])
}

// S6: DPAD_UP|DPAD_RIGHT -> POV 4500.
func TestToDInput_S6_POV(t *testing.T) {
	p := translate.New(clock.New(), disabledConfig())
	ts := model.TranslatedState{Gamepad: model.Gamepad{Buttons: model.ButtonDPadUp | model.ButtonDPadRight}}

	w := p.ToDInput(ts)
	require.EqualValues(t, 4500, w.POV[0])
}

// Invariant 7: SOCD method Neutral applied twice is a fixed point.
func TestSOCDNeutral_IsFixedPoint(t *testing.T) {
	cfg := translate.Config{SOCDEnabled: true, SOCDMethod: translate.SOCDNeutral}
	p := translate.New(clock.New(), cfg)

	states := []model.ControllerState{{UserID: 0, Canonical: model.Gamepad{
		Buttons: model.ButtonDPadUp | model.ButtonDPadDown | model.ButtonDPadLeft,
	}}}

	once := p.Translate(states)
	again := p.Translate([]model.ControllerState{{UserID: 0, Canonical: once[0].Gamepad}})

	require.Equal(t, once[0].Gamepad.Buttons, again[0].Gamepad.Buttons)
}
