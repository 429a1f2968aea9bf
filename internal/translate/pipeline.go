//go:build windows

// Package translate implements the translation pipeline: canonicalization
// from either source family, SOCD cleaning, debouncing, and deadzone/
// anti-deadzone shaping, followed by wire-format emission for both the
// XInput-shaped and DirectInput-shaped synthetic targets.
package translate

import (
	"sync"

	"github.com/VishaL6i9/xinput-dinput-proxy/internal/clock"
	"github.com/VishaL6i9/xinput-dinput-proxy/internal/model"
)

// SOCDMethod selects how simultaneous opposing DPAD directions resolve.
type SOCDMethod int

const (
	SOCDLastWin SOCDMethod = iota
	SOCDFirstWin
	SOCDNeutral
)

// StickDeadzone configures the deadzone/anti-deadzone shaping for one stick.
type StickDeadzone struct {
	Cutoff        float64 // d, in [0,1]
	AntiDeadzone  float64 // a, in [0,1]
}

// Config holds every configuration setter exposed by the pipeline.
type Config struct {
	SOCDEnabled     bool
	SOCDMethod      SOCDMethod
	DebounceEnabled bool
	DebounceMs      int

	DeadzoneEnabled bool
	LeftStick       StickDeadzone
	RightStick      StickDeadzone
}

// DefaultConfig matches the configuration store's documented defaults
// (§6.5 of the specification).
func DefaultConfig() Config {
	return Config{
		SOCDEnabled:     true,
		SOCDMethod:      SOCDNeutral,
		DebounceEnabled: false,
		DebounceMs:      10,
		DeadzoneEnabled: true,
		LeftStick:       StickDeadzone{Cutoff: 0.15},
		RightStick:      StickDeadzone{Cutoff: 0.15},
	}
}

// Pipeline holds translation configuration and the per-user debounce state
// carried between invocations of Translate. It is safe for concurrent use;
// configuration setters and Translate share a mutex.
type Pipeline struct {
	clk *clock.Clock

	mu                   sync.Mutex
	cfg                  Config
	lastChangeTick       [16]int64
	hasLastTick          [16]bool
	lastAcceptedButtons  [16]uint16
}

// New constructs a Pipeline with the given clock (used for debounce timing)
// and configuration.
func New(clk *clock.Clock, cfg Config) *Pipeline {
	return &Pipeline{clk: clk, cfg: cfg}
}

// SetSOCD configures SOCD cleaning.
func (p *Pipeline) SetSOCD(enabled bool, method SOCDMethod) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cfg.SOCDEnabled = enabled
	p.cfg.SOCDMethod = method
}

// SetDebounce configures input debouncing.
func (p *Pipeline) SetDebounce(enabled bool, intervalMs int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cfg.DebounceEnabled = enabled
	p.cfg.DebounceMs = intervalMs
}

// SetDeadzone configures deadzone/anti-deadzone shaping, globally enabled
// or disabled, with independent per-stick cutoff and anti-deadzone values.
func (p *Pipeline) SetDeadzone(enabled bool, left, right StickDeadzone) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cfg.DeadzoneEnabled = enabled
	p.cfg.LeftStick = left
	p.cfg.RightStick = right
}

// classifySource determines whether a ControllerState originates from the
// vendor API or pure HID, per §4.5's "Source classification" rule.
func classifySource(s model.ControllerState) (isXInput, ok bool) {
	if s.UserID >= 0 || s.RawXInput.PacketNumber != 0 {
		return true, true
	}
	if s.DevicePath != "" {
		return false, true
	}
	return false, false
}

// Translate applies canonicalization, SOCD cleaning, debouncing, and
// deadzone shaping, in that fixed order, to every capturable state. Pure
// per invocation apart from the pipeline's own debounce bookkeeping.
func (p *Pipeline) Translate(states []model.ControllerState) []model.TranslatedState {
	p.mu.Lock()
	cfg := p.cfg
	p.mu.Unlock()

	out := make([]model.TranslatedState, 0, len(states))
	for _, s := range states {
		isXInput, ok := classifySource(s)
		if !ok {
			continue
		}

		gp := canonicalize(s, isXInput)

		if cfg.SOCDEnabled {
			gp.Buttons = cleanSOCDGamepad(gp, cfg.SOCDMethod)
		}

		if cfg.DebounceEnabled {
			gp.Buttons = p.debounce(s.UserID, gp.Buttons, cfg.DebounceMs)
		}

		if cfg.DeadzoneEnabled {
			gp.ThumbLX, gp.ThumbLY = applyDeadzone(gp.ThumbLX, gp.ThumbLY, cfg.LeftStick)
			gp.ThumbRX, gp.ThumbRY = applyDeadzone(gp.ThumbRX, gp.ThumbRY, cfg.RightStick)
		}

		out = append(out, model.TranslatedState{
			SourceUserID:   s.UserID,
			IsXInputSource: isXInput,
			Gamepad:        gp,
			Timestamp:      s.Timestamp,
		})
	}
	return out
}

// canonicalize returns the already-decoded canonical gamepad for a state.
// The capture engine populates ControllerState.Canonical uniformly for both
// source families (copied verbatim from the vendor-API gamepad for XInput
// slots, produced by internal/hidreport for pure-HID entries), so
// canonicalization here is a direct read regardless of source.
func canonicalize(s model.ControllerState, isXInput bool) model.Gamepad {
	_ = isXInput
	return s.Canonical
}
