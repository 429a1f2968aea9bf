//go:build windows

// Package capture owns the two families of physical input the proxy reads
// from: the fixed four-slot XInput vendor API, and directly-opened HID
// report devices. It reconciles the two into a single per-physical-device
// state list, matching an XInput slot to the HID interface that actually
// backs it (so the same controller is never translated twice) and filters
// out this process's own synthetic ViGEm devices to avoid a feedback loop.
//
// Grounded on original_source/src/core/input_capture.cpp: Initialize calls
// the XInput and HID initializers in the same order, Update polls both
// families without a dedicated thread (the caller, here internal/scheduler,
// drives the cadence), and the HID path uses overlapped, non-blocking reads
// exactly as the original's pollHIDControllers does.
package capture

import (
	"fmt"
	"sync"
	"time"

	"github.com/VishaL6i9/xinput-dinput-proxy/internal/clock"
	"github.com/VishaL6i9/xinput-dinput-proxy/internal/hidreport"
	"github.com/VishaL6i9/xinput-dinput-proxy/internal/identity"
	"github.com/VishaL6i9/xinput-dinput-proxy/internal/model"
	"github.com/VishaL6i9/xinput-dinput-proxy/internal/winapi"
	"golang.org/x/sys/windows"
)

const xuserMaxCount = 4

// Logger is the narrow logging surface capture depends on; satisfied by
// internal/logsink.Sink in production and a no-op in tests.
type Logger interface {
	Info(format string, args ...any)
	Error(format string, args ...any)
}

type nullLogger struct{}

func (nullLogger) Info(string, ...any)  {}
func (nullLogger) Error(string, ...any) {}

// hidSession holds the OS resources backing one directly-opened HID entry.
// Only entries with UserID < 0 (pure-HID, unmatched to a vendor slot) carry
// a session; XInput-matched entries are read through XInputGetState only.
type hidSession struct {
	handle       windows.Handle
	overlapped   *windows.Overlapped
	event        windows.Handle
	preparsed    winapi.PreparsedData
	readPending  bool
	inputBuffer  []byte
	reportLength int
}

// Engine is the device-enumeration and polling core. Zero value is not
// usable; construct with New.
type Engine struct {
	clk    *clock.Clock
	log    Logger
	mu     sync.Mutex
	states []model.ControllerState
	// sessions is keyed by DeviceInstanceID for pure-HID entries.
	sessions map[string]*hidSession
	// knownIdentities remembers every identity ever seen, including ones a
	// later enumeration pass omits because HidHide has since hidden them
	// from SetupDiGetClassDevs. Such an identity stays connected only while
	// its HID session is still open; it is never re-opened by path.
	knownIdentities map[string]string // identity -> last known device path
}

// New builds an Engine. A nil logger installs a no-op logger.
func New(clk *clock.Clock, log Logger) *Engine {
	if log == nil {
		log = nullLogger{}
	}
	return &Engine{
		clk:             clk,
		log:             log,
		sessions:        make(map[string]*hidSession),
		knownIdentities: make(map[string]string),
	}
}

// Initialize pre-populates the four vendor slots (disconnected until an HID
// interface has matched them) and runs the first HID enumeration pass. An
// enumeration failure is returned as an error.
func (e *Engine) Initialize() error {
	e.mu.Lock()
	e.states = make([]model.ControllerState, xuserMaxCount)
	for i := 0; i < xuserMaxCount; i++ {
		e.states[i] = model.ControllerState{
			UserID:      i,
			IsConnected: false,
			Timestamp:   e.clk.Now(),
		}
	}
	e.mu.Unlock()

	if err := e.RefreshDevices(); err != nil {
		e.log.Error("capture: initial HID enumeration failed: %v", err)
		return err
	}
	e.log.Info("capture: initialized, %d vendor slots", xuserMaxCount)
	return nil
}

// RefreshDevices re-enumerates HID interfaces and reconciles them against
// the current state list: matching existing entries by DeviceInstanceID,
// assigning newly-seen XInput-backed interfaces to an empty vendor slot
// (deduplicating by base identity across a composite device's multiple
// interfaces), and opening genuinely new pure-HID gamepad/joystick devices.
func (e *Engine) RefreshDevices() error {
	paths, err := winapi.EnumerateHIDPaths()
	if err != nil {
		return fmt.Errorf("capture: enumerate HID paths: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	seen := make(map[string]bool, len(paths))

	for _, path := range paths {
		id := identity.ExtractIdentity(path)
		if id == "" {
			continue
		}
		if isSelfDevice(id) {
			continue
		}
		seen[id] = true
		e.knownIdentities[id] = path
		e.reconcileOne(path, id)
	}

	// Previously-known identities that enumeration no longer lists (for
	// example because HidHide now hides them) keep their entry connected as
	// long as this process still holds an open HID session for them. No new
	// handle is opened here; an identity without a live session is skipped.
	for id, path := range e.knownIdentities {
		if seen[id] {
			continue
		}
		if !e.hasLiveSession(id) {
			continue
		}
		e.reconcileOne(path, id)
	}

	return nil
}

func (e *Engine) hasLiveSession(id string) bool {
	_, ok := e.sessions[id]
	return ok
}

func (e *Engine) findByInstanceID(id string) int {
	for i := range e.states {
		if e.states[i].DeviceInstanceID == id {
			return i
		}
	}
	return -1
}

func (e *Engine) reconcileOne(path, id string) {
	if idx := e.findByInstanceID(id); idx >= 0 {
		e.states[idx].DevicePath = path
		e.states[idx].IsConnected = true
		return
	}

	isXInput := isXInputPath(path)

	if isXInput {
		base := identity.BaseIdentity(id)
		for _, st := range e.states {
			if st.UserID >= 0 && st.DeviceInstanceID != "" && identity.BaseIdentity(st.DeviceInstanceID) == base {
				return // another interface of this composite device already claimed a slot
			}
		}
		for i := range e.states {
			if e.states[i].UserID >= 0 && e.states[i].DeviceInstanceID == "" {
				e.states[i].DeviceInstanceID = id
				e.states[i].DevicePath = path
				e.states[i].IsConnected = true
				e.states[i].ProductName = productNameForPath(path)
				e.log.Info("capture: matched XInput device to user %d: %s", e.states[i].UserID, e.states[i].ProductName)
				return
			}
		}
		return
	}

	e.openHIDEntry(path, id)
}

func (e *Engine) openHIDEntry(path, id string) {
	h, err := winapi.OpenHandle(path, false)
	if err != nil {
		return
	}

	productName := winapi.GetProductString(h)
	if productName == "" {
		productName = "Unknown HID Device"
	}

	preparsed, err := winapi.GetPreparsedData(h)
	if err != nil {
		windows.CloseHandle(h)
		return
	}
	caps, err := winapi.GetCaps(preparsed)
	if err != nil || !(caps.UsagePage == hidreport.UsagePageGenericDesktop &&
		(caps.Usage == hidreport.UsageJoystick || caps.Usage == hidreport.UsageGamepad)) {
		winapi.FreePreparsedData(preparsed)
		windows.CloseHandle(h)
		return
	}

	buttonUsages := winapi.GetButtonCaps(preparsed, caps.NumButtonCaps)
	rawValueCaps := winapi.GetValueCaps(preparsed, caps.NumValueCaps)

	table := &model.CapabilityTable{UsagePage: caps.UsagePage, Usage: caps.Usage}
	for _, u := range buttonUsages {
		table.ButtonCaps = append(table.ButtonCaps, model.ButtonCap{UsagePage: caps.UsagePage, Usage: u})
	}
	for _, vc := range rawValueCaps {
		table.ValueCaps = append(table.ValueCaps, model.ValueCap{
			UsagePage: caps.UsagePage, Usage: vc.Usage, LogicalMin: vc.LogicalMin, LogicalMax: vc.LogicalMax,
		})
	}

	event, err := windows.CreateEvent(nil, 1, 0, nil)
	if err != nil {
		winapi.FreePreparsedData(preparsed)
		windows.CloseHandle(h)
		return
	}

	sess := &hidSession{
		handle:       h,
		event:        event,
		overlapped:   &windows.Overlapped{HEvent: event},
		preparsed:    preparsed,
		inputBuffer:  make([]byte, caps.InputReportByteLength),
		reportLength: int(caps.InputReportByteLength),
	}
	e.sessions[id] = sess

	e.states = append(e.states, model.ControllerState{
		UserID:           -1,
		DeviceInstanceID: id,
		DevicePath:       path,
		ProductName:      productName,
		IsConnected:      true,
		CapabilityTable:  table,
		Timestamp:        e.clk.Now(),
	})
	e.log.Info("capture: HID device found: %s", productName)
}

func productNameForPath(path string) string {
	h, err := winapi.OpenHandle(path, false)
	if err != nil {
		return ""
	}
	defer windows.CloseHandle(h)
	return winapi.GetProductString(h)
}

// Update polls the XInput vendor slots and every open HID session once.
func (e *Engine) Update(delta time.Duration) error {
	_ = delta
	e.pollXInput()
	e.pollHID()
	return nil
}

// Snapshot returns a deep copy of the current per-device state list, safe
// for a caller to use without holding the engine's lock.
func (e *Engine) Snapshot() []model.ControllerState {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]model.ControllerState, len(e.states))
	for i, s := range e.states {
		out[i] = s.Clone()
	}
	return out
}

// SetVibration drives rumble on a vendor slot; left/right are normalized to
// [0, 1] and scaled to the vendor API's 16-bit motor range.
func (e *Engine) SetVibration(userID int, left, right float64) error {
	if userID < 0 || userID >= xuserMaxCount {
		return fmt.Errorf("capture: vibration user id %d out of range", userID)
	}
	left = clampUnit(left)
	right = clampUnit(right)
	return winapi.XInputSetState(userID, uint16(left*65535), uint16(right*65535))
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Shutdown releases every open HID session's OS resources.
func (e *Engine) Shutdown() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, sess := range e.sessions {
		winapi.FreePreparsedData(sess.preparsed)
		windows.CloseHandle(sess.event)
		windows.CloseHandle(sess.handle)
	}
	e.sessions = make(map[string]*hidSession)
}
