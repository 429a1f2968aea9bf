//go:build windows

// Package lifecycle decides, once per capture cycle, which physical
// devices get hidden from other applications and which synthetic targets
// exist for which user, and tears both down cleanly on disconnect or
// shutdown.
//
// Grounded on original_source/src/core/device_manager.cpp: per-identity
// hide-once/never-retry-on-failure bookkeeping, per-user active-device
// maps for the two synthetic kinds, and the cleanup-on-exit unhide-then-
// destroy sequence.
package lifecycle

import (
	"fmt"

	"github.com/VishaL6i9/xinput-dinput-proxy/internal/clock"
	"github.com/VishaL6i9/xinput-dinput-proxy/internal/model"
	"github.com/VishaL6i9/xinput-dinput-proxy/internal/virtualdevice"
)

// Logger is the narrow logging surface this package depends on.
type Logger interface {
	Info(format string, args ...any)
	Error(format string, args ...any)
}

type nullLogger struct{}

func (nullLogger) Info(string, ...any)  {}
func (nullLogger) Error(string, ...any) {}

const hideSettleMicros = 100000 // 100ms between hiding a device and creating its synthetic

// Manager tracks hidden-device and active-synthetic state across capture
// cycles.
type Manager struct {
	vdm *virtualdevice.Manager
	clk *clock.Clock
	log Logger

	xinputToDInput bool
	dinputToXInput bool

	hiddenIDs       map[string]bool
	failedToHideIDs map[string]bool
	hiddenAt        map[string]int64

	activeXInput map[int]int
	activeDInput map[int]int
}

// New builds a Manager.
func New(vdm *virtualdevice.Manager, clk *clock.Clock, log Logger) *Manager {
	if log == nil {
		log = nullLogger{}
	}
	return &Manager{
		vdm:             vdm,
		clk:             clk,
		log:             log,
		hiddenIDs:       make(map[string]bool),
		failedToHideIDs: make(map[string]bool),
		hiddenAt:        make(map[string]int64),
		activeXInput:    make(map[int]int),
		activeDInput:    make(map[int]int),
	}
}

// SetMapping configures which synthetic-creation directions are active.
func (m *Manager) SetMapping(xinputToDInput, dinputToXInput bool) {
	m.xinputToDInput = xinputToDInput
	m.dinputToXInput = dinputToXInput
}

// Process reconciles hiding and synthetic-device state against one
// snapshot of physical controller states.
func (m *Manager) Process(states []model.ControllerState, translationEnabled, hidingEnabled bool) {
	for _, st := range states {
		if !st.IsConnected {
			m.destroyForUser(st.UserID)
			continue
		}
		if !translationEnabled {
			continue
		}

		if hidingEnabled && st.UserID < 0 && m.dinputToXInput {
			m.hidePhysicalDevice(st)
		}

		if m.xinputToDInput {
			if _, exists := m.activeDInput[st.UserID]; !exists {
				name := st.ProductName
				if name == "" {
					name = fmt.Sprintf("Xbox 360 Controller (User %d)", st.UserID)
				}
				if id, err := m.vdm.Create(model.DInputTarget, st.UserID, name); err == nil {
					m.activeDInput[st.UserID] = id
					m.log.Info("lifecycle: created virtual DS4 for %s", name)
				}
			}
		}

		if m.dinputToXInput {
			if _, exists := m.activeXInput[st.UserID]; !exists {
				if st.UserID < 0 && hidingEnabled && !m.hideSettled(st.DeviceInstanceID) {
					continue
				}
				name := st.ProductName
				if name == "" {
					name = "HID Device"
				}
				if id, err := m.vdm.Create(model.XInputTarget, st.UserID, name); err == nil {
					m.activeXInput[st.UserID] = id
					m.log.Info("lifecycle: created virtual Xbox 360 for %s", name)
				}
			}
		}
	}
}

// hideSettled reports whether enough time has passed since a device was
// first hidden to let the host settle before creating its synthetic. A
// device never hidden (or hidden in an earlier session) is always settled.
func (m *Manager) hideSettled(identity string) bool {
	t, ok := m.hiddenAt[identity]
	if !ok {
		return true
	}
	return m.clk.TicksToMicros(m.clk.Now()-t) >= hideSettleMicros
}

func (m *Manager) hidePhysicalDevice(st model.ControllerState) {
	if st.DeviceInstanceID == "" {
		return
	}
	if m.hiddenIDs[st.DeviceInstanceID] || m.failedToHideIDs[st.DeviceInstanceID] {
		return
	}
	if err := m.vdm.AddToBlacklist(st.DeviceInstanceID); err != nil {
		m.failedToHideIDs[st.DeviceInstanceID] = true
		m.log.Error("lifecycle: failed to hide %s: %v", st.DeviceInstanceID, err)
		return
	}
	m.hiddenIDs[st.DeviceInstanceID] = true
	m.hiddenAt[st.DeviceInstanceID] = m.clk.Now()
	m.log.Info("lifecycle: hidden physical device %s", st.DeviceInstanceID)
}

func (m *Manager) destroyForUser(userID int) {
	if id, ok := m.activeXInput[userID]; ok {
		m.vdm.Destroy(id)
		delete(m.activeXInput, userID)
		m.log.Info("lifecycle: destroyed virtual Xbox 360 for user %d", userID)
	}
	if id, ok := m.activeDInput[userID]; ok {
		m.vdm.Destroy(id)
		delete(m.activeDInput, userID)
		m.log.Info("lifecycle: destroyed virtual DS4 for user %d", userID)
	}
}

// Cleanup un-hides every device this session hid and destroys every
// synthetic it created. Called once on shutdown.
func (m *Manager) Cleanup() {
	for identity := range m.hiddenIDs {
		if err := m.vdm.RemoveFromBlacklist(identity); err != nil {
			m.log.Error("lifecycle: failed to unhide %s: %v", identity, err)
			continue
		}
		m.log.Info("lifecycle: unhidden physical device %s", identity)
	}
	m.hiddenIDs = make(map[string]bool)

	for userID, id := range m.activeXInput {
		m.vdm.Destroy(id)
		m.log.Info("lifecycle: destroyed virtual Xbox 360 for user %d", userID)
	}
	m.activeXInput = make(map[int]int)

	for userID, id := range m.activeDInput {
		m.vdm.Destroy(id)
		m.log.Info("lifecycle: destroyed virtual DS4 for user %d", userID)
	}
	m.activeDInput = make(map[int]int)
}
