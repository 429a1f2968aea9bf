//go:build windows

// Package virtualdevice owns the ViGEm virtual bus client: creating and
// destroying synthetic Xbox 360 (XInput-shaped) and DualShock4
// (DirectInput-shaped) targets, submitting translated reports to them, and
// bridging rumble notifications back to the physical device that sources
// each synthetic.
//
// Grounded on the teacher's vigem.go (bus alloc/connect, X360 target
// lifecycle) and internal/winapi/vigem.go's DS4 extension; the create-time
// retry-after-100ms-backoff on a transient bus-access failure is
// supplemented from original_source/src/core/virtual_device_emulator.cpp's
// injection design (that file's own ViGEm calls are placeholders, so the
// retry policy itself is this module's contribution, applied to the real
// bindings the teacher already has).
package virtualdevice

import (
	"fmt"
	"time"

	"github.com/VishaL6i9/xinput-dinput-proxy/internal/hidhide"
	"github.com/VishaL6i9/xinput-dinput-proxy/internal/model"
	"github.com/VishaL6i9/xinput-dinput-proxy/internal/translate"
	"github.com/VishaL6i9/xinput-dinput-proxy/internal/winapi"
)

// Logger is the narrow logging surface this package depends on.
type Logger interface {
	Info(format string, args ...any)
	Error(format string, args ...any)
}

type nullLogger struct{}

func (nullLogger) Info(string, ...any)  {}
func (nullLogger) Error(string, ...any) {}

type device struct {
	id         int
	kind       model.TargetKind
	userID     int
	sourceName string
	target     uintptr
	notify     uintptr
}

// Manager owns the ViGEm bus connection and every synthetic target created
// on it, plus the HidHide blacklist of physical devices this process has
// taken over.
type Manager struct {
	log      Logger
	pipeline *translate.Pipeline

	client    uintptr
	connected bool

	devices map[int]*device
	byKey   map[deviceKey]int
	nextID  int

	hiding        *hidhide.Client
	hidingEnabled bool
	blacklisted   map[string]bool

	rumbleCallback func(userID int, left, right float64)
	rumbleEnabled  bool
	rumbleIntensity float64
}

type deviceKey struct {
	userID int
	kind   model.TargetKind
}

// New builds a Manager. pipeline supplies the stateless wire conversion
// (ToXInput/ToDInput) Send uses; log defaults to a no-op when nil.
func New(pipeline *translate.Pipeline, log Logger) *Manager {
	if log == nil {
		log = nullLogger{}
	}
	return &Manager{
		log:             log,
		pipeline:        pipeline,
		devices:         make(map[int]*device),
		byKey:           make(map[deviceKey]int),
		blacklisted:     make(map[string]bool),
		rumbleEnabled:   true,
		rumbleIntensity: 1.0,
	}
}

// Initialize connects to the running ViGEmBus driver. A failure here is
// non-fatal to the caller — the scheduler continues in "input-test" mode
// with no synthetic output.
func (m *Manager) Initialize() error {
	client, err := winapi.VigemAlloc()
	if err != nil {
		return fmt.Errorf("virtualdevice: alloc bus client: %w", err)
	}
	if err := winapi.VigemConnect(client); err != nil {
		winapi.VigemFree(client)
		return fmt.Errorf("virtualdevice: connect bus: %w", err)
	}
	m.client = client
	m.connected = true
	return nil
}

// Create allocates and plugs in a synthetic target of the given kind for
// userID. Retries once after a 100ms backoff on a transient
// VIGEM_ERROR_BUS_ACCESS_FAILED, a failure mode observed right after the
// bus driver starts.
func (m *Manager) Create(kind model.TargetKind, userID int, sourceName string) (int, error) {
	if !m.connected {
		return -1, fmt.Errorf("virtualdevice: bus not connected")
	}

	var target uintptr
	if kind == model.XInputTarget {
		target = winapi.VigemTargetX360Alloc()
	} else {
		target = winapi.VigemTargetDS4Alloc()
	}

	err := winapi.VigemTargetAdd(m.client, target)
	if verr, ok := err.(*winapi.VigemError); ok && verr.Code == winapi.VigemErrorBusAccessFailed {
		time.Sleep(100 * time.Millisecond)
		err = winapi.VigemTargetAdd(m.client, target)
	}
	if err != nil {
		winapi.VigemTargetFree(target)
		return -1, fmt.Errorf("virtualdevice: add target: %w", err)
	}

	id := m.nextID
	m.nextID++

	var notify uintptr
	if kind == model.XInputTarget {
		notify, _ = winapi.VigemTargetX360RegisterNotification(m.client, target, m.rumbleCallbackFor(userID))
	} else {
		notify, _ = winapi.VigemTargetDS4RegisterNotification(m.client, target, m.rumbleCallbackFor(userID))
	}

	dev := &device{id: id, kind: kind, userID: userID, sourceName: sourceName, target: target, notify: notify}
	m.devices[id] = dev
	m.byKey[deviceKey{userID: userID, kind: kind}] = id

	m.log.Info("virtualdevice: created %s target for %s (user %d)", kind, sourceName, userID)
	return id, nil
}

func (m *Manager) rumbleCallbackFor(userID int) winapi.RumbleCallback {
	return func(large, small, _ byte) {
		if !m.rumbleEnabled || m.rumbleCallback == nil {
			return
		}
		scale := m.rumbleIntensity
		left := float64(large) / 255 * scale
		right := float64(small) / 255 * scale
		m.rumbleCallback(userID, left, right)
	}
}

// Destroy unplugs and frees a synthetic target.
func (m *Manager) Destroy(id int) error {
	dev, ok := m.devices[id]
	if !ok {
		return fmt.Errorf("virtualdevice: unknown device %d", id)
	}

	if dev.kind == model.XInputTarget {
		winapi.VigemTargetX360UnregisterNotification(dev.target)
	} else {
		winapi.VigemTargetDS4UnregisterNotification(dev.target)
	}
	winapi.VigemTargetRemove(m.client, dev.target)
	winapi.VigemTargetFree(dev.target)

	delete(m.devices, id)
	delete(m.byKey, deviceKey{userID: dev.userID, kind: dev.kind})
	return nil
}

// Send submits every translated state to every synthetic target active for
// its source user. A user can have both an XInput and a DInput synthetic
// created at once (independent mapping directions), so each translated
// state is fanned out to whichever kinds lifecycle has created, rather than
// to a single kind carried on the state itself.
func (m *Manager) Send(states []model.TranslatedState) error {
	if !m.connected {
		return nil
	}
	for _, ts := range states {
		if id, ok := m.byKey[deviceKey{userID: ts.SourceUserID, kind: model.XInputTarget}]; ok {
			dev := m.devices[id]
			wire := m.pipeline.ToXInput(ts)
			if err := winapi.VigemTargetX360Update(m.client, dev.target, winapi.X360Report(wire.Gamepad)); err != nil {
				m.log.Error("virtualdevice: x360 update for user %d: %v", ts.SourceUserID, err)
			}
		}
		if id, ok := m.byKey[deviceKey{userID: ts.SourceUserID, kind: model.DInputTarget}]; ok {
			dev := m.devices[id]
			wire := m.pipeline.ToDInput(ts)
			if err := winapi.VigemTargetDS4Update(m.client, dev.target, toDS4Report(wire)); err != nil {
				m.log.Error("virtualdevice: ds4 update for user %d: %v", ts.SourceUserID, err)
			}
		}
	}
	return nil
}

// EnableDeviceHiding toggles whether AddToBlacklist/RemoveFromBlacklist are
// honored.
func (m *Manager) EnableDeviceHiding(enabled bool) { m.hidingEnabled = enabled }

// ConnectHiding opens the HidHide control device.
func (m *Manager) ConnectHiding() error {
	c, err := hidhide.Open()
	m.hiding = c
	if err != nil {
		return err
	}
	return nil
}

// AddToBlacklist hides a physical device identity from other applications.
func (m *Manager) AddToBlacklist(identity string) error {
	if !m.hidingEnabled || m.hiding == nil || identity == "" {
		return nil
	}
	if m.blacklisted[identity] {
		return nil
	}
	list, err := m.hiding.GetBlacklist()
	if err != nil {
		return err
	}
	list = append(list, identity)
	if err := m.hiding.SetBlacklist(list); err != nil {
		return err
	}
	m.blacklisted[identity] = true
	return nil
}

// RemoveFromBlacklist un-hides a physical device identity.
func (m *Manager) RemoveFromBlacklist(identity string) error {
	if m.hiding == nil || !m.blacklisted[identity] {
		return nil
	}
	list, err := m.hiding.GetBlacklist()
	if err != nil {
		return err
	}
	kept := list[:0]
	for _, id := range list {
		if id != identity {
			kept = append(kept, id)
		}
	}
	if err := m.hiding.SetBlacklist(kept); err != nil {
		return err
	}
	delete(m.blacklisted, identity)
	return nil
}

// SetRumbleCallback installs the rumble-passthrough sink.
func (m *Manager) SetRumbleCallback(cb func(userID int, left, right float64)) {
	m.rumbleCallback = cb
}

// SetRumbleEnabled toggles whether rumble notifications are forwarded.
func (m *Manager) SetRumbleEnabled(enabled bool) { m.rumbleEnabled = enabled }

// SetRumbleIntensity scales forwarded rumble magnitudes, clamped to [0,1].
func (m *Manager) SetRumbleIntensity(intensity float64) {
	if intensity < 0 {
		intensity = 0
	}
	if intensity > 1 {
		intensity = 1
	}
	m.rumbleIntensity = intensity
}

// Shutdown tears down every synthetic target, disconnects HidHide, and
// releases the bus client.
func (m *Manager) Shutdown() {
	for id := range m.devices {
		m.Destroy(id)
	}
	for identity := range m.blacklisted {
		m.RemoveFromBlacklist(identity)
	}
	if m.hiding != nil {
		m.hiding.Close()
	}
	if m.connected {
		winapi.VigemDisconnect(m.client)
		winapi.VigemFree(m.client)
		m.connected = false
	}
}

func toDS4Report(w translate.DInputWire) winapi.DS4Report {
	return winapi.DS4Report{
		ThumbLX:  axis16to8(w.LX),
		ThumbLY:  axis16to8(w.LY),
		ThumbRX:  axis16to8(w.LRx),
		ThumbRY:  axis16to8(w.LRy),
		TriggerL: w.BLeftTrigger,
		TriggerR: w.BRightTrigger,
		Buttons:  uint32(w.WButtons),
		DPad:     povToDS4DPad(w.POV[0]),
	}
}

func axis16to8(v int32) uint8 {
	scaled := (v + 32768) * 255 / 65535
	if scaled < 0 {
		scaled = 0
	}
	if scaled > 255 {
		scaled = 255
	}
	return uint8(scaled)
}

func povToDS4DPad(pov int32) winapi.DS4DPad {
	switch pov {
	case 0:
		return winapi.DS4DPadNorth
	case 4500:
		return winapi.DS4DPadNorthEast
	case 9000:
		return winapi.DS4DPadEast
	case 13500:
		return winapi.DS4DPadSouthEast
	case 18000:
		return winapi.DS4DPadSouth
	case 22500:
		return winapi.DS4DPadSouthWest
	case 27000:
		return winapi.DS4DPadWest
	case 31500:
		return winapi.DS4DPadNorthWest
	default:
		return winapi.DS4DPadNone
	}
}
