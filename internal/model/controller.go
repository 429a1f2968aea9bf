package model

// HIDUsage is a (usage page, usage) pair packed into a single comparable key,
// usage page in the high 16 bits.
type HIDUsage uint32

// MakeHIDUsage packs a usage page and usage into a HIDUsage key.
func MakeHIDUsage(usagePage, usage uint16) HIDUsage {
	return HIDUsage(uint32(usagePage)<<16 | uint32(usage))
}

// UsagePage extracts the usage page from a packed HIDUsage.
func (u HIDUsage) UsagePage() uint16 { return uint16(u >> 16) }

// Usage extracts the usage from a packed HIDUsage.
func (u HIDUsage) Usage() uint16 { return uint16(u) }

// RawXInputState is the last observed vendor-API state for a slot.
type RawXInputState struct {
	PacketNumber uint32
	Gamepad      Gamepad
}

// ButtonCap describes one HID button capability entry.
type ButtonCap struct {
	UsagePage uint16
	Usage     uint16
}

// ValueCap describes one HID value (axis) capability entry.
type ValueCap struct {
	UsagePage  uint16
	Usage      uint16
	LogicalMin int32
	LogicalMax int32
}

// CapabilityTable is the preparsed descriptor obtained at device open.
type CapabilityTable struct {
	UsagePage  uint16
	Usage      uint16
	ButtonCaps []ButtonCap
	ValueCaps  []ValueCap
}

// ValueCapFor returns the value capability for the given usage, if any.
func (c *CapabilityTable) ValueCapFor(usage uint16) (ValueCap, bool) {
	if c == nil {
		return ValueCap{}, false
	}
	for _, vc := range c.ValueCaps {
		if vc.Usage == usage {
			return vc, true
		}
	}
	return ValueCap{}, false
}

// ControllerState is the per-physical-device (or per-vendor-slot) record
// maintained by the capture layer.
type ControllerState struct {
	UserID           int
	DeviceInstanceID string
	DevicePath       string
	ProductName      string
	IsConnected      bool
	LastError        error

	RawXInput RawXInputState

	// Canonical is the already-decoded canonical Gamepad for this state,
	// populated from the vendor-API gamepad verbatim for XInput slots, or
	// from the HID report decoder's output for pure-HID entries. The
	// translation pipeline canonicalizes from this field regardless of
	// source family.
	Canonical Gamepad

	ActiveButtons map[HIDUsage]struct{}
	HIDValues     map[HIDUsage]int32

	CapabilityTable *CapabilityTable

	ReadInFlight bool
	Timestamp    int64
}

// Clone returns a deep copy suitable for lock-free consumption after a
// snapshot is taken under the owning mutex.
func (s ControllerState) Clone() ControllerState {
	out := s
	if s.ActiveButtons != nil {
		out.ActiveButtons = make(map[HIDUsage]struct{}, len(s.ActiveButtons))
		for k, v := range s.ActiveButtons {
			out.ActiveButtons[k] = v
		}
	}
	if s.HIDValues != nil {
		out.HIDValues = make(map[HIDUsage]int32, len(s.HIDValues))
		for k, v := range s.HIDValues {
			out.HIDValues[k] = v
		}
	}
	if s.CapabilityTable != nil {
		table := *s.CapabilityTable
		out.CapabilityTable = &table
	}
	return out
}

// TranslatedState is the output of the translation pipeline for one source
// controller.
type TranslatedState struct {
	SourceUserID   int
	IsXInputSource bool
	Gamepad        Gamepad
	Timestamp      int64
}

// VirtualDevice is a record of a synthetic controller owned by the virtual
// device manager.
type VirtualDevice struct {
	ID         int
	Kind       TargetKind
	UserID     int
	SourceName string
	Connected  bool
	LastUpdate int64
	Handle     uintptr
}
