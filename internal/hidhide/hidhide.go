//go:build windows

// Package hidhide is a thin client for the HidHide kernel driver's control
// device, used to hide pure-HID physical devices from other applications
// once this process has taken over their input (so a game does not see the
// same controller twice: once raw, once through the synthetic). Internals
// beyond this narrow interface are out of scope for the core.
package hidhide

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/sys/windows"
)

const controlDeviceName = `\\.\HidHide`

// IOCTL codes for the HidHide control device.
const (
	ioctlGetWhitelist = 0x80016000
	ioctlSetWhitelist = 0x80016004
	ioctlGetBlacklist = 0x80016008
	ioctlSetBlacklist = 0x8001600C
	ioctlGetActive    = 0x80016010
	ioctlSetActive    = 0x80016014
	ioctlGetInverse   = 0x80016018
	ioctlSetInverse   = 0x8001601C
)

// Client talks to the HidHide control device. An invalid handle means the
// driver is not present (open failed); every method is then a silent no-op.
// Client itself never logs: the failure is reported once, as Open's error.
type Client struct {
	handle windows.Handle
	logged bool
}

// Open opens the HidHide control device. When the device cannot be opened it
// returns a non-nil error together with a Client whose methods are no-ops;
// callers are expected to disable hiding and proceed without retrying in
// the same session.
func Open() (*Client, error) {
	p, err := windows.UTF16PtrFromString(controlDeviceName)
	if err != nil {
		return nil, err
	}
	h, err := windows.CreateFile(p, windows.GENERIC_READ|windows.GENERIC_WRITE, 0, nil, windows.OPEN_EXISTING, 0, 0)
	if err != nil {
		return &Client{handle: windows.InvalidHandle}, fmt.Errorf("hidhide: open control device: %w", err)
	}
	return &Client{handle: h}, nil
}

func (c *Client) present() bool {
	return c != nil && c.handle != windows.InvalidHandle && c.handle != 0
}

// Close releases the control device handle.
func (c *Client) Close() {
	if c.present() {
		windows.CloseHandle(c.handle)
	}
}

// encodeStringList packs a list of device identities into HidHide's
// blacklist/whitelist wire format: a u32 count followed by that many
// null-terminated wide strings, plus a trailing null.
func encodeStringList(items []string) []byte {
	var buf []byte
	count := make([]byte, 4)
	binary.LittleEndian.PutUint32(count, uint32(len(items)))
	buf = append(buf, count...)

	for _, s := range items {
		u16, _ := windows.UTF16FromString(s)
		for _, c := range u16 {
			var b [2]byte
			binary.LittleEndian.PutUint16(b[:], c)
			buf = append(buf, b[:]...)
		}
	}
	buf = append(buf, 0, 0) // trailing null
	return buf
}

// decodeStringList is the inverse of encodeStringList. An empty payload
// (count == 0 and no strings) is treated as "no entries" rather than
// "driver absent" — the driver being absent is already signaled by Open's
// error, resolving the ambiguity the original left open (see SPEC_FULL.md
// Open Questions carried from spec.md §9).
func decodeStringList(buf []byte) []string {
	if len(buf) < 4 {
		return nil
	}
	count := binary.LittleEndian.Uint32(buf[:4])
	if count == 0 {
		return nil
	}

	rest := buf[4:]
	var out []string
	for i := uint32(0); i < count && len(rest) >= 2; i++ {
		var runes []uint16
		for len(rest) >= 2 {
			u := binary.LittleEndian.Uint16(rest[:2])
			rest = rest[2:]
			if u == 0 {
				break
			}
			runes = append(runes, u)
		}
		out = append(out, windows.UTF16ToString(runes))
	}
	return out
}

func (c *Client) ioctl(code uint32, in []byte, outCap int) ([]byte, error) {
	var inPtr *byte
	if len(in) > 0 {
		inPtr = &in[0]
	}
	out := make([]byte, outCap)
	var outPtr *byte
	if outCap > 0 {
		outPtr = &out[0]
	}
	var returned uint32
	err := windows.DeviceIoControl(c.handle, code, inPtr, uint32(len(in)), outPtr, uint32(outCap), &returned, nil)
	if err != nil {
		return nil, err
	}
	return out[:returned], nil
}

// GetBlacklist returns the identities currently blacklisted (hidden).
func (c *Client) GetBlacklist() ([]string, error) {
	if !c.present() {
		return nil, nil
	}
	buf, err := c.ioctl(ioctlGetBlacklist, nil, 64*1024)
	if err != nil {
		return nil, err
	}
	return decodeStringList(buf), nil
}

// SetBlacklist replaces the blacklisted identity set.
func (c *Client) SetBlacklist(identities []string) error {
	if !c.present() {
		return nil
	}
	_, err := c.ioctl(ioctlSetBlacklist, encodeStringList(identities), 0)
	return err
}

// GetWhitelist returns the whitelisted process paths.
func (c *Client) GetWhitelist() ([]string, error) {
	if !c.present() {
		return nil, nil
	}
	buf, err := c.ioctl(ioctlGetWhitelist, nil, 64*1024)
	if err != nil {
		return nil, err
	}
	return decodeStringList(buf), nil
}

// SetWhitelist replaces the whitelisted process path set.
func (c *Client) SetWhitelist(paths []string) error {
	if !c.present() {
		return nil
	}
	_, err := c.ioctl(ioctlSetWhitelist, encodeStringList(paths), 0)
	return err
}

// SetActive enables or disables device hiding globally.
func (c *Client) SetActive(active bool) error {
	if !c.present() {
		return nil
	}
	_, err := c.ioctl(ioctlSetActive, boolPayload(active), 0)
	return err
}

// GetActive reports whether device hiding is globally active.
func (c *Client) GetActive() (bool, error) {
	if !c.present() {
		return false, nil
	}
	buf, err := c.ioctl(ioctlGetActive, nil, 4)
	if err != nil {
		return false, err
	}
	return decodeBool(buf), nil
}

// SetInverse toggles HidHide's "inverse mode" (whitelist-only hiding).
func (c *Client) SetInverse(inverse bool) error {
	if !c.present() {
		return nil
	}
	_, err := c.ioctl(ioctlSetInverse, boolPayload(inverse), 0)
	return err
}

func boolPayload(v bool) []byte {
	buf := make([]byte, 4)
	if v {
		binary.LittleEndian.PutUint32(buf, 1)
	}
	return buf
}

func decodeBool(buf []byte) bool {
	if len(buf) < 4 {
		return false
	}
	return binary.LittleEndian.Uint32(buf) != 0
}
