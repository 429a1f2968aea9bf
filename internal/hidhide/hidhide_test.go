//go:build windows

package hidhide

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeStringListRoundTrips(t *testing.T) {
	items := []string{
		`HID#VID_045E&PID_02D1#7&2e418f3a&0&0000`,
		`HID#VID_054C&PID_09CC#7&1a2b3c4d&0&0000`,
	}

	buf := encodeStringList(items)
	got := decodeStringList(buf)

	require.Equal(t, items, got)
}

func TestDecodeStringListEmptyIsNoEntries(t *testing.T) {
	buf := encodeStringList(nil)
	got := decodeStringList(buf)
	require.Nil(t, got)
}
