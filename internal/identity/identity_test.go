package identity_test

import (
	"testing"

	"github.com/VishaL6i9/xinput-dinput-proxy/internal/identity"
	"github.com/stretchr/testify/require"
)

func TestExtractIdentity(t *testing.T) {
	cases := []struct {
		name string
		path string
		want string
	}{
		{
			name: "three hash segments",
			path: `\\?\HID#VID_054C&PID_09CC&MI_03#7&2e418f3a&0&0000#{4d1e55b2-f16f-11cf-88cb-001111000030}`,
			want: `HID#VID_054C&PID_09CC&MI_03#7&2e418f3a&0&0000`,
		},
		{
			name: "fewer than three hashes returns whole tail",
			path: `HID#VID_045E&PID_028E`,
			want: `HID#VID_045E&PID_028E`,
		},
		{
			name: "no HID token",
			path: `\\?\USB#VID_045E&PID_028E`,
			want: "",
		},
		{
			name: "empty path",
			path: "",
			want: "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, identity.ExtractIdentity(tc.path))
		})
	}
}

func TestBaseIdentity(t *testing.T) {
	cases := []struct {
		name string
		id   string
		want string
	}{
		{
			name: "strips IG suffix and everything after it",
			id:   `HID#VID_045E&PID_02D1&IG_00#7&2e418f3a&0&0000`,
			want: `HID#VID_045E&PID_02D1`,
		},
		{
			name: "strips trailing serial segment",
			id:   `HID#VID_045E&PID_02D1&IG_00\7&2e418f3a&0&0000`,
			want: `HID#VID_045E&PID_02D1`,
		},
		{
			name: "no IG marker is unchanged apart from serial strip",
			id:   `HID#VID_054C&PID_09CC#7&2e418f3a&0&0000`,
			want: `HID#VID_054C&PID_09CC#7&2e418f3a&0&0000`,
		},
		{
			name: "empty",
			id:   "",
			want: "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, identity.BaseIdentity(tc.id))
		})
	}
}

func TestBaseIdentityDeduplicatesInterfaces(t *testing.T) {
	a := identity.BaseIdentity(`HID#VID_045E&PID_02D1&IG_00#7&2e418f3a&0&0000`)
	b := identity.BaseIdentity(`HID#VID_045E&PID_02D1&IG_01#7&2e418f3a&0&0001`)
	require.Equal(t, a, b, "interfaces of the same composite device must share a base identity")
}
