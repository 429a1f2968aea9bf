// Package identity derives stable, textual device identities from the
// transient OS device paths exposed by HID enumeration and XInput-capable
// composite devices.
package identity

import "strings"

// ExtractIdentity derives the canonical identity from a raw OS device path:
// it locates the "HID#" token, then keeps the substring from that token up
// to (but not including) the third '#' delimiter, counting the token's own
// '#' as the first. Returns "" for
// paths that do not contain a "HID#" token.
func ExtractIdentity(devicePath string) string {
	idx := strings.Index(strings.ToUpper(devicePath), "HID#")
	if idx < 0 {
		return ""
	}
	rest := devicePath[idx:]

	hashes := 0
	for i, r := range rest {
		if r == '#' {
			hashes++
			if hashes == 3 {
				return rest[:i]
			}
		}
	}
	return rest
}

// BaseIdentity strips the "&IG_nn" interface suffix (case-insensitive, as
// observed on some OEM device paths) and everything following it — the
// per-interface instance/serial segments that differ between the several
// HID interfaces a single composite controller exposes — leaving only the
// common VID/PID prefix. When no "&IG_" marker is present, a trailing
// "\serial" segment is stripped instead.
func BaseIdentity(identity string) string {
	if identity == "" {
		return ""
	}

	upper := strings.ToUpper(identity)
	if idx := strings.Index(upper, "&IG_"); idx >= 0 {
		return identity[:idx]
	}

	if idx := strings.LastIndex(identity, `\`); idx >= 0 {
		return identity[:idx]
	}

	return identity
}
