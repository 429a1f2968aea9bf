//go:build windows

package translate

import "math"

// applyDeadzone implements scaled-radial deadzone with anti-deadzone
// shaping (§4.5.3). Direction is preserved; magnitude is remapped from
// [cutoff, 1] to [antiDeadzone, 1] and clamped to 1.
func applyDeadzone(x, y int16, cfg StickDeadzone) (int16, int16) {
	d := cfg.Cutoff
	a := cfg.AntiDeadzone

	fx := float64(x) / 32767
	fy := float64(y) / 32767
	m := math.Sqrt(fx*fx + fy*fy)

	if m < d {
		return 0, 0
	}
	if m == 0 {
		return 0, 0
	}

	dx, dy := fx/m, fy/m

	denom := 1 - d
	if denom <= 0 {
		denom = 1
	}
	mPrime := (m - d) / denom

	mDoublePrime := mPrime
	if a > 0 {
		mDoublePrime = a + (1-a)*mPrime
	}
	if mDoublePrime > 1 {
		mDoublePrime = 1
	}

	outX := int16(clampRound(dx*mDoublePrime*32767, -32768, 32767))
	outY := int16(clampRound(dy*mDoublePrime*32767, -32768, 32767))
	return outX, outY
}

func clampRound(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return math.Round(v)
}
