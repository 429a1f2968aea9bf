//go:build windows

package translate

// debounce applies per-userID button debouncing. Out-of-range user IDs
// (outside 0..15) bypass debouncing entirely. Within range, a single
// last-change tick is tracked per user: if less than intervalMs has
// elapsed since the last accepted change, the new buttons are rejected in
// favor of the buttons last accepted for that user, which the pipeline
// keeps alongside the change tick (it does not retain a full previous
// Gamepad).
func (p *Pipeline) debounce(userID int, buttons uint16, intervalMs int) uint16 {
	if userID < 0 || userID > 15 {
		return buttons
	}

	now := p.clk.Now()
	intervalTicks := p.clk.MicrosToTicks(float64(intervalMs) * 1000)

	p.mu.Lock()
	defer p.mu.Unlock()

	last := p.lastChangeTick[userID]
	hasLast := p.hasLastTick[userID]

	if hasLast && now-last < intervalTicks {
		return p.lastAcceptedButtons[userID]
	}

	p.lastChangeTick[userID] = now
	p.hasLastTick[userID] = true
	p.lastAcceptedButtons[userID] = buttons
	return buttons
}
