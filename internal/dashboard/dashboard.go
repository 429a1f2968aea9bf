// Package dashboard is the thin presentation layer the scheduler publishes
// stats to and reads operator toggles back from. Its own rendering
// internals are out of scope beyond this narrow interface; it exists here
// only enough to exercise lipgloss for the status line styling, the way
// the original's console dashboard prints a live status line.
package dashboard

import (
	"fmt"
	"io"
	"sync"

	"github.com/VishaL6i9/xinput-dinput-proxy/internal/model"
	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

// Dashboard holds the latest published stats and the operator-controlled
// toggles the scheduler consumes each cycle.
type Dashboard struct {
	mu sync.Mutex

	out io.Writer

	translationEnabled bool
	hidingEnabled      bool
	refreshRequested   bool

	status      string
	frameCount  uint64
	deltaMicros float64
	states      []model.ControllerState
}

// New builds a Dashboard with the initial toggle values loaded from
// configuration.
func New(out io.Writer, translationEnabled, hidingEnabled bool) *Dashboard {
	return &Dashboard{out: out, translationEnabled: translationEnabled, hidingEnabled: hidingEnabled}
}

// UpdateStats records the latest frame's timing and device snapshot and
// prints a one-line status.
func (d *Dashboard) UpdateStats(frameCount uint64, deltaMicros float64, states []model.ControllerState) {
	d.mu.Lock()
	d.frameCount = frameCount
	d.deltaMicros = deltaMicros
	d.states = states
	d.mu.Unlock()

	if d.out == nil {
		return
	}
	connected := 0
	for _, s := range states {
		if s.IsConnected {
			connected++
		}
	}
	hz := 0.0
	if deltaMicros > 0 {
		hz = 1000000 / deltaMicros
	}
	line := fmt.Sprintf("%s frame=%d rate=%.0fHz devices=%d %s",
		headerStyle.Render("proxy"), frameCount, hz, connected, d.statusStyled())
	fmt.Fprintln(d.out, line)
}

func (d *Dashboard) statusStyled() string {
	if d.status == "" {
		return okStyle.Render("running")
	}
	return warnStyle.Render(d.status)
}

// SetStatus sets the status message shown alongside stats.
func (d *Dashboard) SetStatus(message string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.status = message
}

// IsTranslationEnabled reports whether translation is currently enabled.
func (d *Dashboard) IsTranslationEnabled() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.translationEnabled
}

// SetTranslationEnabled toggles translation.
func (d *Dashboard) SetTranslationEnabled(enabled bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.translationEnabled = enabled
}

// IsHidingEnabled reports whether device hiding is currently enabled.
func (d *Dashboard) IsHidingEnabled() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.hidingEnabled
}

// SetHidingEnabled toggles device hiding.
func (d *Dashboard) SetHidingEnabled(enabled bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.hidingEnabled = enabled
}

// RequestRefresh marks a manual device rescan as requested.
func (d *Dashboard) RequestRefresh() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.refreshRequested = true
}

// IsRefreshRequested reports whether a manual rescan is pending.
func (d *Dashboard) IsRefreshRequested() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.refreshRequested
}

// ClearRefreshRequest clears the pending manual-rescan flag.
func (d *Dashboard) ClearRefreshRequest() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.refreshRequested = false
}
