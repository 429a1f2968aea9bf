//go:build windows

// Package scheduler owns the main proxy loop: polling physical devices,
// reconciling virtual-device lifecycle, translating and forwarding input,
// publishing stats, and adaptively rescanning for new devices.
//
// Grounded on original_source/src/main.cpp's while(g_running) loop almost
// line for line, with context.Context cancellation (driven by
// os/signal.NotifyContext in cmd/gamepadproxyd) standing in for the
// original's SetConsoleCtrlHandler-based g_running atomic.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/VishaL6i9/xinput-dinput-proxy/internal/capture"
	"github.com/VishaL6i9/xinput-dinput-proxy/internal/clock"
	"github.com/VishaL6i9/xinput-dinput-proxy/internal/dashboard"
	"github.com/VishaL6i9/xinput-dinput-proxy/internal/lifecycle"
	"github.com/VishaL6i9/xinput-dinput-proxy/internal/translate"
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

const (
	rescanNoDevices   = 5 * time.Second
	rescanWithDevices = 30 * time.Second
)

// Scheduler composes the engine, pipeline, virtual-device manager,
// lifecycle manager, and dashboard into one real-time loop.
type Scheduler struct {
	clk       *clock.Clock
	cap       *capture.Engine
	pipeline  *translate.Pipeline
	vdm       *virtualdevice.Manager
	lifecycle *lifecycle.Manager
	dash      *dashboard.Dashboard
	log       Logger

	pollingHz int
}

// New builds a Scheduler. pollingHz defaults to 1000 when <= 0.
func New(clk *clock.Clock, cap *capture.Engine, pipeline *translate.Pipeline, vdm *virtualdevice.Manager,
	lc *lifecycle.Manager, dash *dashboard.Dashboard, log Logger, pollingHz int) *Scheduler {
	if log == nil {
		log = nullLogger{}
	}
	if pollingHz <= 0 {
		pollingHz = 1000
	}
	return &Scheduler{clk: clk, cap: cap, pipeline: pipeline, vdm: vdm, lifecycle: lc, dash: dash, log: log, pollingHz: pollingHz}
}

// Run initializes the capture engine and virtual-device manager (tolerating
// a virtual-bus failure by continuing in input-test mode) and then runs
// the main loop until ctx is canceled, performing a graceful shutdown on
// the way out.
func (s *Scheduler) Run(ctx context.Context) error {
	if err := s.cap.Initialize(); err != nil {
		return fmt.Errorf("scheduler: capture init: %w", err)
	}

	testMode := false
	if err := s.vdm.Initialize(); err != nil {
		testMode = true
		s.log.Error("scheduler: ViGEmBus not available, running in input-test mode: %v", err)
	} else if s.dash.IsHidingEnabled() {
		if err := s.vdm.ConnectHiding(); err != nil {
			s.log.Error("scheduler: HidHide driver not available, physical devices will not be hidden: %v", err)
		}
	}

	s.vdm.SetRumbleCallback(func(userID int, left, right float64) {
		s.cap.SetVibration(userID, left, right)
	})

	targetInterval := time.Second / time.Duration(s.pollingHz)
	lastTime := s.clk.Now()
	lastRefresh := lastTime
	var frameCount uint64

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		default:
		}

		now := s.clk.Now()
		deltaMicros := s.clk.TicksToMicros(now - lastTime)

		s.cap.Update(time.Duration(deltaMicros) * time.Microsecond)
		states := s.cap.Snapshot()

		translationEnabled := s.dash.IsTranslationEnabled() && !testMode
		hidingEnabled := s.dash.IsHidingEnabled()

		s.lifecycle.Process(states, translationEnabled, hidingEnabled)

		if translationEnabled {
			translated := s.pipeline.Translate(states)
			if err := s.vdm.Send(translated); err != nil {
				s.log.Error("scheduler: send failed: %v", err)
			}
		}

		s.dash.UpdateStats(frameCount, deltaMicros, states)
		frameCount++

		connected := 0
		for _, st := range states {
			if st.IsConnected {
				connected++
			}
		}
		refreshInterval := rescanWithDevices
		if connected == 0 {
			refreshInterval = rescanNoDevices
		}

		if s.dash.IsRefreshRequested() {
			s.cap.RefreshDevices()
			lastRefresh = now
			s.dash.ClearRefreshRequest()
			s.log.Info("scheduler: manual device refresh triggered")
		} else if s.clk.TicksToMicros(now-lastRefresh) > float64(refreshInterval.Microseconds()) {
			s.cap.RefreshDevices()
			lastRefresh = now
		}

		elapsedMicros := s.clk.TicksToMicros(s.clk.Now() - now)
		sleepFor := targetInterval - time.Duration(elapsedMicros)*time.Microsecond
		if sleepFor > 0 {
			timer := time.NewTimer(sleepFor)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				break loop
			}
		}
		lastTime = s.clk.Now()
	}

	s.lifecycle.Cleanup()
	s.vdm.Shutdown()
	s.cap.Shutdown()
	return nil
}
