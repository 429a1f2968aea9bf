//go:build windows

// Command gamepadproxyd is the XInput/DirectInput proxy daemon: it reads
// physical gamepads (vendor-API and raw HID), translates them through the
// configured filter pipeline, and emits synthetic XInput and DirectInput
// controllers via ViGEm.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/VishaL6i9/xinput-dinput-proxy/internal/capture"
	"github.com/VishaL6i9/xinput-dinput-proxy/internal/clock"
	"github.com/VishaL6i9/xinput-dinput-proxy/internal/config"
	"github.com/VishaL6i9/xinput-dinput-proxy/internal/dashboard"
	"github.com/VishaL6i9/xinput-dinput-proxy/internal/lifecycle"
	"github.com/VishaL6i9/xinput-dinput-proxy/internal/logsink"
	"github.com/VishaL6i9/xinput-dinput-proxy/internal/scheduler"
	"github.com/VishaL6i9/xinput-dinput-proxy/internal/translate"
	"github.com/VishaL6i9/xinput-dinput-proxy/internal/virtualdevice"
	"github.com/alecthomas/kong"
)

// cli is the daemon's command-line surface.
type cli struct {
	Config string `help:"Path to the INI configuration file." default:"gamepadproxy.ini" type:"path"`
}

func (c *cli) Run() error {
	log := logsink.New(os.Stdout)

	cfg, err := config.Load(c.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg.Watch(nil)

	clk := clock.New()
	capEngine := capture.New(clk, log)

	pipelineCfg := translate.DefaultConfig()
	pipelineCfg.SOCDEnabled = cfg.Bool(config.KeySOCDEnabled)
	pipelineCfg.SOCDMethod = translate.SOCDMethod(cfg.Int(config.KeySOCDMethod))
	pipelineCfg.DebounceEnabled = cfg.Bool(config.KeyDebouncingEnabled)
	pipelineCfg.DebounceMs = cfg.Int(config.KeyDebounceIntervalMs)
	pipelineCfg.DeadzoneEnabled = cfg.Bool(config.KeyStickDeadzoneEnabled)
	pipelineCfg.LeftStick = translate.StickDeadzone{
		Cutoff:       cfg.Float(config.KeyLeftStickDeadzone),
		AntiDeadzone: cfg.Float(config.KeyLeftStickAntiDZ),
	}
	pipelineCfg.RightStick = translate.StickDeadzone{
		Cutoff:       cfg.Float(config.KeyRightStickDeadzone),
		AntiDeadzone: cfg.Float(config.KeyRightStickAntiDZ),
	}
	pipeline := translate.New(clk, pipelineCfg)

	vdm := virtualdevice.New(pipeline, log)
	vdm.SetRumbleEnabled(cfg.Bool(config.KeyRumbleEnabled))
	vdm.SetRumbleIntensity(cfg.Float(config.KeyRumbleIntensity))
	vdm.EnableDeviceHiding(cfg.Bool(config.KeyHidHideEnabled))

	lc := lifecycle.New(vdm, clk, log)
	lc.SetMapping(cfg.Bool(config.KeyXInputToDInput), cfg.Bool(config.KeyDInputToXInput))

	dash := dashboard.New(os.Stdout, cfg.Bool(config.KeyTranslationEnabled), cfg.Bool(config.KeyHidHideEnabled))

	sched := scheduler.New(clk, capEngine, pipeline, vdm, lc, dash, log, cfg.Int(config.KeyPollingFrequency))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runErr := sched.Run(ctx)

	cfg.SetBool(config.KeyTranslationEnabled, dash.IsTranslationEnabled())
	cfg.SetBool(config.KeyHidHideEnabled, dash.IsHidingEnabled())
	if err := cfg.Save(); err != nil {
		log.Error("failed to persist configuration: %v", err)
	}

	return runErr
}

func main() {
	var c cli
	kctx := kong.Parse(&c,
		kong.Name("gamepadproxyd"),
		kong.Description("XInput/DirectInput proxy daemon"),
		kong.UsageOnError(),
	)
	kctx.FatalIfErrorf(kctx.Run())
}
