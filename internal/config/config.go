// Package config is the INI-backed settings store consumed by the
// scheduler and the translation/virtual-device layers, with fsnotify-backed
// reload so the store's getters reflect edits made to the file while the
// proxy runs. The daemon reads its settings once at startup and does not
// re-apply them after a reload.
//
// Grounded on the original's ConfigManager (a singleton over an INI file,
// consumed at startup in main.cpp) and on soarqin-GameControllerView's use
// of viper for its own settings store; extended with fsnotify-backed
// WatchConfig the original did not have.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Keys recognized by the store; every other key present in the file is
// preserved verbatim on Save but never interpreted.
const (
	KeyPollingFrequency     = "polling_frequency"
	KeyXInputToDInput       = "xinput_to_dinput"
	KeyDInputToXInput       = "dinput_to_xinput"
	KeySOCDEnabled          = "socd_enabled"
	KeySOCDMethod           = "socd_method"
	KeyDebouncingEnabled    = "debouncing_enabled"
	KeyDebounceIntervalMs   = "debounce_interval_ms"
	KeyStickDeadzoneEnabled = "stick_deadzone_enabled"
	KeyLeftStickDeadzone    = "left_stick_deadzone"
	KeyRightStickDeadzone   = "right_stick_deadzone"
	KeyLeftStickAntiDZ      = "left_stick_anti_deadzone"
	KeyRightStickAntiDZ     = "right_stick_anti_deadzone"
	KeyRumbleEnabled        = "rumble_enabled"
	KeyRumbleIntensity      = "rumble_intensity"
	KeyHidHideEnabled       = "hidhide_enabled"
	KeyTranslationEnabled   = "translation_enabled"
	KeySaveLogsOnExit       = "save_logs_on_exit"
)

var defaults = map[string]any{
	KeyPollingFrequency:     1000,
	KeyXInputToDInput:       true,
	KeyDInputToXInput:       true,
	KeySOCDEnabled:          true,
	KeySOCDMethod:           2,
	KeyDebouncingEnabled:    false,
	KeyDebounceIntervalMs:   10,
	KeyStickDeadzoneEnabled: true,
	KeyLeftStickDeadzone:    0.15,
	KeyRightStickDeadzone:   0.15,
	KeyLeftStickAntiDZ:      0.0,
	KeyRightStickAntiDZ:     0.0,
	KeyRumbleEnabled:        true,
	KeyRumbleIntensity:      1.0,
	KeyHidHideEnabled:       true,
	KeyTranslationEnabled:   true,
	KeySaveLogsOnExit:       true,
}

// Store wraps a viper instance pointed at one INI file.
type Store struct {
	mu sync.RWMutex
	v  *viper.Viper
	onChange func()
}

// Load reads (or creates, with defaults, if absent) the INI file at path.
func Load(path string) (*Store, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("ini")
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	if err := v.ReadInConfig(); err != nil {
		// With an explicit SetConfigFile, a missing file surfaces as a
		// not-exist error rather than ConfigFileNotFoundError.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		// No file yet: write one seeded with defaults.
		if werr := v.WriteConfigAs(path); werr != nil {
			return nil, fmt.Errorf("config: write default %s: %w", path, werr)
		}
	}

	return &Store{v: v}, nil
}

// Watch installs an fsnotify-backed reload: future reads reflect on-disk
// edits without restarting the process. onChange, if non-nil, is invoked
// after each successful reload.
func (s *Store) Watch(onChange func()) {
	s.mu.Lock()
	s.onChange = onChange
	s.mu.Unlock()

	s.v.OnConfigChange(func(fsnotify.Event) {
		s.mu.RLock()
		cb := s.onChange
		s.mu.RUnlock()
		if cb != nil {
			cb()
		}
	})
	s.v.WatchConfig()
}

// Bool reads a boolean key.
func (s *Store) Bool(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v.GetBool(key)
}

// Int reads an integer key.
func (s *Store) Int(key string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v.GetInt(key)
}

// Float reads a floating-point key.
func (s *Store) Float(key string) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v.GetFloat64(key)
}

// SetBool writes a boolean key in memory; call Save to persist.
func (s *Store) SetBool(key string, v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.v.Set(key, v)
}

// SetInt writes an integer key in memory; call Save to persist.
func (s *Store) SetInt(key string, v int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.v.Set(key, v)
}

// SetFloat writes a float key in memory; call Save to persist.
func (s *Store) SetFloat(key string, v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.v.Set(key, v)
}

// Save writes the current key set back to the INI file, preserving any
// unrecognized keys viper already loaded.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.v.WriteConfig()
}
