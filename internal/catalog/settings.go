package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Settings are the operator-tunable knobs read from the TOML settings
// file. Pointer fields distinguish "unset" from an explicit zero.
type Settings struct {
	Screening ScreeningSettings `toml:"screening"`
	Speech    SpeechSettings    `toml:"speech"`
}

// ScreeningSettings adjusts session-wide timing.
type ScreeningSettings struct {
	// TimeoutMs overrides every task's response deadline.
	TimeoutMs *int `toml:"timeout-ms"`

	// TransitionMs overrides the neutral pause between trials.
	TransitionMs *int `toml:"transition-ms"`

	// Battery points at an external battery JSON file.
	Battery *string `toml:"battery"`
}

// SpeechSettings configures the text-to-speech adapter.
type SpeechSettings struct {
	// Command is the TTS binary to invoke (default: autodetect).
	Command *string `toml:"command"`

	// CeilingMs bounds how long a sound trial waits for speech to finish.
	CeilingMs *int `toml:"ceiling-ms"`
}

// LoadSettings reads the TOML settings file at path. A missing file is not
// an error; it yields zero-value settings.
func LoadSettings(path string) (Settings, error) {
	if path == "" {
		return Settings{}, fmt.Errorf("settings path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return Settings{}, nil
		}
		return Settings{}, fmt.Errorf("stat settings: %w", err)
	}
	var s Settings
	if _, err := toml.DecodeFile(path, &s); err != nil {
		return Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	return s, nil
}

// Apply overlays the settings onto a battery, returning the adjusted copy.
func (s Settings) Apply(tasks []TaskDefinition) []TaskDefinition {
	if s.Screening.TimeoutMs == nil {
		return tasks
	}
	out := make([]TaskDefinition, len(tasks))
	copy(out, tasks)
	for i := range out {
		out[i].Config.Timeout = time.Duration(*s.Screening.TimeoutMs) * time.Millisecond
	}
	return out
}

// TransitionPause returns the configured inter-trial pause, or def.
func (s Settings) TransitionPause(def time.Duration) time.Duration {
	if s.Screening.TransitionMs == nil {
		return def
	}
	return time.Duration(*s.Screening.TransitionMs) * time.Millisecond
}

// SpeechCeiling returns the configured speech wait ceiling, or def.
func (s Settings) SpeechCeiling(def time.Duration) time.Duration {
	if s.Speech.CeilingMs == nil {
		return def
	}
	return time.Duration(*s.Speech.CeilingMs) * time.Millisecond
}

// DefaultSettingsPath returns $XDG_CONFIG_HOME/lexiscreen/config.toml,
// falling back to ~/.config.
func DefaultSettingsPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil || home == "" {
			return filepath.Join(".", "lexiscreen", "config.toml")
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "lexiscreen", "config.toml")
}
