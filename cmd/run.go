package cmd

import (
	"fmt"
	"os"

	"github.com/abhisek/lexiscreen/internal/app"
	"github.com/abhisek/lexiscreen/internal/catalog"
	engine "github.com/abhisek/lexiscreen/internal/screening"
	"github.com/abhisek/lexiscreen/internal/speech"
	"github.com/abhisek/lexiscreen/internal/store"
	"github.com/spf13/cobra"
)

// runApp resolves settings, battery, speech, and storage, then launches
// the TUI.
func runApp(cmd *cobra.Command) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	tasks, err := resolveBattery(cmd, settings)
	if err != nil {
		return err
	}

	opts := app.Options{
		Tasks:   settings.Apply(tasks),
		Speaker: resolveSpeaker(cmd, settings),
		Config: engine.Config{
			SpeechCeiling:   settings.SpeechCeiling(engine.DefaultConfig().SpeechCeiling),
			TransitionPause: settings.TransitionPause(engine.DefaultConfig().TransitionPause),
		},
	}

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		// The session itself does not need the database; run without
		// history rather than refuse to start.
		fmt.Fprintln(os.Stderr, "warning: open store:", err)
		fmt.Fprintln(os.Stderr, "History and saving are unavailable.")
	} else {
		defer st.Close()
		opts.Store = st
	}

	return app.Run(opts)
}

// loadSettings reads the TOML settings from --config or the default path.
func loadSettings(cmd *cobra.Command) (catalog.Settings, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = catalog.DefaultSettingsPath()
	}
	s, err := catalog.LoadSettings(path)
	if err != nil {
		return catalog.Settings{}, fmt.Errorf("load settings: %w", err)
	}
	return s, nil
}

// resolveBattery picks the battery source: --battery flag, then the
// settings file, then the built-in battery.
func resolveBattery(cmd *cobra.Command, settings catalog.Settings) ([]catalog.TaskDefinition, error) {
	path, _ := cmd.Flags().GetString("battery")
	if path == "" && settings.Screening.Battery != nil {
		path = *settings.Screening.Battery
	}
	if path == "" {
		return catalog.DefaultBattery(), nil
	}
	tasks, err := catalog.LoadBattery(path)
	if err != nil {
		return nil, fmt.Errorf("load battery: %w", err)
	}
	return tasks, nil
}

// resolveSpeaker builds the TTS adapter: --no-sound forces silence, a
// configured command is required to exist, otherwise autodetect.
func resolveSpeaker(cmd *cobra.Command, settings catalog.Settings) engine.Speaker {
	if noSound, _ := cmd.Flags().GetBool("no-sound"); noSound {
		return speech.NullSpeaker{}
	}
	if settings.Speech.Command != nil && *settings.Speech.Command != "" {
		sp, err := speech.NewExecSpeaker(*settings.Speech.Command)
		if err != nil {
			fmt.Fprintln(os.Stderr, "warning: configured speech command unavailable:", err)
			return speech.Detect()
		}
		return sp
	}
	return speech.Detect()
}
