// Package screening contains the trial orchestration state machine. It
// advances through tasks and trials, manages timing windows, locks input
// between presentation and response, and streams each finalized trial into
// the metrics aggregator. The package is UI-independent: a Presenter
// renders, a Speaker talks, and time is injected so tests can drive the
// machine deterministically.
package screening

import (
	"time"

	"github.com/abhisek/lexiscreen/internal/metrics"
)

// Stimulus describes what the adapter should show for the current trial.
type Stimulus struct {
	// Text is the visible stimulus. Empty for audio trials and for the
	// neutral placeholder after a mask.
	Text string

	// Masked is set while the masking overlay replaces the target.
	Masked bool

	// Audio is set while a sound trial is waiting for speech to finish.
	Audio bool

	// Variant is the task's typographic variant (catalog.TaskDefinition).
	Variant string
}

// Presenter is the rendering side of the presentation adapter. It owns no
// timing or correctness logic. Any returned error is treated by the
// orchestrator as a forced timeout for the current trial; it must never
// stall the session.
type Presenter interface {
	RenderInstructions(title, text string) error
	RenderStimulus(s Stimulus) error
	RenderOptions(values []string) error
	RenderBinaryChoice(stimulus string) error
	ClearPresentation() error
	SessionFinished(snapshot metrics.SessionData)
}

// Speaker is the speech capability. Speak must return promptly and invoke
// done from a separate goroutine when playback completes or fails; it must
// never invoke done synchronously and never propagate errors — a failed
// utterance simply completes. Cancel supersedes any in-flight utterance.
type Speaker interface {
	Speak(text string, done func())
	Cancel()
}

// Config tunes session-wide timing that is not part of task definitions.
type Config struct {
	// SpeechCeiling bounds how long a sound trial waits for the Speaker's
	// completion signal before opening the response window anyway.
	SpeechCeiling time.Duration

	// TransitionPause is the neutral gap between trials. No feedback is
	// shown during it.
	TransitionPause time.Duration
}

// DefaultConfig returns the standard timing configuration.
func DefaultConfig() Config {
	return Config{
		SpeechCeiling:   4 * time.Second,
		TransitionPause: 600 * time.Millisecond,
	}
}

// State is the orchestrator's current position in the session lifecycle.
type State int

const (
	// StateIdle is the initial state, before the begin signal.
	StateIdle State = iota

	// StateInstructions shows the current task's instruction text.
	StateInstructions

	// StatePresenting covers stimulus presentation: flash/mask phases and
	// speech playback. Input is locked; no options exist yet.
	StatePresenting

	// StateAwaiting is the response-or-timeout window.
	StateAwaiting

	// StateTransitioning is the neutral pause between trials.
	StateTransitioning

	// StateFinished is terminal; the session is closed for recording.
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInstructions:
		return "instructions"
	case StatePresenting:
		return "presenting"
	case StateAwaiting:
		return "awaiting"
	case StateTransitioning:
		return "transitioning"
	case StateFinished:
		return "finished"
	}
	return "unknown"
}
