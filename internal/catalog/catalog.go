// Package catalog holds the screening battery content: task definitions,
// trial specs, and their timing configuration. Definitions are pure data —
// all behavior lives in the screening and metrics packages.
package catalog

import "time"

// TaskType identifies the presentation/scoring variant of a task.
type TaskType string

const (
	// TypeLetterMatch shows a target letter and asks the subject to find it
	// among visually similar distractors.
	TypeLetterMatch TaskType = "letter_match"

	// TypeSoundMatch speaks a phoneme and asks the subject to pick the
	// letter that makes that sound.
	TypeSoundMatch TaskType = "sound_match"

	// TypeMaskedFlash flashes a target briefly, masks it, then asks the
	// subject to identify what they saw.
	TypeMaskedFlash TaskType = "masked_flash"

	// TypeLexicalDecision shows a letter string and asks whether it is a
	// real word.
	TypeLexicalDecision TaskType = "lexical_decision"
)

// Valid reports whether t is one of the known task types.
func (t TaskType) Valid() bool {
	switch t {
	case TypeLetterMatch, TypeSoundMatch, TypeMaskedFlash, TypeLexicalDecision:
		return true
	}
	return false
}

// Binary choice labels used by lexical decision trials. The aggregator
// compares these values case-insensitively.
const (
	ChoiceReal    = "real"
	ChoiceNotReal = "not-real"
)

// TrialConfig carries the per-task timing parameters.
type TrialConfig struct {
	// Timeout is the response deadline once the option window opens.
	Timeout time.Duration

	// FlashDuration is how long a masked-flash target stays visible.
	// Zero for non-masking tasks.
	FlashDuration time.Duration

	// MaskDuration is how long the mask replaces the target.
	// Zero for non-masking tasks.
	MaskDuration time.Duration
}

// TrialSpec is a single stimulus definition. For option-based tasks the
// subject picks Target out of Target+Distractors. For lexical decision
// tasks Stimulus is the letter string shown and Real marks whether it is
// an actual word; Target and Distractors are unused.
type TrialSpec struct {
	Target      string   `json:"target,omitempty"`
	Distractors []string `json:"distractors,omitempty"`
	Stimulus    string   `json:"stimulus,omitempty"`
	Real        bool     `json:"real,omitempty"`
}

// TaskDefinition describes one ordered group of trials. Immutable once
// loaded; the screening engine never writes to it.
type TaskDefinition struct {
	// ID uniquely identifies the task within the battery.
	ID string

	// Type selects the presentation variant.
	Type TaskType

	// Title is the short name shown in instructions and reports.
	Title string

	// Instructions is the text read to the subject before the task starts.
	Instructions string

	// Variant names the typographic presentation (e.g. "plain", "spaced",
	// "mixed-case"). Reported in exports; rendering is up to the adapter.
	Variant string

	// Config holds the timing parameters for every trial in this task.
	Config TrialConfig

	// Trials is the ordered stimulus sequence.
	Trials []TrialSpec

	// Excluded marks warmup tasks that contribute no records to scoring.
	Excluded bool
}

// AnswerTarget returns the canonical correct answer for a trial of this
// task: the target value for option tasks, or the real/not-real label for
// lexical decision trials.
func (d *TaskDefinition) AnswerTarget(spec TrialSpec) string {
	if d.Type == TypeLexicalDecision {
		if spec.Real {
			return ChoiceReal
		}
		return ChoiceNotReal
	}
	return spec.Target
}
