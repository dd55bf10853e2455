package catalog

import "time"

// Default timing used by the built-in battery. Screening literature uses
// generous deadlines; the point is relative variability, not speed pressure.
const (
	DefaultTimeout = 6 * time.Second
	DefaultFlash   = 250 * time.Millisecond
	DefaultMask    = 400 * time.Millisecond
)

// DefaultBattery returns the built-in screening battery in presentation
// order. Callers receive a fresh copy on every call so one run can never
// mutate another's content.
func DefaultBattery() []TaskDefinition {
	tasks := []TaskDefinition{
		{
			ID:           "warmup",
			Type:         TypeLetterMatch,
			Title:        "Warm-up",
			Instructions: "Let's practice first. A letter appears at the top. Pick the same letter from the choices below. This round does not count.",
			Variant:      "plain",
			Config:       TrialConfig{Timeout: 10 * time.Second},
			Excluded:     true,
			Trials: []TrialSpec{
				{Target: "a", Distractors: []string{"o", "e"}},
				{Target: "s", Distractors: []string{"z", "x"}},
			},
		},
		{
			ID:           "letters-mirror",
			Type:         TypeLetterMatch,
			Title:        "Letter Matching",
			Instructions: "A letter appears at the top. Pick the same letter from the choices below, as quickly as you can.",
			Variant:      "plain",
			Config:       TrialConfig{Timeout: DefaultTimeout},
			Trials: []TrialSpec{
				{Target: "b", Distractors: []string{"d", "p", "q"}},
				{Target: "d", Distractors: []string{"b", "q", "p"}},
				{Target: "p", Distractors: []string{"q", "b", "d"}},
				{Target: "q", Distractors: []string{"p", "d", "b"}},
				{Target: "m", Distractors: []string{"n", "w", "u"}},
				{Target: "n", Distractors: []string{"m", "u", "h"}},
				{Target: "u", Distractors: []string{"n", "v", "w"}},
				{Target: "w", Distractors: []string{"m", "v", "u"}},
			},
		},
		{
			ID:           "letters-spaced",
			Type:         TypeLetterMatch,
			Title:        "Letter Matching (wide spacing)",
			Instructions: "Same as before, but the letters are spaced differently. Pick the matching letter.",
			Variant:      "spaced",
			Config:       TrialConfig{Timeout: DefaultTimeout},
			Trials: []TrialSpec{
				{Target: "b", Distractors: []string{"d", "p", "q"}},
				{Target: "q", Distractors: []string{"g", "p", "d"}},
				{Target: "h", Distractors: []string{"n", "b", "k"}},
				{Target: "f", Distractors: []string{"t", "l", "k"}},
				{Target: "i", Distractors: []string{"j", "l", "t"}},
				{Target: "e", Distractors: []string{"c", "o", "a"}},
			},
		},
		{
			ID:           "sounds",
			Type:         TypeSoundMatch,
			Title:        "Sound Matching",
			Instructions: "You will hear a sound. Pick the letter that makes that sound.",
			Variant:      "plain",
			Config:       TrialConfig{Timeout: 8 * time.Second},
			Trials: []TrialSpec{
				{Target: "b", Distractors: []string{"p", "d"}},
				{Target: "t", Distractors: []string{"d", "k"}},
				{Target: "m", Distractors: []string{"n", "l"}},
				{Target: "s", Distractors: []string{"z", "f"}},
				{Target: "g", Distractors: []string{"k", "j"}},
				{Target: "v", Distractors: []string{"f", "w"}},
			},
		},
		{
			ID:           "flash",
			Type:         TypeMaskedFlash,
			Title:        "Quick Flash",
			Instructions: "A letter flashes very briefly and is then hidden. Pick the letter you saw.",
			Variant:      "plain",
			Config: TrialConfig{
				Timeout:       DefaultTimeout,
				FlashDuration: DefaultFlash,
				MaskDuration:  DefaultMask,
			},
			Trials: []TrialSpec{
				{Target: "b", Distractors: []string{"d", "p"}},
				{Target: "d", Distractors: []string{"b", "q"}},
				{Target: "n", Distractors: []string{"m", "u"}},
				{Target: "p", Distractors: []string{"q", "b"}},
				{Target: "e", Distractors: []string{"a", "o"}},
				{Target: "g", Distractors: []string{"q", "p"}},
			},
		},
		{
			ID:           "words",
			Type:         TypeLexicalDecision,
			Title:        "Real or Not?",
			Instructions: "A word appears. Decide whether it is a real word or a made-up word.",
			Variant:      "plain",
			Config:       TrialConfig{Timeout: 5 * time.Second},
			Trials: []TrialSpec{
				{Stimulus: "house", Real: true},
				{Stimulus: "blorft", Real: false},
				{Stimulus: "garden", Real: true},
				{Stimulus: "wupe", Real: false},
				{Stimulus: "doat", Real: false},
				{Stimulus: "bread", Real: true},
				{Stimulus: "plim", Real: false},
				{Stimulus: "window", Real: true},
				{Stimulus: "trisk", Real: false},
				{Stimulus: "paper", Real: true},
			},
		},
	}

	out := make([]TaskDefinition, len(tasks))
	for i, t := range tasks {
		out[i] = t
		out[i].Trials = append([]TrialSpec(nil), t.Trials...)
	}
	return out
}
