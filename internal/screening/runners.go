package screening

import (
	"github.com/abhisek/lexiscreen/internal/catalog"
)

// runner is one presentation variant. The closed set of variants keeps the
// orchestrator's transition logic type-independent: each runner owns only
// its distinct phase and option-construction behavior.
type runner interface {
	// begin renders the trial's stimulus and either opens the response
	// window immediately or schedules the first timed phase.
	begin(o *Orchestrator, task *catalog.TaskDefinition, spec catalog.TrialSpec) error

	// elapse handles a fired presentation phase (flash end, mask end,
	// speech ceiling). Never called for variants without timed phases.
	elapse(o *Orchestrator, task *catalog.TaskDefinition, spec catalog.TrialSpec, p phase) error
}

func runnerFor(t catalog.TaskType) runner {
	switch t {
	case catalog.TypeSoundMatch:
		return audioRunner{}
	case catalog.TypeMaskedFlash:
		return maskingRunner{}
	case catalog.TypeLexicalDecision:
		return lexicalRunner{}
	default:
		return visualRunner{}
	}
}

// visualRunner shows the target and opens the window immediately.
type visualRunner struct{}

func (visualRunner) begin(o *Orchestrator, task *catalog.TaskDefinition, spec catalog.TrialSpec) error {
	if err := o.presenter.RenderStimulus(Stimulus{Text: spec.Target, Variant: task.Variant}); err != nil {
		return err
	}
	opts := o.shuffledOptions(spec.Target, spec.Distractors)
	if err := o.presenter.RenderOptions(opts); err != nil {
		return err
	}
	o.openWindowLocked(spec.Target, opts)
	return nil
}

func (visualRunner) elapse(*Orchestrator, *catalog.TaskDefinition, catalog.TrialSpec, phase) error {
	return nil
}

// audioRunner speaks the target first. The response window — and the
// reaction-time clock — opens only after playback completes, or after the
// wait ceiling when the speech capability fails silently.
type audioRunner struct{}

func (audioRunner) begin(o *Orchestrator, task *catalog.TaskDefinition, spec catalog.TrialSpec) error {
	if err := o.presenter.RenderStimulus(Stimulus{Audio: true, Variant: task.Variant}); err != nil {
		return err
	}
	gen := o.gen
	o.scheduleLocked(phaseSpeechCeiling, o.cfg.SpeechCeiling)
	o.speaker.Speak(spec.Target, func() { o.speechFinished(gen) })
	return nil
}

func (audioRunner) elapse(o *Orchestrator, task *catalog.TaskDefinition, spec catalog.TrialSpec, p phase) error {
	if p != phaseSpeechCeiling {
		return nil
	}
	opts := o.shuffledOptions(spec.Target, spec.Distractors)
	if err := o.presenter.RenderOptions(opts); err != nil {
		return err
	}
	o.openWindowLocked(spec.Target, opts)
	return nil
}

// maskingRunner flashes the target, masks it, then shows a neutral
// placeholder with the options. Responses during flash/mask are
// structurally impossible: no options exist and input stays locked.
type maskingRunner struct{}

func (maskingRunner) begin(o *Orchestrator, task *catalog.TaskDefinition, spec catalog.TrialSpec) error {
	if err := o.presenter.RenderStimulus(Stimulus{Text: spec.Target, Variant: task.Variant}); err != nil {
		return err
	}
	o.scheduleLocked(phaseFlashEnd, task.Config.FlashDuration)
	return nil
}

func (maskingRunner) elapse(o *Orchestrator, task *catalog.TaskDefinition, spec catalog.TrialSpec, p phase) error {
	switch p {
	case phaseFlashEnd:
		if err := o.presenter.RenderStimulus(Stimulus{Masked: true, Variant: task.Variant}); err != nil {
			return err
		}
		o.scheduleLocked(phaseMaskEnd, task.Config.MaskDuration)
	case phaseMaskEnd:
		if err := o.presenter.RenderStimulus(Stimulus{Variant: task.Variant}); err != nil {
			return err
		}
		opts := o.shuffledOptions(spec.Target, spec.Distractors)
		if err := o.presenter.RenderOptions(opts); err != nil {
			return err
		}
		o.openWindowLocked(spec.Target, opts)
	}
	return nil
}

// lexicalRunner shows the stimulus word with the fixed real/not-real
// choice and opens the window immediately.
type lexicalRunner struct{}

func (lexicalRunner) begin(o *Orchestrator, task *catalog.TaskDefinition, spec catalog.TrialSpec) error {
	if err := o.presenter.RenderBinaryChoice(spec.Stimulus); err != nil {
		return err
	}
	o.openWindowLocked(task.AnswerTarget(spec), []string{catalog.ChoiceReal, catalog.ChoiceNotReal})
	return nil
}

func (lexicalRunner) elapse(*Orchestrator, *catalog.TaskDefinition, catalog.TrialSpec, phase) error {
	return nil
}
