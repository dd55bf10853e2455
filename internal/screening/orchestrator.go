package screening

import (
	"fmt"
	"math/rand"
	"os"
	"sync"
	"time"

	"github.com/abhisek/lexiscreen/internal/catalog"
	"github.com/abhisek/lexiscreen/internal/metrics"
)

// phase tags the single pending deadline. Entering any new phase replaces
// the previous deadline, which is what cancels stale timers.
type phase int

const (
	phaseNone phase = iota
	phaseFlashEnd
	phaseMaskEnd
	phaseSpeechCeiling
	phaseResponseTimeout
	phaseTransitionEnd
)

type deadline struct {
	phase phase
	due   time.Time
	gen   uint64
}

// Orchestrator drives one screening session through the task battery. All
// entry points (Begin, Acknowledge, Submit, Tick, and the Speaker's done
// callback) serialize on one mutex; within it the machine is strictly
// single-threaded.
type Orchestrator struct {
	// Now supplies timestamps; replaceable in tests. Defaults to time.Now.
	Now func() time.Time

	// Logf records diagnostic warnings. Defaults to stderr.
	Logf func(format string, args ...any)

	mu        sync.Mutex
	tasks     []catalog.TaskDefinition
	agg       *metrics.Aggregator
	presenter Presenter
	speaker   Speaker
	cfg       Config
	rng       *rand.Rand

	state      State
	taskIndex  int
	trialIndex int

	// gen increments on every trial (and session) boundary. Deadlines and
	// speech callbacks carry the gen they were scheduled under; a stale
	// gen means the event was superseded and is discarded.
	gen uint64

	// inputLocked gates Submit. It is the sole mutual-exclusion device for
	// the response race: the first of selection/deadline wins, then
	// re-locks, and the loser is discarded.
	inputLocked bool

	trial    *metrics.TrialContext
	pending  deadline
	finished bool
}

// New creates an orchestrator over the given battery. The aggregator,
// presenter and speaker are required; rng seeds the per-trial option
// shuffle (pass nil for a time-seeded source).
func New(tasks []catalog.TaskDefinition, agg *metrics.Aggregator, p Presenter, sp Speaker, cfg Config, rng *rand.Rand) *Orchestrator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if cfg.SpeechCeiling <= 0 {
		cfg.SpeechCeiling = DefaultConfig().SpeechCeiling
	}
	if cfg.TransitionPause <= 0 {
		cfg.TransitionPause = DefaultConfig().TransitionPause
	}
	return &Orchestrator{
		Now: time.Now,
		Logf: func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, "warning: "+format+"\n", args...)
		},
		tasks:     tasks,
		agg:       agg,
		presenter: p,
		speaker:   sp,
		cfg:       cfg,
		rng:       rng,
		state:     StateIdle,
	}
}

// State returns the current lifecycle state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Progress returns the current task index, trial index, and battery size.
func (o *Orchestrator) Progress() (taskIndex, trialIndex, taskCount int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.taskIndex, o.trialIndex, len(o.tasks)
}

// CurrentTask returns the active task definition, or nil outside a task.
func (o *Orchestrator) CurrentTask() *catalog.TaskDefinition {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.taskIndex < 0 || o.taskIndex >= len(o.tasks) {
		return nil
	}
	return &o.tasks[o.taskIndex]
}

// Snapshot returns the aggregator's current session view.
func (o *Orchestrator) Snapshot() metrics.SessionData {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.agg.Snapshot()
}

// NextDue reports the pending deadline, if any. The UI uses it to decide
// whether it still needs to tick.
func (o *Orchestrator) NextDue() (time.Time, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.pending.phase == phaseNone {
		return time.Time{}, false
	}
	return o.pending.due, true
}

// Begin starts the session: loads the first task and shows its
// instructions. A begin signal in any state but Idle is discarded.
func (o *Orchestrator) Begin() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != StateIdle {
		return
	}
	o.showInstructionsLocked()
}

// Acknowledge is the continue signal from the instructions screen. Unless
// the task is excluded from scoring it opens a TaskResult, then presents
// the first trial.
func (o *Orchestrator) Acknowledge() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != StateInstructions {
		return
	}
	task := &o.tasks[o.taskIndex]
	if !task.Excluded {
		o.agg.OpenTask(task.ID, task.Type, task.Title, task.Variant)
	}
	o.trialIndex = 0
	o.presentTrialLocked()
}

// Submit delivers the subject's selection. Responses while input is locked
// are discarded, not queued; the first of selection/deadline wins.
func (o *Orchestrator) Submit(value string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != StateAwaiting || o.inputLocked {
		return
	}
	o.finalizeLocked(value, false)
}

// Tick advances wall-clock time. It fires every deadline that has come
// due, in order, so a test can jump a fake clock across several phases in
// one call. The UI calls it on a short interval while a session runs.
func (o *Orchestrator) Tick(now time.Time) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i := 0; i < 8; i++ { // chained phases are short; 8 is plenty
		if o.pending.phase == phaseNone || now.Before(o.pending.due) {
			return
		}
		d := o.pending
		o.pending = deadline{}
		if d.gen != o.gen {
			continue // superseded
		}
		o.elapseLocked(d.phase)
	}
}

// speechFinished is the Speaker completion callback for generation gen.
func (o *Orchestrator) speechFinished(gen uint64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if gen != o.gen || o.state != StatePresenting || o.pending.phase != phaseSpeechCeiling {
		return // superseded or already opened by the ceiling
	}
	o.pending = deadline{}
	o.elapseLocked(phaseSpeechCeiling)
}

// showInstructionsLocked loads the task at taskIndex, or finishes the
// session when the battery is exhausted.
func (o *Orchestrator) showInstructionsLocked() {
	if o.taskIndex >= len(o.tasks) {
		o.finishLocked()
		return
	}
	task := &o.tasks[o.taskIndex]
	o.state = StateInstructions
	o.pending = deadline{}
	if err := o.presenter.RenderInstructions(task.Title, task.Instructions); err != nil {
		// Instructions are not a timed trial; log and wait for the
		// acknowledge signal anyway.
		o.Logf("render instructions for %s: %v", task.ID, err)
	}
}

// presentTrialLocked begins the trial at trialIndex, dispatching to the
// task type's runner.
func (o *Orchestrator) presentTrialLocked() {
	task := &o.tasks[o.taskIndex]
	if o.trialIndex >= len(task.Trials) {
		o.completeTaskLocked()
		return
	}

	o.gen++
	o.state = StatePresenting
	o.inputLocked = true
	o.trial = nil
	o.pending = deadline{}

	r := runnerFor(task.Type)
	if err := r.begin(o, task, task.Trials[o.trialIndex]); err != nil {
		o.forceTimeoutLocked(err)
	}
}

// openWindowLocked starts the response window: timestamps the trial in the
// aggregator, unlocks input, and arms the timeout. Reaction time is
// measured from this moment — after audio playback and after mask phases.
func (o *Orchestrator) openWindowLocked(target string, options []string) {
	task := &o.tasks[o.taskIndex]
	if !task.Excluded {
		o.trial = o.agg.StartTrial(o.trialIndex, target, options)
	}
	o.state = StateAwaiting
	o.inputLocked = false
	o.scheduleLocked(phaseResponseTimeout, task.Config.Timeout)
}

// finalizeLocked ends the response window exactly once: re-locks input,
// forwards the outcome to the aggregator, and starts the neutral
// transition pause.
func (o *Orchestrator) finalizeLocked(selected string, wasTimeout bool) {
	o.inputLocked = true
	o.pending = deadline{}

	task := &o.tasks[o.taskIndex]
	if !task.Excluded {
		o.agg.RecordResponse(o.trial, selected, wasTimeout)
	}
	o.trial = nil

	if err := o.presenter.ClearPresentation(); err != nil {
		o.Logf("clear presentation: %v", err)
	}
	o.state = StateTransitioning
	o.scheduleLocked(phaseTransitionEnd, o.cfg.TransitionPause)
}

// forceTimeoutLocked converts a presenter failure into a recorded timeout
// so the session always progresses.
func (o *Orchestrator) forceTimeoutLocked(cause error) {
	task := &o.tasks[o.taskIndex]
	o.Logf("present trial %d of %s: %v (forcing timeout)", o.trialIndex, task.ID, cause)
	if o.trial == nil && !task.Excluded {
		spec := task.Trials[o.trialIndex]
		o.trial = o.agg.StartTrial(o.trialIndex, task.AnswerTarget(spec), nil)
	}
	o.finalizeLocked("", true)
}

// elapseLocked handles a fired deadline.
func (o *Orchestrator) elapseLocked(p phase) {
	switch p {
	case phaseResponseTimeout:
		if o.state == StateAwaiting {
			o.finalizeLocked("", true)
		}
	case phaseTransitionEnd:
		if o.state == StateTransitioning {
			o.trialIndex++
			o.presentTrialLocked()
		}
	case phaseFlashEnd, phaseMaskEnd, phaseSpeechCeiling:
		if o.state != StatePresenting {
			return
		}
		task := &o.tasks[o.taskIndex]
		r := runnerFor(task.Type)
		if err := r.elapse(o, task, task.Trials[o.trialIndex], p); err != nil {
			o.forceTimeoutLocked(err)
		}
	}
}

// completeTaskLocked closes the TaskResult (unless excluded), advances the
// task index, and returns to instructions — or finishes the session.
func (o *Orchestrator) completeTaskLocked() {
	task := &o.tasks[o.taskIndex]
	if !task.Excluded {
		o.agg.CloseTask()
	}
	o.speaker.Cancel()
	o.taskIndex++
	o.showInstructionsLocked()
}

// finishLocked closes the session for recording and notifies the adapter.
func (o *Orchestrator) finishLocked() {
	if o.finished {
		return
	}
	o.finished = true
	o.state = StateFinished
	o.pending = deadline{}
	o.gen++
	o.speaker.Cancel()
	o.agg.Finish()
	o.presenter.SessionFinished(o.agg.Snapshot())
}

// scheduleLocked replaces the pending deadline.
func (o *Orchestrator) scheduleLocked(p phase, d time.Duration) {
	o.pending = deadline{phase: p, due: o.Now().Add(d), gen: o.gen}
}

// shuffledOptions returns target+distractors in an independent uniform
// Fisher–Yates order, so no position correlates with target identity
// across trials.
func (o *Orchestrator) shuffledOptions(target string, distractors []string) []string {
	opts := make([]string, 0, len(distractors)+1)
	opts = append(opts, target)
	opts = append(opts, distractors...)
	for i := len(opts) - 1; i > 0; i-- {
		j := o.rng.Intn(i + 1)
		opts[i], opts[j] = opts[j], opts[i]
	}
	return opts
}
