package metrics

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/lexiscreen/internal/catalog"
)

// TrialContext is the opaque handle returned by StartTrial. It carries the
// presentation timestamp back into RecordResponse and guards against a
// trial being finalized twice.
type TrialContext struct {
	index       int
	target      string
	options     []string
	presentedAt time.Time
	done        bool
}

// PresentedAt returns the moment the response window opened.
func (tc *TrialContext) PresentedAt() time.Time {
	return tc.presentedAt
}

// Aggregator accumulates trial records into task results and session-wide
// statistics. It has a single open-task slot; the orchestrator is the sole
// writer and never opens a second task before closing the first. Misuse
// (response with no open task, close with no open task) is a logged no-op,
// never a panic.
type Aggregator struct {
	// Now supplies timestamps; replaceable in tests. Defaults to time.Now.
	Now func() time.Time

	// Logf records diagnostic warnings. Defaults to stderr.
	Logf func(format string, args ...any)

	session   SessionData
	open      *TaskResult
	confIndex map[string]int // confusion key -> index into session.Confusions
}

// NewAggregator creates an aggregator for a fresh session.
func NewAggregator(participant string) *Aggregator {
	a := &Aggregator{
		Now: time.Now,
		Logf: func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, "warning: "+format+"\n", args...)
		},
		confIndex: make(map[string]int),
	}
	a.session = SessionData{
		ID:          uuid.New().String(),
		Participant: participant,
		StartedAt:   a.Now(),
	}
	return a
}

// SessionID returns the unique id of this run.
func (a *Aggregator) SessionID() string {
	return a.session.ID
}

// OpenTask starts a new in-progress task result. It is a no-op if another
// task is still open.
func (a *Aggregator) OpenTask(taskID string, typ catalog.TaskType, title, variant string) bool {
	if a.open != nil {
		a.anomaly("OpenTask(%s) called while task %s is still open", taskID, a.open.TaskID)
		return false
	}
	a.open = &TaskResult{
		TaskID:    taskID,
		Type:      typ,
		Title:     title,
		Variant:   variant,
		StartedAt: a.Now(),
	}
	return true
}

// StartTrial timestamps the opening of a response window and returns the
// context to pass back on completion. Returns nil if no task is open.
func (a *Aggregator) StartTrial(index int, target string, options []string) *TrialContext {
	if a.open == nil {
		a.anomaly("StartTrial(%d) called with no open task", index)
		return nil
	}
	return &TrialContext{
		index:       index,
		target:      target,
		options:     append([]string(nil), options...),
		presentedAt: a.Now(),
	}
}

// RecordResponse finalizes a trial: computes correctness and reaction
// time, appends the record to the open task, and updates the confusion
// map for incorrect non-timeout answers. A nil or already-finalized
// context, or a missing open task, is a logged no-op returning nil.
func (a *Aggregator) RecordResponse(tc *TrialContext, selected string, wasTimeout bool) *TrialRecord {
	if tc == nil {
		return nil
	}
	if tc.done {
		a.anomaly("RecordResponse called twice for trial %d", tc.index)
		return nil
	}
	if a.open == nil {
		a.anomaly("RecordResponse for trial %d with no open task", tc.index)
		return nil
	}
	tc.done = true

	now := a.Now()
	rec := TrialRecord{
		Index:       tc.index,
		Target:      tc.target,
		Options:     tc.options,
		Timeout:     wasTimeout,
		PresentedAt: tc.presentedAt,
		RespondedAt: now,
	}
	if !wasTimeout {
		rec.Selected = selected
		rec.Correct = answersMatch(selected, tc.target)
		rt := float64(now.Sub(tc.presentedAt).Milliseconds())
		rec.ReactionMs = &rt
	}

	a.open.Trials = append(a.open.Trials, rec)

	if !wasTimeout && !rec.Correct {
		a.countConfusion(tc.target, selected)
	}
	return &rec
}

// CloseTask freezes the open task's summary, appends it to the session,
// and clears the open-task slot. Returns nil if no task is open.
func (a *Aggregator) CloseTask() *TaskResult {
	if a.open == nil {
		a.anomaly("CloseTask called with no open task")
		return nil
	}
	task := a.open
	a.open = nil

	task.EndedAt = a.Now()
	task.Summary = summarize(task)
	a.session.Tasks = append(a.session.Tasks, *task)
	return task
}

// Finish stamps the session end time. Further task recording is a caller
// error; the aggregator itself stays usable for snapshots.
func (a *Aggregator) Finish() {
	a.session.EndedAt = a.Now()
}

// Snapshot returns a read-only copy of the session with attention
// stability computed on demand from the data recorded so far.
func (a *Aggregator) Snapshot() SessionData {
	snap := a.session
	snap.Tasks = append([]TaskResult(nil), a.session.Tasks...)
	snap.Confusions = append([]ConfusionCount(nil), a.session.Confusions...)

	rts := snap.CompletedReactionTimes()
	snap.Stability = Stability{
		RTStdDev:               StdDev(rts),
		CoefficientOfVariation: CoefficientOfVariation(rts),
	}
	return snap
}

func (a *Aggregator) countConfusion(target, selected string) {
	key := target + "->" + selected
	if i, ok := a.confIndex[key]; ok {
		a.session.Confusions[i].Count++
		return
	}
	a.confIndex[key] = len(a.session.Confusions)
	a.session.Confusions = append(a.session.Confusions, ConfusionCount{Key: key, Count: 1})
}

func (a *Aggregator) anomaly(format string, args ...any) {
	a.session.Anomalies++
	if a.Logf != nil {
		a.Logf(format, args...)
	}
}

// summarize computes the frozen Summary for a closed task.
func summarize(task *TaskResult) Summary {
	s := Summary{
		TotalTrials: len(task.Trials),
		DurationMs:  task.EndedAt.Sub(task.StartedAt).Milliseconds(),
	}
	var rts []float64
	for _, tr := range task.Trials {
		if tr.Timeout {
			s.Timeouts++
			continue
		}
		s.CompletedTrials++
		if tr.Correct {
			s.CorrectCount++
		}
		if tr.ReactionMs != nil {
			rts = append(rts, *tr.ReactionMs)
		}
	}
	if s.CompletedTrials > 0 {
		s.Accuracy = float64(s.CorrectCount) / float64(s.CompletedTrials) * 100
	}
	s.MeanRT = Mean(rts)
	s.MedianRT = Median(rts)
	s.StdDevRT = StdDev(rts)
	return s
}

// answersMatch compares a selection to the canonical target, tolerating
// case and surrounding whitespace so binary real/not-real labels match
// however the adapter renders them.
func answersMatch(selected, target string) bool {
	return strings.EqualFold(strings.TrimSpace(selected), strings.TrimSpace(target))
}
