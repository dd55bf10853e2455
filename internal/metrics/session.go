package metrics

import (
	"time"

	"github.com/abhisek/lexiscreen/internal/catalog"
)

// TrialRecord is one finalized stimulus-response unit. Created when the
// response window opens, finalized exactly once when the subject answers
// or the deadline elapses.
type TrialRecord struct {
	Index       int       `json:"index"`
	Target      string    `json:"target"`
	Options     []string  `json:"options"`
	Selected    string    `json:"selected"` // empty on timeout
	Correct     bool      `json:"correct"`
	Timeout     bool      `json:"timeout"`
	ReactionMs  *float64  `json:"reactionMs"` // null on timeout
	PresentedAt time.Time `json:"presentedAt"`
	RespondedAt time.Time `json:"respondedAt"`
}

// Summary holds the per-task statistics, computed once at task close and
// never mutated afterwards. Nullable fields stay null when no completed
// trials exist.
type Summary struct {
	TotalTrials     int      `json:"totalTrials"`
	CompletedTrials int      `json:"completedTrials"`
	CorrectCount    int      `json:"correctCount"`
	Timeouts        int      `json:"timeouts"`
	Accuracy        float64  `json:"accuracy"` // percent, 0 when no completed trials
	MeanRT          *float64 `json:"meanRt"`
	MedianRT        *float64 `json:"medianRt"`
	StdDevRT        *float64 `json:"stdDevRt"`
	DurationMs      int64    `json:"durationMs"`
}

// TaskResult is one task's records plus its frozen summary.
type TaskResult struct {
	TaskID    string           `json:"taskId"`
	Type      catalog.TaskType `json:"type"`
	Title     string           `json:"title"`
	Variant   string           `json:"variant"`
	StartedAt time.Time        `json:"startedAt"`
	EndedAt   time.Time        `json:"endedAt"`
	Trials    []TrialRecord    `json:"trials"`
	Summary   Summary          `json:"summary"`
}

// ConfusionCount is one target→selected pair and how often it occurred.
// Kept as an ordered slice rather than a map so that insertion order is
// preserved for stable tie-breaking in reports.
type ConfusionCount struct {
	Key   string `json:"key"` // "target->selected"
	Count int    `json:"count"`
}

// Stability holds the session-wide attention-stability metrics over the
// pooled reaction times of every completed trial.
type Stability struct {
	RTStdDev               *float64 `json:"rtStdDev"`
	CoefficientOfVariation *float64 `json:"coefficientOfVariation"`
}

// SessionData is the root of one screening run. It owns every TaskResult
// and is discarded when a new run starts.
type SessionData struct {
	ID          string           `json:"id"`
	Participant string           `json:"participant,omitempty"`
	StartedAt   time.Time        `json:"startedAt"`
	EndedAt     time.Time        `json:"endedAt"`
	Tasks       []TaskResult     `json:"tasks"`
	Confusions  []ConfusionCount `json:"confusions"`
	Stability   Stability        `json:"stability"`

	// Anomalies counts out-of-sequence aggregator calls and presenter
	// failures observed during the run. Zero on a clean session.
	Anomalies int `json:"anomalies,omitempty"`
}

// CompletedReactionTimes pools the reaction times of every completed trial
// across all tasks, in recording order.
func (s *SessionData) CompletedReactionTimes() []float64 {
	var rts []float64
	for _, task := range s.Tasks {
		for _, tr := range task.Trials {
			if tr.ReactionMs != nil {
				rts = append(rts, *tr.ReactionMs)
			}
		}
	}
	return rts
}

// RepeatedConfusions returns every confusion pair with count >= 2, sorted
// by count descending. Ties keep their original insertion order.
func (s *SessionData) RepeatedConfusions() []ConfusionCount {
	var repeated []ConfusionCount
	for _, c := range s.Confusions {
		if c.Count >= 2 {
			repeated = append(repeated, c)
		}
	}
	// Stable sort preserves insertion order among equal counts.
	for i := 1; i < len(repeated); i++ {
		for j := i; j > 0 && repeated[j].Count > repeated[j-1].Count; j-- {
			repeated[j], repeated[j-1] = repeated[j-1], repeated[j]
		}
	}
	return repeated
}
