package metrics

import (
	"testing"
	"time"

	"github.com/abhisek/lexiscreen/internal/catalog"
)

// fakeClock advances a fixed amount on every reading so reaction times are
// deterministic.
type fakeClock struct {
	now  time.Time
	step time.Duration
}

func (c *fakeClock) Now() time.Time {
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

func testAggregator(t *testing.T) (*Aggregator, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC), step: 100 * time.Millisecond}
	a := NewAggregator("tester")
	a.Now = clock.Now
	a.Logf = func(string, ...any) {}
	return a, clock
}

func TestOpenTask_SecondOpenIsNoOp(t *testing.T) {
	a, _ := testAggregator(t)

	if !a.OpenTask("t1", catalog.TypeLetterMatch, "Letters", "plain") {
		t.Fatal("first OpenTask should succeed")
	}
	if a.OpenTask("t2", catalog.TypeLetterMatch, "Letters 2", "plain") {
		t.Error("second OpenTask with one still open should be a no-op")
	}

	a.CloseTask()
	snap := a.Snapshot()
	if len(snap.Tasks) != 1 || snap.Tasks[0].TaskID != "t1" {
		t.Errorf("tasks = %+v, want only t1", snap.Tasks)
	}
	if snap.Anomalies != 1 {
		t.Errorf("anomalies = %d, want 1", snap.Anomalies)
	}
}

func TestRecordResponse_CorrectnessAndReactionTime(t *testing.T) {
	a, _ := testAggregator(t)
	a.OpenTask("t1", catalog.TypeLetterMatch, "Letters", "plain")

	tc := a.StartTrial(0, "b", []string{"b", "d", "p"})
	rec := a.RecordResponse(tc, "b", false)
	if rec == nil {
		t.Fatal("expected a record")
	}
	if !rec.Correct {
		t.Error("expected correct")
	}
	if rec.ReactionMs == nil {
		t.Fatal("expected non-nil reaction time")
	}
	if *rec.ReactionMs != 100 {
		t.Errorf("reactionMs = %v, want 100", *rec.ReactionMs)
	}
}

func TestRecordResponse_TimeoutHasNullRT(t *testing.T) {
	a, _ := testAggregator(t)
	a.OpenTask("t1", catalog.TypeLetterMatch, "Letters", "plain")

	tc := a.StartTrial(0, "b", []string{"b", "d"})
	rec := a.RecordResponse(tc, "", true)
	if rec == nil {
		t.Fatal("expected a record")
	}
	if !rec.Timeout {
		t.Error("expected timeout flag")
	}
	if rec.ReactionMs != nil {
		t.Errorf("reactionMs = %v, want nil on timeout", *rec.ReactionMs)
	}
	if rec.Correct {
		t.Error("timeout must not count as correct")
	}
}

func TestRecordResponse_ExactlyOnce(t *testing.T) {
	a, _ := testAggregator(t)
	a.OpenTask("t1", catalog.TypeLetterMatch, "Letters", "plain")

	tc := a.StartTrial(0, "b", []string{"b", "d"})
	first := a.RecordResponse(tc, "d", false)
	second := a.RecordResponse(tc, "b", false)
	if first == nil {
		t.Fatal("first response should record")
	}
	if second != nil {
		t.Error("second response on same context should be a no-op")
	}

	task := a.CloseTask()
	if len(task.Trials) != 1 {
		t.Fatalf("trials = %d, want 1", len(task.Trials))
	}
	if task.Trials[0].Selected != "d" {
		t.Errorf("selected = %q, first event must win", task.Trials[0].Selected)
	}
}

func TestRecordResponse_NoOpenTask(t *testing.T) {
	a, _ := testAggregator(t)

	if tc := a.StartTrial(0, "b", nil); tc != nil {
		t.Error("StartTrial with no open task should return nil")
	}
	if rec := a.RecordResponse(nil, "b", false); rec != nil {
		t.Error("RecordResponse with nil context should return nil")
	}
	if res := a.CloseTask(); res != nil {
		t.Error("CloseTask with no open task should return nil")
	}
}

func TestRecordResponse_BinaryNormalization(t *testing.T) {
	a, _ := testAggregator(t)
	a.OpenTask("words", catalog.TypeLexicalDecision, "Words", "plain")

	tc := a.StartTrial(0, catalog.ChoiceReal, []string{catalog.ChoiceReal, catalog.ChoiceNotReal})
	rec := a.RecordResponse(tc, " REAL ", false)
	if rec == nil || !rec.Correct {
		t.Error("case/whitespace variants of the label should match")
	}
}

func TestSummary_EndToEndCounts(t *testing.T) {
	// A 3-trial task answered (correct, timeout, incorrect) must yield
	// total=3, completed=2, correct=1, timeouts=1, accuracy=50.
	a, _ := testAggregator(t)
	a.OpenTask("t1", catalog.TypeLetterMatch, "Letters", "plain")

	a.RecordResponse(a.StartTrial(0, "b", []string{"b", "d"}), "b", false)
	a.RecordResponse(a.StartTrial(1, "d", []string{"d", "b"}), "", true)
	a.RecordResponse(a.StartTrial(2, "p", []string{"p", "q"}), "q", false)

	task := a.CloseTask()
	sum := task.Summary
	if sum.TotalTrials != 3 {
		t.Errorf("totalTrials = %d, want 3", sum.TotalTrials)
	}
	if sum.CompletedTrials != 2 {
		t.Errorf("completedTrials = %d, want 2", sum.CompletedTrials)
	}
	if sum.CorrectCount != 1 {
		t.Errorf("correctCount = %d, want 1", sum.CorrectCount)
	}
	if sum.Timeouts != 1 {
		t.Errorf("timeouts = %d, want 1", sum.Timeouts)
	}
	if !almostEqual(sum.Accuracy, 50) {
		t.Errorf("accuracy = %v, want 50", sum.Accuracy)
	}
	if sum.CompletedTrials+sum.Timeouts != sum.TotalTrials {
		t.Error("completed + timeouts must equal total")
	}
}

func TestSummary_EmptyTaskHasNullStats(t *testing.T) {
	a, _ := testAggregator(t)
	a.OpenTask("t1", catalog.TypeLetterMatch, "Letters", "plain")
	task := a.CloseTask()

	sum := task.Summary
	if sum.Accuracy != 0 {
		t.Errorf("accuracy = %v, want 0 for empty task", sum.Accuracy)
	}
	if sum.MeanRT != nil || sum.MedianRT != nil || sum.StdDevRT != nil {
		t.Error("statistics over zero completed trials must be null")
	}
}

func TestConfusions_RepeatedOnly(t *testing.T) {
	a, _ := testAggregator(t)
	a.OpenTask("t1", catalog.TypeLetterMatch, "Letters", "plain")

	a.RecordResponse(a.StartTrial(0, "b", []string{"b", "d"}), "d", false)
	a.RecordResponse(a.StartTrial(1, "b", []string{"b", "d"}), "d", false)
	a.RecordResponse(a.StartTrial(2, "p", []string{"p", "q"}), "q", false)
	// Timeouts never create confusion entries.
	a.RecordResponse(a.StartTrial(3, "m", []string{"m", "n"}), "", true)
	a.CloseTask()

	snap := a.Snapshot()
	repeated := snap.RepeatedConfusions()
	if len(repeated) != 1 {
		t.Fatalf("repeated confusions = %v, want exactly one", repeated)
	}
	if repeated[0].Key != "b->d" || repeated[0].Count != 2 {
		t.Errorf("got %+v, want {b->d 2}", repeated[0])
	}
}

func TestConfusions_SortedByCountInsertionStable(t *testing.T) {
	a, _ := testAggregator(t)
	a.OpenTask("t1", catalog.TypeLetterMatch, "Letters", "plain")

	// p->q recorded first (2x), then b->d (3x), then m->n (2x).
	for i, pair := range [][2]string{
		{"p", "q"}, {"p", "q"},
		{"b", "d"}, {"b", "d"}, {"b", "d"},
		{"m", "n"}, {"m", "n"},
	} {
		a.RecordResponse(a.StartTrial(i, pair[0], []string{pair[0], pair[1]}), pair[1], false)
	}
	a.CloseTask()

	snap := a.Snapshot()
	repeated := snap.RepeatedConfusions()
	want := []ConfusionCount{
		{Key: "b->d", Count: 3},
		{Key: "p->q", Count: 2},
		{Key: "m->n", Count: 2},
	}
	if len(repeated) != len(want) {
		t.Fatalf("repeated = %v, want %v", repeated, want)
	}
	for i := range want {
		if repeated[i] != want[i] {
			t.Errorf("repeated[%d] = %+v, want %+v", i, repeated[i], want[i])
		}
	}
}

func TestSnapshot_AttentionStability(t *testing.T) {
	a, _ := testAggregator(t)
	a.OpenTask("t1", catalog.TypeLetterMatch, "Letters", "plain")
	a.RecordResponse(a.StartTrial(0, "b", []string{"b", "d"}), "b", false)
	a.RecordResponse(a.StartTrial(1, "d", []string{"d", "b"}), "d", false)
	a.CloseTask()

	snap := a.Snapshot()
	rts := snap.CompletedReactionTimes()
	if len(rts) != 2 {
		t.Fatalf("pooled RTs = %d, want 2", len(rts))
	}
	if snap.Stability.RTStdDev == nil {
		t.Error("expected stddev over 2 samples")
	}
	if snap.Stability.CoefficientOfVariation == nil {
		t.Error("expected CV over 2 samples")
	}
}

func TestSnapshot_ExcludedTasksNeverAppear(t *testing.T) {
	// Excluded tasks are never opened by the orchestrator; the snapshot
	// reflects only what was recorded.
	a, _ := testAggregator(t)
	a.OpenTask("scored", catalog.TypeLetterMatch, "Letters", "plain")
	a.RecordResponse(a.StartTrial(0, "b", []string{"b", "d"}), "b", false)
	a.CloseTask()

	snap := a.Snapshot()
	if len(snap.Tasks) != 1 {
		t.Fatalf("tasks = %d, want 1", len(snap.Tasks))
	}
	if snap.Tasks[0].TaskID != "scored" {
		t.Errorf("task = %s, want scored", snap.Tasks[0].TaskID)
	}
}
