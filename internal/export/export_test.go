package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/lexiscreen/internal/catalog"
	"github.com/abhisek/lexiscreen/internal/metrics"
)

func f(v float64) *float64 { return &v }

func sampleSession() metrics.SessionData {
	started := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	return metrics.SessionData{
		ID:          "sess-1",
		Participant: "tester",
		StartedAt:   started,
		EndedAt:     started.Add(5 * time.Minute),
		Tasks: []metrics.TaskResult{
			{
				TaskID:  "letters",
				Type:    catalog.TypeLetterMatch,
				Title:   "Letter Matching",
				Variant: "plain",
				Trials: []metrics.TrialRecord{
					{Index: 0, Target: "b", Selected: "b", Correct: true, ReactionMs: f(420)},
					{Index: 1, Target: "d", Selected: "b", Correct: false, ReactionMs: f(760)},
					{Index: 2, Target: "p", Timeout: true},
				},
				Summary: metrics.Summary{
					TotalTrials:     3,
					CompletedTrials: 2,
					CorrectCount:    1,
					Timeouts:        1,
					Accuracy:        50,
					MeanRT:          f(590),
					MedianRT:        f(590),
				},
			},
			{
				TaskID:  "words",
				Type:    catalog.TypeLexicalDecision,
				Title:   "Real or Not?",
				Variant: "plain",
				Summary: metrics.Summary{},
			},
		},
		Confusions: []metrics.ConfusionCount{
			{Key: "d->b", Count: 2},
			{Key: "p->q", Count: 1},
		},
		Stability: metrics.Stability{RTStdDev: f(170), CoefficientOfVariation: f(28.8)},
	}
}

func TestJSON_RoundTrip(t *testing.T) {
	s := sampleSession()
	out, err := JSON(s)
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}

	var back metrics.SessionData
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatalf("unmarshal report: %v", err)
	}
	if back.ID != s.ID || back.Participant != s.Participant {
		t.Errorf("identity fields lost: %+v", back)
	}
	if len(back.Tasks) != 2 || len(back.Tasks[0].Trials) != 3 {
		t.Errorf("structure lost: %+v", back.Tasks)
	}
	if back.Tasks[0].Trials[0].ReactionMs == nil || *back.Tasks[0].Trials[0].ReactionMs != 420 {
		t.Error("reaction time lost in round trip")
	}
}

func TestJSON_NullSentinels(t *testing.T) {
	s := sampleSession()
	out, err := JSON(s)
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	// Timed-out trials and empty tasks serialize their statistics as JSON
	// null, never 0.
	if !bytes.Contains(out, []byte(`"reactionMs": null`)) {
		t.Error("timeout trial should carry a null reactionMs")
	}
	if !bytes.Contains(out, []byte(`"meanRt": null`)) {
		t.Error("empty task should carry null statistics")
	}
}

func TestWriteCSV_SectionOrder(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleSession()); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	out := buf.String()

	sections := []string{
		"LEXISCREEN SESSION REPORT",
		"TASK SUMMARY",
		"REPEATED CONFUSIONS",
		"ATTENTION STABILITY",
		"TRIAL DETAIL",
		"IMPORTANT",
	}
	last := -1
	for _, sec := range sections {
		idx := strings.Index(out, sec)
		if idx < 0 {
			t.Fatalf("section %q missing from report", sec)
		}
		if idx < last {
			t.Errorf("section %q out of order", sec)
		}
		last = idx
	}
}

func TestWriteCSV_Content(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleSession()); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	r := csv.NewReader(&buf)
	r.FieldsPerRecord = -1 // sectioned report, rows vary in width
	rows, err := r.ReadAll()
	if err != nil {
		t.Fatalf("report is not parseable CSV: %v", err)
	}

	find := func(first string) []string {
		for _, row := range rows {
			if len(row) > 0 && row[0] == first {
				return row
			}
		}
		t.Fatalf("no row starting with %q", first)
		return nil
	}

	if row := find("Participant"); row[1] != "tester" {
		t.Errorf("participant = %q", row[1])
	}
	// Only the repeated pair appears; the single occurrence does not.
	if row := find("d->b"); row[1] != "2" {
		t.Errorf("confusion count = %q, want 2", row[1])
	}
	for _, row := range rows {
		if len(row) > 0 && row[0] == "p->q" {
			t.Error("single-occurrence confusion must not be reported")
		}
	}
	// The timed-out trial uses the TIMEOUT/N-A sentinels.
	var timeoutRow []string
	for _, row := range rows {
		if len(row) == 7 && row[3] == "TIMEOUT" {
			timeoutRow = row
		}
	}
	if timeoutRow == nil {
		t.Fatal("no TIMEOUT sentinel row in trial detail")
	}
	if timeoutRow[5] != "N/A" {
		t.Errorf("timeout RT = %q, want N/A", timeoutRow[5])
	}
	if timeoutRow[6] != "true" {
		t.Errorf("timeout flag = %q, want true", timeoutRow[6])
	}
}

func TestWriteCSV_NoConfusions(t *testing.T) {
	s := sampleSession()
	s.Confusions = nil

	var buf bytes.Buffer
	if err := WriteCSV(&buf, s); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	if !strings.Contains(buf.String(), "none detected") {
		t.Error("empty confusion section should say so explicitly")
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteCSV_PropagatesWriteError(t *testing.T) {
	if err := WriteCSV(failWriter{}, sampleSession()); err == nil {
		t.Error("expected the underlying write error")
	}
}

func TestWriteJSON_TrailingNewline(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleSession()); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if !bytes.HasSuffix(buf.Bytes(), []byte("}\n")) {
		t.Error("report should end with a newline")
	}
}
