package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/abhisek/lexiscreen/internal/catalog"
	"github.com/abhisek/lexiscreen/internal/metrics"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleSession(id string, started time.Time) metrics.SessionData {
	rt := 420.0
	return metrics.SessionData{
		ID:          id,
		Participant: "tester",
		StartedAt:   started,
		EndedAt:     started.Add(4 * time.Minute),
		Tasks: []metrics.TaskResult{
			{
				TaskID:  "letters",
				Type:    catalog.TypeLetterMatch,
				Title:   "Letter Matching",
				Variant: "plain",
				Trials: []metrics.TrialRecord{
					{Index: 0, Target: "b", Selected: "b", Correct: true, ReactionMs: &rt},
					{Index: 1, Target: "d", Timeout: true},
				},
				Summary: metrics.Summary{
					TotalTrials:     2,
					CompletedTrials: 1,
					CorrectCount:    1,
					Timeouts:        1,
					Accuracy:        100,
					MeanRT:          &rt,
				},
			},
		},
		Confusions: []metrics.ConfusionCount{{Key: "d->b", Count: 2}},
	}
}

func TestSaveLoadSession_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	started := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	in := sampleSession("sess-1", started)
	require.NoError(t, s.SaveSession(ctx, in))

	out, err := s.LoadSession(ctx, "sess-1")
	require.NoError(t, err)
	require.NotNil(t, out)

	require.Equal(t, in.ID, out.ID)
	require.Equal(t, in.Participant, out.Participant)
	require.Len(t, out.Tasks, 1)
	require.Len(t, out.Tasks[0].Trials, 2)

	rec := out.Tasks[0].Trials[0]
	require.NotNil(t, rec.ReactionMs)
	require.Equal(t, 420.0, *rec.ReactionMs)
	require.True(t, out.Tasks[0].Trials[1].Timeout, "timeout flag lost in round trip")
	require.Equal(t, []metrics.ConfusionCount{{Key: "d->b", Count: 2}}, out.Confusions)
}

func TestLoadSession_NotFound(t *testing.T) {
	s := openTestStore(t)
	out, err := s.LoadSession(context.Background(), "nope")
	require.NoError(t, err)
	require.Nil(t, out, "unknown id should load as nil, not an error")
}

func TestListSessions_MostRecentFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "mid", "new"} {
		require.NoError(t, s.SaveSession(ctx, sampleSession(id, base.Add(time.Duration(i)*time.Hour))))
	}

	list, err := s.ListSessions(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 3)
	require.Equal(t, "new", list[0].ID)
	require.Equal(t, "old", list[2].ID)
	require.Equal(t, 2, list[0].TrialCount, "denormalized trial count")
	require.Equal(t, 100.0, list[0].Accuracy)

	limited, err := s.ListSessions(ctx, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
}

func TestLatestSession(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	latest, err := s.LatestSession(ctx)
	require.NoError(t, err)
	require.Nil(t, latest, "empty store has no latest session")

	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, s.SaveSession(ctx, sampleSession("first", base)))
	require.NoError(t, s.SaveSession(ctx, sampleSession("second", base.Add(time.Hour))))

	latest, err = s.LatestSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	require.Equal(t, "second", latest.ID)
}

func TestReset(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveSession(ctx, sampleSession("sess-1", time.Now())))
	require.NoError(t, s.Reset(ctx))

	list, err := s.ListSessions(ctx, 0)
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestDefaultDBPath_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	want := filepath.Join(dir, "custom", "screen.db")
	t.Setenv("LEXISCREEN_DB", want)

	got, err := DefaultDBPath()
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestDefaultDBPath_XDGDataHome(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("LEXISCREEN_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)

	got, err := DefaultDBPath()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "lexiscreen", "lexiscreen.db"), got)
}
