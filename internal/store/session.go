package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/abhisek/lexiscreen/internal/metrics"
)

// SessionInfo is the listing row for a stored session.
type SessionInfo struct {
	ID          string
	Participant string
	StartedAt   time.Time
	EndedAt     time.Time
	TaskCount   int
	TrialCount  int
	Accuracy    float64 // percent over completed scored trials
}

// SaveSession persists a finished session. The full structure is stored as
// JSON; a few columns are denormalized for listing without deserializing.
func (s *Store) SaveSession(ctx context.Context, data metrics.SessionData) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	trialCount := 0
	completed := 0
	correct := 0
	for _, t := range data.Tasks {
		trialCount += t.Summary.TotalTrials
		completed += t.Summary.CompletedTrials
		correct += t.Summary.CorrectCount
	}
	accuracy := 0.0
	if completed > 0 {
		accuracy = float64(correct) / float64(completed) * 100
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, participant, started_at, ended_at, task_count, trial_count, accuracy, payload)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		data.ID,
		data.Participant,
		data.StartedAt.Format(time.RFC3339Nano),
		data.EndedAt.Format(time.RFC3339Nano),
		len(data.Tasks),
		trialCount,
		accuracy,
		string(payload),
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// ListSessions returns stored sessions, most recent first. limit <= 0
// means all.
func (s *Store) ListSessions(ctx context.Context, limit int) ([]SessionInfo, error) {
	q := `SELECT id, participant, started_at, ended_at, task_count, trial_count, accuracy
	      FROM sessions ORDER BY started_at DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionInfo
	for rows.Next() {
		var info SessionInfo
		var started, ended string
		if err := rows.Scan(&info.ID, &info.Participant, &started, &ended, &info.TaskCount, &info.TrialCount, &info.Accuracy); err != nil {
			return nil, fmt.Errorf("scan session row: %w", err)
		}
		info.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		info.EndedAt, _ = time.Parse(time.RFC3339Nano, ended)
		out = append(out, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return out, nil
}

// LoadSession returns the full stored session by id, or nil if not found.
func (s *Store) LoadSession(ctx context.Context, id string) (*metrics.SessionData, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM sessions WHERE id = ?`, id,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}

	var data metrics.SessionData
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &data, nil
}

// LatestSession returns the most recently started session, or nil when
// none are stored.
func (s *Store) LatestSession(ctx context.Context) (*metrics.SessionData, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM sessions ORDER BY started_at DESC LIMIT 1`,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest session: %w", err)
	}
	return s.LoadSession(ctx, id)
}

// Reset deletes every stored session.
func (s *Store) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions`); err != nil {
		return fmt.Errorf("reset sessions: %w", err)
	}
	return nil
}
