package decisionlog

import (
	"context"
	"database/sql"
	"log/slog"

	"pressroom/internal/db"
	"pressroom/internal/dispatch"
)

// Store persists routing decisions for introspection and debugging. It is
// an observer: recording failures are logged, never propagated, so the
// dispatch path cannot fail on audit I/O.
type Store struct {
	q *db.Queries
}

func NewStore(database *db.DB) *Store {
	return &Store{q: db.New(database.Conn())}
}

func (s *Store) Record(ctx context.Context, request string, d *dispatch.Decision) {
	agent := sql.NullString{String: d.AgentName(), Valid: d.Matched()}
	err := s.q.InsertDecision(ctx, db.InsertDecisionParams{
		ID:        d.ID,
		Request:   request,
		Agent:     agent,
		Score:     d.Score,
		Reason:    string(d.Reason),
		Rationale: d.Rationale,
	})
	if err != nil {
		slog.Warn("recording decision failed", "decision_id", d.ID, "error", err)
	}
}

// Entry is one recorded decision.
type Entry struct {
	ID        string  `json:"id"`
	Request   string  `json:"request"`
	Agent     string  `json:"agent,omitempty"`
	Score     float64 `json:"score"`
	Reason    string  `json:"reason"`
	Rationale string  `json:"rationale"`
	CreatedAt string  `json:"created_at"`
}

func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.q.ListRecentDecisions(ctx, int64(limit))
	if err != nil {
		return nil, err
	}
	out := make([]Entry, len(rows))
	for i, r := range rows {
		out[i] = Entry{
			ID:        r.ID,
			Request:   r.Request,
			Agent:     r.Agent.String,
			Score:     r.Score,
			Reason:    r.Reason,
			Rationale: r.Rationale,
			CreatedAt: r.CreatedAt,
		}
	}
	return out, nil
}
