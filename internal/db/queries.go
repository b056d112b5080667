package db

import (
	"context"
	"database/sql"
)

type Queries struct {
	conn *sql.DB
}

func New(conn *sql.DB) *Queries {
	return &Queries{conn: conn}
}

type EmbeddingCacheRow struct {
	ContentHash string
	EmbedModel  string
	Embedding   []byte
}

func (q *Queries) GetEmbeddingCache(ctx context.Context, contentHash string) (EmbeddingCacheRow, error) {
	const query = `SELECT content_hash, embed_model, embedding FROM embedding_cache WHERE content_hash = ?`
	var row EmbeddingCacheRow
	err := q.conn.QueryRowContext(ctx, query, contentHash).Scan(&row.ContentHash, &row.EmbedModel, &row.Embedding)
	return row, err
}

type UpsertEmbeddingCacheParams struct {
	ContentHash string
	EmbedModel  string
	Embedding   []byte
}

func (q *Queries) UpsertEmbeddingCache(ctx context.Context, arg UpsertEmbeddingCacheParams) error {
	const query = `
		INSERT INTO embedding_cache (content_hash, embed_model, embedding)
		VALUES (?, ?, ?)
		ON CONFLICT(content_hash) DO UPDATE SET
			embed_model = excluded.embed_model,
			embedding = excluded.embedding
	`
	_, err := q.conn.ExecContext(ctx, query, arg.ContentHash, arg.EmbedModel, arg.Embedding)
	return err
}

// PruneEmbeddingCache drops the oldest entries beyond the cache size limit.
func (q *Queries) PruneEmbeddingCache(ctx context.Context, keep int64) error {
	const query = `
		DELETE FROM embedding_cache WHERE content_hash NOT IN (
			SELECT content_hash FROM embedding_cache
			ORDER BY created_at DESC LIMIT ?
		)
	`
	_, err := q.conn.ExecContext(ctx, query, keep)
	return err
}

type InsertDecisionParams struct {
	ID        string
	Request   string
	Agent     sql.NullString
	Score     float64
	Reason    string
	Rationale string
}

func (q *Queries) InsertDecision(ctx context.Context, arg InsertDecisionParams) error {
	const query = `
		INSERT INTO decisions (id, request, agent, score, reason, rationale)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := q.conn.ExecContext(ctx, query, arg.ID, arg.Request, arg.Agent, arg.Score, arg.Reason, arg.Rationale)
	return err
}

type DecisionRow struct {
	ID        string
	Request   string
	Agent     sql.NullString
	Score     float64
	Reason    string
	Rationale string
	CreatedAt string
}

func (q *Queries) ListRecentDecisions(ctx context.Context, limit int64) ([]DecisionRow, error) {
	const query = `
		SELECT id, request, agent, score, reason, rationale, created_at
		FROM decisions ORDER BY created_at DESC, id LIMIT ?
	`
	rows, err := q.conn.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DecisionRow
	for rows.Next() {
		var r DecisionRow
		if err := rows.Scan(&r.ID, &r.Request, &r.Agent, &r.Score, &r.Reason, &r.Rationale, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
