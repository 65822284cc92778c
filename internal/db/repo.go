package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"prenatal-chatbot/pkg"
)

// Repository wraps database operations for sessions, finalized records and
// the knowledge-base search index.  A single postgres database backs all
// three; it satisfies the core's SessionStore, RecordStore and SearchIndex
// contracts.
type Repository struct {
	DB *sql.DB
}

// NewRepository constructs a new Repository from an existing sql.DB.
// The caller is responsible for managing the DB connection lifecycle.
func NewRepository(db *sql.DB) *Repository { return &Repository{DB: db} }

// GetSession loads the session for a phone, or (nil, nil) when absent.
func (r *Repository) GetSession(ctx context.Context, phone string) (*pkg.Session, error) {
	var s pkg.Session
	var answersJSON []byte
	err := r.DB.QueryRowContext(ctx,
		`SELECT phone, step, answers, consented, created_at, updated_at
         FROM sessions
         WHERE phone = $1`, phone,
	).Scan(&s.Phone, &s.Step, &answersJSON, &s.Consented, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if err := json.Unmarshal(answersJSON, &s.Answers); err != nil {
		return nil, fmt.Errorf("unmarshal session answers: %w", err)
	}
	return &s, nil
}

// UpsertSession creates or updates the session row atomically.  Last writer
// wins per phone; the engine relies on this for its concurrency model.
func (r *Repository) UpsertSession(ctx context.Context, s pkg.Session) error {
	answersJSON, err := json.Marshal(s.Answers)
	if err != nil {
		return fmt.Errorf("marshal session answers: %w", err)
	}
	_, err = r.DB.ExecContext(ctx,
		`INSERT INTO sessions (phone, step, answers, consented, created_at, updated_at)
         VALUES ($1, $2, $3, $4, NOW(), NOW())
         ON CONFLICT (phone) DO UPDATE SET
             step = EXCLUDED.step,
             answers = EXCLUDED.answers,
             consented = EXCLUDED.consented,
             updated_at = NOW()`,
		s.Phone, s.Step, answersJSON, s.Consented,
	)
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

// DeleteSession removes the session for a phone.  Deleting an absent session
// is not an error.
func (r *Repository) DeleteSession(ctx context.Context, phone string) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM sessions WHERE phone = $1`, phone); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// AppendRecord inserts a finalized record.  The record ID is assigned here.
func (r *Repository) AppendRecord(ctx context.Context, rec pkg.Record) error {
	answersJSON, err := json.Marshal(rec.Answers)
	if err != nil {
		return fmt.Errorf("marshal record answers: %w", err)
	}
	_, err = r.DB.ExecContext(ctx,
		`INSERT INTO records (id, phone, answers, risk_tier, ga_weeks, created_at)
         VALUES ($1, $2, $3, $4, $5, NOW())`,
		uuid.New(), rec.Phone, answersJSON, rec.RiskTier, rec.GAWeeks,
	)
	if err != nil {
		return fmt.Errorf("append record: %w", err)
	}
	return nil
}

// ListRecords returns every finalized record, newest first, for the export.
func (r *Repository) ListRecords(ctx context.Context) ([]pkg.Record, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, phone, answers, risk_tier, ga_weeks, created_at
         FROM records
         ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()
	var out []pkg.Record
	for rows.Next() {
		var rec pkg.Record
		var answersJSON []byte
		if err := rows.Scan(&rec.ID, &rec.Phone, &answersJSON, &rec.RiskTier, &rec.GAWeeks, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		if err := json.Unmarshal(answersJSON, &rec.Answers); err != nil {
			return nil, fmt.Errorf("unmarshal record answers: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// SeedKnowledgeBase bulk-loads the knowledge entries into the search index.
// It is idempotent: when the table already contains rows the seed is skipped,
// so restarts never duplicate content.  Insertion order is preserved because
// trigger resolution elsewhere is first-defined-first-matched.
func (r *Repository) SeedKnowledgeBase(ctx context.Context, entries []pkg.KnowledgeEntry) error {
	var count int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM kb_entries`).Scan(&count); err != nil {
		return fmt.Errorf("count kb entries: %w", err)
	}
	if count > 0 {
		return nil
	}
	for _, e := range entries {
		_, err := r.DB.ExecContext(ctx,
			`INSERT INTO kb_entries (title, body, tags) VALUES ($1, $2, $3)`,
			e.Title, e.Body, strings.Join(e.Triggers, ", "),
		)
		if err != nil {
			return fmt.Errorf("seed kb entry %q: %w", e.Title, err)
		}
	}
	return nil
}

// Search runs a prefix-matching full-text query over the knowledge base and
// returns the top hits ranked by relevance, most relevant first.  Snippets
// come back with '*' match markers and about ten words of context.
func (r *Repository) Search(ctx context.Context, tokens []string, limit int) ([]pkg.SearchHit, error) {
	if len(tokens) == 0 {
		return nil, nil
	}
	terms := make([]string, len(tokens))
	for i, t := range tokens {
		terms[i] = t + ":*"
	}
	query := strings.Join(terms, " | ")

	rows, err := r.DB.QueryContext(ctx,
		`SELECT title,
                ts_headline('portuguese', body, q, 'StartSel=*, StopSel=*, MaxWords=10, MinWords=4') AS snippet,
                body,
                ts_rank_cd(tsv, q) AS score
         FROM kb_entries, to_tsquery('portuguese', $1) q
         WHERE tsv @@ q
         ORDER BY score DESC
         LIMIT $2`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("kb search: %w", err)
	}
	defer rows.Close()
	var hits []pkg.SearchHit
	for rows.Next() {
		var h pkg.SearchHit
		if err := rows.Scan(&h.Title, &h.Snippet, &h.Body, &h.Score); err != nil {
			return nil, fmt.Errorf("scan kb hit: %w", err)
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}
