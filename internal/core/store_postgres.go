package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/JonMunkholm/idcards/internal/roster"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const createRostersTable = `
CREATE TABLE IF NOT EXISTS rosters (
    id           UUID PRIMARY KEY,
    file_name    TEXT        NOT NULL,
    format       TEXT        NOT NULL,
    headers      JSON        NOT NULL,
    records      JSON        NOT NULL,
    unterminated BOOLEAN     NOT NULL DEFAULT FALSE,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS rosters_created_at_idx ON rosters (created_at);
ALTER TABLE rosters ALTER COLUMN headers TYPE JSON USING headers::json;
ALTER TABLE rosters ALTER COLUMN records TYPE JSON USING records::json;
`

const insertRoster = `
INSERT INTO rosters (id, file_name, format, headers, records, unterminated, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (id) DO UPDATE SET
    file_name    = EXCLUDED.file_name,
    format       = EXCLUDED.format,
    headers      = EXCLUDED.headers,
    records      = EXCLUDED.records,
    unterminated = EXCLUDED.unterminated
`

const selectRoster = `
SELECT id, file_name, format, headers, records, unterminated, created_at
FROM rosters
WHERE id = $1
`

const deleteRostersBefore = `DELETE FROM rosters WHERE created_at < $1`

// PostgresStore keeps rosters in a PostgreSQL table. Records are stored in a
// JSON column, not JSONB, because JSONB reorders object keys and the record
// key order must follow the file's columns.
type PostgresStore struct {
	db DBTX
}

// NewPostgresStore creates a store over db (usually a *pgxpool.Pool).
func NewPostgresStore(db DBTX) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the rosters table if it does not exist.
func (p *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.Exec(ctx, createRostersTable); err != nil {
		return fmt.Errorf("create rosters table: %w", err)
	}
	return nil
}

func (p *PostgresStore) Save(ctx context.Context, r *Roster) error {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return fmt.Errorf("roster id %q: %w", r.ID, err)
	}

	headers, err := json.Marshal(nonNil(r.Headers))
	if err != nil {
		return fmt.Errorf("encode headers: %w", err)
	}
	records, err := json.Marshal(nonNil(r.Records))
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}

	_, err = p.db.Exec(ctx, insertRoster,
		pgtype.UUID{Bytes: id, Valid: true},
		r.FileName,
		string(r.Format),
		json.RawMessage(headers),
		json.RawMessage(records),
		r.Unterminated,
		r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert roster: %w", err)
	}
	return nil
}

func (p *PostgresStore) Get(ctx context.Context, id string) (*Roster, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrRosterNotFound
	}

	var (
		pgID             pgtype.UUID
		format           string
		headers, records []byte
		r                Roster
	)
	err = p.db.QueryRow(ctx, selectRoster, pgtype.UUID{Bytes: parsed, Valid: true}).Scan(
		&pgID, &r.FileName, &format, &headers, &records, &r.Unterminated, &r.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRosterNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select roster: %w", err)
	}

	r.ID = uuid.UUID(pgID.Bytes).String()
	r.Format = Format(format)
	if err := json.Unmarshal(headers, &r.Headers); err != nil {
		return nil, fmt.Errorf("decode headers: %w", err)
	}
	var recs []roster.Record
	if err := json.Unmarshal(records, &recs); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	r.Records = recs
	return &r, nil
}

func (p *PostgresStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := p.db.Exec(ctx, deleteRostersBefore, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete expired rosters: %w", err)
	}
	return tag.RowsAffected(), nil
}

// nonNil keeps JSON columns as arrays rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
