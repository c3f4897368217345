package core

import (
	"context"
	"errors"
	"time"

	"github.com/JonMunkholm/idcards/internal/cards"
	"github.com/JonMunkholm/idcards/internal/roster"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors. Their messages double as MapError patterns.
var (
	ErrEmptyFile      = errors.New("empty file")
	ErrFileTooLarge   = errors.New("file too large")
	ErrInvalidFile    = errors.New("invalid csv")
	ErrRosterNotFound = errors.New("roster not found")
	ErrNoFilterValue  = errors.New("no filter value provided")
	ErrNoMatches      = errors.New("no matching students")
)

// DBTX is the interface for database operations.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// RosterStore persists imported rosters.
type RosterStore interface {
	Save(ctx context.Context, r *Roster) error
	Get(ctx context.Context, id string) (*Roster, error)
	// DeleteOlderThan removes rosters created before cutoff and returns how many.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Format identifies the file type a roster was read from.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Roster is one imported student file.
type Roster struct {
	ID        string
	FileName  string
	Format    Format
	Headers   []string // normalized header row, duplicates kept
	Records   []roster.Record
	CreatedAt time.Time

	// Unterminated is set when a CSV ended inside a quoted field.
	Unterminated bool
}

// RosterSummary is what callers see right after an import.
type RosterSummary struct {
	ID          string    `json:"id"`
	FileName    string    `json:"file_name"`
	Format      Format    `json:"format"`
	RecordCount int       `json:"record_count"`
	Headers     []string  `json:"headers"`
	CreatedAt   time.Time `json:"created_at"`

	// FilterField is the record field the sheet filter matches against.
	FilterField string `json:"filter_field"`

	// SuggestedFilter is the first record's filter field value, if any.
	SuggestedFilter string `json:"suggested_filter,omitempty"`

	// Warning describes a recoverable problem with the file.
	Warning string `json:"warning,omitempty"`
}

// UnterminatedQuoteWarning is reported when a quoted field never closed.
const UnterminatedQuoteWarning = "A quoted field was never closed; everything after it was read into one value"

// Summary describes the roster for display.
func (r *Roster) Summary(filterField string) RosterSummary {
	sum := RosterSummary{
		ID:          r.ID,
		FileName:    r.FileName,
		Format:      r.Format,
		RecordCount: len(r.Records),
		Headers:     r.Headers,
		CreatedAt:   r.CreatedAt,
		FilterField: filterField,
	}
	if len(r.Records) > 0 {
		sum.SuggestedFilter = r.Records[0].Value(filterField)
	}
	if r.Unterminated {
		sum.Warning = UnterminatedQuoteWarning
	}
	return sum
}

// SheetRequest selects students from a roster and describes the school header.
type SheetRequest struct {
	RosterID string
	Target   string // value matched against Field
	Field    string // empty uses the service default
	School   cards.School
}

// SheetSet is the printable result of a SheetRequest.
type SheetSet struct {
	RosterID string        `json:"roster_id"`
	Field    string        `json:"field"`
	Target   string        `json:"target"`
	Matched  int           `json:"matched"`
	Sheets   []cards.Sheet `json:"sheets"`
	School   cards.School  `json:"school"`
}
