package core

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/JonMunkholm/idcards/internal/cards"
	"github.com/JonMunkholm/idcards/internal/logging"
	"github.com/JonMunkholm/idcards/internal/roster"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// DefaultFilterField is the record field matched when none is configured.
const DefaultFilterField = roster.FieldUID

// DefaultImportTimeout bounds a single import when Options leaves it unset.
const DefaultImportTimeout = time.Minute

// Options configures a Service. Zero values fall back to defaults.
type Options struct {
	MaxFileSize   int64         // 0 means unlimited
	MaxConcurrent int           // parallel imports
	MaxWaitTime   time.Duration // wait for an import slot
	ImportTimeout time.Duration
	FilterField   string
}

// Service provides roster import and card sheet generation.
type Service struct {
	store   RosterStore
	limiter *ImportLimiter

	maxFileSize   int64
	importTimeout time.Duration
	filterField   string

	now func() time.Time
}

// NewService creates a new Service backed by store.
func NewService(store RosterStore, opts Options) *Service {
	if opts.FilterField == "" {
		opts.FilterField = DefaultFilterField
	}
	if opts.ImportTimeout <= 0 {
		opts.ImportTimeout = DefaultImportTimeout
	}

	return &Service{
		store:         store,
		limiter:       NewImportLimiter(opts.MaxConcurrent, opts.MaxWaitTime),
		maxFileSize:   opts.MaxFileSize,
		importTimeout: opts.ImportTimeout,
		filterField:   opts.FilterField,
		now:           time.Now,
	}
}

// FilterField returns the default record field used for sheet selection.
func (s *Service) FilterField() string {
	return s.filterField
}

// ImportRoster parses an uploaded CSV or XLSX file and stores the result.
//
// A file with a header but no data rows imports successfully with zero
// records. Only an empty upload, an oversize upload or an unreadable
// workbook fail.
func (s *Service) ImportRoster(ctx context.Context, fileName string, data []byte) (*RosterSummary, error) {
	logger := logging.WithFields(ctx,
		"file", fileName,
		"bytes", len(data),
		"ip", GetIPAddressFromContext(ctx),
		"user_agent", GetUserAgentFromContext(ctx),
	)

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyFile
	}
	if s.maxFileSize > 0 && int64(len(data)) > s.maxFileSize {
		return nil, fmt.Errorf("%w: %d bytes exceeds %dMB limit", ErrFileTooLarge, len(data), s.maxFileSize/(1024*1024))
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	ctx, cancel := context.WithTimeout(ctx, s.importTimeout)
	defer cancel()

	start := time.Now()
	r, err := readRoster(fileName, data)
	if err != nil {
		logger.Warn("roster import failed", "error", err)
		return nil, err
	}

	r.ID = uuid.NewString()
	r.CreatedAt = s.now()

	if err := s.store.Save(ctx, r); err != nil {
		return nil, fmt.Errorf("save roster: %w", err)
	}

	logger.Info("roster imported",
		"roster_id", r.ID,
		"format", r.Format,
		"records", len(r.Records),
		"columns", len(r.Headers),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	if r.Unterminated {
		logger.Warn("roster has an unterminated quoted field", "roster_id", r.ID)
	}

	sum := r.Summary(s.filterField)
	return &sum, nil
}

// Roster returns a stored roster by ID.
func (s *Service) Roster(ctx context.Context, id string) (*Roster, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrRosterNotFound
	}
	return s.store.Get(ctx, id)
}

// RosterSummary returns the summary of a stored roster.
func (s *Service) RosterSummary(ctx context.Context, id string) (*RosterSummary, error) {
	r, err := s.Roster(ctx, id)
	if err != nil {
		return nil, err
	}
	sum := r.Summary(s.filterField)
	return &sum, nil
}

// GenerateSheets selects the students matching req.Target and lays them out
// on printable sheets.
func (s *Service) GenerateSheets(ctx context.Context, req SheetRequest) (*SheetSet, error) {
	target := strings.TrimSpace(req.Target)
	if target == "" {
		return nil, ErrNoFilterValue
	}

	field := strings.TrimSpace(req.Field)
	if field == "" {
		field = s.filterField
	}

	r, err := s.Roster(ctx, req.RosterID)
	if err != nil {
		return nil, err
	}

	matched := roster.Filter(r.Records, field, target)
	if len(matched) == 0 {
		return nil, fmt.Errorf("%w: %s=%q", ErrNoMatches, field, target)
	}

	set := &SheetSet{
		RosterID: r.ID,
		Field:    field,
		Target:   target,
		Matched:  len(matched),
		Sheets:   cards.BuildSheets(matched, req.School),
		School:   req.School,
	}

	logging.FromContext(ctx).Info("sheets generated",
		"roster_id", r.ID,
		"field", field,
		"matched", set.Matched,
		"sheets", len(set.Sheets),
	)
	return set, nil
}

// ImportStatus returns the current import limiter state.
func (s *Service) ImportStatus() ImportLimiterStatus {
	return s.limiter.Status()
}

// WaitForImports blocks until in-flight imports finish or ctx is done.
func (s *Service) WaitForImports(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// readRoster turns raw upload bytes into an unsaved Roster.
func readRoster(fileName string, data []byte) (*Roster, error) {
	mt := mimetype.Detect(data)

	if roster.IsXLSX(fileName) || mt.Is("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet") {
		rows, err := roster.ReadXLSX(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
		}
		return newRoster(fileName, FormatXLSX, rows, false), nil
	}

	if !isTextLike(mt) {
		return nil, fmt.Errorf("%w: detected %s", ErrInvalidFile, mt.String())
	}

	text, err := roster.Decode(data)
	if err != nil {
		return nil, err
	}
	scan := roster.Scan(text)
	return newRoster(fileName, FormatCSV, scan.Rows, scan.Unterminated), nil
}

func newRoster(fileName string, format Format, rows [][]string, unterminated bool) *Roster {
	r := &Roster{
		FileName:     fileName,
		Format:       format,
		Records:      roster.FromRows(rows),
		Unterminated: unterminated,
	}
	if len(rows) > 0 {
		r.Headers = roster.NormalizeHeaders(rows[0])
	}
	return r
}

// isTextLike accepts anything mimetype classifies as text, plus unknown
// binary, which is how some legacy code pages are reported.
func isTextLike(mt *mimetype.MIME) bool {
	for m := mt; m != nil; m = m.Parent() {
		if strings.HasPrefix(m.String(), "text/") {
			return true
		}
	}
	return mt.Is("application/octet-stream")
}
