package cards

import (
	"strings"
	"time"

	"github.com/JonMunkholm/idcards/internal/roster"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Display fallbacks.
const (
	NotAvailable     = "N/A"
	NoPhoto          = "No Photo"
	PhotoFallbackURL = "https://picsum.photos/80/100"
)

// DateDisplayLayout renders dates as DD/MM/YYYY.
const DateDisplayLayout = "02/01/2006"

// TwoDigitYearPivot defines how 2-digit years are interpreted.
// Years that would land more than this many years in the future are moved
// back a century. Birth dates are never in the future, so the pivot is 0.
const TwoDigitYearPivot = 0

var (
	twoDigitYearLayouts = []string{
		"1/2/06", "01/02/06", "1-2-06", "1.2.06", "01.02.06",
	}
	fourDigitYearLayouts = []string{
		"2006-01-02", "2006/01/02", "2006.01.02",
		"1/2/2006", "01/02/2006", "1-2-2006", "01-02-2006", "1.2.2006", "01.02.2006",
		"Jan 2, 2006", "January 2, 2006", "2 Jan 2006", "2 January 2006",
		"20060102",
		time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05",
	}
)

var upper = cases.Upper(language.Und)

// Card holds the display strings for one student card.
// Every field is safe to render as-is; missing values are already replaced
// by their fallback text.
type Card struct {
	Name        string `json:"name"` // upper-cased
	Class       string `json:"class"`
	RollNumber  string `json:"roll_number"`
	DateOfBirth string `json:"date_of_birth"` // DD/MM/YYYY, or the raw value when unparseable
	FatherName  string `json:"father_name"`
	Mobile      string `json:"mobile"`
	Address     string `json:"address"`
	PhotoURL    string `json:"photo_url,omitempty"` // empty when the record has no photo
	IDLabel     string `json:"id_label"`            // id_number, then roll_number, then N/A
	Key         string `json:"key"`                 // stable key for the card within a sheet
}

// HasPhoto reports whether the card should render an image.
func (c Card) HasPhoto() bool {
	return c.PhotoURL != ""
}

// NewCard maps a record's conventional fields onto display strings.
func NewCard(rec roster.Record) Card {
	return Card{
		Name:        upper.String(rec.Value(roster.FieldName)),
		Class:       rec.Value(roster.FieldClass),
		RollNumber:  rec.Value(roster.FieldRollNumber),
		DateOfBirth: FormatDate(rec.Value(roster.FieldDateOfBirth)),
		FatherName:  rec.Value(roster.FieldFatherName),
		Mobile:      fallback(rec.Value(roster.FieldMobile), NotAvailable),
		Address:     rec.Value(roster.FieldAddress),
		PhotoURL:    rec.Value(roster.FieldPhotoURL),
		IDLabel:     fallback(rec.Value(roster.FieldIDNumber), rec.Value(roster.FieldRollNumber), NotAvailable),
		Key:         rec.Value("id"),
	}
}

// FormatDate renders a date of birth as DD/MM/YYYY.
// Empty input stays empty; anything it cannot parse is returned unchanged.
func FormatDate(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	t, ok := ParseDate(s)
	if !ok {
		return raw
	}
	return t.Format(DateDisplayLayout)
}

// ParseDate tries the known layouts, four-digit years first.
func ParseDate(s string) (time.Time, bool) {
	for _, layout := range fourDigitYearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	pivotYear := time.Now().Year() + TwoDigitYearPivot
	for _, layout := range twoDigitYearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			if t.Year() > pivotYear {
				t = t.AddDate(-100, 0, 0)
			}
			return t, true
		}
	}
	return time.Time{}, false
}

// fallback returns the first non-empty value.
func fallback(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
