package roster

// parse.go turns raw delimited text into student records.
//
// Parsing runs in three phases over a fully materialized string:
//  1. Scan walks runes with one rune of lookahead and produces rows of trimmed fields
//  2. NormalizeHeaders canonicalizes the first row into field names
//  3. BuildRecords zips every following row against those names
//
// Nothing here returns an error. Malformed input always produces some output.

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// ScanResult is the output of Scan.
type ScanResult struct {
	Rows [][]string

	// Unterminated is true when the input ended inside a quoted field.
	// The rows are still valid: the open field swallowed everything up to
	// the end of input, including any delimiters and line breaks.
	Unterminated bool
}

// ParseCSV parses text into records keyed by the normalized header row.
// Returns an empty slice when there is no header or no data row.
func ParseCSV(text string) []Record {
	return FromRows(ParseRows(text))
}

// FromRows builds records from already-split rows, treating rows[0] as the header.
func FromRows(rows [][]string) []Record {
	if len(rows) < 2 {
		return []Record{}
	}
	return BuildRecords(rows, NormalizeHeaders(rows[0]))
}

// ParseRows splits text into rows of fields.
//
// Double quotes toggle quoted mode wherever they appear in a field and are never
// copied to the output; inside quotes a doubled quote yields one literal quote.
// Lines may end in \n, \r or \r\n. Blank lines are dropped. Bytes that are
// not valid UTF-8 are kept as-is; run Decode first to get readable text.
//
// An unterminated quote consumes the rest of the input into the current field.
// Use Scan to detect that case.
func ParseRows(text string) [][]string {
	return Scan(text).Rows
}

// Scan is ParseRows with diagnostics.
func Scan(text string) ScanResult {
	var (
		rows     [][]string
		row      []string
		field    strings.Builder
		inQuotes bool
	)

	endField := func() {
		row = append(row, trimField(field.String()))
		field.Reset()
	}

	for i := 0; i < len(text); {
		c, size := utf8.DecodeRuneInString(text[i:])
		var next rune
		if i+size < len(text) {
			next, _ = utf8.DecodeRuneInString(text[i+size:])
		}
		// Raw bytes, so invalid UTF-8 is copied through rather than replaced.
		raw := text[i : i+size]
		i += size

		if inQuotes {
			switch {
			case c == '"' && next == '"':
				field.WriteByte('"')
				i++
			case c == '"':
				inQuotes = false
			default:
				field.WriteString(raw)
			}
			continue
		}

		switch c {
		case '"':
			inQuotes = true
		case ',':
			endField()
		case '\n', '\r':
			if field.Len() > 0 || len(row) > 0 {
				endField()
				rows = append(rows, row)
			}
			row = nil
			field.Reset()
			if c == '\r' && next == '\n' {
				i++
			}
		default:
			field.WriteString(raw)
		}
	}

	if field.Len() > 0 || len(row) > 0 {
		endField()
		rows = append(rows, row)
	}

	return ScanResult{Rows: rows, Unterminated: inQuotes}
}

// NormalizeHeader lower-cases a header cell and collapses every run of
// whitespace or underscores into a single underscore.
//
//	"Roll  Number" -> "roll_number"
//	"Father_Name"  -> "father_name"
func NormalizeHeader(cell string) string {
	var b strings.Builder
	b.Grow(len(cell))

	inRun := false
	for _, r := range strings.ToLower(cell) {
		if r == '_' || unicode.IsSpace(r) {
			if !inRun {
				b.WriteByte('_')
				inRun = true
			}
			continue
		}
		inRun = false
		b.WriteRune(r)
	}
	return b.String()
}

// NormalizeHeaders applies NormalizeHeader to every cell, keeping column order.
// Duplicates are kept.
func NormalizeHeaders(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		out[i] = NormalizeHeader(h)
	}
	return out
}

// BuildRecords pairs every row after the first with headers by column position.
//
// Columns beyond len(headers) are dropped. Headers beyond len(row) are left out
// of that record entirely. Zero-length rows are skipped.
func BuildRecords(rows [][]string, headers []string) []Record {
	if len(rows) < 2 {
		return []Record{}
	}

	records := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}

		n := min(len(row), len(headers))
		rec := newRecord(n)
		for i := 0; i < n; i++ {
			rec.set(headers[i], row[i])
		}
		records = append(records, rec)
	}
	return records
}

// trimField strips surrounding whitespace and stray byte-order marks.
func trimField(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\uFEFF'
	})
}
