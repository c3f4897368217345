// Package cards turns student records into printable ID card sheets.
//
// It owns the display contract only: which record fields appear on a card,
// their fallback text, date formatting, and the fixed A4 grid that cards are
// laid out on. HTML rendering lives in internal/web/templates.
package cards
