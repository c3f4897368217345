// Package roster parses spreadsheet exports of student records.
//
// The parser is a hand-written state machine rather than encoding/csv: it
// accepts ragged rows, bare \r line endings and quotes that open mid-field,
// none of which the standard reader tolerates without errors.
//
// # Records
//
// The first row is the header. Each header cell is normalized with
// [NormalizeHeader] and becomes the key for that column in every [Record].
// Field names such as "uid", "name" or "roll_number" are conventions only;
// any header produces a key and callers must handle missing keys.
//
//	records := roster.ParseCSV("uid,name\n1,\"Doe, Jane\"\n")
//	records[0].Value("name") // "Doe, Jane"
//
// # Inputs
//
// [Decode] turns uploaded bytes into text (BOM removal, UTF-16, Windows-1252).
// [ReadXLSX] reads workbooks; its rows go through [FromRows] so header and
// record rules are identical for both formats.
//
// Every function in this package is pure and safe for concurrent use.
package roster
