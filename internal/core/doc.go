// Package core provides the business logic for roster import and ID card
// sheet generation, independent of any UI or transport layer. It is used by
// the web server and the idcards command.
//
// # Flow
//
//  1. [Service.ImportRoster] detects CSV or XLSX input, decodes legacy text
//     encodings, splits the file into [roster.Record] values and saves a
//     [Roster] in a [RosterStore].
//  2. [Service.GenerateSheets] filters a stored roster on one field and lays
//     the matches out on A4 sheets via [cards.BuildSheets].
//  3. [Service.StartRosterSweeper] deletes rosters older than their TTL.
//
// # Storage
//
// [MemoryStore] keeps rosters in process memory. [PostgresStore] stores them
// in a rosters table with the records held as JSONB; call
// [PostgresStore.EnsureSchema] once at startup.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each category has a code for support reference:
//
//   - FILE001-FILE005: upload size, format and encoding
//   - FLT001-FLT002: missing filter value, no matching students
//   - RST001: roster expired or unknown
//   - IMG001-IMG002: school logo problems
//   - UPL002-UPL005: busy, cancelled, timed out
package core
