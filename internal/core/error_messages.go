// # Error Codes Reference
//
// This file maps technical errors to user-facing messages with codes that
// can be quoted to support staff.
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: the roster exceeds the upload size limit
//	          Patterns: "file too large", "request body too large"
//	FILE002 - Invalid file: not a CSV or readable workbook
//	          Patterns: "invalid csv", "open workbook"
//	FILE003 - Encoding error: the file's text could not be decoded
//	          Patterns: "decode input"
//	FILE004 - No file: no file was selected
//	          Patterns: "no file provided"
//	FILE005 - Empty file: the upload had no content
//	          Patterns: "empty file"
//
// # Filter Errors (FLT001-FLT099)
//
//	FLT001 - No filter value: the sheet form was submitted without a value
//	         Patterns: "no filter value"
//	FLT002 - No matches: no student has the requested value
//	         Patterns: "no matching students"
//
// # Roster Errors (RST001-RST099)
//
//	RST001 - Roster not found: expired or never imported
//	         Patterns: "roster not found"
//
// # Image Errors (IMG001-IMG099)
//
//	IMG001 - Invalid logo: not a supported image
//	         Patterns: "invalid logo"
//	IMG002 - Logo too large
//	         Patterns: "logo too large"
//
// # Upload Errors (UPL001-UPL099)
//
//	UPL002 - System busy: too many imports in progress
//	         Patterns: "too many imports"
//	UPL004 - Request cancelled
//	         Patterns: "context canceled"
//	UPL005 - Request timeout
//	         Patterns: "context deadline exceeded"
//
// # Database Errors (DB001-DB099)
//
// Only reachable when rosters are stored in PostgreSQL.
//
//	DB004 - Connection refused
//	        Patterns: "connection refused"
//	DB005 - Connection reset
//	        Patterns: "connection reset"
//
// # Rate Limiting (RATE001-RATE099)
//
//	RATE001 - Too many requests
//	          Patterns: "rate limit"
//
// # Default Error (ERR000)
//
// Fallback when no pattern matches. Check the logs for the original error.
//
// Patterns are matched case-insensitively with strings.Contains and the
// first match wins.
package core

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user
// messages. Specific patterns must precede general ones.
var errorPatterns = []errorPattern{
	// File errors
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum upload size",
			Action:  "Split the roster into smaller files",
			Code:    "FILE001",
		},
	},
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "File exceeds the maximum upload size",
			Action:  "Split the roster into smaller files",
			Code:    "FILE001",
		},
	},
	{
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "File is not a valid CSV or Excel workbook",
			Action:  "Upload a comma-separated .csv file or an .xlsx workbook",
			Code:    "FILE002",
		},
	},
	{
		pattern: "open workbook",
		msg: UserMessage{
			Message: "The workbook could not be read",
			Action:  "Re-save the file from Excel as .xlsx or export it as CSV",
			Code:    "FILE002",
		},
	},
	{
		pattern: "decode input",
		msg: UserMessage{
			Message: "File contains characters that could not be read",
			Action:  "Save the file with UTF-8 encoding",
			Code:    "FILE003",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select a CSV file to upload",
			Code:    "FILE004",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The uploaded file is empty",
			Action:  "Please upload a CSV file with a header row and student rows",
			Code:    "FILE005",
		},
	},

	// Filter errors
	{
		pattern: "no filter value",
		msg: UserMessage{
			Message: "No student identifier was entered",
			Action:  "Enter the value to match, such as a UID",
			Code:    "FLT001",
		},
	},
	{
		pattern: "no matching students",
		msg: UserMessage{
			Message: "No students match the value you entered",
			Action:  "Check the value against the roster and try again",
			Code:    "FLT002",
		},
	},

	// Roster errors
	{
		pattern: "roster not found",
		msg: UserMessage{
			Message: "Roster not found",
			Action:  "The roster may have expired. Please upload it again",
			Code:    "RST001",
		},
	},

	// Image errors
	{
		pattern: "invalid logo",
		msg: UserMessage{
			Message: "The logo is not a supported image",
			Action:  "Upload a PNG, JPEG, GIF, WebP or BMP image",
			Code:    "IMG001",
		},
	},
	{
		pattern: "logo too large",
		msg: UserMessage{
			Message: "The logo image is too large",
			Action:  "Use a smaller image",
			Code:    "IMG002",
		},
	},

	// Upload errors
	{
		pattern: "too many imports",
		msg: UserMessage{
			Message: "System is busy processing other uploads",
			Action:  "Please wait a moment and try again",
			Code:    "UPL002",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "UPL004",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try uploading a smaller file or check your connection",
			Code:    "UPL005",
		},
	},

	// Database errors
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "DB004",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Database connection was interrupted",
			Action:  "Please try again",
			Code:    "DB005",
		},
	},

	// Rate limiting
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Unmatched errors map to ERR000.
//
//	msg := MapError(fmt.Errorf("%w: uid=\"42\"", ErrNoMatches))
//	// msg.Code == "FLT002"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError formats err as "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matches a known pattern.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user-facing message.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err to a UserError. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
