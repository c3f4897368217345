package core

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/JonMunkholm/idcards/internal/cards"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nil error returns empty",
			err:         nil,
			wantCode:    "",
			wantMessage: "",
		},
		{
			name:        "file too large",
			err:         fmt.Errorf("%w: 30000000 bytes exceeds 20MB limit", ErrFileTooLarge),
			wantCode:    "FILE001",
			wantMessage: "File exceeds the maximum upload size",
		},
		{
			name:        "http body limit",
			err:         errors.New("http: request body too large"),
			wantCode:    "FILE001",
			wantMessage: "File exceeds the maximum upload size",
		},
		{
			name:        "binary upload",
			err:         fmt.Errorf("%w: detected image/png", ErrInvalidFile),
			wantCode:    "FILE002",
			wantMessage: "File is not a valid CSV or Excel workbook",
		},
		{
			name:        "broken workbook",
			err:         errors.New("open workbook: zip: not a valid zip file"),
			wantCode:    "FILE002",
			wantMessage: "The workbook could not be read",
		},
		{
			name:        "empty file",
			err:         ErrEmptyFile,
			wantCode:    "FILE005",
			wantMessage: "The uploaded file is empty",
		},
		{
			name:        "no filter value",
			err:         ErrNoFilterValue,
			wantCode:    "FLT001",
			wantMessage: "No student identifier was entered",
		},
		{
			name:        "no matches",
			err:         fmt.Errorf("%w: uid=%q", ErrNoMatches, "42"),
			wantCode:    "FLT002",
			wantMessage: "No students match the value you entered",
		},
		{
			name:        "roster not found",
			err:         ErrRosterNotFound,
			wantCode:    "RST001",
			wantMessage: "Roster not found",
		},
		{
			name:        "invalid logo",
			err:         fmt.Errorf("%w: unsupported type text/plain", cards.ErrInvalidLogo),
			wantCode:    "IMG001",
			wantMessage: "The logo is not a supported image",
		},
		{
			name:        "logo too large",
			err:         cards.ErrLogoTooLarge,
			wantCode:    "IMG002",
			wantMessage: "The logo image is too large",
		},
		{
			name:        "too many imports",
			err:         ErrTooManyImports,
			wantCode:    "UPL002",
			wantMessage: "System is busy processing other uploads",
		},
		{
			name:        "deadline",
			err:         fmt.Errorf("save roster: %w", context.DeadlineExceeded),
			wantCode:    "UPL005",
			wantMessage: "Request timed out",
		},
		{
			name:        "connection refused",
			err:         errors.New("dial tcp: connection refused"),
			wantCode:    "DB004",
			wantMessage: "Unable to connect to database",
		},
		{
			name:        "rate limit",
			err:         errors.New("rate limit exceeded"),
			wantCode:    "RATE001",
			wantMessage: "Too many requests",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("some random internal error"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
		{
			name:        "case insensitive matching",
			err:         errors.New("ROSTER NOT FOUND"),
			wantCode:    "RST001",
			wantMessage: "Roster not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("MapError() message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	result := FormatUserError(ErrRosterNotFound)

	expected := "Roster not found (Code: RST001). The roster may have expired. Please upload it again"
	if result != expected {
		t.Errorf("FormatUserError() = %q, want %q", result, expected)
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error is not user facing", nil, false},
		{"known error is user facing", ErrEmptyFile, true},
		{"unknown error is not user facing", errors.New("random internal error xyz"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUserFacing(tt.err); got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewUserError(t *testing.T) {
	t.Run("nil error returns nil", func(t *testing.T) {
		if got := NewUserError(nil); got != nil {
			t.Errorf("NewUserError(nil) = %v, want nil", got)
		}
	})

	t.Run("wraps technical error with user message", func(t *testing.T) {
		techErr := fmt.Errorf("%w: uid=%q", ErrNoMatches, "7")
		userErr := NewUserError(techErr)

		if userErr.Error() != "No students match the value you entered" {
			t.Errorf("Error() = %q, want user message", userErr.Error())
		}
		if !errors.Is(userErr, ErrNoMatches) {
			t.Error("Unwrap() should expose the original error")
		}
	})
}
