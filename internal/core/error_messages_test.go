package core

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/JonMunkholm/toolbox/internal/lyrics"
	"github.com/JonMunkholm/toolbox/internal/session"
	"github.com/JonMunkholm/toolbox/internal/societary"
	"github.com/JonMunkholm/toolbox/internal/table"
	"github.com/JonMunkholm/toolbox/internal/tableio"
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
			name:        "lyrics timeout",
			err:         fmt.Errorf("%w: %v", lyrics.ErrTimeout, context.DeadlineExceeded),
			wantCode:    "NET001",
			wantMessage: "The lyrics service took too long to answer",
		},
		{
			name:        "lyrics connection failure",
			err:         &lyrics.ConnectionError{Err: errors.New("dial tcp: connection refused")},
			wantCode:    "NET002",
			wantMessage: "Could not connect to the lyrics service",
		},
		{
			name:        "lyrics not found status",
			err:         &lyrics.StatusError{Code: 404},
			wantCode:    "NET003",
			wantMessage: "Lyrics not found",
		},
		{
			name:        "lyrics server error status",
			err:         &lyrics.StatusError{Code: 503},
			wantCode:    "NET003",
			wantMessage: "The lyrics service returned an error",
		},
		{
			name:        "lyrics body is not json",
			err:         &lyrics.DecodeError{Err: errors.New("unexpected EOF")},
			wantCode:    "NET004",
			wantMessage: "The lyrics service sent an unreadable answer",
		},
		{
			name:        "registry json malformed",
			err:         &societary.SyntaxError{Err: errors.New("unexpected EOF")},
			wantCode:    "JSON001",
			wantMessage: "The registry text is not valid JSON",
		},
		{
			name:        "registry json not an object",
			err:         societary.ErrNotObject,
			wantCode:    "JSON002",
			wantMessage: "The registry JSON must be an object",
		},
		{
			name:        "missing column",
			err:         fmt.Errorf("join: %w", &table.ColumnError{Column: "id"}),
			wantCode:    "COL001",
			wantMessage: "Column not found",
		},
		{
			name:        "duplicate dataset",
			err:         fmt.Errorf("%w: %q", session.ErrDatasetExists, "sales"),
			wantCode:    "DUP001",
			wantMessage: "A dataset with this name already exists",
		},
		{
			name:        "duplicate column",
			err:         table.ErrDuplicateColumn,
			wantCode:    "DUP002",
			wantMessage: "A column with this name already exists",
		},
		{
			name:        "unsupported file",
			err:         fmt.Errorf("%w: %q", tableio.ErrUnsupportedFormat, ".xls"),
			wantCode:    "FILE002",
			wantMessage: "Unsupported file type",
		},
		{
			name:        "empty artist",
			err:         lyrics.ErrEmptyArtist,
			wantCode:    "VAL001",
			wantMessage: "A required field is empty",
		},
		{
			name:        "invalid number",
			err:         &table.ValueError{Value: "abc", Reason: "invalid number"},
			wantCode:    "VAL002",
			wantMessage: "Invalid number format",
		},
		{
			name:        "upload limiter full",
			err:         ErrTooManyUploads,
			wantCode:    "UPL001",
			wantMessage: "System is busy processing other uploads",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("some random internal error"),
			wantCode:    "ERR000",
			wantMessage: "Operation failed",
		},
		{
			name:        "case insensitive matching",
			err:         errors.New("MALFORMED CSV: bare quote"),
			wantCode:    "FILE004",
			wantMessage: "The file is not a valid CSV",
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
	err := fmt.Errorf("%w: %q", tableio.ErrSheetNotFound, "Plan2")
	result := FormatUserError(err)

	expected := "Sheet not found in the workbook (Code: FILE005). Pick one of the listed sheets"
	if result != expected {
		t.Errorf("FormatUserError() = %q, want %q", result, expected)
	}
}
