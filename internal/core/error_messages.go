package core

// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
// When users encounter errors, they can quote the error code to support staff
// for faster diagnosis.
//
// # Network Errors (NET001-NET099)
//
//	NET001 - Timeout: The lyrics service did not answer in time
//	         Patterns: "request timeout"
//	NET002 - Connection: The lyrics service could not be reached
//	         Patterns: "connection error"
//	NET003 - Upstream status: The lyrics service answered with an error status
//	         Patterns: "lyrics api status 404" (not found), "lyrics api status"
//	NET004 - Bad response: The lyrics service sent an unreadable answer
//	         Patterns: "invalid json in lyrics response"
//
// # JSON Errors (JSON001-JSON099)
//
//	JSON001 - Malformed JSON: The registry text is not valid JSON
//	          Patterns: "invalid json"
//	JSON002 - Not an object: The registry JSON is not an object
//	          Patterns: "must be a json object"
//
// # Column Errors (COL001-COL099)
//
//	COL001 - Column not found: A referenced column or key does not exist
//	         Patterns: "column not found"
//	COL002 - Not numeric: Arithmetic needs numeric columns
//	         Patterns: "column is not numeric"
//
// # Duplicate Errors (DUP001-DUP099)
//
//	DUP001 - Dataset exists: A dataset with this name already exists
//	         Patterns: "dataset already exists"
//	DUP002 - Column exists: A column with this name already exists
//	         Patterns: "column already exists"
//
// # Dataset Errors (DS001-DS099)
//
//	DS001 - Dataset not found      Patterns: "dataset not found"
//	DS002 - Too many datasets      Patterns: "too many datasets"
//	DS003 - Original file missing  Patterns: "original file is not available"
//	DS004 - No registry loaded     Patterns: "no registry record loaded"
//	DS005 - Registry not saved     Patterns: "registry changes are not saved"
//	DS006 - No lyrics              Patterns: "no lyrics to download"
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL001 - Required input is empty    Patterns: "is required"
//	VAL002 - Invalid number             Patterns: "invalid number"
//	VAL003 - Unknown join type          Patterns: "unknown join kind"
//	VAL004 - Unknown operator           Patterns: "unknown operator"
//	VAL005 - Row out of range           Patterns: "row index out of range"
//	VAL006 - Invalid table size         Patterns: "invalid table size"
//	VAL007 - Remap file too narrow      Patterns: "at least two columns"
//	VAL008 - Unknown registry source    Patterns: "unknown registry source"
//	VAL009 - Malformed request body     Patterns: "malformed request body"
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large       Patterns: "file too large"
//	FILE002 - Unsupported type     Patterns: "unsupported file type"
//	FILE003 - Empty file           Patterns: "file is empty"
//	FILE004 - Malformed CSV        Patterns: "malformed csv"
//	FILE005 - Sheet not found      Patterns: "sheet not found"
//	FILE006 - No file              Patterns: "no file provided"
//	FILE007 - Unreadable workbook  Patterns: "open workbook"
//
// # Request Errors (UPL001, REQ001-REQ002, RATE001)
//
//	UPL001  - Too many uploads     Patterns: "too many concurrent uploads"
//	REQ001  - Request cancelled    Patterns: "context canceled"
//	REQ002  - Request timeout      Patterns: "context deadline exceeded"
//	RATE001 - Rate limited         Patterns: "rate limit"
//
// # Default Error (ERR000)
//
// Fallback when no specific pattern matches: "Operation failed".
//
// Error patterns are matched case-insensitively using strings.Contains.
// The first matching pattern wins, so more specific patterns must be
// defined before general ones.

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

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// The first matching pattern wins, so order matters.
var errorPatterns = []errorPattern{
	// =========================================================================
	// Network Errors (NET001-NET004)
	// =========================================================================
	{
		pattern: "request timeout",
		msg: UserMessage{
			Message: "The lyrics service took too long to answer",
			Action:  "Try again in a moment",
			Code:    "NET001",
		},
	},
	{
		pattern: "connection error",
		msg: UserMessage{
			Message: "Could not connect to the lyrics service",
			Action:  "Check your internet connection and try again",
			Code:    "NET002",
		},
	},
	{
		pattern: "lyrics api status 404",
		msg: UserMessage{
			Message: "Lyrics not found",
			Action:  "Check the spelling of the artist and the song title",
			Code:    "NET003",
		},
	},
	{
		pattern: "lyrics api status",
		msg: UserMessage{
			Message: "The lyrics service returned an error",
			Action:  "Try again later",
			Code:    "NET003",
		},
	},
	{
		pattern: "invalid json in lyrics response",
		msg: UserMessage{
			Message: "The lyrics service sent an unreadable answer",
			Action:  "Try again later",
			Code:    "NET004",
		},
	},

	// =========================================================================
	// JSON Errors (JSON001-JSON002)
	// =========================================================================
	{
		pattern: "invalid json",
		msg: UserMessage{
			Message: "The registry text is not valid JSON",
			Action:  "Check brackets, quotes and commas, or start from the sample",
			Code:    "JSON001",
		},
	},
	{
		pattern: "must be a json object",
		msg: UserMessage{
			Message: "The registry JSON must be an object",
			Action:  "Wrap the record fields in { }",
			Code:    "JSON002",
		},
	},

	// =========================================================================
	// Column and Duplicate Errors (COL001-COL002, DUP001-DUP002)
	// =========================================================================
	{
		pattern: "column not found",
		msg: UserMessage{
			Message: "Column not found",
			Action:  "Pick a column that exists in the selected dataset",
			Code:    "COL001",
		},
	},
	{
		pattern: "column is not numeric",
		msg: UserMessage{
			Message: "Column is not numeric",
			Action:  "Choose columns that contain only numbers",
			Code:    "COL002",
		},
	},
	{
		pattern: "dataset already exists",
		msg: UserMessage{
			Message: "A dataset with this name already exists",
			Action:  "Choose a different name or remove the existing dataset",
			Code:    "DUP001",
		},
	},
	{
		pattern: "column already exists",
		msg: UserMessage{
			Message: "A column with this name already exists",
			Action:  "Choose a different column name",
			Code:    "DUP002",
		},
	},

	// =========================================================================
	// Dataset Errors (DS001-DS006)
	// =========================================================================
	{
		pattern: "dataset not found",
		msg: UserMessage{
			Message: "Dataset not found",
			Action:  "Select one of the datasets listed in the sidebar",
			Code:    "DS001",
		},
	},
	{
		pattern: "too many datasets",
		msg: UserMessage{
			Message: "The session holds too many datasets",
			Action:  "Remove datasets you no longer need",
			Code:    "DS002",
		},
	},
	{
		pattern: "original file is not available",
		msg: UserMessage{
			Message: "The original file of this dataset is not available",
			Action:  "Upload the file again to switch sheets",
			Code:    "DS003",
		},
	},
	{
		pattern: "no registry record loaded",
		msg: UserMessage{
			Message: "No registry record is loaded",
			Action:  "Upload, paste or load the sample record first",
			Code:    "DS004",
		},
	},

	{
		pattern: "registry changes are not saved",
		msg: UserMessage{
			Message: "The registry changes have not been saved yet",
			Action:  "Save the record before downloading it",
			Code:    "DS005",
		},
	},
	{
		pattern: "no lyrics to download",
		msg: UserMessage{
			Message: "There are no lyrics to download",
			Action:  "Search for a song first",
			Code:    "DS006",
		},
	},

	// =========================================================================
	// File Errors (FILE001-FILE007)
	// =========================================================================
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum size limit",
			Action:  "Split the file into smaller files",
			Code:    "FILE001",
		},
	},
	{
		pattern: "unsupported file type",
		msg: UserMessage{
			Message: "Unsupported file type",
			Action:  "Upload a .csv, .xlsx or .xlsm file",
			Code:    "FILE002",
		},
	},
	{
		pattern: "file is empty",
		msg: UserMessage{
			Message: "The uploaded file is empty",
			Action:  "Upload a file with a header row",
			Code:    "FILE003",
		},
	},
	{
		pattern: "malformed csv",
		msg: UserMessage{
			Message: "The file is not a valid CSV",
			Action:  "Check that every row has the same number of columns",
			Code:    "FILE004",
		},
	},
	{
		pattern: "sheet not found",
		msg: UserMessage{
			Message: "Sheet not found in the workbook",
			Action:  "Pick one of the listed sheets",
			Code:    "FILE005",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Choose a file to upload",
			Code:    "FILE006",
		},
	},
	{
		pattern: "open workbook",
		msg: UserMessage{
			Message: "The workbook could not be opened",
			Action:  "Save it again as .xlsx and retry",
			Code:    "FILE007",
		},
	},

	// =========================================================================
	// Validation Errors (VAL001-VAL009)
	// =========================================================================
	{
		pattern: "is required",
		msg: UserMessage{
			Message: "A required field is empty",
			Action:  "Fill in all fields and try again",
			Code:    "VAL001",
		},
	},
	{
		pattern: "invalid number",
		msg: UserMessage{
			Message: "Invalid number format",
			Action:  "Use digits with an optional decimal point",
			Code:    "VAL002",
		},
	},
	{
		pattern: "unknown join kind",
		msg: UserMessage{
			Message: "Unknown join type",
			Action:  "Use inner, left, right or outer",
			Code:    "VAL003",
		},
	},
	{
		pattern: "unknown operator",
		msg: UserMessage{
			Message: "Unknown operation",
			Action:  "Use add, subtract, multiply or divide",
			Code:    "VAL004",
		},
	},
	{
		pattern: "row index out of range",
		msg: UserMessage{
			Message: "Row does not exist",
			Action:  "Refresh the page and pick a listed row",
			Code:    "VAL005",
		},
	},

	{
		pattern: "invalid table size",
		msg: UserMessage{
			Message: "Invalid table size",
			Action:  "Use at least one column and no more than 10000 rows or columns",
			Code:    "VAL006",
		},
	},
	{
		pattern: "at least two columns",
		msg: UserMessage{
			Message: "The DE/PARA file needs at least two columns",
			Action:  "Put original values in one column and new values in another",
			Code:    "VAL007",
		},
	},
	{
		pattern: "unknown registry source",
		msg: UserMessage{
			Message: "Unknown input method",
			Action:  "Upload a file, paste text or load the sample",
			Code:    "VAL008",
		},
	},
	{
		pattern: "malformed request body",
		msg: UserMessage{
			Message: "The request could not be read",
			Action:  "Check the request body format",
			Code:    "VAL009",
		},
	},

	// =========================================================================
	// Request Errors (UPL001, REQ001-REQ002, RATE001)
	// =========================================================================
	{
		pattern: "too many concurrent uploads",
		msg: UserMessage{
			Message: "System is busy processing other uploads",
			Action:  "Please wait a moment and try again",
			Code:    "UPL001",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller file or try again later",
			Code:    "REQ002",
		},
	},
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
// Support staff should check application logs for the original technical
// error when users report ERR000.
var defaultMessage = UserMessage{
	Message: "Operation failed",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// It searches through known error patterns (case-insensitive) and returns
// the first match. If no pattern matches, a generic fallback message with
// code ERR000 is returned.
//
// Example:
//
//	err := fmt.Errorf("join: %w", &table.ColumnError{Column: "id"})
//	msg := MapError(err)
//	// msg.Code == "COL001"
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

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}
