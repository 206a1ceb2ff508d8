// Package pipeline coordinates the decode, parse, clean, and serialize
// stages and tracks per-file session state between requests.
//
// # Error Codes Reference
//
// Pipeline errors are mapped to user-facing messages with codes that can
// be quoted to support staff:
//
//	FILE001 - Upload is not a text file
//	FILE002 - File contained no rows
//	FILE003 - File could not be parsed as delimited text
//	FILE004 - File exceeds the size limit
//	CLN001  - Cleaning removed every row
//	SES001  - File session not found or expired
//	SES002  - Operation requested out of order
//
// All of these are recoverable at the request boundary: the caller
// reports the condition and the user retries with different input or
// options. None are fatal to the process.
package pipeline

import (
	"errors"

	"github.com/tabwash/tabwash/internal/clean"
	"github.com/tabwash/tabwash/internal/table"
)

var (
	// ErrNotText means the uploaded content is not a text format.
	ErrNotText = errors.New("upload is not a text file")

	// ErrEmptyInput means the parser returned zero rows.
	ErrEmptyInput = errors.New("empty input: no rows found")

	// ErrInvalidState means an operation was requested before the stage
	// it depends on completed, e.g. download before a successful clean.
	ErrInvalidState = errors.New("invalid state for requested operation")

	// ErrSessionNotFound means the file session does not exist or has
	// expired.
	ErrSessionNotFound = errors.New("file session not found")
)

// UserMessage is the user-facing rendering of an internal error.
type UserMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
}

// MapError converts an internal error to a user-friendly message with a
// support code. Unknown errors map to a generic message so internal
// detail never reaches the client.
func MapError(err error) UserMessage {
	var parseErr *table.ParseError

	switch {
	case errors.Is(err, ErrNotText):
		return UserMessage{
			Code:    "FILE001",
			Message: "The uploaded file does not look like a text file",
			Action:  "Upload a CSV, TSV, or similar delimited text file",
		}
	case errors.Is(err, ErrEmptyInput):
		return UserMessage{
			Code:    "FILE002",
			Message: "The uploaded file contained no rows",
			Action:  "Upload a file with at least a header row",
		}
	case errors.As(err, &parseErr):
		return UserMessage{
			Code:    "FILE003",
			Message: "The file could not be parsed as delimited text: " + parseErr.Error(),
			Action:  "Check the file for unbalanced quotes or binary content",
		}
	case errors.Is(err, clean.ErrEmptyAfterCleaning):
		return UserMessage{
			Code:    "CLN001",
			Message: "Cleaning removed every row",
			Action:  "Disable empty-row removal or check the file contents",
		}
	case errors.Is(err, ErrSessionNotFound):
		return UserMessage{
			Code:    "SES001",
			Message: "File session not found",
			Action:  "The session may have expired; upload the file again",
		}
	case errors.Is(err, ErrInvalidState):
		return UserMessage{
			Code:    "SES002",
			Message: "Nothing to download yet",
			Action:  "Run a clean on the file first",
		}
	default:
		return UserMessage{
			Code:    "GEN001",
			Message: "Something went wrong processing the file",
			Action:  "Please try again",
		}
	}
}
