package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabwash/tabwash/internal/clean"
	"github.com/tabwash/tabwash/internal/table"
)

func newTestService() *Service {
	return NewService(clean.DefaultOptions(), time.Hour)
}

func TestService_IngestReportsDetection(t *testing.T) {
	svc := newTestService()

	rep, err := svc.Ingest("data.csv", []byte("Name;Email\nAlice;a@x.com\n"))
	require.NoError(t, err)

	assert.NotEmpty(t, rep.FileID)
	assert.Equal(t, "data.csv", rep.FileName)
	assert.Equal(t, "utf-8", rep.EncodingLabel)
	assert.Equal(t, ";", rep.DetectedDelimiter)
	assert.Equal(t, 2, rep.DetectedColumnCount)
	assert.Equal(t, 2, rep.RowsBefore)
	assert.False(t, rep.Cleaned)
}

func TestService_IngestEmpty(t *testing.T) {
	svc := newTestService()

	_, err := svc.Ingest("empty.csv", nil)
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestService_CleanFullRun(t *testing.T) {
	svc := newTestService()

	rep, err := svc.Ingest("report.csv", []byte("Name, Email \nAlice,a@x.com\n  ,   \nAlice,a@x.com\n"))
	require.NoError(t, err)

	opts := clean.DefaultOptions()
	opts.Dedupe = true
	got, err := svc.Clean(rep.FileID, opts)
	require.NoError(t, err)

	assert.True(t, got.Cleaned)
	assert.Equal(t, 4, got.RowsBefore)
	assert.Equal(t, 2, got.RowsAfter)
	assert.Equal(t, 1, got.RemovedEmpty)
	assert.Equal(t, 1, got.DuplicatesRemoved)
	assert.Equal(t, "cleaned_report.csv", got.OutputFileName)

	name, data, err := svc.Download(rep.FileID)
	require.NoError(t, err)
	assert.Equal(t, "cleaned_report.csv", name)
	// BOM + quote-all + CRLF are the default output conventions.
	assert.Equal(t, "\xef\xbb\xbf\"name\",\"email\"\r\n\"Alice\",\"a@x.com\"\r\n", string(data))
}

func TestService_DownloadBeforeClean(t *testing.T) {
	svc := newTestService()

	rep, err := svc.Ingest("a.csv", []byte("a,b\n1,2\n"))
	require.NoError(t, err)

	_, _, err = svc.Download(rep.FileID)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestService_UnknownSession(t *testing.T) {
	svc := newTestService()

	_, err := svc.Status("nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = svc.Clean("nope", clean.DefaultOptions())
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, _, err = svc.Download("nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestService_FailedCleanLeavesPriorResult(t *testing.T) {
	svc := newTestService()

	rep, err := svc.Ingest("a.csv", []byte("a,b\n1,2\n"))
	require.NoError(t, err)

	_, err = svc.Clean(rep.FileID, clean.DefaultOptions())
	require.NoError(t, err)
	_, first, err := svc.Download(rep.FileID)
	require.NoError(t, err)

	// A whitespace-only grid makes the next clean fail.
	rep2, err := svc.Ingest("b.csv", []byte("  ,  \n , \n"))
	require.NoError(t, err)
	_, err = svc.Clean(rep2.FileID, clean.DefaultOptions())
	assert.ErrorIs(t, err, clean.ErrEmptyAfterCleaning)

	// The earlier session's result is untouched.
	_, again, err := svc.Download(rep.FileID)
	require.NoError(t, err)
	assert.Equal(t, first, again)

	// And the failed session still has no downloadable result.
	_, _, err = svc.Download(rep2.FileID)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestService_CleanSupersedesPriorResult(t *testing.T) {
	svc := newTestService()

	rep, err := svc.Ingest("a.csv", []byte("a,b\n1,2\n"))
	require.NoError(t, err)

	opts := clean.DefaultOptions()
	_, err = svc.Clean(rep.FileID, opts)
	require.NoError(t, err)
	_, withBOM, err := svc.Download(rep.FileID)
	require.NoError(t, err)

	opts.EncodingMarker = false
	opts.ConsistentQuotes = false
	_, err = svc.Clean(rep.FileID, opts)
	require.NoError(t, err)
	_, plain, err := svc.Download(rep.FileID)
	require.NoError(t, err)

	assert.NotEqual(t, string(withBOM), string(plain))
	assert.Equal(t, "a,b\r\n1,2\r\n", string(plain))
}

func TestService_Sweep(t *testing.T) {
	svc := NewService(clean.DefaultOptions(), time.Minute)

	rep, err := svc.Ingest("a.csv", []byte("a,b\n1,2\n"))
	require.NoError(t, err)

	svc.sweep(time.Now().Add(2 * time.Minute))

	_, err = svc.Status(rep.FileID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMapError_Codes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{name: "not text", err: ErrNotText, code: "FILE001"},
		{name: "empty input", err: ErrEmptyInput, code: "FILE002"},
		{name: "parse failure", err: &table.ParseError{Line: 3, Err: assert.AnError}, code: "FILE003"},
		{name: "empty after cleaning", err: clean.ErrEmptyAfterCleaning, code: "CLN001"},
		{name: "session not found", err: ErrSessionNotFound, code: "SES001"},
		{name: "invalid state", err: ErrInvalidState, code: "SES002"},
		{name: "unknown", err: assert.AnError, code: "GEN001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := MapError(tt.err)
			assert.Equal(t, tt.code, msg.Code)
			assert.NotEmpty(t, msg.Message)
		})
	}
}
