package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tabwash/tabwash/internal/clean"
	"github.com/tabwash/tabwash/internal/encoding"
	"github.com/tabwash/tabwash/internal/table"
)

// Session is the per-file pipeline state. The parsed grid is immutable
// after ingestion; each clean run reads it, produces a fresh Result, and
// replaces the previous one wholesale.
type Session struct {
	ID        string
	FileName  string
	CreatedAt time.Time

	encoding   encoding.DecodedText
	grid       table.Grid
	delimiter  rune
	fieldCount int

	result *Result // nil until the first successful clean
}

// Result is the outcome of one clean run. A subsequent run supersedes
// it; results are never merged.
type Result struct {
	Grid     table.Grid
	Stats    clean.Stats
	Options  clean.Options
	Output   []byte
	FileName string
}

// Report is the diagnostics record returned to callers. It is intended
// for human-facing display, not further processing.
type Report struct {
	FileID                string `json:"fileId"`
	FileName              string `json:"fileName"`
	EncodingLabel         string `json:"encodingLabel"`
	InvalidCharacterCount int    `json:"invalidCharacterCount"`
	DetectedDelimiter     string `json:"detectedDelimiter"`
	DetectedColumnCount   int    `json:"detectedColumnCount"`

	Cleaned           bool   `json:"cleaned"`
	OutputFileName    string `json:"outputFileName,omitempty"`
	RowsBefore        int    `json:"rowsBefore"`
	RowsAfter         int    `json:"rowsAfter"`
	RemovedEmpty      int    `json:"removedEmpty"`
	DuplicatesRemoved int    `json:"duplicatesRemoved"`
	TrimmedColumns    int    `json:"trimmedColumns"`
	PaddedColumns     int    `json:"paddedColumns"`
}

// Service runs the pipeline and owns all file sessions. Sessions are the
// only shared mutable state; every method snapshots or replaces them
// under the lock and does the heavy work outside it.
type Service struct {
	mu       sync.Mutex
	sessions map[string]*Session

	defaults clean.Options
	ttl      time.Duration
}

// NewService creates a Service. defaults are the cleaning toggles used
// when a clean request does not supply its own; ttl bounds how long an
// uploaded file's session is retained.
func NewService(defaults clean.Options, ttl time.Duration) *Service {
	return &Service{
		sessions: make(map[string]*Session),
		defaults: defaults,
		ttl:      ttl,
	}
}

// Defaults returns the default cleaning options.
func (s *Service) Defaults() clean.Options {
	return s.defaults
}

// Ingest decodes and parses an uploaded file and creates a session for
// it. Decoding never fails; parse failures surface as ErrEmptyInput or a
// table.ParseError.
func (s *Service) Ingest(fileName string, data []byte) (Report, error) {
	dec := encoding.Resolve(data)

	parsed, err := table.Parse(dec.Text)
	if err != nil {
		if errors.Is(err, table.ErrNoRows) {
			return Report{}, ErrEmptyInput
		}
		return Report{}, err
	}

	sess := &Session{
		ID:         uuid.NewString(),
		FileName:   fileName,
		CreatedAt:  time.Now(),
		encoding:   dec,
		grid:       parsed.Grid,
		delimiter:  parsed.Delimiter,
		fieldCount: parsed.FieldCount,
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	return s.report(sess), nil
}

// Clean runs the cleaning engine and serializer against a session's
// parsed grid and replaces its result slot. Cleaning works on a copy of
// the grid, so a failed run leaves the prior result untouched.
func (s *Service) Clean(fileID string, opts clean.Options) (Report, error) {
	s.mu.Lock()
	sess, ok := s.sessions[fileID]
	if !ok {
		s.mu.Unlock()
		return Report{}, ErrSessionNotFound
	}
	grid := sess.grid
	fileName := sess.FileName
	s.mu.Unlock()

	cleaned, stats, err := clean.Clean(grid, opts)
	if err != nil {
		return Report{}, err
	}

	result := &Result{
		Grid:     cleaned,
		Stats:    stats,
		Options:  opts,
		Output:   clean.Serialize(cleaned, opts),
		FileName: clean.OutputName(fileName),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok = s.sessions[fileID]
	if !ok {
		// Session expired while cleaning ran.
		return Report{}, ErrSessionNotFound
	}
	sess.result = result
	return s.report(sess), nil
}

// Download returns the serialized output of the session's latest clean
// run and its suggested filename. ErrInvalidState before the first
// successful clean.
func (s *Service) Download(fileID string) (string, []byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[fileID]
	if !ok {
		return "", nil, ErrSessionNotFound
	}
	if sess.result == nil {
		return "", nil, ErrInvalidState
	}
	return sess.result.FileName, sess.result.Output, nil
}

// Status returns the session's current diagnostics record.
func (s *Service) Status(fileID string) (Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[fileID]
	if !ok {
		return Report{}, ErrSessionNotFound
	}
	return s.report(sess), nil
}

// report builds the diagnostics record for a session. Callers must hold
// the lock or own the session exclusively.
func (s *Service) report(sess *Session) Report {
	r := Report{
		FileID:                sess.ID,
		FileName:              sess.FileName,
		EncodingLabel:         sess.encoding.EncodingLabel,
		InvalidCharacterCount: sess.encoding.InvalidChars,
		DetectedDelimiter:     delimiterName(sess.delimiter),
		DetectedColumnCount:   sess.fieldCount,
		RowsBefore:            len(sess.grid),
		RowsAfter:             len(sess.grid),
	}
	if res := sess.result; res != nil {
		r.Cleaned = true
		r.OutputFileName = res.FileName
		r.RowsBefore = res.Stats.RowsBefore
		r.RowsAfter = res.Stats.RowsAfter
		r.RemovedEmpty = res.Stats.RemovedEmpty
		r.DuplicatesRemoved = res.Stats.DuplicatesRemoved
		r.TrimmedColumns = res.Stats.TrimmedColumns
		r.PaddedColumns = res.Stats.PaddedColumns
	}
	return r
}

// StartSweeper periodically drops sessions older than the TTL until the
// context is cancelled. Expired uploads require a fresh upload.
func (s *Service) StartSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(time.Now())
		}
	}
}

func (s *Service) sweep(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range s.sessions {
		if now.Sub(sess.CreatedAt) > s.ttl {
			delete(s.sessions, id)
		}
	}
}

func delimiterName(d rune) string {
	switch d {
	case '\t':
		return "tab"
	default:
		return strings.TrimSpace(string(d))
	}
}
