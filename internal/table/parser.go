package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"strings"
)

// ErrNoRows is returned when the input contains no rows at all.
var ErrNoRows = errors.New("no rows found")

// ParseError reports input that could not be tokenized as delimited text.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// delimiters tried during auto-detection, in preference order. Ties go to
// the earlier entry, so comma wins when counts are equal.
var delimiters = []rune{',', ';', '\t', '|'}

// detectSampleLines caps how many logical lines the delimiter heuristic
// inspects.
const detectSampleLines = 16

// ParseResult is a parsed grid plus the detection metadata reported back
// to the caller.
type ParseResult struct {
	Grid       Grid
	Delimiter  rune
	FieldCount int
}

// Parse tokenizes decoded text into a grid, auto-detecting the field
// delimiter and line-ending convention.
//
// Blank lines are preserved as single-cell empty rows: deciding whether
// to drop them is a cleaning decision, not a parsing one. Empty trailing
// fields survive, and quoted cells may span multiple lines.
func Parse(text string) (*ParseResult, error) {
	lines := splitLogicalLines(text)
	if len(lines) == 0 {
		return nil, ErrNoRows
	}

	delim := detectDelimiter(lines)

	grid := make(Grid, 0, len(lines))
	for i, line := range lines {
		if line == "" {
			grid = append(grid, Row{""})
			continue
		}
		row, err := parseLine(line, delim)
		if err != nil {
			return nil, &ParseError{Line: i + 1, Err: err}
		}
		grid = append(grid, row)
	}

	return &ParseResult{
		Grid:       grid,
		Delimiter:  delim,
		FieldCount: len(grid[0]),
	}, nil
}

// parseLine tokenizes one logical line into cells. LazyQuotes and a free
// field count match the messy files people actually upload.
func parseLine(line string, delim rune) (Row, error) {
	r := csv.NewReader(strings.NewReader(line))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	record, err := r.Read()
	if err != nil {
		return nil, err
	}
	return Row(record), nil
}

// splitLogicalLines splits text into records on LF, CRLF, or lone CR,
// ignoring line breaks inside quoted cells. A trailing newline does not
// produce a final empty record.
func splitLogicalLines(text string) []string {
	var lines []string
	var cur strings.Builder
	inQuotes := false

	for i := 0; i < len(text); i++ {
		ch := text[i]
		switch {
		case ch == '"':
			inQuotes = !inQuotes
			cur.WriteByte(ch)
		case !inQuotes && ch == '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			lines = append(lines, cur.String())
			cur.Reset()
		case !inQuotes && ch == '\n':
			lines = append(lines, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(ch)
		}
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}

	return lines
}

// detectDelimiter counts unquoted occurrences of each candidate over a
// sample of lines and picks the most frequent one.
func detectDelimiter(lines []string) rune {
	sample := lines
	if len(sample) > detectSampleLines {
		sample = sample[:detectSampleLines]
	}

	best := delimiters[0]
	bestCount := 0
	for _, d := range delimiters {
		total := 0
		for _, line := range sample {
			total += countUnquoted(line, byte(d))
		}
		if total > bestCount {
			best, bestCount = d, total
		}
	}
	return best
}

func countUnquoted(line string, delim byte) int {
	n := 0
	inQuotes := false
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '"':
			inQuotes = !inQuotes
		case delim:
			if !inQuotes {
				n++
			}
		}
	}
	return n
}
