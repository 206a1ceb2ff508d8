// Package clean applies an ordered, configurable sequence of
// normalization and repair transformations to a parsed grid, and
// serializes the result back to canonical delimited text.
package clean

// Options are the independent cleaning and output toggles. The zero
// value disables everything; use DefaultOptions for the stated defaults.
type Options struct {
	// Trim strips leading/trailing whitespace from every cell.
	Trim bool `json:"trim"`

	// RemoveEmpty drops rows whose cells are all whitespace.
	RemoveEmpty bool `json:"removeEmpty"`

	// FixColumns truncates or right-pads every row to the header row's
	// length.
	FixColumns bool `json:"fixColumns"`

	// Dedupe drops exact repeats of earlier data rows.
	Dedupe bool `json:"dedupe"`

	// NormalizeHeader rewrites header cells to snake_case [a-z0-9_].
	NormalizeHeader bool `json:"normalizeHeader"`

	// NormalizeLineEndings converts stray LF/CR in the serialized output
	// to CRLF.
	NormalizeLineEndings bool `json:"normalizeLineEndings"`

	// ConsistentQuotes quotes every output field instead of only the
	// fields that need it.
	ConsistentQuotes bool `json:"consistentQuotes"`

	// EncodingMarker prepends a UTF-8 byte-order mark to the output for
	// spreadsheet tools that infer encoding from it.
	EncodingMarker bool `json:"encodingMarker"`
}

// DefaultOptions returns the fixed default toggle set.
func DefaultOptions() Options {
	return Options{
		Trim:                 true,
		RemoveEmpty:          true,
		FixColumns:           true,
		Dedupe:               false,
		NormalizeHeader:      true,
		NormalizeLineEndings: true,
		ConsistentQuotes:     true,
		EncodingMarker:       true,
	}
}

// Reset restores the defaults in place, without touching any other state.
func (o *Options) Reset() {
	*o = DefaultOptions()
}

// Stats counts the row-changing work one cleaning run performed. Every
// row-count-changing step increments its counter, so any difference
// between RowsBefore and RowsAfter is attributable to a reported cause.
// Stats are observational output only and never feed back into cleaning.
type Stats struct {
	RowsBefore        int `json:"rowsBefore"`
	RowsAfter         int `json:"rowsAfter"`
	RemovedEmpty      int `json:"removedEmpty"`
	DuplicatesRemoved int `json:"duplicatesRemoved"`
	TrimmedColumns    int `json:"trimmedColumns"`
	PaddedColumns     int `json:"paddedColumns"`
}
