package clean

import (
	"errors"
	"strings"

	"github.com/tabwash/tabwash/internal/table"
)

// ErrEmptyAfterCleaning is returned when empty-row removal drops every
// row of the grid.
var ErrEmptyAfterCleaning = errors.New("all rows removed by cleaning")

// keySep joins a row's cells into its dedupe key. The unit separator is
// a non-printable control code that cannot appear in normal cell text.
const keySep = "\x1f"

// step is one transformation in the cleaning order. Steps receive the
// working grid and return its replacement; a disabled step returns its
// input unchanged and contributes zero to its counters.
type step func(g table.Grid, o Options, s *Stats) (table.Grid, error)

// steps run in this fixed order. Order matters: column reconciliation
// sizes rows against the header that survives empty-row removal, and
// dedupe compares rows after every earlier repair has run.
var steps = []step{
	stripBOMResidue,
	normalizeCellLineEndings,
	trimCells,
	removeEmptyRows,
	reconcileColumns,
	normalizeHeaderRow,
	dedupeRows,
}

// Clean applies the enabled transformations to an independent copy of
// grid and reports what changed. The input grid is never mutated, so the
// caller can re-clean the same parse with different options.
func Clean(grid table.Grid, opts Options) (table.Grid, Stats, error) {
	stats := Stats{RowsBefore: len(grid)}

	out := grid.Clone()
	for _, apply := range steps {
		var err error
		out, err = apply(out, opts, &stats)
		if err != nil {
			return nil, stats, err
		}
	}

	stats.RowsAfter = len(out)
	return out, stats, nil
}

// stripBOMResidue removes a byte-order mark still leading the first
// header cell. The encoding resolver already strips one; this catches a
// doubled marker or a caller that bypassed resolution.
func stripBOMResidue(g table.Grid, _ Options, _ *Stats) (table.Grid, error) {
	if len(g) > 0 && len(g[0]) > 0 {
		g[0][0] = strings.TrimPrefix(g[0][0], "\uFEFF")
	}
	return g, nil
}

var cellNewlines = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// normalizeCellLineEndings rewrites CRLF and lone CR inside cell values
// to LF. Always applied: multi-line cells must re-serialize consistently
// regardless of which toggles are on.
func normalizeCellLineEndings(g table.Grid, _ Options, _ *Stats) (table.Grid, error) {
	for _, row := range g {
		for i, cell := range row {
			if strings.Contains(cell, "\r") {
				row[i] = cellNewlines.Replace(cell)
			}
		}
	}
	return g, nil
}

func trimCells(g table.Grid, o Options, _ *Stats) (table.Grid, error) {
	if !o.Trim {
		return g, nil
	}
	for _, row := range g {
		for i, cell := range row {
			row[i] = strings.TrimSpace(cell)
		}
	}
	return g, nil
}

// removeEmptyRows drops rows whose cells are all whitespace. Emptiness
// is judged on trimmed cells whether or not the trim toggle is on.
func removeEmptyRows(g table.Grid, o Options, s *Stats) (table.Grid, error) {
	if !o.RemoveEmpty {
		return g, nil
	}

	kept := g[:0]
	for _, row := range g {
		if isEmptyRow(row) {
			s.RemovedEmpty++
			continue
		}
		kept = append(kept, row)
	}

	if len(kept) == 0 {
		return nil, ErrEmptyAfterCleaning
	}
	return kept, nil
}

func isEmptyRow(row table.Row) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// reconcileColumns forces every row to the first surviving row's length:
// longer rows lose trailing cells, shorter rows gain trailing empty
// cells. Purely positional; no column-name alignment is attempted.
func reconcileColumns(g table.Grid, o Options, s *Stats) (table.Grid, error) {
	if !o.FixColumns || len(g) == 0 {
		return g, nil
	}

	want := len(g[0])
	for i, row := range g {
		switch {
		case len(row) > want:
			g[i] = row[:want]
			s.TrimmedColumns++
		case len(row) < want:
			padded := make(table.Row, want)
			copy(padded, row)
			g[i] = padded
			s.PaddedColumns++
		}
	}
	return g, nil
}

func normalizeHeaderRow(g table.Grid, o Options, _ *Stats) (table.Grid, error) {
	if !o.NormalizeHeader || len(g) == 0 {
		return g, nil
	}
	for i, cell := range g[0] {
		g[0][i] = NormalizeHeaderCell(cell)
	}
	return g, nil
}

// dedupeRows keeps the first occurrence of each distinct data row, in
// row order. The header's own key is seeded into the seen-set first, so
// a data row textually identical to the header is dropped as a duplicate
// of the header rather than being specially protected.
func dedupeRows(g table.Grid, o Options, s *Stats) (table.Grid, error) {
	if !o.Dedupe || len(g) < 2 {
		return g, nil
	}

	seen := map[string]struct{}{rowKey(g[0]): {}}
	kept := g[:1]
	for _, row := range g[1:] {
		key := rowKey(row)
		if _, dup := seen[key]; dup {
			s.DuplicatesRemoved++
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, row)
	}
	return kept, nil
}

func rowKey(r table.Row) string {
	return strings.Join(r, keySep)
}
