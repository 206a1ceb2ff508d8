// Package table provides the in-memory tabular data model and the
// delimited-text parser that produces it.
package table

// Row is an ordered sequence of string cells.
type Row []string

// Grid is an ordered sequence of rows. Row 0 is the header row; it is
// distinguished only by the cleaning rules that special-case it. Rows may
// have inconsistent lengths until column reconciliation runs.
type Grid []Row

// Clone returns an independent deep copy of the grid. Cleaning operates
// on a clone so the parsed grid is never mutated and a later run can
// start again from the same input.
func (g Grid) Clone() Grid {
	if g == nil {
		return nil
	}
	out := make(Grid, len(g))
	for i, row := range g {
		out[i] = append(Row(nil), row...)
	}
	return out
}
