package clean

import "strings"

// NormalizeHeaderCell lowercases a header cell and reduces it to
// [a-z0-9_]: whitespace runs and any other disallowed characters become
// underscores, underscore runs collapse to one, and leading/trailing
// underscores are stripped. Idempotent, so re-cleaning an already
// normalized header changes nothing.
//
// An all-symbol cell collapses to the empty string; callers display a
// positional placeholder instead of storing one.
func NormalizeHeaderCell(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	var b strings.Builder
	b.Grow(len(s))
	underscore := false
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			underscore = false
			continue
		}
		if !underscore {
			b.WriteByte('_')
			underscore = true
		}
	}

	return strings.Trim(b.String(), "_")
}
