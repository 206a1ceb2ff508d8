package clean

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/tabwash/tabwash/internal/table"
)

// utf8BOM is prepended to output when the encoding marker toggle is on.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Serialize writes the grid as comma-delimited, CRLF-terminated text.
// The delimiter and line endings are canonical regardless of what was
// detected on input.
//
// With ConsistentQuotes every field is quoted; otherwise only fields
// containing a comma, a quote, or a line break are. Embedded quotes are
// escaped by doubling either way.
func Serialize(grid table.Grid, opts Options) []byte {
	var buf bytes.Buffer
	for _, row := range grid {
		for i, cell := range row {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeField(&buf, cell, opts.ConsistentQuotes)
		}
		buf.WriteString("\r\n")
	}

	out := buf.Bytes()
	if opts.NormalizeLineEndings {
		out = toCRLF(out)
	}
	if opts.EncodingMarker {
		out = append(append(make([]byte, 0, len(utf8BOM)+len(out)), utf8BOM...), out...)
	}
	return out
}

func writeField(buf *bytes.Buffer, cell string, quoteAll bool) {
	if !quoteAll && !strings.ContainsAny(cell, ",\"\r\n") {
		buf.WriteString(cell)
		return
	}
	buf.WriteByte('"')
	buf.WriteString(strings.ReplaceAll(cell, `"`, `""`))
	buf.WriteByte('"')
}

// toCRLF rewrites bare LF or lone CR to CRLF, leaving existing CRLF
// pairs alone. Cell-internal newlines are LF by the time serialization
// runs, but this pass keeps the output uniform even if they were not.
func toCRLF(b []byte) []byte {
	var out bytes.Buffer
	out.Grow(len(b) + len(b)/8)
	for i := 0; i < len(b); i++ {
		switch b[i] {
		case '\r':
			if i+1 < len(b) && b[i+1] == '\n' {
				i++
			}
			out.WriteString("\r\n")
		case '\n':
			out.WriteString("\r\n")
		default:
			out.WriteByte(b[i])
		}
	}
	return out.Bytes()
}

// OutputName derives the suggested download filename from the original
// upload name: cleaned_<base>.csv, where <base> is the original name
// with its final extension removed (or the whole name if it has none).
func OutputName(original string) string {
	base := filepath.Base(original)
	if trimmed := strings.TrimSuffix(base, filepath.Ext(base)); trimmed != "" {
		base = trimmed
	}
	return "cleaned_" + base + ".csv"
}
