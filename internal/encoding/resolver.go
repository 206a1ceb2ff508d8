// Package encoding recovers the most plausible text decoding for a raw
// byte buffer of unknown character encoding.
//
// A small fixed list of candidate encodings is tried in order. Each trial
// is a non-strict decode: bytes that cannot be decoded become the Unicode
// replacement character instead of aborting the trial. The candidate that
// produces the fewest replacement characters wins, with ties going to the
// earlier candidate so UTF-8 is preferred whenever it decodes as cleanly
// as a legacy codepage.
package encoding

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Marker is the code point substituted for bytes that cannot be decoded
// under a given candidate encoding.
const Marker = '�'

// bom is the byte-order mark code point, stripped once from position 0
// after the winning candidate is selected so it cannot leak into the
// first header cell.
const bom = "\uFEFF"

// DecodedText is the outcome of encoding resolution. InvalidChars counts
// replacement markers present in Text; it is diagnostic only and never
// affects correctness.
type DecodedText struct {
	Text          string `json:"-"`
	EncodingLabel string `json:"encodingLabel"`
	InvalidChars  int    `json:"invalidCharacterCount"`
}

type candidate struct {
	label  string
	decode func([]byte) (string, error)
}

// Windows-1252 is listed before ISO-8859-1 on purpose: Latin-1 assigns a
// code point to every byte value, so it can never produce a marker and
// would shadow the codepage on every input if tried first.
var candidates = []candidate{
	{"utf-8", decodeUTF8},
	{"windows-1252", charmapDecoder(charmap.Windows1252)},
	{"iso-8859-1", charmapDecoder(charmap.ISO8859_1)},
}

// trial tags the result of one candidate decode: usable text with a
// marker count, or unusable when the decoder itself failed.
type trial struct {
	label   string
	text    string
	markers int
	usable  bool
}

// Resolve selects the decoding producing the fewest irrecoverable
// substitutions. It never fails: if every candidate errors out, the
// permissive UTF-8 decode is used and its marker count reported,
// however large.
func Resolve(data []byte) DecodedText {
	var best trial
	for _, c := range candidates {
		text, err := c.decode(data)
		if err != nil {
			continue
		}
		markers := strings.Count(text, string(Marker))
		if !best.usable || markers < best.markers {
			best = trial{label: c.label, text: text, markers: markers, usable: true}
		}
	}
	if !best.usable {
		text, _ := decodeUTF8(data)
		best = trial{
			label:   "utf-8",
			text:    text,
			markers: strings.Count(text, string(Marker)),
			usable:  true,
		}
	}

	return DecodedText{
		Text:          stripBOM(best.text),
		EncodingLabel: best.label,
		InvalidChars:  best.markers,
	}
}

// decodeUTF8 is a permissive UTF-8 decode: each undecodable byte becomes
// one Marker. It never returns an error.
func decodeUTF8(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}

	var b strings.Builder
	b.Grow(len(data))

	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			b.WriteRune(Marker)
			data = data[1:]
		} else {
			b.WriteRune(r)
			data = data[size:]
		}
	}

	return b.String(), nil
}

// charmapDecoder wraps an x/text single-byte decoder. Undefined bytes in
// the codepage decode to the replacement character rather than erroring,
// which is exactly the non-strict behavior the trial needs.
func charmapDecoder(cm *charmap.Charmap) func([]byte) (string, error) {
	return func(data []byte) (string, error) {
		out, err := cm.NewDecoder().Bytes(data)
		if err != nil {
			return "", err
		}
		return string(out), nil
	}
}

// stripBOM removes exactly one byte-order mark at position 0. Not a
// prefix scan: a second BOM is real content.
func stripBOM(s string) string {
	return strings.TrimPrefix(s, bom)
}
