package encoding

import (
	"strings"
	"testing"
)

func TestResolve_UTF8WinsTies(t *testing.T) {
	// Plain ASCII decodes with zero markers under every candidate; the
	// earlier candidate must win.
	got := Resolve([]byte("name,email\nAlice,a@x.com\n"))
	if got.EncodingLabel != "utf-8" {
		t.Errorf("EncodingLabel = %q, want %q", got.EncodingLabel, "utf-8")
	}
	if got.InvalidChars != 0 {
		t.Errorf("InvalidChars = %d, want 0", got.InvalidChars)
	}
}

func TestResolve_ValidUTF8(t *testing.T) {
	in := "café,süß\n世界,ok\n"
	got := Resolve([]byte(in))
	if got.EncodingLabel != "utf-8" {
		t.Errorf("EncodingLabel = %q, want %q", got.EncodingLabel, "utf-8")
	}
	if got.Text != in {
		t.Errorf("Text = %q, want %q", got.Text, in)
	}
}

func TestResolve_Windows1252(t *testing.T) {
	// "café" with 0xE9 plus Windows-1252 smart quotes (0x93/0x94), which
	// are invalid as UTF-8 but decode cleanly under cp1252.
	in := []byte("caf\xe9,\x93quoted\x94\n")
	got := Resolve(in)
	if got.EncodingLabel != "windows-1252" {
		t.Errorf("EncodingLabel = %q, want %q", got.EncodingLabel, "windows-1252")
	}
	if got.InvalidChars != 0 {
		t.Errorf("InvalidChars = %d, want 0", got.InvalidChars)
	}
	if !strings.Contains(got.Text, "café") {
		t.Errorf("Text = %q, want it to contain %q", got.Text, "café")
	}
	if !strings.Contains(got.Text, "“quoted”") {
		t.Errorf("Text = %q, want smart quotes decoded", got.Text)
	}
}

func TestResolve_ISO8859FallbackBytes(t *testing.T) {
	// 0x81 is undefined in cp1252 (decodes to a marker) but is a control
	// character in Latin-1, so ISO-8859-1 produces strictly fewer markers.
	in := []byte("a\x81b\n")
	got := Resolve(in)
	if got.EncodingLabel != "iso-8859-1" {
		t.Errorf("EncodingLabel = %q, want %q", got.EncodingLabel, "iso-8859-1")
	}
	if got.InvalidChars != 0 {
		t.Errorf("InvalidChars = %d, want 0", got.InvalidChars)
	}
}

func TestResolve_BOMIdempotence(t *testing.T) {
	plain := []byte("name,email\nAlice,a@x.com\n")
	withBOM := append([]byte{0xEF, 0xBB, 0xBF}, plain...)

	a := Resolve(plain)
	b := Resolve(withBOM)
	if a.Text != b.Text {
		t.Errorf("Text with BOM = %q, without = %q; want identical", b.Text, a.Text)
	}
}

func TestResolve_StripsOnlyOneBOM(t *testing.T) {
	// A second BOM is content, not an encoding artifact.
	in := []byte("\uFEFF\uFEFFname\n")
	got := Resolve(in)
	if !strings.HasPrefix(got.Text, "\uFEFF") {
		t.Errorf("Text = %q, want one BOM retained", got.Text)
	}
}

func TestResolve_MarkerCount(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  int
	}{
		{
			name:  "clean ascii",
			input: []byte("abc"),
			want:  0,
		},
		{
			name: "literal replacement char counts",
			// Already-valid UTF-8 containing U+FFFD is still reported;
			// the count is diagnostic, not an error.
			input: []byte("a�b"),
			want:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.input)
			if got.InvalidChars != tt.want {
				t.Errorf("InvalidChars = %d, want %d", got.InvalidChars, tt.want)
			}
		})
	}
}

func TestResolve_EmptyInput(t *testing.T) {
	got := Resolve(nil)
	if got.Text != "" || got.InvalidChars != 0 {
		t.Errorf("Resolve(nil) = %+v, want empty text and zero markers", got)
	}
}
