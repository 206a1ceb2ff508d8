package clean

import "testing"

func TestNormalizeHeaderCell(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "already normalized",
			input: "email",
			want:  "email",
		},
		{
			name:  "uppercase and spaces",
			input: "First Name",
			want:  "first_name",
		},
		{
			name:  "whitespace run collapses",
			input: "First   \t Name",
			want:  "first_name",
		},
		{
			name:  "symbols become underscores",
			input: "Amount ($)",
			want:  "amount",
		},
		{
			name:  "underscore runs collapse",
			input: "a__b___c",
			want:  "a_b_c",
		},
		{
			name:  "leading and trailing stripped",
			input: "  *Total*  ",
			want:  "total",
		},
		{
			name:  "digits kept",
			input: "Q1 2024",
			want:  "q1_2024",
		},
		{
			name:  "non-ascii becomes underscore",
			input: "prénom",
			want:  "pr_nom",
		},
		{
			name:  "all symbols maps to empty",
			input: "***",
			want:  "",
		},
		{
			name:  "empty stays empty",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeHeaderCell(tt.input)
			if got != tt.want {
				t.Errorf("NormalizeHeaderCell(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeHeaderCell_Idempotent(t *testing.T) {
	inputs := []string{"First Name", "Amount ($)", "email", "Q1 2024", "***"}
	for _, in := range inputs {
		once := NormalizeHeaderCell(in)
		twice := NormalizeHeaderCell(once)
		if once != twice {
			t.Errorf("not idempotent for %q: f(x)=%q, f(f(x))=%q", in, once, twice)
		}
	}
}
