package slug

import "testing"

func TestGenerate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "simple two words", input: "Hello World", want: "hello-world"},
		{name: "title with year", input: "Hello World 2026", want: "hello-world-2026"},
		{name: "punctuation marks", input: "Hello, World! How's it going?", want: "hello-world-hows-it-going"},
		{name: "ampersand collapses", input: "Rock & Roll @ the Arena", want: "rock-roll-the-arena"},
		{name: "tabs and newlines", input: "Brand\tRefresh\nCase Study", want: "brand-refresh-case-study"},
		{name: "leading and trailing junk", input: "  --Launch!--  ", want: "launch"},
		{name: "unicode letters dropped", input: "Café Münster", want: "caf-mnster"},
		{name: "only symbols", input: "!!! ???", want: ""},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Generate(tt.input); got != tt.want {
				t.Errorf("Generate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestGenerate_Idempotent(t *testing.T) {
	for _, input := range []string{"Hello World", "Rock & Roll", "a--b  c"} {
		once := Generate(input)
		if twice := Generate(once); twice != once {
			t.Errorf("Generate not idempotent for %q: %q then %q", input, once, twice)
		}
	}
}

func TestGenerateMax(t *testing.T) {
	tests := []struct {
		input string
		max   int
		want  string
	}{
		{input: "Hello World", max: 64, want: "hello-world"},
		{input: "Hello World", max: 6, want: "hello"},
		{input: "Hello World", max: 5, want: "hello"},
		{input: "Hello World", max: 0, want: ""},
	}

	for _, tt := range tests {
		if got := GenerateMax(tt.input, tt.max); got != tt.want {
			t.Errorf("GenerateMax(%q, %d) = %q, want %q", tt.input, tt.max, got, tt.want)
		}
	}
}
