package htmltext

import (
	"testing"
)

func TestDecodeEntities(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "Named entities",
			input: "Tom &amp; Jerry &lt;3 &quot;forever&quot;",
			want:  `Tom & Jerry <3 "forever"`,
		},
		{
			name:  "Apostrophe variants",
			input: "it&apos;s, it&#39;s, it&#039;s",
			want:  "it's, it's, it's",
		},
		{
			name:  "Non-breaking space",
			input: "a&nbsp;b",
			want:  "a b",
		},
		{
			name:  "Decimal reference",
			input: "caf&#233;",
			want:  "café",
		},
		{
			name:  "Hex reference",
			input: "caf&#xE9;",
			want:  "café",
		},
		{
			name:  "Emoji above the BMP decodes to one character",
			input: "nice &#128513; pic",
			want:  "nice 😁 pic",
		},
		{
			name:  "Hex emoji",
			input: "&#x1F600;",
			want:  "😀",
		},
		{
			name:  "Lone surrogate half becomes replacement character",
			input: "&#xD83D;",
			want:  "�",
		},
		{
			name:  "Out of range code point becomes replacement character",
			input: "&#x110000;",
			want:  "�",
		},
		{
			name:  "Plain text untouched",
			input: "no entities here",
			want:  "no entities here",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeEntities(tt.input)
			if got != tt.want {
				t.Errorf("DecodeEntities(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDecodeEntitiesIdempotent(t *testing.T) {
	inputs := []string{
		"Tom &amp; Jerry",
		"caf&#233; &#x1F600;",
		"already decoded & plain < text",
	}

	for _, input := range inputs {
		once := DecodeEntities(input)
		twice := DecodeEntities(once)
		if once != twice {
			t.Errorf("DecodeEntities not idempotent on %q: first %q, second %q", input, once, twice)
		}
	}
}

func TestCleanEscapes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "Literal newline escapes become spaces",
			input: `line one\nline two\tend`,
			want:  "line one line two end",
		},
		{
			name:  "Quote escapes unescaped",
			input: `she said \"hi\" and \'bye\'`,
			want:  `she said "hi" and 'bye'`,
		},
		{
			name:  "Double backslash unescaped",
			input: `a\\b`,
			want:  `a\b`,
		},
		{
			name:  "Whitespace runs collapse and trim",
			input: "  lots   of\t\tspace  ",
			want:  "lots of space",
		},
		{
			name:  "Carriage return escape",
			input: `a\rb`,
			want:  "a b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanEscapes(tt.input)
			if got != tt.want {
				t.Errorf("CleanEscapes(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
