package database

import (
	"testing"
)

func TestCountWords(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{"empty string", "", 0},
		{"whitespace only", "   \t\n  ", 0},
		{"single word", "hello", 1},
		{"two words", "Generated body", 2},
		{"multiple spaces", "one   two    three", 3},
		{"newlines and tabs", "one\ntwo\tthree four", 4},
		{"leading and trailing whitespace", "  padded text  ", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountWords(tt.input); got != tt.expected {
				t.Errorf("CountWords(%q) = %d, expected %d", tt.input, got, tt.expected)
			}
		})
	}
}

func TestReferencesRoundTrip(t *testing.T) {
	refs := []Reference{
		{Title: "First Source", URL: "https://example.com/first"},
		{Title: "Second Source", URL: "https://example.com/second"},
	}

	serialized, err := SerializeReferences(refs)
	if err != nil {
		t.Fatalf("SerializeReferences failed: %v", err)
	}

	parsed, err := ParseReferences(serialized)
	if err != nil {
		t.Fatalf("ParseReferences failed: %v", err)
	}

	if len(parsed) != len(refs) {
		t.Fatalf("Expected %d references, got %d", len(refs), len(parsed))
	}

	for i := range refs {
		if parsed[i] != refs[i] {
			t.Errorf("Reference %d mismatch: expected %+v, got %+v", i, refs[i], parsed[i])
		}
	}
}

func TestParseReferencesEmpty(t *testing.T) {
	refs, err := ParseReferences("")
	if err != nil {
		t.Fatalf("ParseReferences failed on empty input: %v", err)
	}
	if refs != nil {
		t.Errorf("Expected nil references for empty input, got %v", refs)
	}
}

func TestParseReferencesInvalid(t *testing.T) {
	if _, err := ParseReferences("{not json"); err == nil {
		t.Error("Expected error for malformed references blob")
	}
}
