package models

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func Test_DeriveCandidateName(t *testing.T) {
	cases := []struct {
		name       string
		resumeText string
		expected   string
	}{
		{"full name with middle initial", "Jane Q. Public\nEngineer", "JANE Q. PUBLIC"},
		{"single token", "Al\nSoftware Engineer", "AL"},
		{"more than three tokens", "John Ronald Reuel Tolkien\nAuthor", "JOHN RONALD REUEL"},
		{"whitespace-only first line", "   \nActual Name", UnnamedCandidate},
		{"empty text", "", UnnamedCandidate},
		{"no newline", "Grace Hopper", "GRACE HOPPER"},
		{"tabs between tokens", "Ada\tLovelace\nMathematician", "ADA LOVELACE"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, DeriveCandidateName(tc.resumeText))
		})
	}
}
