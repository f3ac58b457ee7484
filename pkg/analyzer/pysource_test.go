package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanPySource(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		expected []string
	}{
		{
			name:     "comments stripped",
			source:   "import os  # operating system\n# whole line comment\n",
			expected: []string{"import os"},
		},
		{
			name:     "strings collapsed",
			source:   "s = 'hello # not a comment'\n",
			expected: []string{`s = ""`},
		},
		{
			name:     "triple quoted string spans lines",
			source:   "doc = \"\"\"line one\nline two\n\"\"\"\nx = 1\n",
			expected: []string{`doc = ""`, "x = 1"},
		},
		{
			name:     "implicit continuation inside brackets",
			source:   "items = [1,\n2,\n3]\n",
			expected: []string{"items = [1, 2, 3]"},
		},
		{
			name:     "explicit backslash continuation",
			source:   "total = 1 +\\\n2\n",
			expected: []string{"total = 1 + 2"},
		},
		{
			name:     "escaped quote inside string",
			source:   `s = "he said \"hi\""` + "\n",
			expected: []string{`s = ""`},
		},
		{
			name:     "blank lines dropped",
			source:   "\n\nx = 1\n\n",
			expected: []string{"x = 1"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			src, err := scanPySource(tc.source)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, src.logical)
		})
	}
}

func TestScanPySource_Errors(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"unterminated single-quoted string", "x = \"oops\n"},
		{"unterminated triple-quoted string", "x = \"\"\"oops\n"},
		{"unclosed bracket at end of source", "def f(a, b\n"},
		{"closing bracket without opener", "x = 1)\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := scanPySource(tc.source)
			assert.Error(t, err)
		})
	}
}
