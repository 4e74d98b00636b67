package htmltext_test

import (
	"strings"
	"testing"

	"github.com/TheAndersMadsen/shopify-monitor/internal/htmltext"
	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Tags stripped, entities decoded, whitespace collapsed",
			input:    "<div><p>Hello&nbsp; <strong>world</strong>!</p><img src='x'></div>",
			expected: "Hello world!",
		},
		{
			name:     "Empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "Plain text passes through",
			input:    "Plain product title",
			expected: "Plain product title",
		},
		{
			name:     "Leading and trailing whitespace trimmed",
			input:    "  \t Oxford\nShirt \n",
			expected: "Oxford Shirt",
		},
		{
			name:     "Nested markup",
			input:    "<ul><li>First</li><li>Second</li></ul>",
			expected: "FirstSecond",
		},
		{
			name:     "Ampersand entity",
			input:    "<p>Black &amp; White</p>",
			expected: "Black & White",
		},
		{
			name:     "Script content is still text-extracted whitespace safe",
			input:    "<span>  multiple   internal   spaces </span>",
			expected: "multiple internal spaces",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, htmltext.Normalize(tc.input))
		})
	}
}

// TestNormalize_Idempotent verifies that re-applying Normalize to its own
// output is a no-op, and that output never contains tag delimiters or
// double spaces.
func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"<div><p>Hello&nbsp; <strong>world</strong>!</p><img src='x'></div>",
		"<table><tr><td>cell one</td><td>cell two</td></tr></table>",
		"already   plain	text",
		"",
	}

	for _, input := range inputs {
		once := htmltext.Normalize(input)
		twice := htmltext.Normalize(once)

		assert.Equal(t, once, twice, "normalize must be idempotent for %q", input)
		assert.NotContains(t, once, "<")
		assert.NotContains(t, once, ">")
		assert.NotContains(t, once, "  ")
		assert.Equal(t, strings.TrimSpace(once), once)
	}
}
