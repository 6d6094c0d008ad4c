package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildStructuringPrompt(t *testing.T) {
	text := "Jane Doe\nJoined Acme Corp on 03/04/2015 as Analyst, salary 45,000 INR\n"

	p1 := BuildStructuringPrompt(text)
	p2 := BuildStructuringPrompt(text)
	assert.Equal(t, p1, p2, "prompt must be deterministic")
	assert.Equal(t, 1, strings.Count(p1, text), "text must appear exactly once")

	inputAt := strings.Index(p1, "### INPUT TEXT:")
	textAt := strings.Index(p1, text)
	rulesAt := strings.Index(p1, "### GENERIC EXTRACTION RULES")
	assert.Less(t, inputAt, textAt)
	assert.Less(t, textAt, rulesAt)

	for _, marker := range []string{
		"Disambiguate Timelines",
		`BAD: "Salary", "Job Title".`,
		"Atomic Data Splitting",
		`"Currency" (ISO code)`,
		`"Certifications 1", "Certifications 2"`,
		"YYYY-MM-DD",
		"Integers only (no commas)",
		`"entries": [`,
		`"key": "Field Name", "value": "Extracted Data", "comments": "Verbatim source sentence"`,
	} {
		assert.Contains(t, p1, marker)
	}
}

func TestBuildStructuringPromptKeepsTextVerbatim(t *testing.T) {
	// Template-looking and brace-heavy input must not be interpreted.
	text := `{document_text} %s {"entries": []} \n`
	p := BuildStructuringPrompt(text)
	assert.Equal(t, 1, strings.Count(p, text))
	assert.NotEqual(t, BuildStructuringPrompt(text), BuildStructuringPrompt(text+" "))
}
