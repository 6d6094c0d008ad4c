package extract

import (
	"regexp"
	"strings"
)

var (
	reCRLF       = regexp.MustCompile(`\r\n?`)
	reTabs       = regexp.MustCompile(`\t+`)
	reMultiSpace = regexp.MustCompile(` {2,}`)
	reMultiBlank = regexp.MustCompile(`\n{3,}`)
)

// Normalize collapses noisy whitespace in one page of text.
// Line breaks survive; runs of more than one blank line become a single blank line.
func Normalize(s string) string {
	if s == "" {
		return s
	}
	s = reCRLF.ReplaceAllString(s, "\n")
	s = reTabs.ReplaceAllString(s, " ")
	s = reMultiSpace.ReplaceAllString(s, " ")
	s = reMultiBlank.ReplaceAllString(s, "\n\n")
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// joinPages appends "\n" after every page and collapses an all-blank result to "".
func joinPages(pages []string) string {
	var b strings.Builder
	blank := true
	for _, p := range pages {
		if strings.TrimSpace(p) != "" {
			blank = false
		}
		b.WriteString(p)
		b.WriteString("\n")
	}
	if blank {
		return ""
	}
	return b.String()
}
