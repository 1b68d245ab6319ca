package source

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// NormalizeText collapses whitespace runs to single spaces and trims both
// ends. Every free-text field goes through this before filtering, so
// keyword matching and display operate on identical text.
func NormalizeText(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

// StripHTML extracts the text content of markup-bearing fields such as
// Crossref JATS abstracts and RSS descriptions. Plain text passes through
// untouched; if the fragment cannot be parsed the input is returned as-is.
func StripHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return doc.Text()
}
