package tvmaze

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// StripMarkup removes HTML tags such as <p> and <b> from a feed summary and
// returns the trimmed text. Input without tags is returned trimmed.
func StripMarkup(s string) string {
	if !strings.Contains(s, "<") {
		return strings.TrimSpace(s)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(doc.Text())
}
