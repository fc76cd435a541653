package collect

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// htmlToExcerpt strips markup from feed descriptions and collapses
// whitespace, yielding a plain-text excerpt of at most limit bytes.
func htmlToExcerpt(raw string, limit int) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	text := raw
	if strings.Contains(raw, "<") {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
		if err == nil {
			text = doc.Text()
		}
	}

	text = strings.Join(strings.Fields(text), " ")
	return truncate(text, limit)
}
