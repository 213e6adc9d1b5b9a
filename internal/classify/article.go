package classify

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ArticleText renders the text of every puzzle <article> on page, separated by
// blank lines. Pages without an article fail with ErrExtractionFailed.
func ArticleText(page string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return "", fmt.Errorf("parse page: %w", err)
	}
	articles := doc.Find("article")
	if articles.Length() == 0 {
		return "", ErrExtractionFailed
	}
	parts := make([]string, 0, articles.Length())
	articles.Each(func(_ int, s *goquery.Selection) {
		parts = append(parts, strings.TrimSpace(s.Text()))
	})
	return strings.Join(parts, "\n\n"), nil
}
