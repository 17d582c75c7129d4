package report

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/existflow/qazzerep/internal/model"
	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy = bluemonday.StrictPolicy()
	blankRuns    = regexp.MustCompile(`\n{3,}`)
)

// PlainText strips markup from the backend's highlighted HTML. Block
// elements become line breaks so paragraphs survive editing.
func PlainText(html string) string {
	if strings.TrimSpace(html) == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return cleanup(strictPolicy.Sanitize(html))
	}

	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("p, div, li, h1, h2, h3, h4, h5, h6, tr").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})
	doc.Find("script, style").Remove()

	return cleanup(doc.Text())
}

func cleanup(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	out := strings.Join(lines, "\n")
	out = blankRuns.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out)
}

// EditableTexts returns the plain text of both documents for the editor
func EditableTexts(c model.Comparison) (string, string) {
	return PlainText(c.DocA.HTML), PlainText(c.DocB.HTML)
}
