// Package info renders the localized documentation pages addressed by slug.
package info

import (
	"fmt"
	"sort"
	"strings"

	"github.com/existflow/qazzerep/internal/i18n"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// page maps a slug to its catalog category and content id
type page struct {
	Category string
	ID       string
}

var pages = map[string]page{
	"documentation":  {Category: "architecture", ID: "doc"},
	"knowledge-base": {Category: "methodology", ID: "base"},
	"privacy":        {Category: "privacy", ID: "priv"},
	"terms":          {Category: "legal", ID: "terms"},
	"cookie":         {Category: "technical", ID: "cookie"},
	"help":           {Category: "manual", ID: "help"},
	"contacts":       {Category: "channels", ID: "contacts"},
}

// Slugs returns the known slugs, sorted
func Slugs() []string {
	out := make([]string, 0, len(pages))
	for s := range pages {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Known reports whether slug names a page
func Known(slug string) bool {
	_, ok := pages[slug]
	return ok
}

// Page is a rendered info page
type Page struct {
	Slug        string
	Found       bool
	Category    string
	Title       string
	Description string
	Items       []i18n.Item
}

// Render resolves slug against the catalog. Unknown slugs produce the
// not-found page with Found false.
func Render(c *i18n.Catalog, slug string) Page {
	p, ok := pages[slug]
	if !ok {
		return Page{
			Slug:        slug,
			Category:    "404",
			Title:       c.T("not_found.title"),
			Description: c.T("info.version_desc"),
			Items:       c.Items("not_found.items"),
		}
	}
	return Page{
		Slug:        slug,
		Found:       true,
		Category:    c.T("info.categories." + p.Category),
		Title:       c.T("info.pages." + p.ID + ".title"),
		Description: c.T("info.version_desc"),
		Items:       c.Items("info.content." + p.ID + ".items"),
	}
}

// Markdown formats the page as a markdown document
func (p Page) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", p.Title)
	fmt.Fprintf(&b, "_%s_\n\n", p.Category)
	if p.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", p.Description)
	}
	for i, it := range p.Items {
		fmt.Fprintf(&b, "## %02d. %s\n\n%s\n\n", i+1, it.Title, it.Body)
	}
	return b.String()
}

// HTML converts the markdown rendering to an HTML fragment
func (p Page) HTML() string {
	ext := parser.CommonExtensions | parser.AutoHeadingIDs
	doc := parser.NewWithExtensions(ext).Parse([]byte(p.Markdown()))
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.HrefTargetBlank})
	return string(markdown.Render(doc, renderer))
}
