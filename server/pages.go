package server

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"regexp"

	"github.com/existflow/qazzerep/internal/i18n"
	"github.com/microcosm-cc/bluemonday"
)

//go:embed templates/*.html
var templateFS embed.FS

// pages holds one parsed template set per page
type pages struct {
	sets map[string]*template.Template
}

func loadPages() (*pages, error) {
	p := &pages{sets: map[string]*template.Template{}}
	for _, name := range []string{"verify", "info", "index"} {
		t, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
		p.sets[name] = t
	}
	return p, nil
}

// render executes the named page inside the layout
func (p *pages) render(name string, data interface{}) ([]byte, error) {
	t, ok := p.sets[name]
	if !ok {
		return nil, fmt.Errorf("unknown page %q", name)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// base is the data every page needs
type base struct {
	Lang  i18n.Lang
	Title string
	T     func(string) string
}

func newBase(tr *i18n.Catalog, title string) base {
	return base{Lang: tr.Lang(), Title: title, T: tr.T}
}

// diffPolicy keeps basic formatting and the backend's diff-* highlight
// classes. Everything else, including scripts and event handlers, is
// stripped.
var diffPolicy = func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowElements("span", "mark")
	p.AllowAttrs("class").Matching(regexp.MustCompile(`^diff-[a-z-]+$`)).OnElements("span", "mark", "p", "div")
	return p
}()

// sanitize makes backend or markdown HTML safe to embed
func sanitize(html string) template.HTML {
	return template.HTML(diffPolicy.Sanitize(html))
}
