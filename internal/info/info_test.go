package info

import (
	"testing"

	"github.com/existflow/qazzerep/internal/i18n"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_KnownSlug(t *testing.T) {
	c := i18n.MustLoad(i18n.Eng)

	p := Render(c, "documentation")
	assert.True(t, p.Found)
	assert.Equal(t, "System Architecture", p.Category)
	assert.Equal(t, "Documentation", p.Title)
	require.NotEmpty(t, p.Items)
}

func TestRender_AllSlugsHaveContent(t *testing.T) {
	c := i18n.MustLoad(i18n.Kaz)
	for _, slug := range Slugs() {
		p := Render(c, slug)
		assert.True(t, p.Found, slug)
		assert.NotEmpty(t, p.Items, slug)
	}
}

func TestRender_UnknownSlug(t *testing.T) {
	c := i18n.MustLoad(i18n.Eng)
	p := Render(c, "nope")
	assert.False(t, p.Found)
	assert.Equal(t, "404", p.Category)
	assert.Equal(t, "Page not found", p.Title)
	assert.False(t, Known("nope"))
}

func TestPage_MarkdownAndHTML(t *testing.T) {
	p := Page{
		Title:    "Support Center",
		Category: "User Manual",
		Items:    []i18n.Item{{Title: "Limits", Body: "Max file is **50MB**."}},
	}

	md := p.Markdown()
	assert.Contains(t, md, "# Support Center")
	assert.Contains(t, md, "## 01. Limits")

	out := p.HTML()
	assert.Contains(t, out, "<h1")
	assert.Contains(t, out, "Support Center</h1>")
	assert.Contains(t, out, "<strong>50MB</strong>")
}
