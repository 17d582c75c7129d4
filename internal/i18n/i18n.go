// Package i18n serves the rus, kaz and eng string catalogs. Missing keys
// fall back to rus, then to the key itself.
package i18n

import (
	"embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFS embed.FS

// Lang is a catalog language code
type Lang string

const (
	Rus Lang = "rus"
	Kaz Lang = "kaz"
	Eng Lang = "eng"

	Fallback = Rus
)

// Langs lists supported languages in switcher order
var Langs = []Lang{Rus, Kaz, Eng}

// ParseLang accepts the catalog codes and common ISO aliases
func ParseLang(s string) (Lang, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rus", "ru", "ru-ru":
		return Rus, nil
	case "kaz", "kk", "kz", "kk-kz":
		return Kaz, nil
	case "eng", "en", "en-us", "en-gb":
		return Eng, nil
	}
	return Fallback, fmt.Errorf("unsupported language %q: must be rus, kaz, or eng", s)
}

// Item is one titled paragraph of an info page
type Item struct {
	Title string `yaml:"t"`
	Body  string `yaml:"d"`
}

// Catalog resolves keys for one active language
type Catalog struct {
	trees map[Lang]map[string]interface{}
	lang  Lang
}

// Load parses the embedded catalogs
func Load(lang Lang) (*Catalog, error) {
	trees := make(map[Lang]map[string]interface{}, len(Langs))
	for _, l := range Langs {
		data, err := localeFS.ReadFile("locales/" + string(l) + ".yaml")
		if err != nil {
			return nil, fmt.Errorf("failed to read %s catalog: %w", l, err)
		}
		tree := map[string]interface{}{}
		if err := yaml.Unmarshal(data, &tree); err != nil {
			return nil, fmt.Errorf("failed to parse %s catalog: %w", l, err)
		}
		trees[l] = tree
	}
	return &Catalog{trees: trees, lang: lang}, nil
}

// MustLoad is Load for the embedded catalogs, which are known good
func MustLoad(lang Lang) *Catalog {
	c, err := Load(lang)
	if err != nil {
		panic(err)
	}
	return c
}

// Lang returns the active language
func (c *Catalog) Lang() Lang {
	return c.lang
}

// WithLang returns a catalog sharing the parsed trees with another language
func (c *Catalog) WithLang(lang Lang) *Catalog {
	return &Catalog{trees: c.trees, lang: lang}
}

func lookup(tree map[string]interface{}, key string) (interface{}, bool) {
	var node interface{} = tree
	for _, part := range strings.Split(key, ".") {
		m, ok := node.(map[string]interface{})
		if !ok {
			return nil, false
		}
		node, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return node, true
}

func (c *Catalog) find(key string) (interface{}, bool) {
	if v, ok := lookup(c.trees[c.lang], key); ok {
		return v, true
	}
	return lookup(c.trees[Fallback], key)
}

// T returns the string at dotted key
func (c *Catalog) T(key string) string {
	v, ok := c.find(key)
	if !ok {
		return key
	}
	switch s := v.(type) {
	case string:
		return s
	case int, float64, bool:
		return fmt.Sprint(s)
	}
	return key
}

// Items returns the list of {t, d} entries at key
func (c *Catalog) Items(key string) []Item {
	v, ok := c.find(key)
	if !ok {
		return nil
	}
	raw, err := yaml.Marshal(v)
	if err != nil {
		return nil
	}
	var items []Item
	if err := yaml.Unmarshal(raw, &items); err != nil {
		return nil
	}
	return items
}
