// internal/content/catalog.go
package content

import (
	_ "embed"
	"fmt"
	"sync"

	"jobless/internal/common/i18n"
	"jobless/internal/common/validation"

	"gopkg.in/yaml.v3"
)

//go:embed research.yaml
var researchYAML []byte

type statEntry struct {
	ID       string            `yaml:"id"`
	Value    string            `yaml:"value"`
	Year     int               `yaml:"year"`
	Source   string            `yaml:"source"`
	URL      string            `yaml:"url"`
	Headline map[string]string `yaml:"headline"`
}

type catalogFile struct {
	Stats []statEntry `yaml:"stats"`
}

// Stat is one localized research statistic.
type Stat struct {
	ID       string `json:"id"`
	Value    string `json:"value"`
	Headline string `json:"headline"`
	Source   string `json:"source"`
	Year     int    `json:"year"`
	URL      string `json:"url"`
}

type Catalog struct {
	entries []statEntry
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default returns the catalog embedded in the binary.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = Parse(researchYAML)
	})
	return defaultCatalog, defaultErr
}

// Parse loads a catalog and checks every entry has an id, a source URL and an
// English headline.
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse research catalog: %w", err)
	}

	seen := make(map[string]bool, len(file.Stats))
	for i, e := range file.Stats {
		switch {
		case e.ID == "":
			return nil, fmt.Errorf("stat %d: missing id", i)
		case seen[e.ID]:
			return nil, fmt.Errorf("stat %s: duplicate id", e.ID)
		case e.Headline[string(i18n.English)] == "":
			return nil, fmt.Errorf("stat %s: missing english headline", e.ID)
		case !validation.ValidateURL(e.URL):
			return nil, fmt.Errorf("stat %s: invalid url %q", e.ID, e.URL)
		}
		seen[e.ID] = true
	}
	return &Catalog{entries: file.Stats}, nil
}

// Stats returns every entry localized to lang, falling back to English headlines.
func (c *Catalog) Stats(lang i18n.Lang) []Stat {
	out := make([]Stat, 0, len(c.entries))
	for _, e := range c.entries {
		headline := e.Headline[string(lang)]
		if headline == "" {
			headline = e.Headline[string(i18n.English)]
		}
		out = append(out, Stat{
			ID:       e.ID,
			Value:    e.Value,
			Headline: headline,
			Source:   e.Source,
			Year:     e.Year,
			URL:      e.URL,
		})
	}
	return out
}

func (c *Catalog) Len() int {
	return len(c.entries)
}
