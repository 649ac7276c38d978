// internal/content/catalog_test.go
package content

import (
	"testing"

	"jobless/internal/common/i18n"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_EmbeddedCatalogIsValid(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	require.Equal(t, 5, c.Len())

	for _, s := range c.Stats(i18n.Chinese) {
		assert.NotEmpty(t, s.Headline, s.ID)
		assert.NotEmpty(t, s.Source, s.ID)
	}
}

func TestStats_Localized(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	en := c.Stats(i18n.English)
	zh := c.Stats(i18n.Chinese)
	require.Len(t, zh, len(en))
	assert.Equal(t, "imf-exposure", en[0].ID)
	assert.Equal(t, "of global employment is exposed to AI", en[0].Headline)
	assert.Equal(t, "的全球就业岗位受到AI影响", zh[0].Headline)
	assert.Equal(t, en[0].Value, zh[0].Value)
}

func TestStats_FallsBackToEnglish(t *testing.T) {
	c, err := Parse([]byte(`
stats:
  - id: only-en
    value: "1"
    url: https://example.com
    headline:
      en: english only
`))
	require.NoError(t, err)
	assert.Equal(t, "english only", c.Stats(i18n.Chinese)[0].Headline)
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"malformed", "stats: [\n"},
		{"missing id", "stats:\n  - url: https://example.com\n    headline: {en: x}\n"},
		{"duplicate id", "stats:\n  - {id: a, url: 'https://a.com', headline: {en: x}}\n  - {id: a, url: 'https://a.com', headline: {en: y}}\n"},
		{"missing english", "stats:\n  - {id: a, url: 'https://a.com', headline: {zh: x}}\n"},
		{"bad url", "stats:\n  - {id: a, url: 'not a url', headline: {en: x}}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}
