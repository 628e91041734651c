package block

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	r := Default()

	assert.Equal(
		t,
		[]string{"hero", "features", "testimonials", "pricing", "cta", "contact", "text"},
		r.Kinds(),
	)
	assert.Equal(t, []string{"startup", "product", "event"}, r.Presets())

	for _, kind := range r.Kinds() {
		tmpl, err := r.Resolve(kind)
		require.NoError(t, err)
		assert.Equal(t, kind, tmpl.Kind())
		assert.NotEmpty(t, tmpl.Fields())
	}
}

func TestRegistry_Resolve(t *testing.T) {
	r := Default()

	tmpl, err := r.Resolve("hero")
	require.NoError(t, err)
	assert.Equal(t, "Hero", tmpl.Label())
	assert.True(t, tmpl.HasField("title"))
	assert.False(t, tmpl.HasField("heading"))
	assert.Equal(t, "Launch Your Amazing Product", tmpl.Defaults()["title"])

	_, err = r.Resolve("foo")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestRegistry_ExpandPreset(t *testing.T) {
	testCases := []struct {
		name     string
		expected []string
	}{
		{name: "startup", expected: []string{"hero", "features", "testimonials", "pricing", "cta"}},
		{name: "product", expected: []string{"hero", "features", "pricing", "testimonials", "contact"}},
		{name: "event", expected: []string{"hero", "cta", "features", "contact"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			kinds, err := Default().ExpandPreset(tc.name)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, kinds)
		})
	}

	t.Run("unknown", func(t *testing.T) {
		_, err := Default().ExpandPreset("portfolio")
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("result is a copy", func(t *testing.T) {
		kinds, err := Default().ExpandPreset("startup")
		require.NoError(t, err)
		kinds[0] = "cta"

		kinds, err = Default().ExpandPreset("startup")
		require.NoError(t, err)
		assert.Equal(t, "hero", kinds[0])
	})
}

func TestTemplate_Render(t *testing.T) {
	tmpl, err := Default().Resolve("hero")
	require.NoError(t, err)

	html, err := tmpl.Render(map[string]string{
		"title": `Hello <script>alert(1)</script>`,
	})
	require.NoError(t, err)

	result := string(html)
	assert.Contains(t, result, "<h1>Hello &lt;script&gt;alert(1)&lt;/script&gt;</h1>")
	assert.Contains(t, result, "<p>Transform your ideas into reality with our innovative solution</p>")
	assert.True(t, strings.HasPrefix(result, `<div class="hero-component">`))
}

func TestTemplate_RenderMarkdown(t *testing.T) {
	tmpl, err := Default().Resolve("text")
	require.NoError(t, err)

	html, err := tmpl.Render(map[string]string{
		"body": "Some **bold** text.\n\n<script>alert(1)</script>\n\n[link](javascript:alert(1))",
	})
	require.NoError(t, err)

	result := string(html)
	assert.Contains(t, result, "<strong>bold</strong>")
	assert.NotContains(t, result, "<script>")
	assert.NotContains(t, result, "javascript:")
}

func TestParse_Invalid(t *testing.T) {
	testCases := []struct {
		name   string
		data   string
		errMsg string
	}{
		{
			name:   "no blocks",
			data:   `presets: []`,
			errMsg: "Definitions.Blocks",
		},
		{
			name: "duplicate kind",
			data: `blocks:
  - kind: a
    markup: "<p></p>"
  - kind: a
    markup: "<p></p>"`,
			errMsg: `duplicate block kind "a"`,
		},
		{
			name: "duplicate field",
			data: `blocks:
  - kind: a
    fields: [{name: x}, {name: x}]
    markup: "<p>{{ .x }}</p>"`,
			errMsg: `duplicate field "x" in block "a"`,
		},
		{
			name: "unknown kind in preset",
			data: `blocks:
  - kind: a
    markup: "<p></p>"
presets:
  - name: p
    kinds: [a, b]`,
			errMsg: `preset "p" refers to unknown block kind "b"`,
		},
		{
			name: "undeclared field",
			data: `blocks:
  - kind: a
    markup: "<p>{{ .missing }}</p>"`,
			errMsg: `failed to render "a"`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
}
