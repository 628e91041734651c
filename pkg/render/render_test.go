package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/stateful/launchpad/pkg/block"
	"github.com/stateful/launchpad/pkg/document"
)

func newDocument(t *testing.T, kinds ...string) *document.Document {
	t.Helper()
	doc := document.New(block.Default())
	for _, kind := range kinds {
		_, err := doc.AddBlock(kind)
		require.NoError(t, err)
	}
	return doc
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key == "class" {
			for _, c := range strings.Fields(a.Val) {
				if c == class {
					return true
				}
			}
		}
	}
	return false
}

func findAll(root *html.Node, match func(*html.Node) bool) (result []*html.Node) {
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && match(n) {
			result = append(result, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return
}

func parse(t *testing.T, markup string) *html.Node {
	t.Helper()
	node, err := html.Parse(strings.NewReader(markup))
	require.NoError(t, err)
	return node
}

func TestRenderer_Clean(t *testing.T) {
	doc := newDocument(t, "hero", "features", "cta")
	r := New(block.Default(), WithTitle("Acme"))

	result := r.Clean(doc)

	assert.True(t, strings.HasPrefix(result, "<!DOCTYPE html>\n<html lang=\"en\">"))
	assert.Contains(t, result, "<title>Acme</title>")
	assert.Contains(t, result, ".hero-cta {")

	root := parse(t, result)
	for _, class := range []string{"component", "component-controls", "control-btn", "selected", "drop-zone"} {
		assert.Empty(t, findAll(root, func(n *html.Node) bool { return hasClass(n, class) }), class)
	}

	styles := findAll(root, func(n *html.Node) bool { return n.DataAtom == atom.Style })
	assert.Len(t, styles, 1)

	heroes := findAll(root, func(n *html.Node) bool { return hasClass(n, "hero-component") })
	require.Len(t, heroes, 1)
	assert.Equal(t, atom.Body, heroes[0].Parent.DataAtom)
}

func TestRenderer_CleanDeterministic(t *testing.T) {
	doc := newDocument(t, "hero", "features", "testimonials", "pricing", "cta", "contact", "text")
	r := New(block.Default())

	first := r.Clean(doc)
	second := r.Clean(doc)
	assert.Equal(t, first, second)

	// A different renderer with the same options agrees too.
	assert.Equal(t, first, New(block.Default()).Clean(doc))
}

func TestRenderer_CleanFieldValues(t *testing.T) {
	doc := newDocument(t, "hero")
	require.NoError(t, doc.UpdateField(1, "title", "Hello & <welcome>"))

	result := New(block.Default()).Clean(doc)
	assert.Contains(t, result, "<h1>Hello &amp; &lt;welcome&gt;</h1>")
	assert.NotContains(t, result, "Launch Your Amazing Product")
}

func TestRenderer_UnknownKind(t *testing.T) {
	snapshot, err := document.ParseSnapshot([]byte(`{"blocks":[{"id":1,"kind":"foo","fields":{}}]}`))
	require.NoError(t, err)

	doc := document.New(block.Default())
	require.NoError(t, doc.Restore(snapshot))

	r := New(block.Default())

	var result string
	require.NotPanics(t, func() { result = r.Clean(doc) })
	assert.Contains(t, result, UnknownComponent)

	assert.Contains(t, r.Editable(doc, 0), UnknownComponent)
}

func TestRenderer_Editable(t *testing.T) {
	doc := newDocument(t, "hero", "cta")
	r := New(block.Default())

	result := r.Editable(doc, 2)
	root := parse(t, result)

	components := findAll(root, func(n *html.Node) bool { return hasClass(n, "component") })
	require.Len(t, components, 2)
	assert.False(t, hasClass(components[0], "selected"))
	assert.True(t, hasClass(components[1], "selected"))

	controls := findAll(root, func(n *html.Node) bool { return hasClass(n, "control-btn") })
	assert.Len(t, controls, 2)

	assert.Contains(t, result, `data-id="1" data-type="hero"`)
	assert.NotContains(t, result, "<!DOCTYPE html>")
}

func TestRenderer_EditableEmpty(t *testing.T) {
	doc := newDocument(t, "hero")
	r := New(block.Default())

	assert.NotContains(t, r.Editable(doc, 0), "drop-zone")

	require.NoError(t, doc.RemoveBlock(1))
	assert.Contains(t, r.Editable(doc, 0), "Start Building Your Landing Page")
	assert.NotContains(t, r.Clean(doc), "drop-zone")
}

func TestRenderer_CleanFiltered(t *testing.T) {
	doc := newDocument(t, "hero", "pricing", "cta")
	r := New(block.Default())

	result := r.Clean(document.Filter(doc, func(b document.Block) bool { return b.Kind != "pricing" }))
	assert.NotContains(t, result, "Simple Pricing")
	assert.Contains(t, result, "Ready to Get Started?")
}

func TestRenderer_Markdown(t *testing.T) {
	doc := newDocument(t, "hero", "text")
	r := New(block.Default())

	result, err := r.Markdown(doc)
	require.NoError(t, err)
	assert.Contains(t, result, "# Launch Your Amazing Product")
	assert.Contains(t, result, "## About Us")
	assert.Contains(t, result, "**ship faster**")
	assert.NotContains(t, result, "<div")
}
