// Package render derives markup from a document.
//
// There are two views. [Renderer.Editable] decorates every block with
// editor-only affordances and is meant for the canvas. [Renderer.Clean]
// produces a standalone page with content only; preview and export must
// both use it so that what is previewed is exactly what is exported.
package render

import (
	_ "embed"
	"html/template"
	"strings"

	"go.uber.org/zap"

	"github.com/stateful/launchpad/pkg/document"
)

// UnknownComponent is rendered in place of blocks that cannot be rendered.
const UnknownComponent = "<div>Unknown component</div>"

const (
	DefaultTitle = "Landing Page"
	DefaultLang  = "en"
)

var (
	//go:embed baseline.css
	baselineStylesheet string

	//go:embed shell.gohtml
	shellTemplate string

	//go:embed canvas.gohtml
	canvasTemplate string

	shell  = template.Must(template.New("shell").Parse(shellTemplate))
	canvas = template.Must(template.New("canvas").Parse(canvasTemplate))
)

// Stylesheet returns the fixed stylesheet embedded in clean pages.
func Stylesheet() string {
	return baselineStylesheet
}

type Option func(*Renderer)

func WithTitle(title string) Option {
	return func(r *Renderer) {
		if title != "" {
			r.title = title
		}
	}
}

func WithLang(lang string) Option {
	return func(r *Renderer) {
		if lang != "" {
			r.lang = lang
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(r *Renderer) {
		r.logger = logger
	}
}

// Renderer is safe for concurrent use.
type Renderer struct {
	resolver document.Resolver
	title    string
	lang     string
	logger   *zap.Logger
}

func New(resolver document.Resolver, opts ...Option) *Renderer {
	r := &Renderer{
		resolver: resolver,
		title:    DefaultTitle,
		lang:     DefaultLang,
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.logger == nil {
		r.logger = zap.NewNop()
	}

	return r
}

func (r *Renderer) Title() string { return r.title }

// renderBlock never fails; problems degrade to [UnknownComponent].
func (r *Renderer) renderBlock(b document.Block) template.HTML {
	tmpl, err := r.resolver.Resolve(b.Kind)
	if err != nil {
		r.logger.Debug("rendering unknown block", zap.Int("id", b.ID), zap.String("kind", b.Kind))
		return UnknownComponent
	}

	markup, err := tmpl.Render(b.Fields)
	if err != nil {
		r.logger.Warn("failed to render block", zap.Int("id", b.ID), zap.String("kind", b.Kind), zap.Error(err))
		return UnknownComponent
	}

	return markup
}

// Body returns the content markup of all blocks without any decoration.
func (r *Renderer) Body(doc document.Blocks) string {
	var parts []string
	for b := range doc.Blocks() {
		parts = append(parts, string(r.renderBlock(b)))
	}
	return strings.Join(parts, "\n")
}

// Clean returns a complete standalone page. The result depends only on
// the blocks and the renderer options; equal input yields identical output.
func (r *Renderer) Clean(doc document.Blocks) string {
	data := struct {
		Lang       string
		Title      string
		Stylesheet template.CSS
		Body       template.HTML
	}{
		Lang:  r.lang,
		Title: r.title,
		// #nosec G203 -- embedded at build time
		Stylesheet: template.CSS(strings.TrimSpace(baselineStylesheet)),
		// #nosec G203 -- produced by html/template
		Body: template.HTML(r.Body(doc)),
	}

	var b strings.Builder
	if err := shell.Execute(&b, data); err != nil {
		// The shell and its data are fixed.
		panic(err)
	}
	return b.String()
}

// Editable returns the canvas markup: every block is wrapped with its id,
// kind, selection state, and a remove control. An empty document renders
// the drop-zone placeholder.
func (r *Renderer) Editable(doc document.Blocks, selected int) string {
	var b strings.Builder
	empty := true

	for item := range doc.Blocks() {
		if !empty {
			_ = b.WriteByte('\n')
		}
		empty = false

		data := struct {
			ID       int
			Kind     string
			Selected bool
			Markup   template.HTML
		}{
			ID:       item.ID,
			Kind:     item.Kind,
			Selected: item.ID == selected,
			Markup:   r.renderBlock(item),
		}
		if err := canvas.ExecuteTemplate(&b, "component", data); err != nil {
			panic(err)
		}
	}

	if empty {
		if err := canvas.ExecuteTemplate(&b, "empty", nil); err != nil {
			panic(err)
		}
	}

	return b.String()
}
