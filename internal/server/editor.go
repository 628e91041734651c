package server

import (
	"bytes"
	_ "embed"
	"html/template"

	"github.com/pkg/errors"

	"github.com/stateful/launchpad/internal/version"
	"github.com/stateful/launchpad/pkg/block"
	"github.com/stateful/launchpad/pkg/render"
)

var (
	//go:embed editor.gohtml
	editorTemplate string

	//go:embed editor.css
	editorStylesheet string

	editor = template.Must(template.New("editor").Parse(editorTemplate))
)

type editorKind struct {
	Kind  string
	Label string
}

type editorData struct {
	Version    string
	Stylesheet template.CSS
	Kinds      []editorKind
	Presets    []string
	Canvas     template.HTML
}

func renderEditor(registry *block.Registry, canvas string) ([]byte, error) {
	data := editorData{
		Version:    version.BaseVersion(),
		Stylesheet: template.CSS(render.Stylesheet() + editorStylesheet),
		Presets:    registry.Presets(),
		Canvas:     template.HTML(canvas),
	}

	for _, kind := range registry.Kinds() {
		tmpl, err := registry.Resolve(kind)
		if err != nil {
			return nil, err
		}
		data.Kinds = append(data.Kinds, editorKind{Kind: kind, Label: tmpl.Label()})
	}

	var buf bytes.Buffer
	if err := editor.Execute(&buf, data); err != nil {
		return nil, errors.Wrap(err, "failed to execute editor template")
	}
	return buf.Bytes(), nil
}
