package block

import (
	"html/template"
	"strings"

	"github.com/pkg/errors"
)

// ErrNotFound is returned for unknown block kinds and presets.
var ErrNotFound = errors.New("not found")

// Field is an editable value of a block together with its default.
type Field struct {
	Name    string `json:"name" yaml:"name" validate:"required"`
	Default string `json:"default" yaml:"default"`
}

// Template describes a block kind. It is immutable once created.
type Template struct {
	kind   string
	label  string
	fields []Field
	markup *template.Template
}

func (t *Template) Kind() string { return t.kind }

// Label returns a human-readable name of the kind.
// It falls back to the kind itself.
func (t *Template) Label() string {
	if t.label == "" {
		return t.kind
	}
	return t.label
}

// Fields returns the declared fields in declaration order.
func (t *Template) Fields() []Field {
	result := make([]Field, len(t.fields))
	copy(result, t.fields)
	return result
}

func (t *Template) HasField(name string) bool {
	for _, f := range t.fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

// Defaults returns a fresh map of field names to their default values.
func (t *Template) Defaults() map[string]string {
	result := make(map[string]string, len(t.fields))
	for _, f := range t.fields {
		result[f.Name] = f.Default
	}
	return result
}

// Render executes the markup with values layered over the defaults.
// Values are opaque strings; html/template escapes them according
// to the context they appear in.
func (t *Template) Render(values map[string]string) (template.HTML, error) {
	data := t.Defaults()
	for k, v := range values {
		data[k] = v
	}

	var b strings.Builder
	if err := t.markup.Execute(&b, data); err != nil {
		return "", errors.Wrapf(err, "failed to render %q", t.kind)
	}

	// #nosec G203 -- produced by html/template
	return template.HTML(strings.TrimSpace(b.String())), nil
}
