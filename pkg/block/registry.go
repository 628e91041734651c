package block

import (
	_ "embed"
	"html/template"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// Definition is a serialized form of a [Template].
type Definition struct {
	Kind   string  `yaml:"kind" validate:"required"`
	Label  string  `yaml:"label"`
	Fields []Field `yaml:"fields" validate:"dive"`
	Markup string  `yaml:"markup" validate:"required"`
}

// Preset is a named, ordered list of block kinds used
// to seed a new page.
type Preset struct {
	Name  string   `yaml:"name" validate:"required"`
	Kinds []string `yaml:"kinds" validate:"required,min=1,dive,required"`
}

type Definitions struct {
	Blocks  []Definition `yaml:"blocks" validate:"required,min=1,dive"`
	Presets []Preset     `yaml:"presets" validate:"dive"`
}

// Registry maps block kinds to templates and preset names to kinds.
// It is read-only after construction and safe for concurrent use.
type Registry struct {
	kinds     []string
	templates map[string]*Template

	presetNames []string
	presets     map[string][]string
}

//go:embed blocks.yaml
var defaultDefinitions []byte

var defaultRegistry *Registry

func init() {
	r, err := Parse(defaultDefinitions)
	if err != nil {
		panic(err)
	}
	defaultRegistry = r
}

// Default returns the registry with the built-in blocks and presets.
func Default() *Registry {
	return defaultRegistry
}

// Parse builds a registry from YAML definitions.
func Parse(data []byte) (*Registry, error) {
	var defs Definitions
	if err := yaml.Unmarshal(data, &defs); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal block definitions")
	}
	return New(defs)
}

func New(defs Definitions) (*Registry, error) {
	if err := validateDefinitions(defs); err != nil {
		return nil, err
	}

	r := &Registry{
		templates: make(map[string]*Template, len(defs.Blocks)),
		presets:   make(map[string][]string, len(defs.Presets)),
	}

	for _, def := range defs.Blocks {
		markup, err := template.New(def.Kind).
			Funcs(funcs).
			Option("missingkey=error").
			Parse(def.Markup)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse markup of %q", def.Kind)
		}

		fields := make([]Field, len(def.Fields))
		copy(fields, def.Fields)

		tmpl := &Template{
			kind:   def.Kind,
			label:  def.Label,
			fields: fields,
			markup: markup,
		}

		// Catch references to undeclared fields early.
		if _, err := tmpl.Render(nil); err != nil {
			return nil, err
		}

		r.kinds = append(r.kinds, def.Kind)
		r.templates[def.Kind] = tmpl
	}

	for _, p := range defs.Presets {
		kinds := make([]string, len(p.Kinds))
		copy(kinds, p.Kinds)
		r.presetNames = append(r.presetNames, p.Name)
		r.presets[p.Name] = kinds
	}

	return r, nil
}

func validateDefinitions(defs Definitions) error {
	var result error

	if err := validator.New().Struct(defs); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return errors.WithStack(err)
		}
		for _, fe := range verrs {
			result = multierr.Append(result, errors.Errorf("invalid %s: failed on %q", fe.Namespace(), fe.Tag()))
		}
	}

	kinds := make(map[string]bool, len(defs.Blocks))
	for _, def := range defs.Blocks {
		if kinds[def.Kind] {
			result = multierr.Append(result, errors.Errorf("duplicate block kind %q", def.Kind))
		}
		kinds[def.Kind] = true

		names := make(map[string]bool, len(def.Fields))
		for _, f := range def.Fields {
			if names[f.Name] {
				result = multierr.Append(result, errors.Errorf("duplicate field %q in block %q", f.Name, def.Kind))
			}
			names[f.Name] = true
		}
	}

	presets := make(map[string]bool, len(defs.Presets))
	for _, p := range defs.Presets {
		if presets[p.Name] {
			result = multierr.Append(result, errors.Errorf("duplicate preset %q", p.Name))
		}
		presets[p.Name] = true

		for _, kind := range p.Kinds {
			if !kinds[kind] {
				result = multierr.Append(result, errors.Errorf("preset %q refers to unknown block kind %q", p.Name, kind))
			}
		}
	}

	return result
}

// Resolve returns the template of kind or [ErrNotFound].
func (r *Registry) Resolve(kind string) (*Template, error) {
	if t, ok := r.templates[kind]; ok {
		return t, nil
	}
	return nil, errors.Wrapf(ErrNotFound, "block kind %q", kind)
}

// ExpandPreset returns the ordered block kinds of the named preset.
func (r *Registry) ExpandPreset(name string) ([]string, error) {
	kinds, ok := r.presets[name]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "preset %q", name)
	}
	result := make([]string, len(kinds))
	copy(result, kinds)
	return result, nil
}

// Kinds returns registered kinds in definition order.
func (r *Registry) Kinds() []string {
	result := make([]string, len(r.kinds))
	copy(result, r.kinds)
	return result
}

// Presets returns preset names in definition order.
func (r *Registry) Presets() []string {
	result := make([]string, len(r.presetNames))
	copy(result, r.presetNames)
	return result
}
