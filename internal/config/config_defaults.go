package config

import (
	_ "embed"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed config_defaults.yaml
var defaultsYAML []byte

var defaults *Config

func init() {
	cfg, err := newDefault()
	if err != nil {
		panic(err)
	}
	defaults = cfg
}

func newDefault() (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(defaultsYAML, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal defaults")
	}
	if err := validateConfig(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to validate defaults")
	}
	return &cfg, nil
}

// Default returns a copy of the default configuration.
func Default() *Config {
	cfg := *defaults
	cfg.Export.Filters = nil
	for _, f := range defaults.Export.Filters {
		cfg.Export.Filters = append(cfg.Export.Filters, &Filter{Condition: f.Condition})
	}
	return &cfg
}
