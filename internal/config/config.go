package config

import (
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

const Version = "v1"

const (
	FormatHTML     = "html"
	FormatMarkdown = "markdown"
)

// Config is the configuration of launchpad read from launchpad.yaml.
type Config struct {
	Version string       `yaml:"version" validate:"required"`
	Page    ConfigPage   `yaml:"page"`
	Export  ConfigExport `yaml:"export"`
	Server  ConfigServer `yaml:"server"`
	Log     ConfigLog    `yaml:"log"`
}

// ConfigPage holds the document-level metadata of the exported page.
type ConfigPage struct {
	Title string `yaml:"title" validate:"required"`
	Lang  string `yaml:"lang" validate:"required,bcp47_language_tag"`
}

type ConfigExport struct {
	Filename string    `yaml:"filename" validate:"required"`
	Format   string    `yaml:"format" validate:"oneof=html markdown"`
	Filters  []*Filter `yaml:"filters" validate:"dive"`
}

type ConfigServer struct {
	Address string `yaml:"address" validate:"required,tcp_addr"`
}

type ConfigLog struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
	Verbose bool   `yaml:"verbose"`
}

// ParseYAML decodes each of data in order on top of the defaults.
// Later documents override fields set by earlier ones.
func ParseYAML(data ...[]byte) (*Config, error) {
	cfg := Default()

	for _, item := range data {
		version, err := parseVersionFromYAML(item)
		if err != nil {
			return nil, err
		}
		if version != Version {
			return nil, errors.Errorf("unknown version: %q", version)
		}

		if err := yaml.Unmarshal(item, cfg); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal config")
		}
	}

	if err := validateConfig(cfg); err != nil {
		return nil, errors.Wrap(err, "failed to validate config")
	}

	return cfg, nil
}

type versionOnly struct {
	Version string `yaml:"version"`
}

func parseVersionFromYAML(data []byte) (string, error) {
	var result versionOnly

	if err := yaml.Unmarshal(data, &result); err != nil {
		return "", errors.Wrap(err, "failed to unmarshal version")
	}

	return result.Version, nil
}

func validateConfig(cfg *Config) error {
	err := validator.New().Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.WithStack(err)
	}

	var result error
	for _, fe := range verrs {
		result = multierr.Append(result, errors.Errorf("%s: failed on %q", fe.Namespace(), fe.Tag()))
	}
	return result
}
