package session

import (
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	OpAdd    = "add"
	OpSet    = "set"
	OpRemove = "remove"
	OpSelect = "select"
	OpClear  = "clear"
	OpUndo   = "undo"
	OpRedo   = "redo"
	OpPreset = "preset"
)

// Step is a single intent of a [Script].
type Step struct {
	Op     string `yaml:"op" validate:"required,oneof=add set remove select clear undo redo preset"`
	Kind   string `yaml:"kind,omitempty" validate:"required_if=Op add"`
	Block  int    `yaml:"block,omitempty" validate:"gte=0"`
	Field  string `yaml:"field,omitempty" validate:"required_if=Op set"`
	Value  string `yaml:"value,omitempty"`
	Preset string `yaml:"preset,omitempty" validate:"required_if=Op preset"`
}

// Script is an ordered list of intents replayed into a session, for example:
//
//	steps:
//	  - op: preset
//	    preset: startup
//	  - op: set
//	    block: 1
//	    field: title
//	    value: Hello
//	  - op: remove
//	    block: 3
type Script struct {
	Steps []Step `yaml:"steps" validate:"dive"`
}

// ParseScript decodes and validates a YAML script.
func ParseScript(data []byte) (*Script, error) {
	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal script")
	}
	if err := script.Validate(); err != nil {
		return nil, err
	}
	return &script, nil
}

func (s *Script) Validate() error {
	var result error

	validate := validator.New()

	for idx, step := range s.Steps {
		if err := validate.Struct(step); err != nil {
			var verrs validator.ValidationErrors
			if !errors.As(err, &verrs) {
				return errors.WithStack(err)
			}
			for _, fe := range verrs {
				result = multierr.Append(result, errors.Errorf("step %d: invalid %s: failed on %q", idx+1, fe.Field(), fe.Tag()))
			}
			continue
		}

		switch step.Op {
		case OpSet, OpRemove, OpSelect:
			if step.Block == 0 {
				result = multierr.Append(result, errors.Errorf("step %d: %s requires a block id", idx+1, step.Op))
			}
		}
	}

	return result
}

// Result summarizes a replay. Ignored counts intents that were no-ops.
type Result struct {
	Applied int
	Ignored int
}

// Apply replays script into the session.
func (s *Session) Apply(script *Script) Result {
	var result Result

	for idx, step := range script.Steps {
		var ok bool

		switch step.Op {
		case OpAdd:
			_, ok = s.AddBlock(step.Kind)
		case OpSet:
			ok = s.UpdateField(step.Block, step.Field, step.Value)
		case OpRemove:
			ok = s.RemoveBlock(step.Block)
		case OpSelect:
			ok = s.Select(step.Block)
		case OpClear:
			s.Clear()
			ok = true
		case OpUndo:
			ok = s.Undo()
		case OpRedo:
			ok = s.Redo()
		case OpPreset:
			ok = s.LoadTemplate(step.Preset)
		}

		if ok {
			result.Applied++
		} else {
			result.Ignored++
			s.logger.Info("step had no effect", zap.Int("step", idx+1), zap.String("op", step.Op))
		}
	}

	return result
}
