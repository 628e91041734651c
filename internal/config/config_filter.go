package config

import (
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/pkg/errors"

	"github.com/stateful/launchpad/pkg/document"
)

type Filter struct {
	Condition string `yaml:"condition" validate:"required"`

	once       sync.Once
	program    *vm.Program
	compileErr error
}

// FilterBlockEnv is the environment a filter condition is evaluated in.
//
// The `expr` tag is used to map the field to the corresponding variable.
// Without it, all variables start with capitalized letters.
type FilterBlockEnv struct {
	ID     int               `expr:"id"`
	Kind   string            `expr:"kind"`
	Fields map[string]string `expr:"fields"`
}

func NewFilterBlockEnv(b document.Block) FilterBlockEnv {
	return FilterBlockEnv{
		ID:     b.ID,
		Kind:   b.Kind,
		Fields: b.Fields,
	}
}

func (f *Filter) Evaluate(env interface{}) (bool, error) {
	f.once.Do(func() {
		program, err := expr.Compile(
			f.Condition,
			expr.Env(env),
			expr.AsBool(),
		)
		f.program, f.compileErr = program, errors.Wrapf(err, "failed to compile filter %q", f.Condition)
	})

	if f.program == nil {
		return false, f.compileErr
	}

	result, err := expr.Run(f.program, env)
	if err != nil {
		return false, errors.Wrapf(err, "failed to run filter %q", f.Condition)
	}
	return result.(bool), nil
}

// BlockFilter returns a predicate keeping the blocks that pass all filters.
func BlockFilter(filters []*Filter) func(document.Block) (bool, error) {
	return func(b document.Block) (bool, error) {
		env := NewFilterBlockEnv(b)
		for _, f := range filters {
			ok, err := f.Evaluate(env)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	}
}
