// Package enum provides a string flag restricted to a fixed set of values.
// The first value is the default.
package enum

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/pflag"

	"github.com/componentschema/componentschema/cli/internal/flags"
)

const Type = "enum"

type Flag struct {
	value   string
	options []string
}

var _ pflag.Value = (*Flag)(nil)

func (f *Flag) String() string {
	return f.value
}

func (f *Flag) Set(s string) error {
	if !slices.Contains(f.options, s) {
		return fmt.Errorf("must be one of %s", strings.Join(f.options, ", "))
	}
	f.value = s
	return nil
}

func (f *Flag) Type() string {
	return Type
}

func newFlag(options []string) *Flag {
	f := &Flag{options: slices.Clone(options)}
	if len(options) > 0 {
		f.value = options[0]
	}
	return f
}

func Var(f *pflag.FlagSet, name string, options []string, usage string) {
	f.Var(newFlag(options), name, usage)
}

func VarP(f *pflag.FlagSet, name, shorthand string, options []string, usage string) {
	f.VarP(newFlag(options), name, shorthand, usage)
}

// Get returns the value of the enum flag name.
func Get(f *pflag.FlagSet, name string) (string, error) {
	return flags.Get(f, name, Type, func(sval string) (string, error) {
		return sval, nil
	})
}
