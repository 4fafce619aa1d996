package file

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
)

const Type = "path"

// Flag is a path flag. A path that is set must name an existing regular
// file, an empty path means the flag was not given.
type Flag struct {
	path *string
}

var _ pflag.Value = (*Flag)(nil)

func (f *Flag) String() string {
	if f.path == nil {
		return ""
	}
	return *f.path
}

// IsSet reports whether a path was given.
func (f *Flag) IsSet() bool {
	return f.String() != ""
}

func (f *Flag) Set(s string) error {
	info, err := os.Stat(s)
	if err != nil {
		return fmt.Errorf("unable to stat path %q: %w", s, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("path %q is not a regular file", s)
	}
	*f.path = s
	return nil
}

func (f *Flag) Type() string {
	return Type
}

func Var(f *pflag.FlagSet, name string, value string, usage string) {
	actual := strings.Clone(value)
	f.Var(&Flag{path: &actual}, name, usage)
}

func Get(f *pflag.FlagSet, name string) (*Flag, error) {
	flag := f.Lookup(name)
	if flag == nil {
		return nil, fmt.Errorf("flag accessed but not defined: %s", name)
	}
	val, ok := flag.Value.(*Flag)
	if !ok {
		return nil, fmt.Errorf("trying to get %s value of flag %s of type %s", Type, name, flag.Value.Type())
	}
	return val, nil
}
