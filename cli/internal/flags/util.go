package flags

import (
	"fmt"

	"github.com/spf13/pflag"
)

// Get looks up the flag name, checks that its value is of type ftype and
// converts its string form with convert.
func Get[T any](f *pflag.FlagSet, name string, ftype string, convert func(sval string) (T, error)) (T, error) {
	var zero T
	flag := f.Lookup(name)
	if flag == nil {
		return zero, fmt.Errorf("flag accessed but not defined: %s", name)
	}
	if flag.Value.Type() != ftype {
		return zero, fmt.Errorf("trying to get %s value of flag %s of type %s", ftype, name, flag.Value.Type())
	}
	return convert(flag.Value.String())
}
