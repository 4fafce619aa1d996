// Package schemas builds the locator the lookup commands share.
package schemas

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/componentschema/componentschema/bindings/go/locator"
	csctx "github.com/componentschema/componentschema/cli/internal/context"
)

const FlagSchemas = "schemas"

func RegisterFlag(cmd *cobra.Command) {
	cmd.Flags().String(FlagSchemas, "", "directory of a generated schema corpus (default: output directory from configuration)")
}

// Locator opens the corpus named by the schemas flag, falling back to the
// configured output directory, with the configured cache settings.
func Locator(cmd *cobra.Command) (*locator.Locator, error) {
	cfg := csctx.Config(cmd)
	dir, err := cmd.Flags().GetString(FlagSchemas)
	if err != nil {
		return nil, err
	}
	if dir == "" {
		dir = cfg.Output
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("schema directory not readable: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("schema directory %q is not a directory", dir)
	}
	opts, err := cfg.LocatorOptions()
	if err != nil {
		return nil, err
	}
	return locator.New(os.DirFS(dir), opts...), nil
}
