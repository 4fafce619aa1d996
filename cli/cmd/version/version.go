package version

import (
	"encoding/json"
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/componentschema/componentschema/cli/internal/enum"
	"github.com/componentschema/componentschema/cli/internal/version"
)

const (
	FlagFormat            = "format"
	FlagFormatJSON        = "json"
	FlagFormatGoBuildInfo = "gobuildinfo"
)

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version of the componentschema client",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := enum.Get(cmd.Flags(), FlagFormat)
			if err != nil {
				return err
			}
			bi, ok := debug.ReadBuildInfo()
			if !ok {
				return fmt.Errorf("no build info available")
			}
			switch format {
			case FlagFormatJSON:
				info, err := version.FromBuildInfo(bi)
				if err != nil {
					return err
				}
				return json.NewEncoder(cmd.OutOrStdout()).Encode(info)
			case FlagFormatGoBuildInfo:
				_, err := fmt.Fprint(cmd.OutOrStdout(), bi.String())
				return err
			default:
				return fmt.Errorf("unknown format %q", format)
			}
		},
		DisableAutoGenTag: true,
	}

	enum.Var(cmd.Flags(), FlagFormat, []string{FlagFormatJSON, FlagFormatGoBuildInfo}, "output format")
	return cmd
}
