package locate

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/componentschema/componentschema/bindings/go/locator"
	"github.com/componentschema/componentschema/cli/cmd/internal/schemas"
	"github.com/componentschema/componentschema/cli/internal/enum"
	"github.com/componentschema/componentschema/cli/internal/render"
)

const FlagOutput = "output"

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "locate TYPE...",
		Short: "Find the schema definition that validates a component type",
		Long: `Computes the shard of each declared component type and looks up the
definition that validates its instances, without reading any other shard.`,
		Example: `  componentschema locate "[Mod]Mod.AudioOutput" "[Mod]Mod.ValueField<bool>" --schemas schemas`,
		Args:    cobra.MinimumNArgs(1),
		RunE:    run,
	}
	schemas.RegisterFlag(cmd)
	enum.VarP(cmd.Flags(), FlagOutput, "o", render.Encodings(), "output format")
	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	format, err := enum.Get(cmd.Flags(), FlagOutput)
	if err != nil {
		return err
	}
	l, err := schemas.Locator(cmd)
	if err != nil {
		return err
	}
	out := make(locations, 0, len(args))
	for _, arg := range args {
		loc, err := l.Locate(cmd.Context(), arg)
		if err != nil {
			return fmt.Errorf("locating %q failed: %w", arg, err)
		}
		out = append(out, loc)
	}
	return render.Write(cmd.OutOrStdout(), render.Encoding(format), out)
}

type locations []*locator.Location

func (l locations) Header() table.Row {
	return table.Row{"Type", "Bucket", "Definition", "Fallback"}
}

func (l locations) Rows() []table.Row {
	rows := make([]table.Row, 0, len(l))
	for _, loc := range l {
		rows = append(rows, table.Row{loc.ComponentType, loc.Bucket, loc.String(), loc.Fallback})
	}
	return rows
}
