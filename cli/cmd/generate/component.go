package generate

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/componentschema/componentschema/bindings/go/generator/jsonschemagen"
	"github.com/componentschema/componentschema/bindings/go/generator/writer"
)

func newComponentCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "component NAME",
		Short: "Generate the standalone schema of one component",
		Long: `Generates the standalone schema document of a single component together
with the common library it references. Both are written to the output
directory. NAME is the canonical name, the declared type or the unique
qualified name of the component.`,
		Example: `  componentschema generate component "[Mod]Mod.AudioOutput" --manifest mod.yaml --output schemas`,
		Args:    cobra.ExactArgs(1),
		RunE:    runComponent,
	}
	registerManifestFlag(cmd)
	registerOutputFlags(cmd)
	return cmd
}

func runComponent(cmd *cobra.Command, args []string) error {
	cfg, err := settings(cmd)
	if err != nil {
		return err
	}
	u, err := loadUniverse(cmd, cfg)
	if err != nil {
		return err
	}
	c, ok := u.LookupComponent(args[0])
	if !ok {
		return fmt.Errorf("component %q not found", args[0])
	}

	gen := newGenerator(u, cfg)
	res := gen.Standalone(c)
	for _, s := range res.Skipped {
		slog.WarnContext(cmd.Context(), "generic argument skipped", "component", res.Component, "argument", s.Argument, "error", s.Err)
	}
	if !res.OK() {
		return fmt.Errorf("generating %s failed: %w", res.Component, res.Err)
	}
	if err := writer.WriteDocument(cfg.Output, jsonschemagen.CommonDocument, gen.Common()); err != nil {
		return err
	}
	if err := writer.WriteStandalone(cfg.Output, res.Document); err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), filepath.Join(cfg.Output, jsonschemagen.StandaloneFileName(c)))
	return err
}
