package generate

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/componentschema/componentschema/bindings/go/descriptor"
	"github.com/componentschema/componentschema/bindings/go/generator/jsonschemagen"
	"github.com/componentschema/componentschema/bindings/go/generator/writer"
	"github.com/componentschema/componentschema/bindings/go/runtime"
)

func newSampleCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sample TYPE",
		Short: "Print a minimal valid instance document of a component",
		Long: `Prints the smallest instance document that the generated schema of a
component accepts. Generic components are given with their arguments in the
declared type form. References are left unset and lists empty.`,
		Example: `  componentschema generate sample "[Mod]Mod.AudioOutput" --manifest mod.yaml
  componentschema generate sample "[Mod]Mod.ValueField<bool>" --manifest mod.yaml > field.json`,
		Args: cobra.ExactArgs(1),
		RunE: runSample,
	}
	registerManifestFlag(cmd)
	return cmd
}

func runSample(cmd *cobra.Command, args []string) error {
	cfg, err := settings(cmd)
	if err != nil {
		return err
	}
	u, err := loadUniverse(cmd, cfg)
	if err != nil {
		return err
	}
	it, err := runtime.ParseInstanceType(args[0])
	if err != nil {
		return err
	}
	c, ok := u.LookupComponent(args[0])
	if !ok {
		return fmt.Errorf("component %q not found", args[0])
	}
	resolved := make([]descriptor.TypeDescriptor, 0, len(it.Arguments))
	for _, a := range it.Arguments {
		arg, ok := u.ResolveTypeName(a)
		if !ok {
			return fmt.Errorf("unknown generic argument %q of %s", a, args[0])
		}
		resolved = append(resolved, arg)
	}

	instance, err := jsonschemagen.SampleInstance(c, resolved...)
	if err != nil {
		return fmt.Errorf("building sample of %s failed: %w", args[0], err)
	}
	raw, err := writer.Marshal(instance)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(raw)
	return err
}
