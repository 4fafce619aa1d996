package generate

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/componentschema/componentschema/bindings/go/descriptor"
	"github.com/componentschema/componentschema/bindings/go/generator/jsonschemagen"
	"github.com/componentschema/componentschema/bindings/go/generator/universe"
	"github.com/componentschema/componentschema/bindings/go/generator/writer"
	v1 "github.com/componentschema/componentschema/cli/configuration/v1"
)

func newCommonCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "common",
		Short: "Generate the common type library only",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := settings(cmd)
			if err != nil {
				return err
			}
			gen := newGenerator(universe.New(), cfg)
			if err := writer.WriteDocument(cfg.Output, jsonschemagen.CommonDocument, gen.Common()); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), filepath.Join(cfg.Output, jsonschemagen.CommonDocument))
			return err
		},
	}
	registerOutputFlags(cmd)
	return cmd
}

func newManifestSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "manifest-schema",
		Short: "Print the JSON schema of the manifest format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printSchema(cmd, descriptor.ManifestJSONSchema())
		},
	}
}

func newConfigSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config-schema",
		Short: "Print the JSON schema of the configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printSchema(cmd, v1.JSONSchema())
		},
	}
}

func printSchema(cmd *cobra.Command, schema any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(schema)
}
