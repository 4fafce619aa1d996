package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/componentschema/componentschema/cli/cmd/generate"
	"github.com/componentschema/componentschema/cli/cmd/locate"
	"github.com/componentschema/componentschema/cli/cmd/setup/hooks"
	"github.com/componentschema/componentschema/cli/cmd/validate"
	"github.com/componentschema/componentschema/cli/cmd/version"
	"github.com/componentschema/componentschema/cli/internal/flags/file"
	"github.com/componentschema/componentschema/cli/internal/flags/log"
)

// Execute runs the root command. It is called by main.main() and exits with
// a non-zero code when the command fails.
func Execute() {
	err := New().Execute()
	if err != nil {
		os.Exit(1)
	}
}

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "componentschema [sub-command]",
		Short: "Generate and query JSON schemas of component types",
		Long: `componentschema turns the component and type descriptors exported from a host
  into sharded JSON schemas, and finds and applies the schema that validates a
  serialized component instance.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: hooks.PreRunE,
		DisableAutoGenTag: true,
		SilenceUsage:      true,
	}

	file.Var(cmd.PersistentFlags(), hooks.ConfigFlag, "", `configuration file, as generator.config.componentschema.dev/v1 in YAML or JSON`)
	log.RegisterLoggingFlags(cmd.PersistentFlags())

	cmd.AddCommand(generate.New())
	cmd.AddCommand(locate.New())
	cmd.AddCommand(validate.New())
	cmd.AddCommand(version.New())
	return cmd
}
