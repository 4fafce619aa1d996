package hooks

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	v1 "github.com/componentschema/componentschema/cli/configuration/v1"
	csctx "github.com/componentschema/componentschema/cli/internal/context"
	"github.com/componentschema/componentschema/cli/internal/flags/file"
	"github.com/componentschema/componentschema/cli/internal/flags/log"
)

// ConfigFlag names the persistent flag of the configuration file.
const ConfigFlag = "config"

// PreRunE sets up the command with the configuration and logger shared by
// all commands.
func PreRunE(cmd *cobra.Command, _ []string) error {
	cfg, path, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := log.GetBaseLogger(cmd, cfg.Logging.Rules)
	if err != nil {
		return fmt.Errorf("could not retrieve logger: %w", err)
	}
	slog.SetDefault(logger)
	if path != "" {
		slog.DebugContext(cmd.Context(), "configuration loaded", slog.String("path", path))
	}

	cmd.SetContext(csctx.WithConfig(cmd.Context(), cfg, path))

	if parent := cmd.Parent(); parent != nil {
		cmd.SetOut(parent.OutOrStdout())
		cmd.SetErr(parent.ErrOrStderr())
	}
	return nil
}

func loadConfig(cmd *cobra.Command) (*v1.Config, string, error) {
	f, err := file.Get(cmd.Flags(), ConfigFlag)
	if err != nil {
		return nil, "", err
	}
	if !f.IsSet() {
		return v1.Default(), "", nil
	}
	cfg, err := v1.Load(f.String())
	if err != nil {
		return nil, "", fmt.Errorf("could not load configuration: %w", err)
	}
	return cfg, f.String(), nil
}
