package generate

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/componentschema/componentschema/bindings/go/generator/jsonschemagen"
	"github.com/componentschema/componentschema/bindings/go/generator/universe"
	v1 "github.com/componentschema/componentschema/cli/configuration/v1"
	csctx "github.com/componentschema/componentschema/cli/internal/context"
)

const (
	FlagManifest = "manifest"
	FlagOutput   = "output"
	FlagBaseURI  = "base-uri"
	FlagWorkers  = "workers"
	FlagReport   = "report"
)

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate {shards|component|sample|common|manifest-schema|config-schema}",
		Short: "Generate JSON schemas from component manifests",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		DisableAutoGenTag: true,
	}
	cmd.AddCommand(newShardsCommand())
	cmd.AddCommand(newComponentCommand())
	cmd.AddCommand(newSampleCommand())
	cmd.AddCommand(newCommonCommand())
	cmd.AddCommand(newManifestSchemaCommand())
	cmd.AddCommand(newConfigSchemaCommand())
	return cmd
}

func registerManifestFlag(cmd *cobra.Command) {
	cmd.Flags().StringSlice(FlagManifest, nil, "glob pattern of the manifests to generate from, repeatable (default from configuration)")
}

func registerOutputFlags(cmd *cobra.Command) {
	cmd.Flags().String(FlagOutput, "", "directory the documents are written to (default from configuration)")
	cmd.Flags().String(FlagBaseURI, "", "prefix of the $id of every generated document")
}

// settings merges the flags set on cmd over the loaded configuration.
func settings(cmd *cobra.Command) (*v1.Config, error) {
	cfg := *csctx.Config(cmd)
	flags := cmd.Flags()
	if flags.Changed(FlagManifest) {
		manifests, err := flags.GetStringSlice(FlagManifest)
		if err != nil {
			return nil, err
		}
		cfg.Manifests = manifests
	}
	if flags.Changed(FlagOutput) {
		output, err := flags.GetString(FlagOutput)
		if err != nil {
			return nil, err
		}
		cfg.Output = output
	}
	if flags.Changed(FlagBaseURI) {
		uri, err := flags.GetString(FlagBaseURI)
		if err != nil {
			return nil, err
		}
		cfg.BaseURI = uri
	}
	if flags.Changed(FlagWorkers) {
		workers, err := flags.GetInt(FlagWorkers)
		if err != nil {
			return nil, err
		}
		cfg.Workers = workers
	}
	if cfg.Output == "" {
		return nil, fmt.Errorf("no output directory given")
	}
	return &cfg, nil
}

func loadUniverse(cmd *cobra.Command, cfg *v1.Config) (*universe.Universe, error) {
	if len(cfg.Manifests) == 0 {
		return nil, fmt.Errorf("no manifest given")
	}
	fsys, patterns, err := manifestFS(cfg.Manifests)
	if err != nil {
		return nil, err
	}
	return universe.Load(cmd.Context(), fsys, patterns...)
}

// manifestFS turns local glob patterns into patterns on a file system rooted
// at the file system root, as fs.Glob only accepts unrooted slash paths.
func manifestFS(patterns []string) (fs.FS, []string, error) {
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid manifest pattern %q: %w", p, err)
		}
		out = append(out, strings.TrimPrefix(filepath.ToSlash(abs), "/"))
	}
	return os.DirFS("/"), out, nil
}

func newGenerator(u *universe.Universe, cfg *v1.Config) *jsonschemagen.Generator {
	return jsonschemagen.New(u, u,
		jsonschemagen.WithBaseURI(cfg.BaseURI),
		jsonschemagen.WithWorkers(cfg.Workers),
	)
}
