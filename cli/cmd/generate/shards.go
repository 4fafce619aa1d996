package generate

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/opencontainers/go-digest"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/componentschema/componentschema/bindings/go/generator/jsonschemagen"
	"github.com/componentschema/componentschema/bindings/go/generator/shard"
	"github.com/componentschema/componentschema/bindings/go/generator/writer"
	"github.com/componentschema/componentschema/cli/internal/enum"
	"github.com/componentschema/componentschema/cli/internal/render"
)

func newShardsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shards",
		Short: "Generate the sharded schema corpus of all components",
		Long: `Generates the common library, the component and enum shards, the index and
the shard map of all components declared in the given manifests. Components
that cannot be generated are reported and left out, they do not fail the run.`,
		Example: `  componentschema generate shards --manifest "manifests/*.yaml" --output schemas`,
		Args:    cobra.NoArgs,
		RunE:    runShards,
	}
	registerManifestFlag(cmd)
	registerOutputFlags(cmd)
	cmd.Flags().Int(FlagWorkers, 0, "number of components assembled concurrently, 0 for one per CPU")
	enum.Var(cmd.Flags(), FlagReport, render.Encodings(), "format of the generation report")
	return cmd
}

func runShards(cmd *cobra.Command, _ []string) error {
	cfg, err := settings(cmd)
	if err != nil {
		return err
	}
	format, err := enum.Get(cmd.Flags(), FlagReport)
	if err != nil {
		return err
	}
	u, err := loadUniverse(cmd, cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	gen := newGenerator(u, cfg)
	docs, report, err := gen.Generate(ctx, u.Components())
	if err != nil {
		return err
	}
	corpus, err := shard.New(cfg.BaseURI).Partition(ctx, gen.Common(), docs, report)
	if err != nil {
		return err
	}
	files, err := writer.WriteCorpus(cfg.Output, corpus)
	if err != nil {
		return fmt.Errorf("writing corpus failed: %w", err)
	}
	digests, err := writer.DigestFiles(cfg.Output, files, digest.SHA256)
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "corpus written", "directory", cfg.Output, "files", len(files))

	summary := newSummary(report, corpus, digests)
	out := cmd.OutOrStdout()
	if err := render.Write(out, render.Encoding(format), summary); err != nil {
		return err
	}
	if render.Encoding(format) == render.EncodingTable {
		summary.print(out)
	}
	return nil
}

// summary is the generation report as shown to the user.
type summary struct {
	Succeeded       int                         `json:"succeeded"`
	Failed          int                         `json:"failed"`
	Warnings        int                         `json:"warnings"`
	ComponentShards int                         `json:"componentShards"`
	EnumShards      int                         `json:"enumShards"`
	Files           []writer.FileDigest         `json:"files"`
	Entries         []jsonschemagen.ReportEntry `json:"entries"`
	Assignments     []shard.Assignment          `json:"assignments"`
}

func newSummary(report *jsonschemagen.Report, corpus *shard.Corpus, files []writer.FileDigest) *summary {
	return &summary{
		Succeeded:       report.Succeeded(),
		Failed:          report.Failed(),
		Warnings:        report.Warnings(),
		ComponentShards: len(corpus.Components),
		EnumShards:      len(corpus.Enums),
		Files:           files,
		Entries:         report.Entries(),
		Assignments:     corpus.Assignments,
	}
}

func (s *summary) Header() table.Row {
	return table.Row{"Component", "Status", "Shard", "Details"}
}

func (s *summary) Rows() []table.Row {
	files := make(map[string]string, len(s.Assignments))
	for _, a := range s.Assignments {
		files[a.Component] = fmt.Sprintf("%s#/$defs/%s", a.File, a.Definition)
	}
	rows := make([]table.Row, 0, len(s.Entries))
	for _, e := range s.Entries {
		details := e.Reason
		if details == "" {
			details = strings.Join(e.Warnings, "\n")
		}
		rows = append(rows, table.Row{e.Component, e.Status, files[e.Component], details})
	}
	return rows
}

func (s *summary) print(out io.Writer) {
	p := message.NewPrinter(language.English)
	p.Fprintf(out, "\n%d components generated into %d component shards and %d enum shards, %d failed, %d warnings\n",
		s.Succeeded, s.ComponentShards, s.EnumShards, s.Failed, s.Warnings)
}
