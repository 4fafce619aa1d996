package validate

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/componentschema/componentschema/bindings/go/locator"
	"github.com/componentschema/componentschema/cli/cmd/internal/schemas"
	"github.com/componentschema/componentschema/cli/internal/enum"
	"github.com/componentschema/componentschema/cli/internal/render"
)

const (
	FlagOutput      = "output"
	FlagConcurrency = "concurrency"
)

// ErrInvalid is returned when at least one document did not validate.
var ErrInvalid = errors.New("documents failed validation")

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate FILE...",
		Short: "Validate serialized component instances",
		Long: `Validates each instance document against the definition of the component
type it declares. All documents are checked; the command fails when any of
them is invalid or its definition cannot be found.`,
		Example: `  componentschema validate audio.json field.json --schemas schemas -o json`,
		Args:    cobra.MinimumNArgs(1),
		RunE:    run,
	}
	schemas.RegisterFlag(cmd)
	enum.VarP(cmd.Flags(), FlagOutput, "o", render.Encodings(), "output format")
	cmd.Flags().Int(FlagConcurrency, 4, "number of documents validated concurrently")
	return cmd
}

// Result is the outcome for one file. Error is set when the document could
// not be checked at all.
type Result struct {
	File string `json:"file"`
	*locator.ValidationResult
	Error string `json:"error,omitempty"`
}

func (r Result) ok() bool {
	return r.Error == "" && r.ValidationResult != nil && r.Valid
}

func run(cmd *cobra.Command, args []string) error {
	format, err := enum.Get(cmd.Flags(), FlagOutput)
	if err != nil {
		return err
	}
	concurrency, err := cmd.Flags().GetInt(FlagConcurrency)
	if err != nil {
		return err
	}
	l, err := schemas.Locator(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	out := make(results, len(args))
	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(max(concurrency, 1))
	for i, file := range args {
		eg.Go(func() error {
			out[i] = Result{File: file}
			data, err := os.ReadFile(file)
			if err != nil {
				out[i].Error = err.Error()
				return nil
			}
			res, err := l.Validate(egctx, data)
			if err != nil {
				if ctxErr := egctx.Err(); ctxErr != nil {
					return ctxErr
				}
				out[i].Error = err.Error()
				return nil
			}
			out[i].ValidationResult = res
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	if err := render.Write(cmd.OutOrStdout(), render.Encoding(format), out); err != nil {
		return err
	}
	failed := 0
	for _, r := range out {
		if !r.ok() {
			failed++
			slog.DebugContext(ctx, "document rejected", "file", r.File)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d %w", failed, len(out), ErrInvalid)
	}
	return nil
}

type results []Result

func (rs results) Header() table.Row {
	return table.Row{"File", "Type", "Result", "Location", "Message"}
}

func (rs results) Rows() []table.Row {
	var rows []table.Row
	for _, r := range rs {
		switch {
		case r.Error != "":
			rows = append(rows, table.Row{r.File, "", "error", "", r.Error})
		case r.Valid:
			rows = append(rows, table.Row{r.File, r.ComponentType, "valid", r.Location.String(), ""})
		default:
			for _, issue := range r.Issues {
				rows = append(rows, table.Row{r.File, r.ComponentType, "invalid", issue.InstanceLocation, issue.Message})
			}
		}
	}
	return rows
}
