// Package test runs the command line client in process.
package test

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/spf13/cobra"

	"github.com/componentschema/componentschema/cli/cmd"
)

type options struct {
	args   []string
	out    io.Writer
	errOut io.Writer
}

type Option func(*options)

func WithArgs(args ...string) Option {
	return func(o *options) {
		o.args = args
	}
}

func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.out = w
	}
}

func WithErrorOutput(w io.Writer) Option {
	return func(o *options) {
		o.errOut = w
	}
}

// Run executes a fresh root command with the given options. Output that is
// not captured is discarded.
func Run(t *testing.T, opts ...Option) (*cobra.Command, error) {
	t.Helper()
	o := &options{out: io.Discard, errOut: io.Discard}
	for _, opt := range opts {
		opt(o)
	}

	root := cmd.New()
	root.SetArgs(o.args)
	root.SetOut(o.out)
	root.SetErr(o.errOut)
	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()
	return root.ExecuteContextC(ctx)
}

// Output runs the command and returns what it wrote to its output stream.
func Output(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	_, err := Run(t, WithArgs(args...), WithOutput(&buf))
	return buf.String(), err
}
