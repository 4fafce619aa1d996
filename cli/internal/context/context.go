// Package context carries the state shared by all commands of one invocation,
// such as the loaded configuration, on the command's context.Context.
package context

import (
	"context"

	"github.com/spf13/cobra"

	v1 "github.com/componentschema/componentschema/cli/configuration/v1"
)

type contextKey struct{}

// Context is the shared state of one command line invocation.
type Context struct {
	config     *v1.Config
	configPath string
}

// WithConfig stores cfg and the path it was read from. An empty path means
// the defaults are in use.
func WithConfig(ctx context.Context, cfg *v1.Config, path string) context.Context {
	c := &Context{}
	if existing := FromContext(ctx); existing != nil {
		*c = *existing
	}
	c.config = cfg
	c.configPath = path
	return context.WithValue(ctx, contextKey{}, c)
}

// FromContext returns the shared state or nil if none was stored.
func FromContext(ctx context.Context) *Context {
	c, _ := ctx.Value(contextKey{}).(*Context)
	return c
}

// Config returns the loaded configuration, falling back to the defaults.
func (c *Context) Config() *v1.Config {
	if c == nil || c.config == nil {
		return v1.Default()
	}
	return c.config
}

func (c *Context) ConfigPath() string {
	if c == nil {
		return ""
	}
	return c.configPath
}

// Config is a shorthand for FromContext(cmd.Context()).Config().
func Config(cmd *cobra.Command) *v1.Config {
	return FromContext(cmd.Context()).Config()
}
