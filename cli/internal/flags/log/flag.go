package log

import (
	"fmt"
	"log/slog"
	"maps"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	v1 "github.com/componentschema/componentschema/cli/configuration/v1"
	"github.com/componentschema/componentschema/cli/internal/enum"
	"github.com/componentschema/componentschema/cli/internal/flags/log/filter"
)

const (
	LevelFlag  = "loglevel"
	FormatFlag = "logformat"
	RealmFlag  = "logrealm"
)

func RegisterLoggingFlags(flags *pflag.FlagSet) {
	enum.Var(flags, LevelFlag, []string{
		"warn",
		"debug",
		"info",
		"error",
	}, "set the log level (debug, info, warn, error)")
	enum.VarP(flags, FormatFlag, "f", []string{"text", "json"}, "set the log format (text, json)")
	flags.StringSlice(RealmFlag, nil, "set the log level of a single realm, as in shard=debug (generator, shard, locator, universe)")
}

// GetBaseLogger builds the logger of the command line client. Records go to
// the error stream of cmd. Per realm levels are taken from rules and from the
// realm flag, which wins for the same realm.
func GetBaseLogger(cmd *cobra.Command, rules []v1.LogRule) (*slog.Logger, error) {
	logLevel, err := GetLoggerLevel(cmd)
	if err != nil {
		return nil, err
	}

	realms, err := filter.RealmFiltersFromRules(rules)
	if err != nil {
		return nil, err
	}
	raw, err := cmd.Flags().GetStringSlice(RealmFlag)
	if err != nil {
		return nil, err
	}
	fromFlag, err := filter.KeyFiltersFromStrings(raw...)
	if err != nil {
		return nil, err
	}
	maps.Copy(realms, fromFlag)

	format, err := enum.Get(cmd.Flags(), FormatFlag)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: filter.MinLevel(logLevel, realms)}
	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(cmd.ErrOrStderr(), opts)
	case "text":
		handler = slog.NewTextHandler(cmd.ErrOrStderr(), opts)
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}
	if len(realms) > 0 {
		handler = filter.New(handler, filter.LoggingKeyRealm, logLevel, realms)
	}

	return slog.New(handler), nil
}

func GetLoggerLevel(cmd *cobra.Command) (slog.Level, error) {
	logLevel, err := enum.Get(cmd.Flags(), LevelFlag)
	if err != nil {
		return slog.LevelWarn, err
	}
	var level slog.Level
	switch logLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return slog.LevelWarn, fmt.Errorf("invalid log level: %s", logLevel)
	}
	return level, nil
}
