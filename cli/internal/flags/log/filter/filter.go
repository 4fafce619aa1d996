// Package filter provides a slog.Handler that applies minimum levels per
// realm, the attribute every package of the engine tags its records with.
package filter

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	v1 "github.com/componentschema/componentschema/cli/configuration/v1"
)

// LoggingKeyRealm is the default key used to identify the realm attribute in log records.
const LoggingKeyRealm = "realm"

// filter wraps a slog.Handler and drops records below the minimum level of
// their realm, or below the fallback level when their realm has no rule.
type filter struct {
	handler  slog.Handler          // The underlying handler to delegate to
	filters  map[string]slog.Level // Map of realm names to minimum log levels
	fallback slog.Level            // Minimum level of records without a rule
	key      string                // The attribute key to use for filtering (e.g., "realm")
	preset   string                // Preset value for the key, if any
}

func (f *filter) Enabled(ctx context.Context, level slog.Level) bool {
	return f.handler.Enabled(ctx, level)
}

func (f *filter) WithAttrs(attrs []slog.Attr) slog.Handler {
	preset := f.preset
	if preset == "" {
		for _, attr := range attrs {
			if attr.Key == f.key {
				preset = attr.Value.String()
				break
			}
		}
	}
	return &filter{
		handler:  f.handler.WithAttrs(attrs),
		filters:  f.filters,
		fallback: f.fallback,
		key:      f.key,
		preset:   preset,
	}
}

func (f *filter) WithGroup(name string) slog.Handler {
	return &filter{
		handler:  f.handler.WithGroup(name),
		filters:  f.filters,
		fallback: f.fallback,
		key:      f.key,
		preset:   f.preset,
	}
}

// New creates a filtered handler. The underlying handler must accept every
// level any rule allows, see MinLevel.
func New(handler slog.Handler, key string, fallback slog.Level, filters map[string]slog.Level) slog.Handler {
	return &filter{
		handler:  handler,
		filters:  filters,
		fallback: fallback,
		key:      key,
	}
}

// MinLevel is the lowest level any record can pass the filter with.
func MinLevel(fallback slog.Level, filters map[string]slog.Level) slog.Level {
	lowest := fallback
	for _, level := range filters {
		lowest = min(lowest, level)
	}
	return lowest
}

// RealmFiltersFromRules collects the realm levels of configured rules. Later
// rules win for the same realm.
func RealmFiltersFromRules(rules []v1.LogRule) (map[string]slog.Level, error) {
	realmFilters := make(map[string]slog.Level, len(rules))
	for _, rule := range rules {
		if rule.Realm == "" {
			return nil, fmt.Errorf("realm cannot be empty in rule: %v", rule)
		}
		var level slog.Level
		if err := level.UnmarshalText([]byte(rule.Level)); err != nil {
			return nil, fmt.Errorf("invalid log level in rule for realm %s: %w", rule.Realm, err)
		}
		realmFilters[rule.Realm] = level
	}
	return realmFilters, nil
}

// Handle drops records filtered by their realm and delegates all others.
func (f *filter) Handle(ctx context.Context, record slog.Record) error {
	if f.shouldFilter(record) {
		return nil
	}
	return f.handler.Handle(ctx, record)
}

func (f *filter) shouldFilter(record slog.Record) bool {
	keyValue := f.preset
	if keyValue == "" {
		keyValue = f.getValueFromRecord(record)
	}
	if minLevel, exists := f.filters[keyValue]; exists && keyValue != "" {
		return record.Level < minLevel
	}
	return record.Level < f.fallback
}

// getValueFromRecord extracts the value of the filter key from a record's attributes.
func (f *filter) getValueFromRecord(record slog.Record) string {
	var value string
	record.Attrs(func(attr slog.Attr) bool {
		if attr.Key == f.key {
			value = attr.Value.String()
			return false
		}
		return true
	})
	return value
}

// KeyFiltersFromStrings parses filter specifications in the format
// "realm=level", as in
//
//	filters, err := KeyFiltersFromStrings("shard=debug", "locator=error")
func KeyFiltersFromStrings(raw ...string) (map[string]slog.Level, error) {
	filters := make(map[string]slog.Level, len(raw))

	for _, filter := range raw {
		key, levelStr, found := strings.Cut(filter, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid filter format: %s, expected key=value", filter)
		}

		var level slog.Level
		if err := level.UnmarshalText([]byte(levelStr)); err != nil {
			return nil, fmt.Errorf("invalid log level in filter %s: %w", filter, err)
		}

		filters[key] = level
	}

	return filters, nil
}
