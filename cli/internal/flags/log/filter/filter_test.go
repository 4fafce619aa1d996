package filter

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	v1 "github.com/componentschema/componentschema/cli/configuration/v1"
)

type testRecord struct {
	level slog.Level
	realm string
	msg   string
}

func logAll(t *testing.T, fallback slog.Level, filters map[string]slog.Level, with []any, records []testRecord) string {
	t.Helper()
	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: MinLevel(fallback, filters)})
	logger := slog.New(New(handler, LoggingKeyRealm, fallback, filters)).With(with...)
	for _, record := range records {
		if record.realm == "" {
			logger.Log(t.Context(), record.level, record.msg)
			continue
		}
		logger.Log(t.Context(), record.level, record.msg, LoggingKeyRealm, record.realm)
	}
	return buf.String()
}

func TestFilteredHandler(t *testing.T) {
	tests := []struct {
		name     string
		fallback slog.Level
		filters  []string
		records  []testRecord
		expected []string
		dropped  []string
	}{
		{
			name:     "realm rule raises the level",
			fallback: slog.LevelDebug,
			filters:  []string{"shard=WARN"},
			records: []testRecord{
				{level: slog.LevelInfo, realm: "shard", msg: "shard info message"},
				{level: slog.LevelWarn, realm: "shard", msg: "shard warn message"},
				{level: slog.LevelInfo, realm: "locator", msg: "locator info message"},
			},
			expected: []string{"shard warn message", "locator info message"},
			dropped:  []string{"shard info message"},
		},
		{
			name:     "realm rule lowers the level",
			fallback: slog.LevelWarn,
			filters:  []string{"shard=debug"},
			records: []testRecord{
				{level: slog.LevelDebug, realm: "shard", msg: "shard debug message"},
				{level: slog.LevelInfo, realm: "generator", msg: "generator info message"},
				{level: slog.LevelWarn, realm: "generator", msg: "generator warn message"},
				{level: slog.LevelInfo, msg: "plain info message"},
			},
			expected: []string{"shard debug message", "generator warn message"},
			dropped:  []string{"generator info message", "plain info message"},
		},
		{
			name:     "multiple filters",
			fallback: slog.LevelInfo,
			filters:  []string{"shard=WARN", "locator=ERROR"},
			records: []testRecord{
				{level: slog.LevelWarn, realm: "shard", msg: "shard warn message"},
				{level: slog.LevelWarn, realm: "locator", msg: "locator warn message"},
				{level: slog.LevelError, realm: "locator", msg: "locator error message"},
				{level: slog.LevelInfo, realm: "other", msg: "other info message"},
			},
			expected: []string{"shard warn message", "locator error message", "other info message"},
			dropped:  []string{"locator warn message"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := require.New(t)
			filters, err := KeyFiltersFromStrings(tt.filters...)
			r.NoError(err)

			out := logAll(t, tt.fallback, filters, nil, tt.records)
			for _, msg := range tt.expected {
				r.Contains(out, msg)
			}
			for _, msg := range tt.dropped {
				r.NotContains(out, msg)
			}
		})
	}
}

func TestFilteredHandlerWithAttrs(t *testing.T) {
	r := require.New(t)
	filters, err := KeyFiltersFromStrings("shard=WARN")
	r.NoError(err)

	out := logAll(t, slog.LevelDebug, filters, []any{LoggingKeyRealm, "shard", "user", "test"}, []testRecord{
		{level: slog.LevelInfo, msg: "shard info message"},
		{level: slog.LevelWarn, msg: "shard warn message"},
	})
	r.Contains(out, "shard warn message")
	r.NotContains(out, "shard info message")
}

func TestMinLevel(t *testing.T) {
	r := require.New(t)
	r.Equal(slog.LevelWarn, MinLevel(slog.LevelWarn, nil))
	r.Equal(slog.LevelDebug, MinLevel(slog.LevelWarn, map[string]slog.Level{"shard": slog.LevelDebug, "locator": slog.LevelError}))
}

func TestRealmFiltersFromRules(t *testing.T) {
	r := require.New(t)
	filters, err := RealmFiltersFromRules([]v1.LogRule{
		{Realm: "shard", Level: "warn"},
		{Realm: "locator", Level: "error"},
		{Realm: "shard", Level: "debug"},
	})
	r.NoError(err)
	r.Equal(map[string]slog.Level{"shard": slog.LevelDebug, "locator": slog.LevelError}, filters)

	_, err = RealmFiltersFromRules([]v1.LogRule{{Level: "info"}})
	r.Error(err)
	_, err = RealmFiltersFromRules([]v1.LogRule{{Realm: "shard", Level: "loud"}})
	r.Error(err)
}

func TestKeyFiltersFromStrings(t *testing.T) {
	r := require.New(t)
	filters, err := KeyFiltersFromStrings("shard=debug", "locator=ERROR")
	r.NoError(err)
	r.Equal(map[string]slog.Level{"shard": slog.LevelDebug, "locator": slog.LevelError}, filters)

	for _, raw := range []string{"shard", "=debug", "shard=loud"} {
		_, err := KeyFiltersFromStrings(raw)
		r.Error(err, raw)
	}
}
