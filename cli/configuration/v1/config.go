package v1

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/invopop/jsonschema"

	"github.com/componentschema/componentschema/bindings/go/locator"
	"github.com/componentschema/componentschema/bindings/go/runtime"
)

var scheme = runtime.NewScheme()

func init() {
	scheme.MustRegisterWithAlias(&Config{}, ConfigTypeV1)
}

const (
	ConfigType = "generator.config.componentschema.dev"
	Version    = "v1"
)

var ConfigTypeV1 = runtime.NewType(ConfigType, Version)

// Config holds the settings of the command line client loaded from a
// configuration file. Unset values fall back to Default.
type Config struct {
	Type runtime.Type `json:"type"`

	// BaseURI prefixes the $id of every generated document.
	BaseURI string `json:"baseURI,omitempty"`
	// Workers limits the number of components assembled concurrently.
	// Zero uses one worker per CPU.
	Workers int `json:"workers,omitempty" jsonschema:"minimum=0"`
	// Manifests are glob patterns of the manifests to generate from.
	Manifests []string `json:"manifests,omitempty"`
	// Output is the directory generated documents are written to.
	Output string `json:"output,omitempty"`

	Locator LocatorSettings `json:"locator,omitempty"`
	Logging LoggingSettings `json:"logging,omitempty"`
}

// LocatorSettings configure the cache of the instance locator.
type LocatorSettings struct {
	// CacheSize bounds the number of cached shards and compiled definitions.
	// 0 keeps every entry.
	CacheSize *int `json:"cacheSize,omitempty" jsonschema:"minimum=0"`
	// CacheTTL expires cached entries, as a duration such as "10m". "0"
	// keeps entries until they are evicted.
	CacheTTL string `json:"cacheTTL,omitempty"`
}

// LoggingSettings configure log levels per realm.
type LoggingSettings struct {
	Rules []LogRule `json:"rules,omitempty"`
}

// LogRule sets the minimum level of the records of one realm.
type LogRule struct {
	Realm string `json:"realm" jsonschema:"minLength=1"`
	Level string `json:"level" jsonschema:"enum=debug,enum=info,enum=warn,enum=error"`
}

var _ interface {
	runtime.Typed
	runtime.JSONSchemaIntrospectable
} = &Config{}

func (c *Config) GetType() runtime.Type {
	return c.Type
}

var configSchema = sync.OnceValues(func() ([]byte, error) {
	return json.MarshalIndent(JSONSchema(), "", "  ")
})

func (c *Config) JSONSchema() []byte {
	data, err := configSchema()
	if err != nil {
		panic(err)
	}
	return data
}

// JSONSchema reflects the schema of the configuration file.
func JSONSchema() *jsonschema.Schema {
	r := &jsonschema.Reflector{}
	s := r.Reflect(&Config{})
	s.Title = "Generator configuration"
	s.Description = "Settings of the componentschema command line client."
	return s
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Type:      ConfigTypeV1,
		Manifests: []string{"*.manifest.yaml"},
		Output:    "schemas",
		Locator: LocatorSettings{
			CacheSize: intPtr(locator.DefaultCacheSize),
			CacheTTL:  "10m",
		},
	}
}

// Decode reads a configuration document and applies defaults to all values
// it leaves unset.
func Decode(r io.Reader) (*Config, error) {
	obj, err := scheme.Decode(r)
	if err != nil {
		return nil, err
	}
	cfg, ok := obj.(*Config)
	if !ok {
		return nil, fmt.Errorf("unexpected configuration type %s", obj.GetType())
	}
	if _, err := cfg.CacheTTL(); err != nil {
		return nil, err
	}
	return Merge(Default(), cfg), nil
}

// Load reads the configuration file at path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open configuration: %w", err)
	}
	defer f.Close()
	cfg, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration %s: %w", path, err)
	}
	return cfg, nil
}

// Merge returns base with every value set in override applied on top.
// Logging rules are appended so that later rules win for the same realm.
func Merge(base, override *Config) *Config {
	merged := *base
	merged.Manifests = append([]string(nil), base.Manifests...)
	merged.Logging.Rules = append([]LogRule(nil), base.Logging.Rules...)
	if override == nil {
		return &merged
	}
	if override.BaseURI != "" {
		merged.BaseURI = override.BaseURI
	}
	if override.Workers != 0 {
		merged.Workers = override.Workers
	}
	if len(override.Manifests) > 0 {
		merged.Manifests = append([]string(nil), override.Manifests...)
	}
	if override.Output != "" {
		merged.Output = override.Output
	}
	if override.Locator.CacheSize != nil {
		merged.Locator.CacheSize = intPtr(*override.Locator.CacheSize)
	}
	if override.Locator.CacheTTL != "" {
		merged.Locator.CacheTTL = override.Locator.CacheTTL
	}
	merged.Logging.Rules = append(merged.Logging.Rules, override.Logging.Rules...)
	return &merged
}

// CacheTTL parses the configured cache expiry. An empty value disables it.
func (c *Config) CacheTTL() (time.Duration, error) {
	if c.Locator.CacheTTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Locator.CacheTTL)
	if err != nil {
		return 0, fmt.Errorf("invalid locator cache ttl: %w", err)
	}
	return d, nil
}

// LocatorOptions translates the locator settings.
func (c *Config) LocatorOptions() ([]locator.Option, error) {
	ttl, err := c.CacheTTL()
	if err != nil {
		return nil, err
	}
	opts := []locator.Option{locator.WithCacheTTL(ttl)}
	if c.Locator.CacheSize != nil {
		opts = append(opts, locator.WithCacheSize(*c.Locator.CacheSize))
	}
	return opts, nil
}

func intPtr(n int) *int {
	return &n
}
