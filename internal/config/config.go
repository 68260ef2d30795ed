// Package config provides configuration loading and validation for the service and CLI.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jonathan/interview-coach/internal/generation"
	"github.com/jonathan/interview-coach/internal/ingestion"
	"github.com/jonathan/interview-coach/internal/llm"
)

// EnvPrefix namespaces environment overrides, e.g. INTERVIEW_LLM_API_KEY
const EnvPrefix = "INTERVIEW"

// Store backends
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
)

// Config is the full service configuration. Every field has a default, so an
// empty file (or no file at all) yields a runnable offline setup.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	LLM     LLMConfig     `mapstructure:"llm"`
	Cascade CascadeConfig `mapstructure:"cascade"`
	Store   StoreConfig   `mapstructure:"store"`
	Redis   RedisConfig   `mapstructure:"redis"`
	AMQP    AMQPConfig    `mapstructure:"amqp"`
	S3      S3Config      `mapstructure:"s3"`
	Log     LogConfig     `mapstructure:"log"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
	// RateLimit is requests per second per client; zero disables limiting
	RateLimit float64 `mapstructure:"rate-limit"`
	RateBurst int     `mapstructure:"rate-burst"`
	// AllowPrivateJobURLs lets job_url point at loopback and private networks
	AllowPrivateJobURLs bool `mapstructure:"allow-private-job-urls"`
}

type LLMConfig struct {
	Provider string `mapstructure:"provider"`
	APIKey   string `mapstructure:"api-key"`
	Project  string `mapstructure:"project"`
	Location string `mapstructure:"location"`
	// Models overrides the model name per tier (lite, standard, advanced)
	Models      map[string]string `mapstructure:"models"`
	Temperature float32           `mapstructure:"temperature"`
	// RequestsPerSecond throttles gateway calls; zero means unlimited
	RequestsPerSecond float64 `mapstructure:"requests-per-second"`
	Burst             int     `mapstructure:"burst"`
}

type CascadeConfig struct {
	Budget             int           `mapstructure:"budget"`
	StructuredAttempts int           `mapstructure:"structured-attempts"`
	Backoff            time.Duration `mapstructure:"backoff"`
	CallTimeout        time.Duration `mapstructure:"call-timeout"`
	MinFreeFormItems   int           `mapstructure:"min-freeform-items"`
	ItemConcurrency    int           `mapstructure:"item-concurrency"`
}

type StoreConfig struct {
	Backend       string `mapstructure:"backend"`
	DatabaseURL   string `mapstructure:"database-url"`
	MongoURI      string `mapstructure:"mongo-uri"`
	MongoDatabase string `mapstructure:"mongo-database"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type AMQPConfig struct {
	URL      string `mapstructure:"url"`
	Exchange string `mapstructure:"exchange"`
}

type S3Config struct {
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access-key"`
	SecretKey string `mapstructure:"secret-key"`
	PathStyle bool   `mapstructure:"path-style"`
}

type LogConfig struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

// New returns a viper instance with defaults and INTERVIEW_* environment
// bindings for every key
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

func setDefaults(v *viper.Viper) {
	opts := generation.DefaultOptions()
	models := llm.DefaultGeminiConfig().Models

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate-limit", 5.0)
	v.SetDefault("server.rate-burst", 10)
	v.SetDefault("server.allow-private-job-urls", false)

	v.SetDefault("llm.provider", string(llm.ProviderGemini))
	v.SetDefault("llm.api-key", "")
	v.SetDefault("llm.project", "")
	v.SetDefault("llm.location", "us-central1")
	v.SetDefault("llm.models.lite", models[llm.TierLite])
	v.SetDefault("llm.models.standard", models[llm.TierStandard])
	v.SetDefault("llm.models.advanced", models[llm.TierAdvanced])
	v.SetDefault("llm.temperature", llm.DefaultTemperature)
	v.SetDefault("llm.requests-per-second", 2.0)
	v.SetDefault("llm.burst", 4)

	v.SetDefault("cascade.budget", opts.Budget)
	v.SetDefault("cascade.structured-attempts", opts.StructuredAttempts)
	v.SetDefault("cascade.backoff", opts.Backoff)
	v.SetDefault("cascade.call-timeout", opts.CallTimeout)
	v.SetDefault("cascade.min-freeform-items", opts.MinFreeFormItems)
	v.SetDefault("cascade.item-concurrency", opts.ItemConcurrency)

	v.SetDefault("store.backend", StoreMemory)
	v.SetDefault("store.database-url", "")
	v.SetDefault("store.mongo-uri", "")
	v.SetDefault("store.mongo-database", "interview_coach")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 30*time.Minute)

	v.SetDefault("amqp.url", "")
	v.SetDefault("amqp.exchange", "interview_updates")

	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.region", "")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.access-key", "")
	v.SetDefault("s3.secret-key", "")
	v.SetDefault("s3.path-style", false)

	v.SetDefault("log.json", false)
	v.SetDefault("log.debug", false)
}

// ReadFile merges a YAML or JSON config file into v. An empty path is a no-op.
func ReadFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return nil
}

// Unmarshal decodes v into a Config and validates it
func Unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads defaults, the optional file at path and the environment
func Load(path string) (*Config, error) {
	v := New()
	if err := ReadFile(v, path); err != nil {
		return nil, err
	}
	return Unmarshal(v)
}

// Validate checks that the configuration has valid values
func (c *Config) Validate() error {
	switch llm.Provider(c.LLM.Provider) {
	case llm.ProviderGemini, llm.ProviderGenAI, llm.ProviderOffline:
	case llm.ProviderVertex:
		if c.LLM.Project == "" {
			return fmt.Errorf("config error: 'llm.project' is required for the vertex provider")
		}
	default:
		return fmt.Errorf("config error: unknown llm provider %q", c.LLM.Provider)
	}

	switch c.Store.Backend {
	case StoreMemory:
	case StorePostgres:
		if c.Store.DatabaseURL == "" {
			return fmt.Errorf("config error: 'store.database-url' is required for the postgres backend")
		}
	case StoreMongo:
		if c.Store.MongoURI == "" {
			return fmt.Errorf("config error: 'store.mongo-uri' is required for the mongo backend")
		}
	default:
		return fmt.Errorf("config error: unknown store backend %q", c.Store.Backend)
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config error: 'server.port' must be between 0 and 65535")
	}
	if c.Server.RateLimit < 0 || c.LLM.RequestsPerSecond < 0 {
		return fmt.Errorf("config error: rate limits must be non-negative")
	}
	if c.Cascade.Budget > 3 {
		return fmt.Errorf("config error: 'cascade.budget' must be at most 3")
	}
	if c.Cascade.Backoff < 0 || c.Cascade.CallTimeout < 0 {
		return fmt.Errorf("config error: cascade durations must be non-negative")
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("config error: 'llm.temperature' must be between 0 and 2")
	}
	return nil
}

// Offline reports whether no model can be reached, so every generation is static
func (c *Config) Offline() bool {
	switch llm.Provider(c.LLM.Provider) {
	case llm.ProviderOffline:
		return true
	case llm.ProviderVertex:
		return false
	default:
		return strings.TrimSpace(c.LLM.APIKey) == ""
	}
}

// ModelConfig converts the llm section for llm.NewClient. Without credentials
// the provider becomes offline.
func (c *Config) ModelConfig() *llm.Config {
	base := llm.DefaultGeminiConfig()
	mc := &llm.Config{
		Provider:    llm.Provider(c.LLM.Provider),
		Models:      make(map[llm.ModelTier]string, len(base.Models)),
		Temperature: c.LLM.Temperature,
		Project:     c.LLM.Project,
		Location:    c.LLM.Location,
	}
	for tier, model := range base.Models {
		mc.Models[tier] = model
	}
	for tier, model := range c.LLM.Models {
		if model != "" {
			mc.Models[llm.ModelTier(strings.ToLower(tier))] = model
		}
	}
	if c.Offline() {
		mc.Provider = llm.ProviderOffline
	}
	return mc
}

// CascadeOptions converts the cascade section
func (c *Config) CascadeOptions() generation.Options {
	return generation.Options{
		Budget:             c.Cascade.Budget,
		StructuredAttempts: c.Cascade.StructuredAttempts,
		Backoff:            c.Cascade.Backoff,
		CallTimeout:        c.Cascade.CallTimeout,
		MinFreeFormItems:   c.Cascade.MinFreeFormItems,
		ItemConcurrency:    c.Cascade.ItemConcurrency,
	}
}

// ObjectConfig converts the s3 section; ok is false when no bucket is set
func (c *Config) ObjectConfig() (ingestion.ObjectConfig, bool) {
	return ingestion.ObjectConfig{
		Bucket:    c.S3.Bucket,
		Region:    c.S3.Region,
		Endpoint:  c.S3.Endpoint,
		AccessKey: c.S3.AccessKey,
		SecretKey: c.S3.SecretKey,
		PathStyle: c.S3.PathStyle,
	}, c.S3.Bucket != ""
}
