package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileName is the per-project configuration file searched upward from the working directory.
const FileName = ".cmdgen.yaml"

// Provider kinds understood by the infrastructure layer.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
	ProviderGroq      = "groq"
)

// Config holds application configuration.
type Config struct {
	Remote  RemoteConfig  `yaml:"remote"`
	Cache   CacheConfig   `yaml:"cache"`
	Store   StoreConfig   `yaml:"store"`
	Scan    ScanConfig    `yaml:"scan"`
	Logging LoggingConfig `yaml:"logging"`
}

// RemoteConfig configures the remote synthesis fallback.
type RemoteConfig struct {
	// Policy is one of never, auto, always.
	Policy string `yaml:"policy"`
	// Timeout bounds each provider attempt, e.g. "30s".
	Timeout string `yaml:"timeout"`
	// Providers are tried in order. Entries without an API key are skipped.
	Providers []ProviderConfig `yaml:"providers"`
}

// ProviderConfig configures one provider in the fallback chain.
type ProviderConfig struct {
	Kind      string `yaml:"kind"` // anthropic, openai, gemini, groq
	APIKey    string `yaml:"api_key"`
	Model     string `yaml:"model"`
	BaseURL   string `yaml:"base_url"`
	MaxTokens int    `yaml:"max_tokens"`
}

// CacheConfig configures the in-memory artifact cache.
type CacheConfig struct {
	Size int `yaml:"size"` // 0 disables the cache
}

// StoreConfig configures the optional Qdrant artifact memory.
type StoreConfig struct {
	QdrantAddr     string  `yaml:"qdrant_addr"`
	Collection     string  `yaml:"collection"`
	EmbeddingModel string  `yaml:"embedding_model"`
	Threshold      float32 `yaml:"threshold"`
}

// ScanConfig configures directory scans.
type ScanConfig struct {
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Remote: RemoteConfig{
			Policy:  "auto",
			Timeout: "30s",
			Providers: []ProviderConfig{
				{Kind: ProviderAnthropic, Model: "claude-3-7-sonnet-latest", MaxTokens: 512},
				{Kind: ProviderOpenAI, Model: "gpt-4o-mini", MaxTokens: 512},
				{Kind: ProviderGemini, Model: "gemini-2.5-flash"},
				{Kind: ProviderGroq, Model: "llama-3.1-8b-instant", BaseURL: "https://api.groq.com/openai/v1", MaxTokens: 512},
			},
		},
		Cache: CacheConfig{Size: 256},
		Store: StoreConfig{
			Collection:     "cmdgen_artifacts",
			EmbeddingModel: "text-embedding-3-small",
			Threshold:      0.97,
		},
		Scan: ScanConfig{
			Include: []string{"**/*.{js,mjs,cjs,ts,py,java}"},
			Exclude: []string{"**/node_modules/**", "**/.git/**", "**/vendor/**"},
		},
		Logging: LoggingConfig{Level: "warn"},
	}
}

// LoadDotEnv loads environment files, ignoring the ones that do not exist.
// Variables already present in the environment win.
func LoadDotEnv(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Load reads the configuration at path over the defaults and applies
// environment overrides. An empty path searches for FileName upward from
// startDir, then falls back to the user config directory.
func Load(path, startDir string) (*Config, error) {
	if path == "" {
		path = FindRepoConfig(startDir)
	}
	if path == "" {
		path = userConfigPath()
	}

	overlay, err := loadFileRaw(path)
	if err != nil {
		return nil, err
	}

	cfg := Merge(DefaultConfig(), overlay)
	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FindRepoConfig walks upward from startDir to find the nearest FileName.
// Returns the path if found, or empty string if not found.
func FindRepoConfig(startDir string) string {
	if startDir == "" {
		return ""
	}
	dir := startDir
	for {
		p := filepath.Join(dir, FileName)
		if _, err := os.Stat(p); err == nil {
			return p
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func userConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "cmdgen", "config.yaml")
}

// loadFileRaw returns a zero config when the file does not exist.
func loadFileRaw(path string) (*Config, error) {
	if path == "" {
		return &Config{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Merge combines base and overlay configs. Non-zero overlay scalars win;
// a non-empty overlay provider list replaces the base list, filling missing
// fields from the base entry of the same kind.
func Merge(base, overlay *Config) *Config {
	result := *base

	result.Remote.Policy = pick(overlay.Remote.Policy, base.Remote.Policy)
	result.Remote.Timeout = pick(overlay.Remote.Timeout, base.Remote.Timeout)
	if len(overlay.Remote.Providers) > 0 {
		providers := make([]ProviderConfig, 0, len(overlay.Remote.Providers))
		for _, p := range overlay.Remote.Providers {
			if b, ok := findProvider(base.Remote.Providers, p.Kind); ok {
				p.Model = pick(p.Model, b.Model)
				p.BaseURL = pick(p.BaseURL, b.BaseURL)
				p.APIKey = pick(p.APIKey, b.APIKey)
				if p.MaxTokens == 0 {
					p.MaxTokens = b.MaxTokens
				}
			}
			providers = append(providers, p)
		}
		result.Remote.Providers = providers
	} else {
		result.Remote.Providers = append([]ProviderConfig(nil), base.Remote.Providers...)
	}

	if overlay.Cache.Size != 0 {
		result.Cache.Size = overlay.Cache.Size
	}

	result.Store.QdrantAddr = pick(overlay.Store.QdrantAddr, base.Store.QdrantAddr)
	result.Store.Collection = pick(overlay.Store.Collection, base.Store.Collection)
	result.Store.EmbeddingModel = pick(overlay.Store.EmbeddingModel, base.Store.EmbeddingModel)
	if overlay.Store.Threshold != 0 {
		result.Store.Threshold = overlay.Store.Threshold
	}

	if len(overlay.Scan.Include) > 0 {
		result.Scan.Include = overlay.Scan.Include
	}
	result.Scan.Exclude = mergeStringSlice(base.Scan.Exclude, overlay.Scan.Exclude)

	result.Logging.Level = pick(overlay.Logging.Level, base.Logging.Level)
	result.Logging.Development = base.Logging.Development || overlay.Logging.Development

	return &result
}

// applyEnvOverrides fills API keys and store settings from the environment.
func (c *Config) applyEnvOverrides() {
	keys := map[string]string{
		ProviderAnthropic: os.Getenv("ANTHROPIC_API_KEY"),
		ProviderOpenAI:    os.Getenv("OPENAI_API_KEY"),
		ProviderGemini:    firstNonEmpty(os.Getenv("GEMINI_API_KEY"), os.Getenv("GOOGLE_API_KEY")),
		ProviderGroq:      os.Getenv("GROQ_API_KEY"),
	}
	for i := range c.Remote.Providers {
		p := &c.Remote.Providers[i]
		if p.APIKey == "" {
			p.APIKey = keys[p.Kind]
		}
	}

	if v := os.Getenv("QDRANT_ADDR"); v != "" {
		c.Store.QdrantAddr = v
	}
	if v := os.Getenv("QDRANT_COLLECTION_NAME"); v != "" {
		c.Store.Collection = v
	}
	if v := os.Getenv("CMDGEN_REMOTE"); v != "" {
		c.Remote.Policy = v
	}
}

// Validate checks values that cannot be corrected silently.
func (c *Config) Validate() error {
	switch c.Remote.Policy {
	case "never", "auto", "always":
	default:
		return fmt.Errorf("remote.policy must be never, auto or always, got %q", c.Remote.Policy)
	}
	if _, err := c.RemoteTimeout(); err != nil {
		return err
	}
	for _, p := range c.Remote.Providers {
		switch p.Kind {
		case ProviderAnthropic, ProviderOpenAI, ProviderGemini, ProviderGroq:
		default:
			return fmt.Errorf("unknown provider kind %q", p.Kind)
		}
	}
	return nil
}

// RemoteTimeout parses Remote.Timeout.
func (c *Config) RemoteTimeout() (time.Duration, error) {
	if c.Remote.Timeout == "" {
		return 30 * time.Second, nil
	}
	d, err := time.ParseDuration(c.Remote.Timeout)
	if err != nil {
		return 0, fmt.Errorf("remote.timeout: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("remote.timeout must be positive, got %s", d)
	}
	return d, nil
}

// ConfiguredProviders returns the providers that carry an API key, in order.
func (c *Config) ConfiguredProviders() []ProviderConfig {
	var out []ProviderConfig
	for _, p := range c.Remote.Providers {
		if strings.TrimSpace(p.APIKey) != "" {
			out = append(out, p)
		}
	}
	return out
}

// OpenAIKey returns the OpenAI key used for embeddings, if any.
func (c *Config) OpenAIKey() string {
	if p, ok := findProvider(c.Remote.Providers, ProviderOpenAI); ok {
		return p.APIKey
	}
	return os.Getenv("OPENAI_API_KEY")
}

func findProvider(providers []ProviderConfig, kind string) (ProviderConfig, bool) {
	for _, p := range providers {
		if p.Kind == kind {
			return p, true
		}
	}
	return ProviderConfig{}, false
}

func pick(overlay, base string) string {
	if overlay != "" {
		return overlay
	}
	return base
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))
	for _, s := range append(append([]string{}, a...), b...) {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}
