package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderGemini     = "gemini"
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Config selects and configures the model transport.
type Config struct {
	Provider string

	Gemini     GeminiConfig
	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds one Generate call including retries. Zero disables it.
	Timeout time.Duration
}

// GeminiConfig holds Gemini settings.
type GeminiConfig struct {
	APIKey string
	Model  string
}

// AnthropicConfig holds Anthropic settings.
type AnthropicConfig struct {
	APIKey string
	Model  string
}

// OpenAIConfig holds OpenAI settings. BaseURL targets compatible APIs.
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// OpenRouterConfig holds OpenRouter settings.
type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// RetryConfig configures backoff for transient failures. MaxAttempts of
// one or less disables retries.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig targets Gemini Flash.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderGemini,
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.0-flash-001"},
		Retry: RetryConfig{
			MaxAttempts: 1,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
	}
}

// envBinding maps one DIAGRAMIZ_* variable onto a Config field.
type envBinding struct {
	name string
	set  func(*Config, string)
}

var envBindings = []envBinding{
	{"DIAGRAMIZ_LLM_PROVIDER", func(c *Config, v string) { c.Provider = v }},
	{"DIAGRAMIZ_GEMINI_API_KEY", func(c *Config, v string) { c.Gemini.APIKey = v }},
	{"DIAGRAMIZ_GEMINI_MODEL", func(c *Config, v string) { c.Gemini.Model = v }},
	{"DIAGRAMIZ_ANTHROPIC_API_KEY", func(c *Config, v string) { c.Anthropic.APIKey = v }},
	{"DIAGRAMIZ_ANTHROPIC_MODEL", func(c *Config, v string) { c.Anthropic.Model = v }},
	{"DIAGRAMIZ_OPENAI_API_KEY", func(c *Config, v string) { c.OpenAI.APIKey = v }},
	{"DIAGRAMIZ_OPENAI_MODEL", func(c *Config, v string) { c.OpenAI.Model = v }},
	{"DIAGRAMIZ_OPENAI_BASE_URL", func(c *Config, v string) { c.OpenAI.BaseURL = v }},
	{"DIAGRAMIZ_OPENROUTER_API_KEY", func(c *Config, v string) { c.OpenRouter.APIKey = v }},
	{"DIAGRAMIZ_OPENROUTER_MODEL", func(c *Config, v string) { c.OpenRouter.Model = v }},
}

// ApplyEnv overlays DIAGRAMIZ_* environment variables onto cfg.
func ApplyEnv(cfg Config) Config {
	for _, b := range envBindings {
		if v := os.Getenv(b.name); v != "" {
			b.set(&cfg, v)
		}
	}
	return cfg
}

// ConfigFromEnv is DefaultConfig with the environment applied.
func ConfigFromEnv() Config {
	return ApplyEnv(DefaultConfig())
}

// standardKeys are the vendor key variables probed by DiscoverConfig, in
// priority order.
var standardKeys = []struct {
	env      string
	provider string
	set      func(*Config, string)
}{
	{"GEMINI_API_KEY", ProviderGemini, func(c *Config, k string) { c.Gemini.APIKey = k }},
	{"GOOGLE_API_KEY", ProviderGemini, func(c *Config, k string) { c.Gemini.APIKey = k }},
	{"ANTHROPIC_API_KEY", ProviderAnthropic, func(c *Config, k string) { c.Anthropic.APIKey = k }},
	{"OPENAI_API_KEY", ProviderOpenAI, func(c *Config, k string) { c.OpenAI.APIKey = k }},
	{"OPENROUTER_API_KEY", ProviderOpenRouter, func(c *Config, k string) { c.OpenRouter.APIKey = k }},
}

// DiscoverConfig fills in the first vendor API key found in the standard
// environment variables. It returns false when none is set.
func DiscoverConfig(base Config) (Config, bool) {
	for _, k := range standardKeys {
		if v := os.Getenv(k.env); v != "" {
			base.Provider = k.provider
			k.set(&base, v)
			return base, true
		}
	}
	return base, false
}

// APIKey returns the key configured for the selected provider.
func (c Config) APIKey() string {
	switch c.Provider {
	case ProviderGemini:
		return c.Gemini.APIKey
	case ProviderAnthropic:
		return c.Anthropic.APIKey
	case ProviderOpenAI:
		return c.OpenAI.APIKey
	case ProviderOpenRouter:
		return c.OpenRouter.APIKey
	}
	return ""
}

// Validate checks that the selected provider has its API key.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderMock:
		return nil
	case ProviderGemini, ProviderAnthropic, ProviderOpenAI, ProviderOpenRouter:
		if c.APIKey() == "" {
			return fmt.Errorf("an API key is required for the %s provider (set DIAGRAMIZ_%s_API_KEY)",
				c.Provider, strings.ToUpper(c.Provider))
		}
		return nil
	}
	return fmt.Errorf("unknown LLM provider: %q", c.Provider)
}
