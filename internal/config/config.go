// Package config loads the diagramiz TOML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/abhisek/diagramiz/internal/aigraph"
	"github.com/abhisek/diagramiz/internal/canvas"
	"github.com/abhisek/diagramiz/internal/editor"
	"github.com/abhisek/diagramiz/internal/export"
	"github.com/abhisek/diagramiz/internal/history"
	"github.com/abhisek/diagramiz/internal/llm"
)

// Config holds diagramiz configuration.
type Config struct {
	Canvas  CanvasConfig  `toml:"canvas"`
	History HistoryConfig `toml:"history"`
	Export  ExportConfig  `toml:"export"`
	LLM     LLMConfig     `toml:"llm"`
}

// CanvasConfig controls the drawing surface.
type CanvasConfig struct {
	Width      int     `toml:"width" validate:"gt=0,lte=8192"`
	Height     int     `toml:"height" validate:"gt=0,lte=8192"`
	Padding    float64 `toml:"padding" validate:"gte=0"`
	Background string  `toml:"background" validate:"required"`
	Title      string  `toml:"title"`
}

// HistoryConfig controls undo depth.
type HistoryConfig struct {
	Limit int `toml:"limit" validate:"gt=0"`
}

// ExportConfig controls PNG export.
type ExportConfig struct {
	Dir      string `toml:"dir"`
	MaxWidth int    `toml:"max_width" validate:"gte=0"`
}

// LLMConfig selects the diagram generation model.
type LLMConfig struct {
	Provider    string  `toml:"provider" validate:"omitempty,oneof=gemini anthropic openai openrouter mock"`
	Model       string  `toml:"model"`
	MaxTokens   int     `toml:"max_tokens" validate:"gt=0"`
	Temperature float64 `toml:"temperature" validate:"gte=0,lte=1"`
	Timeout     string  `toml:"timeout"`
	Attempts    int     `toml:"attempts" validate:"gte=1,lte=5"`
}

// Default returns the default configuration.
func Default() *Config {
	opts := canvas.DefaultOptions()
	return &Config{
		Canvas: CanvasConfig{
			Width:      opts.Width,
			Height:     opts.Height,
			Padding:    opts.Padding,
			Background: opts.Background,
			Title:      editor.DefaultTitle,
		},
		History: HistoryConfig{Limit: history.DefaultLimit},
		Export:  ExportConfig{Dir: "."},
		LLM: LLMConfig{
			Provider:    llm.ProviderGemini,
			MaxTokens:   4096,
			Temperature: 0.2,
			Attempts:    1,
		},
	}
}

// Dir returns the diagramiz config directory.
func Dir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "diagramiz")
}

// DefaultPath returns the config file path, honouring DIAGRAMIZ_CONFIG.
func DefaultPath() string {
	if p := os.Getenv("DIAGRAMIZ_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(Dir(), "config.toml")
}

// Load reads path over the defaults, then applies the environment. A
// missing file is not an error. Unknown keys are.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}
	cfg := Default()

	md, err := toml.DecodeFile(path, cfg)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("parse %s: %w", path, err)
	default:
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path, creating the directory.
func Save(path string, cfg *Config) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// EnsureExists writes the defaults to path unless a file is already there.
func EnsureExists(path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	return Save(path, Default())
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("DIAGRAMIZ_EXPORT_DIR"); v != "" {
		c.Export.Dir = v
	}
	if v := os.Getenv("DIAGRAMIZ_TITLE"); v != "" {
		c.Canvas.Title = v
	}
	if v := os.Getenv("DIAGRAMIZ_HISTORY_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("DIAGRAMIZ_HISTORY_LIMIT: %w", err)
		}
		c.History.Limit = n
	}
	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks value ranges and the timeout syntax.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := c.LLM.timeout(); err != nil {
		return fmt.Errorf("invalid config: llm.timeout: %w", err)
	}
	return nil
}

func (l LLMConfig) timeout() (time.Duration, error) {
	if l.Timeout == "" {
		return 0, nil
	}
	return time.ParseDuration(l.Timeout)
}

// CanvasOptions converts the [canvas] section.
func (c *Config) CanvasOptions() canvas.Options {
	return canvas.Options{
		Width:      c.Canvas.Width,
		Height:     c.Canvas.Height,
		Padding:    c.Canvas.Padding,
		Background: c.Canvas.Background,
	}
}

// ExportOptions converts the [export] section.
func (c *Config) ExportOptions() export.Options {
	return export.Options{Dir: c.Export.Dir, MaxWidth: c.Export.MaxWidth}
}

// GeneratorConfig converts the request settings of the [llm] section.
func (c *Config) GeneratorConfig() aigraph.Config {
	return aigraph.Config{MaxTokens: c.LLM.MaxTokens, Temperature: c.LLM.Temperature}
}

// ProviderConfig builds the LLM transport config. The file picks the
// provider and model; DIAGRAMIZ_* variables override it; a standard
// vendor key such as GEMINI_API_KEY is used when nothing else supplies one.
func (c *Config) ProviderConfig() llm.Config {
	cfg := llm.DefaultConfig()
	if c.LLM.Provider != "" {
		cfg.Provider = c.LLM.Provider
	}
	if c.LLM.Model != "" {
		switch cfg.Provider {
		case llm.ProviderGemini:
			cfg.Gemini.Model = c.LLM.Model
		case llm.ProviderAnthropic:
			cfg.Anthropic.Model = c.LLM.Model
		case llm.ProviderOpenAI:
			cfg.OpenAI.Model = c.LLM.Model
		case llm.ProviderOpenRouter:
			cfg.OpenRouter.Model = c.LLM.Model
		}
	}
	if d, err := c.LLM.timeout(); err == nil {
		cfg.Timeout = d
	}
	if c.LLM.Attempts > 0 {
		cfg.Retry.MaxAttempts = c.LLM.Attempts
	}

	cfg = llm.ApplyEnv(cfg)
	if cfg.Provider != llm.ProviderMock && cfg.APIKey() == "" {
		if found, ok := llm.DiscoverConfig(cfg); ok {
			cfg = found
		}
	}
	return cfg
}
