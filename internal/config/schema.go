package config

import (
	"fmt"
	"time"

	"github.com/jackzampolin/lessonpress/internal/generation"
	"github.com/jackzampolin/lessonpress/internal/pipeline"
	"github.com/jackzampolin/lessonpress/internal/render"
	"github.com/jackzampolin/lessonpress/internal/surreal"
)

// Config holds lessonpress configuration.
// Stored at: ~/.lessonpress/config.yaml
type Config struct {
	Store      StoreConfig      `mapstructure:"store" yaml:"store"`
	Generation GenerationConfig `mapstructure:"generation" yaml:"generation"`
	Pipeline   PipelineConfig   `mapstructure:"pipeline" yaml:"pipeline"`
	Render     RenderConfig     `mapstructure:"render" yaml:"render"`
	Cache      CacheConfig      `mapstructure:"cache" yaml:"cache"`
	Server     ServerConfig     `mapstructure:"server" yaml:"server"`
}

// StoreConfig configures the SurrealDB connection and its local container.
type StoreConfig struct {
	URL         string        `mapstructure:"url" yaml:"url"`
	Namespace   string        `mapstructure:"namespace" yaml:"namespace"`
	Database    string        `mapstructure:"database" yaml:"database"`
	Username    string        `mapstructure:"username" yaml:"username"`
	Password    string        `mapstructure:"password" yaml:"password"` // supports ${ENV_VAR}
	LessonTable string        `mapstructure:"lesson_table" yaml:"lesson_table"`
	Timeout     time.Duration `mapstructure:"timeout" yaml:"timeout"`
	// Image and Port are used by `lessonpress surreal start`.
	Image string `mapstructure:"image" yaml:"image"`
	Port  string `mapstructure:"port" yaml:"port"`
}

// GenerationConfig selects and configures the lesson generator.
type GenerationConfig struct {
	Backend   string        `mapstructure:"backend" yaml:"backend"` // "service", "openai" or "mock"
	BaseURL   string        `mapstructure:"base_url" yaml:"base_url"`
	UserAgent string        `mapstructure:"user_agent" yaml:"user_agent"`
	Timeout   time.Duration `mapstructure:"timeout" yaml:"timeout"` // 0 leaves the transport default
	OpenAI    OpenAIConfig  `mapstructure:"openai" yaml:"openai"`
}

type OpenAIConfig struct {
	APIKey     string `mapstructure:"api_key" yaml:"api_key"` // supports ${ENV_VAR}
	Model      string `mapstructure:"model" yaml:"model"`
	MaxRetries int    `mapstructure:"max_retries" yaml:"max_retries"`
}

type PipelineConfig struct {
	Delay  time.Duration `mapstructure:"delay" yaml:"delay"`
	Policy string        `mapstructure:"policy" yaml:"policy"` // "fail_fast" or "continue"
}

// RenderConfig locates render assets. Empty paths fall back to the home directory.
type RenderConfig struct {
	TemplatePath      string `mapstructure:"template_path" yaml:"template_path"`
	FontPath          string `mapstructure:"font_path" yaml:"font_path"`
	WatermarkPath     string `mapstructure:"watermark_path" yaml:"watermark_path"`
	WatermarkOptional bool   `mapstructure:"watermark_optional" yaml:"watermark_optional"`
}

// CacheConfig configures the render cache. Backend is "none", "memory" or "redis".
type CacheConfig struct {
	Backend   string        `mapstructure:"backend" yaml:"backend"`
	RedisAddr string        `mapstructure:"redis_addr" yaml:"redis_addr"`
	Password  string        `mapstructure:"password" yaml:"password"` // supports ${ENV_VAR}
	DB        int           `mapstructure:"db" yaml:"db"`
	TTL       time.Duration `mapstructure:"ttl" yaml:"ttl"`
}

type ServerConfig struct {
	Host         string        `mapstructure:"host" yaml:"host"`
	Port         string        `mapstructure:"port" yaml:"port"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			URL:         surreal.DefaultURL,
			Namespace:   surreal.DefaultNamespace,
			Database:    surreal.DefaultDatabase,
			Username:    surreal.DefaultUsername,
			Password:    surreal.DefaultPassword,
			LessonTable: surreal.DefaultLessonTable,
			Timeout:     30 * time.Second,
			Image:       surreal.DefaultImage,
			Port:        surreal.DefaultPort,
		},
		Generation: GenerationConfig{
			Backend:   generation.ServiceName,
			BaseURL:   "http://localhost:2024",
			UserAgent: "lessonpress",
			OpenAI: OpenAIConfig{
				APIKey:     "${OPENAI_API_KEY}",
				Model:      generation.DefaultOpenAIModel,
				MaxRetries: 2,
			},
		},
		Pipeline: PipelineConfig{
			Delay:  pipeline.DefaultDelay,
			Policy: string(pipeline.PolicyFailFast),
		},
		Cache: CacheConfig{
			Backend: "memory",
			TTL:     time.Hour,
		},
		Server: ServerConfig{
			Host:         "127.0.0.1",
			Port:         "8080",
			WriteTimeout: 5 * time.Minute,
		},
	}
}

// Validate checks values that would otherwise fail later at run time.
func (c *Config) Validate() error {
	switch c.Generation.Backend {
	case generation.ServiceName, generation.OpenAIName, generation.MockName:
	default:
		return fmt.Errorf("generation.backend: unknown backend %q", c.Generation.Backend)
	}
	if _, err := pipeline.ParsePolicy(c.Pipeline.Policy); err != nil {
		return fmt.Errorf("pipeline.policy: %w", err)
	}
	if c.Pipeline.Delay < 0 {
		return fmt.Errorf("pipeline.delay: must not be negative")
	}
	switch c.Cache.Backend {
	case "", "none", "memory":
	case "redis":
		if c.Cache.RedisAddr == "" {
			return fmt.Errorf("cache.redis_addr: required for the redis backend")
		}
	default:
		return fmt.Errorf("cache.backend: unknown backend %q", c.Cache.Backend)
	}
	if err := surreal.ValidateTable(c.Store.LessonTable); err != nil {
		return fmt.Errorf("store.lesson_table: %w", err)
	}
	return nil
}

// StoreClientConfig returns the store client configuration with secrets resolved.
func (c *Config) StoreClientConfig() surreal.Config {
	return surreal.Config{
		URL:         c.Store.URL,
		Namespace:   c.Store.Namespace,
		Database:    c.Store.Database,
		Username:    c.Store.Username,
		Password:    ResolveEnvVars(c.Store.Password),
		LessonTable: c.Store.LessonTable,
		Timeout:     c.Store.Timeout,
	}
}

// RenderAssets returns asset paths, filling unset ones from the home directory.
func (c *Config) RenderAssets(homePath string) render.Assets {
	assets := render.DefaultAssets(homePath)
	if c.Render.TemplatePath != "" {
		assets.TemplatePath = c.Render.TemplatePath
	}
	if c.Render.FontPath != "" {
		assets.FontPath = c.Render.FontPath
	}
	if c.Render.WatermarkPath != "" {
		assets.WatermarkPath = c.Render.WatermarkPath
	}
	return assets
}
