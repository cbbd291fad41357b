package svcctx

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackzampolin/lessonpress/internal/cache"
	"github.com/jackzampolin/lessonpress/internal/config"
	"github.com/jackzampolin/lessonpress/internal/generation"
	"github.com/jackzampolin/lessonpress/internal/home"
	"github.com/jackzampolin/lessonpress/internal/pipeline"
	"github.com/jackzampolin/lessonpress/internal/render"
	"github.com/jackzampolin/lessonpress/internal/surreal"
	"github.com/jackzampolin/lessonpress/internal/workflow"
)

// Build wires a Services bundle from configuration.
func Build(ctx context.Context, cfg *config.Config, h *home.Dir, logger *slog.Logger) (*Services, error) {
	if cfg == nil {
		return nil, fmt.Errorf("svcctx: config is required")
	}
	if h == nil {
		return nil, fmt.Errorf("svcctx: home directory is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	storeCfg := cfg.StoreClientConfig()
	storeCfg.Logger = logger
	store := surreal.NewClient(storeCfg)

	gen, err := NewGenerator(cfg.Generation, logger)
	if err != nil {
		return nil, err
	}

	policy, err := pipeline.ParsePolicy(cfg.Pipeline.Policy)
	if err != nil {
		return nil, err
	}
	p, err := pipeline.New(pipeline.Config{
		Store:     store,
		Generator: gen,
		Delay:     cfg.Pipeline.Delay,
		Policy:    policy,
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}

	renderer := render.New(render.Config{
		Assets:            cfg.RenderAssets(h.Path()),
		WatermarkOptional: cfg.Render.WatermarkOptional,
		Logger:            logger,
	})

	c, err := NewCache(ctx, cfg.Cache, logger)
	if err != nil {
		return nil, err
	}

	wf, err := workflow.New(workflow.Config{
		Store:    store,
		Pipeline: p,
		Renderer: renderer,
		Cache:    c,
		Logger:   logger,
	})
	if err != nil {
		_ = c.Close()
		return nil, err
	}

	return &Services{
		Workflow:  wf,
		Store:     store,
		Renderer:  renderer,
		Cache:     c,
		Generator: gen,
		Logger:    logger,
		Home:      h,
	}, nil
}

// NewGenerator returns the generation backend named by cfg.Backend.
func NewGenerator(cfg config.GenerationConfig, logger *slog.Logger) (generation.Generator, error) {
	switch cfg.Backend {
	case generation.ServiceName, "":
		return generation.NewServiceClient(generation.ServiceConfig{
			BaseURL:   cfg.BaseURL,
			UserAgent: cfg.UserAgent,
			Timeout:   cfg.Timeout,
			Logger:    logger,
		}), nil
	case generation.OpenAIName:
		apiKey := config.ResolveEnvVars(cfg.OpenAI.APIKey)
		if apiKey == "" {
			return nil, fmt.Errorf("generation.openai.api_key: required for the openai backend")
		}
		return generation.NewOpenAIGenerator(generation.OpenAIConfig{
			APIKey:     apiKey,
			Model:      cfg.OpenAI.Model,
			MaxRetries: cfg.OpenAI.MaxRetries,
			Timeout:    cfg.Timeout,
			Logger:     logger,
		}), nil
	case generation.MockName:
		return generation.NewMockGenerator(), nil
	default:
		return nil, fmt.Errorf("unknown generation backend %q", cfg.Backend)
	}
}

// NewCache returns the render cache named by cfg.Backend.
func NewCache(ctx context.Context, cfg config.CacheConfig, logger *slog.Logger) (cache.Cache, error) {
	switch cfg.Backend {
	case "", "none":
		return cache.Nop{}, nil
	case "memory":
		return cache.NewMemory(cfg.TTL), nil
	case "redis":
		r, err := cache.NewRedis(ctx, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: config.ResolveEnvVars(cfg.Password),
			DB:       cfg.DB,
			TTL:      cfg.TTL,
			Logger:   logger,
		})
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}
