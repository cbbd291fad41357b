package svcctx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackzampolin/lessonpress/internal/cache"
	"github.com/jackzampolin/lessonpress/internal/config"
	"github.com/jackzampolin/lessonpress/internal/generation"
	"github.com/jackzampolin/lessonpress/internal/home"
	"github.com/jackzampolin/lessonpress/internal/testutil"
)

func TestBuild(t *testing.T) {
	h, err := home.New(t.TempDir())
	require.NoError(t, err)

	cfg := config.DefaultConfig()
	cfg.Store.URL = "http://127.0.0.1:18000"

	s, err := Build(context.Background(), cfg, h, testutil.DiscardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	assert.NotNil(t, s.Workflow)
	assert.Equal(t, "http://127.0.0.1:18000", s.Store.URL())
	assert.Equal(t, generation.ServiceName, s.Generator.Name())
	assert.Equal(t, "memory", s.Cache.Name())
	assert.Equal(t, cfg.RenderAssets(h.Path()), s.Renderer.Assets())
	assert.Same(t, h, s.Home)
}

func TestBuildRequiresInputs(t *testing.T) {
	h, err := home.New(t.TempDir())
	require.NoError(t, err)

	_, err = Build(context.Background(), nil, h, nil)
	assert.Error(t, err)

	_, err = Build(context.Background(), config.DefaultConfig(), nil, nil)
	assert.Error(t, err)
}

func TestNewGenerator(t *testing.T) {
	logger := testutil.DiscardLogger()

	tests := []struct {
		backend string
		apiKey  string
		want    string
		wantErr bool
	}{
		{backend: "", want: generation.ServiceName},
		{backend: generation.ServiceName, want: generation.ServiceName},
		{backend: generation.MockName, want: generation.MockName},
		{backend: generation.OpenAIName, apiKey: "sk-test", want: generation.OpenAIName},
		{backend: generation.OpenAIName, apiKey: "", wantErr: true},
		{backend: "carrier-pigeon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.backend+"/"+tt.want, func(t *testing.T) {
			cfg := config.DefaultConfig().Generation
			cfg.Backend = tt.backend
			cfg.OpenAI.APIKey = tt.apiKey

			gen, err := NewGenerator(cfg, logger)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, gen.Name())
		})
	}
}

func TestNewCache(t *testing.T) {
	ctx := context.Background()
	logger := testutil.DiscardLogger()

	c, err := NewCache(ctx, config.CacheConfig{Backend: "none"}, logger)
	require.NoError(t, err)
	assert.IsType(t, cache.Nop{}, c)

	c, err = NewCache(ctx, config.CacheConfig{Backend: "memory"}, logger)
	require.NoError(t, err)
	assert.IsType(t, &cache.Memory{}, c)

	_, err = NewCache(ctx, config.CacheConfig{Backend: "redis", RedisAddr: "127.0.0.1:1"}, logger)
	assert.Error(t, err)

	_, err = NewCache(ctx, config.CacheConfig{Backend: "disk"}, logger)
	assert.Error(t, err)
}

func TestContextExtractors(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, ServicesFrom(ctx))
	assert.Nil(t, WorkflowFrom(ctx))
	assert.Nil(t, StoreFrom(ctx))
	assert.Nil(t, LoggerFrom(ctx))

	s := &Services{Cache: cache.Nop{}, Generator: generation.NewMockGenerator(), Logger: testutil.DiscardLogger()}
	ctx = WithServices(ctx, s)
	assert.Same(t, s, ServicesFrom(ctx))
	assert.Equal(t, "none", CacheFrom(ctx).Name())
	assert.Equal(t, generation.MockName, GeneratorFrom(ctx).Name())
	assert.NotNil(t, LoggerFrom(ctx))
	assert.NoError(t, s.Close())
}
