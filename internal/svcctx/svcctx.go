// Package svcctx provides service context for dependency injection via context.
// This package is separate from server to avoid import cycles with endpoints.
package svcctx

import (
	"context"
	"log/slog"

	"github.com/jackzampolin/lessonpress/internal/cache"
	"github.com/jackzampolin/lessonpress/internal/generation"
	"github.com/jackzampolin/lessonpress/internal/home"
	"github.com/jackzampolin/lessonpress/internal/render"
	"github.com/jackzampolin/lessonpress/internal/surreal"
	"github.com/jackzampolin/lessonpress/internal/workflow"
)

// Services holds all core services that flow through context.
// A Services value is immutable once built; configuration reloads build a
// new one.
type Services struct {
	Workflow  *workflow.Workflow
	Store     *surreal.Client
	Renderer  *render.Renderer
	Cache     cache.Cache
	Generator generation.Generator
	Logger    *slog.Logger
	Home      *home.Dir
}

// Close releases resources held by the services.
func (s *Services) Close() error {
	if s == nil || s.Cache == nil {
		return nil
	}
	return s.Cache.Close()
}

type servicesKey struct{}

// WithServices returns a new context with services attached.
func WithServices(ctx context.Context, s *Services) context.Context {
	return context.WithValue(ctx, servicesKey{}, s)
}

// ServicesFrom extracts the full Services struct from context.
// Returns nil if not present.
func ServicesFrom(ctx context.Context) *Services {
	s, _ := ctx.Value(servicesKey{}).(*Services)
	return s
}

// WorkflowFrom extracts the workflow from context.
func WorkflowFrom(ctx context.Context) *workflow.Workflow {
	if s := ServicesFrom(ctx); s != nil {
		return s.Workflow
	}
	return nil
}

// StoreFrom extracts the store client from context.
func StoreFrom(ctx context.Context) *surreal.Client {
	if s := ServicesFrom(ctx); s != nil {
		return s.Store
	}
	return nil
}

// RendererFrom extracts the renderer from context.
func RendererFrom(ctx context.Context) *render.Renderer {
	if s := ServicesFrom(ctx); s != nil {
		return s.Renderer
	}
	return nil
}

// CacheFrom extracts the render cache from context.
func CacheFrom(ctx context.Context) cache.Cache {
	if s := ServicesFrom(ctx); s != nil {
		return s.Cache
	}
	return nil
}

// GeneratorFrom extracts the generation backend from context.
func GeneratorFrom(ctx context.Context) generation.Generator {
	if s := ServicesFrom(ctx); s != nil {
		return s.Generator
	}
	return nil
}

// LoggerFrom extracts the logger from context.
func LoggerFrom(ctx context.Context) *slog.Logger {
	if s := ServicesFrom(ctx); s != nil {
		return s.Logger
	}
	return nil
}

// HomeFrom extracts the home directory from context.
func HomeFrom(ctx context.Context) *home.Dir {
	if s := ServicesFrom(ctx); s != nil {
		return s.Home
	}
	return nil
}
