package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jackzampolin/lessonpress/internal/api"
	"github.com/jackzampolin/lessonpress/internal/config"
	"github.com/jackzampolin/lessonpress/internal/home"
	"github.com/jackzampolin/lessonpress/internal/server/endpoints"
	"github.com/jackzampolin/lessonpress/internal/surreal"
	"github.com/jackzampolin/lessonpress/internal/svcctx"
)

// Server is the lessonpress HTTP server.
// When it manages the SurrealDB container, the container is started with the
// server and stopped on shutdown.
type Server struct {
	httpServer *http.Server
	surreal    *surreal.DockerManager
	configMgr  *config.Manager
	home       *home.Dir
	logger     *slog.Logger

	// services is swapped whole when configuration reloads
	services atomic.Pointer[svcctx.Services]

	endpointRegistry *api.Registry

	reloadOnce sync.Once
	mu         sync.RWMutex
	running    bool
	addr       string
}

// Config holds server configuration.
type Config struct {
	// Host is the address to bind to (default: 127.0.0.1)
	Host string
	// Port is the port to listen on (default: 8080, "0" picks a free port)
	Port string
	// WriteTimeout bounds a response, including a full generation run.
	WriteTimeout time.Duration
	// ConfigManager provides configuration with hot-reload support
	ConfigManager *config.Manager
	// Home is the lessonpress home directory
	Home *home.Dir
	// ManageStore starts the SurrealDB container with the server.
	ManageStore bool
	// StoreDocker holds container settings used when ManageStore is set
	StoreDocker surreal.DockerConfig
	// Logger is the structured logger to use
	Logger *slog.Logger
}

// New creates a new Server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.ConfigManager == nil {
		return nil, errors.New("server: config manager is required")
	}
	if cfg.Home == nil {
		return nil, errors.New("server: home directory is required")
	}
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 5 * time.Minute
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	s := &Server{
		configMgr: cfg.ConfigManager,
		home:      cfg.Home,
		logger:    cfg.Logger,
	}

	if cfg.ManageStore {
		if cfg.StoreDocker.DataPath == "" {
			cfg.StoreDocker.DataPath = cfg.Home.DataPath()
		}
		mgr, err := surreal.NewDockerManager(cfg.StoreDocker)
		if err != nil {
			return nil, fmt.Errorf("failed to create surreal manager: %w", err)
		}
		s.surreal = mgr
	}

	s.endpointRegistry = api.NewRegistry()
	s.endpointRegistry.Register(endpoints.All(endpoints.Config{
		Surreal:     s.surreal,
		SwaggerHost: net.JoinHostPort(cfg.Host, cfg.Port),
	})...)

	s.httpServer = &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:      s.routes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// Init builds the service bundle from the current configuration and
// subscribes to configuration changes. Start calls it; tests that drive
// Handler directly call it themselves.
func (s *Server) Init(ctx context.Context) error {
	services, err := svcctx.Build(ctx, s.configMgr.Get(), s.home, s.logger)
	if err != nil {
		return fmt.Errorf("failed to build services: %w", err)
	}
	if old := s.services.Swap(services); old != nil {
		_ = old.Close()
	}

	s.reloadOnce.Do(func() {
		s.configMgr.OnChange(func(c *config.Config) {
			s.reload(context.Background(), c)
		})
	})
	return nil
}

// reload swaps in services built from cfg. On failure the running services
// stay in place.
func (s *Server) reload(ctx context.Context, cfg *config.Config) {
	services, err := svcctx.Build(ctx, cfg, s.home, s.logger)
	if err != nil {
		s.logger.Error("config reload failed, keeping current services", "error", err)
		return
	}
	if old := s.services.Swap(services); old != nil {
		_ = old.Close()
	}
	s.logger.Info("services reloaded from config",
		"generator", services.Generator.Name(),
		"cache", services.Cache.Name())
}

// Services returns the current service bundle, or nil before Init.
func (s *Server) Services() *svcctx.Services {
	return s.services.Load()
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Endpoints returns the endpoint registry.
func (s *Server) Endpoints() *api.Registry {
	return s.endpointRegistry
}

// Start starts the server and, when managed, the SurrealDB container.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	s.running = true
	s.mu.Unlock()

	if s.surreal != nil {
		s.logger.Info("starting SurrealDB", "container", s.surreal.ContainerName())
		if err := s.surreal.Start(ctx); err != nil {
			s.setNotRunning()
			return fmt.Errorf("failed to start SurrealDB: %w", err)
		}
		if err := s.surreal.WaitReady(ctx, 60*time.Second); err != nil {
			_ = s.shutdown()
			return fmt.Errorf("SurrealDB not ready: %w", err)
		}
		s.logger.Info("SurrealDB is ready", "url", s.surreal.URL())
	}

	if err := s.Init(ctx); err != nil {
		_ = s.shutdown()
		return err
	}
	if err := s.services.Load().Store.HealthCheck(ctx); err != nil {
		s.logger.Warn("document store is not reachable yet", "error", err)
	}

	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		_ = s.shutdown()
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	s.mu.Lock()
	s.addr = ln.Addr().String()
	s.mu.Unlock()

	if err := WritePidFile(s.home.PIDPath()); err != nil {
		s.logger.Warn("failed to write pid file", "path", s.home.PIDPath(), "error", err)
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", ln.Addr().String())
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			_ = s.shutdown()
			return fmt.Errorf("HTTP server error: %w", err)
		}
	}

	return s.shutdown()
}

// shutdown performs graceful shutdown of the HTTP server and the container.
func (s *Server) shutdown() error {
	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
	}

	if old := s.services.Swap(nil); old != nil {
		if err := old.Close(); err != nil {
			s.logger.Error("services close error", "error", err)
		}
	}

	if s.surreal != nil {
		s.logger.Info("stopping SurrealDB")
		if err := s.surreal.Stop(shutdownCtx); err != nil {
			s.logger.Error("SurrealDB stop error", "error", err)
		}
		if err := s.surreal.Close(); err != nil {
			s.logger.Error("SurrealDB manager close error", "error", err)
		}
	}

	RemovePidFile(s.home.PIDPath())
	s.setNotRunning()
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) setNotRunning() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// IsRunning returns whether the server is currently running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Addr returns the listen address. Once started it is the bound address.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.addr != "" {
		return s.addr
	}
	return s.httpServer.Addr
}
