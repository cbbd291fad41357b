package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackzampolin/lessonpress/internal/config"
	"github.com/jackzampolin/lessonpress/internal/home"
	"github.com/jackzampolin/lessonpress/internal/render"
	"github.com/jackzampolin/lessonpress/internal/server/endpoints"
	"github.com/jackzampolin/lessonpress/internal/testutil"
)

// testEnv is a server wired to fake store and generation services.
type testEnv struct {
	store *testutil.FakeSurreal
	gen   *testutil.FakeGenerationService
	home  *home.Dir
	cfg   *config.Config
	srv   *Server
}

func newTestEnv(t *testing.T, port string) *testEnv {
	t.Helper()

	env := &testEnv{
		store: testutil.NewFakeSurreal(t),
		gen:   testutil.NewFakeGenerationService(t),
	}

	h, err := home.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := h.EnsureExists(); err != nil {
		t.Fatal(err)
	}
	env.home = h

	assets := testutil.WriteAssets(t, h.Path(), render.DefaultTemplate())

	cfg := config.DefaultConfig()
	cfg.Store.URL = env.store.URL
	cfg.Generation.BaseURL = env.gen.URL
	cfg.Pipeline.Delay = 0
	cfg.Render.TemplatePath = assets.Template
	cfg.Render.FontPath = assets.Font
	cfg.Render.WatermarkPath = assets.Watermark
	cfg.Server.Port = port
	env.cfg = cfg

	data, err := config.Marshal(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(h.ConfigPath(), data, 0o644); err != nil {
		t.Fatal(err)
	}

	mgr, err := config.NewManager(h.ConfigPath(), h.Path())
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	env.srv, err = New(Config{
		Host:          "127.0.0.1",
		Port:          port,
		ConfigManager: mgr,
		Home:          h,
		Logger:        testutil.DiscardLogger(),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return env
}

// handler initializes the services and serves the handler over httptest.
func (env *testEnv) handler(t *testing.T) string {
	t.Helper()
	if err := env.srv.Init(context.Background()); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	ts := httptest.NewServer(env.srv.Handler())
	t.Cleanup(ts.Close)
	t.Cleanup(func() { _ = env.srv.Services().Close() })
	return ts.URL
}

func getJSON(t *testing.T, url string, v any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if v != nil {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func TestNew_Validation(t *testing.T) {
	h, err := home.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	mgr, err := config.NewManager("", t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := New(Config{Home: h}); err == nil {
		t.Error("New() without config manager: want error")
	}
	if _, err := New(Config{ConfigManager: mgr}); err == nil {
		t.Error("New() without home: want error")
	}

	srv, err := New(Config{ConfigManager: mgr, Home: h})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if srv.Addr() != "127.0.0.1:8080" {
		t.Errorf("Addr() = %q, want default", srv.Addr())
	}
	if srv.IsRunning() {
		t.Error("IsRunning() = true before Start")
	}
	if srv.Services() != nil {
		t.Error("Services() != nil before Init")
	}
}

func TestHandler_BeforeInit(t *testing.T) {
	env := newTestEnv(t, "8080")
	ts := httptest.NewServer(env.srv.Handler())
	defer ts.Close()

	var health endpoints.HealthResponse
	if code := getJSON(t, ts.URL+"/health", &health); code != http.StatusOK || health.Status != "ok" {
		t.Errorf("/health = %d %+v", code, health)
	}

	var ready endpoints.HealthResponse
	if code := getJSON(t, ts.URL+"/ready", &ready); code != http.StatusServiceUnavailable || ready.Store != "not_initialized" {
		t.Errorf("/ready = %d %+v", code, ready)
	}

	var status endpoints.StatusResponse
	if code := getJSON(t, ts.URL+"/status", &status); code != http.StatusOK || status.Server != "starting" {
		t.Errorf("/status = %d %+v", code, status)
	}

	var payload endpoints.ErrorResponse
	if code := getJSON(t, ts.URL+"/api/topics/lessons_term1", &payload); code != http.StatusServiceUnavailable {
		t.Errorf("/api/topics before init = %d, want 503", code)
	}
	if payload.Message != "server not fully initialized" {
		t.Errorf("payload = %+v", payload)
	}
}

func TestServer_Lifecycle(t *testing.T) {
	port, err := testutil.FindFreePort()
	if err != nil {
		t.Skipf("no free port: %v", err)
	}
	env := newTestEnv(t, port)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	serverCtx, serverCancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() {
		done <- env.srv.Start(serverCtx)
	}()
	started := &testutil.StartServer{Cancel: serverCancel, Done: done}

	baseURL := fmt.Sprintf("http://127.0.0.1:%s", port)
	if err := testutil.WaitForServer(baseURL, 10*time.Second); err != nil {
		started.Stop()
		t.Fatalf("server did not start: %v", err)
	}

	t.Run("running", func(t *testing.T) {
		if !env.srv.IsRunning() {
			t.Error("IsRunning() = false, want true")
		}
		if env.srv.Addr() != "127.0.0.1:"+port {
			t.Errorf("Addr() = %q", env.srv.Addr())
		}
	})

	t.Run("pid_file_written", func(t *testing.T) {
		pid, err := ReadPidFile(env.home.PIDPath())
		if err != nil {
			t.Fatalf("ReadPidFile() error = %v", err)
		}
		if pid != os.Getpid() {
			t.Errorf("pid = %d, want %d", pid, os.Getpid())
		}
	})

	t.Run("status", func(t *testing.T) {
		var status endpoints.StatusResponse
		getJSON(t, baseURL+"/status", &status)
		if status.Store.Health != "healthy" || status.Store.URL != env.store.URL {
			t.Errorf("store status = %+v", status.Store)
		}
		if status.Generator != "service" || status.Cache != "memory" {
			t.Errorf("status = %+v", status)
		}
	})

	t.Run("second_start_rejected", func(t *testing.T) {
		if err := env.srv.Start(ctx); err == nil {
			t.Error("second Start() succeeded, want error")
		}
	})

	serverCancel()
	if err := testutil.WaitForShutdown(done, 30*time.Second); err != nil {
		t.Fatalf("shutdown: %v", err)
	}

	if env.srv.IsRunning() {
		t.Error("IsRunning() = true after shutdown")
	}
	if _, err := os.Stat(env.home.PIDPath()); !os.IsNotExist(err) {
		t.Errorf("pid file still present after shutdown: %v", err)
	}
	if env.srv.Services() != nil {
		t.Error("services not released after shutdown")
	}
}

func TestServer_Reload(t *testing.T) {
	env := newTestEnv(t, "8080")
	env.handler(t)
	first := env.srv.Services()

	next := *env.cfg
	next.Cache.Backend = "none"
	env.srv.reload(context.Background(), &next)

	if got := env.srv.Services(); got == first || got.Cache.Name() != "none" {
		t.Errorf("reload did not swap services: cache = %s", got.Cache.Name())
	}

	broken := next
	broken.Generation.Backend = "openai"
	broken.Generation.OpenAI.APIKey = ""
	current := env.srv.Services()
	env.srv.reload(context.Background(), &broken)

	if env.srv.Services() != current {
		t.Error("failed reload replaced the running services")
	}
}

func TestPidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.pid")

	if err := CheckNotRunning(path); err != nil {
		t.Errorf("CheckNotRunning() without file = %v", err)
	}

	if err := WritePidFile(path); err != nil {
		t.Fatal(err)
	}
	pid, err := ReadPidFile(path)
	if err != nil || pid != os.Getpid() {
		t.Fatalf("ReadPidFile() = %d, %v", pid, err)
	}
	if !IsProcessAlive(pid) {
		t.Error("IsProcessAlive(self) = false")
	}
	if err := CheckNotRunning(path); err != nil {
		t.Errorf("CheckNotRunning() with own pid = %v", err)
	}

	if err := os.WriteFile(path, []byte("not-a-pid"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadPidFile(path); err == nil {
		t.Error("ReadPidFile() with garbage: want error")
	}
	if err := CheckNotRunning(path); err != nil {
		t.Errorf("CheckNotRunning() with garbage = %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("stale pid file not removed")
	}
}
