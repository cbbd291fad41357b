package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// SurrealTestConfig holds SurrealDB container configuration without
// importing the surreal package.
type SurrealTestConfig struct {
	ContainerName string
	HostPort      string
	DataPath      string
	Labels        map[string]string
}

// NewSurrealConfig creates container settings with a unique name and a free port.
// The test is skipped when Docker is unavailable.
func NewSurrealConfig(t TestingT, dataPath string) SurrealTestConfig {
	t.Helper()

	_ = DockerClient(t)

	port, err := FindFreePort()
	if err != nil {
		t.Skip(fmt.Sprintf("no free port: %v", err))
	}

	return SurrealTestConfig{
		ContainerName: UniqueContainerName(t, "surreal"),
		HostPort:      port,
		DataPath:      dataPath,
		Labels:        ContainerLabels(t),
	}
}

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// WaitForServer polls the /status endpoint until the server reports ok.
func WaitForServer(url string, timeout time.Duration) error {
	client := &http.Client{Timeout: 2 * time.Second}
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url + "/status")
		if err == nil {
			var status StatusResponse
			if err := json.NewDecoder(resp.Body).Decode(&status); err == nil && status.Server == "ok" {
				resp.Body.Close()
				return nil
			}
			resp.Body.Close()
		}
		time.Sleep(100 * time.Millisecond)
	}

	return fmt.Errorf("server not ready after %v", timeout)
}

// WaitForShutdown waits for a channel to receive a value or timeout.
func WaitForShutdown(done <-chan error, timeout time.Duration) error {
	select {
	case err := <-done:
		return err
	case <-time.After(timeout):
		return fmt.Errorf("timeout waiting for shutdown")
	}
}

// FindFreePort finds an available TCP port and returns it as a string.
func FindFreePort() (string, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", err
	}
	defer listener.Close()
	return fmt.Sprintf("%d", listener.Addr().(*net.TCPAddr).Port), nil
}

// StartServer manages server lifecycle in tests.
type StartServer struct {
	Cancel context.CancelFunc
	Done   <-chan error
}

// Stop cancels the server context and waits for shutdown.
func (s *StartServer) Stop() {
	if s.Cancel != nil {
		s.Cancel()
	}
	if s.Done != nil {
		<-s.Done
	}
}

// StatusResponse matches the server's /status payload.
type StatusResponse struct {
	Server string `json:"server"`
	Store  struct {
		URL    string `json:"url"`
		Health string `json:"health"`
	} `json:"store"`
	Generator string `json:"generator"`
	Cache     string `json:"cache"`
}
