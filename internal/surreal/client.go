// Package surreal is a client for the SurrealDB HTTP /sql endpoint and a
// manager for a local SurrealDB container.
package surreal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jackzampolin/lessonpress/internal/agenterr"
)

// ErrUnhealthy is returned when the SurrealDB health check fails.
var ErrUnhealthy = errors.New("surreal health check failed")

// Defaults for a local development store.
const (
	DefaultURL         = "http://localhost:8000"
	DefaultNamespace   = "main"
	DefaultDatabase    = "contents"
	DefaultUsername    = "root"
	DefaultPassword    = "secret"
	DefaultLessonTable = "lesson_content"
)

// Config configures a Client. Zero values fall back to the defaults above.
type Config struct {
	URL         string
	Namespace   string
	Database    string
	Username    string
	Password    string
	LessonTable string
	Timeout     time.Duration
	Logger      *slog.Logger
}

// Client is a SurrealDB HTTP client. It never retries; a failed call is
// returned to the caller immediately.
type Client struct {
	url         string
	namespace   string
	database    string
	username    string
	password    string
	lessonTable string
	httpClient  *http.Client
	logger      *slog.Logger
}

// NewClient creates a new SurrealDB client.
func NewClient(cfg Config) *Client {
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.Namespace == "" {
		cfg.Namespace = DefaultNamespace
	}
	if cfg.Database == "" {
		cfg.Database = DefaultDatabase
	}
	if cfg.Username == "" {
		cfg.Username = DefaultUsername
	}
	if cfg.Password == "" {
		cfg.Password = DefaultPassword
	}
	if cfg.LessonTable == "" {
		cfg.LessonTable = DefaultLessonTable
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		url:         strings.TrimSuffix(cfg.URL, "/"),
		namespace:   cfg.Namespace,
		database:    cfg.Database,
		username:    cfg.Username,
		password:    cfg.Password,
		lessonTable: cfg.LessonTable,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger.With("component", "surreal"),
	}
}

// URL returns the store base URL.
func (c *Client) URL() string {
	return c.url
}

// LessonTable returns the table generated lessons are written to.
func (c *Client) LessonTable() string {
	return c.lessonTable
}

// HealthCheck checks if SurrealDB is healthy.
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url+"/health", nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnhealthy, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnhealthy, resp.StatusCode)
	}
	return nil
}

// Query sends one statement batch and returns the raw response body.
// vars are bound as $name parameters through the URL query string.
func (c *Client) Query(ctx context.Context, batch string, vars map[string]string) ([]byte, error) {
	endpoint := c.url + "/sql"
	if len(vars) > 0 {
		q := url.Values{}
		for k, v := range vars {
			q.Set(k, v)
		}
		endpoint += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(batch))
	if err != nil {
		return nil, agenterr.Wrap(agenterr.CodeRequestBuild, err, "failed to create store request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set("Surreal-NS", c.namespace)
	req.Header.Set("Surreal-DB", c.database)
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, agenterr.Wrap(agenterr.CodeConnection, err, "store request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, agenterr.Wrap(agenterr.CodeConnection, err, "failed to read store response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, agenterr.New(agenterr.CodeQuery, "store returned status %d: %s", resp.StatusCode, truncate(string(body), 500))
	}

	return body, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
