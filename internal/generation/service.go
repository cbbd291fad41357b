package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jackzampolin/lessonpress/internal/agenterr"
	"github.com/jackzampolin/lessonpress/internal/lesson"
)

const (
	ServiceName     = "service"
	lessonOperation = "/call/GenerateNigerianLesson"
)

// ServiceConfig holds configuration for the generation service client.
type ServiceConfig struct {
	BaseURL    string
	UserAgent  string        // optional
	Timeout    time.Duration // 0 leaves the transport default
	HTTPClient *http.Client  // optional (tests)
	Logger     *slog.Logger
}

// ServiceClient calls the remote lesson generation service. It does not retry.
type ServiceClient struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewServiceClient creates a new generation service client.
func NewServiceClient(cfg ServiceConfig) *ServiceClient {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ServiceClient{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		userAgent:  cfg.UserAgent,
		httpClient: httpClient,
		logger:     logger.With("component", "generation", "backend", ServiceName),
	}
}

// Name returns the backend identifier.
func (c *ServiceClient) Name() string {
	return ServiceName
}

// Generate requests a lesson for topic.
func (c *ServiceClient) Generate(ctx context.Context, topic lesson.TopicRecord) (*lesson.CompleteLessonContent, error) {
	genReq, err := NewRequest(topic)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(genReq)
	if err != nil {
		return nil, agenterr.Wrap(agenterr.CodeGeneration, err, "failed to marshal generation request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+lessonOperation, bytes.NewReader(body))
	if err != nil {
		return nil, agenterr.Wrap(agenterr.CodeGeneration, err, "failed to create generation request")
	}
	req.Header.Set("Content-Type", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, agenterr.Wrap(agenterr.CodeGeneration, err, "generation request failed")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, agenterr.Wrap(agenterr.CodeGeneration, err, "failed to read generation response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, agenterr.New(agenterr.CodeGeneration, "generation service returned status %d: %s",
			resp.StatusCode, truncate(strings.TrimSpace(string(respBody)), 300))
	}

	content, err := lesson.Decode(respBody)
	if err != nil {
		return nil, agenterr.Wrap(agenterr.CodeGeneration, err, "invalid generation response")
	}

	c.logger.Debug("lesson generated",
		"subject", genReq.Subject,
		"topic", genReq.Topic,
		"class_level", genReq.ClassLevel,
		"duration", time.Since(start))
	return content, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
