package generation

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/jackzampolin/lessonpress/internal/agenterr"
	"github.com/jackzampolin/lessonpress/internal/lesson"
)

const (
	OpenAIName         = "openai"
	DefaultOpenAIModel = "gpt-4o-mini"
)

// OpenAIConfig holds configuration for the direct OpenAI backend.
type OpenAIConfig struct {
	APIKey     string
	Model      string
	MaxRetries int           // SDK transport retries
	Timeout    time.Duration // HTTP timeout
	BaseURL    string        // optional (tests)
	HTTPClient *http.Client  // optional (tests)
	Logger     *slog.Logger
}

// OpenAIGenerator produces lessons with a chat completion constrained to the
// lesson JSON Schema.
type OpenAIGenerator struct {
	model  string
	client openai.Client
	logger *slog.Logger
}

// NewOpenAIGenerator creates a new OpenAI-backed generator.
func NewOpenAIGenerator(cfg OpenAIConfig) *OpenAIGenerator {
	if cfg.Model == "" {
		cfg.Model = DefaultOpenAIModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 300 * time.Second
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &OpenAIGenerator{
		model:  cfg.Model,
		client: openai.NewClient(opts...),
		logger: logger.With("component", "generation", "backend", OpenAIName),
	}
}

// Name returns the backend identifier.
func (g *OpenAIGenerator) Name() string {
	return OpenAIName
}

// Generate requests a lesson for topic from the chat completions API.
func (g *OpenAIGenerator) Generate(ctx context.Context, topic lesson.TopicRecord) (*lesson.CompleteLessonContent, error) {
	genReq, err := NewRequest(topic)
	if err != nil {
		return nil, err
	}

	schema, err := responseSchema(lesson.SchemaJSON())
	if err != nil {
		return nil, agenterr.Wrap(agenterr.CodeGeneration, err, "failed to prepare response format")
	}

	start := time.Now()
	completion, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(SystemPrompt()),
			openai.UserMessage(UserPrompt(genReq)),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   "complete_lesson_content",
					Schema: schema,
					Strict: openai.Bool(false),
				},
			},
		},
	})
	if err != nil {
		return nil, agenterr.Wrap(agenterr.CodeGeneration, err, "chat completion failed")
	}
	if len(completion.Choices) == 0 {
		return nil, agenterr.New(agenterr.CodeGeneration, "chat completion returned no choices")
	}

	raw, err := parseStructuredJSON(completion.Choices[0].Message.Content)
	if err != nil {
		return nil, agenterr.Wrap(agenterr.CodeGeneration, err, "invalid chat completion output")
	}
	content, err := lesson.Decode(raw)
	if err != nil {
		return nil, agenterr.Wrap(agenterr.CodeGeneration, err, "invalid chat completion output")
	}

	g.logger.Debug("lesson generated",
		"subject", genReq.Subject,
		"topic", genReq.Topic,
		"model", g.model,
		"prompt_tokens", completion.Usage.PromptTokens,
		"completion_tokens", completion.Usage.CompletionTokens,
		"duration", time.Since(start))
	return content, nil
}
