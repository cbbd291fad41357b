// Package workflow exposes the two operations callers dispatch to:
// generating and storing lessons for a topic table, and rendering the
// stored lessons for a subject and class as a PDF.
package workflow

import (
	"context"
	"errors"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/singleflight"

	"github.com/jackzampolin/lessonpress/internal/agenterr"
	"github.com/jackzampolin/lessonpress/internal/cache"
	"github.com/jackzampolin/lessonpress/internal/document"
	"github.com/jackzampolin/lessonpress/internal/lesson"
	"github.com/jackzampolin/lessonpress/internal/pipeline"
	"github.com/jackzampolin/lessonpress/internal/surreal"
)

const (
	ContentTypePDF  = "application/pdf"
	ContentTypeText = "text/plain"
)

// Store reads topics and lessons and writes generated lessons.
type Store interface {
	pipeline.Store
	FetchLessons(ctx context.Context, subject string, class lesson.ClassLevel) ([]lesson.PersistedLesson, error)
}

// Renderer turns a document into PDF bytes.
type Renderer interface {
	Render(ctx context.Context, doc *document.Document) ([]byte, error)
	Fingerprint() string
}

// Config configures a Workflow.
type Config struct {
	Store    Store
	Pipeline *pipeline.Pipeline
	Renderer Renderer
	Cache    cache.Cache
	Logger   *slog.Logger
}

// Workflow wires the store, pipeline, renderer and cache together.
type Workflow struct {
	store    Store
	pipeline *pipeline.Pipeline
	renderer Renderer
	cache    cache.Cache
	logger   *slog.Logger
	validate *validator.Validate
	renders  singleflight.Group
}

// New creates a Workflow. A nil cache disables caching.
func New(cfg Config) (*Workflow, error) {
	if cfg.Store == nil || cfg.Pipeline == nil || cfg.Renderer == nil {
		return nil, errors.New("workflow: store, pipeline and renderer are required")
	}
	c := cfg.Cache
	if c == nil {
		c = cache.Nop{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Workflow{
		store:    cfg.Store,
		pipeline: cfg.Pipeline,
		renderer: cfg.Renderer,
		cache:    c,
		logger:   logger,
		validate: validator.New(),
	}, nil
}

// GenerateAndStore runs the content pipeline over table. Cached renders are
// dropped once any lesson is stored.
func (w *Workflow) GenerateAndStore(ctx context.Context, table string) (*pipeline.Report, error) {
	if err := surreal.ValidateTable(table); err != nil {
		return nil, agenterr.Wrap(agenterr.CodeInvalidRequest, err, "invalid topic table")
	}

	report, err := w.pipeline.Run(ctx, table)
	if report != nil && report.Succeeded > 0 {
		w.cache.Purge(context.WithoutCancel(ctx))
	}
	return report, err
}

// Topics lists the topic records in table.
func (w *Workflow) Topics(ctx context.Context, table string) ([]lesson.TopicRecord, error) {
	if err := surreal.ValidateTable(table); err != nil {
		return nil, agenterr.Wrap(agenterr.CodeInvalidRequest, err, "invalid topic table")
	}
	return w.store.FetchTopics(ctx, table)
}

// LessonsRequest selects stored lessons.
type LessonsRequest struct {
	Subject string `json:"subject" validate:"required,max=128"`
	Class   string `json:"class" validate:"required"`
}

// Lessons lists stored lessons for a subject and class, ordered by week.
func (w *Workflow) Lessons(ctx context.Context, req LessonsRequest) ([]lesson.PersistedLesson, error) {
	if err := w.validate.Struct(req); err != nil {
		return nil, agenterr.Wrap(agenterr.CodeInvalidRequest, err, "invalid lessons request")
	}
	class, err := lesson.ParseClassLevel(req.Class)
	if err != nil {
		return nil, agenterr.Wrap(agenterr.CodeInvalidClassLevel, err, "invalid class")
	}
	return w.store.FetchLessons(ctx, req.Subject, class)
}
