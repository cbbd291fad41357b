// Package pipeline generates and stores lessons for every topic in a table.
// Topics are processed one at a time in fetch order with a pause after each
// stored lesson to stay under the generation service's rate limit.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackzampolin/lessonpress/internal/agenterr"
	"github.com/jackzampolin/lessonpress/internal/generation"
	"github.com/jackzampolin/lessonpress/internal/lesson"
)

const (
	// DefaultDelay is the pause after each stored lesson.
	DefaultDelay = 4 * time.Second

	// MinSafeDelay keeps a run under roughly 40 generation requests a minute.
	MinSafeDelay = 1500 * time.Millisecond
)

// Policy decides what a run does after a topic fails.
type Policy string

const (
	// PolicyFailFast stops the run at the first failure.
	PolicyFailFast Policy = "fail_fast"
	// PolicyContinue records the failure and moves on to the next topic.
	PolicyContinue Policy = "continue"
)

// ParsePolicy parses a policy name. The empty string is PolicyFailFast.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", PolicyFailFast:
		return PolicyFailFast, nil
	case PolicyContinue:
		return PolicyContinue, nil
	default:
		return "", fmt.Errorf("unknown pipeline policy %q (want %s or %s)", s, PolicyFailFast, PolicyContinue)
	}
}

// Store is the subset of the record store a run needs.
type Store interface {
	FetchTopics(ctx context.Context, table string) ([]lesson.TopicRecord, error)
	PersistLesson(ctx context.Context, content *lesson.CompleteLessonContent, sourceID string) (*lesson.PersistedLesson, error)
}

// Config configures a Pipeline.
type Config struct {
	Store     Store
	Generator generation.Generator
	Delay     time.Duration
	Policy    Policy
	Logger    *slog.Logger
}

// Pipeline runs content generation for topic tables.
// A Pipeline holds no per-run state, so concurrent runs are independent.
type Pipeline struct {
	store     Store
	generator generation.Generator
	delay     time.Duration
	policy    Policy
	logger    *slog.Logger
}

// New creates a Pipeline.
func New(cfg Config) (*Pipeline, error) {
	if cfg.Store == nil {
		return nil, errors.New("pipeline: store is required")
	}
	if cfg.Generator == nil {
		return nil, errors.New("pipeline: generator is required")
	}
	policy, err := ParsePolicy(string(cfg.Policy))
	if err != nil {
		return nil, err
	}
	if cfg.Delay < 0 {
		return nil, fmt.Errorf("pipeline: delay must not be negative, got %s", cfg.Delay)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if cfg.Delay < MinSafeDelay && cfg.Generator.Name() != generation.MockName {
		logger.Warn("pipeline delay is below the generation rate limit",
			"delay", cfg.Delay, "minimum", MinSafeDelay)
	}

	return &Pipeline{
		store:     cfg.Store,
		generator: cfg.Generator,
		delay:     cfg.Delay,
		policy:    policy,
		logger:    logger,
	}, nil
}

// Policy returns the failure policy.
func (p *Pipeline) Policy() Policy {
	return p.policy
}

// Run generates and stores a lesson for every topic in table.
//
// The report is always returned, even with an error. Store errors from the
// topic fetch are returned unchanged and nothing is generated. Under
// PolicyFailFast the first topic failure ends the run and is returned; under
// PolicyContinue an error is returned only when every topic failed.
func (p *Pipeline) Run(ctx context.Context, table string) (*Report, error) {
	report := newReport(table, p.policy)
	logger := p.logger.With("run_id", report.RunID, "table", table)
	defer report.finish()

	topics, err := p.store.FetchTopics(ctx, table)
	if err != nil {
		logger.Error("failed to fetch topics", "error", err)
		return report, err
	}
	report.Topics = len(topics)
	logger.Info("content run started", "topics", len(topics), "policy", p.policy, "generator", p.generator.Name())

	var firstErr error
	for i, topic := range topics {
		if err := ctx.Err(); err != nil {
			report.skip(topics[i:])
			return report, interrupted(err, report)
		}

		start := time.Now()
		record, err := p.process(ctx, topic)
		if err != nil {
			report.fail(topic, err, time.Since(start))
			logger.Error("topic failed", "topic", topic.Label(), "code", agenterr.CodeOf(err), "error", err)
			if firstErr == nil {
				firstErr = err
			}
			if p.policy == PolicyFailFast || ctx.Err() != nil {
				report.skip(topics[i+1:])
				return report, err
			}
			continue
		}

		report.succeed(topic, record, time.Since(start))
		logger.Info("lesson stored", "topic", topic.Label(), "record", record.ID,
			"progress", fmt.Sprintf("%d/%d", i+1, len(topics)))

		if p.delay > 0 {
			if err := sleep(ctx, p.delay); err != nil {
				report.skip(topics[i+1:])
				return report, interrupted(err, report)
			}
		}
	}

	logger.Info("content run finished",
		"succeeded", report.Succeeded, "failed", report.Failed, "duration", time.Since(report.StartedAt))

	if report.Failed > 0 && report.Succeeded == 0 {
		return report, agenterr.Wrap(agenterr.CodeOf(firstErr), firstErr, "all %d topics failed", report.Failed)
	}
	return report, nil
}

func (p *Pipeline) process(ctx context.Context, topic lesson.TopicRecord) (*lesson.PersistedLesson, error) {
	content, err := p.generator.Generate(ctx, topic)
	if err != nil {
		return nil, agenterr.Wrap(agenterr.CodeContentGeneration, err, "failed to generate content for %s", topic.Label())
	}

	record, err := p.store.PersistLesson(ctx, content, topic.ID)
	if err != nil {
		return nil, agenterr.Wrap(agenterr.CodeContentDBUpdate, err, "failed to store content for %s", topic.Label())
	}
	return record, nil
}

// interrupted codes a context error that stopped a run between topics.
func interrupted(err error, report *Report) error {
	return agenterr.Wrap(agenterr.CodeCanceled, err, "run interrupted after %d of %d topics",
		report.Succeeded+report.Failed, report.Topics)
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
