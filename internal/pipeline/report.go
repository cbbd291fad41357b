package pipeline

import (
	"time"

	"github.com/google/uuid"

	"github.com/jackzampolin/lessonpress/internal/agenterr"
	"github.com/jackzampolin/lessonpress/internal/lesson"
)

// Status is the result of one topic.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
)

// Outcome records what happened to one topic.
type Outcome struct {
	TopicID  string                  `json:"topic_id"`
	Label    string                  `json:"label"`
	Status   Status                  `json:"status"`
	Error    *agenterr.Payload       `json:"error,omitempty"`
	Record   *lesson.PersistedLesson `json:"record,omitempty"`
	Duration time.Duration           `json:"duration_ns"`

	err error
}

// Err returns the failure, or nil.
func (o Outcome) Err() error {
	return o.err
}

// Report summarizes a run. Outcomes are in fetch order.
type Report struct {
	RunID      string    `json:"run_id"`
	Table      string    `json:"table"`
	Policy     Policy    `json:"policy"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Topics     int       `json:"topics"`
	Succeeded  int       `json:"succeeded"`
	Failed     int       `json:"failed"`
	Skipped    int       `json:"skipped"`
	Outcomes   []Outcome `json:"outcomes"`
}

func newReport(table string, policy Policy) *Report {
	return &Report{
		RunID:     uuid.New().String(),
		Table:     table,
		Policy:    policy,
		StartedAt: time.Now(),
		Outcomes:  []Outcome{},
	}
}

// Records returns the stored lessons in fetch order.
func (r *Report) Records() []lesson.PersistedLesson {
	out := make([]lesson.PersistedLesson, 0, r.Succeeded)
	for _, o := range r.Outcomes {
		if o.Status == StatusSucceeded && o.Record != nil {
			out = append(out, *o.Record)
		}
	}
	return out
}

// Duration returns how long the run took.
func (r *Report) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return time.Since(r.StartedAt)
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

func (r *Report) succeed(t lesson.TopicRecord, record *lesson.PersistedLesson, d time.Duration) {
	r.Succeeded++
	r.Outcomes = append(r.Outcomes, Outcome{
		TopicID: t.ID, Label: t.Label(), Status: StatusSucceeded, Record: record, Duration: d,
	})
}

func (r *Report) fail(t lesson.TopicRecord, err error, d time.Duration) {
	r.Failed++
	payload := agenterr.ToPayload(err)
	r.Outcomes = append(r.Outcomes, Outcome{
		TopicID: t.ID, Label: t.Label(), Status: StatusFailed, Error: &payload, Duration: d, err: err,
	})
}

func (r *Report) skip(topics []lesson.TopicRecord) {
	for _, t := range topics {
		r.Skipped++
		r.Outcomes = append(r.Outcomes, Outcome{TopicID: t.ID, Label: t.Label(), Status: StatusSkipped})
	}
}

func (r *Report) finish() {
	r.FinishedAt = time.Now()
}
