// Package lesson holds the lesson data model shared by the store, the
// generation client, the pipeline and the document mapper.
package lesson

import "fmt"

// TopicRecord is one curriculum unit queued for content generation.
// ID is empty until the store assigns one.
type TopicRecord struct {
	ID       string `json:"id,omitempty"`
	AgeGroup string `json:"agegroup"`
	Class    string `json:"class"`
	Subject  string `json:"subject"`
	Term     string `json:"term"`
	Topic    string `json:"topic"`
	Week     int    `json:"week"`
}

// Label returns a human-readable label used in logs and error messages.
func (t TopicRecord) Label() string {
	return fmt.Sprintf("%s: %s (%s, %s, week %d)", t.Subject, t.Topic, t.Term, t.Class, t.Week)
}

// PersistedLesson is a stored lesson, tagged with the topic it was generated from.
type PersistedLesson struct {
	ID       string `json:"id,omitempty"`
	SourceID string `json:"source_id"`
	CompleteLessonContent
}
