// Package generation turns topic records into structured lessons by calling
// a lesson generation backend.
package generation

import (
	"context"
	"strings"

	"github.com/jackzampolin/lessonpress/internal/agenterr"
	"github.com/jackzampolin/lessonpress/internal/lesson"
)

// Generator produces lesson content for one topic.
type Generator interface {
	// Generate returns a validated lesson or a coded error. Invalid class or
	// term values fail before any remote call.
	Generate(ctx context.Context, topic lesson.TopicRecord) (*lesson.CompleteLessonContent, error)

	// Name returns the backend identifier (e.g., "service").
	Name() string
}

// Request is the generation service's input shape.
type Request struct {
	AgeGroup   string            `json:"age_group"`
	ClassLevel lesson.ClassLevel `json:"class_level"`
	Subject    string            `json:"subject"`
	Term       lesson.Term       `json:"term"`
	Topic      string            `json:"topic"`
	Week       int               `json:"week"`
}

var classLookup = map[string]lesson.ClassLevel{
	"Year 1": lesson.Primary1,
	"Year 2": lesson.Primary2,
	"Year 3": lesson.Primary3,
	"Year 4": lesson.Primary4,
	"Year 5": lesson.Primary5,
}

var termLookup = map[string]lesson.Term{
	"1st Term":     lesson.First,
	"Noel Term":    lesson.First,
	"2nd Term":     lesson.Second,
	"Calvary Term": lesson.Second,
	"3rd Term":     lesson.Third,
	"Summer Term":  lesson.Third,
}

// ClassLevelFor maps a catalog class name ("Year 2") to a class level.
func ClassLevelFor(class string) (lesson.ClassLevel, error) {
	if c, ok := classLookup[strings.TrimSpace(class)]; ok {
		return c, nil
	}
	return "", agenterr.New(agenterr.CodeInvalidClassLevel, "unrecognized class %q", class)
}

// TermFor maps a catalog term name ("2nd Term", "Calvary Term") to a term.
func TermFor(term string) (lesson.Term, error) {
	if t, ok := termLookup[strings.TrimSpace(term)]; ok {
		return t, nil
	}
	return "", agenterr.New(agenterr.CodeInvalidTerm, "unrecognized term %q", term)
}

// NewRequest builds the service request for topic.
func NewRequest(topic lesson.TopicRecord) (Request, error) {
	class, err := ClassLevelFor(topic.Class)
	if err != nil {
		return Request{}, err
	}
	term, err := TermFor(topic.Term)
	if err != nil {
		return Request{}, err
	}
	return Request{
		AgeGroup:   topic.AgeGroup,
		ClassLevel: class,
		Subject:    topic.Subject,
		Term:       term,
		Topic:      topic.Topic,
		Week:       topic.Week,
	}, nil
}
