package generation

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/jackzampolin/lessonpress/internal/agenterr"
	"github.com/jackzampolin/lessonpress/internal/lesson"
)

const MockName = "mock"

// MockGenerator returns deterministic lessons built from the request.
type MockGenerator struct {
	Latency time.Duration
	// FailTopics maps topic names to the error returned for them.
	FailTopics map[string]error

	calls atomic.Int64
}

// NewMockGenerator creates a mock generator with no latency.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// Name returns the backend identifier.
func (m *MockGenerator) Name() string {
	return MockName
}

// Calls returns how many topics passed request validation.
func (m *MockGenerator) Calls() int {
	return int(m.calls.Load())
}

// Generate builds a lesson for topic.
func (m *MockGenerator) Generate(ctx context.Context, topic lesson.TopicRecord) (*lesson.CompleteLessonContent, error) {
	req, err := NewRequest(topic)
	if err != nil {
		return nil, err
	}
	m.calls.Add(1)

	if m.Latency > 0 {
		select {
		case <-time.After(m.Latency):
		case <-ctx.Done():
			return nil, agenterr.Wrap(agenterr.CodeGeneration, ctx.Err(), "generation cancelled")
		}
	}
	if err, ok := m.FailTopics[topic.Topic]; ok {
		return nil, err
	}
	return MockLesson(req), nil
}

// MockLesson returns a small, schema-valid lesson for req.
func MockLesson(req Request) *lesson.CompleteLessonContent {
	check := "Pupils answer two oral questions."
	return &lesson.CompleteLessonContent{
		AgeRange:     req.AgeGroup,
		ClassLevel:   req.ClassLevel,
		Subject:      req.Subject,
		Week:         req.Week,
		Term:         req.Term,
		TopicTitle:   req.Topic,
		DurationMins: 40,
		Introduction: fmt.Sprintf("Today we learn about %s.", req.Topic),
		Objectives: []lesson.Objective{
			{Objective: fmt.Sprintf("Describe %s", req.Topic), TaxonomyLevel: "Understand"},
		},
		Materials:      []string{"Chalkboard", "Exercise books"},
		PriorKnowledge: []string{"Previous week's lesson"},
		ContentSections: []lesson.ContentSection{
			{
				Header: req.Topic,
				Body:   fmt.Sprintf("An introduction to %s.", req.Topic),
				SubPoints: []lesson.SubPoint{
					{SubNumber: "1", Text: lesson.PlainText("Key idea")},
					{SubNumber: "2", Text: lesson.SectionText{Header: "Example", Body: "A worked example."}},
				},
			},
		},
		LessonSteps: []lesson.LessonStep{
			{StepNumber: 1, Phase: "Introduction", DurationMins: 10, TeacherActions: "Introduces the topic",
				PupilActivities: "Listen and ask questions", TeachingStrategy: "Discussion", Assessment: &check},
			{StepNumber: 2, Phase: "Development", DurationMins: 30, TeacherActions: "Works an example",
				PupilActivities: "Practise in pairs", TeachingStrategy: "Guided practice"},
		},
		KeyPoints: []string{fmt.Sprintf("%s matters", req.Topic)},
		MCQQuestions: []lesson.MCQQuestion{
			{Question: fmt.Sprintf("Which week covers %s?", req.Topic), OptionA: fmt.Sprint(req.Week),
				OptionB: fmt.Sprint(req.Week + 1), OptionC: fmt.Sprint(req.Week + 2), CorrectAnswer: "A",
				Explanation: "It is this week's topic."},
		},
		TheoreticalQuestions: []lesson.TheoreticalQuestion{
			{Question: fmt.Sprintf("Explain %s.", req.Topic), Parts: []string{"Define", "Give an example"},
				ModelAnswer: "A short definition with one example.", MarkingScheme: "2 marks per part"},
		},
		Conclusion:          "Review the key points.",
		TeacherTips:         "Use local examples.",
		Remediation:         "Revisit the example with a small group.",
		FormativeAssessment: "Oral questions",
		SummativeAssessment: "End of week quiz",
		ExtensionActivities: []string{"Find an example at home"},
		PrimarySources:      []string{},
		SuccessCriteria:     []string{fmt.Sprintf("I can describe %s", req.Topic)},
		TextbookReferences:  []string{},
	}
}
