// Package document maps lesson content into the flat model the renderer
// consumes. Every field is populated: variants are resolved, optional values
// become empty strings and absent lists become empty lists.
package document

import (
	"encoding/json"
	"fmt"

	"github.com/jackzampolin/lessonpress/internal/agenterr"
	"github.com/jackzampolin/lessonpress/internal/lesson"
)

// Mode selects which sections the template shows.
type Mode string

const (
	ModePupil   Mode = "pupil"
	ModeTeacher Mode = "teacher"
)

// ParseMode parses "pupil" or "teacher".
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModePupil, ModeTeacher:
		return Mode(s), nil
	default:
		return "", agenterr.New(agenterr.CodeInvalidRequest, "unknown mode %q, want pupil or teacher", s)
	}
}

// Document is the render input: metadata plus one Lesson per persisted lesson.
type Document struct {
	SubjectName string   `json:"subject_name"`
	ClassYear   string   `json:"class_year"`
	Mode        Mode     `json:"mode"`
	Lessons     []Lesson `json:"lessons"`
}

// Lesson is the flat projection of one CompleteLessonContent.
type Lesson struct {
	AgeRange             string                `json:"age_range"`
	ClassLevel           string                `json:"class_level"`
	Subject              string                `json:"subject"`
	Week                 int                   `json:"week"`
	Term                 string                `json:"term"`
	TopicTitle           string                `json:"topic_title"`
	DurationMins         int                   `json:"duration_mins"`
	Introduction         string                `json:"introduction"`
	Objectives           []Objective           `json:"objectives"`
	Materials            []string              `json:"materials"`
	PriorKnowledge       []string              `json:"prior_knowledge"`
	ContentSections      []ContentSection      `json:"content_sections"`
	LessonSteps          []LessonStep          `json:"lesson_steps"`
	KeyPoints            []string              `json:"key_points"`
	MCQQuestions         []MCQQuestion         `json:"mcq_questions"`
	TheoreticalQuestions []TheoreticalQuestion `json:"theoretical_questions"`
	Conclusion           string                `json:"conclusion"`
	TeacherTips          string                `json:"teacher_tips"`
	Remediation          string                `json:"remediation"`
	FormativeAssessment  string                `json:"formative_assessment"`
	SummativeAssessment  string                `json:"summative_assessment"`
	ExtensionActivities  []string              `json:"extension_activities"`
	PrimarySources       []string              `json:"primary_sources"`
	SuccessCriteria      []string              `json:"success_criteria"`
	TextbookReferences   []string              `json:"textbook_references"`
}

type Objective struct {
	Objective     string `json:"objective"`
	TaxonomyLevel string `json:"taxonomy_level"`
}

type ContentSection struct {
	Header    string     `json:"header"`
	Body      string     `json:"body"`
	SubPoints []SubPoint `json:"sub_points"`
}

type SubPoint struct {
	SubNumber string       `json:"sub_number"`
	Text      SubPointText `json:"text"`
}

type SubPointText struct {
	Body string `json:"body"`
}

type LessonStep struct {
	StepNumber       int    `json:"step_number"`
	Phase            string `json:"phase"`
	DurationMins     int    `json:"duration_mins"`
	TeacherActions   string `json:"teacher_actions"`
	PupilActivities  string `json:"pupil_activities"`
	TeachingStrategy string `json:"teaching_strategy"`
	Assessment       string `json:"assessment"`
}

type MCQQuestion struct {
	Question      string `json:"question"`
	OptionA       string `json:"option_a"`
	OptionB       string `json:"option_b"`
	OptionC       string `json:"option_c"`
	CorrectAnswer string `json:"correct_answer"`
	Explanation   string `json:"explanation"`
}

type TheoreticalQuestion struct {
	Question      string   `json:"question"`
	Parts         []string `json:"parts"`
	ModelAnswer   string   `json:"model_answer"`
	MarkingScheme string   `json:"marking_scheme"`
}

// New builds a document for subject and class from persisted lessons.
func New(subject string, class lesson.ClassLevel, mode Mode, contents []lesson.CompleteLessonContent) (*Document, error) {
	if _, err := ParseMode(string(mode)); err != nil {
		return nil, err
	}
	code, err := ClassCode(class)
	if err != nil {
		return nil, err
	}

	doc := &Document{
		SubjectName: subject,
		ClassYear:   code,
		Mode:        mode,
		Lessons:     make([]Lesson, 0, len(contents)),
	}
	for i := range contents {
		l, err := FromLesson(&contents[i])
		if err != nil {
			return nil, fmt.Errorf("lesson %d (%s): %w", i+1, contents[i].TopicTitle, err)
		}
		doc.Lessons = append(doc.Lessons, l)
	}
	return doc, nil
}

// Dict returns the document as a dictionary keyed by JSON field names.
func (d *Document) Dict() (map[string]any, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
