package lesson

// CompleteLessonContent is the structured lesson returned by generation.
type CompleteLessonContent struct {
	AgeRange             string                `json:"age_range"`
	ClassLevel           ClassLevel            `json:"class_level"`
	Subject              string                `json:"subject"`
	Week                 int                   `json:"week"`
	Term                 Term                  `json:"term"`
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

// Objective is a learning objective with its Bloom's taxonomy level.
type Objective struct {
	Objective     string `json:"objective"`
	TaxonomyLevel string `json:"taxonomy_level"`
}

// ContentSection is a headed block of lesson content.
// SubPoints is nil when the generator omitted it.
type ContentSection struct {
	Header    string     `json:"header"`
	Body      string     `json:"body"`
	SubPoints []SubPoint `json:"sub_points,omitempty"`
}

// LessonStep is one phase of the lesson plan.
type LessonStep struct {
	StepNumber       int     `json:"step_number"`
	Phase            string  `json:"phase"`
	DurationMins     int     `json:"duration_mins"`
	TeacherActions   string  `json:"teacher_actions"`
	PupilActivities  string  `json:"pupil_activities"`
	TeachingStrategy string  `json:"teaching_strategy"`
	Assessment       *string `json:"assessment,omitempty"`
}

// MCQQuestion is a three-option multiple choice question.
type MCQQuestion struct {
	Question      string `json:"question"`
	OptionA       string `json:"option_a"`
	OptionB       string `json:"option_b"`
	OptionC       string `json:"option_c"`
	CorrectAnswer string `json:"correct_answer"`
	Explanation   string `json:"explanation"`
}

// TheoreticalQuestion is an essay-style question with a marking guide.
type TheoreticalQuestion struct {
	Question      string   `json:"question"`
	Parts         []string `json:"parts"`
	ModelAnswer   string   `json:"model_answer"`
	MarkingScheme string   `json:"marking_scheme"`
}
