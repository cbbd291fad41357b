package document

import (
	"github.com/jackzampolin/lessonpress/internal/agenterr"
	"github.com/jackzampolin/lessonpress/internal/lesson"
)

// ClassLevelDisplay returns the display string for c.
func ClassLevelDisplay(c lesson.ClassLevel) (string, error) {
	switch c {
	case lesson.Primary1:
		return "PRIMARY_1", nil
	case lesson.Primary2:
		return "PRIMARY_2", nil
	case lesson.Primary3:
		return "PRIMARY_3", nil
	case lesson.Primary4:
		return "PRIMARY_4", nil
	case lesson.Primary5:
		return "PRIMARY_5", nil
	case lesson.JSS1:
		return "JSS_1", nil
	case lesson.JSS2:
		return "JSS_2", nil
	case lesson.JSS3:
		return "JSS_3", nil
	default:
		return "", agenterr.New(agenterr.CodeInvalidClassLevel, "no display name for class level %q", c)
	}
}

// TermDisplay returns the display string for t.
func TermDisplay(t lesson.Term) (string, error) {
	switch t {
	case lesson.First:
		return "FIRST", nil
	case lesson.Second:
		return "SECOND", nil
	case lesson.Third:
		return "THIRD", nil
	default:
		return "", agenterr.New(agenterr.CodeInvalidTerm, "no display name for term %q", t)
	}
}

// ClassCode returns the numeric class-year code printed on documents.
// Junior secondary levels have no code.
func ClassCode(c lesson.ClassLevel) (string, error) {
	switch c {
	case lesson.Primary1:
		return "1", nil
	case lesson.Primary2:
		return "2", nil
	case lesson.Primary3:
		return "3", nil
	case lesson.Primary4:
		return "4", nil
	case lesson.Primary5:
		return "5", nil
	case lesson.JSS1, lesson.JSS2, lesson.JSS3:
		return "", agenterr.New(agenterr.CodeInvalidClassLevel, "class level %s has no class-year code", c)
	default:
		return "", agenterr.New(agenterr.CodeInvalidClassLevel, "unknown class level %q", c)
	}
}

// SubPointBody resolves sub-point text to its body string.
func SubPointBody(text lesson.SubPointText) (string, error) {
	switch t := text.(type) {
	case lesson.PlainText:
		return string(t), nil
	case lesson.SectionText:
		return t.Body, nil
	default:
		return "", agenterr.New(agenterr.CodeDeserialize, "sub-point text has unsupported type %T", text)
	}
}

// FromLesson maps content to its flat form.
func FromLesson(content *lesson.CompleteLessonContent) (Lesson, error) {
	class, err := ClassLevelDisplay(content.ClassLevel)
	if err != nil {
		return Lesson{}, err
	}
	term, err := TermDisplay(content.Term)
	if err != nil {
		return Lesson{}, err
	}
	sections, err := mapSections(content.ContentSections)
	if err != nil {
		return Lesson{}, err
	}

	return Lesson{
		AgeRange:             content.AgeRange,
		ClassLevel:           class,
		Subject:              content.Subject,
		Week:                 content.Week,
		Term:                 term,
		TopicTitle:           content.TopicTitle,
		DurationMins:         content.DurationMins,
		Introduction:         content.Introduction,
		Objectives:           mapObjectives(content.Objectives),
		Materials:            copyStrings(content.Materials),
		PriorKnowledge:       copyStrings(content.PriorKnowledge),
		ContentSections:      sections,
		LessonSteps:          mapSteps(content.LessonSteps),
		KeyPoints:            copyStrings(content.KeyPoints),
		MCQQuestions:         mapMCQs(content.MCQQuestions),
		TheoreticalQuestions: mapTheory(content.TheoreticalQuestions),
		Conclusion:           content.Conclusion,
		TeacherTips:          content.TeacherTips,
		Remediation:          content.Remediation,
		FormativeAssessment:  content.FormativeAssessment,
		SummativeAssessment:  content.SummativeAssessment,
		ExtensionActivities:  copyStrings(content.ExtensionActivities),
		PrimarySources:       copyStrings(content.PrimarySources),
		SuccessCriteria:      copyStrings(content.SuccessCriteria),
		TextbookReferences:   copyStrings(content.TextbookReferences),
	}, nil
}

func mapObjectives(in []lesson.Objective) []Objective {
	out := make([]Objective, 0, len(in))
	for _, o := range in {
		out = append(out, Objective{Objective: o.Objective, TaxonomyLevel: o.TaxonomyLevel})
	}
	return out
}

func mapSections(in []lesson.ContentSection) ([]ContentSection, error) {
	out := make([]ContentSection, 0, len(in))
	for _, cs := range in {
		subs := make([]SubPoint, 0, len(cs.SubPoints))
		for _, sp := range cs.SubPoints {
			body, err := SubPointBody(sp.Text)
			if err != nil {
				return nil, err
			}
			subs = append(subs, SubPoint{SubNumber: sp.SubNumber, Text: SubPointText{Body: body}})
		}
		out = append(out, ContentSection{Header: cs.Header, Body: cs.Body, SubPoints: subs})
	}
	return out, nil
}

func mapSteps(in []lesson.LessonStep) []LessonStep {
	out := make([]LessonStep, 0, len(in))
	for _, s := range in {
		var assessment string
		if s.Assessment != nil {
			assessment = *s.Assessment
		}
		out = append(out, LessonStep{
			StepNumber:       s.StepNumber,
			Phase:            s.Phase,
			DurationMins:     s.DurationMins,
			TeacherActions:   s.TeacherActions,
			PupilActivities:  s.PupilActivities,
			TeachingStrategy: s.TeachingStrategy,
			Assessment:       assessment,
		})
	}
	return out
}

func mapMCQs(in []lesson.MCQQuestion) []MCQQuestion {
	out := make([]MCQQuestion, 0, len(in))
	for _, q := range in {
		out = append(out, MCQQuestion(q))
	}
	return out
}

func mapTheory(in []lesson.TheoreticalQuestion) []TheoreticalQuestion {
	out := make([]TheoreticalQuestion, 0, len(in))
	for _, q := range in {
		out = append(out, TheoreticalQuestion{
			Question:      q.Question,
			Parts:         copyStrings(q.Parts),
			ModelAnswer:   q.ModelAnswer,
			MarkingScheme: q.MarkingScheme,
		})
	}
	return out
}

// copyStrings copies in, turning nil into an empty list.
func copyStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
