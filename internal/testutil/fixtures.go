package testutil

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/jackzampolin/lessonpress/internal/lesson"
)

// SampleLessonJSON is a complete, schema-valid lesson for PRIMARY_2 Maths.
const SampleLessonJSON = `{
  "age_range": "7-8",
  "class_level": "PRIMARY_2",
  "subject": "Maths",
  "week": 3,
  "term": "SECOND",
  "topic_title": "Fractions",
  "duration_mins": 40,
  "introduction": "Sharing an orange fairly between two friends.",
  "objectives": [
    {"objective": "Identify a half of a whole", "taxonomy_level": "Remember"},
    {"objective": "Divide shapes into equal parts", "taxonomy_level": "Apply"}
  ],
  "materials": ["Oranges", "Paper strips", "Crayons"],
  "prior_knowledge": ["Counting to 20", "Naming shapes"],
  "content_sections": [
    {"header": "Halves", "body": "A half is one of two equal parts.", "sub_points": [
      {"sub_number": "1", "text": "Fold the strip end to end."},
      {"sub_number": "2", "text": {"header": "Check", "body": "Both parts must match exactly."}}
    ]},
    {"header": "Quarters", "body": "A quarter is one of four equal parts."}
  ],
  "lesson_steps": [
    {"step_number": 1, "phase": "Introduction", "duration_mins": 5, "teacher_actions": "Cuts an orange in two",
     "pupil_activities": "Observe and describe the parts", "teaching_strategy": "Demonstration",
     "assessment": "Oral questions"},
    {"step_number": 2, "phase": "Practice", "duration_mins": 20, "teacher_actions": "Hands out paper strips",
     "pupil_activities": "Fold strips into halves and quarters", "teaching_strategy": "Hands-on"}
  ],
  "key_points": ["Fractions are equal parts of a whole"],
  "mcq_questions": [
    {"question": "What is half of 4?", "option_a": "1", "option_b": "2", "option_c": "3",
     "correct_answer": "B", "explanation": "4 shared into two equal groups gives 2."}
  ],
  "theoretical_questions": [
    {"question": "Explain what a half is.", "parts": ["Define a half", "Draw a half"],
     "model_answer": "A half is one of two equal parts of a whole.", "marking_scheme": "2 marks per part"}
  ],
  "conclusion": "Fractions name equal parts of a whole.",
  "teacher_tips": "Use real objects before paper.",
  "remediation": "Repeat folding with larger strips.",
  "formative_assessment": "Observation during folding",
  "summative_assessment": "Worksheet on halves and quarters",
  "extension_activities": ["Find halves at home"],
  "primary_sources": [],
  "success_criteria": ["I can fold a strip into halves"],
  "textbook_references": ["New Method Mathematics 2, p. 40"]
}`

// SampleLesson decodes SampleLessonJSON.
func SampleLesson(t testing.TB) *lesson.CompleteLessonContent {
	t.Helper()
	content, err := lesson.Decode([]byte(SampleLessonJSON))
	if err != nil {
		t.Fatalf("sample lesson does not decode: %v", err)
	}
	return content
}

// SampleTopic is the topic SampleLessonJSON was generated from.
func SampleTopic() lesson.TopicRecord {
	return lesson.TopicRecord{
		ID:       "t1",
		AgeGroup: "7-8",
		Class:    "Year 2",
		Subject:  "Maths",
		Term:     "2nd Term",
		Topic:    "Fractions",
		Week:     3,
	}
}

// AssetPaths locates render assets written by WriteAssets.
type AssetPaths struct {
	Template  string
	Font      string
	Watermark string
}

// WriteAssets writes a template, a TrueType font and a watermark PNG into dir.
func WriteAssets(t testing.TB, dir, templateSource string) AssetPaths {
	t.Helper()

	paths := AssetPaths{
		Template:  filepath.Join(dir, "templates", "lesson.tmpl"),
		Font:      filepath.Join(dir, "fonts", "regular.ttf"),
		Watermark: filepath.Join(dir, "templates", "images", "watermark.png"),
	}
	for _, p := range []string{paths.Template, paths.Font, paths.Watermark} {
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}
	if err := os.WriteFile(paths.Template, []byte(templateSource), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}
	if err := os.WriteFile(paths.Font, goregular.TTF, 0o644); err != nil {
		t.Fatalf("write font: %v", err)
	}
	if err := os.WriteFile(paths.Watermark, WatermarkPNG(t), 0o644); err != nil {
		t.Fatalf("write watermark: %v", err)
	}
	return paths
}

// WatermarkPNG returns a small opaque PNG.
func WatermarkPNG(t testing.TB) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 30, B: 30, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode watermark: %v", err)
	}
	return buf.Bytes()
}

// IsPDF reports whether data starts with a PDF header.
func IsPDF(data []byte) bool {
	return strings.HasPrefix(string(data), "%PDF-")
}
