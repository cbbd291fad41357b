package surreal

import (
	"context"
	"strings"
	"testing"

	"github.com/jackzampolin/lessonpress/internal/agenterr"
	"github.com/jackzampolin/lessonpress/internal/lesson"
	"github.com/jackzampolin/lessonpress/internal/testutil"
)

func TestFetchTopics(t *testing.T) {
	store := testutil.NewFakeSurreal(t)
	store.AddTopic("lessons_term1", testutil.SampleTopic())

	topics, err := newTestClient(store.URL).FetchTopics(context.Background(), "lessons_term1")
	if err != nil {
		t.Fatalf("FetchTopics() error = %v", err)
	}
	if len(topics) != 1 {
		t.Fatalf("got %d topics, want 1", len(topics))
	}
	if topics[0] != testutil.SampleTopic() {
		t.Errorf("topic = %+v", topics[0])
	}
	if got := store.Statements(); len(got) != 1 || got[0] != "SELECT * FROM lessons_term1" {
		t.Errorf("statements = %q", got)
	}
}

func TestFetchTopics_EmptyTableIsIdempotent(t *testing.T) {
	store := testutil.NewFakeSurreal(t)
	client := newTestClient(store.URL)

	for i := 0; i < 2; i++ {
		topics, err := client.FetchTopics(context.Background(), "missing_table")
		if err != nil {
			t.Fatalf("fetch %d: error = %v", i, err)
		}
		if topics == nil || len(topics) != 0 {
			t.Errorf("fetch %d: got %v, want empty slice", i, topics)
		}
	}
}

func TestFetchTopics_QueryFailed(t *testing.T) {
	store := testutil.NewFakeSurreal(t)
	store.SelectStatus = "FAILED"

	_, err := newTestClient(store.URL).FetchTopics(context.Background(), "lessons_term1")
	if code := agenterr.CodeOf(err); code != agenterr.CodeQueryFailed {
		t.Errorf("code = %s, want %s (err=%v)", code, agenterr.CodeQueryFailed, err)
	}
}

func TestFetchTopics_InvalidTable(t *testing.T) {
	store := testutil.NewFakeSurreal(t)

	_, err := newTestClient(store.URL).FetchTopics(context.Background(), "lessons; REMOVE TABLE x")
	if code := agenterr.CodeOf(err); code != agenterr.CodeRequestBuild {
		t.Errorf("code = %s, want %s", code, agenterr.CodeRequestBuild)
	}
	if n := len(store.Statements()); n != 0 {
		t.Errorf("store received %d statements, want 0", n)
	}
}

func TestPersistLesson(t *testing.T) {
	store := testutil.NewFakeSurreal(t)
	content := testutil.SampleLesson(t)

	rec, err := newTestClient(store.URL).PersistLesson(context.Background(), content, "t1")
	if err != nil {
		t.Fatalf("PersistLesson() error = %v", err)
	}
	if rec.SourceID != "t1" {
		t.Errorf("SourceID = %q, want t1", rec.SourceID)
	}
	if rec.ID == "" {
		t.Error("expected record id")
	}
	if rec.TopicTitle != "Fractions" {
		t.Errorf("TopicTitle = %q", rec.TopicTitle)
	}

	stmts := store.Statements()
	if len(stmts) != 1 {
		t.Fatalf("got %d statements, want 1", len(stmts))
	}
	if !strings.HasPrefix(stmts[0], "CREATE lesson_content CONTENT {") {
		t.Errorf("statement = %.60q", stmts[0])
	}
	if !strings.Contains(stmts[0], `"source_id":t1`) {
		t.Errorf("source_id not embedded bare: %s", stmts[0])
	}
	if strings.Contains(stmts[0], `"source_id":"t1"`) {
		t.Error("source_id embedded as quoted string")
	}
}

func TestPersistLesson_Errors(t *testing.T) {
	content := testutil.SampleLesson(t)

	tests := []struct {
		name       string
		sourceID   string
		createBody string
		wantCode   agenterr.Code
	}{
		{"no source id", "", "", agenterr.CodeStructToValue},
		{"unsafe source id", `t1"}; DELETE x; {"`, "", agenterr.CodeRequestBuild},
		{"empty result", "t1", `[{"status":"OK","result":[]}]`, agenterr.CodeEmptyResult},
		{"null result", "t1", `[{"status":"OK","result":null}]`, agenterr.CodeEmptyResult},
		{"no result blocks", "t1", `[]`, agenterr.CodeInsufficientResults},
		{"two records", "t1", `[{"status":"OK","result":[{"source_id":"t1"},{"source_id":"t1"}]}]`, agenterr.CodeInsufficientResults},
		{"failed", "t1", `[{"status":"ERR","result":"Database record already exists"}]`, agenterr.CodeQueryFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := testutil.NewFakeSurreal(t)
			store.CreateBody = tt.createBody

			_, err := newTestClient(store.URL).PersistLesson(context.Background(), content, tt.sourceID)
			if code := agenterr.CodeOf(err); code != tt.wantCode {
				t.Errorf("code = %s, want %s (err=%v)", code, tt.wantCode, err)
			}
		})
	}
}

func TestFetchLessons(t *testing.T) {
	store := testutil.NewFakeSurreal(t)
	client := newTestClient(store.URL)
	ctx := context.Background()

	if _, err := client.PersistLesson(ctx, testutil.SampleLesson(t), "t1"); err != nil {
		t.Fatalf("PersistLesson() error = %v", err)
	}

	lessons, err := client.FetchLessons(ctx, "Maths", lesson.Primary2)
	if err != nil {
		t.Fatalf("FetchLessons() error = %v", err)
	}
	if len(lessons) != 1 || lessons[0].SourceID != "t1" {
		t.Fatalf("lessons = %+v", lessons)
	}

	lessons, err = client.FetchLessons(ctx, "Maths", lesson.Primary3)
	if err != nil {
		t.Fatalf("FetchLessons() error = %v", err)
	}
	if len(lessons) != 0 {
		t.Errorf("got %d lessons for PRIMARY_3, want 0", len(lessons))
	}

	last := store.Statements()[len(store.Statements())-1]
	if !strings.Contains(last, "WHERE subject = $subject AND class_level = $class") {
		t.Errorf("statement = %q", last)
	}
}
