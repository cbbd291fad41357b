package generation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackzampolin/lessonpress/internal/agenterr"
	"github.com/jackzampolin/lessonpress/internal/lesson"
	"github.com/jackzampolin/lessonpress/internal/testutil"
)

func TestClassLevelFor(t *testing.T) {
	want := map[string]lesson.ClassLevel{
		"Year 1": lesson.Primary1,
		"Year 2": lesson.Primary2,
		"Year 3": lesson.Primary3,
		"Year 4": lesson.Primary4,
		"Year 5": lesson.Primary5,
	}
	seen := map[lesson.ClassLevel]bool{}
	for in, expected := range want {
		got, err := ClassLevelFor(in)
		require.NoError(t, err, in)
		assert.Equal(t, expected, got, in)
		assert.False(t, seen[got], "class level %s produced twice", got)
		seen[got] = true
	}

	for _, bad := range []string{"", "Year 6", "year 1", "Primary 1", "JSS 1"} {
		_, err := ClassLevelFor(bad)
		assert.True(t, agenterr.HasCode(err, agenterr.CodeInvalidClassLevel), "class %q: %v", bad, err)
	}
}

func TestTermFor(t *testing.T) {
	want := map[string]lesson.Term{
		"1st Term":     lesson.First,
		"Noel Term":    lesson.First,
		"2nd Term":     lesson.Second,
		"Calvary Term": lesson.Second,
		"3rd Term":     lesson.Third,
		"Summer Term":  lesson.Third,
	}
	for in, expected := range want {
		got, err := TermFor(in)
		require.NoError(t, err, in)
		assert.Equal(t, expected, got, in)
	}

	for _, bad := range []string{"", "4th Term", "Easter Term", "FIRST"} {
		_, err := TermFor(bad)
		assert.True(t, agenterr.HasCode(err, agenterr.CodeInvalidTerm), "term %q: %v", bad, err)
	}
}

func TestNewRequest(t *testing.T) {
	req, err := NewRequest(testutil.SampleTopic())
	require.NoError(t, err)
	assert.Equal(t, Request{
		AgeGroup:   "7-8",
		ClassLevel: lesson.Primary2,
		Subject:    "Maths",
		Term:       lesson.Second,
		Topic:      "Fractions",
		Week:       3,
	}, req)

	data, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"age_group":"7-8","class_level":"PRIMARY_2","subject":"Maths","term":"SECOND","topic":"Fractions","week":3}`, string(data))
}

func TestServiceClient_Generate(t *testing.T) {
	svc := testutil.NewFakeGenerationService(t)
	client := NewServiceClient(ServiceConfig{BaseURL: svc.URL + "/", UserAgent: "lessonpress/test", Logger: testutil.DiscardLogger()})

	content, err := client.Generate(context.Background(), testutil.SampleTopic())
	require.NoError(t, err)
	assert.Equal(t, "Fractions", content.TopicTitle)
	assert.Equal(t, lesson.Primary2, content.ClassLevel)

	reqs := svc.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "PRIMARY_2", reqs[0]["class_level"])
	assert.Equal(t, "SECOND", reqs[0]["term"])
	assert.Equal(t, float64(3), reqs[0]["week"])

	headers := svc.Headers()
	assert.Equal(t, "application/json", headers[0].Get("Content-Type"))
	assert.Equal(t, "lessonpress/test", headers[0].Get("User-Agent"))
}

func TestServiceClient_InvalidTopicSkipsRemoteCall(t *testing.T) {
	svc := testutil.NewFakeGenerationService(t)
	client := NewServiceClient(ServiceConfig{BaseURL: svc.URL, Logger: testutil.DiscardLogger()})

	topic := testutil.SampleTopic()
	topic.Class = "Year 9"
	_, err := client.Generate(context.Background(), topic)
	assert.Equal(t, agenterr.CodeInvalidClassLevel, agenterr.CodeOf(err))

	topic = testutil.SampleTopic()
	topic.Term = "Harmattan Term"
	_, err = client.Generate(context.Background(), topic)
	assert.Equal(t, agenterr.CodeInvalidTerm, agenterr.CodeOf(err))

	assert.Empty(t, svc.Requests())
}

func TestServiceClient_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, ""},
		{"not found", http.StatusNotFound, ""},
		{"not json", 0, "<html>oops</html>"},
		{"schema violation", 0, strings.Replace(testutil.SampleLessonJSON, `"SECOND"`, `"SPRING"`, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := testutil.NewFakeGenerationService(t)
			svc.Status = tt.status
			svc.Body = tt.body
			client := NewServiceClient(ServiceConfig{BaseURL: svc.URL, Logger: testutil.DiscardLogger()})

			_, err := client.Generate(context.Background(), testutil.SampleTopic())
			assert.Equal(t, agenterr.CodeGeneration, agenterr.CodeOf(err), "err=%v", err)
		})
	}
}

func TestServiceClient_ConnectionFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewServiceClient(ServiceConfig{BaseURL: url, Logger: testutil.DiscardLogger()})
	_, err := client.Generate(context.Background(), testutil.SampleTopic())
	assert.Equal(t, agenterr.CodeGeneration, agenterr.CodeOf(err))
}

func TestMockGenerator(t *testing.T) {
	gen := NewMockGenerator()
	content, err := gen.Generate(context.Background(), testutil.SampleTopic())
	require.NoError(t, err)
	assert.Equal(t, 1, gen.Calls())

	data, err := json.Marshal(content)
	require.NoError(t, err)
	require.NoError(t, lesson.ValidateJSON(data), "mock lesson must satisfy the schema")

	topic := testutil.SampleTopic()
	topic.Class = "Nursery"
	_, err = gen.Generate(context.Background(), topic)
	assert.True(t, agenterr.HasCode(err, agenterr.CodeInvalidClassLevel))
	assert.Equal(t, 1, gen.Calls())
}
