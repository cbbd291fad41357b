package workflow

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/jackzampolin/lessonpress/internal/agenterr"
	"github.com/jackzampolin/lessonpress/internal/cache"
	"github.com/jackzampolin/lessonpress/internal/document"
	"github.com/jackzampolin/lessonpress/internal/generation"
	"github.com/jackzampolin/lessonpress/internal/lesson"
	"github.com/jackzampolin/lessonpress/internal/pipeline"
	"github.com/jackzampolin/lessonpress/internal/render"
	"github.com/jackzampolin/lessonpress/internal/surreal"
	"github.com/jackzampolin/lessonpress/internal/testutil"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreAnyFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreAnyFunction("net/http.(*persistConn).writeLoop"),
	)
}

type harness struct {
	store  *testutil.FakeSurreal
	gen    *testutil.FakeGenerationService
	cache  *cache.Memory
	assets testutil.AssetPaths
	wf     *Workflow
}

func newHarness(t *testing.T, policy pipeline.Policy) *harness {
	t.Helper()
	logger := testutil.DiscardLogger()

	h := &harness{
		store:  testutil.NewFakeSurreal(t),
		gen:    testutil.NewFakeGenerationService(t),
		cache:  cache.NewMemory(0),
		assets: testutil.WriteAssets(t, t.TempDir(), render.DefaultTemplate()),
	}

	client := surreal.NewClient(surreal.Config{URL: h.store.URL, Logger: logger})
	gen := generation.NewServiceClient(generation.ServiceConfig{
		BaseURL:   h.gen.URL,
		UserAgent: "lessonpress-test",
		Logger:    logger,
	})
	p, err := pipeline.New(pipeline.Config{Store: client, Generator: gen, Policy: policy, Logger: logger})
	require.NoError(t, err)

	renderer := render.New(render.Config{
		Assets: render.Assets{
			TemplatePath:  h.assets.Template,
			FontPath:      h.assets.Font,
			WatermarkPath: h.assets.Watermark,
		},
		Logger: logger,
	})

	h.wf, err = New(Config{Store: client, Pipeline: p, Renderer: renderer, Cache: h.cache, Logger: logger})
	require.NoError(t, err)
	return h
}

// seedLesson stores the sample lesson with its class level replaced.
func (h *harness) seedLesson(t *testing.T, class lesson.ClassLevel, week int) {
	t.Helper()
	var row map[string]any
	require.NoError(t, json.Unmarshal([]byte(testutil.SampleLessonJSON), &row))
	row["class_level"] = string(class)
	row["week"] = week
	row["source_id"] = "t1"
	h.store.AddRow(surreal.DefaultLessonTable, row)
}

func TestGenerateAndStoreSingleTopic(t *testing.T) {
	h := newHarness(t, pipeline.PolicyFailFast)
	h.store.AddTopic("lessons_term1", testutil.SampleTopic())

	report, err := h.wf.GenerateAndStore(context.Background(), "lessons_term1")
	require.NoError(t, err)

	records := report.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "t1", records[0].SourceID)
	assert.Equal(t, 1, h.store.Count("CREATE "))
	assert.Equal(t, 1, h.store.Count("SELECT "))

	var create string
	for _, s := range h.store.Statements() {
		if strings.HasPrefix(s, "CREATE ") {
			create = s
		}
	}
	assert.Contains(t, create, `"source_id":t1`)

	reqs := h.gen.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "PRIMARY_2", reqs[0]["class_level"])
	assert.Equal(t, "SECOND", reqs[0]["term"])
}

func TestGenerateAndStoreEmptyTable(t *testing.T) {
	h := newHarness(t, pipeline.PolicyFailFast)

	for i := 0; i < 2; i++ {
		report, err := h.wf.GenerateAndStore(context.Background(), "missing_table")
		require.NoError(t, err)
		assert.Empty(t, report.Records())
	}
	assert.Empty(t, h.gen.Requests())
}

func TestGenerateAndStoreSelectFailed(t *testing.T) {
	h := newHarness(t, pipeline.PolicyFailFast)
	h.store.AddTopic("lessons_term1", testutil.SampleTopic())
	h.store.SelectStatus = "FAILED"

	_, err := h.wf.GenerateAndStore(context.Background(), "lessons_term1")
	require.Error(t, err)
	assert.Equal(t, agenterr.CodeQueryFailed, agenterr.CodeOf(err))
	assert.Empty(t, h.gen.Requests())
	assert.Equal(t, 0, h.store.Count("CREATE "))
}

func TestGenerateAndStoreGenerationFails(t *testing.T) {
	h := newHarness(t, pipeline.PolicyFailFast)
	h.store.AddTopic("lessons_term1", testutil.SampleTopic())
	second := testutil.SampleTopic()
	second.ID = "t2"
	second.Topic = "Quarters"
	second.Week = 4
	h.store.AddTopic("lessons_term1", second)
	h.gen.Status = http.StatusInternalServerError

	report, err := h.wf.GenerateAndStore(context.Background(), "lessons_term1")
	require.Error(t, err)
	assert.Equal(t, agenterr.CodeContentGeneration, agenterr.CodeOf(err))
	assert.True(t, agenterr.HasCode(err, agenterr.CodeGeneration))
	assert.Contains(t, err.Error(), "Maths: Fractions (2nd Term, Year 2, week 3)")

	assert.Len(t, h.gen.Requests(), 1, "remaining topics are not attempted")
	assert.Equal(t, 0, h.store.Count("CREATE "))
	assert.Empty(t, report.Records())

	payload := agenterr.ToPayload(err)
	assert.Equal(t, agenterr.CodeContentGeneration, payload.Code)
}

func TestGenerateAndStoreInvalidTable(t *testing.T) {
	h := newHarness(t, pipeline.PolicyFailFast)

	_, err := h.wf.GenerateAndStore(context.Background(), "lessons; DELETE lesson_content")
	assert.True(t, agenterr.HasCode(err, agenterr.CodeInvalidRequest))
	assert.Empty(t, h.store.Statements())
}

func TestRenderPDF(t *testing.T) {
	h := newHarness(t, pipeline.PolicyFailFast)
	h.seedLesson(t, lesson.Primary3, 1)
	h.seedLesson(t, lesson.Primary3, 2)

	contentType, body := h.wf.RenderPDF(context.Background(), "Maths", "PRIMARY_3", "teacher")
	require.Equal(t, ContentTypePDF, contentType, "body: %s", body)
	assert.NotEmpty(t, body)
	assert.True(t, testutil.IsPDF(body))

	pages, err := render.PageCount(body)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, pages, 3)
}

func TestRenderPDFAssetFailure(t *testing.T) {
	h := newHarness(t, pipeline.PolicyFailFast)
	h.seedLesson(t, lesson.Primary3, 1)
	require.NoError(t, os.Remove(h.assets.Font))

	contentType, body := h.wf.RenderPDF(context.Background(), "Maths", "PRIMARY_3", "teacher")
	assert.Equal(t, ContentTypeText, contentType)
	assert.Contains(t, string(body), "read font")
	assert.Contains(t, string(body), h.assets.Font)
}

func TestRenderPDFFailures(t *testing.T) {
	h := newHarness(t, pipeline.PolicyFailFast)
	h.seedLesson(t, lesson.Primary3, 1)
	h.seedLesson(t, lesson.JSS1, 1)

	tests := []struct {
		name    string
		subject string
		class   string
		mode    string
		code    agenterr.Code
	}{
		{"no lessons", "English", "PRIMARY_3", "pupil", agenterr.CodeNotFound},
		{"bad mode", "Maths", "PRIMARY_3", "parent", agenterr.CodeInvalidRequest},
		{"missing subject", "", "PRIMARY_3", "pupil", agenterr.CodeInvalidRequest},
		{"bad class", "Maths", "Year 3", "pupil", agenterr.CodeInvalidClassLevel},
		{"no class code", "Maths", "JSS_1", "pupil", agenterr.CodeInvalidClassLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.wf.Render(context.Background(), RenderRequest{Subject: tt.subject, Class: tt.class, Mode: tt.mode})
			assert.True(t, agenterr.HasCode(err, tt.code), "got %v", err)

			contentType, body := h.wf.RenderPDF(context.Background(), tt.subject, tt.class, tt.mode)
			assert.Equal(t, ContentTypeText, contentType)
			assert.Equal(t, err.Error(), string(body))
		})
	}
}

func TestRenderPDFStoreFailure(t *testing.T) {
	h := newHarness(t, pipeline.PolicyFailFast)
	h.seedLesson(t, lesson.Primary3, 1)
	h.store.SelectStatus = "FAILED"

	contentType, _ := h.wf.RenderPDF(context.Background(), "Maths", "PRIMARY_3", "pupil")
	assert.Equal(t, ContentTypeText, contentType)

	_, err := h.wf.Render(context.Background(), RenderRequest{Subject: "Maths", Class: "PRIMARY_3", Mode: "pupil"})
	assert.True(t, agenterr.HasCode(err, agenterr.CodeQueryFailed))
}

func TestRenderCache(t *testing.T) {
	h := newHarness(t, pipeline.PolicyFailFast)
	h.seedLesson(t, lesson.Primary2, 3)
	ctx := context.Background()

	first, err := h.wf.Render(ctx, RenderRequest{Subject: "Maths", Class: "PRIMARY_2", Mode: "pupil"})
	require.NoError(t, err)
	selects := h.store.Count("SELECT ")

	second, err := h.wf.Render(ctx, RenderRequest{Subject: "Maths", Class: "PRIMARY_2", Mode: "pupil"})
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, selects, h.store.Count("SELECT "), "second render is served from cache")
	assert.Equal(t, 1, h.cache.Len())

	h.store.AddTopic("lessons_term1", testutil.SampleTopic())
	_, err = h.wf.GenerateAndStore(ctx, "lessons_term1")
	require.NoError(t, err)
	assert.Equal(t, 0, h.cache.Len(), "storing lessons purges cached renders")
}

func TestRenderCacheFollowsAssetEdits(t *testing.T) {
	h := newHarness(t, pipeline.PolicyFailFast)
	h.seedLesson(t, lesson.Primary2, 3)
	ctx := context.Background()
	req := RenderRequest{Subject: "Maths", Class: "PRIMARY_2", Mode: "pupil"}

	_, err := h.wf.Render(ctx, req)
	require.NoError(t, err)
	selects := h.store.Count("SELECT ")

	edited := render.DefaultTemplate() + "\n#space 2\n"
	require.NoError(t, os.WriteFile(h.assets.Template, []byte(edited), 0o644))
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(h.assets.Template, later, later))

	_, err = h.wf.Render(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, selects+1, h.store.Count("SELECT "), "edited template is rendered again")
	assert.Equal(t, 2, h.cache.Len())
}

// gatedRenderer blocks every render until release is closed.
type gatedRenderer struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
	calls   atomic.Int32
}

func (g *gatedRenderer) Render(ctx context.Context, _ *document.Document) ([]byte, error) {
	g.calls.Add(1)
	g.once.Do(func() { close(g.started) })
	select {
	case <-g.release:
		return []byte("%PDF-1.7 gated"), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (g *gatedRenderer) Fingerprint() string { return "gated" }

func TestRenderSharedSurvivesCallerCancel(t *testing.T) {
	h := newHarness(t, pipeline.PolicyFailFast)
	h.seedLesson(t, lesson.Primary2, 3)

	g := &gatedRenderer{started: make(chan struct{}), release: make(chan struct{})}
	wf, err := New(Config{Store: h.wf.store, Pipeline: h.wf.pipeline, Renderer: g, Cache: h.cache, Logger: testutil.DiscardLogger()})
	require.NoError(t, err)
	req := RenderRequest{Subject: "Maths", Class: "PRIMARY_2", Mode: "pupil"}

	leaderCtx, cancelLeader := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, err := wf.Render(leaderCtx, req)
		leaderErr <- err
	}()
	<-g.started

	type result struct {
		pdf []byte
		err error
	}
	follower := make(chan result, 1)
	go func() {
		pdf, err := wf.Render(context.Background(), req)
		follower <- result{pdf, err}
	}()

	cancelLeader()
	err = <-leaderErr
	assert.True(t, agenterr.HasCode(err, agenterr.CodeCanceled))

	close(g.release)
	res := <-follower
	require.NoError(t, res.err)
	assert.Equal(t, "%PDF-1.7 gated", string(res.pdf))
	assert.Equal(t, int32(1), g.calls.Load(), "caller cancellation does not abort the shared render")
}

func TestRenderConcurrent(t *testing.T) {
	h := newHarness(t, pipeline.PolicyFailFast)
	h.seedLesson(t, lesson.Primary2, 3)

	var wg sync.WaitGroup
	results := make([]string, 6)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ct, _ := h.wf.RenderPDF(context.Background(), "Maths", "PRIMARY_2", "pupil")
			results[i] = ct
		}(i)
	}
	wg.Wait()

	for _, ct := range results {
		assert.Equal(t, ContentTypePDF, ct)
	}
}

func TestLessonsAndTopics(t *testing.T) {
	h := newHarness(t, pipeline.PolicyFailFast)
	h.seedLesson(t, lesson.Primary2, 3)
	h.store.AddTopic("lessons_term1", testutil.SampleTopic())
	ctx := context.Background()

	lessons, err := h.wf.Lessons(ctx, LessonsRequest{Subject: "Maths", Class: "PRIMARY_2"})
	require.NoError(t, err)
	require.Len(t, lessons, 1)
	assert.Equal(t, "Fractions", lessons[0].TopicTitle)

	_, err = h.wf.Lessons(ctx, LessonsRequest{Subject: "Maths"})
	assert.True(t, agenterr.HasCode(err, agenterr.CodeInvalidRequest))

	topics, err := h.wf.Topics(ctx, "lessons_term1")
	require.NoError(t, err)
	assert.Equal(t, []lesson.TopicRecord{testutil.SampleTopic()}, topics)
}

func TestNewValidation(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}
