package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/jackzampolin/lessonpress/internal/lesson"
)

var bareSourceID = regexp.MustCompile(`"source_id":([A-Za-z0-9_:]+)`)

// FakeSurreal is an in-memory stand-in for the SurrealDB /sql endpoint.
// It understands the three statements lessonpress issues.
type FakeSurreal struct {
	*httptest.Server

	mu         sync.Mutex
	tables     map[string][]map[string]any
	statements []string
	auth       []string
	nextID     int

	// SelectStatus is reported for SELECT statements. Defaults to "OK".
	SelectStatus string
	// CreateBody, when set, is returned verbatim for CREATE statements.
	CreateBody string
}

// NewFakeSurreal starts a fake store and closes it when t ends.
func NewFakeSurreal(t testing.TB) *FakeSurreal {
	t.Helper()
	f := &FakeSurreal{
		tables:       make(map[string][]map[string]any),
		SelectStatus: "OK",
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.Close)
	return f
}

// AddTopic seeds table with a topic record.
func (f *FakeSurreal) AddTopic(table string, topic lesson.TopicRecord) {
	data, _ := json.Marshal(topic)
	var row map[string]any
	_ = json.Unmarshal(data, &row)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.tables[table] = append(f.tables[table], row)
}

// AddRow seeds table with an arbitrary record.
func (f *FakeSurreal) AddRow(table string, row map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tables[table] = append(f.tables[table], row)
}

// Rows returns the records stored in table.
func (f *FakeSurreal) Rows(table string) []map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]map[string]any(nil), f.tables[table]...)
}

// Statements returns every statement received, without the namespace prefix.
func (f *FakeSurreal) Statements() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.statements...)
}

// Count returns how many received statements start with prefix.
func (f *FakeSurreal) Count(prefix string) int {
	n := 0
	for _, s := range f.Statements() {
		if strings.HasPrefix(s, prefix) {
			n++
		}
	}
	return n
}

// Authorizations returns the Authorization headers received.
func (f *FakeSurreal) Authorizations() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.auth...)
}

func (f *FakeSurreal) handle(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/health" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.URL.Path != "/sql" || r.Method != http.MethodPost {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	body, _ := io.ReadAll(r.Body)
	stmt := string(body)
	if strings.HasPrefix(stmt, "USE ") {
		_, stmt, _ = strings.Cut(stmt, "; ")
	} else if r.Header.Get("Surreal-NS") == "" || r.Header.Get("Surreal-DB") == "" {
		http.Error(w, "no namespace selected", http.StatusBadRequest)
		return
	}
	stmt = strings.TrimSuffix(stmt, ";")

	f.mu.Lock()
	f.statements = append(f.statements, stmt)
	f.auth = append(f.auth, r.Header.Get("Authorization"))
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch {
	case strings.HasPrefix(stmt, "SELECT * FROM "):
		f.handleSelect(w, r, stmt)
	case strings.HasPrefix(stmt, "CREATE "):
		f.handleCreate(w, stmt)
	default:
		http.Error(w, "unsupported statement", http.StatusBadRequest)
	}
}

func (f *FakeSurreal) handleSelect(w http.ResponseWriter, r *http.Request, stmt string) {
	rest := strings.TrimPrefix(stmt, "SELECT * FROM ")
	table, _, _ := strings.Cut(rest, " ")

	f.mu.Lock()
	rows, exists := f.tables[table]
	rows = append([]map[string]any(nil), rows...)
	status := f.SelectStatus
	f.mu.Unlock()

	if strings.Contains(stmt, "WHERE") {
		subject := r.URL.Query().Get("subject")
		class := r.URL.Query().Get("class")
		var matched []map[string]any
		for _, row := range rows {
			if row["subject"] == subject && row["class_level"] == class {
				matched = append(matched, row)
			}
		}
		rows = matched
	}

	var result any
	if exists {
		if rows == nil {
			rows = []map[string]any{}
		}
		result = rows
	}
	if status != "OK" {
		result = "There was a problem with the database"
	}
	writeJSON(w, []map[string]any{
		{"status": "OK", "result": nil},
		{"status": status, "result": result},
	})
}

func (f *FakeSurreal) handleCreate(w http.ResponseWriter, stmt string) {
	if f.CreateBody != "" {
		_, _ = io.WriteString(w, f.CreateBody)
		return
	}

	rest := strings.TrimPrefix(stmt, "CREATE ")
	table, content, ok := strings.Cut(rest, " CONTENT ")
	if !ok {
		http.Error(w, "missing CONTENT", http.StatusBadRequest)
		return
	}
	quoted := bareSourceID.ReplaceAllString(content, `"source_id":"$1"`)

	var row map[string]any
	if err := json.Unmarshal([]byte(quoted), &row); err != nil {
		writeJSON(w, []map[string]any{{"status": "ERR", "result": err.Error()}})
		return
	}

	f.mu.Lock()
	f.nextID++
	row["id"] = fmt.Sprintf("%s:%d", table, f.nextID)
	f.tables[table] = append(f.tables[table], row)
	f.mu.Unlock()

	writeJSON(w, []map[string]any{{"status": "OK", "result": []map[string]any{row}}})
}

// FakeGenerationService is a stand-in for the lesson generation service.
type FakeGenerationService struct {
	*httptest.Server

	mu       sync.Mutex
	requests []map[string]any
	headers  []http.Header

	// Status, when non-zero, is returned instead of a lesson.
	Status int
	// Body, when set, replaces SampleLessonJSON.
	Body string
}

// NewFakeGenerationService starts a fake generation service.
func NewFakeGenerationService(t testing.TB) *FakeGenerationService {
	t.Helper()
	f := &FakeGenerationService{}
	f.Server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.Close)
	return f
}

// Requests returns the decoded request bodies received.
func (f *FakeGenerationService) Requests() []map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]map[string]any(nil), f.requests...)
}

// Headers returns the request headers received.
func (f *FakeGenerationService) Headers() []http.Header {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]http.Header(nil), f.headers...)
}

func (f *FakeGenerationService) handle(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/call/GenerateNigerianLesson" || r.Method != http.MethodPost {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	var req map[string]any
	_ = json.NewDecoder(r.Body).Decode(&req)

	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.headers = append(f.headers, r.Header.Clone())
	status, body := f.Status, f.Body
	f.mu.Unlock()

	if status != 0 {
		http.Error(w, "generation failed", status)
		return
	}
	if body == "" {
		body = SampleLessonJSON
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, body)
}

func writeJSON(w http.ResponseWriter, v any) {
	_ = json.NewEncoder(w).Encode(v)
}
