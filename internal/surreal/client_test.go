package surreal

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jackzampolin/lessonpress/internal/agenterr"
	"github.com/jackzampolin/lessonpress/internal/testutil"
)

func newTestClient(url string) *Client {
	return NewClient(Config{URL: url, Logger: testutil.DiscardLogger()})
}

func TestClient_HealthCheck(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		wantErr    bool
	}{
		{"healthy", http.StatusOK, false},
		{"unhealthy_500", http.StatusInternalServerError, true},
		{"unhealthy_503", http.StatusServiceUnavailable, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/health" {
					t.Errorf("unexpected path: %s", r.URL.Path)
				}
				w.WriteHeader(tt.statusCode)
			}))
			defer server.Close()

			err := newTestClient(server.URL).HealthCheck(context.Background())
			if (err != nil) != tt.wantErr {
				t.Errorf("HealthCheck() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestClient_Query_Request(t *testing.T) {
	var gotBody, gotAuth, gotAccept, gotQuery, gotNS, gotDB string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/sql" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		gotQuery = r.URL.RawQuery
		gotNS = r.Header.Get("Surreal-NS")
		gotDB = r.Header.Get("Surreal-DB")
		w.Write([]byte(`[{"status":"OK","result":null},{"status":"OK","result":[]}]`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Query(context.Background(), client.batch(selectAll("lessons_term1")), map[string]string{"subject": "Maths"})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}

	if gotBody != "USE NS main DB contents; SELECT * FROM lessons_term1;" {
		t.Errorf("body = %q", gotBody)
	}
	if want := "Basic " + base64.StdEncoding.EncodeToString([]byte("root:secret")); gotAuth != want {
		t.Errorf("Authorization = %q, want %q", gotAuth, want)
	}
	if gotAuth != "Basic cm9vdDpzZWNyZXQ=" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotAccept != "application/json" {
		t.Errorf("Accept = %q", gotAccept)
	}
	if gotQuery != "subject=Maths" {
		t.Errorf("query = %q", gotQuery)
	}
	if gotNS != "main" || gotDB != "contents" {
		t.Errorf("namespace headers = %q/%q", gotNS, gotDB)
	}
}

func TestStatementBatches(t *testing.T) {
	client := newTestClient("http://localhost:8000")

	if got := client.batch(selectAll("topics")); got != "USE NS main DB contents; SELECT * FROM topics;" {
		t.Errorf("select batch = %q", got)
	}
	if got := single(createContent("lesson_content", []byte(`{"week":1}`))); got != `CREATE lesson_content CONTENT {"week":1};` {
		t.Errorf("create batch = %q", got)
	}
}

func TestClient_Query_Errors(t *testing.T) {
	t.Run("non_2xx", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bad auth", http.StatusUnauthorized)
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).Query(context.Background(), "INFO FOR DB;", nil)
		if code := agenterr.CodeOf(err); code != agenterr.CodeQuery {
			t.Errorf("code = %s, want %s (err=%v)", code, agenterr.CodeQuery, err)
		}
	})

	t.Run("connection_refused", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		url := server.URL
		server.Close()

		_, err := newTestClient(url).Query(context.Background(), "INFO FOR DB;", nil)
		if code := agenterr.CodeOf(err); code != agenterr.CodeConnection {
			t.Errorf("code = %s, want %s (err=%v)", code, agenterr.CodeConnection, err)
		}
	})

	t.Run("cancelled_context", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(100 * time.Millisecond)
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := newTestClient(server.URL).Query(ctx, "INFO FOR DB;", nil); err == nil {
			t.Error("expected error from cancelled context")
		}
	})
}

func TestDecodeStatement(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		index    int
		wantCode agenterr.Code
	}{
		{"select ok", `[{"status":"OK","result":null},{"status":"OK","result":[]}]`, selectResultIndex, ""},
		{"create ok", `[{"status":"OK","result":[{"id":"x:1"}]}]`, createResultIndex, ""},
		{"not json", `<html>`, 0, agenterr.CodeParse},
		{"not array", `{"status":"OK"}`, 0, agenterr.CodeParse},
		{"failed status", `[{"status":"OK","result":null},{"status":"FAILED","result":"boom"}]`, 1, agenterr.CodeQueryFailed},
		{"missing status", `[{"result":[]}]`, 0, agenterr.CodeQueryFailed},
		{"too short", `[{"status":"OK","result":null}]`, selectResultIndex, agenterr.CodeInsufficientResults},
		{"empty array", `[]`, createResultIndex, agenterr.CodeInsufficientResults},
		{"missing result", `[{"status":"OK"}]`, 0, agenterr.CodeMissingResult},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeStatement([]byte(tt.body), tt.index)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("decodeStatement() error = %v", err)
				}
				return
			}
			if code := agenterr.CodeOf(err); code != tt.wantCode {
				t.Errorf("code = %s, want %s (err=%v)", code, tt.wantCode, err)
			}
		})
	}
}

func TestDecodeRecords(t *testing.T) {
	type row struct {
		Name string `json:"name"`
	}

	got, err := decodeRecords[row]([]byte(`[{"status":"OK","result":null},{"status":"OK","result":null}]`), 1)
	if err != nil || got == nil || len(got) != 0 {
		t.Errorf("null result: got %v, %v; want empty slice", got, err)
	}

	got, err = decodeRecords[row]([]byte(`[{"status":"OK","result":[{"name":"a"},{"name":"b"}]}]`), 0)
	if err != nil || len(got) != 2 || got[1].Name != "b" {
		t.Errorf("records: got %v, %v", got, err)
	}

	_, err = decodeRecords[row]([]byte(`[{"status":"OK","result":"text"}]`), 0)
	if code := agenterr.CodeOf(err); code != agenterr.CodeUnexpectedResult {
		t.Errorf("scalar result: code = %s, want %s", code, agenterr.CodeUnexpectedResult)
	}

	_, err = decodeRecords[row]([]byte(`[{"status":"OK","result":[{"name":5}]}]`), 0)
	if code := agenterr.CodeOf(err); code != agenterr.CodeDeserialize {
		t.Errorf("bad record: code = %s, want %s", code, agenterr.CodeDeserialize)
	}
}

func TestValidateRecordID(t *testing.T) {
	valid := []string{"t1", "lessons_term1:t1", "topic:abc123XYZ"}
	for _, id := range valid {
		if err := ValidateRecordID(id); err != nil {
			t.Errorf("ValidateRecordID(%q) = %v", id, err)
		}
	}
	invalid := []string{"", "t1; DELETE lesson_content", `"t1"`, "a:b:c", "t 1", "topic:t-1", strings.Repeat("a", 300)}
	for _, id := range invalid {
		if err := ValidateRecordID(id); err == nil {
			t.Errorf("ValidateRecordID(%q) = nil, want error", id)
		}
	}
}

func TestValidateTable(t *testing.T) {
	if err := ValidateTable("lessons_term1"); err != nil {
		t.Errorf("ValidateTable() = %v", err)
	}
	for _, name := range []string{"", "1lessons", "lessons;", "lessons term", "a:b"} {
		if err := ValidateTable(name); err == nil {
			t.Errorf("ValidateTable(%q) = nil, want error", name)
		}
	}
}
