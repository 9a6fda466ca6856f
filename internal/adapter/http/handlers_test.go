package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	cfhttp "github.com/Strob0t/VerifyGate/internal/adapter/http"
	"github.com/Strob0t/VerifyGate/internal/domain"
	"github.com/Strob0t/VerifyGate/internal/domain/job"
	"github.com/Strob0t/VerifyGate/internal/domain/verification"
	"github.com/Strob0t/VerifyGate/internal/service"
)

// mockQueue implements taskqueue.Client for testing.
type mockQueue struct {
	mu       sync.Mutex
	enqueued []verification.EnqueueRequest
	output   string
	tasks    map[string]job.Task
	logs     map[string]job.TaskLog
	err      error
}

func (m *mockQueue) Enqueue(_ context.Context, req verification.EnqueueRequest) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enqueued = append(m.enqueued, req)
	if m.err != nil {
		return nil, m.err
	}
	return []byte(m.output), nil
}

func (m *mockQueue) ListStatus(context.Context) (*job.Snapshot, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &job.Snapshot{Tasks: m.tasks}, nil
}

func (m *mockQueue) GetLog(_ context.Context, id int) (*job.TaskLog, error) {
	if m.err != nil {
		return nil, m.err
	}
	entry, ok := m.logs[fmt.Sprint(id)]
	if !ok {
		return nil, fmt.Errorf("task %d: %w", id, domain.ErrNotFound)
	}
	return &entry, nil
}

func (m *mockQueue) invocations() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.enqueued)
}

func newTestRouter(q *mockQueue) chi.Router {
	h := &cfhttp.Handlers{
		Verifications: service.NewVerificationService(q, nil, nil),
	}
	r := chi.NewRouter()
	cfhttp.MountRoutes(r, h)
	return r
}

func newTask(id int) job.Task {
	return job.Task{
		ID:        id,
		Command:   fmt.Sprintf("secret-contract-verifier --repo git@h:r%d.git --commit HEAD", id),
		Status:    job.NewStatus(job.StatusRunning),
		CreatedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
}

func postForm(t *testing.T, r http.Handler, values url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/enqueue", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func get(t *testing.T, r http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body.Error
}

func TestRootUsage(t *testing.T) {
	rec := get(t, newTestRouter(&mockQueue{}), "/")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain") {
		t.Errorf("unexpected content type %q", rec.Header().Get("Content-Type"))
	}
	for _, want := range []string{"/status", "/status/<id>", "/enqueue"} {
		if !strings.Contains(rec.Body.String(), want) {
			t.Errorf("usage missing %q", want)
		}
	}
}

func TestHealth(t *testing.T) {
	rec := get(t, newTestRouter(&mockQueue{}), "/health")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != `{"status":"ok"}` {
		t.Errorf("unexpected body %q", rec.Body.String())
	}
}

func TestEnqueueEchoesQueueOutput(t *testing.T) {
	q := &mockQueue{output: "42"}
	rec := postForm(t, newTestRouter(q), url.Values{
		"repo":   {"https://github.com/example/contract.git"},
		"commit": {"HEAD"},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Body.String() != "42" {
		t.Errorf("body = %q, want 42", rec.Body.String())
	}
	if !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain") {
		t.Errorf("unexpected content type %q", rec.Header().Get("Content-Type"))
	}
}

func TestEnqueueDefaultsCommitAndTreatsEmptyOptimizerAsAbsent(t *testing.T) {
	q := &mockQueue{output: "1"}
	rec := postForm(t, newTestRouter(q), url.Values{
		"repo":      {"git@github.com:example/contract.git"},
		"optimizer": {""},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	got := q.enqueued[0]
	if got.Commit != "HEAD" {
		t.Errorf("commit = %q, want HEAD", got.Commit)
	}
	if got.HasOptimizer() {
		t.Errorf("empty optimizer should be absent, got %q", got.Optimizer)
	}
}

func TestEnqueueValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		form    url.Values
		wantMsg string
	}{
		{
			name:    "missing repo",
			form:    url.Values{"commit": {"HEAD"}},
			wantMsg: "repo is required",
		},
		{
			name:    "bad prefix",
			form:    url.Values{"repo": {"http://example.com/x.git"}},
			wantMsg: "Repository must start with git@ or https://",
		},
		{
			name:    "https without .git",
			form:    url.Values{"repo": {"https://example.com/x"}},
			wantMsg: "Repository must end with .git",
		},
		{
			name:    "short commit",
			form:    url.Values{"repo": {"git@h:x.git"}, "commit": {"abc"}},
			wantMsg: "Commit must be at least 4 characters long",
		},
		{
			name:    "invalid optimizer",
			form:    url.Values{"repo": {"git@h:x.git"}, "optimizer": {"1.2.x"}},
			wantMsg: "Optimizer version parts must only contain digits",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &mockQueue{output: "1"}
			rec := postForm(t, newTestRouter(q), tt.form)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			if got := decodeError(t, rec); got != tt.wantMsg {
				t.Errorf("error = %q, want %q", got, tt.wantMsg)
			}
			if q.invocations() != 0 {
				t.Errorf("queue invoked %d times, want 0", q.invocations())
			}
		})
	}
}

func TestEnqueueBodyTooLarge(t *testing.T) {
	q := &mockQueue{output: "1"}
	h := &cfhttp.Handlers{Verifications: service.NewVerificationService(q, nil, nil), BodyLimit: 32}
	r := chi.NewRouter()
	cfhttp.MountRoutes(r, h)

	rec := postForm(t, r, url.Values{"repo": {"git@h:" + strings.Repeat("a", 64) + ".git"}})
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", rec.Code)
	}
}

func TestEnqueueInvocationFailure(t *testing.T) {
	q := &mockQueue{err: fmt.Errorf("pueue add: %w", domain.ErrInvocation)}
	rec := postForm(t, newTestRouter(q), url.Values{"repo": {"git@h:x.git"}})

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if got := decodeError(t, rec); got != "internal server error" {
		t.Errorf("error body leaks details: %q", got)
	}
}

func TestListStatusSortedWithNullOutput(t *testing.T) {
	q := &mockQueue{tasks: map[string]job.Task{"3": newTask(3), "1": newTask(1), "2": newTask(2)}}
	rec := get(t, newTestRouter(q), "/status")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("Content-Type") != "application/json" {
		t.Errorf("unexpected content type %q", rec.Header().Get("Content-Type"))
	}

	var body struct {
		Tasks []map[string]json.RawMessage `json:"tasks"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(body.Tasks))
	}
	for i, task := range body.Tasks {
		if string(task["id"]) != fmt.Sprint(i+1) {
			t.Errorf("position %d has id %s", i, task["id"])
		}
		if string(task["output"]) != "null" {
			t.Errorf("task %s: output = %s, want null", task["id"], task["output"])
		}
		if string(task["status"]) != `"Running"` {
			t.Errorf("task %s: status = %s", task["id"], task["status"])
		}
	}
}

func TestListStatusEmpty(t *testing.T) {
	rec := get(t, newTestRouter(&mockQueue{}), "/status")

	if strings.TrimSpace(rec.Body.String()) != `{"tasks":[]}` {
		t.Errorf("unexpected body %q", rec.Body.String())
	}
}

func TestListStatusInvocationFailure(t *testing.T) {
	q := &mockQueue{err: domain.ErrInvocation}
	rec := get(t, newTestRouter(q), "/status")

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestGetStatusWithOutput(t *testing.T) {
	q := &mockQueue{logs: map[string]job.TaskLog{"5": {Output: "verified\n", Task: newTask(5)}}}
	rec := get(t, newTestRouter(q), "/status/5")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var td job.TaskDisplayable
	if err := json.NewDecoder(rec.Body).Decode(&td); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if td.ID != 5 {
		t.Errorf("id = %d", td.ID)
	}
	if td.Output == nil || *td.Output != "verified\n" {
		t.Errorf("output = %v", td.Output)
	}
}

func TestGetStatusErrors(t *testing.T) {
	tests := []struct {
		path string
		want int
	}{
		{"/status/99", http.StatusNotFound},
		{"/status/abc", http.StatusBadRequest},
		{"/status/-1", http.StatusBadRequest},
		{"/status/1.5", http.StatusBadRequest},
		{"/status/99999999999999999999999", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := get(t, newTestRouter(&mockQueue{logs: map[string]job.TaskLog{}}), tt.path)
			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, rec.Code)
			}
			if decodeError(t, rec) == "" {
				t.Error("expected JSON error body")
			}
		})
	}
}

func TestUnknownRouteAndMethod(t *testing.T) {
	r := newTestRouter(&mockQueue{})

	if rec := get(t, r, "/nope"); rec.Code != http.StatusNotFound {
		t.Errorf("unknown route: expected 404, got %d", rec.Code)
	}
	if rec := get(t, r, "/enqueue"); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET /enqueue: expected 405, got %d", rec.Code)
	}
}
