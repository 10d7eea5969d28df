package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"

	"github.com/swedish-year-planner/api/internal/model"
	"github.com/swedish-year-planner/api/internal/storage"
	"github.com/swedish-year-planner/api/internal/telemetry"
)

func newTestServer(t *testing.T) (*httptest.Server, storage.Store) {
	t.Helper()

	store := storage.NewMemoryStore()
	tracker := NewUserTracker()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	metrics, err := telemetry.NewMetrics(otel.Meter("test"), tracker.Count)
	if err != nil {
		t.Fatalf("new metrics: %v", err)
	}

	h := NewPlannerHandler(store, tracker, logger, metrics, "test")
	r := chi.NewRouter()
	r.Mount("/api", h.Routes())

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, store
}

func doRequest(t *testing.T, srv *httptest.Server, method, path, user, body string) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if user != "" {
		req.Header.Set("X-User-ID", user)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, data
}

func TestHealth(t *testing.T) {
	t.Parallel()
	srv, _ := newTestServer(t)

	resp, body := doRequest(t, srv, http.MethodGet, "/api/health", "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var health map[string]string
	if err := json.Unmarshal(body, &health); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if health["status"] != "healthy" {
		t.Errorf("status = %q", health["status"])
	}
	if health["version"] != apiVersion {
		t.Errorf("version = %q", health["version"])
	}
	if health["environment"] != "test" {
		t.Errorf("environment = %q", health["environment"])
	}
}

func TestGetItems_EmptyCollectionIsArray(t *testing.T) {
	t.Parallel()
	srv, _ := newTestServer(t)

	resp, body := doRequest(t, srv, http.MethodGet, "/api/events", "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if got := strings.TrimSpace(string(body)); got != "[]" {
		t.Fatalf("expected empty array, got %q", got)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestSaveAndGetItems_RoundTrip(t *testing.T) {
	t.Parallel()
	srv, _ := newTestServer(t)

	payload := `[{"id":"e1","title":"Midsommar","startDate":"06-20","endDate":"06-22","recurring":true,"extra":"kept"}]`
	resp, body := doRequest(t, srv, http.MethodPost, "/api/events", "user-a", payload)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("save status = %d: %s", resp.StatusCode, body)
	}

	var saved struct {
		Success bool `json:"success"`
		Count   int  `json:"count"`
	}
	if err := json.Unmarshal(body, &saved); err != nil {
		t.Fatalf("decode save response: %v", err)
	}
	if !saved.Success || saved.Count != 1 {
		t.Fatalf("unexpected save response: %+v", saved)
	}

	resp, body = doRequest(t, srv, http.MethodGet, "/api/events", "user-a", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status = %d", resp.StatusCode)
	}

	var items []map[string]any
	if err := json.Unmarshal(body, &items); err != nil {
		t.Fatalf("decode items: %v", err)
	}
	if len(items) != 1 || items[0]["title"] != "Midsommar" {
		t.Fatalf("unexpected items: %+v", items)
	}
	// Unknown fields survive the round trip untouched.
	if items[0]["extra"] != "kept" {
		t.Fatalf("extra field dropped: %+v", items[0])
	}
}

func TestSaveItems_InvalidBody(t *testing.T) {
	t.Parallel()
	srv, _ := newTestServer(t)

	resp, body := doRequest(t, srv, http.MethodPost, "/api/tasks", "", `{not json`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}

	var errResp map[string]string
	if err := json.Unmarshal(body, &errResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if errResp["error"] == "" {
		t.Fatalf("expected error message, got %s", body)
	}
}

func TestUserIsolation(t *testing.T) {
	t.Parallel()
	srv, _ := newTestServer(t)

	doRequest(t, srv, http.MethodPost, "/api/tasks", "user-a", `[{"id":"t1","title":"Handla"}]`)

	// user-b sees nothing.
	_, body := doRequest(t, srv, http.MethodGet, "/api/tasks", "user-b", "")
	if got := strings.TrimSpace(string(body)); got != "[]" {
		t.Fatalf("user-b should have no tasks, got %q", got)
	}

	// Missing header scopes to "anonymous", which is also isolated.
	_, body = doRequest(t, srv, http.MethodGet, "/api/tasks", "", "")
	if got := strings.TrimSpace(string(body)); got != "[]" {
		t.Fatalf("anonymous should have no tasks, got %q", got)
	}
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	t.Parallel()
	srv, _ := newTestServer(t)

	resp, body := doRequest(t, srv, http.MethodGet, "/api/nonexistent", "", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	var errResp map[string]string
	if err := json.Unmarshal(body, &errResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if errResp["error"] != "Endpoint not found" {
		t.Errorf("error = %q", errResp["error"])
	}

	resp, body = doRequest(t, srv, http.MethodDelete, "/api/events", "", "")
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	if err := json.Unmarshal(body, &errResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if errResp["error"] != "Method not allowed" {
		t.Errorf("error = %q", errResp["error"])
	}
}

func TestAnalytics(t *testing.T) {
	t.Parallel()
	srv, _ := newTestServer(t)

	doRequest(t, srv, http.MethodPost, "/api/events", "user-a",
		`[{"id":"e1","title":"Midsommar","startDate":"06-20","recurring":true},
		  {"id":"e2","title":"Skolstart","startDate":"2025-08-20"}]`)
	doRequest(t, srv, http.MethodPost, "/api/tasks", "user-a",
		`[{"id":"t1","title":"Klar","dueDate":"2025-06-01","completed":true},
		  {"id":"t2","title":"Kvar","dueDate":"2025-06-02"}]`)

	resp, body := doRequest(t, srv, http.MethodGet, "/api/analytics", "user-a", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}

	var a model.Analytics
	if err := json.Unmarshal(body, &a); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if a.TotalEvents != 2 || a.TotalTasks != 2 {
		t.Fatalf("unexpected totals: %+v", a)
	}
	if a.CompletedTasks != 1 || a.RecurringEvents != 1 {
		t.Fatalf("unexpected counts: %+v", a)
	}
	if a.LastUpdated == "" {
		t.Errorf("LastUpdated missing")
	}
}

func TestBackup_ExportAndImport(t *testing.T) {
	t.Parallel()
	srv, _ := newTestServer(t)

	doRequest(t, srv, http.MethodPost, "/api/events", "user-a", `[{"id":"e1","title":"Julafton","startDate":"12-24","recurring":true}]`)
	doRequest(t, srv, http.MethodPost, "/api/tasks", "user-a", `[{"id":"t1","title":"Julklappar","dueDate":"12-01"}]`)

	resp, body := doRequest(t, srv, http.MethodGet, "/api/backup", "user-a", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("export status = %d", resp.StatusCode)
	}
	disposition := resp.Header.Get("Content-Disposition")
	if !strings.HasPrefix(disposition, `attachment; filename="year-planner-backup-`) {
		t.Errorf("Content-Disposition = %q", disposition)
	}

	var backup model.Backup
	if err := json.Unmarshal(body, &backup); err != nil {
		t.Fatalf("decode backup: %v", err)
	}
	if backup.Version != apiVersion || backup.ExportDate == "" {
		t.Fatalf("unexpected envelope: %+v", backup)
	}
	if len(backup.Data.Events) != 1 || len(backup.Data.Tasks) != 1 {
		t.Fatalf("unexpected backup data: %+v", backup.Data)
	}

	// Restore the same envelope into a fresh user.
	resp, importBody := doRequest(t, srv, http.MethodPost, "/api/backup", "user-b", string(body))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("import status = %d: %s", resp.StatusCode, importBody)
	}
	var imported struct {
		Success    bool   `json:"success"`
		ImportDate string `json:"importDate"`
	}
	if err := json.Unmarshal(importBody, &imported); err != nil {
		t.Fatalf("decode import response: %v", err)
	}
	if !imported.Success || imported.ImportDate == "" {
		t.Fatalf("unexpected import response: %+v", imported)
	}

	_, restored := doRequest(t, srv, http.MethodGet, "/api/events", "user-b", "")
	var items []map[string]any
	if err := json.Unmarshal(restored, &items); err != nil {
		t.Fatalf("decode restored events: %v", err)
	}
	if len(items) != 1 || items[0]["title"] != "Julafton" {
		t.Fatalf("unexpected restored events: %+v", items)
	}
}

func TestBackup_ExportEnumeratesStoredCollections(t *testing.T) {
	t.Parallel()
	srv, _ := newTestServer(t)

	// Only events are stored; the export still carries both collections, with
	// the never-synced one as an empty array.
	doRequest(t, srv, http.MethodPost, "/api/events", "user-c", `[{"id":"e1","title":"Skolstart","startDate":"2025-08-20"}]`)

	resp, body := doRequest(t, srv, http.MethodGet, "/api/backup", "user-c", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("export status = %d: %s", resp.StatusCode, body)
	}

	var backup model.Backup
	if err := json.Unmarshal(body, &backup); err != nil {
		t.Fatalf("decode backup: %v", err)
	}
	if len(backup.Data.Events) != 1 {
		t.Fatalf("unexpected events: %s", body)
	}
	if backup.Data.Tasks == nil || len(backup.Data.Tasks) != 0 {
		t.Fatalf("tasks should be an empty array: %s", body)
	}
	if !strings.Contains(string(body), `"tasks":[]`) {
		t.Fatalf("tasks not serialized as empty array: %s", body)
	}
}

func TestTimelineEndpoint(t *testing.T) {
	t.Parallel()
	srv, _ := newTestServer(t)

	today := time.Now().Format("2006-01-02")
	doRequest(t, srv, http.MethodPost, "/api/events", "user-a",
		`[{"id":"e1","title":"Möte idag","startDate":"`+today+`"}]`)

	resp, body := doRequest(t, srv, http.MethodGet, "/api/timeline", "user-a", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}

	var timeline []struct {
		Date  string `json:"date"`
		Label string `json:"label"`
	}
	if err := json.Unmarshal(body, &timeline); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(timeline) != 1 {
		t.Fatalf("expected single timeline day, got %+v", timeline)
	}
	if timeline[0].Date != today || timeline[0].Label != "Idag" {
		t.Fatalf("unexpected day: %+v", timeline[0])
	}
}

func TestOverviewEndpoint(t *testing.T) {
	t.Parallel()
	srv, _ := newTestServer(t)

	nextMonth := time.Now().AddDate(0, 1, 0).Format("2006-01-02")
	doRequest(t, srv, http.MethodPost, "/api/tasks", "user-a",
		`[{"id":"t1","title":"Planera","dueDate":"`+nextMonth+`"}]`)

	resp, body := doRequest(t, srv, http.MethodGet, "/api/overview", "user-a", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}

	var overview struct {
		Months   []json.RawMessage `json:"months"`
		Quarters []json.RawMessage `json:"quarters"`
	}
	if err := json.Unmarshal(body, &overview); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(overview.Months) != 1 {
		t.Fatalf("expected one month summary, got %d", len(overview.Months))
	}
}
