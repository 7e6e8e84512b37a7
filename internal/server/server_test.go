package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/ranfysvalle02/bridgebase/internal/bench"
	"github.com/ranfysvalle02/bridgebase/internal/docstore"
	"github.com/ranfysvalle02/bridgebase/internal/relstore"
)

func queryParam(sql string) string {
	return url.QueryEscape(sql)
}

// testRouter seeds both stores with five users and builds a full router.
func testRouter(t *testing.T, cfg Config, withHistory bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	docs, err := docstore.Open(t.TempDir())
	if err != nil {
		t.Fatalf("docstore.Open: %v", err)
	}
	t.Cleanup(func() { docs.Close() })

	rel, err := relstore.OpenSQLite(filepath.Join(t.TempDir(), "rel.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { rel.Close() })

	col, err := docs.EnsureCollection("users")
	if err != nil {
		t.Fatalf("EnsureCollection: %v", err)
	}
	if err := rel.Exec(ctx, "CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT, age INTEGER)"); err != nil {
		t.Fatalf("create table: %v", err)
	}
	for i, age := range []int{20, 25, 30, 35, 40} {
		name := fmt.Sprintf("user%d", i)
		if _, err := col.Insert(docstore.Document{"name": name, "age": age}); err != nil {
			t.Fatalf("Insert: %v", err)
		}
		if err := rel.Exec(ctx, fmt.Sprintf("INSERT INTO users (name, age) VALUES ('%s', %d)", name, age)); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	var history *bench.History
	if withHistory {
		history, err = bench.OpenHistory(filepath.Join(t.TempDir(), "history.db"))
		if err != nil {
			t.Fatalf("OpenHistory: %v", err)
		}
		t.Cleanup(func() { history.Close() })
	}

	runner := bench.NewRunner(bench.NewDocStoreExecutor(docs), bench.NewRelStoreExecutor(rel), nil, history)
	return New(NewHandler(runner, docs, rel, history), cfg)
}

func get(t *testing.T, router *gin.Engine, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var body map[string]any
	if len(rec.Body.Bytes()) > 0 && rec.Header().Get("Content-Type") != "" {
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			body = nil
		}
	}
	return rec, body
}

func TestHealth(t *testing.T) {
	router := testRouter(t, Config{}, false)

	rec, body := get(t, router, "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /health = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if body["status"] != "ok" {
		t.Errorf("status = %v, want ok", body["status"])
	}
}

func TestInspect(t *testing.T) {
	router := testRouter(t, Config{}, false)

	rec, body := get(t, router, "/inspect")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /inspect = %d: %s", rec.Code, rec.Body.String())
	}

	collections, ok := body["collections"].([]any)
	if !ok || len(collections) != 1 || collections[0] != "users" {
		t.Fatalf("collections = %v, want [users]", body["collections"])
	}

	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("data = %v, want object", body["data"])
	}
	users, ok := data["users"].([]any)
	if !ok || len(users) != 5 {
		t.Fatalf("data.users = %v, want 5 documents", data["users"])
	}
	doc, ok := users[0].(map[string]any)
	if !ok {
		t.Fatalf("document = %v, want object", users[0])
	}
	if _, hasID := doc["_id"]; hasID {
		t.Error("inspect documents must not carry _id")
	}
	if _, hasName := doc["name"]; !hasName {
		t.Errorf("document = %v, want a name field", doc)
	}
}

func TestSpeedTestMissingQuery(t *testing.T) {
	router := testRouter(t, Config{}, false)

	rec, body := get(t, router, "/speedtest")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("GET /speedtest = %d, want 400", rec.Code)
	}
	if body["error"] == nil {
		t.Error("expected an error message")
	}
}

func TestSpeedTest(t *testing.T) {
	router := testRouter(t, Config{}, false)

	rec, body := get(t, router, "/speedtest?query="+queryParam("SELECT * FROM users WHERE age > 28"))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /speedtest = %d: %s", rec.Code, rec.Body.String())
	}

	if body["document_store_rows"] != float64(3) {
		t.Errorf("document_store_rows = %v, want 3", body["document_store_rows"])
	}
	if body["relational_rows"] != float64(3) {
		t.Errorf("relational_rows = %v, want 3", body["relational_rows"])
	}
	for _, key := range []string{"total_parallel_seconds", "document_store_seconds", "relational_seconds"} {
		if _, ok := body[key].(float64); !ok {
			t.Errorf("missing numeric field %s in %v", key, body)
		}
	}
	if _, ok := body["dropped_conditions"]; ok {
		t.Errorf("dropped_conditions should be omitted, got %v", body["dropped_conditions"])
	}
}

func TestSpeedTestReportsDroppedConditions(t *testing.T) {
	router := testRouter(t, Config{}, false)

	rec, body := get(t, router, "/speedtest?query="+queryParam("SELECT * FROM users WHERE age >= 30"))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /speedtest = %d: %s", rec.Code, rec.Body.String())
	}
	// The document side drops ">=" and matches everything; the relational
	// side still filters. The response surfaces why the counts differ.
	if body["document_store_rows"] != float64(5) {
		t.Errorf("document_store_rows = %v, want 5", body["document_store_rows"])
	}
	if body["relational_rows"] != float64(3) {
		t.Errorf("relational_rows = %v, want 3", body["relational_rows"])
	}
	dropped, ok := body["dropped_conditions"].([]any)
	if !ok || len(dropped) != 1 {
		t.Fatalf("dropped_conditions = %v, want one entry", body["dropped_conditions"])
	}
}

func TestSpeedTestTranslateError(t *testing.T) {
	router := testRouter(t, Config{}, false)

	rec, _ := get(t, router, "/speedtest?query="+queryParam("SELECT name"))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("GET /speedtest = %d, want 400", rec.Code)
	}
}

func TestSpeedTestBackendError(t *testing.T) {
	router := testRouter(t, Config{}, false)

	rec, body := get(t, router, "/speedtest?query="+queryParam("SELECT * FROM ghosts"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("GET /speedtest = %d, want 500: %s", rec.Code, rec.Body.String())
	}
	backend, ok := body["backend"].(string)
	if !ok || (backend != "document" && backend != "relational") {
		t.Errorf("backend = %v, want a backend name", body["backend"])
	}
}

func TestHistoryDisabled(t *testing.T) {
	router := testRouter(t, Config{}, false)

	rec, _ := get(t, router, "/history")
	if rec.Code != http.StatusNotFound {
		t.Errorf("GET /history = %d, want 404", rec.Code)
	}
}

func TestHistoryAfterRuns(t *testing.T) {
	router := testRouter(t, Config{}, true)

	for i := 0; i < 2; i++ {
		rec, _ := get(t, router, "/speedtest?query="+queryParam("SELECT * FROM users"))
		if rec.Code != http.StatusOK {
			t.Fatalf("speedtest %d = %d: %s", i, rec.Code, rec.Body.String())
		}
	}

	rec, body := get(t, router, "/history?limit=1")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /history = %d: %s", rec.Code, rec.Body.String())
	}
	runs, ok := body["runs"].([]any)
	if !ok || len(runs) != 1 {
		t.Fatalf("runs = %v, want one entry", body["runs"])
	}

	rec, _ = get(t, router, "/history?limit=zero")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("GET /history?limit=zero = %d, want 400", rec.Code)
	}
}

func TestRateLimit(t *testing.T) {
	router := testRouter(t, Config{RateLimit: 1, RateBurst: 1}, false)

	rec, _ := get(t, router, "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("first request = %d, want 200", rec.Code)
	}
	rec, _ = get(t, router, "/health")
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("second request = %d, want 429", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router := testRouter(t, Config{}, false)

	get(t, router, "/health")
	rec, _ := get(t, router, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /metrics = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "bridgebase_http_requests_total") {
		t.Error("metrics output is missing the request counter")
	}
}
