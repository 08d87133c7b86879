package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todolist/internal/models"
	"todolist/internal/service"
	"todolist/internal/storage/sqlite"
	"todolist/internal/stats"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "todo.db"), discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return New(Options{
		Tasks:      service.NewTaskService(store),
		Categories: service.NewCategoryService(store),
		Health:     store,
		Counter:    &stats.Counter{},
		Logger:     discardLogger(),
		Name:       "todolist",
		Version:    "1.2.3",
	})
}

func do(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestInfoAndHealth(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"name":"todolist","version":"1.2.3"}`, rec.Body.String())

	rec = do(t, srv, http.MethodGet, "/api/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("database is locked") }

func TestHealth_Unavailable(t *testing.T) {
	srv := New(Options{Health: failingPinger{}, Logger: discardLogger()})

	rec := do(t, srv, http.MethodGet, "/api/healthz", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestTasks_ListEmpty(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/api/tasks", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestTasks_CreateTitleOnly(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/api/tasks", map[string]any{"title": "Buy groceries"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	raw := decode[map[string]any](t, rec)
	assert.Equal(t, "Buy groceries", raw["title"])
	assert.Equal(t, false, raw["completed"])
	assert.Nil(t, raw["description"])
	assert.NotContains(t, raw, "category_id")
	assert.NotEmpty(t, raw["created_at"])
}

func TestTasks_CreateValidation(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		body any
	}{
		{"missing title", map[string]any{"description": "no title"}},
		{"blank title", map[string]any{"title": "   "}},
		{"malformed json", `{"title":`},
		{"wrong type", map[string]any{"title": 12}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv, http.MethodPost, "/api/tasks", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, decode[map[string]string](t, rec), "error")
		})
	}
}

func TestTasks_CreateUnknownCategory(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/api/tasks", map[string]any{"title": "orphan", "category_id": 404})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTasks_Lifecycle(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/api/categories", map[string]any{"machine_name": "work", "display_name": "Work"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	category := decode[models.Category](t, rec)

	rec = do(t, srv, http.MethodPost, "/api/tasks", map[string]any{
		"title":       "Write report",
		"description": "Q3",
		"category_id": category.ID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[models.Task](t, rec)
	require.NotNil(t, created.CategoryID)
	assert.Equal(t, category.ID, *created.CategoryID)

	path := fmt.Sprintf("/api/tasks/%d", created.ID)
	rec = do(t, srv, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	fetched := decode[models.Task](t, rec)
	assert.Equal(t, created.Title, fetched.Title)
	assert.True(t, created.CreatedAt.Equal(fetched.CreatedAt))

	rec = do(t, srv, http.MethodPut, path, map[string]any{"completed": true})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[models.Task](t, rec)
	assert.True(t, updated.Completed)
	assert.Equal(t, "Write report", updated.Title)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "Q3", *updated.Description)

	rec = do(t, srv, http.MethodGet, "/api/tasks", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Task](t, rec), 1)

	rec = do(t, srv, http.MethodDelete, path, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Task deleted"}`, rec.Body.String())

	rec = do(t, srv, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"task not found"}`, rec.Body.String())
}

func TestTasks_MissingIDs(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodPut, "/api/tasks/99", map[string]any{"title": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, srv, http.MethodDelete, "/api/tasks/99", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTasks_InvalidID(t *testing.T) {
	srv := newTestServer(t)

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		rec := do(t, srv, method, "/api/tasks/abc", map[string]any{"title": "x"})
		assert.Equal(t, http.StatusBadRequest, rec.Code, method)
		assert.JSONEq(t, `{"error":"invalid identifier"}`, rec.Body.String())
	}
}

func TestTasks_EmptyUpdate(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/api/tasks", map[string]any{"title": "keep"})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[models.Task](t, rec)

	rec = do(t, srv, http.MethodPut, fmt.Sprintf("/api/tasks/%d", created.ID), map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCategories_Lifecycle(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/api/categories", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = do(t, srv, http.MethodPost, "/api/categories", map[string]any{"machine_name": "home", "display_name": "Home"})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[models.Category](t, rec)

	rec = do(t, srv, http.MethodPost, "/api/categories", map[string]any{"machine_name": "home", "display_name": "Again"})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, decode[map[string]string](t, rec)["error"], "UNIQUE constraint failed")

	path := fmt.Sprintf("/api/categories/%d", created.ID)
	rec = do(t, srv, http.MethodPut, path, map[string]any{"display_name": "House"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.Category{ID: created.ID, MachineName: "home", DisplayName: "House"}, decode[models.Category](t, rec))

	rec = do(t, srv, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, srv, http.MethodDelete, path, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Category deleted"}`, rec.Body.String())

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		rec = do(t, srv, method, path, map[string]any{"display_name": "Gone"})
		assert.Equal(t, http.StatusNotFound, rec.Code, method)
	}
}

func TestCategories_DeleteReferencedIsStorageError(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/api/categories", map[string]any{"machine_name": "errands", "display_name": "Errands"})
	require.Equal(t, http.StatusCreated, rec.Code)
	category := decode[models.Category](t, rec)

	rec = do(t, srv, http.MethodPost, "/api/tasks", map[string]any{"title": "post office", "category_id": category.ID})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, srv, http.MethodDelete, fmt.Sprintf("/api/categories/%d", category.ID), nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, decode[map[string]string](t, rec)["error"], "FOREIGN KEY constraint failed")
}

func TestTasks_UpdateNullClearsCategory(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/api/categories", map[string]any{"machine_name": "work", "display_name": "Work"})
	require.Equal(t, http.StatusCreated, rec.Code)
	category := decode[models.Category](t, rec)

	rec = do(t, srv, http.MethodPost, "/api/tasks", map[string]any{"title": "Plan sprint", "description": "monday", "category_id": category.ID})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[models.Task](t, rec)

	path := fmt.Sprintf("/api/tasks/%d", created.ID)
	rec = do(t, srv, http.MethodPut, path, `{"category_id":null,"description":null}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	raw := decode[map[string]any](t, rec)
	assert.Nil(t, raw["description"])
	assert.NotContains(t, raw, "category_id")
	assert.Equal(t, "Plan sprint", raw["title"])

	rec = do(t, srv, http.MethodPut, path, `{"title":null}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, srv, http.MethodDelete, fmt.Sprintf("/api/categories/%d", category.ID), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCategories_CreateValidation(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/api/categories", map[string]any{"machine_name": "solo"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnknownAPIRoute(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/api/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"endpoint not found"}`, rec.Body.String())
}

func TestRequestIDHeader(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/", nil)
	assert.Len(t, rec.Header().Get("X-Request-ID"), 36)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec = httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestCounterObservesRequests(t *testing.T) {
	srv := newTestServer(t)

	do(t, srv, http.MethodGet, "/api/tasks", nil)
	do(t, srv, http.MethodGet, "/api/tasks/1", nil)
	do(t, srv, http.MethodPost, "/api/tasks", `{}`)

	assert.Equal(t, stats.Snapshot{Requests: 3, Errors: 2}, srv.Counter().Snapshot())
}

func TestCounterObservesRecoveredPanics(t *testing.T) {
	srv := newTestServer(t)
	srv.Engine().GET("/api/boom", func(*gin.Context) { panic("boom") })

	rec := do(t, srv, http.MethodGet, "/api/boom", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"panic: boom"}`, rec.Body.String())
	assert.Equal(t, stats.Snapshot{Requests: 1, Errors: 1}, srv.Counter().Snapshot())
}
