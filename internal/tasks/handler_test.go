package tasks

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/RianNegreiros/ai-powered-task-app/internal/shared"
)

// asUser injects an authenticated identity, standing in for the bearer
// middleware that fronts these routes in the real router.
func asUser(userID int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := shared.ContextWithIdentity(r.Context(), shared.Identity{UserID: userID})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func newTestRouter(t *testing.T, userID int64) (chi.Router, *memoryRepo) {
	t.Helper()
	repo := newMemoryRepo()
	handler := NewHandler(nil, NewService(repo, nil))
	r := chi.NewRouter()
	r.Route("/api/tasks", func(r chi.Router) {
		r.Use(asUser(userID))
		handler.MountRoutes(r)
	})
	return r, repo
}

func doJSON(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCreateTaskEndpoint(t *testing.T) {
	router, repo := newTestRouter(t, 1)
	tagID := repo.addTag(1, "work")

	rec := doJSON(t, router, http.MethodPost, "/api/tasks/",
		fmt.Sprintf(`{"title":"ship release","priority":"high","tagIds":["%d"]}`, tagID))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "ship release", resp["title"])
	require.Equal(t, "high", resp["priority"])
	require.Equal(t, "1", resp["userId"])
	require.Equal(t, false, resp["completed"])
	tags, ok := resp["tags"].([]any)
	require.True(t, ok)
	require.Len(t, tags, 1)
}

func TestCreateTaskValidation(t *testing.T) {
	router, _ := newTestRouter(t, 1)

	rec := doJSON(t, router, http.MethodPost, "/api/tasks/", `{"title":""}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/tasks/", `{"title":"ok","priority":"urgent"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/tasks/", `{"title":"ok","tagIds":["abc"]}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateTaskForeignTagRejected(t *testing.T) {
	router, repo := newTestRouter(t, 1)
	foreign := repo.addTag(2, "work")

	rec := doJSON(t, router, http.MethodPost, "/api/tasks/",
		fmt.Sprintf(`{"title":"ship","tagIds":["%d"]}`, foreign))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListAndGetTaskEndpoints(t *testing.T) {
	router, _ := newTestRouter(t, 1)

	rec := doJSON(t, router, http.MethodPost, "/api/tasks/", `{"title":"first"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var created map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = doJSON(t, router, http.MethodGet, "/api/tasks/me", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)

	rec = doJSON(t, router, http.MethodGet, "/api/tasks/me/"+created["id"].(string), "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/tasks/me/9999", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateTaskEndpoint(t *testing.T) {
	router, repo := newTestRouter(t, 1)
	tagID := repo.addTag(1, "work")

	rec := doJSON(t, router, http.MethodPost, "/api/tasks/",
		fmt.Sprintf(`{"title":"draft","tagIds":["%d"]}`, tagID))
	require.Equal(t, http.StatusOK, rec.Code)
	var created map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	id := created["id"].(string)

	// Body without tagIds keeps the existing links.
	rec = doJSON(t, router, http.MethodPut, "/api/tasks/me/"+id, `{"title":"final","priority":"low"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var updated map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	require.Equal(t, "final", updated["title"])
	require.Len(t, updated["tags"].([]any), 1)

	// Explicit empty tagIds clears them.
	rec = doJSON(t, router, http.MethodPut, "/api/tasks/me/"+id, `{"title":"final","tagIds":[]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	require.Empty(t, updated["tags"].([]any))
}

func TestToggleAndDeleteTaskEndpoints(t *testing.T) {
	router, _ := newTestRouter(t, 1)

	rec := doJSON(t, router, http.MethodPost, "/api/tasks/", `{"title":"chore"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var created map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	id := created["id"].(string)

	rec = doJSON(t, router, http.MethodPatch, "/api/tasks/me/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var toggled map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &toggled))
	require.Equal(t, true, toggled["completed"])

	rec = doJSON(t, router, http.MethodDelete, "/api/tasks/me/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "deleted successfully")

	rec = doJSON(t, router, http.MethodDelete, "/api/tasks/me/"+id, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}
