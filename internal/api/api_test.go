package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manav03panchal/daymark/internal/analytics"
	"github.com/manav03panchal/daymark/internal/clock"
	"github.com/manav03panchal/daymark/internal/errors"
	"github.com/manav03panchal/daymark/internal/journal"
	"github.com/manav03panchal/daymark/internal/model"
	"github.com/manav03panchal/daymark/internal/snapshot"
	"github.com/manav03panchal/daymark/internal/storage"
)

const testUser = "user-1"

func init() {
	gin.SetMode(gin.TestMode)
}

func setupServer(t *testing.T) *Server {
	db, err := storage.Open(storage.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cache, err := journal.NewStateCache(journal.CacheConfig{TTL: time.Minute})
	require.NoError(t, err)
	t.Cleanup(cache.Close)

	clk := clock.Fixed(time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC))
	store := snapshot.NewStore(db, clk, snapshot.Policy{})
	svc := journal.NewService(db, cache, store, clk, journal.Options{AutoCapture: true})
	return NewServer(Config{Addr: "127.0.0.1:0"}, svc, analytics.NewEngine(db, 0), db)
}

type call struct {
	method string
	path   string
	body   any
	user   string
	admin  bool
}

func (s *Server) do(t *testing.T, c call) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Reader
	if c.body != nil {
		raw, err := json.Marshal(c.body)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(c.method, c.path, body)
	req.Header.Set("Content-Type", "application/json")
	if c.user != "" {
		req.Header.Set(HeaderUserID, c.user)
	}
	if c.admin {
		req.Header.Set(HeaderUserAdmin, "true")
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

// data decodes the {"data": ...} envelope of a response into v.
func data(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, v))
}

type errorEnvelope struct {
	Error struct {
		Category string `json:"category"`
		Message  string `json:"message"`
	} `json:"error"`
}

func apiError(t *testing.T, rec *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var e errorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
	return e
}

// =============================================================================
// Middleware Tests
// =============================================================================

func TestHealth(t *testing.T) {
	s := setupServer(t)
	rec := s.do(t, call{method: http.MethodGet, path: "/healthz"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestRequestIDIsEchoed(t *testing.T) {
	s := setupServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(HeaderRequestID, "abc123")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "abc123", rec.Header().Get(HeaderRequestID))

	rec = s.do(t, call{method: http.MethodGet, path: "/healthz"})
	assert.Len(t, rec.Header().Get(HeaderRequestID), 16)
}

func TestIdentityRequired(t *testing.T) {
	s := setupServer(t)

	rec := s.do(t, call{method: http.MethodGet, path: "/api/v1/day"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, call{method: http.MethodGet, path: "/api/v1/day", user: "bad:id"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation", apiError(t, rec).Error.Category)
}

func TestAdminOnlyCacheClear(t *testing.T) {
	s := setupServer(t)

	rec := s.do(t, call{method: http.MethodDelete, path: "/api/v1/admin/cache", user: testUser})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, call{method: http.MethodDelete, path: "/api/v1/admin/cache", user: testUser, admin: true})
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, call{method: http.MethodGet, path: "/api/v1/admin/cache", user: testUser, admin: true})
	assert.Equal(t, http.StatusOK, rec.Code)
}

// =============================================================================
// Error Mapping Tests
// =============================================================================

func TestInternalErrorsAreOpaque(t *testing.T) {
	engine := gin.New()
	engine.GET("/boom", func(c *gin.Context) {
		fail(c, errors.NewSystemErrorWithOp("disk.read", "badger exploded", nil))
	})
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	e := apiError(t, rec)
	assert.Equal(t, "internal", e.Error.Category)
	assert.Equal(t, "internal error", e.Error.Message)
	assert.NotContains(t, rec.Body.String(), "badger")
}

func TestErrorStatuses(t *testing.T) {
	s := setupServer(t)

	rec := s.do(t, call{method: http.MethodGet, path: "/api/v1/day/2024-13-01", user: testUser})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, call{method: http.MethodPost, path: "/api/v1/tasks/nope/toggle", user: testUser})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", apiError(t, rec).Error.Category)

	body := map[string]string{"fieldKey": "Mood", "fieldType": "number"}
	rec = s.do(t, call{method: http.MethodPost, path: "/api/v1/templates", user: testUser, body: body})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = s.do(t, call{method: http.MethodPost, path: "/api/v1/templates", user: testUser, body: body})
	assert.Equal(t, http.StatusConflict, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/templates", strings.NewReader("{not json"))
	req.Header.Set(HeaderUserID, testUser)
	bad := httptest.NewRecorder()
	s.Handler().ServeHTTP(bad, req)
	assert.Equal(t, http.StatusBadRequest, bad.Code)
}

// =============================================================================
// Journal Route Tests
// =============================================================================

func TestTemplateValueShowsInDay(t *testing.T) {
	s := setupServer(t)

	rec := s.do(t, call{method: http.MethodPost, path: "/api/v1/templates", user: testUser,
		body: map[string]string{"fieldKey": "Mood", "fieldType": "number"}})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, call{method: http.MethodPut, path: "/api/v1/day/2024-01-05/fields/Mood", user: testUser,
		body: map[string]string{"value": "4"}})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, call{method: http.MethodPut, path: "/api/v1/day/2024-01-05/fields/Mood", user: testUser,
		body: map[string]string{"value": "lots"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, call{method: http.MethodGet, path: "/api/v1/day", user: testUser})
	require.Equal(t, http.StatusOK, rec.Code)
	var state model.DayState
	data(t, rec, &state)
	assert.Equal(t, "2024-01-05", state.Date)
	require.Len(t, state.CustomFields, 1)
	assert.Equal(t, "4", state.CustomFields[0].Value)
	assert.NotNil(t, state.DailyTasks)
}

func TestTaskToggleAddsEntry(t *testing.T) {
	s := setupServer(t)

	rec := s.do(t, call{method: http.MethodPost, path: "/api/v1/tasks", user: testUser,
		body: map[string]string{"title": "Write report"}})
	require.Equal(t, http.StatusCreated, rec.Code)
	var task model.DailyTask
	data(t, rec, &task)

	rec = s.do(t, call{method: http.MethodPost, path: "/api/v1/tasks/" + task.ID + "/toggle", user: testUser})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, call{method: http.MethodGet, path: "/api/v1/day/2024-01-05", user: testUser})
	var state model.DayState
	data(t, rec, &state)
	require.Len(t, state.Entries, 1)
	assert.Equal(t, "Completed: Write report", state.Entries[0].Text)
}

func TestSnapshotRoutes(t *testing.T) {
	s := setupServer(t)

	rec := s.do(t, call{method: http.MethodPost, path: "/api/v1/snapshots/2024-01-03", user: testUser})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, call{method: http.MethodGet, path: "/api/v1/snapshots/2024-01-03", user: testUser})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, call{method: http.MethodGet, path: "/api/v1/snapshots", user: testUser})
	require.Equal(t, http.StatusOK, rec.Code)
	var infos []model.SnapshotInfo
	data(t, rec, &infos)
	require.Len(t, infos, 1)
	assert.Equal(t, model.SnapshotManual, infos[0].Source)

	rec = s.do(t, call{method: http.MethodPut, path: "/api/v1/retention", user: testUser,
		body: snapshot.Policy{MaxDays: 2}})
	require.Equal(t, http.StatusOK, rec.Code)
	var result struct {
		Pruned []string `json:"pruned"`
	}
	data(t, rec, &result)
	assert.Equal(t, []string{"2024-01-03"}, result.Pruned)

	rec = s.do(t, call{method: http.MethodDelete, path: "/api/v1/snapshots/2024-01-03", user: testUser})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// =============================================================================
// Analytics Route Tests
// =============================================================================

func TestAnalyticsCombinedCounters(t *testing.T) {
	s := setupServer(t)

	ids := make(map[string]string)
	for _, name := range []string{"Coffee", "Water"} {
		rec := s.do(t, call{method: http.MethodPost, path: "/api/v1/counters", user: testUser,
			body: map[string]string{"name": name}})
		require.Equal(t, http.StatusCreated, rec.Code)
		var counter model.CustomCounter
		data(t, rec, &counter)
		ids[name] = counter.ID
	}
	for name, v := range map[string]int{"Coffee": 2, "Water": 5} {
		rec := s.do(t, call{method: http.MethodPut, path: "/api/v1/counters/" + ids[name] + "/value", user: testUser,
			body: map[string]any{"date": "2024-01-05", "value": v}})
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := s.do(t, call{method: http.MethodPost, path: "/api/v1/analytics/query", user: testUser,
		body: analytics.Request{StartDate: "2024-01-01", EndDate: "2024-01-31", CounterNames: []string{"Coffee", "Water"}}})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Fields   []json.RawMessage `json:"fields"`
		Combined struct {
			Data []struct {
				Period string  `json:"period"`
				Value  float64 `json:"value"`
			} `json:"data"`
		} `json:"combined"`
	}
	data(t, rec, &resp)
	assert.Len(t, resp.Fields, 2)
	require.Len(t, resp.Combined.Data, 1)
	assert.Equal(t, "2024-01-05", resp.Combined.Data[0].Period)
	assert.Equal(t, 7.0, resp.Combined.Data[0].Value)
}

func TestAnalyticsValidation(t *testing.T) {
	s := setupServer(t)

	rec := s.do(t, call{method: http.MethodPost, path: "/api/v1/analytics/query", user: testUser,
		body: analytics.Request{StartDate: "2024-02-01", EndDate: "2024-01-01", FieldKey: "Mood"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, call{method: http.MethodPost, path: "/api/v1/analytics/query", user: testUser,
		body: analytics.Request{StartDate: "2024-01-01", EndDate: "2024-01-31", FieldKey: "Mood"}})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, call{method: http.MethodPost, path: "/api/v1/analytics/tasks", user: testUser,
		body: analytics.Request{StartDate: "2024-01-01", EndDate: "2024-01-31"}})
	assert.Equal(t, http.StatusOK, rec.Code)
}
