package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mamadbah2/coilstock/internal/domain/models"
	"github.com/mamadbah2/coilstock/internal/repository/memory"
	"github.com/mamadbah2/coilstock/internal/server/handlers"
	"github.com/mamadbah2/coilstock/internal/server/router"
	"github.com/mamadbah2/coilstock/internal/service/inventory"
	"github.com/mamadbah2/coilstock/internal/service/stats"
)

func newTestRouter(t *testing.T) (*gin.Engine, *memory.Repository) {
	t.Helper()

	repo := memory.NewRepository()
	inventorySvc := inventory.NewService(repo, time.UTC, zap.NewNop())
	statsSvc := stats.NewService(repo, zap.NewNop())
	handler := handlers.NewCoilHandler(inventorySvc, statsSvc, zap.NewNop())
	return router.New(handler, zap.NewNop()), repo
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateAndGetCoil(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doRequest(r, http.MethodPost, "/coils", `{"length":100,"weight":50}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":1}`, w.Body.String())

	w = doRequest(r, http.MethodGet, "/coils/1", "")
	require.Equal(t, http.StatusOK, w.Code)

	var coil map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &coil))
	assert.EqualValues(t, 1, coil["id"])
	assert.EqualValues(t, 100, coil["length"])
	assert.EqualValues(t, 50, coil["weight"])
	today := models.DateOf(time.Now().UTC()).String()
	assert.Equal(t, today, coil["add_date"])
	assert.Nil(t, coil["delete_date"])
}

func TestCreateValidationErrors(t *testing.T) {
	r, _ := newTestRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"length":`},
		{"missing weight", `{"length":100}`},
		{"zero length", `{"length":0,"weight":10}`},
		{"negative length", `{"length":-5,"weight":10}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := doRequest(r, http.MethodPost, "/coils", tc.body)
			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestGetCoilErrors(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doRequest(r, http.MethodGet, "/coils/99", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"coil not found"}`, w.Body.String())

	w = doRequest(r, http.MethodGet, "/coils/abc", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestListIgnoresPartialRangePairs(t *testing.T) {
	r, _ := newTestRouter(t)

	for _, body := range []string{`{"length":10,"weight":5}`, `{"length":20,"weight":500}`} {
		w := doRequest(r, http.MethodPost, "/coils", body)
		require.Equal(t, http.StatusOK, w.Code)
	}

	baseline := doRequest(r, http.MethodGet, "/coils", "")
	require.Equal(t, http.StatusOK, baseline.Code)

	// Only the lower bound is supplied: the weight filter must be ignored
	// entirely, not applied one-sided.
	partial := doRequest(r, http.MethodGet, "/coils?start_weight=100", "")
	require.Equal(t, http.StatusOK, partial.Code)
	assert.JSONEq(t, baseline.Body.String(), partial.Body.String())

	full := doRequest(r, http.MethodGet, "/coils?start_weight=100&end_weight=600", "")
	require.Equal(t, http.StatusOK, full.Code)

	var coils []map[string]any
	require.NoError(t, json.Unmarshal(full.Body.Bytes(), &coils))
	require.Len(t, coils, 1)
	assert.EqualValues(t, 2, coils[0]["id"])
}

func TestListEmptyResultIsOK(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doRequest(r, http.MethodGet, "/coils", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestListMalformedBound(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doRequest(r, http.MethodGet, "/coils?start_id=a&end_id=5", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = doRequest(r, http.MethodGet, "/coils?start_add_date=2024-01-01&end_add_date=bad", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestSingleFieldEndpoints(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doRequest(r, http.MethodPost, "/coils", `{"length":10,"weight":5}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(r, http.MethodGet, "/coils/weight?min_weight=1&max_weight=10", "")
	require.Equal(t, http.StatusOK, w.Code)
	var coils []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &coils))
	assert.Len(t, coils, 1)

	// Legacy behavior: an empty match on these endpoints is a 404, unlike
	// the combined filter.
	w = doRequest(r, http.MethodGet, "/coils/weight?min_weight=100&max_weight=200", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(r, http.MethodGet, "/coils/weight?min_weight=100", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code, "both bounds are required here")

	w = doRequest(r, http.MethodGet, "/coils/id?min_id=1&max_id=1", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(r, http.MethodGet, "/coils/add_date?min_add_date=bad&max_add_date=2024-01-01", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestDeleteCoil(t *testing.T) {
	r, repo := newTestRouter(t)

	w := doRequest(r, http.MethodPost, "/coils", `{"length":10,"weight":5}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(r, http.MethodDelete, "/coils/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":1}`, w.Body.String())

	coil, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, coil.DeleteDate)
	assert.Equal(t, models.DateOf(time.Now().UTC()).String(), coil.DeleteDate.String())

	// Second delete is a no-op success.
	w = doRequest(r, http.MethodDelete, "/coils/1", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(r, http.MethodDelete, "/coils/99", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStatsEndpoint(t *testing.T) {
	r, repo := newTestRouter(t)

	del := models.NewDate(2024, time.January, 10)
	_, err := repo.Create(context.Background(), models.Coil{Length: 5, Weight: 10, AddDate: models.NewDate(2024, time.January, 1)})
	require.NoError(t, err)
	_, err = repo.Create(context.Background(), models.Coil{Length: 8, Weight: 20, AddDate: models.NewDate(2024, time.January, 2), DeleteDate: &del})
	require.NoError(t, err)

	w := doRequest(r, http.MethodGet, "/coils/stats?interval_start=2024-01-01&interval_end=2024-01-05", "")
	require.Equal(t, http.StatusOK, w.Code)

	var report map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.EqualValues(t, 2, report["added_count"])
	assert.EqualValues(t, 0, report["deleted_count"])
	assert.Equal(t, false, report["no_data"])
	assert.EqualValues(t, 6.5, report["avg_length"])
	assert.EqualValues(t, 30, report["sum_weight"])

	stay, ok := report["longest_stay"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, stay["has_data"])
}

func TestStatsEndpointErrors(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doRequest(r, http.MethodGet, "/coils/stats?interval_start=2024-01-05&interval_end=2024-01-01", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = doRequest(r, http.MethodGet, "/coils/stats?interval_start=2024-01-01", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = doRequest(r, http.MethodGet, "/coils/stats?interval_start=01/01/2024&interval_end=2024-01-05", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestStatsEndpointNoData(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doRequest(r, http.MethodGet, "/coils/stats?interval_start=2024-01-01&interval_end=2024-01-05", "")
	require.Equal(t, http.StatusOK, w.Code)

	var report map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, true, report["no_data"])
	assert.Nil(t, report["avg_length"])
	assert.Nil(t, report["sum_weight"])
	assert.Nil(t, report["min_count_by_day"])
}

func TestHealthz(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doRequest(r, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
