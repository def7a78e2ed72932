package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/akozadaev/go_area_analytical_system/internal/models"
	"github.com/akozadaev/go_area_analytical_system/internal/service"
	"github.com/akozadaev/go_area_analytical_system/internal/storage"
)

const squareBody = `{"name":"meadow","areaPoints":[
	{"longitude":0,"latitude":0},
	{"longitude":0,"latitude":10},
	{"longitude":10,"latitude":10},
	{"longitude":10,"latitude":0}]}`

func newTestRouter(t *testing.T) (*mux.Router, *storage.MemoryStorage) {
	t.Helper()
	ms := storage.NewMemoryStorage()
	svc := service.NewAreaService(ms, ms, ms, zaptest.NewLogger(t).Sugar())

	router := mux.NewRouter()
	NewHandlers(svc).RegisterRoutes(router)
	return router, ms
}

func do(t *testing.T, router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealthCheck(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestAreaLifecycle(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/areas", squareBody)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[models.Area](t, rec)
	assert.Equal(t, "meadow", created.Name)
	assert.Len(t, created.AreaPoints, 4)

	rec = do(t, router, http.MethodGet, "/areas/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created, decode[models.Area](t, rec))

	rec = do(t, router, http.MethodPut, "/areas/1", strings.Replace(squareBody, "meadow", "field", 1))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "field", decode[models.Area](t, rec).Name)

	rec = do(t, router, http.MethodGet, "/areas", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Area](t, rec), 1)

	rec = do(t, router, http.MethodDelete, "/areas/1", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodGet, "/areas/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, router, http.MethodDelete, "/areas/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateAreaErrors(t *testing.T) {
	router, _ := newTestRouter(t)
	require.Equal(t, http.StatusCreated, do(t, router, http.MethodPost, "/areas", squareBody).Code)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"malformed json", `{"name":`, http.StatusBadRequest},
		{"missing name", `{"areaPoints":[{"longitude":20,"latitude":0},{"longitude":20,"latitude":10},{"longitude":30,"latitude":0}]}`, http.StatusBadRequest},
		{"two points", `{"name":"x","areaPoints":[{"longitude":20,"latitude":0},{"longitude":20,"latitude":10}]}`, http.StatusBadRequest},
		{"latitude out of range", `{"name":"x","areaPoints":[{"longitude":20,"latitude":0},{"longitude":20,"latitude":95},{"longitude":30,"latitude":0}]}`, http.StatusBadRequest},
		{"collinear", `{"name":"x","areaPoints":[{"longitude":20,"latitude":0},{"longitude":25,"latitude":0},{"longitude":30,"latitude":0}]}`, http.StatusBadRequest},
		{"overlapping", `{"name":"x","areaPoints":[{"longitude":5,"latitude":5},{"longitude":5,"latitude":15},{"longitude":15,"latitude":15},{"longitude":15,"latitude":5}]}`, http.StatusBadRequest},
		{"taken name", strings.ReplaceAll(squareBody, `"longitude":0`, `"longitude":40`), http.StatusConflict},
		{"same contour", strings.Replace(squareBody, "meadow", "copy", 1), http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, router, http.MethodPost, "/areas", tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.NotEmpty(t, decode[ErrorResponse](t, rec).Error)
		})
	}

	t.Run("validation errors list fields", func(t *testing.T) {
		rec := do(t, router, http.MethodPost, "/areas", `{"name":"","areaPoints":[]}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.NotEmpty(t, decode[ErrorResponse](t, rec).Fields)
	})
}

func TestAreaIDValidation(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, target := range []string{"/areas/abc", "/areas/0", "/areas/-3", "/areas/abc/analytics", "/areas/0/visits"} {
		rec := do(t, router, http.MethodGet, target, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestGetAreaAnalytics(t *testing.T) {
	router, ms := newTestRouter(t)
	require.Equal(t, http.StatusCreated, do(t, router, http.MethodPost, "/areas", squareBody).Code)

	base := time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC)
	mammal := ms.AddAnimalType("mammal")
	inside := ms.AddLocation(5, 5)
	outside := ms.AddLocation(50, 50)
	animal, err := ms.AddAnimal(outside, base, nil, mammal)
	require.NoError(t, err)
	_, err = ms.AddVisit(animal, inside, base.Add(3*time.Hour))
	require.NoError(t, err)

	rec := do(t, router, http.MethodGet,
		"/areas/1/analytics?startDate=2023-04-01T01:00:00Z&endDate=2023-04-01T10:00:00Z", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{
		"totalQuantityAnimals": 1,
		"totalAnimalsArrived": 1,
		"totalAnimalsGone": 0,
		"animalsAnalytics": [
			{"animalType": "mammal", "animalTypeId": 2, "quantityAnimals": 1, "animalsArrived": 1, "animalsGone": 0}
		]
	}`, rec.Body.String())

	tests := []struct {
		name   string
		query  string
		status int
	}{
		{"missing dates", "", http.StatusBadRequest},
		{"missing end", "?startDate=2023-04-01T01:00:00Z", http.StatusBadRequest},
		{"bad format", "?startDate=yesterday&endDate=2023-04-01T10:00:00Z", http.StatusBadRequest},
		{"reversed", "?startDate=2023-04-02T00:00:00Z&endDate=2023-04-01T00:00:00Z", http.StatusBadRequest},
		{"equal", "?startDate=2023-04-01T00:00:00Z&endDate=2023-04-01T00:00:00Z", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, router, http.MethodGet, "/areas/1/analytics"+tt.query, "")
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}

	rec = do(t, router, http.MethodGet,
		"/areas/7/analytics?startDate=2023-04-01T01:00:00Z&endDate=2023-04-01T10:00:00Z", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetAreaVisits(t *testing.T) {
	router, ms := newTestRouter(t)
	require.Equal(t, http.StatusCreated, do(t, router, http.MethodPost, "/areas", squareBody).Code)

	base := time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC)
	inside := ms.AddLocation(5, 5)
	outside := ms.AddLocation(50, 50)
	animal, err := ms.AddAnimal(outside, base, nil)
	require.NoError(t, err)
	for i, location := range []int64{inside, outside, inside} {
		_, err := ms.AddVisit(animal, location, base.Add(time.Duration(i+1)*time.Hour))
		require.NoError(t, err)
	}

	rec := do(t, router, http.MethodGet, "/areas/1/visits", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[models.VisitSearchResponse](t, rec)
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, inside, resp.Visits[0].LocationPointID)

	rec = do(t, router, http.MethodGet, "/areas/1/visits?startDate=2023-04-01T02:00:00Z&limit=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[models.VisitSearchResponse](t, rec).Total)

	for _, query := range []string{"?limit=abc", "?limit=-1", "?endDate=never"} {
		rec := do(t, router, http.MethodGet, "/areas/1/visits"+query, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, query)
	}
}

func TestGetVisit(t *testing.T) {
	router, ms := newTestRouter(t)

	base := time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC)
	location := ms.AddLocation(55.7, 37.6)
	animal, err := ms.AddAnimal(location, base, nil)
	require.NoError(t, err)
	id, err := ms.AddVisit(animal, location, base.Add(time.Hour))
	require.NoError(t, err)

	rec := do(t, router, http.MethodGet, fmt.Sprintf("/visits/%d", id), "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	visit := decode[models.VisitedLocation](t, rec)
	assert.Equal(t, animal, visit.AnimalID)
	assert.Equal(t, location, visit.LocationPointID)

	rec = do(t, router, http.MethodGet, "/visits/999", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, router, http.MethodGet, "/visits/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateAreaBlankName(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/areas", strings.Replace(squareBody, `"meadow"`, `"   "`, 1))
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	rec = do(t, router, http.MethodGet, "/areas", "")
	assert.Empty(t, decode[[]models.Area](t, rec))
}

func TestGetAnimalTypes(t *testing.T) {
	router, ms := newTestRouter(t)
	ms.AddAnimalType("mammal")
	ms.AddAnimalType("bird")

	rec := do(t, router, http.MethodGet, "/animal-types", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":1,"type":"mammal"},{"id":2,"type":"bird"}]`, rec.Body.String())
}
