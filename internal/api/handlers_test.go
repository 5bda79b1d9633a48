package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"alcyxob/trainer-scheduler/internal/domain"
	"alcyxob/trainer-scheduler/internal/repository/sqlite"
	"alcyxob/trainer-scheduler/internal/schedule"
	"alcyxob/trainer-scheduler/internal/service"
)

const testSecret = "test-secret"

type recordingSweeps struct {
	started, stopped []string
}

func (r *recordingSweeps) Start(id string) { r.started = append(r.started, id) }
func (r *recordingSweeps) Stop(id string)  { r.stopped = append(r.stopped, id) }

type testApp struct {
	router    *gin.Engine
	sweeps    *recordingSweeps
	trainerID string
}

func setupTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close(db) })

	users := sqlite.NewUserRepository(db)
	sessions := sqlite.NewSessionRepository(db)
	logger := zap.NewNop()

	auth := service.NewAuthService(users, testSecret, time.Hour)
	ctx := context.Background()
	trainer, err := auth.Register(ctx, "John Smith", "john@example.com", "johnsmith", "password123", domain.RoleTrainer)
	require.NoError(t, err)
	_, err = auth.Register(ctx, "Admin", "admin@example.com", "admin", "admin123", domain.RoleAdmin)
	require.NoError(t, err)

	app := &testApp{router: gin.New(), sweeps: &recordingSweeps{}, trainerID: trainer.ID}
	SetupRoutes(app.router, testSecret, logger, Services{
		Auth:     auth,
		Sessions: service.NewSessionService(sessions, schedule.CleanupPolicy{Enabled: true}, time.UTC, logger),
		Admin:    service.NewAdminService(users, sessions, time.UTC),
		Export:   service.NewExportService(sessions, nil, 0, time.UTC, logger),
		Sweeps:   app.sweeps,
	})
	return app
}

func (a *testApp) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return w, out
}

func (a *testApp) login(t *testing.T, username, password string, role domain.Role) string {
	t.Helper()
	w, out := a.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{"username": username, "password": password, "role": role})
	require.Equal(t, http.StatusOK, w.Code, out)
	return out["token"].(string)
}

// nextYear keeps fixtures in the future regardless of when tests run.
func nextYear() int {
	return time.Now().UTC().Year() + 1
}

func TestLoginAndRoles(t *testing.T) {
	app := setupTestApp(t)

	w, out := app.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{"username": "admin", "password": "admin123", "role": "trainer"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, false, out["success"])

	trainerToken := app.login(t, "johnsmith", "password123", domain.RoleTrainer)
	adminToken := app.login(t, "admin", "admin123", domain.RoleAdmin)
	assert.Equal(t, []string{app.trainerID}, app.sweeps.started)

	w, _ = app.do(t, http.MethodGet, "/api/v1/admin/trainers", trainerToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = app.do(t, http.MethodGet, "/api/v1/trainer/sessions", adminToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = app.do(t, http.MethodGet, "/api/v1/trainer/sessions", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, out = app.do(t, http.MethodGet, "/api/v1/me", trainerToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, app.trainerID, out["userId"])

	w, _ = app.do(t, http.MethodPost, "/api/v1/auth/logout", trainerToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{app.trainerID}, app.sweeps.stopped)
}

func TestSessionLifecycle(t *testing.T) {
	app := setupTestApp(t)
	token := app.login(t, "johnsmith", "password123", domain.RoleTrainer)
	year := nextYear()

	w, out := app.do(t, http.MethodPost, "/api/v1/trainer/sessions", token, gin.H{
		"start_date":   fmt.Sprintf("%d-03-01", year),
		"end_date":     fmt.Sprintf("%d-03-14", year),
		"start_time":   "09:00",
		"end_time":     "10:30",
		"weekdays":     []int{1, 3},
		"title":        "Strength",
		"client_name":  "Alex",
		"session_type": "personal",
	})
	require.Equal(t, http.StatusCreated, w.Code, out)
	assert.Equal(t, true, out["success"])
	count := int(out["count"].(float64))
	assert.Equal(t, 4, count)

	first := out["sessions"].([]any)[0].(map[string]any)
	assert.Equal(t, float64(90), first["duration"])
	assert.Equal(t, "09:00", first["session_time"])
	id := first["id"].(string)

	w, out = app.do(t, http.MethodGet, "/api/v1/trainer/sessions", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, out["sessions"], 4)
	assert.Equal(t, float64(0), out["removed"])

	w, out = app.do(t, http.MethodPost, "/api/v1/trainer/sessions/"+id+"/end", token, nil)
	assert.Equal(t, http.StatusConflict, w.Code, out)

	w, out = app.do(t, http.MethodPost, "/api/v1/trainer/sessions/"+id+"/start", token, nil)
	require.Equal(t, http.StatusOK, w.Code, out)
	assert.Equal(t, "started", out["session"].(map[string]any)["status"])

	w, _ = app.do(t, http.MethodPost, "/api/v1/trainer/sessions/"+id+"/end", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, out = app.do(t, http.MethodGet, "/api/v1/trainer/stats", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := out["stats"].(map[string]any)
	assert.Equal(t, float64(4), stats["total"])
	assert.Equal(t, float64(1), stats["completed"])

	w, _ = app.do(t, http.MethodDelete, "/api/v1/trainer/sessions/"+id, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = app.do(t, http.MethodDelete, "/api/v1/trainer/sessions/"+id, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateSessionsValidation(t *testing.T) {
	app := setupTestApp(t)
	token := app.login(t, "johnsmith", "password123", domain.RoleTrainer)

	tests := []struct {
		name  string
		body  gin.H
		field string
	}{
		{name: "bad date", body: gin.H{"start_date": "03/01/2030", "start_time": "09:00", "end_time": "10:00"}, field: "start_date"},
		{name: "bad time", body: gin.H{"start_date": "2030-03-01", "end_date": "2030-03-02", "start_time": "9am", "end_time": "10:00"}, field: "start_time"},
		{name: "no weekdays", body: gin.H{"start_date": "2030-03-01", "end_date": "2030-03-02", "start_time": "09:00", "end_time": "10:00", "title": "x", "client_name": "y", "session_type": "z"}, field: "weekdays"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, out := app.do(t, http.MethodPost, "/api/v1/trainer/sessions", token, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, out["error"], tt.field)
		})
	}
}

func TestCalendarAndAdmin(t *testing.T) {
	app := setupTestApp(t)
	trainerToken := app.login(t, "johnsmith", "password123", domain.RoleTrainer)
	adminToken := app.login(t, "admin", "admin123", domain.RoleAdmin)
	year := nextYear()

	w, _ := app.do(t, http.MethodPost, "/api/v1/trainer/sessions", trainerToken, gin.H{
		"start_date":   fmt.Sprintf("%d-06-01", year),
		"end_date":     fmt.Sprintf("%d-06-30", year),
		"start_time":   "18:00",
		"end_time":     "19:00",
		"weekdays":     []int{0, 1, 2, 3, 4, 5, 6},
		"title":        "Yoga",
		"client_name":  "Sam",
		"session_type": "group",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	path := fmt.Sprintf("/api/v1/trainer/calendar?view=month&date=%d-05-15&nav=1", year)
	w, out := app.do(t, http.MethodGet, path, trainerToken, nil)
	require.Equal(t, http.StatusOK, w.Code, out)
	cal := out["calendar"].(map[string]any)
	assert.Equal(t, "month", cal["view"])
	assert.Equal(t, fmt.Sprintf("June %d", year), cal["label"])
	assert.Len(t, cal["cells"], 42)

	w, _ = app.do(t, http.MethodGet, "/api/v1/trainer/calendar?view=year", trainerToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w, _ = app.do(t, http.MethodGet, "/api/v1/trainer/calendar?nav=5", trainerToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, out = app.do(t, http.MethodGet, "/api/v1/admin/trainers?search=SMITH", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	trainers := out["trainers"].([]any)
	require.Len(t, trainers, 1)
	assert.Equal(t, float64(30), trainers[0].(map[string]any)["session_count"])

	w, out = app.do(t, http.MethodGet, "/api/v1/admin/trainers/"+app.trainerID+"/calendar?view=week&date="+fmt.Sprintf("%d-06-10", year), adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code, out)
	assert.Len(t, out["calendar"].(map[string]any)["cells"], 7)

	w, _ = app.do(t, http.MethodGet, "/api/v1/admin/trainers/nope/stats", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = app.do(t, http.MethodPost, "/api/v1/trainer/sessions/export", trainerToken, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
