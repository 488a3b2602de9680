package handler

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

	"github.com/szu-oia/campus-checkin-api/internal/geo"
	"github.com/szu-oia/campus-checkin-api/internal/middleware"
	"github.com/szu-oia/campus-checkin-api/internal/models"
	"github.com/szu-oia/campus-checkin-api/internal/service"
	"github.com/szu-oia/campus-checkin-api/pkg/export"
)

type fakeVerdictResolver struct {
	verdict *models.AttendanceVerdict
	nearest *service.NearestBuilding
	lastAt  time.Time
}

func (f *fakeVerdictResolver) Resolve(_ context.Context, _ string, at time.Time, _ geo.Coordinate) (*models.AttendanceVerdict, error) {
	f.lastAt = at
	return f.verdict, nil
}

func (f *fakeVerdictResolver) LocateNearest(context.Context, geo.Coordinate) (*service.NearestBuilding, error) {
	if f.nearest != nil {
		return f.nearest, nil
	}
	return &service.NearestBuilding{Distance: 12.5, OnCampus: true}, nil
}

type fakeRecordStore struct {
	created []models.AttendanceRecord
}

func (f *fakeRecordStore) Create(_ context.Context, record *models.AttendanceRecord) error {
	f.created = append(f.created, *record)
	return nil
}

func (f *fakeRecordStore) List(context.Context, models.AttendanceRecordFilter) ([]models.AttendanceRecord, int, error) {
	return nil, 0, nil
}

func (f *fakeRecordStore) Summary(context.Context, string) (*models.AttendanceSummary, error) {
	return &models.AttendanceSummary{}, nil
}

func newCheckinTestHandler(resolver *fakeVerdictResolver, store *fakeRecordStore) *CheckinHandler {
	records := service.NewRecordService(resolver, store, export.NewCSVExporter(), export.NewPDFExporter(), nil, nil)
	return NewCheckinHandler(records)
}

func authedContext(t *testing.T, method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(method, target, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.ContextUserKey, &models.JWTClaims{StudentID: "2021150233", FullName: "Zhang San"})
	return c, rec
}

func TestCheckinHandlerRequiresAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newCheckinTestHandler(&fakeVerdictResolver{}, &fakeRecordStore{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/attendance/check-in", strings.NewReader(`{}`))

	handler.CheckIn(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCheckinHandlerRejectsMissingCoordinates(t *testing.T) {
	handler := newCheckinTestHandler(&fakeVerdictResolver{}, &fakeRecordStore{})

	c, rec := authedContext(t, http.MethodPost, "/attendance/check-in", `{"longitude": 113.936}`)
	handler.CheckIn(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckinHandlerSuccess(t *testing.T) {
	resolver := &fakeVerdictResolver{verdict: &models.AttendanceVerdict{
		Status:  models.VerdictPresent,
		Message: "checked in on time",
	}}
	store := &fakeRecordStore{}
	handler := newCheckinTestHandler(resolver, store)

	c, rec := authedContext(t, http.MethodPost, "/attendance/check-in",
		`{"longitude": 113.936, "latitude": 22.527, "timestamp": 1712018400}`)
	handler.CheckIn(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, time.Unix(1712018400, 0).Unix(), resolver.lastAt.Unix())
	require.Len(t, store.created, 1)
	assert.Equal(t, "2021150233", store.created[0].StudentID)

	var envelope struct {
		Data struct {
			Status string `json:"status"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "present", envelope.Data.Status)
}

func TestLocationInfoHandlerSuccess(t *testing.T) {
	resolver := &fakeVerdictResolver{
		verdict: &models.AttendanceVerdict{Status: models.VerdictNoClass, Message: "no class scheduled at this time"},
		nearest: &service.NearestBuilding{Distance: 42.129, OnCampus: true},
	}
	handler := newCheckinTestHandler(resolver, &fakeRecordStore{})

	c, rec := authedContext(t, http.MethodPost, "/attendance/location-info",
		`{"longitude": 113.936, "latitude": 22.527}`)
	handler.LocationInfo(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Data struct {
			Distance        *float64 `json:"distance"`
			IsValidLocation bool     `json:"is_valid_location"`
			Status          string   `json:"status"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Data.Distance)
	assert.Equal(t, 42.13, *envelope.Data.Distance)
	assert.True(t, envelope.Data.IsValidLocation)
	assert.Equal(t, "no_class", envelope.Data.Status)
}
