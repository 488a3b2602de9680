package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/szu-oia/campus-checkin-api/internal/models"
)

func newAttendanceMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestAttendanceRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newAttendanceMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectExec("INSERT INTO attendance_records").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	distance := 15.2
	record := &models.AttendanceRecord{
		StudentID:      "2023000101",
		Status:         models.VerdictPresent,
		CheckInTime:    time.Now(),
		Longitude:      113.9365,
		Latitude:       22.5432,
		DistanceMeters: &distance,
	}
	err := repo.Create(context.Background(), record)
	require.NoError(t, err)
	assert.NotEmpty(t, record.ID)
	assert.False(t, record.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryListFiltersByStatus(t *testing.T) {
	db, mock, cleanup := newAttendanceMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	rows := sqlmock.NewRows([]string{"id", "student_id", "schedule_id", "status", "check_in_time", "longitude", "latitude", "distance_meters", "created_at"}).
		AddRow("rec-1", "2023000101", "sch-1", "late", time.Now(), 113.9365, 22.5432, 15.2, time.Now())
	mock.ExpectQuery("FROM attendance_records WHERE 1=1 AND student_id").
		WithArgs("2023000101", models.VerdictLate).
		WillReturnRows(rows)
	mock.ExpectQuery("SELECT COUNT").
		WithArgs("2023000101", models.VerdictLate).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	status := models.VerdictLate
	records, total, err := repo.List(context.Background(), models.AttendanceRecordFilter{StudentID: "2023000101", Status: &status})
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, models.VerdictLate, records[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositorySummary(t *testing.T) {
	db, mock, cleanup := newAttendanceMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectQuery("FROM attendance_records WHERE student_id").
		WithArgs("2023000101").
		WillReturnRows(sqlmock.NewRows([]string{"present", "late", "absent", "total"}).AddRow(8, 1, 1, 10))

	summary, err := repo.Summary(context.Background(), "2023000101")
	require.NoError(t, err)
	assert.Equal(t, 8, summary.Present)
	assert.Equal(t, 1, summary.Late)
	assert.Equal(t, 1, summary.Absent)
	assert.InDelta(t, 0.9, summary.Rate, 1e-9)
	assert.NoError(t, mock.ExpectationsWereMet())
}
