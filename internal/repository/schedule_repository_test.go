package repository

import (
	"context"
	"database/sql"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/szu-oia/campus-checkin-api/internal/models"
)

func newScheduleMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func sessionRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"schedule_id", "student_id", "course_code", "course_name", "course_name_en", "teacher_name", "day_of_week", "start_time", "end_time", "building_id", "classroom"})
}

func TestScheduleRepositorySessionsForStudentOnWeekday(t *testing.T) {
	db, mock, cleanup := newScheduleMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectQuery("FROM student_courses sc").
		WithArgs("2023000101", 0).
		WillReturnRows(sessionRows().
			AddRow("sch-1", "2023000101", "CS101", "计算机导论", "Intro to CS", "王老师", 0, "08:30:00", "10:05:00", "b-1", "101"))

	sessions, err := repo.SessionsForStudentOnWeekday(context.Background(), "2023000101", 0)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "sch-1", sessions[0].ScheduleID)
	assert.Equal(t, 0, sessions[0].DayOfWeek)
	assert.Equal(t, models.ClockTime{Hour: 8, Minute: 30}, sessions[0].StartTime)
	assert.Equal(t, models.ClockTime{Hour: 10, Minute: 5}, sessions[0].EndTime)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositorySessionsForStudentOnWeekdayEmpty(t *testing.T) {
	db, mock, cleanup := newScheduleMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectQuery("FROM student_courses sc").
		WithArgs("2023000101", 6).
		WillReturnRows(sessionRows())

	sessions, err := repo.SessionsForStudentOnWeekday(context.Background(), "2023000101", 6)
	require.NoError(t, err)
	assert.Empty(t, sessions)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryFindByScheduleIDMissing(t *testing.T) {
	db, mock, cleanup := newScheduleMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectQuery("FROM student_courses sc").
		WithArgs("2023000101", "sch-404").
		WillReturnRows(sessionRows())

	_, err := repo.FindByScheduleID(context.Background(), "2023000101", "sch-404")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
