package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/szu-oia/campus-checkin-api/internal/models"
)

// ScheduleRepository reads a student's class sessions.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository creates a new schedule repository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

const sessionSelect = `SELECT cs.id AS schedule_id, sc.student_id, c.course_code, c.course_name, c.course_name_en, c.teacher_name,
        cs.day_of_week, cs.start_time, cs.end_time, cs.building_id, cs.classroom
        FROM student_courses sc
        JOIN course_schedules cs ON cs.course_id = sc.course_id
        JOIN courses c ON c.id = sc.course_id`

// SessionsForStudentOnWeekday returns the student's sessions scheduled on the
// given weekday (Monday=0), ordered by start time.
func (r *ScheduleRepository) SessionsForStudentOnWeekday(ctx context.Context, studentID string, weekday int) ([]models.ClassSession, error) {
	query := sessionSelect + ` WHERE sc.student_id = $1 AND sc.status = 'active' AND cs.day_of_week = $2 ORDER BY cs.start_time ASC`
	var sessions []models.ClassSession
	if err := r.db.SelectContext(ctx, &sessions, query, studentID, weekday); err != nil {
		return nil, fmt.Errorf("list sessions for student on weekday: %w", err)
	}
	return sessions, nil
}

// SessionsForStudent returns the student's full weekly timetable ordered by
// day then start time.
func (r *ScheduleRepository) SessionsForStudent(ctx context.Context, studentID string) ([]models.ClassSession, error) {
	query := sessionSelect + ` WHERE sc.student_id = $1 AND sc.status = 'active' ORDER BY cs.day_of_week ASC, cs.start_time ASC`
	var sessions []models.ClassSession
	if err := r.db.SelectContext(ctx, &sessions, query, studentID); err != nil {
		return nil, fmt.Errorf("list sessions for student: %w", err)
	}
	return sessions, nil
}

// FindByScheduleID loads a single session row for one student's schedule.
func (r *ScheduleRepository) FindByScheduleID(ctx context.Context, studentID, scheduleID string) (*models.ClassSession, error) {
	query := sessionSelect + ` WHERE sc.student_id = $1 AND cs.id = $2`
	var session models.ClassSession
	if err := r.db.GetContext(ctx, &session, query, studentID, scheduleID); err != nil {
		return nil, err
	}
	return &session, nil
}
