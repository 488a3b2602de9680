package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/szu-oia/campus-checkin-api/internal/models"
	appErrors "github.com/szu-oia/campus-checkin-api/pkg/errors"
)

type scheduleLister interface {
	SessionsForStudent(ctx context.Context, studentID string) ([]models.ClassSession, error)
	FindByScheduleID(ctx context.Context, studentID, scheduleID string) (*models.ClassSession, error)
}

// ScheduleService serves the student's timetable read paths.
type ScheduleService struct {
	schedules scheduleLister
	logger    *zap.Logger
}

// NewScheduleService creates a new schedule service.
func NewScheduleService(schedules scheduleLister, logger *zap.Logger) *ScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{schedules: schedules, logger: logger}
}

// WeekSchedule groups a student's sessions by weekday, Monday first.
type WeekSchedule struct {
	Days [7][]models.ClassSession `json:"days"`
}

// ListForStudent returns the student's full timetable grouped by weekday.
func (s *ScheduleService) ListForStudent(ctx context.Context, studentID string) (*WeekSchedule, error) {
	if strings.TrimSpace(studentID) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student identity is required")
	}

	sessions, err := s.schedules.SessionsForStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	week := &WeekSchedule{}
	for _, session := range sessions {
		if session.DayOfWeek < 0 || session.DayOfWeek > 6 {
			s.logger.Warn("session with out-of-range weekday skipped",
				zap.String("schedule_id", session.ScheduleID),
				zap.Int("day_of_week", session.DayOfWeek))
			continue
		}
		week.Days[session.DayOfWeek] = append(week.Days[session.DayOfWeek], session)
	}
	return week, nil
}

// Get returns one session from the student's timetable.
func (s *ScheduleService) Get(ctx context.Context, studentID, scheduleID string) (*models.ClassSession, error) {
	if strings.TrimSpace(scheduleID) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "schedule id is required")
	}
	session, err := s.schedules.FindByScheduleID(ctx, studentID, scheduleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule entry not found")
		}
		return nil, err
	}
	return session, nil
}
