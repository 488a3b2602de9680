package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/szu-oia/campus-checkin-api/internal/geo"
	"github.com/szu-oia/campus-checkin-api/internal/models"
	"github.com/szu-oia/campus-checkin-api/pkg/config"
	appErrors "github.com/szu-oia/campus-checkin-api/pkg/errors"
)

type scheduleReader interface {
	SessionsForStudentOnWeekday(ctx context.Context, studentID string, weekday int) ([]models.ClassSession, error)
}

type buildingReader interface {
	FindByID(ctx context.Context, id string) (*models.Building, error)
	List(ctx context.Context) ([]models.Building, error)
}

// NearestBuilding is the outcome of a nearest-building lookup. Distance is
// +Inf when no buildings exist.
type NearestBuilding struct {
	Building *models.Building `json:"building,omitempty"`
	Distance float64          `json:"distance"`
	OnCampus bool             `json:"on_campus"`
}

// CheckinService resolves attendance verdicts. It owns no state beyond its
// configuration: every call is a pure computation over the schedule and
// building snapshots read at that instant, so concurrent calls never
// interfere.
type CheckinService struct {
	schedules     scheduleReader
	buildings     buildingReader
	loc           *time.Location
	checkInRadius float64
	campusRadius  float64
	lateThreshold time.Duration
	logger        *zap.Logger
}

// NewCheckinService constructs the check-in service. The configured timezone
// must resolve; check-in instants are interpreted in that zone only.
func NewCheckinService(schedules scheduleReader, buildings buildingReader, cfg config.AttendanceConfig, logger *zap.Logger) (*CheckinService, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load attendance timezone %q: %w", cfg.Timezone, err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckinService{
		schedules:     schedules,
		buildings:     buildings,
		loc:           loc,
		checkInRadius: cfg.CheckInRadiusMeters,
		campusRadius:  cfg.CampusRadiusMeters,
		lateThreshold: cfg.LateThreshold,
		logger:        logger,
	}, nil
}

// Resolve determines the attendance verdict for one check-in attempt. The
// decision runs a single pass and every branch is terminal:
//
//  1. no session covers the instant        -> no_class
//  2. session's building row missing       -> error (data fault, not student fault)
//  3. outside the strict check-in radius   -> absent
//  4. within the lateness grace period     -> present, otherwise late
func (s *CheckinService) Resolve(ctx context.Context, studentID string, at time.Time, coord geo.Coordinate) (*models.AttendanceVerdict, error) {
	if strings.TrimSpace(studentID) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student id is required")
	}
	if !coord.IsValid() {
		return nil, appErrors.ErrInvalidLocation
	}

	session, err := s.findActiveSession(ctx, studentID, at)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return &models.AttendanceVerdict{
			Status:  models.VerdictNoClass,
			Message: "no class scheduled at this time",
		}, nil
	}

	building, err := s.buildings.FindByID(ctx, session.BuildingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("session references unknown building",
				zap.String("schedule_id", session.ScheduleID),
				zap.String("building_id", session.BuildingID))
			return &models.AttendanceVerdict{
				Status:  models.VerdictError,
				Session: session,
				Message: "building record missing for this session",
			}, nil
		}
		return nil, fmt.Errorf("lookup building %s: %w", session.BuildingID, err)
	}

	if !geo.WithinRange(coord, building.Coordinate(), s.checkInRadius) {
		return &models.AttendanceVerdict{
			Status:   models.VerdictAbsent,
			Session:  session,
			Building: building,
			Message:  "not within range of the classroom building",
		}, nil
	}

	local := at.In(s.loc)
	sessionStart := time.Date(local.Year(), local.Month(), local.Day(),
		session.StartTime.Hour, session.StartTime.Minute, 0, 0, s.loc)
	lateDeadline := sessionStart.Add(s.lateThreshold)

	if at.After(lateDeadline) {
		return &models.AttendanceVerdict{
			Status:   models.VerdictLate,
			Session:  session,
			Building: building,
			Message:  "late check-in",
		}, nil
	}
	return &models.AttendanceVerdict{
		Status:   models.VerdictPresent,
		Session:  session,
		Building: building,
		Message:  "check-in successful",
	}, nil
}

// findActiveSession returns the student's session whose window contains the
// instant, or nil. The weekday and minute-of-day come from the campus
// timezone, never the caller's. When overlapping sessions exist (they should
// not) the first in repository order wins.
func (s *CheckinService) findActiveSession(ctx context.Context, studentID string, at time.Time) (*models.ClassSession, error) {
	local := at.In(s.loc)
	weekday := models.MondayIndex(local.Weekday())
	minuteOfDay := local.Hour()*60 + local.Minute()

	sessions, err := s.schedules.SessionsForStudentOnWeekday(ctx, studentID, weekday)
	if err != nil {
		return nil, fmt.Errorf("fetch sessions for %s: %w", studentID, err)
	}

	for i := range sessions {
		if sessions[i].Contains(minuteOfDay) {
			return &sessions[i], nil
		}
	}
	return nil, nil
}

// LocateNearest scans all buildings and returns the closest one along with
// whether it is inside the campus presence radius. Ties are broken by
// repository order (id ASC): the first building at the minimum distance wins,
// which matters because two campus buildings share identical coordinates.
func (s *CheckinService) LocateNearest(ctx context.Context, coord geo.Coordinate) (*NearestBuilding, error) {
	if !coord.IsValid() {
		return nil, appErrors.ErrInvalidLocation
	}

	buildings, err := s.buildings.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list buildings: %w", err)
	}

	result := &NearestBuilding{Distance: math.Inf(1)}
	for i := range buildings {
		d := geo.Distance(coord, buildings[i].Coordinate())
		if d < result.Distance {
			result.Distance = d
			result.Building = &buildings[i]
		}
	}
	if result.Building != nil {
		result.OnCampus = result.Distance <= s.campusRadius
	}
	return result, nil
}
