package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/szu-oia/campus-checkin-api/internal/dto"
	"github.com/szu-oia/campus-checkin-api/internal/geo"
	"github.com/szu-oia/campus-checkin-api/internal/models"
	appErrors "github.com/szu-oia/campus-checkin-api/pkg/errors"
	"github.com/szu-oia/campus-checkin-api/pkg/export"
)

type statusResolver interface {
	Resolve(ctx context.Context, studentID string, at time.Time, coord geo.Coordinate) (*models.AttendanceVerdict, error)
	LocateNearest(ctx context.Context, coord geo.Coordinate) (*NearestBuilding, error)
}

type attendanceRecordRepository interface {
	Create(ctx context.Context, record *models.AttendanceRecord) error
	List(ctx context.Context, filter models.AttendanceRecordFilter) ([]models.AttendanceRecord, int, error)
	Summary(ctx context.Context, studentID string) (*models.AttendanceSummary, error)
}

type tabularExporter interface {
	Render(data export.Dataset) ([]byte, error)
}

type documentExporter interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// RecordService wraps the pure verdict resolver with persistence: it decides
// which outcomes become attendance records and serves the record read paths.
type RecordService struct {
	resolver statusResolver
	records  attendanceRecordRepository
	csv      tabularExporter
	pdf      documentExporter
	metrics  *MetricsService
	logger   *zap.Logger
}

// NewRecordService constructs the record service.
func NewRecordService(resolver statusResolver, records attendanceRecordRepository, csv tabularExporter, pdf documentExporter, metrics *MetricsService, logger *zap.Logger) *RecordService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordService{resolver: resolver, records: records, csv: csv, pdf: pdf, metrics: metrics, logger: logger}
}

// CheckIn resolves the verdict for the student at the given instant and
// persists a record for present/late/absent outcomes. no_class and error
// verdicts are returned without writing anything.
func (s *RecordService) CheckIn(ctx context.Context, studentID string, at time.Time, coord geo.Coordinate) (*dto.CheckInResult, error) {
	verdict, err := s.resolver.Resolve(ctx, studentID, at, coord)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordVerdict(string(verdict.Status))

	result := &dto.CheckInResult{
		Status:   verdict.Status,
		Message:  verdict.Message,
		Session:  verdict.Session,
		Building: verdict.Building,
	}
	if !verdict.Status.Recordable() {
		return result, nil
	}

	record := &models.AttendanceRecord{
		StudentID:   studentID,
		Status:      verdict.Status,
		CheckInTime: at,
		Longitude:   coord.Lon,
		Latitude:    coord.Lat,
	}
	if verdict.Session != nil {
		scheduleID := verdict.Session.ScheduleID
		record.ScheduleID = &scheduleID
	}
	if verdict.Building != nil {
		distance := geo.Distance(coord, verdict.Building.Coordinate())
		record.DistanceMeters = &distance
		s.metrics.ObserveCheckInDistance(distance)
	}

	if err := s.records.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("persist check-in record: %w", err)
	}
	s.logger.Info("check-in recorded",
		zap.String("student_id", studentID),
		zap.String("status", string(verdict.Status)))

	result.Record = record
	return result, nil
}

// LocationInfo composes the nearest-building read with the verdict context so
// a client can render "where am I and what should I be attending" in one call.
func (s *RecordService) LocationInfo(ctx context.Context, studentID string, at time.Time, coord geo.Coordinate) (*dto.LocationInfoResponse, error) {
	nearest, err := s.resolver.LocateNearest(ctx, coord)
	if err != nil {
		return nil, err
	}

	verdict, err := s.resolver.Resolve(ctx, studentID, at, coord)
	if err != nil {
		return nil, err
	}

	resp := &dto.LocationInfoResponse{
		Building:        nearest.Building,
		IsValidLocation: nearest.OnCampus,
		Session:         verdict.Session,
		Status:          verdict.Status,
		Message:         verdict.Message,
	}
	if !math.IsInf(nearest.Distance, 1) {
		rounded := math.Round(nearest.Distance*100) / 100
		resp.Distance = &rounded
	}
	return resp, nil
}

// List returns a page of the student's attendance records.
func (s *RecordService) List(ctx context.Context, filter models.AttendanceRecordFilter) ([]models.AttendanceRecord, *models.Pagination, error) {
	if strings.TrimSpace(filter.StudentID) == "" {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "student id is required")
	}
	records, total, err := s.records.List(ctx, filter)
	if err != nil {
		return nil, nil, err
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return records, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Summary aggregates the student's verdict counts.
func (s *RecordService) Summary(ctx context.Context, studentID string) (*models.AttendanceSummary, error) {
	if strings.TrimSpace(studentID) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student id is required")
	}
	return s.records.Summary(ctx, studentID)
}

// Export renders the student's full record history as CSV or PDF bytes.
func (s *RecordService) Export(ctx context.Context, studentID, format string) ([]byte, string, error) {
	records, _, err := s.records.List(ctx, models.AttendanceRecordFilter{StudentID: studentID, PageSize: 100})
	if err != nil {
		return nil, "", err
	}

	data := export.Dataset{
		Headers: []string{"Date", "Time", "Status", "Schedule", "Distance (m)"},
	}
	for _, record := range records {
		row := map[string]string{
			"Date":   record.CheckInTime.Format("2006-01-02"),
			"Time":   record.CheckInTime.Format("15:04"),
			"Status": string(record.Status),
		}
		if record.ScheduleID != nil {
			row["Schedule"] = *record.ScheduleID
		}
		if record.DistanceMeters != nil {
			row["Distance (m)"] = fmt.Sprintf("%.2f", *record.DistanceMeters)
		}
		data.Rows = append(data.Rows, row)
	}

	switch strings.ToLower(format) {
	case "csv", "":
		payload, err := s.csv.Render(data)
		if err != nil {
			return nil, "", fmt.Errorf("render csv export: %w", err)
		}
		return payload, "text/csv", nil
	case "pdf":
		payload, err := s.pdf.Render(data, fmt.Sprintf("Attendance %s", studentID))
		if err != nil {
			return nil, "", fmt.Errorf("render pdf export: %w", err)
		}
		return payload, "application/pdf", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "unsupported export format, expected csv or pdf")
	}
}
