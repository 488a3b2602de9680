package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/szu-oia/campus-checkin-api/internal/models"
	appErrors "github.com/szu-oia/campus-checkin-api/pkg/errors"
)

type feedbackRepository interface {
	Create(ctx context.Context, feedback *models.Feedback) error
	ListByStudent(ctx context.Context, studentID string) ([]models.Feedback, error)
}

// FeedbackService handles student feedback submissions.
type FeedbackService struct {
	repo      feedbackRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewFeedbackService creates a new feedback service.
func NewFeedbackService(repo feedbackRepository, logger *zap.Logger) *FeedbackService {
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &FeedbackService{repo: repo, validator: validator.New(), logger: logger}
	_ = svc.validator.RegisterValidation("feedback_category", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "bug", "location", "schedule", "suggestion", "other":
			return true
		default:
			return false
		}
	})
	return svc
}

type feedbackSubmission struct {
	StudentID string `validate:"required"`
	Category  string `validate:"required,feedback_category"`
	Content   string `validate:"required,max=2000"`
}

// Submit validates and stores a feedback entry. An empty category defaults
// to "other".
func (s *FeedbackService) Submit(ctx context.Context, feedback *models.Feedback) error {
	if feedback.Category == "" {
		feedback.Category = "other"
	}

	submission := feedbackSubmission{
		StudentID: strings.TrimSpace(feedback.StudentID),
		Category:  feedback.Category,
		Content:   strings.TrimSpace(feedback.Content),
	}
	if err := s.validator.Struct(submission); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid feedback payload")
	}

	if err := s.repo.Create(ctx, feedback); err != nil {
		return err
	}

	s.logger.Info("feedback submitted",
		zap.String("student_id", feedback.StudentID),
		zap.String("category", feedback.Category))
	return nil
}

// ListByStudent returns the student's submitted feedback, newest first.
func (s *FeedbackService) ListByStudent(ctx context.Context, studentID string) ([]models.Feedback, error) {
	if strings.TrimSpace(studentID) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student identity is required")
	}
	return s.repo.ListByStudent(ctx, studentID)
}
