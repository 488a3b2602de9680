package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/szu-oia/campus-checkin-api/internal/models"
)

// FeedbackRepository persists student feedback entries.
type FeedbackRepository struct {
	db *sqlx.DB
}

// NewFeedbackRepository creates a new feedback repository.
func NewFeedbackRepository(db *sqlx.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// Create stores a feedback entry.
func (r *FeedbackRepository) Create(ctx context.Context, feedback *models.Feedback) error {
	if feedback.ID == "" {
		feedback.ID = uuid.NewString()
	}
	if feedback.CreatedAt.IsZero() {
		feedback.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO feedback (id, student_id, category, content, contact, created_at)
        VALUES (:id, :student_id, :category, :content, :contact, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, feedback); err != nil {
		return fmt.Errorf("create feedback: %w", err)
	}
	return nil
}

// ListByStudent returns a student's feedback entries, newest first.
func (r *FeedbackRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Feedback, error) {
	const query = `SELECT id, student_id, category, content, contact, created_at FROM feedback WHERE student_id = $1 ORDER BY created_at DESC`
	var entries []models.Feedback
	if err := r.db.SelectContext(ctx, &entries, query, studentID); err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	return entries, nil
}
