package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/szu-oia/campus-checkin-api/internal/models"
	appErrors "github.com/szu-oia/campus-checkin-api/pkg/errors"
)

type fakeFeedbackRepo struct {
	created []models.Feedback
}

func (f *fakeFeedbackRepo) Create(_ context.Context, feedback *models.Feedback) error {
	f.created = append(f.created, *feedback)
	return nil
}

func (f *fakeFeedbackRepo) ListByStudent(_ context.Context, studentID string) ([]models.Feedback, error) {
	var out []models.Feedback
	for _, fb := range f.created {
		if fb.StudentID == studentID {
			out = append(out, fb)
		}
	}
	return out, nil
}

func TestFeedbackSubmitDefaultsCategory(t *testing.T) {
	repo := &fakeFeedbackRepo{}
	svc := NewFeedbackService(repo, zap.NewNop())

	err := svc.Submit(context.Background(), &models.Feedback{
		StudentID: "2021150233",
		Content:   "GPS drifts indoors at Huide building",
	})
	require.NoError(t, err)
	require.Len(t, repo.created, 1)
	assert.Equal(t, "other", repo.created[0].Category)
}

func TestFeedbackSubmitValidation(t *testing.T) {
	svc := NewFeedbackService(&fakeFeedbackRepo{}, zap.NewNop())

	tests := []struct {
		name     string
		feedback models.Feedback
	}{
		{"blank student", models.Feedback{Content: "hello"}},
		{"blank content", models.Feedback{StudentID: "2021150233"}},
		{"unknown category", models.Feedback{StudentID: "2021150233", Content: "x", Category: "rant"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Submit(context.Background(), &tt.feedback)
			require.Error(t, err)
			assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
		})
	}
}

func TestFeedbackListByStudent(t *testing.T) {
	repo := &fakeFeedbackRepo{}
	svc := NewFeedbackService(repo, zap.NewNop())

	require.NoError(t, svc.Submit(context.Background(), &models.Feedback{
		StudentID: "2021150233", Content: "a", Category: "location",
	}))
	require.NoError(t, svc.Submit(context.Background(), &models.Feedback{
		StudentID: "2019999999", Content: "b", Category: "bug",
	}))

	entries, err := svc.ListByStudent(context.Background(), "2021150233")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "location", entries[0].Category)

	_, err = svc.ListByStudent(context.Background(), " ")
	require.Error(t, err)
}
