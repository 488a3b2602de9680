package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/szu-oia/campus-checkin-api/internal/models"
	"github.com/szu-oia/campus-checkin-api/internal/service"
)

type fakeFeedbackStore struct {
	created []models.Feedback
}

func (f *fakeFeedbackStore) Create(_ context.Context, feedback *models.Feedback) error {
	f.created = append(f.created, *feedback)
	return nil
}

func (f *fakeFeedbackStore) ListByStudent(context.Context, string) ([]models.Feedback, error) {
	return f.created, nil
}

func TestFeedbackHandlerSubmit(t *testing.T) {
	store := &fakeFeedbackStore{}
	handler := NewFeedbackHandler(service.NewFeedbackService(store, nil))

	c, rec := authedContext(t, http.MethodPost, "/feedback",
		`{"category": "location", "content": "check-in fails on the 5th floor"}`)
	handler.Submit(c)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, store.created, 1)
	assert.Equal(t, "2021150233", store.created[0].StudentID)
	assert.Equal(t, "location", store.created[0].Category)
}

func TestFeedbackHandlerSubmitRejectsEmptyContent(t *testing.T) {
	handler := NewFeedbackHandler(service.NewFeedbackService(&fakeFeedbackStore{}, nil))

	c, rec := authedContext(t, http.MethodPost, "/feedback", `{"category": "bug"}`)
	handler.Submit(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFeedbackHandlerList(t *testing.T) {
	store := &fakeFeedbackStore{created: []models.Feedback{
		{ID: "fb-1", StudentID: "2021150233", Category: "bug", Content: "x"},
	}}
	handler := NewFeedbackHandler(service.NewFeedbackService(store, nil))

	c, rec := authedContext(t, http.MethodGet, "/feedback", "")
	handler.List(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Data []models.Feedback `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "fb-1", envelope.Data[0].ID)
}
