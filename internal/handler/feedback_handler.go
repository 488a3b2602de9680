package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/szu-oia/campus-checkin-api/internal/dto"
	"github.com/szu-oia/campus-checkin-api/internal/models"
	"github.com/szu-oia/campus-checkin-api/internal/service"
	appErrors "github.com/szu-oia/campus-checkin-api/pkg/errors"
	"github.com/szu-oia/campus-checkin-api/pkg/response"
)

// FeedbackHandler exposes feedback endpoints.
type FeedbackHandler struct {
	feedback *service.FeedbackService
}

// NewFeedbackHandler constructs FeedbackHandler.
func NewFeedbackHandler(feedback *service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedback: feedback}
}

// Submit godoc
// @Summary Submit feedback
// @Tags Feedback
// @Accept json
// @Produce json
// @Param payload body dto.FeedbackRequest true "Feedback payload"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /feedback [post]
func (h *FeedbackHandler) Submit(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "content is required"))
		return
	}

	feedback := &models.Feedback{
		StudentID: claims.StudentID,
		Category:  req.Category,
		Content:   req.Content,
		Contact:   req.Contact,
	}
	if err := h.feedback.Submit(c.Request.Context(), feedback); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, feedback)
}

// List godoc
// @Summary List the caller's feedback entries
// @Tags Feedback
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /feedback [get]
func (h *FeedbackHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	entries, err := h.feedback.ListByStudent(c.Request.Context(), claims.StudentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}
