package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/szu-oia/campus-checkin-api/internal/dto"
	"github.com/szu-oia/campus-checkin-api/internal/service"
	appErrors "github.com/szu-oia/campus-checkin-api/pkg/errors"
	"github.com/szu-oia/campus-checkin-api/pkg/response"
)

// AuthHandler exposes CAS authentication endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs AuthHandler.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login godoc
// @Summary Exchange a CAS service ticket for an access token
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body dto.CASLoginRequest true "Service ticket"
// @Success 200 {object} response.Envelope
// @Router /auth/cas/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.CASLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "ticket is required"))
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Ticket)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Me godoc
// @Summary Return the identity behind the presented token
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{
		"student_id": claims.StudentID,
		"full_name":  claims.FullName,
		"user_type":  claims.UserType,
	}, nil)
}
