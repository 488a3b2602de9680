package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/szu-oia/campus-checkin-api/internal/dto"
	"github.com/szu-oia/campus-checkin-api/internal/service"
	appErrors "github.com/szu-oia/campus-checkin-api/pkg/errors"
	"github.com/szu-oia/campus-checkin-api/pkg/response"
)

// WeChatHandler exposes WeChat Work integration endpoints.
type WeChatHandler struct {
	wechat *service.WeChatService
}

// NewWeChatHandler constructs WeChatHandler.
func NewWeChatHandler(wechat *service.WeChatService) *WeChatHandler {
	return &WeChatHandler{wechat: wechat}
}

// JSConfig godoc
// @Summary Sign wx.config parameters for a page URL
// @Tags WeChat
// @Accept json
// @Produce json
// @Param payload body dto.JSConfigRequest true "Page URL"
// @Success 200 {object} response.Envelope
// @Router /wechat/js-config [post]
func (h *WeChatHandler) JSConfig(c *gin.Context) {
	var req dto.JSConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "url is required"))
		return
	}

	cfg, err := h.wechat.SignJSConfig(c.Request.Context(), req.URL)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cfg, nil)
}

// ResolveUser godoc
// @Summary Resolve an embedded-browser OAuth code into a member id
// @Tags WeChat
// @Accept json
// @Produce json
// @Param payload body dto.WeChatLoginRequest true "OAuth code"
// @Success 200 {object} response.Envelope
// @Router /wechat/resolve-user [post]
func (h *WeChatHandler) ResolveUser(c *gin.Context) {
	var req dto.WeChatLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "code is required"))
		return
	}

	userID, err := h.wechat.UserIDFromCode(c.Request.Context(), req.Code)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"user_id": userID}, nil)
}
