package api

import (
	"context"

	"bajeti/models"
	"bajeti/service"

	"github.com/gin-gonic/gin"
)

type settingsService interface {
	Get(ctx context.Context, userID string) (*models.UserSettings, error)
	Patch(ctx context.Context, userID string, p service.SettingsPatch) (*models.UserSettings, error)
}

// SettingsHandler 用户显示偏好
type SettingsHandler struct {
	svc settingsService
}

func NewSettingsHandler(svc settingsService) *SettingsHandler {
	return &SettingsHandler{svc: svc}
}

// SettingsPatchRequest 未传的字段保持原值
type SettingsPatchRequest struct {
	Currency       *string `json:"currency" binding:"omitempty,currency" example:"TZS"`
	DateFormat     *string `json:"dateFormat" binding:"omitempty,dateformat" example:"medium"`
	FirstDayOfWeek *string `json:"firstDayOfWeek" binding:"omitempty,weekday" example:"monday"`
}

// Get 获取偏好设置
// @Summary 获取偏好设置
// @Description 不存在时以默认值（USD / medium / monday）创建
// @Tags 设置
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.UserSettings "获取成功"
// @Failure 401 {object} ErrorResponse "未授权"
// @Router /api/settings [get]
func (h *SettingsHandler) Get(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	st, err := h.svc.Get(c.Request.Context(), userID)
	if err != nil {
		HandleError(c, err, "failed to fetch settings")
		return
	}
	Success(c, st)
}

// Patch 修改偏好设置
// @Summary 修改偏好设置
// @Description 部分更新，返回完整设置
// @Tags 设置
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SettingsPatchRequest true "要修改的字段"
// @Success 200 {object} models.UserSettings "修改成功"
// @Failure 400 {object} ErrorResponse "取值不合法"
// @Failure 401 {object} ErrorResponse "未授权"
// @Router /api/settings [patch]
func (h *SettingsHandler) Patch(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req SettingsPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid settings value")
		return
	}
	st, err := h.svc.Patch(c.Request.Context(), userID, service.SettingsPatch{
		Currency:       req.Currency,
		DateFormat:     req.DateFormat,
		FirstDayOfWeek: req.FirstDayOfWeek,
	})
	if err != nil {
		HandleError(c, err, "failed to update settings")
		return
	}
	Success(c, st)
}
