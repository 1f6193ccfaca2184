package api

import (
	"fintrack/middleware"
	"fintrack/service"

	"github.com/gin-gonic/gin"
)

// ProfileHandler 用户设置处理器
type ProfileHandler struct {
	profiles *service.ProfileService
}

// NewProfileHandler 创建设置处理器
func NewProfileHandler(profiles *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// Get 获取设置
// @Summary 获取设置
// @Description 币种与余额快照，未保存过时返回默认值
// @Tags 设置
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=models.Profile} "获取成功"
// @Router /api/v1/profile [get]
func (h *ProfileHandler) Get(c *gin.Context) {
	p, err := h.profiles.Get(c.Request.Context(), middleware.GetCurrentUserID(c))
	if err != nil {
		respondError(c, err, "failed to load profile")
		return
	}
	Success(c, p)
}

// Update 保存设置
// @Summary 保存设置
// @Description 保存币种与初始余额，快照时间记为当前时间
// @Tags 设置
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.SaveProfileInput true "设置"
// @Success 200 {object} Response{data=models.Profile} "保存成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/profile [put]
func (h *ProfileHandler) Update(c *gin.Context) {
	var req service.SaveProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	p, err := h.profiles.Save(c.Request.Context(), middleware.GetCurrentUserID(c), req)
	if err != nil {
		respondError(c, err, "failed to save profile")
		return
	}
	SuccessWithMessage(c, "Settings saved", p)
}
