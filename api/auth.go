package api

import (
	"net/http"
	"time"

	"fintrack/config"
	"fintrack/middleware"
	"fintrack/models"
	"fintrack/service"
	"fintrack/session"

	"github.com/gin-gonic/gin"
)

// AuthHandler 认证处理器
type AuthHandler struct {
	cfg      *config.Config
	auth     *service.AuthService
	sessions *session.Registry
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(cfg *config.Config, auth *service.AuthService, sessions *session.Registry) *AuthHandler {
	return &AuthHandler{cfg: cfg, auth: auth, sessions: sessions}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50" example:"testuser"`
	Password string `json:"password" binding:"required,min=6,max=50" example:"password123"`
	Email    string `json:"email" binding:"omitempty,email" example:"test@example.com"`
}

// LoginRequest 登录请求（支持用户名或邮箱）
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"testuser"` // 可为用户名或邮箱
	Password string `json:"password" binding:"required" example:"password123"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	UserInfo  models.User `json:"user_info"`
	Currency  string      `json:"currency"`
}

// SessionResponse 当前登录状态
type SessionResponse struct {
	UserID   uint   `json:"user_id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Currency string `json:"currency"`
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword     string `json:"old_password" binding:"required" example:"oldpassword123"`
	NewPassword     string `json:"new_password" binding:"required" example:"newpassword123"`
	ConfirmPassword string `json:"confirm_password" binding:"required" example:"newpassword123"`
}

// Register 用户注册
// @Summary 用户注册
// @Description 创建新用户账号
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "注册信息"
// @Success 200 {object} Response{data=models.User} "注册成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 409 {object} Response "用户名已存在"
// @Router /api/v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	user, err := h.auth.Register(c.Request.Context(), service.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
	})
	if err != nil {
		respondError(c, err, "failed to create user")
		return
	}

	SuccessWithMessage(c, "registered", user)
}

// Login 用户登录
// @Summary 用户登录
// @Description 用户登录获取 JWT token，同时建立会话
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body LoginRequest true "登录信息"
// @Success 200 {object} Response{data=LoginResponse} "登录成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "用户名或密码错误"
// @Failure 429 {object} Response "尝试过于频繁"
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	user, err := h.auth.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err, "login failed")
		return
	}

	token, claims, err := middleware.IssueToken(user.ID, user.Username, h.cfg.JWT.ExpireTime)
	if err != nil {
		InternalError(c, "failed to generate token")
		return
	}
	s, err := h.sessions.Start(c.Request.Context(), claims.ID, user.ID, claims.ExpiresAt.Time)
	if err != nil {
		respondError(c, err, "failed to start session")
		return
	}

	Success(c, LoginResponse{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		UserInfo:  *user,
		Currency:  s.Currency,
	})
}

// Session 当前登录状态
// @Summary 当前会话
// @Description 已登录返回用户ID与邮箱，未登录 data 为 null
// @Tags 认证
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=SessionResponse} "获取成功"
// @Router /api/v1/auth/session [get]
func (h *AuthHandler) Session(c *gin.Context) {
	tokenID := middleware.GetTokenID(c)
	if tokenID == "" {
		noSession(c)
		return
	}
	s, err := h.sessions.Resolve(c.Request.Context(), tokenID, middleware.GetCurrentUserID(c), middleware.GetTokenExpiresAt(c))
	if err != nil {
		noSession(c)
		return
	}
	Success(c, SessionResponse{
		UserID:   s.UserID,
		Email:    s.Email,
		Username: s.Username,
		Currency: s.Currency,
	})
}

// noSession 未登录时 data 显式为 null
func noSession(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"code": 200, "message": "success", "data": nil})
}

// Logout 退出登录
// @Summary 退出登录
// @Description 结束当前会话，令牌随即失效
// @Tags 认证
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response "退出成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	h.sessions.End(middleware.GetTokenID(c), middleware.GetTokenExpiresAt(c))
	SuccessWithMessage(c, "signed out", nil)
}

// ChangePassword 修改密码
// @Summary 修改密码
// @Description 校验原密码，新密码至少 6 位且与确认密码一致
// @Tags 认证
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ChangePasswordRequest true "密码信息"
// @Success 200 {object} Response "修改成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/auth/password [put]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	err := h.auth.ChangePassword(c.Request.Context(), middleware.GetCurrentUserID(c), service.ChangePasswordInput{
		OldPassword:     req.OldPassword,
		NewPassword:     req.NewPassword,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		respondError(c, err, "failed to change password")
		return
	}

	SuccessWithMessage(c, "password updated", nil)
}
