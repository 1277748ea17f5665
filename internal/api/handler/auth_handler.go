package handler

import (
	"github.com/gin-gonic/gin"

	"logify/internal/api/middleware"
	"logify/internal/dto"
	"logify/internal/pkg/config"
	"logify/internal/service"
	pkgErrors "logify/pkg/errors"
	"logify/pkg/utils"
)

type AuthHandler struct {
	authService       service.AuthService
	teamMemberService service.TeamMemberService
	cfg               *config.AuthConfig
}

func NewAuthHandler(authService service.AuthService, teamMemberService service.TeamMemberService, cfg *config.AuthConfig) *AuthHandler {
	return &AuthHandler{
		authService:       authService,
		teamMemberService: teamMemberService,
		cfg:               cfg,
	}
}

// Register 注册
// @Summary 注册管理员账号
// @Description 注册即创建一个新的租户
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "注册请求"
// @Success 201 {object} dto.RegisterResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BindError(c, err)
		return
	}

	resp, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Created(c, resp)
}

// Login 登录
// @Summary 用户登录
// @Description 邮箱密码登录，同时写入会话Cookie
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "登录请求"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} utils.ErrorResponse
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BindError(c, err)
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		utils.Error(c, err)
		return
	}

	middleware.SetSessionCookie(c, &h.cfg.Cookie, resp.AccessToken, h.cfg.JWT.AccessTokenExpire)
	utils.Success(c, resp)
}

// Refresh 刷新Token
// @Summary 刷新会话
// @Description 使用RefreshToken重新签发会话，普通成员同时补全所属租户
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "刷新Token请求"
// @Success 200 {object} dto.LoginResponse
// @Router /api/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BindError(c, err)
		return
	}

	resp, err := h.authService.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		utils.Error(c, err)
		return
	}

	middleware.SetSessionCookie(c, &h.cfg.Cookie, resp.AccessToken, h.cfg.JWT.AccessTokenExpire)
	utils.Success(c, resp)
}

// Me 当前登录主体
// @Summary 获取当前用户
// @Tags 认证
// @Produce json
// @Security BearerAuth
// @Success 200 {object} auth.Principal
// @Router /api/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	p := currentPrincipal(c)
	if p == nil {
		utils.Error(c, pkgErrors.ErrUnauthorized)
		return
	}
	utils.Success(c, p)
}

// Logout 退出登录
// @Summary 退出登录
// @Tags 认证
// @Produce json
// @Success 200 {object} map[string]bool
// @Router /api/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	middleware.ClearSessionCookie(c, &h.cfg.Cookie)
	utils.Success(c, nil)
}

// InviteMember 管理员邀请团队成员
// @Summary 邀请团队成员
// @Description 创建成员账号并发送包含临时密码的欢迎邮件
// @Tags 认证
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateTeamMemberRequest true "成员信息"
// @Success 201 {object} dto.CreateTeamMemberResponse
// @Failure 401 {object} utils.ErrorResponse
// @Router /api/auth/team [post]
func (h *AuthHandler) InviteMember(c *gin.Context) {
	var req dto.CreateTeamMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BindError(c, err)
		return
	}

	resp, err := h.teamMemberService.Create(c.Request.Context(), currentPrincipal(c), &req)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Created(c, resp)
}
