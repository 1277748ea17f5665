package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"logify/internal/dto"
	"logify/internal/model"
	"logify/internal/pkg/auth"
	"logify/internal/pkg/config"
	"logify/internal/pkg/crypto"
	"logify/internal/pkg/jwt"
	"logify/internal/pkg/logger"
	"logify/internal/repository"
	"logify/pkg/constants"
	pkgErrors "logify/pkg/errors"
)

type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
	// IssueTokens 为主体签发新的会话
	IssueTokens(p *auth.Principal) (*dto.LoginResponse, error)
}

type authService struct {
	cfg      *config.AuthConfig
	userRepo repository.UserRepository
	authz    AuthorizationService
}

func NewAuthService(
	cfg *config.AuthConfig,
	userRepo repository.UserRepository,
	authz AuthorizationService,
) AuthService {
	return &authService{
		cfg:      cfg,
		userRepo: userRepo,
		authz:    authz,
	}
}

// Register 注册管理员账号，即新建一个租户
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	name := strings.TrimSpace(req.Name)
	email := normalizeEmail(req.Email)
	if name == "" {
		return nil, pkgErrors.Validation("Validation failed", map[string]string{"name": "name is required"})
	}
	if len(req.Password) < crypto.MinPasswordLength {
		return nil, pkgErrors.Validation("Validation failed", map[string]string{"password": "password must be at least 6 characters"})
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, pkgErrors.ErrEmailExists
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return nil, pkgErrors.Internal(err)
	}

	user := &model.User{
		Name:     name,
		Email:    email,
		Password: hash,
		Role:     constants.RoleAdmin,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("管理员注册成功", zap.Int64("user_id", user.ID), zap.String("email", email))

	return &dto.RegisterResponse{ID: user.ID, Message: "User registered successfully"}, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, pkgErrors.ErrRecordNotFound) {
			return nil, pkgErrors.ErrInvalidCredentials
		}
		return nil, err
	}

	// 验证密码
	if !crypto.CheckPassword(req.Password, user.Password) {
		return nil, pkgErrors.ErrInvalidCredentials
	}

	principal := &auth.Principal{
		UserID: user.ID,
		Role:   auth.Role(user.Role),
		Email:  user.Email,
		Name:   user.Name,
	}
	principal, _, err = s.authz.ResolvePrincipal(ctx, principal)
	if err != nil {
		return nil, err
	}

	return s.IssueTokens(principal)
}

// RefreshToken 使用RefreshToken重新签发会话，同时补全普通成员的 admin_id
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	claims, err := jwt.ValidateToken(refreshToken, constants.JWTTypeRefresh)
	if err != nil {
		return nil, err
	}

	principal, changed, err := s.authz.ResolvePrincipal(ctx, claims.Principal())
	if err != nil {
		return nil, err
	}
	if changed {
		logger.FromContext(ctx).Info("会话已补全租户",
			zap.Int64("user_id", principal.UserID),
			zap.Int64p("admin_id", principal.AdminID))
	}

	return s.IssueTokens(principal)
}

func (s *authService) IssueTokens(p *auth.Principal) (*dto.LoginResponse, error) {
	accessToken, err := jwt.GenerateAccessToken(p)
	if err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeInternalError, "生成AccessToken失败", err)
	}

	refreshToken, err := jwt.GenerateRefreshToken(p)
	if err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeInternalError, "生成RefreshToken失败", err)
	}

	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    s.cfg.JWT.AccessTokenExpire,
		User:         p,
	}, nil
}
