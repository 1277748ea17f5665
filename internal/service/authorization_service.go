package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"logify/internal/pkg/auth"
	"logify/internal/pkg/logger"
	"logify/internal/repository"
	pkgErrors "logify/pkg/errors"
)

// AuthorizationService 基于内置角色/权限做权限判断，并为普通成员解析所属租户
//  1. 角色 -> 权限 的关系写死在 internal/pkg/auth 的 RolePermissions 中
//  2. 权限匹配支持通配符（如 *:view、timesheet:*）
//  3. role=user 的会话首次使用时按 team_members.user_id 解析 admin_id
type AuthorizationService interface {
	// HasPermission 判断会话是否拥有权限
	HasPermission(p *auth.Principal, perm auth.Permission) bool
	// ResolvePrincipal 为尚未缓存 admin_id 的普通成员补全租户，changed 表示是否需要重新签发会话
	ResolvePrincipal(ctx context.Context, p *auth.Principal) (resolved *auth.Principal, changed bool, err error)
}

type authorizationService struct {
	teamMemberRepo repository.TeamMemberRepository
}

// NewAuthorizationService 创建 AuthorizationService
func NewAuthorizationService(teamMemberRepo repository.TeamMemberRepository) AuthorizationService {
	return &authorizationService{
		teamMemberRepo: teamMemberRepo,
	}
}

func (s *authorizationService) HasPermission(p *auth.Principal, perm auth.Permission) bool {
	if p == nil {
		return false
	}
	return auth.Allow([]string{string(p.Role)}, perm)
}

func (s *authorizationService) ResolvePrincipal(ctx context.Context, p *auth.Principal) (*auth.Principal, bool, error) {
	if !p.NeedsTenantResolution() {
		return p, false, nil
	}

	member, err := s.teamMemberRepo.FindByUserID(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, pkgErrors.ErrRecordNotFound) {
			// 未关联团队成员，保持未解析状态
			logger.FromContext(ctx).Warn("普通用户未关联团队成员", zap.Int64("user_id", p.UserID))
			return p, false, nil
		}
		return nil, false, err
	}

	resolved := *p
	adminID := member.AdminID
	resolved.AdminID = &adminID
	return &resolved, true, nil
}
