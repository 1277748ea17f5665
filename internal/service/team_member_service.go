package service

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"logify/internal/adapter/notification"
	"logify/internal/dto"
	"logify/internal/model"
	"logify/internal/pkg/auth"
	"logify/internal/pkg/config"
	"logify/internal/pkg/crypto"
	"logify/internal/pkg/database"
	"logify/internal/pkg/logger"
	"logify/internal/repository"
	"logify/pkg/constants"
	pkgErrors "logify/pkg/errors"
)

type TeamMemberService interface {
	Create(ctx context.Context, p *auth.Principal, req *dto.CreateTeamMemberRequest) (*dto.CreateTeamMemberResponse, error)
	List(ctx context.Context, p *auth.Principal, query *dto.TeamMemberListQuery) ([]*dto.TeamMemberResponse, error)
	Get(ctx context.Context, p *auth.Principal, id int64) (*dto.TeamMemberResponse, error)
	Update(ctx context.Context, p *auth.Principal, id int64, req *dto.UpdateTeamMemberRequest) (*dto.TeamMemberResponse, error)
	Delete(ctx context.Context, p *auth.Principal, id int64) error
}

type teamMemberService struct {
	db       *gorm.DB
	repo     repository.TeamMemberRepository
	userRepo repository.UserRepository
	mailer   notification.Mailer
	mailCfg  *config.MailConfig
}

func NewTeamMemberService(
	db *gorm.DB,
	repo repository.TeamMemberRepository,
	userRepo repository.UserRepository,
	mailer notification.Mailer,
	mailCfg *config.MailConfig,
) TeamMemberService {
	return &teamMemberService{
		db:       db,
		repo:     repo,
		userRepo: userRepo,
		mailer:   mailer,
		mailCfg:  mailCfg,
	}
}

// Create 邀请团队成员：同一事务内创建登录用户和成员记录，提交后发送欢迎邮件
// 邮件失败不回滚，临时密码随响应返回一次
func (s *teamMemberService) Create(ctx context.Context, p *auth.Principal, req *dto.CreateTeamMemberRequest) (*dto.CreateTeamMemberResponse, error) {
	if !p.IsAdmin() {
		return nil, pkgErrors.New(pkgErrors.CodeUnauthorized, "Only admins can add team members")
	}
	tenantID := p.UserID

	name := strings.TrimSpace(req.Name)
	email := normalizeEmail(req.Email)
	if name == "" {
		return nil, pkgErrors.Validation("Validation failed", map[string]string{"name": "name is required"})
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, pkgErrors.ErrEmailExists
	}

	tempPassword, err := crypto.GenerateTemporaryPassword()
	if err != nil {
		return nil, pkgErrors.Internal(err)
	}
	hash, err := crypto.HashPassword(tempPassword)
	if err != nil {
		return nil, pkgErrors.Internal(err)
	}

	status := req.Status
	if status == "" {
		status = constants.MemberStatusActive
	}

	member := &model.TeamMember{
		AdminID:    tenantID,
		Email:      email,
		Name:       name,
		Role:       strings.TrimSpace(req.Role),
		Department: strings.TrimSpace(req.Department),
		Phone:      trimPtr(req.Phone),
		Avatar:     trimPtr(req.Avatar),
		Status:     status,
	}

	err = database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		user := &model.User{
			Name:     name,
			Email:    email,
			Password: hash,
			Role:     constants.RoleUser,
		}
		if err := s.userRepo.WithTx(tx).Create(ctx, user); err != nil {
			return err
		}
		member.UserID = user.ID
		return s.repo.WithTx(tx).Create(ctx, member)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("团队成员已创建",
		zap.Int64("admin_id", tenantID),
		zap.Int64("member_id", member.ID),
		zap.Int64("user_id", member.UserID))

	resp := &dto.CreateTeamMemberResponse{Member: toTeamMemberResponse(member)}
	resp.Email = s.sendWelcome(ctx, p, member, tempPassword)
	if !resp.Email.Sent {
		resp.TemporaryPassword = tempPassword
	}
	return resp, nil
}

func (s *teamMemberService) sendWelcome(ctx context.Context, p *auth.Principal, member *model.TeamMember, tempPassword string) dto.EmailStatus {
	msg, err := notification.WelcomeMessage(member.Email, notification.WelcomeData{
		AppName:           s.mailCfg.AppName,
		Name:              member.Name,
		Email:             member.Email,
		TemporaryPassword: tempPassword,
		LoginURL:          s.mailCfg.LoginURL,
		InvitedBy:         p.Name,
	})
	if err != nil {
		logger.FromContext(ctx).Error("渲染欢迎邮件失败", zap.Error(err))
		return dto.EmailStatus{Error: err.Error()}
	}

	result := <-notification.Deliver(ctx, s.mailer, msg, s.mailCfg.MailTimeout(), notification.KindWelcome)
	if result.Err != nil {
		return dto.EmailStatus{Error: result.Err.Error()}
	}
	return dto.EmailStatus{Sent: true}
}

// List admin_id 参数存在时必须与当前租户一致
func (s *teamMemberService) List(ctx context.Context, p *auth.Principal, query *dto.TeamMemberListQuery) ([]*dto.TeamMemberResponse, error) {
	tenantID, err := tenantOf(p)
	if err != nil {
		return nil, err
	}
	if query.AdminID != nil && *query.AdminID != tenantID {
		return nil, pkgErrors.ErrForbidden
	}

	members, err := s.repo.List(ctx, tenantID, repository.TeamMemberFilter{
		Status:  query.Status,
		Keyword: strings.TrimSpace(query.Keyword),
	})
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.TeamMemberResponse, len(members))
	for i, member := range members {
		responses[i] = toTeamMemberResponse(member)
	}
	return responses, nil
}

func (s *teamMemberService) Get(ctx context.Context, p *auth.Principal, id int64) (*dto.TeamMemberResponse, error) {
	member, err := s.findOwned(ctx, s.repo, p, id)
	if err != nil {
		return nil, err
	}
	return toTeamMemberResponse(member), nil
}

// Update 部分更新，邮箱不可修改
func (s *teamMemberService) Update(ctx context.Context, p *auth.Principal, id int64, req *dto.UpdateTeamMemberRequest) (*dto.TeamMemberResponse, error) {
	updates := make(map[string]interface{})
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, pkgErrors.Validation("Validation failed", map[string]string{"name": "name cannot be empty"})
		}
		updates["name"] = name
	}
	if req.Role != nil {
		updates["role"] = strings.TrimSpace(*req.Role)
	}
	if req.Department != nil {
		updates["department"] = strings.TrimSpace(*req.Department)
	}
	if req.Phone != nil {
		updates["phone"] = *trimPtr(req.Phone)
	}
	if req.Avatar != nil {
		updates["avatar"] = *trimPtr(req.Avatar)
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if len(updates) == 0 {
		return nil, pkgErrors.ErrNoFieldsToUpdate
	}

	var member *model.TeamMember
	err := database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := s.findOwned(ctx, repo, p, id); err != nil {
			return err
		}
		if err := repo.Update(ctx, id, updates); err != nil {
			return err
		}
		var err error
		member, err = repo.FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toTeamMemberResponse(member), nil
}

// Delete 删除成员及其任务分配、项目分配和工时记录
func (s *teamMemberService) Delete(ctx context.Context, p *auth.Principal, id int64) error {
	err := database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := s.findOwned(ctx, repo, p, id); err != nil {
			return err
		}
		return repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	logger.FromContext(ctx).Info("团队成员已删除", zap.Int64("member_id", id))
	return nil
}

func (s *teamMemberService) findOwned(ctx context.Context, repo repository.TeamMemberRepository, p *auth.Principal, id int64) (*model.TeamMember, error) {
	tenantID, err := tenantOf(p)
	if err != nil {
		return nil, err
	}
	member, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ensureOwner(member.AdminID, tenantID); err != nil {
		return nil, err
	}
	return member, nil
}

func toTeamMemberResponse(member *model.TeamMember) *dto.TeamMemberResponse {
	return &dto.TeamMemberResponse{
		ID:         member.ID,
		Name:       member.Name,
		Role:       member.Role,
		Department: member.Department,
		Email:      member.Email,
		Phone:      member.Phone,
		Avatar:     member.Avatar,
		Status:     member.Status,
		AdminID:    member.AdminID,
		UserID:     member.UserID,
		CreatedAt:  formatTime(member.CreatedAt),
		UpdatedAt:  formatTime(member.UpdatedAt),
	}
}
