package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"logify/internal/dto"
	"logify/internal/pkg/auth"
	"logify/internal/pkg/config"
	"logify/internal/repository"
	"logify/internal/testutil"
	"logify/pkg/utils"
)

type fixture struct {
	db     *gorm.DB
	cfg    *config.Config
	mailer *testutil.RecordingMailer

	projectRepo repository.ProjectRepository
	taskRepo    repository.TaskRepository

	authz     AuthorizationService
	auth      AuthService
	team      TeamMemberService
	projects  ProjectService
	tasks     TaskService
	timesheet TimesheetService
	dashboard DashboardService
	counters  CounterService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewTestDB(t)
	cfg := testutil.NewTestConfig()
	mailer := &testutil.RecordingMailer{}

	userRepo := repository.NewUserRepository(db)
	memberRepo := repository.NewTeamMemberRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	timesheetRepo := repository.NewTimesheetRepository(db)

	authz := NewAuthorizationService(memberRepo)
	return &fixture{
		db:          db,
		cfg:         cfg,
		mailer:      mailer,
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
		authz:       authz,
		auth:        NewAuthService(&cfg.Auth, userRepo, authz),
		team:        NewTeamMemberService(db, memberRepo, userRepo, mailer, &cfg.Mail),
		projects:    NewProjectService(db, projectRepo, memberRepo),
		tasks:       NewTaskService(db, taskRepo, projectRepo, memberRepo),
		timesheet:   NewTimesheetService(db, timesheetRepo, memberRepo, projectRepo, taskRepo, userRepo, mailer, &cfg.Mail),
		dashboard:   NewDashboardService(repository.NewDashboardRepository(db)),
		counters:    NewCounterService(db, projectRepo, taskRepo),
	}
}

// admin 注册一个管理员并返回其会话主体
func (f *fixture) admin(t *testing.T, email string) *auth.Principal {
	t.Helper()
	resp, err := f.auth.Register(context.Background(), &dto.RegisterRequest{
		Name:     "Admin " + email,
		Email:    email,
		Password: "secret1",
	})
	require.NoError(t, err)
	return &auth.Principal{UserID: resp.ID, Role: auth.RoleAdmin, Email: email, Name: "Admin " + email}
}

func (f *fixture) member(t *testing.T, admin *auth.Principal, name, email string) *dto.TeamMemberResponse {
	t.Helper()
	resp, err := f.team.Create(context.Background(), admin, &dto.CreateTeamMemberRequest{Name: name, Email: email})
	require.NoError(t, err)
	return resp.Member
}

// memberPrincipal 普通成员的会话主体，租户已解析
func (f *fixture) memberPrincipal(m *dto.TeamMemberResponse) *auth.Principal {
	adminID := m.AdminID
	return &auth.Principal{UserID: m.UserID, Role: auth.RoleUser, AdminID: &adminID, Email: m.Email, Name: m.Name}
}

func (f *fixture) project(t *testing.T, admin *auth.Principal, name string, members ...int64) *dto.ProjectResponse {
	t.Helper()
	resp, err := f.projects.Create(context.Background(), admin, &dto.CreateProjectRequest{
		Name:        name,
		StartDate:   "2024-01-01",
		EndDate:     "2024-12-31",
		TeamMembers: members,
	})
	require.NoError(t, err)
	return resp
}

func (f *fixture) task(t *testing.T, admin *auth.Principal, projectID int64, title, status string, assignees ...int64) *dto.TaskResponse {
	t.Helper()
	resp, err := f.tasks.Create(context.Background(), admin, &dto.CreateTaskRequest{
		Title:     title,
		Status:    status,
		ProjectID: projectID,
		Assignees: assignees,
	})
	require.NoError(t, err)
	return resp
}

func (f *fixture) entry(t *testing.T, p *auth.Principal, memberID, projectID, taskID int64, date string, hours float64) *dto.TimesheetEntryResponse {
	t.Helper()
	resp, err := f.timesheet.Create(context.Background(), p, &dto.CreateTimesheetEntryRequest{
		TeamMemberID: memberID,
		ProjectID:    projectID,
		TaskID:       taskID,
		Date:         date,
		Hours:        &hours,
	})
	require.NoError(t, err)
	return resp
}

func (f *fixture) count(t *testing.T, table string, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Table(table).Where(query, args...).Count(&n).Error)
	return n
}

func today() string {
	return utils.Today().Format("2006-01-02")
}

func float(v float64) *float64 {
	return &v
}
