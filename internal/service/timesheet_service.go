package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"logify/internal/adapter/notification"
	"logify/internal/dto"
	"logify/internal/model"
	"logify/internal/pkg/auth"
	"logify/internal/pkg/config"
	"logify/internal/pkg/database"
	"logify/internal/pkg/logger"
	"logify/internal/repository"
	"logify/pkg/constants"
	pkgErrors "logify/pkg/errors"
	"logify/pkg/utils"
)

var errTaskProjectMismatch = pkgErrors.New(pkgErrors.CodeBadRequest, "Task does not belong to the selected project")

type TimesheetService interface {
	List(ctx context.Context, p *auth.Principal, query *dto.TimesheetListQuery) ([]*dto.TimesheetEntryResponse, int64, error)
	Create(ctx context.Context, p *auth.Principal, req *dto.CreateTimesheetEntryRequest) (*dto.TimesheetEntryResponse, error)
	Update(ctx context.Context, p *auth.Principal, id int64, patch *dto.TimesheetPatch) (*dto.TimesheetEntryResponse, error)
	Delete(ctx context.Context, p *auth.Principal, id int64) error
	Weekly(ctx context.Context, p *auth.Principal, query *dto.WeeklyReportQuery) (*dto.WeeklyReportResponse, error)
	Submit(ctx context.Context, p *auth.Principal, req *dto.SendTimesheetRequest) (*dto.SendTimesheetResponse, error)
}

type timesheetService struct {
	db          *gorm.DB
	repo        repository.TimesheetRepository
	memberRepo  repository.TeamMemberRepository
	projectRepo repository.ProjectRepository
	taskRepo    repository.TaskRepository
	userRepo    repository.UserRepository
	mailer      notification.Mailer
	mailCfg     *config.MailConfig
}

func NewTimesheetService(
	db *gorm.DB,
	repo repository.TimesheetRepository,
	memberRepo repository.TeamMemberRepository,
	projectRepo repository.ProjectRepository,
	taskRepo repository.TaskRepository,
	userRepo repository.UserRepository,
	mailer notification.Mailer,
	mailCfg *config.MailConfig,
) TimesheetService {
	return &timesheetService{
		db:          db,
		repo:        repo,
		memberRepo:  memberRepo,
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
		userRepo:    userRepo,
		mailer:      mailer,
		mailCfg:     mailCfg,
	}
}

func (s *timesheetService) List(ctx context.Context, p *auth.Principal, query *dto.TimesheetListQuery) ([]*dto.TimesheetEntryResponse, int64, error) {
	tenantID, err := tenantOf(p)
	if err != nil {
		return nil, 0, err
	}

	filter := repository.TimesheetFilter{
		TeamMemberID: query.TeamMemberID,
		ProjectID:    query.ProjectID,
		TaskID:       query.TaskID,
	}
	if filter.StartDate, err = optionalDate("start_date", query.StartDate); err != nil {
		return nil, 0, err
	}
	if filter.EndDate, err = optionalDate("end_date", query.EndDate); err != nil {
		return nil, 0, err
	}
	if query.Paginated() {
		filter.Offset = query.GetOffset()
		filter.Limit = query.GetPageSize()
	}

	rows, total, err := s.repo.List(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	return lo.Map(rows, func(r *repository.TimesheetEntryRow, _ int) *dto.TimesheetEntryResponse {
		return toTimesheetResponse(r)
	}), total, nil
}

// Create 成员、项目、任务必须属于当前租户，且任务属于该项目；普通成员只能为自己记录
func (s *timesheetService) Create(ctx context.Context, p *auth.Principal, req *dto.CreateTimesheetEntryRequest) (*dto.TimesheetEntryResponse, error) {
	tenantID, err := tenantOf(p)
	if err != nil {
		return nil, err
	}
	if req.Hours == nil || *req.Hours < 0 || *req.Hours > constants.MaxHoursPerEntry {
		return nil, pkgErrors.Validation("Validation failed", map[string]string{"hours": "hours must be between 0 and 24"})
	}
	date, err := utils.ToDate(req.Date)
	if err != nil {
		return nil, pkgErrors.Validation("Validation failed", map[string]string{"date": "invalid date"})
	}

	member, err := s.memberRepo.FindByID(ctx, req.TeamMemberID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureMemberAccess(p, tenantID, member); err != nil {
		return nil, err
	}
	if err := s.checkTaskProject(ctx, s.projectRepo, s.taskRepo, tenantID, req.ProjectID, req.TaskID); err != nil {
		return nil, err
	}

	entry := &model.TimesheetEntry{
		TenantScoped: model.TenantScoped{AdminID: tenantID},
		TeamMemberID: member.ID,
		TaskID:       req.TaskID,
		ProjectID:    req.ProjectID,
		Date:         date,
		Hours:        *req.Hours,
		Description:  req.Description,
	}

	var row *repository.TimesheetEntryRow
	err = database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Create(ctx, entry); err != nil {
			return err
		}
		var err error
		row, err = repo.FindRowByID(ctx, tenantID, entry.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("工时已记录",
		zap.Int64("admin_id", tenantID),
		zap.Int64("entry_id", entry.ID),
		zap.Float64("hours", entry.Hours))
	return toTimesheetResponse(row), nil
}

// Update 只更新传入的字段；项目或任务变更时重新校验二者的归属关系
func (s *timesheetService) Update(ctx context.Context, p *auth.Principal, id int64, patch *dto.TimesheetPatch) (*dto.TimesheetEntryResponse, error) {
	if patch.IsEmpty() {
		return nil, pkgErrors.ErrNoFieldsToUpdate
	}
	tenantID, err := tenantOf(p)
	if err != nil {
		return nil, err
	}

	updates, err := patch.Updates()
	if err != nil {
		return nil, pkgErrors.Validation("Validation failed", map[string]string{"date": "invalid date"})
	}

	var row *repository.TimesheetEntryRow
	err = database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		entry, err := repo.FindByID(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if !p.IsAdmin() {
			member, err := s.memberRepo.WithTx(tx).FindByID(ctx, entry.TeamMemberID)
			if err != nil {
				return err
			}
			if err := s.ensureMemberAccess(p, tenantID, member); err != nil {
				return err
			}
		}

		if patch.ProjectID != nil || patch.TaskID != nil {
			projectID := lo.FromPtrOr(patch.ProjectID, entry.ProjectID)
			taskID := lo.FromPtrOr(patch.TaskID, entry.TaskID)
			if err := s.checkTaskProject(ctx, s.projectRepo.WithTx(tx), s.taskRepo.WithTx(tx), tenantID, projectID, taskID); err != nil {
				return err
			}
		}

		if err := repo.Update(ctx, tenantID, id, updates); err != nil {
			return err
		}
		row, err = repo.FindRowByID(ctx, tenantID, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toTimesheetResponse(row), nil
}

func (s *timesheetService) Delete(ctx context.Context, p *auth.Principal, id int64) error {
	tenantID, err := tenantOf(p)
	if err != nil {
		return err
	}

	return database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if !p.IsAdmin() {
			entry, err := repo.FindByID(ctx, tenantID, id)
			if err != nil {
				return err
			}
			member, err := s.memberRepo.WithTx(tx).FindByID(ctx, entry.TeamMemberID)
			if err != nil {
				return err
			}
			if err := s.ensureMemberAccess(p, tenantID, member); err != nil {
				return err
			}
		}
		return repo.Delete(ctx, tenantID, id)
	})
}

// Weekly 周一开始的7天工时汇总
// 普通成员未指定成员时统计自己的工时
func (s *timesheetService) Weekly(ctx context.Context, p *auth.Principal, query *dto.WeeklyReportQuery) (*dto.WeeklyReportResponse, error) {
	tenantID, err := tenantOf(p)
	if err != nil {
		return nil, err
	}

	day := utils.Today()
	if query.WeekStart != "" {
		if day, err = utils.ParseDate(query.WeekStart); err != nil {
			return nil, pkgErrors.Validation("Validation failed", map[string]string{"week_start": "invalid date"})
		}
	}
	monday := day.AddDate(0, 0, -((int(day.Weekday()) + 6) % 7))
	sunday := monday.AddDate(0, 0, 6)

	memberID := query.TeamMemberID
	if memberID == nil && !p.IsAdmin() {
		member, err := s.memberRepo.FindByUserID(ctx, p.UserID)
		if err != nil {
			return nil, err
		}
		memberID = &member.ID
	}

	rows, _, err := s.repo.List(ctx, tenantID, repository.TimesheetFilter{
		TeamMemberID: memberID,
		StartDate:    &monday,
		EndDate:      &sunday,
	})
	if err != nil {
		return nil, err
	}

	return buildWeeklyReport(memberID, monday, rows), nil
}

func buildWeeklyReport(memberID *int64, monday time.Time, rows []*repository.TimesheetEntryRow) *dto.WeeklyReportResponse {
	report := &dto.WeeklyReportResponse{
		TeamMemberID: memberID,
		WeekStart:    monday.Format(constants.DateLayout),
		WeekEnd:      monday.AddDate(0, 0, 6).Format(constants.DateLayout),
		Days:         make([]dto.DailyHours, 7),
		Projects:     []*dto.ProjectHours{},
	}
	for i := range report.Days {
		report.Days[i].Date = monday.AddDate(0, 0, i).Format(constants.DateLayout)
	}

	projects := make(map[int64]*dto.ProjectHours)
	for _, r := range rows {
		offset := int(utils.DateOf(time.Time(r.Date)).Sub(monday).Hours() / 24)
		if offset >= 0 && offset < 7 {
			report.Days[offset].Hours += r.Hours
		}
		ph, ok := projects[r.ProjectID]
		if !ok {
			ph = &dto.ProjectHours{ProjectID: r.ProjectID, ProjectName: r.ProjectName}
			projects[r.ProjectID] = ph
		}
		ph.Hours += r.Hours
		report.TotalHours += r.Hours
	}

	for i := range report.Days {
		report.Days[i].Hours = round2(report.Days[i].Hours)
	}
	for _, ph := range projects {
		ph.Hours = round2(ph.Hours)
		report.Projects = append(report.Projects, ph)
	}
	sort.Slice(report.Projects, func(i, j int) bool {
		if report.Projects[i].Hours != report.Projects[j].Hours {
			return report.Projects[i].Hours > report.Projects[j].Hours
		}
		return report.Projects[i].ProjectID < report.Projects[j].ProjectID
	})
	report.TotalHours = round2(report.TotalHours)
	return report
}

// Submit 将工时按 (项目, 任务) 汇总后发送给租户管理员
// 未提交明细时按成员和区间从数据库加载；发送失败返回502，数据不受影响
func (s *timesheetService) Submit(ctx context.Context, p *auth.Principal, req *dto.SendTimesheetRequest) (*dto.SendTimesheetResponse, error) {
	tenantID, err := tenantOf(p)
	if err != nil {
		return nil, err
	}

	admin, err := s.userRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	employeeName := req.EmployeeName
	entries := req.Entries
	if len(entries) == 0 {
		if req.TeamMemberID == nil {
			return nil, pkgErrors.Validation("Validation failed", map[string]string{"entries": "entries or team_member_id is required"})
		}
		member, err := s.memberRepo.FindByID(ctx, *req.TeamMemberID)
		if err != nil {
			return nil, err
		}
		if err := s.ensureMemberAccess(p, tenantID, member); err != nil {
			return nil, err
		}
		if employeeName == "" {
			employeeName = member.Name
		}
		if entries, err = s.loadSubmission(ctx, tenantID, member.ID, req.Period); err != nil {
			return nil, err
		}
	} else if err := s.fillNames(ctx, tenantID, entries); err != nil {
		return nil, err
	}
	if employeeName == "" {
		employeeName = p.Name
	}

	lines, total := summarizeSubmission(entries)
	resp := &dto.SendTimesheetResponse{
		Lines:      lines,
		TotalHours: total,
		Recipient:  admin.Email,
	}

	msg, err := notification.TimesheetMessage(admin.Email, notification.TimesheetData{
		AppName:      s.mailCfg.AppName,
		EmployeeName: employeeName,
		Period:       formatPeriod(req.Period),
		Lines: lo.Map(lines, func(l *dto.SubmissionLine, _ int) notification.TimesheetLine {
			return notification.TimesheetLine{Project: l.ProjectName, Task: l.TaskTitle, Hours: l.Hours}
		}),
		TotalHours: total,
	})
	if err != nil {
		return nil, pkgErrors.Internal(err)
	}

	result := <-notification.Deliver(ctx, s.mailer, msg, s.mailCfg.MailTimeout(), notification.KindTimesheet)
	if result.Err != nil {
		resp.Email = dto.EmailStatus{Error: result.Err.Error()}
		return resp, pkgErrors.WithDetails(pkgErrors.New(pkgErrors.CodeDeliveryFailed, "Failed to send timesheet email"), resp)
	}
	resp.Email = dto.EmailStatus{Sent: true}
	return resp, nil
}

func (s *timesheetService) loadSubmission(ctx context.Context, tenantID, memberID int64, period dto.Period) ([]*dto.SubmissionEntry, error) {
	filter := repository.TimesheetFilter{TeamMemberID: &memberID}
	var err error
	if filter.StartDate, err = optionalDate("period.start", period.Start); err != nil {
		return nil, err
	}
	if filter.EndDate, err = optionalDate("period.end", period.End); err != nil {
		return nil, err
	}

	rows, _, err := s.repo.List(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	return lo.Map(rows, func(r *repository.TimesheetEntryRow, _ int) *dto.SubmissionEntry {
		return &dto.SubmissionEntry{
			ProjectID:   r.ProjectID,
			ProjectName: r.ProjectName,
			TaskID:      r.TaskID,
			TaskTitle:   r.TaskTitle,
			Date:        utils.FormatDate(r.Date),
			Hours:       r.Hours,
			Description: lo.FromPtr(r.Description),
		}
	}), nil
}

// fillNames 补全客户端只提交了ID的项目和任务名称
func (s *timesheetService) fillNames(ctx context.Context, tenantID int64, entries []*dto.SubmissionEntry) error {
	projectIDs := lo.FilterMap(entries, func(e *dto.SubmissionEntry, _ int) (int64, bool) {
		return e.ProjectID, e.ProjectName == "" && e.ProjectID > 0
	})
	taskIDs := lo.FilterMap(entries, func(e *dto.SubmissionEntry, _ int) (int64, bool) {
		return e.TaskID, e.TaskTitle == "" && e.TaskID > 0
	})

	projects, err := s.projectRepo.FindByIDs(ctx, tenantID, projectIDs)
	if err != nil {
		return err
	}
	tasks, err := s.taskRepo.FindByIDs(ctx, tenantID, taskIDs)
	if err != nil {
		return err
	}
	projectNames := lo.SliceToMap(projects, func(p *model.Project) (int64, string) { return p.ID, p.Name })
	taskTitles := lo.SliceToMap(tasks, func(t *model.Task) (int64, string) { return t.ID, t.Title })

	for _, e := range entries {
		if e.ProjectName == "" {
			e.ProjectName = projectNames[e.ProjectID]
		}
		if e.TaskTitle == "" {
			e.TaskTitle = taskTitles[e.TaskID]
		}
	}
	return nil
}

// summarizeSubmission 按 (项目, 任务) 汇总工时
func summarizeSubmission(entries []*dto.SubmissionEntry) ([]*dto.SubmissionLine, float64) {
	type key struct {
		project string
		task    string
	}

	sums := make(map[key]float64)
	var order []key
	var total float64
	for _, e := range entries {
		k := key{project: e.ProjectName, task: e.TaskTitle}
		if _, ok := sums[k]; !ok {
			order = append(order, k)
		}
		sums[k] += e.Hours
		total += e.Hours
	}

	sort.SliceStable(order, func(i, j int) bool {
		if order[i].project != order[j].project {
			return order[i].project < order[j].project
		}
		return order[i].task < order[j].task
	})

	lines := make([]*dto.SubmissionLine, 0, len(order))
	for _, k := range order {
		lines = append(lines, &dto.SubmissionLine{ProjectName: k.project, TaskTitle: k.task, Hours: round2(sums[k])})
	}
	return lines, round2(total)
}

// ensureMemberAccess 成员必须属于租户；普通成员只能操作自己的工时
func (s *timesheetService) ensureMemberAccess(p *auth.Principal, tenantID int64, member *model.TeamMember) error {
	if err := ensureOwner(member.AdminID, tenantID); err != nil {
		return err
	}
	if !p.IsAdmin() && member.UserID != p.UserID {
		return pkgErrors.New(pkgErrors.CodeForbidden, "You can only manage your own timesheet entries")
	}
	return nil
}

// checkTaskProject 项目和任务属于租户，且任务属于该项目
func (s *timesheetService) checkTaskProject(ctx context.Context, projectRepo repository.ProjectRepository, taskRepo repository.TaskRepository, tenantID, projectID, taskID int64) error {
	project, err := projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return err
	}
	if err := ensureOwner(project.AdminID, tenantID); err != nil {
		return err
	}
	task, err := taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return err
	}
	if err := ensureOwner(task.AdminID, tenantID); err != nil {
		return err
	}
	if task.ProjectID != project.ID {
		return errTaskProjectMismatch
	}
	return nil
}

func optionalDate(field, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := utils.ParseDate(s)
	if err != nil {
		return nil, pkgErrors.Validation("Validation failed", map[string]string{field: "invalid date"})
	}
	return &t, nil
}

func formatPeriod(period dto.Period) string {
	switch {
	case period.Start != "" && period.End != "":
		return fmt.Sprintf("%s to %s", period.Start, period.End)
	case period.Start != "":
		return "from " + period.Start
	case period.End != "":
		return "until " + period.End
	}
	return ""
}

func toTimesheetResponse(r *repository.TimesheetEntryRow) *dto.TimesheetEntryResponse {
	return &dto.TimesheetEntryResponse{
		ID:             r.ID,
		TeamMemberID:   r.TeamMemberID,
		TeamMemberName: r.TeamMemberName,
		ProjectID:      r.ProjectID,
		ProjectName:    r.ProjectName,
		TaskID:         r.TaskID,
		TaskTitle:      r.TaskTitle,
		Date:           utils.FormatDate(r.Date),
		Hours:          r.Hours,
		Description:    r.Description,
		AdminID:        r.AdminID,
		CreatedAt:      formatTime(r.CreatedAt),
		UpdatedAt:      formatTime(r.UpdatedAt),
	}
}
