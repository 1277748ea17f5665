package service

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"logify/internal/dto"
	"logify/internal/model"
	"logify/internal/pkg/auth"
	"logify/internal/repository"
	"logify/pkg/constants"
	"logify/pkg/utils"
)

type DashboardService interface {
	Snapshot(ctx context.Context, p *auth.Principal) (*dto.DashboardResponse, error)
}

type dashboardService struct {
	repo repository.DashboardRepository
}

func NewDashboardService(repo repository.DashboardRepository) DashboardService {
	return &dashboardService{repo: repo}
}

// Snapshot 并行执行各项聚合查询，任一失败则整体失败
func (s *dashboardService) Snapshot(ctx context.Context, p *auth.Principal) (*dto.DashboardResponse, error) {
	tenantID, err := tenantOf(p)
	if err != nil {
		return nil, err
	}

	today := utils.Today()
	since := today.AddDate(0, 0, -constants.DashboardWindowDays)

	var (
		projectCounts []repository.StatusCount
		taskCounts    []repository.StatusCount
		overdue       int64
		teamCounts    []repository.StatusCount
		totals        *repository.TimesheetTotals
		projectHours  []*repository.ProjectHoursRow
		projects      []*model.Project
		tasks         []*model.Task
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		projectCounts, err = s.repo.ProjectStatusCounts(gctx, tenantID)
		return err
	})
	g.Go(func() (err error) {
		if taskCounts, err = s.repo.TaskStatusCounts(gctx, tenantID); err != nil {
			return err
		}
		overdue, err = s.repo.OverdueTaskCount(gctx, tenantID, today)
		return err
	})
	g.Go(func() (err error) {
		teamCounts, err = s.repo.TeamStatusCounts(gctx, tenantID)
		return err
	})
	g.Go(func() (err error) {
		totals, err = s.repo.TimesheetTotals(gctx, tenantID, since)
		return err
	})
	g.Go(func() (err error) {
		projectHours, err = s.repo.ProjectHours(gctx, tenantID, since)
		return err
	})
	g.Go(func() (err error) {
		if projects, err = s.repo.RecentProjects(gctx, tenantID, constants.DashboardRecentPerKind); err != nil {
			return err
		}
		tasks, err = s.repo.RecentTasks(gctx, tenantID, constants.DashboardRecentPerKind)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	resp := &dto.DashboardResponse{
		Projects: dto.ProjectStats{ByStatus: statusMap(constants.ProjectStatuses, projectCounts)},
		Tasks: dto.TaskStats{
			ByStatus: statusMap(constants.TaskStatuses, taskCounts),
			Overdue:  overdue,
		},
		Team:                dto.TeamStats{ByStatus: statusMap(constants.MemberStatuses, teamCounts)},
		Timesheet:           timesheetStats(totals),
		ProjectDistribution: projectDistribution(projectHours),
		RecentActivity:      recentActivity(projects, tasks),
	}
	resp.Projects.Total = sumCounts(projectCounts)
	resp.Tasks.Total = sumCounts(taskCounts)
	resp.Team.Total = sumCounts(teamCounts)
	return resp, nil
}

// statusMap 已知状态补零，未知状态原样保留
func statusMap(known []string, counts []repository.StatusCount) map[string]int64 {
	m := make(map[string]int64, len(known))
	for _, status := range known {
		m[status] = 0
	}
	for _, c := range counts {
		m[c.Status] += c.Count
	}
	return m
}

func sumCounts(counts []repository.StatusCount) int64 {
	var total int64
	for _, c := range counts {
		total += c.Count
	}
	return total
}

func timesheetStats(totals *repository.TimesheetTotals) dto.TimesheetStats {
	stats := dto.TimesheetStats{WindowDays: constants.DashboardWindowDays}
	if totals == nil {
		return stats
	}
	stats.TotalHours = round2(totals.TotalHours)
	stats.EntryCount = totals.EntryCount
	stats.ActiveMembers = totals.ActiveMembers
	stats.AvgHoursPerEntry = round2(ratio(totals.TotalHours, float64(totals.EntryCount)))
	stats.AvgHoursPerDay = round2(ratio(totals.TotalHours, constants.DashboardWindowDays))
	return stats
}

// projectDistribution 各项目工时占全部工时的百分比，取前5
func projectDistribution(rows []*repository.ProjectHoursRow) []*dto.ProjectShare {
	var total float64
	for _, r := range rows {
		total += r.Hours
	}

	sorted := make([]*repository.ProjectHoursRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Hours != sorted[j].Hours {
			return sorted[i].Hours > sorted[j].Hours
		}
		return sorted[i].ProjectID < sorted[j].ProjectID
	})
	if len(sorted) > constants.DashboardTopProjects {
		sorted = sorted[:constants.DashboardTopProjects]
	}

	shares := make([]*dto.ProjectShare, 0, len(sorted))
	for _, r := range sorted {
		shares = append(shares, &dto.ProjectShare{
			ProjectID:   r.ProjectID,
			ProjectName: r.ProjectName,
			Hours:       round2(r.Hours),
			Percentage:  round2(ratio(r.Hours, total) * 100),
		})
	}
	return shares
}

// recentActivity 合并最近的项目和任务，按创建时间倒序
func recentActivity(projects []*model.Project, tasks []*model.Task) []*dto.ActivityItem {
	type item struct {
		dto.ActivityItem
		sortKey int64
	}

	items := make([]item, 0, len(projects)+len(tasks))
	for _, p := range projects {
		items = append(items, item{
			ActivityItem: dto.ActivityItem{Type: "project", ID: p.ID, Title: p.Name, Status: p.Status, CreatedAt: formatTime(p.CreatedAt)},
			sortKey:      p.CreatedAt.UnixNano(),
		})
	}
	for _, t := range tasks {
		items = append(items, item{
			ActivityItem: dto.ActivityItem{Type: "task", ID: t.ID, Title: t.Title, Status: t.Status, CreatedAt: formatTime(t.CreatedAt)},
			sortKey:      t.CreatedAt.UnixNano(),
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].sortKey > items[j].sortKey
	})
	if len(items) > constants.DashboardRecentLimit {
		items = items[:constants.DashboardRecentLimit]
	}

	result := make([]*dto.ActivityItem, 0, len(items))
	for i := range items {
		a := items[i].ActivityItem
		result = append(result, &a)
	}
	return result
}
