package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logify/internal/dto"
	"logify/internal/pkg/auth"
	pkgErrors "logify/pkg/errors"
)

// timesheetScope 一个管理员、两名成员、一个项目和一个任务
type timesheetScope struct {
	admin   *auth.Principal
	bob     *dto.TeamMemberResponse
	carol   *dto.TeamMemberResponse
	project *dto.ProjectResponse
	task    *dto.TaskResponse
}

func newTimesheetScope(t *testing.T) (*fixture, *timesheetScope) {
	t.Helper()
	f := newFixture(t)
	admin := f.admin(t, "a@x.com")
	bob := f.member(t, admin, "Bob", "bob@x.com")
	carol := f.member(t, admin, "Carol", "carol@x.com")
	project := f.project(t, admin, "Apollo", bob.ID, carol.ID)
	task := f.task(t, admin, project.ID, "Design", "", bob.ID)
	return f, &timesheetScope{admin: admin, bob: bob, carol: carol, project: project, task: task}
}

func TestTimesheetService_Create(t *testing.T) {
	f, s := newTimesheetScope(t)
	ctx := context.Background()

	entry := f.entry(t, s.admin, s.bob.ID, s.project.ID, s.task.ID, "2024-03-04", 4.5)
	assert.Equal(t, "Bob", entry.TeamMemberName)
	assert.Equal(t, "Apollo", entry.ProjectName)
	assert.Equal(t, "Design", entry.TaskTitle)
	assert.Equal(t, "2024-03-04", entry.Date)
	assert.Equal(t, 4.5, entry.Hours)
	assert.Equal(t, s.admin.UserID, entry.AdminID)

	t.Run("hours out of range", func(t *testing.T) {
		for _, hours := range []float64{-1, 24.5} {
			_, err := f.timesheet.Create(ctx, s.admin, &dto.CreateTimesheetEntryRequest{
				TeamMemberID: s.bob.ID, ProjectID: s.project.ID, TaskID: s.task.ID, Date: "2024-03-05", Hours: float(hours),
			})
			assert.Equal(t, pkgErrors.CodeBadRequest, pkgErrors.CodeOf(err), "hours=%v", hours)
		}
	})

	t.Run("zero hours allowed", func(t *testing.T) {
		zero := f.entry(t, s.admin, s.carol.ID, s.project.ID, s.task.ID, "2024-03-05", 0)
		assert.Equal(t, 0.0, zero.Hours)
	})

	t.Run("task from another project", func(t *testing.T) {
		other := f.project(t, s.admin, "Gemini")
		_, err := f.timesheet.Create(ctx, s.admin, &dto.CreateTimesheetEntryRequest{
			TeamMemberID: s.bob.ID, ProjectID: other.ID, TaskID: s.task.ID, Date: "2024-03-06", Hours: float(1),
		})
		assert.Equal(t, pkgErrors.CodeBadRequest, pkgErrors.CodeOf(err))
	})

	t.Run("member of another tenant", func(t *testing.T) {
		other := f.admin(t, "o@x.com")
		stranger := f.member(t, other, "Eve", "eve@x.com")
		_, err := f.timesheet.Create(ctx, s.admin, &dto.CreateTimesheetEntryRequest{
			TeamMemberID: stranger.ID, ProjectID: s.project.ID, TaskID: s.task.ID, Date: "2024-03-06", Hours: float(1),
		})
		assert.Equal(t, pkgErrors.CodeForbidden, pkgErrors.CodeOf(err))
	})

	t.Run("user logs only own entries", func(t *testing.T) {
		bob := f.memberPrincipal(s.bob)
		own := f.entry(t, bob, s.bob.ID, s.project.ID, s.task.ID, "2024-03-07", 2)
		assert.Equal(t, s.bob.ID, own.TeamMemberID)

		_, err := f.timesheet.Create(ctx, bob, &dto.CreateTimesheetEntryRequest{
			TeamMemberID: s.carol.ID, ProjectID: s.project.ID, TaskID: s.task.ID, Date: "2024-03-07", Hours: float(2),
		})
		assert.Equal(t, pkgErrors.CodeForbidden, pkgErrors.CodeOf(err))
	})
}

func TestTimesheetService_DuplicateEntryConflicts(t *testing.T) {
	f, s := newTimesheetScope(t)
	ctx := context.Background()

	req := func() *dto.CreateTimesheetEntryRequest {
		return &dto.CreateTimesheetEntryRequest{
			TeamMemberID: s.bob.ID, ProjectID: s.project.ID, TaskID: s.task.ID, Date: "2024-03-04", Hours: float(3),
		}
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.timesheet.Create(ctx, s.admin, req())
		}(i)
	}
	wg.Wait()

	codes := []int{pkgErrors.CodeOf(errs[0]), pkgErrors.CodeOf(errs[1])}
	if errs[0] == nil {
		codes[0] = pkgErrors.CodeSuccess
	}
	if errs[1] == nil {
		codes[1] = pkgErrors.CodeSuccess
	}
	assert.ElementsMatch(t, []int{pkgErrors.CodeSuccess, pkgErrors.CodeConflict}, codes)
	assert.Equal(t, int64(1), f.count(t, "timesheet_entries", "team_member_id = ?", s.bob.ID))
}

func TestTimesheetService_Update(t *testing.T) {
	f, s := newTimesheetScope(t)
	ctx := context.Background()
	entry := f.entry(t, s.admin, s.bob.ID, s.project.ID, s.task.ID, "2024-03-04", 4)

	t.Run("empty patch leaves row unchanged", func(t *testing.T) {
		_, err := f.timesheet.Update(ctx, s.admin, entry.ID, &dto.TimesheetPatch{})
		assert.Equal(t, pkgErrors.CodeBadRequest, pkgErrors.CodeOf(err))
		assert.Equal(t, int64(1), f.count(t, "timesheet_entries", "id = ? AND hours = ?", entry.ID, 4))
	})

	t.Run("partial update", func(t *testing.T) {
		desc := "pairing"
		updated, err := f.timesheet.Update(ctx, s.admin, entry.ID, &dto.TimesheetPatch{Hours: float(6), Description: &desc})
		require.NoError(t, err)
		assert.Equal(t, 6.0, updated.Hours)
		require.NotNil(t, updated.Description)
		assert.Equal(t, "pairing", *updated.Description)
		assert.Equal(t, "2024-03-04", updated.Date)
		assert.Equal(t, s.task.ID, updated.TaskID)
	})

	t.Run("moving to a project the task does not belong to", func(t *testing.T) {
		other := f.project(t, s.admin, "Gemini")
		_, err := f.timesheet.Update(ctx, s.admin, entry.ID, &dto.TimesheetPatch{ProjectID: &other.ID})
		assert.Equal(t, pkgErrors.CodeBadRequest, pkgErrors.CodeOf(err))
	})

	t.Run("user cannot edit another member's entry", func(t *testing.T) {
		carol := f.memberPrincipal(s.carol)
		_, err := f.timesheet.Update(ctx, carol, entry.ID, &dto.TimesheetPatch{Hours: float(1)})
		assert.Equal(t, pkgErrors.CodeForbidden, pkgErrors.CodeOf(err))
	})

	t.Run("other tenant sees not found", func(t *testing.T) {
		other := f.admin(t, "o@x.com")
		_, err := f.timesheet.Update(ctx, other, entry.ID, &dto.TimesheetPatch{Hours: float(1)})
		assert.Equal(t, pkgErrors.CodeNotFound, pkgErrors.CodeOf(err))
	})
}

func TestTimesheetService_Delete(t *testing.T) {
	f, s := newTimesheetScope(t)
	ctx := context.Background()
	entry := f.entry(t, s.admin, s.bob.ID, s.project.ID, s.task.ID, "2024-03-04", 4)

	err := f.timesheet.Delete(ctx, f.memberPrincipal(s.carol), entry.ID)
	assert.Equal(t, pkgErrors.CodeForbidden, pkgErrors.CodeOf(err))

	require.NoError(t, f.timesheet.Delete(ctx, f.memberPrincipal(s.bob), entry.ID))
	assert.Equal(t, int64(0), f.count(t, "timesheet_entries", "id = ?", entry.ID))

	err = f.timesheet.Delete(ctx, s.admin, entry.ID)
	assert.Equal(t, pkgErrors.CodeNotFound, pkgErrors.CodeOf(err))
}

func TestTimesheetService_ListFiltersAndPagination(t *testing.T) {
	f, s := newTimesheetScope(t)
	ctx := context.Background()
	f.entry(t, s.admin, s.bob.ID, s.project.ID, s.task.ID, "2024-03-01", 1)
	f.entry(t, s.admin, s.bob.ID, s.project.ID, s.task.ID, "2024-03-02", 2)
	f.entry(t, s.admin, s.carol.ID, s.project.ID, s.task.ID, "2024-03-03", 3)

	all, total, err := f.timesheet.List(ctx, s.admin, &dto.TimesheetListQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, all, 3)
	assert.Equal(t, "2024-03-03", all[0].Date)

	byMember, total, err := f.timesheet.List(ctx, s.admin, &dto.TimesheetListQuery{TeamMemberID: &s.bob.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, byMember, 2)

	byRange, _, err := f.timesheet.List(ctx, s.admin, &dto.TimesheetListQuery{StartDate: "2024-03-02", EndDate: "2024-03-03"})
	require.NoError(t, err)
	assert.Len(t, byRange, 2)

	page, total, err := f.timesheet.List(ctx, s.admin, &dto.TimesheetListQuery{PageQuery: dto.PageQuery{Page: 2, PageSize: 2}})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, page, 1)
	assert.Equal(t, "2024-03-01", page[0].Date)

	other := f.admin(t, "o@x.com")
	none, total, err := f.timesheet.List(ctx, other, &dto.TimesheetListQuery{})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, none)
}

func TestTimesheetService_Weekly(t *testing.T) {
	f, s := newTimesheetScope(t)
	ctx := context.Background()
	gemini := f.project(t, s.admin, "Gemini")
	build := f.task(t, s.admin, gemini.ID, "Build", "")

	f.entry(t, s.admin, s.bob.ID, s.project.ID, s.task.ID, "2024-03-04", 2)
	f.entry(t, s.admin, s.bob.ID, gemini.ID, build.ID, "2024-03-10", 3.5)
	f.entry(t, s.admin, s.bob.ID, s.project.ID, s.task.ID, "2024-03-11", 8)
	f.entry(t, s.admin, s.carol.ID, s.project.ID, s.task.ID, "2024-03-05", 1)

	report, err := f.timesheet.Weekly(ctx, f.memberPrincipal(s.bob), &dto.WeeklyReportQuery{WeekStart: "2024-03-06"})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-04", report.WeekStart)
	assert.Equal(t, "2024-03-10", report.WeekEnd)
	require.Len(t, report.Days, 7)
	assert.Equal(t, 2.0, report.Days[0].Hours)
	assert.Equal(t, 0.0, report.Days[1].Hours)
	assert.Equal(t, 3.5, report.Days[6].Hours)
	assert.Equal(t, 5.5, report.TotalHours)
	require.Len(t, report.Projects, 2)
	assert.Equal(t, "Gemini", report.Projects[0].ProjectName)

	team, err := f.timesheet.Weekly(ctx, s.admin, &dto.WeeklyReportQuery{WeekStart: "2024-03-04"})
	require.NoError(t, err)
	assert.Nil(t, team.TeamMemberID)
	assert.Equal(t, 6.5, team.TotalHours)
}

func TestTimesheetService_Submit(t *testing.T) {
	f, s := newTimesheetScope(t)
	ctx := context.Background()

	req := &dto.SendTimesheetRequest{
		EmployeeName: "Bob",
		Period:       dto.Period{Start: "2024-03-04", End: "2024-03-10"},
		Entries: []*dto.SubmissionEntry{
			{ProjectName: "Apollo", TaskTitle: "Design", Date: "2024-03-04", Hours: 2},
			{ProjectName: "Apollo", TaskTitle: "Design", Date: "2024-03-05", Hours: 1.5},
			{ProjectName: "Apollo", TaskTitle: "Build", Date: "2024-03-05", Hours: 4},
		},
	}

	resp, err := f.timesheet.Submit(ctx, f.memberPrincipal(s.bob), req)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", resp.Recipient)
	assert.True(t, resp.Email.Sent)
	assert.Equal(t, 7.5, resp.TotalHours)
	require.Len(t, resp.Lines, 2)
	assert.Equal(t, "Build", resp.Lines[0].TaskTitle)
	assert.Equal(t, 4.0, resp.Lines[0].Hours)
	assert.Equal(t, "Design", resp.Lines[1].TaskTitle)
	assert.Equal(t, 3.5, resp.Lines[1].Hours)

	var sent []string
	for _, m := range f.mailer.Messages() {
		if m.Subject != "" && m.To[0] == "a@x.com" {
			sent = append(sent, m.Subject)
		}
	}
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0], "Bob")
	assert.Contains(t, sent[0], "2024-03-04 to 2024-03-10")

	t.Run("mailer failure reports 502 with the summary", func(t *testing.T) {
		f.mailer.Err = errors.New("smtp down")
		defer func() { f.mailer.Err = nil }()

		resp, err := f.timesheet.Submit(ctx, s.admin, req)
		assert.Equal(t, pkgErrors.CodeDeliveryFailed, pkgErrors.CodeOf(err))
		require.NotNil(t, resp)
		assert.False(t, resp.Email.Sent)
		assert.Contains(t, resp.Email.Error, "smtp down")

		appErr, ok := pkgErrors.As(err)
		require.True(t, ok)
		details, ok := appErr.Details.(*dto.SendTimesheetResponse)
		require.True(t, ok)
		assert.Equal(t, 7.5, details.TotalHours)
	})

	t.Run("loads entries from the database", func(t *testing.T) {
		f.entry(t, s.admin, s.bob.ID, s.project.ID, s.task.ID, "2024-03-04", 2)
		f.entry(t, s.admin, s.bob.ID, s.project.ID, s.task.ID, "2024-03-05", 3)
		f.entry(t, s.admin, s.bob.ID, s.project.ID, s.task.ID, "2024-04-01", 8)

		resp, err := f.timesheet.Submit(ctx, s.admin, &dto.SendTimesheetRequest{
			TeamMemberID: &s.bob.ID,
			Period:       dto.Period{Start: "2024-03-01", End: "2024-03-31"},
		})
		require.NoError(t, err)
		assert.Equal(t, 5.0, resp.TotalHours)
		require.Len(t, resp.Lines, 1)
		assert.Equal(t, "Apollo", resp.Lines[0].ProjectName)
		assert.Equal(t, "Design", resp.Lines[0].TaskTitle)
	})

	t.Run("fills names from ids", func(t *testing.T) {
		resp, err := f.timesheet.Submit(ctx, s.admin, &dto.SendTimesheetRequest{
			EmployeeName: "Bob",
			Entries:      []*dto.SubmissionEntry{{ProjectID: s.project.ID, TaskID: s.task.ID, Date: "2024-03-04", Hours: 1}},
		})
		require.NoError(t, err)
		require.Len(t, resp.Lines, 1)
		assert.Equal(t, "Apollo", resp.Lines[0].ProjectName)
		assert.Equal(t, "Design", resp.Lines[0].TaskTitle)
	})

	t.Run("needs entries or a member", func(t *testing.T) {
		_, err := f.timesheet.Submit(ctx, s.admin, &dto.SendTimesheetRequest{})
		assert.Equal(t, pkgErrors.CodeBadRequest, pkgErrors.CodeOf(err))
	})
}

func TestSummarizeSubmission(t *testing.T) {
	lines, total := summarizeSubmission([]*dto.SubmissionEntry{
		{ProjectName: "B", TaskTitle: "x", Hours: 0.1},
		{ProjectName: "A", TaskTitle: "y", Hours: 1},
		{ProjectName: "B", TaskTitle: "x", Hours: 0.2},
	})
	require.Len(t, lines, 2)
	assert.Equal(t, "A", lines[0].ProjectName)
	assert.Equal(t, 0.3, lines[1].Hours)
	assert.Equal(t, 1.3, total)

	empty, total := summarizeSubmission(nil)
	assert.Empty(t, empty)
	assert.Zero(t, total)
}
