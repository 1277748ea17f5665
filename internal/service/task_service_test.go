package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logify/internal/dto"
	"logify/pkg/constants"
	pkgErrors "logify/pkg/errors"
)

func TestTaskService_CreateChecksProjectOwnershipFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	adminA := f.admin(t, "a@x.com")
	adminB := f.admin(t, "b@x.com")
	foreign := f.project(t, adminB, "B's project")

	_, err := f.tasks.Create(ctx, adminA, &dto.CreateTaskRequest{Title: "T", ProjectID: foreign.ID})
	assert.Equal(t, pkgErrors.CodeForbidden, pkgErrors.CodeOf(err))

	_, err = f.tasks.Create(ctx, adminA, &dto.CreateTaskRequest{Title: "T", ProjectID: 9999})
	assert.Equal(t, pkgErrors.CodeNotFound, pkgErrors.CodeOf(err))

	assert.Equal(t, int64(0), f.count(t, "tasks", "1 = 1"))
}

func TestTaskService_CreateMaintainsCounters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.admin(t, "a@x.com")
	m := f.member(t, admin, "Bob", "b@x.com")
	p := f.project(t, admin, "P", m.ID)

	task := f.task(t, admin, p.ID, "Design", "", m.ID)
	assert.Equal(t, constants.TaskStatusToDo, task.Status)
	assert.False(t, task.IsCompleted)
	assert.Equal(t, "P", task.ProjectName)
	require.Len(t, task.Assignees, 1)
	assert.Equal(t, m.ID, task.Assignees[0].ID)

	f.task(t, admin, p.ID, "Build", constants.TaskStatusCompleted)
	f.task(t, admin, p.ID, "Ship", constants.TaskStatusInProgress)
	f.task(t, admin, p.ID, "Review", constants.TaskStatusCompleted)

	got, err := f.projects.Get(ctx, admin, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.TaskTotal)
	assert.Equal(t, 2, got.TaskCompleted)
	assert.Equal(t, 50, got.Progress)

	t.Run("unknown assignee", func(t *testing.T) {
		_, err := f.tasks.Create(ctx, admin, &dto.CreateTaskRequest{Title: "X", ProjectID: p.ID, Assignees: []int64{9999}})
		assert.Equal(t, pkgErrors.CodeBadRequest, pkgErrors.CodeOf(err))
	})
}

func TestTaskService_UpdateSyncsCompletion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.admin(t, "a@x.com")
	p := f.project(t, admin, "P")
	task := f.task(t, admin, p.ID, "T", "")

	updated, err := f.tasks.Update(ctx, admin, task.ID, &dto.UpdateTaskRequest{IsCompleted: boolPtr(true)})
	require.NoError(t, err)
	assert.Equal(t, constants.TaskStatusCompleted, updated.Status)
	assert.True(t, updated.IsCompleted)

	project, err := f.projects.Get(ctx, admin, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, project.Progress)

	updated, err = f.tasks.Update(ctx, admin, task.ID, &dto.UpdateTaskRequest{Status: strPtr(constants.TaskStatusInProgress)})
	require.NoError(t, err)
	assert.Equal(t, constants.TaskStatusInProgress, updated.Status)
	assert.False(t, updated.IsCompleted)

	project, err = f.projects.Get(ctx, admin, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, project.Progress)
	assert.Equal(t, 0, project.TaskCompleted)

	_, err = f.tasks.Update(ctx, admin, task.ID, &dto.UpdateTaskRequest{})
	assert.Equal(t, pkgErrors.CodeBadRequest, pkgErrors.CodeOf(err))
}

func TestSyncCompletion(t *testing.T) {
	tests := []struct {
		name          string
		current       string
		status        *string
		isCompleted   *bool
		wantStatus    string
		wantCompleted bool
	}{
		{"explicit status wins", constants.TaskStatusToDo, strPtr(constants.TaskStatusCompleted), boolPtr(false), constants.TaskStatusCompleted, true},
		{"complete flag", constants.TaskStatusInProgress, nil, boolPtr(true), constants.TaskStatusCompleted, true},
		{"reopen completed", constants.TaskStatusCompleted, nil, boolPtr(false), constants.TaskStatusToDo, false},
		{"reopen open task keeps status", constants.TaskStatusInProgress, nil, boolPtr(false), constants.TaskStatusInProgress, false},
		{"nothing requested", constants.TaskStatusCompleted, nil, nil, constants.TaskStatusCompleted, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, completed := syncCompletion(tt.current, tt.status, tt.isCompleted)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCompleted, completed)
		})
	}
}

func TestTaskService_MoveRecomputesBothProjects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.admin(t, "a@x.com")
	from := f.project(t, admin, "From")
	to := f.project(t, admin, "To")
	task := f.task(t, admin, from.ID, "T", constants.TaskStatusCompleted)
	f.task(t, admin, from.ID, "Stays", "")

	moved, err := f.tasks.Update(ctx, admin, task.ID, &dto.UpdateTaskRequest{ProjectID: &to.ID})
	require.NoError(t, err)
	assert.Equal(t, to.ID, moved.ProjectID)
	assert.Equal(t, "To", moved.ProjectName)

	src, err := f.projects.Get(ctx, admin, from.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, src.TaskTotal)
	assert.Equal(t, 0, src.Progress)

	dst, err := f.projects.Get(ctx, admin, to.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, dst.TaskTotal)
	assert.Equal(t, 100, dst.Progress)

	t.Run("cannot move into another tenant", func(t *testing.T) {
		other := f.admin(t, "o@x.com")
		foreign := f.project(t, other, "Foreign")
		_, err := f.tasks.Update(ctx, admin, task.ID, &dto.UpdateTaskRequest{ProjectID: &foreign.ID})
		assert.Equal(t, pkgErrors.CodeForbidden, pkgErrors.CodeOf(err))
	})
}

func TestTaskService_MoveCarriesTimesheetEntries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.admin(t, "a@x.com")
	m := f.member(t, admin, "Bob", "b@x.com")
	from := f.project(t, admin, "From", m.ID)
	to := f.project(t, admin, "To", m.ID)
	task := f.task(t, admin, from.ID, "T", "", m.ID)
	entry := f.entry(t, admin, m.ID, from.ID, task.ID, today(), 4)

	_, err := f.tasks.Update(ctx, admin, task.ID, &dto.UpdateTaskRequest{ProjectID: &to.ID})
	require.NoError(t, err)

	assert.Equal(t, int64(1), f.count(t, "timesheet_entries", "id = ? AND project_id = ?", entry.ID, to.ID))
	assert.Zero(t, f.count(t, "timesheet_entries", "project_id = ?", from.ID))

	// 删除旧项目不影响已迁移任务的工时
	require.NoError(t, f.projects.Delete(ctx, admin, from.ID))
	assert.Equal(t, int64(1), f.count(t, "timesheet_entries", "task_id = ?", task.ID))
}

func TestTaskService_ListFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.admin(t, "a@x.com")
	m := f.member(t, admin, "Bob", "b@x.com")
	p1 := f.project(t, admin, "P1")
	p2 := f.project(t, admin, "P2")
	a := f.task(t, admin, p1.ID, "A", "", m.ID)
	f.task(t, admin, p1.ID, "B", constants.TaskStatusCompleted)
	c := f.task(t, admin, p2.ID, "C", "", m.ID)

	all, err := f.tasks.List(ctx, admin, &dto.TaskListQuery{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, c.ID, all[0].ID)

	byProject, err := f.tasks.List(ctx, admin, &dto.TaskListQuery{ProjectID: &p1.ID})
	require.NoError(t, err)
	assert.Len(t, byProject, 2)

	byAssignee, err := f.tasks.List(ctx, admin, &dto.TaskListQuery{AssigneeID: &m.ID})
	require.NoError(t, err)
	require.Len(t, byAssignee, 2)
	assert.ElementsMatch(t, []int64{a.ID, c.ID}, []int64{byAssignee[0].ID, byAssignee[1].ID})
	require.Len(t, byAssignee[0].Assignees, 1)

	byStatus, err := f.tasks.List(ctx, admin, &dto.TaskListQuery{Status: constants.TaskStatusCompleted})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, "B", byStatus[0].Title)
}

func TestTaskService_DeleteRecomputesCounters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.admin(t, "a@x.com")
	m := f.member(t, admin, "Bob", "b@x.com")
	p := f.project(t, admin, "P", m.ID)
	done := f.task(t, admin, p.ID, "Done", constants.TaskStatusCompleted, m.ID)
	f.task(t, admin, p.ID, "Open", "")
	f.entry(t, admin, m.ID, p.ID, done.ID, today(), 2)

	require.NoError(t, f.tasks.Delete(ctx, admin, done.ID))

	assert.Equal(t, int64(0), f.count(t, "task_team_members", "task_id = ?", done.ID))
	assert.Equal(t, int64(0), f.count(t, "timesheet_entries", "task_id = ?", done.ID))

	project, err := f.projects.Get(ctx, admin, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, project.TaskTotal)
	assert.Equal(t, 0, project.TaskCompleted)
	assert.Equal(t, 0, project.Progress)
}

func boolPtr(b bool) *bool {
	return &b
}
