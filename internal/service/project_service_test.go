package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logify/internal/dto"
	"logify/internal/pkg/auth"
	"logify/pkg/constants"
	pkgErrors "logify/pkg/errors"
)

func TestProjectService_CreateAndGetRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.admin(t, "a@x.com")
	m := f.member(t, admin, "Bob", "b@x.com")

	req := &dto.CreateProjectRequest{
		Name:        "Website",
		Description: strPtr("Relaunch"),
		Status:      constants.ProjectStatusInProgress,
		Priority:    constants.PriorityHigh,
		StartDate:   "03/01/2024",
		EndDate:     "2024-06-30",
		DueDate:     strPtr("2024-06-15"),
		TeamMembers: []int64{m.ID, m.ID},
	}
	created, err := f.projects.Create(ctx, admin, req)
	require.NoError(t, err)
	assert.Equal(t, admin.UserID, created.AdminID)
	assert.Equal(t, "2024-03-01", created.StartDate, "dates are normalized")
	assert.Equal(t, int64(1), created.TeamCount)

	got, err := f.projects.Get(ctx, admin, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, got.Name)
	assert.Equal(t, created.Description, got.Description)
	assert.Equal(t, created.Status, got.Status)
	assert.Equal(t, created.Priority, got.Priority)
	assert.Equal(t, created.StartDate, got.StartDate)
	assert.Equal(t, created.EndDate, got.EndDate)
	assert.Equal(t, created.DueDate, got.DueDate)
	require.Len(t, got.TeamMembers, 1)
	assert.Equal(t, m.ID, got.TeamMembers[0].ID)
}

func TestProjectService_CreateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.admin(t, "a@x.com")
	other := f.admin(t, "o@x.com")
	foreign := f.member(t, other, "Olga", "olga@x.com")

	t.Run("due date defaults to end date", func(t *testing.T) {
		p, err := f.projects.Create(ctx, admin, &dto.CreateProjectRequest{Name: "P", StartDate: "2024-01-01", EndDate: "2024-02-01"})
		require.NoError(t, err)
		require.NotNil(t, p.DueDate)
		assert.Equal(t, "2024-02-01", *p.DueDate)
		assert.Equal(t, constants.ProjectStatusNotStarted, p.Status)
		assert.Equal(t, constants.PriorityMedium, p.Priority)
	})

	t.Run("end before start", func(t *testing.T) {
		_, err := f.projects.Create(ctx, admin, &dto.CreateProjectRequest{Name: "P", StartDate: "2024-02-01", EndDate: "2024-01-01"})
		assert.Equal(t, pkgErrors.CodeBadRequest, pkgErrors.CodeOf(err))
	})

	t.Run("team member of another tenant", func(t *testing.T) {
		_, err := f.projects.Create(ctx, admin, &dto.CreateProjectRequest{
			Name: "P", StartDate: "2024-01-01", EndDate: "2024-02-01", TeamMembers: []int64{foreign.ID},
		})
		assert.Equal(t, pkgErrors.CodeBadRequest, pkgErrors.CodeOf(err))
	})

	t.Run("unresolved member session", func(t *testing.T) {
		_, err := f.projects.Create(ctx, &auth.Principal{UserID: 42, Role: auth.RoleUser}, &dto.CreateProjectRequest{
			Name: "P", StartDate: "2024-01-01", EndDate: "2024-02-01",
		})
		assert.Equal(t, pkgErrors.CodeForbidden, pkgErrors.CodeOf(err))
	})
}

func TestProjectService_ListWithTeamCount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.admin(t, "a@x.com")
	other := f.admin(t, "o@x.com")
	m1 := f.member(t, admin, "Bob", "b@x.com")
	m2 := f.member(t, admin, "Carol", "c@x.com")

	first := f.project(t, admin, "First", m1.ID, m2.ID)
	second := f.project(t, admin, "Second")
	f.project(t, other, "Foreign")

	projects, err := f.projects.List(ctx, admin)
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, second.ID, projects[0].ID)
	assert.Equal(t, int64(0), projects[0].TeamCount)
	assert.Equal(t, first.ID, projects[1].ID)
	assert.Equal(t, int64(2), projects[1].TeamCount)
}

func TestProjectService_Update(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.admin(t, "a@x.com")
	m1 := f.member(t, admin, "Bob", "b@x.com")
	m2 := f.member(t, admin, "Carol", "c@x.com")
	p := f.project(t, admin, "P", m1.ID)

	updated, err := f.projects.Update(ctx, admin, p.ID, &dto.UpdateProjectRequest{
		Status:      strPtr(constants.ProjectStatusOnHold),
		EndDate:     strPtr("2025-01-31"),
		TeamMembers: &[]int64{m2.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, constants.ProjectStatusOnHold, updated.Status)
	assert.Equal(t, "2025-01-31", updated.EndDate)
	assert.Equal(t, "2024-01-01", updated.StartDate)
	require.Len(t, updated.TeamMembers, 1)
	assert.Equal(t, m2.ID, updated.TeamMembers[0].ID)

	t.Run("end before existing start", func(t *testing.T) {
		_, err := f.projects.Update(ctx, admin, p.ID, &dto.UpdateProjectRequest{EndDate: strPtr("2023-12-31")})
		assert.Equal(t, pkgErrors.CodeBadRequest, pkgErrors.CodeOf(err))
	})

	t.Run("empty patch", func(t *testing.T) {
		_, err := f.projects.Update(ctx, admin, p.ID, &dto.UpdateProjectRequest{})
		assert.Equal(t, pkgErrors.CodeBadRequest, pkgErrors.CodeOf(err))
	})

	t.Run("other tenant", func(t *testing.T) {
		other := f.admin(t, "o@x.com")
		_, err := f.projects.Update(ctx, other, p.ID, &dto.UpdateProjectRequest{Name: strPtr("hijack")})
		assert.Equal(t, pkgErrors.CodeForbidden, pkgErrors.CodeOf(err))
	})
}

func TestProjectService_DeleteCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.admin(t, "a@x.com")
	m1 := f.member(t, admin, "Bob", "b@x.com")
	m2 := f.member(t, admin, "Carol", "c@x.com")
	p := f.project(t, admin, "P", m1.ID, m2.ID)
	keep := f.project(t, admin, "Keep", m1.ID)

	t1 := f.task(t, admin, p.ID, "T1", "", m1.ID)
	t2 := f.task(t, admin, p.ID, "T2", "", m1.ID, m2.ID)
	kept := f.task(t, admin, keep.ID, "K", "", m1.ID)
	f.entry(t, admin, m1.ID, p.ID, t1.ID, today(), 2)
	f.entry(t, admin, m2.ID, p.ID, t2.ID, today(), 3)
	f.entry(t, admin, m1.ID, keep.ID, kept.ID, today(), 1)

	t.Run("other tenant cannot delete", func(t *testing.T) {
		other := f.admin(t, "o@x.com")
		err := f.projects.Delete(ctx, other, p.ID)
		assert.Equal(t, pkgErrors.CodeForbidden, pkgErrors.CodeOf(err))
	})

	require.NoError(t, f.projects.Delete(ctx, admin, p.ID))

	assert.Equal(t, int64(0), f.count(t, "projects", "id = ?", p.ID))
	assert.Equal(t, int64(0), f.count(t, "tasks", "project_id = ?", p.ID))
	assert.Equal(t, int64(0), f.count(t, "project_team_members", "project_id = ?", p.ID))
	assert.Equal(t, int64(0), f.count(t, "task_team_members", "task_id IN ?", []int64{t1.ID, t2.ID}))
	assert.Equal(t, int64(0), f.count(t, "timesheet_entries", "project_id = ?", p.ID))

	assert.Equal(t, int64(1), f.count(t, "projects", "id = ?", keep.ID))
	assert.Equal(t, int64(1), f.count(t, "task_team_members", "task_id = ?", kept.ID))
	assert.Equal(t, int64(1), f.count(t, "timesheet_entries", "project_id = ?", keep.ID))

	_, err := f.projects.Get(ctx, admin, p.ID)
	assert.Equal(t, pkgErrors.CodeNotFound, pkgErrors.CodeOf(err))
}
