package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"logify/internal/adapter/notification"
	"logify/internal/dto"
	"logify/internal/repository"
	"logify/internal/testutil"
	"logify/pkg/constants"
	pkgErrors "logify/pkg/errors"
)

func TestTeamMemberService_Create(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.admin(t, "a@x.com")

	t.Run("welcome email sent", func(t *testing.T) {
		resp, err := f.team.Create(ctx, admin, &dto.CreateTeamMemberRequest{Name: "Bob", Email: "B@x.com", Department: "Eng"})
		require.NoError(t, err)
		assert.True(t, resp.Email.Sent)
		assert.Empty(t, resp.TemporaryPassword)
		assert.Equal(t, admin.UserID, resp.Member.AdminID)
		assert.Equal(t, "b@x.com", resp.Member.Email)
		assert.Equal(t, constants.MemberStatusActive, resp.Member.Status)
		assert.Positive(t, resp.Member.UserID)

		msgs := f.mailer.Messages()
		require.Len(t, msgs, 1)
		assert.Equal(t, []string{"b@x.com"}, msgs[0].To)
	})

	t.Run("failed email keeps the member and returns the password", func(t *testing.T) {
		f.mailer.Err = assert.AnError
		defer func() { f.mailer.Err = nil }()

		resp, err := f.team.Create(ctx, admin, &dto.CreateTeamMemberRequest{Name: "Carol", Email: "c@x.com"})
		require.NoError(t, err)
		assert.False(t, resp.Email.Sent)
		assert.NotEmpty(t, resp.Email.Error)
		assert.Len(t, resp.TemporaryPassword, 12)
		assert.Equal(t, int64(1), f.count(t, "team_members", "email = ?", "c@x.com"))
	})

	t.Run("existing email is a conflict", func(t *testing.T) {
		_, err := f.team.Create(ctx, admin, &dto.CreateTeamMemberRequest{Name: "Dup", Email: "a@x.com"})
		assert.Equal(t, pkgErrors.CodeConflict, pkgErrors.CodeOf(err))
	})

	t.Run("non admin is unauthorized", func(t *testing.T) {
		bob, err := f.team.List(ctx, admin, &dto.TeamMemberListQuery{Keyword: "bob"})
		require.NoError(t, err)
		require.Len(t, bob, 1)

		_, err = f.team.Create(ctx, f.memberPrincipal(bob[0]), &dto.CreateTeamMemberRequest{Name: "Eve", Email: "e@x.com"})
		assert.Equal(t, pkgErrors.CodeUnauthorized, pkgErrors.CodeOf(err))
		assert.Equal(t, int64(0), f.count(t, "users", "email = ?", "e@x.com"))
	})
}

func TestTeamMemberService_ListAndTenantIsolation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	adminA := f.admin(t, "a@x.com")
	adminB := f.admin(t, "b@x.com")
	f.member(t, adminA, "Ann", "ann@x.com")
	away := f.member(t, adminA, "Andy", "andy@x.com")
	other := f.member(t, adminB, "Ben", "ben@x.com")

	_, err := f.team.Update(ctx, adminA, away.ID, &dto.UpdateTeamMemberRequest{Status: strPtr(constants.MemberStatusAway)})
	require.NoError(t, err)

	all, err := f.team.List(ctx, adminA, &dto.TeamMemberListQuery{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, away.ID, all[0].ID, "newest first")

	filtered, err := f.team.List(ctx, adminA, &dto.TeamMemberListQuery{Status: constants.MemberStatusAway})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Andy", filtered[0].Name)

	t.Run("admin_id must match the session", func(t *testing.T) {
		_, err := f.team.List(ctx, adminA, &dto.TeamMemberListQuery{AdminID: &adminB.UserID})
		assert.Equal(t, pkgErrors.CodeForbidden, pkgErrors.CodeOf(err))
	})

	t.Run("foreign member is forbidden", func(t *testing.T) {
		_, err := f.team.Get(ctx, adminA, other.ID)
		assert.Equal(t, pkgErrors.CodeForbidden, pkgErrors.CodeOf(err))
	})

	t.Run("missing member", func(t *testing.T) {
		_, err := f.team.Get(ctx, adminA, 9999)
		assert.Equal(t, pkgErrors.CodeNotFound, pkgErrors.CodeOf(err))
	})
}

func TestTeamMemberService_Update(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.admin(t, "a@x.com")
	m := f.member(t, admin, "Bob", "b@x.com")

	updated, err := f.team.Update(ctx, admin, m.ID, &dto.UpdateTeamMemberRequest{
		Name:  strPtr(" Robert "),
		Phone: strPtr("123"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Robert", updated.Name)
	require.NotNil(t, updated.Phone)
	assert.Equal(t, "123", *updated.Phone)
	assert.Equal(t, "b@x.com", updated.Email)

	_, err = f.team.Update(ctx, admin, m.ID, &dto.UpdateTeamMemberRequest{})
	assert.Equal(t, pkgErrors.CodeBadRequest, pkgErrors.CodeOf(err))
}

func TestTeamMemberService_DeleteRemovesAssignmentsAndEntries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.admin(t, "a@x.com")
	m := f.member(t, admin, "Bob", "b@x.com")
	p := f.project(t, admin, "P", m.ID)
	task := f.task(t, admin, p.ID, "T", "", m.ID)
	f.entry(t, admin, m.ID, p.ID, task.ID, today(), 3)

	require.NoError(t, f.team.Delete(ctx, admin, m.ID))

	assert.Equal(t, int64(0), f.count(t, "team_members", "id = ?", m.ID))
	assert.Equal(t, int64(0), f.count(t, "project_team_members", "team_member_id = ?", m.ID))
	assert.Equal(t, int64(0), f.count(t, "task_team_members", "team_member_id = ?", m.ID))
	assert.Equal(t, int64(0), f.count(t, "timesheet_entries", "team_member_id = ?", m.ID))
	assert.Equal(t, int64(1), f.count(t, "tasks", "id = ?", task.ID))
}

func strPtr(s string) *string {
	return &s
}

func TestTeamMemberService_CreateWithMirroredMailer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.admin(t, "a@x.com")

	primary := &testutil.RecordingMailer{}
	chat := &testutil.RecordingMailer{Err: errors.New("webhook down")}
	svc := NewTeamMemberService(f.db,
		repository.NewTeamMemberRepository(f.db),
		repository.NewUserRepository(f.db),
		notification.NewMultiMailer(zap.NewNop(), primary, chat),
		&f.cfg.Mail)

	resp, err := svc.Create(ctx, admin, &dto.CreateTeamMemberRequest{Name: "Bob", Email: "b@x.com"})
	require.NoError(t, err)
	assert.True(t, resp.Email.Sent)
	assert.Empty(t, resp.TemporaryPassword)

	msgs := primary.Messages()
	require.Len(t, msgs, 1)
	assert.True(t, msgs[0].Sensitive)

	// 恢复抄送渠道后，欢迎邮件仍不会被抄送
	chat.Err = nil
	_, err = svc.Create(ctx, admin, &dto.CreateTeamMemberRequest{Name: "Carol", Email: "c@x.com"})
	require.NoError(t, err)
	assert.Empty(t, chat.Messages())
	assert.Len(t, primary.Messages(), 2)
}
