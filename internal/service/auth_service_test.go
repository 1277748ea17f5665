package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logify/internal/dto"
	"logify/internal/pkg/auth"
	"logify/internal/pkg/jwt"
	"logify/pkg/constants"
	pkgErrors "logify/pkg/errors"
)

func TestAuthService_Register(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.auth.Register(ctx, &dto.RegisterRequest{Name: "Alice", Email: " A@X.com ", Password: "secret1"})
	require.NoError(t, err)
	assert.Positive(t, resp.ID)
	assert.Equal(t, "User registered successfully", resp.Message)

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		_, err := f.auth.Register(ctx, &dto.RegisterRequest{Name: "Other", Email: "a@x.com", Password: "secret1"})
		require.Error(t, err)
		assert.Equal(t, pkgErrors.CodeConflict, pkgErrors.CodeOf(err))
	})

	t.Run("short password", func(t *testing.T) {
		_, err := f.auth.Register(ctx, &dto.RegisterRequest{Name: "Bob", Email: "b@x.com", Password: "12345"})
		assert.Equal(t, pkgErrors.CodeBadRequest, pkgErrors.CodeOf(err))
	})

	t.Run("blank name", func(t *testing.T) {
		_, err := f.auth.Register(ctx, &dto.RegisterRequest{Name: "  ", Email: "c@x.com", Password: "secret1"})
		assert.Equal(t, pkgErrors.CodeBadRequest, pkgErrors.CodeOf(err))
	})
}

func TestAuthService_Login(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.admin(t, "a@x.com")

	resp, err := f.auth.Login(ctx, &dto.LoginRequest{Email: "A@x.com", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, f.cfg.Auth.JWT.AccessTokenExpire, resp.ExpiresIn)
	assert.Equal(t, admin.UserID, resp.User.UserID)
	assert.Equal(t, auth.RoleAdmin, resp.User.Role)

	claims, err := jwt.ValidateToken(resp.AccessToken, constants.JWTTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, admin.UserID, claims.UserID)

	t.Run("wrong password and unknown email share one message", func(t *testing.T) {
		_, err1 := f.auth.Login(ctx, &dto.LoginRequest{Email: "a@x.com", Password: "wrong"})
		_, err2 := f.auth.Login(ctx, &dto.LoginRequest{Email: "nobody@x.com", Password: "secret1"})
		require.Error(t, err1)
		require.Error(t, err2)
		assert.Equal(t, err1.Error(), err2.Error())
		assert.Equal(t, pkgErrors.CodeUnauthorized, pkgErrors.CodeOf(err1))
	})
}

func TestAuthService_MemberSessionResolvesTenant(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.admin(t, "a@x.com")

	f.mailer.Err = assert.AnError
	created, err := f.team.Create(ctx, admin, &dto.CreateTeamMemberRequest{Name: "Bob", Email: "b@x.com"})
	require.NoError(t, err)
	require.NotEmpty(t, created.TemporaryPassword)

	resp, err := f.auth.Login(ctx, &dto.LoginRequest{Email: "b@x.com", Password: created.TemporaryPassword})
	require.NoError(t, err)
	assert.Equal(t, auth.RoleUser, resp.User.Role)
	require.NotNil(t, resp.User.AdminID)
	assert.Equal(t, admin.UserID, *resp.User.AdminID)

	t.Run("refresh keeps the resolved tenant", func(t *testing.T) {
		refreshed, err := f.auth.RefreshToken(ctx, resp.RefreshToken)
		require.NoError(t, err)
		require.NotNil(t, refreshed.User.AdminID)
		assert.Equal(t, admin.UserID, *refreshed.User.AdminID)
	})

	t.Run("access token cannot be used to refresh", func(t *testing.T) {
		_, err := f.auth.RefreshToken(ctx, resp.AccessToken)
		assert.Equal(t, pkgErrors.CodeUnauthorized, pkgErrors.CodeOf(err))
	})
}

func TestAuthorizationService_ResolvePrincipal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.admin(t, "a@x.com")
	member := f.member(t, admin, "Bob", "b@x.com")

	t.Run("admin is never rewritten", func(t *testing.T) {
		p, changed, err := f.authz.ResolvePrincipal(ctx, admin)
		require.NoError(t, err)
		assert.False(t, changed)
		assert.Same(t, admin, p)
	})

	t.Run("user without admin_id is resolved", func(t *testing.T) {
		p, changed, err := f.authz.ResolvePrincipal(ctx, &auth.Principal{UserID: member.UserID, Role: auth.RoleUser})
		require.NoError(t, err)
		assert.True(t, changed)
		require.NotNil(t, p.AdminID)
		assert.Equal(t, admin.UserID, *p.AdminID)
	})

	t.Run("orphan user stays unresolved", func(t *testing.T) {
		p, changed, err := f.authz.ResolvePrincipal(ctx, &auth.Principal{UserID: 9999, Role: auth.RoleUser})
		require.NoError(t, err)
		assert.False(t, changed)
		_, ok := p.TenantID()
		assert.False(t, ok)
	})

	t.Run("permissions follow role", func(t *testing.T) {
		user := f.memberPrincipal(member)
		assert.True(t, f.authz.HasPermission(admin, auth.PermProjectDelete))
		assert.True(t, f.authz.HasPermission(user, auth.PermProjectView))
		assert.True(t, f.authz.HasPermission(user, auth.PermTimesheetCreate))
		assert.False(t, f.authz.HasPermission(user, auth.PermProjectCreate))
		assert.False(t, f.authz.HasPermission(nil, auth.PermProjectView))
	})
}
