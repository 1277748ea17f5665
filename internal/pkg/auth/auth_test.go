package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		have Permission
		need Permission
		want bool
	}{
		{"*", "project:delete", true},
		{"project:view", "project:view", true},
		{"project:view", "project:update", false},
		{"*:view", "task:view", true},
		{"*:view", "task:update", false},
		{"timesheet:*", "timesheet:submit", true},
		{"timesheet:*", "task:view", false},
		{"timesheet:*", "timesheet", false},
		{"task", "task:view", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, match(tt.have, tt.need), "%s vs %s", tt.have, tt.need)
	}
}

func TestAllow(t *testing.T) {
	assert.True(t, Allow([]string{"admin"}, PermTeamDelete))
	assert.True(t, Allow([]string{"user"}, PermProjectView))
	assert.True(t, Allow([]string{"user"}, PermTaskUpdate))
	assert.True(t, Allow([]string{"user"}, PermTimesheetSubmit))
	assert.True(t, Allow([]string{"user"}, PermDashboardView))
	assert.False(t, Allow([]string{"user"}, PermProjectCreate))
	assert.False(t, Allow([]string{"user"}, PermTaskDelete))
	assert.False(t, Allow([]string{"user"}, PermTeamUpdate))
	assert.False(t, Allow([]string{"guest"}, PermProjectView))
	assert.False(t, Allow(nil, PermProjectView))
}

func TestPrincipal(t *testing.T) {
	admin := &Principal{UserID: 7, Role: RoleAdmin}
	tenant, ok := admin.TenantID()
	assert.True(t, ok)
	assert.Equal(t, int64(7), tenant)
	assert.False(t, admin.NeedsTenantResolution())
	assert.True(t, admin.Can(PermProjectDelete))

	user := &Principal{UserID: 9, Role: RoleUser}
	_, ok = user.TenantID()
	assert.False(t, ok)
	assert.True(t, user.NeedsTenantResolution())
	assert.False(t, user.Can(PermProjectDelete))

	adminID := int64(7)
	user.AdminID = &adminID
	tenant, ok = user.TenantID()
	assert.True(t, ok)
	assert.Equal(t, int64(7), tenant)
	assert.False(t, user.NeedsTenantResolution())

	var nobody *Principal
	assert.False(t, nobody.IsAdmin())
	assert.False(t, nobody.Can(PermProjectView))
	_, ok = nobody.TenantID()
	assert.False(t, ok)
}
