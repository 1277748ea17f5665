package auth

import (
	"strings"

	"logify/pkg/constants"
)

// Role 内置角色
type Role string

const (
	RoleAdmin Role = constants.RoleAdmin
	RoleUser  Role = constants.RoleUser
)

// Permission 内置权限
type Permission string

const (
	PermProjectView   Permission = "project:view"
	PermProjectCreate Permission = "project:create"
	PermProjectUpdate Permission = "project:update"
	PermProjectDelete Permission = "project:delete"

	PermTaskView   Permission = "task:view"
	PermTaskCreate Permission = "task:create"
	PermTaskUpdate Permission = "task:update"
	PermTaskDelete Permission = "task:delete"

	PermTeamView   Permission = "team:view"
	PermTeamUpdate Permission = "team:update"
	PermTeamDelete Permission = "team:delete"

	PermTimesheetView   Permission = "timesheet:view"
	PermTimesheetCreate Permission = "timesheet:create"
	PermTimesheetUpdate Permission = "timesheet:update"
	PermTimesheetDelete Permission = "timesheet:delete"
	PermTimesheetSubmit Permission = "timesheet:submit"

	PermDashboardView Permission = "dashboard:view"
)

// RolePermissions 每个角色拥有的权限集合
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		"*",
	},
	RoleUser: {
		"*:view",
		"task:update",
		"timesheet:*",
	},
}

// Allow 判断一组角色是否包含所需权限，支持通配符
func Allow(roles []string, need Permission) bool {
	permissions := collectPermissions(roles)

	return len(permissions) > 0 && allow(permissions, need)
}

func collectPermissions(roles []string) []Permission {
	perms := make([]Permission, 0)
	for _, r := range roles {
		if ps, ok := RolePermissions[Role(r)]; ok {
			perms = append(perms, ps...)
		}
	}
	return perms
}

func allow(have []Permission, need Permission) bool {
	for _, p := range have {
		if match(p, need) {
			return true
		}
	}
	return false
}

// match 按段匹配，* 匹配单段；末段为 * 时匹配剩余所有段
func match(p, need Permission) bool {
	if p == need || p == "*" {
		return true
	}

	reqParts := strings.Split(string(need), ":")
	allParts := strings.Split(string(p), ":")

	for i := 0; i < len(allParts); i++ {
		if i >= len(reqParts) {
			return false // required 已经结束，但 allowed 还有更多段
		}

		if allParts[i] == "*" {
			if i == len(allParts)-1 {
				return true
			}
			continue
		}

		if allParts[i] != reqParts[i] {
			return false
		}
	}

	return len(allParts) == len(reqParts)
}
