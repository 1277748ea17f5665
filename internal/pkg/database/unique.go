package database

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

// 唯一约束名称，与模型中的 uniqueIndex 保持一致
const (
	UKUsersEmail             = "uk_users_email"
	UKTeamMembersAdminEmail  = "uk_team_members_admin_email"
	UKTeamMembersUserID      = "uk_team_members_user_id"
	UKTimesheetMemberTaskDay = "uk_timesheet_member_task_date"
)

// sqlite 的错误信息只包含列名，按列匹配约束
var sqliteUniqueColumns = map[string][]string{
	UKUsersEmail:             {"users.email"},
	UKTeamMembersAdminEmail:  {"team_members.admin_id", "team_members.email"},
	UKTeamMembersUserID:      {"team_members.user_id"},
	UKTimesheetMemberTaskDay: {"timesheet_entries.team_member_id", "timesheet_entries.task_id", "timesheet_entries.date"},
}

// UniqueViolation 判断是否唯一约束冲突，并返回约束名称（无法识别时为空字符串）
func UniqueViolation(err error) (string, bool) {
	if err == nil {
		return "", false
	}

	// MySQL: Error 1062: Duplicate entry 'x' for key 'table.uk_name'
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		if myErr.Number != 1062 {
			return "", false
		}
		return constraintFromMessage(myErr.Message), true
	}

	// PostgreSQL: unique_violation
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code != "23505" {
			return "", false
		}
		return pgErr.ConstraintName, true
	}

	// SQLite: UNIQUE constraint failed: table.col1, table.col2
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		if liteErr.ExtendedCode != sqlite3.ErrConstraintUnique && liteErr.ExtendedCode != sqlite3.ErrConstraintPrimaryKey {
			return "", false
		}
		return constraintFromColumns(liteErr.Error()), true
	}

	return "", false
}

func constraintFromMessage(msg string) string {
	idx := strings.LastIndex(msg, "for key '")
	if idx < 0 {
		return ""
	}
	key := strings.TrimSuffix(msg[idx+len("for key '"):], "'")
	if dot := strings.LastIndex(key, "."); dot >= 0 {
		key = key[dot+1:]
	}
	return key
}

func constraintFromColumns(msg string) string {
	best, bestLen := "", 0
	for name, cols := range sqliteUniqueColumns {
		matched := true
		for _, col := range cols {
			if !strings.Contains(msg, col) {
				matched = false
				break
			}
		}
		if matched && len(cols) > bestLen {
			best, bestLen = name, len(cols)
		}
	}
	return best
}
