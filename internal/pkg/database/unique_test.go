package database

import (
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logify/internal/model"
	"logify/internal/pkg/config"
)

func TestUniqueViolation_MySQL(t *testing.T) {
	err := fmt.Errorf("insert: %w", &mysql.MySQLError{
		Number:  1062,
		Message: "Duplicate entry '1-a@x.com' for key 'team_members.uk_team_members_admin_email'",
	})
	name, ok := UniqueViolation(err)
	assert.True(t, ok)
	assert.Equal(t, UKTeamMembersAdminEmail, name)

	_, ok = UniqueViolation(&mysql.MySQLError{Number: 1452, Message: "foreign key"})
	assert.False(t, ok)
}

func TestUniqueViolation_Postgres(t *testing.T) {
	name, ok := UniqueViolation(&pgconn.PgError{Code: "23505", ConstraintName: UKUsersEmail})
	assert.True(t, ok)
	assert.Equal(t, UKUsersEmail, name)

	_, ok = UniqueViolation(&pgconn.PgError{Code: "23503"})
	assert.False(t, ok)
}

func TestUniqueViolation_SQLite(t *testing.T) {
	db, err := Open(&config.DatabaseConfig{
		Driver: "sqlite",
		Path:   "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})
	require.NoError(t, AutoMigrate(db))

	require.NoError(t, db.Create(&model.User{Name: "A", Email: "a@x.com", Password: "x", Role: "admin"}).Error)
	err = db.Create(&model.User{Name: "B", Email: "a@x.com", Password: "x", Role: "admin"}).Error
	require.Error(t, err)

	name, ok := UniqueViolation(err)
	assert.True(t, ok)
	assert.Equal(t, UKUsersEmail, name)
}

func TestUniqueViolation_Other(t *testing.T) {
	_, ok := UniqueViolation(nil)
	assert.False(t, ok)
	_, ok = UniqueViolation(fmt.Errorf("boom"))
	assert.False(t, ok)
}

func TestConstraintFromColumns(t *testing.T) {
	msg := "UNIQUE constraint failed: timesheet_entries.team_member_id, timesheet_entries.task_id, timesheet_entries.date"
	assert.Equal(t, UKTimesheetMemberTaskDay, constraintFromColumns(msg))
	assert.Equal(t, UKTeamMembersUserID, constraintFromColumns("UNIQUE constraint failed: team_members.user_id"))
	assert.Equal(t, "", constraintFromColumns("UNIQUE constraint failed: other.col"))
}

func TestSetIsolationLevel(t *testing.T) {
	t.Cleanup(func() { txOptions = nil })

	SetIsolationLevel("sqlite", "serializable")
	assert.Nil(t, txOptions)

	SetIsolationLevel("postgres", "")
	require.NotNil(t, txOptions)

	SetIsolationLevel("mysql", "default")
	assert.Nil(t, txOptions)
}
