package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDSN(t *testing.T) {
	mysql := &DatabaseConfig{Driver: "mysql", Host: "db", Port: 3306, Username: "u", Password: "p", Database: "logify"}
	assert.Equal(t, "u:p@tcp(db:3306)/logify?charset=utf8mb4&parseTime=True&loc=UTC", mysql.GetDSN())

	pg := &DatabaseConfig{Driver: "postgres", Host: "db", Port: 5432, Username: "u", Password: "p", Database: "logify"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=logify sslmode=disable TimeZone=UTC", pg.GetDSN())

	lite := &DatabaseConfig{Driver: "sqlite"}
	assert.Equal(t, "logify.db?_foreign_keys=1&_busy_timeout=5000", lite.GetDSN())

	mem := &DatabaseConfig{Driver: "sqlite", Path: "file:x?mode=memory"}
	assert.Equal(t, "file:x?mode=memory&_foreign_keys=1&_busy_timeout=5000", mem.GetDSN())
}

func TestMailTimeout(t *testing.T) {
	assert.Equal(t, 3*time.Second, (&MailConfig{Timeout: "3s"}).MailTimeout())
	assert.Equal(t, 10*time.Second, (&MailConfig{Timeout: "soon"}).MailTimeout())
	assert.Equal(t, 10*time.Second, (&MailConfig{}).MailTimeout())
}

func TestLoad(t *testing.T) {
	prev := GlobalConfig
	t.Cleanup(func() { GlobalConfig = prev })

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9090
database:
  driver: sqlite
  path: ./data/logify.db
auth:
  jwt:
    secret: s3cret
mail:
  provider: resend
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "logify", cfg.Server.Name)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "read_committed", cfg.Database.IsolationLevel)
	assert.Equal(t, 86400, cfg.Auth.JWT.AccessTokenExpire)
	assert.Equal(t, "resend", cfg.Mail.Provider)
	assert.Equal(t, "0 0 3 * * *", cfg.Scheduler.ReconcileCron)
	assert.Same(t, cfg, GlobalConfig)
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()

	noSecret := filepath.Join(dir, "a.yaml")
	require.NoError(t, os.WriteFile(noSecret, []byte("database:\n  driver: sqlite\n"), 0o600))
	_, err := Load(noSecret)
	assert.Error(t, err)

	badDriver := filepath.Join(dir, "b.yaml")
	require.NoError(t, os.WriteFile(badDriver, []byte("database:\n  driver: oracle\nauth:\n  jwt:\n    secret: x\n"), 0o600))
	_, err = Load(badDriver)
	assert.Error(t, err)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
