// Package testutil 测试用的数据库、配置和邮件替身
package testutil

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"logify/internal/adapter/notification"
	"logify/internal/pkg/config"
	"logify/internal/pkg/database"
)

// NewTestDB 创建独立的内存 sqlite 数据库并完成迁移
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Open(&config.DatabaseConfig{
		Driver:   "sqlite",
		Path:     "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		LogLevel: "silent",
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// NewTestConfig 测试配置，同时设置为全局配置供 JWT 使用
func NewTestConfig() *config.Config {
	cfg := &config.Config{
		Server: config.ServerConfig{Name: "logify-test", Mode: "test"},
		Database: config.DatabaseConfig{
			Driver: "sqlite",
		},
		Auth: config.AuthConfig{
			JWT: config.JWTConfig{
				Secret:             "test-secret",
				AccessTokenExpire:  3600,
				RefreshTokenExpire: 7200,
			},
		},
		Mail: config.MailConfig{
			Provider: "log",
			AppName:  "Logify",
			LoginURL: "http://localhost/login",
			Timeout:  "2s",
		},
	}
	config.GlobalConfig = cfg
	return cfg
}

// RecordingMailer 记录发送的邮件，Err 非空时模拟发送失败
type RecordingMailer struct {
	mu       sync.Mutex
	Err      error
	messages []*notification.Message
}

func (m *RecordingMailer) Send(_ context.Context, msg *notification.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.messages = append(m.messages, msg)
	return nil
}

func (m *RecordingMailer) Name() string {
	return "recording"
}

// Messages 已发送的邮件
func (m *RecordingMailer) Messages() []*notification.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*notification.Message, len(m.messages))
	copy(out, m.messages)
	return out
}
