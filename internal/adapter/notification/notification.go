package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"logify/internal/pkg/config"
)

// Message 邮件消息，Text 为空时由 HTML 自动生成
type Message struct {
	To      []string
	Subject string
	HTML    string
	Text    string

	// Sensitive 含凭证（如临时密码），只允许走邮件渠道
	Sensitive bool
}

// ErrSensitiveMessage 非邮件渠道拒绝含凭证的消息
var ErrSensitiveMessage = errors.New("message contains credentials and cannot be posted to a chat channel")

// Mailer 邮件发送接口
type Mailer interface {
	// Send 发送邮件
	Send(ctx context.Context, msg *Message) error

	// Name 发送渠道名称
	Name() string
}

// NewMailer 按配置创建发送器
// 未启用邮件时只记录日志；配置了 webhook_url 时抄送到 Lark，含凭证的消息除外
func NewMailer(cfg *config.MailConfig, logger *zap.Logger) (Mailer, error) {
	if !cfg.Enabled {
		return NewLogMailer(logger), nil
	}

	var primary Mailer
	switch cfg.Provider {
	case "smtp":
		if cfg.SMTP.Host == "" {
			return nil, fmt.Errorf("mail.smtp.host 未配置")
		}
		primary = NewSMTPMailer(cfg.SMTP, cfg.From)
	case "resend":
		if cfg.ResendAPIKey == "" {
			return nil, fmt.Errorf("mail.resend_api_key 未配置")
		}
		primary = NewResendMailer(cfg.ResendAPIKey, cfg.From)
	case "lark":
		if cfg.WebhookURL == "" {
			return nil, fmt.Errorf("mail.webhook_url 未配置")
		}
		return NewLarkMailer(cfg.WebhookURL, logger), nil
	case "log", "":
		return NewLogMailer(logger), nil
	default:
		return nil, fmt.Errorf("不支持的邮件渠道: %s", cfg.Provider)
	}

	if cfg.WebhookURL != "" {
		return NewMultiMailer(logger, primary, NewLarkMailer(cfg.WebhookURL, logger)), nil
	}
	return primary, nil
}

// ============= Lark 适配器 =============

// LarkMailer 将邮件内容以卡片消息推送到 Lark 机器人
type LarkMailer struct {
	webhookURL string
	logger     *zap.Logger
	client     *http.Client
}

// NewLarkMailer 创建Lark发送器
func NewLarkMailer(webhookURL string, logger *zap.Logger) *LarkMailer {
	return &LarkMailer{
		webhookURL: webhookURL,
		logger:     logger,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (n *LarkMailer) Name() string {
	return "lark"
}

// Send 推送消息，含凭证的消息不推送
func (n *LarkMailer) Send(ctx context.Context, msg *Message) error {
	if msg.Sensitive {
		return ErrSensitiveMessage
	}

	jsonData, err := json.Marshal(n.buildLarkMessage(msg))
	if err != nil {
		return fmt.Errorf("序列化消息失败: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("创建请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("发送请求失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Lark API返回错误状态码: %d", resp.StatusCode)
	}

	n.logger.Info("Lark通知发送成功", zap.String("subject", msg.Subject))
	return nil
}

// buildLarkMessage 构建Lark卡片消息
func (n *LarkMailer) buildLarkMessage(msg *Message) map[string]interface{} {
	text := msg.Text
	if text == "" {
		text = PlainText(msg.HTML)
	}

	return map[string]interface{}{
		"msg_type": "interactive",
		"card": map[string]interface{}{
			"header": map[string]interface{}{
				"title": map[string]interface{}{
					"tag":     "plain_text",
					"content": msg.Subject,
				},
				"template": "blue",
			},
			"elements": []interface{}{
				map[string]interface{}{
					"tag": "div",
					"text": map[string]interface{}{
						"tag":     "lark_md",
						"content": text,
					},
				},
				map[string]interface{}{
					"tag": "div",
					"text": map[string]interface{}{
						"tag":     "plain_text",
						"content": fmt.Sprintf("收件人: %s", strings.Join(msg.To, ", ")),
					},
				},
			},
		},
	}
}

// ============= 多渠道 =============

// MultiMailer 主渠道投递，附加渠道仅做抄送
type MultiMailer struct {
	primary Mailer
	mirrors []Mailer
	logger  *zap.Logger
}

// NewMultiMailer 创建多渠道发送器
func NewMultiMailer(logger *zap.Logger, primary Mailer, mirrors ...Mailer) *MultiMailer {
	return &MultiMailer{
		primary: primary,
		mirrors: mirrors,
		logger:  logger,
	}
}

func (m *MultiMailer) Name() string {
	names := []string{m.primary.Name()}
	for _, mailer := range m.mirrors {
		names = append(names, mailer.Name())
	}
	return strings.Join(names, "+")
}

// Send 投递结果只取决于主渠道；含凭证的消息不抄送，抄送失败只记日志
func (m *MultiMailer) Send(ctx context.Context, msg *Message) error {
	if err := m.primary.Send(ctx, msg); err != nil {
		return err
	}
	if msg.Sensitive {
		return nil
	}
	for _, mailer := range m.mirrors {
		if err := mailer.Send(ctx, msg); err != nil {
			m.logger.Warn("抄送渠道发送失败", zap.String("channel", mailer.Name()), zap.Error(err))
		}
	}
	return nil
}

// ============= 日志发送器(仅记录日志,不发送实际邮件) =============

// LogMailer 日志发送器
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer 创建日志发送器
func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{
		logger: logger,
	}
}

func (n *LogMailer) Name() string {
	return "log"
}

// Send 记录邮件到日志
func (n *LogMailer) Send(ctx context.Context, msg *Message) error {
	n.logger.Info("邮件(仅记录日志)",
		zap.Strings("to", msg.To),
		zap.String("subject", msg.Subject))
	return nil
}
