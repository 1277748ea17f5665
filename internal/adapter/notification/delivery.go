package notification

import (
	"context"
	"time"

	"go.uber.org/zap"

	"logify/internal/pkg/logger"
	"logify/internal/pkg/metrics"
)

// 邮件类型，用于指标标签
const (
	KindWelcome   = "welcome"
	KindTimesheet = "timesheet"
)

// Result 投递结果
type Result struct {
	Sent bool
	Err  error
}

// Deliver 在独立的超时内异步发送邮件，结果通过通道返回
// 投递与业务数据提交相互独立，失败不会重试
func Deliver(ctx context.Context, mailer Mailer, msg *Message, timeout time.Duration, kind string) <-chan Result {
	ch := make(chan Result, 1)

	go func() {
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
		defer cancel()

		err := mailer.Send(sendCtx, msg)
		if err != nil {
			metrics.EmailsSent.WithLabelValues(kind, "failed").Inc()
			logger.FromContext(ctx).Warn("邮件发送失败",
				zap.String("kind", kind),
				zap.String("channel", mailer.Name()),
				zap.Strings("to", msg.To),
				zap.Error(err))
			ch <- Result{Err: err}
			return
		}

		metrics.EmailsSent.WithLabelValues(kind, "sent").Inc()
		logger.FromContext(ctx).Info("邮件已发送",
			zap.String("kind", kind),
			zap.String("channel", mailer.Name()),
			zap.Strings("to", msg.To))
		ch <- Result{Sent: true}
	}()

	return ch
}
