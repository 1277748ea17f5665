package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap/zapcore"
)

// LogWriter 供 gorm logger 使用的输出适配
type LogWriter struct {
	zapcore.WriteSyncer
}

func (l *LogWriter) Printf(format string, args ...interface{}) {
	line := fmt.Sprintf(format, args...)
	if !strings.HasSuffix(line, "\n") {
		line += "\n"
	}
	_, _ = l.WriteSyncer.Write([]byte(line))
	_ = l.WriteSyncer.Sync()
}

func GetWriter() *LogWriter {
	return logWriter
}
