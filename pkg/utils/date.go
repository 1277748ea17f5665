package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"gorm.io/datatypes"

	"logify/pkg/constants"
)

// ParseDate 宽松解析日期字符串，返回当天UTC零点
// 支持 2006-01-02、RFC3339、01/02/2006 等常见格式
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if t, err := time.Parse(constants.DateLayout, s); err == nil {
		return t, nil
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// NormalizeDate 规范化为 yyyy-MM-dd
func NormalizeDate(s string) (string, error) {
	t, err := ParseDate(s)
	if err != nil {
		return "", err
	}
	return t.Format(constants.DateLayout), nil
}

// DateOf 截断为日期（保留原时区的年月日，时区归一为UTC）
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today 当天日期
func Today() time.Time {
	return DateOf(time.Now().UTC())
}

// ToDate 字符串转 datatypes.Date
func ToDate(s string) (datatypes.Date, error) {
	t, err := ParseDate(s)
	if err != nil {
		return datatypes.Date{}, err
	}
	return datatypes.Date(t), nil
}

// FormatDate datatypes.Date 转 yyyy-MM-dd
func FormatDate(d datatypes.Date) string {
	t := time.Time(d)
	if t.IsZero() {
		return ""
	}
	return t.Format(constants.DateLayout)
}

// FormatDatePtr 可空日期
func FormatDatePtr(d *datatypes.Date) *string {
	if d == nil {
		return nil
	}
	s := FormatDate(*d)
	if s == "" {
		return nil
	}
	return &s
}

// StringPtr 字符串指针
func StringPtr(s string) *string {
	return &s
}
