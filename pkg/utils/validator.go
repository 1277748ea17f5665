package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"logify/pkg/constants"
)

var registerOnce sync.Once

// RegisterValidators 注册自定义校验规则，并使用json tag作为字段名
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			}
			if name == "" {
				return fld.Name
			}
			return name
		})

		_ = v.RegisterValidation("datestr", validateDateString)
		_ = v.RegisterValidation("hours", validateHours)
	})
}

// validateDateString 可被解析为日期的字符串
func validateDateString(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	_, err := ParseDate(s)
	return err == nil
}

// validateHours 单条工时 0~24
func validateHours(fl validator.FieldLevel) bool {
	h := fl.Field().Float()
	return h >= 0 && h <= constants.MaxHoursPerEntry
}

// fieldMessages 校验tag对应的提示，%[1]s 为字段名，%[2]s 为tag参数
var fieldMessages = map[string]string{
	"required": "field '%[1]s' is required",
	"max":      "field '%[1]s' must be at most %[2]s characters",
	"min":      "field '%[1]s' must be at least %[2]s characters",
	"oneof":    "field '%[1]s' must be one of: %[2]s",
	"email":    "field '%[1]s' must be a valid email address",
	"url":      "field '%[1]s' must be a valid URL",
	"gt":       "field '%[1]s' must be greater than %[2]s",
	"gte":      "field '%[1]s' must be greater than or equal to %[2]s",
	"lt":       "field '%[1]s' must be less than %[2]s",
	"lte":      "field '%[1]s' must be less than or equal to %[2]s",
	"datestr":  "field '%[1]s' must be a valid date (yyyy-MM-dd)",
	"hours":    fmt.Sprintf("field '%%[1]s' must be between 0 and %d", constants.MaxHoursPerEntry),
	"dive":     "field '%[1]s' contains an invalid element",
}

// FormatValidationError 将绑定/校验错误转为面向客户端的提示
func FormatValidationError(err error) string {
	if err == nil {
		return ""
	}

	var (
		verrs     validator.ValidationErrors
		typeErr   *json.UnmarshalTypeError
		syntaxErr *json.SyntaxError
	)
	switch {
	case errors.As(err, &verrs):
		messages := make([]string, 0, len(verrs))
		for _, e := range verrs {
			messages = append(messages, fieldMessage(e))
		}
		return strings.Join(messages, "; ")
	case errors.As(err, &typeErr):
		return fmt.Sprintf("field '%s' should be %s", typeErr.Field, typeErr.Type.String())
	case errors.As(err, &syntaxErr):
		return "invalid JSON format"
	default:
		return err.Error()
	}
}

func fieldMessage(e validator.FieldError) string {
	if tpl, ok := fieldMessages[e.Tag()]; ok {
		return fmt.Sprintf(tpl, e.Field(), e.Param())
	}
	return fmt.Sprintf("field '%s' validation failed on '%s' tag", e.Field(), e.Tag())
}
