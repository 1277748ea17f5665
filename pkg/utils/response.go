package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"logify/internal/pkg/logger"
	"logify/pkg/errors"
)

// ErrorResponse 统一错误响应结构
type ErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"` // 详细错误信息（可选）
}

// PageResponse 分页响应结构
type PageResponse struct {
	Items    interface{} `json:"items"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	if data == nil {
		c.JSON(http.StatusOK, gin.H{"success": true})
		return
	}
	c.JSON(http.StatusOK, data)
}

// Created 创建成功响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// PageSuccess 分页成功响应
func PageSuccess(c *gin.Context, items interface{}, total int64, page, size int) {
	c.JSON(http.StatusOK, PageResponse{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: size,
	})
}

// Error 错误响应
// 业务错误按错误码返回；其它错误记录日志后统一返回500，不泄露内部信息
func Error(c *gin.Context, err error) {
	appErr, ok := errors.As(err)
	if !ok {
		appErr = errors.Internal(err)
	}

	if appErr.Code >= http.StatusInternalServerError {
		logger.FromContext(c.Request.Context()).Error("请求处理失败",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("code", appErr.Code),
			zap.Error(err),
		)
		_ = c.Error(err)
	}

	if appErr.Code == http.StatusInternalServerError {
		c.JSON(appErr.Code, ErrorResponse{Error: errors.ErrInternalError.Message})
		return
	}

	c.JSON(appErr.Code, ErrorResponse{
		Error:   appErr.Message,
		Details: appErr.Details,
	})
}

// ErrorWithCode 自定义错误响应
func ErrorWithCode(c *gin.Context, code int, message string) {
	c.JSON(code, ErrorResponse{
		Error: message,
	})
}

// ErrorWithDetail 带详细信息的错误响应
func ErrorWithDetail(c *gin.Context, code int, message string, detail interface{}) {
	c.JSON(code, ErrorResponse{
		Error:   message,
		Details: detail,
	})
}

// BindError 请求绑定/校验失败
func BindError(c *gin.Context, err error) {
	ErrorWithDetail(c, http.StatusBadRequest, "Validation failed", FormatValidationError(err))
}
