package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse API 错误响应体，所有出错路径统一返回 {"error": "..."}
type ErrorResponse struct {
	Error string `json:"error"`
}

// JSON 返回成功响应
func JSON(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Error 返回错误响应
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, ErrorResponse{Error: message})
}

// BadRequest 返回400错误
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// NotFound 返回404错误
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found."
	}
	Error(c, http.StatusNotFound, message)
}

// InternalServerError 返回500错误
func InternalServerError(c *gin.Context, message string) {
	if message == "" {
		message = "An internal server error occurred."
	}
	Error(c, http.StatusInternalServerError, message)
}

// ServiceUnavailable 返回503错误（数据库不可用时）
func ServiceUnavailable(c *gin.Context, message string) {
	if message == "" {
		message = "Database service unavailable. Please try again shortly."
	}
	Error(c, http.StatusServiceUnavailable, message)
}
