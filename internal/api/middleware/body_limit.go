package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/YeswanthKasi/schmng-sub002/pkg/response"
)

// BodyLimit 请求体大小限制
// 超限请求在读取 body 时失败，由 handler 的参数绑定统一返回 400；
// Content-Length 已知超限时直接返回 413
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			response.Error(c, http.StatusRequestEntityTooLarge, response.CodeTooLarge, "请求体过大")
			c.Abort()
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}
