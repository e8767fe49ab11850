package middleware

import (
	"github.com/gin-gonic/gin"
)

// SecurityHeaders 统一安全响应头
// 接口只输出 JSON 与文件流，CSP 收紧到 default-src 'none'；
// 成绩、账务等敏感数据一律禁止缓存
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "no-referrer")
		c.Header("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		c.Header("Permissions-Policy", "camera=(), microphone=(), geolocation=()")
		c.Header("Cache-Control", "no-store")

		c.Next()
	}
}
