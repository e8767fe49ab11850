package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDCtxKey = "request_id"
	// requestIDMaxLen 限制外部传入 ID 的长度，超长一律重新生成
	requestIDMaxLen = 64
)

// RequestID 请求链路 ID 中间件
// 优先沿用调用方传入的 X-Request-ID，便于导入批处理等跨服务调用串联日志；
// 缺失或不合规时生成 UUID，并回写到响应头
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if !validRequestID(rid) {
			rid = uuid.New().String()
		}

		c.Set(requestIDCtxKey, rid)
		c.Header(requestIDHeader, rid)

		c.Next()
	}
}

// validRequestID 只接受可打印 ASCII，防止日志注入
func validRequestID(rid string) bool {
	if rid == "" || len(rid) > requestIDMaxLen {
		return false
	}
	for i := 0; i < len(rid); i++ {
		if rid[i] < 0x21 || rid[i] > 0x7e {
			return false
		}
	}
	return true
}

// RequestIDFrom 取出当前请求的链路 ID，日志与审计字段共用
func RequestIDFrom(c *gin.Context) string {
	return c.GetString(requestIDCtxKey)
}
