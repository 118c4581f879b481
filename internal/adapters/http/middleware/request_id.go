package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDKey は gin.Context にリクエスト ID を格納するキーです。
	RequestIDKey    = "request_id"
	requestIDHeader = "X-Request-ID"
	requestIDMaxLen = 64
)

// RequestID は X-Request-ID ヘッダーを引き継ぎ、無ければ UUID を採番します。
// 長すぎる値はログ汚染を避けるため破棄します。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(requestIDHeader)
		if rid == "" || len(rid) > requestIDMaxLen {
			rid = uuid.NewString()
		}

		c.Set(RequestIDKey, rid)
		c.Header(requestIDHeader, rid)

		c.Next()
	}
}
