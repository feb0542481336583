package logging

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// HeaderRequestID はリクエストIDを運ぶヘッダーです。
	HeaderRequestID = "X-Request-ID"
	// ContextKeyRequestID はgin.Context上のリクエストIDのキーです。
	ContextKeyRequestID = "request_id"
	maxRequestIDLength  = 128
)

// RequestID はリクエストIDを割り当て、リクエストごとにアクセスログを1行出力するミドルウェアです。
// クライアントが送ったIDが妥当な長さであればそれを引き継ぎます。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" || len(id) > maxRequestIDLength {
			id = uuid.NewString()
		}
		c.Set(ContextKeyRequestID, id)
		c.Header(HeaderRequestID, id)

		start := time.Now()
		c.Next()

		slog.Info("request",
			"request_id", id,
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"bytes_in", c.Request.ContentLength,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

// RequestIDFrom はミドルウェアが割り当てたリクエストIDを返します。
func RequestIDFrom(c *gin.Context) string {
	return c.GetString(ContextKeyRequestID)
}
