// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// readyTimeout は依存先の確認にかける最大時間です。
const readyTimeout = 3 * time.Second

// Probe は依存先が利用可能かを確認します。
type Probe func(ctx context.Context) error

// Health はプロセスの生存確認用の /healthz エンドポイントを処理します。
func Health(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	respond(c, http.StatusOK, gin.H{"status": "ok"})
}

// Ready は /readyz エンドポイントのハンドラーを返します。
// probe が失敗した場合は 503 を返します。probe が nil の場合は常に準備完了とみなします。
func Ready(probe Probe) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		if probe != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
			defer cancel()
			if err := probe(ctx); err != nil {
				slog.Warn("readiness probe failed", "error", err)
				respond(c, http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		respond(c, http.StatusOK, gin.H{"status": "ready"})
	}
}

// respond はHEADには本文なし、OPTIONSには204で応答します。
func respond(c *gin.Context, code int, body gin.H) {
	switch c.Request.Method {
	case http.MethodHead:
		c.Status(code)
	case http.MethodOptions:
		c.Status(http.StatusNoContent)
	default:
		c.JSON(code, body)
	}
}
