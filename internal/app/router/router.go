// Package router はHTTPルーティングを定義します。
package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	founditemshandler "finditnow_backend/internal/feature/founditems/transport/handler"
	itemsearchhandler "finditnow_backend/internal/feature/itemsearch/transport/handler"
	"finditnow_backend/internal/platform/http/handler"
	"finditnow_backend/internal/platform/logging"
)

// corsConfig はブラウザのフロントエンドからの呼び出しを許可するCORS設定です。
func corsConfig() cors.Config {
	return cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:    []string{"Content-Type", logging.HeaderRequestID},
		ExposeHeaders:   []string{logging.HeaderRequestID},
		MaxAge:          12 * time.Hour,
	}
}

// NewRouter はすべてのエンドポイントを登録したgin.Engineを返します。
func NewRouter(search *itemsearchhandler.SearchHandler, items *founditemshandler.FoundItemsHandler, ready handler.Probe) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), logging.RequestID(), cors.New(corsConfig()))

	// 導通確認用
	r.GET("/healthz", handler.Health)
	r.HEAD("/healthz", handler.Health)
	r.OPTIONS("/healthz", handler.Health)
	r.GET("/readyz", handler.Ready(ready))

	// 落とし物検索
	r.POST("/search-item", search.SearchItem)

	// 落とし物コーパスの管理
	r.GET("/found-items", items.List)
	r.PUT("/found-items/*key", items.Upload)
	r.DELETE("/found-items/*key", items.Delete)

	return r
}
