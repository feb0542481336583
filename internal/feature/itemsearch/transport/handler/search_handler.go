// Package handler はitemsearchフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"finditnow_backend/internal/feature/itemsearch/domain"
	"finditnow_backend/internal/feature/itemsearch/domain/entity"
	"finditnow_backend/internal/feature/itemsearch/transport/http/dto"
	"finditnow_backend/internal/platform/logging"
)

// SearchUsecase は落とし物検索のユースケースインターフェースです。
type SearchUsecase interface {
	Search(ctx context.Context, body []byte) ([]entity.MatchResult, error)
}

// SearchHandler は落とし物検索のHTTPリクエストを処理します。
type SearchHandler struct {
	uc          SearchUsecase
	timeout     time.Duration
	maxBodySize int64
}

// NewSearchHandler はSearchHandlerの新しいインスタンスを生成します。
// timeout が0以下の場合、リクエストのコンテキスト以外に期限を設けません。
func NewSearchHandler(uc SearchUsecase, timeout time.Duration, maxBodySize int64) *SearchHandler {
	return &SearchHandler{uc: uc, timeout: timeout, maxBodySize: maxBodySize}
}

// clientMessages はクライアント入力エラーごとの応答メッセージです。
var clientMessages = []struct {
	err error
	msg string
}{
	{domain.ErrEmptyImage, "Received empty image data"},
	{domain.ErrEmptyNormalizedImage, "Processed image binary is empty"},
	{domain.ErrInvalidEncoding, "Invalid base64 image data"},
	{domain.ErrUnsupportedImage, "Unsupported image format"},
	{domain.ErrImageTooLarge, "Image exceeds maximum size"},
}

// SearchItem はbase64画像を受け取り、一致する落とし物の一覧を返します。
//
// エンドポイント: POST /search-item
// ボディ: base64エンコードされた画像
func (h *SearchHandler) SearchItem(c *gin.Context) {
	setEnvelopeHeaders(c)
	requestID := logging.RequestIDFrom(c)

	defer func() {
		if r := recover(); r != nil {
			slog.Error("search panicked", "request_id", requestID, "panic", r)
			c.AbortWithStatusJSON(http.StatusInternalServerError, failureMessage(fmt.Errorf("panic: %v", r)))
		}
	}()

	body, err := h.readBody(c)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			slog.Warn("request body too large", "request_id", requestID, "limit", tooLarge.Limit)
			c.JSON(http.StatusBadRequest, messageFor(domain.ErrImageTooLarge))
			return
		}
		slog.Error("failed to read request body", "request_id", requestID, "error", err)
		c.JSON(http.StatusInternalServerError, failureMessage(err))
		return
	}

	ctx := c.Request.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	matches, err := h.uc.Search(ctx, body)
	if err != nil {
		if domain.IsClientInput(err) {
			slog.Warn("rejected search request", "request_id", requestID, "error", err)
			c.JSON(http.StatusBadRequest, messageFor(err))
			return
		}
		slog.Error("search failed", "request_id", requestID, "error", err)
		c.JSON(http.StatusInternalServerError, failureMessage(err))
		return
	}

	c.JSON(http.StatusOK, dto.NewMatchResponses(matches))
}

func (h *SearchHandler) readBody(c *gin.Context) ([]byte, error) {
	r := c.Request.Body
	if r == nil {
		return nil, nil
	}
	if h.maxBodySize > 0 {
		r = http.MaxBytesReader(c.Writer, r, h.maxBodySize)
	}
	return io.ReadAll(r)
}

// setEnvelopeHeaders は成功・失敗を問わずすべての応答に付けるCORSヘッダーを設定します。
func setEnvelopeHeaders(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Methods", "POST")
	c.Header("Access-Control-Allow-Headers", "Content-Type")
}

func messageFor(err error) string {
	for _, m := range clientMessages {
		if errors.Is(err, m.err) {
			return m.msg
		}
	}
	return err.Error()
}

func failureMessage(err error) string {
	return "Failed because of: " + err.Error()
}
