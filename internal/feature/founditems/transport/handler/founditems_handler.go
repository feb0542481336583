// Package handler はfounditemsフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"finditnow_backend/internal/feature/founditems/domain"
	"finditnow_backend/internal/feature/founditems/transport/http/dto"
	"finditnow_backend/internal/platform/logging"
)

// FoundItemsUsecase は落とし物管理のユースケースインターフェースです。
type FoundItemsUsecase interface {
	List(ctx context.Context) ([]string, error)
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	Delete(ctx context.Context, key string) error
}

// FoundItemsHandler は落とし物画像の一覧・登録・削除のHTTPリクエストを処理します。
type FoundItemsHandler struct {
	uc          FoundItemsUsecase
	maxBodySize int64
}

// NewFoundItemsHandler はFoundItemsHandlerの新しいインスタンスを生成します。
func NewFoundItemsHandler(uc FoundItemsUsecase, maxBodySize int64) *FoundItemsHandler {
	return &FoundItemsHandler{uc: uc, maxBodySize: maxBodySize}
}

// List はすべての落とし物画像のキーを返します。
//
// エンドポイント: GET /found-items
func (h *FoundItemsHandler) List(c *gin.Context) {
	keys, err := h.uc.List(c.Request.Context())
	if err != nil {
		slog.Error("failed to list found items", "request_id", logging.RequestIDFrom(c), "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list items"})
		return
	}
	c.JSON(http.StatusOK, keys)
}

// Upload はリクエストボディの画像をキーに保存します。
//
// エンドポイント: PUT /found-items/*key
// ボディ: 画像バイナリ（.jpg .jpeg .png）
func (h *FoundItemsHandler) Upload(c *gin.Context) {
	key := c.Param("key")
	requestID := logging.RequestIDFrom(c)

	r := io.Reader(c.Request.Body)
	if h.maxBodySize > 0 {
		r = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodySize)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "File exceeds maximum size"})
			return
		}
		slog.Error("failed to read upload body", "request_id", requestID, "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to upload file"})
		return
	}

	if err := h.uc.Upload(c.Request.Context(), key, data, c.ContentType()); err != nil {
		status, msg := uploadError(err)
		if status == http.StatusInternalServerError {
			slog.Error("failed to upload found item", "request_id", requestID, "key", key, "error", err)
		} else {
			slog.Warn("rejected found item upload", "request_id", requestID, "key", key, "error", err)
		}
		c.JSON(status, dto.ErrorResponse{Error: msg})
		return
	}
	c.JSON(http.StatusCreated, dto.MessageResponse{Message: "ok"})
}

// Delete はキーのアイテムを削除します。
//
// エンドポイント: DELETE /found-items/*key
func (h *FoundItemsHandler) Delete(c *gin.Context) {
	key := c.Param("key")
	err := h.uc.Delete(c.Request.Context(), key)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, dto.MessageResponse{Message: fmt.Sprintf("File %s successfully deleted", strings.TrimLeft(key, "/"))})
	case errors.Is(err, domain.ErrItemNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Item not found"})
	case errors.Is(err, domain.ErrInvalidKey):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid item key"})
	default:
		slog.Error("failed to delete found item", "request_id", logging.RequestIDFrom(c), "key", key, "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to delete item"})
	}
}

func uploadError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidKey):
		return http.StatusBadRequest, "Invalid item key"
	case errors.Is(err, domain.ErrUnsupportedExtension):
		return http.StatusBadRequest, "Invalid file extension. Please upload a .jpg, .jpeg, or .png file."
	case errors.Is(err, domain.ErrEmptyFile):
		return http.StatusBadRequest, "File is empty"
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusBadRequest, "File exceeds maximum size"
	case errors.Is(err, domain.ErrItemExists):
		return http.StatusConflict, "Item already exists"
	default:
		return http.StatusInternalServerError, "Failed to upload file"
	}
}
