// Package usecase は落とし物コーパスの管理ユースケースを提供します。
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"finditnow_backend/internal/feature/founditems/domain"
	"finditnow_backend/internal/shared/blob"
)

// DefaultMaxFileSize はアップロードできるファイルサイズの既定の上限です。
const DefaultMaxFileSize = 10 * 1024 * 1024

// allowedExtensions はアップロードを受け付ける拡張子とContent-Typeです。
var allowedExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// ObjectStore は落とし物画像を保存するストアです。
type ObjectStore interface {
	ListObjects(ctx context.Context, continuationToken string) (*blob.Page, error)
	PutObject(ctx context.Context, key string, data []byte, contentType string) error
	DeleteObject(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// FoundItemsUsecase は落とし物画像の一覧・登録・削除を扱います。
type FoundItemsUsecase struct {
	store       ObjectStore
	maxFileSize int
}

// NewFoundItemsUsecase はFoundItemsUsecaseの新しいインスタンスを生成します。
// maxFileSize が0以下の場合は DefaultMaxFileSize を使用します。
func NewFoundItemsUsecase(store ObjectStore, maxFileSize int) *FoundItemsUsecase {
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}
	return &FoundItemsUsecase{store: store, maxFileSize: maxFileSize}
}

// List はすべてのページを辿り、ディレクトリマーカーを除いたキーを列挙順で返します。
// ストアが同じ継続トークンを返し続けた場合は blob.ErrRepeatedToken を返します。
func (u *FoundItemsUsecase) List(ctx context.Context) ([]string, error) {
	keys := make([]string, 0)
	token := ""
	for {
		page, err := u.store.ListObjects(ctx, token)
		if err != nil {
			return nil, fmt.Errorf("failed to list found items: %w", err)
		}
		for _, obj := range page.Objects {
			if blob.IsDirectoryMarker(obj.Key) {
				continue
			}
			keys = append(keys, obj.Key)
		}
		if page.NextToken == "" {
			return keys, nil
		}
		if page.NextToken == token {
			return nil, fmt.Errorf("failed to list found items after %q: %w", token, blob.ErrRepeatedToken)
		}
		token = page.NextToken
	}
}

// Upload は画像を検証してストアに保存します。
// contentType が空の場合は拡張子から決定します。既存のキーは上書きしません。
func (u *FoundItemsUsecase) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	key, err := normalizeKey(key)
	if err != nil {
		return err
	}
	ext := strings.ToLower(path.Ext(key))
	defaultType, ok := allowedExtensions[ext]
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrUnsupportedExtension, ext)
	}
	if len(data) == 0 {
		return domain.ErrEmptyFile
	}
	if len(data) > u.maxFileSize {
		return fmt.Errorf("%w: %d bytes (max %d)", domain.ErrFileTooLarge, len(data), u.maxFileSize)
	}

	exists, err := u.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to check item %s: %w", key, err)
	}
	if exists {
		return fmt.Errorf("%w: %s", domain.ErrItemExists, key)
	}

	if contentType == "" || contentType == "application/octet-stream" {
		contentType = defaultType
	}
	if err := u.store.PutObject(ctx, key, data, contentType); err != nil {
		return fmt.Errorf("failed to upload item %s: %w", key, err)
	}
	slog.Info("found item uploaded", "key", key, "bytes", len(data))
	return nil
}

// Delete はアイテムを削除します。存在しない場合は domain.ErrItemNotFound を返します。
func (u *FoundItemsUsecase) Delete(ctx context.Context, key string) error {
	key, err := normalizeKey(key)
	if err != nil {
		return err
	}
	exists, err := u.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to check item %s: %w", key, err)
	}
	if !exists {
		return fmt.Errorf("%w: %s", domain.ErrItemNotFound, key)
	}
	if err := u.store.DeleteObject(ctx, key); err != nil {
		return fmt.Errorf("failed to delete item %s: %w", key, err)
	}
	slog.Info("found item deleted", "key", key)
	return nil
}

// normalizeKey は先頭のスラッシュを取り除き、キーとして使えるかを検証します。
func normalizeKey(key string) (string, error) {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if key == "" || blob.IsDirectoryMarker(key) {
		return "", domain.ErrInvalidKey
	}
	for _, segment := range strings.Split(key, "/") {
		if segment == ".." || segment == "." || segment == "" {
			return "", fmt.Errorf("%w: %q", domain.ErrInvalidKey, key)
		}
	}
	return key, nil
}
