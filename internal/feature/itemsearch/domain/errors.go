// Package domain はitemsearchフィーチャーのドメインエラーを定義します。
package domain

import "errors"

// クライアント入力に起因するエラーです。ハンドラーは400として扱います。
var (
	// ErrInvalidEncoding はリクエストボディがbase64としてデコードできないことを表します。
	ErrInvalidEncoding = errors.New("invalid base64 image data")

	// ErrEmptyImage はデコード後の画像データが空であることを表します。
	ErrEmptyImage = errors.New("received empty image data")

	// ErrImageTooLarge は画像サイズが上限を超えていることを表します。
	ErrImageTooLarge = errors.New("image exceeds maximum size")

	// ErrUnsupportedImage は画像としてデコードできないことを表します。
	ErrUnsupportedImage = errors.New("unsupported image format")

	// ErrEmptyNormalizedImage は正規化後の画像データが空であることを表します。
	ErrEmptyNormalizedImage = errors.New("processed image binary is empty")
)

var (
	// ErrLabelDetection はクエリ画像のラベル検出に失敗したことを表します。
	ErrLabelDetection = errors.New("label detection failed")

	// ErrThrottled はラベルプロバイダーがスロットリングを返したことを表します。
	// アダプターはプロバイダー固有のエラーをこのエラーでラップして返します。
	ErrThrottled = errors.New("label provider throttled")
)

var clientInputErrors = []error{
	ErrInvalidEncoding,
	ErrEmptyImage,
	ErrImageTooLarge,
	ErrUnsupportedImage,
	ErrEmptyNormalizedImage,
}

// IsClientInput はerrがクライアント入力エラーかどうかを返します。
func IsClientInput(err error) bool {
	for _, target := range clientInputErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
