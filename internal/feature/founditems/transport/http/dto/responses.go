// Package dto はfounditemsフィーチャーのHTTPレスポンス形式を定義します。
package dto

// ErrorResponse はエラー応答の本文です。
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse は成功応答の本文です。
type MessageResponse struct {
	Message string `json:"message"`
}
