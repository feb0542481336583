// Package domain はfounditemsフィーチャーのドメインエラーを定義します。
package domain

import "errors"

var (
	// ErrInvalidKey はキーが空、ディレクトリ、またはパストラバーサルを含むことを表します。
	ErrInvalidKey = errors.New("invalid item key")

	// ErrUnsupportedExtension は拡張子が .jpg .jpeg .png のいずれでもないことを表します。
	ErrUnsupportedExtension = errors.New("unsupported file extension")

	// ErrEmptyFile はアップロードされたファイルが空であることを表します。
	ErrEmptyFile = errors.New("file is empty")

	// ErrFileTooLarge はファイルサイズが上限を超えていることを表します。
	ErrFileTooLarge = errors.New("file exceeds maximum size")

	// ErrItemExists は同じキーのアイテムが既に存在することを表します。
	ErrItemExists = errors.New("item already exists")

	// ErrItemNotFound はアイテムが存在しないことを表します。
	ErrItemNotFound = errors.New("item not found")
)
