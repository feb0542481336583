// Package blob はキーで参照されるオブジェクトストアの共通型を定義します。
package blob

import (
	"errors"
	"strings"
)

// ErrObjectNotFound は指定キーのオブジェクトが存在しないことを表します。
var ErrObjectNotFound = errors.New("object not found")

// ErrRepeatedToken は一覧取得が直前と同じ継続トークンを返したことを表します。
var ErrRepeatedToken = errors.New("continuation token repeated")

// Object はストア内の1オブジェクトを表します。
type Object struct {
	Key  string // オブジェクトキー
	Size int64  // バイトサイズ（不明な場合は0）
}

// Page は一覧取得1回分の結果です。
// NextToken が空の場合は最終ページです。
type Page struct {
	Objects   []Object
	NextToken string
}

// IsDirectoryMarker はキーがディレクトリ扱いのエントリ（末尾が"/"）かどうかを返します。
func IsDirectoryMarker(key string) bool {
	return strings.HasSuffix(key, "/")
}
