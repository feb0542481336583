// Package usecase はitemsearchフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"

	"finditnow_backend/internal/feature/itemsearch/domain/entity"
	"finditnow_backend/internal/shared/blob"
)

// LabelProvider は画像からラベルを検出する外部サービスのインターフェースです。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type LabelProvider interface {
	// DetectLabels は画像バイト列からラベルを検出します。
	// 返却値は最大 opts.MaxLabels 件で、各ラベルの信頼度は opts.MinConfidence 以上です。
	DetectLabels(ctx context.Context, image []byte, opts entity.DetectOptions) ([]entity.Label, error)
}

// BlobCorpus は照合対象の画像を保持するオブジェクトストアのインターフェースです。
// このフィーチャーからは読み取り専用で利用します。
type BlobCorpus interface {
	// ListObjects は continuationToken から始まる1ページ分のオブジェクトを返します。
	// 最初のページは空文字列で取得します。
	ListObjects(ctx context.Context, continuationToken string) (*blob.Page, error)
	// GetObject はキーに対応するオブジェクトの内容を返します。空の内容はエラーではありません。
	GetObject(ctx context.Context, key string) ([]byte, error)
}

// ImageNormalizer は画像を検出用の標準フォーマットに変換します。
type ImageNormalizer interface {
	// Normalize は画像をデコードし、透過チャンネルを除去したうえで再エンコードします。
	Normalize(image []byte) ([]byte, error)
}

// Scanner はクエリのラベル集合でコーパス全体を照合します。
type Scanner interface {
	Scan(ctx context.Context, query entity.LabelSet) []entity.MatchResult
}
