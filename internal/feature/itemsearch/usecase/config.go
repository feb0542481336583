package usecase

import (
	"time"

	"finditnow_backend/internal/feature/itemsearch/domain/entity"
)

// デフォルト値です。
const (
	DefaultMatchThreshold = 2
	DefaultMaxLabels      = 15
	DefaultMinConfidence  = 70.0
	DefaultMaxImageSize   = 10 * 1024 * 1024
	DefaultQueryTimeout   = 15 * time.Second
	DefaultItemTimeout    = 15 * time.Second
	DefaultWorkers        = 1
	DefaultMaxRetries     = 3
	DefaultRetryBaseDelay = 200 * time.Millisecond
	maxRetryDelay         = 5 * time.Second
	unlimitedPages        = 0
)

// Config はitemsearchフィーチャーの動作パラメータです。
type Config struct {
	MatchThreshold int     // 一致と判定する共通ラベル数の下限
	MaxLabels      int     // プロバイダーに要求する最大ラベル数
	MinConfidence  float32 // プロバイダーに要求する最小信頼度
	MaxImageSize   int     // デコード後の画像サイズ上限（バイト）

	QueryTimeout time.Duration // クエリ画像のラベル検出のタイムアウト
	Scan         ScanConfig
}

// ScanConfig はコーパス走査のパラメータです。
type ScanConfig struct {
	Workers        int           // 並列に処理するアイテム数（1で逐次処理）
	ItemTimeout    time.Duration // アイテム1件の取得と検出のタイムアウト
	MaxPages       int           // 走査する最大ページ数（0で全ページ）
	MaxRetries     int           // スロットリング時の再試行回数
	RetryBaseDelay time.Duration // 再試行の初回待機時間（以降は倍々）
}

// DefaultConfig はデフォルト値で埋めたConfigを返します。
func DefaultConfig() Config {
	return Config{
		MatchThreshold: DefaultMatchThreshold,
		MaxLabels:      DefaultMaxLabels,
		MinConfidence:  DefaultMinConfidence,
		MaxImageSize:   DefaultMaxImageSize,
		QueryTimeout:   DefaultQueryTimeout,
		Scan: ScanConfig{
			Workers:        DefaultWorkers,
			ItemTimeout:    DefaultItemTimeout,
			MaxPages:       unlimitedPages,
			MaxRetries:     DefaultMaxRetries,
			RetryBaseDelay: DefaultRetryBaseDelay,
		},
	}
}

// withDefaults は未設定（ゼロ値または不正値）の項目をデフォルト値で補います。
// MatchThreshold と MaxPages は0が有効な値のため、負の場合のみ補います。
func (c Config) withDefaults() Config {
	if c.MatchThreshold < 0 {
		c.MatchThreshold = DefaultMatchThreshold
	}
	if c.MaxLabels <= 0 {
		c.MaxLabels = DefaultMaxLabels
	}
	if c.MinConfidence < 0 || c.MinConfidence > 100 {
		c.MinConfidence = DefaultMinConfidence
	}
	if c.MaxImageSize <= 0 {
		c.MaxImageSize = DefaultMaxImageSize
	}
	if c.QueryTimeout <= 0 {
		c.QueryTimeout = DefaultQueryTimeout
	}
	c.Scan = c.Scan.withDefaults()
	return c
}

func (c ScanConfig) withDefaults() ScanConfig {
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	if c.ItemTimeout <= 0 {
		c.ItemTimeout = DefaultItemTimeout
	}
	if c.MaxPages < 0 {
		c.MaxPages = unlimitedPages
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.RetryBaseDelay <= 0 {
		c.RetryBaseDelay = DefaultRetryBaseDelay
	}
	return c
}

// DetectOptions はプロバイダーに渡す検出パラメータを返します。
func (c Config) DetectOptions() entity.DetectOptions {
	return entity.DetectOptions{MaxLabels: c.MaxLabels, MinConfidence: c.MinConfidence}
}
