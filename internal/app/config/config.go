// Package config は環境変数からアプリケーション設定を組み立てます。
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"finditnow_backend/internal/feature/itemsearch/usecase"
	"finditnow_backend/internal/platform/env"
	"finditnow_backend/internal/platform/objectstore"
	"finditnow_backend/internal/platform/redis"
)

// ラベルプロバイダーの識別子です。
const (
	ProviderRekognition = "rekognition"
	ProviderVision      = "vision"
	ProviderGemini      = "gemini"
)

// ErrUnknownProvider は LABEL_PROVIDER が既知の値でない場合に返されます。
var ErrUnknownProvider = errors.New("unknown label provider")

// ServerConfig はHTTPサーバーの設定です。
type ServerConfig struct {
	Port            string
	RequestTimeout  time.Duration
	MaxBodySize     int64
	ShutdownTimeout time.Duration
}

// ProviderConfig はラベルプロバイダーの選択と呼び出し制御の設定です。
type ProviderConfig struct {
	Name         string
	GeminiModel  string
	RateLimit    int
	RateInterval time.Duration
	CacheTTL     time.Duration
}

// AWSConfig はAWS SDKの設定です。
type AWSConfig struct {
	Region      string
	HTTPTimeout time.Duration
}

// LogConfig はロガーの設定です。
type LogConfig struct {
	Level  string
	Format string
}

// Config はアプリケーション全体の設定です。
type Config struct {
	Server      ServerConfig
	Provider    ProviderConfig
	Search      usecase.Config
	JPEGQuality int
	// MaxImagePixels はデコードを許可する画素数の上限です。
	MaxImagePixels int
	AWS            AWSConfig
	Store          objectstore.Config
	Redis          redis.Config
	Log            LogConfig
}

// Load は環境変数から設定を読み込み、検証します。
// .env の読み込みは呼び出し側で env.Load を使って行います。
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Port:            env.String("SERVER_PORT", "8080"),
			RequestTimeout:  env.Duration("REQUEST_TIMEOUT", 60*time.Second),
			MaxBodySize:     env.Int64("MAX_BODY_SIZE", 16*1024*1024),
			ShutdownTimeout: env.Duration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Provider: ProviderConfig{
			Name:         strings.ToLower(env.String("LABEL_PROVIDER", ProviderRekognition)),
			GeminiModel:  env.String("GEMINI_MODEL", "gemini-2.5-flash"),
			RateLimit:    env.Int("PROVIDER_RATE_LIMIT", 0),
			RateInterval: env.Duration("PROVIDER_RATE_INTERVAL", time.Second),
			CacheTTL:     env.Duration("LABEL_CACHE_TTL", 0),
		},
		Search: usecase.Config{
			MatchThreshold: env.Int("MATCH_THRESHOLD", usecase.DefaultMatchThreshold),
			MaxLabels:      env.Int("LABEL_MAX_LABELS", usecase.DefaultMaxLabels),
			MinConfidence:  float32(env.Float("LABEL_MIN_CONFIDENCE", usecase.DefaultMinConfidence)),
			MaxImageSize:   env.Int("MAX_IMAGE_SIZE", usecase.DefaultMaxImageSize),
			QueryTimeout:   env.Duration("QUERY_DETECT_TIMEOUT", usecase.DefaultQueryTimeout),
			Scan: usecase.ScanConfig{
				Workers:        env.Int("SCAN_WORKERS", usecase.DefaultWorkers),
				ItemTimeout:    env.Duration("SCAN_ITEM_TIMEOUT", usecase.DefaultItemTimeout),
				MaxPages:       env.Int("SCAN_MAX_PAGES", 0),
				MaxRetries:     env.Int("SCAN_MAX_RETRIES", usecase.DefaultMaxRetries),
				RetryBaseDelay: env.Duration("SCAN_RETRY_BASE_DELAY", usecase.DefaultRetryBaseDelay),
			},
		},
		JPEGQuality:    env.Int("JPEG_QUALITY", 75),
		MaxImagePixels: env.Int("MAX_IMAGE_PIXELS", 50_000_000),
		AWS: AWSConfig{
			Region:      env.String("AWS_REGION", "us-east-1"),
			HTTPTimeout: env.Duration("AWS_HTTP_TIMEOUT", 30*time.Second),
		},
		Store: objectstore.Config{
			Bucket:       env.String("CORPUS_BUCKET", "found-items"),
			PageSize:     int32(env.Int("S3_PAGE_SIZE", objectstore.DefaultPageSize)),
			Endpoint:     env.String("S3_ENDPOINT", ""),
			UsePathStyle: env.Bool("S3_USE_PATH_STYLE", false),
		},
		Redis: redis.Config{
			Host:     env.String("REDIS_HOST", ""),
			Port:     env.String("REDIS_PORT", "6379"),
			Password: env.String("REDIS_PASSWORD", ""),
		},
		Log: LogConfig{
			Level:  env.String("LOG_LEVEL", "info"),
			Format: env.String("LOG_FORMAT", "json"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate は起動を継続できない設定を検出します。
func (c Config) Validate() error {
	switch c.Provider.Name {
	case ProviderRekognition, ProviderVision, ProviderGemini:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownProvider, c.Provider.Name)
	}
	if c.Store.Bucket == "" {
		return errors.New("CORPUS_BUCKET must not be empty")
	}
	if c.Server.MaxBodySize <= 0 {
		return errors.New("MAX_BODY_SIZE must be positive")
	}
	return nil
}
