package di

import (
	"finditnow_backend/internal/app/config"
	"finditnow_backend/internal/feature/itemsearch/adapters/imaging"
	"finditnow_backend/internal/feature/itemsearch/transport/handler"
	"finditnow_backend/internal/feature/itemsearch/usecase"
	"finditnow_backend/internal/shared/ratelimiter"
)

// NewProviderLimiter はプロバイダー呼び出しのレートリミッターを生成します。
// PROVIDER_RATE_LIMIT が0の場合は制限しません。
func NewProviderLimiter(cfg config.Config) ratelimiter.RateLimiterInterface {
	return ratelimiter.NewRateLimiter(cfg.Provider.RateLimit, cfg.Provider.RateInterval)
}

// NewCorpusScanner はコーパス走査を生成します。
func NewCorpusScanner(cfg config.Config, corpus usecase.BlobCorpus, provider usecase.LabelProvider, limiter ratelimiter.RateLimiterInterface) *usecase.CorpusScanner {
	return usecase.NewCorpusScanner(corpus, provider, limiter, cfg.Search)
}

// NewSearchHandler は検索エンドポイントのハンドラーを依存関係ごと組み立てます。
// クエリ画像とコーパスの検出は同じリミッターを共有します。
func NewSearchHandler(cfg config.Config, corpus usecase.BlobCorpus, provider usecase.LabelProvider) *handler.SearchHandler {
	limiter := NewProviderLimiter(cfg)
	scanner := NewCorpusScanner(cfg, corpus, provider, limiter)
	uc := usecase.NewSearchUsecase(imaging.NewJPEGNormalizer(cfg.JPEGQuality, cfg.MaxImagePixels), provider, scanner, limiter, cfg.Search)
	return handler.NewSearchHandler(uc, cfg.Server.RequestTimeout, cfg.Server.MaxBodySize)
}
