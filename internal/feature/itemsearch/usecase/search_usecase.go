package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"finditnow_backend/internal/feature/itemsearch/domain"
	"finditnow_backend/internal/feature/itemsearch/domain/entity"
	"finditnow_backend/internal/shared/ratelimiter"
)

// SearchUsecase はアップロードされた画像に一致する落とし物を検索します。
type SearchUsecase struct {
	normalizer ImageNormalizer
	detector   *labelDetector
	scanner    Scanner
	cfg        Config
}

// NewSearchUsecase はSearchUsecaseの新しいインスタンスを生成します。
// limiter は nil でも構いません。
func NewSearchUsecase(normalizer ImageNormalizer, provider LabelProvider, scanner Scanner, limiter ratelimiter.RateLimiterInterface, cfg Config) *SearchUsecase {
	cfg = cfg.withDefaults()
	return &SearchUsecase{
		normalizer: normalizer,
		detector: &labelDetector{
			provider:   provider,
			limiter:    limiter,
			opts:       cfg.DetectOptions(),
			maxRetries: cfg.Scan.MaxRetries,
			baseDelay:  cfg.Scan.RetryBaseDelay,
		},
		scanner: scanner,
		cfg:     cfg,
	}
}

// Search はbase64エンコードされた画像を受け取り、コーパス内の一致する画像を列挙順で返します。
// 失敗時は *SearchError を返します。入力に起因するエラーは domain.IsClientInput で判別できます。
func (u *SearchUsecase) Search(ctx context.Context, body []byte) ([]entity.MatchResult, error) {
	image, err := DecodeBody(body)
	if err != nil {
		return nil, newSearchError(StageReceived, err)
	}
	if len(image) > u.cfg.MaxImageSize {
		return nil, newSearchError(StageDecoded,
			fmt.Errorf("%w: %d bytes (max %d)", domain.ErrImageTooLarge, len(image), u.cfg.MaxImageSize))
	}

	normalized, err := u.normalizer.Normalize(image)
	if err != nil {
		return nil, newSearchError(StageDecoded, err)
	}
	if len(normalized) == 0 {
		return nil, newSearchError(StageDecoded, domain.ErrEmptyNormalizedImage)
	}

	slog.Info("detecting labels in the uploaded image", "bytes", len(normalized))
	labels, err := u.detectQuery(ctx, normalized)
	if err != nil {
		return nil, newSearchError(StageNormalized, fmt.Errorf("%w: %w", domain.ErrLabelDetection, err))
	}
	query := entity.NewLabelSet(labels)

	slog.Info("comparing with found items", "labels", query.Len())
	matches := u.scanner.Scan(ctx, query)
	if matches == nil {
		matches = make([]entity.MatchResult, 0)
	}
	slog.Info("search completed", "matches", len(matches))
	return matches, nil
}

func (u *SearchUsecase) detectQuery(ctx context.Context, image []byte) ([]entity.Label, error) {
	ctx, cancel := context.WithTimeout(ctx, u.cfg.QueryTimeout)
	defer cancel()
	return u.detector.detect(ctx, image)
}
