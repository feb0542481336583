// Package cache はラベルプロバイダーのキャッシュ実装を提供します。
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"finditnow_backend/internal/feature/itemsearch/domain/entity"
	"finditnow_backend/internal/feature/itemsearch/usecase"
)

// DefaultNamespace はキャッシュキーの既定のプレフィックスです。
const DefaultNamespace = "labels"

// scanCount はSCAN 1回あたりのヒント件数です。
const scanCount = 200

// CachingLabelProvider はLabelProviderをRedisキャッシュでデコレートします。
// キーは画像内容のSHA-256と検出オプションから作られるため、同じ画像は何度でも同じ結果を返します。
type CachingLabelProvider struct {
	inner     usecase.LabelProvider
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

// CachingLabelProviderがLabelProviderを実装していることをコンパイル時に検証します。
var _ usecase.LabelProvider = (*CachingLabelProvider)(nil)

// NewCachingLabelProvider はLabelProviderをRedisキャッシュでデコレートします。
// rdb が nil または ttl が 0 以下の場合、キャッシュは無効になり inner をそのまま呼び出します。
func NewCachingLabelProvider(rdb *redis.Client, ttl time.Duration, inner usecase.LabelProvider, namespace string) *CachingLabelProvider {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &CachingLabelProvider{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Enabled はキャッシュが有効かどうかを返します。
func (c *CachingLabelProvider) Enabled() bool {
	return c.rdb != nil && c.ttl > 0
}

// DetectLabels はキャッシュを確認し、ミスした場合にのみ inner を呼び出します。
// 検出エラーはキャッシュしません。
func (c *CachingLabelProvider) DetectLabels(ctx context.Context, image []byte, opts entity.DetectOptions) ([]entity.Label, error) {
	if !c.Enabled() {
		return c.inner.DetectLabels(ctx, image, opts)
	}

	key := c.cacheKey(image, opts)

	// 1) キャッシュを確認
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.Label
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// 壊れたエントリは削除
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) プロバイダーへフォールバック
	out, err := c.inner.DetectLabels(ctx, image, opts)
	if err != nil {
		return nil, err
	}

	// 3) ベストエフォートで保存
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

// Purge は名前空間内のすべてのキャッシュエントリを削除し、削除件数を返します。
func (c *CachingLabelProvider) Purge(ctx context.Context) (int, error) {
	if c.rdb == nil {
		return 0, nil
	}
	return c.deleteByPattern(ctx, c.namespace+":*")
}

// cacheKey は画像と検出オプションからキャッシュキーを生成します。
func (c *CachingLabelProvider) cacheKey(image []byte, opts entity.DetectOptions) string {
	sum := sha256.Sum256(image)
	return fmt.Sprintf("%s:%s:%d:%s",
		c.namespace,
		hex.EncodeToString(sum[:]),
		opts.MaxLabels,
		strconv.FormatFloat(float64(opts.MinConfidence), 'f', -1, 32),
	)
}

// deleteByPattern はSCANでパターンに一致するキーをすべて削除します。
func (c *CachingLabelProvider) deleteByPattern(ctx context.Context, pattern string) (int, error) {
	var (
		cursor  uint64
		deleted int
	)
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, scanCount).Result()
		if err != nil {
			return deleted, err
		}
		if len(keys) > 0 {
			n, err := c.rdb.Del(ctx, keys...).Result()
			if err != nil {
				return deleted, err
			}
			deleted += int(n)
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return deleted, nil
}
