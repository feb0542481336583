package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finditnow_backend/internal/feature/itemsearch/domain/entity"
)

// mockLabelProvider はテスト用のLabelProviderモック実装です。
type mockLabelProvider struct {
	detectFn func(ctx context.Context, image []byte, opts entity.DetectOptions) ([]entity.Label, error)
	calls    int
}

func (m *mockLabelProvider) DetectLabels(ctx context.Context, image []byte, opts entity.DetectOptions) ([]entity.Label, error) {
	m.calls++
	if m.detectFn != nil {
		return m.detectFn(ctx, image, opts)
	}
	return nil, nil
}

var testOpts = entity.DetectOptions{MaxLabels: 15, MinConfidence: 70}

func keyFor(image string) string {
	sum := sha256.Sum256([]byte(image))
	return "labels:" + hex.EncodeToString(sum[:]) + ":15:70"
}

func TestNewCachingLabelProvider_Defaults(t *testing.T) {
	t.Parallel()

	p := NewCachingLabelProvider(nil, time.Hour, &mockLabelProvider{}, "")
	assert.Equal(t, DefaultNamespace, p.namespace)
	assert.False(t, p.Enabled())

	rdb, _ := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()
	assert.False(t, NewCachingLabelProvider(rdb, 0, &mockLabelProvider{}, "").Enabled())
	assert.True(t, NewCachingLabelProvider(rdb, time.Hour, &mockLabelProvider{}, "").Enabled())
}

func TestCachingLabelProvider_CacheKey(t *testing.T) {
	t.Parallel()

	p := NewCachingLabelProvider(nil, time.Hour, &mockLabelProvider{}, "")
	assert.Equal(t, keyFor("jpeg"), p.cacheKey([]byte("jpeg"), testOpts))
	assert.NotEqual(t, p.cacheKey([]byte("jpeg"), testOpts), p.cacheKey([]byte("jpeg"), entity.DetectOptions{MaxLabels: 5, MinConfidence: 70}))
	assert.Equal(t, keyFor("jpeg")[:len(keyFor("jpeg"))-len("70")]+"72.5",
		p.cacheKey([]byte("jpeg"), entity.DetectOptions{MaxLabels: 15, MinConfidence: 72.5}))
}

func TestCachingLabelProvider_DetectLabels_CacheHit(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	cached := []entity.Label{{Name: "Umbrella", Confidence: 95}}
	cachedJSON, _ := json.Marshal(cached)
	mock.ExpectGet(keyFor("jpeg")).SetVal(string(cachedJSON))

	inner := &mockLabelProvider{}
	p := NewCachingLabelProvider(rdb, time.Hour, inner, "")

	labels, err := p.DetectLabels(context.Background(), []byte("jpeg"), testOpts)

	require.NoError(t, err)
	assert.Equal(t, cached, labels)
	assert.Equal(t, 0, inner.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachingLabelProvider_DetectLabels_CacheMiss(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	detected := []entity.Label{{Name: "Wallet", Confidence: 88}}
	detectedJSON, _ := json.Marshal(detected)
	mock.ExpectGet(keyFor("jpeg")).RedisNil()
	mock.ExpectSet(keyFor("jpeg"), detectedJSON, time.Hour).SetVal("OK")

	inner := &mockLabelProvider{
		detectFn: func(ctx context.Context, image []byte, opts entity.DetectOptions) ([]entity.Label, error) {
			return detected, nil
		},
	}
	p := NewCachingLabelProvider(rdb, time.Hour, inner, "")

	labels, err := p.DetectLabels(context.Background(), []byte("jpeg"), testOpts)

	require.NoError(t, err)
	assert.Equal(t, detected, labels)
	assert.Equal(t, 1, inner.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachingLabelProvider_DetectLabels_CorruptedEntry(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	detected := []entity.Label{{Name: "Key", Confidence: 91}}
	detectedJSON, _ := json.Marshal(detected)
	mock.ExpectGet(keyFor("jpeg")).SetVal("not json")
	mock.ExpectDel(keyFor("jpeg")).SetVal(1)
	mock.ExpectSet(keyFor("jpeg"), detectedJSON, time.Hour).SetVal("OK")

	inner := &mockLabelProvider{
		detectFn: func(ctx context.Context, image []byte, opts entity.DetectOptions) ([]entity.Label, error) {
			return detected, nil
		},
	}
	p := NewCachingLabelProvider(rdb, time.Hour, inner, "")

	labels, err := p.DetectLabels(context.Background(), []byte("jpeg"), testOpts)

	require.NoError(t, err)
	assert.Equal(t, detected, labels)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachingLabelProvider_DetectLabels_ErrorNotCached(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectGet(keyFor("jpeg")).RedisNil()

	errAPI := errors.New("provider down")
	inner := &mockLabelProvider{
		detectFn: func(ctx context.Context, image []byte, opts entity.DetectOptions) ([]entity.Label, error) {
			return nil, errAPI
		},
	}
	p := NewCachingLabelProvider(rdb, time.Hour, inner, "")

	_, err := p.DetectLabels(context.Background(), []byte("jpeg"), testOpts)

	assert.ErrorIs(t, err, errAPI)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachingLabelProvider_DetectLabels_Bypass(t *testing.T) {
	t.Parallel()

	inner := &mockLabelProvider{
		detectFn: func(ctx context.Context, image []byte, opts entity.DetectOptions) ([]entity.Label, error) {
			return []entity.Label{{Name: "Bag", Confidence: 80}}, nil
		},
	}
	p := NewCachingLabelProvider(nil, time.Hour, inner, "")

	for i := 0; i < 2; i++ {
		_, err := p.DetectLabels(context.Background(), []byte("jpeg"), testOpts)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, inner.calls)
}

func TestCachingLabelProvider_Purge(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectScan(0, "labels:*", 200).SetVal([]string{"labels:a", "labels:b"}, 7)
	mock.ExpectDel("labels:a", "labels:b").SetVal(2)
	mock.ExpectScan(7, "labels:*", 200).SetVal([]string{"labels:c"}, 0)
	mock.ExpectDel("labels:c").SetVal(1)

	p := NewCachingLabelProvider(rdb, time.Hour, &mockLabelProvider{}, "")
	n, err := p.Purge(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachingLabelProvider_Purge_NoClient(t *testing.T) {
	t.Parallel()

	n, err := NewCachingLabelProvider(nil, time.Hour, &mockLabelProvider{}, "").Purge(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
