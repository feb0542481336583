package usecase_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"finditnow_backend/internal/feature/itemsearch/domain/entity"
	"finditnow_backend/internal/shared/blob"
)

// ErrAPI はモックと期待値の間で共有されるセンチネルエラーです。
var ErrAPI = errors.New("api error")

// mockLabelProvider はLabelProviderインターフェースのモック実装です。
type mockLabelProvider struct {
	DetectLabelsFunc func(ctx context.Context, image []byte, opts entity.DetectOptions) ([]entity.Label, error)

	mu    sync.Mutex
	calls [][]byte
}

func (m *mockLabelProvider) DetectLabels(ctx context.Context, image []byte, opts entity.DetectOptions) ([]entity.Label, error) {
	m.mu.Lock()
	m.calls = append(m.calls, image)
	m.mu.Unlock()
	if m.DetectLabelsFunc != nil {
		return m.DetectLabelsFunc(ctx, image, opts)
	}
	return nil, errors.New("DetectLabelsFunc is not implemented")
}

func (m *mockLabelProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// labelsByImage は画像内容ごとに固定のラベルを返すプロバイダー関数を生成します。
func labelsByImage(table map[string][]entity.Label) func(ctx context.Context, image []byte, opts entity.DetectOptions) ([]entity.Label, error) {
	return func(ctx context.Context, image []byte, opts entity.DetectOptions) ([]entity.Label, error) {
		labels, ok := table[string(image)]
		if !ok {
			return nil, ErrAPI
		}
		return labels, nil
	}
}

// mockCorpus はBlobCorpusインターフェースのモック実装です。
// pages の各要素が1ページ分のキーで、blobs がキーごとの内容です。
type mockCorpus struct {
	pages   [][]string
	blobs   map[string][]byte
	listErr map[int]error // ページ番号ごとの一覧取得エラー
	getErr  map[string]error
	getFunc func(ctx context.Context, key string) ([]byte, error)
	// stuckToken が空でなければ、すべてのページがこの継続トークンを返します。
	stuckToken string

	listCalls atomic.Int32
	getCalls  atomic.Int32
}

func (m *mockCorpus) ListObjects(ctx context.Context, token string) (*blob.Page, error) {
	m.listCalls.Add(1)
	idx := 0
	if token != "" {
		for i := range m.pages {
			if pageToken(i) == token {
				idx = i
				break
			}
		}
	}
	if err, ok := m.listErr[idx]; ok {
		return nil, err
	}
	if idx >= len(m.pages) {
		return &blob.Page{}, nil
	}
	page := &blob.Page{}
	for _, k := range m.pages[idx] {
		page.Objects = append(page.Objects, blob.Object{Key: k, Size: int64(len(m.blobs[k]))})
	}
	if idx+1 < len(m.pages) {
		page.NextToken = pageToken(idx + 1)
	}
	if m.stuckToken != "" {
		page.NextToken = m.stuckToken
	}
	return page, nil
}

func (m *mockCorpus) GetObject(ctx context.Context, key string) ([]byte, error) {
	m.getCalls.Add(1)
	if m.getFunc != nil {
		return m.getFunc(ctx, key)
	}
	if err, ok := m.getErr[key]; ok {
		return nil, err
	}
	return m.blobs[key], nil
}

func pageToken(i int) string {
	return "page-" + string(rune('a'+i))
}

// mockNormalizer はImageNormalizerインターフェースのモック実装です。
type mockNormalizer struct {
	NormalizeFunc  func(image []byte) ([]byte, error)
	NormalizeCalls int
}

func (m *mockNormalizer) Normalize(image []byte) ([]byte, error) {
	m.NormalizeCalls++
	if m.NormalizeFunc != nil {
		return m.NormalizeFunc(image)
	}
	return image, nil
}

// mockScanner はScannerインターフェースのモック実装です。
type mockScanner struct {
	ScanFunc  func(ctx context.Context, query entity.LabelSet) []entity.MatchResult
	ScanCalls int
	lastQuery entity.LabelSet
}

func (m *mockScanner) Scan(ctx context.Context, query entity.LabelSet) []entity.MatchResult {
	m.ScanCalls++
	m.lastQuery = query
	if m.ScanFunc != nil {
		return m.ScanFunc(ctx, query)
	}
	return nil
}
