package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"finditnow_backend/internal/feature/itemsearch/domain/entity"
	"finditnow_backend/internal/shared/blob"
	"finditnow_backend/internal/shared/ratelimiter"
)

// errEmptyBlob は取得したオブジェクトが空だったことを表します。
var errEmptyBlob = errors.New("found image binary is empty")

// outcomeKind はアイテム1件の処理結果の種別です。
type outcomeKind int

const (
	outcomeDetected outcomeKind = iota // ラベル検出まで完了
	outcomeSkipped                     // 空のオブジェクトなど、照合対象外
	outcomeFailed                      // 取得または検出に失敗
)

// itemOutcome はアイテム1件の処理結果です。
type itemOutcome struct {
	key    string
	kind   outcomeKind
	labels []entity.Label
	err    error
}

// IndexReport はコーパス走査の集計結果です。
type IndexReport struct {
	Pages    int // 取得したページ数
	Visited  int // 処理したアイテム数（ディレクトリは含まない）
	Detected int // ラベル検出に成功したアイテム数
	Skipped  int // 空のためスキップしたアイテム数
	Failed   int // 取得または検出に失敗したアイテム数
	Aborted  bool
}

// CorpusScanner はコーパス内の画像を列挙し、ラベルを検出して照合します。
type CorpusScanner struct {
	corpus   BlobCorpus
	detector *labelDetector
	matcher  *LabelMatcher
	cfg      ScanConfig
}

// CorpusScannerがScannerを実装していることをコンパイル時に検証します。
var _ Scanner = (*CorpusScanner)(nil)

// NewCorpusScanner はCorpusScannerの新しいインスタンスを生成します。
// limiter は nil でも構いません。
func NewCorpusScanner(corpus BlobCorpus, provider LabelProvider, limiter ratelimiter.RateLimiterInterface, cfg Config) *CorpusScanner {
	cfg = cfg.withDefaults()
	return &CorpusScanner{
		corpus: corpus,
		detector: &labelDetector{
			provider:   provider,
			limiter:    limiter,
			opts:       cfg.DetectOptions(),
			maxRetries: cfg.Scan.MaxRetries,
			baseDelay:  cfg.Scan.RetryBaseDelay,
		},
		matcher: NewLabelMatcher(cfg.MatchThreshold),
		cfg:     cfg.Scan,
	}
}

// Scan はクエリのラベル集合と一致するコーパス内の画像を列挙順で返します。
// 走査中のエラーは呼び出し元に返さず、それまでに見つかった一致を返します。
func (s *CorpusScanner) Scan(ctx context.Context, query entity.LabelSet) []entity.MatchResult {
	matches := make([]entity.MatchResult, 0)
	s.walk(ctx, func(o itemOutcome) {
		if o.kind == outcomeDetected && s.matcher.Matches(query, entity.NewLabelSet(o.labels)) {
			matches = append(matches, entity.MatchResult{Key: o.key, Labels: o.labels})
		}
	})
	return matches
}

// Index はコーパス全体のラベルを検出し、照合は行わずに集計だけを返します。
// キャッシュ付きのプロバイダーと組み合わせてキャッシュの事前投入に使用します。
func (s *CorpusScanner) Index(ctx context.Context) IndexReport {
	var report IndexReport
	report.Pages, report.Aborted = s.walk(ctx, func(o itemOutcome) {
		report.Visited++
		switch o.kind {
		case outcomeDetected:
			report.Detected++
		case outcomeSkipped:
			report.Skipped++
		case outcomeFailed:
			report.Failed++
		}
	})
	return report
}

// walk はコーパスをページ単位で列挙し、各アイテムの処理結果を列挙順に visit へ渡します。
// 一覧取得の失敗、継続トークンの重複またはctxの終了で走査を打ち切り、aborted に true を返します。
func (s *CorpusScanner) walk(ctx context.Context, visit func(itemOutcome)) (pages int, aborted bool) {
	token := ""
	for {
		if err := ctx.Err(); err != nil {
			slog.Warn("corpus scan stopped", "pages", pages, "error", err)
			return pages, true
		}

		page, err := s.corpus.ListObjects(ctx, token)
		if err != nil {
			slog.Error("error listing found items, returning partial results", "pages", pages, "error", err)
			return pages, true
		}
		pages++
		if token != "" && page.NextToken == token {
			slog.Error("error listing found items, returning partial results", "pages", pages, "error", blob.ErrRepeatedToken, "token", token)
			return pages, true
		}

		stopped := s.processPage(ctx, page.Objects, visit)
		if stopped {
			slog.Warn("corpus scan stopped", "pages", pages, "error", ctx.Err())
			return pages, true
		}

		if page.NextToken == "" {
			return pages, false
		}
		if s.cfg.MaxPages > 0 && pages >= s.cfg.MaxPages {
			slog.Warn("corpus scan reached page limit, remaining items omitted", "max_pages", s.cfg.MaxPages)
			return pages, false
		}
		token = page.NextToken
	}
}

// processPage は1ページ分のアイテムを最大 Workers 件並列に処理し、列挙順に visit へ渡します。
// ctxが終了した場合は新しいアイテムの処理を開始せず、処理済みの結果だけを渡して true を返します。
func (s *CorpusScanner) processPage(ctx context.Context, objects []blob.Object, visit func(itemOutcome)) bool {
	keys := make([]string, 0, len(objects))
	for _, o := range objects {
		if blob.IsDirectoryMarker(o.Key) {
			continue
		}
		keys = append(keys, o.Key)
	}

	outcomes := make([]*itemOutcome, len(keys))
	stopped := false

	var g errgroup.Group
	g.SetLimit(s.cfg.Workers)
	for i, key := range keys {
		if ctx.Err() != nil {
			stopped = true
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			o := s.processItem(ctx, key)
			outcomes[i] = &o
			return nil
		})
	}
	_ = g.Wait()
	stopped = stopped || ctx.Err() != nil

	for _, o := range outcomes {
		if o == nil {
			continue
		}
		switch o.kind {
		case outcomeSkipped:
			slog.Error("skipping found item", "key", o.key, "reason", o.err)
		case outcomeFailed:
			slog.Error("failed to process found item, skipping", "key", o.key, "error", o.err)
		}
		visit(*o)
	}
	return stopped
}

// processItem はアイテム1件を取得してラベルを検出します。
func (s *CorpusScanner) processItem(ctx context.Context, key string) itemOutcome {
	itemCtx, cancel := context.WithTimeout(ctx, s.cfg.ItemTimeout)
	defer cancel()

	data, err := s.corpus.GetObject(itemCtx, key)
	if err != nil {
		return itemOutcome{key: key, kind: outcomeFailed, err: fmt.Errorf("get object: %w", err)}
	}
	if len(data) == 0 {
		return itemOutcome{key: key, kind: outcomeSkipped, err: errEmptyBlob}
	}

	labels, err := s.detector.detect(itemCtx, data)
	if err != nil {
		return itemOutcome{key: key, kind: outcomeFailed, err: fmt.Errorf("detect labels: %w", err)}
	}
	return itemOutcome{key: key, kind: outcomeDetected, labels: labels}
}
