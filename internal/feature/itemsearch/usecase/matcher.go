package usecase

import "finditnow_backend/internal/feature/itemsearch/domain/entity"

// LabelMatcher は2つのラベル集合が同一の物を写しているかを判定します。
type LabelMatcher struct {
	threshold int
}

// NewLabelMatcher は共通ラベル数の下限 threshold を持つLabelMatcherを生成します。
// threshold が負の場合は DefaultMatchThreshold を使用します。
func NewLabelMatcher(threshold int) *LabelMatcher {
	if threshold < 0 {
		threshold = DefaultMatchThreshold
	}
	return &LabelMatcher{threshold: threshold}
}

// Threshold は判定に使用する下限値を返します。
func (m *LabelMatcher) Threshold() int {
	return m.threshold
}

// Matches は共通するラベル名の数が下限以上であれば true を返します。
// ラベル名は大文字小文字を区別して完全一致で比較します。
func (m *LabelMatcher) Matches(query, candidate entity.LabelSet) bool {
	return query.IntersectionSize(candidate) >= m.threshold
}
