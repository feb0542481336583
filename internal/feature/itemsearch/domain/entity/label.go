// Package entity はitemsearchフィーチャーのドメインモデルを定義します。
package entity

// Label は画像から検出されたラベル1件を表します。
type Label struct {
	Name       string  // ラベル名（プロバイダーが返した表記のまま）
	Confidence float32 // 信頼度（0 ~ 100）
}

// DetectOptions はラベル検出時にプロバイダーへ渡すパラメータです。
type DetectOptions struct {
	MaxLabels     int     // 返却するラベルの最大件数
	MinConfidence float32 // 返却するラベルの最小信頼度（0 ~ 100）
}

// LabelSet はラベル名の集合です。信頼度は比較に使用しません。
type LabelSet map[string]struct{}

// NewLabelSet はラベル列から名前の集合を生成します。
func NewLabelSet(labels []Label) LabelSet {
	s := make(LabelSet, len(labels))
	for _, l := range labels {
		s[l.Name] = struct{}{}
	}
	return s
}

// Len は集合の要素数を返します。
func (s LabelSet) Len() int {
	return len(s)
}

// Contains は名前が集合に含まれるかどうかを返します。
func (s LabelSet) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

// IntersectionSize は2つの集合に共通する名前の数を返します。
func (s LabelSet) IntersectionSize(other LabelSet) int {
	small, large := s, other
	if len(small) > len(large) {
		small, large = large, small
	}
	n := 0
	for name := range small {
		if large.Contains(name) {
			n++
		}
	}
	return n
}
