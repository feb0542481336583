// Package dto はitemsearchフィーチャーのHTTPレスポンス形式を定義します。
package dto

import "finditnow_backend/internal/feature/itemsearch/domain/entity"

// LabelResponse は一致した画像の1ラベルです。
type LabelResponse struct {
	Label      string  `json:"Label"`
	Confidence float32 `json:"Confidence"`
}

// MatchResponse は一致した1つのコーパス画像です。
type MatchResponse struct {
	Image  string          `json:"Image"`
	Labels []LabelResponse `json:"Labels"`
}

// NewMatchResponses はドメインの一致結果をレスポンス形式に変換します。
// 結果が0件でも空の配列を返します。
func NewMatchResponses(matches []entity.MatchResult) []MatchResponse {
	out := make([]MatchResponse, 0, len(matches))
	for _, m := range matches {
		labels := make([]LabelResponse, 0, len(m.Labels))
		for _, l := range m.Labels {
			labels = append(labels, LabelResponse{Label: l.Name, Confidence: l.Confidence})
		}
		out = append(out, MatchResponse{Image: m.Key, Labels: labels})
	}
	return out
}
