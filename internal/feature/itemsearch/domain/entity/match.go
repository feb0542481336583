package entity

// MatchResult はクエリ画像と一致すると判定されたコーパス内の画像です。
type MatchResult struct {
	Key    string  // コーパス内のオブジェクトキー
	Labels []Label // その画像自身の検出ラベル（信頼度付き）
}
