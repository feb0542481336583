package usecase

import "fmt"

// Stage は検索リクエストの処理段階です。
type Stage int

const (
	StageReceived Stage = iota
	StageDecoded
	StageNormalized
	StageLabeled
	StageScanned
)

func (s Stage) String() string {
	switch s {
	case StageReceived:
		return "received"
	case StageDecoded:
		return "decoded"
	case StageNormalized:
		return "normalized"
	case StageLabeled:
		return "labeled"
	case StageScanned:
		return "scanned"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// SearchError は検索が失敗した段階とその原因を保持します。
// Stage は失敗が発生した時点で完了していた最後の段階です。
type SearchError struct {
	Stage Stage
	Err   error
}

// Error はerrorインターフェースを実装します。
func (e *SearchError) Error() string {
	if e == nil || e.Err == nil {
		return ""
	}
	return fmt.Sprintf("search failed after %s: %v", e.Stage, e.Err)
}

// Unwrap はerrors.Is/Asのために元のエラーを返します。
func (e *SearchError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func newSearchError(stage Stage, err error) error {
	return &SearchError{Stage: stage, Err: err}
}
