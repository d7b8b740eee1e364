package recommend

import "errors"

var (
	// ErrEmptyQuery は質問文が空の場合のエラー
	ErrEmptyQuery = errors.New("query is required")

	// ErrNoMatchFound は類似度しきい値を超えるドキュメントが存在しない場合のエラー
	ErrNoMatchFound = errors.New("no matching document found")
)
