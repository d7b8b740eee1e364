package recommend

import "github.com/google/uuid"

const (
	// DefaultMatchThreshold はベクトル検索のデフォルト類似度しきい値
	DefaultMatchThreshold = 0.50

	// DefaultMatchCount はベクトル検索のデフォルト取得件数
	DefaultMatchCount = 1

	// DefaultContextTokenBudget はプロンプトに含めるコンテキストの最大トークン数
	DefaultContextTokenBudget = 6000
)

// RecommendParams はレコメンド生成のパラメータを表す
type RecommendParams struct {
	Query          string  // ユーザーの質問文
	MatchThreshold float64 // 類似度しきい値（0 以下の場合はデフォルト: 0.50）
	MatchCount     int     // 検索件数（0 以下の場合はデフォルト: 1）
}

// MatchRecord はベクトル検索で取得したドキュメントを表す
type MatchRecord struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Similarity float64   `json:"similarity"`
}

// Recommendation はレコメンド生成の結果を表す
type Recommendation struct {
	Answer string      // LLMによるレコメンド文
	Source MatchRecord // 回答の根拠となったドキュメント
}
