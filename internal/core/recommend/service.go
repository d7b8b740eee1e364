package recommend

import (
	"context"
	"fmt"
	"log/slog"
)

// Embedder はテキストのEmbedding生成インターフェース
type Embedder interface {
	// Embed は単一テキストのEmbeddingを生成する
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Matcher はベクトル類似度検索インターフェース
type Matcher interface {
	// Match はクエリベクトルに類似するドキュメントを類似度降順で返す
	Match(ctx context.Context, queryVector []float32, threshold float64, count int) ([]*MatchRecord, error)
}

// Responder はコンテキスト付きレコメンド生成インターフェース
type Responder interface {
	// Respond はコンテキストと質問文からレコメンド文を生成する
	Respond(ctx context.Context, contextText, query string) (string, error)
}

// Service はレコメンド生成のビジネスロジックを提供する
type Service struct {
	embedder    Embedder
	matcher     Matcher
	responder   Responder
	tokens      *TokenCounter
	tokenBudget int
	logger      *slog.Logger
}

// ServiceOption は Service のオプション設定
type ServiceOption func(*Service)

// WithRecommendLogger は Service にロガーを設定する
func WithRecommendLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTokenCounter はコンテキスト切り詰めに使うカウンタを設定する
func WithTokenCounter(tc *TokenCounter) ServiceOption {
	return func(s *Service) {
		s.tokens = tc
	}
}

// WithContextTokenBudget はコンテキストの最大トークン数を上書きする
func WithContextTokenBudget(budget int) ServiceOption {
	return func(s *Service) {
		s.tokenBudget = budget
	}
}

// NewService は新しいServiceを作成する
func NewService(embedder Embedder, matcher Matcher, responder Responder, opts ...ServiceOption) *Service {
	svc := &Service{
		embedder:    embedder,
		matcher:     matcher,
		responder:   responder,
		tokenBudget: DefaultContextTokenBudget,
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		opt(svc)
	}

	if svc.logger == nil {
		svc.logger = slog.Default()
	}

	return svc
}

// Recommend は質問文に対してRAGベースでレコメンドを生成する
// Embedding生成 → ベクトル検索 → レコメンド生成の順に実行し、
// いずれかの段階が失敗した時点で処理を中断してエラーを返す
func (s *Service) Recommend(ctx context.Context, params RecommendParams) (*Recommendation, error) {
	// 1. バリデーション
	if params.Query == "" {
		return nil, ErrEmptyQuery
	}

	// 2. デフォルト値の設定
	threshold := params.MatchThreshold
	if threshold <= 0 {
		threshold = DefaultMatchThreshold
	}
	count := params.MatchCount
	if count <= 0 {
		count = DefaultMatchCount
	}

	// 3. 質問文をEmbeddingに変換
	s.logger.Info("generating query embedding", "query", params.Query)
	queryVector, err := s.embedder.Embed(ctx, params.Query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	// 4. ベクトル検索を実行
	s.logger.Info("executing similarity search",
		"dimension", len(queryVector),
		"threshold", threshold,
		"count", count,
	)
	matches, err := s.matcher.Match(ctx, queryVector, threshold, count)
	if err != nil {
		return nil, fmt.Errorf("similarity search failed: %w", err)
	}

	// 検索結果が空の場合はレコメンド生成に進まない
	if len(matches) == 0 {
		return nil, ErrNoMatchFound
	}

	// 5. 最上位ドキュメントをコンテキストとしてレコメンドを生成
	top := matches[0]
	contextText := s.tokens.TruncateToBudget(top.Content, s.tokenBudget)

	s.logger.Info("generating recommendation",
		"matchTitle", top.Title,
		"similarity", top.Similarity,
	)
	answer, err := s.responder.Respond(ctx, contextText, params.Query)
	if err != nil {
		return nil, fmt.Errorf("failed to generate recommendation: %w", err)
	}

	s.logger.Info("recommendation completed", "answerLength", len(answer))

	return &Recommendation{
		Answer: answer,
		Source: *top,
	}, nil
}
