package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nshimizu/podrec/internal/core/ingest"
	"github.com/nshimizu/podrec/internal/core/recommend"
	"github.com/nshimizu/podrec/internal/infra/openai"
	"github.com/nshimizu/podrec/internal/infra/postgres"
	"github.com/nshimizu/podrec/internal/platform/logger"
	"github.com/nshimizu/podrec/pkg/config"
	"github.com/nshimizu/podrec/pkg/db"
)

// AppContext はコマンド実行に必要な共通コンテキストを保持する
type AppContext struct {
	Config           *config.Config
	DB               *db.DB
	RecommendService *recommend.Service
	IngestService    *ingest.Service

	logger *slog.Logger
}

// NewAppContext は設定を読み込み、外部サービスのクライアントを組み立てて AppContext を作成する
// 必須設定が不足している場合は外部サービスへの接続前にエラーを返す
func NewAppContext(ctx context.Context, envFile string) (*AppContext, error) {
	// 設定の読み込みと検証
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, fmt.Errorf("設定の読み込みに失敗: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("設定の検証に失敗: %w", err)
	}

	// ロガーの初期化
	appLogger := logger.New(logger.DefaultConfig())

	// データベース接続
	database, err := db.New(ctx, cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("データベース接続に失敗: %w", err)
	}

	// OpenAIクライアントの組み立て
	embedder, err := openai.NewEmbedder(cfg.OpenAI.APIKey,
		openai.WithEmbeddingModel(cfg.OpenAI.EmbeddingModel),
		openai.WithEmbeddingDimension(cfg.OpenAI.EmbeddingDimension),
	)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("Embedderの初期化に失敗: %w", err)
	}

	responder, err := openai.NewResponder(cfg.OpenAI.APIKey,
		openai.WithChatModel(cfg.OpenAI.ChatModel),
		openai.WithTemperature(cfg.Recommend.Temperature),
		openai.WithFrequencyPenalty(cfg.Recommend.FrequencyPenalty),
	)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("Responderの初期化に失敗: %w", err)
	}

	repo := postgres.NewRepository(database.Pool)

	// トークンカウンタの初期化（失敗時は概算カウンタで継続する）
	tokens, err := recommend.NewTokenCounter()
	if err != nil {
		appLogger.Warn("tiktoken encoding unavailable, falling back to estimation", "error", err)
		tokens = &recommend.TokenCounter{}
	}

	recommendSvc := recommend.NewService(embedder, repo, responder,
		recommend.WithRecommendLogger(appLogger),
		recommend.WithTokenCounter(tokens),
		recommend.WithContextTokenBudget(cfg.Recommend.ContextTokenBudget),
	)

	ingestSvc := ingest.NewService(embedder, repo,
		ingest.WithIngestLogger(appLogger),
	)

	return &AppContext{
		Config:           cfg,
		DB:               database,
		RecommendService: recommendSvc,
		IngestService:    ingestSvc,
		logger:           appLogger,
	}, nil
}

// Close はAppContextが保持するリソースをクリーンアップする
func (ac *AppContext) Close() {
	if ac.DB != nil {
		ac.DB.Close()
	}
}

// Logger はAppContextのロガーを返す
func (ac *AppContext) Logger() *slog.Logger {
	if ac.logger != nil {
		return ac.logger
	}
	return slog.Default()
}
