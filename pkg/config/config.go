package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

var (
	// ErrMissingAPIKey はOpenAI APIキーが未設定の場合のエラー
	ErrMissingAPIKey = errors.New("OPENAI_API_KEY is not set")

	// ErrMissingDatabaseURL はデータベース接続先が未設定の場合のエラー
	ErrMissingDatabaseURL = errors.New("DATABASE_URL is not set")
)

// Config はアプリケーション全体の設定を保持します
type Config struct {
	// OpenAI設定（Embeddings + チャット補完）
	OpenAI OpenAIConfig

	// Database設定
	Database DatabaseConfig

	// レコメンド生成設定
	Recommend RecommendConfig
}

// OpenAIConfig はOpenAI API設定
type OpenAIConfig struct {
	APIKey             string
	EmbeddingModel     string
	EmbeddingDimension int
	ChatModel          string
}

// DatabaseConfig はデータベース接続設定
// DSNが接続先エンドポイントと認証情報の両方を保持する
type DatabaseConfig struct {
	URL string
}

// RecommendConfig はレコメンド生成のチューニング設定
type RecommendConfig struct {
	MatchThreshold     float64
	MatchCount         int
	Temperature        float64
	FrequencyPenalty   float64
	ContextTokenBudget int
}

// Load は環境変数または.envファイルから設定を読み込みます
func Load(envFilePath string) (*Config, error) {
	// .envファイルが存在する場合は読み込む
	if envFilePath != "" {
		if err := godotenv.Load(envFilePath); err != nil {
			// ファイルが存在しない場合はエラーとしない（環境変数のみで動作可能）
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to load .env file: %w", err)
			}
		}
	}

	cfg := &Config{
		OpenAI: OpenAIConfig{
			APIKey:             getEnv("OPENAI_API_KEY", ""),
			EmbeddingModel:     getEnv("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small"),
			EmbeddingDimension: getEnvAsInt("OPENAI_EMBEDDING_DIMENSION", 1536),
			ChatModel:          getEnv("OPENAI_CHAT_MODEL", "gpt-4o-mini"),
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		Recommend: RecommendConfig{
			MatchThreshold:     getEnvAsFloat("RECOMMEND_MATCH_THRESHOLD", 0.50),
			MatchCount:         getEnvAsInt("RECOMMEND_MATCH_COUNT", 1),
			Temperature:        getEnvAsFloat("RECOMMEND_TEMPERATURE", 0.5),
			FrequencyPenalty:   getEnvAsFloat("RECOMMEND_FREQUENCY_PENALTY", 0.5),
			ContextTokenBudget: getEnvAsInt("RECOMMEND_CONTEXT_TOKEN_BUDGET", 6000),
		},
	}

	return cfg, nil
}

// Validate は必須設定の存在を検証します
// 外部サービスへの接続前に呼び出し、不足があれば即座に失敗させます
func (c *Config) Validate() error {
	if c.OpenAI.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.Database.URL == "" {
		return ErrMissingDatabaseURL
	}
	return nil
}

// getEnv は環境変数を取得し、存在しない場合はデフォルト値を返します
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt は環境変数を整数として取得します
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsFloat は環境変数を浮動小数点数として取得します
func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}
