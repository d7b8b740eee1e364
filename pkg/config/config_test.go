package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/podrec")

	cfg, err := Load("")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "text-embedding-3-small", cfg.OpenAI.EmbeddingModel)
	assert.Equal(t, 1536, cfg.OpenAI.EmbeddingDimension)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.ChatModel)
	assert.Equal(t, 0.50, cfg.Recommend.MatchThreshold)
	assert.Equal(t, 1, cfg.Recommend.MatchCount)
	assert.Equal(t, 0.5, cfg.Recommend.Temperature)
	assert.Equal(t, 0.5, cfg.Recommend.FrequencyPenalty)
	assert.Equal(t, 6000, cfg.Recommend.ContextTokenBudget)
}

func TestLoadOverridesFromEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/podrec")
	t.Setenv("OPENAI_CHAT_MODEL", "gpt-4o")
	t.Setenv("RECOMMEND_MATCH_THRESHOLD", "0.75")
	t.Setenv("RECOMMEND_MATCH_COUNT", "5")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o", cfg.OpenAI.ChatModel)
	assert.Equal(t, 0.75, cfg.Recommend.MatchThreshold)
	assert.Equal(t, 5, cfg.Recommend.MatchCount)
}

func TestValidateFailsFast(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("DATABASE_URL", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.ErrorIs(t, cfg.Validate(), ErrMissingAPIKey)

	t.Setenv("OPENAI_API_KEY", "sk-test")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.ErrorIs(t, cfg.Validate(), ErrMissingDatabaseURL)
}

func TestLoadIgnoresInvalidNumericValues(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/podrec")
	t.Setenv("RECOMMEND_MATCH_COUNT", "not-a-number")
	t.Setenv("RECOMMEND_MATCH_THRESHOLD", "also-not-a-number")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.Recommend.MatchCount)
	assert.Equal(t, 0.50, cfg.Recommend.MatchThreshold)
}
