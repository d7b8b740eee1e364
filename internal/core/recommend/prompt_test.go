package recommend

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildUserPromptContainsContextAndQuery(t *testing.T) {
	prompt := BuildUserPrompt("Episode 42: Mars and Memes", "An episode Elon Musk would enjoy")

	assert.Contains(t, prompt, "Episode 42: Mars and Memes")
	assert.Contains(t, prompt, "An episode Elon Musk would enjoy")

	// コンテキストが質問文より先に現れる
	ctxIdx := strings.Index(prompt, "Episode 42")
	queryIdx := strings.Index(prompt, "An episode")
	assert.Less(t, ctxIdx, queryIdx)
}

func TestSystemPromptIsFixed(t *testing.T) {
	assert.NotEmpty(t, SystemPrompt)
	assert.Contains(t, SystemPrompt, "podcast")
}

func TestTokenCounterTruncateToBudget(t *testing.T) {
	tc := &TokenCounter{} // 概算カウンタ（4文字1トークン）

	t.Run("within budget returns unchanged", func(t *testing.T) {
		text := "short"
		assert.Equal(t, text, tc.TruncateToBudget(text, 100))
	})

	t.Run("over budget drops trailing lines", func(t *testing.T) {
		text := "aaaa aaaa\nbbbb bbbb\ncccc cccc"
		got := tc.TruncateToBudget(text, 5)
		assert.Contains(t, got, "(truncated)")
		assert.NotContains(t, got, "cccc")
		assert.LessOrEqual(t, tc.CountTokens(strings.TrimSuffix(got, "\n... (truncated)")), 5)
	})

	t.Run("zero budget disables truncation", func(t *testing.T) {
		text := strings.Repeat("x", 1000)
		assert.Equal(t, text, tc.TruncateToBudget(text, 0))
	})
}

func TestFormatSource(t *testing.T) {
	withTitle := FormatSource(MatchRecord{Title: "Episode 42", Similarity: 0.9123})
	assert.Contains(t, withTitle, "Episode 42")
	assert.Contains(t, withTitle, "0.9123")

	withoutTitle := FormatSource(MatchRecord{Similarity: 0.5})
	assert.NotContains(t, withoutTitle, "|")
}
