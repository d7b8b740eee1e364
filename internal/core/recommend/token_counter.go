package recommend

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// TokenCounter はコンテキストのトークン数をカウントする機能を提供する
type TokenCounter struct {
	encoding *tiktoken.Tiktoken
}

// NewTokenCounter は新しいTokenCounterを作成する
// cl100k_baseエンコーディングを使用する
func NewTokenCounter() (*TokenCounter, error) {
	encoding, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, fmt.Errorf("failed to get tiktoken encoding: %w", err)
	}

	return &TokenCounter{encoding: encoding}, nil
}

// CountTokens はテキストのトークン数をカウントする
// エンコーディングが未初期化の場合は文字数ベースの概算値を返す
func (tc *TokenCounter) CountTokens(text string) int {
	if tc == nil || tc.encoding == nil {
		// 英語で約4文字1トークンの概算
		return len(text) / 4
	}
	tokens := tc.encoding.Encode(text, nil, nil)
	return len(tokens)
}

// TruncateToBudget はトークン予算内に収まるようにテキストを切り詰める
// 予算超過時は改行単位で末尾から削り、切り詰めたことを示すマーカーを付与する
func (tc *TokenCounter) TruncateToBudget(text string, budget int) string {
	if budget <= 0 || tc.CountTokens(text) <= budget {
		return text
	}

	lines := strings.Split(text, "\n")
	for len(lines) > 1 {
		lines = lines[:len(lines)-1]
		candidate := strings.Join(lines, "\n")
		if tc.CountTokens(candidate) <= budget {
			return candidate + "\n... (truncated)"
		}
	}

	// 単一行でも超過する場合は文字数ベースで切り詰める
	remainder := lines[0]
	maxChars := budget * 4
	if len(remainder) > maxChars {
		remainder = remainder[:maxChars]
	}
	return remainder + "\n... (truncated)"
}
