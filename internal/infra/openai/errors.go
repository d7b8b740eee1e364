package openai

import (
	"errors"

	"github.com/openai/openai-go/v3"
)

var (
	// ErrAPIKeyNotSet はAPIキーが設定されていない場合のエラー
	ErrAPIKeyNotSet = errors.New("OpenAI API key not set")

	// ErrNoEmbedding はレスポンスにEmbeddingベクトルが含まれない場合のエラー
	ErrNoEmbedding = errors.New("no embedding returned")

	// ErrEmptyCompletion はレスポンスにchoicesが含まれない場合のエラー
	ErrEmptyCompletion = errors.New("no completion choices returned")

	// ErrMaxRetriesExceeded は最大リトライ回数を超過した場合のエラー
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
)

// isRateLimitError はレート制限(429)エラーかどうかを判定する
func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429
	}

	return false
}
