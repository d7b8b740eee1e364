package openai

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/nshimizu/podrec/internal/core/ingest"
	"github.com/nshimizu/podrec/internal/core/recommend"
)

const (
	// DefaultEmbeddingModel はモデル未指定時のデフォルトモデル
	DefaultEmbeddingModel = "text-embedding-3-small"

	// DefaultEmbeddingDimension はOpenAI推奨のデフォルト次元
	DefaultEmbeddingDimension = 1536

	// maxEmbeddingBatchSize はOpenAI APIの1リクエスト最大入力数
	maxEmbeddingBatchSize = 100
)

// Embedder は OpenAI API を使用してテキストをベクトルに変換する
type Embedder struct {
	client    openai.Client
	model     string
	dimension int
	timeout   time.Duration
}

type embedderOptions struct {
	model     string
	dimension int
	timeout   time.Duration
}

// EmbedderOption は Embedder のオプション設定
type EmbedderOption func(*embedderOptions)

// WithEmbeddingModel はモデル名を上書きする
func WithEmbeddingModel(model string) EmbedderOption {
	return func(o *embedderOptions) {
		o.model = model
	}
}

// WithEmbeddingDimension はベクトル次元を上書きする
func WithEmbeddingDimension(dimension int) EmbedderOption {
	return func(o *embedderOptions) {
		o.dimension = dimension
	}
}

// WithEmbeddingTimeout はAPI呼び出しのタイムアウトを上書きする
func WithEmbeddingTimeout(timeout time.Duration) EmbedderOption {
	return func(o *embedderOptions) {
		o.timeout = timeout
	}
}

// NewEmbedder は新しい Embedder を作成する
func NewEmbedder(apiKey string, opts ...EmbedderOption) (*Embedder, error) {
	if apiKey == "" {
		return nil, ErrAPIKeyNotSet
	}

	options := embedderOptions{
		model:     DefaultEmbeddingModel,
		dimension: DefaultEmbeddingDimension,
		timeout:   DefaultTimeout,
	}
	for _, opt := range opts {
		opt(&options)
	}

	return &Embedder{
		client: openai.NewClient(
			option.WithAPIKey(apiKey),
		),
		model:     options.model,
		dimension: options.dimension,
		timeout:   options.timeout,
	}, nil
}

// Embed は単一テキストの Embedding を生成する
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := e.BatchEmbed(ctx, []string{text})
	if err != nil {
		return nil, err
	}

	if len(embeddings) == 0 {
		return nil, ErrNoEmbedding
	}

	return embeddings[0], nil
}

// BatchEmbed はバッチで Embedding を生成する（最大100件）
// レート制限エラーの場合はExponential Backoffでリトライする
func (e *Embedder) BatchEmbed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("no texts provided")
	}

	if len(texts) > maxEmbeddingBatchSize {
		return nil, fmt.Errorf("batch size exceeds maximum of %d", maxEmbeddingBatchSize)
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	params := openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(e.model),
	}

	if len(texts) == 1 {
		params.Input = openai.EmbeddingNewParamsInputUnion{
			OfString: openai.String(texts[0]),
		}
	} else {
		params.Input = openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: texts,
		}
	}

	if e.dimension > 0 {
		params.Dimensions = openai.Int(int64(e.dimension))
	}

	var lastErr error
	for attempt := 0; attempt <= MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * BaseBackoff
			if backoff > MaxBackoff {
				backoff = MaxBackoff
			}

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		resp, err := e.client.Embeddings.New(ctx, params)
		if err != nil {
			lastErr = err

			if isRateLimitError(err) {
				continue
			}

			return nil, fmt.Errorf("failed to generate embeddings: %w", err)
		}

		if len(resp.Data) == 0 {
			return nil, ErrNoEmbedding
		}

		embeddings := make([][]float32, 0, len(resp.Data))
		for _, data := range resp.Data {
			vector := make([]float32, len(data.Embedding))
			for i, v := range data.Embedding {
				vector[i] = float32(v)
			}
			embeddings = append(embeddings, vector)
		}

		return embeddings, nil
	}

	return nil, fmt.Errorf("%w: %v", ErrMaxRetriesExceeded, lastErr)
}

// ModelName はモデル名を返す
func (e *Embedder) ModelName() string {
	return e.model
}

// Dimension はベクトル次元数を返す
func (e *Embedder) Dimension() int {
	return e.dimension
}

// MaxBatchSize はバッチ処理の最大サイズを返す（OpenAI APIは最大100件）
func (e *Embedder) MaxBatchSize() int {
	return maxEmbeddingBatchSize
}

// インターフェース実装の確認
var (
	_ recommend.Embedder   = (*Embedder)(nil)
	_ ingest.BatchEmbedder = (*Embedder)(nil)
)
