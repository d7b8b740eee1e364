package openai

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"

	"github.com/nshimizu/podrec/internal/core/recommend"
)

const (
	// DefaultChatModel はデフォルトで使用するOpenAIモデル
	DefaultChatModel = "gpt-4o-mini"

	// DefaultTemperature はレコメンド生成のデフォルトtemperature
	DefaultTemperature = 0.5

	// DefaultFrequencyPenalty はレコメンド生成のデフォルトfrequency penalty
	DefaultFrequencyPenalty = 0.5

	// DefaultTimeout はAPI呼び出しのデフォルトタイムアウト
	DefaultTimeout = 60 * time.Second

	// MaxRetries はレート制限エラー時の最大リトライ回数
	MaxRetries = 3

	// BaseBackoff はExponential Backoffの基底時間
	BaseBackoff = 2 * time.Second

	// MaxBackoff はExponential Backoffの最大待機時間
	MaxBackoff = 32 * time.Second
)

// Responder は OpenAI のチャット補完APIでレコメンド文を生成する
type Responder struct {
	client           openai.Client
	model            string
	temperature      float64
	frequencyPenalty float64
	timeout          time.Duration
}

type responderOptions struct {
	model            string
	temperature      float64
	frequencyPenalty float64
	timeout          time.Duration
}

// ResponderOption は Responder のオプション設定
type ResponderOption func(*responderOptions)

// WithChatModel はモデル名を上書きする
func WithChatModel(model string) ResponderOption {
	return func(o *responderOptions) {
		o.model = model
	}
}

// WithTemperature はサンプリングtemperatureを上書きする
func WithTemperature(temperature float64) ResponderOption {
	return func(o *responderOptions) {
		o.temperature = temperature
	}
}

// WithFrequencyPenalty はfrequency penaltyを上書きする
func WithFrequencyPenalty(penalty float64) ResponderOption {
	return func(o *responderOptions) {
		o.frequencyPenalty = penalty
	}
}

// WithResponderTimeout はAPI呼び出しのタイムアウトを上書きする
func WithResponderTimeout(timeout time.Duration) ResponderOption {
	return func(o *responderOptions) {
		o.timeout = timeout
	}
}

// NewResponder は新しい Responder を作成する
func NewResponder(apiKey string, opts ...ResponderOption) (*Responder, error) {
	if apiKey == "" {
		return nil, ErrAPIKeyNotSet
	}

	options := responderOptions{
		model:            DefaultChatModel,
		temperature:      DefaultTemperature,
		frequencyPenalty: DefaultFrequencyPenalty,
		timeout:          DefaultTimeout,
	}
	for _, opt := range opts {
		opt(&options)
	}

	return &Responder{
		client: openai.NewClient(
			option.WithAPIKey(apiKey),
		),
		model:            options.model,
		temperature:      options.temperature,
		frequencyPenalty: options.frequencyPenalty,
		timeout:          options.timeout,
	}, nil
}

// Respond はコンテキストと質問文からレコメンド文を生成する
// システムメッセージ1件とユーザーメッセージ1件の順で会話を構築し、
// 先頭choiceのメッセージ本文を返す
func (r *Responder) Respond(ctx context.Context, contextText, query string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	params := openai.ChatCompletionNewParams{
		Model:            shared.ChatModel(r.model),
		Messages:         buildMessages(contextText, query),
		Temperature:      openai.Float(r.temperature),
		FrequencyPenalty: openai.Float(r.frequencyPenalty),
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
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		completion, err := r.client.Chat.Completions.New(ctx, params)
		if err != nil {
			lastErr = err

			if isRateLimitError(err) {
				continue
			}

			return "", fmt.Errorf("OpenAI API call failed: %w", err)
		}

		if len(completion.Choices) == 0 {
			return "", ErrEmptyCompletion
		}

		return completion.Choices[0].Message.Content, nil
	}

	return "", fmt.Errorf("%w: %v", ErrMaxRetriesExceeded, lastErr)
}

// buildMessages はシステムメッセージ1件とユーザーメッセージ1件の会話を構築する
func buildMessages(contextText, query string) []openai.ChatCompletionMessageParamUnion {
	return []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(recommend.SystemPrompt),
		openai.UserMessage(recommend.BuildUserPrompt(contextText, query)),
	}
}

// ModelName はモデル名を返す
func (r *Responder) ModelName() string {
	return r.model
}

// インターフェース実装の確認
var _ recommend.Responder = (*Responder)(nil)
