package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// BatchEmbedder は複数テキストのEmbedding生成インターフェース
type BatchEmbedder interface {
	// BatchEmbed はバッチでEmbeddingを生成する
	BatchEmbed(ctx context.Context, texts []string) ([][]float32, error)

	// MaxBatchSize はバッチ処理の最大サイズを返す
	MaxBatchSize() int
}

// DocumentStore はドキュメントとEmbeddingの永続化インターフェース
type DocumentStore interface {
	// UpsertDocuments はドキュメントとそのEmbeddingを保存する
	UpsertDocuments(ctx context.Context, docs []Document, vectors [][]float32) error
}

// Service はドキュメント投入のビジネスロジックを提供する
type Service struct {
	embedder BatchEmbedder
	store    DocumentStore
	logger   *slog.Logger
}

// ServiceOption は Service のオプション設定
type ServiceOption func(*Service)

// WithIngestLogger は Service にロガーを設定する
func WithIngestLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService は新しいServiceを作成する
func NewService(embedder BatchEmbedder, store DocumentStore, opts ...ServiceOption) *Service {
	svc := &Service{
		embedder: embedder,
		store:    store,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(svc)
	}

	if svc.logger == nil {
		svc.logger = slog.Default()
	}

	return svc
}

// Ingest はドキュメント群をEmbedding化して保存し、保存件数を返す
// Embedding APIのバッチ上限を超える場合は分割して処理する
func (s *Service) Ingest(ctx context.Context, docs []Document) (int, error) {
	if len(docs) == 0 {
		return 0, ErrNoDocuments
	}

	// IDが未設定のドキュメントには採番し、本文の空チェックを行う
	for i := range docs {
		if docs[i].Content == "" {
			return 0, fmt.Errorf("%w: index %d", ErrEmptyContent, i)
		}
		if docs[i].ID == uuid.Nil {
			docs[i].ID = uuid.New()
		}
	}

	batchSize := s.embedder.MaxBatchSize()
	if batchSize <= 0 {
		batchSize = 1
	}

	stored := 0
	for start := 0; start < len(docs); start += batchSize {
		end := start + batchSize
		if end > len(docs) {
			end = len(docs)
		}
		batch := docs[start:end]

		texts := make([]string, 0, len(batch))
		for _, doc := range batch {
			texts = append(texts, doc.Content)
		}

		s.logger.Info("embedding document batch", "from", start, "to", end)
		vectors, err := s.embedder.BatchEmbed(ctx, texts)
		if err != nil {
			return stored, fmt.Errorf("failed to embed documents: %w", err)
		}
		if len(vectors) != len(batch) {
			return stored, fmt.Errorf("embedding count mismatch: got %d, want %d", len(vectors), len(batch))
		}

		if err := s.store.UpsertDocuments(ctx, batch, vectors); err != nil {
			return stored, fmt.Errorf("failed to store documents: %w", err)
		}
		stored += len(batch)
	}

	s.logger.Info("ingest completed", "documents", stored)
	return stored, nil
}
