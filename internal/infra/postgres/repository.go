package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"github.com/nshimizu/podrec/internal/core/ingest"
	"github.com/nshimizu/podrec/internal/core/recommend"
)

// matchDocumentsSQL はデータストア側のベクトル類似度検索関数を呼び出す
// 近傍探索とスコアリングはすべて match_documents 関数に委譲する
const matchDocumentsSQL = `
SELECT id, title, content, similarity
FROM match_documents(
    query_embedding => $1,
    match_threshold => $2,
    match_count     => $3
)`

const upsertDocumentSQL = `
INSERT INTO documents (id, title, content, embedding)
VALUES ($1, $2, $3, $4)
ON CONFLICT (id) DO UPDATE
SET title     = EXCLUDED.title,
    content   = EXCLUDED.content,
    embedding = EXCLUDED.embedding`

// Repository は pgvector を使用したドキュメントリポジトリ
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository は新しい Repository を作成する
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Match はクエリベクトルに類似するドキュメントを類似度降順で返す
// しきい値を超えるドキュメントが存在しない場合は空スライスを返す
func (r *Repository) Match(ctx context.Context, queryVector []float32, threshold float64, count int) ([]*recommend.MatchRecord, error) {
	rows, err := r.pool.Query(ctx, matchDocumentsSQL,
		pgvector.NewVector(queryVector),
		threshold,
		count,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to execute match_documents: %w", err)
	}
	defer rows.Close()

	results := make([]*recommend.MatchRecord, 0, count)
	for rows.Next() {
		var record recommend.MatchRecord
		var id pgtype.UUID
		if err := rows.Scan(&id, &record.Title, &record.Content, &record.Similarity); err != nil {
			return nil, fmt.Errorf("failed to scan match record: %w", err)
		}
		record.ID = PgtypeToUUID(id)
		results = append(results, &record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read match records: %w", err)
	}

	return results, nil
}

// UpsertDocuments はドキュメントとそのEmbeddingをバッチで保存する
func (r *Repository) UpsertDocuments(ctx context.Context, docs []ingest.Document, vectors [][]float32) error {
	if len(docs) != len(vectors) {
		return fmt.Errorf("document/vector count mismatch: %d vs %d", len(docs), len(vectors))
	}

	batch := &pgx.Batch{}
	for i, doc := range docs {
		batch.Queue(upsertDocumentSQL,
			UUIDToPgtype(doc.ID),
			doc.Title,
			doc.Content,
			pgvector.NewVector(vectors[i]),
		)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range docs {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to upsert document: %w", err)
		}
	}

	return nil
}

// インターフェース実装の確認
var (
	_ recommend.Matcher    = (*Repository)(nil)
	_ ingest.DocumentStore = (*Repository)(nil)
)
