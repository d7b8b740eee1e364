package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nshimizu/podrec/internal/core/ingest"
	"github.com/nshimizu/podrec/pkg/db"
)

// testSchema は統合テスト用の最小スキーマ（次元3）
const testSchema = `
CREATE EXTENSION IF NOT EXISTS vector;

CREATE TABLE documents (
    id        uuid PRIMARY KEY,
    title     text NOT NULL DEFAULT '',
    content   text NOT NULL,
    embedding vector(3) NOT NULL
);

CREATE FUNCTION match_documents(
    query_embedding vector(3),
    match_threshold float,
    match_count     int
)
RETURNS TABLE (id uuid, title text, content text, similarity float)
LANGUAGE sql STABLE
AS $$
    SELECT d.id,
           d.title,
           d.content,
           1 - (d.embedding <=> query_embedding) AS similarity
    FROM documents d
    WHERE 1 - (d.embedding <=> query_embedding) > match_threshold
    ORDER BY d.embedding <=> query_embedding
    LIMIT match_count;
$$;
`

func setupTestDatabase(t *testing.T) *db.DB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("docker is not available: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("docker is not available: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "pgvector/pgvector",
		Tag:        "pg16",
		Env: []string{
			"POSTGRES_USER=podrec",
			"POSTGRES_PASSWORD=podrec",
			"POSTGRES_DB=podrec_test",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = pool.Purge(resource)
	})
	_ = resource.Expire(300)

	dsn := fmt.Sprintf("postgres://podrec:podrec@%s/podrec_test?sslmode=disable",
		resource.GetHostPort("5432/tcp"))

	// スキーマ適用まで含めてリトライする
	// （pgvector型の登録はextension作成後でないと成功しない）
	pool.MaxWait = 2 * time.Minute
	err = pool.Retry(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		conn, err := pgx.Connect(ctx, dsn)
		if err != nil {
			return err
		}
		defer conn.Close(ctx)

		_, err = conn.Exec(ctx, testSchema)
		return err
	})
	require.NoError(t, err)

	database, err := db.New(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(database.Close)

	return database
}

func TestRepository_MatchAndUpsert(t *testing.T) {
	database := setupTestDatabase(t)
	repo := NewRepository(database.Pool)
	ctx := context.Background()

	docs := []ingest.Document{
		{ID: uuid.New(), Title: "Episode 42", Content: "Mars and Memes"},
		{ID: uuid.New(), Title: "Episode 7", Content: "Gardening at night"},
	}
	vectors := [][]float32{
		{1, 0, 0},
		{0, 1, 0},
	}

	require.NoError(t, repo.UpsertDocuments(ctx, docs, vectors))

	t.Run("returns records ordered by similarity", func(t *testing.T) {
		results, err := repo.Match(ctx, []float32{0.9, 0.1, 0}, 0.5, 2)
		require.NoError(t, err)
		require.Len(t, results, 1) // 2件目は類似度がしきい値以下

		assert.Equal(t, docs[0].ID, results[0].ID)
		assert.Equal(t, "Episode 42", results[0].Title)
		assert.Equal(t, "Mars and Memes", results[0].Content)
		assert.Greater(t, results[0].Similarity, 0.9)
	})

	t.Run("respects match_count", func(t *testing.T) {
		results, err := repo.Match(ctx, []float32{0.7, 0.7, 0}, 0.1, 1)
		require.NoError(t, err)
		assert.Len(t, results, 1)
	})

	t.Run("returns empty slice when threshold excludes everything", func(t *testing.T) {
		results, err := repo.Match(ctx, []float32{0, 0, 1}, 0.99, 5)
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("upsert overwrites existing document", func(t *testing.T) {
		updated := docs[0]
		updated.Content = "Mars, Memes and More"
		require.NoError(t, repo.UpsertDocuments(ctx, []ingest.Document{updated}, [][]float32{{1, 0, 0}}))

		results, err := repo.Match(ctx, []float32{1, 0, 0}, 0.5, 1)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "Mars, Memes and More", results[0].Content)
	})
}
