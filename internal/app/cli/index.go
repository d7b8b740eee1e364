package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/nshimizu/podrec/internal/core/ingest"
)

// IndexAction はドキュメント投入コマンドのアクション
// JSONファイルからエピソードドキュメントを読み込み、Embedding化して保存する
func IndexAction(ctx context.Context, cmd *cli.Command) error {
	filePath := cmd.String("file")
	envFile := cmd.String("env")

	docs, err := loadDocuments(filePath)
	if err != nil {
		return err
	}

	slog.Info("ドキュメント投入を開始", "file", filePath, "documents", len(docs))

	// 共通コンテキストの初期化
	appCtx, err := NewAppContext(ctx, envFile)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	stored, err := appCtx.IngestService.Ingest(ctx, docs)
	if err != nil {
		slog.Error("ドキュメント投入に失敗しました", "error", err, "stored", stored)
		return err
	}

	fmt.Printf("%d件のドキュメントを投入しました\n", stored)
	return nil
}

// loadDocuments はJSONファイルからドキュメント配列を読み込む
func loadDocuments(filePath string) ([]ingest.Document, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("ファイルの読み込みに失敗: %w", err)
	}

	var docs []ingest.Document
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("JSONの解析に失敗: %w", err)
	}

	return docs, nil
}
