package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/nshimizu/podrec/internal/core/recommend"
)

// RecommendAction はレコメンド生成コマンドのアクション
func RecommendAction(ctx context.Context, cmd *cli.Command) error {
	threshold := cmd.Float("threshold")
	count := cmd.Int("count")
	showSource := cmd.Bool("show-source")
	envFile := cmd.String("env")

	// 質問文の取得
	query := cmd.Args().First()
	if query == "" {
		return fmt.Errorf("質問文を指定してください")
	}

	// 共通コンテキストの初期化
	appCtx, err := NewAppContext(ctx, envFile)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	params := recommend.RecommendParams{
		Query:          query,
		MatchThreshold: threshold,
		MatchCount:     count,
	}
	if params.MatchThreshold <= 0 {
		params.MatchThreshold = appCtx.Config.Recommend.MatchThreshold
	}
	if params.MatchCount <= 0 {
		params.MatchCount = appCtx.Config.Recommend.MatchCount
	}

	slog.Info("レコメンド生成を開始",
		"query", query,
		"threshold", params.MatchThreshold,
		"count", params.MatchCount,
	)

	result, err := appCtx.RecommendService.Recommend(ctx, params)
	if err != nil {
		if errors.Is(err, recommend.ErrNoMatchFound) {
			slog.Error("条件に合うエピソードが見つかりませんでした", "threshold", params.MatchThreshold)
		} else {
			slog.Error("レコメンド生成に失敗しました", "error", err)
		}
		return err
	}

	// 結果出力
	fmt.Println(result.Answer)

	// --show-sourceフラグが指定されている場合、参照ドキュメントも出力
	if showSource {
		fmt.Println("\n--- 参照エピソード ---")
		fmt.Println(recommend.FormatSource(result.Source))
	}

	slog.Info("レコメンド生成が完了しました")
	return nil
}
