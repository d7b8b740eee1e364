package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	appcli "github.com/nshimizu/podrec/internal/app/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 構造化ログの設定
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	app := &cli.Command{
		Name:  "podrec",
		Usage: "ベクトル検索とLLMによるポッドキャストエピソードレコメンドツール",
		Commands: []*cli.Command{
			{
				Name:      "recommend",
				Usage:     "質問文に合うエピソードをレコメンド",
				ArgsUsage: "<質問文>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "env",
						Usage: "環境変数ファイルパス",
						Value: ".env",
					},
					&cli.FloatFlag{
						Name:  "threshold",
						Usage: "類似度しきい値（0-1、省略時は設定値）",
					},
					&cli.IntFlag{
						Name:  "count",
						Usage: "検索件数（省略時は設定値）",
					},
					&cli.BoolFlag{
						Name:  "show-source",
						Usage: "参照したエピソードも表示",
					},
				},
				Action: appcli.RecommendAction,
			},
			{
				Name:  "index",
				Usage: "エピソードドキュメントをJSONファイルから投入",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "env",
						Usage: "環境変数ファイルパス",
						Value: ".env",
					},
					&cli.StringFlag{
						Name:     "file",
						Usage:    "ドキュメントJSONファイルパス",
						Required: true,
					},
				},
				Action: appcli.IndexAction,
			},
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
