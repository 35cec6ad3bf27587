package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/jinford/doc-qa/cmd/doc-qa/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 構造化ログの設定
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	commonFlags := []cli.Flag{
		&cli.StringFlag{
			Name:  "env",
			Usage: "環境変数ファイルパス",
			Value: ".env",
		},
		&cli.StringFlag{
			Name:  "config",
			Usage: "設定ファイルパス",
			Value: "config.yaml",
		},
	}

	app := &cli.Command{
		Name:  "doc-qa",
		Usage: "ドキュメントコーパスに対するベクトル検索型の質問応答システム",
		Commands: []*cli.Command{
			{
				Name:   "ingest",
				Usage:  "コーパスを読み込み、Embeddingコレクションを全置換する",
				Flags:  commonFlags,
				Action: commands.IngestAction,
			},
			{
				Name:  "ask",
				Usage: "単発の質問応答を実行",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:     "question",
						Usage:    "質問テキスト",
						Required: true,
					},
				}, commonFlags...),
				Action: commands.AskAction,
			},
			{
				Name:  "server",
				Usage: "サーバ関連コマンド",
				Commands: []*cli.Command{
					{
						Name:  "start",
						Usage: "HTTPサーバを起動",
						Flags: append([]cli.Flag{
							&cli.IntFlag{
								Name:  "port",
								Usage: "HTTPポート（省略時は環境変数またはデフォルトの3000）",
							},
						}, commonFlags...),
						Action: commands.ServerStartAction,
					},
				},
			},
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
