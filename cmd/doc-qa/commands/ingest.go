package commands

import (
	"context"

	"github.com/urfave/cli/v3"
)

// IngestAction はコーパスをベクトルコレクションへ取り込むコマンドのアクション
func IngestAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := NewAppContext(ctx, cmd.String("env"), cmd.String("config"))
	if err != nil {
		return err
	}
	defer appCtx.Close()

	svc, err := appCtx.NewIngestionService(ctx)
	if err != nil {
		return err
	}

	result, err := svc.Ingest(ctx)
	if err != nil {
		return err
	}

	appCtx.Logger.Info("embeddings saved successfully",
		"collection", result.Collection,
		"documents", result.Documents,
		"chunks", result.Chunks,
	)
	return nil
}
