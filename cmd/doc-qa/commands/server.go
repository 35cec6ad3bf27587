package commands

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/jinford/doc-qa/internal/interface/api"
)

// ServerStartAction はHTTPサーバを起動するコマンドのアクション
func ServerStartAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := NewAppContext(ctx, cmd.String("env"), cmd.String("config"))
	if err != nil {
		return err
	}
	defer appCtx.Close()

	ingester, err := appCtx.NewIngestionService(ctx)
	if err != nil {
		return err
	}

	port := int(cmd.Int("port"))
	if port == 0 {
		port = appCtx.Config.HTTPPort
	}

	handler := api.NewHandler(appCtx.NewAnswerer(), ingester, appCtx.Logger)
	server := api.NewServer(port, handler, appCtx.Logger)
	return server.Start(ctx)
}
