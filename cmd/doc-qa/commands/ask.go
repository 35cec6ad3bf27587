package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// AskAction は単発の質問応答を実行するコマンドのアクション
func AskAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := NewAppContext(ctx, cmd.String("env"), cmd.String("config"))
	if err != nil {
		return err
	}
	defer appCtx.Close()

	answer, err := appCtx.NewAnswerer().Answer(ctx, cmd.String("question"))
	if err != nil {
		return err
	}

	fmt.Println(answer.Result)
	if len(answer.RelevantDocuments) > 0 {
		fmt.Println("\n--- 参照ドキュメント ---")
		for name := range answer.RelevantDocuments {
			fmt.Println(name)
		}
	}
	return nil
}
