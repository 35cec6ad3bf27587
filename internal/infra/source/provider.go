package source

import (
	"context"
	"fmt"

	"github.com/jinford/doc-qa/internal/core/corpus"
)

// New は環境モードに応じたソースプロバイダを作成する
// location はローカルモードではディレクトリパス、プロダクションモードではバケット名
// 未知のモードは既定値で代替せず ErrUnsupportedEnvironment として報告する
func New(ctx context.Context, mode corpus.Mode, location string, registry *corpus.Registry) (corpus.SourceProvider, error) {
	switch mode {
	case corpus.ModeLocal:
		return NewLocalProvider(location, registry), nil
	case corpus.ModeProduction:
		return NewS3Provider(ctx, location, registry)
	default:
		return nil, fmt.Errorf("%w: got %q", corpus.ErrUnsupportedEnvironment, mode)
	}
}
