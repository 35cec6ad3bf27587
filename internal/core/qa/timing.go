package qa

import (
	"context"
	"log/slog"
	"time"
)

// timedAnswerer は Answerer を所要時間ログ付きでラップする
type timedAnswerer struct {
	next   Answerer
	logger *slog.Logger
}

// WithTiming は回答生成の所要時間を計測するラッパーを返す
// 横断的な計測であり、Answerer の契約は変更しない
func WithTiming(next Answerer, logger *slog.Logger) Answerer {
	if logger == nil {
		logger = slog.Default()
	}
	return &timedAnswerer{next: next, logger: logger}
}

func (t *timedAnswerer) Answer(ctx context.Context, question string) (*Answer, error) {
	start := time.Now()
	answer, err := t.next.Answer(ctx, question)
	elapsed := time.Since(start)

	if err != nil {
		t.logger.Info("answer generation failed", "elapsed", elapsed.String(), "error", err.Error())
		return nil, err
	}
	t.logger.Info("answer generation completed", "elapsed", elapsed.String())
	return answer, nil
}

var _ Answerer = (*timedAnswerer)(nil)
