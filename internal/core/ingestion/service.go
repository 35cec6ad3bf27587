package ingestion

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jinford/doc-qa/internal/core/corpus"
	"github.com/jinford/doc-qa/internal/core/vectorstore"
)

// Embedder はテキストのEmbedding生成インターフェース
type Embedder interface {
	// Embed は単一テキストのEmbeddingを生成する
	Embed(ctx context.Context, text string) ([]float32, error)
	// BatchEmbed はバッチでEmbeddingを生成する。出力順は入力順と一致する
	BatchEmbed(ctx context.Context, texts []string) ([][]float32, error)
	// ModelName はモデル名を返す。コレクション名として使用される
	ModelName() string
	// Dimension はベクトル次元数を返す
	Dimension() int
	// MaxBatchSize はバッチ処理の最大サイズを返す
	MaxBatchSize() int
}

// Result はインジェスト実行の終端結果を表す
type Result struct {
	Collection string
	Documents  int
	Chunks     int
}

// Service はインジェストのオーケストレーションを提供する
// 列挙 → ロード → 分割 → バッチEmbedding → コレクション全置換 の順に同期実行する
type Service struct {
	provider corpus.SourceProvider
	registry *corpus.Registry
	chunker  *Chunker
	embedder Embedder
	store    vectorstore.Store
	logger   *slog.Logger
}

type ServiceOption func(*Service)

// WithLogger は Service にロガーを設定する
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService は新しい Service を作成する
func NewService(
	provider corpus.SourceProvider,
	registry *corpus.Registry,
	chunker *Chunker,
	embedder Embedder,
	store vectorstore.Store,
	opts ...ServiceOption,
) *Service {
	svc := &Service{
		provider: provider,
		registry: registry,
		chunker:  chunker,
		embedder: embedder,
		store:    store,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Ingest はコーパス全体をEmbedding済みコレクションへ取り込む
// どこかで失敗した場合は実行全体を中断して報告する（部分成功の報告はしない）
func (s *Service) Ingest(ctx context.Context) (*Result, error) {
	collection := s.embedder.ModelName()
	s.logger.Info("starting ingestion", "collection", collection)

	docs, err := s.provider.Documents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate documents: %w", err)
	}
	s.logger.Info("documents enumerated", "count", len(docs))

	var chunks []Chunk
	for _, doc := range docs {
		content, err := s.registry.Load(doc)
		if err != nil {
			// 不完全なコーパスより明確な失敗を優先する
			return nil, err
		}
		chunks = append(chunks, s.chunker.Split(content)...)
	}
	s.logger.Info("documents chunked", "documents", len(docs), "chunks", len(chunks))

	vectors, err := s.embedAll(ctx, chunks)
	if err != nil {
		return nil, err
	}

	if err := s.store.EnsureVectorExtension(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure vector extension: %w", err)
	}

	records := make([]vectorstore.Record, len(chunks))
	for i, chunk := range chunks {
		records[i] = vectorstore.Record{
			Text:   chunk.Text,
			Source: chunk.Metadata.Source,
		}
	}

	if err := s.store.Replace(ctx, collection, records, vectors); err != nil {
		return nil, fmt.Errorf("failed to replace collection %q: %w", collection, err)
	}

	s.logger.Info("ingestion completed", "collection", collection, "chunks", len(chunks))
	return &Result{
		Collection: collection,
		Documents:  len(docs),
		Chunks:     len(chunks),
	}, nil
}

// embedAll は MaxBatchSize を超えないバッチに分けて全チャンクをEmbeddingする
// 出力ベクトル列の順序はチャンク列の順序と一致する
func (s *Service) embedAll(ctx context.Context, chunks []Chunk) ([][]float32, error) {
	if len(chunks) == 0 {
		return nil, nil
	}

	batchSize := s.embedder.MaxBatchSize()
	if batchSize <= 0 {
		batchSize = 1
	}

	vectors := make([][]float32, 0, len(chunks))
	for start := 0; start < len(chunks); start += batchSize {
		end := start + batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		texts := make([]string, 0, end-start)
		for _, chunk := range chunks[start:end] {
			texts = append(texts, chunk.Text)
		}

		batch, err := s.embedder.BatchEmbed(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("failed to embed batch [%d:%d]: %w", start, end, err)
		}
		if len(batch) != len(texts) {
			return nil, fmt.Errorf("embedding count mismatch: got %d vectors for %d texts", len(batch), len(texts))
		}
		vectors = append(vectors, batch...)
	}
	return vectors, nil
}
