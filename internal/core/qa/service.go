package qa

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jinford/doc-qa/internal/core/corpus"
	"github.com/jinford/doc-qa/internal/core/vectorstore"
)

// DefaultTopK はデフォルトの類似検索件数
const DefaultTopK = 4

// Embedder は質問テキストのEmbedding生成インターフェース
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// LLMClient は言語モデル通信インターフェース
type LLMClient interface {
	GenerateCompletion(ctx context.Context, prompt string) (string, error)
}

// Answerer は質問応答のエントリポイント
type Answerer interface {
	Answer(ctx context.Context, question string) (*Answer, error)
}

// Service は検索条件付き生成による質問応答を提供する
// クエリ間で状態を持たない
type Service struct {
	store      vectorstore.Store
	embedder   Embedder
	llm        LLMClient
	registry   *corpus.Registry
	collection string
	topK       int
	logger     *slog.Logger
}

type ServiceOption func(*Service)

// WithTopK は類似検索の件数を設定する
func WithTopK(k int) ServiceOption {
	return func(s *Service) {
		if k > 0 {
			s.topK = k
		}
	}
}

// WithLogger は Service にロガーを設定する
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService は新しい Service を作成する
// collection は問い合わせ対象のコレクション名（Embeddingモデル名）
func NewService(
	store vectorstore.Store,
	embedder Embedder,
	llm LLMClient,
	registry *corpus.Registry,
	collection string,
	opts ...ServiceOption,
) *Service {
	svc := &Service{
		store:      store,
		embedder:   embedder,
		llm:        llm,
		registry:   registry,
		collection: collection,
		topK:       DefaultTopK,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

var _ Answerer = (*Service)(nil)

// Answer は質問に対して検索条件付き生成で回答を合成する
// 検証 → コレクション確認 → Embedding → 検索 → 合成 → 出典整形 の順に進み、
// いずれかのステップで失敗した場合はステップ名と原因を保持したまま中断する
func (s *Service) Answer(ctx context.Context, question string) (*Answer, error) {
	if question == "" {
		return nil, stepErr(StepValidate, ErrInvalidQuestion)
	}

	// 言語モデルを呼ぶ前に、コレクションが問い合わせ可能であることを確認する
	identity, err := s.store.Identity(ctx, s.collection)
	if err != nil {
		if errors.Is(err, vectorstore.ErrCollectionNotFound) {
			return nil, stepErr(StepResolve, fmt.Errorf("%w: collection %q", vectorstore.ErrEmptyCollection, s.collection))
		}
		return nil, stepErr(StepResolve, err)
	}
	if !identity.HasEmbeddings {
		return nil, stepErr(StepResolve, fmt.Errorf("%w: collection %q", vectorstore.ErrEmptyCollection, s.collection))
	}

	s.logger.Info("answering question", "collection", s.collection, "uuid", identity.UUID.String())

	vector, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return nil, stepErr(StepEmbed, err)
	}

	results, err := s.store.Search(ctx, s.collection, vector, s.topK)
	if err != nil {
		return nil, stepErr(StepRetrieve, err)
	}

	chunks := make([]*RetrievedChunk, 0, len(results))
	for _, r := range results {
		chunks = append(chunks, &RetrievedChunk{
			Text:   r.Text,
			Source: r.Source,
			Score:  r.Score,
		})
	}
	s.logger.Info("retrieval completed", "chunks", len(chunks))

	prompt := BuildStuffPrompt(question, chunks)
	result, err := s.llm.GenerateCompletion(ctx, prompt)
	if err != nil {
		return nil, stepErr(StepSynthesize, err)
	}

	relevant, err := s.mapBySourceFilename(chunks)
	if err != nil {
		return nil, stepErr(StepProvenance, err)
	}

	s.logger.Info("answer synthesized", "answerLength", len(result), "sources", len(relevant))
	return &Answer{
		Result:            result,
		RelevantDocuments: relevant,
	}, nil
}

// mapBySourceFilename は各チャンクの出典パスから短いファイル名を導出し、
// ファイル名→チャンクテキストの対応を構築する
// 未登録拡張子の出典はコーパスとレジストリの不整合なので失敗させる
func (s *Service) mapBySourceFilename(chunks []*RetrievedChunk) (map[string]string, error) {
	relevant := make(map[string]string, len(chunks))
	for _, chunk := range chunks {
		name, err := s.registry.ExtractFilename(chunk.Source)
		if err != nil {
			return nil, err
		}
		relevant[name] = chunk.Text
	}
	return relevant, nil
}
