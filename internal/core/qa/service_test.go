package qa

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jinford/doc-qa/internal/core/corpus"
	"github.com/jinford/doc-qa/internal/core/vectorstore"
)

type stubLoader struct{}

func (stubLoader) Load(doc corpus.Document) (*corpus.LoadedContent, error) {
	return &corpus.LoadedContent{Text: string(doc.Content), Metadata: &corpus.Metadata{Source: doc.Source}}, nil
}

type fakeStore struct {
	identity    *vectorstore.IdentityRecord
	identityErr error
	results     []*vectorstore.SearchResult
	searchErr   error
	lastK       int
}

func (s *fakeStore) EnsureVectorExtension(ctx context.Context) error { return nil }

func (s *fakeStore) Replace(ctx context.Context, name string, records []vectorstore.Record, vectors [][]float32) error {
	return nil
}

func (s *fakeStore) Identity(ctx context.Context, name string) (*vectorstore.IdentityRecord, error) {
	if s.identityErr != nil {
		return nil, s.identityErr
	}
	return s.identity, nil
}

func (s *fakeStore) Search(ctx context.Context, name string, vector []float32, k int) ([]*vectorstore.SearchResult, error) {
	s.lastK = k
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	return s.results, nil
}

type fakeEmbedder struct {
	calls int
}

func (e *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	e.calls++
	return []float32{0.1, 0.2, 0.3}, nil
}

type fakeLLM struct {
	response string
	err      error
	calls    int
	prompts  []string
}

func (l *fakeLLM) GenerateCompletion(ctx context.Context, prompt string) (string, error) {
	l.calls++
	l.prompts = append(l.prompts, prompt)
	if l.err != nil {
		return "", l.err
	}
	return l.response, nil
}

func testRegistry(t *testing.T) *corpus.Registry {
	t.Helper()
	registry := corpus.NewRegistry()
	require.NoError(t, registry.Register(".txt", stubLoader{}))
	require.NoError(t, registry.Register(".md", stubLoader{}))
	return registry
}

func readyIdentity() *vectorstore.IdentityRecord {
	return &vectorstore.IdentityRecord{
		Name:          "text-embedding-3-small",
		UUID:          uuid.New(),
		HasEmbeddings: true,
	}
}

func TestService_Answer(t *testing.T) {
	t.Run("空の質問は検証ステップで拒否される", func(t *testing.T) {
		llm := &fakeLLM{response: "unused"}
		svc := NewService(&fakeStore{identity: readyIdentity()}, &fakeEmbedder{}, llm, testRegistry(t), "text-embedding-3-small")

		_, err := svc.Answer(context.Background(), "")
		require.ErrorIs(t, err, ErrInvalidQuestion)

		var stepError *StepError
		require.ErrorAs(t, err, &stepError)
		assert.Equal(t, StepValidate, stepError.Step)
		assert.Zero(t, llm.calls)
	})

	t.Run("コレクション未作成時は言語モデルを呼ばずに失敗する", func(t *testing.T) {
		store := &fakeStore{identityErr: vectorstore.ErrCollectionNotFound}
		embedder := &fakeEmbedder{}
		llm := &fakeLLM{response: "unused"}
		svc := NewService(store, embedder, llm, testRegistry(t), "text-embedding-3-small")

		_, err := svc.Answer(context.Background(), "What is the capital of France?")
		require.ErrorIs(t, err, vectorstore.ErrEmptyCollection)
		assert.Zero(t, embedder.calls)
		assert.Zero(t, llm.calls)
	})

	t.Run("Embeddingが空のコレクションも同様に失敗する", func(t *testing.T) {
		identity := readyIdentity()
		identity.HasEmbeddings = false
		llm := &fakeLLM{response: "unused"}
		svc := NewService(&fakeStore{identity: identity}, &fakeEmbedder{}, llm, testRegistry(t), "text-embedding-3-small")

		_, err := svc.Answer(context.Background(), "What is the capital of France?")
		require.ErrorIs(t, err, vectorstore.ErrEmptyCollection)
		assert.Zero(t, llm.calls)
	})

	t.Run("取得チャンクの出典がファイル名キーで返る", func(t *testing.T) {
		store := &fakeStore{
			identity: readyIdentity(),
			results: []*vectorstore.SearchResult{
				{Text: "Paris is the capital of France.", Source: "/docs/notes.txt", Score: 0.93},
				{Text: "France is in Western Europe.", Source: "/docs/facts.md", Score: 0.81},
			},
		}
		llm := &fakeLLM{response: "フランスの首都はパリです。"}
		svc := NewService(store, &fakeEmbedder{}, llm, testRegistry(t), "text-embedding-3-small")

		answer, err := svc.Answer(context.Background(), "What is the capital of France?")
		require.NoError(t, err)

		assert.Equal(t, "フランスの首都はパリです。", answer.Result)
		assert.Equal(t, map[string]string{
			"notes.txt": "Paris is the capital of France.",
			"facts.md":  "France is in Western Europe.",
		}, answer.RelevantDocuments)
		assert.Equal(t, DefaultTopK, store.lastK)

		// プロンプトには取得チャンクと質問の両方が埋め込まれる
		require.Len(t, llm.prompts, 1)
		assert.Contains(t, llm.prompts[0], "Paris is the capital of France.")
		assert.Contains(t, llm.prompts[0], "What is the capital of France?")
	})

	t.Run("関連度が低くても取得結果はそのまま返す", func(t *testing.T) {
		store := &fakeStore{
			identity: readyIdentity(),
			results: []*vectorstore.SearchResult{
				{Text: "The Eiffel Tower opened in 1889.", Source: "/docs/facts.md", Score: 0.02},
			},
		}
		svc := NewService(store, &fakeEmbedder{}, &fakeLLM{response: "関連情報は見つかりませんでした。"}, testRegistry(t), "text-embedding-3-small")

		answer, err := svc.Answer(context.Background(), "What color is the sky?")
		require.NoError(t, err)
		assert.Contains(t, answer.RelevantDocuments, "facts.md")
	})

	t.Run("WithTopK で検索件数を上書きできる", func(t *testing.T) {
		store := &fakeStore{identity: readyIdentity()}
		svc := NewService(store, &fakeEmbedder{}, &fakeLLM{response: "ok"}, testRegistry(t), "text-embedding-3-small", WithTopK(8))

		_, err := svc.Answer(context.Background(), "question")
		require.NoError(t, err)
		assert.Equal(t, 8, store.lastK)
	})

	t.Run("未登録拡張子の出典は出典整形ステップで失敗する", func(t *testing.T) {
		store := &fakeStore{
			identity: readyIdentity(),
			results: []*vectorstore.SearchResult{
				{Text: "binary blob", Source: "/docs/archive.bin", Score: 0.5},
			},
		}
		svc := NewService(store, &fakeEmbedder{}, &fakeLLM{response: "ok"}, testRegistry(t), "text-embedding-3-small")

		_, err := svc.Answer(context.Background(), "question")
		require.ErrorIs(t, err, corpus.ErrNoMatchingExtension)

		var stepError *StepError
		require.ErrorAs(t, err, &stepError)
		assert.Equal(t, StepProvenance, stepError.Step)
	})

	t.Run("言語モデル失敗は合成ステップとして報告される", func(t *testing.T) {
		store := &fakeStore{identity: readyIdentity()}
		llm := &fakeLLM{err: errors.New("rate limited")}
		svc := NewService(store, &fakeEmbedder{}, llm, testRegistry(t), "text-embedding-3-small")

		_, err := svc.Answer(context.Background(), "question")
		var stepError *StepError
		require.ErrorAs(t, err, &stepError)
		assert.Equal(t, StepSynthesize, stepError.Step)
		assert.Equal(t, 1, llm.calls)
	})
}
