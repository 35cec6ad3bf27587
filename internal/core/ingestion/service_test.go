package ingestion

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jinford/doc-qa/internal/core/corpus"
	"github.com/jinford/doc-qa/internal/core/vectorstore"
)

type fakeProvider struct {
	docs []corpus.Document
	err  error
}

func (p *fakeProvider) Documents(ctx context.Context) ([]corpus.Document, error) {
	return p.docs, p.err
}

type passthroughLoader struct{}

func (passthroughLoader) Load(doc corpus.Document) (*corpus.LoadedContent, error) {
	return &corpus.LoadedContent{
		Text:     string(doc.Content),
		Metadata: &corpus.Metadata{Source: doc.Source},
	}, nil
}

type brokenLoader struct{}

func (brokenLoader) Load(doc corpus.Document) (*corpus.LoadedContent, error) {
	return nil, errors.New("parse failure")
}

type fakeEmbedder struct {
	batchSize  int
	batchCalls int
}

func (e *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return []float32{1, 0, 0}, nil
}

func (e *fakeEmbedder) BatchEmbed(ctx context.Context, texts []string) ([][]float32, error) {
	e.batchCalls++
	if len(texts) > e.batchSize {
		return nil, fmt.Errorf("batch size %d exceeds maximum", len(texts))
	}
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{float32(i), 0, 0}
	}
	return vectors, nil
}

func (e *fakeEmbedder) ModelName() string { return "fake-embedding-model" }
func (e *fakeEmbedder) Dimension() int    { return 3 }
func (e *fakeEmbedder) MaxBatchSize() int { return e.batchSize }

// fakeStore はコレクション置換を記録するインメモリストア
type fakeStore struct {
	collections map[string][]vectorstore.Record
	ensured     int
}

func newFakeStore() *fakeStore {
	return &fakeStore{collections: make(map[string][]vectorstore.Record)}
}

func (s *fakeStore) EnsureVectorExtension(ctx context.Context) error {
	s.ensured++
	return nil
}

func (s *fakeStore) Replace(ctx context.Context, name string, records []vectorstore.Record, vectors [][]float32) error {
	if len(records) != len(vectors) {
		return vectorstore.ErrCountMismatch
	}
	s.collections[name] = records
	return nil
}

func (s *fakeStore) Identity(ctx context.Context, name string) (*vectorstore.IdentityRecord, error) {
	return nil, vectorstore.ErrCollectionNotFound
}

func (s *fakeStore) Search(ctx context.Context, name string, vector []float32, k int) ([]*vectorstore.SearchResult, error) {
	return nil, nil
}

func newTestService(t *testing.T, provider corpus.SourceProvider, store vectorstore.Store, embedder Embedder) *Service {
	t.Helper()
	registry := corpus.NewRegistry()
	require.NoError(t, registry.Register(".txt", passthroughLoader{}))
	require.NoError(t, registry.Register(".md", passthroughLoader{}))
	require.NoError(t, registry.Register(".pdf", brokenLoader{}))

	chunker := NewChunker(ChunkerConfig{ChunkSize: 50, ChunkOverlap: 10}, nil)
	return NewService(provider, registry, chunker, embedder, store)
}

func TestService_Ingest(t *testing.T) {
	docs := []corpus.Document{
		{Source: "/docs/notes.txt", Ext: ".txt", Content: []byte("Paris is the capital of France.")},
		{Source: "/docs/facts.md", Ext: ".md", Content: []byte("The Eiffel Tower is in Paris.")},
	}

	t.Run("全ドキュメントが取り込まれる", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(t, &fakeProvider{docs: docs}, store, &fakeEmbedder{batchSize: 100})

		result, err := svc.Ingest(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "fake-embedding-model", result.Collection)
		assert.Equal(t, 2, result.Documents)
		assert.Equal(t, 2, result.Chunks)
		assert.Equal(t, 1, store.ensured)

		records := store.collections["fake-embedding-model"]
		require.Len(t, records, 2)
		assert.Equal(t, "/docs/notes.txt", records[0].Source)
		assert.Equal(t, "/docs/facts.md", records[1].Source)
	})

	t.Run("再実行してもベクトル数は倍にならない", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(t, &fakeProvider{docs: docs}, store, &fakeEmbedder{batchSize: 100})

		_, err := svc.Ingest(context.Background())
		require.NoError(t, err)
		first := len(store.collections["fake-embedding-model"])

		_, err = svc.Ingest(context.Background())
		require.NoError(t, err)
		second := len(store.collections["fake-embedding-model"])

		assert.Equal(t, first, second)
	})

	t.Run("バッチ上限を超えるチャンクは分割して埋め込む", func(t *testing.T) {
		manyDocs := make([]corpus.Document, 5)
		for i := range manyDocs {
			manyDocs[i] = corpus.Document{
				Source:  fmt.Sprintf("/docs/doc%d.txt", i),
				Ext:     ".txt",
				Content: []byte("some short content"),
			}
		}
		store := newFakeStore()
		embedder := &fakeEmbedder{batchSize: 2}
		svc := newTestService(t, &fakeProvider{docs: manyDocs}, store, embedder)

		result, err := svc.Ingest(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 5, result.Chunks)
		assert.Equal(t, 3, embedder.batchCalls)
	})

	t.Run("ローダー失敗は実行全体を中断する", func(t *testing.T) {
		withBroken := append([]corpus.Document{}, docs...)
		withBroken = append(withBroken, corpus.Document{Source: "/docs/broken.pdf", Ext: ".pdf", Content: []byte("x")})

		store := newFakeStore()
		svc := newTestService(t, &fakeProvider{docs: withBroken}, store, &fakeEmbedder{batchSize: 100})

		_, err := svc.Ingest(context.Background())
		var loadErr *corpus.LoadError
		require.ErrorAs(t, err, &loadErr)
		assert.Equal(t, "/docs/broken.pdf", loadErr.Source)
		assert.Empty(t, store.collections)
	})

	t.Run("列挙失敗は中断する", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(t, &fakeProvider{err: errors.New("bucket unreachable")}, store, &fakeEmbedder{batchSize: 100})

		_, err := svc.Ingest(context.Background())
		assert.ErrorContains(t, err, "bucket unreachable")
		assert.Empty(t, store.collections)
	})
}
