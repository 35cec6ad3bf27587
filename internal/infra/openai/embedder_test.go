package openai

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmbedder(t *testing.T) {
	t.Run("APIキー未設定はエラー", func(t *testing.T) {
		_, err := NewEmbedder("")
		assert.ErrorIs(t, err, ErrAPIKeyNotSet)
	})

	t.Run("デフォルト設定", func(t *testing.T) {
		embedder, err := NewEmbedder("sk-test")
		require.NoError(t, err)
		assert.Equal(t, DefaultEmbeddingModel, embedder.ModelName())
		assert.Equal(t, DefaultEmbeddingDimension, embedder.Dimension())
		assert.Equal(t, maxEmbeddingBatch, embedder.MaxBatchSize())
	})

	t.Run("オプションで上書きできる", func(t *testing.T) {
		embedder, err := NewEmbedder("sk-test",
			WithEmbeddingModel("text-embedding-3-large"),
			WithEmbeddingDimension(3072),
			WithNormalization(false),
		)
		require.NoError(t, err)
		assert.Equal(t, "text-embedding-3-large", embedder.ModelName())
		assert.Equal(t, 3072, embedder.Dimension())
	})
}

func TestL2Normalize(t *testing.T) {
	t.Run("ノルムが1になる", func(t *testing.T) {
		vector := []float32{3, 4}
		l2Normalize(vector)

		assert.InDelta(t, 0.6, vector[0], 1e-6)
		assert.InDelta(t, 0.8, vector[1], 1e-6)

		var sum float64
		for _, v := range vector {
			sum += float64(v) * float64(v)
		}
		assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-6)
	})

	t.Run("ゼロベクトルは変更しない", func(t *testing.T) {
		vector := []float32{0, 0, 0}
		l2Normalize(vector)
		assert.Equal(t, []float32{0, 0, 0}, vector)
	})
}
