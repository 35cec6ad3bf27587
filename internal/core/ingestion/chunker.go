package ingestion

import (
	"strings"

	"github.com/jinford/doc-qa/internal/core/corpus"
)

const (
	// DefaultChunkSize はデフォルトのチャンク長（文字数）
	DefaultChunkSize = 4000
	// DefaultChunkOverlap はデフォルトの重複長（文字数）
	DefaultChunkOverlap = 200
	// DefaultMaxChunkTokens はEmbeddingモデルの入力上限に対するデフォルトのトークン上限
	DefaultMaxChunkTokens = 8191
)

// TokenCounter はテキストのトークン数をカウントするインターフェース
type TokenCounter interface {
	CountTokens(text string) int
}

// Chunk は正規化テキストから切り出した連続セグメントを表す
// Metadata は派生元ドキュメントの全チャンクで参照共有され、変更されない
type Chunk struct {
	Text     string
	Metadata *corpus.Metadata
}

// ChunkerConfig はチャンク分割の設定を表す
type ChunkerConfig struct {
	// ChunkSize はチャンクの最大文字数
	ChunkSize int
	// ChunkOverlap は隣接チャンク間の重複文字数
	ChunkOverlap int
	// MaxTokens はチャンクあたりのトークン上限（0 で上限なし）
	MaxTokens int
}

// DefaultChunkerConfig はデフォルトのチャンク設定を返す
func DefaultChunkerConfig() ChunkerConfig {
	return ChunkerConfig{
		ChunkSize:    DefaultChunkSize,
		ChunkOverlap: DefaultChunkOverlap,
		MaxTokens:    DefaultMaxChunkTokens,
	}
}

// separators は分割位置として優先する区切り文字列（優先順）
var separators = []string{"\n\n", "\n", " "}

// Chunker はテキストを重複付きの固定長チャンクへ分割する
// 純粋な変換であり、I/Oを伴わない
type Chunker struct {
	cfg     ChunkerConfig
	counter TokenCounter
}

// NewChunker は新しい Chunker を作成する
// counter が nil の場合、トークン上限の検査は行わない
func NewChunker(cfg ChunkerConfig, counter TokenCounter) *Chunker {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	if cfg.ChunkOverlap < 0 || cfg.ChunkOverlap >= cfg.ChunkSize {
		cfg.ChunkOverlap = DefaultChunkOverlap
	}
	return &Chunker{cfg: cfg, counter: counter}
}

// Split は LoadedContent を文書内順序を保ったままチャンク列へ分割する
// 重複分を取り除いて連結すると元のテキストを復元できる
func (c *Chunker) Split(content *corpus.LoadedContent) []Chunk {
	runes := []rune(content.Text)
	if len(runes) == 0 {
		return nil
	}

	var chunks []Chunk
	start := 0
	for start < len(runes) {
		end := start + c.cfg.ChunkSize
		if end >= len(runes) {
			end = len(runes)
		} else {
			end = c.adjustBoundary(runes, start, end)
		}

		end = c.shrinkToTokenLimit(runes, start, end)

		chunks = append(chunks, Chunk{
			Text:     string(runes[start:end]),
			Metadata: content.Metadata,
		})

		if end >= len(runes) {
			break
		}
		// 境界調整で end が重複長以下まで戻ることがあるため、開始位置の前進を保証する
		next := end - c.cfg.ChunkOverlap
		if next <= start {
			next = start + 1
		}
		start = next
	}
	return chunks
}

// adjustBoundary はウィンドウ末尾付近の区切り文字位置へ終端を調整する
// 見つからない場合はそのまま固定長で切る
func (c *Chunker) adjustBoundary(runes []rune, start, end int) int {
	window := string(runes[start:end])
	// 末尾側 20% の範囲でのみ区切りを探す
	minCut := len(window) - len(window)/5
	for _, sep := range separators {
		if i := strings.LastIndex(window, sep); i >= minCut {
			return start + len([]rune(window[:i+len(sep)]))
		}
	}
	return end
}

// shrinkToTokenLimit はチャンクがトークン上限を超える間、終端を半分ずつ詰める
// 次チャンクの開始位置が後退しないよう、重複長より短くは詰めない
func (c *Chunker) shrinkToTokenLimit(runes []rune, start, end int) int {
	if c.counter == nil || c.cfg.MaxTokens <= 0 {
		return end
	}
	floor := start + c.cfg.ChunkOverlap + 1
	for end > floor && c.counter.CountTokens(string(runes[start:end])) > c.cfg.MaxTokens {
		next := start + (end-start)/2
		if next < floor {
			next = floor
		}
		end = next
	}
	return end
}
