package tokenizer

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"

	"github.com/jinford/doc-qa/internal/core/ingestion"
)

// DefaultEncoding はOpenAI系Embeddingモデルが使用するエンコーディング
const DefaultEncoding = "cl100k_base"

// TiktokenCounter は tiktoken のBPEエンコーディングでトークン数をカウントする
type TiktokenCounter struct {
	encoding *tiktoken.Tiktoken
}

// NewTiktokenCounter は新しい TiktokenCounter を作成する
func NewTiktokenCounter() (*TiktokenCounter, error) {
	encoding, err := tiktoken.GetEncoding(DefaultEncoding)
	if err != nil {
		return nil, fmt.Errorf("failed to load encoding %s: %w", DefaultEncoding, err)
	}
	return &TiktokenCounter{encoding: encoding}, nil
}

// CountTokens はテキストのトークン数をカウントする
func (c *TiktokenCounter) CountTokens(text string) int {
	return len(c.encoding.Encode(text, nil, nil))
}

var _ ingestion.TokenCounter = (*TiktokenCounter)(nil)
