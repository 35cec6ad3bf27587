package loader

import (
	"fmt"
	"os"

	"github.com/lu4p/cat"

	"github.com/jinford/doc-qa/internal/core/corpus"
)

// WordLoader はワープロ文書（docx / doc / rtf / odt）からテキストを抽出する
// 抽出ライブラリがファイルパスを要求するため、一時ファイル経由で処理する
type WordLoader struct{}

func (l *WordLoader) Load(doc corpus.Document) (*corpus.LoadedContent, error) {
	tmp, err := os.CreateTemp("", "doc-qa-*"+doc.Ext)
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(doc.Content); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to close temp file: %w", err)
	}

	text, err := cat.File(tmp.Name())
	if err != nil {
		return nil, fmt.Errorf("failed to extract word document: %w", err)
	}

	return &corpus.LoadedContent{
		Text:     text,
		Metadata: &corpus.Metadata{Source: doc.Source},
	}, nil
}

var _ corpus.Loader = (*WordLoader)(nil)
