package loader

import (
	"bytes"

	"github.com/jinford/doc-qa/internal/core/corpus"
)

// utf8BOM はUTF-8のバイトオーダーマーク
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// TextLoader はプレーンテキストを読み込む
type TextLoader struct{}

func (l *TextLoader) Load(doc corpus.Document) (*corpus.LoadedContent, error) {
	content := bytes.TrimPrefix(doc.Content, utf8BOM)
	return &corpus.LoadedContent{
		Text:     string(content),
		Metadata: &corpus.Metadata{Source: doc.Source},
	}, nil
}

var _ corpus.Loader = (*TextLoader)(nil)
