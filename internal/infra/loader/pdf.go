package loader

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dslipak/pdf"

	"github.com/jinford/doc-qa/internal/core/corpus"
)

// pageExtractTimeout は1ページあたりのテキスト抽出タイムアウト
// 壊れたPDFでの抽出ハングを打ち切るための上限
const pageExtractTimeout = 10 * time.Second

// PDFLoader はPDFからページ単位でプレーンテキストを抽出する
type PDFLoader struct{}

func (l *PDFLoader) Load(doc corpus.Document) (*corpus.LoadedContent, error) {
	reader, err := pdf.NewReader(bytes.NewReader(doc.Content), int64(len(doc.Content)))
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}

	var pages []string
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		content, err := extractPageText(page)
		if err != nil {
			return nil, fmt.Errorf("failed to extract page %d: %w", i, err)
		}
		pages = append(pages, content)
	}

	return &corpus.LoadedContent{
		Text:     strings.Join(pages, "\n"),
		Metadata: &corpus.Metadata{Source: doc.Source},
	}, nil
}

// extractPageText はページのテキスト抽出をタイムアウト付きで実行する
func extractPageText(page pdf.Page) (string, error) {
	type result struct {
		content string
		err     error
	}
	resCh := make(chan result, 1)

	go func() {
		content, err := page.GetPlainText(nil)
		resCh <- result{content, err}
	}()

	select {
	case r := <-resCh:
		return r.content, r.err
	case <-time.After(pageExtractTimeout):
		return "", errors.New("page text extraction timed out")
	}
}

var _ corpus.Loader = (*PDFLoader)(nil)
