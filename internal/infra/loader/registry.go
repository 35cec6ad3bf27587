package loader

import (
	"fmt"

	"github.com/jinford/doc-qa/internal/core/corpus"
)

// DefaultRegistry は全サポートフォーマットを登録済みのレジストリを作成する
// 登録順はファイル名抽出の先勝ちマッチ順として保存される
func DefaultRegistry() *corpus.Registry {
	registry := corpus.NewRegistry()

	entries := []struct {
		ext    string
		loader corpus.Loader
	}{
		{".txt", &TextLoader{}},
		{".md", &MarkdownLoader{}},
		{".pdf", &PDFLoader{}},
		{".csv", &CSVLoader{}},
		{".xls", &ExcelLoader{}},
		{".xlsx", &ExcelLoader{}},
		{".docx", &WordLoader{}},
		{".doc", &WordLoader{}},
		{".html", &HTMLLoader{}},
		{".pptx", &PowerPointLoader{}},
	}
	for _, e := range entries {
		if err := registry.Register(e.ext, e.loader); err != nil {
			// 登録は静的なリテラルのみなので失敗は実装バグ
			panic(fmt.Sprintf("default registry: %v", err))
		}
	}
	return registry
}
