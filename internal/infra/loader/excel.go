package loader

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/jinford/doc-qa/internal/core/corpus"
)

// ExcelLoader はスプレッドシートからセルテキストを抽出する
// OOXML形式（xlsx）とレガシーバイナリ形式（xls）の両方を扱う
type ExcelLoader struct{}

func (l *ExcelLoader) Load(doc corpus.Document) (*corpus.LoadedContent, error) {
	var lines []string
	var err error
	if doc.Ext == ".xls" {
		lines, err = readLegacyWorkbook(doc.Content)
	} else {
		lines, err = readWorkbook(doc.Content)
	}
	if err != nil {
		return nil, err
	}

	return &corpus.LoadedContent{
		Text:     strings.Join(lines, "\n"),
		Metadata: &corpus.Metadata{Source: doc.Source},
	}, nil
}

// readWorkbook はxlsxブックの全シートを行単位のテキストへ変換する
func readWorkbook(content []byte) ([]string, error) {
	book, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer book.Close()

	var lines []string
	for _, sheet := range book.GetSheetList() {
		rows, err := book.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
		}
		lines = append(lines, joinRows(rows)...)
	}
	return lines, nil
}

// readLegacyWorkbook はBIFF形式のxlsブックを読み込む
func readLegacyWorkbook(content []byte) ([]string, error) {
	book, err := xls.OpenReader(bytes.NewReader(content), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("failed to open legacy spreadsheet: %w", err)
	}

	var lines []string
	for i := 0; i < book.NumSheets(); i++ {
		sheet := book.GetSheet(i)
		if sheet == nil {
			continue
		}
		var rows [][]string
		for r := 0; r <= int(sheet.MaxRow); r++ {
			row := sheet.Row(r)
			if row == nil {
				continue
			}
			var cells []string
			for c := row.FirstCol(); c <= row.LastCol(); c++ {
				cells = append(cells, row.Col(c))
			}
			rows = append(rows, cells)
		}
		lines = append(lines, joinRows(rows)...)
	}
	return lines, nil
}

// joinRows は空セルを除いた行をカンマ区切りのテキストへ整形する
func joinRows(rows [][]string) []string {
	var lines []string
	for _, row := range rows {
		cells := make([]string, 0, len(row))
		for _, cell := range row {
			if cell != "" {
				cells = append(cells, cell)
			}
		}
		if len(cells) > 0 {
			lines = append(lines, strings.Join(cells, ", "))
		}
	}
	return lines
}

var _ corpus.Loader = (*ExcelLoader)(nil)
