package loader

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/jinford/doc-qa/internal/core/corpus"
)

// CSVLoader はCSVを1行1レコードのテキストへ正規化する
type CSVLoader struct{}

func (l *CSVLoader) Load(doc corpus.Document) (*corpus.LoadedContent, error) {
	reader := csv.NewReader(bytes.NewReader(doc.Content))
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, strings.Join(row, ", "))
	}

	return &corpus.LoadedContent{
		Text:     strings.Join(lines, "\n"),
		Metadata: &corpus.Metadata{Source: doc.Source},
	}, nil
}

var _ corpus.Loader = (*CSVLoader)(nil)
