package loader

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/jinford/doc-qa/internal/core/corpus"
)

// PowerPointLoader はOOXML形式のスライド（pptx）からテキストランを抽出する
type PowerPointLoader struct{}

func (l *PowerPointLoader) Load(doc corpus.Document) (*corpus.LoadedContent, error) {
	archive, err := zip.NewReader(bytes.NewReader(doc.Content), int64(len(doc.Content)))
	if err != nil {
		return nil, fmt.Errorf("failed to open slide archive: %w", err)
	}

	slides := collectParts(archive, "ppt/slides/slide")
	var lines []string
	for _, file := range slides {
		texts, err := readSlideTexts(file)
		if err != nil {
			return nil, err
		}
		lines = append(lines, texts...)
	}

	return &corpus.LoadedContent{
		Text:     strings.Join(lines, "\n"),
		Metadata: &corpus.Metadata{Source: doc.Source},
	}, nil
}

// readSlideTexts はスライドXML中の a:t 要素のテキストを出現順に集める
func readSlideTexts(file *zip.File) ([]string, error) {
	data, err := readZipFile(file)
	if err != nil {
		return nil, err
	}

	decoder := xml.NewDecoder(bytes.NewReader(data))
	var texts []string
	var inTextRun bool
	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		switch t := token.(type) {
		case xml.StartElement:
			inTextRun = t.Name.Local == "t"
		case xml.EndElement:
			inTextRun = false
		case xml.CharData:
			if inTextRun {
				if text := strings.TrimSpace(string(t)); text != "" {
					texts = append(texts, text)
				}
			}
		}
	}
	return texts, nil
}

// collectParts はプレフィックスに一致するパートを番号順に集める
func collectParts(archive *zip.Reader, prefix string) []*zip.File {
	var files []*zip.File
	for _, file := range archive.File {
		if strings.HasPrefix(file.Name, prefix) && strings.HasSuffix(file.Name, ".xml") {
			files = append(files, file)
		}
	}
	sort.Slice(files, func(i, j int) bool {
		return partNumber(files[i].Name) < partNumber(files[j].Name)
	})
	return files
}

// partNumber はパート名末尾の連番を取り出す（slide2.xml -> 2）
func partNumber(name string) int {
	base := strings.TrimSuffix(name, ".xml")
	i := len(base)
	for i > 0 && base[i-1] >= '0' && base[i-1] <= '9' {
		i--
	}
	n, err := strconv.Atoi(base[i:])
	if err != nil {
		return 0
	}
	return n
}

func readZipFile(file *zip.File) ([]byte, error) {
	rc, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open archive part %s: %w", file.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read archive part %s: %w", file.Name, err)
	}
	return data, nil
}

var _ corpus.Loader = (*PowerPointLoader)(nil)
