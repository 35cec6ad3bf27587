package loader

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/jinford/doc-qa/internal/core/corpus"
)

// HTMLLoader はHTMLからテキストノードのみを取り出す
// script / style 要素の中身は除外する
type HTMLLoader struct{}

func (l *HTMLLoader) Load(doc corpus.Document) (*corpus.LoadedContent, error) {
	root, err := html.Parse(bytes.NewReader(doc.Content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}

	var parts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				parts = append(parts, text)
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(root)

	return &corpus.LoadedContent{
		Text:     strings.Join(parts, "\n"),
		Metadata: &corpus.Metadata{Source: doc.Source},
	}, nil
}

var _ corpus.Loader = (*HTMLLoader)(nil)
