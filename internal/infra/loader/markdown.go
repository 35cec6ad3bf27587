package loader

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/jinford/doc-qa/internal/core/corpus"
)

// MarkdownLoader はMarkdownをASTとして解釈し、装飾を除いたテキストへ正規化する
type MarkdownLoader struct{}

func (l *MarkdownLoader) Load(doc corpus.Document) (*corpus.LoadedContent, error) {
	src := doc.Content
	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(src))

	var sb strings.Builder
	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			// ブロック境界を改行として残す
			if n.Type() == ast.TypeBlock && sb.Len() > 0 {
				sb.WriteString("\n")
			}
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Text:
			sb.Write(node.Segment.Value(src))
			if node.SoftLineBreak() || node.HardLineBreak() {
				sb.WriteString("\n")
			}
		case *ast.FencedCodeBlock:
			writeRawLines(&sb, node, src)
		case *ast.CodeBlock:
			writeRawLines(&sb, node, src)
		case *ast.AutoLink:
			sb.Write(node.URL(src))
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk markdown AST: %w", err)
	}

	return &corpus.LoadedContent{
		Text:     strings.TrimSpace(sb.String()),
		Metadata: &corpus.Metadata{Source: doc.Source},
	}, nil
}

// writeRawLines はコードブロックの行をそのまま書き出す
func writeRawLines(sb *strings.Builder, node ast.Node, src []byte) {
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		sb.Write(segment.Value(src))
	}
}

var _ corpus.Loader = (*MarkdownLoader)(nil)
