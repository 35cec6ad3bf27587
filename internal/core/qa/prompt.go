package qa

import (
	"fmt"
	"strings"
)

// BuildStuffPrompt は取得済みチャンクを全件連結するスタッフ方式のプロンプトを構築する
// チャンクは類似度順のまま並べ、反復的な要約や再ランキングは行わない
func BuildStuffPrompt(question string, chunks []*RetrievedChunk) string {
	var sb strings.Builder

	sb.WriteString("あなたはドキュメントコーパスに基づいて質問に答えるアシスタントです。\n")
	sb.WriteString("以下のコンテキストに含まれる情報のみを使用して、質問に正確かつ簡潔に回答してください。\n")
	sb.WriteString("コンテキストから答えが分からない場合は、推測せずにその旨を述べてください。\n\n")

	sb.WriteString("## コンテキスト\n")
	if len(chunks) > 0 {
		for i, chunk := range chunks {
			sb.WriteString(fmt.Sprintf("### [断片 %d] 出典: %s\n", i+1, chunk.Source))
			sb.WriteString(chunk.Text)
			sb.WriteString("\n\n")
		}
	} else {
		sb.WriteString("(該当する断片はありません)\n\n")
	}

	sb.WriteString("## 質問\n")
	sb.WriteString(question)
	sb.WriteString("\n\n## 回答\n")

	return sb.String()
}
