package qa

// Answer は合成された回答と、その根拠となったチャンクの対応を表す
type Answer struct {
	// Result は言語モデルが合成した回答テキスト
	Result string `json:"result"`
	// RelevantDocuments は抽出したファイル名からチャンクテキストへの対応
	RelevantDocuments map[string]string `json:"relevant_documents"`
}

// RetrievedChunk は類似検索で取得したチャンクを表す
// Score の降順に並び、件数は top-k で上限が定まる
type RetrievedChunk struct {
	Text   string
	Source string
	Score  float64
}
