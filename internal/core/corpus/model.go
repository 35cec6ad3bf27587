package corpus

// Document はストレージから取得した生ドキュメントを表す
// ソースプロバイダが生成し、ローダーが一度だけ消費する
type Document struct {
	// Source はドキュメントの識別子（ファイルパスまたはオブジェクトキー）
	Source string
	// Ext は先頭のドットを含む拡張子（例: ".pdf"）
	Ext string
	// Content はドキュメントの生データ
	Content []byte
}

// Metadata はドキュメント由来のメタデータを表す
// 同一ドキュメントから派生した全チャンクが同じインスタンスを参照共有する
type Metadata struct {
	Source string `json:"source"`
}

// LoadedContent はローダーが正規化したテキストとメタデータを表す
// Metadata.Source は必ず元の Document ひとつに遡れる
type LoadedContent struct {
	Text     string
	Metadata *Metadata
}
