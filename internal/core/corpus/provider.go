package corpus

import "context"

// Mode はドキュメント取得元の環境モードを表す
type Mode string

const (
	// ModeLocal はローカルファイルシステムからの読み込み
	ModeLocal Mode = "local"
	// ModeProduction はオブジェクトストレージ（S3）からの読み込み
	ModeProduction Mode = "production"
)

// SourceProvider はストレージバックエンドから生ドキュメント列を供給する
// 登録済み拡張子のファイルのみを返し、取得元を変更しない（読み取り専用）
type SourceProvider interface {
	Documents(ctx context.Context) ([]Document, error)
}
