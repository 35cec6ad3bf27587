package vectorstore

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrCollectionNotFound は指定名のコレクションが存在しない場合のエラー
	ErrCollectionNotFound = errors.New("collection not found")

	// ErrEmptyCollection はベクトル未登録のコレクションへ問い合わせた場合のエラー
	// 空の検索結果を返して混乱させるのではなく、インジェスト実行を促すために即座に失敗させる
	ErrEmptyCollection = errors.New("collection has no embeddings: run ingestion first")

	// ErrCountMismatch はチャンク数とベクトル数が一致しない場合のエラー
	ErrCountMismatch = errors.New("record count does not match vector count")
)

// Record はコレクションに格納するチャンク内容を表す
type Record struct {
	// Text はチャンクのテキスト
	Text string
	// Source は派生元ドキュメントの識別子
	Source string
}

// IdentityRecord はコレクションの同一性情報を表す
// 検索実行前の前提条件チェックに使用する
type IdentityRecord struct {
	Name          string
	UUID          uuid.UUID
	HasEmbeddings bool
}

// SearchResult は類似検索の結果1件を表す
type SearchResult struct {
	Text   string
	Source string
	// Score は類似度（コサイン距離の補数）。降順に並ぶ
	Score float64
}

// Store はベクトルストア内の名前付きコレクションのライフサイクルを管理する
type Store interface {
	// EnsureVectorExtension はベクトル型サポートを検証し、なければ作成する
	// 冪等であり、インジェスト実行のたびに呼んで安全
	EnsureVectorExtension(ctx context.Context) error

	// Replace は同名の既存コレクションを削除してから全ペアを新規挿入する
	// 前世代のデータが残留した混在状態は生じない（削除が先行するため）
	Replace(ctx context.Context, name string, records []Record, vectors [][]float32) error

	// Identity はコレクションの内部識別子とベクトル有無を調べる
	// 存在しない場合は ErrCollectionNotFound を返す
	Identity(ctx context.Context, name string) (*IdentityRecord, error)

	// Search はコレクションに対して類似度の上位k件を返す
	// 関連度が低くてもコレクションが空でない限り結果を空にしない（ベストエフォート）
	Search(ctx context.Context, name string, vector []float32, k int) ([]*SearchResult, error)
}
