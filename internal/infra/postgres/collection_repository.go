package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"github.com/jinford/doc-qa/internal/core/vectorstore"
)

// CollectionRepository は vectorstore.Store を実装する PostgreSQL + pgvector リポジトリ。
// コレクション登録テーブルとベクトルテーブルの2つだけを所有する。
type CollectionRepository struct {
	pool *pgxpool.Pool
}

// NewCollectionRepository は新しい CollectionRepository を返す。
func NewCollectionRepository(pool *pgxpool.Pool) *CollectionRepository {
	return &CollectionRepository{pool: pool}
}

var _ vectorstore.Store = (*CollectionRepository)(nil)

// EnsureVectorExtension はvector拡張の存在を保証する。冪等。
func (r *CollectionRepository) EnsureVectorExtension(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS vector`); err != nil {
		return fmt.Errorf("failed to create vector extension: %w", err)
	}
	return nil
}

// ensureSchema は所有テーブルを作成する。冪等。
func (r *CollectionRepository) ensureSchema(ctx context.Context, tx pgx.Tx) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS doc_qa_collection (
	uuid UUID PRIMARY KEY,
	name TEXT NOT NULL UNIQUE
);
CREATE TABLE IF NOT EXISTS doc_qa_embedding (
	id BIGSERIAL PRIMARY KEY,
	collection_id UUID NOT NULL REFERENCES doc_qa_collection(uuid) ON DELETE CASCADE,
	document TEXT NOT NULL,
	source TEXT NOT NULL,
	embedding vector NOT NULL
);
CREATE INDEX IF NOT EXISTS doc_qa_embedding_collection_idx ON doc_qa_embedding (collection_id);
`
	if _, err := tx.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// Replace は同名コレクションを削除してから全ペアを新しい世代として挿入する。
// 削除と挿入は同一トランザクションで行うため、挿入失敗時は削除も巻き戻り、
// 旧世代と新世代が混在した状態は決して残らない。
func (r *CollectionRepository) Replace(ctx context.Context, name string, records []vectorstore.Record, vectors [][]float32) error {
	if len(records) != len(vectors) {
		return fmt.Errorf("%w: %d records, %d vectors", vectorstore.ErrCountMismatch, len(records), len(vectors))
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := r.ensureSchema(ctx, tx); err != nil {
		return err
	}

	// 事前削除: 同名コレクションの全世代を取り除く
	if _, err := tx.Exec(ctx, `DELETE FROM doc_qa_collection WHERE name = $1`, name); err != nil {
		return fmt.Errorf("failed to delete collection %q: %w", name, err)
	}

	collectionID := uuid.New()
	if _, err := tx.Exec(ctx,
		`INSERT INTO doc_qa_collection (uuid, name) VALUES ($1, $2)`,
		collectionID, name,
	); err != nil {
		return fmt.Errorf("failed to insert collection %q: %w", name, err)
	}

	batch := &pgx.Batch{}
	for i, record := range records {
		batch.Queue(
			`INSERT INTO doc_qa_embedding (collection_id, document, source, embedding) VALUES ($1, $2, $3, $4)`,
			collectionID, record.Text, record.Source, pgvector.NewVector(vectors[i]),
		)
	}
	results := tx.SendBatch(ctx, batch)
	for range records {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("failed to insert embeddings: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("failed to close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit replace of %q: %w", name, err)
	}
	return nil
}

// Identity はコレクションのuuidとベクトル有無を調べる。
func (r *CollectionRepository) Identity(ctx context.Context, name string) (*vectorstore.IdentityRecord, error) {
	var collectionID uuid.UUID
	err := r.pool.QueryRow(ctx,
		`SELECT uuid FROM doc_qa_collection WHERE name = $1`, name,
	).Scan(&collectionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %q", vectorstore.ErrCollectionNotFound, name)
		}
		return nil, fmt.Errorf("failed to find collection %q: %w", name, err)
	}

	var hasEmbeddings bool
	err = r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM doc_qa_embedding WHERE collection_id = $1)`, collectionID,
	).Scan(&hasEmbeddings)
	if err != nil {
		return nil, fmt.Errorf("failed to check embeddings for %q: %w", name, err)
	}

	return &vectorstore.IdentityRecord{
		Name:          name,
		UUID:          collectionID,
		HasEmbeddings: hasEmbeddings,
	}, nil
}

// Search はコサイン距離による類似度の上位k件を降順で返す。
// 関連度の低さで結果を間引くことはしない（コレクションが空でなければ必ずk件まで返す）。
func (r *CollectionRepository) Search(ctx context.Context, name string, vector []float32, k int) ([]*vectorstore.SearchResult, error) {
	rows, err := r.pool.Query(ctx, `
SELECT e.document, e.source, 1 - (e.embedding <=> $2) AS score
FROM doc_qa_embedding e
JOIN doc_qa_collection c ON c.uuid = e.collection_id
WHERE c.name = $1
ORDER BY e.embedding <=> $2
LIMIT $3`,
		name, pgvector.NewVector(vector), k,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search collection %q: %w", name, err)
	}
	defer rows.Close()

	var results []*vectorstore.SearchResult
	for rows.Next() {
		var result vectorstore.SearchResult
		if err := rows.Scan(&result.Text, &result.Source, &result.Score); err != nil {
			return nil, fmt.Errorf("failed to scan search result: %w", err)
		}
		results = append(results, &result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate search results: %w", err)
	}
	return results, nil
}
