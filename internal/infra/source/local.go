package source

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jinford/doc-qa/internal/core/corpus"
)

// LocalProvider はローカルファイルシステムのツリーを再帰的に走査する
type LocalProvider struct {
	dir      string
	registry *corpus.Registry
}

// NewLocalProvider は新しい LocalProvider を作成する
func NewLocalProvider(dir string, registry *corpus.Registry) *LocalProvider {
	return &LocalProvider{dir: dir, registry: registry}
}

// Documents は登録済み拡張子のファイルを Document 列として返す
func (p *LocalProvider) Documents(ctx context.Context) ([]corpus.Document, error) {
	var docs []corpus.Document
	err := filepath.WalkDir(p.dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if entry.IsDir() {
			return nil
		}

		ext := filepath.Ext(path)
		if !p.registry.Supports(ext) {
			// 未対応の拡張子は列挙時に黙って読み飛ばす
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		docs = append(docs, corpus.Document{
			Source:  path,
			Ext:     ext,
			Content: content,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("source unavailable: failed to walk %s: %w", p.dir, err)
	}
	return docs, nil
}

var _ corpus.SourceProvider = (*LocalProvider)(nil)
