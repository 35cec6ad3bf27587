package corpus

import (
	"fmt"
	"strings"
)

// Loader は単一フォーマットのドキュメントを正規化テキストへ変換する
// 実装は必ず LoadedContent.Metadata.Source に Document.Source を設定する
type Loader interface {
	Load(doc Document) (*LoadedContent, error)
}

// Registry は拡張子からローダーへのマッピングを表す
// 拡張子は大文字小文字を区別し、先頭のドットを含む
// 登録順を保持するため、ExtractFilename の先勝ちマッチは登録順で評価される
type Registry struct {
	exts    []string
	loaders map[string]Loader
}

// NewRegistry は空のレジストリを作成する
func NewRegistry() *Registry {
	return &Registry{
		loaders: make(map[string]Loader),
	}
}

// Register は拡張子にローダーを登録する
// ひとつの拡張子にはちょうどひとつのローダーのみ許される
func (r *Registry) Register(ext string, loader Loader) error {
	if !strings.HasPrefix(ext, ".") {
		return fmt.Errorf("extension must start with a dot: %q", ext)
	}
	if _, ok := r.loaders[ext]; ok {
		return fmt.Errorf("loader already registered for extension %q", ext)
	}
	r.exts = append(r.exts, ext)
	r.loaders[ext] = loader
	return nil
}

// Lookup は拡張子に対応するローダーを返す
func (r *Registry) Lookup(ext string) (Loader, bool) {
	loader, ok := r.loaders[ext]
	return loader, ok
}

// Supports は拡張子が登録済みかどうかを返す
func (r *Registry) Supports(ext string) bool {
	_, ok := r.loaders[ext]
	return ok
}

// Extensions は登録順の拡張子一覧を返す
func (r *Registry) Extensions() []string {
	exts := make([]string, len(r.exts))
	copy(exts, r.exts)
	return exts
}

// Load は Document の拡張子に応じたローダーで読み込む
// 解析失敗は LoadError として返す
func (r *Registry) Load(doc Document) (*LoadedContent, error) {
	loader, ok := r.loaders[doc.Ext]
	if !ok {
		return nil, &LoadError{Source: doc.Source, Err: fmt.Errorf("no loader for extension %q", doc.Ext)}
	}
	content, err := loader.Load(doc)
	if err != nil {
		return nil, &LoadError{Source: doc.Source, Err: err}
	}
	return content, nil
}

// ExtractFilename はフルパスから登録済み拡張子で終わるファイル名を抽出する
// 登録順で最初に後方一致した拡張子を採用する（最長一致ではない）
// 一致しない場合は ErrNoMatchingExtension を返す
func (r *Registry) ExtractFilename(path string) (string, error) {
	for _, ext := range r.exts {
		if !strings.HasSuffix(path, ext) {
			continue
		}
		name := path
		if i := strings.LastIndexAny(name, `/\`); i >= 0 {
			name = name[i+1:]
		}
		return name, nil
	}
	return "", fmt.Errorf("%w: %s", ErrNoMatchingExtension, path)
}
