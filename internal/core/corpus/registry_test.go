package corpus

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLoader struct {
	text string
}

func (l *stubLoader) Load(doc Document) (*LoadedContent, error) {
	return &LoadedContent{
		Text:     l.text,
		Metadata: &Metadata{Source: doc.Source},
	}, nil
}

type failingLoader struct{}

func (l *failingLoader) Load(doc Document) (*LoadedContent, error) {
	return nil, errors.New("malformed file")
}

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	registry := NewRegistry()
	for _, ext := range []string{".txt", ".md", ".pdf", ".csv", ".html"} {
		require.NoError(t, registry.Register(ext, &stubLoader{text: "content"}))
	}
	return registry
}

func TestRegistry_Register(t *testing.T) {
	t.Run("登録順が保存される", func(t *testing.T) {
		registry := newTestRegistry(t)
		assert.Equal(t, []string{".txt", ".md", ".pdf", ".csv", ".html"}, registry.Extensions())
	})

	t.Run("同一拡張子の二重登録はエラー", func(t *testing.T) {
		registry := NewRegistry()
		require.NoError(t, registry.Register(".txt", &stubLoader{}))
		err := registry.Register(".txt", &stubLoader{})
		assert.Error(t, err)
	})

	t.Run("ドットで始まらない拡張子はエラー", func(t *testing.T) {
		registry := NewRegistry()
		err := registry.Register("txt", &stubLoader{})
		assert.Error(t, err)
	})
}

func TestRegistry_Load(t *testing.T) {
	t.Run("拡張子に対応するローダーで読み込む", func(t *testing.T) {
		registry := newTestRegistry(t)
		content, err := registry.Load(Document{Source: "/docs/notes.txt", Ext: ".txt"})
		require.NoError(t, err)
		assert.Equal(t, "content", content.Text)
		assert.Equal(t, "/docs/notes.txt", content.Metadata.Source)
	})

	t.Run("未登録拡張子は LoadError", func(t *testing.T) {
		registry := newTestRegistry(t)
		_, err := registry.Load(Document{Source: "/docs/data.bin", Ext: ".bin"})
		var loadErr *LoadError
		require.ErrorAs(t, err, &loadErr)
		assert.Equal(t, "/docs/data.bin", loadErr.Source)
	})

	t.Run("ローダー失敗は原因を保持した LoadError", func(t *testing.T) {
		registry := NewRegistry()
		require.NoError(t, registry.Register(".pdf", &failingLoader{}))
		_, err := registry.Load(Document{Source: "/docs/broken.pdf", Ext: ".pdf"})
		var loadErr *LoadError
		require.ErrorAs(t, err, &loadErr)
		assert.Equal(t, "/docs/broken.pdf", loadErr.Source)
		assert.Contains(t, loadErr.Error(), "malformed file")
	})
}

func TestRegistry_ExtractFilename(t *testing.T) {
	registry := newTestRegistry(t)

	t.Run("フルパスからファイル名を抽出する", func(t *testing.T) {
		name, err := registry.ExtractFilename("/a/b/report.pdf")
		require.NoError(t, err)
		assert.Equal(t, "report.pdf", name)
	})

	t.Run("バックスラッシュ区切りのパスにも対応する", func(t *testing.T) {
		name, err := registry.ExtractFilename(`C:\docs\notes.txt`)
		require.NoError(t, err)
		assert.Equal(t, "notes.txt", name)
	})

	t.Run("ディレクトリ無しのパスはそのまま返す", func(t *testing.T) {
		name, err := registry.ExtractFilename("facts.md")
		require.NoError(t, err)
		assert.Equal(t, "facts.md", name)
	})

	t.Run("未登録拡張子は ErrNoMatchingExtension", func(t *testing.T) {
		_, err := registry.ExtractFilename("/a/b/data.json")
		assert.ErrorIs(t, err, ErrNoMatchingExtension)
	})

	t.Run("複合拡張子も後方一致で抽出できる", func(t *testing.T) {
		registry := NewRegistry()
		require.NoError(t, registry.Register(".txt.md", &stubLoader{}))
		require.NoError(t, registry.Register(".md", &stubLoader{}))
		name, err := registry.ExtractFilename("/docs/combo.txt.md")
		require.NoError(t, err)
		assert.Equal(t, "combo.txt.md", name)
	})
}
