package corpus

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedEnvironment は環境モードが local / production のいずれでもない場合のエラー
	ErrUnsupportedEnvironment = errors.New("unsupported environment: set ENV to either 'local' or 'production'")

	// ErrNoMatchingExtension は登録済み拡張子がパス末尾に一致しない場合のエラー
	// コーパスとレジストリの不整合を示すため、握りつぶさずに報告する
	ErrNoMatchingExtension = errors.New("no registered extension matches the path")
)

// LoadError はローダーの解析失敗を表す
// どのドキュメントで失敗したかを Source で保持する
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
