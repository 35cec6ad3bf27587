package qa

import (
	"errors"
	"fmt"
)

// ErrInvalidQuestion は質問テキストが空の場合のエラー
var ErrInvalidQuestion = errors.New("no question provided")

// Step は質問応答の処理ステップを表す
type Step string

const (
	StepValidate   Step = "validate"
	StepResolve    Step = "resolve"
	StepEmbed      Step = "embed"
	StepRetrieve   Step = "retrieve"
	StepSynthesize Step = "synthesize"
	StepProvenance Step = "provenance"
)

// StepError は失敗したステップと原因を保持する
// 原因はそのまま呼び出し元へ伝搬される
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

func stepErr(step Step, err error) error {
	return &StepError{Step: step, Err: err}
}
