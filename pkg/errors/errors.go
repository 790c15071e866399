// Package errors はプロジェクト全体のエラーハンドリングを提供します。
// 学習データ・モデルblob・価格計算それぞれの失敗を型付きエラーとして表現し、
// cockroachdb/errors によるスタックトレースを付与します。
package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	構造化されたエラー型
//
// ===========================================================================

// DataError is returned when a training table is empty or malformed.
// Row is the zero-based row index, or -1 when the failure concerns the whole table.
// Err is an optional sentinel such as ErrEmptyData.
type DataError struct {
	Op     string
	Row    int
	Field  string
	Reason string
	Err    error
}

func (e *DataError) Error() string {
	switch {
	case e.Row >= 0 && e.Field != "":
		return fmt.Sprintf("pricefactor: %s: row %d: field '%s': %s", e.Op, e.Row, e.Field, e.Reason)
	case e.Field != "":
		return fmt.Sprintf("pricefactor: %s: field '%s': %s", e.Op, e.Field, e.Reason)
	default:
		return fmt.Sprintf("pricefactor: %s: %s", e.Op, e.Reason)
	}
}

func (e *DataError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *DataError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("row", e.Row).
		Str("field", e.Field).
		Str("reason", e.Reason).
		Str("type", "DataError")
}

// NewDataError は新しいDataErrorを作成し、スタックトレースを付与します。
func NewDataError(op string, row int, field, reason string) error {
	err := &DataError{Op: op, Row: row, Field: field, Reason: reason}
	return errors.WithStack(err)
}

// NewEmptyDataError は空の学習テーブルを表すDataErrorを作成します。
// errors.Is(err, ErrEmptyData) で判定できます。
func NewEmptyDataError(op string) error {
	err := &DataError{Op: op, Row: -1, Reason: "empty training table", Err: ErrEmptyData}
	return errors.WithStack(err)
}

// SerializationError is returned when a model blob cannot be written or read back.
type SerializationError struct {
	Op  string
	Err error
}

func (e *SerializationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("pricefactor: %s: serialization failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("pricefactor: %s: serialization failed", e.Op)
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *SerializationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("type", "SerializationError")
}

// NewSerializationError は新しいSerializationErrorを作成し、スタックトレースを付与します。
func NewSerializationError(op string, err error) error {
	serErr := &SerializationError{Op: op, Err: err}
	return errors.WithStack(serErr)
}

// OrchestrationError wraps any failure surfaced while turning a prediction into a price.
type OrchestrationError struct {
	Op     string
	UserID string
	ItemID string
	Err    error
}

func (e *OrchestrationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("pricefactor: %s: user '%s', item '%s': %v", e.Op, e.UserID, e.ItemID, e.Err)
	}
	return fmt.Sprintf("pricefactor: %s: user '%s', item '%s'", e.Op, e.UserID, e.ItemID)
}

func (e *OrchestrationError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *OrchestrationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("user_id", e.UserID).
		Str("item_id", e.ItemID).
		Str("type", "OrchestrationError")
}

// NewOrchestrationError は新しいOrchestrationErrorを作成し、スタックトレースを付与します。
func NewOrchestrationError(op, userID, itemID string, err error) error {
	orchErr := &OrchestrationError{Op: op, UserID: userID, ItemID: itemID, Err: err}
	return errors.WithStack(orchErr)
}

// ValidationError は入力パラメータの検証に失敗した場合のエラーです。
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("pricefactor: validation failed for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError は新しいValidationErrorを作成し、スタックトレースを付与します。
func NewValidationError(param, reason string, value interface{}) error {
	err := &ValidationError{ParamName: param, Reason: reason, Value: value}
	return errors.WithStack(err)
}

// NumericalInstabilityError は数値計算が不安定になった場合のエラーです。
// SGDの発散（NaN、Inf）を検出します。
type NumericalInstabilityError struct {
	Operation string    // 発生した操作（例: "sgd_epoch"）
	Values    []float64 // 問題のある値
	Iteration int       // 発生したエポック番号
}

func (e *NumericalInstabilityError) Error() string {
	valStr := ""
	for i, v := range e.Values {
		if i > 0 {
			valStr += ", "
		}
		if i >= 5 {
			valStr += "..."
			break
		}
		valStr += fmt.Sprintf("%.6g", v)
	}
	return fmt.Sprintf("pricefactor: numerical instability detected in %s at iteration %d. Values: [%s]",
		e.Operation, e.Iteration, valStr)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *NumericalInstabilityError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Operation).
		Int("iteration", e.Iteration).
		Floats64("values", e.Values).
		Str("type", "NumericalInstabilityError")
}

// NewNumericalInstabilityError は新しいNumericalInstabilityErrorを作成します。
func NewNumericalInstabilityError(operation string, values []float64, iteration int) error {
	err := &NumericalInstabilityError{
		Operation: operation,
		Values:    values,
		Iteration: iteration,
	}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	cockroachdb/errors ラッパー関数
//
// ===========================================================================

// Is はエラーが特定のターゲットエラーかどうかを判定します。
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As はエラーが特定の型にキャスト可能かどうかを判定します。
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap は既存のエラーをメッセージ付きでラップします。
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf は既存のエラーをフォーマット文字列でラップします。
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New は新しいエラーを作成します。
func New(message string) error {
	return errors.New(message)
}

// Newf は新しいフォーマット済みエラーを作成します。
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack はエラーにスタックトレースを付与します。
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	共通エラー変数
//
// ===========================================================================

var (
	// ErrEmptyData は空のデータが渡された場合のエラーです。
	ErrEmptyData = New("empty data")

	// ErrNilPredictor は予測器が設定されていない場合のエラーです。
	ErrNilPredictor = New("nil predictor")

	// ErrNotFitted は未学習のモデルを保存・要約しようとした場合のエラーです。
	ErrNotFitted = New("model has not been fitted yet, call Fit first")
)
