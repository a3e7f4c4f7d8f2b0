package ziparc

import (
	"errors"
	"fmt"
)

var (
	// ErrNoEndOfDirectory は終端レコードのシグネチャが見つからない場合のエラー
	ErrNoEndOfDirectory = errors.New("中央ディレクトリの終端レコードが見つかりません")

	// ErrTruncated はレコードやエントリがバッファの外を指している場合のエラー
	ErrTruncated = errors.New("アーカイブが途中で切れています")

	// ErrEntryNotFound はエントリが存在しない場合のエラー
	ErrEntryNotFound = errors.New("エントリが見つかりません")
)

// FormatError はアーカイブ構造の破損を表します
type FormatError struct {
	Offset int   // 問題を検出した位置
	Err    error // 元のエラー
}

// Error はエラーメッセージを返します
func (e *FormatError) Error() string {
	if e.Offset < 0 {
		return fmt.Sprintf("zip format: %v", e.Err)
	}
	return fmt.Sprintf("zip format at 0x%X: %v", e.Offset, e.Err)
}

// Unwrap は元のエラーを返します
func (e *FormatError) Unwrap() error {
	return e.Err
}

// EntryError はエントリ単位の操作で発生したエラー
type EntryError struct {
	Name string
	Err  error
}

// Error はエラーメッセージを返します
func (e *EntryError) Error() string {
	return fmt.Sprintf("%s: %v", e.Name, e.Err)
}

// Unwrap は元のエラーを返します
func (e *EntryError) Unwrap() error {
	return e.Err
}
