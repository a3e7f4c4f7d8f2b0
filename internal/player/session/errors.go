package session

import "errors"

var (
	// ErrDecodeChart は譜面の文字コード変換に失敗した場合のエラー
	ErrDecodeChart = errors.New("譜面の文字コード変換に失敗しました")

	// ErrPreloadSounds は音声の事前読み込みで失敗があった場合のエラー
	ErrPreloadSounds = errors.New("一部の音声を読み込めませんでした")
)
