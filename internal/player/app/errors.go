package app

import "errors"

var (
	// ErrNoArchive はアーカイブが指定されず、自動検出でも見つからない場合のエラー
	ErrNoArchive = errors.New("アーカイブファイルが指定されていません（.zip が見つかりませんでした）")

	// ErrLoadSession はセッションの作成に失敗した場合のエラー
	ErrLoadSession = errors.New("譜面の読み込みに失敗しました")

	// ErrSaveFile はファイルの保存に失敗した場合のエラー
	ErrSaveFile = errors.New("ファイルの保存に失敗しました")

	// ErrExportMIDI はMIDIへの変換に失敗した場合のエラー
	ErrExportMIDI = errors.New("MIDIへの変換に失敗しました")
)
