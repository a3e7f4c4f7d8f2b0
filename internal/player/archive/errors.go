package archive

import "errors"

var (
	// ErrEmptyArchive はアーカイブにエントリが無い場合のエラー
	ErrEmptyArchive = errors.New("アーカイブ内にファイルが見つかりません")

	// ErrNoChartFound はアーカイブ内に譜面ファイルが無い場合のエラー
	ErrNoChartFound = errors.New("アーカイブ内に譜面ファイルが見つかりません")

	// ErrMultipleCharts は譜面ファイルが複数あり選択できない場合のエラー
	ErrMultipleCharts = errors.New("複数の譜面ファイルが見つかりました。--chart フラグで使用するファイルを指定してください")

	// ErrExtractFailed はファイルの展開に失敗した場合のエラー
	ErrExtractFailed = errors.New("ファイルの展開に失敗しました")
)
