package archive

import (
	"fmt"
	"strings"

	playererrors "github.com/shiroemons/go-webbms/internal/player/errors"
	"github.com/shiroemons/go-webbms/internal/player/fileutil"
	"github.com/shiroemons/go-webbms/pkg/ziparc"
)

// DetectCharts はアーカイブ内の譜面ファイルをディレクトリ順で返します
func DetectCharts(a *ziparc.Archive) []string {
	var charts []string
	for _, name := range a.Names() {
		if fileutil.IsChartFile(name) {
			charts = append(charts, name)
		}
	}
	return charts
}

// SelectChart は使用する譜面のエントリ名を決定します。
// name が指定されていれば完全一致、次に大文字小文字を無視した一致で探します。
// 指定が無い場合は譜面ファイルが1つだけのときにそれを選びます。
func SelectChart(a *ziparc.Archive, name string) (string, error) {
	if name != "" {
		entry, ok := a.LookupFold(name)
		if !ok {
			return "", playererrors.NewEntryError(playererrors.OpSelect, "", name, playererrors.ErrChartNotFound)
		}
		return entry.Name, nil
	}

	charts := DetectCharts(a)
	switch len(charts) {
	case 0:
		return "", ErrNoChartFound
	case 1:
		return charts[0], nil
	default:
		return "", fmt.Errorf("%w: %s", ErrMultipleCharts, strings.Join(charts, ", "))
	}
}
