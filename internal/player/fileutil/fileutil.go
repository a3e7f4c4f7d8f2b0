// Package fileutil はファイル操作のユーティリティ関数を提供します
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/shiroemons/go-webbms/internal/player/interfaces"
)

var (
	// ArchivePattern は譜面アーカイブ（.zip）のパターン
	ArchivePattern = regexp.MustCompile(`(?i)^[^.].*\.zip$`)

	// ChartPattern は譜面ファイルのパターン
	ChartPattern = regexp.MustCompile(`(?i)\.(bms|bme|bml|pms)$`)
)

// FileExists はファイルが存在するか確認します
func FileExists(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}

// IsChartFile はエントリ名が譜面ファイルかどうかを判定します
func IsChartFile(name string) bool {
	return ChartPattern.MatchString(name)
}

// SaveToFile はデータをファイルに保存します。出力先ディレクトリは必要に応じて作成します。
func SaveToFile(fs interfaces.FileSystem, outputPath string, data []byte) error {
	if dir := filepath.Dir(outputPath); dir != "." {
		if err := fs.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("%w: %w", ErrCreateDirectory, err)
		}
	}

	if err := fs.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteContent, err)
	}

	return nil
}

// GenerateOutputFilename は入力ファイル名から拡張子 ext の出力ファイル名を生成します
func GenerateOutputFilename(inputPath, ext string) string {
	baseName := filepath.Base(inputPath)
	baseName = strings.TrimSuffix(baseName, filepath.Ext(baseName))
	return baseName + ext
}

// SafeJoin はアーカイブ内のエントリ名を出力先ディレクトリ配下のパスに変換します
func SafeJoin(dir, entryName string) (string, error) {
	name := filepath.FromSlash(strings.ReplaceAll(entryName, "\\", "/"))
	if filepath.IsAbs(name) || filepath.VolumeName(name) != "" {
		return "", fmt.Errorf("%w: %s", ErrUnsafePath, entryName)
	}

	path := filepath.Join(dir, name)
	rel, err := filepath.Rel(dir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrUnsafePath, entryName)
	}
	return path, nil
}
