package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/shiroemons/go-webbms/internal/player/interfaces"
)

// OSFileSystem は実際のOSファイルシステムを使用する実装
type OSFileSystem struct{}

// NewOSFileSystem は新しいOSFileSystemを作成します
func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{}
}

// FileExists はファイルが存在するか確認します
func (fs *OSFileSystem) FileExists(filename string) bool {
	return FileExists(filename)
}

// ReadFile はファイルを読み込みます
func (fs *OSFileSystem) ReadFile(filename string) ([]byte, error) {
	return os.ReadFile(filename)
}

// WriteFile はファイルを書き込みます
func (fs *OSFileSystem) WriteFile(filename string, data []byte, perm uint32) error {
	return os.WriteFile(filename, data, os.FileMode(perm))
}

// MkdirAll はディレクトリを作成します
func (fs *OSFileSystem) MkdirAll(path string, perm uint32) error {
	return os.MkdirAll(path, os.FileMode(perm))
}

// Stat はファイル情報を取得します
func (fs *OSFileSystem) Stat(name string) (interfaces.FileInfo, error) {
	info, err := os.Stat(name)
	if err != nil {
		return nil, err
	}
	return info, nil
}

// ReadDir はディレクトリを読み込みます
func (fs *OSFileSystem) ReadDir(dirname string) ([]interfaces.DirEntry, error) {
	entries, err := os.ReadDir(dirname)
	if err != nil {
		return nil, err
	}

	result := make([]interfaces.DirEntry, len(entries))
	for i, entry := range entries {
		result[i] = entry
	}
	return result, nil
}

// Getwd は現在の作業ディレクトリを取得します
func (fs *OSFileSystem) Getwd() (string, error) {
	return os.Getwd()
}

// Executable は実行ファイルのパスを取得します
func (fs *OSFileSystem) Executable() (string, error) {
	return os.Executable()
}

// ArchiveFinder は.zipアーカイブの検索を行います
type ArchiveFinder struct {
	fs interfaces.FileSystem
}

// NewArchiveFinder は新しいArchiveFinderを作成します
func NewArchiveFinder(fs interfaces.FileSystem) *ArchiveFinder {
	return &ArchiveFinder{fs: fs}
}

// Find はカレントディレクトリ、次に実行ファイルのディレクトリから.zipファイルを検索します。
// 見つからない場合は空文字列を返します。
func (f *ArchiveFinder) Find() (string, error) {
	currentDir, err := f.fs.Getwd()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGetCurrentDirectory, err)
	}

	archives, err := f.findInDir(currentDir)
	if err != nil {
		return "", err
	}

	// カレントディレクトリで見つかった場合は他のディレクトリは検索しない
	if len(archives) == 0 {
		execPath, err := f.fs.Executable()
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrGetExecutablePath, err)
		}

		execDir := filepath.Dir(execPath)
		if execDir != currentDir {
			archives, err = f.findInDir(execDir)
			if err != nil {
				return "", err
			}
		}
	}

	switch len(archives) {
	case 0:
		return "", nil
	case 1:
		return archives[0], nil
	default:
		return "", f.createMultipleFilesError(archives)
	}
}

// findInDir は指定されたディレクトリ内の.zipファイルを検索します
func (f *ArchiveFinder) findInDir(dir string) ([]string, error) {
	files, err := f.fs.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrReadDirectory, dir, err)
	}

	var archives []string
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		if ArchivePattern.MatchString(file.Name()) {
			archives = append(archives, filepath.Join(dir, file.Name()))
		}
	}
	sort.Strings(archives)

	return archives, nil
}

// createMultipleFilesError は複数の.zipファイルが見つかった場合のエラーを生成します
func (f *ArchiveFinder) createMultipleFilesError(archives []string) error {
	fileNames := make([]string, len(archives))
	for i, path := range archives {
		fileNames[i] = filepath.Base(path)
	}
	return fmt.Errorf("%w: %s", ErrMultipleArchives, strings.Join(fileNames, ", "))
}
