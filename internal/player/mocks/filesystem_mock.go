// Package mocks はテスト用のモック実装を提供します
package mocks

import (
	"errors"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/shiroemons/go-webbms/internal/player/interfaces"
)

// ErrMockNotFound はモック内にファイルやディレクトリが存在しない場合のエラー
var ErrMockNotFound = errors.New("file not found")

// MockFileSystem はテスト用のファイルシステムモック。並列の書き込みに対応します。
type MockFileSystem struct {
	mu sync.Mutex

	Files      map[string][]byte
	Dirs       map[string]bool
	WorkingDir string
	ExecPath   string
	Error      error // 全操作を失敗させる
	WriteError error // WriteFile のみを失敗させる
}

// NewMockFileSystem は新しいMockFileSystemを作成します
func NewMockFileSystem() *MockFileSystem {
	return &MockFileSystem{
		Files:      make(map[string][]byte),
		Dirs:       make(map[string]bool),
		WorkingDir: "/test/dir",
		ExecPath:   "/test/exec/program",
	}
}

// FileExists はファイルが存在するか確認します
func (fs *MockFileSystem) FileExists(filename string) bool {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	_, exists := fs.Files[filename]
	return exists
}

// ReadFile はファイルを読み込みます
func (fs *MockFileSystem) ReadFile(filename string) ([]byte, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.Error != nil {
		return nil, fs.Error
	}
	data, exists := fs.Files[filename]
	if !exists {
		return nil, ErrMockNotFound
	}
	return data, nil
}

// WriteFile はファイルを書き込みます
func (fs *MockFileSystem) WriteFile(filename string, data []byte, perm uint32) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.Error != nil {
		return fs.Error
	}
	if fs.WriteError != nil {
		return fs.WriteError
	}
	fs.Files[filename] = append([]byte(nil), data...)
	return nil
}

// MkdirAll はディレクトリを作成します
func (fs *MockFileSystem) MkdirAll(path string, perm uint32) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.Error != nil {
		return fs.Error
	}
	for p := path; p != "." && p != "/" && p != ""; p = filepath.Dir(p) {
		fs.Dirs[p] = true
	}
	return nil
}

// Stat はファイル情報を取得します
func (fs *MockFileSystem) Stat(name string) (interfaces.FileInfo, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.Error != nil {
		return nil, fs.Error
	}
	if _, exists := fs.Files[name]; exists {
		return &MockFileInfo{name: filepath.Base(name), isDir: false}, nil
	}
	if fs.Dirs[name] {
		return &MockFileInfo{name: filepath.Base(name), isDir: true}, nil
	}
	return nil, ErrMockNotFound
}

// ReadDir はディレクトリを読み込みます。エントリは名前順です。
func (fs *MockFileSystem) ReadDir(dirname string) ([]interfaces.DirEntry, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.Error != nil {
		return nil, fs.Error
	}

	var entries []interfaces.DirEntry
	for path := range fs.Files {
		if filepath.Dir(path) == dirname {
			entries = append(entries, &MockFileInfo{name: filepath.Base(path)})
		}
	}
	for path := range fs.Dirs {
		if filepath.Dir(path) == dirname && path != dirname {
			entries = append(entries, &MockFileInfo{name: filepath.Base(path), isDir: true})
		}
	}

	// ファイルもディレクトリも無い場合は存在しないディレクトリとして扱う
	if len(entries) == 0 && !fs.Dirs[dirname] {
		return nil, ErrMockNotFound
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}

// Getwd は現在の作業ディレクトリを返します
func (fs *MockFileSystem) Getwd() (string, error) {
	if fs.Error != nil {
		return "", fs.Error
	}
	return fs.WorkingDir, nil
}

// Executable は実行ファイルのパスを返します
func (fs *MockFileSystem) Executable() (string, error) {
	if fs.Error != nil {
		return "", fs.Error
	}
	return fs.ExecPath, nil
}

// Written は書き込まれたファイルのパスを名前順で返します
func (fs *MockFileSystem) Written(dir string) []string {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	var paths []string
	for path := range fs.Files {
		if strings.HasPrefix(path, dir+string(filepath.Separator)) {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)
	return paths
}

// MockFileInfo はテスト用のFileInfoおよびDirEntry実装
type MockFileInfo struct {
	name  string
	isDir bool
}

// Name はファイル名を返します
func (fi *MockFileInfo) Name() string {
	return fi.name
}

// IsDir はディレクトリかどうかを返します
func (fi *MockFileInfo) IsDir() bool {
	return fi.isDir
}
