package fileutil

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shiroemons/go-webbms/internal/player/mocks"
)

func TestArchiveFinder_Find(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(*mocks.MockFileSystem)
		wantFile  string
		wantError error
		errorMsg  string
	}{
		{
			name: "カレントディレクトリに1つのzipファイル",
			setupMock: func(fs *mocks.MockFileSystem) {
				fs.WorkingDir = "/current"
				fs.Files["/current/Maid.zip"] = []byte("test")
				fs.Files["/current/readme.txt"] = []byte("test")
			},
			wantFile: "/current/Maid.zip",
		},
		{
			name: "カレントディレクトリに複数のzipファイル",
			setupMock: func(fs *mocks.MockFileSystem) {
				fs.WorkingDir = "/current"
				fs.Files["/current/Maid.zip"] = []byte("test")
				fs.Files["/current/Poppin.zip"] = []byte("test")
			},
			wantError: ErrMultipleArchives,
			errorMsg:  "Maid.zip, Poppin.zip",
		},
		{
			name: "実行ファイルディレクトリにzipファイル",
			setupMock: func(fs *mocks.MockFileSystem) {
				fs.WorkingDir = "/current"
				fs.ExecPath = "/exec/program"
				fs.Dirs["/current"] = true
				fs.Files["/exec/Heiseng.zip"] = []byte("test")
			},
			wantFile: "/exec/Heiseng.zip",
		},
		{
			name: "ディレクトリのzipは除外される",
			setupMock: func(fs *mocks.MockFileSystem) {
				fs.WorkingDir = "/current"
				fs.ExecPath = "/current/program"
				fs.Dirs["/current"] = true
				fs.Dirs["/current/unpacked.zip"] = true
			},
			wantFile: "",
		},
		{
			name: "Getwdエラー",
			setupMock: func(fs *mocks.MockFileSystem) {
				fs.WorkingDir = "/current"
				fs.Error = errors.New("read error")
			},
			wantError: ErrGetCurrentDirectory,
		},
		{
			name: "存在しないディレクトリ",
			setupMock: func(fs *mocks.MockFileSystem) {
				fs.WorkingDir = "/missing"
			},
			wantError: ErrReadDirectory,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := mocks.NewMockFileSystem()
			tt.setupMock(fs)

			finder := NewArchiveFinder(fs)
			result, err := finder.Find()

			if tt.wantError != nil {
				if !errors.Is(err, tt.wantError) {
					t.Fatalf("Expected error %v, got %v", tt.wantError, err)
				}
				if tt.errorMsg != "" && !strings.Contains(err.Error(), tt.errorMsg) {
					t.Errorf("Error message should contain '%s', got '%s'", tt.errorMsg, err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if result != tt.wantFile {
				t.Errorf("Expected file '%s', got '%s'", tt.wantFile, result)
			}
		})
	}
}

func TestOSFileSystem(t *testing.T) {
	fs := NewOSFileSystem()

	// FileExists のテスト（このファイル自体を使用）
	if !fs.FileExists("filesystem_test.go") {
		t.Error("FileExists should return true for existing file")
	}

	if fs.FileExists("nonexistent_file_xyz.go") {
		t.Error("FileExists should return false for non-existing file")
	}

	wd, err := fs.Getwd()
	if err != nil {
		t.Fatalf("Getwd failed: %v", err)
	}
	if wd == "" {
		t.Error("Getwd should return non-empty string")
	}

	exec, err := fs.Executable()
	if err != nil {
		t.Fatalf("Executable failed: %v", err)
	}
	if exec == "" {
		t.Error("Executable should return non-empty string")
	}
}

func TestOSFileSystem_ReadWrite(t *testing.T) {
	fs := NewOSFileSystem()
	tmpDir := t.TempDir()

	dir := filepath.Join(tmpDir, "a", "b")
	if err := fs.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}

	testFile := filepath.Join(dir, "kick.wav")
	testContent := []byte("RIFF")
	if err := fs.WriteFile(testFile, testContent, 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	data, err := fs.ReadFile(testFile)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != string(testContent) {
		t.Errorf("ReadFile content mismatch: got %s, want %s", data, testContent)
	}

	info, err := fs.Stat(dir)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if !info.IsDir() || info.Name() != "b" {
		t.Errorf("Stat returned unexpected info: %s dir=%v", info.Name(), info.IsDir())
	}

	entries, err := fs.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "kick.wav" {
		t.Errorf("ReadDir returned unexpected entries: %v", entries)
	}

	if _, err := fs.ReadFile(filepath.Join(tmpDir, "missing")); !os.IsNotExist(err) {
		t.Errorf("ReadFile should return not-exist error, got %v", err)
	}
}
