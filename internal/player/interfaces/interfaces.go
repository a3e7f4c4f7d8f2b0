// Package interfaces はwebbmsコマンドで使用するインターフェースを定義します
package interfaces

import (
	"time"

	"github.com/shiroemons/go-webbms/internal/player/models"
)

// FileSystem はファイルシステム操作のインターフェース
type FileSystem interface {
	FileExists(filename string) bool
	ReadFile(filename string) ([]byte, error)
	WriteFile(filename string, data []byte, perm uint32) error
	MkdirAll(path string, perm uint32) error
	Stat(name string) (FileInfo, error)
	ReadDir(dirname string) ([]DirEntry, error)
	Getwd() (string, error)
	Executable() (string, error)
}

// FileInfo はファイル情報のインターフェース
type FileInfo interface {
	Name() string
	IsDir() bool
}

// DirEntry はディレクトリエントリのインターフェース
type DirEntry interface {
	Name() string
	IsDir() bool
}

// ArchiveFinder は.zipアーカイブを検索するインターフェースです
type ArchiveFinder interface {
	Find() (string, error)
}

// AudioSink は音声リソースを受け取り再生する側のインターフェースです。
// Load は事前読み込み、Play は1回の発音を表します。
type AudioSink interface {
	Load(id string, data []byte) error
	Play(id string)
}

// Surface は再生状態を表示する側のインターフェースです
type Surface interface {
	Resume()
	Update(state models.TickState)
	Pause()
}

// Ticker は再生ループに時刻を届けるインターフェースです
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// Logger はログ出力のインターフェース
type Logger interface {
	Printf(format string, a ...any)
}
