// Package archive は譜面アーカイブの読み込みと展開を行います
package archive

import (
	"context"
	"fmt"

	playererrors "github.com/shiroemons/go-webbms/internal/player/errors"
	"github.com/shiroemons/go-webbms/internal/player/interfaces"
	"github.com/shiroemons/go-webbms/pkg/ziparc"
)

// Loader はファイルシステムからアーカイブを読み込みます
type Loader struct {
	fs     interfaces.FileSystem
	logger interfaces.Logger
}

// NewLoader は新しいLoaderを作成します
func NewLoader(fs interfaces.FileSystem, logger interfaces.Logger) *Loader {
	return &Loader{fs: fs, logger: logger}
}

// Open はアーカイブファイルを読み込み、中央ディレクトリを解析します
func (l *Loader) Open(ctx context.Context, archivePath string) (*ziparc.Archive, error) {
	// コンテキストのキャンセルチェック
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if !l.fs.FileExists(archivePath) {
		return nil, playererrors.NewArchiveError(playererrors.OpOpen, archivePath, playererrors.ErrFileNotFound)
	}

	buf, err := l.fs.ReadFile(archivePath)
	if err != nil {
		return nil, playererrors.NewArchiveError(playererrors.OpRead, archivePath, err)
	}
	l.logger.Printf("アーカイブ %s を読み込みました（%d バイト）\n", archivePath, len(buf))

	a, err := ziparc.Parse(buf)
	if err != nil {
		return nil, playererrors.NewArchiveError(playererrors.OpParse, archivePath,
			fmt.Errorf("%w: %w", playererrors.ErrInvalidArchive, err))
	}
	if len(a.Names()) == 0 {
		return nil, playererrors.NewArchiveError(playererrors.OpParse, archivePath, ErrEmptyArchive)
	}
	l.logger.Printf("%d 個のエントリを検出しました\n", len(a.Names()))

	return a, nil
}
