// Package app はwebbmsコマンドの各操作を実装します
package app

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shiroemons/go-webbms/internal/player/archive"
	"github.com/shiroemons/go-webbms/internal/player/config"
	"github.com/shiroemons/go-webbms/internal/player/export"
	"github.com/shiroemons/go-webbms/internal/player/fileutil"
	"github.com/shiroemons/go-webbms/internal/player/interfaces"
	"github.com/shiroemons/go-webbms/internal/player/server"
	"github.com/shiroemons/go-webbms/internal/player/session"
	"github.com/shiroemons/go-webbms/pkg/ziparc"
)

// App はアプリケーションのメインロジックを管理します
type App struct {
	config    *config.Config
	logger    interfaces.Logger
	fs        interfaces.FileSystem
	finder    interfaces.ArchiveFinder
	loader    *archive.Loader
	out       io.Writer
	errOut    io.Writer
	sink      interfaces.AudioSink
	surface   interfaces.Surface
	now       func() time.Time
	newTicker func(time.Duration) interfaces.Ticker
}

// Options はAppの設定オプション
type Options struct {
	FileSystem interfaces.FileSystem
	Finder     interfaces.ArchiveFinder
	Logger     interfaces.Logger
	Out        io.Writer // 既定は標準出力
	ErrOut     io.Writer // 既定は標準エラー出力
	Sink       interfaces.AudioSink
	Surface    interfaces.Surface
	Now        func() time.Time
	NewTicker  func(time.Duration) interfaces.Ticker
}

// New は新しいAppを作成します
func New(cfg *config.Config) *App {
	return NewWithOptions(cfg, Options{})
}

// NewWithOptions は新しいAppをオプション付きで作成します
func NewWithOptions(cfg *config.Config, opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = config.NewDebugLogger(cfg.DebugMode)
	}

	fs := opts.FileSystem
	if fs == nil {
		fs = fileutil.NewOSFileSystem()
	}

	finder := opts.Finder
	if finder == nil {
		finder = fileutil.NewArchiveFinder(fs)
	}

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	errOut := opts.ErrOut
	if errOut == nil {
		errOut = os.Stderr
	}

	sink := opts.Sink
	if sink == nil {
		sink = NullSink{}
	}
	surface := opts.Surface
	if surface == nil {
		surface = NewTextSurface(out)
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}
	newTicker := opts.NewTicker
	if newTicker == nil {
		newTicker = newTimeTicker
	}

	return &App{
		config:    cfg,
		logger:    logger,
		fs:        fs,
		finder:    finder,
		loader:    archive.NewLoader(fs, logger),
		out:       out,
		errOut:    errOut,
		sink:      sink,
		surface:   surface,
		now:       now,
		newTicker: newTicker,
	}
}

// archivePath は対象のアーカイブを決定します。指定が無い場合は自動検出します。
func (a *App) archivePath() (string, error) {
	if a.config.ArchivePath != "" {
		return a.config.ArchivePath, nil
	}

	found, err := a.finder.Find()
	if err != nil {
		return "", err
	}
	if found == "" {
		return "", ErrNoArchive
	}
	a.logger.Printf("自動検出したアーカイブ %s を使用します\n", filepath.Base(found))
	return found, nil
}

// openArchive はアーカイブを読み込みます
func (a *App) openArchive(ctx context.Context) (string, *ziparc.Archive, error) {
	path, err := a.archivePath()
	if err != nil {
		return "", nil, err
	}
	arc, err := a.loader.Open(ctx, path)
	if err != nil {
		return "", nil, err
	}
	return path, arc, nil
}

// openSession はアーカイブを読み込み、譜面のセッションを作成します
func (a *App) openSession(ctx context.Context) (string, *session.Session, error) {
	path, arc, err := a.openArchive(ctx)
	if err != nil {
		return "", nil, err
	}

	sess, err := session.FromArchive(arc, a.config.ChartName, session.Options{
		ArchiveName: filepath.Base(path),
		Logger:      a.logger,
	})
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrLoadSession, err)
	}
	return path, sess, nil
}

// List はアーカイブのエントリをサイズ付きで表示します
func (a *App) List(ctx context.Context) error {
	_, arc, err := a.openArchive(ctx)
	if err != nil {
		return err
	}

	total := 0
	for _, e := range arc.Entries() {
		fmt.Fprintf(a.out, "%10d  %s\n", e.Length, e.Name)
		total += e.Length
	}
	fmt.Fprintf(a.out, "%10d  (%d entries)\n", total, len(arc.Names()))
	return nil
}

// Extract は names に一致するエントリ（空の場合は全て）を出力ディレクトリに書き出します
func (a *App) Extract(ctx context.Context, names []string) error {
	_, arc, err := a.openArchive(ctx)
	if err != nil {
		return err
	}

	extractor := archive.NewExtractor(a.fs, a.logger, a.config.Workers)
	result, err := extractor.ExtractFiles(ctx, arc, a.config.OutputDir, names)
	for _, name := range result.NotFound {
		fmt.Fprintf(a.errOut, "警告: %s はアーカイブにありません\n", name)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%d 個のファイルを %s に抽出しました\n", len(result.Extracted), a.config.OutputDir)
	return nil
}

// Info は譜面の概要を表示します
func (a *App) Info(ctx context.Context) error {
	_, sess, err := a.openSession(ctx)
	if err != nil {
		return err
	}

	info := sess.Info()
	chart := sess.Chart()

	var b strings.Builder
	fmt.Fprintf(&b, "アーカイブ   : %s\n", info.Archive)
	fmt.Fprintf(&b, "譜面         : %s\n", info.Chart)
	fmt.Fprintf(&b, "タイトル     : %s\n", info.Title)
	fmt.Fprintf(&b, "アーティスト : %s\n", info.Artist)
	fmt.Fprintf(&b, "ジャンル     : %s\n", info.Genre)
	fmt.Fprintf(&b, "BPM          : %d\n", info.BPM)
	fmt.Fprintf(&b, "レベル       : %d\n", info.PlayLevel)
	fmt.Fprintf(&b, "小節数       : %d\n", info.Bars)
	fmt.Fprintf(&b, "ノーツ数     : %d\n", info.Notes)
	fmt.Fprintf(&b, "音声         : %d/%d\n", info.Sounds, len(chart.WAVTable()))
	fmt.Fprintf(&b, "画像         : %d/%d\n", info.Images, len(chart.BMPTable()))
	if len(info.Tempo) > 0 {
		b.WriteString("テンポ変化   :\n")
		for _, t := range info.Tempo {
			switch {
			case t.BPM != 0 && t.Scale != 0:
				fmt.Fprintf(&b, "  %8.3f  BPM %d  x%g\n", t.Time, t.BPM, t.Scale)
			case t.BPM != 0:
				fmt.Fprintf(&b, "  %8.3f  BPM %d\n", t.Time, t.BPM)
			default:
				fmt.Fprintf(&b, "  %8.3f  x%g\n", t.Time, t.Scale)
			}
		}
	}
	if len(info.Missing) > 0 {
		fmt.Fprintf(&b, "未解決のWAV  : %s\n", strings.Join(info.Missing, ", "))
	}

	fmt.Fprint(a.out, b.String())
	return nil
}

// Serve は譜面とリソースをHTTPで公開します。ctx がキャンセルされるまで戻りません。
func (a *App) Serve(ctx context.Context) error {
	_, sess, err := a.openSession(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s (%s) を http://%s で公開します\n", sess.ChartName(), sess.ID(), a.config.Addr)
	return server.New(sess, a.logger).ListenAndServe(ctx, a.config.Addr)
}

// Export は譜面をStandard MIDI Fileとして保存します
func (a *App) Export(ctx context.Context) error {
	path, sess, err := a.openSession(ctx)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if _, err := export.Export(sess.Chart(), &buf, export.Options{}); err != nil {
		return fmt.Errorf("%w: %w", ErrExportMIDI, err)
	}

	outputPath := a.config.OutputFile
	if outputPath == "" {
		outputPath = filepath.Join(a.config.OutputDir, fileutil.GenerateOutputFilename(path, ".mid"))
	}
	if err := fileutil.SaveToFile(a.fs, outputPath, buf.Bytes()); err != nil {
		return fmt.Errorf("%w: %w", ErrSaveFile, err)
	}

	fmt.Fprintf(a.out, "%s を %s に書き出しました（%d バイト）\n", sess.ChartName(), outputPath, buf.Len())
	return nil
}
