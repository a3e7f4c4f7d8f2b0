// Package config はwebbmsコマンドの設定管理を行います
package config

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/pflag"
)

const Version = "0.1.0"

const (
	// DefaultInterval は再生ループのティック間隔です
	DefaultInterval = 15 * time.Millisecond

	// DefaultAddr はHTTPサーバーの待ち受けアドレスです
	DefaultAddr = ":8080"

	// DefaultWorkers は並列抽出のワーカー数です
	DefaultWorkers = 4
)

// Config はアプリケーションの設定を保持します
type Config struct {
	ArchivePath string
	ChartName   string
	OutputDir   string
	OutputFile  string
	Interval    time.Duration
	Limit       time.Duration
	Addr        string
	Workers     int
	DebugMode   bool
	ShowVersion bool
}

// New はデフォルト値で初期化されたConfigを返します
func New() *Config {
	return &Config{
		OutputDir: ".",
		Interval:  DefaultInterval,
		Addr:      DefaultAddr,
		Workers:   DefaultWorkers,
	}
}

// BindPersistentFlags は全サブコマンド共通のフラグを登録します
func (c *Config) BindPersistentFlags(fs *pflag.FlagSet) {
	fs.BoolVarP(&c.DebugMode, "debug", "d", c.DebugMode, "enable debug output")
	fs.BoolVarP(&c.ShowVersion, "version", "v", c.ShowVersion, "show version information")
}

// BindChartFlags は譜面の指定に関するフラグを登録します
func (c *Config) BindChartFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.ChartName, "chart", "c", c.ChartName, "chart entry inside the archive (auto-detected if omitted)")
}

// BindPlayFlags は再生ループのフラグを登録します
func (c *Config) BindPlayFlags(fs *pflag.FlagSet) {
	fs.DurationVar(&c.Interval, "interval", c.Interval, "tick interval of the playback loop")
	fs.DurationVar(&c.Limit, "limit", c.Limit, "stop playback after this duration (0 = until the chart ends)")
}

// BindServeFlags はHTTPサーバーのフラグを登録します
func (c *Config) BindServeFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.Addr, "addr", c.Addr, "listen address of the HTTP server")
}

// BindExtractFlags は抽出のフラグを登録します
func (c *Config) BindExtractFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.OutputDir, "output", "o", c.OutputDir, "output directory for the extracted files")
	fs.IntVarP(&c.Workers, "workers", "w", c.Workers, "number of worker goroutines for extraction")
}

// BindExportFlags はMIDI出力のフラグを登録します
func (c *Config) BindExportFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.OutputFile, "output", "o", c.OutputFile, "output .mid file (default <archive>.mid)")
}

// HandleVersion はバージョン表示を処理します。表示した場合は true を返します。
func HandleVersion(w io.Writer, showVersion bool) bool {
	if showVersion {
		fmt.Fprintf(w, "webbms version %s\n", Version)
	}
	return showVersion
}

// DebugLogger はデバッグ出力を管理します
type DebugLogger struct {
	enabled bool
	out     io.Writer
}

// NewDebugLogger は標準エラー出力に書き込むDebugLoggerを作成します
func NewDebugLogger(enabled bool) *DebugLogger {
	return NewDebugLoggerTo(enabled, os.Stderr)
}

// NewDebugLoggerTo は出力先を指定してDebugLoggerを作成します
func NewDebugLoggerTo(enabled bool, w io.Writer) *DebugLogger {
	return &DebugLogger{enabled: enabled, out: w}
}

// Enabled はデバッグモードが有効かを返します
func (d *DebugLogger) Enabled() bool {
	return d.enabled
}

// Printf はデバッグモードが有効な場合のみメッセージを表示します
func (d *DebugLogger) Printf(format string, a ...any) {
	if d.enabled {
		fmt.Fprintf(d.out, format, a...)
	}
}
