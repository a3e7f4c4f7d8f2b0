// Package errors はアーカイブと譜面の読み込みで使うエラー型を提供します
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrFileNotFound はアーカイブファイルが存在しない場合のエラー
	ErrFileNotFound = errors.New("アーカイブファイルが見つかりません")

	// ErrInvalidArchive はZIPとして読めない場合のエラー
	ErrInvalidArchive = errors.New("ZIPアーカイブとして読み込めません")

	// ErrChartNotFound は指定した譜面がアーカイブに無い場合のエラー
	ErrChartNotFound = errors.New("アーカイブに譜面ファイルがありません")

	// ErrParseFailure は譜面のテキストを解釈できない場合のエラー
	ErrParseFailure = errors.New("譜面を解釈できません")
)

// Op は読み込みのどの段階で失敗したかを表します
type Op string

const (
	OpOpen   Op = "open"   // アーカイブファイルの確認
	OpRead   Op = "read"   // ファイルまたはエントリの読み込み
	OpParse  Op = "parse"  // 中央ディレクトリの解析
	OpSelect Op = "select" // 譜面エントリの選択
)

// Location はアーカイブとエントリを "song.zip:song/a.bms" の形で表します。
// どちらかが空の場合はもう一方だけを返します。
func Location(archive, entry string) string {
	switch {
	case archive == "":
		return entry
	case entry == "":
		return archive
	default:
		return archive + ":" + entry
	}
}

// LoadError はアーカイブ、またはアーカイブ内のエントリの読み込みに失敗したことを表します
type LoadError struct {
	Op      Op
	Archive string // アーカイブのパス。分からない場合は空
	Entry   string // エントリ名。アーカイブ自体の失敗では空
	Err     error
}

func (e *LoadError) Error() string {
	loc := Location(e.Archive, e.Entry)
	if loc == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, loc, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// NewArchiveError はアーカイブ自体の読み込みエラーを作成します
func NewArchiveError(op Op, archive string, err error) *LoadError {
	return &LoadError{Op: op, Archive: archive, Err: err}
}

// NewEntryError はアーカイブ内のエントリに関するエラーを作成します。
// archive が分からない段階では空にして、後で WithArchive で補います。
func NewEntryError(op Op, archive, entry string, err error) *LoadError {
	return &LoadError{Op: op, Archive: archive, Entry: entry, Err: err}
}

// ParseError は譜面エントリの解析エラーです
type ParseError struct {
	Archive string
	Chart   string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s の解析エラー: %v", Location(e.Archive, e.Chart), e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError は新しいParseErrorを作成します
func NewParseError(archive, chart string, err error) *ParseError {
	return &ParseError{Archive: archive, Chart: chart, Err: err}
}

// WithArchive は err に含まれる LoadError と ParseError のアーカイブ名が空なら archive で埋めます
func WithArchive(err error, archive string) error {
	var le *LoadError
	if errors.As(err, &le) && le.Archive == "" {
		le.Archive = archive
	}
	var pe *ParseError
	if errors.As(err, &pe) && pe.Archive == "" {
		pe.Archive = archive
	}
	return err
}
