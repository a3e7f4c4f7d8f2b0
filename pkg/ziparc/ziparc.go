// Package ziparc はBMS配布用のZIPアーカイブからエントリを取り出すためのパッケージです。
//
// 汎用のZIPライブラリとは異なり、中央ディレクトリを末尾から辿ってエントリ名とバイト範囲の
// 対応表を作るだけで、展開処理は行いません。エントリは無圧縮(stored)で格納されている前提です。
//
// 基本的な使い方:
//
//	archive, err := ziparc.Parse(buf)
//	if err != nil {
//	    return err
//	}
//	for _, name := range archive.Names() {
//	    data, ok := archive.ContentBuffer(name)
//	    if !ok {
//	        continue
//	    }
//	    // エントリを処理...
//	}
package ziparc

import (
	"bytes"
	"io"
	"strings"
)

// Entry はアーカイブ内のエントリを表します
type Entry struct {
	Name   string
	Offset int // データ本体の開始位置
	Length int // 無圧縮サイズ
}

// End はエントリの終端位置を返します
func (e Entry) End() int {
	return e.Offset + e.Length
}

// Archive はメモリ上に読み込まれたZIPアーカイブを表します
type Archive struct {
	buf     []byte
	entries map[string]Entry
	names   []string // 中央ディレクトリの順序
}

// Size はコンテナ全体のバイト数を返します
func (a *Archive) Size() int {
	return len(a.buf)
}

// Names はエントリ名を中央ディレクトリの順序で返します
func (a *Archive) Names() []string {
	names := make([]string, len(a.names))
	copy(names, a.names)
	return names
}

// Entries はエントリを中央ディレクトリの順序で返します
func (a *Archive) Entries() []Entry {
	entries := make([]Entry, 0, len(a.names))
	for _, name := range a.names {
		entries = append(entries, a.entries[name])
	}
	return entries
}

// Lookup は名前が完全一致するエントリを返します
func (a *Archive) Lookup(name string) (Entry, bool) {
	e, ok := a.entries[name]
	return e, ok
}

// LookupFold は大文字小文字を区別せずにエントリを検索します。
// 完全一致するエントリがあればそれを優先します。
func (a *Archive) LookupFold(name string) (Entry, bool) {
	if e, ok := a.Lookup(name); ok {
		return e, true
	}
	for _, n := range a.names {
		if strings.EqualFold(n, name) {
			return a.entries[n], true
		}
	}
	return Entry{}, false
}

// ContentBuffer はエントリの内容をコピーして返します。
// エントリが存在しない場合は false を返します（エラーではありません）。
func (a *Archive) ContentBuffer(name string) ([]byte, bool) {
	e, ok := a.entries[name]
	if !ok {
		return nil, false
	}
	return bytes.Clone(a.buf[e.Offset:e.End()]), true
}

// ContentString はエントリの内容を1バイト1文字として文字列で返します
func (a *Archive) ContentString(name string) (string, bool) {
	e, ok := a.entries[name]
	if !ok {
		return "", false
	}
	return decodeSingleByte(a.buf[e.Offset:e.End()]), true
}

// Extract はエントリの内容を w に書き込みます
func (a *Archive) Extract(name string, w io.Writer) error {
	e, ok := a.entries[name]
	if !ok {
		return &EntryError{Name: name, Err: ErrEntryNotFound}
	}
	if _, err := w.Write(a.buf[e.Offset:e.End()]); err != nil {
		return &EntryError{Name: name, Err: err}
	}
	return nil
}
