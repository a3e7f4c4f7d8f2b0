package bms

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

// ErrDecode は譜面テキストの文字コード変換に失敗した場合のエラー
var ErrDecode = errors.New("譜面の文字コード変換に失敗しました")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decode は譜面ファイルの内容を文字列にします。
// UTF-8として妥当ならそのまま、そうでなければShift-JISとして変換します。
func Decode(data []byte) (string, error) {
	if bytes.HasPrefix(data, utf8BOM) {
		return string(data[len(utf8BOM):]), nil
	}
	if utf8.Valid(data) {
		return string(data), nil
	}

	reader := transform.NewReader(bytes.NewReader(data), japanese.ShiftJIS.NewDecoder())
	ret, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return string(ret), nil
}

// ParseBytes は譜面ファイルの内容を文字コード変換してから解析します
func ParseBytes(data []byte) (*Chart, error) {
	text, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return Parse(text), nil
}
