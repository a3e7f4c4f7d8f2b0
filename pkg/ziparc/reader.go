package ziparc

import (
	"encoding/binary"

	"golang.org/x/text/encoding/charmap"
)

const (
	endOfDirectorySignature = 0x06054b50
	centralHeaderSignature  = 0x02014b50

	endOfDirectorySize = 22 // シグネチャ + 固定長18バイト (コメント長を含む)
	centralHeaderSize  = 46
	localHeaderSize    = 30
)

// 中央ディレクトリレコード内のフィールド位置
const (
	cdUncompressedSize = 20
	cdNameLength       = 28
	cdExtraLength      = 30
	cdCommentLength    = 32
	cdLocalOffset      = 42

	eocdDirectoryOffset = 16

	localNameLength  = 26
	localExtraLength = 28
)

// Parse はバッファの中央ディレクトリを解析してArchiveを返します。
// 終端レコードのシグネチャが見つからない場合は *FormatError を返します。
func Parse(buf []byte) (*Archive, error) {
	dirOffset, err := findDirectoryOffset(buf)
	if err != nil {
		return nil, err
	}
	if dirOffset > len(buf) {
		return nil, &FormatError{Offset: dirOffset, Err: ErrTruncated}
	}

	a := &Archive{
		buf:     buf,
		entries: make(map[string]Entry),
		names:   make([]string, 0),
	}

	offset := dirOffset
	for offset+4 <= len(buf) && binary.LittleEndian.Uint32(buf[offset:]) == centralHeaderSignature {
		if offset+centralHeaderSize > len(buf) {
			return nil, &FormatError{Offset: offset, Err: ErrTruncated}
		}
		record := buf[offset:]

		length := int(binary.LittleEndian.Uint32(record[cdUncompressedSize:]))
		nameLen := int(binary.LittleEndian.Uint16(record[cdNameLength:]))
		extraLen := int(binary.LittleEndian.Uint16(record[cdExtraLength:]))
		commentLen := int(binary.LittleEndian.Uint16(record[cdCommentLength:]))
		localOffset := int(binary.LittleEndian.Uint32(record[cdLocalOffset:]))

		nameEnd := offset + centralHeaderSize + nameLen
		if nameEnd > len(buf) {
			return nil, &FormatError{Offset: offset, Err: ErrTruncated}
		}
		name := decodeSingleByte(buf[offset+centralHeaderSize : nameEnd])

		dataOffset, err := skipLocalHeader(buf, localOffset)
		if err != nil {
			return nil, err
		}
		if length < 0 || dataOffset+length > len(buf) {
			return nil, &FormatError{Offset: localOffset, Err: ErrTruncated}
		}

		// 同名エントリは後勝ち。順序は最初の出現位置を保つ
		if _, exists := a.entries[name]; !exists {
			a.names = append(a.names, name)
		}
		a.entries[name] = Entry{Name: name, Offset: dataOffset, Length: length}

		offset = nameEnd + extraLen + commentLen
	}

	return a, nil
}

// findDirectoryOffset は末尾から終端レコードを探し、中央ディレクトリの開始位置を返します
func findDirectoryOffset(buf []byte) (int, error) {
	// 終端レコードは固定長部分だけで22バイトあるので、len-22 より後ろからは探さない
	for i := len(buf) - endOfDirectorySize; i >= 0; i-- {
		if binary.LittleEndian.Uint32(buf[i:]) == endOfDirectorySignature {
			return int(binary.LittleEndian.Uint32(buf[i+eocdDirectoryOffset:])), nil
		}
	}
	return 0, &FormatError{Offset: -1, Err: ErrNoEndOfDirectory}
}

// skipLocalHeader はローカルヘッダを読み飛ばしたデータ本体の位置を返します
func skipLocalHeader(buf []byte, offset int) (int, error) {
	if offset < 0 || offset+localHeaderSize > len(buf) {
		return 0, &FormatError{Offset: offset, Err: ErrTruncated}
	}
	nameLen := int(binary.LittleEndian.Uint16(buf[offset+localNameLength:]))
	extraLen := int(binary.LittleEndian.Uint16(buf[offset+localExtraLength:]))
	return offset + localHeaderSize + nameLen + extraLen, nil
}

// decodeSingleByte は各バイトをそのまま1文字として扱います
func decodeSingleByte(b []byte) string {
	s, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(s)
}

// RawName はエントリ名をアーカイブに格納されていたバイト列に戻します。
// 名前は1バイト1文字で読み込んでいるため、元のバイト列を失わずに別の文字コードで解釈し直せます。
func RawName(name string) []byte {
	b, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(name))
	if err != nil {
		return []byte(name)
	}
	return b
}
