package mocks

import (
	"archive/zip"
	"bytes"
	"time"
)

// ArchiveFile はテスト用アーカイブに格納するファイルです
type ArchiveFile struct {
	Name string
	Data []byte
}

// SampleChart はテスト用の譜面です。120BPMで2小節、途中でBPMが変わります。
const SampleChart = "#PLAYER 1\r\n" +
	"#GENRE Test\r\n" +
	"#TITLE Sample\r\n" +
	"#ARTIST tester\r\n" +
	"#BPM 120\r\n" +
	"#PLAYLEVEL 3\r\n" +
	"#WAV01 kick.wav\r\n" +
	"#WAV02 Snare.WAV\r\n" +
	"#WAV03 hat.wav\r\n" +
	"#WAVZZ missing.wav\r\n" +
	"#BMP01 bg.bmp\r\n" +
	"#00001:01\r\n" +
	"#00011:0202\r\n" +
	"#00004:01\r\n" +
	"#00103:F0\r\n" +
	"#00112:ZZ\r\n"

// SampleFiles はSampleChartと、そのリソースを格納したファイル一覧を返します。
// snare と hat は大文字小文字の違いと.ogg代替で解決されます。
func SampleFiles() []ArchiveFile {
	return []ArchiveFile{
		{Name: "sample.bms", Data: []byte(SampleChart)},
		{Name: "kick.wav", Data: []byte("RIFFkick")},
		{Name: "snare.wav", Data: []byte("RIFFsnare")},
		{Name: "hat.ogg", Data: []byte("OggShat")},
		{Name: "bg.png", Data: []byte("\x89PNG")},
	}
}

// BuildArchive は無圧縮エントリだけを持つZIPを作成します
func BuildArchive(files []ArchiveFile) ([]byte, error) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, f := range files {
		fw, err := w.CreateHeader(&zip.FileHeader{
			Name:     f.Name,
			Method:   zip.Store,
			Modified: time.Date(2016, 4, 1, 12, 0, 0, 0, time.UTC),
		})
		if err != nil {
			return nil, err
		}
		if _, err := fw.Write(f.Data); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
